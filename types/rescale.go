// Copyright 2023 FlintDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"github.com/pingcap/errors"

	"github.com/flintdb/decimal/config"
	"github.com/flintdb/decimal/types/int128"
	math2 "github.com/flintdb/decimal/util/math"
)

// RoundMode steers which way a digit-dropping rescale moves the result.
type RoundMode int32

// Rounding modes understood by the rescale engine.
const (
	// ModeHalfUp rounds away from zero when the dropped digits are at
	// least half a unit in the last kept place.
	ModeHalfUp RoundMode = iota
	// ModeHalfEven rounds an exact half to the nearest even neighbor.
	ModeHalfEven
	// ModeCeiling rounds toward positive infinity.
	ModeCeiling
	// ModeFloor rounds toward negative infinity.
	ModeFloor
	// modeTruncate drops digits toward zero. Internal, it backs the
	// integral quotient.
	modeTruncate
)

func validRoundMode(mode RoundMode) bool {
	switch mode {
	case ModeHalfUp, ModeHalfEven, ModeCeiling, ModeFloor, modeTruncate:
		return true
	}
	return false
}

// rounding128 maps a RoundMode onto the primitive module's enum.
func rounding128(mode RoundMode) int128.Rounding {
	switch mode {
	case ModeHalfUp:
		return int128.RoundHalfUp
	case ModeHalfEven:
		return int128.RoundHalfEven
	case ModeCeiling:
		return int128.RoundCeiling
	case ModeFloor:
		return int128.RoundFloor
	default:
		return int128.RoundDown
	}
}

// rescaleTo adjusts d's raw value so its numeric meaning survives at the
// target scale, then adopts the target precision and scale without
// re-checking the digit count. ToPrecision is the checked wrapper.
func (d *Decimal) rescaleTo(precision, scale int, mode RoundMode) error {
	if !validRoundMode(mode) {
		return ErrUnsupportedRoundMode.GenWithStackByArgs(mode)
	}
	if precision == int(d.precision) && scale == int(d.scale) {
		return nil
	}
	if scale > MaxScale || scale < -MaxScale {
		return errDecimalOverflow(precision, scale)
	}
	if scale < 0 && !config.GetGlobalConfig().AllowNegativeScale {
		return ErrNegativeScale.GenWithStackByArgs(scale)
	}
	diff := scale - int(d.scale)
	switch {
	case diff == 0:
		// only the declared precision changes
	case d.form == formCompact && diff < 0 && -diff <= MaxCompactDigits:
		d.compact = rshRoundCompact(d.compact, -diff, mode)
	case d.form == formCompact && diff < 0:
		// dropping more digits than the pow10 table covers; values built
		// from a full-range int64 can still hold 19 of them
		v, err := int128.RescaleRound(int128.FromInt64(d.compact), diff, rounding128(mode))
		if err != nil {
			return errDecimalOverflow(precision, scale)
		}
		d.setRaw128(v)
	case d.form == formCompact && diff <= MaxCompactDigits &&
		d.compact > -pow10[MaxCompactDigits-diff] && d.compact < pow10[MaxCompactDigits-diff]:
		d.compact *= pow10[diff]
	case d.form == formCompact:
		v, err := int128.Rescale(int128.FromInt64(d.compact), diff)
		if err != nil {
			return errDecimalOverflow(precision, scale)
		}
		d.setRaw128(v)
	default:
		v, err := int128.RescaleRound(d.expanded, diff, rounding128(mode))
		if err != nil {
			return errDecimalOverflow(precision, scale)
		}
		d.setRaw128(v)
	}
	d.precision, d.scale = int8(precision), int8(scale)
	return nil
}

// rshRoundCompact divides v by 10^digits, steering the dropped remainder by
// mode. digits must lie in [1, 18].
func rshRoundCompact(v int64, digits int, mode RoundMode) int64 {
	p := pow10[digits]
	q, r := v/p, v%p
	if r == 0 {
		return q
	}
	switch mode {
	case ModeHalfUp:
		if math2.Abs(r)*2 >= p {
			q = roundAway(q, r)
		}
	case ModeHalfEven:
		dbl := math2.Abs(r) * 2
		if dbl > p || (dbl == p && q%2 != 0) {
			q = roundAway(q, r)
		}
	case ModeCeiling:
		if r > 0 {
			q++
		}
	case ModeFloor:
		if r < 0 {
			q--
		}
	case modeTruncate:
	}
	return q
}

func roundAway(q, r int64) int64 {
	if r < 0 {
		return q - 1
	}
	return q + 1
}

// ToPrecision returns d rescaled to DECIMAL(precision, scale) under mode,
// verifying that the result's digits fit the requested precision. Per
// policy a misfit is either ErrOverflow or a nil result standing for NULL.
func (d *Decimal) ToPrecision(precision, scale int, mode RoundMode, policy OverflowPolicy) (*Decimal, error) {
	if precision < 1 || precision > MaxPrecision {
		return nil, errDecimalOverflow(precision, scale)
	}
	c := d.Clone()
	if err := c.rescaleTo(precision, scale, mode); err != nil {
		if ErrOverflow.Equal(err) {
			return overflowOrNull(policy, precision, scale)
		}
		return nil, errors.Trace(err)
	}
	if !c.fitsPrecision(precision) {
		return overflowOrNull(policy, precision, scale)
	}
	return c, nil
}

// fitsPrecision reports whether d's raw value stays within precision
// digits. precision must lie in [1, 38].
func (d *Decimal) fitsPrecision(precision int) bool {
	if d.form == formCompact {
		if precision > MaxCompactDigits {
			// any int64 is under 10^19
			return true
		}
		p := pow10[precision]
		return d.compact > -p && d.compact < p
	}
	return int128.FitsInPrecision(d.expanded, precision)
}
