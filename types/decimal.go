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

// Package types implements the exact fixed-point DECIMAL value type that
// query execution computes on, together with its arithmetic, rescaling,
// comparison and hashing.
package types

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/pingcap/errors"

	"github.com/flintdb/decimal/config"
	"github.com/flintdb/decimal/types/int128"
	math2 "github.com/flintdb/decimal/util/math"
)

// Decimal size limits.
const (
	// MaxPrecision is the widest DECIMAL the engine supports.
	MaxPrecision = 38
	// MaxScale bounds the digits to the right of the decimal point.
	MaxScale = 38
	// MaxCompactDigits is the widest unscaled magnitude the compact form
	// normally holds. Wider values use the expanded 128-bit form.
	MaxCompactDigits = 18

	// int64Precision is the precision declared for values built from a
	// native integer. An int64 needs at most 19 digits, a uint64 at most 20.
	int64Precision = 20

	// divMinScale is the smallest scale a division result is given.
	divMinScale = 6
)

// maxCompact bounds the checked compact form: |unscaled| < maxCompact.
// Values built straight from an int64 may exceed it and stay compact; every
// arithmetic fast path therefore re-checks magnitudes, not just the form.
const maxCompact int64 = 1e18

// pow10 holds the powers of ten representable in an int64.
var pow10 = [19]int64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18,
}

// form tags which raw payload of a Decimal is live.
type form int8

const (
	formCompact form = iota
	formExpanded
)

// Decimal is an exact fixed-point DECIMAL(precision, scale) value: the
// number unscaled / 10^scale. Unscaled values within 18 digits ride in a
// compact int64, wider ones in an expanded 128-bit integer, and construction
// folds expanded values back into the compact form whenever they fit.
//
// The exported API never mutates a Decimal, so values can be shared freely
// once built. MutableDecimal covers the overwrite-in-place style used by
// aggregation hot paths. The zero Decimal is the number 0.
type Decimal struct {
	precision int8
	scale     int8
	form      form
	compact   int64
	expanded  int128.Int128
}

func (d *Decimal) setCompact(v int64, precision, scale int) {
	d.precision, d.scale = int8(precision), int8(scale)
	d.form, d.compact, d.expanded = formCompact, v, int128.Int128{}
}

// setRaw128 stores v, folding it into the compact form when it fits.
// Precision and scale are left alone.
func (d *Decimal) setRaw128(v int128.Int128) {
	if v64, ok := compactFromInt128(v); ok {
		d.form, d.compact, d.expanded = formCompact, v64, int128.Int128{}
		return
	}
	d.form, d.compact, d.expanded = formExpanded, 0, v
}

func (d *Decimal) setExpanded(v int128.Int128, precision, scale int) {
	d.setRaw128(v)
	d.precision, d.scale = int8(precision), int8(scale)
}

// setUnscaled stores unscaled/10^scale, reporting false when the value
// carries more digits than precision allows. On failure d is untouched.
func (d *Decimal) setUnscaled(unscaled int64, precision, scale int) bool {
	if unscaled <= -maxCompact || unscaled >= maxCompact {
		return d.setUnscaledWide(int128.FromInt64(unscaled), precision, scale)
	}
	if precision < MaxCompactDigits {
		if p := pow10[precision]; unscaled <= -p || unscaled >= p {
			return false
		}
	}
	d.setCompact(unscaled, precision, scale)
	return true
}

func (d *Decimal) setUnscaledWide(v int128.Int128, precision, scale int) bool {
	if !int128.FitsInPrecision(v, mathutil.Min(precision, MaxPrecision)) {
		return false
	}
	d.setExpanded(v, precision, scale)
	return true
}

// compactFromInt128 narrows v when its magnitude is below 10^18.
func compactFromInt128(v int128.Int128) (int64, bool) {
	v64, ok := int128.ToInt64(v)
	if !ok || v64 <= -maxCompact || v64 >= maxCompact {
		return 0, false
	}
	return v64, true
}

// NewDecFromInt64 builds a scale-0 decimal from v. The whole int64 range
// stays on the compact form, precision is declared as 20.
func NewDecFromInt64(v int64) *Decimal {
	d := new(Decimal)
	d.setCompact(v, int64Precision, 0)
	return d
}

// NewDecFromUint64 builds a scale-0 decimal from v.
func NewDecFromUint64(v uint64) *Decimal {
	d := new(Decimal)
	if v > math.MaxInt64 {
		d.setExpanded(int128.FromUint64(v), int64Precision, 0)
		return d
	}
	d.setCompact(int64(v), int64Precision, 0)
	return d
}

// NewDecFromUnscaled builds unscaled/10^scale as a DECIMAL(precision,
// scale). The ok result is false when the value does not fit the requested
// precision; arithmetic uses this as its try-then-NULL construction.
func NewDecFromUnscaled(unscaled int64, precision, scale int) (*Decimal, bool) {
	d := new(Decimal)
	if !d.setUnscaled(unscaled, precision, scale) {
		return nil, false
	}
	return d, true
}

// NewDecUnsafe trusts the caller's precision and skips the digit check.
func NewDecUnsafe(unscaled int64, precision, scale int) *Decimal {
	d := new(Decimal)
	d.setCompact(unscaled, precision, scale)
	return d
}

// NewDecFromInt128 builds unscaled/10^scale from a 128-bit unscaled value.
// The ok result is false when the value does not fit the requested
// precision.
func NewDecFromInt128(v int128.Int128, precision, scale int) (*Decimal, bool) {
	d := new(Decimal)
	if !d.setUnscaledWide(v, precision, scale) {
		return nil, false
	}
	return d, true
}

// NewDecFromBigInt builds unscaled/10^scale from an arbitrary-precision
// literal, deriving the precision from the significand's digit count. A
// negative scale is multiplied out to scale 0 unless allow-negative-scale
// is on.
func NewDecFromBigInt(unscaled *big.Int, scale int) (*Decimal, error) {
	v, err := int128.FromBigInt(unscaled)
	if err != nil {
		return nil, errDecimalOverflow(MaxPrecision, scale)
	}
	prec := digitsOfBig(unscaled)
	if prec < scale {
		// SQL wants precision >= scale: 0.01 carries one significant
		// digit but needs two fraction digits.
		prec = scale
	}
	if scale < 0 {
		if !config.GetGlobalConfig().AllowNegativeScale {
			if prec-scale > MaxPrecision {
				// reject before materializing the power of ten
				return nil, errDecimalOverflow(MaxPrecision, 0)
			}
			v, err = int128.Rescale(v, -scale)
			if err != nil {
				return nil, errDecimalOverflow(MaxPrecision, 0)
			}
			prec, scale = prec-scale, 0
		} else if scale < -MaxScale {
			return nil, ErrNegativeScale.GenWithStackByArgs(scale)
		}
	}
	if prec > MaxPrecision {
		return nil, errDecimalOverflow(MaxPrecision, scale)
	}
	d := new(Decimal)
	d.setExpanded(v, prec, scale)
	return d, nil
}

// NewDecFromBigIntWithPrec rounds unscaled/10^scale half up to targetScale
// and verifies the result fits DECIMAL(targetPrec, targetScale). Unlike the
// checked integer constructors a misfit here is a hard error, matching cast
// positions where NULL is not an option.
func NewDecFromBigIntWithPrec(unscaled *big.Int, scale, targetPrec, targetScale int) (*Decimal, error) {
	if targetPrec < 1 || targetPrec > MaxPrecision || targetScale > targetPrec || targetScale < -MaxScale {
		return nil, errDecimalOverflow(targetPrec, targetScale)
	}
	if targetScale < 0 && !config.GetGlobalConfig().AllowNegativeScale {
		return nil, ErrNegativeScale.GenWithStackByArgs(targetScale)
	}
	if unscaled.Sign() == 0 {
		d := new(Decimal)
		d.setCompact(0, targetPrec, targetScale)
		return d, nil
	}
	diff := targetScale - scale
	if diff > MaxPrecision {
		// a nonzero value scaled up past the full width cannot fit
		return nil, errDecimalOverflow(targetPrec, targetScale)
	}
	if limit := -(digitsOfBig(unscaled) + 1); diff < limit {
		// dropping more digits than the value has rounds to zero either
		// way; capping keeps the power of ten small
		diff = limit
	}
	v, err := int128.FromBigInt(unscaled)
	if err != nil {
		if diff >= 0 {
			return nil, errDecimalOverflow(targetPrec, targetScale)
		}
		// a significand wider than 128 bits can still round down into range
		v, err = int128.FromBigIntRound(unscaled, -diff, int128.RoundHalfUp)
	} else if diff != 0 {
		v, err = int128.Rescale(v, diff)
	}
	if err != nil {
		return nil, errDecimalOverflow(targetPrec, targetScale)
	}
	if !int128.FitsInPrecision(v, targetPrec) {
		return nil, errDecimalOverflow(targetPrec, targetScale)
	}
	d := new(Decimal)
	d.setExpanded(v, targetPrec, targetScale)
	return d, nil
}

// NewDecFromString parses a decimal literal: an optional sign, digits with
// at most one decimal point, and an optional exponent. The whole string
// must parse; trailing garbage is an error, not a truncation.
func NewDecFromString(s string) (*Decimal, error) {
	orig := s
	if s == "" {
		return nil, ErrBadNumber.GenWithStackByArgs(orig)
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	mant := s
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return nil, ErrBadNumber.GenWithStackByArgs(orig)
		}
		mant, exp = s[:i], e
	}
	intPart, fracPart := mant, ""
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		intPart, fracPart = mant[:i], mant[i+1:]
	}
	digits := intPart + fracPart
	if digits == "" {
		return nil, ErrBadNumber.GenWithStackByArgs(orig)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, ErrBadNumber.GenWithStackByArgs(orig)
		}
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, ErrBadNumber.GenWithStackByArgs(orig)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return NewDecFromBigInt(unscaled, len(fracPart)-exp)
}

// digitsOfBig counts the decimal digits of |v|. Zero counts as one digit.
func digitsOfBig(v *big.Int) int {
	if v.IsInt64() {
		n := v.Int64()
		if n < 0 {
			return math2.StrLenOfUint64Fast(uint64(-n))
		}
		return math2.StrLenOfUint64Fast(uint64(n))
	}
	return len(new(big.Int).Abs(v).String())
}

// Precision returns the declared digit capacity.
func (d *Decimal) Precision() int { return int(d.precision) }

// Scale returns the digits to the right of the decimal point.
func (d *Decimal) Scale() int { return int(d.scale) }

// IsCompact reports whether the unscaled value rides the compact int64.
func (d *Decimal) IsCompact() bool { return d.form == formCompact }

// UnscaledInt64 returns the compact unscaled value. The ok result is false
// on the expanded form.
func (d *Decimal) UnscaledInt64() (int64, bool) {
	if d.form != formCompact {
		return 0, false
	}
	return d.compact, true
}

// UnscaledInt128 returns the unscaled value widened to 128 bits.
func (d *Decimal) UnscaledInt128() int128.Int128 {
	if d.form == formCompact {
		return int128.FromInt64(d.compact)
	}
	return d.expanded
}

// UnscaledBigInt returns the unscaled value as a fresh big.Int.
func (d *Decimal) UnscaledBigInt() *big.Int {
	return int128.ToBigInt(d.UnscaledInt128())
}

// Sign returns -1 for negative values, 0 for zero and 1 for positive.
func (d *Decimal) Sign() int {
	if d.form == formCompact {
		switch {
		case d.compact < 0:
			return -1
		case d.compact > 0:
			return 1
		}
		return 0
	}
	return int128.Sign(d.expanded)
}

// IsZero reports whether d is zero at any scale.
func (d *Decimal) IsZero() bool { return d.Sign() == 0 }

// IsNegative reports whether d < 0.
func (d *Decimal) IsNegative() bool { return d.Sign() < 0 }

// Clone returns an independent copy of d.
func (d *Decimal) Clone() *Decimal {
	c := *d
	return &c
}

// Abs returns |d| with the same precision and scale.
func (d *Decimal) Abs() *Decimal {
	if d.Sign() >= 0 {
		return d.Clone()
	}
	return DecimalNeg(d)
}

// Floor rounds d toward negative infinity to scale 0.
func (d *Decimal) Floor() (*Decimal, error) {
	return d.roundToIntegral(ModeFloor)
}

// Ceil rounds d toward positive infinity to scale 0.
func (d *Decimal) Ceil() (*Decimal, error) {
	return d.roundToIntegral(ModeCeiling)
}

func (d *Decimal) roundToIntegral(mode RoundMode) (*Decimal, error) {
	if d.scale <= 0 {
		return d.Clone(), nil
	}
	prec := mathutil.Max(int(d.precision)-int(d.scale)+1, 1)
	return d.ToPrecision(prec, 0, mode, OverflowError)
}

// String renders d in plain decimal notation: exactly scale digits after
// the point, a negative scale multiplied out.
func (d *Decimal) String() string {
	var digits string
	neg := false
	if d.form == formCompact {
		neg = d.compact < 0
		digits = strconv.FormatUint(uint64(math2.Abs(d.compact)), 10)
	} else {
		neg = int128.IsNegative(d.expanded)
		digits = new(big.Int).Abs(int128.ToBigInt(d.expanded)).String()
	}
	s := int(d.scale)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	switch {
	case s <= 0:
		b.WriteString(digits)
		if digits != "0" {
			for i := 0; i < -s; i++ {
				b.WriteByte('0')
			}
		}
	case len(digits) <= s:
		b.WriteString("0.")
		for i := len(digits); i < s; i++ {
			b.WriteByte('0')
		}
		b.WriteString(digits)
	default:
		b.WriteString(digits[:len(digits)-s])
		b.WriteByte('.')
		b.WriteString(digits[len(digits)-s:])
	}
	return b.String()
}

// Float64 converts d with the usual binary rounding.
func (d *Decimal) Float64() (float64, error) {
	f, err := strconv.ParseFloat(d.String(), 64)
	return f, errors.Trace(err)
}

// GoString implements fmt.GoStringer for debug output.
func (d *Decimal) GoString() string {
	return fmt.Sprintf("Decimal(%s p=%d s=%d compact=%t)",
		d.String(), d.precision, d.scale, d.form == formCompact)
}
