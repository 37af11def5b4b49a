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
	"math"

	"github.com/cznic/mathutil"
	"github.com/pingcap/errors"

	"github.com/flintdb/decimal/types/int128"
)

// OverflowPolicy selects how the operators report a result that cannot fit
// its derived type.
type OverflowPolicy int8

const (
	// OverflowError raises ErrOverflow, the strict SQL behavior.
	OverflowError OverflowPolicy = iota
	// OverflowNull degrades the result to NULL instead.
	OverflowNull
)

// overflowOrNull resolves an out-of-range result per policy. The NULL
// result is the (nil, nil) pair.
func overflowOrNull(policy OverflowPolicy, precision, scale int) (*Decimal, error) {
	if policy == OverflowNull {
		return nil, nil
	}
	return nil, errDecimalOverflow(precision, scale)
}

// alignedOperands widens a and b to 128 bits at the common scale.
func alignedOperands(a, b *Decimal, scale int) (int128.Int128, int128.Int128, error) {
	av, bv := a.UnscaledInt128(), b.UnscaledInt128()
	if ds := scale - a.Scale(); ds > 0 {
		scaled, err := int128.Rescale(av, ds)
		if err != nil {
			return av, bv, errors.Trace(err)
		}
		av = scaled
	}
	if ds := scale - b.Scale(); ds > 0 {
		scaled, err := int128.Rescale(bv, ds)
		if err != nil {
			return av, bv, errors.Trace(err)
		}
		bv = scaled
	}
	return av, bv, nil
}

// addWrapped reports two's-complement wrap of sum = a + b: same-sign
// operands whose sum flips sign.
func addWrapped(a, b, sum int128.Int128) bool {
	an, bn := int128.IsNegative(a), int128.IsNegative(b)
	return an == bn && int128.IsNegative(sum) != an
}

// subWrapped reports wrap of diff = a - b: opposite-sign operands where the
// difference leaves a's sign.
func subWrapped(a, b, diff int128.Int128) bool {
	an, bn := int128.IsNegative(a), int128.IsNegative(b)
	return an != bn && int128.IsNegative(diff) != an
}

// DecimalAdd returns a + b typed DECIMAL(max(i1, i2) + s + 1, s) where
// s = max(s1, s2) and i is each operand's count of integral digits.
func DecimalAdd(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	scale := mathutil.Max(a.Scale(), b.Scale())
	prec := mathutil.Min(scale+mathutil.Max(a.Precision()-a.Scale(), b.Precision()-b.Scale())+1, MaxPrecision)
	if a.form == formCompact && b.form == formCompact && a.scale == b.scale &&
		a.compact > -maxCompact && a.compact < maxCompact &&
		b.compact > -maxCompact && b.compact < maxCompact {
		// both magnitudes below 10^18, the int64 sum cannot wrap
		if d, ok := NewDecFromUnscaled(a.compact+b.compact, prec, scale); ok {
			return d, nil
		}
		return overflowOrNull(policy, prec, scale)
	}
	av, bv, err := alignedOperands(a, b, scale)
	if err != nil {
		return overflowOrNull(policy, prec, scale)
	}
	sum := int128.Add(av, bv)
	if addWrapped(av, bv, sum) || int128.Overflows(sum) {
		return overflowOrNull(policy, prec, scale)
	}
	d := new(Decimal)
	d.setExpanded(sum, prec, scale)
	return d, nil
}

// DecimalSub returns a - b, typed like DecimalAdd.
func DecimalSub(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	scale := mathutil.Max(a.Scale(), b.Scale())
	prec := mathutil.Min(scale+mathutil.Max(a.Precision()-a.Scale(), b.Precision()-b.Scale())+1, MaxPrecision)
	if a.form == formCompact && b.form == formCompact && a.scale == b.scale &&
		a.compact > -maxCompact && a.compact < maxCompact &&
		b.compact > -maxCompact && b.compact < maxCompact {
		if d, ok := NewDecFromUnscaled(a.compact-b.compact, prec, scale); ok {
			return d, nil
		}
		return overflowOrNull(policy, prec, scale)
	}
	av, bv, err := alignedOperands(a, b, scale)
	if err != nil {
		return overflowOrNull(policy, prec, scale)
	}
	diff := int128.Sub(av, bv)
	if subWrapped(av, bv, diff) || int128.Overflows(diff) {
		return overflowOrNull(policy, prec, scale)
	}
	d := new(Decimal)
	d.setExpanded(diff, prec, scale)
	return d, nil
}

// DecimalMul returns a * b typed DECIMAL(p1 + p2 + 1, s1 + s2). When the
// natural scale exceeds MaxScale the product is reduced half up to fit;
// two negative operand scales can also push it under -MaxScale, where the
// product is scaled up instead.
func DecimalMul(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	natural := a.Scale() + b.Scale()
	scale := mathutil.Max(mathutil.Min(natural, MaxScale), -MaxScale)
	prec := mathutil.Min(a.Precision()+b.Precision()+1, MaxPrecision)
	product, err := int128.Mul(a.UnscaledInt128(), b.UnscaledInt128())
	if err == nil && natural != scale {
		product, err = int128.RescaleRound(product, scale-natural, int128.RoundHalfUp)
	}
	if err != nil || int128.Overflows(product) {
		return overflowOrNull(policy, prec, scale)
	}
	d := new(Decimal)
	d.setExpanded(product, prec, scale)
	return d, nil
}

// DecimalDiv returns a / b rounded half up at scale
// min(max(6, s1 + p2 + 1), 38). A zero divisor yields the NULL result
// whatever the policy says.
func DecimalDiv(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	if b.IsZero() {
		return nil, nil
	}
	scale := mathutil.Min(mathutil.Max(divMinScale, a.Scale()+b.Precision()+1), MaxScale)
	prec := mathutil.Min(a.Precision()-a.Scale()+b.Scale()+scale, MaxPrecision)
	if prec < scale {
		// a deeply negative divisor scale pushes the formula under the
		// result scale
		prec = scale
	}
	q, err := int128.DivRoundUp(a.UnscaledInt128(), b.UnscaledInt128(), scale-a.Scale()+b.Scale(), 1)
	if err != nil || int128.Overflows(q) {
		return overflowOrNull(policy, prec, scale)
	}
	d := new(Decimal)
	d.setExpanded(q, prec, scale)
	return d, nil
}

// DecimalMod returns the remainder of a / b at scale max(s1, s2), its sign
// following the dividend. A zero divisor yields the NULL result.
func DecimalMod(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	if b.IsZero() {
		return nil, nil
	}
	scale := mathutil.Max(a.Scale(), b.Scale())
	prec := mathutil.Min(mathutil.Min(a.Precision()-a.Scale(), b.Precision()-b.Scale())+scale, MaxPrecision)
	r, err := int128.Rem(a.UnscaledInt128(), b.UnscaledInt128(), scale-a.Scale(), scale-b.Scale())
	if err != nil || int128.Overflows(r) {
		return overflowOrNull(policy, prec, scale)
	}
	d := new(Decimal)
	d.setExpanded(r, prec, scale)
	return d, nil
}

// DecimalQuo returns the integral quotient of a / b: the division result
// truncated toward zero at scale 0, keeping the division's precision.
func DecimalQuo(a, b *Decimal, policy OverflowPolicy) (*Decimal, error) {
	q, err := DecimalDiv(a, b, policy)
	if q == nil || err != nil {
		return nil, errors.Trace(err)
	}
	if err = q.rescaleTo(q.Precision(), 0, modeTruncate); err != nil {
		return nil, errors.Trace(err)
	}
	return q, nil
}

// DecimalNeg returns -d with the same precision and scale.
func DecimalNeg(d *Decimal) *Decimal {
	to := d.Clone()
	if to.form == formCompact {
		if to.compact == math.MinInt64 {
			to.setRaw128(int128.Neg(int128.FromInt64(to.compact)))
		} else {
			to.compact = -to.compact
		}
		return to
	}
	to.setRaw128(int128.Neg(to.expanded))
	return to
}
