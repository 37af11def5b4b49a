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

// Package int128 implements the 128-bit signed integer arithmetic backing
// the expanded form of the decimal value engine.
//
// An Int128 is a two's-complement (high, low) pair. Representation,
// comparison, precision fits and small powers of ten come from Apache
// Arrow's decimal128 type; the scaled division, remainder and rescale
// routines added here carry the exact, overflow-checked semantics the
// decimal engine needs. Intermediates wider than 64 bits run on math/big
// with cached powers of ten and pooled scratch values.
package int128

import (
	"math"
	"math/big"
	"math/bits"
	"sync"

	"github.com/apache/arrow/go/v14/arrow/decimal128"
	math2 "github.com/flintdb/decimal/util/math"
	"github.com/pingcap/errors"
)

// Int128 is a signed 128-bit integer in two's complement. The zero value is
// the integer 0. It aliases arrow's decimal128.Num, so the BigInt, Sign,
// LowBits and HighBits methods are available on it directly.
type Int128 = decimal128.Num

// Rounding selects how a digit-dropping rescale treats the dropped digits.
type Rounding int32

// Rounding values understood by RescaleRound.
const (
	RoundHalfUp Rounding = iota
	RoundHalfEven
	RoundCeiling
	RoundFloor
	// RoundDown truncates toward zero.
	RoundDown
)

var (
	// ErrOverflow is returned when an exact result needs more than 128 bits.
	ErrOverflow = errors.New("int128: value out of 128-bit range")
	// ErrDivByZero is returned on a zero divisor.
	ErrDivByZero = errors.New("int128: division by zero")
	// ErrNegativeFactor is returned when a rescale factor that must be
	// non-negative is negative.
	ErrNegativeFactor = errors.New("int128: negative rescale factor")
)

// MaxValue and MinValue bound the decimal domain: the 38-digit unscaled
// values ±(10^38 - 1). Both derive from the scale multiplier table;
// decimal128.MaxDecimal128 is miscoded upstream, see
// https://github.com/apache/arrow/issues/38395.
var (
	MaxValue = decimal128.GetMaxValue(38)
	MinValue = Neg(MaxValue)
)

// pow10i64 holds the powers of ten representable in an int64.
var pow10i64 = [19]int64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18,
}

// bigPow10Tab caches powers of ten for the wide paths. Entries are shared
// and must never be mutated by callers.
var bigPow10Tab [100]*big.Int

func init() {
	x := big.NewInt(1)
	ten := big.NewInt(10)
	for i := range bigPow10Tab {
		bigPow10Tab[i] = new(big.Int).Set(x)
		x.Mul(x, ten)
	}
}

func bigPow10(n int) *big.Int {
	if n < len(bigPow10Tab) {
		return bigPow10Tab[n]
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

var bigOne = big.NewInt(1)

var bigPool = sync.Pool{New: func() interface{} { return new(big.Int) }}

// New returns the integer high·2^64 + low.
func New(high int64, low uint64) Int128 {
	return decimal128.New(high, low)
}

// FromInt64 widens v to 128 bits.
func FromInt64(v int64) Int128 {
	return decimal128.FromI64(v)
}

// FromUint64 widens v to 128 bits.
func FromUint64(v uint64) Int128 {
	return decimal128.FromU64(v)
}

// FromBigInt converts v, failing with ErrOverflow when its magnitude needs
// more than 127 bits.
func FromBigInt(v *big.Int) (Int128, error) {
	if v.BitLen() > 127 {
		return Int128{}, errors.Trace(ErrOverflow)
	}
	return decimal128.FromBigInt(v), nil
}

// FromBigIntRound converts v after dropping digits decimal digits under the
// given rounding. It admits sources wider than 128 bits as long as the
// rounded result fits.
func FromBigIntRound(v *big.Int, digits int, rounding Rounding) (Int128, error) {
	if digits <= 0 {
		return FromBigInt(v)
	}
	x := new(big.Int).Set(v)
	rshRoundBig(x, digits, rounding)
	return FromBigInt(x)
}

// ToInt64 narrows v when it fits in an int64.
func ToInt64(v Int128) (int64, bool) {
	switch v.HighBits() {
	case 0:
		if v.LowBits() <= math.MaxInt64 {
			return int64(v.LowBits()), true
		}
	case -1:
		if v.LowBits() >= 1<<63 {
			return int64(v.LowBits()), true
		}
	}
	return 0, false
}

// ToBigInt returns v as an arbitrary-precision integer.
func ToBigInt(v Int128) *big.Int {
	return v.BigInt()
}

// Pow10 returns 10^n. n must lie in [0, 38].
func Pow10(n int) Int128 {
	return decimal128.GetScaleMultiplier(n)
}

// IsZero reports whether v == 0.
func IsZero(v Int128) bool {
	return v.Sign() == 0
}

// IsPositive reports whether v > 0.
func IsPositive(v Int128) bool {
	return v.Sign() > 0
}

// IsNegative reports whether v < 0.
func IsNegative(v Int128) bool {
	return v.HighBits() < 0
}

// Sign returns -1, 0 or 1.
func Sign(v Int128) int {
	return v.Sign()
}

// Compare orders a and b, returning -1, 0 or 1.
func Compare(a, b Int128) int {
	return a.Cmp(b)
}

// Overflows reports whether |v| exceeds the widest 38-digit decimal.
func Overflows(v Int128) bool {
	return !v.FitsInPrecision(38)
}

// FitsInPrecision reports whether |v| < 10^prec. prec must lie in [1, 38].
func FitsInPrecision(v Int128, prec int) bool {
	return v.FitsInPrecision(int32(prec))
}

// Add returns a+b, wrapping on 128-bit overflow. A wrapped sum of operands
// from the 38-digit domain always fails the Overflows check, which is where
// callers detect it.
func Add(a, b Int128) Int128 {
	return a.Add(b)
}

// Sub returns a-b under the same wrapping contract as Add.
func Sub(a, b Int128) Int128 {
	return a.Sub(b)
}

// Neg returns -v.
func Neg(v Int128) Int128 {
	lo := ^v.LowBits() + 1
	hi := ^v.HighBits()
	if lo == 0 {
		hi++
	}
	return New(hi, lo)
}

// Mul returns a·b. Unlike Add and Sub it must report overflow itself: a
// wrapped product can land back inside the 38-digit domain where the
// caller's digit check cannot see it.
func Mul(a, b Int128) (Int128, error) {
	a64, aok := ToInt64(a)
	b64, bok := ToInt64(b)
	if aok && bok {
		return mulInt64(a64, b64), nil
	}
	p := a.BigInt()
	p.Mul(p, b.BigInt())
	n, err := FromBigInt(p)
	if err != nil {
		return Int128{}, errors.Trace(err)
	}
	return n, nil
}

// mulInt64 multiplies exactly into 128 bits; |a|,|b| ≤ 2^63 keeps the
// product magnitude under 2^126.
func mulInt64(a, b int64) Int128 {
	hi, lo := bits.Mul64(uint64(math2.Abs(a)), uint64(math2.Abs(b)))
	n := New(int64(hi), lo)
	if (a < 0) != (b < 0) {
		n = Neg(n)
	}
	return n
}

// DivRoundUp computes a·10^(rescaleFactor+roundingDigits) / b truncated,
// then rounds the guard digits away half up. rescaleFactor aligns the
// quotient with the caller's result scale and may be negative;
// roundingDigits (≥ 0) is the number of guard digits.
func DivRoundUp(a, b Int128, rescaleFactor, roundingDigits int) (Int128, error) {
	if IsZero(b) {
		return Int128{}, errors.Trace(ErrDivByZero)
	}
	shift := rescaleFactor + roundingDigits
	if a64, ok := ToInt64(a); ok {
		if b64, ok2 := ToInt64(b); ok2 && shift >= 0 && shift <= 18 && absLT(a64, pow10i64[18-shift]) {
			q := rshRoundInt64(a64*pow10i64[shift]/b64, pow10i64[roundingDigits], RoundHalfUp)
			return FromInt64(q), nil
		}
	}
	num := a.BigInt()
	den := b.BigInt()
	if shift >= 0 {
		num.Mul(num, bigPow10(shift))
	} else {
		// a negative net shift scales the divisor instead, keeping the
		// truncated quotient exact
		den.Mul(den, bigPow10(-shift))
	}
	num.Quo(num, den)
	if roundingDigits > 0 {
		rshRoundBig(num, roundingDigits, RoundHalfUp)
	}
	n, err := FromBigInt(num)
	if err != nil {
		return Int128{}, errors.Trace(err)
	}
	return n, nil
}

// Rem computes the remainder of a·10^leftRescaleFactor by
// b·10^rightRescaleFactor, failing with ErrNegativeFactor when either
// factor is negative. The result carries the sign of the scaled dividend.
func Rem(a, b Int128, leftRescaleFactor, rightRescaleFactor int) (Int128, error) {
	if leftRescaleFactor < 0 || rightRescaleFactor < 0 {
		return Int128{}, errors.Trace(ErrNegativeFactor)
	}
	if IsZero(b) {
		return Int128{}, errors.Trace(ErrDivByZero)
	}
	if a64, ok := ToInt64(a); ok {
		if b64, ok2 := ToInt64(b); ok2 &&
			leftRescaleFactor <= 18 && absLT(a64, pow10i64[18-leftRescaleFactor]) &&
			rightRescaleFactor <= 18 && absLT(b64, pow10i64[18-rightRescaleFactor]) {
			r := (a64 * pow10i64[leftRescaleFactor]) % (b64 * pow10i64[rightRescaleFactor])
			return FromInt64(r), nil
		}
	}
	ra := a.BigInt()
	ra.Mul(ra, bigPow10(leftRescaleFactor))
	rb := b.BigInt()
	rb.Mul(rb, bigPow10(rightRescaleFactor))
	ra.Rem(ra, rb)
	n, err := FromBigInt(ra)
	if err != nil {
		return Int128{}, errors.Trace(err)
	}
	return n, nil
}

// Rescale multiplies v by 10^digits when digits is positive and divides,
// rounding half up, when digits is negative.
func Rescale(v Int128, digits int) (Int128, error) {
	return RescaleRound(v, digits, RoundHalfUp)
}

// RescaleTruncate is Rescale with truncation instead of rounding.
func RescaleTruncate(v Int128, digits int) (Int128, error) {
	return RescaleRound(v, digits, RoundDown)
}

// RescaleRound is Rescale under an explicit rounding; only digit-dropping
// (negative) rescales consult it. It panics on an unknown rounding.
func RescaleRound(v Int128, digits int, rounding Rounding) (Int128, error) {
	switch {
	case digits == 0 || IsZero(v):
		return v, nil
	case digits > 0:
		if v64, ok := ToInt64(v); ok && digits <= 18 && absLT(v64, math.MaxInt64/pow10i64[digits]+1) {
			return FromInt64(v64 * pow10i64[digits]), nil
		}
		p := v.BigInt()
		p.Mul(p, bigPow10(digits))
		n, err := FromBigInt(p)
		if err != nil {
			return Int128{}, errors.Trace(err)
		}
		return n, nil
	default:
		d := -digits
		if v64, ok := ToInt64(v); ok && d <= 18 {
			return FromInt64(rshRoundInt64(v64, pow10i64[d], rounding)), nil
		}
		q := v.BigInt()
		rshRoundBig(q, d, rounding)
		n, err := FromBigInt(q)
		if err != nil {
			return Int128{}, errors.Trace(err)
		}
		return n, nil
	}
}

// rshRoundInt64 divides v by the power of ten p, steering the dropped
// remainder by rounding. p must be positive.
func rshRoundInt64(v, p int64, rounding Rounding) int64 {
	q := v / p
	r := v % p
	if r == 0 {
		return q
	}
	switch rounding {
	case RoundDown:
	case RoundFloor:
		if r < 0 {
			q--
		}
	case RoundCeiling:
		if r > 0 {
			q++
		}
	case RoundHalfUp:
		if math2.Abs(r)*2 >= p {
			q = awayInt64(q, r)
		}
	case RoundHalfEven:
		dbl := math2.Abs(r) * 2
		if dbl > p || (dbl == p && q%2 != 0) {
			q = awayInt64(q, r)
		}
	default:
		panic("int128: unknown rounding")
	}
	return q
}

func awayInt64(q, r int64) int64 {
	if r < 0 {
		return q - 1
	}
	return q + 1
}

// rshRoundBig divides x in place by 10^digits under rounding.
func rshRoundBig(x *big.Int, digits int, rounding Rounding) {
	p := bigPow10(digits)
	r := bigPool.Get().(*big.Int)
	defer bigPool.Put(r)
	x.QuoRem(x, p, r)
	if r.Sign() == 0 {
		return
	}
	neg := r.Sign() < 0
	switch rounding {
	case RoundDown:
	case RoundFloor:
		if neg {
			x.Sub(x, bigOne)
		}
	case RoundCeiling:
		if !neg {
			x.Add(x, bigOne)
		}
	case RoundHalfUp:
		r.Abs(r).Lsh(r, 1)
		if r.Cmp(p) >= 0 {
			awayBig(x, neg)
		}
	case RoundHalfEven:
		r.Abs(r).Lsh(r, 1)
		if c := r.Cmp(p); c > 0 || (c == 0 && x.Bit(0) != 0) {
			awayBig(x, neg)
		}
	default:
		panic("int128: unknown rounding")
	}
}

func awayBig(x *big.Int, neg bool) {
	if neg {
		x.Sub(x, bigOne)
	} else {
		x.Add(x, bigOne)
	}
}

// absLT reports |v| < bound. The most negative int64 has no positive
// counterpart, so it is always out of range.
func absLT(v, bound int64) bool {
	a := math2.Abs(v)
	return a >= 0 && a < bound
}

