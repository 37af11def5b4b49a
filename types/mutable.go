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
	"math/big"

	"github.com/pingcap/errors"

	"github.com/flintdb/decimal/types/int128"
)

// MutableDecimal overwrites one decimal slot many times without
// reallocating, the single-owner style of aggregation loops. It is not
// safe for concurrent use.
type MutableDecimal struct {
	d Decimal
}

// NewMutableDecimal returns a builder holding 0 as DECIMAL(1, 0).
func NewMutableDecimal() *MutableDecimal {
	m := new(MutableDecimal)
	m.d.setCompact(0, 1, 0)
	return m
}

// SetInt64 overwrites the held value like NewDecFromInt64.
func (m *MutableDecimal) SetInt64(v int64) {
	m.d.setCompact(v, int64Precision, 0)
}

// SetUnscaled overwrites the held value with unscaled/10^scale, reporting
// false when precision cannot hold it. On failure the held value is left
// untouched.
func (m *MutableDecimal) SetUnscaled(unscaled int64, precision, scale int) bool {
	return m.d.setUnscaled(unscaled, precision, scale)
}

// SetUnscaledUnsafe trusts the caller's precision and skips the digit
// check.
func (m *MutableDecimal) SetUnscaledUnsafe(unscaled int64, precision, scale int) {
	m.d.setCompact(unscaled, precision, scale)
}

// SetInt128 overwrites the held value with a 128-bit unscaled value,
// reporting false when precision cannot hold it.
func (m *MutableDecimal) SetInt128(v int128.Int128, precision, scale int) bool {
	return m.d.setUnscaledWide(v, precision, scale)
}

// SetBigInt overwrites the held value like NewDecFromBigInt.
func (m *MutableDecimal) SetBigInt(unscaled *big.Int, scale int) error {
	d, err := NewDecFromBigInt(unscaled, scale)
	if err != nil {
		return errors.Trace(err)
	}
	m.d = *d
	return nil
}

// SetDecimal copies v into the builder.
func (m *MutableDecimal) SetDecimal(v *Decimal) {
	m.d = *v
}

// SetZero resets the held value to zero, keeping its precision and scale.
func (m *MutableDecimal) SetZero() {
	prec := int(m.d.precision)
	if prec < 1 {
		prec = 1
	}
	m.d.setCompact(0, prec, int(m.d.scale))
}

// Rescale adjusts the held value in place under mode, adopting the new
// precision and scale without a digit re-check. ToPrecision on the
// snapshot is the checked variant.
func (m *MutableDecimal) Rescale(precision, scale int, mode RoundMode) error {
	return errors.Trace(m.d.rescaleTo(precision, scale, mode))
}

// Value borrows the held value. The pointer is valid only until the next
// Set or Rescale call, in the style of bytes.Buffer.Bytes; use Snapshot
// when the value escapes the loop.
func (m *MutableDecimal) Value() *Decimal {
	return &m.d
}

// Snapshot returns an independent copy of the held value.
func (m *MutableDecimal) Snapshot() *Decimal {
	return m.d.Clone()
}
