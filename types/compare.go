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
	"github.com/flintdb/decimal/types/int128"
)

// CompareInt64 returns an integer comparing the int64 x to y.
func CompareInt64(x, y int64) int {
	if x < y {
		return -1
	} else if x == y {
		return 0
	}
	return 1
}

// Compare orders d against other, returning -1, 0 or 1. Values equal after
// aligning to a common scale compare equal whatever precision and scale
// they declare, so 5.00 as DECIMAL(3, 2) equals 5.0 as DECIMAL(2, 1).
func (d *Decimal) Compare(other *Decimal) int {
	if d.form == formCompact && other.form == formCompact && d.scale == other.scale {
		return CompareInt64(d.compact, other.compact)
	}
	dv, ov := d.UnscaledInt128(), other.UnscaledInt128()
	switch ds := int(d.scale) - int(other.scale); {
	case ds > 0:
		scaled, err := int128.Rescale(ov, ds)
		if err != nil {
			// other is too wide to align: its magnitude dominates any
			// 128-bit value, so its sign decides
			return -int128.Sign(ov)
		}
		ov = scaled
	case ds < 0:
		scaled, err := int128.Rescale(dv, -ds)
		if err != nil {
			return int128.Sign(dv)
		}
		dv = scaled
	}
	return int128.Compare(dv, ov)
}

// Equal reports whether d and other denote the same number. It is
// Compare == 0, not representation equality.
func (d *Decimal) Equal(other *Decimal) bool {
	return d.Compare(other) == 0
}
