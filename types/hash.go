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
	"encoding/binary"
	"math/big"

	"github.com/spaolacci/murmur3"

	"github.com/flintdb/decimal/types/int128"
)

// hashKeyLen is the fixed key size: 16 raw-value bytes plus one scale byte.
const hashKeyLen = 17

var big10 = big.NewInt(10)

// ToHashKey returns canonical key bytes for d: the unscaled value with its
// trailing zeros stripped, little endian in two's complement, followed by
// the canonical scale. Zero canonicalizes to scale 0 and a negative scale
// is multiplied out, so every value equal under Compare yields one key.
func (d *Decimal) ToHashKey() []byte {
	scale := int(d.scale)
	if d.form == formCompact {
		c := d.compact
		if c == 0 {
			scale = 0
		}
		for scale > 0 && c%10 == 0 {
			c, scale = c/10, scale-1
		}
		if scale >= 0 {
			return hashKeyOf(int128.FromInt64(c), scale)
		}
		return wideHashKey(big.NewInt(c), scale)
	}
	// the expanded form never holds zero
	b := int128.ToBigInt(d.expanded)
	q, r := new(big.Int), new(big.Int)
	for scale > 0 {
		q.QuoRem(b, big10, r)
		if r.Sign() != 0 {
			break
		}
		b, q = q, b
		scale--
	}
	if scale >= 0 {
		if v, err := int128.FromBigInt(b); err == nil {
			return hashKeyOf(v, scale)
		}
	}
	return wideHashKey(b, scale)
}

// Hash returns a 64-bit hash agreeing with Compare: values that compare
// equal hash equal, whatever representation or scale they carry.
func (d *Decimal) Hash() uint64 {
	return murmur3.Sum64(d.ToHashKey())
}

func hashKeyOf(v int128.Int128, scale int) []byte {
	var key [hashKeyLen]byte
	binary.LittleEndian.PutUint64(key[:8], v.LowBits())
	binary.LittleEndian.PutUint64(key[8:16], uint64(v.HighBits()))
	key[16] = byte(scale)
	return key[:]
}

// wideHashKey canonicalizes values that left the 128-bit domain: a negative
// scale is multiplied out to scale 0, and a magnitude past 128 bits is
// encoded as sign byte, magnitude bytes and scale byte. Such keys are at
// least 18 bytes long, so they never collide with the fixed 17-byte form.
func wideHashKey(b *big.Int, scale int) []byte {
	if scale < 0 {
		exp := new(big.Int).Exp(big10, big.NewInt(int64(-scale)), nil)
		b = new(big.Int).Mul(b, exp)
		scale = 0
	}
	if v, err := int128.FromBigInt(b); err == nil {
		return hashKeyOf(v, scale)
	}
	sign := byte(0)
	if b.Sign() < 0 {
		sign = 1
	}
	mag := new(big.Int).Abs(b).Bytes()
	key := make([]byte, 0, len(mag)+2)
	key = append(key, sign)
	key = append(key, mag...)
	return append(key, byte(scale))
}
