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
	"strings"

	. "github.com/pingcap/check"

	"github.com/flintdb/decimal/types/int128"
	"github.com/flintdb/decimal/util/testleak"
)

var _ = Suite(&testMutableSuite{})

type testMutableSuite struct {
}

func (s *testMutableSuite) TestSetters(c *C) {
	defer testleak.AfterTest(c)()
	m := NewMutableDecimal()
	c.Assert(m.Value().String(), Equals, "0")
	c.Assert(m.Value().Precision(), Equals, 1)
	c.Assert(m.Value().Scale(), Equals, 0)

	m.SetInt64(42)
	c.Assert(m.Value().String(), Equals, "42")
	c.Assert(m.Value().Precision(), Equals, 20)

	c.Assert(m.SetUnscaled(12345, 10, 2), IsTrue)
	c.Assert(m.Value().String(), Equals, "123.45")

	// a failed set leaves the held value untouched
	c.Assert(m.SetUnscaled(100, 2, 0), IsFalse)
	c.Assert(m.Value().String(), Equals, "123.45")

	m.SetUnscaledUnsafe(2000000000000000000, 19, 0)
	c.Assert(m.Value().IsCompact(), IsTrue)
	c.Assert(m.Value().String(), Equals, "2000000000000000000")

	c.Assert(m.SetInt128(int128.Pow10(20), 21, 0), IsTrue)
	c.Assert(m.Value().String(), Equals, "1"+strings.Repeat("0", 20))
	c.Assert(m.SetInt128(int128.Pow10(38), 38, 0), IsFalse)
	c.Assert(m.Value().String(), Equals, "1"+strings.Repeat("0", 20))

	c.Assert(m.SetBigInt(big.NewInt(500), 2), IsNil)
	c.Assert(m.Value().String(), Equals, "5.00")
	err := m.SetBigInt(bigPow(38), 0)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	c.Assert(m.Value().String(), Equals, "5.00")

	d := mustParse(c, "-7.25")
	m.SetDecimal(d)
	c.Assert(m.Value().String(), Equals, "-7.25")
	m.SetInt64(1)
	c.Assert(d.String(), Equals, "-7.25")
}

func (s *testMutableSuite) TestSetZero(c *C) {
	defer testleak.AfterTest(c)()
	m := NewMutableDecimal()
	c.Assert(m.SetUnscaled(12345, 10, 2), IsTrue)
	m.SetZero()
	c.Assert(m.Value().IsZero(), IsTrue)
	c.Assert(m.Value().String(), Equals, "0.00")
	c.Assert(m.Value().Precision(), Equals, 10)
	c.Assert(m.Value().Scale(), Equals, 2)
}

func (s *testMutableSuite) TestRescaleInPlace(c *C) {
	defer testleak.AfterTest(c)()
	m := NewMutableDecimal()
	c.Assert(m.SetUnscaled(12345, 10, 2), IsTrue)
	c.Assert(m.Rescale(10, 1, ModeHalfUp), IsNil)
	c.Assert(m.Value().String(), Equals, "123.5")

	err := m.Rescale(10, -1, ModeHalfUp)
	c.Assert(ErrNegativeScale.Equal(err), IsTrue)

	err = m.Rescale(10, 0, RoundMode(99))
	c.Assert(ErrUnsupportedRoundMode.Equal(err), IsTrue)
}

func (s *testMutableSuite) TestBorrowAndSnapshot(c *C) {
	defer testleak.AfterTest(c)()
	m := NewMutableDecimal()
	m.SetInt64(5)

	borrowed := m.Value()
	snap := m.Snapshot()
	m.SetInt64(7)

	// the borrowed pointer tracks the slot, the snapshot does not
	c.Assert(borrowed.String(), Equals, "7")
	c.Assert(snap.String(), Equals, "5")
}
