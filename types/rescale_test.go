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
	"strings"

	. "github.com/pingcap/check"

	"github.com/flintdb/decimal/types/int128"
	"github.com/flintdb/decimal/util/testleak"
)

var _ = Suite(&testRescaleSuite{})

type testRescaleSuite struct {
}

func (s *testRescaleSuite) TestRoundingModes(c *C) {
	defer testleak.AfterTest(c)()
	cases := []struct {
		unscaled int64
		scale    int
		mode     RoundMode
		want     string
	}{
		{15, 1, ModeHalfUp, "2"},
		{14, 1, ModeHalfUp, "1"},
		{-15, 1, ModeHalfUp, "-2"},
		{-14, 1, ModeHalfUp, "-1"},
		{15, 1, ModeHalfEven, "2"},
		{25, 1, ModeHalfEven, "2"},
		{35, 1, ModeHalfEven, "4"},
		{-25, 1, ModeHalfEven, "-2"},
		{-35, 1, ModeHalfEven, "-4"},
		{26, 1, ModeHalfEven, "3"},
		{15, 1, ModeCeiling, "2"},
		{11, 1, ModeCeiling, "2"},
		{-15, 1, ModeCeiling, "-1"},
		{15, 1, ModeFloor, "1"},
		{-15, 1, ModeFloor, "-2"},
		{-11, 1, ModeFloor, "-2"},
		{20, 1, ModeHalfUp, "2"},
		{20, 1, ModeFloor, "2"},
	}
	for _, ca := range cases {
		comment := Commentf("unscaled=%d scale=%d mode=%d", ca.unscaled, ca.scale, ca.mode)
		d, ok := NewDecFromUnscaled(ca.unscaled, 10, ca.scale)
		c.Assert(ok, IsTrue, comment)
		r, err := d.ToPrecision(10, 0, ca.mode, OverflowError)
		c.Assert(err, IsNil, comment)
		c.Assert(r.String(), Equals, ca.want, comment)
		c.Assert(r.Scale(), Equals, 0, comment)
	}
}

func (s *testRescaleSuite) TestToPrecisionPolicy(c *C) {
	defer testleak.AfterTest(c)()
	d, err := NewDecFromString("123.45")
	c.Assert(err, IsNil)

	// same scale, tighter precision: the digits no longer fit
	_, err = d.ToPrecision(4, 2, ModeHalfUp, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := d.ToPrecision(4, 2, ModeHalfUp, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)

	// dropping a fraction digit makes it fit again
	r, err = d.ToPrecision(4, 1, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "123.5")
	c.Assert(r.Precision(), Equals, 4)

	// the receiver is never touched
	c.Assert(d.String(), Equals, "123.45")

	_, err = d.ToPrecision(0, 0, ModeHalfUp, OverflowNull)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	_, err = d.ToPrecision(39, 0, ModeHalfUp, OverflowNull)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
}

func (s *testRescaleSuite) TestRescaleRoundTrip(c *C) {
	defer testleak.AfterTest(c)()
	d, err := NewDecFromString("123.45")
	c.Assert(err, IsNil)

	up, err := d.ToPrecision(10, 6, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(up.String(), Equals, "123.450000")
	c.Assert(up.Compare(d), Equals, 0)

	back, err := up.ToPrecision(5, 2, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(back.String(), Equals, "123.45")
}

func (s *testRescaleSuite) TestRescaleCrossForm(c *C) {
	defer testleak.AfterTest(c)()
	// scaling a compact value up can need the expanded form
	d, ok := NewDecFromUnscaled(900000000000000000, 18, 0)
	c.Assert(ok, IsTrue)
	c.Assert(d.IsCompact(), IsTrue)
	up, err := d.ToPrecision(38, 20, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(up.IsCompact(), IsFalse)
	c.Assert(up.Compare(d), Equals, 0)
	c.Assert(up.String(), Equals, "900000000000000000."+strings.Repeat("0", 20))

	// rounding an expanded value down folds it back into the compact form
	wideUnscaled, err := int128.Rescale(int128.FromInt64(12345), 20)
	c.Assert(err, IsNil)
	w, ok := NewDecFromInt128(wideUnscaled, 25, 20)
	c.Assert(ok, IsTrue)
	c.Assert(w.IsCompact(), IsFalse)
	down, err := w.ToPrecision(10, 0, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(down.IsCompact(), IsTrue)
	c.Assert(down.String(), Equals, "12345")
}

func (s *testRescaleSuite) TestRescaleUpOverflow(c *C) {
	defer testleak.AfterTest(c)()
	d, ok := NewDecFromUnscaled(900000000000000000, 18, 0)
	c.Assert(ok, IsTrue)
	_, err := d.ToPrecision(38, 25, ModeHalfUp, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := d.ToPrecision(38, 25, ModeHalfUp, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)
}

func (s *testRescaleSuite) TestRescaleScaleBounds(c *C) {
	defer testleak.AfterTest(c)()
	d, err := NewDecFromString("1.5")
	c.Assert(err, IsNil)
	_, err = d.ToPrecision(38, 39, ModeHalfUp, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := d.ToPrecision(38, 39, ModeHalfUp, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)
}

func (s *testRescaleSuite) TestUnsupportedRoundMode(c *C) {
	defer testleak.AfterTest(c)()
	d, err := NewDecFromString("1.5")
	c.Assert(err, IsNil)
	_, err = d.ToPrecision(10, 0, RoundMode(99), OverflowError)
	c.Assert(ErrUnsupportedRoundMode.Equal(err), IsTrue)
	// the mode is rejected even when no digit would be dropped
	_, err = d.ToPrecision(10, 4, RoundMode(99), OverflowNull)
	c.Assert(ErrUnsupportedRoundMode.Equal(err), IsTrue)
}

func (s *testRescaleSuite) TestNegativeScaleGate(c *C) {
	defer testleak.AfterTest(c)()
	d, err := NewDecFromString("123.45")
	c.Assert(err, IsNil)
	_, err = d.ToPrecision(5, -1, ModeHalfUp, OverflowError)
	c.Assert(ErrNegativeScale.Equal(err), IsTrue)

	restore := enableNegativeScale()
	defer restore()
	r, err := d.ToPrecision(5, -1, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.Scale(), Equals, -1)
	c.Assert(r.String(), Equals, "120")
}

func (s *testRescaleSuite) TestDeepDigitDrop(c *C) {
	defer testleak.AfterTest(c)()
	restore := enableNegativeScale()
	defer restore()

	// a full-range int64 holds 19 digits, one past the compact table, and
	// rounding them all away must still look at the dropped digits
	d := NewDecFromInt64(9200000000000000000)
	r, err := d.ToPrecision(20, -19, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "1"+strings.Repeat("0", 19))

	r, err = d.ToPrecision(20, -19, ModeFloor, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "0")

	d = NewDecFromInt64(-9200000000000000000)
	r, err = d.ToPrecision(20, -19, ModeHalfUp, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-1"+strings.Repeat("0", 19))
}
