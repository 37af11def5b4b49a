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
	"strings"

	. "github.com/pingcap/check"

	"github.com/flintdb/decimal/util/testleak"
)

var _ = Suite(&testArithSuite{})

type testArithSuite struct {
}

func mustParse(c *C, s string) *Decimal {
	d, err := NewDecFromString(s)
	c.Assert(err, IsNil, Commentf("input %q", s))
	return d
}

func mustUnscaled(c *C, unscaled int64, precision, scale int) *Decimal {
	d, ok := NewDecFromUnscaled(unscaled, precision, scale)
	c.Assert(ok, IsTrue, Commentf("unscaled=%d precision=%d scale=%d", unscaled, precision, scale))
	return d
}

func (s *testArithSuite) TestAdd(c *C) {
	defer testleak.AfterTest(c)()
	a := mustUnscaled(c, 12345, 10, 2)
	b := mustUnscaled(c, 100, 10, 2)
	r, err := DecimalAdd(a, b, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "124.45")
	c.Assert(r.Precision(), Equals, 11)
	c.Assert(r.Scale(), Equals, 2)
	unscaled, ok := r.UnscaledInt64()
	c.Assert(ok, IsTrue)
	c.Assert(unscaled, Equals, int64(12445))

	// differing scales align to the wider one
	r, err = DecimalAdd(mustParse(c, "1.5"), mustParse(c, "0.25"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "1.75")
	c.Assert(r.Precision(), Equals, 4)
	c.Assert(r.Scale(), Equals, 2)

	r, err = DecimalAdd(mustParse(c, "-5"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-2")

	// int64 values past the compact bound take the wide path
	r, err = DecimalAdd(NewDecFromInt64(9200000000000000000), NewDecFromInt64(9200000000000000000), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "18400000000000000000")
	c.Assert(r.Precision(), Equals, 21)
}

func (s *testArithSuite) TestAddOverflow(c *C) {
	defer testleak.AfterTest(c)()
	nines := mustParse(c, strings.Repeat("9", 38))
	one := mustParse(c, "1")
	_, err := DecimalAdd(nines, one, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := DecimalAdd(nines, one, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)

	// aligned operands can sum past the 128-bit range and wrap back under
	// 38 digits; the sign rule must still flag it
	a := mustParse(c, "17"+strings.Repeat("0", 36))
	b := mustParse(c, "99"+strings.Repeat("0", 35)+".0")
	_, err = DecimalAdd(a, b, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err = DecimalAdd(a, b, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)

	_, err = DecimalSub(a, DecimalNeg(b), OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)

	// aligning alone can leave the 128-bit range
	tiny := mustParse(c, "0."+strings.Repeat("0", 37)+"5")
	_, err = DecimalAdd(nines, tiny, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err = DecimalAdd(nines, tiny, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)
}

func (s *testArithSuite) TestSub(c *C) {
	defer testleak.AfterTest(c)()
	r, err := DecimalSub(mustUnscaled(c, 12345, 10, 2), mustUnscaled(c, 100, 10, 2), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "122.45")
	c.Assert(r.Precision(), Equals, 11)

	r, err = DecimalSub(mustParse(c, "1.5"), mustParse(c, "2.25"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-0.75")

	r, err = DecimalSub(mustParse(c, "5"), mustParse(c, "5"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.IsZero(), IsTrue)
}

func (s *testArithSuite) TestMul(c *C) {
	defer testleak.AfterTest(c)()
	r, err := DecimalMul(mustParse(c, "1.5"), mustParse(c, "2.5"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "3.75")
	c.Assert(r.Precision(), Equals, 5)
	c.Assert(r.Scale(), Equals, 2)

	r, err = DecimalMul(mustParse(c, "-1.5"), mustParse(c, "2.5"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-3.75")

	r, err = DecimalMul(mustParse(c, "12345"), mustParse(c, "0"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.IsZero(), IsTrue)

	// the natural scale 76 is reduced half up to 38
	tiny := mustParse(c, "0."+strings.Repeat("0", 37)+"5")
	r, err = DecimalMul(tiny, mustParse(c, "0.3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.Scale(), Equals, 38)
	c.Assert(r.String(), Equals, "0."+strings.Repeat("0", 37)+"2")

	r, err = DecimalMul(tiny, tiny, OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.IsZero(), IsTrue)
}

func (s *testArithSuite) TestMulOverflow(c *C) {
	defer testleak.AfterTest(c)()
	// the product fits 128 bits but not 38 digits
	a := mustParse(c, "1"+strings.Repeat("0", 19))
	_, err := DecimalMul(a, a, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := DecimalMul(a, a, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)

	// the product does not even fit 128 bits
	nines := mustParse(c, strings.Repeat("9", 38))
	_, err = DecimalMul(nines, nines, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err = DecimalMul(nines, nines, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)

	// one digit past the cap
	ten := NewDecFromInt64(10)
	_, err = DecimalMul(nines, ten, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err = DecimalMul(nines, ten, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)
}

func (s *testArithSuite) TestDiv(c *C) {
	defer testleak.AfterTest(c)()
	r, err := DecimalDiv(mustUnscaled(c, 100, 5, 0), mustUnscaled(c, 3, 5, 0), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "33.333333")
	c.Assert(r.Precision(), Equals, 11)
	c.Assert(r.Scale(), Equals, 6)

	r, err = DecimalDiv(mustParse(c, "1"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "0.333333")
	c.Assert(r.Precision(), Equals, 7)

	r, err = DecimalDiv(mustParse(c, "2"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "0.666667")

	r, err = DecimalDiv(mustParse(c, "-100"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-33.333333")

	r, err = DecimalDiv(mustParse(c, "1"), mustParse(c, "2"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "0.500000")

	// the divisor's scale deepens the result scale
	r, err = DecimalDiv(mustParse(c, "1"), mustParse(c, "0.5"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.Scale(), Equals, 6)
	c.Assert(r.String(), Equals, "2.000000")
}

func (s *testArithSuite) TestDivByZero(c *C) {
	defer testleak.AfterTest(c)()
	a := mustParse(c, "123.45")
	zero := mustParse(c, "0")
	for _, policy := range []OverflowPolicy{OverflowError, OverflowNull} {
		r, err := DecimalDiv(a, zero, policy)
		c.Assert(err, IsNil)
		c.Assert(r, IsNil)
		r, err = DecimalMod(a, zero, policy)
		c.Assert(err, IsNil)
		c.Assert(r, IsNil)
		r, err = DecimalQuo(a, zero, policy)
		c.Assert(err, IsNil)
		c.Assert(r, IsNil)
	}
}

func (s *testArithSuite) TestDivOverflow(c *C) {
	defer testleak.AfterTest(c)()
	nines := mustParse(c, strings.Repeat("9", 38))
	micro := mustParse(c, "0.000001")
	_, err := DecimalDiv(nines, micro, OverflowError)
	c.Assert(ErrOverflow.Equal(err), IsTrue)
	r, err := DecimalDiv(nines, micro, OverflowNull)
	c.Assert(err, IsNil)
	c.Assert(r, IsNil)
}

func (s *testArithSuite) TestMod(c *C) {
	defer testleak.AfterTest(c)()
	cases := []struct {
		a, b, want string
		scale      int
	}{
		{"7", "3", "1", 0},
		{"-7", "3", "-1", 0},
		{"7", "-3", "1", 0},
		{"-7", "-3", "-1", 0},
		{"7.5", "2", "1.5", 1},
		{"5.25", "0.5", "0.25", 2},
		{"1", "3", "1", 0},
	}
	for _, ca := range cases {
		comment := Commentf("%s %% %s", ca.a, ca.b)
		r, err := DecimalMod(mustParse(c, ca.a), mustParse(c, ca.b), OverflowError)
		c.Assert(err, IsNil, comment)
		c.Assert(r.String(), Equals, ca.want, comment)
		c.Assert(r.Scale(), Equals, ca.scale, comment)
	}
}

func (s *testArithSuite) TestQuo(c *C) {
	defer testleak.AfterTest(c)()
	r, err := DecimalQuo(mustParse(c, "123.45"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "41")
	c.Assert(r.Scale(), Equals, 0)
	// the quotient keeps the division's precision
	c.Assert(r.Precision(), Equals, 9)

	// truncation, not rounding
	r, err = DecimalQuo(mustParse(c, "7"), mustParse(c, "2"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "3")

	r, err = DecimalQuo(mustParse(c, "-123.45"), mustParse(c, "3"), OverflowError)
	c.Assert(err, IsNil)
	c.Assert(r.String(), Equals, "-41")
}

func (s *testArithSuite) TestNeg(c *C) {
	defer testleak.AfterTest(c)()
	c.Assert(DecimalNeg(mustParse(c, "5")).String(), Equals, "-5")
	c.Assert(DecimalNeg(mustParse(c, "-5")).String(), Equals, "5")
	c.Assert(DecimalNeg(mustParse(c, "0")).String(), Equals, "0")

	// the most negative int64 cannot stay compact
	d := DecimalNeg(NewDecFromInt64(math.MinInt64))
	c.Assert(d.IsCompact(), IsFalse)
	c.Assert(d.String(), Equals, "9223372036854775808")
	c.Assert(d.Precision(), Equals, 20)
	c.Assert(d.Scale(), Equals, 0)

	nines := strings.Repeat("9", 38)
	c.Assert(DecimalNeg(mustParse(c, nines)).String(), Equals, "-"+nines)
}

func (s *testArithSuite) TestCommutativity(c *C) {
	defer testleak.AfterTest(c)()
	pairs := [][2]string{
		{"1.5", "0.25"},
		{"-3.14", "2.72"},
		{"123456789.123456789", "-987654321.987654321"},
		{strings.Repeat("9", 30), "0.5"},
	}
	for _, p := range pairs {
		comment := Commentf("operands %s, %s", p[0], p[1])
		a, b := mustParse(c, p[0]), mustParse(c, p[1])
		ab, err := DecimalAdd(a, b, OverflowError)
		c.Assert(err, IsNil, comment)
		ba, err := DecimalAdd(b, a, OverflowError)
		c.Assert(err, IsNil, comment)
		c.Assert(ab.Compare(ba), Equals, 0, comment)

		ab, err = DecimalMul(a, b, OverflowError)
		c.Assert(err, IsNil, comment)
		ba, err = DecimalMul(b, a, OverflowError)
		c.Assert(err, IsNil, comment)
		c.Assert(ab.Compare(ba), Equals, 0, comment)
	}
}

func (s *testArithSuite) TestCompare(c *C) {
	defer testleak.AfterTest(c)()
	cases := []struct {
		a, b string
		want int
	}{
		{"1.5", "1.50", 0},
		{"2", "10", -1},
		{"-3", "2", -1},
		{"0.00", "0", 0},
		{"-1.5", "-1.45", -1},
		{"100", "99.999999", 1},
	}
	for _, ca := range cases {
		comment := Commentf("%s vs %s", ca.a, ca.b)
		a, b := mustParse(c, ca.a), mustParse(c, ca.b)
		c.Assert(a.Compare(b), Equals, ca.want, comment)
		c.Assert(b.Compare(a), Equals, -ca.want, comment)
		c.Assert(a.Equal(b), Equals, ca.want == 0, comment)
	}

	// equality disregards declared precision and scale
	a := mustUnscaled(c, 500, 3, 2)
	b := mustUnscaled(c, 50, 2, 1)
	c.Assert(a.Compare(b), Equals, 0)
	c.Assert(a.Equal(b), IsTrue)

	// values too wide to align still order by sign
	wide := mustParse(c, strings.Repeat("9", 38))
	tiny := mustParse(c, "0."+strings.Repeat("0", 37)+"5")
	c.Assert(tiny.Compare(wide), Equals, -1)
	c.Assert(wide.Compare(tiny), Equals, 1)
	negWide := DecimalNeg(wide)
	c.Assert(tiny.Compare(negWide), Equals, 1)
	c.Assert(negWide.Compare(tiny), Equals, -1)
}
