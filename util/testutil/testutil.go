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

package testutil

import (
	"fmt"

	"github.com/flintdb/decimal/types"
	"github.com/pingcap/check"
)

// decimalEqualsChecker is a checker for DecimalEquals.
type decimalEqualsChecker struct {
	*check.CheckerInfo
}

// DecimalEquals verifies that the obtained decimal compares equal to the
// expected one, disregarding precision and scale differences that denote
// the same number.
// For example:
//
//	c.Assert(value, DecimalEquals, types.NewDecFromInt64(42))
var DecimalEquals check.Checker = &decimalEqualsChecker{
	&check.CheckerInfo{Name: "DecimalEquals", Params: []string{"obtained", "expected"}},
}

func (checker *decimalEqualsChecker) Check(params []interface{}, names []string) (result bool, error string) {
	defer func() {
		if v := recover(); v != nil {
			result = false
			error = fmt.Sprint(v)
		}
	}()
	paramFirst, ok := params[0].(*types.Decimal)
	if !ok {
		panic("the first param should be a *types.Decimal")
	}
	paramSecond, ok := params[1].(*types.Decimal)
	if !ok {
		panic("the second param should be a *types.Decimal")
	}
	return paramFirst.Compare(paramSecond) == 0, ""
}
