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

//go:build !leak

package testleak

import (
	"github.com/pingcap/check"
)

// BeforeTest is a dummy implementation when the build tag 'leak' is not set.
func BeforeTest() {
}

// AfterTest is a dummy implementation when the build tag 'leak' is not set.
func AfterTest(c *check.C) func() {
	return func() {
	}
}
