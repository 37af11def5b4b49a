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
	"fmt"

	"github.com/pingcap/errors"
)

// Errors reported by the decimal engine. Callers classify with Equal, for
// example ErrOverflow.Equal(err).
var (
	// ErrOverflow is returned when a value is out of range for its type.
	ErrOverflow = errors.Normalize("%s value is out of range in '%s'", errors.RFCCodeText("types:ErrOverflow"))
	// ErrDivByZero is returned by callers that must surface a zero divisor.
	// The arithmetic operators themselves yield a NULL result instead.
	ErrDivByZero = errors.Normalize("division by 0", errors.RFCCodeText("types:ErrDivByZero"))
	// ErrBadNumber is returned when a string does not parse as a decimal.
	ErrBadNumber = errors.Normalize("invalid decimal value '%s'", errors.RFCCodeText("types:ErrBadNumber"))
	// ErrUnsupportedRoundMode is returned for rounding modes the rescale
	// engine does not implement.
	ErrUnsupportedRoundMode = errors.Normalize("unsupported rounding mode %v", errors.RFCCodeText("types:ErrUnsupportedRoundMode"))
	// ErrNegativeScale is returned when a negative scale is requested but
	// allow-negative-scale is off.
	ErrNegativeScale = errors.Normalize("negative scale %d is not allowed", errors.RFCCodeText("types:ErrNegativeScale"))
)

// errDecimalOverflow builds the ErrOverflow instance for a decimal target.
func errDecimalOverflow(precision, scale int) error {
	return ErrOverflow.GenWithStackByArgs("DECIMAL", fmt.Sprintf("(%d, %d)", precision, scale))
}
