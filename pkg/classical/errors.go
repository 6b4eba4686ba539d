// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classical

import "errors"

var (
	// ErrMissingValue indicates a left-boundary register got no value.
	ErrMissingValue = errors.New("missing classical value")

	// ErrUnexpectedValue indicates a value was supplied for a register the
	// boundary does not declare.
	ErrUnexpectedValue = errors.New("value for undeclared register")

	// ErrBadShape indicates a scalar value for a shaped register or an
	// array of the wrong length.
	ErrBadShape = errors.New("value shape mismatch")

	// ErrValueRange indicates a value outside the register's bit range.
	ErrValueRange = errors.New("value out of register range")

	// ErrWideRegister indicates a register wider than 64 bits, which the
	// classical engine cannot carry.
	ErrWideRegister = errors.New("register exceeds 64 bits")

	// ErrNonZeroFree indicates a wire that must be zero on discard (a Free,
	// or a zero-asserting effect) carried a nonzero value.
	ErrNonZeroFree = errors.New("discarded wire carries a nonzero value")
)
