// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package symb

import (
	"errors"
	"fmt"
)

// Sentinel errors for symbolic evaluation. Callers should use errors.Is.
var (
	// ErrSymbolic indicates a concrete value was required but the Int holds
	// a symbolic expression.
	ErrSymbolic = errors.New("value is symbolic")

	// ErrFreeVar indicates evaluation encountered a variable with no binding.
	ErrFreeVar = errors.New("unbound free variable")

	// ErrParse indicates the expression text could not be parsed.
	ErrParse = errors.New("malformed expression")

	// ErrIncomparable indicates two symbolic values cannot be ordered.
	ErrIncomparable = errors.New("symbolic values are incomparable")
)

// SymbolicError wraps ErrSymbolic with the offending expression so error
// messages can name what was left free.
type SymbolicError struct {
	Expr string
}

// Error returns the error message.
func (e *SymbolicError) Error() string {
	return fmt.Sprintf("value is symbolic: %s", e.Expr)
}

// Unwrap returns ErrSymbolic so errors.Is(err, ErrSymbolic) succeeds.
func (e *SymbolicError) Unwrap() error {
	return ErrSymbolic
}

func newSymbolicError(x Int) *SymbolicError {
	return &SymbolicError{Expr: x.String()}
}
