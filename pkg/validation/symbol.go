// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation for user-supplied names.
//
// This package contains validators for names that cross text boundaries:
// symbol names arrive from CLI flags and cost-model files and are embedded
// in rendered expressions, DOT labels, and log lines. Using these validators
// keeps every accepted name round-trippable through the expression parser.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// symbolPattern matches valid symbolic parameter names.
// Allows: a letter or underscore, then letters, digits, underscores.
// Max length: 32 characters.
var symbolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,31}$`)

// reservedSymbols are names the expression grammar treats as functions.
// A variable with one of these names would parse as a call when printed
// and re-read.
var reservedSymbols = map[string]bool{
	"max":  true,
	"log2": true,
}

// ValidateSymbol validates a symbolic parameter name.
//
// Valid symbols:
//   - 1-32 characters
//   - Letters A-Z, a-z
//   - Digits 0-9 (not first)
//   - Underscores
//   - Not an expression function name (max, log2)
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateSymbol(name); err != nil {
//	    return nil, fmt.Errorf("invalid binding: %w", err)
//	}
//	// Safe to embed in expression text
func ValidateSymbol(name string) error {
	if name == "" {
		return fmt.Errorf("symbol name cannot be empty")
	}

	if !symbolPattern.MatchString(name) {
		return fmt.Errorf("invalid symbol name: %q (must be 1-32 letters, digits, or underscores, starting with a letter or underscore)", name)
	}

	if reservedSymbols[name] {
		return fmt.Errorf("symbol name %q is reserved by the expression grammar", name)
	}

	return nil
}

// ValidateSymbols validates multiple symbol names.
// Returns an error listing all invalid names if any fail validation.
func ValidateSymbols(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateSymbol(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid symbol names: %v", invalid)
	}
	return nil
}

// SanitizeSymbol normalizes and validates a symbol name.
// Returns the trimmed name if valid, or an error if invalid. Case is
// preserved: n and N are distinct symbols.
//
// Use this on flag and file input before building bindings:
//
//	name, err := validation.SanitizeSymbol(userInput)
//	if err != nil {
//	    return err
//	}
//	bindings[name] = value
func SanitizeSymbol(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateSymbol(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
