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

import (
	"fmt"
	"strings"
)

// Val is a classical value bound to one register: Int for a scalar
// register, Arr for a shaped one. The interface is sealed; no other
// implementations exist.
type Val interface {
	isVal()
}

// Int is the value of a scalar register, held in the low Bits bits.
type Int uint64

func (Int) isVal() {}

// String returns the decimal rendering of the value.
func (v Int) String() string { return fmt.Sprintf("%d", uint64(v)) }

// Arr is the value of a shaped register, one entry per wire in row-major
// index order.
type Arr []uint64

func (Arr) isVal() {}

// String returns the entries as a bracketed list, e.g. "[1 0 1]".
func (v Arr) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = fmt.Sprintf("%d", e)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
