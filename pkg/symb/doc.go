// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package symb provides integers that are either concrete or symbolic.
//
// Register widths, gate multiplicities, and resource totals are frequently
// parameterized over free variables ("n", "L") rather than fixed numbers.
// symb.Int is a small value type covering both cases: arithmetic works
// uniformly, stays exact, and propagates symbolic operands instead of
// forcing early evaluation.
//
// Symbolic expressions are hash-consed: structurally identical expressions
// share one interned node, so symb.Int is comparable with == and safe to use
// as a map key. Normalization is structural (constant folding, flattening,
// canonical operand order, duplicate-term collection), not full computer
// algebra: 4*(n - 1) and 4*n - 4 are distinct values.
//
// # Thread Safety
//
// All types are immutable after construction. The intern table is guarded
// internally; concurrent construction and evaluation are safe.
//
// # Example
//
//	n := symb.Var("n")
//	cost := n.Sub(symb.Lit(1)).Mul(symb.Lit(4)) // 4*(n - 1)
//	v, err := cost.Evaluate(map[string]int64{"n": 5}) // 16
package symb
