// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package callgraph counts what a program is made of: it expands an
// operation level by level into a weighted call graph whose edges say
// "this decomposition directly contains N of that", and folds the graph
// into sigma, the per-leaf totals. N and the totals may be closed-form
// expressions in free variables, so one query prices a whole parameterized
// family.
//
// Counting answers come from the Countable trait when an operation
// provides one, and from the decomposition's instance tally otherwise;
// operations that do neither are the leaves. Generalizers coarsen nodes
// before they enter the graph: IgnoreSplitJoin and IgnoreAllocFree hide
// the wiring bookkeeping, and a nil-returning generalizer prunes whole
// subtrees. Expansion is memoized within one query by structural identity,
// which is also what bounds it: a self-similar family whose members never
// collide in the visited set expands forever unless a generalizer folds
// them or WithMaxDepth cuts it off.
//
// # Thread Safety
//
// Expand is pure and a finished Graph is immutable; both are safe for
// concurrent use. Generalizers and keep predicates must be pure functions.
//
// # Example
//
//	g, err := callgraph.Expand(adder,
//		callgraph.WithGeneralizer(callgraph.Compose(
//			callgraph.IgnoreSplitJoin,
//			callgraph.IgnoreAllocFree,
//		)),
//	)
//	if err != nil {
//		return err
//	}
//	sigma, err := g.Sigma()
//	if err != nil {
//		return err
//	}
//	for _, leaf := range sigma.Keys() {
//		n, _, _ := sigma.Get(leaf)
//		fmt.Printf("%s: %s\n", leaf, n)
//	}
package callgraph
