// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package callgraph

import "github.com/AleutianAI/AleutianQIR/pkg/qir"

// Generalizer coarsens an operation before it enters the graph: mapping a
// value to a representative merges counting nodes, and returning nil
// excludes the operation and its whole subtree. Generalizers must be pure;
// the engine may call them any number of times for the same value.
type Generalizer func(qir.Bloq) qir.Bloq

// Compose chains generalizers left to right. A nil result short-circuits:
// once any generalizer excludes the operation, the rest never see it.
func Compose(gs ...Generalizer) Generalizer {
	return func(b qir.Bloq) qir.Bloq {
		for _, g := range gs {
			if b = g(b); b == nil {
				return nil
			}
		}
		return b
	}
}

// IgnoreSplitJoin excludes the wire-reshaping bookkeeping (Split, Join,
// Partition) from the graph. Resource reports almost always want this:
// reshaping is free on every cost model the catalog ships.
func IgnoreSplitJoin(b qir.Bloq) qir.Bloq {
	switch b.(type) {
	case qir.Split, qir.Join, qir.Partition:
		return nil
	}
	return b
}

// IgnoreAllocFree excludes the allocation bookkeeping (Allocate, Free)
// from the graph.
func IgnoreAllocFree(b qir.Bloq) qir.Bloq {
	switch b.(type) {
	case qir.Allocate, qir.Free:
		return nil
	}
	return b
}

type options struct {
	generalize Generalizer
	keep       func(qir.Bloq) bool
	maxDepth   int
}

// Option configures one expansion query.
type Option func(*options)

// WithGeneralizer installs g. It applies to the root and to every counted
// child before the visited-set lookup, so generalized values are what the
// graph's nodes, edges, and sigma report.
func WithGeneralizer(g Generalizer) Option {
	return func(o *options) { o.generalize = g }
}

// WithKeep treats operations matching pred as leaves even when they could
// decompose further. Reports use this to stop at a gateset boundary.
func WithKeep(pred func(qir.Bloq) bool) Option {
	return func(o *options) { o.keep = pred }
}

// WithMaxDepth bounds the number of decomposition levels below the root;
// expansion that still has children at depth d fails with ErrDepthExceeded.
// Zero (the default) means unbounded. The bound is the caller's safety net
// for self-similar recursive families that no generalizer folds; see the
// package comment.
func WithMaxDepth(d int) Option {
	return func(o *options) { o.maxDepth = d }
}
