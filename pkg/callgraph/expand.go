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

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// Countable is the tier-1 trait of the call-graph protocol: the operation
// declares its direct callees and multiplicities without building a
// composite. Parameterized families use alloc for fresh free variables when
// a count depends on an unresolved parameter. An empty list is a valid
// answer and makes the operation a leaf; it is distinct from not
// implementing the trait, which sends the engine to the decomposition.
type Countable interface {
	qir.Bloq

	BloqCounts(alloc *symb.Alloc) ([]qir.BloqCount, error)
}

// Expand builds the weighted call graph under root.
//
// Description:
//
//	Breadth-first over an explicit worklist. Each node answers with its
//	direct callees: a Countable directly, anything else through its
//	decomposition's instance tally, and a non-decomposable operation
//	becomes a leaf. Children pass through the generalizer (nil excludes
//	the child and its subtree), then duplicate callees merge into one
//	edge with summed multiplicity. The visited set is keyed by structural
//	identity of the generalized values, so a family member reached along
//	two paths expands once.
//
//	Termination for self-similar recursive families is the caller's
//	responsibility: supply a generalizer that folds the family to a
//	representative, or a WithMaxDepth bound.
//
// Inputs:
//
//	root - The operation to expand.
//	opts - WithGeneralizer, WithKeep, WithMaxDepth.
//
// Outputs:
//
//	*Graph - Immutable weighted call graph; root first in Nodes().
//	error - ErrRootExcluded, ErrDepthExceeded, counting or decomposition
//	failures wrapped with the operation's name.
func Expand(root qir.Bloq, opts ...Option) (*Graph, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	start := root
	if o.generalize != nil {
		if start = o.generalize(root); start == nil {
			return nil, fmt.Errorf("%w: %s", ErrRootExcluded, root)
		}
	}

	alloc := symb.NewAlloc()
	g := &Graph{root: start, index: qir.NewBloqMap[int]()}
	if err := g.addNode(start); err != nil {
		return nil, err
	}

	type item struct {
		node  int
		depth int
	}
	work := []item{{node: 0, depth: 0}}
	for len(work) > 0 {
		it := work[0]
		work = work[1:]
		caller := g.nodes[it.node]

		counts, leaf, err := childCounts(caller, alloc, &o)
		if err != nil {
			return nil, err
		}
		if leaf || len(counts) == 0 {
			continue
		}
		if o.maxDepth > 0 && it.depth >= o.maxDepth {
			return nil, fmt.Errorf("%w: %s still has callees at depth %d", ErrDepthExceeded, caller, it.depth)
		}

		tally := qir.NewBloqMap[symb.Int]()
		for _, c := range counts {
			callee := c.Bloq
			if o.generalize != nil {
				if callee = o.generalize(callee); callee == nil {
					continue
				}
			}
			n := c.N
			if prev, ok, err := tally.Get(callee); err != nil {
				return nil, err
			} else if ok {
				n = prev.Add(n)
			}
			if err := tally.Put(callee, n); err != nil {
				return nil, err
			}
		}

		for _, callee := range tally.Keys() {
			n, _, err := tally.Get(callee)
			if err != nil {
				return nil, err
			}
			j, known, err := g.index.Get(callee)
			if err != nil {
				return nil, err
			}
			if !known {
				j = len(g.nodes)
				if err := g.addNode(callee); err != nil {
					return nil, err
				}
				work = append(work, item{node: j, depth: it.depth + 1})
			}
			g.succ[it.node] = append(g.succ[it.node], succEdge{to: j, n: n})
		}
	}
	return g, nil
}

func (g *Graph) addNode(b qir.Bloq) error {
	if err := g.index.Put(b, len(g.nodes)); err != nil {
		return err
	}
	g.nodes = append(g.nodes, b)
	g.succ = append(g.succ, nil)
	return nil
}

// childCounts resolves one node's direct callees. leaf reports a terminal:
// either the keep predicate matched or the operation is atomic.
func childCounts(b qir.Bloq, alloc *symb.Alloc, o *options) (counts []qir.BloqCount, leaf bool, err error) {
	if o.keep != nil && o.keep(b) {
		return nil, true, nil
	}
	if c, ok := b.(Countable); ok {
		counts, err := c.BloqCounts(alloc)
		if err != nil {
			return nil, false, fmt.Errorf("counting %s: %w", b, err)
		}
		return counts, false, nil
	}
	cb, err := qir.Decompose(b)
	if err != nil {
		if errors.Is(err, qir.ErrNotDecomposable) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("expanding %s: %w", b, err)
	}
	counts, err = cb.BloqCounts()
	if err != nil {
		return nil, false, fmt.Errorf("counting %s: %w", b, err)
	}
	return counts, false, nil
}
