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
	"fmt"
	"slices"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// Edge is one weighted call: Caller's decomposition directly contains N
// instances of Callee. N may be a closed-form expression in free variables.
type Edge struct {
	Caller qir.Bloq
	Callee qir.Bloq
	N      symb.Int
}

// Graph is the weighted call graph of one expansion query. Nodes are the
// (possibly generalized) operations in discovery order; edges carry merged
// multiplicities. The graph is immutable once Expand returns.
type Graph struct {
	root  qir.Bloq
	nodes []qir.Bloq
	index *qir.BloqMap[int]
	succ  [][]succEdge
}

type succEdge struct {
	to int
	n  symb.Int
}

// Root returns the expansion root after generalization.
func (g *Graph) Root() qir.Bloq { return g.root }

// Nodes returns the operations in discovery order (root first).
func (g *Graph) Nodes() []qir.Bloq { return slices.Clone(g.nodes) }

// Edges returns every call edge, grouped by caller in discovery order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i, out := range g.succ {
		for _, e := range out {
			edges = append(edges, Edge{Caller: g.nodes[i], Callee: g.nodes[e.to], N: e.n})
		}
	}
	return edges
}

// Leaves returns the nodes with no outgoing calls, in discovery order.
// An operation whose counts came back empty is a leaf here even though it
// provided the counting trait.
func (g *Graph) Leaves() []qir.Bloq {
	var leaves []qir.Bloq
	for i, out := range g.succ {
		if len(out) == 0 {
			leaves = append(leaves, g.nodes[i])
		}
	}
	return leaves
}

// Contains reports whether b is a node of the graph.
func (g *Graph) Contains(b qir.Bloq) (bool, error) {
	_, ok, err := g.index.Get(b)
	return ok, err
}

// Sigma returns the leaf totals reachable from the expansion root: for each
// leaf, the sum over all root-to-leaf paths of the product of edge
// multiplicities along the path. Totals may be symbolic.
func (g *Graph) Sigma() (*qir.BloqMap[symb.Int], error) {
	return g.SigmaFor(g.root)
}

// SigmaFor returns the leaf totals reachable from an arbitrary node.
//
// Description:
//
//	One topological pass: the start node gets weight one, every edge adds
//	weight(caller)*N into its callee, and the weights standing on leaves
//	at the end are the totals. Nodes the start cannot reach keep weight
//	zero and are omitted.
//
// Inputs:
//
//	b - A node of the graph (compared by structural identity).
//
// Outputs:
//
//	*qir.BloqMap[symb.Int] - Leaf totals keyed by leaf, in discovery
//	order.
//	error - ErrUnknownNode when b is not in the graph, or a cycle error
//	when generalization folded the graph into a cycle.
func (g *Graph) SigmaFor(b qir.Bloq) (*qir.BloqMap[symb.Int], error) {
	start, ok, err := g.index.Get(b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, b)
	}

	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	weight := make([]symb.Int, len(g.nodes))
	for i := range weight {
		weight[i] = symb.Zero
	}
	weight[start] = symb.One
	for _, i := range order {
		if weight[i] == symb.Zero {
			continue
		}
		for _, e := range g.succ[i] {
			weight[e.to] = weight[e.to].Add(weight[i].Mul(e.n))
		}
	}

	sigma := qir.NewBloqMap[symb.Int]()
	for i, node := range g.nodes {
		if len(g.succ[i]) == 0 && weight[i] != symb.Zero {
			if err := sigma.Put(node, weight[i]); err != nil {
				return nil, err
			}
		}
	}
	return sigma, nil
}

// topoOrder returns node indices in topological order, callers before
// callees. Generalization can fold distinct operations into one node and
// close a cycle; that surfaces here as a cycle error rather than a wrong
// total.
func (g *Graph) topoOrder() ([]int, error) {
	indeg := make([]int, len(g.nodes))
	for _, out := range g.succ {
		for _, e := range out {
			indeg[e.to]++
		}
	}

	order := make([]int, 0, len(g.nodes))
	ready := make([]int, 0, len(g.nodes))
	for i := range g.nodes {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	for len(ready) > 0 {
		min := 0
		for j := 1; j < len(ready); j++ {
			if ready[j] < ready[min] {
				min = j
			}
		}
		i := ready[min]
		ready = append(ready[:min], ready[min+1:]...)
		order = append(order, i)
		for _, e := range g.succ[i] {
			indeg[e.to]--
			if indeg[e.to] == 0 {
				ready = append(ready, e.to)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("call graph: %w", qir.ErrGraphCycle)
	}
	return order, nil
}
