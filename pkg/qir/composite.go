// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package qir

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// CompositeBloq is an assembled, validated operation graph: an arena of
// placed instances, the connections joining their register elements, and the
// boundary signature. It is immutable after Finalize and itself satisfies
// Bloq, so composites nest recursively.
//
// Thread Safety: immutable; safe to share across goroutines.
type CompositeBloq struct {
	instances []BloqInstance
	conns     []Connection
	sig       Signature
}

// NewCompositeBloq assembles and validates a composite directly from parts.
// The builder is the usual constructor; this entry point exists for
// collaborators that rebuild graphs wholesale (adjoint reversal, external
// import) and must prove the same invariants.
func NewCompositeBloq(instances []BloqInstance, conns []Connection, sig Signature) (*CompositeBloq, error) {
	cb := &CompositeBloq{
		instances: slices.Clone(instances),
		conns:     slices.Clone(conns),
		sig:       sig,
	}
	if err := cb.validate(); err != nil {
		return nil, err
	}
	return cb, nil
}

// Signature returns the boundary.
func (cb *CompositeBloq) Signature() Signature { return cb.sig }

// String renders a short display name.
func (cb *CompositeBloq) String() string {
	return fmt.Sprintf("Composite(%d)", len(cb.instances))
}

// Instances returns the placed instances in arena order.
func (cb *CompositeBloq) Instances() []BloqInstance {
	return slices.Clone(cb.instances)
}

// Connections returns the edge set.
func (cb *CompositeBloq) Connections() []Connection {
	return slices.Clone(cb.conns)
}

// validate proves the structural invariants: arena integrity, every
// endpoint connected exactly once, matching widths per connection, boundary
// match, and acyclicity.
func (cb *CompositeBloq) validate() error {
	for i, inst := range cb.instances {
		if inst.ID != InstanceID(i) {
			return fmt.Errorf("%w: instance %d has ID %d", ErrMalformedGraph, i, inst.ID)
		}
		if inst.Bloq == nil {
			return fmt.Errorf("%w: instance %d has no operation", ErrMalformedGraph, i)
		}
	}

	producers := make(map[string]int) // endpoint key -> times connected
	consumers := make(map[string]int)
	addEndpoints := func(binst BloqInstance, regs []Register, m map[string]int) {
		for _, reg := range regs {
			for _, idx := range reg.AllIdx() {
				m[Soquet{Binst: binst, Reg: reg, Idx: idx}.key()] = 0
			}
		}
	}
	addEndpoints(LeftDangle, cb.sig.Lefts(), producers)
	addEndpoints(RightDangle, cb.sig.Rights(), consumers)
	for _, inst := range cb.instances {
		sig := inst.Bloq.Signature()
		addEndpoints(inst, sig.Rights(), producers)
		addEndpoints(inst, sig.Lefts(), consumers)
	}

	for _, c := range cb.conns {
		if c.From.Reg.Bits != c.To.Reg.Bits {
			return fmt.Errorf("%w: %s: %s vs %s", ErrBitsizeMismatch, c, c.From.Reg.Bits, c.To.Reg.Bits)
		}
		fk, tk := c.From.key(), c.To.key()
		if _, ok := producers[fk]; !ok {
			return fmt.Errorf("%w: %s produced by undeclared endpoint", ErrMalformedGraph, c.From)
		}
		if _, ok := consumers[tk]; !ok {
			return fmt.Errorf("%w: %s consumed by undeclared endpoint", ErrMalformedGraph, c.To)
		}
		producers[fk]++
		consumers[tk]++
	}
	for _, m := range []map[string]int{producers, consumers} {
		for k, n := range m {
			if n != 1 {
				return fmt.Errorf("%w: endpoint %s connected %d times", ErrMalformedGraph, k, n)
			}
		}
	}

	if _, err := cb.Topological(); err != nil {
		return err
	}
	return nil
}

// Topological returns the instances in a deterministic topological order
// (dependencies first; ties broken by smallest instance ID).
func (cb *CompositeBloq) Topological() ([]BloqInstance, error) {
	n := len(cb.instances)
	indeg := make([]int, n)
	adj := make([][]int, n)
	for _, c := range cb.conns {
		f, t := c.From.Binst.ID, c.To.Binst.ID
		if f >= 0 && t >= 0 {
			adj[f] = append(adj[f], int(t))
			indeg[t]++
		}
	}

	done := make([]bool, n)
	order := make([]BloqInstance, 0, n)
	for len(order) < n {
		pick := -1
		for i := 0; i < n; i++ {
			if !done[i] && indeg[i] == 0 {
				pick = i
				break
			}
		}
		if pick < 0 {
			return nil, &CycleError{Path: cb.cyclePath(indeg, done)}
		}
		done[pick] = true
		order = append(order, cb.instances[pick])
		for _, t := range adj[pick] {
			indeg[t]--
		}
	}
	return order, nil
}

// cyclePath walks the unfinished subgraph to produce a representative cycle
// for the error message.
func (cb *CompositeBloq) cyclePath(indeg []int, done []bool) []InstanceID {
	adj := make(map[int][]int)
	for _, c := range cb.conns {
		f, t := int(c.From.Binst.ID), int(c.To.Binst.ID)
		if f >= 0 && t >= 0 && !done[f] && !done[t] {
			adj[f] = append(adj[f], t)
		}
	}
	start := -1
	for i, d := range done {
		if !d && indeg[i] > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	// Follow edges until a node repeats; the tail from its first visit is
	// the cycle.
	seenAt := map[int]int{}
	var path []InstanceID
	cur := start
	for {
		if at, ok := seenAt[cur]; ok {
			return append(path[at:], InstanceID(cur))
		}
		seenAt[cur] = len(path)
		path = append(path, InstanceID(cur))
		next := adj[cur]
		if len(next) == 0 {
			return path
		}
		cur = next[0]
	}
}

// WalkSoquets threads one value of type T per wire endpoint through the
// graph in topological order.
//
// Description:
//
//	This is the shared interpreter under the tensor, classical, and
//	graph-rewriting paths: seed the left boundary, visit every instance
//	with its per-register input values (flattened row-major), collect its
//	per-register outputs, and resolve the right boundary. The visit
//	callback sees registers exactly as each instance's signature declares
//	them.
//
// Inputs:
//
//	cb - The composite to walk.
//	lefts - One T per element of each left-boundary register.
//	visit - Per-instance interpreter; must return one T per element of
//	each right-boundary register of that instance.
//
// Outputs:
//
//	map[string][]T - One T per element of each right-boundary register.
//	error - Coverage errors here, or the visit error unchanged.
func WalkSoquets[T any](cb *CompositeBloq, lefts map[string][]T, visit func(BloqInstance, map[string][]T) (map[string][]T, error)) (map[string][]T, error) {
	for _, reg := range cb.sig.Lefts() {
		if got := len(lefts[reg.Name]); got != reg.NumElements() {
			return nil, fmt.Errorf("%w: left register %q has %d values, needs %d",
				ErrShapeMismatch, reg.Name, got, reg.NumElements())
		}
	}

	toConn := make(map[string]Connection, len(cb.conns))
	for _, c := range cb.conns {
		toConn[c.To.key()] = c
	}

	cur := make(map[string]T)
	for _, reg := range cb.sig.Lefts() {
		for i, idx := range reg.AllIdx() {
			cur[Soquet{Binst: LeftDangle, Reg: reg, Idx: idx}.key()] = lefts[reg.Name][i]
		}
	}

	order, err := cb.Topological()
	if err != nil {
		return nil, err
	}
	for _, inst := range order {
		sig := inst.Bloq.Signature()
		ins := make(map[string][]T)
		for _, reg := range sig.Lefts() {
			vals := make([]T, 0, reg.NumElements())
			for _, idx := range reg.AllIdx() {
				c, ok := toConn[Soquet{Binst: inst, Reg: reg, Idx: idx}.key()]
				if !ok {
					return nil, fmt.Errorf("%w: %s.%s unconnected", ErrMalformedGraph, inst, reg.Name)
				}
				v, ok := cur[c.From.key()]
				if !ok {
					return nil, fmt.Errorf("%w: %s visited before its producer", ErrMalformedGraph, inst)
				}
				vals = append(vals, v)
			}
			ins[reg.Name] = vals
		}

		outs, err := visit(inst, ins)
		if err != nil {
			return nil, err
		}
		for _, reg := range sig.Rights() {
			if got := len(outs[reg.Name]); got != reg.NumElements() {
				return nil, fmt.Errorf("%w: %s returned %d values for register %q, needs %d",
					ErrShapeMismatch, inst, got, reg.Name, reg.NumElements())
			}
			for i, idx := range reg.AllIdx() {
				cur[Soquet{Binst: inst, Reg: reg, Idx: idx}.key()] = outs[reg.Name][i]
			}
		}
	}

	result := make(map[string][]T)
	for _, reg := range cb.sig.Rights() {
		vals := make([]T, 0, reg.NumElements())
		for _, idx := range reg.AllIdx() {
			c, ok := toConn[Soquet{Binst: RightDangle, Reg: reg, Idx: idx}.key()]
			if !ok {
				return nil, fmt.Errorf("%w: right boundary %q unconnected", ErrMalformedGraph, reg.Name)
			}
			v, ok := cur[c.From.key()]
			if !ok {
				return nil, fmt.Errorf("%w: right boundary %q fed by unvisited producer", ErrMalformedGraph, reg.Name)
			}
			vals = append(vals, v)
		}
		result[reg.Name] = vals
	}
	return result, nil
}

// BloqCount pairs an operation with a multiplicity.
type BloqCount struct {
	Bloq Bloq
	N    symb.Int
}

// BloqCounts tallies the directly contained operations by structural
// identity, in first-appearance order. This is the tier-2 source for the
// resource-counting protocol.
func (cb *CompositeBloq) BloqCounts() ([]BloqCount, error) {
	tally := NewBloqMap[symb.Int]()
	for _, inst := range cb.instances {
		cur, ok, err := tally.Get(inst.Bloq)
		if err != nil {
			return nil, err
		}
		if !ok {
			cur = symb.Zero
		}
		if err := tally.Put(inst.Bloq, cur.Add(symb.One)); err != nil {
			return nil, err
		}
	}
	out := make([]BloqCount, 0, tally.Len())
	for _, b := range tally.Keys() {
		n, _, err := tally.Get(b)
		if err != nil {
			return nil, err
		}
		out = append(out, BloqCount{Bloq: b, N: n})
	}
	return out, nil
}

// FlattenOnce inlines the decomposition of every instance matching pred,
// leaving atomic and non-matching instances in place.
//
// Outputs:
//
//	*CompositeBloq - The rebuilt graph.
//	int - How many instances were inlined.
//	error - Decomposition or rebuild failures.
func (cb *CompositeBloq) FlattenOnce(pred func(BloqInstance) bool) (*CompositeBloq, int, error) {
	bb, ins, err := NewBuilderFromSignature(cb.sig)
	if err != nil {
		return nil, 0, err
	}
	lefts := make(map[string][]Soquet)
	for name, st := range ins {
		lefts[name] = st.Flat()
	}

	inlined := 0
	rights, err := WalkSoquets(cb, lefts,
		func(inst BloqInstance, nodeIns map[string][]Soquet) (map[string][]Soquet, error) {
			bound := make(SoqMap)
			for _, reg := range inst.Bloq.Signature().Lefts() {
				st, err := NewShaped(reg.Shape, nodeIns[reg.Name])
				if err != nil {
					return nil, err
				}
				bound[reg.Name] = st
			}

			var outs SoqMap
			if pred(inst) {
				sub, derr := Decompose(inst.Bloq)
				switch {
				case derr == nil:
					var aerr error
					outs, aerr = bb.AddFrom(sub, bound)
					if aerr != nil {
						return nil, aerr
					}
					inlined++
				case errors.Is(derr, ErrNotDecomposable):
					// Atomic: keep as-is.
				default:
					return nil, derr
				}
			}
			if outs == nil {
				var aerr error
				outs, aerr = bb.Add(inst.Bloq, bound)
				if aerr != nil {
					return nil, aerr
				}
			}

			flat := make(map[string][]Soquet)
			for name, st := range outs {
				flat[name] = st.Flat()
			}
			return flat, nil
		})
	if err != nil {
		return nil, 0, err
	}

	finals := make(SoqMap)
	for _, reg := range cb.sig.Rights() {
		st, err := NewShaped(reg.Shape, rights[reg.Name])
		if err != nil {
			return nil, 0, err
		}
		finals[reg.Name] = st
	}
	out, err := bb.Finalize(finals)
	if err != nil {
		return nil, 0, err
	}
	return out, inlined, nil
}

// Flatten repeatedly inlines matching decomposable instances until none
// remain. This is the explicitly-invoked performance path for tensor
// contraction; nothing calls it implicitly.
func (cb *CompositeBloq) Flatten(pred func(BloqInstance) bool) (*CompositeBloq, error) {
	const maxRounds = 1000
	cur := cb
	for range maxRounds {
		next, n, err := cur.FlattenOnce(pred)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return cur, nil
		}
		cur = next
	}
	return nil, fmt.Errorf("flatten: no fixpoint after %d rounds", maxRounds)
}

// AdjointComposite returns the reversed graph: topology reversed, every
// instance replaced by its adjoint, boundary sides swapped. This realizes
// adjoint(A∘B) = adjoint(B)∘adjoint(A).
func (cb *CompositeBloq) AdjointComposite() (*CompositeBloq, error) {
	order, err := cb.Topological()
	if err != nil {
		return nil, err
	}

	newID := make(map[InstanceID]InstanceID, len(order))
	newInsts := make([]BloqInstance, len(order))
	for i := range order {
		inst := order[len(order)-1-i]
		id := InstanceID(i)
		newID[inst.ID] = id
		newInsts[i] = BloqInstance{ID: id, Bloq: AdjointOf(inst.Bloq)}
	}

	adjSoq := func(s Soquet) Soquet {
		binst := s.Binst
		switch binst.ID {
		case LeftDangleID:
			binst = RightDangle
		case RightDangleID:
			binst = LeftDangle
		default:
			binst = newInsts[newID[binst.ID]]
		}
		return Soquet{Binst: binst, Reg: s.Reg.adjoint(), Idx: s.Idx}
	}
	newConns := make([]Connection, len(cb.conns))
	for i, c := range cb.conns {
		newConns[i] = Connection{From: adjSoq(c.To), To: adjSoq(c.From)}
	}

	return NewCompositeBloq(newInsts, newConns, cb.sig.AdjointSignature())
}

// DebugText renders a stable listing of the graph for error output and
// tests: the boundary, then every connection sorted lexically.
func (cb *CompositeBloq) DebugText() string {
	lines := make([]string, 0, len(cb.conns)+1)
	for _, c := range cb.conns {
		lines = append(lines, "  "+c.String())
	}
	sort.Strings(lines)
	return "Signature: " + cb.sig.String() + "\n" + strings.Join(lines, "\n")
}
