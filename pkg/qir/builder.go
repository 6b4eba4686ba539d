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
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// Builder assembles a CompositeBloq under the linear-usage discipline: every
// soquet produced during construction must be consumed exactly once, and
// every consumption is type-checked against the target register at the call
// that performs it. The builder does no optimization and defers nothing; a
// wiring mistake fails the call that made it, naming the offending register
// or soquet.
//
// A failed call leaves the builder unchanged, so construction code may probe
// and recover. Builders are not safe for concurrent use.
type Builder struct {
	instances []BloqInstance
	conns     []Connection
	live      map[string]Soquet
	consumed  map[string]bool
	declRegs  []Register
	fromSig   bool
}

// NewBuilder starts a free build: boundary registers are declared with
// AddRegister, and right-boundary registers not declared up front are
// inferred from the bindings handed to Finalize.
func NewBuilder() *Builder {
	return &Builder{
		live:     make(map[string]Soquet),
		consumed: make(map[string]bool),
	}
}

// NewBuilderFromSignature starts a build whose boundary is fixed.
//
// Description:
//
//	Seeds one soquet per left-boundary register element and returns them
//	bound by register name. Finalize must then bind exactly the signature's
//	right-boundary registers. This is the entry point Decompose uses to
//	drive a Decomposer.
//
// Outputs:
//
//	*Builder - The started builder.
//	SoqMap - Initial soquets for every left-boundary register.
//	error - ErrInvalidRegister/ErrDuplicateRegister from signature reuse.
func NewBuilderFromSignature(sig Signature) (*Builder, SoqMap, error) {
	bb := NewBuilder()
	bb.fromSig = true
	bb.declRegs = sig.Registers()
	ins := make(SoqMap)
	for _, reg := range sig.Lefts() {
		ins[reg.Name] = bb.seedDangle(reg)
	}
	return bb, ins, nil
}

// seedDangle produces the left-boundary soquets for one register.
func (bb *Builder) seedDangle(reg Register) SoquetT {
	idxs := reg.AllIdx()
	soqs := make([]Soquet, len(idxs))
	for i, idx := range idxs {
		s := Soquet{Binst: LeftDangle, Reg: reg, Idx: idx}
		bb.live[s.key()] = s
		soqs[i] = s
	}
	return SoquetT{shape: slices.Clone(reg.Shape), soqs: soqs}
}

// AddRegister declares a boundary register on a free build and, for
// registers visible on the left boundary, returns its initial soquets.
//
// Outputs:
//
//	SoquetT - Initial soquets (zero value for a RIGHT-only register).
//	error - ErrDuplicateRegister on a boundary collision, or a usage error
//	if the boundary was fixed by NewBuilderFromSignature.
func (bb *Builder) AddRegister(reg Register) (SoquetT, error) {
	if bb.fromSig {
		return SoquetT{}, &BuildError{Op: "add-register", Register: reg.Name,
			Err: fmt.Errorf("%w: boundary is fixed by the signature", ErrDuplicateRegister)}
	}
	if err := reg.validate(); err != nil {
		return SoquetT{}, &BuildError{Op: "add-register", Register: reg.Name, Err: err}
	}
	for _, d := range bb.declRegs {
		if d.Name != reg.Name {
			continue
		}
		if d.Side.OnLeft() && reg.Side.OnLeft() || d.Side.OnRight() && reg.Side.OnRight() {
			return SoquetT{}, &BuildError{Op: "add-register", Register: reg.Name, Err: ErrDuplicateRegister}
		}
	}
	bb.declRegs = append(bb.declRegs, reg)
	if !reg.Side.OnLeft() {
		return SoquetT{}, nil
	}
	return bb.seedDangle(reg), nil
}

// Add places one operation, consuming its inputs and producing its outputs.
//
// Description:
//
//	ins must bind every left-boundary register of b's signature, each with
//	matching shape and element bitsize, and every bound soquet must be live
//	(produced earlier, not yet consumed). On success the inputs are
//	consumed and one fresh SoquetT per right-boundary register is returned.
//	On failure the builder is unchanged.
//
// Outputs:
//
//	SoqMap - Fresh soquets keyed by right-register name.
//	error - *BuildError wrapping the construction sentinel that applies.
func (bb *Builder) Add(b Bloq, ins SoqMap) (SoqMap, error) {
	sig := b.Signature()
	lefts := sig.Lefts()

	leftByName := make(map[string]bool, len(lefts))
	for _, r := range lefts {
		leftByName[r.Name] = true
	}
	for name := range ins {
		if !leftByName[name] {
			return nil, &BuildError{Op: "add", Bloq: b, Register: name, Err: ErrUnknownRegister}
		}
	}

	inst := BloqInstance{ID: InstanceID(len(bb.instances)), Bloq: b}
	var consume []string
	var newConns []Connection
	seen := make(map[string]bool)
	for _, reg := range lefts {
		val, ok := ins[reg.Name]
		if !ok {
			return nil, &BuildError{Op: "add", Bloq: b, Register: reg.Name, Err: ErrMissingRegister}
		}
		if !slices.Equal(val.shape, reg.Shape) {
			return nil, &BuildError{Op: "add", Bloq: b, Register: reg.Name,
				Err: fmt.Errorf("%w: bound %v, declared %v", ErrShapeMismatch, val.shape, reg.Shape)}
		}
		for i, idx := range reg.AllIdx() {
			s := val.soqs[i]
			if s.Reg.Bits != reg.Bits {
				return nil, &BuildError{Op: "add", Bloq: b, Register: reg.Name, Soquet: s.String(),
					Err: fmt.Errorf("%w: bound %s, declared %s", ErrBitsizeMismatch, s.Reg.Bits, reg.Bits)}
			}
			k := s.key()
			if seen[k] {
				return nil, &BuildError{Op: "add", Bloq: b, Register: reg.Name, Soquet: s.String(), Err: ErrSoquetConsumed}
			}
			seen[k] = true
			if _, live := bb.live[k]; !live {
				err := ErrForeignSoquet
				if bb.consumed[k] {
					err = ErrSoquetConsumed
				}
				return nil, &BuildError{Op: "add", Bloq: b, Register: reg.Name, Soquet: s.String(), Err: err}
			}
			consume = append(consume, k)
			newConns = append(newConns, Connection{From: s, To: Soquet{Binst: inst, Reg: reg, Idx: idx}})
		}
	}

	// Commit.
	for _, k := range consume {
		delete(bb.live, k)
		bb.consumed[k] = true
	}
	bb.instances = append(bb.instances, inst)
	bb.conns = append(bb.conns, newConns...)

	outs := make(SoqMap)
	for _, reg := range sig.Rights() {
		idxs := reg.AllIdx()
		soqs := make([]Soquet, len(idxs))
		for i, idx := range idxs {
			s := Soquet{Binst: inst, Reg: reg, Idx: idx}
			bb.live[s.key()] = s
			soqs[i] = s
		}
		outs[reg.Name] = SoquetT{shape: slices.Clone(reg.Shape), soqs: soqs}
	}
	return outs, nil
}

// MustAdd is Add that panics on error; for decompositions whose wiring is
// statically correct by construction.
func (bb *Builder) MustAdd(b Bloq, ins SoqMap) SoqMap {
	outs, err := bb.Add(b, ins)
	if err != nil {
		panic(err)
	}
	return outs
}

// Split fans a multi-bit soquet out into single-bit wires (index 0 most
// significant). The width must be concrete.
func (bb *Builder) Split(s Soquet) (SoquetT, error) {
	if _, err := s.Reg.Bits.Concrete(); err != nil {
		return SoquetT{}, &BuildError{Op: "split", Soquet: s.String(), Err: err}
	}
	outs, err := bb.Add(Split{Bits: s.Reg.Bits}, SoqMap{"reg": Soq(s)})
	if err != nil {
		return SoquetT{}, err
	}
	return outs["reg"], nil
}

// Join fans rank-1 single-bit wires back into one multi-bit soquet.
func (bb *Builder) Join(xs SoquetT) (Soquet, error) {
	if len(xs.shape) != 1 {
		return Soquet{}, &BuildError{Op: "join",
			Err: fmt.Errorf("%w: need rank-1 wires, got shape %v", ErrShapeMismatch, xs.shape)}
	}
	outs, err := bb.Add(Join{Bits: symb.Lit(int64(xs.NumElements()))}, SoqMap{"reg": xs})
	if err != nil {
		return Soquet{}, err
	}
	return outs["reg"].At(), nil
}

// PartitionInto regroups a flat soquet into the named sub-registers. Sides
// on the given registers are ignored; parts come back under their names.
func (bb *Builder) PartitionInto(s Soquet, regs []Register) (SoqMap, error) {
	return bb.Add(normalizePartition(regs, false), SoqMap{"x": Soq(s)})
}

// Unpartition regroups named sub-register soquets back into one flat
// soquet; the inverse of PartitionInto with the same registers.
func (bb *Builder) Unpartition(regs []Register, ins SoqMap) (Soquet, error) {
	outs, err := bb.Add(normalizePartition(regs, true), ins)
	if err != nil {
		return Soquet{}, err
	}
	return outs["x"].At(), nil
}

func normalizePartition(regs []Register, inverse bool) Partition {
	norm := make([]Register, len(regs))
	for i, r := range regs {
		r.Side = SideThru
		norm[i] = r
	}
	return Partition{Regs: norm, Inverse: inverse}
}

// Allocate introduces a fresh zero-initialized wire of the given width.
func (bb *Builder) Allocate(bits symb.Int) (Soquet, error) {
	outs, err := bb.Add(Allocate{Bits: bits}, SoqMap{})
	if err != nil {
		return Soquet{}, err
	}
	return outs["reg"].At(), nil
}

// Free retires a wire; its classical value must be zero by the time it is
// freed.
func (bb *Builder) Free(s Soquet) error {
	_, err := bb.Add(Free{Bits: s.Reg.Bits}, SoqMap{"reg": Soq(s)})
	return err
}

// AddFrom inlines an already-built composite: its instances are replayed
// into this builder with the composite's boundary mapped onto ins. Used to
// flatten nested decompositions and to realize reversed (adjoint) graphs.
func (bb *Builder) AddFrom(cb *CompositeBloq, ins SoqMap) (SoqMap, error) {
	lefts := make(map[string][]Soquet)
	for _, reg := range cb.Signature().Lefts() {
		val, ok := ins[reg.Name]
		if !ok {
			return nil, &BuildError{Op: "add-from", Register: reg.Name, Err: ErrMissingRegister}
		}
		if !slices.Equal(val.shape, reg.Shape) {
			return nil, &BuildError{Op: "add-from", Register: reg.Name,
				Err: fmt.Errorf("%w: bound %v, declared %v", ErrShapeMismatch, val.shape, reg.Shape)}
		}
		lefts[reg.Name] = val.Flat()
	}
	for name := range ins {
		if _, ok := lefts[name]; !ok {
			return nil, &BuildError{Op: "add-from", Register: name, Err: ErrUnknownRegister}
		}
	}

	rights, err := WalkSoquets(cb, lefts,
		func(inst BloqInstance, nodeIns map[string][]Soquet) (map[string][]Soquet, error) {
			bound := make(SoqMap, len(nodeIns))
			for _, reg := range inst.Bloq.Signature().Lefts() {
				st, err := NewShaped(reg.Shape, nodeIns[reg.Name])
				if err != nil {
					return nil, err
				}
				bound[reg.Name] = st
			}
			outs, err := bb.Add(inst.Bloq, bound)
			if err != nil {
				return nil, err
			}
			flat := make(map[string][]Soquet, len(outs))
			for name, st := range outs {
				flat[name] = st.Flat()
			}
			return flat, nil
		})
	if err != nil {
		return nil, err
	}

	result := make(SoqMap)
	for _, reg := range cb.Signature().Rights() {
		st, err := NewShaped(reg.Shape, rights[reg.Name])
		if err != nil {
			return nil, err
		}
		result[reg.Name] = st
	}
	return result, nil
}

// Finalize seals the graph and returns the immutable composite.
//
// Description:
//
//	outs binds the right boundary. With a fixed signature the bindings must
//	cover exactly its right-boundary registers; on a free build, declared
//	right-facing registers must all be bound and any additional bindings
//	become inferred RIGHT registers (appended in name order). Every other
//	soquet produced during construction must already be consumed: leftovers
//	fail with ErrUnconsumedSoquet naming them.
//
// Outputs:
//
//	*CompositeBloq - The validated, immutable graph.
//	error - *BuildError wrapping the applicable construction sentinel.
func (bb *Builder) Finalize(outs SoqMap) (*CompositeBloq, error) {
	finalRegs, rights, err := bb.finalBoundary(outs)
	if err != nil {
		return nil, err
	}

	var consume []string
	var newConns []Connection
	seen := make(map[string]bool)
	for _, reg := range rights {
		val := outs[reg.Name]
		if !slices.Equal(val.shape, reg.Shape) {
			return nil, &BuildError{Op: "finalize", Register: reg.Name,
				Err: fmt.Errorf("%w: bound %v, declared %v", ErrShapeMismatch, val.shape, reg.Shape)}
		}
		for i, idx := range reg.AllIdx() {
			s := val.soqs[i]
			if s.Reg.Bits != reg.Bits {
				return nil, &BuildError{Op: "finalize", Register: reg.Name, Soquet: s.String(),
					Err: fmt.Errorf("%w: bound %s, declared %s", ErrBitsizeMismatch, s.Reg.Bits, reg.Bits)}
			}
			k := s.key()
			if seen[k] {
				return nil, &BuildError{Op: "finalize", Register: reg.Name, Soquet: s.String(), Err: ErrSoquetConsumed}
			}
			seen[k] = true
			if _, live := bb.live[k]; !live {
				err := ErrForeignSoquet
				if bb.consumed[k] {
					err = ErrSoquetConsumed
				}
				return nil, &BuildError{Op: "finalize", Register: reg.Name, Soquet: s.String(), Err: err}
			}
			consume = append(consume, k)
			newConns = append(newConns, Connection{From: s, To: Soquet{Binst: RightDangle, Reg: reg, Idx: idx}})
		}
	}

	// Anything still live was produced but never consumed.
	leftover := make([]string, 0)
	leftoverReg := ""
	for k, s := range bb.live {
		if !seen[k] {
			leftover = append(leftover, s.String())
			leftoverReg = s.Reg.Name
		}
	}
	if len(leftover) > 0 {
		sort.Strings(leftover)
		return nil, &BuildError{Op: "finalize", Register: leftoverReg,
			Soquet: strings.Join(leftover, "; "), Err: ErrUnconsumedSoquet}
	}

	sig, err := NewSignature(finalRegs...)
	if err != nil {
		return nil, &BuildError{Op: "finalize", Err: err}
	}

	for _, k := range consume {
		delete(bb.live, k)
		bb.consumed[k] = true
	}
	bb.conns = append(bb.conns, newConns...)

	cb := &CompositeBloq{instances: bb.instances, conns: bb.conns, sig: sig}
	if err := cb.validate(); err != nil {
		return nil, &BuildError{Op: "finalize", Err: err}
	}
	return cb, nil
}

// finalBoundary resolves the final register list and the ordered right
// boundary, checking coverage.
func (bb *Builder) finalBoundary(outs SoqMap) ([]Register, []Register, error) {
	finalRegs := slices.Clone(bb.declRegs)
	var rights []Register
	declaredRight := make(map[string]Register)
	for _, r := range finalRegs {
		if r.Side.OnRight() {
			rights = append(rights, r)
			declaredRight[r.Name] = r
		}
	}
	for _, r := range rights {
		if _, ok := outs[r.Name]; !ok {
			return nil, nil, &BuildError{Op: "finalize", Register: r.Name, Err: ErrUnboundRegister}
		}
	}

	var extra []string
	for name := range outs {
		if _, ok := declaredRight[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 && bb.fromSig {
		sort.Strings(extra)
		return nil, nil, &BuildError{Op: "finalize", Register: extra[0], Err: ErrUnknownRegister}
	}
	sort.Strings(extra)
	for _, name := range extra {
		val := outs[name]
		if val.NumElements() == 0 {
			return nil, nil, &BuildError{Op: "finalize", Register: name,
				Err: fmt.Errorf("%w: empty binding", ErrShapeMismatch)}
		}
		bits := val.soqs[0].Reg.Bits
		for _, s := range val.soqs[1:] {
			if s.Reg.Bits != bits {
				return nil, nil, &BuildError{Op: "finalize", Register: name, Soquet: s.String(),
					Err: fmt.Errorf("%w: mixed widths in inferred register", ErrBitsizeMismatch)}
			}
		}
		reg := Register{Name: name, Bits: bits, Shape: val.Shape(), Side: SideRight}
		finalRegs = append(finalRegs, reg)
		rights = append(rights, reg)
	}
	return finalRegs, rights, nil
}
