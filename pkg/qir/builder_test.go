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
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// TestAtom is a one-qubit leaf gate, tagged so distinct atoms can be told
// apart in counts.
type TestAtom struct {
	Tag string
}

func (a TestAtom) Signature() Signature {
	return MustSignature(Thru("q", symb.One))
}

func (a TestAtom) String() string {
	if a.Tag == "" {
		return "Atom"
	}
	return "Atom(" + a.Tag + ")"
}

// TestParity is a two-qubit leaf; self-inverse.
type TestParity struct{}

func (TestParity) Signature() Signature {
	return MustSignature(Thru("ctrl", symb.One), Thru("tgt", symb.One))
}

func (TestParity) String() string { return "Parity" }

func (TestParity) Adjoint() Bloq { return TestParity{} }

// TestPrep emits K fresh one-qubit wires (a fan-out state preparation).
type TestPrep struct {
	K int
}

func (p TestPrep) Signature() Signature {
	return MustSignature(RightShaped("qs", symb.One, p.K))
}

func (p TestPrep) String() string { return fmt.Sprintf("Prep(%d)", p.K) }

// TestSub is a one-qubit subroutine decomposing into atoms A then B.
type TestSub struct{}

func (TestSub) Signature() Signature {
	return MustSignature(Thru("q", symb.One))
}

func (TestSub) String() string { return "Sub" }

func (TestSub) BuildComposite(bb *Builder, soqs SoqMap) (SoqMap, error) {
	outs, err := bb.Add(TestAtom{Tag: "A"}, SoqMap{"q": soqs["q"]})
	if err != nil {
		return nil, err
	}
	outs, err = bb.Add(TestAtom{Tag: "B"}, SoqMap{"q": outs["q"]})
	if err != nil {
		return nil, err
	}
	return SoqMap{"q": outs["q"]}, nil
}

func TestBuilderFromSignature_PassThru(t *testing.T) {
	sig := MustSignature(Thru("q", symb.One))
	bb, ins, err := NewBuilderFromSignature(sig)
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}

	outs, err := bb.Add(TestAtom{}, SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if !cb.Signature().Equal(sig) {
		t.Errorf("signature: got %s, want %s", cb.Signature(), sig)
	}
	if len(cb.Instances()) != 1 {
		t.Errorf("instances: got %d, want 1", len(cb.Instances()))
	}
	// boundary-in -> atom -> boundary-out
	if len(cb.Connections()) != 2 {
		t.Errorf("connections: got %d, want 2", len(cb.Connections()))
	}
}

func TestBuilder_AddErrors(t *testing.T) {
	newQ := func(t *testing.T) (*Builder, SoqMap) {
		t.Helper()
		bb, ins, err := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
		if err != nil {
			t.Fatalf("NewBuilderFromSignature: %v", err)
		}
		return bb, ins
	}

	t.Run("unknown register", func(t *testing.T) {
		bb, ins := newQ(t)
		_, err := bb.Add(TestAtom{}, SoqMap{"nope": ins["q"]})
		if !errors.Is(err, ErrUnknownRegister) {
			t.Errorf("expected ErrUnknownRegister, got: %v", err)
		}
	})

	t.Run("missing register", func(t *testing.T) {
		bb, _ := newQ(t)
		_, err := bb.Add(TestAtom{}, SoqMap{})
		if !errors.Is(err, ErrMissingRegister) {
			t.Errorf("expected ErrMissingRegister, got: %v", err)
		}
	})

	t.Run("bitsize mismatch", func(t *testing.T) {
		bb := NewBuilder()
		wide, err := bb.AddRegister(Thru("x", symb.Lit(2)))
		if err != nil {
			t.Fatalf("AddRegister: %v", err)
		}
		_, err = bb.Add(TestAtom{}, SoqMap{"q": wide})
		if !errors.Is(err, ErrBitsizeMismatch) {
			t.Errorf("expected ErrBitsizeMismatch, got: %v", err)
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		bb := NewBuilder()
		arr, err := bb.AddRegister(ThruShaped("xs", symb.One, 2))
		if err != nil {
			t.Fatalf("AddRegister: %v", err)
		}
		_, err = bb.Add(TestAtom{}, SoqMap{"q": arr})
		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("expected ErrShapeMismatch, got: %v", err)
		}
	})
}

func TestBuilder_DoubleConsume(t *testing.T) {
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))

	// Same soquet bound to two registers of one call.
	_, err := bb.Add(TestParity{}, SoqMap{"ctrl": ins["q"], "tgt": ins["q"]})
	if !errors.Is(err, ErrSoquetConsumed) {
		t.Errorf("same call: expected ErrSoquetConsumed, got: %v", err)
	}

	// Consumed by an earlier call.
	if _, err := bb.Add(TestAtom{}, SoqMap{"q": ins["q"]}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err = bb.Add(TestAtom{}, SoqMap{"q": ins["q"]})
	if !errors.Is(err, ErrSoquetConsumed) {
		t.Errorf("later call: expected ErrSoquetConsumed, got: %v", err)
	}

	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Register != "q" || be.Soquet == "" {
		t.Errorf("error context: register %q, soquet %q", be.Register, be.Soquet)
	}
}

func TestBuilder_ForeignSoquet(t *testing.T) {
	_, otherIns, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	bb, _, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))

	_, err := bb.Add(TestAtom{}, SoqMap{"q": otherIns["q"]})
	if !errors.Is(err, ErrForeignSoquet) {
		t.Errorf("expected ErrForeignSoquet, got: %v", err)
	}
}

func TestBuilder_FailedCallLeavesBuilderUsable(t *testing.T) {
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))

	if _, err := bb.Add(TestAtom{}, SoqMap{"wrong": ins["q"]}); err == nil {
		t.Fatal("expected failure")
	}

	// The failed call must not have consumed anything.
	outs, err := bb.Add(TestAtom{}, SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Add after failure: %v", err)
	}
	if _, err := bb.Finalize(SoqMap{"q": outs["q"]}); err != nil {
		t.Fatalf("Finalize after failure: %v", err)
	}
}

func TestBuilder_SplitJoinRoundTrip(t *testing.T) {
	bb := NewBuilder()
	x, err := bb.AddRegister(Thru("x", symb.Lit(4)))
	if err != nil {
		t.Fatalf("AddRegister: %v", err)
	}

	wires, err := bb.Split(x.At())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if got := wires.Shape(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("split shape: %v", got)
	}
	for _, w := range wires.Flat() {
		if !w.Reg.Bits.IsOne() {
			t.Fatalf("split wire width: %s", w.Reg.Bits)
		}
	}

	back, err := bb.Join(wires)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"x": Soq(back)})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	counts, err := cb.BloqCounts()
	if err != nil {
		t.Fatalf("BloqCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("counts: %v", counts)
	}
	if counts[0].Bloq.String() != "Split(4)" || counts[1].Bloq.String() != "Join(4)" {
		t.Errorf("count order: %s, %s", counts[0].Bloq, counts[1].Bloq)
	}
}

func TestBuilder_SplitSymbolicWidth(t *testing.T) {
	n := symb.Var("n")
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("x", n)))

	_, err := bb.Split(ins["x"].At())
	if err == nil {
		t.Fatal("expected error splitting a symbolic width")
	}
	if !errors.Is(err, symb.ErrSymbolic) {
		t.Errorf("expected symb.ErrSymbolic, got: %v", err)
	}
}

func TestBuilder_AllocateFree(t *testing.T) {
	bb := NewBuilder()
	w, err := bb.Allocate(symb.Lit(3))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := bb.Free(w); err != nil {
		t.Fatalf("Free: %v", err)
	}

	cb, err := bb.Finalize(SoqMap{})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cb.Signature().Len() != 0 {
		t.Errorf("expected empty boundary, got %s", cb.Signature())
	}
	if len(cb.Instances()) != 2 {
		t.Errorf("instances: got %d, want 2", len(cb.Instances()))
	}
}

func TestBuilder_PartitionRoundTrip(t *testing.T) {
	bb := NewBuilder()
	x, err := bb.AddRegister(Thru("x", symb.Lit(7)))
	if err != nil {
		t.Fatalf("AddRegister: %v", err)
	}

	parts := []Register{Thru("a", symb.Lit(3)), Thru("b", symb.Lit(4))}
	grouped, err := bb.PartitionInto(x.At(), parts)
	if err != nil {
		t.Fatalf("PartitionInto: %v", err)
	}
	if grouped["a"].At().Reg.Bits != symb.Lit(3) || grouped["b"].At().Reg.Bits != symb.Lit(4) {
		t.Fatalf("part widths: a=%s b=%s", grouped["a"].At().Reg.Bits, grouped["b"].At().Reg.Bits)
	}

	flat, err := bb.Unpartition(parts, grouped)
	if err != nil {
		t.Fatalf("Unpartition: %v", err)
	}
	if _, err := bb.Finalize(SoqMap{"x": Soq(flat)}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func TestBuilder_FinalizeUnboundRegister(t *testing.T) {
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One), Thru("r", symb.One)))
	outs, err := bb.Add(TestParity{}, SoqMap{"ctrl": ins["q"], "tgt": ins["r"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err = bb.Finalize(SoqMap{"q": outs["ctrl"]})
	if !errors.Is(err, ErrUnboundRegister) {
		t.Errorf("expected ErrUnboundRegister, got: %v", err)
	}
	var be *BuildError
	if errors.As(err, &be) && be.Register != "r" {
		t.Errorf("expected register r named, got %q", be.Register)
	}
}

func TestBuilder_FinalizeUnknownBinding(t *testing.T) {
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	_, err := bb.Finalize(SoqMap{"q": ins["q"], "extra": ins["q"]})
	if !errors.Is(err, ErrUnknownRegister) {
		t.Errorf("expected ErrUnknownRegister, got: %v", err)
	}
}

// Four wires from one preparation, three parity gates chaining them, and a
// finalize that binds only three of the four live wires: the leftover must
// be reported with its register.
func TestBuilder_FourQubitChainMissingBinding(t *testing.T) {
	bb := NewBuilder()
	prep, err := bb.Add(TestPrep{K: 4}, SoqMap{})
	if err != nil {
		t.Fatalf("Add prep: %v", err)
	}
	qs := prep["qs"].Flat()

	kept := make([]Soquet, 0, 3)
	carry := qs[0]
	for i := 1; i < 4; i++ {
		outs, err := bb.Add(TestParity{}, SoqMap{"ctrl": Soq(carry), "tgt": Soq(qs[i])})
		if err != nil {
			t.Fatalf("Add parity %d: %v", i, err)
		}
		kept = append(kept, outs["ctrl"].At())
		carry = outs["tgt"].At()
	}

	// carry (the final tgt output) stays unbound.
	_, err = bb.Finalize(SoqMap{
		"q0": Soq(kept[0]),
		"q1": Soq(kept[1]),
		"q2": Soq(kept[2]),
	})
	if err == nil {
		t.Fatal("expected finalize to fail")
	}
	if !errors.Is(err, ErrUnconsumedSoquet) {
		t.Errorf("expected ErrUnconsumedSoquet, got: %v", err)
	}
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Register != "tgt" {
		t.Errorf("expected leftover register tgt, got %q", be.Register)
	}
	if !strings.Contains(be.Soquet, "tgt") {
		t.Errorf("expected leftover soquet named, got %q", be.Soquet)
	}
}

func TestBuilder_InferredRightRegisters(t *testing.T) {
	bb := NewBuilder()
	prep, err := bb.Add(TestPrep{K: 2}, SoqMap{})
	if err != nil {
		t.Fatalf("Add prep: %v", err)
	}
	qs := prep["qs"].Flat()

	cb, err := bb.Finalize(SoqMap{"z": Soq(qs[0]), "a": Soq(qs[1])})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// Inferred registers are appended in name order.
	rights := cb.Signature().Rights()
	if len(rights) != 2 || rights[0].Name != "a" || rights[1].Name != "z" {
		t.Errorf("inferred order: %v", rights)
	}
	for _, r := range rights {
		if r.Side != SideRight {
			t.Errorf("register %q: expected RIGHT, got %s", r.Name, r.Side)
		}
	}
}

func TestBuilder_AddFromInlinesComposite(t *testing.T) {
	inner, err := Decompose(TestSub{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	outs, err := bb.AddFrom(inner, SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("AddFrom: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	insts := cb.Instances()
	if len(insts) != 2 {
		t.Fatalf("instances: got %d, want 2", len(insts))
	}
	if insts[0].Bloq.String() != "Atom(A)" || insts[1].Bloq.String() != "Atom(B)" {
		t.Errorf("inlined order: %s, %s", insts[0].Bloq, insts[1].Bloq)
	}
}
