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
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// buildChain wires the given atoms in sequence on a single wire.
func buildChain(t *testing.T, tags ...string) *CompositeBloq {
	t.Helper()
	bb, ins, err := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}
	cur := ins["q"]
	for _, tag := range tags {
		outs, err := bb.Add(TestAtom{Tag: tag}, SoqMap{"q": cur})
		if err != nil {
			t.Fatalf("Add %s: %v", tag, err)
		}
		cur = outs["q"]
	}
	cb, err := bb.Finalize(SoqMap{"q": cur})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cb
}

func TestComposite_IsABloq(t *testing.T) {
	cb := buildChain(t, "A", "B")

	var b Bloq = cb
	if b.String() != "Composite(2)" {
		t.Errorf("String: %q", b.String())
	}

	// A composite is its own decomposition.
	again, err := Decompose(cb)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if again != cb {
		t.Error("Decompose of a composite should return it unchanged")
	}
}

func TestComposite_TopologicalOrder(t *testing.T) {
	cb := buildChain(t, "A", "B", "C")
	order, err := cb.Topological()
	if err != nil {
		t.Fatalf("Topological: %v", err)
	}
	got := make([]string, len(order))
	for i, inst := range order {
		got[i] = inst.Bloq.String()
	}
	want := "Atom(A) Atom(B) Atom(C)"
	if strings.Join(got, " ") != want {
		t.Errorf("order: got %v, want %s", got, want)
	}
}

func TestComposite_TopologicalIndependentByID(t *testing.T) {
	// Two independent wires; order must fall back to instance IDs.
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("a", symb.One), Thru("b", symb.One)))
	outB, err := bb.Add(TestAtom{Tag: "B"}, SoqMap{"q": ins["b"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	outA, err := bb.Add(TestAtom{Tag: "A"}, SoqMap{"q": ins["a"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"a": outA["q"], "b": outB["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	order, err := cb.Topological()
	if err != nil {
		t.Fatalf("Topological: %v", err)
	}
	if order[0].ID != 0 || order[1].ID != 1 {
		t.Errorf("expected ID order, got %v then %v", order[0], order[1])
	}
}

func TestComposite_BloqCounts(t *testing.T) {
	cb := buildChain(t, "A", "B", "A")
	counts, err := cb.BloqCounts()
	if err != nil {
		t.Fatalf("BloqCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("distinct operations: got %d, want 2", len(counts))
	}

	// First-appearance order, structural tally.
	if counts[0].Bloq.String() != "Atom(A)" || counts[0].N != symb.Lit(2) {
		t.Errorf("first: %s x %s", counts[0].Bloq, counts[0].N)
	}
	if counts[1].Bloq.String() != "Atom(B)" || counts[1].N != symb.One {
		t.Errorf("second: %s x %s", counts[1].Bloq, counts[1].N)
	}
}

func TestWalkSoquets_ThreadsValues(t *testing.T) {
	cb := buildChain(t, "A", "B", "C")

	// Count hops along the wire.
	out, err := WalkSoquets(cb, map[string][]int{"q": {0}},
		func(inst BloqInstance, ins map[string][]int) (map[string][]int, error) {
			return map[string][]int{"q": {ins["q"][0] + 1}}, nil
		})
	if err != nil {
		t.Fatalf("WalkSoquets: %v", err)
	}
	if out["q"][0] != 3 {
		t.Errorf("hops: got %d, want 3", out["q"][0])
	}
}

func TestWalkSoquets_VisitErrorPropagates(t *testing.T) {
	cb := buildChain(t, "A")
	boom := errors.New("boom")

	_, err := WalkSoquets(cb, map[string][]int{"q": {0}},
		func(BloqInstance, map[string][]int) (map[string][]int, error) {
			return nil, boom
		})
	if !errors.Is(err, boom) {
		t.Errorf("expected the visit error, got: %v", err)
	}
}

func TestWalkSoquets_BadSeedShape(t *testing.T) {
	cb := buildChain(t, "A")
	_, err := WalkSoquets(cb, map[string][]int{"q": {0, 1}},
		func(_ BloqInstance, ins map[string][]int) (map[string][]int, error) {
			return ins, nil
		})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got: %v", err)
	}
}

func TestComposite_FlattenOnce(t *testing.T) {
	// Sub decomposes into Atom(A);Atom(B). Atom(C) is a leaf.
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	outs, err := bb.Add(TestSub{}, SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	outs, err = bb.Add(TestAtom{Tag: "C"}, SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	flat, inlined, err := cb.FlattenOnce(func(BloqInstance) bool { return true })
	if err != nil {
		t.Fatalf("FlattenOnce: %v", err)
	}
	if inlined != 1 {
		t.Errorf("inlined: got %d, want 1", inlined)
	}

	insts := flat.Instances()
	got := make([]string, len(insts))
	for i, inst := range insts {
		got[i] = inst.Bloq.String()
	}
	want := "Atom(A) Atom(B) Atom(C)"
	if strings.Join(got, " ") != want {
		t.Errorf("flattened: got %v, want %s", got, want)
	}
}

func TestComposite_FlattenReachesFixpoint(t *testing.T) {
	bb, ins, _ := NewBuilderFromSignature(MustSignature(Thru("q", symb.One)))
	outs, err := bb.Add(TestSub{}, SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cb, err := bb.Finalize(SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	flat, err := cb.Flatten(func(BloqInstance) bool { return true })
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	for _, inst := range flat.Instances() {
		if _, ok := inst.Bloq.(Decomposer); ok {
			t.Errorf("decomposable instance left after Flatten: %s", inst)
		}
	}
}

func TestNewCompositeBloq_RejectsBadArena(t *testing.T) {
	sig := MustSignature(Thru("q", symb.One))
	insts := []BloqInstance{{ID: 5, Bloq: TestAtom{}}}
	_, err := NewCompositeBloq(insts, nil, sig)
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("expected ErrMalformedGraph, got: %v", err)
	}
}

func TestNewCompositeBloq_RejectsDanglingEndpoint(t *testing.T) {
	// One atom, but no connections at all: every endpoint is unconnected.
	sig := MustSignature(Thru("q", symb.One))
	insts := []BloqInstance{{ID: 0, Bloq: TestAtom{}}}
	_, err := NewCompositeBloq(insts, nil, sig)
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("expected ErrMalformedGraph, got: %v", err)
	}
}

func TestNewCompositeBloq_RejectsCycle(t *testing.T) {
	// Two parity gates feeding each other. Every endpoint is connected
	// exactly once, so only the acyclicity check can reject this.
	sig := MustSignature(Thru("a", symb.One), Thru("b", symb.One))
	regA, _ := sig.Get("a")
	regB, _ := sig.Get("b")

	p0 := BloqInstance{ID: 0, Bloq: TestParity{}}
	p1 := BloqInstance{ID: 1, Bloq: TestParity{}}
	psig := TestParity{}.Signature()
	ctrl, _ := psig.Get("ctrl")
	tgt, _ := psig.Get("tgt")

	conns := []Connection{
		{From: Soquet{Binst: LeftDangle, Reg: regA}, To: Soquet{Binst: p0, Reg: ctrl}},
		{From: Soquet{Binst: LeftDangle, Reg: regB}, To: Soquet{Binst: p1, Reg: tgt}},
		{From: Soquet{Binst: p0, Reg: tgt}, To: Soquet{Binst: p1, Reg: ctrl}},
		{From: Soquet{Binst: p1, Reg: ctrl}, To: Soquet{Binst: p0, Reg: tgt}},
		{From: Soquet{Binst: p0, Reg: ctrl}, To: Soquet{Binst: RightDangle, Reg: regA}},
		{From: Soquet{Binst: p1, Reg: tgt}, To: Soquet{Binst: RightDangle, Reg: regB}},
	}

	_, err := NewCompositeBloq([]BloqInstance{p0, p1}, conns, sig)
	if !errors.Is(err, ErrGraphCycle) {
		t.Fatalf("expected ErrGraphCycle, got: %v", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(ce.Path) == 0 {
		t.Error("cycle path should not be empty")
	}
}

func TestComposite_DebugText(t *testing.T) {
	cb := buildChain(t, "A")
	text := cb.DebugText()
	if !strings.Contains(text, "Signature: (q: 1 THRU)") {
		t.Errorf("missing signature line:\n%s", text)
	}
	if !strings.Contains(text, "LeftDangle.q -> Atom(A)<0>.q") {
		t.Errorf("missing edge line:\n%s", text)
	}
}
