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
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

func TestBloqKey_SameArgumentsSameKey(t *testing.T) {
	a, err := BloqKey(Split{Bits: symb.Lit(4)})
	if err != nil {
		t.Fatalf("BloqKey: %v", err)
	}
	b, err := BloqKey(Split{Bits: symb.Lit(4)})
	if err != nil {
		t.Fatalf("BloqKey: %v", err)
	}
	if a != b {
		t.Error("identical constructor arguments must hash equally")
	}
}

func TestBloqKey_DistinguishesTypesAndArguments(t *testing.T) {
	base, _ := BloqKey(Split{Bits: symb.Lit(4)})

	otherType, _ := BloqKey(Join{Bits: symb.Lit(4)})
	if base == otherType {
		t.Error("Split(4) and Join(4) must not collide")
	}

	otherArg, _ := BloqKey(Split{Bits: symb.Lit(5)})
	if base == otherArg {
		t.Error("Split(4) and Split(5) must not collide")
	}
}

func TestBloqKey_SymbolicParameters(t *testing.T) {
	n1, _ := BloqKey(Split{Bits: symb.Var("n")})
	n2, _ := BloqKey(Split{Bits: symb.Var("n")})
	m, _ := BloqKey(Split{Bits: symb.Var("m")})

	if n1 != n2 {
		t.Error("the same symbolic parameter must hash equally")
	}
	if n1 == m {
		t.Error("distinct symbolic parameters must not collide")
	}
}

func TestBloqKey_SliceFields(t *testing.T) {
	regs := []Register{Thru("a", symb.Lit(3)), Thru("b", symb.Lit(4))}
	p1, err := BloqKey(Partition{Regs: regs})
	if err != nil {
		t.Fatalf("BloqKey with slice field: %v", err)
	}
	p2, _ := BloqKey(Partition{Regs: []Register{Thru("a", symb.Lit(3)), Thru("b", symb.Lit(4))}})
	if p1 != p2 {
		t.Error("equal slice fields must hash equally")
	}

	inv, _ := BloqKey(Partition{Regs: regs, Inverse: true})
	if p1 == inv {
		t.Error("Inverse flag must change the key")
	}
}

func TestBloqsEqual(t *testing.T) {
	if !BloqsEqual(TestAtom{Tag: "A"}, TestAtom{Tag: "A"}) {
		t.Error("equal values")
	}
	if BloqsEqual(TestAtom{Tag: "A"}, TestAtom{Tag: "B"}) {
		t.Error("different arguments")
	}
	if BloqsEqual(Split{Bits: symb.Lit(4)}, Join{Bits: symb.Lit(4)}) {
		t.Error("different types")
	}
	if BloqsEqual(TestAtom{}, nil) {
		t.Error("nil operand")
	}
	if !BloqsEqual(nil, nil) {
		t.Error("both nil")
	}
}

func TestBloqMap_StructuralLookup(t *testing.T) {
	m := NewBloqMap[int]()

	if err := m.Put(TestAtom{Tag: "A"}, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Put(TestAtom{Tag: "B"}, 2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Structurally equal key built elsewhere: replaces, not appends.
	if err := m.Put(TestAtom{Tag: "A"}, 10); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if m.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", m.Len())
	}
	v, ok, err := m.Get(TestAtom{Tag: "A"})
	if err != nil || !ok || v != 10 {
		t.Errorf("Get A: %d %v %v", v, ok, err)
	}
	if _, ok, _ := m.Get(TestAtom{Tag: "C"}); ok {
		t.Error("Get of an absent key should miss")
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0].String() != "Atom(A)" || keys[1].String() != "Atom(B)" {
		t.Errorf("insertion order: %v", keys)
	}
}
