// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tensor

import (
	"errors"
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

const tol = 1e-12

// TestFlip is a one-qubit bit flip with a direct tensor.
type TestFlip struct{}

func (TestFlip) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (TestFlip) String() string { return "Flip" }

func (TestFlip) DenseTensor() (*Dense, error) {
	return FromFlat([]int{2}, []int{2}, []complex128{0, 1, 1, 0})
}

// TestLeaf has neither a tensor nor a decomposition.
type TestLeaf struct{}

func (TestLeaf) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (TestLeaf) String() string { return "Leaf" }

// TestDoubleFlip decomposes into two flips (the identity).
type TestDoubleFlip struct{}

func (TestDoubleFlip) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (TestDoubleFlip) String() string { return "DoubleFlip" }

func (TestDoubleFlip) BuildComposite(bb *qir.Builder, soqs qir.SoqMap) (qir.SoqMap, error) {
	outs, err := bb.Add(TestFlip{}, qir.SoqMap{"q": soqs["q"]})
	if err != nil {
		return nil, err
	}
	return bb.Add(TestFlip{}, qir.SoqMap{"q": outs["q"]})
}

// TestSymWidth claims a direct tensor over a symbolic width.
type TestSymWidth struct{}

func (TestSymWidth) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("x", symb.Var("n")))
}

func (TestSymWidth) String() string { return "SymWidth" }

func (TestSymWidth) DenseTensor() (*Dense, error) {
	return FromFlat(nil, nil, []complex128{1})
}

func TestFromFlat_CountMismatch(t *testing.T) {
	_, err := FromFlat([]int{2}, []int{2}, []complex128{1, 0})
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got: %v", err)
	}
}

func TestDense_AtSet(t *testing.T) {
	d := Zeros([]int{2, 2}, []int{2})
	d.Set(3+4i, 1, 0, 1)
	if got := d.At(1, 0, 1); got != 3+4i {
		t.Errorf("At: got %v", got)
	}
	if got := d.At(0, 0, 0); got != 0 {
		t.Errorf("untouched entry: got %v", got)
	}
	if d.NumElements() != 8 {
		t.Errorf("NumElements: got %d, want 8", d.NumElements())
	}
}

func TestDense_ConjTranspose(t *testing.T) {
	// |0><1| with an imaginary amplitude.
	d := Zeros([]int{2}, []int{2})
	d.Set(2i, 1, 0)

	ct := d.ConjTranspose()
	if got := ct.At(0, 1); got != -2i {
		t.Errorf("transposed conjugate entry: got %v", got)
	}
	if got := ct.At(1, 0); got != 0 {
		t.Errorf("original position should be empty: got %v", got)
	}

	// An adjoint taken twice restores the tensor.
	if !ct.ConjTranspose().EqualApprox(d, tol) {
		t.Error("double conjugate transpose should restore the tensor")
	}
}

func TestDense_EqualApprox(t *testing.T) {
	a := MustFromFlat([]int{2}, nil, []complex128{1, 0})
	b := MustFromFlat([]int{2}, nil, []complex128{1, 1e-15})
	if !a.EqualApprox(b, tol) {
		t.Error("within tolerance")
	}
	c := MustFromFlat(nil, []int{2}, []complex128{1, 0})
	if a.EqualApprox(c, tol) {
		t.Error("different boundary split must not compare equal")
	}
}

func TestContract_DirectForm(t *testing.T) {
	d, err := Contract(TestFlip{})
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	want := MustFromFlat([]int{2}, []int{2}, []complex128{0, 1, 1, 0})
	if !d.EqualApprox(want, tol) {
		t.Errorf("direct tensor:\n%v", d)
	}
}

func TestContract_LeafUnsupported(t *testing.T) {
	_, err := Contract(TestLeaf{})
	if !errors.Is(err, qir.ErrProtocolUnsupported) {
		t.Fatalf("expected ErrProtocolUnsupported, got: %v", err)
	}
	var pe *qir.ProtocolError
	if !errors.As(err, &pe) || pe.Protocol != "tensor" {
		t.Errorf("expected tensor protocol named, got: %v", err)
	}
}

func TestContract_SymbolicWidth(t *testing.T) {
	_, err := Contract(TestSymWidth{})
	if !errors.Is(err, symb.ErrSymbolic) {
		t.Errorf("expected symb.ErrSymbolic, got: %v", err)
	}
}

func TestContract_NetworkMultipliesToIdentity(t *testing.T) {
	// Flip then Flip contracts to the identity.
	d, err := Contract(TestDoubleFlip{})
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	want := MustFromFlat([]int{2}, []int{2}, []complex128{1, 0, 0, 1})
	if !d.EqualApprox(want, tol) {
		t.Errorf("X·X should be the identity, got %v %v", d.Dims(), d.data)
	}
}

func TestContract_PassThroughWire(t *testing.T) {
	// A composite with no instances at all: one wire straight through.
	bb, ins, err := qir.NewBuilderFromSignature(qir.MustSignature(qir.Thru("q", symb.Lit(2))))
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}
	cb, err := bb.Finalize(qir.SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	d, err := Contract(cb)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	want := Zeros([]int{4}, []int{4})
	for i := 0; i < 4; i++ {
		want.Set(1, i, i)
	}
	if !d.EqualApprox(want, tol) {
		t.Errorf("pass-through should contract to the identity, got %v", d)
	}
}

func TestContract_FlattenMatchesDefault(t *testing.T) {
	// One nesting level: a subroutine instance inside a wrapper composite.
	bb, ins, _ := qir.NewBuilderFromSignature(qir.MustSignature(qir.Thru("q", symb.One)))
	outs, err := bb.Add(TestDoubleFlip{}, qir.SoqMap{"q": ins["q"]})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cb, err := bb.Finalize(qir.SoqMap{"q": outs["q"]})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	plain, err := Contract(cb)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	flat, err := Contract(cb, WithFlatten())
	if err != nil {
		t.Fatalf("Contract with flatten: %v", err)
	}
	if !plain.EqualApprox(flat, tol) {
		t.Error("flattened contraction should agree with the nested one")
	}
}

func TestContract_DeclaredShapeChecked(t *testing.T) {
	_, err := Contract(badShape{})
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got: %v", err)
	}
}

// badShape declares a scalar tensor for a two-index boundary.
type badShape struct{}

func (badShape) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (badShape) String() string { return "BadShape" }

func (badShape) DenseTensor() (*Dense, error) {
	return FromFlat(nil, nil, []complex128{1})
}
