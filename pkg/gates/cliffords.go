// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gates

import (
	"github.com/AleutianAI/AleutianQIR/pkg/classical"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
	"github.com/AleutianAI/AleutianQIR/pkg/tensor"
)

// XGate flips one wire: the Pauli X (NOT) gate.
type XGate struct{}

// Signature declares `q: 1 THRU`.
func (XGate) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (XGate) String() string { return "X" }

// Adjoint is the gate itself; X is an involution.
func (XGate) Adjoint() qir.Bloq { return XGate{} }

// DenseTensor returns the NOT matrix.
func (XGate) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat([]int{2}, []int{2}, []complex128{0, 1, 1, 0})
}

// OnClassicalVals flips the bit.
func (XGate) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	return map[string]classical.Val{"q": vals["q"].(classical.Int) ^ 1}, nil
}

// Hadamard rotates one wire between the Z and X bases. It has no classical
// action: basis states map to superpositions.
type Hadamard struct{}

// Signature declares `q: 1 THRU`.
func (Hadamard) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (Hadamard) String() string { return "H" }

// Adjoint is the gate itself; H is an involution.
func (Hadamard) Adjoint() qir.Bloq { return Hadamard{} }

// DenseTensor returns the Hadamard matrix.
func (Hadamard) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat([]int{2}, []int{2}, []complex128{
		invSqrt2, invSqrt2,
		invSqrt2, -invSqrt2,
	})
}

// CNot flips tgt where ctrl is set.
type CNot struct{}

// Signature declares `ctrl: 1 THRU, tgt: 1 THRU`.
func (CNot) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("ctrl", symb.One), qir.Thru("tgt", symb.One))
}

func (CNot) String() string { return "CNot" }

// Adjoint is the gate itself.
func (CNot) Adjoint() qir.Bloq { return CNot{} }

// DenseTensor returns the controlled-NOT permutation.
func (CNot) DenseTensor() (*tensor.Dense, error) {
	d := tensor.Zeros([]int{2, 2}, []int{2, 2})
	for c := range 2 {
		for t := range 2 {
			d.Set(1, c, t, c, t^c)
		}
	}
	return d, nil
}

// OnClassicalVals xors ctrl into tgt.
func (CNot) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	c := vals["ctrl"].(classical.Int)
	return map[string]classical.Val{"ctrl": c, "tgt": vals["tgt"].(classical.Int) ^ c}, nil
}

// Swap exchanges two wires.
type Swap struct{}

// Signature declares `a: 1 THRU, b: 1 THRU`.
func (Swap) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("a", symb.One), qir.Thru("b", symb.One))
}

func (Swap) String() string { return "Swap" }

// Adjoint is the gate itself.
func (Swap) Adjoint() qir.Bloq { return Swap{} }

// DenseTensor returns the swap permutation.
func (Swap) DenseTensor() (*tensor.Dense, error) {
	d := tensor.Zeros([]int{2, 2}, []int{2, 2})
	for a := range 2 {
		for b := range 2 {
			d.Set(1, a, b, b, a)
		}
	}
	return d, nil
}

// OnClassicalVals exchanges the two bits.
func (Swap) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	return map[string]classical.Val{"a": vals["b"], "b": vals["a"]}, nil
}

// CSwap (Fredkin) exchanges a and b where ctrl is set.
type CSwap struct{}

// Signature declares `ctrl: 1 THRU, a: 1 THRU, b: 1 THRU`.
func (CSwap) Signature() qir.Signature {
	return qir.MustSignature(
		qir.Thru("ctrl", symb.One),
		qir.Thru("a", symb.One),
		qir.Thru("b", symb.One),
	)
}

func (CSwap) String() string { return "CSwap" }

// Adjoint is the gate itself.
func (CSwap) Adjoint() qir.Bloq { return CSwap{} }

// DenseTensor returns the controlled-swap permutation.
func (CSwap) DenseTensor() (*tensor.Dense, error) {
	d := tensor.Zeros([]int{2, 2, 2}, []int{2, 2, 2})
	for c := range 2 {
		for a := range 2 {
			for b := range 2 {
				if c == 1 {
					d.Set(1, c, a, b, c, b, a)
				} else {
					d.Set(1, c, a, b, c, a, b)
				}
			}
		}
	}
	return d, nil
}

// OnClassicalVals exchanges a and b when ctrl is 1.
func (CSwap) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	a, b := vals["a"], vals["b"]
	if vals["ctrl"].(classical.Int) == 1 {
		a, b = b, a
	}
	return map[string]classical.Val{"ctrl": vals["ctrl"], "a": a, "b": b}, nil
}
