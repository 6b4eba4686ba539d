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
	"fmt"
	"math"

	"github.com/AleutianAI/AleutianQIR/pkg/classical"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
	"github.com/AleutianAI/AleutianQIR/pkg/tensor"
)

// States and effects come in adjoint pairs: a state allocates a wire in a
// fixed one-qubit vector, its effect deallocates a wire by projecting onto
// that vector. They are the catalog's only non-square tensors and the
// reason the adjoint protocol must swap boundary sides rather than merely
// reverse topology.

var invSqrt2 = complex(1/math.Sqrt2, 0)

// ZeroState allocates one wire in |0>.
type ZeroState struct{}

// Signature declares `q: 1 RIGHT`.
func (ZeroState) Signature() qir.Signature {
	return qir.MustSignature(qir.RightReg("q", symb.One))
}

func (ZeroState) String() string { return "ZeroState" }

// Adjoint pairs the state with its projective effect.
func (ZeroState) Adjoint() qir.Bloq { return ZeroEffect{} }

// DenseTensor returns the column vector (1, 0).
func (ZeroState) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat(nil, []int{2}, []complex128{1, 0})
}

// OnClassicalVals produces the classical bit 0.
func (ZeroState) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	return map[string]classical.Val{"q": classical.Int(0)}, nil
}

// ZeroEffect deallocates one wire by projecting onto <0|.
type ZeroEffect struct{}

// Signature declares `q: 1 LEFT`.
func (ZeroEffect) Signature() qir.Signature {
	return qir.MustSignature(qir.LeftReg("q", symb.One))
}

func (ZeroEffect) String() string { return "ZeroEffect" }

// Adjoint pairs the effect with its state.
func (ZeroEffect) Adjoint() qir.Bloq { return ZeroState{} }

// DenseTensor returns the row vector (1, 0).
func (ZeroEffect) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat([]int{2}, nil, []complex128{1, 0})
}

// OnClassicalVals asserts the incoming bit is 0 and discards it.
func (ZeroEffect) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	if v := vals["q"].(classical.Int); v != 0 {
		return nil, fmt.Errorf("%w: %d", classical.ErrNonZeroFree, uint64(v))
	}
	return map[string]classical.Val{}, nil
}

// PlusState allocates one wire in |+>. It has no classical action: the
// state is an equal superposition, not a basis state.
type PlusState struct{}

// Signature declares `q: 1 RIGHT`.
func (PlusState) Signature() qir.Signature {
	return qir.MustSignature(qir.RightReg("q", symb.One))
}

func (PlusState) String() string { return "PlusState" }

// Adjoint pairs the state with its projective effect.
func (PlusState) Adjoint() qir.Bloq { return PlusEffect{} }

// DenseTensor returns the column vector (1, 1)/sqrt(2).
func (PlusState) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat(nil, []int{2}, []complex128{invSqrt2, invSqrt2})
}

// PlusEffect deallocates one wire by projecting onto <+|.
type PlusEffect struct{}

// Signature declares `q: 1 LEFT`.
func (PlusEffect) Signature() qir.Signature {
	return qir.MustSignature(qir.LeftReg("q", symb.One))
}

func (PlusEffect) String() string { return "PlusEffect" }

// Adjoint pairs the effect with its state.
func (PlusEffect) Adjoint() qir.Bloq { return PlusState{} }

// DenseTensor returns the row vector (1, 1)/sqrt(2).
func (PlusEffect) DenseTensor() (*tensor.Dense, error) {
	return tensor.FromFlat([]int{2}, nil, []complex128{invSqrt2, invSqrt2})
}
