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
	"math"
	"math/cmplx"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
	"github.com/AleutianAI/AleutianQIR/pkg/tensor"
)

// TGate applies the pi/8 phase rotation, the costed primitive of the
// fault-tolerant gateset: resource reports typically reduce to counting
// these. IsAdjoint selects the inverse rotation.
type TGate struct {
	IsAdjoint bool
}

// Signature declares `q: 1 THRU`.
func (TGate) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

// String returns "T" or "T†".
func (t TGate) String() string {
	if t.IsAdjoint {
		return "T†"
	}
	return "T"
}

// Adjoint flips the rotation direction.
func (t TGate) Adjoint() qir.Bloq { return TGate{IsAdjoint: !t.IsAdjoint} }

// DenseTensor returns diag(1, exp(±i pi/4)).
func (t TGate) DenseTensor() (*tensor.Dense, error) {
	phase := cmplx.Exp(complex(0, math.Pi/4))
	if t.IsAdjoint {
		phase = cmplx.Conj(phase)
	}
	return tensor.FromFlat([]int{2}, []int{2}, []complex128{1, 0, 0, phase})
}

// GeneralizeTGates folds the adjoint T into the plain T. The two cost the
// same on every model the catalog ships, and folding them keeps resource
// reports to a single T row. A call-graph generalizer; other operations
// pass through unchanged.
func GeneralizeTGates(b qir.Bloq) qir.Bloq {
	if t, ok := b.(TGate); ok && t.IsAdjoint {
		return TGate{}
	}
	return b
}
