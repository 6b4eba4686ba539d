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

	"github.com/AleutianAI/AleutianQIR/pkg/classical"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
	"github.com/AleutianAI/AleutianQIR/pkg/tensor"
)

// And computes the conjunction of two control wires onto one fresh target
// wire, consuming the controls.
//
// Description:
//
//	The forward form takes `ctrl: 1 [2] LEFT` to `target: 1 RIGHT`; its
//	tensor has shape (2, 2, 2) with a unit entry exactly where the target
//	index equals the conjunction of the control indices. Uncompute is the
//	adjoint form with the boundary sides swapped: it consumes the target
//	and re-emits the controls.
//
//	The two forms are priced differently on purpose. Computing an And
//	costs four T gates; uncomputing one costs no T gates at all
//	(measurement-based uncomputation), which the counting trait reports
//	as an empty callee list: a leaf, not an unsupported query. The
//	forward form has a classical action; the uncompute form does not,
//	since its consumed target underdetermines the controls.
type And struct {
	Uncompute bool
}

// Signature declares `ctrl: 1 [2] LEFT -> target: 1 RIGHT`, with sides
// swapped for the uncompute form.
func (a And) Signature() qir.Signature {
	if a.Uncompute {
		return qir.MustSignature(
			qir.RightShaped("ctrl", symb.One, 2),
			qir.LeftReg("target", symb.One),
		)
	}
	return qir.MustSignature(
		qir.LeftShaped("ctrl", symb.One, 2),
		qir.RightReg("target", symb.One),
	)
}

// String returns "And" or "And†".
func (a And) String() string {
	if a.Uncompute {
		return "And†"
	}
	return "And"
}

// Adjoint flips between the computing and uncomputing forms.
func (a And) Adjoint() qir.Bloq { return And{Uncompute: !a.Uncompute} }

// DenseTensor returns the AND truth-table tensor: a unit entry at
// (c0, c1, c0 AND c1) for each control assignment, transposed for the
// uncompute form.
func (a And) DenseTensor() (*tensor.Dense, error) {
	d := tensor.Zeros([]int{2, 2}, []int{2})
	for c0 := range 2 {
		for c1 := range 2 {
			d.Set(1, c0, c1, c0&c1)
		}
	}
	if a.Uncompute {
		d = d.ConjTranspose()
	}
	return d, nil
}

// OnClassicalVals computes the conjunction. The uncompute form refuses:
// three control assignments share a zero target, so no classical action
// exists.
func (a And) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	if a.Uncompute {
		return nil, fmt.Errorf("%w: uncomputing And discards its controls", qir.ErrProtocolUnsupported)
	}
	ctrl := vals["ctrl"].(classical.Arr)
	return map[string]classical.Val{"target": classical.Int(ctrl[0] & ctrl[1])}, nil
}

// BloqCounts prices the forward form at four T gates. The uncompute form
// is measurement-based and costs none: the empty answer makes it a
// call-graph leaf.
func (a And) BloqCounts(alloc *symb.Alloc) ([]qir.BloqCount, error) {
	if a.Uncompute {
		return nil, nil
	}
	return []qir.BloqCount{{Bloq: TGate{}, N: symb.Lit(4)}}, nil
}

// MultiAnd computes the conjunction of Controls control wires onto one
// fresh target, consuming the controls. It decomposes into a chain of
// Controls-1 two-wire Ands, each folding the running conjunction with the
// next control. Controls must be at least 2.
type MultiAnd struct {
	Controls int
}

// Signature declares `ctrl: 1 [k] LEFT -> target: 1 RIGHT`.
func (m MultiAnd) Signature() qir.Signature {
	if m.Controls < 2 {
		panic(fmt.Sprintf("MultiAnd requires at least 2 controls, got %d", m.Controls))
	}
	return qir.MustSignature(
		qir.LeftShaped("ctrl", symb.One, m.Controls),
		qir.RightReg("target", symb.One),
	)
}

// String returns e.g. `MultiAnd(3)`.
func (m MultiAnd) String() string { return fmt.Sprintf("MultiAnd(%d)", m.Controls) }

// BuildComposite chains Ands left to right over the control array.
func (m MultiAnd) BuildComposite(bb *qir.Builder, soqs qir.SoqMap) (qir.SoqMap, error) {
	ctrl := soqs["ctrl"]
	acc := ctrl.At(0)
	for i := 1; i < m.Controls; i++ {
		pair, err := qir.NewShaped([]int{2}, []qir.Soquet{acc, ctrl.At(i)})
		if err != nil {
			return nil, err
		}
		outs, err := bb.Add(And{}, qir.SoqMap{"ctrl": pair})
		if err != nil {
			return nil, err
		}
		acc = outs["target"].At()
	}
	return qir.SoqMap{"target": qir.Soq(acc)}, nil
}

// OnClassicalVals computes the conjunction of all controls.
func (m MultiAnd) OnClassicalVals(vals map[string]classical.Val) (map[string]classical.Val, error) {
	acc := uint64(1)
	for _, c := range vals["ctrl"].(classical.Arr) {
		acc &= c
	}
	return map[string]classical.Val{"target": classical.Int(acc)}, nil
}
