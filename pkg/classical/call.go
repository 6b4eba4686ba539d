// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classical

import (
	"fmt"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
)

// Simulable is the tier-1 trait of the classical-action protocol: the
// operation maps basis-state inputs to basis-state outputs directly.
type Simulable interface {
	qir.Bloq

	// OnClassicalVals maps one value per left-boundary register to one
	// value per right-boundary register. Implementations may assume the
	// inputs were validated against the signature; outputs are validated
	// by the engine after the call.
	OnClassicalVals(vals map[string]Val) (map[string]Val, error)
}

// Call applies b's classical action to a full left-boundary assignment.
//
// Description:
//
//	Dispatch runs in tiers. A Simulable answers directly. The reshaping
//	and allocation primitives (Split, Join, Partition, Allocate, Free)
//	are evaluated structurally: splits and joins move bits with index 0
//	as the most significant bit, allocations produce zero, and frees
//	require zero. Anything else is decomposed and the values are threaded
//	through the composite wire by wire, recursing per instance. Operations
//	with no classical action at any depth (Hadamard-like leaves) surface
//	a *qir.ProtocolError for the "classical" protocol.
//
//	Values are validated on the way in and on the way out: every register
//	must be bound exactly once, shaped registers take an Arr of
//	NumElements entries, and each entry must fit the register's concrete
//	width. Widths above 64 bits are out of range for this engine.
//
// Inputs:
//
//	b - The operation to evaluate.
//	vals - One Val per left-boundary register, keyed by register name.
//	Pass nil for an empty left boundary.
//
// Outputs:
//
//	map[string]Val - One Val per right-boundary register.
//	error - Validation failures, ErrNonZeroFree from a freed wire, or a
//	*qir.ProtocolError when no tier applies.
func Call(b qir.Bloq, vals map[string]Val) (map[string]Val, error) {
	sig := b.Signature()
	ins, err := toWires(sig.Lefts(), vals)
	if err != nil {
		return nil, fmt.Errorf("classical %s: %w", b, err)
	}
	outs, err := callWires(b, ins)
	if err != nil {
		return nil, err
	}
	return fromWires(sig.Rights(), outs), nil
}

// callWires dispatches one operation in the wire domain: one uint64 per
// register element, keyed by register name. All recursion happens here so
// conversion to the Val surface only occurs at API boundaries.
func callWires(b qir.Bloq, ins map[string][]uint64) (map[string][]uint64, error) {
	if s, ok := b.(Simulable); ok {
		sig := b.Signature()
		vals, err := s.OnClassicalVals(fromWires(sig.Lefts(), ins))
		if err != nil {
			return nil, fmt.Errorf("classical %s: %w", b, err)
		}
		outs, err := toWires(sig.Rights(), vals)
		if err != nil {
			return nil, fmt.Errorf("classical %s returned bad values: %w", b, err)
		}
		return outs, nil
	}

	if outs, handled, err := bookkeepingWires(b, ins); handled {
		if err != nil {
			return nil, fmt.Errorf("classical %s: %w", b, err)
		}
		return outs, nil
	}

	cb, err := qir.DecomposeOrUnsupported(b, "classical")
	if err != nil {
		return nil, err
	}
	outs, err := qir.WalkSoquets(cb, ins, func(inst qir.BloqInstance, nodeIns map[string][]uint64) (map[string][]uint64, error) {
		return callWires(inst.Bloq, nodeIns)
	})
	if err != nil {
		return nil, fmt.Errorf("classical %s: %w", b, err)
	}
	return outs, nil
}

// bookkeepingWires evaluates the structural primitives. handled reports
// whether b was one of them; when it is, err carries any evaluation
// failure.
func bookkeepingWires(b qir.Bloq, ins map[string][]uint64) (outs map[string][]uint64, handled bool, err error) {
	switch op := b.(type) {
	case qir.Split:
		n64, cerr := op.Bits.Concrete()
		if cerr != nil {
			return nil, true, cerr
		}
		n := int(n64)
		if n > 64 {
			return nil, true, fmt.Errorf("%w: split of %d bits", ErrWideRegister, n)
		}
		v := ins["reg"][0]
		bits := make([]uint64, n)
		for i := range bits {
			bits[i] = (v >> uint(n-1-i)) & 1
		}
		return map[string][]uint64{"reg": bits}, true, nil

	case qir.Join:
		bits := ins["reg"]
		if len(bits) > 64 {
			return nil, true, fmt.Errorf("%w: join of %d bits", ErrWideRegister, len(bits))
		}
		var v uint64
		for _, bit := range bits {
			v = v<<1 | (bit & 1)
		}
		return map[string][]uint64{"reg": {v}}, true, nil

	case qir.Partition:
		outs, err := partitionWires(op, ins)
		return outs, true, err

	case qir.Allocate:
		return map[string][]uint64{"reg": {0}}, true, nil

	case qir.Free:
		if v := ins["reg"][0]; v != 0 {
			return nil, true, fmt.Errorf("%w: %d", ErrNonZeroFree, v)
		}
		return map[string][]uint64{}, true, nil
	}
	return nil, false, nil
}

// partitionWires moves bits between the flat register "x" and the named
// parts. Bit order follows the declaration order of the parts with
// row-major elements, most significant first, so a partition and its
// inverse compose to the identity.
func partitionWires(p qir.Partition, ins map[string][]uint64) (map[string][]uint64, error) {
	total64, err := p.Total().Concrete()
	if err != nil {
		return nil, err
	}
	if total64 > 64 {
		return nil, fmt.Errorf("%w: partition of %d bits", ErrWideRegister, total64)
	}

	if p.Inverse {
		var v uint64
		for _, r := range p.Regs {
			w64, err := r.Bits.Concrete()
			if err != nil {
				return nil, fmt.Errorf("register %q: %w", r.Name, err)
			}
			for _, e := range ins[r.Name] {
				v = v<<uint(w64) | (e & lowMask(int(w64)))
			}
		}
		return map[string][]uint64{"x": {v}}, nil
	}

	v := ins["x"][0]
	rem := int(total64)
	outs := make(map[string][]uint64, len(p.Regs))
	for _, r := range p.Regs {
		w64, err := r.Bits.Concrete()
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", r.Name, err)
		}
		w := int(w64)
		elems := make([]uint64, r.NumElements())
		for i := range elems {
			rem -= w
			elems[i] = (v >> uint(rem)) & lowMask(w)
		}
		outs[r.Name] = elems
	}
	return outs, nil
}

// toWires validates vals against regs and flattens each value to one entry
// per register element in row-major order.
func toWires(regs []qir.Register, vals map[string]Val) (map[string][]uint64, error) {
	declared := make(map[string]bool, len(regs))
	for _, r := range regs {
		declared[r.Name] = true
	}
	for name := range vals {
		if !declared[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedValue, name)
		}
	}

	wires := make(map[string][]uint64, len(regs))
	for _, r := range regs {
		val, ok := vals[r.Name]
		if !ok {
			return nil, fmt.Errorf("%w: register %q", ErrMissingValue, r.Name)
		}
		var flat []uint64
		switch v := val.(type) {
		case Int:
			if len(r.Shape) != 0 {
				return nil, fmt.Errorf("%w: scalar value for shaped register %q", ErrBadShape, r.Name)
			}
			flat = []uint64{uint64(v)}
		case Arr:
			if len(v) != r.NumElements() {
				return nil, fmt.Errorf("%w: %d values for register %q, need %d",
					ErrBadShape, len(v), r.Name, r.NumElements())
			}
			flat = append([]uint64(nil), v...)
		default:
			return nil, fmt.Errorf("%w: nil value for register %q", ErrMissingValue, r.Name)
		}
		for _, e := range flat {
			if err := checkRange(r, e); err != nil {
				return nil, err
			}
		}
		wires[r.Name] = flat
	}
	return wires, nil
}

// fromWires renders wire slices back to the Val surface: Int for scalar
// registers, Arr (cloned) for shaped ones.
func fromWires(regs []qir.Register, wires map[string][]uint64) map[string]Val {
	vals := make(map[string]Val, len(regs))
	for _, r := range regs {
		flat := wires[r.Name]
		if len(r.Shape) == 0 {
			vals[r.Name] = Int(flat[0])
		} else {
			vals[r.Name] = Arr(append([]uint64(nil), flat...))
		}
	}
	return vals
}

// checkRange verifies v fits r's width. Symbolic widths fail with the
// underlying symb error; widths above 64 bits are out of engine range.
func checkRange(r qir.Register, v uint64) error {
	bits, err := r.Bits.Concrete()
	if err != nil {
		return fmt.Errorf("register %q: %w", r.Name, err)
	}
	if bits > 64 {
		return fmt.Errorf("%w: register %q is %d bits", ErrWideRegister, r.Name, bits)
	}
	if bits < 64 && v >= 1<<uint(bits) {
		return fmt.Errorf("%w: %d does not fit %d-bit register %q", ErrValueRange, v, bits, r.Name)
	}
	return nil
}

// lowMask returns a mask of the low w bits.
func lowMask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}
