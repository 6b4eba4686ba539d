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

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// Bookkeeping operations: the reshaping and allocation primitives the
// builder emits on behalf of callers. They are ordinary atomic bloqs so
// their cost appears in call graphs uniformly; resource reports typically
// hide them with the IgnoreSplitJoin/IgnoreAllocFree generalizers.
//
// Split, Join, and element enumeration require concrete widths: a shape
// cannot be built from a free variable. Signature() panics on a symbolic
// width; construction through the builder never violates this.

// Split fans a bitsize-n register out into n single-bit wires. Index 0 of
// the output carries the most significant bit.
type Split struct {
	Bits symb.Int
}

// Signature declares `reg: n LEFT` -> `reg: 1 [n] RIGHT`.
func (s Split) Signature() Signature {
	n := mustConcreteShape(s.Bits, "Split")
	return MustSignature(
		LeftReg("reg", s.Bits),
		RightShaped("reg", symb.One, n),
	)
}

// String returns e.g. `Split(4)`.
func (s Split) String() string { return fmt.Sprintf("Split(%s)", s.Bits) }

// Adjoint of a split is the matching join.
func (s Split) Adjoint() Bloq { return Join{Bits: s.Bits} }

// Join fans n single-bit wires back into one bitsize-n register; the inverse
// of Split, with index 0 the most significant bit.
type Join struct {
	Bits symb.Int
}

// Signature declares `reg: 1 [n] LEFT` -> `reg: n RIGHT`.
func (j Join) Signature() Signature {
	n := mustConcreteShape(j.Bits, "Join")
	return MustSignature(
		LeftShaped("reg", symb.One, n),
		RightReg("reg", j.Bits),
	)
}

// String returns e.g. `Join(4)`.
func (j Join) String() string { return fmt.Sprintf("Join(%s)", j.Bits) }

// Adjoint of a join is the matching split.
func (j Join) Adjoint() Bloq { return Split{Bits: j.Bits} }

// Partition regroups one flat register into a named sub-signature (forward)
// or regroups the sub-registers back into the flat register (Inverse). The
// flat side is named "x"; bit order follows the declaration order of Regs,
// most significant first.
type Partition struct {
	Regs    []Register
	Inverse bool
}

// Total returns the flat side's width: the summed totals of the parts.
func (p Partition) Total() symb.Int {
	total := symb.Zero
	for _, r := range p.Regs {
		total = total.Add(r.Total())
	}
	return total
}

// Signature declares `x: total LEFT` -> parts RIGHT, or the reverse.
func (p Partition) Signature() Signature {
	flatSide, partSide := SideLeft, SideRight
	if p.Inverse {
		flatSide, partSide = SideRight, SideLeft
	}
	regs := make([]Register, 0, len(p.Regs)+1)
	regs = append(regs, Register{Name: "x", Bits: p.Total(), Side: flatSide})
	for _, r := range p.Regs {
		r.Side = partSide
		regs = append(regs, r)
	}
	return MustSignature(regs...)
}

// String returns e.g. `Partition(3)` or `Unpartition(3)`.
func (p Partition) String() string {
	if p.Inverse {
		return fmt.Sprintf("Unpartition(%d)", len(p.Regs))
	}
	return fmt.Sprintf("Partition(%d)", len(p.Regs))
}

// Adjoint flips the partition direction.
func (p Partition) Adjoint() Bloq {
	return Partition{Regs: p.Regs, Inverse: !p.Inverse}
}

// Allocate introduces a fresh zero-initialized register.
type Allocate struct {
	Bits symb.Int
}

// Signature declares `reg: n RIGHT`.
func (a Allocate) Signature() Signature {
	return MustSignature(RightReg("reg", a.Bits))
}

// String returns e.g. `Allocate(4)`.
func (a Allocate) String() string { return fmt.Sprintf("Allocate(%s)", a.Bits) }

// Adjoint of an allocation retires the register.
func (a Allocate) Adjoint() Bloq { return Free{Bits: a.Bits} }

// Free retires a register. The wire must carry the classical value zero
// when it reaches a Free; the classical engine checks this.
type Free struct {
	Bits symb.Int
}

// Signature declares `reg: n LEFT`.
func (f Free) Signature() Signature {
	return MustSignature(LeftReg("reg", f.Bits))
}

// String returns e.g. `Free(4)`.
func (f Free) String() string { return fmt.Sprintf("Free(%s)", f.Bits) }

// Adjoint of a free is a fresh allocation.
func (f Free) Adjoint() Bloq { return Allocate{Bits: f.Bits} }

func mustConcreteShape(bits symb.Int, op string) int {
	n, err := bits.Concrete()
	if err != nil {
		panic(fmt.Sprintf("%s requires a concrete width, got %s", op, bits))
	}
	return int(n)
}
