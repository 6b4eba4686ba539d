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
	"slices"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// Side declares which boundary of an operation a register faces.
type Side uint8

const (
	// SideThru is the default: the register is present on both boundaries
	// with identical type (a wire passing through, possibly transformed).
	SideThru Side = iota

	// SideLeft registers appear only on the incoming boundary (consumed:
	// discard, reshape input).
	SideLeft

	// SideRight registers appear only on the outgoing boundary (produced:
	// allocation, reshape output).
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideThru:
		return "THRU"
	case SideLeft:
		return "LEFT"
	case SideRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// OnLeft reports whether the register is visible on the incoming boundary.
func (s Side) OnLeft() bool { return s != SideRight }

// OnRight reports whether the register is visible on the outgoing boundary.
func (s Side) OnRight() bool { return s != SideLeft }

// adjoint swaps LEFT and RIGHT; THRU is self-adjoint.
func (s Side) adjoint() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideThru
	}
}

// Register is a named, typed wire declaration on an operation boundary.
//
// Bits may be symbolic; Shape must be concrete (a register with shape [k]
// contributes k distinct wire endpoints, each of Bits width). Registers are
// treated as immutable values; do not mutate Shape after construction.
type Register struct {
	Name  string
	Bits  symb.Int
	Shape []int
	Side  Side
}

// Thru declares a scalar pass-through register.
func Thru(name string, bits symb.Int) Register {
	return Register{Name: name, Bits: bits}
}

// ThruShaped declares a pass-through register with a multiplicity shape.
func ThruShaped(name string, bits symb.Int, shape ...int) Register {
	return Register{Name: name, Bits: bits, Shape: shape}
}

// LeftReg declares a scalar input-only register.
func LeftReg(name string, bits symb.Int) Register {
	return Register{Name: name, Bits: bits, Side: SideLeft}
}

// LeftShaped declares an input-only register with a multiplicity shape.
func LeftShaped(name string, bits symb.Int, shape ...int) Register {
	return Register{Name: name, Bits: bits, Shape: shape, Side: SideLeft}
}

// RightReg declares a scalar output-only register.
func RightReg(name string, bits symb.Int) Register {
	return Register{Name: name, Bits: bits, Side: SideRight}
}

// RightShaped declares an output-only register with a multiplicity shape.
func RightShaped(name string, bits symb.Int, shape ...int) Register {
	return Register{Name: name, Bits: bits, Shape: shape, Side: SideRight}
}

// validate checks the declaration itself (not its relation to others).
func (r Register) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRegister)
	}
	if r.Bits.IsConcrete() {
		if n, _ := r.Bits.Concrete(); n < 1 {
			return fmt.Errorf("%w: register %q has bitsize %d", ErrInvalidRegister, r.Name, n)
		}
	}
	for _, d := range r.Shape {
		if d < 1 {
			return fmt.Errorf("%w: register %q has shape dimension %d", ErrInvalidRegister, r.Name, d)
		}
	}
	return nil
}

// NumElements returns the number of wire endpoints this register contributes
// (the product of its shape; 1 for a scalar).
func (r Register) NumElements() int {
	n := 1
	for _, d := range r.Shape {
		n *= d
	}
	return n
}

// Total returns the total bit count across all elements.
func (r Register) Total() symb.Int {
	return r.Bits.Mul(symb.Lit(int64(r.NumElements())))
}

// AllIdx returns every index tuple of the shape in row-major order. A scalar
// register yields a single nil tuple.
func (r Register) AllIdx() [][]int {
	if len(r.Shape) == 0 {
		return [][]int{nil}
	}
	out := make([][]int, 0, r.NumElements())
	idx := make([]int, len(r.Shape))
	for {
		out = append(out, slices.Clone(idx))
		d := len(idx) - 1
		for d >= 0 {
			idx[d]++
			if idx[d] < r.Shape[d] {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			return out
		}
	}
}

// adjoint returns the register with its side swapped.
func (r Register) adjoint() Register {
	r.Side = r.Side.adjoint()
	return r
}

// Equal reports structural equality of two registers.
func (r Register) Equal(o Register) bool {
	return r.Name == o.Name && r.Bits == o.Bits && r.Side == o.Side &&
		slices.Equal(r.Shape, o.Shape)
}

// String renders the declaration, e.g. `ctrl: 1 [2] THRU`.
func (r Register) String() string {
	s := fmt.Sprintf("%s: %s", r.Name, r.Bits)
	if len(r.Shape) > 0 {
		s += fmt.Sprintf(" %v", r.Shape)
	}
	return s + " " + r.Side.String()
}

// Signature is an ordered sequence of registers describing an operation
// boundary. Construct with NewSignature or BuildSignature; the zero value is
// the empty signature.
type Signature struct {
	regs []Register
}

// NewSignature validates and assembles a signature.
//
// Description:
//
//	Each register must be well formed, and within each boundary (left,
//	right) register names must be unique. Validation is eager: a malformed
//	signature is a programming error at the declaration site, never a
//	deferred one.
//
// Outputs:
//
//	Signature - The validated signature.
//	error - ErrInvalidRegister or ErrDuplicateRegister (wrapped).
func NewSignature(regs ...Register) (Signature, error) {
	leftSeen := make(map[string]bool, len(regs))
	rightSeen := make(map[string]bool, len(regs))
	for _, r := range regs {
		if err := r.validate(); err != nil {
			return Signature{}, err
		}
		if r.Side.OnLeft() {
			if leftSeen[r.Name] {
				return Signature{}, fmt.Errorf("%w: %q on left boundary", ErrDuplicateRegister, r.Name)
			}
			leftSeen[r.Name] = true
		}
		if r.Side.OnRight() {
			if rightSeen[r.Name] {
				return Signature{}, fmt.Errorf("%w: %q on right boundary", ErrDuplicateRegister, r.Name)
			}
			rightSeen[r.Name] = true
		}
	}
	return Signature{regs: slices.Clone(regs)}, nil
}

// MustSignature is NewSignature that panics on error; intended for fixed
// gate declarations.
func MustSignature(regs ...Register) Signature {
	sig, err := NewSignature(regs...)
	if err != nil {
		panic(err)
	}
	return sig
}

// NamedBits pairs a register name with a bitsize for BuildSignature.
type NamedBits struct {
	Name string
	Bits symb.Int
}

// BuildSignature is the all-THRU convenience: one scalar pass-through
// register per pair, in the given order.
func BuildSignature(pairs ...NamedBits) (Signature, error) {
	regs := make([]Register, len(pairs))
	for i, p := range pairs {
		regs[i] = Thru(p.Name, p.Bits)
	}
	return NewSignature(regs...)
}

// MustBuildSignature is BuildSignature that panics on error.
func MustBuildSignature(pairs ...NamedBits) Signature {
	sig, err := BuildSignature(pairs...)
	if err != nil {
		panic(err)
	}
	return sig
}

// Registers returns a copy of the declaration order.
func (s Signature) Registers() []Register {
	return slices.Clone(s.regs)
}

// Len returns the number of declared registers.
func (s Signature) Len() int { return len(s.regs) }

// Lefts returns the registers visible on the incoming boundary, in order.
func (s Signature) Lefts() []Register {
	var out []Register
	for _, r := range s.regs {
		if r.Side.OnLeft() {
			out = append(out, r)
		}
	}
	return out
}

// Rights returns the registers visible on the outgoing boundary, in order.
func (s Signature) Rights() []Register {
	var out []Register
	for _, r := range s.regs {
		if r.Side.OnRight() {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the first register with the given name.
func (s Signature) Get(name string) (Register, bool) {
	for _, r := range s.regs {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// AdjointSignature returns the signature with every register's side swapped.
func (s Signature) AdjointSignature() Signature {
	regs := make([]Register, len(s.regs))
	for i, r := range s.regs {
		regs[i] = r.adjoint()
	}
	return Signature{regs: regs}
}

// Equal reports structural equality of two signatures.
func (s Signature) Equal(o Signature) bool {
	if len(s.regs) != len(o.regs) {
		return false
	}
	for i := range s.regs {
		if !s.regs[i].Equal(o.regs[i]) {
			return false
		}
	}
	return true
}

// String renders the boundary, e.g. `(x: n THRU, junk: 1 [2] RIGHT)`.
func (s Signature) String() string {
	parts := make([]string, len(s.regs))
	for i, r := range s.regs {
		parts[i] = r.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
