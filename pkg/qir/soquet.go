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
	"strconv"
	"strings"
)

// InstanceID identifies one node within a composite's arena. Non-negative
// IDs index the instance list; the two negative sentinels mark the graph
// boundaries.
type InstanceID int

const (
	// LeftDangleID marks the incoming boundary pseudo-node.
	LeftDangleID InstanceID = -1

	// RightDangleID marks the outgoing boundary pseudo-node.
	RightDangleID InstanceID = -2
)

// BloqInstance is one placed occurrence of an operation inside a composite.
// The same bloq value may be placed many times; instances are told apart by
// ID alone.
type BloqInstance struct {
	ID   InstanceID
	Bloq Bloq
}

// LeftDangle and RightDangle are the boundary pseudo-instances.
var (
	LeftDangle  = BloqInstance{ID: LeftDangleID}
	RightDangle = BloqInstance{ID: RightDangleID}
)

// IsDangle reports whether this is one of the two boundary markers.
func (bi BloqInstance) IsDangle() bool {
	return bi.ID == LeftDangleID || bi.ID == RightDangleID
}

// String renders the instance, e.g. `And<3>` or `LeftDangle`.
func (bi BloqInstance) String() string {
	switch bi.ID {
	case LeftDangleID:
		return "LeftDangle"
	case RightDangleID:
		return "RightDangle"
	default:
		return fmt.Sprintf("%s<%d>", bi.Bloq, bi.ID)
	}
}

// Soquet is one concrete wire endpoint: a register element of a placed
// instance (or of a boundary marker). Under the linear-usage discipline a
// soquet is produced by exactly one output and consumed by exactly one
// input.
type Soquet struct {
	Binst BloqInstance
	Reg   Register
	Idx   []int
}

// String renders the endpoint, e.g. `Split(4)<1>.reg[2]`.
func (s Soquet) String() string {
	out := s.Binst.String() + "." + s.Reg.Name
	if len(s.Idx) > 0 {
		parts := make([]string, len(s.Idx))
		for i, v := range s.Idx {
			parts[i] = strconv.Itoa(v)
		}
		out += "[" + strings.Join(parts, ",") + "]"
	}
	return out
}

// key is the canonical map key for an endpoint within one graph. Registers
// face a given boundary at most once per instance, so (instance, name,
// index) is unique per role (producing vs consuming), and the two roles are
// never mixed in one map.
func (s Soquet) key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(s.Binst.ID)))
	sb.WriteByte('|')
	sb.WriteString(s.Reg.Name)
	for _, v := range s.Idx {
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// SoquetT is one register binding: a scalar soquet or an n-dimensional array
// of soquets matching the register's shape, stored row-major.
type SoquetT struct {
	shape []int
	soqs  []Soquet
}

// Soq wraps a single soquet as a scalar binding.
func Soq(s Soquet) SoquetT {
	return SoquetT{soqs: []Soquet{s}}
}

// NewShaped assembles a shaped binding from row-major elements.
func NewShaped(shape []int, soqs []Soquet) (SoquetT, error) {
	n := 1
	for _, d := range shape {
		if d < 1 {
			return SoquetT{}, fmt.Errorf("%w: shape dimension %d", ErrInvalidRegister, d)
		}
		n *= d
	}
	if len(soqs) != n {
		return SoquetT{}, fmt.Errorf("%w: %d soquets for shape %v", ErrShapeMismatch, len(soqs), shape)
	}
	return SoquetT{shape: slices.Clone(shape), soqs: slices.Clone(soqs)}, nil
}

// IsScalar reports whether the binding holds exactly one unshaped soquet.
func (st SoquetT) IsScalar() bool { return len(st.shape) == 0 }

// Shape returns a copy of the array shape (nil for a scalar).
func (st SoquetT) Shape() []int { return slices.Clone(st.shape) }

// NumElements returns the element count.
func (st SoquetT) NumElements() int { return len(st.soqs) }

// Flat returns the elements in row-major order.
func (st SoquetT) Flat() []Soquet { return slices.Clone(st.soqs) }

// At returns the element at the given index tuple; At() is the scalar
// element. Index arity and bounds are preconditions: a violation panics,
// like an out-of-range slice index.
func (st SoquetT) At(idx ...int) Soquet {
	if len(idx) != len(st.shape) {
		panic(fmt.Sprintf("soquet index %v into shape %v", idx, st.shape))
	}
	flat := 0
	for d, v := range idx {
		if v < 0 || v >= st.shape[d] {
			panic(fmt.Sprintf("soquet index %v out of range for shape %v", idx, st.shape))
		}
		flat = flat*st.shape[d] + v
	}
	return st.soqs[flat]
}

// String renders the binding.
func (st SoquetT) String() string {
	if st.IsScalar() {
		if len(st.soqs) == 0 {
			return "<empty>"
		}
		return st.soqs[0].String()
	}
	parts := make([]string, len(st.soqs))
	for i, s := range st.soqs {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// SoqMap binds register names to soquet values; the builder consumes and
// produces these.
type SoqMap = map[string]SoquetT

// Connection is one graph edge: a producing endpoint feeding a consuming
// endpoint. Both ends carry the same element bitsize.
type Connection struct {
	From Soquet
	To   Soquet
}

// String renders the edge, e.g. `H<0>.q -> CNot<1>.ctrl`.
func (c Connection) String() string {
	return c.From.String() + " -> " + c.To.String()
}
