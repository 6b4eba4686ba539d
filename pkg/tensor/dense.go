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
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// Dense is a dense complex tensor over an operation boundary: one index per
// boundary soquet, dimension 2^bits each, stored row-major. Left-boundary
// indices come first (signature order, register elements row-major), then
// right-boundary indices. For a THRU unitary U the entry at (l, r) is
// <r|U|l>.
type Dense struct {
	leftDims  []int
	rightDims []int
	data      []complex128
}

// Zeros returns the all-zero tensor with the given boundary split.
func Zeros(leftDims, rightDims []int) *Dense {
	return &Dense{
		leftDims:  slices.Clone(leftDims),
		rightDims: slices.Clone(rightDims),
		data:      make([]complex128, product(leftDims)*product(rightDims)),
	}
}

// FromFlat assembles a tensor from row-major data.
func FromFlat(leftDims, rightDims []int, data []complex128) (*Dense, error) {
	want := product(leftDims) * product(rightDims)
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d values for boundary %v|%v (need %d)",
			ErrShape, len(data), leftDims, rightDims, want)
	}
	return &Dense{
		leftDims:  slices.Clone(leftDims),
		rightDims: slices.Clone(rightDims),
		data:      slices.Clone(data),
	}, nil
}

// MustFromFlat is FromFlat that panics; for fixed gate literals.
func MustFromFlat(leftDims, rightDims []int, data []complex128) *Dense {
	d, err := FromFlat(leftDims, rightDims, data)
	if err != nil {
		panic(err)
	}
	return d
}

// LeftDims returns the dimensions of the left-boundary indices.
func (d *Dense) LeftDims() []int { return slices.Clone(d.leftDims) }

// RightDims returns the dimensions of the right-boundary indices.
func (d *Dense) RightDims() []int { return slices.Clone(d.rightDims) }

// Dims returns all index dimensions, left then right.
func (d *Dense) Dims() []int {
	return append(slices.Clone(d.leftDims), d.rightDims...)
}

// Rank returns the total index count.
func (d *Dense) Rank() int { return len(d.leftDims) + len(d.rightDims) }

// NumElements returns the element count.
func (d *Dense) NumElements() int { return len(d.data) }

// At returns the element at the full index tuple (left indices then right).
// Index arity and bounds are preconditions, as with a slice index.
func (d *Dense) At(idx ...int) complex128 {
	return d.data[d.offset(idx)]
}

// Set assigns the element at the full index tuple.
func (d *Dense) Set(v complex128, idx ...int) {
	d.data[d.offset(idx)] = v
}

func (d *Dense) offset(idx []int) int {
	dims := d.Dims()
	if len(idx) != len(dims) {
		panic(fmt.Sprintf("tensor index %v into dims %v", idx, dims))
	}
	flat := 0
	for i, v := range idx {
		if v < 0 || v >= dims[i] {
			panic(fmt.Sprintf("tensor index %v out of range for dims %v", idx, dims))
		}
		flat = flat*dims[i] + v
	}
	return flat
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{
		leftDims:  slices.Clone(d.leftDims),
		rightDims: slices.Clone(d.rightDims),
		data:      slices.Clone(d.data),
	}
}

// ConjTranspose returns the adjoint tensor: boundary split reversed, every
// entry conjugated. (A right index of d is a left index of the result.)
func (d *Dense) ConjTranspose() *Dense {
	nl, nr := len(d.leftDims), len(d.rightDims)
	perm := make([]int, 0, nl+nr)
	for i := 0; i < nr; i++ {
		perm = append(perm, nl+i)
	}
	for i := 0; i < nl; i++ {
		perm = append(perm, i)
	}
	out := permute(d.data, d.Dims(), perm)
	for i, v := range out {
		out[i] = cmplx.Conj(v)
	}
	return &Dense{
		leftDims:  slices.Clone(d.rightDims),
		rightDims: slices.Clone(d.leftDims),
		data:      out,
	}
}

// EqualApprox reports whether two tensors have the same boundary split and
// elementwise distance within tol.
func (d *Dense) EqualApprox(o *Dense, tol float64) bool {
	if !slices.Equal(d.leftDims, o.leftDims) || !slices.Equal(d.rightDims, o.rightDims) {
		return false
	}
	for i := range d.data {
		if cmplx.Abs(d.data[i]-o.data[i]) > tol {
			return false
		}
	}
	return true
}

// MaxAbs returns the largest entry magnitude; 0 for an empty tensor.
func (d *Dense) MaxAbs() float64 {
	m := 0.0
	for _, v := range d.data {
		m = math.Max(m, cmplx.Abs(v))
	}
	return m
}

// String renders the boundary shape, e.g. `Dense[2 2]|[2]`.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense%v|%v", d.leftDims, d.rightDims)
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// permute reorders tensor axes: out has dims[perm[i]] at axis i, and
// out[j0,...,jk] = in at the source tuple. Row-major both sides.
func permute(data []complex128, dims []int, perm []int) []complex128 {
	if len(dims) == 0 {
		return slices.Clone(data)
	}
	outDims := make([]int, len(perm))
	for i, p := range perm {
		outDims[i] = dims[p]
	}
	inStrides := strides(dims)
	out := make([]complex128, len(data))
	idx := make([]int, len(outDims))
	for o := range out {
		src := 0
		for i, p := range perm {
			src += idx[i] * inStrides[p]
		}
		out[o] = data[src]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outDims[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// strides returns row-major strides for dims.
func strides(dims []int) []int {
	s := make([]int, len(dims))
	acc := 1
	for i := len(dims) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= dims[i]
	}
	return s
}
