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
	"slices"
	"sort"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"

	"github.com/AleutianAI/AleutianQIR/pkg/qir"
)

// Backed is the tier-1 trait of the tensor protocol: the operation supplies
// its dense form directly. Index layout must follow the Dense convention
// (left-boundary soquets in signature order, then right-boundary).
type Backed interface {
	qir.Bloq

	// DenseTensor returns the operation's dense tensor.
	DenseTensor() (*Dense, error)
}

// maxWireBits bounds a single wire's width: a dimension of 2^30 already
// exceeds any practical dense contraction.
const maxWireBits = 30

type options struct {
	flatten bool
}

// Option configures a contraction.
type Option func(*options)

// WithFlatten inlines nested decompositions before contracting, so the
// whole network is contracted in one pass instead of one dense tensor per
// nesting level. Explicit performance choice; never the default.
func WithFlatten() Option {
	return func(o *options) { o.flatten = true }
}

// Contract resolves the tensor protocol for b.
//
// Description:
//
//	Tier 1: a Backed operation supplies its tensor, which is validated
//	against the signature's boundary dimensions. Tier 2: decompose and
//	contract the composite as a tensor network (one node per contained
//	instance, itself contracted recursively, with one shared index per
//	connection and boundary soquets free), reducing pairwise via matrix
//	multiplication. An atomic leaf with no tensor fails with a
//	ProtocolError naming the tensor protocol.
//
// Outputs:
//
//	*Dense - The contracted boundary tensor.
//	error - Protocol, width (symbolic or oversized), or shape errors.
func Contract(b qir.Bloq, opts ...Option) (*Dense, error) {
	var cfg options
	for _, o := range opts {
		o(&cfg)
	}

	if bk, ok := b.(Backed); ok {
		d, err := bk.DenseTensor()
		if err != nil {
			return nil, fmt.Errorf("tensor of %s: %w", b, err)
		}
		left, right, err := boundaryDims(b.Signature())
		if err != nil {
			return nil, fmt.Errorf("tensor of %s: %w", b, err)
		}
		if !slices.Equal(d.leftDims, left) || !slices.Equal(d.rightDims, right) {
			return nil, fmt.Errorf("%w: %s declared %v|%v, boundary needs %v|%v",
				ErrShape, b, d.leftDims, d.rightDims, left, right)
		}
		return d, nil
	}

	cb, err := qir.DecomposeOrUnsupported(b, "tensor")
	if err != nil {
		return nil, err
	}
	if cfg.flatten {
		cb, err = cb.Flatten(func(bi qir.BloqInstance) bool {
			_, direct := bi.Bloq.(Backed)
			return !direct
		})
		if err != nil {
			return nil, fmt.Errorf("flatten for contraction: %w", err)
		}
	}
	return contractComposite(cb)
}

// netTensor is one node of the contraction network: data plus an integer
// label per index. Equal labels across nodes denote the shared index of one
// connection.
type netTensor struct {
	labels []int
	dims   []int
	data   []complex128
}

// contractComposite contracts a composite's network to its boundary tensor.
func contractComposite(cb *qir.CompositeBloq) (*Dense, error) {
	conns := cb.Connections()
	sig := cb.Signature()

	// One label and dimension per connection.
	connDim := make([]int, len(conns))
	fromConn := make(map[string]int, len(conns))
	toConn := make(map[string]int, len(conns))
	for i, c := range conns {
		dim, err := wireDim(c.From.Reg)
		if err != nil {
			return nil, err
		}
		connDim[i] = dim
		fromConn[soqKey(c.From)] = i
		toConn[soqKey(c.To)] = i
	}

	nextLabel := len(conns)
	network := make([]netTensor, 0, len(cb.Instances())+2)

	// Boundary labels. A connection running straight from the left to the
	// right boundary would surface the same label on both sides; splice in
	// an explicit identity node so the two sides stay distinct indices.
	var rowLabels, colLabels []int
	passThrough := make(map[int]int) // conn index -> relabeled col label
	for i, c := range conns {
		if c.From.Binst.ID == qir.LeftDangleID && c.To.Binst.ID == qir.RightDangleID {
			relabel := nextLabel
			nextLabel++
			passThrough[i] = relabel
			dim := connDim[i]
			ident := netTensor{labels: []int{i, relabel}, dims: []int{dim, dim},
				data: make([]complex128, dim*dim)}
			for k := 0; k < dim; k++ {
				ident.data[k*dim+k] = 1
			}
			network = append(network, ident)
		}
	}
	for _, reg := range sig.Lefts() {
		for _, idx := range reg.AllIdx() {
			i, ok := fromConn[soqKey(qir.Soquet{Binst: qir.LeftDangle, Reg: reg, Idx: idx})]
			if !ok {
				return nil, fmt.Errorf("%w: left boundary %q unconnected", ErrShape, reg.Name)
			}
			rowLabels = append(rowLabels, i)
		}
	}
	for _, reg := range sig.Rights() {
		for _, idx := range reg.AllIdx() {
			i, ok := toConn[soqKey(qir.Soquet{Binst: qir.RightDangle, Reg: reg, Idx: idx})]
			if !ok {
				return nil, fmt.Errorf("%w: right boundary %q unconnected", ErrShape, reg.Name)
			}
			if relabel, ok := passThrough[i]; ok {
				i = relabel
			}
			colLabels = append(colLabels, i)
		}
	}

	order, err := cb.Topological()
	if err != nil {
		return nil, err
	}
	for _, inst := range order {
		d, err := Contract(inst.Bloq)
		if err != nil {
			return nil, err
		}
		nt := netTensor{dims: d.Dims(), data: slices.Clone(d.data)}
		isig := inst.Bloq.Signature()
		for _, reg := range isig.Lefts() {
			for _, idx := range reg.AllIdx() {
				nt.labels = append(nt.labels, toConn[soqKey(qir.Soquet{Binst: inst, Reg: reg, Idx: idx})])
			}
		}
		for _, reg := range isig.Rights() {
			for _, idx := range reg.AllIdx() {
				nt.labels = append(nt.labels, fromConn[soqKey(qir.Soquet{Binst: inst, Reg: reg, Idx: idx})])
			}
		}
		if len(nt.labels) != len(nt.dims) {
			return nil, fmt.Errorf("%w: %s has %d boundary soquets but rank %d",
				ErrShape, inst, len(nt.labels), len(nt.dims))
		}
		for ax, l := range nt.labels {
			if nt.dims[ax] != connDim[l] {
				return nil, fmt.Errorf("%w: %s axis %d has dim %d, connection needs %d",
					ErrShape, inst, ax, nt.dims[ax], connDim[l])
			}
		}
		network = append(network, nt)
	}

	acc := netTensor{data: []complex128{1}}
	for _, nt := range network {
		acc = contractPair(acc, nt)
	}

	// Arrange the surviving free indices into the boundary order.
	want := append(slices.Clone(rowLabels), colLabels...)
	if len(acc.labels) != len(want) {
		return nil, fmt.Errorf("%w: %d open indices, boundary needs %d",
			ErrShape, len(acc.labels), len(want))
	}
	perm := make([]int, len(want))
	for i, l := range want {
		at := slices.Index(acc.labels, l)
		if at < 0 {
			return nil, fmt.Errorf("%w: boundary index missing from contraction", ErrShape)
		}
		perm[i] = at
	}
	data := permute(acc.data, acc.dims, perm)

	leftDims := make([]int, len(rowLabels))
	for i, ax := range perm[:len(rowLabels)] {
		leftDims[i] = acc.dims[ax]
	}
	rightDims := make([]int, len(colLabels))
	for i, ax := range perm[len(rowLabels):] {
		rightDims[i] = acc.dims[ax]
	}
	return &Dense{leftDims: leftDims, rightDims: rightDims, data: data}, nil
}

// contractPair reduces two network nodes to one, summing over their shared
// labels via a single matrix multiplication.
func contractPair(a, b netTensor) netTensor {
	aAxis := make(map[int]int, len(a.labels))
	for i, l := range a.labels {
		aAxis[l] = i
	}
	var shared []int
	bShared := make(map[int]bool)
	for _, l := range b.labels {
		if _, ok := aAxis[l]; ok {
			shared = append(shared, l)
			bShared[l] = true
		}
	}
	sort.Ints(shared)

	var aPerm, bPerm []int
	var outLabels, outDims []int
	m, k, n := 1, 1, 1
	for i, l := range a.labels {
		if !bShared[l] {
			aPerm = append(aPerm, i)
			outLabels = append(outLabels, l)
			outDims = append(outDims, a.dims[i])
			m *= a.dims[i]
		}
	}
	for _, l := range shared {
		aPerm = append(aPerm, aAxis[l])
		k *= a.dims[aAxis[l]]
	}
	bAxis := make(map[int]int, len(b.labels))
	for i, l := range b.labels {
		bAxis[l] = i
	}
	for _, l := range shared {
		bPerm = append(bPerm, bAxis[l])
	}
	for i, l := range b.labels {
		if !bShared[l] {
			bPerm = append(bPerm, i)
			outLabels = append(outLabels, l)
			outDims = append(outDims, b.dims[i])
			n *= b.dims[i]
		}
	}

	aData := permute(a.data, a.dims, aPerm)
	bData := permute(b.data, b.dims, bPerm)

	am := mat.NewCDense(m, k, aData)
	bm := mat.NewCDense(k, n, bData)
	out := cblas128.General{Rows: m, Cols: n, Stride: n, Data: make([]complex128, m*n)}
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, am.RawCMatrix(), bm.RawCMatrix(), 0, out)

	return netTensor{labels: outLabels, dims: outDims, data: out.Data}
}

// boundaryDims derives the per-soquet index dimensions of a signature.
func boundaryDims(sig qir.Signature) (left, right []int, err error) {
	for _, reg := range sig.Lefts() {
		dim, err := wireDim(reg)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < reg.NumElements(); i++ {
			left = append(left, dim)
		}
	}
	for _, reg := range sig.Rights() {
		dim, err := wireDim(reg)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < reg.NumElements(); i++ {
			right = append(right, dim)
		}
	}
	return left, right, nil
}

// wireDim returns 2^bits for one register element, requiring a concrete,
// materializable width.
func wireDim(reg qir.Register) (int, error) {
	bits, err := reg.Bits.Concrete()
	if err != nil {
		return 0, fmt.Errorf("register %q: %w", reg.Name, err)
	}
	if bits > maxWireBits {
		return 0, fmt.Errorf("%w: register %q is %d bits", ErrTooLarge, reg.Name, bits)
	}
	return 1 << bits, nil
}

func soqKey(s qir.Soquet) string {
	return s.String()
}
