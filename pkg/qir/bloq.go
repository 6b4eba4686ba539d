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
	"errors"
	"fmt"
)

// Bloq is the polymorphic unit of computation: an abstract transformation on
// quantum and classical registers, atomic or decomposable.
//
// Description:
//
//	Implementations must be immutable values whose exported fields are the
//	complete constructor argument list: two bloqs with identical fields are
//	equal and interchangeable, and the field set must stay within the flat
//	interchange shape (integers, symb.Int, strings, small arrays). Protocol
//	support beyond the signature is opt-in through small trait interfaces
//	(Decomposer, Adjointer, and the per-engine traits); a bloq that does
//	not implement a trait is "not provided", which every engine
//	distinguishes from "provided but empty or failing".
//
// Thread Safety:
//
//	Bloq values are immutable; all protocol functions over them are pure.
type Bloq interface {
	// Signature declares the operation's boundary registers.
	Signature() Signature

	// String returns the operation's display name, stable across processes
	// and unique up to constructor arguments (e.g. "And", "Split(4)").
	// Cost models and drawings key off this name.
	String() string
}

// Decomposer is the tier-1 trait of the decompose protocol: the operation
// can express itself as a composite of simpler operations.
type Decomposer interface {
	Bloq

	// BuildComposite wires the decomposition into bb. soqs binds every
	// left-boundary register; the returned map must bind every
	// right-boundary register. Returning an error wrapping
	// ErrNotDecomposable declares this particular value atomic (used by
	// parameterized families whose base cases are leaves).
	BuildComposite(bb *Builder, soqs SoqMap) (SoqMap, error)
}

// Decompose resolves the decompose protocol for b.
//
// Description:
//
//	A *CompositeBloq is already decomposed and returns itself. A Decomposer
//	is driven through a fresh builder seeded from its signature. Anything
//	else is an atomic leaf: the result wraps ErrNotDecomposable, which
//	callers walking toward leaves treat as the expected terminal signal.
//
// Inputs:
//
//	b - The operation to decompose.
//
// Outputs:
//
//	*CompositeBloq - The finalized decomposition.
//	error - ErrNotDecomposable for leaves; construction errors from a
//	faulty BuildComposite pass through unchanged.
func Decompose(b Bloq) (*CompositeBloq, error) {
	if cb, ok := b.(*CompositeBloq); ok {
		return cb, nil
	}
	d, ok := b.(Decomposer)
	if !ok {
		return nil, fmt.Errorf("%s: %w", b, ErrNotDecomposable)
	}
	bb, soqs, err := NewBuilderFromSignature(d.Signature())
	if err != nil {
		return nil, fmt.Errorf("decompose %s: %w", b, err)
	}
	outs, err := d.BuildComposite(bb, soqs)
	if err != nil {
		if errors.Is(err, ErrNotDecomposable) {
			return nil, err
		}
		return nil, fmt.Errorf("decompose %s: %w", b, err)
	}
	cb, err := bb.Finalize(outs)
	if err != nil {
		return nil, fmt.Errorf("decompose %s: %w", b, err)
	}
	return cb, nil
}

// DecomposeOrUnsupported is the shared tier-2 step of every non-decompose
// protocol: decompose b, converting the atomic-leaf signal into a
// ProtocolError naming the protocol that needed the decomposition.
//
// Inputs:
//
//	b - The operation.
//	protocol - Protocol name for error reporting ("tensor", "classical",
//	"call-graph", "adjoint").
//
// Outputs:
//
//	*CompositeBloq - The decomposition.
//	error - *ProtocolError wrapping ErrProtocolUnsupported when b is
//	atomic; other decomposition failures pass through unchanged.
func DecomposeOrUnsupported(b Bloq, protocol string) (*CompositeBloq, error) {
	cb, err := Decompose(b)
	if err != nil {
		if errors.Is(err, ErrNotDecomposable) {
			return nil, &ProtocolError{
				Protocol: protocol,
				Bloq:     b,
				Err:      fmt.Errorf("%w: %w", ErrProtocolUnsupported, err),
			}
		}
		return nil, err
	}
	return cb, nil
}
