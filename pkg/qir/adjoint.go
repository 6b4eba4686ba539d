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

// Adjointer is the tier-1 trait of the adjoint protocol: the operation knows
// its own reverse and returns it as a first-class value.
//
// The returned bloq's signature must be the adjoint of the receiver's:
// same register names and widths, LEFT and RIGHT swapped. Self-inverse gates
// simply return themselves.
type Adjointer interface {
	Bloq

	// Adjoint returns the reversed operation.
	Adjoint() Bloq
}

// AdjointOf resolves the adjoint protocol for any bloq.
//
// Description:
//
//	Tier 1: a bloq implementing Adjointer supplies its own reverse (this
//	includes the Adjoint wrapper itself, whose reverse is the wrapped
//	original, so taking the adjoint twice is the identity). Tier 2:
//	everything else is wrapped in Adjoint, whose semantics are defined
//	through the decomposition of the wrapped bloq. Resolution itself never
//	fails; a wrapped leaf with no decomposition surfaces
//	ErrNotDecomposable when something asks the wrapper to decompose.
func AdjointOf(b Bloq) Bloq {
	if a, ok := b.(Adjointer); ok {
		return a.Adjoint()
	}
	return Adjoint{Inner: b}
}

// Adjoint is the generic reverse of an operation that does not supply its
// own. It is a wrapper, not a new primitive: its only semantics are "the
// reverse of Inner's decomposition", realized by reversing Inner's graph.
//
// Engines treat the wrapper like any other decomposable bloq; it carries no
// direct tensor, classical, or counting override.
type Adjoint struct {
	Inner Bloq
}

// Signature returns Inner's signature with every side swapped.
func (a Adjoint) Signature() Signature {
	return a.Inner.Signature().AdjointSignature()
}

// String renders the wrapped name with a dagger, e.g. `MultiAnd(3)†`.
func (a Adjoint) String() string {
	return a.Inner.String() + "†"
}

// Adjoint unwraps: the reverse of the reverse is the original.
func (a Adjoint) Adjoint() Bloq {
	return a.Inner
}

// BuildComposite decomposes Inner, reverses the resulting graph, and inlines
// it. A leaf Inner propagates ErrNotDecomposable, making the wrapper a leaf
// too.
func (a Adjoint) BuildComposite(bb *Builder, soqs SoqMap) (SoqMap, error) {
	cb, err := Decompose(a.Inner)
	if err != nil {
		return nil, err
	}
	adj, err := cb.AdjointComposite()
	if err != nil {
		return nil, err
	}
	return bb.AddFrom(adj, soqs)
}
