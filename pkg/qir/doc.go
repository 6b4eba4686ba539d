// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package qir is the operation-graph intermediate representation for
// quantum programs.
//
// The core vocabulary:
//   - Bloq: the polymorphic operation interface (atomic gate or subroutine)
//   - Register/Signature: an operation's typed boundary
//   - Soquet: one wire endpoint, produced once and consumed once
//   - Builder: assembles graphs under that linear-usage discipline
//   - CompositeBloq: the immutable, validated result
//
// Programs are data. A composite is an explicit DAG over placed instances;
// analyses (counting, simulation, drawing) traverse it rather than
// re-executing construction code. Protocols beyond the signature are opt-in
// trait interfaces (Decomposer, Adjointer, and per-engine traits in the
// engine packages); resolution is two-tier everywhere: use the override if
// the trait is implemented, otherwise derive through the decomposition,
// otherwise report the protocol unsupported.
//
// # Thread Safety
//
// Bloq values, signatures, and finalized composites are immutable and safe
// to share. Builders are single-goroutine.
//
// # Example
//
//	// (q: 1 THRU) wrapping a one-qubit subroutine:
//	bb, ins, _ := qir.NewBuilderFromSignature(sig)
//	out := bb.MustAdd(gate, qir.SoqMap{"q": ins["q"]})
//	cb, err := bb.Finalize(qir.SoqMap{"q": out["q"]})
//
//	// Analyses walk the result:
//	counts, err := cb.BloqCounts()
//	adj, err := cb.AdjointComposite()
package qir
