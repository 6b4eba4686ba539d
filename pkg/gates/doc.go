// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gates is the basic operation catalog: states and effects
// (ZeroState/ZeroEffect, PlusState/PlusEffect), the Clifford layer (X, H,
// CNot, Swap, CSwap), the costed TGate, and the And family (And,
// MultiAnd).
//
// The catalog is small but covers every protocol path the engines
// dispatch on: direct tensors and tensors via decomposition,
// classical actions present, absent, and refusing, adjoints by pairing
// (state/effect), by flag (TGate, And), and by self-inversion, and
// counting answers both explicit (And's four T) and empty (And†'s
// measurement-based uncomputation). Operations are plain value types;
// protocol support is declared by implementing the engines' trait
// interfaces.
//
// # Thread Safety
//
// All catalog values are immutable and all methods are pure. Values may be
// shared freely across goroutines.
//
// # Example
//
//	bb, soqs, _ := qir.NewBuilderFromSignature(qir.MustSignature(
//		qir.Thru("a", symb.One), qir.Thru("b", symb.One),
//	))
//	outs := bb.MustAdd(gates.CNot{}, qir.SoqMap{
//		"ctrl": soqs["a"], "tgt": soqs["b"],
//	})
//	cb, _ := bb.Finalize(qir.SoqMap{"a": outs["ctrl"], "b": outs["tgt"]})
//	u, _ := tensor.Contract(cb)
package gates
