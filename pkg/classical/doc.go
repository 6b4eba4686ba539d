// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package classical evaluates the classical action of reversible operation
// graphs: given a basis-state value for every input register, it produces
// the basis-state value of every output register.
//
// Only operations that permute basis states have a classical action. Gates
// that introduce superposition or relative phase (Hadamard, T) do not, and
// calling them surfaces a *qir.ProtocolError; this makes the engine a cheap
// correctness check for
// the arithmetic and logic fragments of a program, where simulating the full
// state vector would be wasteful.
//
// Dispatch follows the engine convention: an operation that implements
// Simulable answers directly; the structural primitives (Split, Join,
// Partition, Allocate, Free) are evaluated by moving bits, with index 0 of
// a split as the most significant bit and frees rejecting nonzero wires;
// everything else decomposes and threads values through its wires.
//
// # Thread Safety
//
// Call is pure: it mutates neither the operation nor the input map, and the
// returned map is freshly allocated. Concurrent calls are safe.
//
// # Example
//
//	out, err := classical.Call(gates.CNot{}, map[string]classical.Val{
//		"ctrl": classical.Int(1),
//		"tgt":  classical.Int(0),
//	})
//	if err != nil {
//		return err
//	}
//	fmt.Println(out["tgt"]) // 1
package classical
