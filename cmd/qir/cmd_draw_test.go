// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/gates"
)

// =============================================================================
// Draw Helper Tests
// =============================================================================

func TestCompositeFor_Decomposable(t *testing.T) {
	cb, err := compositeFor(gates.MultiAnd{Controls: 4})
	if err != nil {
		t.Fatalf("compositeFor: %v", err)
	}
	if got := len(cb.Instances()); got != 3 {
		t.Errorf("instances = %d, want the three chained Ands", got)
	}
}

func TestCompositeFor_Atomic(t *testing.T) {
	cb, err := compositeFor(gates.TGate{})
	if err != nil {
		t.Fatalf("compositeFor: %v", err)
	}

	insts := cb.Instances()
	if len(insts) != 1 {
		t.Fatalf("instances = %d, want a single wrapped node", len(insts))
	}
	if insts[0].Bloq.String() != "T" {
		t.Errorf("wrapped bloq = %s, want T", insts[0].Bloq)
	}
}

func TestCompositeFor_AtomicState(t *testing.T) {
	cb, err := compositeFor(gates.ZeroState{})
	if err != nil {
		t.Fatalf("compositeFor: %v", err)
	}
	if got := len(cb.Instances()); got != 1 {
		t.Errorf("instances = %d, want 1", got)
	}
	if got := len(cb.Signature().Lefts()); got != 0 {
		t.Errorf("lefts = %d, want none for a state", got)
	}
}
