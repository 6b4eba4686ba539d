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
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/gates"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
)

// =============================================================================
// OPERATION CATALOG
// =============================================================================

// catalogEntry describes one operation the CLI can construct by name.
//
// Parametric entries take their wire count from the --n flag; Make receives
// it as n. Fixed entries ignore n.
type catalogEntry struct {
	Name       string
	Aliases    []string
	Summary    string
	Parametric bool
	Make       func(n int) (qir.Bloq, error)
}

// catalog lists every operation reachable from the CLI, in display order.
var catalog = []catalogEntry{
	{
		Name:    "And",
		Summary: "two-control conjunction onto a fresh target",
		Make:    fixed(gates.And{}),
	},
	{
		Name:    "And†",
		Aliases: []string{"AndDag"},
		Summary: "measurement-based And uncomputation",
		Make:    fixed(gates.And{Uncompute: true}),
	},
	{
		Name:       "MultiAnd",
		Summary:    "n-control conjunction chained from two-control Ands",
		Parametric: true,
		Make: func(n int) (qir.Bloq, error) {
			if n < 2 {
				return nil, fmt.Errorf("MultiAnd needs --n of at least 2, got %d", n)
			}
			return gates.MultiAnd{Controls: n}, nil
		},
	},
	{
		Name:    "T",
		Summary: "pi/8 phase rotation, the costed primitive",
		Make:    fixed(gates.TGate{}),
	},
	{
		Name:    "T†",
		Aliases: []string{"TDag"},
		Summary: "inverse pi/8 phase rotation",
		Make:    fixed(gates.TGate{IsAdjoint: true}),
	},
	{
		Name:    "X",
		Summary: "bit flip",
		Make:    fixed(gates.XGate{}),
	},
	{
		Name:    "H",
		Summary: "Hadamard basis change",
		Make:    fixed(gates.Hadamard{}),
	},
	{
		Name:    "CNot",
		Summary: "controlled bit flip",
		Make:    fixed(gates.CNot{}),
	},
	{
		Name:    "Swap",
		Summary: "exchange two wires",
		Make:    fixed(gates.Swap{}),
	},
	{
		Name:    "CSwap",
		Summary: "controlled wire exchange",
		Make:    fixed(gates.CSwap{}),
	},
	{
		Name:    "ZeroState",
		Summary: "fresh wire initialized to zero",
		Make:    fixed(gates.ZeroState{}),
	},
	{
		Name:    "ZeroEffect",
		Summary: "project a wire onto zero and discard it",
		Make:    fixed(gates.ZeroEffect{}),
	},
	{
		Name:    "PlusState",
		Summary: "fresh wire initialized to plus",
		Make:    fixed(gates.PlusState{}),
	},
	{
		Name:    "PlusEffect",
		Summary: "project a wire onto plus and discard it",
		Make:    fixed(gates.PlusEffect{}),
	},
}

// fixed adapts a ready instance into the catalog's constructor shape.
func fixed(b qir.Bloq) func(int) (qir.Bloq, error) {
	return func(int) (qir.Bloq, error) { return b, nil }
}

// resolveBloq constructs the named catalog operation.
//
// # Inputs
//
//   - name: Catalog name or alias, matched case-insensitively.
//   - n: Wire count for parametric operations. Ignored by fixed ones.
//
// # Outputs
//
//   - qir.Bloq: The constructed operation.
//   - error: Unknown name, or an invalid n for a parametric entry.
func resolveBloq(name string, n int) (qir.Bloq, error) {
	for _, e := range catalog {
		if !matchesEntry(e, name) {
			continue
		}
		return e.Make(n)
	}
	return nil, fmt.Errorf("unknown operation %q (run 'qir bloqs' for the catalog)", name)
}

func matchesEntry(e catalogEntry, name string) bool {
	if strings.EqualFold(e.Name, name) {
		return true
	}
	for _, a := range e.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
