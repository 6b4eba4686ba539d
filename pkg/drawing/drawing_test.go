// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package drawing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianQIR/pkg/callgraph"
	"github.com/AleutianAI/AleutianQIR/pkg/gates"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// TestLoop calls itself one level down; folding the level away with a
// generalizer produces a cyclic call graph.
type TestLoop struct {
	Level int
}

func (l TestLoop) Signature() qir.Signature {
	return qir.MustSignature(qir.Thru("q", symb.One))
}

func (l TestLoop) String() string { return fmt.Sprintf("Loop(%d)", l.Level) }

func (l TestLoop) BloqCounts(alloc *symb.Alloc) ([]qir.BloqCount, error) {
	if l.Level == 0 {
		return nil, nil
	}
	return []qir.BloqCount{{Bloq: TestLoop{Level: l.Level - 1}, N: symb.One}}, nil
}

func cnotComposite(t *testing.T) *qir.CompositeBloq {
	t.Helper()
	bb, soqs, err := qir.NewBuilderFromSignature(gates.CNot{}.Signature())
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}
	outs := bb.MustAdd(gates.CNot{}, soqs)
	cb, err := bb.Finalize(outs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cb
}

// =============================================================================
// Composite DOT
// =============================================================================

func TestDrawer_CompositeDOT(t *testing.T) {
	cb := cnotComposite(t)

	out, err := NewDrawer(nil).CompositeDOT(cb)
	if err != nil {
		t.Fatalf("CompositeDOT: %v", err)
	}

	for _, want := range []string{
		"digraph Composite {",
		"rankdir=LR;",
		`"l:ctrl" [label="ctrl", shape=plaintext`,
		`"r:tgt" [label="tgt", shape=plaintext`,
		`"i0" [label="CNot", fillcolor="#74b9ff"];`,
		`"l:ctrl" -> "i0" [label="ctrl"];`,
		`"i0" -> "r:tgt" [label="tgt"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	if got := strings.Count(out, "->"); got != 4 {
		t.Errorf("Edge count = %d, want 4 (two in, two out):\n%s", got, out)
	}
}

func TestDrawer_CompositeDOT_ShapedBoundary(t *testing.T) {
	bb, soqs, err := qir.NewBuilderFromSignature(gates.And{}.Signature())
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}
	outs := bb.MustAdd(gates.And{}, soqs)
	cb, err := bb.Finalize(outs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	out, err := NewDrawer(nil).CompositeDOT(cb)
	if err != nil {
		t.Fatalf("CompositeDOT: %v", err)
	}

	for _, want := range []string{
		`"l:ctrl[0]"`,
		`"l:ctrl[1]"`,
		`"r:target"`,
		`[label="ctrl[0]"];`,
		`[label="And", fillcolor=`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestDrawer_CompositeDOT_PassThrough(t *testing.T) {
	bb, soqs, err := qir.NewBuilderFromSignature(
		qir.MustSignature(qir.Thru("q", symb.One)))
	if err != nil {
		t.Fatalf("NewBuilderFromSignature: %v", err)
	}
	cb, err := bb.Finalize(soqs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	out, err := NewDrawer(nil).CompositeDOT(cb)
	if err != nil {
		t.Fatalf("CompositeDOT: %v", err)
	}

	if !strings.Contains(out, `"l:q" -> "r:q" [label="q"];`) {
		t.Errorf("Identity wire should connect the dangles directly:\n%s", out)
	}
}

func TestDrawer_CompositeDOT_NilComposite(t *testing.T) {
	if _, err := NewDrawer(nil).CompositeDOT(nil); err == nil {
		t.Error("Expected error for nil composite")
	}
}

func TestDrawer_CompositeDOT_MaxNodes(t *testing.T) {
	cb, err := qir.Decompose(gates.MultiAnd{Controls: 4})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	opts := DefaultOptions()
	opts.MaxNodes = 1
	out, err := NewDrawer(&opts).CompositeDOT(cb)
	if err != nil {
		t.Fatalf("CompositeDOT: %v", err)
	}

	if !strings.Contains(out, `overflow [label="+2 more"`) {
		t.Errorf("Expected overflow marker:\n%s", out)
	}
	if strings.Contains(out, `"i1" [`) {
		t.Errorf("Second instance should be capped:\n%s", out)
	}
}

// =============================================================================
// Call graph DOT
// =============================================================================

func TestDrawer_CallGraphDOT(t *testing.T) {
	g, err := callgraph.Expand(gates.MultiAnd{Controls: 4})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	out, err := NewDrawer(nil).CallGraphDOT(g)
	if err != nil {
		t.Fatalf("CallGraphDOT: %v", err)
	}

	for _, want := range []string{
		"digraph CallGraph {",
		"rankdir=TB;",
		`[label="MultiAnd(4)", fillcolor="#ff6b6b", fontcolor="white"];`,
		`[label="And", fillcolor="#74b9ff"];`,
		`[label="T", fillcolor="#74b9ff"];`,
		`[label="3"];`,
		`[label="4"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	if got := strings.Count(out, "->"); got != 2 {
		t.Errorf("Edge count = %d, want 2:\n%s", got, out)
	}
}

func TestDrawer_CallGraphDOT_MaxNodes(t *testing.T) {
	g, err := callgraph.Expand(gates.MultiAnd{Controls: 4})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	opts := DefaultOptions()
	opts.MaxNodes = 1
	out, err := NewDrawer(&opts).CallGraphDOT(g)
	if err != nil {
		t.Fatalf("CallGraphDOT: %v", err)
	}

	if !strings.Contains(out, `overflow [label="+2 more"`) {
		t.Errorf("Expected overflow marker:\n%s", out)
	}
	if strings.Count(out, "->") != 0 {
		t.Errorf("Edges to capped nodes should be dropped:\n%s", out)
	}
}

func TestDrawer_CallGraphDOT_NilGraph(t *testing.T) {
	if _, err := NewDrawer(nil).CallGraphDOT(nil); err == nil {
		t.Error("Expected error for nil graph")
	}
}

// =============================================================================
// Call trees
// =============================================================================

func TestDrawer_CallTree(t *testing.T) {
	g, err := callgraph.Expand(gates.MultiAnd{Controls: 4})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	out, err := NewDrawer(nil).CallTree(g)
	if err != nil {
		t.Fatalf("CallTree: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "MultiAnd(4)" {
		t.Errorf("First line = %q, want the root", lines[0])
	}
	if !strings.Contains(out, "[3]  And") {
		t.Errorf("Tree should show And with multiplicity 3:\n%s", out)
	}
	if !strings.Contains(out, "[4]  T") {
		t.Errorf("Tree should show T with multiplicity 4:\n%s", out)
	}
	if strings.Index(out, "[3]") > strings.Index(out, "[4]") {
		t.Errorf("T should be nested under And:\n%s", out)
	}
}

func TestDrawer_CallTree_Recursive(t *testing.T) {
	foldLevels := func(b qir.Bloq) qir.Bloq {
		if _, ok := b.(TestLoop); ok {
			return TestLoop{Level: 1}
		}
		return b
	}
	g, err := callgraph.Expand(TestLoop{Level: 3}, callgraph.WithGeneralizer(foldLevels))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	out, err := NewDrawer(nil).CallTree(g)
	if err != nil {
		t.Fatalf("CallTree: %v", err)
	}

	if !strings.Contains(out, "(recursive)") {
		t.Errorf("Self-call should be marked recursive:\n%s", out)
	}
}

func TestDrawer_CallTree_NilGraph(t *testing.T) {
	if _, err := NewDrawer(nil).CallTree(nil); err == nil {
		t.Error("Expected error for nil graph")
	}
}
