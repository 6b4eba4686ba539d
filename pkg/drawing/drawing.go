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
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/callgraph"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
)

// Options configures graph rendering.
type Options struct {
	// Direction is the graph direction (TB, LR, BT, RL).
	// Default: "LR" for composites reads left to right like a circuit;
	// call graphs override to top-down.
	Direction string

	// MaxNodes limits the number of operation nodes in the output.
	// Default: 100
	MaxNodes int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Direction: "LR",
		MaxNodes:  100,
	}
}

// Drawer renders composites and call graphs as Graphviz DOT and ASCII
// trees.
//
// # Description
//
// All rendering reads only public structure (signatures, instances,
// connections, call-graph edges) and produces text locally; nothing shells
// out to Graphviz. Output is deterministic for a given input.
//
// # Thread Safety
//
// Safe for concurrent use.
type Drawer struct {
	options Options
}

// NewDrawer creates a drawer. A nil opts uses DefaultOptions.
func NewDrawer(opts *Options) *Drawer {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	return &Drawer{options: *opts}
}

// CompositeDOT renders a composite's wiring as a Graphviz digraph.
//
// # Description
//
// Boundary register elements become plaintext nodes on the left and right,
// placed operations become filled boxes, and every connection becomes one
// edge labeled with the register element it carries. Feed the output to
// `dot -Tsvg` (or any Graphviz renderer).
//
// # Inputs
//
//   - cb: The composite to render.
//
// # Outputs
//
//   - string: DOT source.
//   - error: Non-nil when cb is nil.
func (d *Drawer) CompositeDOT(cb *qir.CompositeBloq) (string, error) {
	if cb == nil {
		return "", fmt.Errorf("composite is required")
	}

	var sb strings.Builder
	sb.WriteString("digraph Composite {\n")
	sb.WriteString(fmt.Sprintf("    rankdir=%s;\n", d.options.Direction))
	sb.WriteString("    node [shape=box, style=filled];\n")
	sb.WriteString("\n")

	sig := cb.Signature()
	for _, reg := range sig.Lefts() {
		for _, idx := range reg.AllIdx() {
			sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", shape=plaintext, style=solid];\n",
				dangleID("l", reg, idx), escapeDOTLabel(elementLabel(reg, idx))))
		}
	}
	for _, reg := range sig.Rights() {
		for _, idx := range reg.AllIdx() {
			sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", shape=plaintext, style=solid];\n",
				dangleID("r", reg, idx), escapeDOTLabel(elementLabel(reg, idx))))
		}
	}

	rendered := make(map[qir.InstanceID]bool)
	instances := cb.Instances()
	for i, bi := range instances {
		if i >= d.options.MaxNodes {
			sb.WriteString(fmt.Sprintf("    overflow [label=\"+%d more\", shape=plaintext, style=solid];\n", len(instances)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("    \"i%d\" [label=\"%s\", fillcolor=\"#74b9ff\"];\n",
			bi.ID, escapeDOTLabel(bi.Bloq.String())))
		rendered[bi.ID] = true
	}

	sb.WriteString("\n")

	for _, c := range cb.Connections() {
		from, ok := endpointID(c.From, rendered)
		if !ok {
			continue
		}
		to, ok := endpointID(c.To, rendered)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -> %s [label=\"%s\"];\n",
			from, to, escapeDOTLabel(elementLabel(c.From.Reg, c.From.Idx))))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// CallGraphDOT renders a call graph as a Graphviz digraph, one box per
// operation and one edge per caller/callee pair labeled with the call
// multiplicity. The root is highlighted.
func (d *Drawer) CallGraphDOT(g *callgraph.Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("call graph is required")
	}

	var sb strings.Builder
	sb.WriteString("digraph CallGraph {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=filled];\n")
	sb.WriteString("\n")

	nodes := g.Nodes()
	index := qir.NewBloqMap[int]()
	for i, b := range nodes {
		if err := index.Put(b, i); err != nil {
			return "", fmt.Errorf("indexing %s: %w", b, err)
		}
	}

	root := g.Root()
	for i, b := range nodes {
		if i >= d.options.MaxNodes {
			sb.WriteString(fmt.Sprintf("    overflow [label=\"+%d more\", shape=plaintext, style=solid];\n", len(nodes)-i))
			break
		}
		if qir.BloqsEqual(b, root) {
			sb.WriteString(fmt.Sprintf("    \"n%d\" [label=\"%s\", fillcolor=\"#ff6b6b\", fontcolor=\"white\"];\n",
				i, escapeDOTLabel(b.String())))
		} else {
			sb.WriteString(fmt.Sprintf("    \"n%d\" [label=\"%s\", fillcolor=\"#74b9ff\"];\n",
				i, escapeDOTLabel(b.String())))
		}
	}

	sb.WriteString("\n")

	for _, e := range g.Edges() {
		from, _, err := index.Get(e.Caller)
		if err != nil {
			return "", err
		}
		to, _, err := index.Get(e.Callee)
		if err != nil {
			return "", err
		}
		if from >= d.options.MaxNodes || to >= d.options.MaxNodes {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"n%d\" -> \"n%d\" [label=\"%s\"];\n",
			from, to, escapeDOTLabel(e.N.String())))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// Helper functions

// endpointID maps a connection endpoint to its declared DOT node, or
// reports false when the endpoint's instance was dropped by the node cap.
func endpointID(s qir.Soquet, rendered map[qir.InstanceID]bool) (string, bool) {
	switch s.Binst.ID {
	case qir.LeftDangleID:
		return dangleID("l", s.Reg, s.Idx), true
	case qir.RightDangleID:
		return dangleID("r", s.Reg, s.Idx), true
	default:
		if !rendered[s.Binst.ID] {
			return "", false
		}
		return fmt.Sprintf("\"i%d\"", s.Binst.ID), true
	}
}

func dangleID(side string, reg qir.Register, idx []int) string {
	return fmt.Sprintf("\"%s:%s\"", side, escapeDOTLabel(elementLabel(reg, idx)))
}

// elementLabel renders a register element, e.g. `ctrl` or `ctrl[0,1]`.
func elementLabel(reg qir.Register, idx []int) string {
	if len(idx) == 0 {
		return reg.Name
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return reg.Name + "[" + strings.Join(parts, ",") + "]"
}

func escapeDOTLabel(s string) string {
	replacer := strings.NewReplacer(
		"\"", "\\\"",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
