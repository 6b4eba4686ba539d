// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package drawing renders composites and call graphs for human inspection.
//
// Two output families are supported: Graphviz DOT (composites with their
// wiring, call graphs with call multiplicities) and ASCII call trees. The
// renderers read only public structure and never mutate their inputs, so a
// drawn composite is exactly the composite that executes.
//
// # Thread Safety
//
// Drawer holds only immutable options and is safe for concurrent use.
//
// # Example
//
//	g, _ := callgraph.Expand(gates.MultiAnd{Controls: 4})
//	d := drawing.NewDrawer(nil)
//
//	dot, _ := d.CallGraphDOT(g) // pipe to `dot -Tsvg`
//	tree, _ := d.CallTree(g)    // print directly
//	fmt.Print(tree)
package drawing
