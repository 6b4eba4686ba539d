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
	"slices"

	"github.com/xlab/treeprint"

	"github.com/AleutianAI/AleutianQIR/pkg/callgraph"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
)

// CallTree renders a call graph as an ASCII tree rooted at the graph's
// root. Each child carries its call multiplicity as a `[n]` prefix. Shared
// callees are expanded under every caller; a callee already on the current
// path is printed once with a "(recursive)" marker and not descended into.
func (d *Drawer) CallTree(g *callgraph.Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("call graph is required")
	}

	succ := qir.NewBloqMap[[]callgraph.Edge]()
	for _, e := range g.Edges() {
		prev, _, err := succ.Get(e.Caller)
		if err != nil {
			return "", err
		}
		if err := succ.Put(e.Caller, append(prev, e)); err != nil {
			return "", err
		}
	}

	root := g.Root()
	tree := treeprint.NewWithRoot(root.String())
	if err := addCallees(tree, succ, root, []qir.Bloq{root}); err != nil {
		return "", err
	}
	return tree.String(), nil
}

// addCallees appends b's callees under branch, descending depth-first.
func addCallees(branch treeprint.Tree, succ *qir.BloqMap[[]callgraph.Edge], b qir.Bloq, path []qir.Bloq) error {
	edges, ok, err := succ.Get(b)
	if err != nil || !ok {
		return err
	}
	for _, e := range edges {
		if onPath(path, e.Callee) {
			branch.AddMetaNode(e.N.String(), e.Callee.String()+" (recursive)")
			continue
		}
		childEdges, has, err := succ.Get(e.Callee)
		if err != nil {
			return err
		}
		if has && len(childEdges) > 0 {
			child := branch.AddMetaBranch(e.N.String(), e.Callee.String())
			next := append(slices.Clone(path), e.Callee)
			if err := addCallees(child, succ, e.Callee, next); err != nil {
				return err
			}
		} else {
			branch.AddMetaNode(e.N.String(), e.Callee.String())
		}
	}
	return nil
}

func onPath(path []qir.Bloq, b qir.Bloq) bool {
	for _, p := range path {
		if qir.BloqsEqual(p, b) {
			return true
		}
	}
	return false
}
