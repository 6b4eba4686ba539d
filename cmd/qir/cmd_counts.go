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
	"os"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/callgraph"
	"github.com/AleutianAI/AleutianQIR/pkg/drawing"
	"github.com/AleutianAI/AleutianQIR/pkg/gates"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/reports"
	"github.com/AleutianAI/AleutianQIR/pkg/ux"
	"github.com/AleutianAI/AleutianQIR/pkg/validation"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// COUNTS COMMAND
// =============================================================================

// runCounts is the CLI handler for the "qir counts" command.
//
// It expands each --bloq root into its call graph, all roots in parallel,
// then renders the requested view: a priced cost report by default, the call
// tree with --tree, or Graphviz DOT with --dot.
//
// # Exit Codes
//
//   - 0: All roots expanded and rendered
//   - 2: Unknown operation, bad flag value, expansion or pricing failure
func runCounts(cmd *cobra.Command, args []string) {
	if len(countsBloqs) == 0 {
		OutputError(countsJSON, "Missing required flag", fmt.Errorf("--bloq names at least one operation to expand"))
		os.Exit(CLIExitError)
	}

	roots := make([]qir.Bloq, len(countsBloqs))
	for i, name := range countsBloqs {
		b, err := resolveBloq(name, countsN)
		if err != nil {
			OutputError(countsJSON, "Failed to resolve operation", err)
			os.Exit(CLIExitError)
		}
		roots[i] = b
	}

	opts, err := expandOptions(countsGenerals, countsMaxDepth)
	if err != nil {
		OutputError(countsJSON, "Bad --generalize value", err)
		os.Exit(CLIExitError)
	}

	bindings, err := parseBindings(countsBindings)
	if err != nil {
		OutputError(countsJSON, "Bad --bind value", err)
		os.Exit(CLIExitError)
	}

	graphs, err := expandAll(roots, opts)
	if err != nil {
		OutputError(countsJSON, "Failed to expand call graph", err)
		os.Exit(CLIExitError)
	}
	for i, g := range graphs {
		cliLogger.Debug("expanded call graph",
			"root", roots[i].String(), "nodes", len(g.Nodes()), "edges", len(g.Edges()))
	}

	if countsDOT || countsTree {
		if err := renderGraphs(graphs); err != nil {
			OutputError(countsJSON, "Failed to render call graph", err)
			os.Exit(CLIExitError)
		}
		return
	}

	model, err := loadCostModel(countsModelPath)
	if err != nil {
		OutputError(countsJSON, "Failed to load cost model", err)
		os.Exit(CLIExitError)
	}

	built := make([]*reports.Report, len(graphs))
	for i, g := range graphs {
		r, berr := reports.Build(g, model, bindings)
		if berr != nil {
			OutputError(countsJSON, fmt.Sprintf("Failed to price %s", roots[i]), berr)
			os.Exit(CLIExitError)
		}
		built[i] = r
	}

	if countsJSON {
		result := CountsResult{Count: len(built)}
		for _, r := range built {
			result.Reports = append(result.Reports, countsReportFrom(r))
		}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		return
	}

	for i, r := range built {
		if i > 0 {
			fmt.Println()
		}
		if plainOutput() {
			fmt.Print(r.RenderPlain())
		} else {
			fmt.Print(r.RenderStyled())
		}
		if unpriced := r.Unpriced(); len(unpriced) > 0 {
			ux.Warning(fmt.Sprintf("No weight for %s in model %s; excluded from the total",
				strings.Join(unpriced, ", "), r.Model))
		}
	}
}

// expandAll expands every root in parallel and returns the first failure
// once all expansions finish.
func expandAll(roots []qir.Bloq, opts []callgraph.Option) ([]*callgraph.Graph, error) {
	graphs := make([]*callgraph.Graph, len(roots))

	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			graph, err := callgraph.Expand(root, opts...)
			if err != nil {
				return fmt.Errorf("expand %s: %w", root, err)
			}
			graphs[i] = graph
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// expandOptions translates --generalize names and --max-depth into expansion
// options.
func expandOptions(names []string, maxDepth int) ([]callgraph.Option, error) {
	var gens []callgraph.Generalizer
	for _, name := range names {
		switch strings.ToLower(name) {
		case "t-adjoints":
			gens = append(gens, gates.GeneralizeTGates)
		case "split-join":
			gens = append(gens, callgraph.IgnoreSplitJoin)
		case "alloc-free":
			gens = append(gens, callgraph.IgnoreAllocFree)
		default:
			return nil, fmt.Errorf("unknown generalizer %q (t-adjoints, split-join, alloc-free)", name)
		}
	}

	var opts []callgraph.Option
	if len(gens) > 0 {
		opts = append(opts, callgraph.WithGeneralizer(callgraph.Compose(gens...)))
	}
	if maxDepth > 0 {
		opts = append(opts, callgraph.WithMaxDepth(maxDepth))
	}
	return opts, nil
}

// parseBindings parses repeated name=value flags into evaluation bindings.
func parseBindings(pairs []string) (map[string]int64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]int64, len(pairs))
	for _, p := range pairs {
		name, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("binding %q is not name=value", p)
		}
		name, err := validation.SanitizeSymbol(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", p, err)
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("binding %q: value is not an integer", p)
		}
		out[name] = n
	}
	return out, nil
}

// loadCostModel reads the model at path, or the built-in t-counts model when
// no path is given.
func loadCostModel(path string) (*reports.CostModel, error) {
	if path == "" {
		return reports.TCountModel(), nil
	}
	return reports.LoadModel(path)
}

// renderGraphs writes the --tree or --dot view of each graph to stdout,
// blank-line separated.
func renderGraphs(graphs []*callgraph.Graph) error {
	drawer := drawing.NewDrawer(nil)
	for i, g := range graphs {
		if i > 0 {
			fmt.Println()
		}
		var out string
		var err error
		if countsTree {
			out, err = drawer.CallTree(g)
		} else {
			out, err = drawer.CallGraphDOT(g)
		}
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	return nil
}

// plainOutput reports whether reports should skip lipgloss styling: machine
// personality, or stdout is not a terminal.
func plainOutput() bool {
	if !ux.ShouldShowColors() {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}
