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
	"github.com/AleutianAI/AleutianQIR/pkg/logging"
	"github.com/AleutianAI/AleutianQIR/pkg/ux"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	personalityLevel string // UX personality level (full/standard/minimal/machine)
	verbose          bool
	logDir           string

	bloqsJSON bool

	drawBloqName string
	drawN        int
	drawFlatten  int
	drawFormat   string
	drawOutput   string

	countsBloqs     []string
	countsN         int
	countsGenerals  []string
	countsMaxDepth  int
	countsModelPath string
	countsBindings  []string
	countsTree      bool
	countsDOT       bool
	countsJSON      bool

	// cliLogger is shared by all command handlers. It discards everything
	// unless --verbose or --log-dir asks for output.
	cliLogger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "qir",
		Short: "A cli to build, inspect, and cost quantum operation graphs",
		Long: `qir constructs operations from a built-in catalog, renders their
				decompositions, and prices call-graph expansions against
				configurable cost models.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}

			cfg := logging.Config{
				Service: "qir",
				LogDir:  logDir,
				Level:   logging.LevelInfo,
				Quiet:   !verbose,
			}
			if verbose {
				cfg.Level = logging.LevelDebug
			}
			cliLogger = logging.New(cfg).With("session", uuid.NewString())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliLogger != nil {
				cliLogger.Close()
			}
		},
	}

	// --- Catalog ---
	bloqsCmd = &cobra.Command{
		Use:   "bloqs",
		Short: "List the operations in the built-in catalog",
		Run:   runListBloqs, // Defined in cmd_bloqs.go
	}

	// --- Drawing ---
	drawCmd = &cobra.Command{
		Use:   "draw",
		Short: "Render an operation's decomposition as Graphviz DOT",
		Run:   runDraw, // Defined in cmd_draw.go
	}

	// --- Resource Counts ---
	countsCmd = &cobra.Command{
		Use:   "counts",
		Short: "Expand call graphs and price them against a cost model",
		Long: `counts expands each requested operation into its call graph, totals
				the leaf operations, and prices them against a cost model. The
				default report can be swapped for a call tree or Graphviz DOT.`,
		Run: runCounts, // Defined in cmd_counts.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the qir version",
		Run:   runVersion, // Defined in main.go
	}
)

// init runs when the Go program starts
func init() {
	// Global UX personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false,
		"Log debug detail to stderr")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Directory for JSON log files (disabled when empty)")

	rootCmd.AddCommand(bloqsCmd)
	bloqsCmd.Flags().BoolVar(&bloqsJSON, "json", false, "Output the catalog as JSON")

	rootCmd.AddCommand(drawCmd)
	drawCmd.Flags().StringVar(&drawBloqName, "bloq", "", "Catalog operation to draw (required)")
	drawCmd.Flags().IntVar(&drawN, "n", 0, "Wire count for parametric operations")
	drawCmd.Flags().IntVar(&drawFlatten, "flatten", 0,
		"Inline nested decompositions this many rounds")
	drawCmd.Flags().StringVar(&drawFormat, "format", "dot", "Output format: dot or text")
	drawCmd.Flags().StringVarP(&drawOutput, "output", "o", "", "Write to a file instead of stdout")

	rootCmd.AddCommand(countsCmd)
	countsCmd.Flags().StringSliceVar(&countsBloqs, "bloq", nil,
		"Catalog operation to expand (repeatable, required)")
	countsCmd.Flags().IntVar(&countsN, "n", 0, "Wire count for parametric operations")
	countsCmd.Flags().StringSliceVar(&countsGenerals, "generalize", nil,
		"Coarsen callees before grouping: t-adjoints, split-join, alloc-free")
	countsCmd.Flags().IntVar(&countsMaxDepth, "max-depth", 0,
		"Stop expanding callees below this depth (0 = unlimited)")
	countsCmd.Flags().StringVar(&countsModelPath, "cost-model", "",
		"YAML cost model file (default: built-in t-counts)")
	countsCmd.Flags().StringSliceVar(&countsBindings, "bind", nil,
		"Bind a symbol for evaluation, e.g. --bind n=8 (repeatable)")
	countsCmd.Flags().BoolVar(&countsTree, "tree", false,
		"Render the call tree instead of a report")
	countsCmd.Flags().BoolVar(&countsDOT, "dot", false,
		"Render the call graph as Graphviz DOT instead of a report")
	countsCmd.Flags().BoolVar(&countsJSON, "json", false, "Output reports as JSON")

	rootCmd.AddCommand(versionCmd)
}
