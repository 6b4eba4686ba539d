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
	"strings"

	"github.com/AleutianAI/AleutianQIR/pkg/ux"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// =============================================================================
// BLOQS COMMAND
// =============================================================================

// exampleWires is the wire count used to display parametric signatures.
const exampleWires = 4

// runListBloqs is the CLI handler for the "qir bloqs" command.
//
// It lists every operation in the built-in catalog with its boundary
// signature. Parametric operations are shown at an example wire count and
// marked so users know to pass --n.
func runListBloqs(cmd *cobra.Command, args []string) {
	infos, err := buildBloqInfos()
	if err != nil {
		OutputError(bloqsJSON, "Failed to build catalog listing", err)
		os.Exit(CLIExitError)
	}

	if bloqsJSON {
		result := BloqListResult{Bloqs: infos, Count: len(infos)}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		return
	}

	if ux.GetPersonality().Level == ux.PersonalityMachine {
		for _, info := range infos {
			fmt.Printf("%s\t%s\t%s\n", info.Name, info.Signature, info.Summary)
		}
		return
	}

	ux.Title("Operation catalog")

	nameWidth, sigWidth := 0, 0
	for _, info := range infos {
		nameWidth = max(nameWidth, lipgloss.Width(displayName(info)))
		sigWidth = max(sigWidth, lipgloss.Width(info.Signature))
	}

	for _, info := range infos {
		fmt.Printf("  %s  %s  %s\n",
			ux.Styles.Bold.Render(padCell(displayName(info), nameWidth)),
			ux.Styles.Muted.Render(padCell(info.Signature, sigWidth)),
			info.Summary)
	}
	fmt.Println()
	ux.Muted(fmt.Sprintf("%d operations; parametric ones take --n (shown at n=%d)",
		len(infos), exampleWires))
}

// buildBloqInfos constructs the catalog listing, instantiating each entry to
// read its signature.
func buildBloqInfos() ([]BloqInfo, error) {
	infos := make([]BloqInfo, 0, len(catalog))
	for _, e := range catalog {
		n := 0
		if e.Parametric {
			n = exampleWires
		}
		b, err := e.Make(n)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: %w", e.Name, err)
		}
		infos = append(infos, BloqInfo{
			Name:       e.Name,
			Signature:  b.Signature().String(),
			Summary:    e.Summary,
			Parametric: e.Parametric,
		})
	}
	return infos, nil
}

func displayName(info BloqInfo) string {
	if info.Parametric {
		return info.Name + " --n"
	}
	return info.Name
}

// padCell right-pads to the display width. lipgloss.Width counts runes, so
// names like T† line up.
func padCell(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
