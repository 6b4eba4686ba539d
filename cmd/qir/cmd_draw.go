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
	"errors"
	"fmt"
	"os"

	"github.com/AleutianAI/AleutianQIR/pkg/drawing"
	"github.com/AleutianAI/AleutianQIR/pkg/qir"
	"github.com/AleutianAI/AleutianQIR/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// DRAW COMMAND
// =============================================================================

// runDraw is the CLI handler for the "qir draw" command.
//
// It decomposes the requested operation and renders the resulting graph.
// Atomic operations render as a single node. With --flatten N, nested
// decompositions are inlined for up to N rounds before rendering.
//
// # Exit Codes
//
//   - 0: Rendered successfully
//   - 2: Unknown operation, decomposition failure, or write failure
func runDraw(cmd *cobra.Command, args []string) {
	if drawBloqName == "" {
		OutputError(false, "Missing required flag", fmt.Errorf("--bloq names the operation to draw"))
		os.Exit(CLIExitError)
	}

	b, err := resolveBloq(drawBloqName, drawN)
	if err != nil {
		OutputError(false, "Failed to resolve operation", err)
		os.Exit(CLIExitError)
	}

	cb, err := compositeFor(b)
	if err != nil {
		OutputError(false, fmt.Sprintf("Failed to decompose %s", b), err)
		os.Exit(CLIExitError)
	}

	for range drawFlatten {
		next, inlined, ferr := cb.FlattenOnce(func(qir.BloqInstance) bool { return true })
		if ferr != nil {
			OutputError(false, fmt.Sprintf("Failed to flatten %s", b), ferr)
			os.Exit(CLIExitError)
		}
		if inlined == 0 {
			break
		}
		cb = next
	}

	var out string
	switch drawFormat {
	case "dot":
		drawer := drawing.NewDrawer(nil)
		out, err = drawer.CompositeDOT(cb)
		if err != nil {
			OutputError(false, fmt.Sprintf("Failed to render %s", b), err)
			os.Exit(CLIExitError)
		}
	case "text":
		out = cb.DebugText()
	default:
		OutputError(false, "Unknown format", fmt.Errorf("%q is not one of dot, text", drawFormat))
		os.Exit(CLIExitError)
	}

	cliLogger.Debug("rendered operation graph",
		"bloq", b.String(), "format", drawFormat, "instances", len(cb.Instances()))

	if drawOutput == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(drawOutput, []byte(out), 0644); err != nil {
		OutputError(false, fmt.Sprintf("Failed to write %s", drawOutput), err)
		os.Exit(CLIExitError)
	}
	ux.Success(fmt.Sprintf("Wrote %s graph for %s to %s", drawFormat, b, drawOutput))
}

// compositeFor decomposes b, falling back to a single-instance wrapper for
// atomic operations so they still render.
func compositeFor(b qir.Bloq) (*qir.CompositeBloq, error) {
	cb, err := qir.Decompose(b)
	if err == nil {
		return cb, nil
	}
	if !errors.Is(err, qir.ErrNotDecomposable) {
		return nil, err
	}

	bb, ins, err := qir.NewBuilderFromSignature(b.Signature())
	if err != nil {
		return nil, err
	}
	outs, err := bb.Add(b, ins)
	if err != nil {
		return nil, err
	}
	return bb.Finalize(outs)
}
