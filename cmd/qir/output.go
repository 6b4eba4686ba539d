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
	"encoding/json"
	"fmt"
	"os"

	"github.com/AleutianAI/AleutianQIR/pkg/reports"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitError   = 2 // Operation failed
)

// OutputJSON writes structured data as JSON to stdout.
//
// # Inputs
//
//   - data: The data to encode. Must be JSON-serializable.
//   - compact: If true, output without indentation.
//
// # Outputs
//
//   - error: Non-nil if encoding fails.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes an error in the appropriate format.
//
// # Inputs
//
//   - jsonMode: If true, output as a JSON object to stdout.
//   - msg: Human-readable error message.
//   - err: The underlying error.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
		result := struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{
			Success: false,
			Error:   fmt.Sprintf("%s: %v", msg, err),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	}
}

// BloqListResult holds catalog list output.
type BloqListResult struct {
	Bloqs []BloqInfo `json:"bloqs"`
	Count int        `json:"count"`
}

// BloqInfo describes one catalog entry in list output.
type BloqInfo struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Summary    string `json:"summary"`
	Parametric bool   `json:"parametric"`
}

// CountsResult holds counts output across all requested roots.
type CountsResult struct {
	Reports []CountsReport `json:"reports"`
	Count   int            `json:"count"`
}

// CountsReport is the JSON form of one cost report.
type CountsReport struct {
	ID       string      `json:"id"`
	Root     string      `json:"root"`
	Model    string      `json:"model"`
	Unit     string      `json:"unit"`
	Rows     []CountsRow `json:"rows"`
	Total    float64     `json:"total"`
	Exact    bool        `json:"exact"`
	Unpriced []string    `json:"unpriced,omitempty"`
}

// CountsRow is the JSON form of one leaf row.
type CountsRow struct {
	Bloq   string  `json:"bloq"`
	Count  string  `json:"count"`
	Weight float64 `json:"weight,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
	Priced bool    `json:"priced"`
	Exact  bool    `json:"exact"`
}

// countsReportFrom converts a built report into its JSON form.
func countsReportFrom(r *reports.Report) CountsReport {
	rows := make([]CountsRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = CountsRow{
			Bloq:   row.Bloq,
			Count:  row.Count,
			Weight: row.Weight,
			Cost:   row.Cost,
			Priced: row.Priced,
			Exact:  row.Exact,
		}
	}
	return CountsReport{
		ID:       r.ID,
		Root:     r.Root,
		Model:    r.Model,
		Unit:     r.Unit,
		Rows:     rows,
		Total:    r.Total,
		Exact:    r.Exact,
		Unpriced: r.Unpriced(),
	}
}
