// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianQIR/pkg/callgraph"
	"github.com/AleutianAI/AleutianQIR/pkg/symb"
	"github.com/AleutianAI/AleutianQIR/pkg/ux"
)

// Row is one leaf line of a cost report.
type Row struct {
	// Bloq is the leaf operation's name.
	Bloq string

	// Count renders the leaf total: a decimal when concrete, the
	// expression text when symbolic variables were left unbound.
	Count string

	// Weight is the model's price for one call. Zero when unpriced.
	Weight float64

	// Cost is Count x Weight; meaningful only when Priced and Exact.
	Cost float64

	// Priced reports whether the model carries a weight for this leaf.
	Priced bool

	// Exact reports whether Count folded to a concrete integer.
	Exact bool
}

// Report is a priced summary of one call-graph expansion.
//
// # Description
//
// Build folds the graph's leaf totals (sigma) through a cost model's
// weights. Unpriced leaves are listed but excluded from the total;
// symbolic counts are listed as expression text and likewise excluded
// unless bindings make them concrete. Total is therefore exact when
// every priced row is exact, and a lower bound otherwise.
type Report struct {
	// ID is a fresh UUID identifying this report.
	ID string

	// Model and Unit come from the cost model.
	Model string
	Unit  string

	// Root names the expanded operation.
	Root string

	// CreatedAt is the report generation time.
	CreatedAt time.Time

	// Rows holds one line per call-graph leaf, in discovery order.
	Rows []Row

	// Total is the sum of Cost over priced exact rows.
	Total float64

	// Exact reports whether every priced row folded to a concrete count.
	Exact bool
}

// Build prices a call graph's leaf totals against a cost model.
//
// # Inputs
//
//   - g: The expanded call graph.
//   - model: The cost model; nil uses TCountModel.
//   - bindings: Values for symbolic variables, e.g. {"n": 8}. May be nil.
//
// # Outputs
//
//   - *Report: The priced report.
//   - error: Non-nil when g is nil or sigma cannot be computed (for
//     example a cycle introduced by a generalizer).
func Build(g *callgraph.Graph, model *CostModel, bindings map[string]int64) (*Report, error) {
	if g == nil {
		return nil, fmt.Errorf("call graph is required")
	}
	if model == nil {
		model = TCountModel()
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	sigma, err := g.Sigma()
	if err != nil {
		return nil, fmt.Errorf("report for %s: %w", g.Root(), err)
	}

	r := &Report{
		ID:        uuid.NewString(),
		Model:     model.Name,
		Unit:      model.Unit,
		Root:      g.Root().String(),
		CreatedAt: time.Now(),
		Exact:     true,
	}

	for _, leaf := range sigma.Keys() {
		n, _, err := sigma.Get(leaf)
		if err != nil {
			return nil, err
		}

		row := Row{Bloq: leaf.String()}
		row.Weight, row.Priced = model.Weight(row.Bloq)

		count, err := n.Evaluate(bindings)
		switch {
		case err == nil:
			row.Count = strconv.FormatInt(count, 10)
			row.Exact = true
			if row.Priced {
				row.Cost = float64(count) * row.Weight
				r.Total += row.Cost
			}
		case errors.Is(err, symb.ErrFreeVar):
			row.Count = n.String()
			if row.Priced {
				r.Exact = false
			}
		default:
			return nil, fmt.Errorf("counting %s: %w", row.Bloq, err)
		}

		r.Rows = append(r.Rows, row)
	}

	return r, nil
}

// Unpriced returns the names of leaves the model carries no weight for.
func (r *Report) Unpriced() []string {
	var names []string
	for _, row := range r.Rows {
		if !row.Priced {
			names = append(names, row.Bloq)
		}
	}
	return names
}

// RenderPlain renders the report as tab-separated plain text, one row per
// leaf, suitable for scripts and diffs.
func (r *Report) RenderPlain() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "report %s\n", r.ID)
	fmt.Fprintf(&sb, "model: %s (%s)\n", r.Model, r.Unit)
	fmt.Fprintf(&sb, "root: %s\n", r.Root)
	for _, row := range r.Rows {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
			row.Bloq, row.Count, formatWeight(row), formatCost(row))
	}
	fmt.Fprintf(&sb, "total\t%s%s\n", formatFloat(r.Total), totalSuffix(r))
	return sb.String()
}

// RenderStyled renders the report as an aligned table using the shared
// CLI styles. Colors degrade to plain text on non-color terminals.
func (r *Report) RenderStyled() string {
	headers := []string{"BLOQ", "COUNT", "WEIGHT", "COST"}
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Bloq, row.Count, formatWeight(row), formatCost(row),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, cells := range rows {
		for i, c := range cells {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(ux.Styles.Title.Render(fmt.Sprintf("Cost report: %s", r.Root)))
	sb.WriteByte('\n')
	sb.WriteString(ux.Styles.Muted.Render(fmt.Sprintf("model %s (%s), id %s", r.Model, r.Unit, r.ID)))
	sb.WriteString("\n\n")

	for i, h := range headers {
		sb.WriteString(ux.Styles.Header.Render(pad(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteByte('\n')

	for _, cells := range rows {
		for i, c := range cells {
			sb.WriteString(pad(c, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	total := fmt.Sprintf("total %s %s%s", formatFloat(r.Total), r.Unit, totalSuffix(r))
	sb.WriteString(ux.Styles.Highlight.Render(total))
	sb.WriteByte('\n')
	return sb.String()
}

// Helper functions

func formatWeight(row Row) string {
	if !row.Priced {
		return "-"
	}
	return formatFloat(row.Weight)
}

func formatCost(row Row) string {
	if !row.Priced || !row.Exact {
		return "-"
	}
	return formatFloat(row.Cost)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func totalSuffix(r *Report) string {
	if !r.Exact {
		return " (lower bound: symbolic counts excluded)"
	}
	return ""
}

// pad right-fills to a display width; lipgloss.Width counts runes, not
// bytes, so adjoint names like T† stay aligned.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
