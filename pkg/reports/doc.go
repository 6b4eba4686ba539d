// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package reports prices call-graph expansions against YAML cost models.
//
// A cost model names a unit and weights per leaf operation; Build folds a
// graph's leaf totals through the weights into a Report with a fresh UUID,
// one row per leaf, and an exact or lower-bound total. Reports render as
// tab-separated plain text or as a styled table.
//
// # Thread Safety
//
// CostModel and Report are plain values; Build is pure apart from the
// UUID and timestamp. Safe for concurrent use.
//
// # Example
//
//	g, _ := callgraph.Expand(gates.MultiAnd{Controls: 4},
//	    callgraph.WithGeneralizer(gates.GeneralizeTGates))
//	r, _ := reports.Build(g, reports.TCountModel(), nil)
//	fmt.Print(r.RenderPlain())
package reports
