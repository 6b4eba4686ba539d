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
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// modelValidate is the validator instance for cost models.
var modelValidate *validator.Validate

func init() {
	modelValidate = validator.New()
}

// =============================================================================
// Cost Models
// =============================================================================

// CostModel prices call-graph leaves: each weight is the cost of one call
// of the named operation, and a report totals count x weight over the
// leaves it prices.
//
// YAML form:
//
//	name: t-counts
//	unit: T gates
//	weights:
//	  "T": 1
//	  "T†": 1
//
// # Validation
//
// Uses go-playground/validator:
//   - Name: required
//   - Unit: required
//   - Weights: required, at least one entry, every weight >= 0
type CostModel struct {
	Name    string             `yaml:"name" validate:"required"`
	Unit    string             `yaml:"unit" validate:"required"`
	Weights map[string]float64 `yaml:"weights" validate:"required,min=1,dive,gte=0"`
}

// Validate checks the model against its field constraints.
func (m *CostModel) Validate() error {
	if err := modelValidate.Struct(m); err != nil {
		return fmt.Errorf("invalid cost model: %w", err)
	}
	return nil
}

// Weight returns the price of the named operation and whether the model
// prices it at all.
func (m *CostModel) Weight(name string) (float64, bool) {
	w, ok := m.Weights[name]
	return w, ok
}

// ParseModel decodes and validates a YAML cost model.
func ParseModel(data []byte) (*CostModel, error) {
	var m CostModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse cost model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadModel reads and parses a YAML cost model file.
func LoadModel(path string) (*CostModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load cost model %s: %w", path, err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("load cost model %s: %w", path, err)
	}
	return m, nil
}

// TCountModel is the built-in default: every T (and adjoint T) costs one
// unit, everything else is unpriced. Run the expansion with the T-folding
// generalizer when the adjoint split should collapse into one line.
func TCountModel() *CostModel {
	return &CostModel{
		Name: "t-counts",
		Unit: "T gates",
		Weights: map[string]float64{
			"T":  1,
			"T†": 1,
		},
	}
}
