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
	"strings"
	"testing"
)

// =============================================================================
// Catalog Resolution Tests
// =============================================================================

func TestResolveBloq_FixedEntries(t *testing.T) {
	tests := []struct {
		name       string
		wantString string
	}{
		{"And", "And"},
		{"T", "T"},
		{"T†", "T†"},
		{"X", "X"},
		{"H", "H"},
		{"CNot", "CNot"},
		{"Swap", "Swap"},
		{"CSwap", "CSwap"},
		{"ZeroState", "ZeroState"},
		{"PlusEffect", "PlusEffect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := resolveBloq(tt.name, 0)
			if err != nil {
				t.Fatalf("resolveBloq(%q): %v", tt.name, err)
			}
			if b.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", b.String(), tt.wantString)
			}
		})
	}
}

func TestResolveBloq_Aliases(t *testing.T) {
	tests := []struct {
		name       string
		wantString string
	}{
		{"AndDag", "And†"},
		{"TDag", "T†"},
		{"anddag", "And†"},
		{"cnot", "CNot"},
		{"ZEROSTATE", "ZeroState"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := resolveBloq(tt.name, 0)
			if err != nil {
				t.Fatalf("resolveBloq(%q): %v", tt.name, err)
			}
			if b.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", b.String(), tt.wantString)
			}
		})
	}
}

func TestResolveBloq_Parametric(t *testing.T) {
	b, err := resolveBloq("MultiAnd", 4)
	if err != nil {
		t.Fatalf("resolveBloq: %v", err)
	}
	if b.String() != "MultiAnd(4)" {
		t.Errorf("String() = %q, want MultiAnd(4)", b.String())
	}
}

func TestResolveBloq_ParametricMissingN(t *testing.T) {
	if _, err := resolveBloq("MultiAnd", 0); err == nil {
		t.Error("Expected error when --n is not given")
	}
}

func TestResolveBloq_Unknown(t *testing.T) {
	_, err := resolveBloq("Toffoli", 0)
	if err == nil {
		t.Fatal("Expected error for an operation outside the catalog")
	}
	if !strings.Contains(err.Error(), "qir bloqs") {
		t.Errorf("Error should point at the catalog command: %v", err)
	}
}

// =============================================================================
// Catalog Listing Tests
// =============================================================================

func TestBuildBloqInfos(t *testing.T) {
	infos, err := buildBloqInfos()
	if err != nil {
		t.Fatalf("buildBloqInfos: %v", err)
	}
	if len(infos) != len(catalog) {
		t.Fatalf("len = %d, want %d", len(infos), len(catalog))
	}

	for _, info := range infos {
		if info.Signature == "" {
			t.Errorf("%s has an empty signature", info.Name)
		}
		if info.Summary == "" {
			t.Errorf("%s has an empty summary", info.Name)
		}
	}
}

func TestBuildBloqInfos_ParametricSignature(t *testing.T) {
	infos, err := buildBloqInfos()
	if err != nil {
		t.Fatalf("buildBloqInfos: %v", err)
	}

	for _, info := range infos {
		if info.Name != "MultiAnd" {
			continue
		}
		if !info.Parametric {
			t.Error("MultiAnd should be marked parametric")
		}
		if !strings.Contains(info.Signature, "[4]") {
			t.Errorf("Signature should use the example wire count: %q", info.Signature)
		}
		return
	}
	t.Fatal("MultiAnd missing from listing")
}

func TestDisplayName(t *testing.T) {
	fixedInfo := BloqInfo{Name: "And"}
	if got := displayName(fixedInfo); got != "And" {
		t.Errorf("displayName = %q, want And", got)
	}

	parametricInfo := BloqInfo{Name: "MultiAnd", Parametric: true}
	if got := displayName(parametricInfo); got != "MultiAnd --n" {
		t.Errorf("displayName = %q, want MultiAnd --n", got)
	}
}

func TestPadCell(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"pads ascii", "T", 3, "T  "},
		{"pads multibyte by display width", "T†", 3, "T† "},
		{"wider than target", "MultiAnd", 3, "MultiAnd"},
		{"exact fit", "And", 3, "And"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padCell(tt.s, tt.width); got != tt.want {
				t.Errorf("padCell(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
			}
		})
	}
}
