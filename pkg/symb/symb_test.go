// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package symb

import (
	"errors"
	"testing"
)

// --- Concrete Arithmetic Tests ---

func TestConcreteArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Int
		want int64
	}{
		{"add", Lit(2).Add(Lit(3)), 5},
		{"sub", Lit(2).Sub(Lit(3)), -1},
		{"mul", Lit(4).Mul(Lit(-3)), -12},
		{"neg", Lit(7).Neg(), -7},
		{"max_left", Lit(9).Max(Lit(4)), 9},
		{"max_right", Lit(4).Max(Lit(9)), 9},
		{"sum", Sum(Lit(1), Lit(2), Lit(3)), 6},
		{"sum_empty", Sum(), 0},
		{"prod", Prod(Lit(2), Lit(3), Lit(4)), 24},
		{"prod_empty", Prod(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.IsConcrete() {
				t.Fatalf("result is symbolic: %s", tt.got)
			}
			v, err := tt.got.Concrete()
			if err != nil {
				t.Fatalf("Concrete() error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %d, want %d", v, tt.want)
			}
		})
	}
}

func TestLog2(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {1024, 10},
	}
	for _, tt := range tests {
		if got := Lit(tt.in).Log2(); got != Lit(tt.want) {
			t.Errorf("Log2(%d) = %s, want %d", tt.in, got, tt.want)
		}
	}
}

// --- Symbolic Structure Tests ---

func TestSymbolicInterning(t *testing.T) {
	n := Var("n")
	m := Var("m")

	if Var("n") != n {
		t.Error("Var is not interned")
	}
	if n.Add(m) != m.Add(n) {
		t.Error("addition is not canonical under operand order")
	}
	if n.Mul(m) != m.Mul(n) {
		t.Error("multiplication is not canonical under operand order")
	}
	if n.Sub(One) != n.Add(Lit(-1)) {
		t.Error("n - 1 and n + (-1) should be the same value")
	}
	if n.Add(n) != n.Mul(Lit(2)) {
		t.Error("n + n should collapse to 2*n")
	}
	if n.Mul(Zero) != Zero {
		t.Error("n * 0 should fold to 0")
	}
	if n.Mul(One) != n {
		t.Error("n * 1 should fold to n")
	}
	if n.Add(Zero) != n {
		t.Error("n + 0 should fold to n")
	}
	if n.Max(n) != n {
		t.Error("max(n, n) should fold to n")
	}
}

func TestSymbolicIsMapKeySafe(t *testing.T) {
	n := Var("n")
	counts := map[Int]int{}
	counts[n.Sub(One)]++
	counts[n.Add(Lit(-1))]++
	if counts[n.Sub(One)] != 2 {
		t.Errorf("equal expressions hashed to different keys: %v", counts)
	}
}

func TestConcreteOfSymbolic(t *testing.T) {
	n := Var("n")
	_, err := n.Concrete()
	if !errors.Is(err, ErrSymbolic) {
		t.Fatalf("expected ErrSymbolic, got %v", err)
	}
	var se *SymbolicError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SymbolicError, got %T", err)
	}
	if se.Expr != "n" {
		t.Errorf("SymbolicError.Expr = %q, want %q", se.Expr, "n")
	}
}

func TestEvaluate(t *testing.T) {
	n := Var("n")
	cost := Lit(4).Mul(n.Sub(One))

	v, err := cost.Evaluate(map[string]int64{"n": 5})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if v != 16 {
		t.Errorf("4*(n-1) at n=5 = %d, want 16", v)
	}

	_, err = cost.Evaluate(nil)
	if !errors.Is(err, ErrFreeVar) {
		t.Fatalf("expected ErrFreeVar, got %v", err)
	}
}

func TestFreeVars(t *testing.T) {
	x := Var("n").Mul(Var("m")).Add(Var("L").Log2())
	got := x.FreeVars()
	want := []string{"L", "m", "n"}
	if len(got) != len(want) {
		t.Fatalf("FreeVars = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FreeVars = %v, want %v", got, want)
		}
	}
	if Lit(3).FreeVars() != nil {
		t.Error("concrete value should have no free variables")
	}
}

func TestCmp(t *testing.T) {
	if c, err := Lit(2).Cmp(Lit(3)); err != nil || c != -1 {
		t.Errorf("Cmp(2,3) = %d, %v", c, err)
	}
	if c, err := Lit(3).Cmp(Lit(3)); err != nil || c != 0 {
		t.Errorf("Cmp(3,3) = %d, %v", c, err)
	}
	n := Var("n")
	if c, err := n.Cmp(Var("n")); err != nil || c != 0 {
		t.Errorf("Cmp(n,n) = %d, %v", c, err)
	}
	if _, err := n.Cmp(Lit(3)); !errors.Is(err, ErrIncomparable) {
		t.Errorf("expected ErrIncomparable, got %v", err)
	}
}

// --- Text Round-Trip Tests ---

func TestStringParseRoundTrip(t *testing.T) {
	n := Var("n")
	L := Var("L")
	values := []Int{
		Lit(0),
		Lit(-7),
		n,
		n.Add(One),
		n.Sub(One),
		n.Neg(),
		Lit(4).Mul(n.Sub(One)),
		n.Mul(Var("m")).Add(Lit(2)),
		L.Log2(),
		n.Max(Lit(4)),
		n.Max(Var("m")).Max(Lit(2)),
		L.Log2().Mul(Lit(3)).Add(n),
	}
	for _, want := range values {
		got, err := Parse(want.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("round trip of %q gave %q", want.String(), got.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"n +",
		"(n",
		"max(n)",
		"log2(n, m)",
		"foo(1)",
		"2 ^ 3",
		"n n",
	}
	for _, s := range bad {
		if _, err := Parse(s); !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q): expected ErrParse, got %v", s, err)
		}
	}
}

// --- Allocator Tests ---

func TestAllocFresh(t *testing.T) {
	a := NewAlloc()
	x := a.Fresh("cv")
	y := a.Fresh("cv")
	z := a.Fresh("n")
	if x == y {
		t.Error("Fresh returned the same variable twice")
	}
	if x.String() != "cv_0" || y.String() != "cv_1" || z.String() != "n_0" {
		t.Errorf("unexpected fresh names: %s %s %s", x, y, z)
	}
}
