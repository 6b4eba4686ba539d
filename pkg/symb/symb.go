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
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Int is an integer that is either concrete or a symbolic expression in free
// variables. The zero value is the concrete 0.
//
// Int is a small comparable value: == is structural equality (symbolic
// expressions are interned), and Int may be used as a map key. Arithmetic
// never mutates; every operation returns a new value, folding to concrete
// whenever all operands are concrete.
type Int struct {
	k int64
	e *Expr // nil when concrete
}

// Lit returns the concrete value n.
func Lit(n int64) Int {
	return Int{k: n}
}

// Var returns a symbolic free variable named name.
func Var(name string) Int {
	return Int{e: varExpr(name)}
}

// Zero and One are the most common concrete values.
var (
	Zero = Lit(0)
	One  = Lit(1)
)

// IsConcrete reports whether x holds a plain integer.
func (x Int) IsConcrete() bool {
	return x.e == nil
}

// Concrete returns the concrete value, or a SymbolicError wrapping
// ErrSymbolic when x holds an expression.
func (x Int) Concrete() (int64, error) {
	if x.e != nil {
		return 0, newSymbolicError(x)
	}
	return x.k, nil
}

// Evaluate substitutes bindings for free variables and folds to an integer.
// Returns ErrFreeVar if a variable has no binding.
func (x Int) Evaluate(bindings map[string]int64) (int64, error) {
	if x.e == nil {
		return x.k, nil
	}
	return x.e.evaluate(bindings, make(map[*Expr]int64))
}

// FreeVars returns the sorted names of free variables in x.
func (x Int) FreeVars() []string {
	if x.e == nil {
		return nil
	}
	seen := make(map[string]bool)
	x.e.freeVars(seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (x Int) expr() *Expr {
	if x.e != nil {
		return x.e
	}
	return constExpr(x.k)
}

func fromExpr(e *Expr) Int {
	if e.op == opConst {
		return Int{k: e.k}
	}
	return Int{e: e}
}

// Add returns x + y.
func (x Int) Add(y Int) Int {
	if x.e == nil && y.e == nil {
		return Int{k: x.k + y.k}
	}
	return fromExpr(addExpr(x.expr(), y.expr()))
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	return x.Add(y.Neg())
}

// Neg returns -x.
func (x Int) Neg() Int {
	if x.e == nil {
		return Int{k: -x.k}
	}
	return fromExpr(mulExpr(constExpr(-1), x.e))
}

// Mul returns x * y.
func (x Int) Mul(y Int) Int {
	if x.e == nil && y.e == nil {
		return Int{k: x.k * y.k}
	}
	return fromExpr(mulExpr(x.expr(), y.expr()))
}

// Max returns the larger of x and y, symbolically when needed.
func (x Int) Max(y Int) Int {
	if x.e == nil && y.e == nil {
		if x.k >= y.k {
			return x
		}
		return y
	}
	return fromExpr(maxExpr(x.expr(), y.expr()))
}

// Log2 returns ceil(log2(x)); 0 for x <= 1.
func (x Int) Log2() Int {
	if x.e == nil {
		return Int{k: ceilLog2(x.k)}
	}
	return fromExpr(log2Expr(x.e))
}

// Cmp orders two values when possible: -1, 0, or +1 for concrete pairs, 0
// for structurally equal symbolic values, and ErrIncomparable otherwise.
func (x Int) Cmp(y Int) (int, error) {
	if x == y {
		return 0, nil
	}
	if x.e == nil && y.e == nil {
		if x.k < y.k {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, x, y)
}

// IsZero reports whether x is the concrete 0.
func (x Int) IsZero() bool {
	return x.e == nil && x.k == 0
}

// IsOne reports whether x is the concrete 1.
func (x Int) IsOne() bool {
	return x.e == nil && x.k == 1
}

// String renders x in the grammar accepted by Parse.
func (x Int) String() string {
	if x.e == nil {
		return strconv.FormatInt(x.k, 10)
	}
	return x.e.String()
}

// Sum folds Add over xs; Sum() is 0.
func Sum(xs ...Int) Int {
	total := Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

// Prod folds Mul over xs; Prod() is 1.
func Prod(xs ...Int) Int {
	total := One
	for _, x := range xs {
		total = total.Mul(x)
	}
	return total
}

// Alloc hands out fresh, uniquely named free variables. Generalizers use it
// to replace data-dependent parameters with anonymous symbols so that
// structurally similar operations collapse to one call-graph node.
//
// Thread Safety: safe for concurrent use.
type Alloc struct {
	mu sync.Mutex
	n  map[string]int
}

// NewAlloc returns an empty allocator.
func NewAlloc() *Alloc {
	return &Alloc{n: make(map[string]int)}
}

// Fresh returns a variable named prefix_0, prefix_1, ... unique per prefix
// within this allocator.
func (a *Alloc) Fresh(prefix string) Int {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.n[prefix]
	a.n[prefix] = i + 1
	return Var(fmt.Sprintf("%s_%d", prefix, i))
}
