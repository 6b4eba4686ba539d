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
	"math/bits"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type exprOp uint8

const (
	opVar exprOp = iota + 1
	opConst
	opAdd
	opMul
	opMax
	opLog2
)

// Expr is one immutable node of a symbolic expression. Nodes are hash-consed:
// structurally identical expressions are represented by the same pointer, so
// pointer equality on *Expr is structural equality. Callers never construct
// Expr directly; they go through Var, Lit, and Int arithmetic.
type Expr struct {
	op   exprOp
	name string  // opVar only
	k    int64   // opConst only
	args []*Expr // opAdd/opMul/opMax: len >= 2; opLog2: len 1
	id   uint64  // intern sequence number, used for canonical ordering
}

var (
	internMu  sync.Mutex
	internTab = make(map[string]*Expr)
	internSeq uint64
)

// intern returns the canonical node for the given shape, creating it on
// first use. args must already be in canonical order.
func intern(op exprOp, name string, k int64, args []*Expr) *Expr {
	var sb strings.Builder
	sb.WriteByte(byte(op))
	sb.WriteString(name)
	sb.WriteByte(0x1f)
	sb.WriteString(strconv.FormatInt(k, 10))
	for _, a := range args {
		sb.WriteByte(0x1f)
		sb.WriteString(strconv.FormatUint(a.id, 10))
	}
	key := sb.String()

	internMu.Lock()
	defer internMu.Unlock()
	if e, ok := internTab[key]; ok {
		return e
	}
	internSeq++
	e := &Expr{op: op, name: name, k: k, args: args, id: internSeq}
	internTab[key] = e
	return e
}

func varExpr(name string) *Expr {
	return intern(opVar, name, 0, nil)
}

func constExpr(k int64) *Expr {
	return intern(opConst, "", k, nil)
}

// orderKey gives the canonical operand ordering: variables sort by name so
// "m + n" prints stably, everything else by intern sequence.
func orderKey(e *Expr) string {
	if e.op == opVar {
		return "0\x00" + e.name
	}
	return fmt.Sprintf("1\x00%020d", e.id)
}

func sortArgs(args []*Expr) {
	sort.Slice(args, func(i, j int) bool {
		return orderKey(args[i]) < orderKey(args[j])
	})
}

// addExpr builds a canonical sum: nested sums are flattened, constants are
// folded into one trailing term, and repeated terms collapse to a product.
func addExpr(parts ...*Expr) *Expr {
	var terms []*Expr
	var kSum int64
	for _, p := range parts {
		switch p.op {
		case opConst:
			kSum += p.k
		case opAdd:
			for _, a := range p.args {
				if a.op == opConst {
					kSum += a.k
				} else {
					terms = append(terms, a)
				}
			}
		default:
			terms = append(terms, p)
		}
	}
	sortArgs(terms)

	// Collapse literal duplicates: x + x -> 2*x.
	var collapsed []*Expr
	for i := 0; i < len(terms); {
		j := i
		for j < len(terms) && terms[j] == terms[i] {
			j++
		}
		if n := int64(j - i); n > 1 {
			collapsed = append(collapsed, mulExpr(constExpr(n), terms[i]))
		} else {
			collapsed = append(collapsed, terms[i])
		}
		i = j
	}
	terms = collapsed
	sortArgs(terms)

	switch {
	case len(terms) == 0:
		return constExpr(kSum)
	case len(terms) == 1 && kSum == 0:
		return terms[0]
	}
	if kSum != 0 {
		terms = append(terms, constExpr(kSum))
	}
	return intern(opAdd, "", 0, terms)
}

// mulExpr builds a canonical product: nested products are flattened and
// constants folded into one leading coefficient.
func mulExpr(parts ...*Expr) *Expr {
	var factors []*Expr
	kProd := int64(1)
	for _, p := range parts {
		switch p.op {
		case opConst:
			kProd *= p.k
		case opMul:
			for _, a := range p.args {
				if a.op == opConst {
					kProd *= a.k
				} else {
					factors = append(factors, a)
				}
			}
		default:
			factors = append(factors, p)
		}
	}
	if kProd == 0 {
		return constExpr(0)
	}
	sortArgs(factors)

	switch {
	case len(factors) == 0:
		return constExpr(kProd)
	case len(factors) == 1 && kProd == 1:
		return factors[0]
	}
	if kProd != 1 {
		factors = append([]*Expr{constExpr(kProd)}, factors...)
	}
	return intern(opMul, "", 0, factors)
}

// maxExpr builds a canonical max: flattened, deduplicated, constants folded.
func maxExpr(parts ...*Expr) *Expr {
	var terms []*Expr
	var kMax int64
	haveK := false
	for _, p := range parts {
		switch p.op {
		case opConst:
			if !haveK || p.k > kMax {
				kMax = p.k
			}
			haveK = true
		case opMax:
			for _, a := range p.args {
				if a.op == opConst {
					if !haveK || a.k > kMax {
						kMax = a.k
					}
					haveK = true
				} else {
					terms = append(terms, a)
				}
			}
		default:
			terms = append(terms, p)
		}
	}
	sortArgs(terms)
	var dedup []*Expr
	for i, t := range terms {
		if i == 0 || terms[i-1] != t {
			dedup = append(dedup, t)
		}
	}
	terms = dedup

	if len(terms) == 0 {
		return constExpr(kMax)
	}
	if haveK {
		terms = append(terms, constExpr(kMax))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return intern(opMax, "", 0, terms)
}

// ceilLog2 returns ceil(log2(n)) for n >= 1, and 0 for n <= 1.
func ceilLog2(n int64) int64 {
	if n <= 1 {
		return 0
	}
	return int64(bits.Len64(uint64(n - 1)))
}

func log2Expr(a *Expr) *Expr {
	if a.op == opConst {
		return constExpr(ceilLog2(a.k))
	}
	return intern(opLog2, "", 0, []*Expr{a})
}

// evaluate substitutes bindings and folds to a single integer. memo spans one
// Evaluate call; the expression is a DAG and shared nodes are computed once.
func (e *Expr) evaluate(bindings map[string]int64, memo map[*Expr]int64) (int64, error) {
	if v, ok := memo[e]; ok {
		return v, nil
	}
	var v int64
	switch e.op {
	case opConst:
		v = e.k
	case opVar:
		b, ok := bindings[e.name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrFreeVar, e.name)
		}
		v = b
	case opAdd:
		for _, a := range e.args {
			av, err := a.evaluate(bindings, memo)
			if err != nil {
				return 0, err
			}
			v += av
		}
	case opMul:
		v = 1
		for _, a := range e.args {
			av, err := a.evaluate(bindings, memo)
			if err != nil {
				return 0, err
			}
			v *= av
		}
	case opMax:
		for i, a := range e.args {
			av, err := a.evaluate(bindings, memo)
			if err != nil {
				return 0, err
			}
			if i == 0 || av > v {
				v = av
			}
		}
	case opLog2:
		av, err := e.args[0].evaluate(bindings, memo)
		if err != nil {
			return 0, err
		}
		v = ceilLog2(av)
	default:
		return 0, fmt.Errorf("%w: unknown op %d", ErrParse, e.op)
	}
	memo[e] = v
	return v, nil
}

// freeVars accumulates variable names into seen.
func (e *Expr) freeVars(seen map[string]bool) {
	switch e.op {
	case opVar:
		seen[e.name] = true
	default:
		for _, a := range e.args {
			a.freeVars(seen)
		}
	}
}

// String renders the expression in the grammar accepted by Parse.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.op {
	case opVar:
		sb.WriteString(e.name)
	case opConst:
		sb.WriteString(strconv.FormatInt(e.k, 10))
	case opAdd:
		for i, a := range e.args {
			if i > 0 {
				if a.op == opConst && a.k < 0 {
					sb.WriteString(" - ")
					sb.WriteString(strconv.FormatInt(-a.k, 10))
					continue
				}
				sb.WriteString(" + ")
			}
			a.write(sb)
		}
	case opMul:
		for i, a := range e.args {
			if i > 0 {
				sb.WriteString("*")
			}
			if a.op == opAdd {
				sb.WriteByte('(')
				a.write(sb)
				sb.WriteByte(')')
			} else {
				a.write(sb)
			}
		}
	case opMax:
		sb.WriteString("max(")
		for i, a := range e.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb)
		}
		sb.WriteByte(')')
	case opLog2:
		sb.WriteString("log2(")
		e.args[0].write(sb)
		sb.WriteByte(')')
	}
}
