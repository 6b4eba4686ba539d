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
	"strconv"
)

// Parse reads the textual expression form produced by Int.String.
//
// Description:
//
//	Grammar (whitespace-insensitive):
//
//	  expr   := term (('+' | '-') term)*
//	  term   := factor ('*' factor)*
//	  factor := INT | IDENT | FUNC '(' expr (',' expr)* ')'
//	          | '(' expr ')' | '-' factor
//	  FUNC   := "max" | "log2"
//
//	Identifiers are [A-Za-z_][A-Za-z0-9_]*. The result is normalized the
//	same way arithmetic on Int normalizes, so Parse(x.String()) == x.
//
// Inputs:
//
//	s - Expression text.
//
// Outputs:
//
//	Int - The parsed value.
//	error - ErrParse (wrapped with position context) on malformed input.
func Parse(s string) (Int, error) {
	p := &parser{src: s}
	x, err := p.parseExpr()
	if err != nil {
		return Zero, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Zero, p.errf("unexpected %q", p.src[p.pos:])
	}
	return x, nil
}

// MustParse is Parse that panics on error; intended for fixed literals.
func MustParse(s string) Int {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrParse, fmt.Sprintf(format, args...), p.pos)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseExpr() (Int, error) {
	x, err := p.parseTerm()
	if err != nil {
		return Zero, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			y, err := p.parseTerm()
			if err != nil {
				return Zero, err
			}
			x = x.Add(y)
		case '-':
			p.pos++
			y, err := p.parseTerm()
			if err != nil {
				return Zero, err
			}
			x = x.Sub(y)
		default:
			return x, nil
		}
	}
}

func (p *parser) parseTerm() (Int, error) {
	x, err := p.parseFactor()
	if err != nil {
		return Zero, err
	}
	for p.peek() == '*' {
		p.pos++
		y, err := p.parseFactor()
		if err != nil {
			return Zero, err
		}
		x = x.Mul(y)
	}
	return x, nil
}

func (p *parser) parseFactor() (Int, error) {
	switch c := p.peek(); {
	case c == '-':
		p.pos++
		x, err := p.parseFactor()
		if err != nil {
			return Zero, err
		}
		return x.Neg(), nil
	case c == '(':
		p.pos++
		x, err := p.parseExpr()
		if err != nil {
			return Zero, err
		}
		if p.peek() != ')' {
			return Zero, p.errf("expected ')'")
		}
		p.pos++
		return x, nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
		if err != nil {
			return Zero, p.errf("bad integer %q", p.src[start:p.pos])
		}
		return Lit(n), nil
	case isIdentStart(c):
		name := p.scanIdent()
		if p.peek() != '(' {
			return Var(name), nil
		}
		p.pos++
		args, err := p.parseArgs()
		if err != nil {
			return Zero, err
		}
		switch name {
		case "max":
			if len(args) < 2 {
				return Zero, p.errf("max needs at least 2 arguments")
			}
			x := args[0]
			for _, a := range args[1:] {
				x = x.Max(a)
			}
			return x, nil
		case "log2":
			if len(args) != 1 {
				return Zero, p.errf("log2 needs exactly 1 argument")
			}
			return args[0].Log2(), nil
		default:
			return Zero, p.errf("unknown function %q", name)
		}
	case c == 0:
		return Zero, p.errf("unexpected end of input")
	default:
		return Zero, p.errf("unexpected %q", string(c))
	}
}

func (p *parser) parseArgs() ([]Int, error) {
	var args []Int
	for {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, x)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, p.errf("expected ',' or ')'")
		}
	}
}

func (p *parser) scanIdent() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
