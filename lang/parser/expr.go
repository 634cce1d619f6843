// zinput hub
// Copyright (c) 2026 zinput contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package parser

import (
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/token"
)

// precedence levels, lowest first, mirroring spec §4.6's 13-level table.
var precLevels = [][]token.Kind{
	{token.Or},
	{token.And},
	{token.Equals, token.NotEquals, token.Less, token.LessEq, token.Greater, token.GreaterEq},
	{token.BitOr},
	{token.Xor},
	{token.BitAnd},
	{token.ShiftLeft, token.ShiftRight},
	{token.Plus, token.Minus},
	{token.Star, token.Slash},
}

func (p *Parser) parseExpr() *ast.Expr { return p.parseLevel(0) }

func (p *Parser) parseLevel(level int) *ast.Expr {
	if level >= len(precLevels) {
		return p.parseUnary()
	}

	left := p.parseLevel(level + 1)
	if left == nil {
		return nil
	}

	for containsKind(precLevels[level], p.cur().Kind) {
		opTok := p.advance()
		op, ok := ast.FromTokenKind(opTok.Kind)
		if !ok {
			break
		}
		right := p.parseLevel(level + 1)
		if right == nil {
			return left
		}
		left = &ast.Expr{
			Kind: ast.BinaryExpr{Left: left, Op: op, Right: right},
			Span: spanBetween(left.Span, right.Span),
		}
	}
	return left
}

func containsKind(ks []token.Kind, k token.Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() *ast.Expr {
	switch p.cur().Kind {
	case token.Minus:
		t := p.advance()
		inner := p.parseUnary()
		if inner == nil {
			return nil
		}
		return &ast.Expr{Kind: ast.UnaryExpr{Op: ast.UnNegate, Expr: inner}, Span: spanBetween(t.Span, inner.Span)}
	case token.Not:
		t := p.advance()
		inner := p.parseUnary()
		if inner == nil {
			return nil
		}
		return &ast.Expr{Kind: ast.UnaryExpr{Op: ast.UnNot, Expr: inner}, Span: spanBetween(t.Span, inner.Span)}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles index (non-chaining across a single level per the
// grammar table, but chained application is harmless and matches the
// original's recursive-descent behavior) and field access, left to
// right, tightest-binding.
func (p *Parser) parsePostfix() *ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.cur().Kind {
		case token.LBrack:
			p.advance()
			idx := p.parseExpr()
			end, _ := p.expect(token.RBrack)
			expr = &ast.Expr{Kind: ast.IndexExpr{Left: expr, Index: idx}, Span: spanBetween(expr.Span, end.Span)}
		case token.Dot:
			p.advance()
			field, ok := p.expect(token.Ident)
			if !ok {
				return expr
			}
			expr = &ast.Expr{
				Kind: ast.DotExpr{Left: expr, Field: ast.Ident{Name: field.Text, Span: field.Span}},
				Span: spanBetween(expr.Span, field.Span),
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Int:
		p.advance()
		return &ast.Expr{
			Kind: ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitInt, IntValue: tok.IntValue}},
			Span: tok.Span,
		}
	case token.Float:
		p.advance()
		return &ast.Expr{
			Kind: ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitFloat, FloatValue: tok.FloatValue}},
			Span: tok.Span,
		}
	case token.KTrue, token.KFalse:
		p.advance()
		return &ast.Expr{
			Kind: ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitBool, BoolValue: tok.Kind == token.KTrue}},
			Span: tok.Span,
		}
	case token.Ident:
		p.advance()
		return &ast.Expr{Kind: ast.VarExpr{Name: ast.Ident{Name: tok.Text, Span: tok.Span}}, Span: tok.Span}
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return inner
	default:
		if p.atEnd() {
			p.errs.Add(&UnexpectedEOFError{Span: tok.Span})
		} else {
			p.errs.Add(&UnexpectedTokenError{Got: tok, Expected: []token.Kind{token.Int, token.Float, token.Ident, token.LParen}})
		}
		return nil
	}
}
