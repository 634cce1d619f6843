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

// Package parser is a recursive-descent parser over lang/token's output,
// producing a lang/ast.Module (spec §4.6). Grounded on
// original_source/bindlang/src/parser.rs's structure (a token cursor plus
// one function per precedence level), adapted to Go's idiom of returning
// (value, error) instead of panicking on parse failure.
package parser

import (
	"fmt"

	"github.com/zinput/hub/errors"
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/token"
)

// UnexpectedTokenError is returned when the parser needed one of a set
// of token kinds and found something else.
type UnexpectedTokenError struct {
	Got      token.Token
	Expected []token.Kind
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %s at line %d: expected one of %v", e.Got.Kind, e.Got.Span.Line, e.Expected)
}

func (e *UnexpectedTokenError) DiagSpan() token.Span { return e.Got.Span }

// ExpectedKeywordError is returned when a specific keyword was required.
type ExpectedKeywordError struct {
	Got      token.Token
	Expected token.Kind
}

func (e *ExpectedKeywordError) Error() string {
	return fmt.Sprintf("expected keyword %s at line %d, got %s", e.Expected, e.Got.Span.Line, e.Got.Kind)
}

func (e *ExpectedKeywordError) DiagSpan() token.Span { return e.Got.Span }

// UnexpectedEOFError is returned when input ran out mid-construct.
type UnexpectedEOFError struct {
	Span token.Span
}

func (e *UnexpectedEOFError) Error() string { return "unexpected end of input" }

func (e *UnexpectedEOFError) DiagSpan() token.Span { return e.Span }

// Parser walks a fixed token slice (always EOF-terminated).
type Parser struct {
	toks []token.Token
	pos  int
	errs *errors.MultiError
}

// New creates a Parser over the given token stream.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks, errs: errors.NewMultiError("parser")}
}

// ParseModule parses a full module, collecting errors into a
// MultiError rather than aborting on the first failure (spec §4.6).
func ParseModule(toks []token.Token) (*ast.Module, error) {
	p := New(toks)
	mod := p.parseModule()
	if p.errs.HasErrors() {
		return nil, p.errs.Err()
	}
	return mod, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) atEnd() bool       { return p.cur().Kind == token.EOF }
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if tok, ok := p.match(k); ok {
		return tok, true
	}
	if p.atEnd() {
		p.errs.Add(&UnexpectedEOFError{Span: p.cur().Span})
	} else {
		p.errs.Add(&UnexpectedTokenError{Got: p.cur(), Expected: []token.Kind{k}})
	}
	return token.Token{}, false
}

func (p *Parser) expectKeyword(k token.Kind) bool {
	if _, ok := p.match(k); ok {
		return true
	}
	p.errs.Add(&ExpectedKeywordError{Got: p.cur(), Expected: k})
	return false
}

// synchronize skips tokens until the next statement boundary, so one
// parse error does not cascade into spurious follow-on ones.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur().Kind == token.Semicolon {
			p.advance()
			return
		}
		if p.cur().Kind == token.RBrace {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseModule() *ast.Module {
	mod := &ast.Module{}

	if !p.expectKeyword(token.KDevice) {
		p.synchronize()
	}
	if id, ok := p.expect(token.Ident); ok {
		mod.Output = ast.Ident{Name: id.Text, Span: id.Span}
	}
	if _, ok := p.expect(token.Semicolon); !ok {
		// fall through: a missing ';' still lets us try to find input blocks
	}

	for !p.atEnd() {
		start := p.pos
		in := p.parseDeviceIn()
		if in != nil {
			mod.Inputs = append(mod.Inputs, *in)
		}
		if p.pos == start {
			// parseDeviceIn made no progress; avoid an infinite loop.
			p.advance()
		}
	}

	return mod
}

func (p *Parser) parseDeviceIn() *ast.DeviceIn {
	startSpan := p.cur().Span
	id, ok := p.expect(token.Ident)
	if !ok {
		p.synchronize()
		return nil
	}
	body := p.parseBlock()
	return &ast.DeviceIn{
		Device: ast.Ident{Name: id.Text, Span: id.Span},
		Body:   body,
		Span:   token.Span{Start: startSpan.Start, End: body.Span.End, Line: startSpan.Line, Col: startSpan.Col},
	}
}

func (p *Parser) parseBlock() ast.Block {
	startSpan := p.cur().Span
	if _, ok := p.expect(token.LBrace); !ok {
		return ast.Block{Span: startSpan}
	}

	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.atEnd() {
		before := p.pos
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, *s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end, _ := p.expect(token.RBrace)

	return ast.Block{Stmts: stmts, Span: token.Span{Start: startSpan.Start, End: end.Span.End, Line: startSpan.Line, Col: startSpan.Col}}
}

func (p *Parser) parseStmt() *ast.Stmt {
	switch p.cur().Kind {
	case token.KLet:
		return p.parseLetStmt()
	case token.KIf:
		return p.parseIfStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseLetStmt() *ast.Stmt {
	start := p.advance() // 'let'
	name, ok := p.expect(token.Ident)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.Assign); !ok {
		p.synchronize()
		return nil
	}
	expr := p.parseExpr()
	end, _ := p.expect(token.Semicolon)

	return &ast.Stmt{
		Kind: ast.LetStmt{Name: ast.Ident{Name: name.Text, Span: name.Span}, Expr: expr},
		Span: spanBetween(start.Span, end.Span),
	}
}

func (p *Parser) parseIfStmt() *ast.Stmt {
	start := p.advance() // 'if'
	cond := p.parseExpr()
	yes := p.parseBlock()

	var no *ast.Block
	if _, ok := p.match(token.KElse); ok {
		if p.check(token.KIf) {
			inner := p.parseIfStmt()
			if inner != nil {
				no = &ast.Block{Stmts: []ast.Stmt{*inner}, Span: inner.Span}
			}
		} else {
			b := p.parseBlock()
			no = &b
		}
	}

	end := yes.Span
	if no != nil {
		end = no.Span
	}
	return &ast.Stmt{Kind: ast.IfStmt{Cond: cond, Yes: yes, No: no}, Span: spanBetween(start.Span, end)}
}

var assignKinds = map[token.Kind]ast.AssignKind{
	token.Assign:       ast.AssignNormal,
	token.BitOrAssign:  ast.AssignBitOr,
	token.BitAndAssign: ast.AssignBitAnd,
	token.XorAssign:    ast.AssignXor,
	token.AddAssign:    ast.AssignAdd,
	token.SubAssign:    ast.AssignSub,
	token.MulAssign:    ast.AssignMul,
	token.DivAssign:    ast.AssignDiv,
}

func (p *Parser) parseAssignOrExprStmt() *ast.Stmt {
	startSpan := p.cur().Span
	expr := p.parseExpr()
	if expr == nil {
		p.synchronize()
		return nil
	}

	if kind, ok := assignKinds[p.cur().Kind]; ok {
		p.advance()
		rhs := p.parseExpr()
		end, _ := p.expect(token.Semicolon)
		return &ast.Stmt{
			Kind: ast.AssignStmt{LVal: expr, Kind: kind, Expr: rhs},
			Span: spanBetween(startSpan, end.Span),
		}
	}

	end, _ := p.expect(token.Semicolon)
	return &ast.Stmt{Kind: ast.ExprStmt{Expr: expr}, Span: spanBetween(startSpan, end.Span)}
}

func spanBetween(a, b token.Span) token.Span {
	end := b.End
	if end < a.Start {
		end = a.End
	}
	return token.Span{Start: a.Start, End: end, Line: a.Line, Col: a.Col}
}
