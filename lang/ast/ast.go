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

// Package ast is the virtual-device language's parse tree (spec §4.6),
// grounded on original_source/bindlang/src/ast.rs. Every node carries its
// source Span for diagnostics; Expr additionally carries a Type filled in
// by lang/check once the tree passes type checking.
package ast

import (
	"github.com/zinput/hub/lang/token"
	"github.com/zinput/hub/lang/types"
)

// Ident is a name together with the span it was spelled at.
type Ident struct {
	Name string
	Span token.Span
}

// Module is a whole compiled program: one output device ("device out;")
// and one input block per referenced input device.
type Module struct {
	Output Ident
	Inputs []DeviceIn
}

// DeviceIn is one `<name> { ... }` block, run once per dispatch for its
// named input device.
type DeviceIn struct {
	Device Ident
	Body   Block
	Span   token.Span
}

// Block is an ordered list of statements.
type Block struct {
	Stmts []Stmt
	Span  token.Span
}

// Stmt is one statement; its concrete shape lives in Kind.
type Stmt struct {
	Kind StmtKind
	Span token.Span
}

// StmtKind is implemented by LetStmt, AssignStmt, IfStmt and ExprStmt.
type StmtKind interface{ stmtKind() }

type LetStmt struct {
	Name Ident
	Expr *Expr
}

type AssignStmt struct {
	LVal *Expr
	Kind AssignKind
	Expr *Expr
}

type IfStmt struct {
	Cond *Expr
	Yes  Block
	No   *Block // nil when there is no else branch
}

type ExprStmt struct {
	Expr *Expr
}

func (LetStmt) stmtKind()    {}
func (AssignStmt) stmtKind() {}
func (IfStmt) stmtKind()     {}
func (ExprStmt) stmtKind()   {}

// AssignKind is the operator an assignment statement desugars through
// (spec §4.7 "compound assignment"); Normal is a plain `=`.
type AssignKind int

const (
	AssignNormal AssignKind = iota
	AssignBitOr
	AssignBitAnd
	AssignXor
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
)

func (k AssignKind) String() string {
	switch k {
	case AssignNormal:
		return "="
	case AssignBitOr:
		return "|="
	case AssignBitAnd:
		return "&="
	case AssignXor:
		return "^="
	case AssignAdd:
		return "+="
	case AssignSub:
		return "-="
	case AssignMul:
		return "*="
	case AssignDiv:
		return "/="
	default:
		return "?="
	}
}

// BinOpFor reports the binary operator a compound assignment desugars
// to (e.g. AssignAdd -> BinAdd for `x += y` == `x = x + y`). Normal has
// no corresponding binary op and returns ok=false.
func (k AssignKind) BinOpFor() (BinOp, bool) {
	switch k {
	case AssignBitOr:
		return BinBitOr, true
	case AssignBitAnd:
		return BinBitAnd, true
	case AssignXor:
		return BinBitXor, true
	case AssignAdd:
		return BinAdd, true
	case AssignSub:
		return BinSub, true
	case AssignMul:
		return BinMul, true
	case AssignDiv:
		return BinDiv, true
	default:
		return 0, false
	}
}

// Expr is one expression node. Ty is nil until lang/check annotates it.
type Expr struct {
	Kind ExprKind
	Span token.Span
	Ty   types.Type
}

// ExprKind is implemented by LiteralExpr, VarExpr, DotExpr, IndexExpr,
// UnaryExpr and BinaryExpr.
type ExprKind interface{ exprKind() }

type LiteralExpr struct{ Value Literal }
type VarExpr struct{ Name Ident }
type DotExpr struct {
	Left  *Expr
	Field Ident
}
type IndexExpr struct {
	Left  *Expr
	Index *Expr
}
type UnaryExpr struct {
	Op   UnOp
	Expr *Expr
}
type BinaryExpr struct {
	Left  *Expr
	Op    BinOp
	Right *Expr
}

func (LiteralExpr) exprKind() {}
func (VarExpr) exprKind()     {}
func (DotExpr) exprKind()     {}
func (IndexExpr) exprKind()   {}
func (UnaryExpr) exprKind()   {}
func (BinaryExpr) exprKind()  {}

// Literal is a constant value as written in source, before the checker
// resolves its final type (an int literal with IntWidth 0 gets the
// smallest unsigned width that holds its value; the surrounding
// expression is not consulted).
type Literal struct {
	Kind       LiteralKind
	IntValue   uint64
	IntWidth   uint8 // 0 when unsuffixed: lang/check picks the width from IntValue
	IntSigned  bool
	FloatValue float64
	BoolValue  bool
}

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
)

// UnOp is a prefix unary operator.
type UnOp int

const (
	UnNegate UnOp = iota
	UnNot
)

func (op UnOp) String() string {
	if op == UnNot {
		return "!"
	}
	return "-"
}

// BinOp is an infix binary operator.
type BinOp int

const (
	BinBitOr BinOp = iota
	BinBitAnd
	BinBitXor
	BinOr
	BinAnd
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinGreater
	BinGreaterEq
	BinLess
	BinLessEq
	BinEquals
	BinNotEquals
	BinShiftLeft
	BinShiftRight
)

var binOpNames = map[BinOp]string{
	BinBitOr: "|", BinBitAnd: "&", BinBitXor: "^", BinOr: "||", BinAnd: "&&",
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/",
	BinGreater: ">", BinGreaterEq: ">=", BinLess: "<", BinLessEq: "<=",
	BinEquals: "==", BinNotEquals: "!=", BinShiftLeft: "<<", BinShiftRight: ">>",
}

func (op BinOp) String() string { return binOpNames[op] }

// FromTokenKind maps a lexical operator token to its BinOp, used by the
// parser's precedence-climbing loop.
func FromTokenKind(k token.Kind) (BinOp, bool) {
	switch k {
	case token.BitOr:
		return BinBitOr, true
	case token.BitAnd:
		return BinBitAnd, true
	case token.Xor:
		return BinBitXor, true
	case token.Or:
		return BinOr, true
	case token.And:
		return BinAnd, true
	case token.Plus:
		return BinAdd, true
	case token.Minus:
		return BinSub, true
	case token.Star:
		return BinMul, true
	case token.Slash:
		return BinDiv, true
	case token.Greater:
		return BinGreater, true
	case token.GreaterEq:
		return BinGreaterEq, true
	case token.Less:
		return BinLess, true
	case token.LessEq:
		return BinLessEq, true
	case token.Equals:
		return BinEquals, true
	case token.NotEquals:
		return BinNotEquals, true
	case token.ShiftLeft:
		return BinShiftLeft, true
	case token.ShiftRight:
		return BinShiftRight, true
	default:
		return 0, false
	}
}
