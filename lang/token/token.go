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

// Package token defines the token stream produced by lang/lexer and
// consumed by lang/parser (spec §4.5–§4.6).
package token

import "fmt"

// Span is a byte range in the source text, with 1-based line/column of
// its start for error rendering.
type Span struct {
	Start, End int
	Line, Col  int
}

// Kind identifies the lexical class of a token.
type Kind int

const (
	Ident Kind = iota
	Int
	Float

	// IntType tokens carry their width/signedness via the Token's
	// IntWidth/IntSigned fields (set by the lexer from the literal
	// spelling: u8/u16/u32/u64/i8/i16/i32/i64).
	IntType

	LBrace
	RBrace
	LBrack
	RBrack
	LParen
	RParen

	DoubleColon
	Colon
	Comma
	Dot
	Semicolon
	Hash

	BitOr
	BitAnd
	Or
	And
	Xor
	Not

	Plus
	Minus
	Star
	Slash

	Greater
	GreaterEq
	Less
	LessEq
	Equals
	NotEquals

	ShiftLeft
	ShiftRight

	Assign
	BitOrAssign
	BitAndAssign
	XorAssign
	AddAssign
	SubAssign
	MulAssign
	DivAssign

	KDevice
	KElse
	KFalse
	KIf
	KLet
	KTrue

	EOF
)

var names = map[Kind]string{
	Ident: "{identifier}", Int: "{int}", Float: "{float}", IntType: "{int type}",
	LBrace: "{", RBrace: "}", LBrack: "[", RBrack: "]", LParen: "(", RParen: ")",
	DoubleColon: "::", Colon: ":", Comma: ",", Dot: ".", Semicolon: ";", Hash: "#",
	BitOr: "|", BitAnd: "&", Or: "||", And: "&&", Xor: "^", Not: "!",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Greater: ">", GreaterEq: ">=", Less: "<", LessEq: "<=", Equals: "==", NotEquals: "!=",
	ShiftLeft: "<<", ShiftRight: ">>",
	Assign: "=", BitOrAssign: "|=", BitAndAssign: "&=", XorAssign: "^=",
	AddAssign: "+=", SubAssign: "-=", MulAssign: "*=", DivAssign: "/=",
	KDevice: "device", KElse: "else", KFalse: "false", KIf: "if", KLet: "let", KTrue: "true",
	EOF: "{eof}",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// keywords maps a raw identifier spelling to its keyword Kind, for the
// subset of Kinds that have no payload (device/else/false/if/let/true).
var keywords = map[string]Kind{
	"device": KDevice,
	"else":   KElse,
	"false":  KFalse,
	"if":     KIf,
	"let":    KLet,
	"true":   KTrue,
}

// LookupIdent classifies a raw identifier spelling: a keyword Kind, or
// Ident if it is not one.
func LookupIdent(s string) Kind {
	if k, ok := keywords[s]; ok {
		return k
	}
	return Ident
}

// Token is one lexeme with its source span and kind-specific payload.
type Token struct {
	Kind Kind
	Span Span
	Text string // raw source text; identifier name, or literal spelling

	IntValue  uint64
	FloatValue float64

	// IntType payload.
	IntWidth  uint8 // 8/16/32/64
	IntSigned bool
}
