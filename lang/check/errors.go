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

package check

import (
	"fmt"

	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/token"
	"github.com/zinput/hub/lang/types"
)

type NotLValError struct{ Span token.Span }

func (e *NotLValError) Error() string {
	return fmt.Sprintf("line %d: expression is not assignable", e.Span.Line)
}

func (e *NotLValError) DiagSpan() token.Span { return e.Span }

type NotAssignableError struct {
	LeftSpan, RightSpan token.Span
	LeftType, RightType types.Type
}

func (e *NotAssignableError) Error() string {
	return fmt.Sprintf("line %d: cannot assign %s to %s", e.RightSpan.Line, e.RightType, e.LeftType)
}

func (e *NotAssignableError) DiagSpan() token.Span { return e.RightSpan }

type TypeMismatchError struct {
	Expected, Got types.Type
	Span          token.Span
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("line %d: expected %s, got %s", e.Span.Line, e.Expected, e.Got)
}

func (e *TypeMismatchError) DiagSpan() token.Span { return e.Span }

type InvalidVariableError struct{ Span token.Span }

func (e *InvalidVariableError) Error() string {
	return fmt.Sprintf("line %d: undefined variable", e.Span.Line)
}

func (e *InvalidVariableError) DiagSpan() token.Span { return e.Span }

type InvalidFieldError struct {
	Type  types.Type
	Field token.Span
	Name  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("line %d: type %s has no field %q", e.Field.Line, e.Type, e.Name)
}

func (e *InvalidFieldError) DiagSpan() token.Span { return e.Field }

type NotIndexableError struct {
	Type types.Type
	Span token.Span
}

func (e *NotIndexableError) Error() string {
	return fmt.Sprintf("line %d: type %s cannot be indexed", e.Span.Line, e.Type)
}

func (e *NotIndexableError) DiagSpan() token.Span { return e.Span }

type NotAnIndexError struct {
	Type types.Type
	Span token.Span
}

func (e *NotAnIndexError) Error() string {
	return fmt.Sprintf("line %d: type %s cannot be used as an index", e.Span.Line, e.Type)
}

func (e *NotAnIndexError) DiagSpan() token.Span { return e.Span }

type InvalidUnOpError struct {
	Op   ast.UnOp
	Type types.Type
	Span token.Span
}

func (e *InvalidUnOpError) Error() string {
	return fmt.Sprintf("line %d: operator %s not valid on %s", e.Span.Line, e.Op, e.Type)
}

func (e *InvalidUnOpError) DiagSpan() token.Span { return e.Span }

type InvalidBinOpError struct {
	Left, Right types.Type
	Op          ast.BinOp
	Span        token.Span
}

func (e *InvalidBinOpError) Error() string {
	return fmt.Sprintf("line %d: operator %s not valid between %s and %s", e.Span.Line, e.Op, e.Left, e.Right)
}

func (e *InvalidBinOpError) DiagSpan() token.Span { return e.Span }

type DeviceAlreadyExistsError struct {
	OldSpan, NewSpan token.Span
	Name             string
}

func (e *DeviceAlreadyExistsError) Error() string {
	return fmt.Sprintf("line %d: input device %q already declared at line %d", e.NewSpan.Line, e.Name, e.OldSpan.Line)
}

func (e *DeviceAlreadyExistsError) DiagSpan() token.Span { return e.NewSpan }
