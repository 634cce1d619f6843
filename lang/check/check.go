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

// Package check is the virtual-device language's type checker (spec
// §4.7), grounded on original_source/bindlang/src/typecheck.rs. It
// annotates every ast.Expr with a resolved types.Type and enforces
// l-value discipline, assignability, and the bitfield/slice/struct
// access rules.
//
// Unlike the original, the root bindings ("out" and each input block's
// device name) are not globals baked into the language: the caller
// supplies them per call via the globals map, built from
// lang/hostschema against whatever devices are actually wired into a
// virtual device (see SPEC_FULL.md §5).
package check

import (
	"github.com/zinput/hub/errors"
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/types"
)

type env struct {
	scopes []map[string]types.Type
}

func newEnv() *env { return &env{scopes: []map[string]types.Type{{}}} }

func (e *env) push() { e.scopes = append(e.scopes, map[string]types.Type{}) }
func (e *env) pop()  { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *env) get(name string) (types.Type, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (e *env) insert(name string, t types.Type) {
	e.scopes[len(e.scopes)-1][name] = t
}

// Checker performs one module's worth of type checking.
type Checker struct {
	env  *env
	errs *errors.MultiError
}

// New creates a Checker seeded with the given root bindings (spec §5's
// per-virtual-device input/output schema).
func New(globals map[string]types.Type) *Checker {
	c := &Checker{env: newEnv(), errs: errors.NewMultiError("typecheck")}
	for name, t := range globals {
		c.env.insert(name, t)
	}
	return c
}

// Check type-checks mod in place (annotating every ast.Expr.Ty) and
// returns the accumulated errors, if any.
func Check(mod *ast.Module, globals map[string]types.Type) error {
	c := New(globals)
	return c.Check(mod)
}

func (c *Checker) Check(mod *ast.Module) error {
	seen := map[string]ast.Ident{}
	for i := range mod.Inputs {
		in := &mod.Inputs[i]
		if old, ok := seen[in.Device.Name]; ok {
			c.errs.Add(&DeviceAlreadyExistsError{OldSpan: old.Span, NewSpan: in.Device.Span, Name: in.Device.Name})
		} else {
			seen[in.Device.Name] = in.Device
		}
		c.checkBlock(&in.Body)
	}
	return c.errs.Err()
}

func (c *Checker) checkBlock(b *ast.Block) {
	c.env.push()
	defer c.env.pop()

	for i := range b.Stmts {
		if err := c.checkStmt(&b.Stmts[i]); err != nil {
			c.errs.Add(err)
			break
		}
	}
}

// desugarCompoundAssign rewrites `lval OP= rhs` into `lval = lval OP
// rhs` ahead of checking, per spec §4.7.
func desugarCompoundAssign(s *ast.Stmt) {
	as, ok := s.Kind.(ast.AssignStmt)
	if !ok || as.Kind == ast.AssignNormal {
		return
	}
	binOp, ok := as.Kind.BinOpFor()
	if !ok {
		return
	}
	s.Kind = ast.AssignStmt{
		LVal: as.LVal,
		Kind: ast.AssignNormal,
		Expr: &ast.Expr{
			Kind: ast.BinaryExpr{Left: as.LVal, Op: binOp, Right: as.Expr},
			Span: as.Expr.Span,
		},
	}
}

func (c *Checker) checkStmt(s *ast.Stmt) error {
	desugarCompoundAssign(s)

	switch k := s.Kind.(type) {
	case ast.LetStmt:
		ty, err := c.checkExpr(k.Expr)
		if err != nil {
			return err
		}
		c.env.insert(k.Name.Name, types.Dereference(ty))
		return nil

	case ast.AssignStmt:
		lty, err := c.checkExpr(k.LVal)
		if err != nil {
			c.errs.Add(err)
			return nil
		}
		ref, ok := lty.(types.Reference)
		if !ok {
			c.errs.Add(&NotLValError{Span: k.LVal.Span})
			return nil
		}

		rtyRaw, err := c.checkExpr(k.Expr)
		if err != nil {
			c.errs.Add(err)
			return nil
		}
		rty := types.Dereference(rtyRaw)

		if !ref.Elem.AssignableFrom(rty) {
			c.errs.Add(&NotAssignableError{LeftSpan: k.LVal.Span, LeftType: ref.Elem, RightSpan: k.Expr.Span, RightType: rty})
		}
		return nil

	case ast.IfStmt:
		condTy, err := c.checkExpr(k.Cond)
		if err != nil {
			c.errs.Add(err)
			condTy = types.Bool{}
		}
		condTy = types.Dereference(condTy)
		if _, ok := condTy.(types.Bool); !ok {
			c.errs.Add(&TypeMismatchError{Expected: types.Bool{}, Got: condTy, Span: k.Cond.Span})
		}
		c.checkBlock(&k.Yes)
		if k.No != nil {
			c.checkBlock(k.No)
		}
		return nil

	case ast.ExprStmt:
		_, err := c.checkExpr(k.Expr)
		if err != nil {
			c.errs.Add(err)
		}
		return nil
	}
	return nil
}

func widthOf(t types.Type) (types.Width, bool) {
	switch v := t.(type) {
	case types.Int:
		return v.Width, true
	case types.Bitfield:
		return v.Width, true
	case types.Bool:
		return types.W8, true
	case types.F32:
		return types.W32, true
	case types.F64:
		return types.W64, true
	default:
		return 0, false
	}
}

func isUnsignedInt(t types.Type) bool {
	i, ok := t.(types.Int)
	return ok && !i.Signed
}

func (c *Checker) checkExpr(e *ast.Expr) (ty types.Type, err error) {
	defer func() {
		if err == nil {
			e.Ty = types.Dereference(ty)
		}
	}()

	switch k := e.Kind.(type) {
	case ast.LiteralExpr:
		return literalType(k.Value), nil

	case ast.VarExpr:
		t, ok := c.env.get(k.Name.Name)
		if !ok {
			return nil, &InvalidVariableError{Span: k.Name.Span}
		}
		return types.Reference{Elem: t}, nil

	case ast.DotExpr:
		leftTy, err := c.checkExpr(k.Left)
		if err != nil {
			return nil, err
		}
		_, isRef := leftTy.(types.Reference)
		base := types.Dereference(leftTy)

		switch bt := base.(type) {
		case types.Slice:
			if k.Field.Name == "len" {
				return types.Int{Width: types.W32, Signed: false}, nil
			}
			return nil, &InvalidFieldError{Type: base, Field: k.Field.Span, Name: k.Field.Name}

		case types.Bitfield:
			if _, ok := bt.Bits[k.Field.Name]; !ok {
				return nil, &InvalidFieldError{Type: base, Field: k.Field.Span, Name: k.Field.Name}
			}
			if isRef {
				return types.Reference{Elem: types.Bool{}}, nil
			}
			return types.Bool{}, nil

		case types.Struct:
			f, ok := bt.Fields[k.Field.Name]
			if !ok {
				return nil, &InvalidFieldError{Type: base, Field: k.Field.Span, Name: k.Field.Name}
			}
			return types.Reference{Elem: f.Type}, nil

		default:
			return nil, &InvalidFieldError{Type: base, Field: k.Field.Span, Name: k.Field.Name}
		}

	case ast.IndexExpr:
		leftTy, err := c.checkExpr(k.Left)
		if err != nil {
			return nil, err
		}
		_, isRef := leftTy.(types.Reference)
		base := types.Dereference(leftTy)

		idxTy, err := c.checkExpr(k.Index)
		if err != nil {
			return nil, err
		}
		idxTy = types.Dereference(idxTy)
		if !isUnsignedInt(idxTy) {
			return nil, &NotAnIndexError{Type: idxTy, Span: k.Index.Span}
		}

		switch base.(type) {
		case types.Int, types.Bitfield:
			if isRef {
				return types.Reference{Elem: types.Bool{}}, nil
			}
			return types.Bool{}, nil
		case types.Slice:
			return types.Reference{Elem: base.(types.Slice).Elem}, nil
		default:
			return nil, &NotIndexableError{Type: base, Span: k.Left.Span}
		}

	case ast.UnaryExpr:
		innerTy, err := c.checkExpr(k.Expr)
		if err != nil {
			return nil, err
		}
		t := types.Dereference(innerTy)

		switch k.Op {
		case ast.UnNegate:
			switch v := t.(type) {
			case types.Int:
				if v.Signed {
					return t, nil
				}
			case types.F32, types.F64:
				return t, nil
			}
			return nil, &InvalidUnOpError{Op: k.Op, Type: t, Span: k.Expr.Span}
		case ast.UnNot:
			switch t.(type) {
			case types.Bool, types.Int, types.Bitfield:
				return t, nil
			}
			return nil, &InvalidUnOpError{Op: k.Op, Type: t, Span: k.Expr.Span}
		}
		return nil, &InvalidUnOpError{Op: k.Op, Type: t, Span: k.Expr.Span}

	case ast.BinaryExpr:
		lRaw, err := c.checkExpr(k.Left)
		if err != nil {
			return nil, err
		}
		rRaw, err := c.checkExpr(k.Right)
		if err != nil {
			return nil, err
		}
		lty := types.Dereference(lRaw)
		rty := types.Dereference(rRaw)

		switch k.Op {
		case ast.BinBitOr, ast.BinBitAnd, ast.BinBitXor:
			lw, lok := widthOf(lty)
			rw, rok := widthOf(rty)
			if lok && rok && lw == rw {
				return types.Int{Width: lw, Signed: false}, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}

		case ast.BinOr, ast.BinAnd:
			_, lb := lty.(types.Bool)
			_, rb := rty.(types.Bool)
			if lb && rb {
				return types.Bool{}, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}

		case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
			if lty.IsNum() && rty.IsNum() && lty.Equal(rty) {
				return lty, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}

		case ast.BinGreater, ast.BinGreaterEq, ast.BinLess, ast.BinLessEq:
			if lty.IsNum() && rty.IsNum() && lty.Equal(rty) {
				return types.Bool{}, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}

		case ast.BinEquals, ast.BinNotEquals:
			if _, ok := widthOf(lty); ok && lty.Equal(rty) {
				return types.Bool{}, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}

		case ast.BinShiftLeft, ast.BinShiftRight:
			_, lIsInt := lty.(types.Int)
			_, lIsBf := lty.(types.Bitfield)
			if (lIsInt || lIsBf) && isUnsignedInt(rty) {
				return lty, nil
			}
			return nil, &InvalidBinOpError{Left: lty, Op: k.Op, Right: rty, Span: e.Span}
		}
	}
	return nil, &InvalidVariableError{Span: e.Span}
}

// literalType infers an integer literal's smallest legal width and a
// float literal's narrowest representable precision (spec §4.7).
func literalType(lit ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitInt:
		if lit.IntWidth != 0 {
			return types.Int{Width: types.Width(lit.IntWidth), Signed: lit.IntSigned}
		}
		return types.Int{Width: smallestWidth(lit.IntValue), Signed: false}
	case ast.LitFloat:
		if isF32Representable(lit.FloatValue) {
			return types.F32{}
		}
		return types.F64{}
	case ast.LitBool:
		return types.Bool{}
	}
	return types.Bool{}
}

func smallestWidth(v uint64) types.Width {
	switch {
	case v <= 0xFF:
		return types.W8
	case v <= 0xFFFF:
		return types.W16
	case v <= 0xFFFFFFFF:
		return types.W32
	default:
		return types.W64
	}
}

func isF32Representable(v float64) bool {
	const f32Max = 3.4028235e38
	return v <= f32Max && v >= -f32Max
}
