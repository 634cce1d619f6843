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

// Package compile lowers a checked ast.Module to lang/ir and hosts the
// two execution backends that run it (the Interpreter in this package,
// and lang/compile/native), per spec §4.8.
package compile

import (
	"unsafe"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/ir"
	"github.com/zinput/hub/lang/types"
)

// Slice header field offsets, shared by every lowering of a slice
// access. Computed once against the real Go struct so the IR never
// needs to know AnalogsSlice's layout beyond these two numbers.
var (
	sliceHeaderPtrOffset = int32(unsafe.Offsetof(device.AnalogsSlice{}.Ptr))
	sliceHeaderLenOffset = int32(unsafe.Offsetof(device.AnalogsSlice{}.Len))
)

// Lower compiles a type-checked module into a Program. roots maps every
// identifier bound in the module's globals (the output device's name
// and each input block's device name) to its host struct type.
func Lower(mod *ast.Module, outputName string, roots map[string]types.Struct) (*ir.Program, error) {
	inputNames := make([]string, 0, len(mod.Inputs))
	for _, in := range mod.Inputs {
		inputNames = append(inputNames, in.Device.Name)
	}

	prog := &ir.Program{OutputName: outputName, InputNames: inputNames}

	for _, in := range mod.Inputs {
		l := &lowerer{
			roots:     roots,
			output:    outputName,
			inputIdx:  indexOf(inputNames, in.Device.Name),
			inputName: in.Device.Name,
			inputPos:  indexMap(inputNames),
			vars:      map[string]varSlot{},
		}
		code := l.block(in.Body)
		prog.Entries = append(prog.Entries, ir.Entry{Device: in.Device.Name, Code: code})
	}

	return prog, nil
}

func indexOf(ss []string, s string) int {
	for i, x := range ss {
		if x == s {
			return i
		}
	}
	return -1
}

func indexMap(ss []string) map[string]int {
	m := make(map[string]int, len(ss))
	for i, s := range ss {
		m[s] = i
	}
	return m
}

type varSlot struct {
	slot int
}

type lowerer struct {
	roots     map[string]types.Struct
	output    string
	inputIdx  int
	inputName string
	inputPos  map[string]int

	vars     map[string]varSlot
	nextSlot int
}

func (l *lowerer) block(b ast.Block) []ir.Instr {
	var code []ir.Instr
	for _, stmt := range b.Stmts {
		code = append(code, l.stmt(stmt)...)
	}
	return code
}

func (l *lowerer) stmt(s ast.Stmt) []ir.Instr {
	switch k := s.Kind.(type) {
	case ast.LetStmt:
		slot := l.nextSlot
		l.nextSlot++
		l.vars[k.Name.Name] = varSlot{slot: slot}
		code := l.expr(k.Expr)
		return append(code, ir.StoreVar{Slot: slot})

	case ast.AssignStmt:
		return l.assign(k.LVal, k.Expr)

	case ast.IfStmt:
		cond := l.expr(k.Cond)
		yes := l.block(k.Yes)
		var no []ir.Instr
		if k.No != nil {
			no = l.block(*k.No)
		}
		code := append([]ir.Instr{}, cond...)
		code = append(code, ir.JumpIfFalse{N: len(yes) + 1})
		code = append(code, yes...)
		code = append(code, ir.Jump{N: len(no)})
		code = append(code, no...)
		return code

	case ast.ExprStmt:
		code := l.expr(k.Expr)
		return append(code, ir.Pop{})
	}
	return nil
}

// assign lowers `lval = rhs`, dispatching on the lvalue's shape per
// spec §4.8's three assignment lowering rules (struct field, bitfield
// bit, slice index).
func (l *lowerer) assign(lval, rhs *ast.Expr) []ir.Instr {
	switch k := lval.Kind.(type) {
	case ast.DotExpr:
		base := types.Dereference(l.typeOf(k.Left))
		if bf, ok := base.(types.Bitfield); ok {
			addr := l.exprAddr(k.Left)
			val := l.expr(rhs)
			code := append([]ir.Instr{}, val...)
			code = append(code, addr...)
			code = append(code, ir.StoreBitfieldBit{Width: uint8(bf.Width), Bit: bf.Bits[k.Field.Name]})
			return code
		}
		st := base.(types.Struct)
		field := st.Fields[k.Field.Name]
		addr := l.exprAddr(k.Left)
		addr = append(addr, ir.AddrField{Offset: field.ByteOffset})
		val := l.expr(rhs)
		code := append([]ir.Instr{}, val...)
		code = append(code, addr...)
		return append(code, ir.StoreInt{Width: widthOf(field.Type)})

	case ast.IndexExpr:
		base := types.Dereference(l.typeOf(k.Left))
		switch bt := base.(type) {
		case types.Slice:
			addr := l.exprAddr(k.Left)
			idx := l.expr(k.Index)
			val := l.expr(rhs)
			code := append([]ir.Instr{}, val...)
			code = append(code, addr...)
			code = append(code, idx...)
			code = append(code, ir.AddrSliceElem{
				PtrFieldOffset: sliceHeaderPtrOffset,
				LenFieldOffset: sliceHeaderLenOffset,
				ElemSize:       int32(widthOf(bt.Elem) / 8),
			})
			return append(code, ir.StoreInt{Width: widthOf(bt.Elem)})
		default:
			// Index into an Int/Bitfield selects a bit (spec §4.7).
			val := l.expr(rhs)
			addr := l.exprAddr(k.Left)
			idx := l.expr(k.Index)
			code := append([]ir.Instr{}, val...)
			code = append(code, addr...)
			code = append(code, idx...)
			return append(code, ir.StoreBitfieldBitDyn{Width: widthOf(base)})
		}
	}
	return nil
}

func widthOf(t types.Type) uint8 {
	switch v := t.(type) {
	case types.Int:
		return uint8(v.Width)
	case types.Bitfield:
		return uint8(v.Width)
	case types.F32:
		return 32
	case types.F64:
		return 64
	case types.Bool:
		return 8
	default:
		return 8
	}
}

// typeOf returns the dereferenced static type of a checked expression
// (lang/check's Check annotates every node's Ty already).
func (l *lowerer) typeOf(e *ast.Expr) types.Type { return e.Ty }

// exprAddr lowers an lvalue-position expression to code that leaves an
// address on the stack (the Reference chain: a bare variable names a
// root device, a Dot/Index descends through it).
func (l *lowerer) exprAddr(e *ast.Expr) []ir.Instr {
	switch k := e.Kind.(type) {
	case ast.VarExpr:
		if slot, ok := l.vars[k.Name.Name]; ok {
			// A local holding an address (only struct/bitfield-typed
			// lets are addressed further; scalars are loaded by value
			// and never reach exprAddr).
			return []ir.Instr{ir.LoadVar{Slot: slot.slot}}
		}
		if k.Name.Name == l.output {
			return []ir.Instr{ir.AddrOut{}}
		}
		return []ir.Instr{ir.AddrIn{Index: l.inputPos[k.Name.Name]}}

	case ast.DotExpr:
		base := types.Dereference(l.typeOf(k.Left))
		st, ok := base.(types.Struct)
		if !ok {
			// Dot on a bitfield in address position only happens as
			// the target's own lvalue root; callers needing the
			// bitfield's *word* address use exprAddr(k.Left) directly,
			// not this branch of Dot itself.
			return l.exprAddr(k.Left)
		}
		field := st.Fields[k.Field.Name]
		addr := l.exprAddr(k.Left)
		return append(addr, ir.AddrField{Offset: field.ByteOffset})

	case ast.IndexExpr:
		base := types.Dereference(l.typeOf(k.Left))
		if sl, ok := base.(types.Slice); ok {
			addr := l.exprAddr(k.Left)
			idx := l.expr(k.Index)
			code := append([]ir.Instr{}, addr...)
			code = append(code, idx...)
			return append(code, ir.AddrSliceElem{
				PtrFieldOffset: sliceHeaderPtrOffset,
				LenFieldOffset: sliceHeaderLenOffset,
				ElemSize:       int32(widthOf(sl.Elem) / 8),
			})
		}
		return l.exprAddr(k.Left)
	}
	return nil
}

// expr lowers a value-position (rvalue) expression: the result is a
// value on the stack, not an address.
func (l *lowerer) expr(e *ast.Expr) []ir.Instr {
	switch k := e.Kind.(type) {
	case ast.LiteralExpr:
		return l.literal(k.Value, e.Ty)

	case ast.VarExpr:
		if slot, ok := l.vars[k.Name.Name]; ok {
			if isAddressedType(e.Ty) {
				return []ir.Instr{ir.LoadVar{Slot: slot.slot}}
			}
			return []ir.Instr{ir.LoadVar{Slot: slot.slot}}
		}
		addr := l.exprAddr(e)
		return append(addr, ir.LoadInt{Width: widthOf(e.Ty), Signed: isSigned(e.Ty)})

	case ast.DotExpr:
		base := types.Dereference(l.typeOf(k.Left))
		switch bt := base.(type) {
		case types.Slice:
			addr := l.exprAddr(k.Left)
			return append(addr, ir.LoadSliceLen{PtrFieldOffset: sliceHeaderPtrOffset, LenFieldOffset: sliceHeaderLenOffset})
		case types.Bitfield:
			addr := l.exprAddr(k.Left)
			return append(addr, ir.LoadBitfieldBit{Width: uint8(bt.Width), Bit: bt.Bits[k.Field.Name]})
		default:
			addr := l.exprAddr(e)
			return append(addr, ir.LoadInt{Width: widthOf(e.Ty), Signed: isSigned(e.Ty)})
		}

	case ast.IndexExpr:
		base := types.Dereference(l.typeOf(k.Left))
		switch base.(type) {
		case types.Int, types.Bitfield:
			addr := l.exprAddr(k.Left)
			idx := l.expr(k.Index)
			code := append([]ir.Instr{}, addr...)
			code = append(code, idx...)
			return append(code, ir.LoadBitfieldBitDyn{Width: widthOf(base)})
		default:
			addr := l.exprAddr(e)
			return append(addr, ir.LoadInt{Width: widthOf(e.Ty), Signed: isSigned(e.Ty)})
		}

	case ast.UnaryExpr:
		inner := l.expr(k.Expr)
		if k.Op == ast.UnNot {
			_, isBool := types.Dereference(k.Expr.Ty).(types.Bool)
			return append(inner, ir.Not{ValueIsBool: isBool})
		}
		_, isFloat := e.Ty.(types.F32)
		if !isFloat {
			_, isFloat = e.Ty.(types.F64)
		}
		return append(inner, ir.Neg{Width: widthOf(e.Ty), Float: isFloat, Signed: isSigned(e.Ty)})

	case ast.BinaryExpr:
		left := l.expr(k.Left)
		right := l.expr(k.Right)
		code := append([]ir.Instr{}, left...)
		code = append(code, right...)
		return append(code, l.binOp(k.Op, types.Dereference(k.Left.Ty)))
	}
	return nil
}

func isAddressedType(t types.Type) bool {
	switch t.(type) {
	case types.Struct:
		return true
	default:
		return false
	}
}

func isSigned(t types.Type) bool {
	i, ok := t.(types.Int)
	return ok && i.Signed
}

func (l *lowerer) literal(lit ast.Literal, ty types.Type) []ir.Instr {
	switch lit.Kind {
	case ast.LitInt:
		i := ty.(types.Int)
		return []ir.Instr{ir.PushInt{Width: uint8(i.Width), Signed: i.Signed, Bits: lit.IntValue}}
	case ast.LitFloat:
		w := uint8(64)
		if _, ok := ty.(types.F32); ok {
			w = 32
		}
		return []ir.Instr{ir.PushFloat{Width: w, Value: lit.FloatValue}}
	case ast.LitBool:
		return []ir.Instr{ir.PushBool{Value: lit.BoolValue}}
	}
	return nil
}

func (l *lowerer) binOp(op ast.BinOp, operandTy types.Type) ir.Instr {
	switch op {
	case ast.BinBitOr, ast.BinBitAnd, ast.BinBitXor:
		return ir.BinBit{Op: op, Width: widthOf(operandTy)}
	case ast.BinOr, ast.BinAnd:
		return ir.BinLogic{Op: op}
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
		_, f32 := operandTy.(types.F32)
		_, f64 := operandTy.(types.F64)
		return ir.BinArith{Op: op, Width: widthOf(operandTy), Signed: isSigned(operandTy), Float: f32 || f64}
	case ast.BinGreater, ast.BinGreaterEq, ast.BinLess, ast.BinLessEq:
		_, f32 := operandTy.(types.F32)
		_, f64 := operandTy.(types.F64)
		return ir.BinCmpNum{Op: op, Width: widthOf(operandTy), Signed: isSigned(operandTy), Float: f32 || f64}
	case ast.BinEquals, ast.BinNotEquals:
		_, f32 := operandTy.(types.F32)
		_, f64 := operandTy.(types.F64)
		return ir.BinEq{Op: op, Float: f32 || f64}
	case ast.BinShiftLeft, ast.BinShiftRight:
		return ir.BinShift{Op: op, Width: widthOf(operandTy), Signed: isSigned(operandTy)}
	}
	return ir.Pop{}
}
