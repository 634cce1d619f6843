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

package compile

import (
	"unsafe"

	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/ir"
)

// Interpreter is the reference-semantics backend: a direct dispatch
// loop over ir.Program, one instruction at a time, per spec §4.8
// ("direct execution ... the reference semantics").
type Interpreter struct {
	prog *ir.Program
}

// NewInterpreter wraps prog for execution.
func NewInterpreter(prog *ir.Program) *Interpreter { return &Interpreter{prog: prog} }

func (p *Interpreter) Run(entryIndex int, out unsafe.Pointer, ins []unsafe.Pointer) uint32 {
	if len(ins) != len(p.prog.InputNames) {
		return ir.ErrInvalidNumberOfInputs
	}
	if entryIndex < 0 || entryIndex >= len(p.prog.Entries) {
		return ir.ErrInvalidNumberOfInputs
	}

	f := &frame{out: out, ins: ins, vars: make([]Value, 0, 8)}
	code := p.prog.Entries[entryIndex].Code
	return f.run(code)
}

type frame struct {
	out   unsafe.Pointer
	ins   []unsafe.Pointer
	stack []Value
	vars  []Value
}

func (f *frame) push(v Value) { f.stack = append(f.stack, v) }
func (f *frame) pop() Value {
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

func (f *frame) setVar(slot int, v Value) {
	for len(f.vars) <= slot {
		f.vars = append(f.vars, Value{})
	}
	f.vars[slot] = v
}

// run executes code linearly, honoring Jump/JumpIfFalse relative
// offsets, and returns the first fault's error code or OK.
func (f *frame) run(code []ir.Instr) uint32 {
	pc := 0
	for pc < len(code) {
		instr := code[pc]
		pc++

		switch in := instr.(type) {
		case ir.PushInt:
			f.push(IntValue(Normalize(in.Bits, in.Width, in.Signed)))
		case ir.PushFloat:
			v := in.Value
			if in.Width == 32 {
				v = F32Truncate(v)
			}
			f.push(FloatValue(v))
		case ir.PushBool:
			f.push(BoolValue(in.Value))
		case ir.LoadVar:
			f.push(f.vars[in.Slot])
		case ir.StoreVar:
			f.setVar(in.Slot, f.pop())
		case ir.Pop:
			f.pop()

		case ir.AddrOut:
			f.push(AddrValue(f.out))
		case ir.AddrIn:
			f.push(AddrValue(f.ins[in.Index]))
		case ir.AddrField:
			a := f.pop()
			f.push(AddrValue(AddPtr(a.Addr, in.Offset)))

		case ir.LoadInt:
			a := f.pop()
			f.push(IntValue(LoadIntFromAddr(a.Addr, in.Width, in.Signed)))
		case ir.StoreInt:
			a := f.pop()
			v := f.pop()
			StoreIntToAddr(a.Addr, in.Width, v.U)

		case ir.LoadBitfieldBit:
			a := f.pop()
			word := LoadIntFromAddr(a.Addr, in.Width, false)
			f.push(BoolValue((word>>in.Bit)&1 == 1))
		case ir.StoreBitfieldBit:
			a := f.pop()
			v := f.pop()
			word := LoadIntFromAddr(a.Addr, in.Width, false)
			word = WriteBit(word, in.Bit, v.Bool())
			StoreIntToAddr(a.Addr, in.Width, word)

		case ir.LoadBitfieldBitDyn:
			idx := f.pop()
			a := f.pop()
			word := LoadIntFromAddr(a.Addr, in.Width, false)
			f.push(BoolValue((word>>uint8(idx.U))&1 == 1))
		case ir.StoreBitfieldBitDyn:
			idx := f.pop()
			a := f.pop()
			v := f.pop()
			word := LoadIntFromAddr(a.Addr, in.Width, false)
			word = WriteBit(word, uint8(idx.U), v.Bool())
			StoreIntToAddr(a.Addr, in.Width, word)

		case ir.LoadSliceLen:
			a := f.pop()
			lenAddr := AddPtr(a.Addr, in.LenFieldOffset)
			f.push(IntValue(uint64(*(*uint32)(lenAddr))))

		case ir.AddrSliceElem:
			idx := f.pop()
			a := f.pop()
			lenAddr := AddPtr(a.Addr, in.LenFieldOffset)
			l := *(*uint32)(lenAddr)
			if uint32(idx.U) >= l {
				return ir.ErrIndexOutOfBounds
			}
			ptrAddr := AddPtr(a.Addr, in.PtrFieldOffset)
			base := *(*unsafe.Pointer)(ptrAddr)
			f.push(AddrValue(AddPtr(base, int32(idx.U)*in.ElemSize)))

		case ir.Neg:
			a := f.pop()
			if in.Float {
				v := -a.F
				if in.Width == 32 {
					v = F32Truncate(v)
				}
				f.push(FloatValue(v))
			} else {
				f.push(IntValue(Normalize(-a.U, in.Width, in.Signed)))
			}
		case ir.Not:
			a := f.pop()
			if in.ValueIsBool {
				f.push(BoolValue(!a.Bool()))
			} else {
				f.push(IntValue(^a.U))
			}

		case ir.BinArith:
			b := f.pop()
			a := f.pop()
			f.push(Arith(in, a, b))
		case ir.BinBit:
			b := f.pop()
			a := f.pop()
			f.push(BitOp(in, a, b))
		case ir.BinLogic:
			b := f.pop()
			a := f.pop()
			f.push(LogicOp(in.Op, a, b))
		case ir.BinCmpNum:
			b := f.pop()
			a := f.pop()
			f.push(CmpOp(in, a, b))
		case ir.BinEq:
			b := f.pop()
			a := f.pop()
			f.push(EqOp(in, a, b))
		case ir.BinShift:
			b := f.pop()
			a := f.pop()
			f.push(ShiftOp(in, a, b))

		case ir.JumpIfFalse:
			v := f.pop()
			if !v.Bool() {
				pc += in.N
			}
		case ir.Jump:
			pc += in.N
		}
	}
	return ir.OK
}

func WriteBit(word uint64, bit uint8, set bool) uint64 {
	mask := uint64(1) << bit
	if set {
		return word | mask
	}
	return word &^ mask
}

func Arith(in ir.BinArith, a, b Value) Value {
	if in.Float {
		var r float64
		switch in.Op {
		case ast.BinAdd:
			r = a.F + b.F
		case ast.BinSub:
			r = a.F - b.F
		case ast.BinMul:
			r = a.F * b.F
		case ast.BinDiv:
			r = a.F / b.F
		}
		if in.Width == 32 {
			r = F32Truncate(r)
		}
		return FloatValue(r)
	}

	var raw uint64
	switch in.Op {
	case ast.BinAdd:
		raw = a.U + b.U
	case ast.BinSub:
		raw = a.U - b.U
	case ast.BinMul:
		raw = a.U * b.U
	case ast.BinDiv:
		if in.Signed {
			raw = uint64(int64(a.U) / int64(b.U))
		} else {
			raw = a.U / b.U
		}
	}
	return IntValue(Normalize(raw, in.Width, in.Signed))
}

func BitOp(in ir.BinBit, a, b Value) Value {
	var raw uint64
	switch in.Op {
	case ast.BinBitOr:
		raw = a.U | b.U
	case ast.BinBitAnd:
		raw = a.U & b.U
	case ast.BinBitXor:
		raw = a.U ^ b.U
	}
	return IntValue(Normalize(raw, in.Width, false))
}

func LogicOp(op ast.BinOp, a, b Value) Value {
	if op == ast.BinOr {
		return BoolValue(a.Bool() || b.Bool())
	}
	return BoolValue(a.Bool() && b.Bool())
}

func CmpOp(in ir.BinCmpNum, a, b Value) Value {
	if in.Float {
		switch in.Op {
		case ast.BinGreater:
			return BoolValue(a.F > b.F)
		case ast.BinGreaterEq:
			return BoolValue(a.F >= b.F)
		case ast.BinLess:
			return BoolValue(a.F < b.F)
		default:
			return BoolValue(a.F <= b.F)
		}
	}
	if in.Signed {
		ai, bi := int64(a.U), int64(b.U)
		switch in.Op {
		case ast.BinGreater:
			return BoolValue(ai > bi)
		case ast.BinGreaterEq:
			return BoolValue(ai >= bi)
		case ast.BinLess:
			return BoolValue(ai < bi)
		default:
			return BoolValue(ai <= bi)
		}
	}
	switch in.Op {
	case ast.BinGreater:
		return BoolValue(a.U > b.U)
	case ast.BinGreaterEq:
		return BoolValue(a.U >= b.U)
	case ast.BinLess:
		return BoolValue(a.U < b.U)
	default:
		return BoolValue(a.U <= b.U)
	}
}

func EqOp(in ir.BinEq, a, b Value) Value {
	var eq bool
	if in.Float {
		eq = a.F == b.F
	} else {
		eq = a.U == b.U
	}
	if in.Op == ast.BinNotEquals {
		return BoolValue(!eq)
	}
	return BoolValue(eq)
}

func ShiftOp(in ir.BinShift, a, b Value) Value {
	n := uint(b.U)
	var raw uint64
	switch {
	case in.Op == ast.BinShiftLeft:
		raw = a.U << n
	case in.Signed:
		raw = uint64(int64(a.U) >> n)
	default:
		raw = ZeroExtend(a.U, in.Width) >> n
	}
	return IntValue(Normalize(raw, in.Width, in.Signed))
}
