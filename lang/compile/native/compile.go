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

package native

import (
	"unsafe"

	"github.com/zinput/hub/lang/compile"
	"github.com/zinput/hub/lang/ir"
)

// compileEntry translates one Entry's flat ir.Instr list into an equal-
// length slice of closures. Every case mirrors lang/compile's
// Interpreter exactly, down to reusing its exported arithmetic helpers,
// so the two backends can only diverge in dispatch strategy, not
// semantics.
func compileEntry(code []ir.Instr) []op {
	ops := make([]op, len(code))
	for i, instr := range code {
		ops[i] = compileInstr(instr)
	}
	return ops
}

func compileInstr(instr ir.Instr) op {
	switch in := instr.(type) {
	case ir.PushInt:
		v := compile.IntValue(compile.Normalize(in.Bits, in.Width, in.Signed))
		return func(s *state) (uint32, int) {
			s.push(v)
			return 0, 1
		}
	case ir.PushFloat:
		v := in.Value
		if in.Width == 32 {
			v = compile.F32Truncate(v)
		}
		fv := compile.FloatValue(v)
		return func(s *state) (uint32, int) {
			s.push(fv)
			return 0, 1
		}
	case ir.PushBool:
		v := compile.BoolValue(in.Value)
		return func(s *state) (uint32, int) {
			s.push(v)
			return 0, 1
		}

	case ir.LoadVar:
		slot := in.Slot
		return func(s *state) (uint32, int) {
			s.push(s.vars[slot])
			return 0, 1
		}
	case ir.StoreVar:
		slot := in.Slot
		return func(s *state) (uint32, int) {
			s.setVar(slot, s.pop())
			return 0, 1
		}
	case ir.Pop:
		return func(s *state) (uint32, int) {
			s.pop()
			return 0, 1
		}

	case ir.AddrOut:
		return func(s *state) (uint32, int) {
			s.push(compile.AddrValue(s.out))
			return 0, 1
		}
	case ir.AddrIn:
		idx := in.Index
		return func(s *state) (uint32, int) {
			s.push(compile.AddrValue(s.ins[idx]))
			return 0, 1
		}
	case ir.AddrField:
		off := in.Offset
		return func(s *state) (uint32, int) {
			a := s.pop()
			s.push(compile.AddrValue(compile.AddPtr(a.Addr, off)))
			return 0, 1
		}

	case ir.LoadInt:
		width, signed := in.Width, in.Signed
		return func(s *state) (uint32, int) {
			a := s.pop()
			s.push(compile.IntValue(compile.LoadIntFromAddr(a.Addr, width, signed)))
			return 0, 1
		}
	case ir.StoreInt:
		width := in.Width
		return func(s *state) (uint32, int) {
			a := s.pop()
			v := s.pop()
			compile.StoreIntToAddr(a.Addr, width, v.U)
			return 0, 1
		}

	case ir.LoadBitfieldBit:
		width, bit := in.Width, in.Bit
		return func(s *state) (uint32, int) {
			a := s.pop()
			word := compile.LoadIntFromAddr(a.Addr, width, false)
			s.push(compile.BoolValue((word>>bit)&1 == 1))
			return 0, 1
		}
	case ir.StoreBitfieldBit:
		width, bit := in.Width, in.Bit
		return func(s *state) (uint32, int) {
			a := s.pop()
			v := s.pop()
			word := compile.LoadIntFromAddr(a.Addr, width, false)
			word = compile.WriteBit(word, bit, v.Bool())
			compile.StoreIntToAddr(a.Addr, width, word)
			return 0, 1
		}

	case ir.LoadBitfieldBitDyn:
		width := in.Width
		return func(s *state) (uint32, int) {
			idx := s.pop()
			a := s.pop()
			word := compile.LoadIntFromAddr(a.Addr, width, false)
			s.push(compile.BoolValue((word>>uint8(idx.U))&1 == 1))
			return 0, 1
		}
	case ir.StoreBitfieldBitDyn:
		width := in.Width
		return func(s *state) (uint32, int) {
			idx := s.pop()
			a := s.pop()
			v := s.pop()
			word := compile.LoadIntFromAddr(a.Addr, width, false)
			word = compile.WriteBit(word, uint8(idx.U), v.Bool())
			compile.StoreIntToAddr(a.Addr, width, word)
			return 0, 1
		}

	case ir.LoadSliceLen:
		lenOff := in.LenFieldOffset
		return func(s *state) (uint32, int) {
			a := s.pop()
			lenAddr := compile.AddPtr(a.Addr, lenOff)
			s.push(compile.IntValue(uint64(*(*uint32)(lenAddr))))
			return 0, 1
		}

	case ir.AddrSliceElem:
		lenOff, ptrOff, elemSize := in.LenFieldOffset, in.PtrFieldOffset, in.ElemSize
		return func(s *state) (uint32, int) {
			idx := s.pop()
			a := s.pop()
			lenAddr := compile.AddPtr(a.Addr, lenOff)
			l := *(*uint32)(lenAddr)
			if uint32(idx.U) >= l {
				return ir.ErrIndexOutOfBounds, 0
			}
			ptrAddr := compile.AddPtr(a.Addr, ptrOff)
			base := *(*unsafe.Pointer)(ptrAddr)
			s.push(compile.AddrValue(compile.AddPtr(base, int32(idx.U)*elemSize)))
			return 0, 1
		}

	case ir.Neg:
		width, float, signed := in.Width, in.Float, in.Signed
		return func(s *state) (uint32, int) {
			a := s.pop()
			if float {
				v := -a.F
				if width == 32 {
					v = compile.F32Truncate(v)
				}
				s.push(compile.FloatValue(v))
			} else {
				s.push(compile.IntValue(compile.Normalize(-a.U, width, signed)))
			}
			return 0, 1
		}
	case ir.Not:
		isBool := in.ValueIsBool
		return func(s *state) (uint32, int) {
			a := s.pop()
			if isBool {
				s.push(compile.BoolValue(!a.Bool()))
			} else {
				s.push(compile.IntValue(^a.U))
			}
			return 0, 1
		}

	case ir.BinArith:
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.Arith(in, a, b))
			return 0, 1
		}
	case ir.BinBit:
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.BitOp(in, a, b))
			return 0, 1
		}
	case ir.BinLogic:
		op := in.Op
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.LogicOp(op, a, b))
			return 0, 1
		}
	case ir.BinCmpNum:
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.CmpOp(in, a, b))
			return 0, 1
		}
	case ir.BinEq:
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.EqOp(in, a, b))
			return 0, 1
		}
	case ir.BinShift:
		return func(s *state) (uint32, int) {
			b := s.pop()
			a := s.pop()
			s.push(compile.ShiftOp(in, a, b))
			return 0, 1
		}

	case ir.JumpIfFalse:
		n := in.N
		return func(s *state) (uint32, int) {
			v := s.pop()
			if !v.Bool() {
				return 0, 1 + n
			}
			return 0, 1
		}
	case ir.Jump:
		n := in.N
		return func(s *state) (uint32, int) {
			return 0, 1 + n
		}
	}

	panic("native: unhandled ir.Instr")
}
