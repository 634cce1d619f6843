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

// Package ir is the virtual-device language's intermediate
// representation (spec §4.8): a flat, width-tagged stack-machine
// instruction set that lang/check-annotated ASTs are lowered to, and
// that both compile backends (the Interpreter in lang/compile, and
// lang/compile/native) execute. Grounded on original_source/bindlang/src/ir.rs's
// Instruction enum, restructured as one Go type per op (rather than one
// tagged enum) since Go has no sum types, and flattened with relative
// jumps instead of nested yes/no blocks so both backends share one
// linear program representation.
package ir

import "github.com/zinput/hub/lang/ast"

// Instr is implemented by every concrete instruction.
type Instr interface{ isInstr() }

// Entry is one compiled input block: its device name (for logging) and
// code. The virtual-device pipeline selects an Entry by the index of
// the input view that fired.
type Entry struct {
	Device string
	Code   []Instr
}

// Program is the compiled form of a whole module. InputNames is the
// fixed order in which the native ABI's in_list_ptr binds input
// pointers; every Entry's code may reference any of them, not only its
// own (spec §4.7's globals are visible to every input block).
type Program struct {
	OutputName string
	InputNames []string
	Entries    []Entry
}

type PushInt struct {
	Width  uint8
	Signed bool
	Bits   uint64
}

type PushFloat struct {
	Width uint8 // 32 or 64
	Value float64
}

type PushBool struct{ Value bool }

// LoadVar pushes the value in variable slot Slot (from a prior
// StoreVar); StoreVar pops the top value and writes the slot,
// allocating it on first use (spec §4.8 "Let-binding").
type LoadVar struct{ Slot int }
type StoreVar struct{ Slot int }

// Pop discards the top stack value, used for expression-statements
// whose value is unused.
type Pop struct{}

// AddrOut and AddrIn push the address of a root device struct: the
// output device, or the Index'th entry of InputNames.
type AddrOut struct{}
type AddrIn struct{ Index int }

// AddrField adds a static byte offset to the address on top of stack
// (struct field access, spec §4.8 "compute base pointer, add field's
// byte offset").
type AddrField struct{ Offset int32 }

// LoadInt pops an address and pushes the Width-bit integer at it,
// sign- or zero-extended per Signed.
type LoadInt struct {
	Width  uint8
	Signed bool
}

// StoreInt pops a value then an address, and writes the value's low
// Width bits to the address.
type StoreInt struct{ Width uint8 }

// LoadBitfieldBit pops an address to a Width-bit bitfield word and
// pushes the boolean at bit index Bit.
type LoadBitfieldBit struct {
	Width uint8
	Bit   uint8
}

// StoreBitfieldBit pops a bool value then an address, and
// read-modify-writes that single bit of the Width-bit word there.
type StoreBitfieldBit struct {
	Width uint8
	Bit   uint8
}

// LoadBitfieldBitDyn is LoadBitfieldBit with a runtime bit index: it
// pops an unsigned index then an address, per spec §4.7's `expr[idx]`
// on an integer or bitfield ("idx must be unsigned integer").
type LoadBitfieldBitDyn struct{ Width uint8 }

// StoreBitfieldBitDyn is StoreBitfieldBit with a runtime bit index: it
// pops an index, then an address, then (beneath both) the bool value.
type StoreBitfieldBitDyn struct{ Width uint8 }

// LoadSliceLen pops the address of a slice header (spec §3's fat
// pointer: data pointer then u32 length) and pushes its length as u32.
type LoadSliceLen struct {
	PtrFieldOffset int32
	LenFieldOffset int32
}

// AddrSliceElem pops an index (u32) then the address of a slice
// header, bounds-checks the index against the header's length, and
// pushes the address of the element at that index. When the index is
// out of bounds the entry stops and Run returns ErrIndexOutOfBounds.
type AddrSliceElem struct {
	PtrFieldOffset int32
	LenFieldOffset int32
	ElemSize       int32
}

type Neg struct {
	Width  uint8
	Float  bool
	Signed bool
}

// Not implements both logical (bool) and bitwise (int/bitfield)
// negation; ValueIsBool selects which.
type Not struct{ ValueIsBool bool }

type BinArith struct {
	Op     ast.BinOp // Add, Sub, Mul, Div
	Width  uint8
	Signed bool
	Float  bool
}

type BinBit struct {
	Op    ast.BinOp // BitOr, BitAnd, BitXor
	Width uint8
}

type BinLogic struct{ Op ast.BinOp } // Or, And

type BinCmpNum struct {
	Op     ast.BinOp // Greater, GreaterEq, Less, LessEq
	Width  uint8
	Signed bool
	Float  bool
}

type BinEq struct {
	Op    ast.BinOp // Equals, NotEquals
	Float bool
}

type BinShift struct {
	Op     ast.BinOp // ShiftLeft, ShiftRight
	Width  uint8
	Signed bool
}

// JumpIfFalse pops a bool and, if false, advances the program counter
// by N additional instructions. Jump always advances by N.
type JumpIfFalse struct{ N int }
type Jump struct{ N int }

func (PushInt) isInstr()          {}
func (PushFloat) isInstr()        {}
func (PushBool) isInstr()         {}
func (LoadVar) isInstr()          {}
func (StoreVar) isInstr()         {}
func (Pop) isInstr()              {}
func (AddrOut) isInstr()          {}
func (AddrIn) isInstr()           {}
func (AddrField) isInstr()        {}
func (LoadInt) isInstr()          {}
func (StoreInt) isInstr()         {}
func (LoadBitfieldBit) isInstr()     {}
func (StoreBitfieldBit) isInstr()    {}
func (LoadBitfieldBitDyn) isInstr()  {}
func (StoreBitfieldBitDyn) isInstr() {}
func (LoadSliceLen) isInstr()     {}
func (AddrSliceElem) isInstr()    {}
func (Neg) isInstr()              {}
func (Not) isInstr()              {}
func (BinArith) isInstr()         {}
func (BinBit) isInstr()           {}
func (BinLogic) isInstr()         {}
func (BinCmpNum) isInstr()        {}
func (BinEq) isInstr()            {}
func (BinShift) isInstr()         {}
func (JumpIfFalse) isInstr()      {}
func (Jump) isInstr()             {}

// Error codes for the compiled-program ABI (spec §6).
const (
	OK uint32 = 0
	ErrInvalidNumberOfInputs uint32 = 1
	ErrIndexOutOfBounds      uint32 = 2
)
