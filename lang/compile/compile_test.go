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

package compile_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/compile"
	"github.com/zinput/hub/lang/compile/native"
	"github.com/zinput/hub/lang/ir"
)

// both runs prog's entry on both backends against the same input/output
// memory and asserts they agree on return code and on the output bytes
// they wrote, per spec §8's "Interpreter ≡ JIT" requirement.
func both(t *testing.T, prog *ir.Program, entry int, out unsafe.Pointer, outSize uintptr, ins []unsafe.Pointer) uint32 {
	t.Helper()

	interp := compile.NewInterpreter(prog)
	nat := native.New(prog)

	before := make([]byte, outSize)
	outBytes := unsafe.Slice((*byte)(out), outSize)
	copy(before, outBytes)

	rc1 := interp.Run(entry, out, ins)
	afterInterp := make([]byte, outSize)
	copy(afterInterp, outBytes)

	copy(outBytes, before)
	rc2 := nat.Run(entry, out, ins)
	afterNative := make([]byte, outSize)
	copy(afterNative, outBytes)

	require.Equal(t, rc1, rc2, "interpreter and native backend disagreed on return code")
	require.Equal(t, afterInterp, afterNative, "interpreter and native backend disagreed on output bytes")

	return rc1
}

// scenario 3: out.buttons.a = in.buttons.b; bitfield-to-bitfield assign.
func TestDifferential_BitfieldAssign(t *testing.T) {
	prog := &ir.Program{
		OutputName: "out",
		InputNames: []string{"in"},
		Entries: []ir.Entry{{
			Device: "in",
			Code: []ir.Instr{
				// value: in.buttons.b (bit 1)
				ir.AddrIn{Index: 0},
				ir.LoadBitfieldBit{Width: 64, Bit: 1},
				// addr: out.buttons (the word itself)
				ir.AddrOut{},
				ir.StoreBitfieldBit{Width: 64, Bit: 0},
			},
		}},
	}

	var out, in uint64
	in = 0x02 // bit 1 set ("b")

	rc := both(t, prog, 0, unsafe.Pointer(&out), unsafe.Sizeof(out), []unsafe.Pointer{unsafe.Pointer(&in)})
	require.Equal(t, ir.OK, rc)
	require.Equal(t, uint64(0x01), out)
}

// scenario 4: in.analogs[3] when in.analogs.len == 2 faults with
// IndexOutOfBounds and leaves the output untouched.
func TestDifferential_SliceBounds(t *testing.T) {
	ptrOff := int32(unsafe.Offsetof(device.AnalogsSlice{}.Ptr))
	lenOff := int32(unsafe.Offsetof(device.AnalogsSlice{}.Len))

	prog := &ir.Program{
		OutputName: "out",
		InputNames: []string{"in"},
		Entries: []ir.Entry{{
			Device: "in",
			Code: []ir.Instr{
				// value: in.analogs[3]
				ir.AddrIn{Index: 0},
				ir.PushInt{Width: 32, Signed: false, Bits: 3},
				ir.AddrSliceElem{PtrFieldOffset: ptrOff, LenFieldOffset: lenOff, ElemSize: 2},
				ir.LoadInt{Width: 16, Signed: false},
				// addr: out (a bare u16)
				ir.AddrOut{},
				ir.StoreInt{Width: 16},
			},
		}},
	}

	backing := [2]uint16{10, 20}
	in := device.AnalogsSlice{Ptr: &backing[0], Len: 2}
	var out uint16 = 0xBEEF

	rc := both(t, prog, 0, unsafe.Pointer(&out), unsafe.Sizeof(out), []unsafe.Pointer{unsafe.Pointer(&in)})
	require.Equal(t, ir.ErrIndexOutOfBounds, rc)
	require.Equal(t, uint16(0xBEEF), out, "output must be untouched on an out-of-bounds fault")
}

// scenario 5: out.left_stick_x = 255 - in.left_stick_x; over a sweep of
// inputs, checked equal across both backends.
func TestDifferential_ArithSweep(t *testing.T) {
	prog := &ir.Program{
		OutputName: "out",
		InputNames: []string{"in"},
		Entries: []ir.Entry{{
			Device: "in",
			Code: []ir.Instr{
				ir.PushInt{Width: 16, Signed: false, Bits: 255},
				ir.AddrIn{Index: 0},
				ir.LoadInt{Width: 16, Signed: false},
				ir.BinArith{Op: ast.BinSub, Width: 16, Signed: false, Float: false},
				ir.AddrOut{},
				ir.StoreInt{Width: 16},
			},
		}},
	}

	inputs := []uint16{0, 1, 127, 128, 254, 255}
	want := []uint16{255, 254, 128, 127, 1, 0}

	for i, v := range inputs {
		var out, in uint16
		in = v
		rc := both(t, prog, 0, unsafe.Pointer(&out), unsafe.Sizeof(out), []unsafe.Pointer{unsafe.Pointer(&in)})
		require.Equal(t, ir.OK, rc)
		require.Equal(t, want[i], out)
	}
}

// scenario 6: a compiled entry expecting one input called with zero
// inputs returns InvalidNumberOfInputs on both backends, output untouched.
func TestDifferential_InvalidNumberOfInputs(t *testing.T) {
	prog := &ir.Program{
		OutputName: "out",
		InputNames: []string{"in"},
		Entries: []ir.Entry{{
			Device: "in",
			Code:   []ir.Instr{ir.AddrOut{}, ir.PushInt{Width: 8, Bits: 1}, ir.StoreInt{Width: 8}},
		}},
	}

	var out uint8 = 7
	rc := both(t, prog, 0, unsafe.Pointer(&out), unsafe.Sizeof(out), nil)
	require.Equal(t, ir.ErrInvalidNumberOfInputs, rc)
	require.Equal(t, uint8(7), out)
}
