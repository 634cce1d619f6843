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

// Package hostschema bridges the device package's Go structs to the
// language's type system: it describes, in terms of real byte offsets
// (via unsafe.Offsetof) and real struct sizes (via unsafe.Sizeof), the
// exact memory layout a compiled virtual-device program will operate on.
//
// Grounded on original_source/bindlang/src/ty.rs's `to_struct!`/
// `to_bitfield!` macros, which build Type::Struct/Type::Bitfield values
// from byte offsets and sizes computed at compile time and documented as
// unsafe: "the struct this is representing must have a defined ABI."
// unsafe.Offsetof plays the same role here.
package hostschema

import (
	"unsafe"

	"github.com/zinput/hub/device"
	"github.com/zinput/hub/lang/types"
)

// ControllerType builds the Struct type for a device's controller
// component at the given index, using that device's ControllerInfo to
// name the bitfield bits in its Buttons field. Every input and output
// device bound into a virtual-device program in this hub is, today, a
// controller component — see DESIGN.md, open question 2.
func ControllerType(info *device.ControllerInfo) types.Struct {
	var zero device.ControllerData

	bits := make(map[string]uint8, len(info.ButtonNames))
	for i, name := range info.ButtonNames {
		if name == "" {
			continue
		}
		bits[name] = uint8(i)
	}

	buttons := types.Bitfield{Name: "Buttons", Width: types.W64, Bits: bits}

	return types.Struct{
		Name: "Controller",
		Size: int32(unsafe.Sizeof(zero)),
		Fields: map[string]types.Field{
			"buttons":         {Type: buttons, ByteOffset: int32(unsafe.Offsetof(zero.Buttons))},
			"left_stick_x":    {Type: types.Int{Width: types.W16, Signed: true}, ByteOffset: int32(unsafe.Offsetof(zero.LeftStickX))},
			"left_stick_y":    {Type: types.Int{Width: types.W16, Signed: true}, ByteOffset: int32(unsafe.Offsetof(zero.LeftStickY))},
			"right_stick_x":   {Type: types.Int{Width: types.W16, Signed: true}, ByteOffset: int32(unsafe.Offsetof(zero.RightStickX))},
			"right_stick_y":   {Type: types.Int{Width: types.W16, Signed: true}, ByteOffset: int32(unsafe.Offsetof(zero.RightStickY))},
			"left_trigger":    {Type: types.Int{Width: types.W8, Signed: false}, ByteOffset: int32(unsafe.Offsetof(zero.LeftTrigger))},
			"right_trigger":   {Type: types.Int{Width: types.W8, Signed: false}, ByteOffset: int32(unsafe.Offsetof(zero.RightTrigger))},
			"analogs":         {Type: types.Slice{Elem: types.Int{Width: types.W16, Signed: false}}, ByteOffset: int32(unsafe.Offsetof(zero.Analogs))},
		},
	}
}
