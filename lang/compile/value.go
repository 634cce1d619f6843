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

import "unsafe"

// Value is the runtime representation shared by both backends: every
// IR-level stack slot is one Value. Integers and bitfields are kept
// canonicalized (sign- or zero-extended to all 64 bits of U) between
// operations so width-tagged arithmetic reduces to ordinary int64/
// uint64 math followed by re-normalizing to the result width.
type Value struct {
	U    uint64
	F    float64
	Addr unsafe.Pointer
}

func IntValue(u uint64) Value    { return Value{U: u} }
func FloatValue(f float64) Value { return Value{F: f} }
func BoolValue(b bool) Value {
	if b {
		return Value{U: 1}
	}
	return Value{U: 0}
}
func AddrValue(p unsafe.Pointer) Value { return Value{Addr: p} }

func (v Value) Bool() bool { return v.U != 0 }

// SignExtend sign-extends the low `width` bits of u to a full 64-bit
// two's-complement pattern.
func SignExtend(u uint64, width uint8) uint64 {
	switch width {
	case 8:
		return uint64(int64(int8(u)))
	case 16:
		return uint64(int64(int16(u)))
	case 32:
		return uint64(int64(int32(u)))
	default:
		return u
	}
}

// ZeroExtend masks u to its low `width` bits, zero-extended.
func ZeroExtend(u uint64, width uint8) uint64 {
	switch width {
	case 8:
		return uint64(uint8(u))
	case 16:
		return uint64(uint16(u))
	case 32:
		return uint64(uint32(u))
	default:
		return u
	}
}

// Normalize canonicalizes u to its width/signedness, as described on Value.
func Normalize(u uint64, width uint8, signed bool) uint64 {
	if signed {
		return SignExtend(u, width)
	}
	return ZeroExtend(u, width)
}

func LoadIntFromAddr(addr unsafe.Pointer, width uint8, signed bool) uint64 {
	var raw uint64
	switch width {
	case 8:
		raw = uint64(*(*uint8)(addr))
	case 16:
		raw = uint64(*(*uint16)(addr))
	case 32:
		raw = uint64(*(*uint32)(addr))
	default:
		raw = *(*uint64)(addr)
	}
	return Normalize(raw, width, signed)
}

func StoreIntToAddr(addr unsafe.Pointer, width uint8, u uint64) {
	switch width {
	case 8:
		*(*uint8)(addr) = uint8(u)
	case 16:
		*(*uint16)(addr) = uint16(u)
	case 32:
		*(*uint32)(addr) = uint32(u)
	default:
		*(*uint64)(addr) = u
	}
}

func AddPtr(p unsafe.Pointer, offset int32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + uintptr(offset))
}

func F32Truncate(f float64) float64 { return float64(float32(f)) }
