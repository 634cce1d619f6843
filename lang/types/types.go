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

// Package types is the language's type system (spec §3 "Language data
// model" and §4.7). It has no dependency on the lexer/parser/checker so
// it can be shared by the checker, the IR lowering pass, and the host
// schema that exposes device memory layouts to the language.
package types

import "fmt"

// Width is an integer/bitfield bit-width.
type Width uint8

const (
	W8 Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Size returns the width in bytes.
func (w Width) Size() uint8 { return uint8(w) / 8 }

// Type is implemented by every concrete language type. Types are
// compared by value (==) where Go allows it; Struct and Bitfield embed
// maps, so use Equal instead of == when either operand might be one.
type Type interface {
	fmt.Stringer
	// StackSize is the number of bytes this type occupies on the IR
	// value stack / in a variable slot.
	StackSize() uint8
	// IsNum reports whether arithmetic operators apply to this type.
	IsNum() bool
	// AssignableFrom reports whether a value of type `from` may be
	// assigned to an l-value of this type, per spec §4.7.
	AssignableFrom(from Type) bool
	// Equal reports deep structural equality.
	Equal(other Type) bool
}

// Int is a fixed-width, signed or unsigned integer type.
type Int struct {
	Width  Width
	Signed bool
}

func (t Int) String() string {
	s := "u"
	if t.Signed {
		s = "i"
	}
	return fmt.Sprintf("%s%d", s, t.Width)
}
func (t Int) StackSize() uint8 { return t.Width.Size() }
func (t Int) IsNum() bool      { return true }
func (t Int) Equal(o Type) bool {
	oi, ok := o.(Int)
	return ok && oi.Width == t.Width && oi.Signed == t.Signed
}

// AssignableFrom implements spec §4.7's integer assignability rules:
// widening is allowed, narrowing is rejected, and a same-width sign flip
// is never implicit.
func (t Int) AssignableFrom(from Type) bool {
	switch f := from.(type) {
	case Int:
		if !f.Signed {
			if t.Signed {
				return f.Width < t.Width
			}
			return f.Width <= t.Width
		}
		return t.Signed && f.Width <= t.Width
	case Bool:
		return true
	case Bitfield:
		return f.Width <= t.Width
	default:
		return false
	}
}

// F32 is the IEEE-754 single-precision float type.
type F32 struct{}

func (F32) String() string     { return "f32" }
func (F32) StackSize() uint8   { return 4 }
func (F32) IsNum() bool        { return true }
func (F32) Equal(o Type) bool  { _, ok := o.(F32); return ok }
func (F32) AssignableFrom(from Type) bool {
	switch f := from.(type) {
	case F32:
		return true
	case F64:
		return true
	case Int:
		return f.Width <= W32
	default:
		return false
	}
}

// F64 is the IEEE-754 double-precision float type.
type F64 struct{}

func (F64) String() string    { return "f64" }
func (F64) StackSize() uint8  { return 8 }
func (F64) IsNum() bool       { return true }
func (F64) Equal(o Type) bool { _, ok := o.(F64); return ok }
func (F64) AssignableFrom(from Type) bool {
	switch from.(type) {
	case F32, F64, Int:
		return true
	default:
		return false
	}
}

// Bool is the boolean type.
type Bool struct{}

func (Bool) String() string    { return "bool" }
func (Bool) StackSize() uint8  { return 1 }
func (Bool) IsNum() bool       { return false }
func (Bool) Equal(o Type) bool { _, ok := o.(Bool); return ok }
func (Bool) AssignableFrom(from Type) bool {
	_, ok := from.(Bool)
	return ok
}

// Reference is the l-value wrapper produced by variable references and
// by field/index access in lvalue position. It is collapsed by
// Dereference before any arithmetic or rvalue use (spec §3).
type Reference struct {
	Elem Type
}

func (t Reference) String() string    { return t.Elem.String() }
func (t Reference) StackSize() uint8  { return 8 } // pointer-sized
func (t Reference) IsNum() bool       { return false }
func (t Reference) Equal(o Type) bool {
	or, ok := o.(Reference)
	return ok && t.Elem.Equal(or.Elem)
}
func (Reference) AssignableFrom(Type) bool { return false }

// Dereference strips all leading Reference wrappers, per spec §3's
// "dereferenced" operation.
func Dereference(t Type) Type {
	for {
		r, ok := t.(Reference)
		if !ok {
			return t
		}
		t = r.Elem
	}
}

// Slice is a fat-pointer (data pointer + u32 length) view over a
// homogeneous element type.
type Slice struct {
	Elem Type
}

func (t Slice) String() string    { return "&[" + t.Elem.String() + "]" }
func (t Slice) StackSize() uint8  { return 16 } // ptr (8) + len (4), padded
func (t Slice) IsNum() bool       { return false }
func (t Slice) Equal(o Type) bool {
	os, ok := o.(Slice)
	return ok && t.Elem.Equal(os.Elem)
}
func (t Slice) AssignableFrom(from Type) bool {
	fs, ok := from.(Slice)
	return ok && t.Elem.Equal(fs.Elem)
}

// Bitfield is a named integer-sized type whose individual bits are
// addressable by name.
type Bitfield struct {
	Name  string
	Width Width
	Bits  map[string]uint8
}

func (t Bitfield) String() string    { return fmt.Sprintf("u%d(%s)", t.Width, t.Name) }
func (t Bitfield) StackSize() uint8  { return t.Width.Size() }
func (t Bitfield) IsNum() bool       { return false }
func (t Bitfield) Equal(o Type) bool {
	ob, ok := o.(Bitfield)
	if !ok || ob.Name != t.Name || ob.Width != t.Width || len(ob.Bits) != len(t.Bits) {
		return false
	}
	for k, v := range t.Bits {
		if ov, ok := ob.Bits[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
func (t Bitfield) AssignableFrom(from Type) bool {
	switch f := from.(type) {
	case Int:
		return f.Width == t.Width
	case Bitfield:
		return f.Width == t.Width
	default:
		return false
	}
}

// Field is one member of a Struct: its type and its byte offset in the
// struct's real (host) memory layout.
type Field struct {
	Type       Type
	ByteOffset int32
}

// Struct is a name-tagged, fixed-layout aggregate describing a region of
// host memory — typically one device component's data struct. All
// access to a Struct's bytes happens through the pointer the compiled
// program was handed at call time; the language never owns this memory
// (spec §9).
type Struct struct {
	Name   string
	Fields map[string]Field
	Size   int32
}

func (t Struct) String() string   { return t.Name }
func (t Struct) StackSize() uint8 { return 8 } // referenced by pointer
func (t Struct) IsNum() bool      { return false }
func (t Struct) Equal(o Type) bool {
	ot, ok := o.(Struct)
	if !ok || ot.Name != t.Name || ot.Size != t.Size || len(ot.Fields) != len(t.Fields) {
		return false
	}
	for k, v := range t.Fields {
		ov, ok := ot.Fields[k]
		if !ok || ov.ByteOffset != v.ByteOffset || !ov.Type.Equal(v.Type) {
			return false
		}
	}
	return true
}
func (t Struct) AssignableFrom(from Type) bool {
	of, ok := from.(Struct)
	return ok && t.Equal(of)
}
