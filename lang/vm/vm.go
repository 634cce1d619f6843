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

// Package vm is the front door to the virtual-device language: it runs
// the lex/parse/check/lower pipeline end to end and hands back both
// execution backends (lang/compile's Interpreter and
// lang/compile/native's threaded-code Program) built from the same
// lang/ir.Program, per spec §4.8's "Interpreter ≡ JIT" requirement.
//
// lang/compile cannot depend on lang/compile/native (native already
// depends on compile for the shared Value type), so this package is
// where the two are wired together.
package vm

import (
	"github.com/zinput/hub/errors"
	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/check"
	"github.com/zinput/hub/lang/compile"
	"github.com/zinput/hub/lang/compile/native"
	"github.com/zinput/hub/lang/ir"
	"github.com/zinput/hub/lang/lexer"
	"github.com/zinput/hub/lang/parser"
	"github.com/zinput/hub/lang/types"
)

// Program bundles a lowered ir.Program with both backends built from
// it, ready to run interchangeably.
type Program struct {
	IR     *ir.Program
	Interp *compile.Interpreter
	Native *native.Program
}

// EntryFor returns the index into Program.IR.Entries (and so the
// entryIndex argument to Run) for the given input device name, or -1
// if no input block binds that device.
func (p *Program) EntryFor(deviceName string) int {
	for i, e := range p.IR.Entries {
		if e.Device == deviceName {
			return i
		}
	}
	return -1
}

// Compile runs the full pipeline over src: lex, parse, type-check
// against roots (the output device's identifier and type plus every
// input device's identifier and type), then lowers and builds both
// backends. Lex/parse errors are returned as-is (each a
// *errors.MultiError or the parser's own error); a nil Program is
// returned whenever err is non-nil.
func Compile(src string, outputName string, outputType types.Struct, roots map[string]types.Struct) (*Program, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}

	globals := make(map[string]types.Type, len(roots)+1)
	globals[outputName] = outputType
	for name, t := range roots {
		globals[name] = t
	}

	if err := check.Check(mod, globals); err != nil {
		return nil, err
	}

	allStructs := make(map[string]types.Struct, len(roots)+1)
	allStructs[outputName] = outputType
	for name, t := range roots {
		allStructs[name] = t
	}

	prog, err := compile.Lower(mod, outputName, allStructs)
	if err != nil {
		return nil, err
	}

	return &Program{
		IR:     prog,
		Interp: compile.NewInterpreter(prog),
		Native: native.New(prog),
	}, nil
}

// Parse lexes and parses src into a module, without type-checking.
func Parse(src string) (*ast.Module, error) {
	toks, lexErrs := lexer.New(src).Tokenize()
	if len(lexErrs) > 0 {
		me := errors.NewMultiError("lex")
		for _, e := range lexErrs {
			me.Add(e)
		}
		return nil, me
	}
	return parser.ParseModule(toks)
}
