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

package check_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/lang/check"
	"github.com/zinput/hub/lang/lexer"
	"github.com/zinput/hub/lang/parser"
	"github.com/zinput/hub/lang/types"
)

var ioGlobals = map[string]types.Type{
	"out": types.Struct{},
	"in":  types.Struct{},
}

func checkSrc(t *testing.T, src string) error {
	t.Helper()
	toks, lexErrs := lexer.New(src).Tokenize()
	require.Empty(t, lexErrs)
	mod, err := parser.ParseModule(toks)
	require.NoError(t, err)
	return check.Check(mod, ioGlobals)
}

func TestCheck_BoolEqualityIsAllowed(t *testing.T) {
	err := checkSrc(t, `device out; in { let a = true; let b = false; if a == b { let c = 1; } }`)
	require.NoError(t, err)
}

func TestCheck_BoolInequalityIsAllowed(t *testing.T) {
	err := checkSrc(t, `device out; in { let a = true; let b = false; if a != b { let c = 1; } }`)
	require.NoError(t, err)
}

func TestCheck_FloatEqualityIsAllowed(t *testing.T) {
	err := checkSrc(t, `device out; in { let a = 1.5; let b = 2.5; if a == b { let c = 1; } }`)
	require.NoError(t, err)
}

func TestCheck_MismatchedTypeEqualityRejected(t *testing.T) {
	err := checkSrc(t, `device out; in { let a = true; let b = 1; if a == b { let c = 1; } }`)
	require.Error(t, err)
}
