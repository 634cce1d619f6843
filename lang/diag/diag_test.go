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

package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/zinput/hub/errors"
	"github.com/zinput/hub/lang/diag"
	"github.com/zinput/hub/lang/lexer"
	"github.com/zinput/hub/lang/parser"
)

func TestRender_InvalidCharacter(t *testing.T) {
	src := "out.x = 1 $ 2;"
	_, errs := lexer.New(src).Tokenize()
	require.Len(t, errs, 1)

	out := diag.Render(src, errs[0])
	assert.Contains(t, out, "error: invalid character '$'")
	assert.Contains(t, out, "at 1:11:")
	assert.Contains(t, out, src)

	lines := strings.Split(out, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	require.NotEmpty(t, caretLine, "expected a caret-underline line")
	assert.Equal(t, strings.Index(src, "$"), strings.Index(caretLine, "^")-strings.Index(caretLine, "|")-2)
}

func TestRender_UnexpectedToken(t *testing.T) {
	src := "device ; in { let = 1; }"
	toks, errs := lexer.New(src).Tokenize()
	require.Empty(t, errs)

	_, err := parser.ParseModule(toks)
	require.Error(t, err)
	me, ok := err.(*sdkerrors.MultiError)
	require.True(t, ok)
	require.NotEmpty(t, me.Errors)

	out := diag.Render(src, me.Errors[0])
	assert.Contains(t, out, "error: unexpected token")
	assert.Contains(t, out, src)
}

func TestRenderAll_MultipleErrors(t *testing.T) {
	src := "out.x = 1 $ 2 @ 3;"
	_, errs := lexer.New(src).Tokenize()
	require.Len(t, errs, 2)

	out := diag.RenderAll(src, errs)
	assert.Equal(t, 2, strings.Count(out, "error: invalid character"))
}

func TestRender_ErrorWithoutSpanIsMessageOnly(t *testing.T) {
	out := diag.Render("irrelevant source", plainError{"boom"})
	assert.Equal(t, "error: boom\n", out)
}

type plainError struct{ msg string }

func (e plainError) Error() string { return e.msg }
