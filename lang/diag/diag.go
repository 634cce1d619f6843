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

// Package diag renders lex/parse/typecheck errors as a source snippet
// with the offending span underlined, the way a reader expects from a
// compiler (spec §7).
package diag

import (
	"strconv"
	"strings"

	"github.com/zinput/hub/errors"
	"github.com/zinput/hub/lang/token"
)

// Spanner is implemented by every error lang/lexer, lang/parser, and
// lang/check produce that carries a span worth rendering.
type Spanner interface {
	DiagSpan() token.Span
}

// Render formats one error: its message, then the source line(s) its
// span covers with a caret underline beneath the offending range. Errors
// that don't implement Spanner are rendered as a bare message.
func Render(src string, err error) string {
	var buf strings.Builder
	buf.WriteString("error: ")
	buf.WriteString(err.Error())
	buf.WriteByte('\n')

	if s, ok := err.(Spanner); ok {
		writeContext(&buf, src, s.DiagSpan())
	}
	return buf.String()
}

// RenderAll renders every error in errs against the same source text,
// each as its own block.
func RenderAll(src string, errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = Render(src, err)
	}
	return strings.Join(parts, "\n")
}

// RenderMultiError renders every error an errors.MultiError collected,
// the usual way to report a whole lex, parse, or check pass's failures
// in one batch.
func RenderMultiError(src string, me *errors.MultiError) string {
	return RenderAll(src, me.Errors)
}

// position turns a byte offset into a 1-based (line, column) pair.
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

// writeContext renders the line(s) covered by span with a right-aligned
// line-number gutter and a caret underline beneath the spanned columns,
// single line or multi.
func writeContext(buf *strings.Builder, src string, span token.Span) {
	startLine, startCol := position(src, span.Start)
	endLine, endCol := position(src, span.End)
	if endLine < startLine || (endLine == startLine && endCol <= startCol) {
		endLine, endCol = startLine, startCol+1
	}

	buf.WriteString("  at ")
	buf.WriteString(strconv.Itoa(startLine))
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(startCol))
	buf.WriteString(":\n")

	lines := strings.Split(src, "\n")
	gutterWidth := len(strconv.Itoa(endLine))

	for ln := startLine; ln <= endLine && ln <= len(lines); ln++ {
		text := lines[ln-1]

		gutter := strconv.Itoa(ln)
		buf.WriteString(strings.Repeat(" ", gutterWidth-len(gutter)))
		buf.WriteString(gutter)
		buf.WriteString(" | ")
		buf.WriteString(text)
		buf.WriteByte('\n')

		col0, col1 := 1, len(text)+1
		if ln == startLine {
			col0 = startCol
		}
		if ln == endLine {
			col1 = endCol
		}
		if col1 <= col0 {
			col1 = col0 + 1
		}

		buf.WriteString(strings.Repeat(" ", gutterWidth))
		buf.WriteString(" | ")
		buf.WriteString(strings.Repeat(" ", col0-1))
		buf.WriteString(strings.Repeat("^", col1-col0))
		buf.WriteByte('\n')
	}
}
