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

// Package errors holds the MultiError aggregate through which the lang/*
// packages (lex, parse, typecheck) report their compile-time errors as a
// batch; the error types themselves live in those packages.
package errors

import (
	"bytes"
	"fmt"
)

// MultiError is a collection of errors that also fulfills the error
// interface. Lexing, parsing, and type-checking all accumulate their
// errors into one of these rather than aborting on the first failure.
type MultiError struct {
	// Errors is the collection of errors being tracked.
	Errors []error

	// For names the phase the errors came from, e.g. "lex", "parse".
	For string
}

// NewMultiError creates a new, empty MultiError for the named phase.
func NewMultiError(source string) *MultiError {
	return &MultiError{
		Errors: []error{},
		For:    source,
	}
}

// Err returns the MultiError if it is tracking any errors, otherwise nil.
// This is the usual way to turn an accumulator into a function's error
// return value.
func (e *MultiError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// HasErrors reports whether the MultiError is tracking any errors.
func (e *MultiError) HasErrors() bool {
	return len(e.Errors) != 0
}

// Add adds an error to the MultiError.
func (e *MultiError) Add(err error) {
	e.Errors = append(e.Errors, err)
}

// Error renders all collected errors, one per line, prefixed by which
// phase they came from.
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	src := e.For
	if src == "" {
		src = "unspecified"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d error(s) for: %s\n", len(e.Errors), src)
	for _, err := range e.Errors {
		fmt.Fprintf(&buf, "%s\n", err.Error())
	}
	return buf.String()
}
