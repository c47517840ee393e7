// Package diag defines the errors a compile can end with.
package diag

import (
	"errors"
	"fmt"
)

// Kind separates the three user-facing failure classes.
type Kind string

const (
	Lexical  Kind = "lexical"
	Syntax   Kind = "syntax"
	Semantic Kind = "semantic"
)

// Error is a compile error. Every Error is terminal for the current compile.
type Error struct {
	Kind Kind
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s error: %s", e.Line, e.Kind, e.Msg)
}

func newError(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func Lexicalf(line int, format string, args ...any) *Error {
	return newError(Lexical, line, format, args...)
}

func Syntaxf(line int, format string, args ...any) *Error {
	return newError(Syntax, line, format, args...)
}

func Semanticf(line int, format string, args ...any) *Error {
	return newError(Semantic, line, format, args...)
}

// KindOf returns the kind of the *Error wrapped in err, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
