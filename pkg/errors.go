package paijorot

import "fmt"

// LexError aborts scanning at the first illegal construct.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Msg)
}

// ParseError aborts parsing at the first structural mismatch. Line is the
// line of the token that did not match, or 0 when unknown.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[line %d] %s", e.Line, e.Msg)
	}

	return e.Msg
}

// RuntimeError abandons the remaining statements of the current run.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return e.Msg
}
