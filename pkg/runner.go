package paijorot

import (
	"io"
	"strings"
)

// Runner bundles the lexing, parsing, and evaluation stages behind the two
// entry points the driver needs. Program output goes to out; the yeet
// expression reads lines from in.
type Runner struct {
	out io.Writer
	in  io.Reader
}

func NewRunner(out io.Writer, in io.Reader) *Runner {
	return &Runner{
		out: out,
		in:  in,
	}
}

// RunFile executes a whole script once against a fresh environment.
func (r *Runner) RunFile(filename string) error {
	lexer, err := NewLexer(filename)
	if err != nil {
		return err
	}

	return r.run(lexer, NewEnvironment())
}

// RunSource executes one unit of source against a caller-owned environment.
// The interactive driver reuses one environment across lines; file mode gets
// a fresh one per run.
func (r *Runner) RunSource(src string, environment *Environment) error {
	return r.run(NewLexerFromReader(strings.NewReader(src)), environment)
}

func (r *Runner) run(lexer *Lexer, environment *Environment) error {
	statements, err := NewParser(lexer).Run()
	if err != nil {
		return err
	}

	return NewInterpreter(environment, r.out, r.in).Interpret(statements)
}
