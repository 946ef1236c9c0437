package paijorot

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// control is the outcome of executing one statement: normal completion, or a
// break requesting termination of the innermost active loop.
type control int

const (
	controlNone control = iota
	controlBreak
)

// Interpreter walks a statement sequence against one Environment. Program
// output goes to out; the yeet expression blocks reading lines from in.
type Interpreter struct {
	environment *Environment
	out         io.Writer
	in          *bufio.Reader
}

func NewInterpreter(environment *Environment, out io.Writer, in io.Reader) *Interpreter {
	buffered, ok := in.(*bufio.Reader)
	if !ok {
		buffered = bufio.NewReader(in)
	}

	return &Interpreter{
		environment: environment,
		out:         out,
		in:          buffered,
	}
}

// Interpret executes the statements in order, abandoning the remainder on
// the first runtime fault. A break outcome that reaches the top level is the
// break-outside-loop fault.
func (i *Interpreter) Interpret(statements []Stmt) error {
	for _, stmt := range statements {
		ctl, err := i.execute(stmt)
		if err != nil {
			return err
		}

		if ctl == controlBreak {
			return &RuntimeError{Msg: "'sybau' statement outside of a loop."}
		}
	}

	return nil
}

func (i *Interpreter) execute(stmt Stmt) (control, error) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := i.evaluate(s.Expr)
		return controlNone, err
	case *PrintStmt:
		value, err := i.evaluate(s.Expr)
		if err != nil {
			return controlNone, err
		}

		fmt.Fprintln(i.out, value.String())

		return controlNone, nil
	case *VarStmt:
		var value Value = Nil{}
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return controlNone, err
			}

			value = v
		}

		i.environment.Define(s.Name.Lexeme, value)

		return controlNone, nil
	case *IfStmt:
		condition, err := i.evaluate(s.Condition)
		if err != nil {
			return controlNone, err
		}

		if Truthy(condition) {
			return i.execute(s.Then)
		}

		if s.Else != nil {
			return i.execute(s.Else)
		}

		return controlNone, nil
	case *LoopStmt:
		return controlNone, i.executeLoop(s)
	case *BreakStmt:
		return controlBreak, nil
	case *FunctionStmt:
		params := make([]string, len(s.Params))
		for n, param := range s.Params {
			params[n] = param.Lexeme
		}

		i.environment.Define(s.Name.Lexeme, &Function{
			Name:   s.Name.Lexeme,
			Params: params,
			Body:   s.Body,
		})

		return controlNone, nil
	default:
		return controlNone, &RuntimeError{Msg: fmt.Sprintf("unsupported statement %T", stmt)}
	}
}

// executeLoop consumes break outcomes from its body: a break ends the
// current iteration and the whole loop, one loop level per break.
func (i *Interpreter) executeLoop(s *LoopStmt) error {
	if s.Count == nil {
		for {
			broke, err := i.runBody(s.Body)
			if err != nil || broke {
				return err
			}
		}
	}

	count, err := i.evaluate(s.Count)
	if err != nil {
		return err
	}

	n, ok := count.(Number)
	if !ok {
		return &RuntimeError{Msg: "Loop condition must evaluate to a number."}
	}

	// Fractional counts truncate toward zero
	for iter := int64(0); iter < int64(n); iter++ {
		broke, err := i.runBody(s.Body)
		if err != nil || broke {
			return err
		}
	}

	return nil
}

// runBody runs one whole iteration, reporting whether a break ended it early.
func (i *Interpreter) runBody(body []Stmt) (bool, error) {
	for _, stmt := range body {
		ctl, err := i.execute(stmt)
		if err != nil {
			return false, err
		}

		if ctl == controlBreak {
			return true, nil
		}
	}

	return false, nil
}

func (i *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return i.evaluate(e.Inner)
	case *VariableExpr:
		return i.environment.Get(e.Name.Lexeme)
	case *BinaryExpr:
		return i.evaluateBinary(e)
	case *ArrayExpr:
		values := make(Array, 0, len(e.Elements))
		for _, element := range e.Elements {
			v, err := i.evaluate(element)
			if err != nil {
				return nil, err
			}

			values = append(values, v)
		}

		// Evaluating the literal also declares its name
		i.environment.Define(e.Name.Lexeme, values)

		return values, nil
	case *CallExpr:
		return i.evaluateCall(e)
	case *InputExpr:
		return i.readInput()
	default:
		return nil, &RuntimeError{Msg: fmt.Sprintf("unsupported expression %T", expr)}
	}
}

func (i *Interpreter) evaluateBinary(e *BinaryExpr) (Value, error) {
	if e.Op.Typ == TokenPmo {
		target, ok := e.Left.(*VariableExpr)
		if !ok {
			return nil, &RuntimeError{Msg: "Invalid assignment target."}
		}

		value, err := i.evaluate(e.Right)
		if err != nil {
			return nil, err
		}

		if err := i.environment.Assign(target.Name.Lexeme, value); err != nil {
			return nil, err
		}

		return value, nil
	}

	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Typ {
	case TokenPlus:
		return add(left, right)
	case TokenMinus:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return a - b, nil
	case TokenStar:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return a * b, nil
	case TokenSlash:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &RuntimeError{Msg: "Division by zero."}
		}

		return a / b, nil
	case TokenModulo:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &RuntimeError{Msg: "Modulo by zero."}
		}

		return Number(math.Mod(float64(a), float64(b))), nil
	case TokenGreater:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return Boolean(a > b), nil
	case TokenGreaterEqual:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return Boolean(a >= b), nil
	case TokenLess:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return Boolean(a < b), nil
	case TokenLessEqual:
		a, b, err := numbers(left, right)
		if err != nil {
			return nil, err
		}

		return Boolean(a <= b), nil
	case TokenEqual:
		return Boolean(valuesEqual(left, right)), nil
	case TokenNotEqual:
		return Boolean(!valuesEqual(left, right)), nil
	default:
		return nil, &RuntimeError{Msg: fmt.Sprintf("unsupported binary operator '%s'", e.Op.Lexeme)}
	}
}

func (i *Interpreter) evaluateCall(e *CallExpr) (Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	// Arguments evaluate in listed order
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	function, ok := callee.(*Function)
	if !ok {
		return nil, &RuntimeError{Msg: "Can only call functions."}
	}

	if len(args) != len(function.Params) {
		return nil, &RuntimeError{
			Msg: fmt.Sprintf("Expected %d arguments but got %d.", len(function.Params), len(args)),
		}
	}

	// The call environment holds the parameters and nothing else: no caller
	// bindings, no globals, not even the function's own name
	environment := NewEnvironment()
	for n, param := range function.Params {
		environment.Define(param, args[n])
	}

	return i.fork(environment).evaluate(function.Body)
}

// fork shares the I/O collaborators but nothing else.
func (i *Interpreter) fork(environment *Environment) *Interpreter {
	return &Interpreter{
		environment: environment,
		out:         i.out,
		in:          i.in,
	}
}

func (i *Interpreter) readInput() (Value, error) {
	fmt.Fprint(i.out, "> ")

	line, err := i.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, &RuntimeError{Msg: "Failed to read input."}
	}

	text := strings.TrimSpace(line)
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return Number(n), nil
	}

	return String(text), nil
}

func add(left, right Value) (Value, error) {
	if a, ok := left.(Number); ok {
		if b, ok := right.(Number); ok {
			return a + b, nil
		}
	}

	// One string side stringifies the other and concatenates
	if a, ok := left.(String); ok {
		return a + String(right.String()), nil
	}
	if b, ok := right.(String); ok {
		return String(left.String()) + b, nil
	}

	return nil, &RuntimeError{Msg: "Operands must be numbers or strings."}
}

func numbers(left, right Value) (Number, Number, error) {
	a, aok := left.(Number)
	b, bok := right.(Number)
	if !aok || !bok {
		return 0, 0, &RuntimeError{Msg: "Operands must be numbers."}
	}

	return a, b, nil
}

// valuesEqual compares by value within a kind; cross-kind comparison yields
// false, never an error. Functions and arrays compare as unequal.
func valuesEqual(left, right Value) bool {
	switch a := left.(type) {
	case Number:
		b, ok := right.(Number)
		return ok && a == b
	case String:
		b, ok := right.(String)
		return ok && a == b
	case Boolean:
		b, ok := right.(Boolean)
		return ok && a == b
	case Nil:
		_, ok := right.(Nil)
		return ok
	default:
		return false
	}
}
