package paijorot

import (
	"strconv"
	"strings"
)

// Value is any runtime value. String returns the display form used by yap.
type Value interface {
	String() string
}

type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type String string

func (s String) String() string {
	return string(s)
}

type Boolean bool

func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

type Nil struct{}

func (Nil) String() string {
	return "nil"
}

// Function owns its body expression and carries no reference to the
// environment it was declared in.
type Function struct {
	Name   string
	Params []string
	Body   Expr
}

func (f *Function) String() string {
	return "<function " + f.Name + ">"
}

type Array []Value

func (a Array) String() string {
	elements := make([]string, len(a))
	for i, v := range a {
		elements[i] = v.String()
	}

	return "[" + strings.Join(elements, ", ") + "]"
}

// Truthy reports nil as false, a boolean as its own value, and every other
// kind as true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(v)
	default:
		return true
	}
}
