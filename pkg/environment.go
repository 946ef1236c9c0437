package paijorot

import "fmt"

// Environment is a single generation of name to value bindings. There is no
// enclosing-scope chain: a function call gets a brand-new Environment that
// holds only its parameters.
type Environment struct {
	values map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{
		values: make(map[string]Value),
	}
}

// Define inserts or overwrites unconditionally.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

func (e *Environment) Get(name string) (Value, error) {
	value, ok := e.values[name]
	if !ok {
		return nil, &RuntimeError{Msg: fmt.Sprintf("Undefined variable '%s'.", name)}
	}

	return value, nil
}

// Assign mutates an existing binding; it never declares.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; !ok {
		return &RuntimeError{Msg: fmt.Sprintf("Undefined variable '%s'.", name)}
	}

	e.values[name] = value

	return nil
}
