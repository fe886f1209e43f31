package circuit

import (
	"qcircuit/instr"
	"qcircuit/qasm"
)

// Parse builds a circuit from program text. The qubit count is one more
// than the highest qubit ordinal referenced anywhere in the program,
// nested blocks included; register declarations are not consulted.
func Parse(text string, opts ...Option) (*Circuit, error) {
	prog, err := qasm.ParseInstructions(text)
	if err != nil {
		return nil, err
	}
	c := New(max(instr.MaxQubit(prog)+1, 1), opts...)
	c.Append(prog...)
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// FromText parses and executes program text in one step.
func FromText(text string, opts ...Option) ([]string, error) {
	c, err := Parse(text, opts...)
	if err != nil {
		return nil, err
	}
	return c.Execute()
}
