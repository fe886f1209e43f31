package instr

import (
	"fmt"
	"math"
)

// IndexError reports a qubit or classical-bit ordinal outside [0, Limit).
type IndexError struct {
	Kind  string // "qubit" or "classical bit"
	Index int
	Limit int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Limit)
}

// ArityError reports a fixed-arity instruction with the wrong number of
// qubit operands or angle parameters.
type ArityError struct {
	Op   Op
	What string // "qubits" or "params"
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: want %d %s, got %d", e.Op, e.Want, e.What, e.Got)
}

// OperandError reports a multi-qubit instruction naming the same qubit twice.
type OperandError struct {
	Op    Op
	Qubit int
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: qubit %d used more than once", e.Op, e.Qubit)
}

// MissingOperandsError reports a qubit-list instruction with no qubits.
type MissingOperandsError struct {
	Op Op
}

func (e *MissingOperandsError) Error() string {
	return fmt.Sprintf("%s: missing operands", e.Op)
}

// DelayError reports a delay whose duration is negative or not finite, or
// whose unit is not a run of letters.
type DelayError struct {
	Duration float64
	Unit     string
}

func (e *DelayError) Error() string {
	return fmt.Sprintf("delay: invalid designator %v%q", e.Duration, e.Unit)
}

// Validate checks every instruction of prog, nested blocks included,
// against a machine of n qubits and n classical bits. It returns the first
// problem found.
func Validate(prog []Instruction, n int) error {
	var err error
	Walk(prog, func(in Instruction) bool {
		err = Check(in, n)
		return err == nil
	})
	return err
}

// Check validates a single instruction without descending into its blocks.
func Check(in Instruction, n int) error {
	if want := in.Op.Arity(); want >= 0 && len(in.Qubits) != want {
		return &ArityError{Op: in.Op, What: "qubits", Want: want, Got: len(in.Qubits)}
	}
	if want := in.Op.NumParams(); len(in.Params) != want {
		return &ArityError{Op: in.Op, What: "params", Want: want, Got: len(in.Params)}
	}
	for _, q := range in.Qubits {
		if q < 0 || q >= n {
			return &IndexError{Kind: "qubit", Index: q, Limit: n}
		}
	}
	if in.Op.IsGate() && len(in.Qubits) > 1 {
		seen := make(map[int]bool, len(in.Qubits))
		for _, q := range in.Qubits {
			if seen[q] {
				return &OperandError{Op: in.Op, Qubit: q}
			}
			seen[q] = true
		}
	}
	switch in.Op {
	case OpReset, OpBarrier:
		if len(in.Qubits) == 0 {
			return &MissingOperandsError{Op: in.Op}
		}
	case OpDelay:
		if in.Duration < 0 || math.IsInf(in.Duration, 0) || math.IsNaN(in.Duration) || !validUnit(in.Unit) {
			return &DelayError{Duration: in.Duration, Unit: in.Unit}
		}
	case OpMeasure, OpIf, OpIfElse, OpWhile:
		if in.Bit < 0 || in.Bit >= n {
			return &IndexError{Kind: "classical bit", Index: in.Bit, Limit: n}
		}
	}
	return nil
}

func validUnit(u string) bool {
	for _, r := range u {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != 'µ' {
			return false
		}
	}
	return true
}
