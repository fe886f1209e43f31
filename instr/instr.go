// Package instr defines the program representation shared by the builder,
// the text codec and the execution engine.
package instr

import (
	"fmt"
	"strings"
)

// Op identifies the kind of an Instruction.
type Op int

const (
	OpH Op = iota
	OpX
	OpY
	OpZ
	OpS
	OpSdg
	OpT
	OpTdg
	OpRX
	OpRY
	OpRZ
	OpP
	OpU
	OpCX
	OpCZ
	OpCCX
	OpSwap
	OpReset
	OpResetAll
	OpBarrier
	OpBarrierAll
	OpDelay
	OpMeasure
	OpMeasureAll
	OpIf
	OpIfElse
	OpWhile
	OpFor
)

var opNames = [...]string{
	OpH:          "h",
	OpX:          "x",
	OpY:          "y",
	OpZ:          "z",
	OpS:          "s",
	OpSdg:        "sdg",
	OpT:          "t",
	OpTdg:        "tdg",
	OpRX:         "rx",
	OpRY:         "ry",
	OpRZ:         "rz",
	OpP:          "p",
	OpU:          "u",
	OpCX:         "cx",
	OpCZ:         "cz",
	OpCCX:        "ccx",
	OpSwap:       "swap",
	OpReset:      "reset",
	OpResetAll:   "reset",
	OpBarrier:    "barrier",
	OpBarrierAll: "barrier",
	OpDelay:      "delay",
	OpMeasure:    "measure",
	OpMeasureAll: "measure",
	OpIf:         "if",
	OpIfElse:     "if",
	OpWhile:      "while",
	OpFor:        "for",
}

// String returns the keyword used for the op in program text.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Arity is the number of qubit operands the op requires, or -1 when the
// operand list is variable or absent.
func (o Op) Arity() int {
	switch o {
	case OpH, OpX, OpY, OpZ, OpS, OpSdg, OpT, OpTdg, OpRX, OpRY, OpRZ, OpP, OpU, OpDelay, OpMeasure:
		return 1
	case OpCX, OpCZ, OpSwap:
		return 2
	case OpCCX:
		return 3
	}
	return -1
}

// NumParams is the number of angle parameters the op carries.
func (o Op) NumParams() int {
	switch o {
	case OpRX, OpRY, OpRZ, OpP:
		return 1
	case OpU:
		return 3
	}
	return 0
}

// IsGate reports whether the op is a unitary gate.
func (o Op) IsGate() bool {
	return o >= OpH && o <= OpSwap
}

// IsControlFlow reports whether the op carries nested instruction blocks.
func (o Op) IsControlFlow() bool {
	return o >= OpIf && o <= OpFor
}

// Instruction is one node of a program tree. Which fields are meaningful
// depends on Op:
//
//   - gates: Qubits (controls first, target last) and Params
//   - OpReset, OpBarrier: Qubits
//   - OpDelay: Qubits, Duration, Unit
//   - OpMeasure: Qubits[0] and Bit
//   - OpIf, OpIfElse, OpWhile: Bit, Value, Body (and Else)
//   - OpFor: Var, Start, End, Body
type Instruction struct {
	Op       Op
	Qubits   []int
	Params   []float64
	Bit      int
	Value    int
	Duration float64
	Unit     string
	Var      string
	Start    int
	End      int
	Body     []Instruction
	Else     []Instruction
}

// Target returns the last qubit operand, or -1 if there is none.
func (in Instruction) Target() int {
	if len(in.Qubits) == 0 {
		return -1
	}
	return in.Qubits[len(in.Qubits)-1]
}

// String renders the instruction on a single line, mostly for logs and
// test failure messages. Nested blocks are summarised by their length.
func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())
	if len(in.Params) > 0 {
		sb.WriteByte('(')
		for i, p := range in.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", p)
		}
		sb.WriteByte(')')
	}
	switch in.Op {
	case OpResetAll, OpBarrierAll:
		sb.WriteString(" q")
	case OpMeasureAll:
		sb.WriteString(" q -> c")
	case OpMeasure:
		fmt.Fprintf(&sb, " q[%d] -> c[%d]", in.Target(), in.Bit)
	case OpDelay:
		fmt.Fprintf(&sb, "[%g%s] q[%d]", in.Duration, in.Unit, in.Target())
	case OpIf, OpWhile:
		fmt.Fprintf(&sb, " (c[%d] == %d) {%d}", in.Bit, in.Value, len(in.Body))
	case OpIfElse:
		fmt.Fprintf(&sb, " (c[%d] == %d) {%d} else {%d}", in.Bit, in.Value, len(in.Body), len(in.Else))
	case OpFor:
		fmt.Fprintf(&sb, " %s in [%d:%d] {%d}", in.Var, in.Start, in.End, len(in.Body))
	default:
		for i, q := range in.Qubits {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, " q[%d]", q)
		}
	}
	return sb.String()
}

// Walk visits every instruction of prog in program order, descending into
// nested blocks before moving on to the next sibling. Returning false from
// fn stops the walk.
func Walk(prog []Instruction, fn func(Instruction) bool) bool {
	for _, in := range prog {
		if !fn(in) {
			return false
		}
		if !Walk(in.Body, fn) || !Walk(in.Else, fn) {
			return false
		}
	}
	return true
}

// MaxQubit returns the highest qubit ordinal referenced anywhere in prog,
// or -1 when no instruction names a qubit.
func MaxQubit(prog []Instruction) int {
	highest := -1
	Walk(prog, func(in Instruction) bool {
		for _, q := range in.Qubits {
			highest = max(highest, q)
		}
		return true
	})
	return highest
}

// Count returns the number of instructions in prog, nested ones included.
func Count(prog []Instruction) int {
	n := 0
	Walk(prog, func(Instruction) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of prog.
func Clone(prog []Instruction) []Instruction {
	if prog == nil {
		return nil
	}
	out := make([]Instruction, len(prog))
	for i, in := range prog {
		in.Qubits = cloneInts(in.Qubits)
		if in.Params != nil {
			in.Params = append([]float64(nil), in.Params...)
		}
		in.Body = Clone(in.Body)
		in.Else = Clone(in.Else)
		out[i] = in
	}
	return out
}

func cloneInts(xs []int) []int {
	if xs == nil {
		return nil
	}
	return append([]int(nil), xs...)
}
