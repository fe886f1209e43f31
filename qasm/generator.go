// Package qasm converts between instruction trees and OpenQASM-style
// program text.
package qasm

import (
	"fmt"
	"strconv"
	"strings"

	"qcircuit/instr"
)

// Dialect selects the header and declaration syntax. Instruction syntax is
// shared by both.
type Dialect int

const (
	V2 Dialect = iota // OPENQASM 2.0, qreg/creg
	V3                // OPENQASM 3.0, qubit[n]/bit[n]
)

func (d Dialect) String() string {
	if d == V3 {
		return "3.0"
	}
	return "2.0"
}

// ParseDialect accepts "2", "2.0", "3", "3.0" and the same with a
// leading "v".
func ParseDialect(s string) (Dialect, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "2", "2.0", "":
		return V2, nil
	case "3", "3.0":
		return V3, nil
	}
	return V2, fmt.Errorf("unknown dialect %q", s)
}

const indent = "    "

// Generate renders prog as program text for a machine of n qubits and n
// classical bits.
func Generate(prog []instr.Instruction, n int, d Dialect) string {
	var sb strings.Builder
	switch d {
	case V3:
		sb.WriteString("OPENQASM 3.0;\n")
		sb.WriteString("include \"stdgates.inc\";\n\n")
		fmt.Fprintf(&sb, "qubit[%d] q;\n", n)
		fmt.Fprintf(&sb, "bit[%d] c;\n\n", n)
	default:
		sb.WriteString("OPENQASM 2.0;\n")
		sb.WriteString("include \"qelib1.inc\";\n\n")
		fmt.Fprintf(&sb, "qreg q[%d];\n", n)
		fmt.Fprintf(&sb, "creg c[%d];\n\n", n)
	}
	writeBlock(&sb, prog, 0)
	return sb.String()
}

func writeBlock(sb *strings.Builder, prog []instr.Instruction, depth int) {
	pad := strings.Repeat(indent, depth)
	for _, in := range prog {
		sb.WriteString(pad)
		switch in.Op {
		case instr.OpIf, instr.OpIfElse:
			fmt.Fprintf(sb, "if (c[%d] == %d) {\n", in.Bit, in.Value)
			writeBlock(sb, in.Body, depth+1)
			if in.Op == instr.OpIfElse {
				fmt.Fprintf(sb, "%s} else {\n", pad)
				writeBlock(sb, in.Else, depth+1)
			}
			fmt.Fprintf(sb, "%s}\n", pad)
		case instr.OpWhile:
			fmt.Fprintf(sb, "while (c[%d] == %d) {\n", in.Bit, in.Value)
			writeBlock(sb, in.Body, depth+1)
			fmt.Fprintf(sb, "%s}\n", pad)
		case instr.OpFor:
			name := in.Var
			if name == "" {
				name = "i"
			}
			fmt.Fprintf(sb, "for %s in [%d:%d] {\n", name, in.Start, in.End)
			writeBlock(sb, in.Body, depth+1)
			fmt.Fprintf(sb, "%s}\n", pad)
		default:
			sb.WriteString(Statement(in))
			sb.WriteString(";\n")
		}
	}
}

// Statement renders a single non-control-flow instruction without the
// trailing semicolon.
func Statement(in instr.Instruction) string {
	switch in.Op {
	case instr.OpResetAll:
		return "reset q"
	case instr.OpBarrierAll:
		return "barrier q"
	case instr.OpMeasureAll:
		return "measure q -> c"
	case instr.OpMeasure:
		return fmt.Sprintf("measure q[%d] -> c[%d]", in.Target(), in.Bit)
	case instr.OpDelay:
		return fmt.Sprintf("delay[%s%s] q[%d]", strconv.FormatFloat(in.Duration, 'g', -1, 64), in.Unit, in.Target())
	}

	var sb strings.Builder
	sb.WriteString(in.Op.String())
	if len(in.Params) > 0 {
		sb.WriteByte('(')
		for i, p := range in.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(FormatAngle(p))
		}
		sb.WriteByte(')')
	}
	for i, q := range in.Qubits {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, " q[%d]", q)
	}
	return sb.String()
}
