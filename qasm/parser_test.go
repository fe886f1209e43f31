package qasm

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcircuit/instr"
)

func TestParseMeasureAllScenario(t *testing.T) {
	prog, err := Parse("h q[0];\nmeasure q -> c;")
	require.NoError(t, err)
	want := []instr.Instruction{instr.H(0), instr.MeasureAll()}
	assert.Empty(t, cmp.Diff(want, prog.Instructions))
	assert.Equal(t, 0, prog.Qubits)
}

func TestParseHeaders(t *testing.T) {
	v2 := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

h q[0];
cx q[0], q[1];
`
	prog, err := Parse(v2)
	require.NoError(t, err)
	assert.Equal(t, V2, prog.Dialect)
	assert.Equal(t, 3, prog.Qubits)
	assert.Len(t, prog.Instructions, 2)

	v3 := `OPENQASM 3.0;
include "stdgates.inc";
qubit[4] q;
bit[4] c;
x q[3];
c[3] = measure q[3];
`
	prog, err = Parse(v3)
	require.NoError(t, err)
	assert.Equal(t, V3, prog.Dialect)
	assert.Equal(t, 4, prog.Qubits)
	want := []instr.Instruction{instr.X(3), instr.Measure(3, 3)}
	assert.Empty(t, cmp.Diff(want, prog.Instructions))
}

func TestParseGates(t *testing.T) {
	tests := []struct {
		line string
		want instr.Instruction
	}{
		{"h q[0];", instr.H(0)},
		{"sdg q[1];", instr.Sdg(1)},
		{"tdg q[2];", instr.Tdg(2)},
		{"rx(pi/2) q[0];", instr.RX(math.Pi/2, 0)},
		{"ry(0.25) $1;", instr.RY(0.25, 1)},
		{"rz(-pi) 2;", instr.RZ(-math.Pi, 2)},
		{"p(tau/4) q[0];", instr.P(math.Pi/2, 0)},
		{"phase(pi) q[0];", instr.P(math.Pi, 0)},
		{"u(pi, 0, pi) q[1];", instr.U(math.Pi, 0, math.Pi, 1)},
		{"u3(pi/2,pi/4,pi/8) q[0];", instr.U(math.Pi/2, math.Pi/4, math.Pi/8, 0)},
		{"cx q[0],q[1];", instr.CX(0, 1)},
		{"cnot $1, $0;", instr.CX(1, 0)},
		{"cz q[2], q[0];", instr.CZ(2, 0)},
		{"ccx q[0], q[1], q[2];", instr.CCX(0, 1, 2)},
		{"toffoli q[2], q[1], q[0];", instr.CCX(2, 1, 0)},
		{"swap q[0], q[3];", instr.Swap(0, 3)},
		{"reset q[1];", instr.Reset(1)},
		{"reset q;", instr.ResetAll()},
		{"barrier q[0], q[1];", instr.Barrier(0, 1)},
		{"barrier q;", instr.BarrierAll()},
		{"delay[100ns] q[0];", instr.Delay(100, "ns", 0)},
		{"delay[2.5us] $3;", instr.Delay(2.5, "us", 3)},
		{"measure q[1] -> c[0];", instr.Measure(1, 0)},
		{"measure q -> c;", instr.MeasureAll()},
		{"c[2] = measure q[0];", instr.Measure(0, 2)},
		{"c = measure q;", instr.MeasureAll()},
		{"x q[0]; // trailing comment", instr.X(0)},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseInstructions(tt.line)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Empty(t, cmp.Diff(tt.want, got[0]))
		})
	}
}

func TestParseNestedBlocks(t *testing.T) {
	src := `
measure q[0] -> c[0];
if (c[0] == 1) {
    x q[1];
    while (c[1] == 0) {
        h q[1];
        measure q[1] -> c[1];
    }
} else {
    for i in [0:3] {
        z q[2];
    }
}
`
	got, err := ParseInstructions(src)
	require.NoError(t, err)
	want := []instr.Instruction{
		instr.Measure(0, 0),
		instr.IfElse(0, 1,
			[]instr.Instruction{
				instr.X(1),
				instr.While(1, 0, []instr.Instruction{instr.H(1), instr.Measure(1, 1)}),
			},
			[]instr.Instruction{
				instr.For("i", 0, 3, []instr.Instruction{instr.Z(2)}),
			}),
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseBraceLayouts(t *testing.T) {
	want := []instr.Instruction{
		instr.IfElse(0, 1, []instr.Instruction{instr.X(0)}, []instr.Instruction{instr.Y(0)}),
	}
	layouts := map[string]string{
		"same line":      "if (c[0]==1) { x q[0]; } else { y q[0]; }",
		"brace next":     "if (c[0] == 1)\n{\nx q[0];\n}\nelse\n{\ny q[0];\n}",
		"else next line": "if (c[0] == 1) {\n  x q[0];\n}\nelse {\n  y q[0];\n}",
		"sugar":          "if (c[0]==1) x q[0];\nelse y q[0];",
	}
	for name, src := range layouts {
		t.Run(name, func(t *testing.T) {
			got, err := ParseInstructions(src)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseSingleLineIf(t *testing.T) {
	got, err := ParseInstructions("measure q[0] -> c[0];\nif (c[0]==1) x q[1];\nh q[1];")
	require.NoError(t, err)
	want := []instr.Instruction{
		instr.Measure(0, 0),
		instr.If(0, 1, []instr.Instruction{instr.X(1)}),
		instr.H(1),
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseTypedForLoop(t *testing.T) {
	got, err := ParseInstructions("for int k in [1:4] {\n  h q[0];\n}")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]instr.Instruction{instr.For("k", 1, 4, []instr.Instruction{instr.H(0)})}, got))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		text string
	}{
		{"unknown gate", "h q[0];\nfoo q[1];", 2, "foo q[1];"},
		{"bad angle", "rx(pi+1) q[0];", 1, "rx(pi+1) q[0];"},
		{"missing param", "rz q[0];", 1, "rz q[0];"},
		{"extra param", "h(0.5) q[0];", 1, "h(0.5) q[0];"},
		{"ccx arity", "\n\nccx q[0], q[1];", 3, "ccx q[0], q[1];"},
		{"unclosed", "x q[0];\nif (c[0] == 1) {\n  x q[1];\n", 2, "if (c[0] == 1) {"},
		{"stray close", "x q[0];\n}\n", 2, "}"},
		{"bad condition", "if (c[0] < 1) { x q[0]; }", 1, "if (c[0] < 1) { x q[0]; }"},
		{"bad for", "for i in 0..3 {\n}", 1, "for i in 0..3 {"},
		{"dangling else", "else { x q[0]; }", 1, "else { x q[0]; }"},
		{"missing brace", "while (c[0] == 0)\nx q[0];", 1, "while (c[0] == 0)"},
		{"bad operand", "x q[a];", 1, "x q[a];"},
		{"bare reset", "x q[0];\nreset;", 2, "reset;"},
		{"bare barrier", "barrier;", 1, "barrier;"},
		{"negative delay", "delay[-5ns] q[0];", 1, "delay[-5ns] q[0];"},
		{"nested unknown", "if (c[0] == 1) {\n  x q[0];\n  bogus;\n}", 3, "bogus;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, prog)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T", err)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.text, perr.Text)
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d", tt.line))
		})
	}
}

func TestGenerateDialects(t *testing.T) {
	prog := []instr.Instruction{instr.H(0), instr.CX(0, 1), instr.MeasureAll()}

	expected := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q -> c;
`
	assert.Equal(t, expected, Generate(prog, 2, V2))

	v3 := Generate(prog, 2, V3)
	assert.Contains(t, v3, "OPENQASM 3.0;\n")
	assert.Contains(t, v3, "qubit[2] q;\nbit[2] c;\n")
	assert.Contains(t, v3, "cx q[0], q[1];\n")
}

func TestGenerateNested(t *testing.T) {
	prog := []instr.Instruction{
		instr.Measure(0, 0),
		instr.IfElse(0, 1,
			[]instr.Instruction{instr.While(1, 0, []instr.Instruction{instr.RX(math.Pi/2, 1), instr.Measure(1, 1)})},
			[]instr.Instruction{instr.For("j", 0, 2, []instr.Instruction{instr.Delay(50, "ns", 1)})}),
	}
	expected := `measure q[0] -> c[0];
if (c[0] == 1) {
    while (c[1] == 0) {
        rx(pi/2) q[1];
        measure q[1] -> c[1];
    }
} else {
    for j in [0:2] {
        delay[50ns] q[1];
    }
}
`
	got := Generate(prog, 2, V2)
	assert.Contains(t, got, expected)
}

func TestRoundTrip(t *testing.T) {
	prog := []instr.Instruction{
		instr.H(0), instr.X(1), instr.Y(2), instr.Z(0), instr.S(1), instr.Sdg(1), instr.T(2), instr.Tdg(2),
		instr.RX(0.1, 0), instr.RY(math.Pi/3, 1), instr.RZ(-math.Pi/4, 2), instr.P(1.0/3, 0),
		instr.U(math.Pi/2, 0.25, -0.75, 1),
		instr.CX(0, 1), instr.CZ(1, 2), instr.CCX(0, 1, 2), instr.Swap(2, 0),
		instr.Reset(1), instr.Reset(0, 2), instr.ResetAll(),
		instr.Barrier(0, 1), instr.BarrierAll(), instr.Delay(1.5, "us", 2),
		instr.Delay(2.5e6, "ns", 0), instr.Delay(0, "dt", 1), instr.Delay(3, "µs", 2),
		instr.Measure(2, 1),
		instr.If(1, 0, []instr.Instruction{instr.X(0)}),
		instr.IfElse(0, 1, []instr.Instruction{instr.H(2)}, []instr.Instruction{instr.Measure(2, 2)}),
		instr.While(2, 1, []instr.Instruction{instr.Reset(2), instr.Measure(2, 2)}),
		instr.For("i", 0, 4, []instr.Instruction{instr.If(0, 0, []instr.Instruction{instr.T(1)})}),
		instr.MeasureAll(),
	}
	for _, d := range []Dialect{V2, V3} {
		t.Run(d.String(), func(t *testing.T) {
			text := Generate(prog, 3, d)
			parsed, err := Parse(text)
			require.NoError(t, err, text)
			assert.Equal(t, d, parsed.Dialect)
			assert.Equal(t, 3, parsed.Qubits)
			if diff := cmp.Diff(prog, parsed.Instructions); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("3.0")
	require.NoError(t, err)
	assert.Equal(t, V3, d)
	d, err = ParseDialect("v2")
	require.NoError(t, err)
	assert.Equal(t, V2, d)
	_, err = ParseDialect("4")
	assert.Error(t, err)
}
