// Package circuit is the builder-facing API: it records instructions,
// renders them as program text, and executes them on demand.
package circuit

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"qcircuit/engine"
	"qcircuit/instr"
	"qcircuit/qasm"
	"qcircuit/statevec"
)

// MaxQubits bounds the register size; the state vector holds 2^n amplitudes.
const MaxQubits = 30

// Circuit accumulates a program for a fixed number of qubits. Builder
// methods append one instruction and return the circuit for chaining. The
// first invalid append is remembered and reported by Err and Execute; later
// appends are ignored.
type Circuit struct {
	n        int
	prog     []instr.Instruction
	state    *statevec.Vector
	executed bool
	err      error

	engineOpts []engine.Option
	eng        *engine.Engine
	log        *log.Entry
}

// Option configures a Circuit.
type Option func(*Circuit)

// WithSource sets the random source used for measurement.
func WithSource(src statevec.Source) Option {
	return func(c *Circuit) { c.engineOpts = append(c.engineOpts, engine.WithSource(src)) }
}

// WithSeed makes measurement outcomes reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Circuit) { c.engineOpts = append(c.engineOpts, engine.WithSeed(seed)) }
}

// WithMaxLoopIterations sets the while-loop ceiling; 0 removes it.
func WithMaxLoopIterations(n int) Option {
	return func(c *Circuit) { c.engineOpts = append(c.engineOpts, engine.WithMaxLoopIterations(n)) }
}

// WithLogger routes debug output of the builder and engine to entry.
func WithLogger(entry *log.Entry) Option {
	return func(c *Circuit) { c.log = entry }
}

// New returns an empty circuit on n qubits and n classical bits.
func New(n int, opts ...Option) *Circuit {
	c := &Circuit{n: n}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = log.NewEntry(log.StandardLogger())
	}
	c.log = c.log.WithField("qubits", n)
	if n <= 0 || n > MaxQubits {
		c.err = fmt.Errorf("qubit count %d out of range [1, %d]", n, MaxQubits)
	}
	return c
}

// engine returns the engine shared by every Execute call.
func (c *Circuit) engine() *engine.Engine {
	if c.eng == nil {
		c.eng = engine.New(append(c.engineOpts, engine.WithLogger(c.log))...)
	}
	return c.eng
}

func (c *Circuit) NumQubits() int { return c.n }

// Err returns the first error recorded while building.
func (c *Circuit) Err() error { return c.err }

// Program returns a copy of the recorded instructions.
func (c *Circuit) Program() []instr.Instruction { return instr.Clone(c.prog) }

// Len is the number of top-level instructions.
func (c *Circuit) Len() int { return len(c.prog) }

// Append validates and records instructions, which may carry nested blocks.
func (c *Circuit) Append(ins ...instr.Instruction) *Circuit {
	for _, in := range ins {
		if c.err != nil {
			return c
		}
		if err := instr.Validate([]instr.Instruction{in}, c.n); err != nil {
			c.err = fmt.Errorf("append %s: %w", in, err)
			return c
		}
		c.prog = append(c.prog, in)
	}
	return c
}

// Block builds a nested instruction sequence for the control-flow methods
// using the same register size. Errors in the block become errors of c.
func (c *Circuit) Block(build func(b *Circuit)) []instr.Instruction {
	b := &Circuit{n: c.n, log: c.log}
	build(b)
	if b.err != nil && c.err == nil {
		c.err = b.err
	}
	return b.prog
}

func (c *Circuit) H(q int) *Circuit   { return c.Append(instr.H(q)) }
func (c *Circuit) X(q int) *Circuit   { return c.Append(instr.X(q)) }
func (c *Circuit) Y(q int) *Circuit   { return c.Append(instr.Y(q)) }
func (c *Circuit) Z(q int) *Circuit   { return c.Append(instr.Z(q)) }
func (c *Circuit) S(q int) *Circuit   { return c.Append(instr.S(q)) }
func (c *Circuit) Sdg(q int) *Circuit { return c.Append(instr.Sdg(q)) }
func (c *Circuit) T(q int) *Circuit   { return c.Append(instr.T(q)) }
func (c *Circuit) Tdg(q int) *Circuit { return c.Append(instr.Tdg(q)) }

func (c *Circuit) RX(theta float64, q int) *Circuit { return c.Append(instr.RX(theta, q)) }
func (c *Circuit) RY(theta float64, q int) *Circuit { return c.Append(instr.RY(theta, q)) }
func (c *Circuit) RZ(theta float64, q int) *Circuit { return c.Append(instr.RZ(theta, q)) }

// P applies the phase gate diag(1, e^{i theta}).
func (c *Circuit) P(theta float64, q int) *Circuit { return c.Append(instr.P(theta, q)) }

// U applies the general rotation u(theta, phi, lambda).
func (c *Circuit) U(theta, phi, lambda float64, q int) *Circuit {
	return c.Append(instr.U(theta, phi, lambda, q))
}

func (c *Circuit) CX(control, target int) *Circuit { return c.Append(instr.CX(control, target)) }
func (c *Circuit) CZ(control, target int) *Circuit { return c.Append(instr.CZ(control, target)) }
func (c *Circuit) Swap(a, b int) *Circuit          { return c.Append(instr.Swap(a, b)) }

// CCX applies the Toffoli gate.
func (c *Circuit) CCX(c0, c1, target int) *Circuit { return c.Append(instr.CCX(c0, c1, target)) }

// ResetQubits returns the listed qubits to |0> without touching classical
// bits. Reset clears the whole circuit instead.
func (c *Circuit) ResetQubits(qubits ...int) *Circuit { return c.Append(instr.Reset(qubits...)) }

func (c *Circuit) ResetAll() *Circuit             { return c.Append(instr.ResetAll()) }
func (c *Circuit) Barrier(qubits ...int) *Circuit { return c.Append(instr.Barrier(qubits...)) }
func (c *Circuit) BarrierAll() *Circuit           { return c.Append(instr.BarrierAll()) }
func (c *Circuit) Measure(q, bit int) *Circuit    { return c.Append(instr.Measure(q, bit)) }
func (c *Circuit) MeasureAll() *Circuit           { return c.Append(instr.MeasureAll()) }

// Delay idles qubit q; it has no effect on the state.
func (c *Circuit) Delay(d float64, unit string, q int) *Circuit {
	return c.Append(instr.Delay(d, unit, q))
}

// IfEq runs body when classical bit equals value.
func (c *Circuit) IfEq(bit, value int, body []instr.Instruction) *Circuit {
	return c.Append(instr.If(bit, value, body))
}

// IfElse runs body when classical bit equals value and alt otherwise.
func (c *Circuit) IfElse(bit, value int, body, alt []instr.Instruction) *Circuit {
	return c.Append(instr.IfElse(bit, value, body, alt))
}

// WhileEq repeats body while classical bit equals value.
func (c *Circuit) WhileEq(bit, value int, body []instr.Instruction) *Circuit {
	return c.Append(instr.While(bit, value, body))
}

// For repeats body end-start times.
func (c *Circuit) For(name string, start, end int, body []instr.Instruction) *Circuit {
	return c.Append(instr.For(name, start, end, body))
}

// HAll applies a Hadamard to every qubit.
func (c *Circuit) HAll() *Circuit {
	for q := range c.n {
		c.H(q)
	}
	return c
}

// XAll flips every qubit.
func (c *Circuit) XAll() *Circuit {
	for q := range c.n {
		c.X(q)
	}
	return c
}

// ToText renders the program in the OpenQASM 2.0 dialect.
func (c *Circuit) ToText() string { return c.Text(qasm.V2) }

// Text renders the program in dialect d. It never executes anything.
func (c *Circuit) Text(d qasm.Dialect) string {
	return qasm.Generate(c.prog, c.n, d)
}

// Execute runs the program from a fresh |0...0> state and returns the
// measurement outcomes in order. The final state stays available through
// State until the next Execute or Reset.
func (c *Circuit) Execute() ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	vec := statevec.New(c.n)
	out, err := c.engine().Run(c.prog, vec)
	if err != nil {
		c.state, c.executed = nil, false
		return nil, err
	}
	c.state, c.executed = vec, true
	return out, nil
}

// Reset clears the program, the state and any recorded build error.
func (c *Circuit) Reset() *Circuit {
	c.prog = nil
	c.state = nil
	c.executed = false
	if c.n > 0 && c.n <= MaxQubits {
		c.err = nil
	}
	return c
}

func (c *Circuit) IsExecuted() bool { return c.executed }

// State returns a copy of the amplitudes left by the last Execute.
func (c *Circuit) State() ([]complex128, bool) {
	if !c.executed {
		return nil, false
	}
	return c.state.Amplitudes(), true
}

// Probabilities returns the non-negligible basis-state probabilities left
// by the last Execute, keyed by bit string.
func (c *Circuit) Probabilities() (map[string]float64, bool) {
	if !c.executed {
		return nil, false
	}
	return c.state.ProbabilityMap(), true
}
