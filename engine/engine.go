// Package engine interprets instruction trees against a state vector and a
// classical register file.
package engine

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	log "github.com/sirupsen/logrus"

	"qcircuit/instr"
	"qcircuit/statevec"
)

// DefaultMaxLoopIterations bounds each while loop unless overridden.
const DefaultMaxLoopIterations = 100_000

// LoopLimitError is returned when a while loop exceeds its iteration ceiling.
type LoopLimitError struct {
	Bit   int
	Value int
	Limit int
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("while (c[%d] == %d) exceeded %d iterations", e.Bit, e.Value, e.Limit)
}

// Engine runs programs. It is not safe for concurrent use when its random
// source is not.
type Engine struct {
	rng     statevec.Source
	maxLoop int
	log     *log.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for measurement sampling.
func WithSource(src statevec.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithSeed seeds a PCG source for reproducible measurements.
func WithSeed(seed uint64) Option {
	return WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithMaxLoopIterations sets the per-loop iteration ceiling; 0 removes it.
func WithMaxLoopIterations(n int) Option {
	return func(e *Engine) { e.maxLoop = n }
}

// WithLogger routes debug tracing to entry.
func WithLogger(entry *log.Entry) Option {
	return func(e *Engine) { e.log = entry }
}

// New returns an Engine. Without options it samples from an unseeded
// source and caps while loops at DefaultMaxLoopIterations.
func New(opts ...Option) *Engine {
	e := &Engine{maxLoop: DefaultMaxLoopIterations}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.log == nil {
		e.log = log.NewEntry(log.StandardLogger())
	}
	return e
}

// Run validates prog against vec and executes it. The classical register
// file starts zeroed on every call. It returns the measurement outcomes in
// execution order: "0" or "1" for single-qubit measurements and an n-bit
// string for measure-all.
func (e *Engine) Run(prog []instr.Instruction, vec *statevec.Vector) ([]string, error) {
	n := vec.NumQubits()
	if err := instr.Validate(prog, n); err != nil {
		return nil, err
	}
	r := &run{
		Engine: e,
		vec:    vec,
		regs:   make([]int, n),
		out:    []string{},
	}
	if err := r.exec(prog, 0); err != nil {
		return nil, err
	}
	e.log.WithField("outcomes", len(r.out)).Debug("program finished")
	return r.out, nil
}

// run is the mutable state of one Run call.
type run struct {
	*Engine
	vec  *statevec.Vector
	regs []int
	out  []string
}

func (r *run) exec(prog []instr.Instruction, depth int) error {
	for _, in := range prog {
		if err := r.step(in, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) step(in instr.Instruction, depth int) error {
	q := in.Qubits
	switch in.Op {
	case instr.OpCX:
		r.vec.ApplyControlled(statevec.PauliX, q[0], q[1])
	case instr.OpCZ:
		r.vec.ApplyControlled(statevec.PauliZ, q[0], q[1])
	case instr.OpCCX:
		r.vec.Toffoli(q[0], q[1], q[2])
	case instr.OpSwap:
		r.vec.Swap(q[0], q[1])
	case instr.OpReset:
		for _, t := range q {
			r.vec.Reset(t, r.rng)
		}
	case instr.OpResetAll:
		r.vec.ResetAll()
	case instr.OpBarrier, instr.OpBarrierAll, instr.OpDelay:
	case instr.OpMeasure:
		outcome := r.vec.Measure(q[0], r.rng)
		r.regs[in.Bit] = outcome
		r.out = append(r.out, strconv.Itoa(outcome))
	case instr.OpMeasureAll:
		bits := r.vec.MeasureAll(r.rng)
		for i := range bits {
			r.regs[i] = int(bits[i] - '0')
		}
		r.out = append(r.out, bits)
	case instr.OpIf:
		if r.regs[in.Bit] == in.Value {
			return r.exec(in.Body, depth+1)
		}
	case instr.OpIfElse:
		if r.regs[in.Bit] == in.Value {
			return r.exec(in.Body, depth+1)
		}
		return r.exec(in.Else, depth+1)
	case instr.OpWhile:
		return r.loop(in, depth)
	case instr.OpFor:
		for i := in.Start; i < in.End; i++ {
			if err := r.exec(in.Body, depth+1); err != nil {
				return err
			}
		}
	default:
		m, ok := Matrix(in)
		if !ok {
			return fmt.Errorf("unsupported instruction %s", in.Op)
		}
		r.vec.Apply(m, q[0])
	}
	return nil
}

func (r *run) loop(in instr.Instruction, depth int) error {
	iterations := 0
	for r.regs[in.Bit] == in.Value {
		if r.maxLoop > 0 && iterations >= r.maxLoop {
			return &LoopLimitError{Bit: in.Bit, Value: in.Value, Limit: r.maxLoop}
		}
		if err := r.exec(in.Body, depth+1); err != nil {
			return err
		}
		iterations++
	}
	r.log.WithFields(log.Fields{"bit": in.Bit, "depth": depth, "iterations": iterations}).Debug("while loop exited")
	return nil
}

// Matrix returns the operator of a single-qubit gate instruction.
func Matrix(in instr.Instruction) (statevec.Matrix, bool) {
	p := in.Params
	switch in.Op {
	case instr.OpH:
		return statevec.Hadamard, true
	case instr.OpX:
		return statevec.PauliX, true
	case instr.OpY:
		return statevec.PauliY, true
	case instr.OpZ:
		return statevec.PauliZ, true
	case instr.OpS:
		return statevec.S, true
	case instr.OpSdg:
		return statevec.Sdg, true
	case instr.OpT:
		return statevec.T, true
	case instr.OpTdg:
		return statevec.Tdg, true
	case instr.OpRX:
		return statevec.RX(p[0]), true
	case instr.OpRY:
		return statevec.RY(p[0]), true
	case instr.OpRZ:
		return statevec.RZ(p[0]), true
	case instr.OpP:
		return statevec.Phase(p[0]), true
	case instr.OpU:
		return statevec.U(p[0], p[1], p[2]), true
	}
	return statevec.Matrix{}, false
}
