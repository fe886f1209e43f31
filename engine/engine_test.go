package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcircuit/instr"
	"qcircuit/statevec"
)

func runProgram(t *testing.T, n int, prog []instr.Instruction, opts ...Option) ([]string, *statevec.Vector) {
	t.Helper()
	vec := statevec.New(n)
	out, err := New(append([]Option{WithSeed(42)}, opts...)...).Run(prog, vec)
	require.NoError(t, err)
	return out, vec
}

func TestMeasureFlippedQubit(t *testing.T) {
	for range 20 {
		out, _ := runProgram(t, 1, []instr.Instruction{instr.X(0), instr.Measure(0, 0)})
		assert.Equal(t, []string{"1"}, out)
	}
}

func TestNonMeasurementsProduceNoOutcomes(t *testing.T) {
	out, vec := runProgram(t, 2, []instr.Instruction{
		instr.H(0), instr.Barrier(0, 1), instr.BarrierAll(), instr.Delay(10, "ns", 1), instr.H(0),
	})
	assert.Empty(t, out)
	assert.InDelta(t, 1.0, vec.Probability(0), 1e-9)
}

func TestBellOutcomesCorrelate(t *testing.T) {
	e := New(WithSeed(3))
	for range 50 {
		vec := statevec.New(2)
		out, err := e.Run([]instr.Instruction{instr.H(0), instr.CX(0, 1), instr.MeasureAll()}, vec)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Contains(t, []string{"00", "11"}, out[0])
	}
}

func TestToffoliScenario(t *testing.T) {
	out, _ := runProgram(t, 3, []instr.Instruction{instr.X(0), instr.X(1), instr.CCX(0, 1, 2), instr.MeasureAll()})
	assert.Equal(t, []string{"111"}, out)
}

func TestIfElseBranches(t *testing.T) {
	prog := func(prep ...instr.Instruction) []instr.Instruction {
		return append(prep,
			instr.Measure(0, 0),
			instr.IfElse(0, 1,
				[]instr.Instruction{instr.X(1)},
				[]instr.Instruction{instr.X(2)}),
			instr.Measure(1, 1),
			instr.Measure(2, 2),
		)
	}
	out, _ := runProgram(t, 3, prog(instr.X(0)))
	assert.Equal(t, []string{"1", "1", "0"}, out)

	out, _ = runProgram(t, 3, prog())
	assert.Equal(t, []string{"0", "0", "1"}, out)
}

func TestMeasureAllFeedsRegisters(t *testing.T) {
	out, _ := runProgram(t, 2, []instr.Instruction{
		instr.X(1),
		instr.MeasureAll(),
		instr.If(1, 1, []instr.Instruction{instr.X(0)}),
		instr.MeasureAll(),
	})
	assert.Equal(t, []string{"01", "11"}, out)
}

func TestForRepeatsBody(t *testing.T) {
	// Three flips leave the qubit at |1>.
	out, _ := runProgram(t, 1, []instr.Instruction{
		instr.For("i", 0, 3, []instr.Instruction{instr.X(0)}),
		instr.Measure(0, 0),
	})
	assert.Equal(t, []string{"1"}, out)

	out, _ = runProgram(t, 1, []instr.Instruction{
		instr.For("i", 2, 2, []instr.Instruction{instr.X(0)}),
		instr.Measure(0, 0),
	})
	assert.Equal(t, []string{"0"}, out)
}

func TestWhileRepeatUntilSuccess(t *testing.T) {
	// Retry a fair coin until it lands on 1.
	out, vec := runProgram(t, 1, []instr.Instruction{
		instr.While(0, 0, []instr.Instruction{
			instr.Reset(0),
			instr.H(0),
			instr.Measure(0, 0),
		}),
	})
	require.NotEmpty(t, out)
	assert.Equal(t, "1", out[len(out)-1])
	for _, o := range out[:len(out)-1] {
		assert.Equal(t, "0", o)
	}
	assert.InDelta(t, 1.0, vec.Probability(1), 1e-9)
}

func TestWhileLimit(t *testing.T) {
	vec := statevec.New(1)
	_, err := New(WithSeed(1), WithMaxLoopIterations(25)).Run([]instr.Instruction{
		instr.While(0, 0, []instr.Instruction{instr.X(0), instr.X(0)}),
	}, vec)
	var limit *LoopLimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, 25, limit.Limit)
}

func TestResetForcesZeroWithoutOutcome(t *testing.T) {
	out, vec := runProgram(t, 2, []instr.Instruction{
		instr.H(0), instr.CX(0, 1), instr.Reset(0, 1),
	})
	assert.Empty(t, out)
	assert.InDelta(t, 1.0, vec.Probability(0), 1e-9)

	out, vec = runProgram(t, 2, []instr.Instruction{instr.X(0), instr.H(1), instr.ResetAll(), instr.MeasureAll()})
	assert.Equal(t, []string{"00"}, out)
	assert.InDelta(t, 1.0, vec.Norm(), 1e-9)
}

func TestRegistersStartZeroEachRun(t *testing.T) {
	e := New(WithSeed(9))
	prog := []instr.Instruction{
		instr.If(0, 0, []instr.Instruction{instr.X(0)}),
		instr.Measure(0, 0),
	}
	for range 3 {
		out, err := e.Run(prog, statevec.New(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, out)
	}
}

func TestRunValidatesBeforeExecuting(t *testing.T) {
	vec := statevec.New(2)
	_, err := New().Run([]instr.Instruction{
		instr.X(0),
		instr.If(0, 1, []instr.Instruction{instr.Gate(instr.OpCCX, 0, 1)}),
	}, vec)
	var arity *instr.ArityError
	require.True(t, errors.As(err, &arity))
	// Nothing ran.
	assert.Equal(t, 1.0, vec.Probability(0))

	_, err = New().Run([]instr.Instruction{instr.Measure(0, 5)}, vec)
	var idx *instr.IndexError
	require.True(t, errors.As(err, &idx))
	assert.Equal(t, "classical bit", idx.Kind)
}

func TestNormalisationAfterMixedProgram(t *testing.T) {
	_, vec := runProgram(t, 3, []instr.Instruction{
		instr.H(0), instr.RY(0.7, 1), instr.CX(0, 2), instr.U(0.3, 0.2, 0.1, 2),
		instr.Measure(1, 1), instr.CZ(1, 0), instr.T(2), instr.Swap(0, 2), instr.Measure(0, 0),
	})
	assert.InDelta(t, 1.0, vec.Norm(), 1e-9)
}
