package statevec

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

// fixed always returns the same sample.
type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func assertAmps(t *testing.T, want []complex128, v *Vector) {
	t.Helper()
	require.Equal(t, len(want), v.Len())
	for i, w := range want {
		got := v.Amplitude(i)
		assert.InDelta(t, real(w), real(got), tol, "re amp[%d]", i)
		assert.InDelta(t, imag(w), imag(got), tol, "im amp[%d]", i)
	}
}

func TestQubitZeroIsMostSignificant(t *testing.T) {
	v := New(3)
	v.Apply(PauliX, 0)
	assert.Equal(t, 1.0, v.Probability(0b100))
	assert.Equal(t, "100", v.MeasureAll(seeded()))

	v = New(3)
	v.Apply(PauliX, 2)
	assert.Equal(t, 1.0, v.Probability(0b001))
	assert.Equal(t, "001", BitString(1, 3))
}

func TestSingleQubitGates(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)
	tests := []struct {
		name string
		prep []Matrix
		gate Matrix
		want []complex128
	}{
		{"h", nil, Hadamard, []complex128{s, s}},
		{"h on one", []Matrix{PauliX}, Hadamard, []complex128{s, -s}},
		{"x", nil, PauliX, []complex128{0, 1}},
		{"y", nil, PauliY, []complex128{0, 1i}},
		{"z on one", []Matrix{PauliX}, PauliZ, []complex128{0, -1}},
		{"s on one", []Matrix{PauliX}, S, []complex128{0, 1i}},
		{"t on one", []Matrix{PauliX}, T, []complex128{0, cmplx.Exp(1i * math.Pi / 4)}},
		{"rx pi", nil, RX(math.Pi), []complex128{0, -1i}},
		{"ry pi", nil, RY(math.Pi), []complex128{0, 1}},
		{"rz", nil, RZ(math.Pi), []complex128{-1i, 0}},
		{"u as x", nil, U(math.Pi, 0, math.Pi), []complex128{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(1)
			for _, m := range tt.prep {
				v.Apply(m, 0)
			}
			v.Apply(tt.gate, 0)
			assertAmps(t, tt.want, v)
		})
	}
}

func TestSelfInverseCancels(t *testing.T) {
	for _, m := range []Matrix{Hadamard, PauliX, PauliY, PauliZ} {
		v := New(2)
		v.Apply(Hadamard, 0)
		v.Apply(RY(0.3), 1)
		before := v.Amplitudes()
		v.Apply(m, 1)
		v.Apply(m, 1)
		assertAmps(t, before, v)
	}
	v := New(2)
	v.Apply(RX(0.7), 0)
	before := v.Amplitudes()
	v.Apply(S, 0)
	v.Apply(Sdg, 0)
	v.Apply(T, 0)
	v.Apply(Tdg, 0)
	assertAmps(t, before, v)
}

func TestControlledLeavesControlZeroAlone(t *testing.T) {
	v := New(2)
	v.ApplyControlled(PauliX, 0, 1)
	assertAmps(t, []complex128{1, 0, 0, 0}, v)

	v.Apply(PauliX, 0)
	v.ApplyControlled(PauliX, 0, 1)
	assertAmps(t, []complex128{0, 0, 0, 1}, v)
}

func TestBellState(t *testing.T) {
	v := New(2)
	v.Apply(Hadamard, 0)
	v.ApplyControlled(PauliX, 0, 1)
	probs := v.ProbabilityMap()
	assert.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs["00"], tol)
	assert.InDelta(t, 0.5, probs["11"], tol)
}

func TestToffoli(t *testing.T) {
	v := New(3)
	v.Apply(PauliX, 0)
	v.Toffoli(0, 1, 2)
	assert.Equal(t, 1.0, v.Probability(0b100))

	v.Apply(PauliX, 1)
	v.Toffoli(0, 1, 2)
	assert.Equal(t, 1.0, v.Probability(0b111))
}

func TestSwap(t *testing.T) {
	v := New(3)
	v.Apply(PauliX, 0)
	v.Swap(0, 2)
	assert.Equal(t, 1.0, v.Probability(0b001))
}

func TestMeasureCollapsesAndRenormalises(t *testing.T) {
	v := New(2)
	v.Apply(Hadamard, 0)
	v.ApplyControlled(PauliX, 0, 1)

	// A sample of 0.75 lands past p0 = 0.5.
	require.Equal(t, 1, v.Measure(0, fixed(0.75)))
	assertAmps(t, []complex128{0, 0, 0, 1}, v)
	assert.Equal(t, 1, v.Measure(1, seeded()))
}

func TestMeasureKeepsNormalisation(t *testing.T) {
	rng := seeded()
	for range 50 {
		v := New(3)
		v.Apply(RY(1.1), 0)
		v.Apply(Hadamard, 1)
		v.ApplyControlled(RX(0.4), 1, 2)
		v.Measure(1, rng)
		assert.InDelta(t, 1.0, v.Norm(), tol)
	}
}

func TestMeasureAllDoesNotCollapse(t *testing.T) {
	v := New(2)
	v.Apply(Hadamard, 0)
	before := v.Amplitudes()
	rng := seeded()
	seen := map[string]bool{}
	for range 100 {
		seen[v.MeasureAll(rng)] = true
	}
	assertAmps(t, before, v)
	assert.Equal(t, map[string]bool{"00": true, "10": true}, seen)
}

func TestReset(t *testing.T) {
	rng := seeded()
	for range 20 {
		v := New(2)
		v.Apply(Hadamard, 0)
		v.ApplyControlled(PauliX, 0, 1)
		v.Reset(0, rng)
		assert.InDelta(t, 1.0, v.QubitProbabilities()[0].Prob0, tol)
		assert.InDelta(t, 1.0, v.Norm(), tol)
	}

	v := New(2)
	v.Apply(Hadamard, 1)
	v.ResetAll()
	assertAmps(t, []complex128{1, 0, 0, 0}, v)
}

func TestDaggerUndoesPhase(t *testing.T) {
	v := New(1)
	v.Apply(Hadamard, 0)
	v.Apply(T, 0)
	v.Apply(Tdg, 0)
	v.Apply(S, 0)
	v.Apply(Sdg, 0)
	v.Apply(Hadamard, 0)
	assertAmps(t, []complex128{1, 0}, v)

	// HZH acts as X.
	v.Apply(Hadamard, 0)
	v.Apply(PauliZ, 0)
	v.Apply(Hadamard, 0)
	assertAmps(t, []complex128{0, 1}, v)
	assert.Equal(t, complex(0, -1), Sdg[1][1])
}
