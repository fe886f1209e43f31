// Package statevec holds a dense state vector of n qubits and applies
// operators to it through basis-index arithmetic.
//
// Basis index i is read as an n-bit string with qubit 0 as the most
// significant bit, so qubit q owns the mask 1 << (n-1-q).
package statevec

import (
	"math"
	"strings"
)

// Source supplies uniform samples in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// zeroTol is the total probability below which renormalisation is skipped.
const zeroTol = 1e-12

// Vector is a state of NumQubits qubits. The zero value is not usable; call New.
type Vector struct {
	amps []complex128
	n    int
}

// New returns the all-zero basis state |0...0> on n qubits.
func New(n int) *Vector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &Vector{amps: amps, n: n}
}

// FromAmplitudes wraps a copy of amps, whose length must be a power of two.
func FromAmplitudes(amps []complex128) *Vector {
	n := 0
	for 1<<n < len(amps) {
		n++
	}
	return &Vector{amps: append([]complex128(nil), amps...), n: n}
}

func (v *Vector) NumQubits() int { return v.n }

// Len is the number of amplitudes, 2^n.
func (v *Vector) Len() int { return len(v.amps) }

// Amplitude returns the amplitude of basis state i.
func (v *Vector) Amplitude(i int) complex128 { return v.amps[i] }

// Amplitudes returns a copy of the amplitude array.
func (v *Vector) Amplitudes() []complex128 {
	return append([]complex128(nil), v.amps...)
}

func (v *Vector) Clone() *Vector {
	return &Vector{amps: v.Amplitudes(), n: v.n}
}

// Mask returns the basis-index bit owned by qubit q.
func (v *Vector) Mask(q int) int {
	return 1 << (v.n - 1 - q)
}

// Apply applies m to qubit q. Each pair of indices differing only in the
// target bit is updated once.
func (v *Vector) Apply(m Matrix, q int) {
	bit := v.Mask(q)
	for i := range v.amps {
		if i&bit == 0 {
			v.update(m, i, i|bit)
		}
	}
}

// ApplyControlled applies m to target on the subspace where control is 1.
func (v *Vector) ApplyControlled(m Matrix, control, target int) {
	cBit := v.Mask(control)
	tBit := v.Mask(target)
	for i := range v.amps {
		if i&cBit != 0 && i&tBit == 0 {
			v.update(m, i, i|tBit)
		}
	}
}

func (v *Vector) update(m Matrix, i, j int) {
	a, b := v.amps[i], v.amps[j]
	v.amps[i] = m[0][0]*a + m[0][1]*b
	v.amps[j] = m[1][0]*a + m[1][1]*b
}

// Toffoli flips target on the subspace where both controls are 1.
func (v *Vector) Toffoli(c0, c1, target int) {
	cBits := v.Mask(c0) | v.Mask(c1)
	tBit := v.Mask(target)
	for i := range v.amps {
		if i&cBits == cBits && i&tBit == 0 {
			j := i | tBit
			v.amps[i], v.amps[j] = v.amps[j], v.amps[i]
		}
	}
}

// Swap exchanges the states of qubits a and b.
func (v *Vector) Swap(a, b int) {
	bitA := v.Mask(a)
	bitB := v.Mask(b)
	for i := range v.amps {
		if i&bitA != 0 && i&bitB == 0 {
			j := (i &^ bitA) | bitB
			v.amps[i], v.amps[j] = v.amps[j], v.amps[i]
		}
	}
}

// Probability returns the squared magnitude of basis state i.
func (v *Vector) Probability(i int) float64 {
	return sqabs(v.amps[i])
}

// Probabilities returns the squared magnitude of every basis state.
func (v *Vector) Probabilities() []float64 {
	probs := make([]float64, len(v.amps))
	for i, a := range v.amps {
		probs[i] = sqabs(a)
	}
	return probs
}

// ProbabilityMap returns the basis states with non-negligible probability,
// keyed by their bit string.
func (v *Vector) ProbabilityMap() map[string]float64 {
	probs := make(map[string]float64)
	for i, a := range v.amps {
		if p := sqabs(a); p > zeroTol {
			probs[BitString(i, v.n)] = p
		}
	}
	return probs
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal distribution of every qubit.
func (v *Vector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, v.n)
	for i, a := range v.amps {
		p := sqabs(a)
		for q := range v.n {
			if i&v.Mask(q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// Norm returns the sum of squared magnitudes.
func (v *Vector) Norm() float64 {
	total := 0.0
	for _, a := range v.amps {
		total += sqabs(a)
	}
	return total
}

// BitString formats basis index i as n characters, qubit 0 first.
func BitString(i, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for q := range n {
		if i&(1<<(n-1-q)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func sqabs(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

func scale(amps []complex128, total float64) {
	if total < zeroTol {
		return
	}
	f := complex(1/math.Sqrt(total), 0)
	for i := range amps {
		amps[i] *= f
	}
}
