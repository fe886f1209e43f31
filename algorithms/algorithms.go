// Package algorithms builds textbook circuits on top of the circuit builder.
package algorithms

import (
	"math"
	"strings"

	"qcircuit/circuit"
)

// Oracle appends a black-box function to c.
type Oracle func(c *circuit.Circuit)

// ConstantOracle returns f(x) = value on the ancilla, the last qubit.
func ConstantOracle(value bool) Oracle {
	return func(c *circuit.Circuit) {
		if value {
			c.X(c.NumQubits() - 1)
		}
	}
}

// BalancedOracle returns f(x) = parity of the inputs selected by mask,
// where bit i of mask selects input qubit i. mask must be non-zero for the
// function to be balanced.
func BalancedOracle(mask uint) Oracle {
	return func(c *circuit.Circuit) {
		anc := c.NumQubits() - 1
		for q := range anc {
			if mask&(1<<q) != 0 {
				c.CX(q, anc)
			}
		}
	}
}

// DeutschJozsa builds the Deutsch-Jozsa circuit on n qubits: n-1 inputs
// followed by one ancilla. Input qubit i is measured into bit i.
func DeutschJozsa(n int, oracle Oracle, opts ...circuit.Option) *circuit.Circuit {
	c := circuit.New(n, opts...)
	inputs := n - 1
	for q := range inputs {
		c.H(q)
	}
	c.X(n - 1).H(n - 1)
	oracle(c)
	for q := range inputs {
		c.H(q)
	}
	for q := range inputs {
		c.Measure(q, q)
	}
	return c
}

// InputString joins single-qubit outcomes into one bit string.
func InputString(outcomes []string) string {
	return strings.Join(outcomes, "")
}

// IsConstant reports whether a Deutsch-Jozsa run observed all zeros.
func IsConstant(outcomes []string) bool {
	return strings.Trim(InputString(outcomes), "0") == ""
}

// GroverConfig tunes Grover.
type GroverConfig struct {
	// Iterations of oracle plus diffuser; 0 selects GroverIterations(n).
	Iterations int
	// Ancillas are extra clean qubits appended after the search register
	// to keep the multi-controlled gates linear in size.
	Ancillas int
}

// GroverIterations is floor(pi/4 * sqrt(2^n)), at least 1.
func GroverIterations(n int) int {
	return max(1, int(math.Floor(math.Pi/4*math.Sqrt(float64(int(1)<<n)))))
}

// Grover builds amplitude amplification of basis state marked over search
// qubits 0..n-1. Marked is read with qubit 0 as the most significant bit.
// No measurement is appended.
func Grover(n, marked int, cfg GroverConfig, opts ...circuit.Option) *circuit.Circuit {
	c := circuit.New(n+cfg.Ancillas, opts...)
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = GroverIterations(n)
	}
	search := make([]int, n)
	for q := range search {
		search[q] = q
	}
	var ancillas []int
	for a := range cfg.Ancillas {
		ancillas = append(ancillas, n+a)
	}

	for _, q := range search {
		c.H(q)
	}
	for range iterations {
		markState(c, search, marked, ancillas)
		diffuse(c, search, ancillas)
	}
	return c
}

// markState flips the phase of |marked>.
func markState(c *circuit.Circuit, search []int, marked int, ancillas []int) {
	n := len(search)
	var zeros []int
	for _, q := range search {
		if marked&(1<<(n-1-q)) == 0 {
			zeros = append(zeros, q)
		}
	}
	for _, q := range zeros {
		c.X(q)
	}
	flipAllOnes(c, search, ancillas)
	for _, q := range zeros {
		c.X(q)
	}
}

// diffuse reflects the search register about the uniform superposition.
func diffuse(c *circuit.Circuit, search, ancillas []int) {
	for _, q := range search {
		c.H(q)
		c.X(q)
	}
	flipAllOnes(c, search, ancillas)
	for _, q := range search {
		c.X(q)
		c.H(q)
	}
}

func flipAllOnes(c *circuit.Circuit, qubits, ancillas []int) {
	last := len(qubits) - 1
	if last == 0 {
		c.Z(qubits[0])
		return
	}
	c.MCZ(qubits[:last], qubits[last], ancillas...)
}
