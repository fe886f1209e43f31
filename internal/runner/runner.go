// Package runner executes program text for a number of shots and gathers
// what the CLI and the inspector display.
package runner

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"qcircuit/circuit"
	"qcircuit/statevec"
)

// Options control a batch of executions.
type Options struct {
	Shots int
	Seed  uint64 // 0 leaves the source unseeded
	// MaxLoopIterations caps while loops; 0 keeps the engine default and a
	// negative value removes the cap.
	MaxLoopIterations int
}

// Result is the outcome of Run.
type Result struct {
	Qubits int `json:"qubits"`
	Shots  int `json:"shots"`
	// Counts maps the joined outcome list of one shot to its frequency.
	Counts map[string]int `json:"counts"`
	// Last is the outcome list of the final shot.
	Last []string `json:"last"`
	// Probabilities of the state left by the final shot.
	Probabilities map[string]float64 `json:"probabilities"`
	State         []complex128       `json:"-"`
}

// Run parses src and executes it opts.Shots times.
func Run(src string, opts Options) (*Result, error) {
	var copts []circuit.Option
	switch {
	case opts.MaxLoopIterations > 0:
		copts = append(copts, circuit.WithMaxLoopIterations(opts.MaxLoopIterations))
	case opts.MaxLoopIterations < 0:
		copts = append(copts, circuit.WithMaxLoopIterations(0))
	}
	if opts.Seed != 0 {
		copts = append(copts, circuit.WithSeed(opts.Seed))
	}
	c, err := circuit.Parse(src, copts...)
	if err != nil {
		return nil, err
	}
	shots := max(opts.Shots, 1)
	res := &Result{
		Qubits: c.NumQubits(),
		Shots:  shots,
		Counts: map[string]int{},
	}
	for shot := range shots {
		out, err := c.Execute()
		if err != nil {
			return nil, fmt.Errorf("shot %d: %w", shot+1, err)
		}
		res.Counts[Key(out)]++
		res.Last = out
	}
	res.State, _ = c.State()
	res.Probabilities, _ = c.Probabilities()
	log.WithFields(log.Fields{"shots": shots, "distinct": len(res.Counts)}).Debug("batch finished")
	return res, nil
}

// Key joins one shot's outcomes; a shot without measurements is "-".
func Key(outcomes []string) string {
	if len(outcomes) == 0 {
		return "-"
	}
	return strings.Join(outcomes, " ")
}

// SortedCounts returns count keys ordered by descending frequency, then
// lexically.
func (r *Result) SortedCounts() []string {
	keys := slices.Collect(maps.Keys(r.Counts))
	slices.SortFunc(keys, func(a, b string) int {
		if r.Counts[a] != r.Counts[b] {
			return r.Counts[b] - r.Counts[a]
		}
		return strings.Compare(a, b)
	})
	return keys
}

// SortedStates returns the basis states of Probabilities in index order.
func (r *Result) SortedStates() []string {
	keys := slices.Collect(maps.Keys(r.Probabilities))
	slices.Sort(keys)
	return keys
}

// Marginals returns the per-qubit probability of |1> in the final state.
func (r *Result) Marginals() []float64 {
	if r.State == nil {
		return nil
	}
	probs := statevec.FromAmplitudes(r.State).QubitProbabilities()
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = p.Prob1
	}
	return out
}
