package statevec

// Measure samples qubit q, collapses the state onto the outcome and
// renormalises. It returns 0 or 1.
func (v *Vector) Measure(q int, rng Source) int {
	bit := v.Mask(q)
	p0, p1 := 0.0, 0.0
	for i, a := range v.amps {
		if i&bit == 0 {
			p0 += sqabs(a)
		} else {
			p1 += sqabs(a)
		}
	}

	outcome := 0
	if rng.Float64()*(p0+p1) >= p0 {
		outcome = 1
	}

	kept := p0
	if outcome == 1 {
		kept = p1
	}
	for i := range v.amps {
		if (i&bit != 0) != (outcome == 1) {
			v.amps[i] = 0
		}
	}
	scale(v.amps, kept)
	return outcome
}

// MeasureAll samples a basis state from the full distribution and returns
// it as a bit string, qubit 0 first. The state is not collapsed.
func (v *Vector) MeasureAll(rng Source) string {
	return BitString(v.Sample(rng), v.n)
}

// Sample draws a basis index with probability |amp|^2.
func (v *Vector) Sample(rng Source) int {
	u := rng.Float64() * v.Norm()
	last := 0
	acc := 0.0
	for i, a := range v.amps {
		p := sqabs(a)
		if p == 0 {
			continue
		}
		acc += p
		last = i
		if u < acc {
			return i
		}
	}
	return last
}

// Reset forces qubit q to |0> by measuring it and flipping it on outcome 1.
func (v *Vector) Reset(q int, rng Source) {
	if v.Measure(q, rng) == 1 {
		v.Apply(PauliX, q)
	}
}

// ResetAll returns every qubit to |0...0>.
func (v *Vector) ResetAll() {
	clear(v.amps)
	v.amps[0] = 1
}
