package circuit

import (
	"fmt"
	"math"
	"slices"
)

// AncillaPool is a stack of spare qubits available as scratch space. A
// qubit taken from the pool is restored to |0> before it is returned.
type AncillaPool struct {
	free []int
}

// NewAncillaPool returns a pool holding qubits, all assumed to be |0>.
func NewAncillaPool(qubits ...int) *AncillaPool {
	return &AncillaPool{free: slices.Clone(qubits)}
}

// Len is the number of qubits currently available.
func (p *AncillaPool) Len() int { return len(p.free) }

func (p *AncillaPool) pop() int {
	q := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return q
}

func (p *AncillaPool) push(q int) {
	p.free = append(p.free, q)
}

// MCX flips target when every control is |1>, decomposed into cx and ccx
// gates using the ancillas as clean scratch qubits. Zero controls emit
// nothing.
//
// With no ancillas and three or more controls it falls back to a
// phase-gate expansion whose length grows exponentially in the number of
// controls; pass ancillas whenever more than a handful of controls are used.
func (c *Circuit) MCX(controls []int, target int, ancillas ...int) *Circuit {
	if err := c.checkMultiControl(controls, target, ancillas); err != nil {
		c.err = err
		return c
	}
	c.log.WithField("controls", len(controls)).WithField("ancillas", len(ancillas)).Debug("mcx")
	c.mcx(controls, target, NewAncillaPool(ancillas...))
	return c
}

// MCZ flips the phase of the state where every control and the target are
// |1>, as MCX conjugated by Hadamards on the target.
func (c *Circuit) MCZ(controls []int, target int, ancillas ...int) *Circuit {
	if err := c.checkMultiControl(controls, target, ancillas); err != nil {
		c.err = err
		return c
	}
	c.H(target)
	c.mcx(controls, target, NewAncillaPool(ancillas...))
	return c.H(target)
}

func (c *Circuit) checkMultiControl(controls []int, target int, ancillas []int) error {
	if c.err != nil {
		return c.err
	}
	seen := map[int]string{}
	use := func(q int, role string) error {
		if q < 0 || q >= c.n {
			return fmt.Errorf("%s qubit %d out of range [0, %d)", role, q, c.n)
		}
		if prev, ok := seen[q]; ok {
			return fmt.Errorf("qubit %d used as both %s and %s", q, prev, role)
		}
		seen[q] = role
		return nil
	}
	if err := use(target, "target"); err != nil {
		return err
	}
	for _, q := range controls {
		if err := use(q, "control"); err != nil {
			return err
		}
	}
	for _, q := range ancillas {
		if err := use(q, "ancilla"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) mcx(controls []int, target int, pool *AncillaPool) {
	k := len(controls)
	switch {
	case k == 0:
	case k == 1:
		c.CX(controls[0], target)
	case k == 2:
		c.CCX(controls[0], controls[1], target)
	case pool.Len() == 0:
		c.mcxNoAncilla(controls, target)
	case k == 3:
		a := pool.pop()
		c.mcx3(controls, a, target)
		pool.push(a)
	default:
		a := pool.pop()
		head := controls[:k-2]
		c.mcx(head, a, pool)
		c.combine(a, controls[k-2], controls[k-1], target, head[0], pool)
		c.mcx(head, a, pool)
		pool.push(a)
	}
}

// mcx3 flips target on c0 AND c1 AND c2 through scratch qubit a. The
// sequence leaves a unchanged whatever its state, so a may also be a
// qubit in use elsewhere.
func (c *Circuit) mcx3(controls []int, a, target int) {
	c.CCX(controls[0], controls[1], a)
	c.CCX(controls[2], a, target)
	c.CCX(controls[0], controls[1], a)
	c.CCX(controls[2], a, target)
}

// combine flips target on a AND c1 AND c2. Without a clean ancilla it
// borrows idle, a control of the enclosing gate that the three-way AND
// does not touch.
func (c *Circuit) combine(a, c1, c2, target, idle int, pool *AncillaPool) {
	if pool.Len() > 0 {
		c.mcx([]int{a, c1, c2}, target, pool)
		return
	}
	c.mcx3([]int{a, c1, c2}, idle, target)
}

// mcxNoAncilla is the exponential last resort for three or more controls.
func (c *Circuit) mcxNoAncilla(controls []int, target int) {
	if len(controls) >= 3 {
		c.log.WithField("controls", len(controls)).Warn("mcx without ancillas, gate count grows exponentially")
	}
	c.mcxPhase(controls, target)
}

// mcxPhase flips target as H, a multi-controlled phase of pi, H.
func (c *Circuit) mcxPhase(controls []int, target int) {
	switch len(controls) {
	case 0:
	case 1:
		c.CX(controls[0], target)
	case 2:
		c.CCX(controls[0], controls[1], target)
	default:
		c.H(target)
		c.mcp(math.Pi, controls, target)
		c.H(target)
	}
}

// mcp applies phase theta to the state where every control and target
// are |1>.
func (c *Circuit) mcp(theta float64, controls []int, target int) {
	k := len(controls)
	switch k {
	case 0:
		c.P(theta, target)
		return
	case 1:
		c.cp(theta, controls[0], target)
		return
	}
	last, rest := controls[k-1], controls[:k-1]
	c.cp(theta/2, last, target)
	c.mcxPhase(rest, last)
	c.cp(-theta/2, last, target)
	c.mcxPhase(rest, last)
	c.mcp(theta/2, rest, target)
}

// cp is the controlled phase built from phase and cx gates.
func (c *Circuit) cp(theta float64, control, target int) {
	c.P(theta/2, control)
	c.CX(control, target)
	c.P(-theta/2, target)
	c.CX(control, target)
	c.P(theta/2, target)
}
