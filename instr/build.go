package instr

// Gate returns a parameterless gate instruction. Operands are listed with
// controls first and the target last.
func Gate(op Op, qubits ...int) Instruction {
	return Instruction{Op: op, Qubits: qubits}
}

func H(q int) Instruction   { return Gate(OpH, q) }
func X(q int) Instruction   { return Gate(OpX, q) }
func Y(q int) Instruction   { return Gate(OpY, q) }
func Z(q int) Instruction   { return Gate(OpZ, q) }
func S(q int) Instruction   { return Gate(OpS, q) }
func Sdg(q int) Instruction { return Gate(OpSdg, q) }
func T(q int) Instruction   { return Gate(OpT, q) }
func Tdg(q int) Instruction { return Gate(OpTdg, q) }

// Rotation returns a single-angle gate (rx, ry, rz or p).
func Rotation(op Op, theta float64, q int) Instruction {
	return Instruction{Op: op, Qubits: []int{q}, Params: []float64{theta}}
}

func RX(theta float64, q int) Instruction { return Rotation(OpRX, theta, q) }
func RY(theta float64, q int) Instruction { return Rotation(OpRY, theta, q) }
func RZ(theta float64, q int) Instruction { return Rotation(OpRZ, theta, q) }
func P(theta float64, q int) Instruction  { return Rotation(OpP, theta, q) }

// U returns the general single-qubit rotation u(theta, phi, lambda).
func U(theta, phi, lambda float64, q int) Instruction {
	return Instruction{Op: OpU, Qubits: []int{q}, Params: []float64{theta, phi, lambda}}
}

func CX(control, target int) Instruction { return Gate(OpCX, control, target) }
func CZ(control, target int) Instruction { return Gate(OpCZ, control, target) }
func Swap(a, b int) Instruction          { return Gate(OpSwap, a, b) }

// CCX returns the Toffoli gate with controls c0, c1.
func CCX(c0, c1, target int) Instruction { return Gate(OpCCX, c0, c1, target) }

func Reset(qubits ...int) Instruction   { return Instruction{Op: OpReset, Qubits: qubits} }
func ResetAll() Instruction             { return Instruction{Op: OpResetAll} }
func Barrier(qubits ...int) Instruction { return Instruction{Op: OpBarrier, Qubits: qubits} }
func BarrierAll() Instruction           { return Instruction{Op: OpBarrierAll} }

// Delay returns an idle instruction such as delay[100ns] q[0].
func Delay(duration float64, unit string, q int) Instruction {
	return Instruction{Op: OpDelay, Qubits: []int{q}, Duration: duration, Unit: unit}
}

// Measure measures qubit q into classical bit bit.
func Measure(q, bit int) Instruction {
	return Instruction{Op: OpMeasure, Qubits: []int{q}, Bit: bit}
}

func MeasureAll() Instruction { return Instruction{Op: OpMeasureAll} }

// If runs body when classical bit bit equals value.
func If(bit, value int, body []Instruction) Instruction {
	return Instruction{Op: OpIf, Bit: bit, Value: value, Body: body}
}

// IfElse runs body when classical bit bit equals value and alt otherwise.
func IfElse(bit, value int, body, alt []Instruction) Instruction {
	return Instruction{Op: OpIfElse, Bit: bit, Value: value, Body: body, Else: alt}
}

// While repeats body for as long as classical bit bit equals value.
func While(bit, value int, body []Instruction) Instruction {
	return Instruction{Op: OpWhile, Bit: bit, Value: value, Body: body}
}

// For repeats body end-start times. The loop variable is carried for
// round-tripping only; it is not visible to the body.
func For(name string, start, end int, body []Instruction) Instruction {
	return Instruction{Op: OpFor, Var: name, Start: start, End: end, Body: body}
}
