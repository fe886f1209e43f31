package tui

import (
	"fmt"
	"strings"

	"qcircuit/instr"
)

// cellKind says what occupies a single cell of the diagram grid.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellBox
	cellControl
	cellTarget
	cellSwap
	cellBarrier
	cellMarker
)

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	kind         cellKind
	name         string
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// column is one time step of the diagram.
type column struct {
	cells []cellInfo
	// label names the control-flow marker drawn in this column, if any.
	label string
	// measured is the qubit wired down to the classical line, -1 if none.
	measured int
	// bit is the classical bit written; -1 with measured >= 0 means all bits.
	bit int
}

// Diagram is an as-soon-as-possible layering of a program: each operation
// goes into the first column where every qubit it spans is free. Control
// flow is flattened into marker columns that span all qubits, so the body
// of a block always lies between its opening and closing markers.
type Diagram struct {
	NumQubits int
	columns   []column
	front     []int
}

// Layout builds the diagram of prog on n qubits. Operations that reference
// qubits outside [0, n) are skipped.
func Layout(prog []instr.Instruction, n int) *Diagram {
	d := &Diagram{NumQubits: n, front: make([]int, n)}
	d.addAll(prog)
	return d
}

// Steps returns the number of columns.
func (d *Diagram) Steps() int { return len(d.columns) }

// cell returns the cell at (step, qubit); out-of-range cells are empty wire.
func (d *Diagram) cell(step, qubit int) cellInfo {
	if step < 0 || step >= len(d.columns) || qubit < 0 || qubit >= d.NumQubits {
		return cellInfo{}
	}
	return d.columns[step].cells[qubit]
}

// Label returns the marker label of a step, or "".
func (d *Diagram) Label(step int) string {
	if step < 0 || step >= len(d.columns) {
		return ""
	}
	return d.columns[step].label
}

// Measurement returns the measured qubit and classical bit at step.
func (d *Diagram) Measurement(step int) (qubit, bit int) {
	if step < 0 || step >= len(d.columns) {
		return -1, -1
	}
	col := d.columns[step]
	return col.measured, col.bit
}

func (d *Diagram) addAll(prog []instr.Instruction) {
	for _, in := range prog {
		d.add(in)
	}
}

func (d *Diagram) add(in instr.Instruction) {
	for _, q := range in.Qubits {
		if q < 0 || q >= d.NumQubits {
			return
		}
	}

	switch in.Op {
	case instr.OpCX:
		d.place(in.Qubits, map[int]cellInfo{
			in.Qubits[0]: {kind: cellControl},
			in.Qubits[1]: {kind: cellTarget},
		}, true)
	case instr.OpCZ:
		d.place(in.Qubits, map[int]cellInfo{
			in.Qubits[0]: {kind: cellControl},
			in.Qubits[1]: {kind: cellControl},
		}, true)
	case instr.OpSwap:
		d.place(in.Qubits, map[int]cellInfo{
			in.Qubits[0]: {kind: cellSwap},
			in.Qubits[1]: {kind: cellSwap},
		}, true)
	case instr.OpCCX:
		d.place(in.Qubits, map[int]cellInfo{
			in.Qubits[0]: {kind: cellControl},
			in.Qubits[1]: {kind: cellControl},
			in.Qubits[2]: {kind: cellTarget},
		}, true)
	case instr.OpReset:
		for _, q := range in.Qubits {
			d.place([]int{q}, map[int]cellInfo{q: {kind: cellBox, name: "|0>"}}, false)
		}
	case instr.OpResetAll:
		d.placeAll(cellInfo{kind: cellBox, name: "|0>"}, "")
	case instr.OpBarrier:
		cells := map[int]cellInfo{}
		for _, q := range in.Qubits {
			cells[q] = cellInfo{kind: cellBarrier}
		}
		d.place(in.Qubits, cells, false)
	case instr.OpBarrierAll:
		d.placeAll(cellInfo{kind: cellBarrier}, "")
	case instr.OpDelay:
		q := in.Qubits[0]
		d.place([]int{q}, map[int]cellInfo{q: {kind: cellBox, name: "dly"}}, false)
	case instr.OpMeasure:
		d.measure(in.Qubits[0], in.Bit)
	case instr.OpMeasureAll:
		step := d.placeAll(cellInfo{kind: cellBox, name: "M"}, "")
		d.columns[step].measured = d.NumQubits - 1
	case instr.OpIf, instr.OpIfElse:
		d.placeAll(cellInfo{kind: cellMarker}, fmt.Sprintf("if c%d=%d", in.Bit, in.Value))
		d.addAll(in.Body)
		if in.Op == instr.OpIfElse {
			d.placeAll(cellInfo{kind: cellMarker}, "else")
			d.addAll(in.Else)
		}
		d.placeAll(cellInfo{kind: cellMarker}, "end")
	case instr.OpWhile:
		d.placeAll(cellInfo{kind: cellMarker}, fmt.Sprintf("while c%d=%d", in.Bit, in.Value))
		d.addAll(in.Body)
		d.placeAll(cellInfo{kind: cellMarker}, "end")
	case instr.OpFor:
		d.placeAll(cellInfo{kind: cellMarker}, fmt.Sprintf("for %d:%d", in.Start, in.End))
		d.addAll(in.Body)
		d.placeAll(cellInfo{kind: cellMarker}, "end")
	default:
		if in.Op.Arity() == 1 && len(in.Qubits) == 1 {
			q := in.Qubits[0]
			d.place([]int{q}, map[int]cellInfo{q: {kind: cellBox, name: displayName(in.Op)}}, false)
		}
	}
}

// measure places a measurement box whose classical connector runs down
// through every qubit below q, so those qubits are reserved too.
func (d *Diagram) measure(q, bit int) {
	span := []int{q, d.NumQubits - 1}
	step := d.place(span, map[int]cellInfo{q: {kind: cellBox, name: "M"}}, false)
	col := &d.columns[step]
	col.measured, col.bit = q, bit
	for below := q + 1; below < d.NumQubits; below++ {
		col.cells[below].measureBelow = true
	}
}

// placeAll reserves every qubit in a fresh column.
func (d *Diagram) placeAll(c cellInfo, label string) int {
	if d.NumQubits == 0 {
		return d.newColumn(len(d.columns))
	}
	qubits := make([]int, d.NumQubits)
	cells := make(map[int]cellInfo, d.NumQubits)
	for q := range qubits {
		qubits[q] = q
		cells[q] = c
	}
	step := d.place(qubits, cells, false)
	d.columns[step].label = label
	return step
}

// place puts cells into the earliest column where the whole span
// [min(qubits), max(qubits)] is free. With connect set, a vertical
// connector joins the cells.
func (d *Diagram) place(qubits []int, cells map[int]cellInfo, connect bool) int {
	if len(qubits) == 0 {
		return d.placeAll(cellInfo{kind: cellBarrier}, "")
	}
	lo, hi := qubits[0], qubits[0]
	for _, q := range qubits {
		lo, hi = min(lo, q), max(hi, q)
	}
	step := 0
	for q := lo; q <= hi; q++ {
		step = max(step, d.front[q])
	}
	d.newColumn(step)
	col := &d.columns[step]

	for q := lo; q <= hi; q++ {
		info, ok := cells[q]
		if connect {
			info.passThrough = !ok
			info.vertAbove = q > lo
			info.vertBelow = q < hi
		}
		col.cells[q] = info
		d.front[q] = step + 1
	}
	return step
}

// newColumn makes sure column step exists.
func (d *Diagram) newColumn(step int) int {
	for len(d.columns) <= step {
		d.columns = append(d.columns, column{
			cells:    make([]cellInfo, d.NumQubits),
			measured: -1,
			bit:      -1,
		})
	}
	return step
}

// displayName returns a short display name for a gate.
func displayName(op instr.Op) string {
	switch op {
	case instr.OpSdg:
		return "S†"
	case instr.OpTdg:
		return "T†"
	case instr.OpMeasure, instr.OpMeasureAll:
		return "M"
	default:
		return strings.ToUpper(op.String())
	}
}
