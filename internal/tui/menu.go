package tui

import (
	"fmt"
	"strings"

	"qcircuit/circuit"
)

// menuItem represents a single statement choice in the menu.
type menuItem struct {
	name   string
	symbol string
	// qubits is how many consecutive qubits the snippet touches.
	qubits  int
	snippet func(q []int) string
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

func gate1(name string) func([]int) string {
	return func(q []int) string { return fmt.Sprintf("%s q[%d];", name, q[0]) }
}

func gateN(name string) func([]int) string {
	return func(q []int) string {
		ops := make([]string, len(q))
		for i, x := range q {
			ops[i] = fmt.Sprintf("q[%d]", x)
		}
		return name + " " + strings.Join(ops, ", ") + ";"
	}
}

// gateMenu defines the statement picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", symbol: "H", qubits: 1, snippet: gate1("h")},
			{name: "Pauli-X (NOT)", symbol: "X", qubits: 1, snippet: gate1("x")},
			{name: "Pauli-Y", symbol: "Y", qubits: 1, snippet: gate1("y")},
			{name: "Pauli-Z", symbol: "Z", qubits: 1, snippet: gate1("z")},
			{name: "Phase (S)", symbol: "S", qubits: 1, snippet: gate1("s")},
			{name: "Phase Dagger (S†)", symbol: "S†", qubits: 1, snippet: gate1("sdg")},
			{name: "T Gate", symbol: "T", qubits: 1, snippet: gate1("t")},
			{name: "T Dagger (T†)", symbol: "T†", qubits: 1, snippet: gate1("tdg")},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", symbol: "RX", qubits: 1, snippet: gate1("rx(pi/2)")},
			{name: "Rotate Y", symbol: "RY", qubits: 1, snippet: gate1("ry(pi/2)")},
			{name: "Rotate Z", symbol: "RZ", qubits: 1, snippet: gate1("rz(pi/2)")},
			{name: "Phase Shift", symbol: "P", qubits: 1, snippet: gate1("p(pi/4)")},
			{name: "Universal U", symbol: "U", qubits: 1, snippet: gate1("u(pi/2, 0, pi)")},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", symbol: "●─⊕", qubits: 2, snippet: gateN("cx")},
			{name: "Controlled-Z", symbol: "●─●", qubits: 2, snippet: gateN("cz")},
			{name: "SWAP", symbol: "×─×", qubits: 2, snippet: gateN("swap")},
			{name: "Toffoli (CCX)", symbol: "●─●─⊕", qubits: 3, snippet: gateN("ccx")},
		},
	},
	{
		name: "Measurement",
		items: []menuItem{
			{name: "Measure", symbol: "M", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("measure q[%d] -> c[%d];", q[0], q[0])
			}},
			{name: "Measure all", symbol: "M*", snippet: func([]int) string { return "measure q -> c;" }},
			{name: "Reset", symbol: "|0⟩", qubits: 1, snippet: gate1("reset")},
			{name: "Reset all", symbol: "|0⟩*", snippet: func([]int) string { return "reset q;" }},
		},
	},
	{
		name: "Control Flow",
		items: []menuItem{
			{name: "If", symbol: "if", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("if (c[%d] == 1) {\n    x q[%d];\n}", q[0], q[0])
			}},
			{name: "If / else", symbol: "if…else", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("if (c[%d] == 1) {\n    x q[%d];\n} else {\n    h q[%d];\n}", q[0], q[0], q[0])
			}},
			{name: "Repeat until 0", symbol: "while", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("measure q[%[1]d] -> c[%[1]d];\nwhile (c[%[1]d] == 1) {\n    x q[%[1]d];\n    measure q[%[1]d] -> c[%[1]d];\n}", q[0])
			}},
			{name: "For loop", symbol: "for", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("for int i in [0:2] {\n    h q[%d];\n}", q[0])
			}},
		},
	},
	{
		name: "Special",
		items: []menuItem{
			{name: "Barrier", symbol: "┃", snippet: func([]int) string { return "barrier q;" }},
			{name: "Delay", symbol: "dly", qubits: 1, snippet: func(q []int) string {
				return fmt.Sprintf("delay[100ns] q[%d];", q[0])
			}},
		},
	},
}

// snippetFor renders item with its first qubit at the cursor qubit q and
// the rest on the qubits below, which grows the circuit when needed.
func snippetFor(item menuItem, q int) (string, error) {
	if q+item.qubits > circuit.MaxQubits {
		return "", fmt.Errorf("%s on q[%d] needs more than %d qubits", item.name, q, circuit.MaxQubits)
	}
	qs := make([]int, item.qubits)
	for i := range qs {
		qs[i] = q + i
	}
	return item.snippet(qs), nil
}

// renderMenu renders the floating statement-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Insert Statement"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Insert  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
