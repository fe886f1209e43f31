package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	total := width - w
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// wire draws a horizontal wire of width w with sym in the middle.
func wire(sym string, w int) string {
	dashL := (w - 1) / 2
	return strings.Repeat("─", dashL) + sym + strings.Repeat("─", w-dashL-1)
}

// vertical draws a single centred vertical symbol on blank background.
func vertical(sym string, w int) string {
	half := w / 2
	return strings.Repeat(" ", half) + sym + strings.Repeat(" ", w-half-1)
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, cursor bool) (top, mid, bot string) {
	w := cellW
	if cursor {
		w = cellW - 2
	}
	top, mid, bot = cellLines(info, w)
	if !cursor {
		return
	}
	top = cursorBoxStyle.Render("╔" + strings.Repeat("═", w) + "╗")
	mid = cursorBoxStyle.Render("║") + mid + cursorBoxStyle.Render("║")
	bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", w) + "╝")
	return
}

func cellLines(info cellInfo, w int) (top, mid, bot string) {
	empty := strings.Repeat(" ", w)
	vert := vertical("│", w)
	dblVert := vertical(cbitConnectorStyle.Render("║"), w)

	top, bot = empty, empty
	if info.vertAbove {
		top = vert
	}
	if info.vertBelow {
		bot = vert
	}

	switch info.kind {
	case cellBox:
		margin := (w - gateBoxW) / 2
		right := w - margin - gateBoxW
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", right)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+padCenter(info.name, gateNameW)+"├") + strings.Repeat("─", right)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", right)
	case cellControl:
		mid = wire(gateStyle.Render("●"), w)
	case cellTarget:
		mid = wire(gateStyle.Render("⊕"), w)
	case cellSwap:
		mid = wire(gateStyle.Render("×"), w)
	case cellBarrier:
		top, bot = vert, vert
		mid = wire("│", w)
	case cellMarker:
		top = vertical(markerStyle.Render("┆"), w)
		mid = wire(markerStyle.Render("┆"), w)
		bot = top
	default:
		if info.passThrough {
			mid = wire("┼", w)
		} else {
			mid = strings.Repeat("─", w)
		}
	}

	if info.measureBelow {
		if info.kind == cellEmpty && !info.passThrough {
			top = dblVert
			mid = wire(cbitConnectorStyle.Render("╫"), w)
		}
		bot = dblVert
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleSteps returns the first step shown and how many fit in width.
func (m Model) visibleSteps(width int) (start, count int) {
	count = max((width-labelVisualW-4)/cellW, 1)
	if m.cursorStep >= count {
		start = m.cursorStep - count + 1
	}
	return start, count
}

// renderDiagram renders the circuit grid without its border.
func (m Model) renderDiagram(width int) string {
	var sb strings.Builder
	d := m.diagram
	start, count := m.visibleSteps(width)

	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", start, start+count-1)
	}

	// Step number header, replaced by the block label on marker columns
	header := strings.Repeat(" ", labelVisualW)
	for step := start; step < start+count; step++ {
		if label := d.Label(step); label != "" {
			header += markerStyle.Render(padCenter(label, cellW))
		} else {
			header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
		}
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range d.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := start; step < start+count; step++ {
			cursor := m.focus == focusCircuit && step == m.cursorStep && qubit == m.cursorQubit
			top, mid, bot := renderCell(d.cell(step, qubit), cursor)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// ── Classical bit wire (single line) ──
	label := cbitLabelStyle.Render(fmt.Sprintf("%-5s", "c")) + cbitWireStyle.Render("══")
	cbitLine := label
	for step := start; step < start+count; step++ {
		measured, bit := d.Measurement(step)
		if measured < 0 {
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
			continue
		}
		bitLabel := "*"
		if bit >= 0 {
			bitLabel = fmt.Sprintf("%d", bit)
		}
		dashL := (cellW - 1) / 2
		dashR := max(cellW-dashL-1-len(bitLabel), 0)
		cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
			cbitConnectorStyle.Render("╩"+bitLabel) +
			cbitWireStyle.Render(strings.Repeat("═", dashR))
	}
	sb.WriteString(cbitLine)
	return sb.String()
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit"))
	if m.path != "" {
		sb.WriteString(" " + dimStyle.Render(m.path))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.renderDiagram(width))
	sb.WriteString("\n")

	switch {
	case m.parseErr != nil:
		sb.WriteString("\n  " + errorStyle.Render(m.parseErr.Error()))
	case m.statusMsg != "":
		fmt.Fprintf(&sb, "\n  Step %d, Qubit %d  │  %s", m.cursorStep, m.cursorQubit, activeGateStyle.Render(m.statusMsg))
	default:
		fmt.Fprintf(&sb, "\n  Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderEditorPanel renders the program editor panel.
func (m Model) renderEditorPanel(width, height int) string {
	var sb strings.Builder
	title := "Program " + m.dialect.String()
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())
	return editorStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel renders the histogram of the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Results (%d shots)", m.opts.Shots)))
	sb.WriteString("\n\n")
	switch {
	case m.runErr != nil:
		sb.WriteString(errorStyle.Render(m.runErr.Error()))
	case m.result == nil:
		sb.WriteString(dimStyle.Render("^R to run"))
	default:
		sb.WriteString(renderHistogram(m.result, m.precision))
	}
	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  Tab Switch focus")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Insert statement\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("^R Run  ^F Format  ^D Dialect  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at
// visible column x of line y. ANSI sequences on either side are preserved.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ov := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		line := bgLines[row]
		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(ov), "")
		bgLines[row] = left + ov + right
	}
	return strings.Join(bgLines, "\n")
}
