package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcircuit/internal/runner"
	"qcircuit/qasm"
)

func TestRenderCellWidths(t *testing.T) {
	cells := []cellInfo{
		{},
		{kind: cellBox, name: "H"},
		{kind: cellBox, name: "S†"},
		{kind: cellControl, vertBelow: true},
		{kind: cellTarget, vertAbove: true},
		{kind: cellSwap},
		{kind: cellBarrier},
		{kind: cellMarker},
		{passThrough: true, vertAbove: true, vertBelow: true},
		{measureBelow: true},
	}
	for _, c := range cells {
		for _, cursor := range []bool{false, true} {
			top, mid, bot := renderCell(c, cursor)
			for _, line := range []string{top, mid, bot} {
				assert.Equal(t, cellW, ansi.StringWidth(line), "cell %+v cursor=%v: %q", c, cursor, line)
			}
		}
	}
}

func TestRenderCellSymbols(t *testing.T) {
	_, mid, _ := renderCell(cellInfo{kind: cellTarget}, false)
	assert.Contains(t, ansi.Strip(mid), "⊕")
	_, mid, _ = renderCell(cellInfo{kind: cellBox, name: "RX"}, false)
	assert.Contains(t, ansi.Strip(mid), "RX")
	_, mid, bot := renderCell(cellInfo{measureBelow: true}, false)
	assert.Contains(t, ansi.Strip(mid), "╫")
	assert.Contains(t, ansi.Strip(bot), "║")
}

func TestPadCenter(t *testing.T) {
	assert.Equal(t, "  H  ", padCenter("H", 5))
	assert.Equal(t, " S†  ", padCenter("S†", 5))
	assert.Equal(t, "while", padCenter("while c0=1", 5))
}

func TestOverlayAt(t *testing.T) {
	bg := "0123456789\nabcdefghij\nshort"
	got := overlayAt(bg, "XX\nYY\nZZ", 3, 0)
	assert.Equal(t, "012XX56789\nabcYYfghij\nshoZZ", got)

	got = overlayAt("ab", "XY", 4, 0)
	assert.Equal(t, "ab  XY", got)
}

func TestRenderHistogram(t *testing.T) {
	res := &runner.Result{
		Counts:        map[string]int{"00": 30, "11": 10},
		Probabilities: map[string]float64{"11": 1},
	}
	out := ansi.Strip(renderHistogram(res, 2))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "counts", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "00 "+strings.Repeat("█", histBarW)))
	assert.True(t, strings.HasSuffix(lines[1], " 30"))
	assert.True(t, strings.HasPrefix(lines[2], "11 "+strings.Repeat("█", 10)+"·"))
	assert.Equal(t, "final state", lines[4])
	assert.True(t, strings.HasSuffix(lines[5], " 1.00"))
}

func TestRenderHistogramWithoutMeasurements(t *testing.T) {
	res := &runner.Result{
		Counts:        map[string]int{"-": 4},
		Probabilities: map[string]float64{"0": 0.25, "1": 0.75},
	}
	out := ansi.Strip(renderHistogram(res, 2))
	assert.NotContains(t, out, "counts")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1 "), "most likely state first")
}

func TestRenderHistogramTruncates(t *testing.T) {
	counts := map[string]int{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		counts[k] = 1
	}
	res := &runner.Result{Counts: counts, Probabilities: map[string]float64{"0": 1}}
	assert.Contains(t, ansi.Strip(renderHistogram(res, 2)), "… 2 more")
}

func TestViewShowsAllPanels(t *testing.T) {
	m := New(Options{Source: "h q[0];\ncx q[0], q[1];\nmeasure q -> c;", Dialect: qasm.V2, Precision: 3})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	out := ansi.Strip(updated.View())

	assert.Contains(t, out, "Circuit")
	assert.Contains(t, out, "q[1]")
	assert.Contains(t, out, "Program 2.0")
	assert.Contains(t, out, "^R to run")
	assert.Contains(t, out, "Insert statement")
}
