package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"qcircuit/internal/runner"
)

// renderHistogram draws the shot counts of res as horizontal bars, most
// frequent first, followed by the final state's basis probabilities. A
// program without measurements only gets the probabilities.
func renderHistogram(res *runner.Result, precision int) string {
	var sb strings.Builder

	keys := res.SortedCounts()
	if len(keys) > 0 && !(len(keys) == 1 && keys[0] == "-") {
		sb.WriteString(activeGateStyle.Render("counts"))
		sb.WriteString("\n")
		top := res.Counts[keys[0]]
		writeBars(&sb, keys, func(k string) (float64, string) {
			return float64(res.Counts[k]) / float64(top), strconv.Itoa(res.Counts[k])
		})
		sb.WriteString("\n")
	}

	states := res.SortedStates()
	slices.SortStableFunc(states, func(a, b string) int {
		return cmp.Compare(res.Probabilities[b], res.Probabilities[a])
	})
	sb.WriteString(activeGateStyle.Render("final state"))
	sb.WriteString("\n")
	writeBars(&sb, states, func(k string) (float64, string) {
		p := res.Probabilities[k]
		return p, strconv.FormatFloat(p, 'f', precision, 64)
	})
	return strings.TrimRight(sb.String(), "\n")
}

// writeBars writes one bar per key; value returns the bar fraction in
// [0, 1] and the text printed after it.
func writeBars(sb *strings.Builder, keys []string, value func(string) (float64, string)) {
	shown := keys
	if len(shown) > histRows {
		shown = shown[:histRows]
	}
	width := 0
	for _, k := range shown {
		width = max(width, len(k))
	}
	for _, k := range shown {
		frac, text := value(k)
		n := int(math.Round(frac * histBarW))
		if n == 0 && frac > 0 {
			n = 1
		}
		fmt.Fprintf(sb, "%-*s %s %s\n", width, k,
			barStyle.Render(strings.Repeat("█", n))+dimStyle.Render(strings.Repeat("·", histBarW-n)), text)
	}
	if rest := len(keys) - len(shown); rest > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", rest)))
		sb.WriteString("\n")
	}
}
