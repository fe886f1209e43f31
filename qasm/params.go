package qasm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// angleExprRegex matches a symbolic constant with an optional leading
// coefficient and at most one trailing multiply or divide:
// pi, -pi, 2pi, 2*pi, pi/2, 3*pi/4, tau/4, π*2, euler.
var angleExprRegex = regexp.MustCompile(`^(-?)(?:(\d*\.?\d+)\s*\*?\s*)?(pi|π|tau|τ|euler|ℇ)(?:\s*([*/])\s*(\d*\.?\d+(?:[eE][+\-]?\d+)?))?$`)

var constants = map[string]float64{
	"pi":    math.Pi,
	"π":     math.Pi,
	"tau":   2 * math.Pi,
	"τ":     2 * math.Pi,
	"euler": math.E,
	"ℇ":     math.E,
}

// ParseAngle parses a single angle expression: a plain float or a
// symbolic constant combined with one multiplication or division.
//
// Supported formats:
//   - Plain numbers: "1.5707", "-0.5", "3e-2"
//   - Constants: "pi", "π", "tau", "τ", "euler", "ℇ"
//   - Fractions: "pi/2", "tau/8"
//   - Coefficients: "2pi", "2*pi", "3*pi/4", "pi*2"
//   - Negative: "-pi", "-pi/2"
func ParseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	m := angleExprRegex.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	result := constants[m[3]]
	if m[2] != "" {
		coeff, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		result *= coeff
	}
	if m[4] != "" {
		operand, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return 0, false
		}
		if m[4] == "/" {
			if operand == 0 {
				return 0, false
			}
			result /= operand
		} else {
			result *= operand
		}
	}
	if m[1] == "-" {
		result = -result
	}
	return result, true
}

// FormatAngle formats an angle, using pi notation for common fractions of
// pi and the shortest exact decimal otherwise, so that ParseAngle returns
// the same float64.
func FormatAngle(val float64) string {
	for _, pf := range piForms {
		if val == pf.value {
			return pf.display
		}
		if val == -pf.value {
			return "-" + pf.display
		}
	}

	return strconv.FormatFloat(val, 'g', -1, 64)
}

type piForm struct {
	value   float64
	display string
}

// piForms is evaluated in the same order ParseAngle uses, so a formatted
// fraction parses back to the identical float64.
var piForms = func() []piForm {
	fracs := []struct{ coeff, denom float64 }{
		{2, 1}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 6}, {1, 8},
		{3, 4}, {3, 2}, {2, 3},
	}
	forms := make([]piForm, 0, len(fracs))
	for _, f := range fracs {
		v := math.Pi
		display := "pi"
		if f.coeff != 1 {
			v *= f.coeff
			display = strconv.FormatFloat(f.coeff, 'g', -1, 64) + "*pi"
		}
		if f.denom != 1 {
			v /= f.denom
			display += "/" + strconv.FormatFloat(f.denom, 'g', -1, 64)
		}
		forms = append(forms, piForm{v, display})
	}
	return forms
}()

// parseAngles parses a comma-separated parameter list.
func parseAngles(input string) ([]float64, bool) {
	var params []float64
	for _, part := range strings.Split(input, ",") {
		val, ok := ParseAngle(part)
		if !ok {
			return nil, false
		}
		params = append(params, val)
	}
	return params, true
}
