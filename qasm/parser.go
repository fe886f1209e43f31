package qasm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qcircuit/instr"
)

// Pre-compiled regexps for statement parsing.
var (
	gateRegex       = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*(?:\(([^()]*)\))?\s*(.*)$`)
	measureRegex    = regexp.MustCompile(`^measure\s+(\S.*?)\s*->\s*(\S.*)$`)
	measureV3Regex  = regexp.MustCompile(`^(\w+(?:\s*\[\s*\d+\s*\])?)\s*=\s*measure\s+(\S.*)$`)
	delayRegex      = regexp.MustCompile(`^delay\s*\[\s*([0-9.]+(?:[eE][+\-]?\d+)?)\s*([A-Za-zµ]*)\s*\]\s*(.*)$`)
	conditionRegex  = regexp.MustCompile(`^\(\s*\w+\s*\[\s*(\d+)\s*\]\s*==\s*(\d+)\s*\)\s*(.*)$`)
	forRegex        = regexp.MustCompile(`^for\s+(?:(?:int|uint)(?:\[\d+\])?\s+)?(\w+)\s+in\s*\[\s*(-?\d+)\s*:\s*(-?\d+)\s*\]\s*(.*)$`)
	indexedRegex    = regexp.MustCompile(`^\w+\s*\[\s*(\d+)\s*\]$`)
	hardwareRegex   = regexp.MustCompile(`^\$(\d+)$`)
	registerRegex   = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+\w+\s*\[\s*(\d+)\s*\]$`)
	qubitDeclRegex  = regexp.MustCompile(`^qubit\s*\[\s*(\d+)\s*\]\s*\w+$`)
	bitDeclRegex    = regexp.MustCompile(`^(?:creg\s+\w+\s*\[\s*\d+\s*\]|bit\s*\[\s*\d+\s*\]\s*\w+|bit\s+\w+)$`)
	versionRegex    = regexp.MustCompile(`^OPENQASM\s+(\d+)(?:\.(\d+))?$`)
	singleQubitDecl = regexp.MustCompile(`^qubit\s+\w+$`)
)

var gateOps = map[string]instr.Op{
	"h":       instr.OpH,
	"x":       instr.OpX,
	"y":       instr.OpY,
	"z":       instr.OpZ,
	"s":       instr.OpS,
	"sdg":     instr.OpSdg,
	"t":       instr.OpT,
	"tdg":     instr.OpTdg,
	"rx":      instr.OpRX,
	"ry":      instr.OpRY,
	"rz":      instr.OpRZ,
	"p":       instr.OpP,
	"phase":   instr.OpP,
	"u1":      instr.OpP,
	"u":       instr.OpU,
	"u3":      instr.OpU,
	"cx":      instr.OpCX,
	"cnot":    instr.OpCX,
	"cz":      instr.OpCZ,
	"ccx":     instr.OpCCX,
	"toffoli": instr.OpCCX,
	"swap":    instr.OpSwap,
}

// Program is the result of parsing program text.
type Program struct {
	Dialect Dialect
	// Qubits is the declared register size, or 0 when the text has no
	// declaration.
	Qubits       int
	Instructions []instr.Instruction
}

// Parse parses program text in either dialect. On failure it returns a
// *ParseError and no program.
func Parse(src string) (*Program, error) {
	p := &parser{stmts: scan(src), prog: &Program{Dialect: V2}}
	body, err := p.block(0, stmt{})
	if err != nil {
		return nil, err
	}
	p.prog.Instructions = body
	return p.prog, nil
}

// ParseInstructions is Parse without the header information.
func ParseInstructions(src string) ([]instr.Instruction, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return prog.Instructions, nil
}

type parser struct {
	stmts []stmt
	pos   int
	prog  *Program
}

func (p *parser) errorf(s stmt, format string, args ...any) error {
	return &ParseError{Line: s.line, Text: s.raw, Msg: fmt.Sprintf(format, args...)}
}

// block parses statements up to the '}' closing the block opened by open.
// At depth 0 it runs to the end of input.
func (p *parser) block(depth int, open stmt) ([]instr.Instruction, error) {
	var out []instr.Instruction
	for p.pos < len(p.stmts) {
		s := p.stmts[p.pos]
		p.pos++
		if s.kind == stmtClose {
			if depth == 0 {
				return nil, p.errorf(s, "unexpected '}'")
			}
			return out, nil
		}
		ins, err := p.statement(s, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, ins...)
	}
	if depth > 0 {
		return nil, p.errorf(open, "unclosed block")
	}
	return out, nil
}

// statement parses one statement that has already been consumed. It
// returns no instruction for headers and declarations.
func (p *parser) statement(s stmt, depth int) ([]instr.Instruction, error) {
	switch keyword(s.text) {
	case "if":
		in, err := p.ifStatement(s, depth)
		return one(in, err)
	case "while":
		in, err := p.whileStatement(s, depth)
		return one(in, err)
	case "for":
		in, err := p.forStatement(s, depth)
		return one(in, err)
	case "else":
		return nil, p.errorf(s, "else without matching if")
	}
	if s.kind == stmtOpen {
		if s.text == "" {
			return nil, p.errorf(s, "unexpected '{'")
		}
		return nil, p.errorf(s, "unexpected '{' after %q", s.text)
	}
	if ok, err := p.declaration(s); ok || err != nil {
		return nil, err
	}
	in, err := parseInstruction(s.text)
	if err != nil {
		return nil, p.errorf(s, "%v", err)
	}
	return []instr.Instruction{in}, nil
}

func one(in instr.Instruction, err error) ([]instr.Instruction, error) {
	if err != nil {
		return nil, err
	}
	return []instr.Instruction{in}, nil
}

// declaration consumes header and register declaration lines.
func (p *parser) declaration(s stmt) (bool, error) {
	text := s.text
	switch {
	case strings.HasPrefix(text, "OPENQASM"):
		m := versionRegex.FindStringSubmatch(text)
		if m == nil {
			return true, p.errorf(s, "malformed version line")
		}
		if m[1] == "3" {
			p.prog.Dialect = V3
		}
		return true, nil
	case strings.HasPrefix(text, "include"):
		return true, nil
	}
	if m := qregRegex.FindStringSubmatch(text); m != nil {
		p.prog.Qubits, _ = strconv.Atoi(m[1])
		return true, nil
	}
	if m := qubitDeclRegex.FindStringSubmatch(text); m != nil {
		p.prog.Qubits, _ = strconv.Atoi(m[1])
		p.prog.Dialect = V3
		return true, nil
	}
	if singleQubitDecl.MatchString(text) {
		p.prog.Qubits = 1
		p.prog.Dialect = V3
		return true, nil
	}
	return bitDeclRegex.MatchString(text), nil
}

// condition parses "(c[k] == v)" after a keyword and returns the remainder.
func (p *parser) condition(s stmt, keyword string) (bit, value int, rest string, err error) {
	m := conditionRegex.FindStringSubmatch(strings.TrimSpace(strings.TrimPrefix(s.text, keyword)))
	if m == nil {
		return 0, 0, "", p.errorf(s, "malformed %s condition, want (c[k] == v)", keyword)
	}
	bit, _ = strconv.Atoi(m[1])
	value, _ = strconv.Atoi(m[2])
	return bit, value, strings.TrimSpace(m[3]), nil
}

func (p *parser) ifStatement(s stmt, depth int) (instr.Instruction, error) {
	bit, value, rest, err := p.condition(s, "if")
	if err != nil {
		return instr.Instruction{}, err
	}
	body, err := p.branch(s, rest, depth)
	if err != nil {
		return instr.Instruction{}, err
	}
	if p.pos < len(p.stmts) {
		next := p.stmts[p.pos]
		if next.kind != stmtClose && keyword(next.text) == "else" {
			p.pos++
			alt, err := p.branch(next, strings.TrimSpace(strings.TrimPrefix(next.text, "else")), depth)
			if err != nil {
				return instr.Instruction{}, err
			}
			return instr.IfElse(bit, value, body, alt), nil
		}
	}
	return instr.If(bit, value, body), nil
}

func (p *parser) whileStatement(s stmt, depth int) (instr.Instruction, error) {
	bit, value, rest, err := p.condition(s, "while")
	if err != nil {
		return instr.Instruction{}, err
	}
	body, err := p.branch(s, rest, depth)
	if err != nil {
		return instr.Instruction{}, err
	}
	return instr.While(bit, value, body), nil
}

func (p *parser) forStatement(s stmt, depth int) (instr.Instruction, error) {
	m := forRegex.FindStringSubmatch(s.text)
	if m == nil {
		return instr.Instruction{}, p.errorf(s, "malformed for header, want for i in [a:b]")
	}
	start, _ := strconv.Atoi(m[2])
	end, _ := strconv.Atoi(m[3])
	body, err := p.branch(s, strings.TrimSpace(m[4]), depth)
	if err != nil {
		return instr.Instruction{}, err
	}
	return instr.For(m[1], start, end, body), nil
}

// branch parses the body following a control-flow header: a brace block
// on the same line, a brace block opened on the next statement, or a
// single statement on the header line.
func (p *parser) branch(s stmt, rest string, depth int) ([]instr.Instruction, error) {
	switch {
	case rest != "":
		return p.statement(stmt{kind: s.kind, text: rest, line: s.line, raw: s.raw}, depth)
	case s.kind == stmtOpen:
		return p.block(depth+1, s)
	}
	if p.pos < len(p.stmts) {
		if next := p.stmts[p.pos]; next.kind == stmtOpen && next.text == "" {
			p.pos++
			return p.block(depth+1, next)
		}
	}
	return nil, p.errorf(s, "expected '{' after %q", s.text)
}

// keyword returns the leading word of a statement.
func keyword(text string) string {
	end := strings.IndexAny(text, " \t([")
	if end < 0 {
		return text
	}
	return text[:end]
}

// parseInstruction parses a single non-control-flow statement.
func parseInstruction(text string) (instr.Instruction, error) {
	if m := measureRegex.FindStringSubmatch(text); m != nil {
		return measurement(m[1], m[2])
	}
	if m := measureV3Regex.FindStringSubmatch(text); m != nil {
		return measurement(m[2], m[1])
	}
	if m := delayRegex.FindStringSubmatch(text); m != nil {
		d, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return instr.Instruction{}, fmt.Errorf("malformed delay duration %q", m[1])
		}
		qs, err := operands(m[3])
		if err != nil {
			return instr.Instruction{}, err
		}
		if len(qs) != 1 {
			return instr.Instruction{}, fmt.Errorf("delay expects 1 qubit, got %d", len(qs))
		}
		return instr.Delay(d, m[2], qs[0]), nil
	}

	m := gateRegex.FindStringSubmatch(text)
	if m == nil {
		return instr.Instruction{}, fmt.Errorf("malformed statement")
	}
	name, paramText, args := m[1], m[2], strings.TrimSpace(m[3])

	switch name {
	case "reset", "barrier":
		if paramText != "" {
			return instr.Instruction{}, fmt.Errorf("%s takes no parameters", name)
		}
		if registerRegex.MatchString(args) {
			if name == "reset" {
				return instr.ResetAll(), nil
			}
			return instr.BarrierAll(), nil
		}
		qs, err := operands(args)
		if err != nil {
			return instr.Instruction{}, err
		}
		if name == "reset" {
			return instr.Reset(qs...), nil
		}
		return instr.Barrier(qs...), nil
	case "measure":
		qs, err := operands(args)
		if err != nil || len(qs) != 1 {
			return instr.Instruction{}, fmt.Errorf("malformed measurement")
		}
		return instr.Measure(qs[0], qs[0]), nil
	}

	op, ok := gateOps[name]
	if !ok {
		return instr.Instruction{}, fmt.Errorf("unknown gate %q", name)
	}
	var params []float64
	if strings.TrimSpace(paramText) != "" {
		if params, ok = parseAngles(paramText); !ok {
			return instr.Instruction{}, fmt.Errorf("malformed angle expression %q", paramText)
		}
	}
	if len(params) != op.NumParams() {
		return instr.Instruction{}, fmt.Errorf("%s expects %d parameters, got %d", name, op.NumParams(), len(params))
	}
	qs, err := operands(args)
	if err != nil {
		return instr.Instruction{}, err
	}
	if len(qs) != op.Arity() {
		return instr.Instruction{}, fmt.Errorf("%s expects %d qubits, got %d", name, op.Arity(), len(qs))
	}
	return instr.Instruction{Op: op, Qubits: qs, Params: params}, nil
}

// measurement builds a measure instruction from its quantum and classical
// operand text; bare register names on both sides mean measure-all.
func measurement(q, c string) (instr.Instruction, error) {
	q, c = strings.TrimSpace(q), strings.TrimSpace(c)
	if registerRegex.MatchString(q) && registerRegex.MatchString(c) {
		return instr.MeasureAll(), nil
	}
	qi, err := operand(q)
	if err != nil {
		return instr.Instruction{}, err
	}
	ci, err := operand(c)
	if err != nil {
		return instr.Instruction{}, err
	}
	return instr.Measure(qi, ci), nil
}

// operands parses a comma-separated operand list.
func operands(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing operands")
	}
	parts := strings.Split(s, ",")
	qs := make([]int, 0, len(parts))
	for _, part := range parts {
		q, err := operand(part)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// operand accepts q[k], $k or a bare ordinal k.
func operand(s string) (int, error) {
	s = strings.TrimSpace(s)
	var digits string
	if m := indexedRegex.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else if m := hardwareRegex.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else {
		digits = s
	}
	k, err := strconv.Atoi(digits)
	if err != nil || k < 0 {
		return 0, fmt.Errorf("malformed operand %q", s)
	}
	return k, nil
}
