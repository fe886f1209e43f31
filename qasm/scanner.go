package qasm

import "strings"

type stmtKind int

const (
	stmtPlain stmtKind = iota // terminated by ';', '}' or end of line
	stmtOpen                  // text before a '{'
	stmtClose                 // a '}'
)

// stmt is one statement of program text, tagged with the source line it
// started on.
type stmt struct {
	kind stmtKind
	text string
	line int
	raw  string
}

// scan splits program text into statements. Comments are dropped, ';' is
// consumed, and braces become their own statements so that a block may be
// opened on the header line, on the next line, or share a line with
// '} else {'.
func scan(src string) []stmt {
	var (
		stmts []stmt
		buf   strings.Builder
	)
	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		raw := strings.TrimSpace(line)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}

		flush := func(kind stmtKind) {
			text := strings.TrimSpace(buf.String())
			buf.Reset()
			if text == "" && kind == stmtPlain {
				return
			}
			stmts = append(stmts, stmt{kind: kind, text: text, line: lineNo, raw: raw})
		}

		for _, r := range line {
			switch r {
			case ';':
				flush(stmtPlain)
			case '{':
				flush(stmtOpen)
			case '}':
				flush(stmtPlain)
				stmts = append(stmts, stmt{kind: stmtClose, text: "}", line: lineNo, raw: raw})
			default:
				buf.WriteRune(r)
			}
		}
		flush(stmtPlain)
	}
	return stmts
}
