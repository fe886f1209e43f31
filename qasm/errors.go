package qasm

import "fmt"

// ParseError reports the first malformed statement in program text.
type ParseError struct {
	Line int    // 1-based
	Text string // the offending source line
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}
