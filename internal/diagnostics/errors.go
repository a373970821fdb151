package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/gradual/internal/source"
)

type ErrorCode string

const (
	ErrD001 ErrorCode = "D001" // Method does not exist on receiver
	ErrD002 ErrorCode = "D002" // Wrong number of arguments
	ErrD003 ErrorCode = "D003" // Argument type mismatch
	ErrD004 ErrorCode = "D004" // Untyped receiver in strict mode

	ErrF001 ErrorCode = "F001" // Fixture expectation failed
	ErrF002 ErrorCode = "F002" // Invalid type expression in a query
)

var errorMessages = map[ErrorCode]string{
	ErrD001: "method `%s` does not exist on `%s`",
	ErrD002: "wrong number of arguments for `%s`: expected %s, got %d",
	ErrD003: "argument %d to `%s` does not match parameter `%s`: expected `%s`, got `%s`",
	ErrD004: "call to `%s` on an untyped receiver",
	ErrF001: "%s",
	ErrF002: "%s",
}

// ErrorLine is a single line of explanation attached to a diagnostic.
type ErrorLine struct {
	Loc     source.Loc
	Message string
}

func (l ErrorLine) String() string {
	if l.Message == "" {
		return l.Loc.String()
	}
	return fmt.Sprintf("%s: %s", l.Loc, l.Message)
}

// DiagnosticError is a recoverable problem found in the checked program.
// It never represents a defect of the checker itself.
type DiagnosticError struct {
	Code   ErrorCode
	Loc    source.Loc
	Header string
	Lines  []ErrorLine
}

// NewError builds a diagnostic whose header is the message template of code
// filled in with args.
func NewError(code ErrorCode, loc source.Loc, args ...interface{}) *DiagnosticError {
	tmpl, ok := errorMessages[code]
	if !ok {
		tmpl = strings.TrimSpace(strings.Repeat("%v ", len(args)))
	}
	return &DiagnosticError{
		Code:   code,
		Loc:    loc,
		Header: fmt.Sprintf(tmpl, args...),
	}
}

// WithLines returns a copy of e with lines appended to its explanation.
func (e *DiagnosticError) WithLines(lines ...ErrorLine) *DiagnosticError {
	merged := make([]ErrorLine, 0, len(e.Lines)+len(lines))
	merged = append(merged, e.Lines...)
	merged = append(merged, lines...)
	return &DiagnosticError{Code: e.Code, Loc: e.Loc, Header: e.Header, Lines: merged}
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: [%s] %s", e.Loc, e.Code, e.Header)
	for _, line := range e.Lines {
		sb.WriteString("\n    ")
		sb.WriteString(line.String())
	}
	return sb.String()
}
