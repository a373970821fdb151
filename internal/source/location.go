package source

import "fmt"

// Loc is a span of program text. Line and Column are 1-based; a zero Loc
// means the location is unknown.
type Loc struct {
	File   string
	Line   int
	Column int
	Length int
}

// NewLoc creates a Loc covering length bytes starting at line:column.
func NewLoc(file string, line, column, length int) Loc {
	return Loc{File: file, Line: line, Column: column, Length: length}
}

// Exists reports whether l points at real source text.
func (l Loc) Exists() bool {
	return l.Line > 0
}

func (l Loc) String() string {
	if !l.Exists() {
		return "location(unknown)"
	}
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
