package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiDim   = "\033[2m"
)

// Printer renders diagnostics for humans.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w. Colour is enabled only when w is a
// terminal and NO_COLOR is unset.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: supportsColor(w)}
}

func supportsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func (p *Printer) Print(err *DiagnosticError) {
	if p.color {
		fmt.Fprintf(p.w, "%s: %s[%s]%s %s\n", err.Loc, ansiRed, err.Code, ansiReset, err.Header)
	} else {
		fmt.Fprintf(p.w, "%s: [%s] %s\n", err.Loc, err.Code, err.Header)
	}
	for _, line := range err.Lines {
		if p.color {
			fmt.Fprintf(p.w, "    %s%s%s\n", ansiDim, line, ansiReset)
		} else {
			fmt.Fprintf(p.w, "    %s\n", line)
		}
	}
}

// PrintAll prints errs followed by a summary line when there is anything to report.
func (p *Printer) PrintAll(errs []*DiagnosticError) {
	for _, err := range errs {
		p.Print(err)
	}
	if len(errs) > 0 {
		fmt.Fprintf(p.w, "Errors: %d\n", len(errs))
	}
}
