package diagnostics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/funvibe/gradual/internal/source"
)

func TestNewErrorFormatsHeader(t *testing.T) {
	err := NewError(ErrD001, source.NewLoc("a.rb", 2, 3, 1), "foo", "Integer")
	if err.Header != "method `foo` does not exist on `Integer`" {
		t.Errorf("Header = %q", err.Header)
	}
	if !strings.HasPrefix(err.Error(), "a.rb:2:3: [D001]") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWithLinesDoesNotMutate(t *testing.T) {
	base := NewError(ErrD004, source.Loc{}, "foo")
	extended := base.WithLines(ErrorLine{Loc: source.NewLoc("a.rb", 1, 1, 1)})
	if len(base.Lines) != 0 {
		t.Errorf("base diagnostic was mutated: %v", base.Lines)
	}
	if len(extended.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(extended.Lines))
	}
	if !strings.Contains(extended.Error(), "a.rb:1:1") {
		t.Errorf("explanation line missing from %q", extended.Error())
	}
}

func TestCollectorConcurrentReport(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(NewError(ErrD002, source.Loc{}, "m", "1", 2))
		}()
	}
	wg.Wait()
	c.Report(nil)
	if c.Len() != 32 {
		t.Errorf("Len() = %d, want 32", c.Len())
	}
}

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintAll([]*DiagnosticError{
		NewError(ErrD001, source.NewLoc("x.rb", 1, 1, 1), "bar", "String").
			WithLines(ErrorLine{Loc: source.NewLoc("x.rb", 4, 2, 1), Message: "receiver"}),
	})
	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("non-terminal output must not contain escape codes: %q", out)
	}
	want := "x.rb:1:1: [D001] method `bar` does not exist on `String`\n    x.rb:4:2: receiver\nErrors: 1\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
