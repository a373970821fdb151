package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typesystem"
)

func newTestSession(t *testing.T) *session {
	t.Helper()
	st := symbols.NewTable()
	integer, _ := st.Lookup("Integer")
	err := st.DefineMethod(integer, typesystem.Method{
		Name:   "add",
		Params: []typesystem.Param{{Name: "other", Type: st.MustClassType("Integer")}},
		Result: st.MustClassType("Integer"),
	})
	if err != nil {
		t.Fatal(err)
	}
	st.Freeze()
	return newSession(st)
}

func TestSessionEval(t *testing.T) {
	s := newTestSession(t)
	tests := []struct {
		line string
		want string
	}{
		{"sub Integer Numeric", "true"},
		{"sub Numeric Integer", "false"},
		{"sub 5 Integer | String", "true"},
		{"equiv Integer | String String | Integer", "true"},
		{"lub Integer String", "Integer | String"},
		{"lub Integer Numeric", "Numeric"},
		{"glb Numeric Comparable", "Numeric"},
		{"glb Integer String", "Integer & String"},
		{"lub dynamic Integer", "dynamic"},
		{"call Integer add 1", "Integer"},
		{"arg Integer add 0", "Integer"},
		{"arg Integer | nil add 0", "Integer"},
		{"show 5", "Integer(5)"},
		{"ancestors Integer", "Integer(add) > Numeric > Comparable > Object > Kernel > BasicObject"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, diags, err := s.eval(tt.line)
			if err != nil {
				t.Fatalf("eval(%q): %v", tt.line, err)
			}
			if len(diags) != 0 {
				t.Errorf("unexpected diagnostics: %v", diags)
			}
			if got != tt.want {
				t.Errorf("eval(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSessionCallDiagnostics(t *testing.T) {
	s := newTestSession(t)
	out, diags, err := s.eval("call Integer | String add :x")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dynamic" {
		t.Errorf("result = %q, want dynamic", out)
	}
	if len(diags) != 2 || diags[0].Code != diagnostics.ErrD003 || diags[1].Code != diagnostics.ErrD001 {
		t.Errorf("diagnostics = %v", diags)
	}

	// Diagnostics are handed out once.
	if _, diags, _ := s.eval("sub Integer Integer"); len(diags) != 0 {
		t.Errorf("stale diagnostics: %v", diags)
	}
}

func TestSessionErrors(t *testing.T) {
	s := newTestSession(t)
	for _, line := range []string{
		"sub Integer",
		"lub Integer Nope",
		"call Integer",
		"arg Integer add x",
		"ancestors Nope",
		"frobnicate",
	} {
		if _, _, err := s.eval(line); err == nil {
			t.Errorf("eval(%q) should fail", line)
		}
	}

	_, _, err := s.eval(":quit")
	if !errors.Is(err, errQuit) {
		t.Errorf(":quit = %v", err)
	}
	help, _, _ := s.eval(":help")
	if !strings.Contains(help, "lub A B") {
		t.Errorf("help text missing commands: %q", help)
	}
}
