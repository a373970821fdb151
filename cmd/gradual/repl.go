package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/fixture"
	"github.com/funvibe/gradual/internal/source"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
)

const (
	historyFile = ".gradual_history"
	promptMain  = "gradual> "
)

const replHelp = `commands:
  sub A B              is A a subtype of B
  equiv A B            are A and B equivalent
  lub A B              least upper bound
  glb A B              greatest lower bound
  call R method [A..]  dispatch method on receiver R with argument types
  arg R method i       declared type of argument i
  show T               debug rendering of T
  ancestors C          method resolution order of C with own methods
  :help, :quit`

// errQuit ends the session.
var errQuit = errors.New("quit")

// session evaluates REPL lines against a frozen table.
type session struct {
	table *symbols.Table
	cache *typesystem.LatticeCache
	line  int

	pending []*diagnostics.DiagnosticError
}

func newSession(table *symbols.Table) *session {
	return &session{table: table, cache: typesystem.NewLatticeCache(table)}
}

func (s *session) types(input string, want int) ([]typesystem.Type, error) {
	ts, err := typeexpr.ParseSequence(s.table, input)
	if err != nil {
		return nil, err
	}
	if len(ts) != want {
		return nil, fmt.Errorf("expected %d types, got %d", want, len(ts))
	}
	return ts, nil
}

// eval runs one command and returns what to print. Diagnostics of a call
// are returned separately in diags.
func (s *session) eval(line string) (out string, diags []*diagnostics.DiagnosticError, err error) {
	out, err = s.evalCommand(line)
	diags, s.pending = s.pending, nil
	return out, diags, err
}

func (s *session) evalCommand(line string) (string, error) {
	s.line++
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":quit", ":q", "exit":
		return "", errQuit
	case ":help", "help":
		return replHelp, nil
	case "sub", "equiv":
		ts, err := s.types(rest, 2)
		if err != nil {
			return "", err
		}
		if cmd == "sub" {
			return fmt.Sprintf("%t", s.cache.IsSubType(ts[0], ts[1])), nil
		}
		return fmt.Sprintf("%t", s.cache.Equiv(ts[0], ts[1])), nil
	case "lub", "glb":
		ts, err := s.types(rest, 2)
		if err != nil {
			return "", err
		}
		if cmd == "lub" {
			return typesystem.Describe(s.table, s.cache.Lub(ts[0], ts[1])), nil
		}
		return typesystem.Describe(s.table, s.cache.Glb(ts[0], ts[1])), nil
	case "show":
		ts, err := s.types(rest, 1)
		if err != nil {
			return "", err
		}
		return ts[0].Show(s.table, 0), nil
	case "call", "arg":
		return s.evalCall(cmd, rest)
	case "ancestors":
		ref, ok := s.table.Lookup(rest)
		if !ok {
			return "", fmt.Errorf("unknown class %s", rest)
		}
		var names []string
		for _, a := range s.table.Ancestors(ref) {
			name := s.table.ClassName(a)
			if methods := s.table.Methods(a); len(methods) > 0 {
				own := make([]string, len(methods))
				for i, m := range methods {
					own[i] = m.Name
				}
				name += "(" + strings.Join(own, ", ") + ")"
			}
			names = append(names, name)
		}
		return strings.Join(names, " > "), nil
	}
	return "", fmt.Errorf("unknown command %q (try :help)", cmd)
}

func (s *session) evalCall(cmd, rest string) (string, error) {
	recvSrc, method, argSrc, ok := typeexpr.SplitAtMethod(rest)
	if !ok {
		return "", fmt.Errorf("usage: %s <receiver> <method> ...", cmd)
	}
	recv, err := s.types(recvSrc, 1)
	if err != nil {
		return "", fmt.Errorf("receiver: %w", err)
	}

	if cmd == "arg" {
		var i int
		if _, err := fmt.Sscanf(strings.TrimSpace(argSrc), "%d", &i); err != nil || i < 0 {
			return "", fmt.Errorf("usage: arg <receiver> <method> <index>")
		}
		return typesystem.Describe(s.table, typesystem.GetCallArgumentType(s.table, recv[0], method, i)), nil
	}

	argTypes, err := typeexpr.ParseSequence(s.table, argSrc)
	if err != nil {
		return "", fmt.Errorf("arguments: %w", err)
	}
	callLoc := source.NewLoc("repl", s.line, len(recvSrc)+len(cmd)+2, len(method))
	args := make([]typesystem.TypeAndOrigins, len(argTypes))
	for i, t := range argTypes {
		args[i] = typesystem.NewTypeAndOrigins(t, callLoc)
	}
	res := typesystem.DispatchCall(s.table, recv[0], method, callLoc, args, nil)
	s.pending = res.Errors
	return typesystem.Describe(s.table, res.Type), nil
}

func loadTable(args []string) (*symbols.Table, error) {
	if len(args) == 0 {
		st := symbols.NewTable()
		st.Freeze()
		return st, nil
	}
	f, err := fixture.LoadFixture(args[0])
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func cmdRepl(args []string) int {
	table, err := loadTable(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	s := newSession(table)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	printer := diagnostics.NewPrinter(os.Stderr)
	fmt.Println("gradual repl, :help for commands")
	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return 0
			}
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		out, diags, err := s.eval(line)
		if errors.Is(err, errQuit) {
			return 0
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
		for _, d := range diags {
			printer.Print(d)
		}
	}
}
