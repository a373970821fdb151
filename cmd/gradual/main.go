package main

import (
	"fmt"
	"os"

	"github.com/funvibe/gradual/internal/config"
)

const usage = `gradual - gradual type lattice checker

Usage:
  gradual check [--db path] [--workers n] [fixture]   evaluate fixture queries
  gradual runs --db path                              list stored runs
  gradual repl [fixture]                              interactive lattice queries
  gradual serve [--addr host:port] [fixture]          serve lattice queries over gRPC
  gradual query [--addr host:port] <method> args...   ask a running server
  gradual version                                     print the version

The fixture defaults to the nearest gradual.yaml in the current directory
or its parents.
`

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("GRADUAL_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	args := os.Args[2:]
	var code int
	switch os.Args[1] {
	case "check":
		code = cmdCheck(args, os.Stdout, os.Stderr)
	case "runs":
		code = cmdRuns(args, os.Stdout, os.Stderr)
	case "repl":
		code = cmdRepl(args)
	case "serve":
		code = cmdServe(args, os.Stdout, os.Stderr)
	case "query":
		code = cmdQuery(args, os.Stdout, os.Stderr)
	case "version", "-version", "--version":
		fmt.Println("gradual", config.Version)
	case "help", "-help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		code = 2
	}
	os.Exit(code)
}
