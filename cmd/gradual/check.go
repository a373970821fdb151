package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/funvibe/gradual/internal/checker"
	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/fixture"
	"github.com/funvibe/gradual/internal/pipeline"
	"github.com/funvibe/gradual/internal/store"
)

// resolveFixture returns the explicit path or the nearest gradual.yaml.
func resolveFixture(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := fixture.FindFixture(wd)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no gradual.yaml found in %s or its parents", wd)
	}
	return path, nil
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "SQLite database to record the run in")
	workers := fs.Int("workers", 0, "concurrent queries (default from fixture)")
	verbose := fs.Bool("v", false, "print every query result")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, err := resolveFixture(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stages := []pipeline.Processor{
		&pipeline.FixtureProcessor{},
		&checker.CheckerProcessor{Workers: *workers},
	}
	if *dbPath != "" {
		db, err := store.Open(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
		defer db.Close()
		stages = append(stages, &store.PersistProcessor{Store: db})
	}

	result := pipeline.New(stages...).Run(pipeline.NewPipelineContext(ctx, path))

	if *verbose {
		for _, r := range result.Results {
			status := "ok  "
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(stdout, "%s %-24s %-8s %s\n", status, r.Name, r.Kind, r.Result)
		}
	}
	diagnostics.NewPrinter(stderr).PrintAll(result.Errors)

	if result.Err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", result.Err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: %d/%d queries passed (run %s)\n",
		path, result.Passed(), len(result.Results), result.RunID)
	if result.Passed() != len(result.Results) {
		return 1
	}
	return 0
}

func cmdRuns(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "SQLite database holding recorded runs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dbPath == "" {
		fmt.Fprintln(stderr, "Error: --db is required")
		return 2
	}

	ctx := context.Background()
	db, err := store.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "%s  %s  %d/%d passed  %d diagnostics  %s\n",
			r.ID, r.Started.Format("2006-01-02 15:04:05"), r.Passed, r.Queries, r.Diagnostics, r.Fixture)
	}
	return 0
}
