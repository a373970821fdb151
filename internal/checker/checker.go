// Package checker evaluates fixture queries against a frozen symbol table.
package checker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/fixture"
	"github.com/funvibe/gradual/internal/pipeline"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
)

// Checker answers the queries of one fixture. It is safe for concurrent use:
// the table is frozen and lattice results are shared through a cache.
type Checker struct {
	fixture *fixture.Fixture
	table   *symbols.Table
	cache   *typesystem.LatticeCache
}

// New creates a checker; table must be frozen.
func New(f *fixture.Fixture, table *symbols.Table) *Checker {
	if !table.IsFrozen() {
		panic("checker: symbol table is not frozen")
	}
	return &Checker{fixture: f, table: table, cache: typesystem.NewLatticeCache(table)}
}

// Run evaluates every query on at most workers goroutines and returns the
// results in query order. Only cancellation of ctx makes it fail.
func (c *Checker) Run(ctx context.Context, workers int) ([]pipeline.QueryResult, error) {
	results := make([]pipeline.QueryResult, len(c.fixture.Queries))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range c.fixture.Queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Evaluate(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate answers query i.
func (c *Checker) Evaluate(i int) (res pipeline.QueryResult) {
	q := c.fixture.Queries[i]
	start := time.Now()
	res = pipeline.QueryResult{
		Index:  i,
		Name:   q.Name,
		Kind:   q.Kind,
		Loc:    c.fixture.QueryLoc(i),
		Expect: q.Expect,
		Passed: true,
	}
	defer func() { res.Duration = time.Since(start) }()

	var err error
	switch q.Kind {
	case fixture.KindSubtype, fixture.KindEquiv:
		err = c.evalBool(i, &res)
	case fixture.KindLub, fixture.KindGlb:
		err = c.evalLattice(i, &res)
	case fixture.KindCall:
		err = c.evalCall(i, &res)
	case fixture.KindArgType:
		err = c.evalArgType(i, &res)
	default:
		err = fmt.Errorf("unknown query kind %q", q.Kind)
	}
	if err != nil {
		res.Passed = false
		res.Diagnostics = append(res.Diagnostics, diagnostics.NewError(diagnostics.ErrF002, res.Loc, err.Error()))
	}
	return res
}

func (c *Checker) parse(src string) (typesystem.Type, error) {
	return typeexpr.Parse(c.table, src)
}

func (c *Checker) parsePair(q fixture.Query) (typesystem.Type, typesystem.Type, error) {
	a, err := c.parse(q.Args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := c.parse(q.Args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (c *Checker) evalBool(i int, res *pipeline.QueryResult) error {
	q := c.fixture.Queries[i]
	a, b, err := c.parsePair(q)
	if err != nil {
		return err
	}
	var answer bool
	if q.Kind == fixture.KindSubtype {
		answer = c.cache.IsSubType(a, b)
	} else {
		answer = c.cache.Equiv(a, b)
	}
	res.Result = fmt.Sprintf("%t", answer)
	if q.Expect != "" && q.Expect != res.Result {
		c.fail(res, fmt.Sprintf("%s(%s, %s) = %s, expected %s", q.Kind, q.Args[0], q.Args[1], res.Result, q.Expect))
	}
	return nil
}

func (c *Checker) evalLattice(i int, res *pipeline.QueryResult) error {
	q := c.fixture.Queries[i]
	a, b, err := c.parsePair(q)
	if err != nil {
		return err
	}
	var t typesystem.Type
	if q.Kind == fixture.KindLub {
		t = c.cache.Lub(a, b)
	} else {
		t = c.cache.Glb(a, b)
	}
	return c.finishType(q, t, res)
}

func (c *Checker) evalCall(i int, res *pipeline.QueryResult) error {
	q := c.fixture.Queries[i]
	recv, err := c.parse(q.Receiver)
	if err != nil {
		return err
	}
	args := make([]typesystem.TypeAndOrigins, len(q.Args))
	for j, src := range q.Args {
		t, err := c.parse(src)
		if err != nil {
			return err
		}
		args[j] = typesystem.NewTypeAndOrigins(t, c.fixture.ArgLoc(i, j))
	}

	dispatched := typesystem.DispatchCall(c.table, recv, q.Method, res.Loc, args, nil)
	res.Diagnostics = append(res.Diagnostics, dispatched.Errors...)
	if len(q.Errors) > 0 {
		if got, want := codes(dispatched.Errors), sortedCopy(q.Errors); !equalStrings(got, want) {
			c.fail(res, fmt.Sprintf("call %s on %s reported %v, expected %v", q.Method, q.Receiver, got, want))
		}
	}
	return c.finishType(q, dispatched.Type, res)
}

func (c *Checker) evalArgType(i int, res *pipeline.QueryResult) error {
	q := c.fixture.Queries[i]
	recv, err := c.parse(q.Receiver)
	if err != nil {
		return err
	}
	return c.finishType(q, typesystem.GetCallArgumentType(c.table, recv, q.Method, q.Index), res)
}

// finishType renders t and compares it with the expected type, if any.
func (c *Checker) finishType(q fixture.Query, t typesystem.Type, res *pipeline.QueryResult) error {
	res.Result = typesystem.Describe(c.table, t)
	if q.Expect == "" {
		return nil
	}
	want, err := c.parse(q.Expect)
	if err != nil {
		return fmt.Errorf("expect: %w", err)
	}
	if !c.cache.Equiv(t, want) {
		c.fail(res, fmt.Sprintf("%s gave `%s`, expected `%s`", q.Kind, res.Result, q.Expect))
	}
	return nil
}

func (c *Checker) fail(res *pipeline.QueryResult, msg string) {
	res.Passed = false
	res.Diagnostics = append(res.Diagnostics, diagnostics.NewError(diagnostics.ErrF001, res.Loc, msg))
}

func codes(errs []*diagnostics.DiagnosticError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = string(e.Code)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
