package pipeline

import (
	"context"
	"time"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/fixture"
	"github.com/funvibe/gradual/internal/source"
	"github.com/funvibe/gradual/internal/symbols"
)

// Processor is one stage of a check run.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries a run from the fixture path to stored results.
type PipelineContext struct {
	Context  context.Context
	FilePath string
	RunID    string
	Started  time.Time

	Fixture *fixture.Fixture
	Table   *symbols.Table
	Results []QueryResult

	// Errors are the diagnostics produced by every query, in query order.
	Errors []*diagnostics.DiagnosticError

	// Err is a fatal error; stages after the one that set it do nothing.
	Err error
}

func NewPipelineContext(ctx context.Context, filePath string) *PipelineContext {
	return &PipelineContext{Context: ctx, FilePath: filePath, Started: time.Now()}
}

// Failed reports whether a stage hit a fatal error.
func (c *PipelineContext) Failed() bool { return c.Err != nil }

// QueryResult is the outcome of one fixture query.
type QueryResult struct {
	Index int
	Name  string
	Kind  fixture.QueryKind
	Loc   source.Loc

	// Result is the rendered answer: "true"/"false" or a type expression.
	Result string
	Expect string

	// Passed is false only when an expectation was set and not met.
	Passed bool

	Diagnostics []*diagnostics.DiagnosticError
	Duration    time.Duration
}

// Passed counts results that met their expectations.
func (c *PipelineContext) Passed() int {
	n := 0
	for _, r := range c.Results {
		if r.Passed {
			n++
		}
	}
	return n
}
