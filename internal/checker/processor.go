package checker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/pipeline"
)

// CheckerProcessor evaluates the fixture's queries. Expectation failures and
// dispatch diagnostics are collected on the context; they are not fatal.
type CheckerProcessor struct {
	// Workers overrides the fixture's worker count when positive.
	Workers int
}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Fixture == nil || ctx.Table == nil {
		ctx.Err = fmt.Errorf("checker: fixture is not loaded")
		return ctx
	}
	if ctx.RunID == "" {
		ctx.RunID = newRunID(ctx.FilePath)
	}

	workers := ctx.Fixture.Workers
	if cp.Workers > 0 {
		workers = cp.Workers
	}
	results, err := New(ctx.Fixture, ctx.Table).Run(ctx.Context, workers)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Results = results
	for _, r := range results {
		ctx.Errors = append(ctx.Errors, r.Diagnostics...)
	}
	return ctx
}

// newRunID is random, except in test mode where it is derived from the
// fixture path so output is reproducible.
func newRunID(path string) string {
	if config.IsTestMode {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gradual:"+path)).String()
	}
	return uuid.NewString()
}
