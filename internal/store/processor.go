package store

import (
	"time"

	"github.com/funvibe/gradual/internal/pipeline"
)

// PersistProcessor saves the finished run. A nil Store disables it.
type PersistProcessor struct {
	Store *Store
}

func (pp *PersistProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if pp.Store == nil {
		return ctx
	}
	run := Run{
		ID:       ctx.RunID,
		Fixture:  ctx.FilePath,
		Started:  ctx.Started,
		Duration: time.Since(ctx.Started),
		Results:  ctx.Results,
	}
	if ctx.Fixture != nil {
		run.Strict = ctx.Fixture.Strict
	}
	if err := pp.Store.SaveRun(ctx.Context, run); err != nil {
		ctx.Err = err
	}
	return ctx
}
