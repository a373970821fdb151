package pipeline

import (
	"fmt"

	"github.com/funvibe/gradual/internal/fixture"
)

// FixtureProcessor loads FilePath and builds its frozen symbol table.
// A Fixture already set on the context is used as is.
type FixtureProcessor struct{}

func (fp *FixtureProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Fixture == nil {
		if ctx.FilePath == "" {
			ctx.Err = fmt.Errorf("no fixture given")
			return ctx
		}
		f, err := fixture.LoadFixture(ctx.FilePath)
		if err != nil {
			ctx.Err = err
			return ctx
		}
		ctx.Fixture = f
	}

	table, err := ctx.Fixture.Build()
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Table = table
	return ctx
}
