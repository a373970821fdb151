package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages run in order until one sets a fatal
// error; query diagnostics are not fatal and every query is still checked.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Failed() {
			break
		}
		if ctx.Context != nil && ctx.Context.Err() != nil {
			ctx.Err = ctx.Context.Err()
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
