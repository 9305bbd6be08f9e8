package pipeline

// Pipeline is an ordered list of stages. Every stage runs; a stage whose
// input is missing because an earlier one failed returns the context as is.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// With returns a pipeline that runs p's stages followed by more.
// p itself is not modified.
func (p *Pipeline) With(more ...Processor) *Pipeline {
	stages := make([]Processor, 0, len(p.processors)+len(more))
	stages = append(stages, p.processors...)
	return &Pipeline{processors: append(stages, more...)}
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Run threads ctx through every stage.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.processors {
		ctx = stage.Process(ctx)
	}
	return ctx
}
