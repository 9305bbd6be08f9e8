package codegen

import (
	"github.com/funvibe/tourte/internal/pipeline"
)

type CodegenProcessor struct{}

func (cp *CodegenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// Generation assumes a checked tree.
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	g := NewGenerator()
	lines := g.Generate(ctx.AstRoot)
	if err := g.Err(); err != nil {
		ctx.Assembly = nil
		ctx.AddErrors(err)
		return ctx
	}
	ctx.Assembly = lines
	return ctx
}
