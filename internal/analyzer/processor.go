package analyzer

import (
	"github.com/funvibe/tourte/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}

	analyzer := New()
	errors := analyzer.Analyze(ctx.AstRoot)
	ctx.SymbolTable = analyzer.SymbolTable()

	if len(errors) > 0 {
		ctx.AddErrors(errors...)
	}
	return ctx
}
