package lexer

import (
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := Tokenize(ctx.SourceCode)
	if err != nil {
		ctx.Tokens = nil
		ctx.AddErrors(diagnostics.Diagnostics(err)...)
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}
