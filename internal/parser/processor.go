package parser

import (
	"github.com/funvibe/tourte/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		// The lexer failed and already reported why.
		return ctx
	}

	parser := New(ctx.Tokens)
	program := parser.ParseProgram()
	if err := parser.Err(); err != nil {
		ctx.AstRoot = nil
		ctx.AddErrors(err)
		return ctx
	}

	program.File = ctx.FilePath
	ctx.AstRoot = program
	return ctx
}
