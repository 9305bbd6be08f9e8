package backend

import (
	"github.com/funvibe/tourte/internal/analyzer"
	"github.com/funvibe/tourte/internal/codegen"
	"github.com/funvibe/tourte/internal/lexer"
	"github.com/funvibe/tourte/internal/parser"
	"github.com/funvibe/tourte/internal/pipeline"
)

// Frontend returns the stages up to and including semantic analysis.
func Frontend() *pipeline.Pipeline {
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	)
}

// Compiler returns a pipeline that turns source into assembly.
func Compiler() *pipeline.Pipeline {
	return Frontend().With(&codegen.CodegenProcessor{})
}

// Compile runs the compiler pipeline over source. The file path is only
// used to stamp diagnostics.
func Compile(source, filePath string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath
	return Compiler().Run(ctx)
}

// Execute runs ctx's assembly on b, recording runtime errors in ctx.
func Execute(ctx *pipeline.PipelineContext, b Backend) (*pipeline.PipelineContext, *Result) {
	exec := NewExecutionProcessor(b)
	ctx = pipeline.New(exec).Run(ctx)
	return ctx, exec.Result
}
