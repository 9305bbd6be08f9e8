package pipeline

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/symbols"
	"github.com/funvibe/tourte/internal/token"
)

// Processor is one compilation stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the artefacts of one compilation run between stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Tokens      []token.Token
	AstRoot     *ast.Program
	SymbolTable *symbols.SymbolTable
	Assembly    []string

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// AddErrors appends diagnostics, stamping them with the context's file.
func (ctx *PipelineContext) AddErrors(errs ...*diagnostics.DiagnosticError) {
	for _, err := range errs {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
}

// Err returns the recorded diagnostics as a single error, or nil.
func (ctx *PipelineContext) Err() error {
	return diagnostics.List(ctx.Errors).Err()
}
