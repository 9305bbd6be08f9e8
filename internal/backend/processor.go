package backend

import (
	"errors"

	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/pipeline"
	"github.com/funvibe/tourte/internal/token"
)

// AssemblyFile names the listing in runtime diagnostics.
const AssemblyFile = "<assembly>"

// ExecutionProcessor implements pipeline.Processor to run a Backend.
type ExecutionProcessor struct {
	Backend Backend

	// Result is set after a successful run.
	Result *Result
}

// NewExecutionProcessor creates a new pipeline step for the given backend.
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Assembly == nil || ctx.HasErrors() {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		p.handleError(ctx, err)
		return ctx
	}
	p.Result = result
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		// Positions refer to the listing, not the source
		if de.File == "" {
			de.File = AssemblyFile
		}
		ctx.AddErrors(de)
		return
	}
	// Location is unknown for errors outside the emulated program
	ctx.AddErrors(diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error()))
}
