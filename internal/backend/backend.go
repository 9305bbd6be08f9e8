// Package backend runs compiled programs and assembles the standard
// compilation pipeline.
package backend

import (
	"github.com/funvibe/tourte/internal/pipeline"
)

// Backend is the interface for execution backends.
type Backend interface {
	// Run executes the assembly held in the pipeline context.
	Run(ctx *pipeline.PipelineContext) (*Result, error)

	// Name returns the backend name for display.
	Name() string
}

// Result describes a finished run.
type Result struct {
	ExitCode int64
	Steps    int
}
