package backend

import (
	"fmt"
	"io"

	"github.com/funvibe/tourte/internal/emulator"
	"github.com/funvibe/tourte/internal/pipeline"
)

// EmulatorBackend executes listings on the built-in x86-64 emulator.
type EmulatorBackend struct {
	stdout   io.Writer
	maxSteps int
}

// NewEmulator creates an emulator backend writing program output to stdout.
// A maxSteps of 0 keeps the emulator's default limit.
func NewEmulator(stdout io.Writer, maxSteps int) *EmulatorBackend {
	return &EmulatorBackend{stdout: stdout, maxSteps: maxSteps}
}

func (b *EmulatorBackend) Name() string {
	return "emulator"
}

// Run loads and executes ctx.Assembly.
func (b *EmulatorBackend) Run(ctx *pipeline.PipelineContext) (*Result, error) {
	if ctx.Assembly == nil {
		return nil, fmt.Errorf("no assembly to run")
	}

	prog, err := emulator.Load(ctx.Assembly)
	if err != nil {
		return nil, err
	}
	machine := emulator.NewMachine(prog, emulator.Options{
		Stdout:   b.stdout,
		MaxSteps: b.maxSteps,
	})
	code, err := machine.Run()
	if err != nil {
		return nil, err
	}
	return &Result{ExitCode: code, Steps: machine.Steps()}, nil
}
