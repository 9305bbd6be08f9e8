package backend_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/backend"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/pipeline"
)

func TestCompileAndExecute(t *testing.T) {
	ctx := backend.Compile("x = 6;\nprint(x * 7);", "main.tourte")
	be.Err(t, ctx.Err(), nil)
	be.True(t, ctx.SymbolTable != nil)

	var out bytes.Buffer
	ctx, result := backend.Execute(ctx, backend.NewEmulator(&out, 0))
	be.Err(t, ctx.Err(), nil)
	be.Equal(t, out.String(), "42\n")
	be.Equal(t, result.ExitCode, int64(0))
	be.True(t, result.Steps > 0)
}

func TestCompileStampsFile(t *testing.T) {
	ctx := backend.Compile("print(y);", "main.tourte")
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Error(), "main.tourte:1:7: [A001] undeclared identifier 'y'")
	be.True(t, ctx.Assembly == nil)
}

func TestExecuteSkipsFailedCompilation(t *testing.T) {
	ctx := backend.Compile("x = 1.5;", "")
	var out bytes.Buffer
	ctx, result := backend.Execute(ctx, backend.NewEmulator(&out, 0))
	be.True(t, result == nil)
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrG001)
}

func TestRuntimeErrorIsReported(t *testing.T) {
	ctx := backend.Compile("x = 0;\nprint(1 / x);", "main.tourte")
	be.Err(t, ctx.Err(), nil)

	ctx, result := backend.Execute(ctx, backend.NewEmulator(&bytes.Buffer{}, 0))
	be.True(t, result == nil)
	be.Equal(t, len(ctx.Errors), 1)
	de := ctx.Errors[0]
	be.Equal(t, de.Code, diagnostics.ErrR001)
	be.Equal(t, de.File, backend.AssemblyFile)
	be.True(t, strings.Contains(de.Message, "division by zero"))
	be.Equal(t, de.Token.Lexeme, "idiv rbx")
}

func TestStepLimit(t *testing.T) {
	ctx := backend.Compile("while (1) { x = 1; };", "")
	be.Err(t, ctx.Err(), nil)

	ctx, _ = backend.Execute(ctx, backend.NewEmulator(&bytes.Buffer{}, 50))
	be.Equal(t, len(ctx.Errors), 1)
	be.True(t, strings.Contains(ctx.Errors[0].Message, "step limit of 50 exceeded"))
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Run(*pipeline.PipelineContext) (*backend.Result, error) {
	return nil, errTest
}

var errTest = errors.New("backend unavailable")

func TestPlainErrorsBecomeRuntimeDiagnostics(t *testing.T) {
	ctx := pipeline.NewPipelineContext("")
	ctx.Assembly = []string{"main:"}
	ctx, _ = backend.Execute(ctx, failingBackend{})
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrR001)
	be.Equal(t, ctx.Errors[0].Message, "runtime error: backend unavailable")
	be.Equal(t, backend.NewEmulator(nil, 0).Name(), "emulator")
}
