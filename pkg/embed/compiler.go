// Package tourte is the embedding API: it compiles tourte source to NASM
// assembly and runs it on the built-in emulator from a Go program.
package tourte

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/funvibe/tourte/internal/backend"
	"github.com/funvibe/tourte/internal/config"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/pipeline"
)

// Compiler holds the settings of embedded compilations. A Compiler has no
// per-run state and may be shared between goroutines.
type Compiler struct {
	maxSteps int
	output   io.Writer
}

// New creates a Compiler with the default step limit and no output mirror.
func New() *Compiler {
	return &Compiler{maxSteps: config.DefaultMaxSteps}
}

// SetMaxSteps bounds how many instructions Eval may execute.
// A negative value removes the bound.
func (c *Compiler) SetMaxSteps(n int) {
	c.maxSteps = n
}

// SetOutput mirrors program output to w as well as returning it from Eval.
func (c *Compiler) SetOutput(w io.Writer) {
	c.output = w
}

// Check lexes, parses and analyzes source.
func (c *Compiler) Check(source string) error {
	ctx := backend.Frontend().Run(pipeline.NewPipelineContext(source))
	return ctx.Err()
}

// Compile returns the assembly listing for source.
func (c *Compiler) Compile(source string) ([]string, error) {
	ctx := backend.Compile(source, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ctx.Assembly, nil
}

// Eval compiles and runs source, returning what it printed.
func (c *Compiler) Eval(source string) (string, error) {
	return c.eval(source, "")
}

// EvalFile is Eval for a file; diagnostics carry its path.
func (c *Compiler) EvalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return c.eval(string(data), path)
}

func (c *Compiler) eval(source, path string) (string, error) {
	ctx := backend.Compile(source, path)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out bytes.Buffer
	var w io.Writer = &out
	if c.output != nil {
		w = io.MultiWriter(&out, c.output)
	}
	ctx, _ = backend.Execute(ctx, backend.NewEmulator(w, c.maxSteps))
	return out.String(), ctx.Err()
}

// Diagnostic is one compiler or runtime error.
type Diagnostic struct {
	Code    string // e.g. "A001"
	Stage   string // e.g. "semantic error"
	File    string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Diagnostics unpacks an error returned by this package. It returns nil for
// errors that did not come from the compiler, such as I/O failures.
func Diagnostics(err error) []Diagnostic {
	list := diagnostics.Diagnostics(err)
	if list == nil {
		return nil
	}
	out := make([]Diagnostic, len(list))
	for i, de := range list {
		out[i] = Diagnostic{
			Code:    string(de.Code),
			Stage:   de.Kind().String(),
			File:    de.File,
			Line:    de.Token.Line,
			Column:  de.Token.Column,
			Message: de.Message,
		}
	}
	return out
}
