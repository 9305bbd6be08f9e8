// Package codegen lowers the scalar subset of a checked program to x86-64
// NASM source.
//
// Every value is a signed 64-bit integer. Expressions are evaluated with a
// two-register discipline: the left operand goes to rax and is saved on the
// stack while the right operand is computed into rbx, then the operator is
// applied to rax. Variables live in one .bss slot per distinct name.
package codegen

import (
	"fmt"
	"strings"

	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

const (
	// FormatLabel is the printf template used by print.
	FormatLabel = "fmt_int"
	// EntryLabel is the program entry point.
	EntryLabel = "main"
)

// Generator emits assembly for one program. It is not safe for concurrent
// use; create one per run.
type Generator struct {
	text     []string
	bindings *Bindings
	labels   *LabelAllocator

	dest string // register the current expression must end up in
	err  *diagnostics.DiagnosticError
}

func NewGenerator() *Generator {
	return &Generator{
		bindings: NewBindings(),
		labels:   &LabelAllocator{},
	}
}

// Generate lowers a program to assembly lines.
func Generate(program *ast.Program) ([]string, error) {
	g := NewGenerator()
	lines := g.Generate(program)
	if g.err != nil {
		return nil, g.err
	}
	return lines, nil
}

// Generate returns the assembly lines, or nil after an unsupported construct;
// Err then reports it.
func (g *Generator) Generate(program *ast.Program) []string {
	if program == nil {
		return nil
	}
	program.Accept(g)
	if g.err != nil {
		return nil
	}

	var out []string
	out = append(out,
		"default rel",
		"extern printf",
		"global "+EntryLabel,
		"",
		"section .text",
		EntryLabel+":",
	)
	out = append(out, prologue...)
	out = append(out, g.text...)
	out = append(out, epilogue...)
	out = append(out,
		"",
		"section .rodata",
		FormatLabel+`: db "%ld",10,0`,
		"",
		"section .bss",
	)
	for _, label := range g.bindings.Labels() {
		out = append(out, label+" resq 1")
	}
	return out
}

// rbx is callee-saved; the extra slot keeps rsp 16-byte aligned for calls.
var prologue = []string{
	"    push rbp",
	"    mov rbp, rsp",
	"    push rbx",
	"    sub rsp, 8",
}

var epilogue = []string{
	"    mov rax, 0",
	"    mov rbx, [rbp-8]",
	"    leave",
	"    ret",
}

func (g *Generator) Err() *diagnostics.DiagnosticError {
	return g.err
}

// Bindings exposes the variable slots allocated so far.
func (g *Generator) Bindings() *Bindings {
	return g.bindings
}

func (g *Generator) emit(format string, args ...interface{}) {
	g.text = append(g.text, "    "+fmt.Sprintf(format, args...))
}

func (g *Generator) emitLabel(label string) {
	g.text = append(g.text, label+":")
}

func (g *Generator) comment(s string) {
	g.text = append(g.text, "    ; "+strings.ReplaceAll(s, "\n", " "))
}

func (g *Generator) unsupported(tok token.Token, what string) {
	if g.err == nil {
		g.err = diagnostics.NewError(diagnostics.ErrG001, tok, what)
	}
}

func (g *Generator) failed() bool {
	return g.err != nil
}
