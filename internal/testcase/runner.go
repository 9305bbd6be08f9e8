package testcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/tourte/internal/backend"
	"github.com/funvibe/tourte/internal/lexer"
	"github.com/funvibe/tourte/internal/parser"
	"github.com/funvibe/tourte/internal/prettyprinter"
)

// Failure is one assertion that did not hold.
type Failure struct {
	Assertion Assertion
	Message   string
}

func (f Failure) String() string {
	return fmt.Sprintf("line %d: %s: %s", f.Assertion.Line, f.Assertion.Type, f.Message)
}

// Run checks every assertion of tc and returns the ones that failed.
// maxSteps bounds emulation; 0 keeps the emulator default.
func Run(tc TestCase, maxSteps int) []Failure {
	var failures []Failure
	for _, a := range tc.Assertions {
		if msg := check(tc.Input, a, maxSteps); msg != "" {
			failures = append(failures, Failure{Assertion: a, Message: msg})
		}
	}
	return failures
}

func check(input string, a Assertion, maxSteps int) string {
	switch a.Type {
	case AssertTokens:
		tokens, err := lexer.Tokenize(input)
		if err != nil {
			return "unexpected error: " + err.Error()
		}
		return compare(FormatTokens(tokens), a.Content)

	case AssertTree:
		tokens, err := lexer.Tokenize(input)
		if err != nil {
			return "unexpected error: " + err.Error()
		}
		program, err := parser.Parse(tokens)
		if err != nil {
			return "unexpected error: " + err.Error()
		}
		return compare(strings.TrimRight(prettyprinter.Tree(program), "\n"), a.Content)

	case AssertAsmContains:
		ctx := backend.Compile(input, "")
		if err := ctx.Err(); err != nil {
			return "unexpected error: " + err.Error()
		}
		listing := make(map[string]bool, len(ctx.Assembly))
		for _, line := range ctx.Assembly {
			listing[strings.TrimSpace(line)] = true
		}
		for _, want := range a.Lines() {
			if !listing[strings.TrimSpace(want)] {
				return fmt.Sprintf("listing has no line %q", strings.TrimSpace(want))
			}
		}
		return ""

	case AssertOutput:
		ctx := backend.Compile(input, "")
		var out bytes.Buffer
		ctx, _ = backend.Execute(ctx, backend.NewEmulator(&out, maxSteps))
		if err := ctx.Err(); err != nil {
			return "unexpected error: " + err.Error()
		}
		return compare(strings.TrimRight(out.String(), "\n"), a.Content)

	case AssertCompileError:
		ctx := backend.Compile(input, "")
		err := ctx.Err()
		if err == nil {
			return "expected a compile error, got none"
		}
		for _, want := range a.Lines() {
			if !strings.Contains(err.Error(), strings.TrimSpace(want)) {
				return fmt.Sprintf("error %q does not contain %q", err.Error(), strings.TrimSpace(want))
			}
		}
		return ""
	}
	return fmt.Sprintf("unknown assertion type %s", a.Type)
}

func compare(got, want string) string {
	if got == want {
		return ""
	}
	return fmt.Sprintf("mismatch\n--- want\n%s\n--- got\n%s", want, got)
}
