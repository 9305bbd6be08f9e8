package testcase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/token"
)

const fence = "```"

func TestExtract_Basic(t *testing.T) {
	markdown := `# Arithmetic

Some prose that is ignored.

## Test: addition
` + fence + `tourte
print(1 + 2);
` + fence + `
` + fence + `output
3
` + fence + `

## Test: tree and listing
` + fence + `tourte
x = 1;
` + fence + `
` + fence + `tree
(assign x 1)
` + fence + `
` + fence + `asm-contains
mov rax, 1

mov [v_x], rax
` + fence

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	tc := cases[0]
	be.Equal(t, tc.Name, "addition")
	be.Equal(t, tc.Input, "print(1 + 2);")
	be.Equal(t, tc.Line, 5)
	be.Equal(t, len(tc.Assertions), 1)
	be.Equal(t, tc.Assertions[0].Type, AssertOutput)
	be.Equal(t, tc.Assertions[0].Content, "3")

	tc = cases[1]
	be.Equal(t, tc.Name, "tree and listing")
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertTree)
	be.Equal(t, tc.Assertions[1].Type, AssertAsmContains)
	be.Equal(t, tc.Assertions[1].Lines(), []string{"mov rax, 1", "mov [v_x], rax"})
}

func TestExtract_PlainFencesAreIgnored(t *testing.T) {
	markdown := fence + `
not a test
` + fence + `

## Test: t
` + fence + `tourte
x = 1;
` + fence + `
` + fence + `
notes
` + fence + `
` + fence + `tokens
IDENT x
` + fence

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, len(cases[0].Assertions), 1)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			"fence outside a test",
			fence + "tourte\nx = 1;\n" + fence,
			"tourte fence outside of a test",
		},
		{
			"unknown fence",
			"## Test: t\n" + fence + "tourte\nx;\n" + fence + "\n" + fence + "ast\n(x)\n" + fence,
			"unknown fence language 'ast' in test 't'",
		},
		{
			"two inputs",
			"## Test: t\n" + fence + "tourte\nx;\n" + fence + "\n" + fence + "tourte\ny;\n" + fence,
			"second input fence in test 't'",
		},
		{
			"no input",
			"## Test: t\n" + fence + "output\n1\n" + fence,
			"test 't' has no tourte fence",
		},
		{
			"no assertions",
			"## Test: a\n" + fence + "tourte\nx;\n" + fence + "\n## Test: b\n",
			"test 'a' has no assertion fences",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.markdown)
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to contain %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestFormatTokens(t *testing.T) {
	tokens := []token.Token{
		{Type: token.IDENT, Lexeme: "x"},
		{Type: token.NEWLINE, Lexeme: "\n"},
		{Type: token.STRING, Lexeme: `"a b"`},
		{Type: token.EOF},
	}
	be.Equal(t, FormatTokens(tokens), "IDENT x\nNEWLINE\nSTRING \"a b\"\nEOF")
}

func TestRun_ReportsFailures(t *testing.T) {
	tc := TestCase{
		Name:  "wrong",
		Input: "print(2);",
		Assertions: []Assertion{
			{Type: AssertOutput, Content: "3", Line: 7},
			{Type: AssertAsmContains, Content: "mov rdi, 2\ncpuid", Line: 9},
			{Type: AssertCompileError, Content: "A001", Line: 11},
			{Type: AssertTree, Content: "(print 2)", Line: 13},
		},
	}
	failures := Run(tc, 0)
	be.Equal(t, len(failures), 3)
	be.True(t, strings.HasPrefix(failures[0].String(), "line 7: output: mismatch"))
	be.True(t, strings.Contains(failures[1].Message, `listing has no line "cpuid"`))
	be.Equal(t, failures[2].Message, "expected a compile error, got none")
}

func TestRun_UnexpectedCompileError(t *testing.T) {
	tc := TestCase{
		Input:      "print(y);",
		Assertions: []Assertion{{Type: AssertOutput, Content: ""}},
	}
	failures := Run(tc, 0)
	be.Equal(t, len(failures), 1)
	be.True(t, strings.Contains(failures[0].Message, "unexpected error: 1:7: [A001]"))
}

func TestDocuments(t *testing.T) {
	files, err := filepath.Glob("testdata/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".md")
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			cases, err := Extract(string(content))
			be.Err(t, err, nil)

			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					for _, f := range Run(tc, 0) {
						t.Error(f)
					}
				})
			}
		})
	}
}
