// Package testcase extracts compiler test cases from Markdown documents.
//
// A test starts at a heading `Test: <name>` and owns the fenced code blocks
// that follow it: exactly one `tourte` input fence and at least one
// assertion fence.
package testcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/funvibe/tourte/internal/token"
)

// InputFence is the language tag of the source fence.
const InputFence = "tourte"

// AssertionType is the language tag of an assertion fence.
type AssertionType string

const (
	// AssertTokens compares the token stream, one `TYPE lexeme` per line.
	AssertTokens AssertionType = "tokens"
	// AssertTree compares the tree printer output.
	AssertTree AssertionType = "tree"
	// AssertAsmContains requires each line to appear in the listing.
	AssertAsmContains AssertionType = "asm-contains"
	// AssertOutput compares what the emulated program prints.
	AssertOutput AssertionType = "output"
	// AssertCompileError requires a diagnostic whose text contains each line.
	AssertCompileError AssertionType = "compile-error"
)

var assertionTypes = map[AssertionType]bool{
	AssertTokens:       true,
	AssertTree:         true,
	AssertAsmContains:  true,
	AssertOutput:       true,
	AssertCompileError: true,
}

type Assertion struct {
	Type    AssertionType
	Content string // fence body without the trailing newline
	Line    int
}

// Lines splits the content, dropping blank lines.
func (a Assertion) Lines() []string {
	var lines []string
	for _, l := range strings.Split(a.Content, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

type TestCase struct {
	Name       string
	Input      string
	Line       int // line of the heading
	Assertions []Assertion
}

// Extract parses a Markdown document and returns its test cases in order.
func Extract(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase
	hasInput := false

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current, hasInput); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: strings.TrimSpace(name), Line: lineOf(n, source)}
			hasInput = false

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			line := lineOf(n, source)
			if language == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, language)
			}
			content := strings.TrimRight(blockContent(n, source), "\n")

			switch {
			case language == InputFence:
				if hasInput {
					return ast.WalkStop, fmt.Errorf("line %d: second input fence in test '%s'", line, current.Name)
				}
				current.Input = content
				hasInput = true
			case assertionTypes[AssertionType(language)]:
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: content,
					Line:    line,
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("extracting tests: %w", err)
	}
	if err := finish(); err != nil {
		return nil, fmt.Errorf("extracting tests: %w", err)
	}
	return cases, nil
}

// FormatTokens renders tokens the way `tokens` fences spell them.
func FormatTokens(tokens []token.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case token.NEWLINE, token.EOF:
			sb.WriteString(string(tok.Type))
		default:
			fmt.Fprintf(&sb, "%s %s", tok.Type, tok.Lexeme)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func validate(tc *TestCase, hasInput bool) error {
	if !hasInput {
		return fmt.Errorf("line %d: test '%s' has no %s fence", tc.Line, tc.Name, InputFence)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("line %d: test '%s' has no assertion fences", tc.Line, tc.Name)
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of a block's first content line, or 1 for
// an empty block.
func lineOf(node ast.Node, source []byte) int {
	offset := 0
	if node.Lines().Len() > 0 {
		offset = node.Lines().At(0).Start
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
