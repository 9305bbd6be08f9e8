package cli

import (
	"bytes"
	"strings"

	"github.com/funvibe/tourte/internal/backend"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/lexer"
	"github.com/funvibe/tourte/internal/parser"
	"github.com/funvibe/tourte/internal/pipeline"
	"github.com/funvibe/tourte/internal/prettyprinter"
	"github.com/funvibe/tourte/internal/token"
)

// Session is the state of an interactive session: the statements accepted so
// far and the output they produced. Every submission recompiles and reruns
// the whole session, and only the new output is returned.
type Session struct {
	source   string
	output   string
	maxSteps int
}

func NewSession(maxSteps int) *Session {
	return &Session{maxSteps: maxSteps}
}

// Source returns the accepted statements.
func (s *Session) Source() string {
	return s.source
}

func (s *Session) Reset() {
	s.source = ""
	s.output = ""
}

// Incomplete reports whether chunk, appended to the session, ends inside an
// unfinished construct so more input should be read.
func (s *Session) Incomplete(chunk string) bool {
	tokens, err := lexer.Tokenize(s.source + chunk)
	if err != nil {
		return diagnostics.Diagnostics(err)[0].Code == diagnostics.ErrL002
	}
	_, err = parser.Parse(tokens)
	if err == nil {
		return false
	}
	return diagnostics.Diagnostics(err)[0].Token.Type == token.EOF
}

// Submit compiles and runs the session extended with chunk. On success the
// chunk is kept and the output it added is returned; on failure the session
// is unchanged.
func (s *Session) Submit(chunk string) (string, *pipeline.PipelineContext) {
	candidate := s.source + chunk
	if !strings.HasSuffix(candidate, "\n") {
		candidate += "\n"
	}

	ctx := backend.Compile(candidate, "")
	if ctx.HasErrors() {
		return "", ctx
	}
	var out bytes.Buffer
	ctx, _ = backend.Execute(ctx, backend.NewEmulator(&out, s.maxSteps))
	if ctx.HasErrors() {
		return "", ctx
	}

	s.source = candidate
	full := out.String()
	added := strings.TrimPrefix(full, s.output)
	s.output = full
	return added, ctx
}

// Tree renders the session's statements as s-expressions.
func (s *Session) Tree() (string, error) {
	tokens, err := lexer.Tokenize(s.source)
	if err != nil {
		return "", err
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		return "", err
	}
	return prettyprinter.Tree(program), nil
}

// Assembly returns the session's listing.
func (s *Session) Assembly() ([]string, error) {
	ctx := backend.Compile(s.source, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ctx.Assembly, nil
}
