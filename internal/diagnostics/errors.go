package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/tourte/internal/token"
)

type ErrorCode string

// Lexer errors
const (
	ErrL001 ErrorCode = "L001" // unrecognized character
	ErrL002 ErrorCode = "L002" // unterminated string
	ErrL003 ErrorCode = "L003" // malformed number
)

// Parser errors
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // invalid assignment target
	ErrP003 ErrorCode = "P003" // expression statement is not a call
	ErrP004 ErrorCode = "P004" // no prefix parse function
	ErrP005 ErrorCode = "P005" // token cannot start a statement
	ErrP006 ErrorCode = "P006" // general syntax error
)

// Analyzer errors
const (
	ErrA001 ErrorCode = "A001" // undeclared identifier
	ErrA002 ErrorCode = "A002" // redeclaration in the same scope
	ErrA003 ErrorCode = "A003" // assignment to a function
	ErrA004 ErrorCode = "A004" // call to undeclared function
	ErrA005 ErrorCode = "A005" // call of a non-function
	ErrA006 ErrorCode = "A006" // wrong argument count
	ErrA007 ErrorCode = "A007" // return outside function
)

// Code generation errors
const (
	ErrG001 ErrorCode = "G001" // unsupported construct
)

// Emulator errors
const (
	ErrR001 ErrorCode = "R001" // runtime fault
)

var errorMessages = map[ErrorCode]string{
	ErrL001: "unrecognized character %s",
	ErrL002: "unterminated string literal",
	ErrL003: "malformed number %s",

	ErrP001: "expected %s, found %s",
	ErrP002: "invalid assignment target: only a variable or a subscript can be assigned",
	ErrP003: "unexpected statement: only calls can be used as statements",
	ErrP004: "unexpected %s in expression",
	ErrP005: "unexpected %s at start of statement",
	ErrP006: "%s",

	ErrA001: "undeclared identifier '%s'%s",
	ErrA002: "'%s' is already declared in this scope",
	ErrA003: "cannot assign to function '%s'",
	ErrA004: "call to undeclared function '%s'%s",
	ErrA005: "'%s' is not a function",
	ErrA006: "wrong number of arguments for '%s': expected %d, found %d",
	ErrA007: "return outside of a function",

	ErrG001: "unsupported construct: %s",

	ErrR001: "runtime error: %s",
}

// Kind groups error codes by the stage that reports them.
type Kind int

const (
	UnknownKind Kind = iota
	LexicalKind
	SyntaxKind
	SemanticKind
	UnsupportedKind
	RuntimeKind
)

func (k Kind) String() string {
	switch k {
	case LexicalKind:
		return "lexical error"
	case SyntaxKind:
		return "syntax error"
	case SemanticKind:
		return "semantic error"
	case UnsupportedKind:
		return "unsupported construct"
	case RuntimeKind:
		return "runtime error"
	}
	return "error"
}

// Kind derives the error kind from the code prefix.
func (c ErrorCode) Kind() Kind {
	if c == "" {
		return UnknownKind
	}
	switch c[0] {
	case 'L':
		return LexicalKind
	case 'P':
		return SyntaxKind
	case 'A':
		return SemanticKind
	case 'G':
		return UnsupportedKind
	case 'R':
		return RuntimeKind
	}
	return UnknownKind
}

type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	// Expected and Found are set for P001 only.
	Expected string
	Found    string
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	fmt.Fprintf(&sb, "%d:%d: [%s] %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
	return sb.String()
}

// Kind reports which stage produced the error.
func (e *DiagnosticError) Kind() Kind {
	return e.Code.Kind()
}

// NewError builds a diagnostic from a code's message template.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	msg, ok := errorMessages[code]
	if !ok {
		msg = "unknown error"
	} else if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// NewUnexpected builds a P001 error for a token that does not match what the
// grammar requires at that point.
func NewUnexpected(expected string, found token.Token) *DiagnosticError {
	e := NewError(ErrP001, found, expected, found.String())
	e.Expected = expected
	e.Found = found.Lexeme
	return e
}
