package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input. On success the last token is EOF; on
// failure no tokens are returned.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token, or a lexical error positioned at the
// offending character.
func (l *Lexer) NextToken() (token.Token, *diagnostics.DiagnosticError) {
	l.skipWhitespace()

	line, col := l.line, l.column

	switch {
	case l.atEOF():
		return token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: line, Column: col}, nil
	case l.ch == '\n':
		tok := newToken(token.NEWLINE, l.ch, line, col)
		l.readChar()
		return tok, nil
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}, nil
	case l.ch == '"' || l.ch == '\'':
		return l.readString()
	}

	rest := l.input[l.position:]
	for _, op := range token.Operators {
		if strings.HasPrefix(rest, op) {
			return l.readSymbol(token.OPERATOR, op, line, col), nil
		}
	}
	for _, delim := range token.Delimiters {
		if strings.HasPrefix(rest, delim) {
			return l.readSymbol(token.DELIMITER, delim, line, col), nil
		}
	}

	tok := token.Token{Lexeme: string(l.ch), Literal: string(l.ch), Line: line, Column: col}
	return tok, diagnostics.NewError(diagnostics.ErrL001, tok, strconv.QuoteRune(l.ch))
}

// readSymbol consumes an operator or delimiter. All of them are ASCII.
func (l *Lexer) readSymbol(tokenType token.TokenType, lexeme string, line, col int) token.Token {
	for range lexeme {
		l.readChar()
	}
	return token.Token{Type: tokenType, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// readString reads a quoted string verbatim; there are no escape sequences and
// the body may span lines. The error points at the opening quote.
func (l *Lexer) readString() (token.Token, *diagnostics.DiagnosticError) {
	quote := l.ch
	startLine, startCol := l.line, l.column
	start := l.position
	for {
		l.readChar()
		if l.atEOF() {
			tok := token.Token{Type: token.STRING, Lexeme: l.input[start:], Line: startLine, Column: startCol}
			return tok, diagnostics.NewError(diagnostics.ErrL002, tok)
		}
		if l.ch == quote {
			break
		}
	}
	lexeme := l.input[start : l.position+1]
	body := l.input[start+1 : l.position]
	l.readChar()
	return token.Token{Type: token.STRING, Lexeme: lexeme, Literal: body, Line: startLine, Column: startCol}, nil
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads digits with an optional fractional part. A dot only belongs
// to the number when a digit follows it.
func (l *Lexer) readNumber() (token.Token, *diagnostics.DiagnosticError) {
	startLine, startCol := l.line, l.column
	position := l.position
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	tok := token.Token{Lexeme: lexeme, Line: startLine, Column: startCol}
	if isFloat {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return tok, diagnostics.NewError(diagnostics.ErrL003, tok, lexeme)
		}
		tok.Type = token.FLOAT
		tok.Literal = value
		return tok, nil
	}

	tok.Type = token.INT
	if value, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
		tok.Literal = value
		return tok, nil
	}
	// 2^63 only fits after a minus sign; the parser folds or rejects it.
	if value, err := strconv.ParseUint(lexeme, 10, 64); err == nil && value == token.MinIntMagnitude {
		tok.Literal = value
		return tok, nil
	}
	return tok, diagnostics.NewError(diagnostics.ErrL003, tok, lexeme)
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

// skipWhitespace skips blanks and # comments but never a newline, which is a token.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			return
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '#':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}
