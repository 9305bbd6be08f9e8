package parser

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 512

const (
	_ int = iota
	LOWEST
	OR      // or
	AND     // and
	COMPARE // == != < > <= >= in, not in
	SUM     // + -
	PRODUCT // * / // ** /// %
	PREFIX  // -x, not x
	INDEX   // xs[i]
)

var precedences = map[string]int{
	token.OR:        OR,
	token.AND:       AND,
	token.EQ:        COMPARE,
	token.NOT_EQ:    COMPARE,
	token.LT:        COMPARE,
	token.GT:        COMPARE,
	token.LTE:       COMPARE,
	token.GTE:       COMPARE,
	token.IN:        COMPARE,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.FLOOR_DIV: PRODUCT,
	token.POWER:     PRODUCT,
	token.ROOT:      PRODUCT,
	token.PERCENT:   PRODUCT,
	token.LBRACKET:  INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token sequence into a Program. It stops at the first syntax
// error; there is no recovery.
type Parser struct {
	tokens   []token.Token
	position int // index of the token after peekToken

	curToken  token.Token
	peekToken token.Token

	depth   int
	err     *diagnostics.DiagnosticError
	imports []*ast.ImportStatement

	prefixParseFns map[string]prefixParseFn
	infixParseFns  map[string]infixParseFn
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[string]prefixParseFn{
		string(token.IDENT):  p.parseIdentifier,
		string(token.INT):    p.parseIntegerLiteral,
		string(token.FLOAT):  p.parseFloatLiteral,
		string(token.STRING): p.parseStringLiteral,
		token.NONE:           p.parseNoneLiteral,
		token.TYPE_INT:       p.parseConversionExpression,
		token.TYPE_FLOAT:     p.parseConversionExpression,
		token.TYPE_STR:       p.parseConversionExpression,
		token.INPUT:          p.parseInputExpression,
		token.LPAREN:         p.parseGroupedExpression,
		token.LBRACKET:       p.parseListLiteral,
		token.PIPE_PIPE:      p.parseMapLiteral,
		token.MINUS:          p.parsePrefixExpression,
		token.NOT:            p.parsePrefixExpression,
	}

	p.infixParseFns = make(map[string]infixParseFn)
	for op := range precedences {
		p.infixParseFns[op] = p.parseInfixExpression
	}
	p.infixParseFns[token.LBRACKET] = p.parseIndexExpression
	p.infixParseFns[token.NOT] = p.parseNotInExpression

	p.nextToken()
	p.nextToken()
	return p
}

// Parse builds the tree for a token sequence produced by the lexer.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	program := p.ParseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// Err returns the syntax error that stopped parsing, if any.
func (p *Parser) Err() *diagnostics.DiagnosticError {
	return p.err
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTypeIs(token.EOF) {
		if p.curIsSeparator() {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	program.Imports = p.imports
	return program
}

// tokenKey is the dispatch key of a token: the lexeme for keywords, operators
// and delimiters, the type name for everything else.
func tokenKey(tok token.Token) string {
	switch tok.Type {
	case token.KEYWORD, token.TYPE_KEYWORD, token.OPERATOR, token.DELIMITER:
		return tok.Lexeme
	}
	return string(tok.Type)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	eof := token.Token{Type: token.EOF, Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		eof.Line, eof.Column = last.Line, last.Column+len([]rune(last.Lexeme))
		if last.Type == token.EOF {
			eof.Column = last.Column
		}
	}
	return eof
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.tokenAt(p.position)
	p.position++
}

// peekSecond returns the token after peekToken.
func (p *Parser) peekSecond() token.Token {
	return p.tokenAt(p.position)
}

func (p *Parser) curTokenIs(key string) bool  { return tokenKey(p.curToken) == key }
func (p *Parser) peekTokenIs(key string) bool { return tokenKey(p.peekToken) == key }

func (p *Parser) curTypeIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTypeIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) curIsSeparator() bool {
	return p.curTypeIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON)
}

// skipPeekNewlines advances while the next token is a newline.
func (p *Parser) skipPeekNewlines() {
	for p.peekTypeIs(token.NEWLINE) {
		p.nextToken()
	}
}

// peekPastNewlines returns the first token after peekToken that is not a newline,
// starting with peekToken itself, without consuming anything.
func (p *Parser) peekPastNewlines() token.Token {
	if !p.peekTypeIs(token.NEWLINE) {
		return p.peekToken
	}
	for i := p.position; ; i++ {
		tok := p.tokenAt(i)
		if tok.Type != token.NEWLINE {
			return tok
		}
	}
}

func (p *Parser) expectPeek(key string) bool {
	if p.peekTokenIs(key) {
		p.nextToken()
		return true
	}
	p.peekError(quote(key))
	return false
}

func (p *Parser) expectPeekType(t token.TokenType, what string) bool {
	if p.peekTypeIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(what)
	return false
}

func (p *Parser) peekError(expected string) {
	p.fail(diagnostics.NewUnexpected(expected, p.peekToken))
}

func (p *Parser) fail(err *diagnostics.DiagnosticError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) failed() bool {
	return p.err != nil
}

func (p *Parser) peekPrecedence() int {
	key := tokenKey(p.peekToken)
	if key == token.NOT {
		if p.peekSecond().Is(token.KEYWORD, token.IN) {
			return COMPARE
		}
		return LOWEST
	}
	if prec, ok := precedences[key]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[tokenKey(p.curToken)]; ok {
		return prec
	}
	return LOWEST
}

func quote(s string) string {
	return "'" + s + "'"
}
