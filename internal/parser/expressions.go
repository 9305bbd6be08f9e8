package parser

import (
	"math"

	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.fail(diagnostics.NewError(diagnostics.ErrP006, p.curToken, "expression too complex: recursion depth limit exceeded"))
		return nil
	}

	prefix := p.prefixParseFns[tokenKey(p.curToken)]
	if prefix == nil {
		p.noPrefixParseFnError()
		return nil
	}
	leftExp := prefix()
	if p.failed() {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[tokenKey(p.peekToken)]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if p.failed() {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError() {
	if p.curTypeIs(token.EOF) {
		p.fail(diagnostics.NewUnexpected("an expression", p.curToken))
		return
	}
	p.fail(diagnostics.NewError(diagnostics.ErrP004, p.curToken, p.curToken.String()))
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.LPAREN) {
		return p.parseCallExpression(ident)
	}
	return ident
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(int64)
	if !ok {
		p.fail(diagnostics.NewError(diagnostics.ErrL003, p.curToken, p.curToken.Lexeme))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(float64)
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	if p.curTokenIs(token.MINUS) && p.peekToken.Literal == token.MinIntMagnitude {
		tok := p.curToken
		tok.Type = token.INT
		tok.Lexeme = "-" + p.peekToken.Lexeme
		tok.Literal = int64(math.MinInt64)
		p.nextToken()
		return &ast.IntegerLiteral{Token: tok, Value: math.MinInt64}
	}
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

// parseNotInExpression handles the fused `not in` operator; the lookahead in
// peekPrecedence guarantees that `in` follows.
func (p *Parser) parseNotInExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	tok.Lexeme = token.NOT_IN
	tok.Literal = token.NOT_IN
	if !p.expectPeek(token.IN) {
		return nil
	}
	expression := &ast.InfixExpression{Token: tok, Operator: token.NOT_IN, Left: left}
	p.nextToken()
	expression.Right = p.parseExpression(COMPARE)
	return expression
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.skipPeekNewlines()
	p.nextToken() // consume '('

	exp := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseCallExpression(function *ast.Identifier) ast.Expression {
	exp := &ast.CallExpression{Token: function.Token, Function: function}
	p.nextToken() // '('
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	if p.failed() {
		return nil
	}
	return exp
}

func (p *Parser) parseInputExpression() ast.Expression {
	exp := &ast.InputExpression{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	exp.Prompt = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseConversionExpression() ast.Expression {
	exp := &ast.ConversionExpression{Token: p.curToken, TargetType: p.curToken.Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	exp.Value = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	list.Elements = p.parseExpressionList(token.RBRACKET)
	if p.failed() {
		return nil
	}
	return list
}

// parseMapLiteral parses `|| k: v, ... ||`; pairs keep their source order.
func (p *Parser) parseMapLiteral() ast.Expression {
	m := &ast.MapLiteral{Token: p.curToken, Pairs: []ast.MapPair{}}

	p.skipPeekNewlines()
	if p.peekTokenIs(token.PIPE_PIPE) {
		p.nextToken()
		return m
	}

	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
		m.Pairs = append(m.Pairs, ast.MapPair{Key: key, Value: value})

		p.skipPeekNewlines()
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.skipPeekNewlines()
	}

	if !p.expectPeek(token.PIPE_PIPE) {
		return nil
	}
	return m
}

// parseExpressionList parses comma separated expressions up to end. The
// current token is the opening delimiter; on return it is end.
func (p *Parser) parseExpressionList(end string) []ast.Expression {
	list := []ast.Expression{}

	p.skipPeekNewlines()
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	list = append(list, expr)
	p.skipPeekNewlines()

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
		list = append(list, expr)
		p.skipPeekNewlines()
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}
