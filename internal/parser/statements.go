package parser

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

// parseStatement parses one statement starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.KEYWORD:
		switch p.curToken.Lexeme {
		case token.FUNC:
			return p.parseFunctionStatement()
		case token.IF:
			return p.parseIfStatement()
		case token.WHILE:
			return p.parseWhileStatement()
		case token.FOR:
			return p.parseForRangeStatement()
		case token.PRINT:
			return p.parsePrintStatement()
		case token.RETURN:
			return p.parseReturnStatement()
		case token.IMPORT:
			return p.parseImportStatement()
		case token.INPUT:
			p.fail(diagnostics.NewError(diagnostics.ErrP006, p.curToken, "input can only be used inside an expression"))
			return nil
		}
	case token.IDENT:
		return p.parseAssignOrCallStatement()
	case token.DELIMITER:
		if p.curTokenIs(token.LBRACE) {
			return p.parseBlockStatement()
		}
	}
	p.fail(diagnostics.NewError(diagnostics.ErrP005, p.curToken, p.curToken.String()))
	return nil
}

// expectTerminator ends a simple statement: `;` or a newline is consumed, a
// following `}` or end of file is left for the enclosing construct.
func (p *Parser) expectTerminator() bool {
	switch {
	case p.peekTokenIs(token.SEMICOLON), p.peekTypeIs(token.NEWLINE):
		p.nextToken()
		return true
	case p.peekTokenIs(token.RBRACE), p.peekTypeIs(token.EOF):
		return true
	}
	p.peekError(quote(token.SEMICOLON))
	return false
}

// parseAssignOrCallStatement parses an expression and then decides: a
// following `=` makes it an assignment, otherwise it has to be a call.
func (p *Parser) parseAssignOrCallStatement() ast.Statement {
	first := p.curToken
	left := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		stmt := &ast.AssignStatement{Token: p.curToken, Target: left}
		switch left.(type) {
		case *ast.Identifier, *ast.IndexExpression:
		default:
			p.fail(diagnostics.NewError(diagnostics.ErrP002, stmt.Token))
			return nil
		}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if p.failed() || !p.expectTerminator() {
			return nil
		}
		return stmt
	}

	call, ok := left.(*ast.CallExpression)
	if !ok {
		p.fail(diagnostics.NewError(diagnostics.ErrP003, first))
		return nil
	}
	if !p.expectTerminator() {
		return nil
	}
	return &ast.ExpressionStatement{Token: first, Expression: call}
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.fail(diagnostics.NewUnexpected("an expression", p.peekToken))
		return nil
	}
	stmt.Arguments = p.parseExpressionList(token.RPAREN)
	if p.failed() || !p.expectTerminator() {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) ||
		p.peekTypeIs(token.NEWLINE) || p.peekTypeIs(token.EOF) {
		p.expectTerminator()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if p.failed() || !p.expectTerminator() {
		return nil
	}
	return stmt
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeekType(token.STRING, "a module path string") {
		return nil
	}
	value, _ := p.curToken.Literal.(string)
	stmt.Path = &ast.StringLiteral{Token: p.curToken, Value: value}
	if !p.expectTerminator() {
		return nil
	}
	p.imports = append(p.imports, stmt)
	return stmt
}

// parseBlockStatement parses `{ ... }` with curToken on `{` and leaves
// curToken on `}`.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTypeIs(token.EOF) {
			p.fail(diagnostics.NewUnexpected(quote(token.RBRACE), p.curToken))
			return nil
		}
		if p.curIsSeparator() {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	return block
}

// parseBracedBody expects `{` as the next token and parses the block.
func (p *Parser) parseBracedBody() *ast.BlockStatement {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return p.parseBlockStatement()
}

// parseParenCondition parses `( expr )` following the current keyword.
func (p *Parser) parseParenCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeekType(token.IDENT, "a function name") {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseFunctionParameters()
	if p.failed() {
		return nil
	}

	stmt.Body = p.parseBracedBody()
	if p.failed() {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	params := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		if !p.expectPeekType(token.IDENT, "a parameter name") {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	stmt.Condition = p.parseParenCondition()
	if p.failed() {
		return nil
	}
	stmt.Consequence = p.parseBracedBody()
	if p.failed() {
		return nil
	}

	for p.peekPastNewlines().Is(token.KEYWORD, token.ELIF) {
		p.skipPeekNewlines()
		p.nextToken()
		branch := &ast.ElifBranch{Token: p.curToken}
		branch.Condition = p.parseParenCondition()
		if p.failed() {
			return nil
		}
		branch.Body = p.parseBracedBody()
		if p.failed() {
			return nil
		}
		stmt.Elifs = append(stmt.Elifs, branch)
	}

	if p.peekPastNewlines().Is(token.KEYWORD, token.ELSE) {
		p.skipPeekNewlines()
		p.nextToken()
		stmt.Alternative = p.parseBracedBody()
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition = p.parseParenCondition()
	if p.failed() {
		return nil
	}
	stmt.Body = p.parseBracedBody()
	if p.failed() {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseForRangeStatement parses the legacy loop
// `for i in range(start, end[, step]) stmt`, whose body is a single
// statement or a bare block and which takes no trailing `;`.
func (p *Parser) parseForRangeStatement() ast.Statement {
	stmt := &ast.ForRangeStatement{Token: p.curToken}

	if !p.expectPeekType(token.IDENT, "a loop variable") {
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.IN) {
		return nil
	}
	if !p.peekToken.Is(token.IDENT, token.RANGE) {
		p.peekError(quote(token.RANGE))
		return nil
	}
	p.nextToken()
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	args := p.parseExpressionList(token.RPAREN)
	if p.failed() {
		return nil
	}
	if len(args) < 2 || len(args) > 3 {
		p.fail(diagnostics.NewError(diagnostics.ErrP006, p.curToken, "range expects 2 or 3 arguments"))
		return nil
	}
	stmt.Start, stmt.End = args[0], args[1]
	if len(args) == 3 {
		stmt.Step = args[2]
	}

	p.skipPeekNewlines()
	p.nextToken()
	if p.curTokenIs(token.SEMICOLON) || p.curTypeIs(token.EOF) {
		p.fail(diagnostics.NewUnexpected("a loop body", p.curToken))
		return nil
	}
	stmt.Body = p.parseStatement()
	if p.failed() {
		return nil
	}
	return stmt
}
