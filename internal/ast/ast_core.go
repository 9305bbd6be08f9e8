package ast

import (
	"github.com/funvibe/tourte/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Accept(v Visitor)
	// Children returns the direct sub-nodes in source order.
	Children() []Node
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}
func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Statements) == 0 {
		return token.Token{}
	}
	return p.Statements[0].GetToken()
}
func (p *Program) Children() []Node { return statementNodes(p.Statements) }

// BlockStatement is a braced list of statements.
// { stmt; stmt; }
type BlockStatement struct {
	Token      token.Token // The '{' token
	Statements []Statement
}

func (bs *BlockStatement) Accept(v Visitor)     { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}
func (bs *BlockStatement) Children() []Node { return statementNodes(bs.Statements) }

// AssignStatement binds a value to a variable or stores it into a subscript.
// x = expr; xs[i] = expr;
type AssignStatement struct {
	Token  token.Token // The '=' token
	Target Expression  // *Identifier or *IndexExpression
	Value  Expression
}

func (as *AssignStatement) Accept(v Visitor)     { v.VisitAssignStatement(as) }
func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}
func (as *AssignStatement) Children() []Node { return []Node{as.Target, as.Value} }

// PrintStatement
// print(expr, ...);
type PrintStatement struct {
	Token     token.Token // The 'print' token
	Arguments []Expression
}

func (ps *PrintStatement) Accept(v Visitor)     { v.VisitPrintStatement(ps) }
func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PrintStatement) GetToken() token.Token {
	if ps == nil {
		return token.Token{}
	}
	return ps.Token
}
func (ps *PrintStatement) Children() []Node { return expressionNodes(ps.Arguments) }

// ExpressionStatement is a call used as a statement.
// f(x);
type ExpressionStatement struct {
	Token      token.Token // The first token of the expression
	Expression *CallExpression
}

func (es *ExpressionStatement) Accept(v Visitor)     { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
func (es *ExpressionStatement) Children() []Node { return []Node{es.Expression} }

// FunctionStatement declares a named function.
// func name(a, b) { ... };
type FunctionStatement struct {
	Token      token.Token // The 'func' token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) Accept(v Visitor)     { v.VisitFunctionStatement(fs) }
func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}
func (fs *FunctionStatement) Children() []Node {
	nodes := []Node{fs.Name}
	for _, p := range fs.Parameters {
		nodes = append(nodes, p)
	}
	return append(nodes, fs.Body)
}

// ParamNames returns the parameter names in declaration order.
func (fs *FunctionStatement) ParamNames() []string {
	names := make([]string, len(fs.Parameters))
	for i, p := range fs.Parameters {
		names[i] = p.Value
	}
	return names
}

// ReturnStatement
// return expr; or return;
type ReturnStatement struct {
	Token       token.Token // The 'return' token
	ReturnValue Expression  // nil for a bare return
}

func (rs *ReturnStatement) Accept(v Visitor)     { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}
func (rs *ReturnStatement) Children() []Node {
	if rs.ReturnValue == nil {
		return nil
	}
	return []Node{rs.ReturnValue}
}

// ElifBranch is one `elif (cond) { ... }` arm of an if statement.
type ElifBranch struct {
	Token     token.Token // The 'elif' token
	Condition Expression
	Body      *BlockStatement
}

// IfStatement
// if (cond) { ... } elif (cond) { ... } else { ... };
type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Elifs       []*ElifBranch
	Alternative *BlockStatement // nil without else
}

func (is *IfStatement) Accept(v Visitor)     { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *IfStatement) Children() []Node {
	nodes := []Node{is.Condition, is.Consequence}
	for _, elif := range is.Elifs {
		nodes = append(nodes, elif.Condition, elif.Body)
	}
	if is.Alternative != nil {
		nodes = append(nodes, is.Alternative)
	}
	return nodes
}

// WhileStatement
// while (cond) { ... };
type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) Accept(v Visitor)     { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token {
	if ws == nil {
		return token.Token{}
	}
	return ws.Token
}
func (ws *WhileStatement) Children() []Node { return []Node{ws.Condition, ws.Body} }

// ForRangeStatement is the legacy counting loop.
// for i in range(start, end[, step]) stmt
type ForRangeStatement struct {
	Token    token.Token // The 'for' token
	Variable *Identifier
	Start    Expression
	End      Expression
	Step     Expression // nil means 1
	Body     Statement
}

func (fs *ForRangeStatement) Accept(v Visitor)     { v.VisitForRangeStatement(fs) }
func (fs *ForRangeStatement) statementNode()       {}
func (fs *ForRangeStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *ForRangeStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}
func (fs *ForRangeStatement) Children() []Node {
	nodes := []Node{fs.Variable, fs.Start, fs.End}
	if fs.Step != nil {
		nodes = append(nodes, fs.Step)
	}
	return append(nodes, fs.Body)
}

// ImportStatement records a module path; nothing is loaded.
// import "path";
type ImportStatement struct {
	Token token.Token // The 'import' token
	Path  *StringLiteral
}

func (is *ImportStatement) Accept(v Visitor)     { v.VisitImportStatement(is) }
func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *ImportStatement) Children() []Node { return []Node{is.Path} }

func statementNodes(stmts []Statement) []Node {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}

func expressionNodes(exprs []Expression) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
