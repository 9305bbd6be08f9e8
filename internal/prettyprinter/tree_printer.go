package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/funvibe/tourte/internal/ast"
)

// --- Tree Printer (Output is an s-expression per statement) ---

// TreePrinter renders the tree structure, e.g. `(assign x (+ 1 (* 2 3)))`.
type TreePrinter struct {
	buf bytes.Buffer
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// Tree renders a node with a fresh printer. A program yields one line per
// top-level statement.
func Tree(node ast.Node) string {
	p := NewTreePrinter()
	node.Accept(p)
	return p.String()
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) write(s string) {
	p.buf.WriteString(s)
}

// form writes `(head child child ...)`.
func (p *TreePrinter) form(head string, children ...ast.Node) {
	p.write("(" + head)
	for _, c := range children {
		p.write(" ")
		c.Accept(p)
	}
	p.write(")")
}

func (p *TreePrinter) statements(stmts []ast.Statement) []ast.Node {
	nodes := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}

func (p *TreePrinter) expressions(exprs []ast.Expression) []ast.Node {
	nodes := make([]ast.Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}

func (p *TreePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		stmt.Accept(p)
		p.write("\n")
	}
}

func (p *TreePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	p.form("block", p.statements(n.Statements)...)
}

func (p *TreePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	p.form("assign", n.Target, n.Value)
}

func (p *TreePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.form("print", p.expressions(n.Arguments)...)
}

func (p *TreePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	n.Expression.Accept(p)
}

func (p *TreePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	p.write("(func " + n.Name.Value + " (")
	for i, param := range n.Parameters {
		if i > 0 {
			p.write(" ")
		}
		p.write(param.Value)
	}
	p.write(") ")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	if n.ReturnValue == nil {
		p.form("return")
		return
	}
	p.form("return", n.ReturnValue)
}

func (p *TreePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("(if ")
	n.Condition.Accept(p)
	p.write(" ")
	n.Consequence.Accept(p)
	for _, elif := range n.Elifs {
		p.write(" ")
		p.form("elif", elif.Condition, elif.Body)
	}
	if n.Alternative != nil {
		p.write(" ")
		p.form("else", n.Alternative)
	}
	p.write(")")
}

func (p *TreePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.form("while", n.Condition, n.Body)
}

func (p *TreePrinter) VisitForRangeStatement(n *ast.ForRangeStatement) {
	p.form("for", n.Children()...)
}

func (p *TreePrinter) VisitImportStatement(n *ast.ImportStatement) {
	p.form("import", n.Path)
}

func (p *TreePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *TreePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *TreePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
}

func (p *TreePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *TreePrinter) VisitNoneLiteral(n *ast.NoneLiteral) {
	p.write("none")
}

func (p *TreePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.form(n.Operator, n.Right)
}

func (p *TreePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.form(n.Operator, n.Left, n.Right)
}

func (p *TreePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.form("list", p.expressions(n.Elements)...)
}

func (p *TreePrinter) VisitMapLiteral(n *ast.MapLiteral) {
	p.write("(map")
	for _, pair := range n.Pairs {
		p.write(" (")
		pair.Key.Accept(p)
		p.write(" ")
		pair.Value.Accept(p)
		p.write(")")
	}
	p.write(")")
}

func (p *TreePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.form("index", n.Left, n.Index)
}

func (p *TreePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.form("call", n.Children()...)
}

func (p *TreePrinter) VisitInputExpression(n *ast.InputExpression) {
	p.form("input", n.Prompt)
}

func (p *TreePrinter) VisitConversionExpression(n *ast.ConversionExpression) {
	p.form(n.TargetType, n.Value)
}
