package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter). All binary operators are
// left associative.
var operatorPrecedence = map[string]int{
	token.OR:        1,
	token.AND:       2,
	token.EQ:        3,
	token.NOT_EQ:    3,
	token.LT:        3,
	token.GT:        3,
	token.LTE:       3,
	token.GTE:       3,
	token.IN:        3,
	token.NOT_IN:    3,
	token.PLUS:      4,
	token.MINUS:     4,
	token.ASTERISK:  5,
	token.SLASH:     5,
	token.FLOOR_DIV: 5,
	token.POWER:     5,
	token.ROOT:      5,
	token.PERCENT:   5,
}

const (
	prefixPrecedence = 6
	indexPrecedence  = 7
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return indexPrecedence
}

// CodePrinter renders a tree back to source text that parses to the same tree.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a node with a fresh printer.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	var prec int
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec = getPrecedence(e.Operator)
	case *ast.PrefixExpression:
		prec = prefixPrecedence
	default:
		expr.Accept(p)
		return
	}
	needParens := prec < parentPrec || (prec == parentPrec && isRight)
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printExprList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, 0, false)
	}
}

func (p *CodePrinter) printStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		p.writeIndent()
		stmt.Accept(p)
		p.write("\n")
	}
}

// printBody prints `{`, the indented statements and the closing `}` without
// a trailing newline.
func (p *CodePrinter) printBody(block *ast.BlockStatement) {
	p.write("{\n")
	p.indent++
	if block != nil {
		p.printStatements(block.Statements)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	p.printStatements(n.Statements)
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	p.printBody(n)
}

func (p *CodePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	p.printExpr(n.Target, 0, false)
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.write("print(")
	p.printExprList(n.Arguments)
	p.write(");")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	n.Expression.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	p.write("func ")
	p.write(n.Name.Value)
	p.write("(")
	p.write(strings.Join(n.ParamNames(), ", "))
	p.write(") ")
	p.printBody(n.Body)
	p.write(";")
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	if n.ReturnValue == nil {
		p.write("return;")
		return
	}
	p.write("return ")
	p.printExpr(n.ReturnValue, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.printBody(n.Consequence)
	for _, elif := range n.Elifs {
		p.write(" elif (")
		p.printExpr(elif.Condition, 0, false)
		p.write(") ")
		p.printBody(elif.Body)
	}
	if n.Alternative != nil {
		p.write(" else ")
		p.printBody(n.Alternative)
	}
	p.write(";")
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.printBody(n.Body)
	p.write(";")
}

func (p *CodePrinter) VisitForRangeStatement(n *ast.ForRangeStatement) {
	p.write("for ")
	p.write(n.Variable.Value)
	p.write(" in range(")
	args := []ast.Expression{n.Start, n.End}
	if n.Step != nil {
		args = append(args, n.Step)
	}
	p.printExprList(args)
	p.write(") ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitImportStatement(n *ast.ImportStatement) {
	p.write("import ")
	n.Path.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	p.write(s)
}

// VisitStringLiteral quotes with `"` unless the body contains one; there are
// no escape sequences.
func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	q := `"`
	if strings.Contains(n.Value, `"`) {
		q = `'`
	}
	p.write(q + n.Value + q)
}

func (p *CodePrinter) VisitNoneLiteral(n *ast.NoneLiteral) {
	p.write(token.NONE)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	if n.Operator == token.NOT {
		p.write(" ")
	}
	p.printExpr(n.Right, prefixPrecedence, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.write("[")
	p.printExprList(n.Elements)
	p.write("]")
}

func (p *CodePrinter) VisitMapLiteral(n *ast.MapLiteral) {
	if len(n.Pairs) == 0 {
		p.write("|| ||")
		return
	}
	p.write("|| ")
	for i, pair := range n.Pairs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(pair.Key, 0, false)
		p.write(": ")
		p.printExpr(pair.Value, 0, false)
	}
	p.write(" ||")
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Left, indexPrecedence, false)
	p.write("[")
	p.printExpr(n.Index, 0, false)
	p.write("]")
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.write(n.Function.Value)
	p.write("(")
	p.printExprList(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitInputExpression(n *ast.InputExpression) {
	p.write("input(")
	p.printExpr(n.Prompt, 0, false)
	p.write(")")
}

func (p *CodePrinter) VisitConversionExpression(n *ast.ConversionExpression) {
	p.write(n.TargetType)
	p.write("(")
	p.printExpr(n.Value, 0, false)
	p.write(")")
}
