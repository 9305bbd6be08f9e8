package codegen

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/token"
)

// expr evaluates e into reg.
func (g *Generator) expr(e ast.Expression, reg string) {
	if g.failed() {
		return
	}
	g.dest = reg
	e.Accept(g)
}

// result moves rax into the requested register when they differ.
func (g *Generator) result(dest string) {
	if dest != "rax" {
		g.emit("mov %s, rax", dest)
	}
}

func (g *Generator) VisitIdentifier(n *ast.Identifier) {
	g.emit("mov %s, [%s]", g.dest, g.bindings.Slot(n.Value))
}

func (g *Generator) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	g.emit("mov %s, %d", g.dest, n.Value)
}

func (g *Generator) VisitFloatLiteral(n *ast.FloatLiteral) {
	g.unsupported(n.Token, "float literal")
}

func (g *Generator) VisitStringLiteral(n *ast.StringLiteral) {
	g.unsupported(n.Token, "string literal")
}

func (g *Generator) VisitNoneLiteral(n *ast.NoneLiteral) {
	g.unsupported(n.Token, "none")
}

func (g *Generator) VisitPrefixExpression(n *ast.PrefixExpression) {
	dest := g.dest
	g.expr(n.Right, "rax")
	switch n.Operator {
	case token.MINUS:
		g.emit("neg rax")
	case token.NOT:
		g.emit("cmp rax, 0")
		g.emit("sete al")
		g.emit("movzx rax, al")
	default:
		g.unsupported(n.Token, "operator "+n.Operator)
		return
	}
	g.result(dest)
}

var setInstructions = map[string]string{
	token.EQ:     "sete",
	token.NOT_EQ: "setne",
	token.LT:     "setl",
	token.GT:     "setg",
	token.LTE:    "setle",
	token.GTE:    "setge",
}

func (g *Generator) VisitInfixExpression(n *ast.InfixExpression) {
	if n.Operator == token.IN || n.Operator == token.NOT_IN {
		g.unsupported(n.Token, "operator "+n.Operator)
		return
	}

	dest := g.dest
	g.expr(n.Left, "rax")
	g.emit("push rax")
	g.expr(n.Right, "rbx")
	g.emit("pop rax")

	switch n.Operator {
	case token.PLUS:
		g.emit("add rax, rbx")
	case token.MINUS:
		g.emit("sub rax, rbx")
	case token.ASTERISK:
		g.emit("imul rax, rbx")
	case token.SLASH:
		g.emit("cqo")
		g.emit("idiv rbx")
	case token.PERCENT:
		g.emit("cqo")
		g.emit("idiv rbx")
		g.emit("mov rax, rdx")
	case token.FLOOR_DIV:
		g.floorDiv()
	case token.POWER:
		g.power()
	case token.ROOT:
		g.root()
	case token.AND, token.OR:
		g.emit("cmp rax, 0")
		g.emit("setne al")
		g.emit("cmp rbx, 0")
		g.emit("setne bl")
		if n.Operator == token.AND {
			g.emit("and al, bl")
		} else {
			g.emit("or al, bl")
		}
		g.emit("movzx rax, al")
	default:
		set, ok := setInstructions[n.Operator]
		if !ok {
			g.unsupported(n.Token, "operator "+n.Operator)
			return
		}
		g.emit("cmp rax, rbx")
		g.emit("%s al", set)
		g.emit("movzx rax, al")
	}
	g.result(dest)
}

// floorDiv rounds the truncated quotient down when the remainder is non-zero
// and its sign differs from the divisor's.
func (g *Generator) floorDiv() {
	done := Label("Lfloor", g.labels.Next())
	g.emit("cqo")
	g.emit("idiv rbx")
	g.emit("test rdx, rdx")
	g.emit("je %s", done)
	g.emit("xor rdx, rbx")
	g.emit("jns %s", done)
	g.emit("sub rax, 1")
	g.emitLabel(done)
}

// power computes rax ** rbx by repeated multiplication. A negative exponent
// yields 0.
func (g *Generator) power() {
	id := g.labels.Next()
	loop := Label("Lpow", id)
	done := Label("Lpowend", id)
	g.emit("mov rcx, rbx")
	g.emit("mov rbx, rax")
	g.emit("mov rax, 0")
	g.emit("test rcx, rcx")
	g.emit("js %s", done)
	g.emit("mov rax, 1")
	g.emitLabel(loop)
	g.emit("test rcx, rcx")
	g.emit("je %s", done)
	g.emit("imul rax, rbx")
	g.emit("sub rcx, 1")
	g.emit("jmp %s", loop)
	g.emitLabel(done)
}

// root computes the integer n-th root of rax for n in rbx: the largest r >= 0
// with r**n <= rax. It yields 0 when rax < 0 or n <= 0. The result is built
// one bit at a time from bit 62 down; a bit is kept when the candidate's
// power neither overflows nor exceeds the radicand. n is capped at 63, where
// every root of a positive value is already 1.
func (g *Generator) root() {
	id := g.labels.Next()
	bit := Label("Lrootbit", id)
	pow := Label("Lrootpow", id)
	skip := Label("Lrootskip", id)
	done := Label("Lrootend", id)
	g.emit("mov r8, rax")
	g.emit("mov r9, rbx")
	g.emit("mov rax, 0")
	g.emit("test r8, r8")
	g.emit("js %s", done)
	g.emit("test r9, r9")
	g.emit("jle %s", done)
	g.emit("cmp r9, 63")
	g.emit("jle %s", Label("Lrootcap", id))
	g.emit("mov r9, 63")
	g.emitLabel(Label("Lrootcap", id))
	g.emit("mov r10, %d", int64(1)<<62)
	g.emitLabel(bit)
	g.emit("mov rcx, rax")
	g.emit("or rcx, r10")
	g.emit("mov rdx, 1")
	g.emit("mov rbx, r9")
	g.emitLabel(pow)
	g.emit("imul rdx, rcx")
	g.emit("jo %s", skip)
	g.emit("cmp rdx, r8")
	g.emit("jg %s", skip)
	g.emit("sub rbx, 1")
	g.emit("jne %s", pow)
	g.emit("mov rax, rcx")
	g.emitLabel(skip)
	g.emit("shr r10, 1")
	g.emit("jne %s", bit)
	g.emitLabel(done)
}

func (g *Generator) VisitListLiteral(n *ast.ListLiteral) {
	g.unsupported(n.Token, "list literal")
}

func (g *Generator) VisitMapLiteral(n *ast.MapLiteral) {
	g.unsupported(n.Token, "map literal")
}

func (g *Generator) VisitIndexExpression(n *ast.IndexExpression) {
	g.unsupported(n.Token, "subscript")
}

func (g *Generator) VisitCallExpression(n *ast.CallExpression) {
	g.unsupported(n.Token, "function call")
}

func (g *Generator) VisitInputExpression(n *ast.InputExpression) {
	g.unsupported(n.Token, "input")
}

func (g *Generator) VisitConversionExpression(n *ast.ConversionExpression) {
	g.unsupported(n.Token, "type conversion")
}
