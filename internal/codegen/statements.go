package codegen

import (
	"github.com/funvibe/tourte/internal/ast"
)

func (g *Generator) VisitProgram(n *ast.Program) {
	g.statements(n.Statements)
}

func (g *Generator) statements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		if g.failed() {
			return
		}
		stmt.Accept(g)
	}
}

func (g *Generator) body(b *ast.BlockStatement) {
	if b != nil {
		g.statements(b.Statements)
	}
}

// VisitBlockStatement emits the statements inline; blocks do not get their
// own storage.
func (g *Generator) VisitBlockStatement(n *ast.BlockStatement) {
	g.body(n)
}

func (g *Generator) VisitAssignStatement(n *ast.AssignStatement) {
	target, ok := n.Target.(*ast.Identifier)
	if !ok {
		g.unsupported(n.Target.GetToken(), "assignment to a subscript")
		return
	}
	slot := g.bindings.Slot(target.Value)
	g.expr(n.Value, "rax")
	g.emit("mov [%s], rax", slot)
}

func (g *Generator) VisitPrintStatement(n *ast.PrintStatement) {
	if len(n.Arguments) != 1 {
		g.unsupported(n.Token, "print with several arguments")
		return
	}
	g.expr(n.Arguments[0], "rdi")
	g.emit("mov rsi, rdi")
	g.emit("lea rdi, [%s]", FormatLabel)
	g.emit("xor rax, rax")
	g.emit("call printf")
}

func (g *Generator) VisitExpressionStatement(n *ast.ExpressionStatement) {
	g.unsupported(n.Expression.Token, "function call")
}

func (g *Generator) VisitFunctionStatement(n *ast.FunctionStatement) {
	g.unsupported(n.Token, "function declaration")
}

func (g *Generator) VisitReturnStatement(n *ast.ReturnStatement) {
	g.unsupported(n.Token, "return statement")
}

// jumpIfZero tests rax and branches when the condition is false.
func (g *Generator) jumpIfZero(label string) {
	g.emit("cmp rax, 0")
	g.emit("je %s", label)
}

func (g *Generator) VisitIfStatement(n *ast.IfStatement) {
	id := g.labels.Next()
	elseLabel := Label("Lelse", id)
	endLabel := Label("Lend", id)

	g.expr(n.Condition, "rax")
	g.jumpIfZero(elseLabel)
	g.body(n.Consequence)
	g.emit("jmp %s", endLabel)

	for _, elif := range n.Elifs {
		g.emitLabel(elseLabel)
		elseLabel = Label("Lelse", g.labels.Next())
		g.expr(elif.Condition, "rax")
		g.jumpIfZero(elseLabel)
		g.body(elif.Body)
		g.emit("jmp %s", endLabel)
	}

	g.emitLabel(elseLabel)
	g.body(n.Alternative)
	g.emitLabel(endLabel)
}

func (g *Generator) VisitWhileStatement(n *ast.WhileStatement) {
	id := g.labels.Next()
	startLabel := Label("Lstart", id)
	endLabel := Label("Lend", id)

	g.emitLabel(startLabel)
	g.expr(n.Condition, "rax")
	g.jumpIfZero(endLabel)
	g.body(n.Body)
	g.emit("jmp %s", startLabel)
	g.emitLabel(endLabel)
}

// VisitForRangeStatement lowers `for v in range(start, end, step)`. A hidden
// counter drives the loop and is copied into the variable each iteration, so
// assigning to the variable in the body does not change the iteration. The
// bounds are evaluated once; a zero step runs no iterations.
func (g *Generator) VisitForRangeStatement(n *ast.ForRangeStatement) {
	id := g.labels.Next()
	slot := g.bindings.Slot(n.Variable.Value)
	cur := g.bindings.Hidden("cur", id)
	end := g.bindings.Hidden("end", id)
	step := g.bindings.Hidden("step", id)

	loopLabel := Label("Lfor", id)
	downLabel := Label("Ldown", id)
	bodyLabel := Label("Lbody", id)
	endLabel := Label("Lend", id)

	g.expr(n.Start, "rax")
	g.emit("mov [%s], rax", cur)
	g.expr(n.End, "rax")
	g.emit("mov [%s], rax", end)
	if n.Step != nil {
		g.expr(n.Step, "rax")
	} else {
		g.emit("mov rax, 1")
	}
	g.emit("mov [%s], rax", step)
	g.jumpIfZero(endLabel)

	g.emitLabel(loopLabel)
	g.emit("mov rax, [%s]", cur)
	g.emit("mov rcx, [%s]", step)
	g.emit("cmp rcx, 0")
	g.emit("jl %s", downLabel)
	g.emit("cmp rax, [%s]", end)
	g.emit("jge %s", endLabel)
	g.emit("jmp %s", bodyLabel)
	g.emitLabel(downLabel)
	g.emit("cmp rax, [%s]", end)
	g.emit("jle %s", endLabel)
	g.emitLabel(bodyLabel)
	g.emit("mov [%s], rax", slot)

	if b, ok := n.Body.(*ast.BlockStatement); ok {
		g.body(b)
	} else {
		n.Body.Accept(g)
	}

	g.emit("mov rax, [%s]", cur)
	g.emit("add rax, [%s]", step)
	g.emit("mov [%s], rax", cur)
	g.emit("jmp %s", loopLabel)
	g.emitLabel(endLabel)
}

// VisitImportStatement leaves a marker; loading modules is the driver's job.
func (g *Generator) VisitImportStatement(n *ast.ImportStatement) {
	g.comment("import " + n.Path.Value)
}
