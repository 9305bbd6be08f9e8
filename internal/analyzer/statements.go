package analyzer

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/symbols"
)

func (w *walker) VisitProgram(n *ast.Program) {
	w.statements(n.Statements)
}

func (w *walker) statements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Accept(w)
		}
	}
}

// block analyses a body in its own frame.
func (w *walker) block(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	w.symbolTable.Enter(symbols.ScopeBlock)
	w.statements(b.Statements)
	w.symbolTable.Exit()
}

func (w *walker) VisitBlockStatement(n *ast.BlockStatement) {
	w.block(n)
}

func (w *walker) VisitAssignStatement(n *ast.AssignStatement) {
	n.Value.Accept(w)

	switch target := n.Target.(type) {
	case *ast.Identifier:
		w.assignName(target)
	default:
		// Subscript targets declare nothing; base and index are reads.
		target.Accept(w)
	}
}

// assignName declares the name in the innermost frame unless it is already
// visible, in which case a variable is rebound and a function is an error.
func (w *walker) assignName(id *ast.Identifier) {
	sym, ok := w.symbolTable.Find(id.Value)
	if !ok {
		w.symbolTable.DefineVariable(id.Value, id.Token)
		return
	}
	if sym.IsFunction() {
		w.addError(diagnostics.NewError(diagnostics.ErrA003, id.Token, id.Value))
	}
}

func (w *walker) VisitPrintStatement(n *ast.PrintStatement) {
	for _, arg := range n.Arguments {
		arg.Accept(w)
	}
}

func (w *walker) VisitExpressionStatement(n *ast.ExpressionStatement) {
	n.Expression.Accept(w)
}

func (w *walker) VisitFunctionStatement(n *ast.FunctionStatement) {
	name := n.Name.Value
	if w.symbolTable.IsDefinedLocally(name) {
		w.addError(diagnostics.NewError(diagnostics.ErrA002, n.Name.Token, name))
	} else {
		// Declared before the body so the function can call itself.
		w.symbolTable.DefineFunction(name, n.ParamNames(), n.Name.Token)
	}

	w.symbolTable.Enter(symbols.ScopeFunction)
	defer w.symbolTable.Exit()

	for _, param := range n.Parameters {
		if w.symbolTable.IsDefinedLocally(param.Value) {
			w.addError(diagnostics.NewError(diagnostics.ErrA002, param.Token, param.Value))
			continue
		}
		w.symbolTable.DefineVariable(param.Value, param.Token)
	}
	if n.Body != nil {
		w.statements(n.Body.Statements)
	}
}

func (w *walker) VisitReturnStatement(n *ast.ReturnStatement) {
	if !w.symbolTable.InFunction() {
		w.addError(diagnostics.NewError(diagnostics.ErrA007, n.Token))
	}
	if n.ReturnValue != nil {
		n.ReturnValue.Accept(w)
	}
}

func (w *walker) VisitIfStatement(n *ast.IfStatement) {
	n.Condition.Accept(w)
	w.block(n.Consequence)
	for _, elif := range n.Elifs {
		elif.Condition.Accept(w)
		w.block(elif.Body)
	}
	w.block(n.Alternative)
}

func (w *walker) VisitWhileStatement(n *ast.WhileStatement) {
	n.Condition.Accept(w)
	w.block(n.Body)
}

func (w *walker) VisitForRangeStatement(n *ast.ForRangeStatement) {
	n.Start.Accept(w)
	n.End.Accept(w)
	if n.Step != nil {
		n.Step.Accept(w)
	}

	w.symbolTable.Enter(symbols.ScopeBlock)
	defer w.symbolTable.Exit()

	w.assignName(n.Variable)
	if body, ok := n.Body.(*ast.BlockStatement); ok {
		w.statements(body.Statements)
		return
	}
	n.Body.Accept(w)
}

func (w *walker) VisitImportStatement(n *ast.ImportStatement) {}
