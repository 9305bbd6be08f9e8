package analyzer

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
)

func (w *walker) VisitIdentifier(n *ast.Identifier) {
	if _, ok := w.symbolTable.Find(n.Value); !ok {
		w.addError(diagnostics.NewError(diagnostics.ErrA001, n.Token, n.Value, w.hint(n.Value)))
	}
}

func (w *walker) VisitIntegerLiteral(n *ast.IntegerLiteral) {}
func (w *walker) VisitFloatLiteral(n *ast.FloatLiteral)     {}
func (w *walker) VisitStringLiteral(n *ast.StringLiteral)   {}
func (w *walker) VisitNoneLiteral(n *ast.NoneLiteral)       {}

func (w *walker) VisitPrefixExpression(n *ast.PrefixExpression) {
	n.Right.Accept(w)
}

func (w *walker) VisitInfixExpression(n *ast.InfixExpression) {
	n.Left.Accept(w)
	n.Right.Accept(w)
}

func (w *walker) VisitListLiteral(n *ast.ListLiteral) {
	for _, el := range n.Elements {
		el.Accept(w)
	}
}

func (w *walker) VisitMapLiteral(n *ast.MapLiteral) {
	for _, pair := range n.Pairs {
		pair.Key.Accept(w)
		pair.Value.Accept(w)
	}
}

func (w *walker) VisitIndexExpression(n *ast.IndexExpression) {
	n.Left.Accept(w)
	n.Index.Accept(w)
}

func (w *walker) VisitCallExpression(n *ast.CallExpression) {
	name := n.Function.Value
	sym, ok := w.symbolTable.Find(name)
	switch {
	case !ok:
		w.addError(diagnostics.NewError(diagnostics.ErrA004, n.Token, name, w.functionHint(name)))
	case !sym.IsFunction():
		w.addError(diagnostics.NewError(diagnostics.ErrA005, n.Token, name))
	case sym.Arity() != len(n.Arguments):
		w.addError(diagnostics.NewError(diagnostics.ErrA006, n.Token, name, sym.Arity(), len(n.Arguments)))
	}

	// Arguments are checked even when the call itself is wrong.
	for _, arg := range n.Arguments {
		arg.Accept(w)
	}
}

func (w *walker) VisitInputExpression(n *ast.InputExpression) {
	n.Prompt.Accept(w)
}

func (w *walker) VisitConversionExpression(n *ast.ConversionExpression) {
	n.Value.Accept(w)
}
