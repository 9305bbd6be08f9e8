package ast

// Visitor has one method per node kind. Adding a node kind adds a method here,
// so every visitor stops compiling until it handles the new kind.
type Visitor interface {
	VisitProgram(node *Program)

	VisitBlockStatement(node *BlockStatement)
	VisitAssignStatement(node *AssignStatement)
	VisitPrintStatement(node *PrintStatement)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitFunctionStatement(node *FunctionStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitIfStatement(node *IfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitForRangeStatement(node *ForRangeStatement)
	VisitImportStatement(node *ImportStatement)

	VisitIdentifier(node *Identifier)
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitFloatLiteral(node *FloatLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitNoneLiteral(node *NoneLiteral)
	VisitPrefixExpression(node *PrefixExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitListLiteral(node *ListLiteral)
	VisitMapLiteral(node *MapLiteral)
	VisitIndexExpression(node *IndexExpression)
	VisitCallExpression(node *CallExpression)
	VisitInputExpression(node *InputExpression)
	VisitConversionExpression(node *ConversionExpression)
}

// Inspect traverses the tree depth-first in source order. If f returns false,
// the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range node.Children() {
		Inspect(child, f)
	}
}
