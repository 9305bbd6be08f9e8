package ast

import (
	"github.com/funvibe/tourte/internal/token"
)

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) Children() []Node { return nil }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor)     { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}
func (il *IntegerLiteral) Children() []Node { return nil }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor)     { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}
func (fl *FloatLiteral) Children() []Node { return nil }

type StringLiteral struct {
	Token token.Token
	Value string // body without quotes
}

func (sl *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StringLiteral) Children() []Node { return nil }

// NoneLiteral is the `none` value.
type NoneLiteral struct {
	Token token.Token
}

func (nl *NoneLiteral) Accept(v Visitor)     { v.VisitNoneLiteral(nl) }
func (nl *NoneLiteral) expressionNode()      {}
func (nl *NoneLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NoneLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}
func (nl *NoneLiteral) Children() []Node { return nil }

// PrefixExpression is `-x` or `not x`.
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. - or not
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)     { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PrefixExpression) Children() []Node { return []Node{pe.Right} }

// InfixExpression is a binary operation. Operator is the operator lexeme, or
// "not in" for the fused membership test.
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)     { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *InfixExpression) Children() []Node { return []Node{ie.Left, ie.Right} }

// ListLiteral
// [a, b, c]
type ListLiteral struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (ll *ListLiteral) Accept(v Visitor)     { v.VisitListLiteral(ll) }
func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token {
	if ll == nil {
		return token.Token{}
	}
	return ll.Token
}
func (ll *ListLiteral) Children() []Node { return expressionNodes(ll.Elements) }

// MapPair is one key: value entry of a map literal.
type MapPair struct {
	Key   Expression
	Value Expression
}

// MapLiteral keeps its pairs in source order.
// || key: value, key: value ||
type MapLiteral struct {
	Token token.Token // The opening '||' token
	Pairs []MapPair
}

func (ml *MapLiteral) Accept(v Visitor)     { v.VisitMapLiteral(ml) }
func (ml *MapLiteral) expressionNode()      {}
func (ml *MapLiteral) TokenLiteral() string { return ml.Token.Lexeme }
func (ml *MapLiteral) GetToken() token.Token {
	if ml == nil {
		return token.Token{}
	}
	return ml.Token
}
func (ml *MapLiteral) Children() []Node {
	nodes := make([]Node, 0, 2*len(ml.Pairs))
	for _, p := range ml.Pairs {
		nodes = append(nodes, p.Key, p.Value)
	}
	return nodes
}

// IndexExpression is a subscript.
// xs[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)     { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IndexExpression) Children() []Node { return []Node{ie.Left, ie.Index} }

// CallExpression calls a named function.
// f(a, b)
type CallExpression struct {
	Token     token.Token // The callee identifier token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)     { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) Children() []Node {
	return append([]Node{ce.Function}, expressionNodes(ce.Arguments)...)
}

// InputExpression reads a line after showing a prompt.
// input(prompt)
type InputExpression struct {
	Token  token.Token // The 'input' token
	Prompt Expression
}

func (ie *InputExpression) Accept(v Visitor)     { v.VisitInputExpression(ie) }
func (ie *InputExpression) expressionNode()      {}
func (ie *InputExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InputExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *InputExpression) Children() []Node { return []Node{ie.Prompt} }

// ConversionExpression converts a value to int, float or STR.
// int(x)
type ConversionExpression struct {
	Token      token.Token // The type keyword token
	TargetType string
	Value      Expression
}

func (ce *ConversionExpression) Accept(v Visitor)     { v.VisitConversionExpression(ce) }
func (ce *ConversionExpression) expressionNode()      {}
func (ce *ConversionExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *ConversionExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *ConversionExpression) Children() []Node { return []Node{ce.Value} }
