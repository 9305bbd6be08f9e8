package symbols

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/token"
)

func TestFindWalksOutwards(t *testing.T) {
	st := NewSymbolTable()
	st.DefineVariable("x", token.Token{Line: 1, Column: 1})
	st.Enter(ScopeFunction)
	st.DefineVariable("y", token.Token{})
	st.Enter(ScopeBlock)

	sym, ok := st.Find("x")
	be.True(t, ok)
	be.Equal(t, sym.Kind, VariableSymbol)
	be.Equal(t, sym.Token.Line, 1)

	_, ok = st.Find("y")
	be.True(t, ok)
	be.True(t, !st.IsDefinedLocally("y"))
	be.Equal(t, st.Depth(), 3)
}

func TestExitDiscardsInnerSymbols(t *testing.T) {
	st := NewSymbolTable()
	st.Enter(ScopeBlock)
	st.DefineVariable("tmp", token.Token{})
	st.Exit()

	_, ok := st.Find("tmp")
	be.True(t, !ok)

	// the global frame stays
	st.Exit()
	be.Equal(t, st.Depth(), 1)
	be.Equal(t, st.CurrentScope(), ScopeGlobal)
}

func TestInnerDeclarationHidesOuter(t *testing.T) {
	st := NewSymbolTable()
	st.DefineFunction("f", []string{"a", "b"}, token.Token{})
	st.Enter(ScopeFunction)
	st.DefineVariable("f", token.Token{})

	sym, _ := st.Find("f")
	be.Equal(t, sym.Kind, VariableSymbol)
	st.Exit()

	sym, _ = st.Find("f")
	be.True(t, sym.IsFunction())
	be.Equal(t, sym.Arity(), 2)
}

func TestInFunction(t *testing.T) {
	st := NewSymbolTable()
	be.True(t, !st.InFunction())
	st.Enter(ScopeFunction)
	st.Enter(ScopeBlock)
	be.True(t, st.InFunction())
	st.Exit()
	st.Exit()
	be.True(t, !st.InFunction())
}

func TestVisibleNames(t *testing.T) {
	st := NewSymbolTable()
	st.DefineVariable("zeta", token.Token{})
	st.DefineFunction("alpha", nil, token.Token{})
	st.Enter(ScopeBlock)
	st.DefineVariable("mid", token.Token{})
	st.DefineVariable("zeta", token.Token{})
	be.Equal(t, st.VisibleNames(), []string{"alpha", "mid", "zeta"})
}

func TestGlobalsKeepDeclarationOrder(t *testing.T) {
	st := NewSymbolTable()
	st.DefineVariable("b", token.Token{})
	st.DefineVariable("a", token.Token{})
	st.DefineVariable("b", token.Token{Line: 2})
	globals := st.Globals()
	be.Equal(t, len(globals), 2)
	be.Equal(t, globals[0].Name, "b")
	be.Equal(t, globals[0].Token.Line, 2)
	be.Equal(t, globals[1].Name, "a")
}
