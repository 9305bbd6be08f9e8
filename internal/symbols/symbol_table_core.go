package symbols

import (
	"github.com/funvibe/tourte/internal/token"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // User code top-level
	ScopeFunction
	ScopeBlock
)

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
)

func (k SymbolKind) String() string {
	if k == FunctionSymbol {
		return "function"
	}
	return "variable"
}

type Symbol struct {
	Name   string
	Kind   SymbolKind
	Params []string    // Parameter names, functions only
	Token  token.Token // Where the symbol was declared
}

// Arity returns the declared parameter count of a function symbol.
func (s Symbol) Arity() int {
	return len(s.Params)
}

func (s Symbol) IsFunction() bool {
	return s.Kind == FunctionSymbol
}

// frame is one scope level. Names keep declaration order for deterministic
// listings.
type frame struct {
	scopeType ScopeType
	store     map[string]Symbol
	names     []string
}

func newFrame(scopeType ScopeType) *frame {
	return &frame{scopeType: scopeType, store: make(map[string]Symbol)}
}

func (f *frame) define(sym Symbol) {
	if _, ok := f.store[sym.Name]; !ok {
		f.names = append(f.names, sym.Name)
	}
	f.store[sym.Name] = sym
}
