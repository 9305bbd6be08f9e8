// Package symbols tracks declared names during semantic analysis.
//
// A SymbolTable is a stack of frames owned by a single analysis run: frame 0
// is the global scope, function and block frames are pushed when the analyzer
// enters them and popped when it leaves, discarding everything declared inside.
package symbols

import (
	"sort"

	"github.com/funvibe/tourte/internal/token"
)

type SymbolTable struct {
	frames []*frame
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{frames: []*frame{newFrame(ScopeGlobal)}}
}

// Enter pushes a new innermost frame.
func (s *SymbolTable) Enter(scopeType ScopeType) {
	s.frames = append(s.frames, newFrame(scopeType))
}

// Exit pops the innermost frame. The global frame is never popped.
func (s *SymbolTable) Exit() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth is the number of frames, 1 at global scope.
func (s *SymbolTable) Depth() int {
	return len(s.frames)
}

func (s *SymbolTable) current() *frame {
	return s.frames[len(s.frames)-1]
}

func (s *SymbolTable) CurrentScope() ScopeType {
	return s.current().scopeType
}

// InFunction reports whether any enclosing frame is a function body.
func (s *SymbolTable) InFunction() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].scopeType == ScopeFunction {
			return true
		}
	}
	return false
}

// DefineVariable declares a variable in the innermost frame.
func (s *SymbolTable) DefineVariable(name string, tok token.Token) {
	s.current().define(Symbol{Name: name, Kind: VariableSymbol, Token: tok})
}

// DefineFunction declares a function in the innermost frame.
func (s *SymbolTable) DefineFunction(name string, params []string, tok token.Token) {
	s.current().define(Symbol{Name: name, Kind: FunctionSymbol, Params: params, Token: tok})
}

// Find resolves a name from the innermost frame outwards.
func (s *SymbolTable) Find(name string) (Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i].store[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// IsDefinedLocally reports whether the innermost frame declares the name.
func (s *SymbolTable) IsDefinedLocally(name string) bool {
	_, ok := s.current().store[name]
	return ok
}

// VisibleNames lists every name reachable from the innermost frame, sorted.
// Inner declarations hide outer ones of the same name.
func (s *SymbolTable) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, name := range s.frames[i].names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Globals returns the global frame's symbols in declaration order.
func (s *SymbolTable) Globals() []Symbol {
	g := s.frames[0]
	out := make([]Symbol, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.store[name])
	}
	return out
}
