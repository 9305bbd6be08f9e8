package analyzer

import (
	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/symbols"
)

// Analyzer performs semantic analysis on the AST.
type Analyzer struct {
	symbolTable *symbols.SymbolTable
}

// New creates an Analyzer. Each call to Analyze starts from a fresh symbol
// table, so one Analyzer can be reused.
func New() *Analyzer {
	return &Analyzer{}
}

// SymbolTable returns the table of the last run. After a run only the global
// frame is left.
func (a *Analyzer) SymbolTable() *symbols.SymbolTable {
	return a.symbolTable
}

// Analyze walks the tree and returns every semantic error in source order.
func (a *Analyzer) Analyze(node ast.Node) []*diagnostics.DiagnosticError {
	a.symbolTable = symbols.NewSymbolTable()
	w := &walker{symbolTable: a.symbolTable}
	if node != nil {
		node.Accept(w)
	}
	errs := diagnostics.List(w.errors)
	errs.SortByPosition()
	return errs
}

// Analyze checks a parsed program and fails with a diagnostics.List holding
// every error found.
func Analyze(program *ast.Program) error {
	if program == nil {
		return nil
	}
	return diagnostics.List(New().Analyze(program)).Err()
}

type walker struct {
	symbolTable *symbols.SymbolTable
	errors      []*diagnostics.DiagnosticError
}

func (w *walker) addError(err *diagnostics.DiagnosticError) {
	w.errors = append(w.errors, err)
}
