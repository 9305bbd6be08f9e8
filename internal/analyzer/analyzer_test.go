package analyzer

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/ast"
	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/lexer"
	"github.com/funvibe/tourte/internal/parser"
	"github.com/funvibe/tourte/internal/pipeline"
)

func parseSource(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	be.Err(t, err, nil)
	program, err := parser.Parse(tokens)
	be.Err(t, err, nil)
	return program
}

func analyzeSource(t *testing.T, input string) []*diagnostics.DiagnosticError {
	t.Helper()
	return New().Analyze(parseSource(t, input))
}

func TestValidProgram(t *testing.T) {
	expectNoAnalyzerErrors(t, `import "lib";
func fact(n) {
    if (n < 2) {
        return 1;
    };
    return n * fact(n - 1);
};
xs = [1, 2, 3];
m = || "a": xs[0] ||;
name = input("name? ");
total = 0;
for i in range(0, 5) {
    total = total + fact(i);
};
while (total > 100) {
    total = total - int(m["a"]);
};
print(total, STR(total), name);
`)
}

func TestBlockAssignmentRebindsOuterName(t *testing.T) {
	a := New()
	errs := a.Analyze(parseSource(t, "x = 1;\n{ x = 2; y = 3; }\nprint(x);"))
	be.Equal(t, len(errs), 0)

	globals := a.SymbolTable().Globals()
	be.Equal(t, len(globals), 1)
	be.Equal(t, globals[0].Name, "x")
	be.Equal(t, globals[0].Token.Line, 1)
}

func TestLoopVariableScope(t *testing.T) {
	expectCodes(t, "for i in range(0, 3) print(i);\nprint(i);", diagnostics.ErrA001)
	expectNoAnalyzerErrors(t, "i = 10;\nfor i in range(0, 3) print(i);\nprint(i);")
}

func TestLoopBoundsUseOuterScope(t *testing.T) {
	expectCodes(t, "for i in range(0, i) print(i);", diagnostics.ErrA001)
}

func TestFunctionSeesEnclosingNames(t *testing.T) {
	expectNoAnalyzerErrors(t, "base = 10;\nfunc add(x) { return x + base; };\nprint(add(1));")
}

func TestErrorsAreInSourceOrder(t *testing.T) {
	errs := analyzeSource(t, "func f() { };\nf = u;")
	be.Equal(t, len(errs), 2)
	be.Equal(t, errs[0].Code, diagnostics.ErrA003)
	be.Equal(t, errs[1].Code, diagnostics.ErrA001)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	program := parseSource(t, "print(a);\nfunc f(p, q) { };\nf(1);\nf = 2;\nreturn;")
	a := New()
	first := joinErrors(a.Analyze(program))
	second := joinErrors(a.Analyze(program))
	be.Equal(t, second, first)
	be.Equal(t, joinErrors(New().Analyze(program)), first)
}

func TestAnalyzeReturnsDiagnosticList(t *testing.T) {
	err := Analyze(parseSource(t, "print(a, b);"))
	be.Equal(t, diagnostics.KindOf(err), diagnostics.SemanticKind)
	be.Equal(t, len(diagnostics.Diagnostics(err)), 2)

	be.Err(t, Analyze(parseSource(t, "a = 1;")), nil)
	be.Err(t, Analyze(nil), nil)
}

func TestProcessorStoresSymbolTable(t *testing.T) {
	ctx := pipeline.NewPipelineContext("func f(a) { };\nx = f(1);")
	ctx.FilePath = "main.tourte"
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&SemanticAnalyzerProcessor{},
	).Run(ctx)

	be.True(t, !ctx.HasErrors())
	be.Equal(t, len(ctx.SymbolTable.Globals()), 2)
	sym, ok := ctx.SymbolTable.Find("f")
	be.True(t, ok)
	be.Equal(t, sym.Params, []string{"a"})
}

func TestProcessorStampsFile(t *testing.T) {
	ctx := pipeline.NewPipelineContext("print(y);")
	ctx.FilePath = "main.tourte"
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&SemanticAnalyzerProcessor{},
	).Run(ctx)

	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Error(), "main.tourte:1:7: [A001] undeclared identifier 'y'")
}

func TestFindClosestMatch(t *testing.T) {
	be.Equal(t, findClosestMatch("coutn", []string{"other", "count"}), "count")
	be.Equal(t, findClosestMatch("COUNT", []string{"count"}), "count")
	be.Equal(t, findClosestMatch("zzz", []string{"count"}), "")
	be.Equal(t, findClosestMatch("x", nil), "")
}
