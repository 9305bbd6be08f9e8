package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/tourte/internal/diagnostics"
)

// analyzeSource is defined in analyzer_test.go.
// It lexes, parses, then analyzes the input, returning all errors.

// expectAnalyzerError asserts that at least one error with the given code is produced.
func expectAnalyzerError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := analyzeSource(t, input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, joinErrors(errs), input)
	return nil
}

// expectAnalyzerErrorContains asserts an error with the given code whose message contains substr.
func expectAnalyzerErrorContains(t *testing.T, input string, code diagnostics.ErrorCode, substr string) {
	t.Helper()
	e := expectAnalyzerError(t, input, code)
	if !strings.Contains(e.Error(), substr) {
		t.Errorf("expected error message to contain %q, got: %s", substr, e.Error())
	}
}

// expectNoAnalyzerErrors asserts that analysis produces no errors.
func expectNoAnalyzerErrors(t *testing.T, input string) {
	t.Helper()
	errs := analyzeSource(t, input)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", joinErrors(errs), input)
	}
}

func expectCodes(t *testing.T, input string, codes ...diagnostics.ErrorCode) {
	t.Helper()
	errs := analyzeSource(t, input)
	if len(errs) != len(codes) {
		t.Fatalf("expected %d errors, got %d:\n%s\ninput: %s", len(codes), len(errs), joinErrors(errs), input)
	}
	for i, e := range errs {
		if e.Code != codes[i] {
			t.Errorf("error %d: expected %s, got %s", i, codes[i], e.Error())
		}
	}
}

func joinErrors(errs []*diagnostics.DiagnosticError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// ---------------------------------------------------------------------------
// A001 — Undeclared identifier
// ---------------------------------------------------------------------------

func TestA001_UndeclaredRead(t *testing.T) {
	e := expectAnalyzerError(t, "print(x);", diagnostics.ErrA001)
	if e.Token.Line != 1 || e.Token.Column != 7 {
		t.Errorf("expected 1:7, got %d:%d", e.Token.Line, e.Token.Column)
	}
	if !strings.Contains(e.Error(), "undeclared identifier 'x'") {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

func TestA001_ValueIsCheckedBeforeDeclaration(t *testing.T) {
	expectCodes(t, "x = x + 1;", diagnostics.ErrA001)
}

func TestA001_BlockNameDoesNotEscape(t *testing.T) {
	e := expectAnalyzerError(t, "if (1) { y = 1; };\nprint(y);", diagnostics.ErrA001)
	if e.Token.Line != 2 {
		t.Errorf("expected line 2, got %d", e.Token.Line)
	}
}

func TestA001_FunctionLocalDoesNotEscape(t *testing.T) {
	expectCodes(t, "func f() { z = 1; };\nprint(z);", diagnostics.ErrA001)
}

func TestA001_SubscriptTargetIsARead(t *testing.T) {
	expectCodes(t, "xs[i] = 1;", diagnostics.ErrA001, diagnostics.ErrA001)
}

func TestA001_SuggestsCloseName(t *testing.T) {
	expectAnalyzerErrorContains(t, "count = 1;\nprint(coutn);", diagnostics.ErrA001, "did you mean 'count'?")
	expectAnalyzerErrorContains(t, "total = 0;\nprint(tot);", diagnostics.ErrA001, "did you mean 'total'?")
}

func TestA001_NoSuggestionForDistantName(t *testing.T) {
	e := expectAnalyzerError(t, "count = 1;\nprint(zzz);", diagnostics.ErrA001)
	if strings.Contains(e.Error(), "did you mean") {
		t.Errorf("unexpected suggestion: %s", e.Error())
	}
}

func TestA001_ShortNameDoesNotSuggestLongerNames(t *testing.T) {
	for _, src := range []string{"count = 1;\nprint(n);", "counter = 1;\nprint(cnt);"} {
		e := expectAnalyzerError(t, src, diagnostics.ErrA001)
		if strings.Contains(e.Error(), "did you mean") {
			t.Errorf("unexpected suggestion: %s", e.Error())
		}
	}
	expectAnalyzerErrorContains(t, "nn = 1;\nprint(n);", diagnostics.ErrA001, "did you mean 'nn'?")
}

// ---------------------------------------------------------------------------
// A002 — Redeclaration in the same scope
// ---------------------------------------------------------------------------

func TestA002_FunctionRedeclared(t *testing.T) {
	e := expectAnalyzerError(t, "func f() { };\nfunc f() { };", diagnostics.ErrA002)
	if e.Token.Line != 2 || e.Token.Column != 6 {
		t.Errorf("expected 2:6, got %d:%d", e.Token.Line, e.Token.Column)
	}
}

func TestA002_DuplicateParameter(t *testing.T) {
	e := expectAnalyzerError(t, "func f(a, a) { return a; };", diagnostics.ErrA002)
	if e.Token.Column != 11 {
		t.Errorf("expected column 11, got %d", e.Token.Column)
	}
}

func TestA002_FunctionOverVariable(t *testing.T) {
	expectCodes(t, "f = 1;\nfunc f() { };", diagnostics.ErrA002)
}

func TestA002_NestedFunctionMayReuseName(t *testing.T) {
	expectNoAnalyzerErrors(t, "func f() { };\nfunc g() { func f() { }; f(); };")
}

// ---------------------------------------------------------------------------
// A003 — Assignment to a function
// ---------------------------------------------------------------------------

func TestA003_AssignToFunction(t *testing.T) {
	e := expectAnalyzerError(t, "func f() { };\nf = 1;", diagnostics.ErrA003)
	if e.Token.Line != 2 || e.Token.Column != 1 {
		t.Errorf("expected 2:1, got %d:%d", e.Token.Line, e.Token.Column)
	}
}

func TestA003_AssignToFunctionInBlock(t *testing.T) {
	expectCodes(t, "func f() { };\nif (1) { f = 2; };", diagnostics.ErrA003)
}

func TestA003_LoopVariableNamedLikeFunction(t *testing.T) {
	expectCodes(t, "func i() { };\nfor i in range(0, 3) print(1);", diagnostics.ErrA003)
}

// ---------------------------------------------------------------------------
// A004 — Call to undeclared function
// ---------------------------------------------------------------------------

func TestA004_UndeclaredFunction(t *testing.T) {
	expectAnalyzerErrorContains(t, "g(1);", diagnostics.ErrA004, "call to undeclared function 'g'")
}

func TestA004_SuggestsFunction(t *testing.T) {
	expectAnalyzerErrorContains(t, "func compute(a) { return a; };\ncompte(1);", diagnostics.ErrA004, "did you mean 'compute'?")
}

func TestA004_ArgumentsStillChecked(t *testing.T) {
	expectCodes(t, "g(y);", diagnostics.ErrA004, diagnostics.ErrA001)
}

// ---------------------------------------------------------------------------
// A005 — Call of a non-function
// ---------------------------------------------------------------------------

func TestA005_CallVariable(t *testing.T) {
	expectAnalyzerErrorContains(t, "x = 1;\nx(2);", diagnostics.ErrA005, "'x' is not a function")
}

func TestA005_CallParameter(t *testing.T) {
	expectCodes(t, "func f(cb) { cb(); };", diagnostics.ErrA005)
}

// ---------------------------------------------------------------------------
// A006 — Wrong argument count
// ---------------------------------------------------------------------------

func TestA006_TooFewArguments(t *testing.T) {
	errs := analyzeSource(t, "func f(a, b) { return a + b; };\nf(1);")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got:\n%s", joinErrors(errs))
	}
	if errs[0].Code != diagnostics.ErrA006 || !strings.Contains(errs[0].Message, "expected 2, found 1") {
		t.Errorf("unexpected error: %s", errs[0].Error())
	}
}

func TestA006_ArgumentsStillChecked(t *testing.T) {
	expectCodes(t, "func f(a) { };\nf(u, v);", diagnostics.ErrA006, diagnostics.ErrA001, diagnostics.ErrA001)
}

// ---------------------------------------------------------------------------
// A007 — Return outside a function
// ---------------------------------------------------------------------------

func TestA007_TopLevelReturn(t *testing.T) {
	expectCodes(t, "return 1;", diagnostics.ErrA007)
}

func TestA007_ReturnInTopLevelLoop(t *testing.T) {
	expectCodes(t, "while (1) { return; };", diagnostics.ErrA007)
}

func TestA007_ReturnInsideNestedBlock(t *testing.T) {
	expectNoAnalyzerErrors(t, "func f(x) { if (x) { return 1; }; return 0; };")
}
