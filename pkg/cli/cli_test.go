package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/cache"
	"github.com/funvibe/tourte/internal/config"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(args ...string) result {
	var stdout, stderr bytes.Buffer
	env := &Env{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr}
	code := Main(env, args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)
	return path
}

func TestBuildWritesListing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "x = 1;\nprint(x);\n")

	res := run("build", src, "-no-cache")
	be.Equal(t, res.code, 0)
	be.Equal(t, res.stderr, "")

	data, err := os.ReadFile(filepath.Join(dir, "main.asm"))
	be.Err(t, err, nil)
	asm := string(data)
	be.True(t, strings.HasPrefix(asm, "default rel\n"))
	be.True(t, strings.HasSuffix(asm, "v_x resq 1\n"))

	// no temporary files are left behind
	entries, err := os.ReadDir(dir)
	be.Err(t, err, nil)
	for _, e := range entries {
		be.True(t, !strings.HasSuffix(e.Name(), ".tmp"))
	}
}

func TestBuildIsTheDefaultCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "print(2);")
	out := filepath.Join(dir, "out", "prog.s")

	res := run(src, "-o", out, "-no-cache")
	be.Equal(t, res.code, 0)
	_, err := os.Stat(out)
	be.Err(t, err, nil)
}

func TestBuildUsesConfigOutput(t *testing.T) {
	dir := t.TempDir()
	be.Err(t, os.WriteFile(filepath.Join(dir, "tourte.yaml"), []byte("output: build/app.asm\ncache:\n  enabled: false\n"), 0o644), nil)
	src := writeSource(t, dir, "main.tourte", "print(3);")

	res := run("build", src)
	be.Equal(t, res.code, 0)
	_, err := os.Stat(filepath.Join(dir, "build", "app.asm"))
	be.Err(t, err, nil)
	_, err = os.Stat(filepath.Join(dir, config.DefaultCachePath))
	be.True(t, os.IsNotExist(err))
}

func TestBuildCachesListing(t *testing.T) {
	dir := t.TempDir()
	source := "x = 4;\nprint(x * x);\n"
	src := writeSource(t, dir, "main.tourte", source)

	res := run("build", src, "-v")
	be.Equal(t, res.code, 0)
	be.True(t, strings.Contains(res.stderr, "[tourte] compiled"))

	c, err := cache.Open(filepath.Join(dir, config.DefaultCachePath))
	be.Err(t, err, nil)
	lines, ok, err := c.Get(cache.Key(source))
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, lines[0], "default rel")
	be.Err(t, c.Close(), nil)

	res = run("build", src, "-v")
	be.Equal(t, res.code, 0)
	be.True(t, strings.Contains(res.stderr, "[tourte] cache hit"))
}

func TestBuildReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "x = 1;\nprint(y);\n")

	res := run("build", src, "-no-cache")
	be.Equal(t, res.code, 1)
	want := src + ":2:7: [A001] undeclared identifier 'y'\n" +
		"  print(y);\n" +
		"        ^\n"
	be.Equal(t, res.stderr, want)
	_, err := os.Stat(filepath.Join(dir, "main.asm"))
	be.True(t, os.IsNotExist(err))
}

func TestBuildReportsUnsupportedConstruct(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "x = \"s\";\n")

	res := run("build", src, "-no-cache")
	be.Equal(t, res.code, 1)
	be.True(t, strings.Contains(res.stderr, "[G001] unsupported construct: string literal"))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	ok := writeSource(t, dir, "ok.tourte", "func f(a) { return a; };\nx = f(1);\n")
	bad := writeSource(t, dir, "bad.tourte", "f(1);\n")

	res := run("check", ok, "-v")
	be.Equal(t, res.code, 0)
	be.True(t, strings.Contains(res.stderr, "2 statements, 2 globals"))

	res = run("check", bad)
	be.Equal(t, res.code, 1)
	be.True(t, strings.Contains(res.stderr, "[A004] call to undeclared function 'f'"))
}

func TestTokens(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "x = 1;")

	res := run("tokens", src)
	be.Equal(t, res.code, 0)
	want := "1:1\tIDENT\t\"x\"\n" +
		"1:3\tOPERATOR\t\"=\"\n" +
		"1:5\tINT\t\"1\"\n" +
		"1:6\tDELIMITER\t\";\"\n" +
		"1:7\tEOF\t\"\"\n"
	be.Equal(t, res.stdout, want)
}

func TestAst(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "x = 1 + 2 * 3;\n")

	res := run("ast", "-tree", src)
	be.Equal(t, res.code, 0)
	be.Equal(t, res.stdout, "(assign x (+ 1 (* 2 3)))\n")

	res = run("ast", src)
	be.Equal(t, res.code, 0)
	be.True(t, strings.Contains(res.stdout, "x = 1 + 2 * 3"))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "for i in range(1, 4) print(i * 10);\n")

	res := run("run", src, "-no-cache")
	be.Equal(t, res.code, 0)
	be.Equal(t, res.stdout, "10\n20\n30\n")
}

func TestRunReportsRuntimeFault(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.tourte", "while (1) { x = 1; };\n")

	res := run("run", src, "-no-cache", "-max-steps", "100")
	be.Equal(t, res.code, 1)
	be.True(t, strings.Contains(res.stderr, "<assembly>:"))
	be.True(t, strings.Contains(res.stderr, "[R001] runtime error: step limit of 100 exceeded"))
}

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()
	doc := "## Test: ok\n```tourte\nprint(1);\n```\n```output\n1\n```\n\n" +
		"## Test: broken\n```tourte\nprint(1);\n```\n```output\n2\n```\n"
	writeSource(t, dir, "a_test.md", doc)

	res := run("test", dir)
	be.Equal(t, res.code, 1)
	be.True(t, strings.Contains(res.stdout, "FAIL "))
	be.True(t, strings.Contains(res.stdout, "broken"))
	be.True(t, strings.HasSuffix(res.stdout, "1 passed, 1 failed\n"))
}

func TestUsage(t *testing.T) {
	res := run()
	be.Equal(t, res.code, 2)
	be.True(t, strings.Contains(res.stderr, "Usage: tourte"))

	res = run("frobnicate")
	be.Equal(t, res.code, 2)
	be.True(t, strings.Contains(res.stderr, `unknown command "frobnicate"`))

	res = run("build")
	be.Equal(t, res.code, 2)

	res = run("help")
	be.Equal(t, res.code, 0)
	be.True(t, strings.Contains(res.stdout, "Commands:"))

	res = run("version")
	be.Equal(t, res.stdout, "tourte "+config.Version+"\n")
}

func TestMissingFile(t *testing.T) {
	res := run("build", filepath.Join(t.TempDir(), "nope.tourte"))
	be.Equal(t, res.code, 1)
	be.True(t, strings.Contains(res.stderr, "Error reading file"))
}

func TestColorsAreOffForBuffers(t *testing.T) {
	be.Equal(t, colorFor(config.ColorAuto, &bytes.Buffer{}).enabled, false)
	be.Equal(t, colorFor(config.ColorAlways, &bytes.Buffer{}).red("x"), "\x1b[31mx\x1b[0m")
	be.Equal(t, colorFor(config.ColorNever, os.Stderr).enabled, false)
}

func TestCaretPadding(t *testing.T) {
	be.Equal(t, caretPadding("\tx = ключ;", 6), "\t    ")
	be.Equal(t, caretPadding("abc", 1), "")
}
