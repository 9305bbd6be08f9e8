package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/config"
	"github.com/funvibe/tourte/internal/diagnostics"
)

func TestSessionKeepsState(t *testing.T) {
	s := NewSession(0)

	out, ctx := s.Submit("x = 2;")
	be.Err(t, ctx.Err(), nil)
	be.Equal(t, out, "")

	out, ctx = s.Submit("print(x * 21);")
	be.Err(t, ctx.Err(), nil)
	be.Equal(t, out, "42\n")

	// earlier output is not repeated
	out, ctx = s.Submit("x = x + 1;\nprint(x);")
	be.Err(t, ctx.Err(), nil)
	be.Equal(t, out, "3\n")
	be.Equal(t, s.Source(), "x = 2;\nprint(x * 21);\nx = x + 1;\nprint(x);\n")
}

func TestSessionRejectsBadInput(t *testing.T) {
	s := NewSession(0)
	_, ctx := s.Submit("x = 1;")
	be.Err(t, ctx.Err(), nil)

	_, ctx = s.Submit("print(y);")
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrA001)
	be.Equal(t, s.Source(), "x = 1;\n")

	_, ctx = s.Submit("print(x / 0);")
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrR001)
	be.Equal(t, s.Source(), "x = 1;\n")
}

func TestSessionIncomplete(t *testing.T) {
	s := NewSession(0)
	tests := []struct {
		chunk string
		want  bool
	}{
		{"x = 1;\n", false},
		{"if (1) {\n", true},
		{"if (1) {\n print(1);\n}\n", false},
		{"x = \"open\n", true},
		{"x = 1 $\n", false},
		{"x = 1 2;\n", false},
	}
	for _, tt := range tests {
		be.Equal(t, s.Incomplete(tt.chunk), tt.want)
	}
}

func TestSessionResetTreeAndAssembly(t *testing.T) {
	s := NewSession(0)
	_, ctx := s.Submit("x = 1 + 2;")
	be.Err(t, ctx.Err(), nil)

	tree, err := s.Tree()
	be.Err(t, err, nil)
	be.Equal(t, tree, "(assign x (+ 1 2))\n")

	lines, err := s.Assembly()
	be.Err(t, err, nil)
	be.True(t, strings.Contains(strings.Join(lines, "\n"), "add rax, rbx"))

	s.Reset()
	be.Equal(t, s.Source(), "")
	out, ctx := s.Submit("print(5);")
	be.Err(t, ctx.Err(), nil)
	be.Equal(t, out, "5\n")
}

func TestReplCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := &Env{Stdout: &stdout, Stderr: &stderr}
	rep := &reporter{w: &stderr}
	s := NewSession(0)
	_, ctx := s.Submit("x = 7;")
	be.Err(t, ctx.Err(), nil)

	be.Equal(t, replCommand(env, s, rep, ":ast"), false)
	be.Equal(t, stdout.String(), "(assign x 7)\n")

	stdout.Reset()
	be.Equal(t, replCommand(env, s, rep, ":asm"), false)
	be.True(t, strings.HasPrefix(stdout.String(), "default rel\n"))

	stdout.Reset()
	be.Equal(t, replCommand(env, s, rep, ":reset"), false)
	be.Equal(t, s.Source(), "")

	stdout.Reset()
	be.Equal(t, replCommand(env, s, rep, ":what"), false)
	be.True(t, strings.Contains(stdout.String(), "unknown command :what"))

	be.Equal(t, replCommand(env, s, rep, ":quit"), true)
	be.Equal(t, stderr.String(), "")
}

func TestReplSetupFollowsConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := "color: always\nemulator:\n  max_steps: 50\n"
	be.Err(t, os.WriteFile(filepath.Join(dir, "tourte.yaml"), []byte(yaml), 0o644), nil)

	var stderr bytes.Buffer
	s, rep, err := replSetup(dir, 0, &stderr)
	be.Err(t, err, nil)
	be.Equal(t, s.maxSteps, 50)
	be.True(t, rep.colors.enabled)

	_, ctx := s.Submit("while (1) { x = 1; };")
	be.Err(t, ctx.Err(), "step limit of 50 exceeded")

	s, _, err = replSetup(dir, 200, &stderr)
	be.Err(t, err, nil)
	be.Equal(t, s.maxSteps, 200)

	t.Setenv(config.EnvColor, config.ColorNever)
	_, rep, err = replSetup(dir, 0, &stderr)
	be.Err(t, err, nil)
	be.Equal(t, rep.colors.enabled, false)
}
