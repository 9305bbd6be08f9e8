package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/tourte/internal/config"
)

const (
	historyFile = ".tourte_history"
	promptMain  = "tourte> "
	promptCont  = "   ...> "
)

const replHelp = `Statements are compiled and run as they are entered.
Commands:
  :ast     print the session as s-expressions
  :asm     print the session's assembly
  :reset   forget all statements
  :quit    exit
`

func cmdRepl(env *Env, args []string) int {
	fs := newFlagSet(env, "repl")
	maxSteps := fs.Int("max-steps", 0, "emulator step limit (default from tourte.yaml)")
	if _, err := parseArgs(fs, args); err != nil {
		return 2
	}

	session, rep, err := replSetup(".", *maxSteps, env.Stderr)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	fmt.Fprintf(env.Stdout, "tourte %s\nCtrl+D exits. Type :help for commands.\n", config.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		chunk, ok := readChunk(ln, session)
		if !ok {
			fmt.Fprintln(env.Stdout)
			return 0
		}
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(env, session, rep, trimmed); quit {
				return 0
			}
			continue
		}

		out, ctx := session.Submit(chunk)
		if ctx.HasErrors() {
			rep.report(ctx.Errors)
			continue
		}
		fmt.Fprint(env.Stdout, out)
	}
}

// replSetup applies the configuration governing dir. A non-zero flagSteps
// overrides emulator.max_steps.
func replSetup(dir string, flagSteps int, stderr io.Writer) (*Session, *reporter, error) {
	cfg, err := config.LoadFor(dir)
	if err != nil {
		return nil, nil, err
	}
	steps := flagSteps
	if steps == 0 {
		steps = cfg.Emulator.MaxSteps
	}
	rep := &reporter{w: stderr, colors: colorFor(cfg.Color, stderr)}
	return NewSession(steps), rep, nil
}

// readChunk keeps reading lines while the input ends inside an unfinished
// construct. It returns false at end of input.
func readChunk(ln *liner.State, session *Session) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		b.WriteString(line)
		b.WriteByte('\n')
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !session.Incomplete(src) {
			return src, true
		}
	}
}

// replCommand handles a `:` command and reports whether to exit.
func replCommand(env *Env, session *Session, rep *reporter, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(env.Stdout, replHelp)
	case ":reset":
		session.Reset()
		fmt.Fprintln(env.Stdout, "session cleared")
	case ":ast":
		tree, err := session.Tree()
		if err != nil {
			fmt.Fprintln(env.Stderr, rep.colors.red(err.Error()))
			break
		}
		fmt.Fprint(env.Stdout, tree)
	case ":asm":
		lines, err := session.Assembly()
		if err != nil {
			fmt.Fprintln(env.Stderr, rep.colors.red(err.Error()))
			break
		}
		fmt.Fprintln(env.Stdout, strings.Join(lines, "\n"))
	default:
		fmt.Fprintf(env.Stdout, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}
