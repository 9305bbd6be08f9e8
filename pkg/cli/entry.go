// Package cli implements the tourte command line driver.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/funvibe/tourte/internal/config"
)

const appName = "tourte"

const usageText = `Usage: tourte <command> [arguments]

Commands:
  build <file> [-o out] [-no-cache] [-v]   compile to NASM assembly (default command)
  check <file> [-v]                        lex, parse and analyze only
  tokens <file>                            print the token stream
  ast <file> [-tree]                       print the parsed program
  run <file> [-max-steps n] [-no-cache]    compile and run on the built-in emulator
  test <file.md|dir>...                    run Markdown test documents
  repl                                     start an interactive session
  version                                  print the version
  help                                     show this help
`

// Env holds the process streams so commands can be driven from tests.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the entry point of the tourte binary.
func Run() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	env := &Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	os.Exit(Main(env, os.Args[1:]))
}

// Main dispatches a command and returns the process exit code:
// 0 on success, 1 when compilation, execution or a test failed, 2 on misuse.
func Main(env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(env.Stderr, usageText)
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "build":
		return cmdBuild(env, rest)
	case "check":
		return cmdCheck(env, rest)
	case "tokens":
		return cmdTokens(env, rest)
	case "ast":
		return cmdAst(env, rest)
	case "run":
		return cmdRun(env, rest)
	case "test":
		return cmdTest(env, rest)
	case "repl":
		return cmdRepl(env, rest)
	case "version", "-version", "--version":
		fmt.Fprintln(env.Stdout, appName+" "+config.Version)
		return 0
	case "help", "-h", "-help", "--help":
		fmt.Fprint(env.Stdout, usageText)
		return 0
	}

	// `tourte main.tourte` is `tourte build main.tourte`
	if strings.HasSuffix(cmd, config.SourceFileExt) {
		return cmdBuild(env, args)
	}
	fmt.Fprintf(env.Stderr, "%s: unknown command %q\n\n%s", appName, cmd, usageText)
	return 2
}

// parseArgs parses fs allowing flags before and after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func newFlagSet(env *Env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

// oneFile parses the flags of a single-file command.
func oneFile(env *Env, fs *flag.FlagSet, args []string) (string, bool) {
	files, err := parseArgs(fs, args)
	if err != nil {
		return "", false
	}
	if len(files) != 1 {
		fmt.Fprintf(env.Stderr, "Usage: %s %s <file>\n", appName, fs.Name())
		return "", false
	}
	return files[0], true
}
