package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/tourte/internal/config"
	"github.com/funvibe/tourte/internal/testcase"
)

// cmdTest runs Markdown test documents. Directories contribute their *.md
// files.
func cmdTest(env *Env, args []string) int {
	fs := newFlagSet(env, "test")
	maxSteps := fs.Int("max-steps", config.DefaultMaxSteps, "emulator step limit per test")
	verboseOn := fs.Bool("v", false, "list passing tests too")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintf(env.Stderr, "Usage: %s test <file.md|dir> [...]\n", appName)
		return 2
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: %s\n", err)
			return 1
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.md"))
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: %s\n", err)
			return 1
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		fmt.Fprintln(env.Stdout, "No test files found")
		return 0
	}

	colors := colorFor(config.ColorAuto, env.Stdout)
	passed, failed := 0, 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error reading file: %s\n", err)
			return 1
		}
		cases, err := testcase.Extract(string(data))
		if err != nil {
			fmt.Fprintf(env.Stderr, "%s: %s\n", file, err)
			return 1
		}

		for _, tc := range cases {
			failures := testcase.Run(tc, *maxSteps)
			if len(failures) == 0 {
				passed++
				if *verboseOn {
					fmt.Fprintf(env.Stdout, "PASS %s: %s\n", file, tc.Name)
				}
				continue
			}
			failed++
			fmt.Fprintf(env.Stdout, "%s %s:%d: %s\n", colors.red("FAIL"), file, tc.Line, tc.Name)
			for _, f := range failures {
				fmt.Fprintf(env.Stdout, "    %s\n", strings.ReplaceAll(f.String(), "\n", "\n    "))
			}
		}
	}

	fmt.Fprintf(env.Stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
