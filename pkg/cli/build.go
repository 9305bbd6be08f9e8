package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/tourte/internal/backend"
	"github.com/funvibe/tourte/internal/cache"
	"github.com/funvibe/tourte/internal/config"
	"github.com/funvibe/tourte/internal/lexer"
	"github.com/funvibe/tourte/internal/parser"
	"github.com/funvibe/tourte/internal/pipeline"
	"github.com/funvibe/tourte/internal/prettyprinter"
)

// unit is one source file with the configuration that governs it.
type unit struct {
	path   string
	source string
	cfg    *config.Config
	report *reporter
	log    verbose
}

func loadUnit(env *Env, path string, verboseOn bool) (*unit, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error reading file: %s\n", err)
		return nil, false
	}
	cfg, err := config.LoadFor(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %s\n", err)
		return nil, false
	}
	u := &unit{
		path:   path,
		source: string(data),
		cfg:    cfg,
		log:    verbose{w: env.Stderr, on: verboseOn},
	}
	u.report = &reporter{
		w:      env.Stderr,
		colors: colorFor(cfg.Color, env.Stderr),
		source: u.source,
		file:   path,
	}
	return u, true
}

// compile produces the listing, consulting the cache when enabled. The
// returned context carries diagnostics on failure.
func (u *unit) compile(useCache bool) *pipeline.PipelineContext {
	useCache = useCache && u.cfg.CacheEnabled()

	var store *cache.Cache
	key := cache.Key(u.source)
	if useCache {
		c, err := cache.Open(u.cfg.CachePath())
		if err != nil {
			// A broken cache never blocks compilation.
			u.log.printf("cache disabled: %v", err)
		} else {
			store = c
			defer store.Close()
			lines, ok, err := store.Get(key)
			switch {
			case err != nil:
				u.log.printf("cache read failed: %v", err)
			case ok:
				u.log.printf("cache hit %s", key[:12])
				ctx := pipeline.NewPipelineContext(u.source)
				ctx.FilePath = u.path
				ctx.Assembly = lines
				return ctx
			}
		}
	}

	ctx := backend.Compile(u.source, u.path)
	if ctx.HasErrors() {
		return ctx
	}
	u.log.printf("compiled %s: %d lines of assembly", u.path, len(ctx.Assembly))
	if store != nil {
		if err := store.Put(key, ctx.Assembly); err != nil {
			u.log.printf("cache write failed: %v", err)
		}
	}
	return ctx
}

func cmdBuild(env *Env, args []string) int {
	fs := newFlagSet(env, "build")
	output := fs.String("o", "", "output path (default: <file>.asm)")
	noCache := fs.Bool("no-cache", false, "do not read or write the assembly cache")
	verboseOn := fs.Bool("v", false, "print progress to stderr")
	path, ok := oneFile(env, fs, args)
	if !ok {
		return 2
	}

	u, ok := loadUnit(env, path, *verboseOn)
	if !ok {
		return 1
	}
	ctx := u.compile(!*noCache)
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}

	out := *output
	if out == "" {
		out = u.cfg.OutputPath()
	}
	if out == "" {
		out = strings.TrimSuffix(path, config.SourceFileExt) + config.AsmFileExt
	}
	if err := writeAtomic(out, []byte(strings.Join(ctx.Assembly, "\n")+"\n")); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %s\n", err)
		return 1
	}
	u.log.printf("wrote %s", out)
	return 0
}

// writeAtomic writes through a uniquely named temporary file so readers
// never observe a partial listing.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func cmdCheck(env *Env, args []string) int {
	fs := newFlagSet(env, "check")
	verboseOn := fs.Bool("v", false, "print progress to stderr")
	path, ok := oneFile(env, fs, args)
	if !ok {
		return 2
	}

	u, ok := loadUnit(env, path, *verboseOn)
	if !ok {
		return 1
	}
	ctx := pipeline.NewPipelineContext(u.source)
	ctx.FilePath = path
	ctx = backend.Frontend().Run(ctx)
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}
	u.log.printf("%s: %d tokens, %d statements, %d globals",
		path, len(ctx.Tokens), len(ctx.AstRoot.Statements), len(ctx.SymbolTable.Globals()))
	return 0
}

func cmdTokens(env *Env, args []string) int {
	fs := newFlagSet(env, "tokens")
	path, ok := oneFile(env, fs, args)
	if !ok {
		return 2
	}
	u, ok := loadUnit(env, path, false)
	if !ok {
		return 1
	}

	ctx := pipeline.NewPipelineContext(u.source)
	ctx.FilePath = path
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}
	for _, tok := range ctx.Tokens {
		fmt.Fprintf(env.Stdout, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Lexeme)
	}
	return 0
}

func cmdAst(env *Env, args []string) int {
	fs := newFlagSet(env, "ast")
	tree := fs.Bool("tree", false, "print s-expressions instead of source")
	path, ok := oneFile(env, fs, args)
	if !ok {
		return 2
	}
	u, ok := loadUnit(env, path, false)
	if !ok {
		return 1
	}

	ctx := pipeline.NewPipelineContext(u.source)
	ctx.FilePath = path
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}
	if *tree {
		fmt.Fprint(env.Stdout, prettyprinter.Tree(ctx.AstRoot))
	} else {
		fmt.Fprint(env.Stdout, prettyprinter.Print(ctx.AstRoot))
	}
	return 0
}

func cmdRun(env *Env, args []string) int {
	fs := newFlagSet(env, "run")
	maxSteps := fs.Int("max-steps", 0, "emulator step limit (default from tourte.yaml)")
	noCache := fs.Bool("no-cache", false, "do not read or write the assembly cache")
	verboseOn := fs.Bool("v", false, "print progress to stderr")
	path, ok := oneFile(env, fs, args)
	if !ok {
		return 2
	}

	u, ok := loadUnit(env, path, *verboseOn)
	if !ok {
		return 1
	}
	ctx := u.compile(!*noCache)
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}

	steps := *maxSteps
	if steps == 0 {
		steps = u.cfg.Emulator.MaxSteps
	}
	ctx, result := backend.Execute(ctx, backend.NewEmulator(env.Stdout, steps))
	if ctx.HasErrors() {
		u.report.report(ctx.Errors)
		return 1
	}
	u.log.printf("exit code %d after %d steps", result.ExitCode, result.Steps)
	return int(result.ExitCode)
}
