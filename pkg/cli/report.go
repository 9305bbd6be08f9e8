package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/xyproto/env/v2"

	"github.com/funvibe/tourte/internal/config"
	"github.com/funvibe/tourte/internal/diagnostics"
)

type palette struct {
	enabled bool
}

func (p palette) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return code + s + "\x1b[0m"
}

func (p palette) red(s string) string  { return p.wrap("\x1b[31m", s) }
func (p palette) bold(s string) string { return p.wrap("\x1b[1m", s) }

// colorFor resolves the configured colour mode against the output stream.
func colorFor(mode string, w io.Writer) palette {
	switch mode {
	case config.ColorAlways:
		return palette{enabled: true}
	case config.ColorNever:
		return palette{}
	}
	// NO_COLOR convention: https://no-color.org/
	if env.Has("NO_COLOR") {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok {
		return palette{}
	}
	return palette{enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

// reporter prints diagnostics with the offending source line.
type reporter struct {
	w      io.Writer
	colors palette
	source string
	file   string
}

func (r *reporter) report(errs []*diagnostics.DiagnosticError) {
	list := diagnostics.List(errs)
	for _, de := range list {
		r.one(de)
	}
	if len(list) > 1 {
		fmt.Fprintf(r.w, "%d errors\n", len(list))
	}
}

func (r *reporter) one(de *diagnostics.DiagnosticError) {
	pos := fmt.Sprintf("%d:%d:", de.Token.Line, de.Token.Column)
	if de.File != "" {
		pos = de.File + ":" + pos
	}
	fmt.Fprintf(r.w, "%s %s %s\n", r.colors.bold(pos), r.colors.red("["+string(de.Code)+"]"), de.Message)

	// Runtime faults point into the listing, not the source.
	if de.File != r.file || de.Token.Line < 1 {
		return
	}
	lines := strings.Split(r.source, "\n")
	if de.Token.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[de.Token.Line-1], "\r")
	fmt.Fprintf(r.w, "  %s\n", line)
	if de.Token.Column >= 1 {
		fmt.Fprintf(r.w, "  %s%s\n", caretPadding(line, de.Token.Column), r.colors.red("^"))
	}
}

// caretPadding reproduces the line's tabs so the caret lines up under the
// column, which counts code points.
func caretPadding(line string, column int) string {
	var sb strings.Builder
	i := 1
	for _, ch := range line {
		if i >= column {
			break
		}
		if ch == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		i++
	}
	return sb.String()
}

// verbose prints progress lines to stderr when enabled.
type verbose struct {
	w  io.Writer
	on bool
}

func (v verbose) printf(format string, args ...interface{}) {
	if v.on {
		fmt.Fprintf(v.w, "[%s] %s\n", appName, fmt.Sprintf(format, args...))
	}
}
