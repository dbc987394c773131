package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/rundiff/pkg/pattern"
	"github.com/dkoosis/rundiff/pkg/render"
)

const formatProm = "prom"

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

// outputFormat resolves "auto": CI and pipes get llm, a TTY gets terminal.
func (a *app) outputFormat() string {
	if a.cfg.Format != "auto" {
		return a.cfg.Format
	}
	if !a.cfg.CI && isTTYWriter(a.stdout) {
		return "terminal"
	}
	return "llm"
}

func (a *app) renderer(mode string) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		theme := render.ThemeByName(a.cfg.Theme, a.cfg.NoColor)
		return render.NewTerminal(theme, termWidth(a.stdout))
	}
}

// emit renders patterns to stdout in the resolved format. JSON output also
// embeds d, the delta the patterns were mapped from.
func (a *app) emit(patterns []pattern.Pattern, kind string, d any) {
	r := a.renderer(a.outputFormat())
	if j, ok := r.(*render.JSON); ok && d != nil {
		r = j.WithDelta(kind, d)
	}
	fmt.Fprint(a.stdout, r.Render(patterns))
}

// emitError shows a load failure without exiting, for watch mode. The
// Prometheus format has no error shape, so it goes to stderr instead.
func (a *app) emitError(source string, err error) {
	if a.outputFormat() == formatProm {
		fmt.Fprintf(a.stderr, "rundiff: %v\n", err)
		return
	}
	a.emit([]pattern.Pattern{&pattern.Error{Source: source, Message: err.Error()}}, "", nil)
}
