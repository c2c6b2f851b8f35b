package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Palette styles text for terminal output. Every field is safe to call;
// a plain palette returns its input formatted with fmt.Sprintf.
type Palette struct {
	OK    func(format string, a ...any) string
	Fail  func(format string, a ...any) string
	Warn  func(format string, a ...any) string
	Faint func(format string, a ...any) string
	Bold  func(format string, a ...any) string
}

// PlainPalette returns a palette that adds no styling.
func PlainPalette() *Palette {
	return &Palette{OK: fmt.Sprintf, Fail: fmt.Sprintf, Warn: fmt.Sprintf, Faint: fmt.Sprintf, Bold: fmt.Sprintf}
}

// ColorPalette returns a palette that always emits ANSI colours.
func ColorPalette() *Palette {
	return &Palette{
		OK:    sprintf(color.FgGreen),
		Fail:  sprintf(color.FgRed, color.Bold),
		Warn:  sprintf(color.FgYellow),
		Faint: sprintf(color.Faint),
		Bold:  sprintf(color.Bold),
	}
}

func sprintf(attrs ...color.Attribute) func(string, ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

// NewPalette picks a palette for w. In auto mode colours are used only
// when w is a terminal and NO_COLOR is unset.
func NewPalette(w io.Writer, mode string) (*Palette, error) {
	switch mode {
	case ColorAlways:
		return ColorPalette(), nil
	case ColorNever:
		return PlainPalette(), nil
	case ColorAuto, "":
		if _, ok := os.LookupEnv("NO_COLOR"); !ok && IsTerminal(w) {
			return ColorPalette(), nil
		}
		return PlainPalette(), nil
	default:
		return nil, NewConfigError("color", fmt.Sprintf("unknown mode %q (want auto, always or never)", mode))
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
