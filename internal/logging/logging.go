// Package logging builds the logger handed to every provisioning component.
package logging

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// New returns a terminal logger writing to w at Info level, or Debug when
// verbose is set. Colour is enabled only when w is a terminal.
func New(w io.Writer, verbose bool) log.Logger {
	lvl := log.LevelInfo
	if verbose {
		lvl = log.LevelDebug
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, useColor))
}

// Discard returns a logger that drops everything.
func Discard() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}
