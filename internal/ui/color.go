// Package ui provides terminal output helpers for snipsync.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color function types for styled output.
var (
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and cautions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis (bold white).
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for section headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols with colors.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolMoved   = "→"
	SymbolAdded   = "+"
	SymbolChanged = "~"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	return status(Success(SymbolSuccess), msg)
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	return status(Error(SymbolError), msg)
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	return status(Warning(SymbolWarning), msg)
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	return status(Dim(SymbolSkipped), msg)
}

// StatusMoved marks a recategorized snippet.
func StatusMoved(msg string) string {
	return status(Info(SymbolMoved), msg)
}

// StatusAdded marks a snippet copied to the other editor.
func StatusAdded(msg string) string {
	return status(Success(SymbolAdded), msg)
}

// StatusChanged marks a snippet whose body was replaced.
func StatusChanged(msg string) string {
	return status(Warning(SymbolChanged), msg)
}

func status(symbol, msg string) string {
	if msg == "" {
		return symbol
	}
	return symbol + " " + msg
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

// ConfigureColors turns colors off when forced, when NO_COLOR is set or when
// w is not a terminal.
func ConfigureColors(w io.Writer, forceOff bool) {
	if forceOff || os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		DisableColors()
		return
	}
	EnableColors()
}
