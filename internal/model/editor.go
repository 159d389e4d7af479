package model

import "fmt"

// Editor identifies one of the two snippet formats snipsync reconciles.
type Editor string

const (
	// Sublime is Sublime Text: one .sublime-snippet XML file per snippet.
	Sublime Editor = "sublime"
	// RStudio is RStudio: one sectioned .snippets text file per language.
	RStudio Editor = "rstudio"
)

// IsValid returns true if the editor is recognized
func (e Editor) IsValid() bool {
	return e == Sublime || e == RStudio
}

// FileSuffix returns the file name suffix the editor's snippet files use.
func (e Editor) FileSuffix() string {
	switch e {
	case Sublime:
		return ".sublime-snippet"
	case RStudio:
		return ".snippets"
	default:
		return ""
	}
}

// ParseEditor converts a user-supplied name into an Editor.
func ParseEditor(s string) (Editor, error) {
	switch s {
	case "sublime", "sublime-text", "st":
		return Sublime, nil
	case "rstudio", "r":
		return RStudio, nil
	default:
		return "", fmt.Errorf("unknown editor %q (expected sublime or rstudio)", s)
	}
}
