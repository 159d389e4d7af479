// Package detector finds the snippet directories of installed editors so
// that a config file can be written without typing the paths in.
package detector

import (
	"os"

	"github.com/klauern/snipsync/internal/config"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/util"
)

const (
	// SourceEnv means the path came from the editor's environment variable.
	SourceEnv = "env_var"
	// SourceFilesystem means the path is one of the editor's default locations.
	SourceFilesystem = "filesystem"
)

// Detected is a snippet directory that was found for one editor.
type Detected struct {
	Editor model.Editor
	Path   string
	Source string
}

// DetectAll looks for both editors and returns the ones found.
func DetectAll() []Detected {
	var detected []Detected
	for _, editor := range []model.Editor{model.Sublime, model.RStudio} {
		if d, ok := Detect(editor); ok {
			detected = append(detected, d)
		}
	}
	return detected
}

// Detect returns the snippet directory for editor. The environment variable
// used by the config file wins over the default locations.
func Detect(editor model.Editor) (Detected, bool) {
	if path := envPath(editor); path != "" && isDir(path) {
		return Detected{Editor: editor, Path: path, Source: SourceEnv}, true
	}

	for _, path := range candidates(editor) {
		if isDir(path) {
			return Detected{Editor: editor, Path: path, Source: SourceFilesystem}, true
		}
	}
	return Detected{}, false
}

// Path returns the detected directory for editor, or an empty string.
func Path(editor model.Editor) string {
	if d, ok := Detect(editor); ok {
		return d.Path
	}
	return ""
}

func envPath(editor model.Editor) string {
	var key string
	switch editor {
	case model.Sublime:
		key = config.KeySublimePath
	case model.RStudio:
		key = config.KeyRStudioPath
	}
	if key == "" {
		return ""
	}
	return util.ExpandPath(os.Getenv(key), "")
}

func candidates(editor model.Editor) []string {
	switch editor {
	case model.Sublime:
		return util.SublimeSnippetsPaths()
	case model.RStudio:
		return util.RStudioSnippetsPaths()
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
