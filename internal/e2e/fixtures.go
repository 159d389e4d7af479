package e2e

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser/rstudio"
	"github.com/klauern/snipsync/internal/parser/sublime"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{t: t, baseDir: baseDir}
}

// SublimeFixture returns a fixture rooted at the Sublime Text directory.
func (h *Harness) SublimeFixture() *Fixture {
	return NewFixture(h.t, h.SublimeDir())
}

// RStudioFixture returns a fixture rooted at the RStudio directory.
func (h *Harness) RStudioFixture() *Fixture {
	return NewFixture(h.t, h.RStudioDir())
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// WriteSublimeSnippet writes one .sublime-snippet file named the way the
// Sublime Text writer names it.
func (f *Fixture) WriteSublimeSnippet(scope, section, name, body string) string {
	f.t.Helper()
	data, err := sublime.Render(scope, name, body)
	if err != nil {
		f.t.Fatalf("failed to render snippet %s: %v", name, err)
	}
	return f.WriteFile(sublime.FileName(scope, section, name), string(data))
}

// WriteRStudioSnippets writes language's .snippets file from a
// section → name → body table, laid out the way the RStudio writer lays
// it out.
func (f *Fixture) WriteRStudioSnippets(language string, sections map[string]map[string]string) string {
	f.t.Helper()
	tree := model.NewTree()
	for section, names := range sections {
		for name, body := range names {
			tree.Put(language, section, name, body)
		}
	}
	return f.WriteFile(language, string(rstudio.Render(tree, language)))
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(data)
}

// Files lists the regular files directly inside the fixture directory.
func (f *Fixture) Files() []string {
	f.t.Helper()
	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		f.t.Fatalf("failed to list %s: %v", f.baseDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
