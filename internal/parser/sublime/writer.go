package sublime

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
)

// FilePerm is the permission for written snippet files.
const FilePerm = 0o644

const snippetTemplate = `<snippet>
    <content><![CDATA[
{{.Body}}
]]></content>
    <tabTrigger>{{.Name}}</tabTrigger>
    <scope>{{.Scope}}</scope>
</snippet>
`

var snippetTmpl = template.Must(template.New("sublime-snippet").Parse(snippetTemplate))

// Writer implements the parser.Writer interface for Sublime Text snippets
type Writer struct {
	basePath string
	// OnWrite, if set, is called after each file is written.
	OnWrite func(path string)
}

// NewWriter creates a writer for basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// Write writes one file per snippet in tree, then removes any other
// .sublime-snippet file in the directory so the directory mirrors tree.
func (w *Writer) Write(tree model.Tree) ([]string, error) {
	base, err := filepath.Abs(w.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", w.basePath, err)
	}
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snippet directory %q: %w", base, err)
	}

	existing, err := parser.DiscoverFiles(base, model.Sublime.FileSuffix())
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, tree.Len())
	keep := make(map[string]bool, tree.Len())
	for _, lang := range tree.Languages() {
		for _, section := range tree.Sections(lang) {
			for _, name := range tree.Names(lang, section) {
				body, _ := tree.Get(lang, section, name)
				path := filepath.Join(base, FileName(lang, section, name))
				if keep[path] {
					logging.Warn("snippet file name collision, later snippet wins",
						logging.Path(path),
						logging.Language(lang),
						logging.Snippet(name),
					)
				}

				data, err := Render(lang, name, body)
				if err != nil {
					return written, err
				}
				if err := parser.WriteFileAtomic(path, data, FilePerm); err != nil {
					return written, err
				}
				logging.Debug("wrote Sublime Text snippet", logging.Path(path))

				keep[path] = true
				written = append(written, path)
				if w.OnWrite != nil {
					w.OnWrite(path)
				}
			}
		}
	}

	for _, path := range existing {
		if keep[path] {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return written, fmt.Errorf("failed to remove stale snippet %q: %w", path, err)
		}
		logging.Debug("removed stale Sublime Text snippet", logging.Path(path))
	}

	logging.Info("wrote Sublime Text snippets",
		logging.Path(base),
		logging.Count(len(written)),
	)
	return written, nil
}

// Editor returns the editor identifier for Sublime Text
func (w *Writer) Editor() model.Editor {
	return model.Sublime
}

// Render returns the .sublime-snippet document for one snippet. A "]]>" in
// the body is split across two CDATA sections.
func Render(scope, name, body string) ([]byte, error) {
	var buf bytes.Buffer
	content := strings.ReplaceAll(model.NormalizeBody(body), cdataClose, cdataSplit)
	err := snippetTmpl.Execute(&buf, struct {
		Scope, Name, Body string
	}{Scope: scope, Name: name, Body: content})
	if err != nil {
		return nil, fmt.Errorf("failed to render snippet %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FileName builds "<Title> <SECTION> <name>.sublime-snippet", where Title is
// the last dot-separated part of the scope. Uncategorized snippets keep the
// double space so SectionFromFileName finds no section.
func FileName(scope, section, name string) string {
	return fmt.Sprintf("%s %s %s%s",
		LanguageTitle(scope),
		strings.ToUpper(section),
		parser.SafeFileName(name),
		model.Sublime.FileSuffix(),
	)
}

// LanguageTitle turns a scope such as "text.tex.latex" into "Latex".
func LanguageTitle(scope string) string {
	parts := strings.Split(scope, ".")
	return cases.Title(language.English).String(parts[len(parts)-1])
}
