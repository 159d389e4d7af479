package rstudio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
	"github.com/klauern/snipsync/internal/util"
)

const (
	// FilePerm is the permission for written snippet files.
	FilePerm = 0o644

	sectionRule = "##-------------------------------------"
)

// Writer implements the parser.Writer interface for RStudio snippet files
type Writer struct {
	basePath string
	// OnWrite, if set, is called after each file is written.
	OnWrite func(path string)
}

// NewWriter creates a writer for basePath.
// If basePath is empty, uses the default RStudio snippets directory.
func NewWriter(basePath string) *Writer {
	if basePath == "" {
		basePath = util.RStudioSnippetsPath()
	}
	return &Writer{basePath: basePath}
}

// Write writes one file per language in tree, replacing existing files of
// the same name. Languages without snippets and files for languages absent
// from tree are left alone.
func (w *Writer) Write(tree model.Tree) ([]string, error) {
	if err := os.MkdirAll(w.basePath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snippet directory %q: %w", w.basePath, err)
	}

	written := make([]string, 0, len(tree))
	for _, language := range tree.Languages() {
		count := countSnippets(tree, language)
		if count == 0 {
			logging.Debug("no snippets, skipping file", logging.Language(language))
			continue
		}
		path := filepath.Join(w.basePath, parser.SafeFileName(language))
		if err := parser.WriteFileAtomic(path, Render(tree, language), FilePerm); err != nil {
			return written, err
		}
		logging.Info("wrote RStudio snippet file",
			logging.Path(path),
			logging.Count(count),
		)
		written = append(written, path)
		if w.OnWrite != nil {
			w.OnWrite(path)
		}
	}
	return written, nil
}

// Editor returns the editor identifier for RStudio
func (w *Writer) Editor() model.Editor {
	return model.RStudio
}

// Render returns the file content for one language. Uncategorized snippets
// come first without a banner, then each non-empty section in sorted order.
func Render(tree model.Tree, language string) []byte {
	var buf bytes.Buffer

	for _, section := range tree.Sections(language) {
		names := tree.Names(language, section)
		if len(names) == 0 {
			continue
		}
		if section != model.Uncategorized {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			fmt.Fprintf(&buf, "%s\n## %s\n%s\n\n", sectionRule, section, sectionRule)
		}
		for _, name := range names {
			body, _ := tree.Get(language, section, name)
			writeSnippet(&buf, name, body)
		}
	}

	return buf.Bytes()
}

func writeSnippet(buf *bytes.Buffer, name, body string) {
	buf.WriteString(snippetKeyword + " " + name + "\n")
	for _, line := range strings.Split(model.NormalizeBody(body), "\n") {
		buf.WriteString("\t" + line + "\n")
	}
	buf.WriteByte('\n')
}

func countSnippets(tree model.Tree, language string) int {
	n := 0
	for _, s := range tree[language] {
		n += len(s)
	}
	return n
}
