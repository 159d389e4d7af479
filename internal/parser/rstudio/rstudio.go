// Package rstudio reads and writes RStudio .snippets files.
//
// An RStudio snippet file holds every snippet for one language. Snippets are
// declared with a "snippet <name>" line at column 0 and their bodies follow
// as tab-indented lines. RStudio itself has no notion of sections; snipsync
// uses comment banners such as
//
//	##-------------------------------------
//	## loops
//	##-------------------------------------
//
// to group snippets, and preserves those groups across editors.
package rstudio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
	"github.com/klauern/snipsync/internal/util"
)

// Options tunes the reader. The zero value reads every snippet, so a file
// written by Writer reads back unchanged.
type Options struct {
	// DropTrailing leaves a snippet that is still open when the file ends
	// uncommitted, as the old sync script did. Writing the tree back then
	// deletes that snippet from the file.
	DropTrailing bool

	// DropUncategorized discards snippets that appear before the first
	// section banner instead of keeping them under the uncategorized
	// section.
	DropUncategorized bool
}

// Parser implements the parser.Parser interface for RStudio snippet files
type Parser struct {
	basePath string
	opts     Options
}

// New creates a new RStudio parser.
// If basePath is empty, uses the default RStudio snippets directory.
func New(basePath string, opts Options) *Parser {
	if basePath == "" {
		basePath = util.RStudioSnippetsPath()
	}
	return &Parser{basePath: basePath, opts: opts}
}

// Parse reads every *.snippets file in the base directory. The file name is
// the tree's language key. Unreadable files are logged and skipped.
func (p *Parser) Parse() (model.Tree, error) {
	files, err := parser.DiscoverFiles(p.basePath, model.RStudio.FileSuffix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover snippet files in %q: %w", p.basePath, err)
	}

	logging.Info("reading RStudio snippets",
		logging.Path(p.basePath),
		logging.Count(len(files)),
	)

	tree := model.NewTree()
	for _, path := range files {
		language := filepath.Base(path)
		sections, err := p.parseFile(path, language)
		if err != nil {
			logging.Warn("skipping unreadable snippet file",
				logging.Editor(string(model.RStudio)),
				logging.Path(path),
				logging.Err(err),
			)
			continue
		}
		tree[language] = sections
	}

	return tree, nil
}

func (p *Parser) parseFile(path, language string) (map[string]model.Section, error) {
	// #nosec G304 - path comes from DiscoverFiles over the configured directory
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Scan(f, language, p.opts)
}

// Editor returns the editor identifier for RStudio
func (p *Parser) Editor() model.Editor {
	return model.RStudio
}

// DefaultPath returns the default path for RStudio snippets
func (p *Parser) DefaultPath() string {
	return util.RStudioSnippetsPath()
}

// Scan reads one RStudio snippet file and returns its sections. language is
// used only for log attributes.
func Scan(r io.Reader, language string, opts Options) (map[string]model.Section, error) {
	s := newScanner(language, opts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		s.feed(strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", language, err)
	}
	s.finish()

	return s.sections, nil
}
