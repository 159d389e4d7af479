// Package sublime reads and writes Sublime Text .sublime-snippet files.
//
// Each file holds one snippet:
//
//	<snippet>
//	    <content><![CDATA[
//	for ${1:x} in ${2:xs}:
//	    ${0:pass}
//	]]></content>
//	    <tabTrigger>for</tabTrigger>
//	    <scope>source.python</scope>
//	</snippet>
//
// Sublime Text has no sections, so snipsync stores the section as an
// upper-case word in the file name ("Python LOOPS for.sublime-snippet").
package sublime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
)

const (
	contentOpen  = "<content>"
	contentClose = "</content>"
	cdataOpen    = "<![CDATA["
	cdataClose   = "]]>"

	// cdataSplit stands for a literal "]]>" inside a body: the CDATA
	// section is closed after "]]" and a new one holds the ">".
	cdataSplit = "]]]]><![CDATA[>"
)

var (
	triggerPattern = regexp.MustCompile(`<tabTrigger>(.*)</tabTrigger>`)
	scopePattern   = regexp.MustCompile(`<scope>(.*)</scope>`)
	sectionPattern = regexp.MustCompile(`( [A-Z0-9_ ]* )`)
)

// Fields reported by MalformedError.
const (
	FieldBody  = "body"
	FieldName  = "name"
	FieldScope = "scope"
)

// Snippet is the decoded content of one .sublime-snippet file.
type Snippet struct {
	Scope   string
	Section string
	Name    string
	Body    string
}

// MalformedError reports the fields that could not be extracted from a file.
type MalformedError struct {
	File    string
	Missing []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s is malformed: couldn't extract %s", e.File, strings.Join(e.Missing, ", "))
}

// Parser implements the parser.Parser interface for Sublime Text snippets
type Parser struct {
	basePath string
}

// New creates a new Sublime Text parser for basePath.
func New(basePath string) *Parser {
	return &Parser{basePath: basePath}
}

// Parse reads every *.sublime-snippet file in the base directory into a tree
// keyed by scope. Malformed files produce one warning per missing field and
// are skipped.
func (p *Parser) Parse() (model.Tree, error) {
	files, err := parser.DiscoverFiles(p.basePath, model.Sublime.FileSuffix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover snippet files in %q: %w", p.basePath, err)
	}

	logging.Info("reading Sublime Text snippets",
		logging.Path(p.basePath),
		logging.Count(len(files)),
	)

	tree := model.NewTree()
	for _, path := range files {
		snip, err := parseFile(path)
		if err != nil {
			var malformed *MalformedError
			if errors.As(err, &malformed) {
				for _, field := range malformed.Missing {
					logging.Warn("snippet file is malformed, skipping",
						logging.Editor(string(model.Sublime)),
						logging.Path(path),
						logging.Field(field),
					)
				}
				continue
			}
			logging.Warn("skipping unreadable snippet file",
				logging.Editor(string(model.Sublime)),
				logging.Path(path),
				logging.Err(err),
			)
			continue
		}

		tree.Put(snip.Scope, snip.Section, snip.Name, snip.Body)
		logging.Debug("read snippet",
			logging.Editor(string(model.Sublime)),
			logging.Language(snip.Scope),
			logging.Section(snip.Section),
			logging.Snippet(snip.Name),
		)
	}

	return tree, nil
}

// Editor returns the editor identifier for Sublime Text
func (p *Parser) Editor() model.Editor {
	return model.Sublime
}

func parseFile(path string) (Snippet, error) {
	// #nosec G304 - path comes from DiscoverFiles over the configured directory
	f, err := os.Open(path)
	if err != nil {
		return Snippet{}, err
	}
	defer func() { _ = f.Close() }()

	snip, err := Decode(f, filepath.Base(path))
	if err != nil {
		return Snippet{}, err
	}
	snip.Section = SectionFromFileName(filepath.Base(path))
	return snip, nil
}

// Decode extracts scope, trigger and body from one snippet document. The
// section is not part of the document and is left empty. fileName is only
// used in the returned error.
func Decode(r io.Reader, fileName string) (Snippet, error) {
	var (
		snip    Snippet
		body    []string
		inBlock bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")

		if !inBlock {
			if _, after, ok := strings.Cut(line, contentOpen); ok {
				rest := strings.TrimPrefix(after, cdataOpen)
				if inner, _, closed := strings.Cut(rest, contentClose); closed {
					body = appendContent(body, strings.TrimSuffix(inner, cdataClose))
					continue
				}
				inBlock = true
				body = appendContent(body, rest)
				continue
			}
			if m := triggerPattern.FindStringSubmatch(line); m != nil {
				snip.Name = strings.TrimSpace(m[1])
			}
			if m := scopePattern.FindStringSubmatch(line); m != nil {
				snip.Scope = strings.TrimSpace(m[1])
			}
			continue
		}

		if inner, _, closed := strings.Cut(line, contentClose); closed {
			inBlock = false
			body = appendContent(body, strings.TrimSuffix(inner, cdataClose))
			continue
		}
		body = append(body, line)
	}
	if err := sc.Err(); err != nil {
		return Snippet{}, fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	snip.Body = model.NormalizeBody(strings.ReplaceAll(strings.Join(body, "\n"), cdataSplit, cdataClose))

	var missing []string
	if snip.Body == "" {
		missing = append(missing, FieldBody)
	}
	if snip.Name == "" {
		missing = append(missing, FieldName)
	}
	if snip.Scope == "" {
		missing = append(missing, FieldScope)
	}
	if len(missing) > 0 {
		return Snippet{}, &MalformedError{File: fileName, Missing: missing}
	}
	return snip, nil
}

// appendContent adds a partial line taken from a delimiter line, ignoring it
// when only whitespace is left.
func appendContent(body []string, fragment string) []string {
	if strings.TrimSpace(fragment) == "" {
		return body
	}
	return append(body, fragment)
}

// SectionFromFileName recovers the section encoded in a snippet file name:
// the first run of upper-case words surrounded by spaces, sanitized the same
// way RStudio headers are. Files without one are uncategorized.
func SectionFromFileName(fileName string) string {
	base := strings.TrimSuffix(fileName, model.Sublime.FileSuffix())
	m := sectionPattern.FindStringSubmatch(base)
	if m == nil {
		return model.Uncategorized
	}
	return parser.SanitizeSection(strings.TrimSpace(m[1]))
}
