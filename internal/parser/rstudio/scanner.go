package rstudio

import (
	"strings"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
)

// snippetKeyword starts a snippet declaration line.
const snippetKeyword = "snippet"

// scanState is the position of the line scanner within a file.
//
//	state            header              snippet <name>        other text
//	seeking_marker   -> in_section       -> in_snippet_body    ignored
//	in_section       -> in_section       -> in_snippet_body    ignored
//	in_snippet_body  flush, in_section   flush, new snippet    appended to body
//
// Separator banners never change state.
type scanState int

const (
	seekingMarker scanState = iota
	inSection
	inSnippetBody
)

func (s scanState) String() string {
	switch s {
	case seekingMarker:
		return "seeking_marker"
	case inSection:
		return "in_section"
	case inSnippetBody:
		return "in_snippet_body"
	default:
		return "unknown"
	}
}

type lineKind int

const (
	lineText lineKind = iota
	lineSeparator
	lineHeader
	lineSnippet
)

// classify decides what a raw line means and returns its payload: the
// sanitized section label for headers, the snippet name for declarations,
// or the line itself.
func classify(line string) (lineKind, string) {
	if strings.HasPrefix(line, "#") {
		text := strings.TrimSpace(strings.Map(func(r rune) rune {
			switch r {
			case '#', '=', '-':
				return -1
			}
			return r
		}, line))
		section := parser.SanitizeSection(text)
		if section == "" {
			return lineSeparator, ""
		}
		return lineHeader, section
	}

	if rest, ok := strings.CutPrefix(line, snippetKeyword); ok {
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return lineSnippet, strings.TrimSpace(rest)
		}
	}

	return lineText, line
}

type scanner struct {
	language string
	opts     Options

	state   scanState
	section string
	name    string
	body    []string

	sections map[string]model.Section
}

func newScanner(language string, opts Options) *scanner {
	return &scanner{
		language: language,
		opts:     opts,
		state:    seekingMarker,
		sections: make(map[string]model.Section),
	}
}

func (s *scanner) feed(line string) {
	kind, payload := classify(line)

	switch kind {
	case lineSeparator:
		return

	case lineHeader:
		s.flush()
		s.section = payload
		if _, ok := s.sections[payload]; !ok {
			s.sections[payload] = make(model.Section)
		}
		s.state = inSection

	case lineSnippet:
		s.flush()
		if payload == "" {
			logging.Warn("snippet declaration without a name",
				logging.Editor(string(model.RStudio)),
				logging.Language(s.language),
				logging.Section(s.section),
			)
			return
		}
		s.name = payload
		s.body = s.body[:0]
		s.state = inSnippetBody

	case lineText:
		if s.state != inSnippetBody {
			return
		}
		s.body = append(s.body, strings.TrimPrefix(payload, "\t"))
	}
}

// finish handles end of input.
func (s *scanner) finish() {
	if !s.opts.DropTrailing {
		s.flush()
		return
	}
	if s.state == inSnippetBody {
		logging.Warn("trailing snippet not committed at end of file",
			logging.Language(s.language),
			logging.Section(s.section),
			logging.Snippet(s.name),
		)
	}
}

// flush commits the open snippet, if any, and leaves the snippet state.
func (s *scanner) flush() {
	if s.state != inSnippetBody {
		return
	}
	name, section := s.name, s.section
	body := model.NormalizeBody(strings.Join(s.body, "\n"))

	s.name = ""
	s.body = s.body[:0]
	if section == model.Uncategorized {
		s.state = seekingMarker
	} else {
		s.state = inSection
	}

	if section == model.Uncategorized && s.opts.DropUncategorized {
		logging.Debug("snippet outside any section dropped",
			logging.Language(s.language),
			logging.Snippet(name),
		)
		return
	}
	if body == "" {
		logging.Warn("snippet has an empty body, skipping",
			logging.Editor(string(model.RStudio)),
			logging.Language(s.language),
			logging.Section(section),
			logging.Snippet(name),
		)
		return
	}

	sec, ok := s.sections[section]
	if !ok {
		sec = make(model.Section)
		s.sections[section] = sec
	}
	sec[name] = body

	logging.Debug("read snippet",
		logging.Editor(string(model.RStudio)),
		logging.Language(s.language),
		logging.Section(section),
		logging.Snippet(name),
	)
}
