// Package export renders snippet trees as JSON, YAML or Markdown for
// inspection and sharing.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
)

// Format represents the output format for exported snippets.
type Format string

const (
	// FormatJSON exports snippets as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports snippets as YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown exports snippets as Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "md" {
		format = FormatMarkdown
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: json, yaml, markdown)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Editor is recorded on every exported snippet.
	Editor model.Editor
	// Language filters snippets by language key (empty means all).
	Language string
}

// Snippet is the flattened form of one tree entry.
type Snippet struct {
	Editor   string `json:"editor" yaml:"editor"`
	Language string `json:"language" yaml:"language"`
	Section  string `json:"section,omitempty" yaml:"section,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Body     string `json:"body" yaml:"body"`
}

// Flatten lists the snippets of tree in language, section, name order.
func Flatten(tree model.Tree, editor model.Editor, language string) []Snippet {
	var out []Snippet
	for _, lang := range tree.Languages() {
		if language != "" && lang != language {
			continue
		}
		for _, section := range tree.Sections(lang) {
			for _, name := range tree.Names(lang, section) {
				body, _ := tree.Get(lang, section, name)
				out = append(out, Snippet{
					Editor:   string(editor),
					Language: lang,
					Section:  section,
					Name:     name,
					Body:     body,
				})
			}
		}
	}
	return out
}

// Export writes tree to w in the configured format.
func Export(tree model.Tree, w io.Writer, opts Options) error {
	snippets := Flatten(tree, opts.Editor, opts.Language)

	logging.Debug("starting export",
		slog.String("format", string(opts.Format)),
		logging.Editor(string(opts.Editor)),
		logging.Count(len(snippets)),
		logging.Operation("export"),
	)

	var err error
	switch opts.Format {
	case FormatJSON:
		err = exportJSON(snippets, w)
	case FormatYAML:
		err = exportYAML(snippets, w)
	case FormatMarkdown:
		err = exportMarkdown(snippets, w)
	default:
		err = fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logging.Info("export completed",
		slog.String("format", string(opts.Format)),
		logging.Count(len(snippets)),
	)
	return nil
}

func exportJSON(snippets []Snippet, w io.Writer) error {
	if snippets == nil {
		snippets = []Snippet{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snippets)
}

func exportYAML(snippets []Snippet, w io.Writer) error {
	if snippets == nil {
		snippets = []Snippet{}
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(snippets); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func exportMarkdown(snippets []Snippet, w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("# Exported Snippets\n\n")
	sb.WriteString(fmt.Sprintf("Total: %d snippet(s)\n", len(snippets)))

	language, section := "", "\x00"
	for _, s := range snippets {
		if s.Language != language {
			language, section = s.Language, "\x00"
			sb.WriteString(fmt.Sprintf("\n## %s\n", s.Language))
		}
		if s.Section != section {
			section = s.Section
			title := section
			if title == model.Uncategorized {
				title = "Uncategorized"
			}
			sb.WriteString(fmt.Sprintf("\n### %s\n", title))
		}
		sb.WriteString(fmt.Sprintf("\n`%s`\n\n```\n%s\n```\n", s.Name, s.Body))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
