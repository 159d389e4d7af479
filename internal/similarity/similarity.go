// Package similarity finds snippets that are probably duplicates of each
// other: near-identical names, or bodies that differ only by a line or two.
package similarity

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/klauern/snipsync/internal/model"
)

// Kind says what a match compared.
type Kind string

const (
	// KindName means the snippet names are similar.
	KindName Kind = "name"
	// KindContent means the snippet bodies are similar.
	KindContent Kind = "content"
)

// Entry is one snippet of a tree.
type Entry struct {
	Language string
	Section  string
	Name     string
	Body     string
}

// String returns "language/section/name".
func (e Entry) String() string {
	return fmt.Sprintf("%s/%s/%s", e.Language, e.Section, e.Name)
}

// Match is a pair of entries from the same language with their score.
type Match struct {
	First  Entry
	Second Entry
	Kind   Kind
	Score  float64
}

// String renders the match for a report line.
func (m Match) String() string {
	what := "names"
	if m.Kind == KindContent {
		what = "bodies"
	}
	return fmt.Sprintf("%s and %s have similar %s (%.0f%%)", m.First, m.Second, what, m.Score*100)
}

// LogValue implements slog.LogValuer.
func (m Match) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("first", m.First.String()),
		slog.String("second", m.Second.String()),
		slog.String("kind", string(m.Kind)),
		slog.Float64("score", m.Score),
	)
}

// Entries flattens tree into entries sorted by language, section and name.
func Entries(tree model.Tree) []Entry {
	var entries []Entry
	for _, language := range tree.Languages() {
		for _, section := range tree.Sections(language) {
			for _, name := range tree.Names(language, section) {
				body, _ := tree.Get(language, section, name)
				entries = append(entries, Entry{Language: language, Section: section, Name: name, Body: body})
			}
		}
	}
	return entries
}

// Options holds the score thresholds for Find. Zero values use the defaults.
type Options struct {
	NameThreshold float64
	BodyThreshold float64
}

// DefaultOptions returns the thresholds the check command uses.
func DefaultOptions() Options {
	return Options{
		NameThreshold: DefaultNameThreshold,
		BodyThreshold: DefaultBodyThreshold,
	}
}

// Find runs both matchers over tree. Content matches come first; a pair
// already reported for its content is not reported again for its name.
func Find(tree model.Tree, opts Options) []Match {
	entries := Entries(tree)
	matches := FindSimilarBodies(entries, opts.BodyThreshold)

	seen := make(map[[2]Entry]struct{}, len(matches))
	for _, m := range matches {
		seen[[2]Entry{m.First, m.Second}] = struct{}{}
	}
	for _, m := range FindSimilarNames(entries, opts.NameThreshold) {
		if _, ok := seen[[2]Entry{m.First, m.Second}]; ok {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// pairs compares every two entries of the same language. entries must be
// grouped by language, as Entries returns them.
func pairs(entries []Entry, kind Kind, threshold float64, score func(a, b Entry) float64) []Match {
	var matches []Match
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].Language == entries[start].Language {
			end++
		}
		group := entries[start:end]
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				if s := score(group[i], group[j]); s >= threshold {
					matches = append(matches, Match{First: group[i], Second: group[j], Kind: kind, Score: s})
				}
			}
		}
		start = end
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	return matches
}
