package model

import (
	"fmt"
	"strings"
)

// ScopeMapping ties one Sublime Text scope to the RStudio snippet files that
// hold the same language.
type ScopeMapping struct {
	Scope string   `yaml:"scope" toml:"scope"`
	Files []string `yaml:"files" toml:"files"`
}

// ScopeMap is the ordered language table that drives recategorization and
// merging. Several scopes may share one RStudio file.
type ScopeMap []ScopeMapping

// Pair is one (Sublime scope, RStudio file) combination.
type Pair struct {
	Scope string
	File  string
}

// DefaultScopeMap returns the built-in table.
func DefaultScopeMap() ScopeMap {
	return ScopeMap{
		{Scope: "source.python", Files: []string{"python.snippets"}},
		{Scope: "source.r", Files: []string{"r.snippets"}},
		{Scope: "text.tex.latex", Files: []string{"tex.snippets"}},
		{Scope: "text.tex", Files: []string{"tex.snippets"}},
	}
}

// Pairs flattens the table in declaration order.
func (m ScopeMap) Pairs() []Pair {
	var pairs []Pair
	for _, mapping := range m {
		for _, file := range mapping.Files {
			pairs = append(pairs, Pair{Scope: mapping.Scope, File: file})
		}
	}
	return pairs
}

// Validate reports empty scopes, empty file names and duplicate scopes.
func (m ScopeMap) Validate() error {
	seen := make(map[string]bool, len(m))
	for i, mapping := range m {
		scope := strings.TrimSpace(mapping.Scope)
		if scope == "" {
			return fmt.Errorf("scope mapping %d: empty scope", i)
		}
		if seen[scope] {
			return fmt.Errorf("scope mapping %d: duplicate scope %q", i, scope)
		}
		seen[scope] = true
		if len(mapping.Files) == 0 {
			return fmt.Errorf("scope %q: no snippet files", scope)
		}
		for _, file := range mapping.Files {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("scope %q: empty snippet file name", scope)
			}
		}
	}
	return nil
}
