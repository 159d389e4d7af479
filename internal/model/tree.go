// Package model defines the format-neutral snippet tree shared by the
// Sublime Text and RStudio readers, the reconciler and the writers.
package model

import (
	"slices"
	"strings"
)

// Uncategorized is the section key for snippets without a section.
const Uncategorized = ""

// Section maps a snippet name to its body.
type Section map[string]string

// Tree maps language → section → name → body.
type Tree map[string]map[string]Section

// Key identifies a snippet within one language.
type Key struct {
	Section string
	Name    string
}

// NewTree returns an empty tree.
func NewTree() Tree {
	return make(Tree)
}

// EnsureLanguage returns the section map for language, creating it if absent.
func (t Tree) EnsureLanguage(language string) map[string]Section {
	sections, ok := t[language]
	if !ok {
		sections = make(map[string]Section)
		t[language] = sections
	}
	return sections
}

// EnsurePath returns the live section map for (language, section), creating
// any missing level. Calling it repeatedly returns the same map.
func (t Tree) EnsurePath(language, section string) Section {
	sections := t.EnsureLanguage(language)
	s, ok := sections[section]
	if !ok {
		s = make(Section)
		sections[section] = s
	}
	return s
}

// Put stores body under (language, section, name).
func (t Tree) Put(language, section, name, body string) {
	t.EnsurePath(language, section)[name] = body
}

// Get returns the body stored under (language, section, name).
func (t Tree) Get(language, section, name string) (string, bool) {
	body, ok := t[language][section][name]
	return body, ok
}

// Delete removes (language, section, name). Empty maps are left in place;
// call Prune to drop them.
func (t Tree) Delete(language, section, name string) {
	if s, ok := t[language][section]; ok {
		delete(s, name)
	}
}

// Languages returns the language keys in sorted order.
func (t Tree) Languages() []string {
	return sortedKeys(t)
}

// Sections returns the section keys of language in sorted order.
// The uncategorized section, when present, sorts first.
func (t Tree) Sections(language string) []string {
	return sortedKeys(t[language])
}

// Names returns the snippet names of (language, section) in sorted order.
func (t Tree) Names(language, section string) []string {
	return sortedKeys(t[language][section])
}

// FindSection returns the first categorized section of language that holds
// name. Sections are searched in sorted order.
func (t Tree) FindSection(language, name string) (string, bool) {
	for _, section := range t.Sections(language) {
		if section == Uncategorized {
			continue
		}
		if _, ok := t[language][section][name]; ok {
			return section, true
		}
	}
	return "", false
}

// CategorizedIndex maps every name filed under a non-empty section of
// language to that section. When a name appears in several sections the
// alphabetically first wins. The result is a snapshot and is not affected by
// later mutations of t.
func (t Tree) CategorizedIndex(language string) map[string]string {
	index := make(map[string]string)
	sections := t.Sections(language)
	for i := len(sections) - 1; i >= 0; i-- {
		section := sections[i]
		if section == Uncategorized {
			continue
		}
		for name := range t[language][section] {
			index[name] = section
		}
	}
	return index
}

// Keys returns the set of (section, name) pairs stored under language.
func (t Tree) Keys(language string) map[Key]struct{} {
	keys := make(map[Key]struct{})
	for section, names := range t[language] {
		for name := range names {
			keys[Key{Section: section, Name: name}] = struct{}{}
		}
	}
	return keys
}

// Len returns the total number of snippets in the tree.
func (t Tree) Len() int {
	n := 0
	for _, sections := range t {
		for _, s := range sections {
			n += len(s)
		}
	}
	return n
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for language, sections := range t {
		out[language] = make(map[string]Section, len(sections))
		for section, names := range sections {
			cp := make(Section, len(names))
			for name, body := range names {
				cp[name] = body
			}
			out[language][section] = cp
		}
	}
	return out
}

// Prune removes empty sections. Languages are kept even when empty, since
// an empty snippet file is still a language the editor knows about.
func (t Tree) Prune() {
	for _, sections := range t {
		for section, names := range sections {
			if len(names) == 0 {
				delete(sections, section)
			}
		}
	}
}

// NormalizeBody strips leading blank lines and trailing whitespace from a
// snippet body. Interior lines and indentation are kept as-is.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimRight(body, " \t\n")
	for {
		line, rest, found := strings.Cut(body, "\n")
		if strings.TrimSpace(line) != "" {
			return body
		}
		if !found {
			return ""
		}
		body = rest
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
