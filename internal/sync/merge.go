package sync

import (
	"slices"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
)

// ChangeKind describes what a merge did to one snippet.
type ChangeKind string

const (
	// ChangeAdded means the snippet was missing on that side and was copied in.
	ChangeAdded ChangeKind = "added"
	// ChangeReplaced means both sides held the name with different bodies
	// and the RStudio body overwrote the Sublime Text one.
	ChangeReplaced ChangeKind = "replaced"
)

// Change records one snippet written into one side by Merge.
type Change struct {
	Editor   model.Editor
	Language string
	Section  string
	Name     string
	Kind     ChangeKind
}

// Merge makes both trees hold the union of each mapped pair's snippets,
// section by section. Both trees are modified in place.
//
// For each section the Sublime Text side is first updated from RStudio and
// RStudio is then updated from the merged Sublime Text section. When both
// sides define a name with different bodies the RStudio body therefore wins
// on both sides; such snippets are reported as ChangeReplaced.
func Merge(sublime, rstudio model.Tree, scopes model.ScopeMap) []Change {
	var changes []Change
	for _, pair := range scopes.Pairs() {
		sublimeSections := sublime.EnsureLanguage(pair.Scope)
		rstudioSections := rstudio.EnsureLanguage(pair.File)

		for _, section := range unionKeys(sublimeSections, rstudioSections) {
			s := sublime.EnsurePath(pair.Scope, section)
			r := rstudio.EnsurePath(pair.File, section)

			changes = append(changes, update(s, r, model.Sublime, pair.Scope, section)...)
			changes = append(changes, update(r, s, model.RStudio, pair.File, section)...)
		}

		logging.Debug("merged language pair",
			logging.Operation("merge"),
			logging.Language(pair.Scope),
			logging.Path(pair.File),
		)
	}
	return changes
}

// update copies every entry of src into dst and reports what changed in dst.
func update(dst, src model.Section, editor model.Editor, language, section string) []Change {
	var changes []Change
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		body := src[name]
		old, exists := dst[name]
		if exists && old == body {
			continue
		}
		kind := ChangeAdded
		if exists {
			kind = ChangeReplaced
		}
		dst[name] = body

		logging.Debug("merged snippet",
			logging.Editor(string(editor)),
			logging.Language(language),
			logging.Section(section),
			logging.Snippet(name),
			logging.Operation(string(kind)),
		)
		changes = append(changes, Change{
			Editor:   editor,
			Language: language,
			Section:  section,
			Name:     name,
			Kind:     kind,
		})
	}
	return changes
}

func unionKeys(a, b map[string]model.Section) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
