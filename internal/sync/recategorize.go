package sync

import (
	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
)

// Move records one snippet leaving the uncategorized section.
type Move struct {
	Editor   model.Editor
	Language string
	Name     string
	Section  string
}

// Recategorize files uncategorized snippets under the section the other
// editor already uses for the same name. Both trees are modified in place.
//
// For each mapped (scope, file) pair the name→section index of both sides is
// snapshotted before either side moves anything, so one direction never sees
// the other direction's moves from the same round. Rounds repeat until
// nothing moves, which makes a second call a no-op.
func Recategorize(sublime, rstudio model.Tree, scopes model.ScopeMap) []Move {
	var moves []Move
	for {
		round := recategorizeRound(sublime, rstudio, scopes)
		if len(round) == 0 {
			break
		}
		moves = append(moves, round...)
	}

	logging.Debug("recategorization finished",
		logging.Operation("recategorize"),
		logging.Count(len(moves)),
	)
	return moves
}

func recategorizeRound(sublime, rstudio model.Tree, scopes model.ScopeMap) []Move {
	var moves []Move
	for _, pair := range scopes.Pairs() {
		sublimeIndex := sublime.CategorizedIndex(pair.Scope)
		rstudioIndex := rstudio.CategorizedIndex(pair.File)

		moves = append(moves, relocate(rstudio, model.RStudio, pair.File, sublimeIndex)...)
		moves = append(moves, relocate(sublime, model.Sublime, pair.Scope, rstudioIndex)...)
	}
	return moves
}

// relocate moves every uncategorized name of language that appears in index
// to the indexed section.
func relocate(tree model.Tree, editor model.Editor, language string, index map[string]string) []Move {
	var moves []Move
	for _, name := range tree.Names(language, model.Uncategorized) {
		section, ok := index[name]
		if !ok {
			continue
		}
		body, _ := tree.Get(language, model.Uncategorized, name)
		tree.Put(language, section, name, body)
		tree.Delete(language, model.Uncategorized, name)

		logging.Info("recategorized snippet",
			logging.Editor(string(editor)),
			logging.Language(language),
			logging.Snippet(name),
			logging.Section(section),
		)
		moves = append(moves, Move{
			Editor:   editor,
			Language: language,
			Name:     name,
			Section:  section,
		})
	}
	return moves
}
