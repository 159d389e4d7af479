package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/snipsync/internal/backup"
	"github.com/klauern/snipsync/internal/model"
)

// Result contains the complete outcome of a reconciliation run.
type Result struct {
	// Moves lists snippets that left the uncategorized section.
	Moves []Move

	// Changes lists every snippet added to or replaced in either tree.
	Changes []Change

	// Written lists the snippet files written, Sublime Text first.
	Written []string

	// Backups lists the snapshots and file copies taken before writing.
	Backups []backup.Metadata

	// PrunedBackups lists the IDs of old snapshots removed by retention.
	PrunedBackups []string

	// Sublime and RStudio are the merged trees.
	Sublime model.Tree
	RStudio model.Tree

	// DryRun indicates if this was a dry run (no changes made).
	DryRun bool
}

// ChangesFor returns changes made to one editor's tree.
func (r *Result) ChangesFor(editor model.Editor) []Change {
	return r.filter(func(c Change) bool { return c.Editor == editor })
}

// Added returns snippets that were missing on one side and copied in.
func (r *Result) Added() []Change {
	return r.filter(func(c Change) bool { return c.Kind == ChangeAdded })
}

// Replaced returns snippets whose Sublime Text body was overwritten by a
// different RStudio body.
func (r *Result) Replaced() []Change {
	return r.filter(func(c Change) bool { return c.Kind == ChangeReplaced })
}

// HasChanges reports whether the run moved, added or replaced anything.
func (r *Result) HasChanges() bool {
	return len(r.Moves) > 0 || len(r.Changes) > 0
}

func (r *Result) filter(keep func(Change) bool) []Change {
	var out []Change
	for _, c := range r.Changes {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	var parts []string
	if n := len(r.Moves); n > 0 {
		parts = append(parts, fmt.Sprintf("%d recategorized", n))
	}
	if n := len(r.Added()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(r.Replaced()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d replaced", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "already in sync")
	}

	summary := strings.Join(parts, ", ")
	if r.DryRun {
		return "[dry run] " + summary
	}
	return fmt.Sprintf("%s; %d files written", summary, len(r.Written))
}

// String renders a change as "editor language/section/name (kind)".
func (c Change) String() string {
	section := c.Section
	if section == model.Uncategorized {
		section = "(uncategorized)"
	}
	return fmt.Sprintf("%s %s/%s/%s (%s)", c.Editor, c.Language, section, c.Name, c.Kind)
}

// String renders a move as "editor language: name -> section".
func (m Move) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", m.Editor, m.Language, m.Name, m.Section)
}
