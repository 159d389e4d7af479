package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/klauern/snipsync/internal/backup"
	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
	"github.com/klauern/snipsync/internal/parser/rstudio"
	"github.com/klauern/snipsync/internal/parser/sublime"
)

// Phase names one step of a reconciliation run.
type Phase string

// Reconciliation phases, in the order they run.
const (
	PhaseRead         Phase = "read"
	PhaseRecategorize Phase = "recategorize"
	PhaseMerge        Phase = "merge"
	PhaseBackup       Phase = "backup"
	PhaseWrite        Phase = "write"
)

// ProgressEvent is reported to Options.Progress while a run advances.
type ProgressEvent struct {
	Phase Phase
	// Path is set for PhaseWrite events, one per file written.
	Path string
}

// ProgressCallback receives progress events. Returning an error cancels the run.
type ProgressCallback func(event ProgressEvent) error

// Options configures a reconciliation run.
type Options struct {
	// SublimePath is the Sublime Text snippets directory.
	SublimePath string
	// RStudioPath is the RStudio snippets directory.
	RStudioPath string
	// BackupPath is where snapshots and raw file copies are stored.
	BackupPath string
	// BackupKeep is the number of snapshots kept per editor. 0 keeps all.
	BackupKeep int
	// Scopes maps Sublime Text scopes to RStudio files. Nil uses the default table.
	Scopes model.ScopeMap
	// RStudio tunes the RStudio reader.
	RStudio rstudio.Options
	// DryRun reads, recategorizes and merges but writes nothing.
	DryRun bool
	// SkipBackup writes without taking snapshots or file copies first.
	SkipBackup bool
	// Progress, when set, is told about each phase and each written file.
	Progress ProgressCallback
}

// ErrMissingPath is returned when a snippets directory is not configured.
var ErrMissingPath = errors.New("snippets path is required")

// Reconcile reads both snippet libraries, files uncategorized snippets under
// the other editor's sections, merges the two trees and writes the result
// back in both formats. Backups are taken before anything is overwritten.
func Reconcile(ctx context.Context, opts Options) (*Result, error) {
	if opts.SublimePath == "" || opts.RStudioPath == "" {
		return nil, ErrMissingPath
	}
	if opts.Scopes == nil {
		opts.Scopes = model.DefaultScopeMap()
	}
	if err := opts.Scopes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scope map: %w", err)
	}

	log := logging.FromContext(ctx)
	log.Debug("starting reconciliation",
		logging.Operation("sync"),
		slog.String("sublime", opts.SublimePath),
		slog.String("rstudio", opts.RStudioPath),
		slog.Bool("dry_run", opts.DryRun),
	)

	result := &Result{DryRun: opts.DryRun}
	r := &run{ctx: ctx, opts: opts}

	if err := r.step(PhaseRead); err != nil {
		return result, err
	}
	sublimeTree, err := sublime.New(opts.SublimePath).Parse()
	if err != nil {
		return result, fmt.Errorf("failed to read sublime snippets: %w", err)
	}
	rstudioTree, err := rstudio.New(opts.RStudioPath, opts.RStudio).Parse()
	if err != nil {
		return result, fmt.Errorf("failed to read rstudio snippets: %w", err)
	}
	log.Info("read snippets",
		slog.Int(string(model.Sublime), sublimeTree.Len()),
		slog.Int(string(model.RStudio), rstudioTree.Len()),
	)

	if err := r.step(PhaseRecategorize); err != nil {
		return result, err
	}
	result.Moves = Recategorize(sublimeTree, rstudioTree, opts.Scopes)

	if err := r.step(PhaseMerge); err != nil {
		return result, err
	}
	result.Changes = Merge(sublimeTree, rstudioTree, opts.Scopes)
	result.Sublime = sublimeTree
	result.RStudio = rstudioTree

	if opts.DryRun {
		log.Info("dry run, nothing written",
			logging.Count(len(result.Moves)+len(result.Changes)),
		)
		return result, nil
	}

	if !opts.SkipBackup {
		if err := r.step(PhaseBackup); err != nil {
			return result, err
		}
		if err := r.backup(result); err != nil {
			return result, err
		}
	}

	if err := r.step(PhaseWrite); err != nil {
		return result, err
	}
	if err := r.write(result); err != nil {
		return result, err
	}

	log.Info("reconciliation complete",
		logging.Operation("sync"),
		slog.Int("moves", len(result.Moves)),
		slog.Int("changes", len(result.Changes)),
		slog.Int("written", len(result.Written)),
	)
	return result, nil
}

type run struct {
	ctx  context.Context
	opts Options
}

// step checks for cancellation and reports the phase.
func (r *run) step(phase Phase) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	return r.report(ProgressEvent{Phase: phase})
}

func (r *run) report(event ProgressEvent) error {
	if r.opts.Progress == nil {
		return nil
	}
	if err := r.opts.Progress(event); err != nil {
		return fmt.Errorf("sync cancelled: %w", err)
	}
	return nil
}

// backup copies both directories' current files and snapshots the merged
// trees, then trims old snapshots.
func (r *run) backup(result *Result) error {
	store := backup.NewStore(r.opts.BackupPath)

	for _, side := range []struct {
		editor model.Editor
		dir    string
		tree   model.Tree
	}{
		{model.RStudio, r.opts.RStudioPath, result.RStudio},
		{model.Sublime, r.opts.SublimePath, result.Sublime},
	} {
		copied, err := store.CopyFiles(side.editor, side.dir, side.editor.FileSuffix())
		if err != nil {
			return fmt.Errorf("failed to back up %s files: %w", side.editor, err)
		}
		result.Backups = append(result.Backups, copied...)

		meta, err := store.Snapshot(side.editor, side.dir, side.tree)
		if err != nil {
			return fmt.Errorf("failed to snapshot %s snippets: %w", side.editor, err)
		}
		result.Backups = append(result.Backups, *meta)
	}

	pruned, err := store.Cleanup(r.opts.BackupKeep)
	if err != nil {
		// Old snapshots lingering is not worth aborting the write for.
		logging.Warn("failed to remove old snapshots", logging.Err(err))
	}
	result.PrunedBackups = pruned
	return nil
}

func (r *run) write(result *Result) error {
	var progressErr error
	onWrite := func(path string) {
		if progressErr == nil {
			progressErr = r.report(ProgressEvent{Phase: PhaseWrite, Path: path})
		}
	}

	sw := sublime.NewWriter(r.opts.SublimePath)
	sw.OnWrite = onWrite
	rw := rstudio.NewWriter(r.opts.RStudioPath)
	rw.OnWrite = onWrite

	for _, side := range []struct {
		writer parser.Writer
		tree   model.Tree
	}{
		{sw, result.Sublime},
		{rw, result.RStudio},
	} {
		written, err := side.writer.Write(side.tree)
		result.Written = append(result.Written, written...)
		if err != nil {
			return fmt.Errorf("failed to write %s snippets: %w", side.writer.Editor(), err)
		}
	}
	return progressErr
}
