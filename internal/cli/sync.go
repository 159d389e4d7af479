package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/parser/rstudio"
	"github.com/klauern/snipsync/internal/progress"
	"github.com/klauern/snipsync/internal/sync"
	"github.com/klauern/snipsync/internal/ui"
)

// syncFlags are shared by the root command and "sync", since a bare
// "snipsync" runs a sync.
func syncFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"d"},
			Usage:   "Preview changes without modifying files",
		},
		&cli.BoolFlag{
			Name:  "skip-backup",
			Usage: "Skip the backup taken before files are rewritten",
		},
		&cli.BoolFlag{
			Name:  "drop-trailing",
			Usage: "Ignore the last snippet of each RStudio file, as the old sync script did (sync then deletes it)",
		},
		&cli.BoolFlag{
			Name:  "drop-uncategorized",
			Usage: "Ignore RStudio snippets that appear before the first section header (sync then deletes them)",
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Reconcile the Sublime Text and RStudio snippet libraries",
		UsageText: "snipsync sync [options]",
		Description: `Recategorize, merge and write both snippet libraries.

   When both editors define a snippet with different bodies, the RStudio body
   wins. Both directories are backed up before anything is written.

   Examples:
     snipsync sync
     snipsync sync --dry-run
     snipsync --config ~/snippets/config.env sync --skip-backup`,
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command %q", cmd.Args().First())
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	bar := progress.New(progress.Options{
		Max:         -1,
		Description: "Syncing snippets",
		Writer:      stderr(cmd),
	})

	opts := sync.Options{
		SublimePath: cfg.SublimePath,
		RStudioPath: cfg.RStudioPath,
		BackupPath:  cfg.BackupPath,
		BackupKeep:  cfg.BackupKeep,
		Scopes:      cfg.Scopes,
		RStudio:     rstudioOptions(cmd),
		DryRun:      cmd.Bool("dry-run"),
		SkipBackup:  cmd.Bool("skip-backup"),
		Progress: func(event sync.ProgressEvent) error {
			if event.Path != "" {
				return bar.Add(1)
			}
			bar.Describe(fmt.Sprintf("Syncing snippets (%s)", event.Phase))
			return nil
		},
	}

	result, err := sync.Reconcile(ctx, opts)
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printResult(stdout(cmd), result, cmd.Bool("verbose") || cmd.Bool("debug"))
	return nil
}

// printResult writes the outcome of a run. Individual changes are listed for
// dry runs and in verbose mode.
func printResult(w io.Writer, result *sync.Result, verbose bool) {
	if result.DryRun || verbose {
		if len(result.Moves) > 0 {
			_, _ = fmt.Fprintln(w, ui.Header("Recategorized:"))
			for _, m := range result.Moves {
				_, _ = fmt.Fprintf(w, "  %s\n", ui.StatusMoved(m.String()))
			}
		}
		if len(result.Changes) > 0 {
			_, _ = fmt.Fprintln(w, ui.Header("Merged:"))
			for _, c := range result.Changes {
				if c.Kind == sync.ChangeReplaced {
					_, _ = fmt.Fprintf(w, "  %s\n", ui.StatusChanged(c.String()))
					continue
				}
				_, _ = fmt.Fprintf(w, "  %s\n", ui.StatusAdded(c.String()))
			}
		}
		if verbose && len(result.Written) > 0 {
			_, _ = fmt.Fprintln(w, ui.Header("Written:"))
			for _, path := range result.Written {
				_, _ = fmt.Fprintf(w, "  %s\n", ui.Dim(path))
			}
		}
	}

	if n := len(result.Replaced()); n > 0 && !result.DryRun {
		_, _ = fmt.Fprintln(w, ui.StatusWarning(fmt.Sprintf("%d Sublime Text snippet bodies replaced by RStudio versions", n)))
	}
	if len(result.PrunedBackups) > 0 {
		_, _ = fmt.Fprintln(w, ui.StatusSkipped(fmt.Sprintf("removed %d old snapshot(s)", len(result.PrunedBackups))))
	}
	_, _ = fmt.Fprintln(w, ui.StatusSuccess(result.Summary()))
}

// rstudioOptions maps the reader flags onto rstudio.Options.
func rstudioOptions(cmd *cli.Command) rstudio.Options {
	return rstudio.Options{
		DropTrailing:      cmd.Bool("drop-trailing"),
		DropUncategorized: cmd.Bool("drop-uncategorized"),
	}
}
