package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/backup"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/ui"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Inspect the backups taken before each sync",
		Commands: []*cli.Command{
			backupListCommand(),
			backupVerifyCommand(),
		},
	}
}

func backupListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List snapshots, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "editor",
				Usage: "Only show backups for one editor (sublime, rstudio)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include raw file copies as well as snapshots",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			editor := ""
			if v := cmd.String("editor"); v != "" {
				e, err := model.ParseEditor(v)
				if err != nil {
					return err
				}
				editor = string(e)
			}
			kind := backup.KindSnapshot
			if cmd.Bool("all") {
				kind = ""
			}

			backups, err := backup.NewStore(cfg.BackupPath).List(editor, kind)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			w := stdout(cmd)
			if len(backups) == 0 {
				_, _ = fmt.Fprintf(w, "No backups in %s\n", cfg.BackupPath)
				return nil
			}

			_, _ = fmt.Fprintf(w, "%-44s %-8s %-8s %-19s %8s %s\n", "ID", "KIND", "EDITOR", "CREATED", "SNIPPETS", "PATH")
			_, _ = fmt.Fprintf(w, "%-44s %-8s %-8s %-19s %8s %s\n", "--", "----", "------", "-------", "--------", "----")
			for _, b := range backups {
				snippets := "-"
				if b.Kind == backup.KindSnapshot {
					snippets = fmt.Sprintf("%d", b.Snippets)
				}
				_, _ = fmt.Fprintf(w, "%-44s %-8s %-8s %-19s %8s %s\n",
					b.ID, b.Kind, b.Editor, b.CreatedAt.Format("2006-01-02 15:04:05"), snippets, ui.Dim(b.BackupPath))
			}
			return nil
		},
	}
}

func backupVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that a backup file still matches its recorded hash",
		ArgsUsage: "<id>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("verify requires exactly 1 argument: <id>")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			id := cmd.Args().First()
			if err := backup.NewStore(cfg.BackupPath).Verify(id); err != nil {
				_, _ = fmt.Fprintln(stdout(cmd), ui.StatusError(id))
				return err
			}
			_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess(id+" is intact"))
			return nil
		},
	}
}
