package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/transfer"
	"github.com/klauern/snipsync/internal/ui"
)

func copyCommand() *cli.Command {
	localFlag := &cli.StringFlag{
		Name:    "local",
		Aliases: []string{"l"},
		Usage:   "Local directory holding .snippets files",
		Value:   ".",
	}

	return &cli.Command{
		Name:  "copy",
		Usage: "Copy RStudio snippet files to or from a local directory",
		Description: `Copies *.snippets files without parsing them. A file that would be
   overwritten is first moved into a "backups" directory next to it.`,
		Commands: []*cli.Command{
			{
				Name:  "to-rstudio",
				Usage: "Copy local .snippets files into the RStudio snippets directory",
				Flags: []cli.Flag{localFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return runCopy(cmd, cmd.String("local"), cfg.RStudioPath)
				},
			},
			{
				Name:  "from-rstudio",
				Usage: "Copy the RStudio snippets directory's .snippets files into a local directory",
				Flags: []cli.Flag{localFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return runCopy(cmd, cfg.RStudioPath, cmd.String("local"))
				},
			},
		},
	}
}

func runCopy(cmd *cli.Command, src, dst string) error {
	copied, err := transfer.Copy(src, dst, model.RStudio.FileSuffix(), filepath.Join(dst, transfer.BackupDirName))
	w := stdout(cmd)
	for _, c := range copied {
		_, _ = fmt.Fprintln(w, ui.StatusSuccess(fmt.Sprintf("copied %s", filepath.Base(c.Source))))
		if c.BackedUp != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", ui.Dim("previous version saved to "+c.BackedUp))
		}
	}
	if err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	if len(copied) == 0 {
		_, _ = fmt.Fprintln(w, ui.StatusSkipped(fmt.Sprintf("no %s files in %s", model.RStudio.FileSuffix(), src)))
	}
	return nil
}
