package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/config"
	"github.com/klauern/snipsync/internal/detector"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/ui"
	"github.com/klauern/snipsync/internal/util"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Display the resolved configuration and scope table",
		Action: showConfig,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Display the resolved configuration and scope table",
				Action: showConfig,
			},
			configInitCommand(),
		},
	}
}

func showConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.Header("Config file:"), cfg.Path)
	_, _ = fmt.Fprintf(w, "  %-22s %s\n", config.KeySublimePath, cfg.SublimePath)
	_, _ = fmt.Fprintf(w, "  %-22s %s\n", config.KeyRStudioPath, cfg.RStudioPath)
	_, _ = fmt.Fprintf(w, "  %-22s %s\n", config.KeyBackupPath, cfg.BackupPath)
	_, _ = fmt.Fprintf(w, "  %-22s %d\n", config.KeyBackupKeep, cfg.BackupKeep)

	source := "built-in"
	if cfg.ScopeMapPath != "" {
		source = cfg.ScopeMapPath
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.Header("Scopes:"), ui.Dim(source))
	for _, mapping := range cfg.Scopes {
		_, _ = fmt.Fprintf(w, "  %-22s %s\n", mapping.Scope, strings.Join(mapping.Files, ", "))
	}
	return nil
}

func configInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sublime",
				Usage: "Sublime Text snippets directory (default: detected)",
			},
			&cli.StringFlag{
				Name:  "rstudio",
				Usage: "RStudio snippets directory (default: detected)",
			},
			&cli.StringFlag{
				Name:  "backup-dir",
				Usage: "Backup directory (default: backups next to the config file)",
			},
			&cli.IntFlag{
				Name:  "keep",
				Usage: "Snapshots to keep per editor (0 keeps all)",
				Value: config.DefaultBackupKeep,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := util.ExpandPath(cmd.String("config"), "")
			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			sublimePath, err := snippetsDir(cmd, model.Sublime)
			if err != nil {
				return err
			}
			rstudioPath, err := snippetsDir(cmd, model.RStudio)
			if err != nil {
				return err
			}

			cfg := &config.Config{
				SublimePath: sublimePath,
				RStudioPath: rstudioPath,
				BackupPath:  util.ExpandPath(cmd.String("backup-dir"), ""),
				BackupKeep:  int(cmd.Int("keep")),
			}
			if cfg.BackupPath == "" {
				cfg.BackupPath = util.BackupsPath(path)
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess("wrote "+path))
			return nil
		},
	}
}

// snippetsDir returns the directory given for editor on the command line,
// falling back to the detected one.
func snippetsDir(cmd *cli.Command, editor model.Editor) (string, error) {
	flag := string(editor)
	if path := cmd.String(flag); path != "" {
		return util.ExpandPath(path, ""), nil
	}

	d, ok := detector.Detect(editor)
	if !ok {
		return "", fmt.Errorf("no %s snippets directory found, pass --%s <dir>", editor, flag)
	}
	_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSkipped(fmt.Sprintf("using detected %s directory %s (%s)", editor, d.Path, d.Source)))
	return d.Path, nil
}
