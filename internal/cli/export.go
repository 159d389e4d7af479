package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/backup"
	"github.com/klauern/snipsync/internal/config"
	"github.com/klauern/snipsync/internal/export"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
	"github.com/klauern/snipsync/internal/parser/rstudio"
	"github.com/klauern/snipsync/internal/parser/sublime"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export one editor's snippets as JSON, YAML or Markdown",
		UsageText: `snipsync export [--editor sublime|rstudio] [--format json|yaml|markdown]
     snipsync export --snapshot <backup-id> --format markdown`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "editor",
				Aliases: []string{"e"},
				Usage:   "Editor to export (sublime, rstudio)",
				Value:   string(model.RStudio),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, yaml, markdown)",
				Value:   string(export.FormatJSON),
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Only export one language key, e.g. r.snippets or source.r",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Export a backup snapshot by ID instead of the live directory",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: runExport,
	}
}

func runExport(_ context.Context, cmd *cli.Command) error {
	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	editor, tree, err := exportSource(cmd, cfg)
	if err != nil {
		return err
	}

	var w io.Writer = stdout(cmd)
	if path := cmd.String("output"); path != "" {
		// #nosec G304 - output path is provided by the user
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return export.Export(tree, w, export.Options{
		Format:   format,
		Editor:   editor,
		Language: cmd.String("language"),
	})
}

// exportSource reads the tree named by --snapshot, or the live directory of
// --editor when no snapshot is given.
func exportSource(cmd *cli.Command, cfg *config.Config) (model.Editor, model.Tree, error) {
	if id := cmd.String("snapshot"); id != "" {
		meta, tree, err := backup.NewStore(cfg.BackupPath).LoadSnapshot(id)
		if err != nil {
			return "", nil, err
		}
		return model.Editor(meta.Editor), tree, nil
	}

	editor, err := model.ParseEditor(cmd.String("editor"))
	if err != nil {
		return "", nil, err
	}

	tree, err := readTree(cmd, cfg, editor)
	if err != nil {
		return "", nil, err
	}
	return editor, tree, nil
}

// readTree parses the live snippet directory of editor. The RStudio reader
// honours the root --drop-trailing and --drop-uncategorized flags.
func readTree(cmd *cli.Command, cfg *config.Config, editor model.Editor) (model.Tree, error) {
	var p parser.Parser
	switch editor {
	case model.Sublime:
		p = sublime.New(cfg.SublimePath)
	default:
		p = rstudio.New(cfg.RStudioPath, rstudioOptions(cmd))
	}
	tree, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s snippets: %w", editor, err)
	}
	return tree, nil
}
