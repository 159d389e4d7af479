package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/similarity"
	"github.com/klauern/snipsync/internal/ui"
	"github.com/klauern/snipsync/internal/validation"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check the snippet directories and libraries for problems",
		Description: `Verifies that both snippet directories exist and are writable, then reads
   them and reports snippet names the writers cannot round-trip, languages
   missing from the scope table and names filed under several sections.
   Likely duplicates are listed for information only. Exits non-zero when
   any error is found.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-similar",
				Usage: "Skip the search for similar snippets",
			},
		},
		Action: runCheck,
	}
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result := validation.ValidateDirs(cfg.SublimePath, cfg.RStudioPath, cfg.BackupPath, validation.DefaultOptions())
	var similar []string
	if !result.HasErrors() {
		for _, editor := range []model.Editor{model.Sublime, model.RStudio} {
			tree, err := readTree(cmd, cfg, editor)
			if err != nil {
				return err
			}
			result.Merge(validation.ValidateTree(editor, tree, cfg.Scopes))

			if cmd.Bool("no-similar") {
				continue
			}
			for _, m := range similarity.Find(tree, similarity.DefaultOptions()) {
				logging.Debug("similar snippets", "match", m)
				similar = append(similar, fmt.Sprintf("%s: %s", editor, m))
			}
		}
	}

	w := stdout(cmd)
	for _, err := range result.Errors {
		_, _ = fmt.Fprintln(w, ui.StatusError(err.Error()))
	}
	for _, msg := range result.Warnings {
		_, _ = fmt.Fprintln(w, ui.StatusWarning(msg))
	}
	if len(similar) > 0 {
		_, _ = fmt.Fprintln(w, ui.Header("Possible duplicates:"))
		for _, msg := range similar {
			_, _ = fmt.Fprintf(w, "  %s\n", msg)
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("check failed: %s", result.Summary())
	}
	_, _ = fmt.Fprintln(w, ui.StatusSuccess(result.Summary()))
	return nil
}
