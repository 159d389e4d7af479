// Package cli provides the command-line interface for snipsync.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/snipsync/internal/config"
	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "snipsync",
		Usage: "Keep Sublime Text and RStudio snippet libraries in sync",
		Description: `Reads both snippet directories, files uncategorized snippets under the
   section the other editor uses, merges the two libraries and writes them back.
   Running snipsync without a command performs a sync.`,
		Version: Version,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the dotenv config file",
				Value:   config.DefaultFileName,
				Sources: cli.EnvVars(config.EnvConfigFile),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		}, syncFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			logger := configureLogging(cmd)
			return logging.NewContext(ctx, logger), nil
		},
		Action: runSync,
		Commands: []*cli.Command{
			syncCommand(),
			copyCommand(),
			backupCommand(),
			exportCommand(),
			checkCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// stdout returns the writer commands print to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the writer logs and progress go to.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// configureColors sets up color output based on CLI flags and the terminal.
func configureColors(cmd *cli.Command) {
	ui.ConfigureColors(stdout(cmd), cmd.Bool("no-color"))
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.Output = stderr(cmd)
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))
	return logger
}

// loadConfig reads the config file named by --config and turns the common
// failures into messages that say what to do.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	var missing *config.MissingKeyError
	switch {
	case errors.Is(err, config.ErrNoConfig):
		return nil, fmt.Errorf("%w\n\nCreate one with:\n  snipsync config init --sublime <dir> --rstudio <dir>", err)
	case errors.As(err, &missing):
		return nil, fmt.Errorf("%w\n\nAdd %s=<directory> to %s or set it in the environment", err, missing.Key, missing.Path)
	default:
		return nil, err
	}
}
