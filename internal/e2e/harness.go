// Package e2e runs the snipsync CLI in-process against isolated snippet
// directories for end-to-end tests.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/snipsync/internal/cli"
	"github.com/klauern/snipsync/internal/config"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured logs and progress output.
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness owns an isolated HOME holding a Sublime Text directory, an
// RStudio directory and a config file pointing at both.
type Harness struct {
	t       *testing.T
	homeDir string
}

// NewHarness creates the directories and config file and points HOME and
// SNIPSYNC_CONFIG at them for the duration of the test.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{t: t, homeDir: t.TempDir()}
	t.Setenv("HOME", h.homeDir)
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{config.KeySublimePath, config.KeyRStudioPath, config.KeyBackupPath, config.KeyBackupKeep, config.KeyScopeMap} {
		t.Setenv(key, "")
	}
	t.Setenv(config.EnvConfigFile, h.ConfigPath())

	for _, dir := range []string{h.SublimeDir(), h.RStudioDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	cfg := &config.Config{
		SublimePath: h.SublimeDir(),
		RStudioPath: h.RStudioDir(),
		BackupPath:  h.BackupDir(),
		BackupKeep:  config.DefaultBackupKeep,
	}
	if err := cfg.Save(h.ConfigPath()); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return h
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ConfigPath returns the config file the harness wrote.
func (h *Harness) ConfigPath() string {
	return filepath.Join(h.homeDir, "snipsync", config.DefaultFileName)
}

// SublimeDir returns the Sublime Text snippets directory.
func (h *Harness) SublimeDir() string {
	return filepath.Join(h.homeDir, "sublime", "User")
}

// RStudioDir returns the RStudio snippets directory.
func (h *Harness) RStudioDir() string {
	return filepath.Join(h.homeDir, ".config", "rstudio", "snippets")
}

// BackupDir returns the backup directory named in the config file.
func (h *Harness) BackupDir() string {
	return filepath.Join(h.homeDir, "snipsync", "backups")
}

// Run executes a CLI command with the given arguments and captures stdout
// and stderr.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "snipsync" {
		args = append([]string{"snipsync"}, args...)
	}

	stdout := capture(h.t, &os.Stdout)
	stderr := capture(h.t, &os.Stderr)
	cmdErr := cli.Run(context.Background(), args)
	out, errOut := stdout(), stderr()

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}
	return &Result{
		Stdout:   out,
		Stderr:   errOut,
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

// capture redirects *target into a pipe and returns a function that
// restores it and yields what was written. The pipe is drained concurrently
// so large outputs cannot fill its buffer and block the command.
func capture(t *testing.T, target **os.File) func() string {
	t.Helper()

	old := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	*target = w

	var buf bytes.Buffer
	var copyErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, copyErr = io.Copy(&buf, r)
	}()

	return func() string {
		if err := w.Close(); err != nil {
			t.Fatalf("failed to close pipe writer: %v", err)
		}
		*target = old
		<-done
		if copyErr != nil {
			t.Fatalf("failed to read captured output: %v", copyErr)
		}
		return buf.String()
	}
}
