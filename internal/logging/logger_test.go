package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/snipsync/internal/logging"
)

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
	})

	logger.Info("read snippet", logging.Snippet("forloop"), logging.Section("loops"))

	output := buf.String()
	if !strings.Contains(output, "read snippet") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "snippet=forloop") {
		t.Errorf("expected snippet attr in output, got: %s", output)
	}
	if !strings.Contains(output, "section=loops") {
		t.Errorf("expected section attr in output, got: %s", output)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &buf,
		JSON:   true,
	})

	logger.Info("parsed", logging.Language("source.r"), logging.Count(3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if entry["msg"] != "parsed" {
		t.Errorf("msg = %v, want parsed", entry["msg"])
	}
	if entry[logging.KeyLanguage] != "source.r" {
		t.Errorf("language = %v, want source.r", entry[logging.KeyLanguage])
	}
	if entry[logging.KeyCount] != float64(3) {
		t.Errorf("count = %v, want 3", entry[logging.KeyCount])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{
		Level:  logging.LevelWarn,
		Output: &buf,
	})

	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn message missing, got: %s", output)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelWarn {
		t.Errorf("Level = %v, want %v", opts.Level, logging.LevelWarn)
	}
	if opts.Output == nil {
		t.Error("Output should default to stderr")
	}
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))
	logging.Debug("debug line", logging.Path("/tmp/x"))

	if !strings.Contains(buf.String(), "path=/tmp/x") {
		t.Errorf("expected debug output through default logger, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := logging.NewContext(context.Background(), logger)

	if got := logging.FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := logging.FromContext(context.Background()); got == nil {
		t.Error("FromContext without logger should fall back to default")
	}
}

func TestErr(t *testing.T) {
	if attr := logging.Err(nil); attr.Key != "" {
		t.Errorf("Err(nil) should be empty, got key %q", attr.Key)
	}
	attr := logging.Err(errors.New("boom"))
	if attr.Key != logging.KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, logging.KeyError)
	}
}
