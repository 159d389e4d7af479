package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauern/snipsync/internal/cli"
)

func TestCLIInitialization(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Run help command to verify CLI initializes correctly
	err := cli.Run(context.Background(), []string{"snipsync", "--help"})

	// Restore stdout
	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("failed to read captured output: %v", copyErr)
	}
	output := buf.String()

	if err != nil {
		t.Fatalf("CLI initialization failed: %v", err)
	}

	for _, want := range []string{"snipsync", "sync", "copy", "backup", "config", "version"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}
