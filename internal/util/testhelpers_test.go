package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateTempDir(t *testing.T) {
	dir := CreateTempDir(t)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("temp dir does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("CreateTempDir() did not create a directory")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	dir := CreateTempDir(t)
	path := filepath.Join(dir, "nested", "r.snippets")

	WriteFile(t, path, "snippet lib\n\tlibrary(${1:package})\n")

	if got := ReadFile(t, path); got != "snippet lib\n\tlibrary(${1:package})\n" {
		t.Errorf("ReadFile() = %q", got)
	}
}

func TestWriteFilesAndList(t *testing.T) {
	dir := CreateTempDir(t)
	WriteFiles(t, dir, map[string]string{
		"b.snippets": "b",
		"a.snippets": "a",
	})
	if err := os.Mkdir(filepath.Join(dir, "backups"), 0o750); err != nil {
		t.Fatal(err)
	}

	got := ListFiles(t, dir)
	if len(got) != 2 || got[0] != "a.snippets" || got[1] != "b.snippets" {
		t.Errorf("ListFiles() = %v, want [a.snippets b.snippets]", got)
	}
}
