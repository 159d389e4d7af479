package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// DiscoverFiles returns the absolute paths of the regular files in baseDir
// whose names end with suffix, sorted by name. A missing directory is not an
// error and yields no files.
func DiscoverFiles(baseDir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", baseDir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		path := filepath.Join(baseDir, entry.Name())
		// Stat follows symlinks so linked snippet files are picked up.
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %q: %w", path, err)
		}
		files = append(files, abs)
	}
	slices.Sort(files)
	return files, nil
}

// SanitizeSection keeps only word characters (letters, digits, underscore)
// and lower-cases them, so a section label is safe as both a map key and a
// file name fragment. Both readers key sections through it: "## Loops" and
// "R LOOPS for.sublime-snippet" must land in the same section.
func SanitizeSection(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)
}

// SafeFileName replaces characters that cannot appear in a file name.
func SafeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
}

// WriteFileAtomic writes data to a temporary file beside path and renames it
// into place, so an interrupted run never leaves a half-written snippet file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename %q to %q: %w", tmpName, path, err)
	}
	return nil
}
