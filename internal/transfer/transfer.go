// Package transfer copies snippet files between the RStudio snippets
// directory and a local working directory, keeping one backup of every file
// it replaces.
package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/parser"
)

// BackupDirName is the backup directory created inside the destination.
const BackupDirName = "backups"

// Copied records one transferred file.
type Copied struct {
	Source string
	Dest   string
	// BackedUp is where the previous destination file was moved, if any.
	BackedUp string
}

// Copy copies every file in src ending in suffix into dst. A destination
// file that already exists is first moved into backupDir, replacing an
// earlier backup of the same name. An empty backupDir means
// "<dst>/backups".
func Copy(src, dst, suffix, backupDir string) ([]Copied, error) {
	files, err := parser.DiscoverFiles(src, suffix)
	if err != nil {
		return nil, err
	}
	if backupDir == "" {
		backupDir = filepath.Join(dst, BackupDirName)
	}

	if err := os.MkdirAll(dst, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	copied := make([]Copied, 0, len(files))
	for _, srcPath := range files {
		name := filepath.Base(srcPath)
		dstPath := filepath.Join(dst, name)
		entry := Copied{Source: srcPath, Dest: dstPath}

		backedUp, err := backupExisting(dstPath, backupDir)
		if err != nil {
			return copied, err
		}
		entry.BackedUp = backedUp

		if err := copyFile(srcPath, dstPath); err != nil {
			return copied, err
		}
		logging.Info("copied snippet file",
			logging.Path(srcPath),
			logging.Operation("copy"),
		)
		copied = append(copied, entry)
	}
	return copied, nil
}

// backupExisting moves path into backupDir and returns the new location.
// It returns "" when path does not exist.
func backupExisting(path, backupDir string) (string, error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if err := os.MkdirAll(backupDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create backup directory %q: %w", backupDir, err)
	}
	target := filepath.Join(backupDir, filepath.Base(path))
	if err := removeExisting(target); err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to back up %q: %w", path, err)
	}

	logging.Debug("made backup", logging.Path(target))
	return target, nil
}

// removeExisting removes a file or symlink at the given path.
// Returns nil if the path doesn't exist.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("backup target %q is a directory", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}

	// #nosec G304 - src is from a configured snippets directory
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G302 G304 - preserving source permissions, dst is from trusted paths
	dstFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", dst, err)
	}
	return nil
}
