// Package backup keeps the safety copies snipsync takes before it rewrites
// snippet files: JSON snapshots of whole trees and raw copies of files.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/snipsync/internal/logging"
	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
)

const (
	// DirPerm is the permission for backup directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for backup files (rw-r-----)
	FilePerm = 0o640

	timestampLayout = "20060102-150405"
)

// Store manages one backup directory and its index
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the backup directory
func (s *Store) Dir() string {
	return s.dir
}

// Snapshot writes tree as indented JSON to
// "<timestamp>-<hash prefix>_<editor>_snippets.json" and records it in the
// index. The hash prefix keeps two snapshots taken within the same second
// from sharing a file.
func (s *Store) Snapshot(editor model.Editor, sourcePath string, tree model.Tree) (*Metadata, error) {
	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(tree, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s snippets: %w", editor, err)
	}
	hash := hashBytes(data)

	now := s.now()
	stamp := now.Format(timestampLayout)
	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s_%s_snippets.json", stamp, hash[:8], editor))
	if err := parser.WriteFileAtomic(path, data, FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	meta := Metadata{
		ID:         fmt.Sprintf("%s-%s-%s", stamp, editor, hash[:8]),
		Kind:       KindSnapshot,
		Editor:     string(editor),
		SourcePath: sourcePath,
		BackupPath: path,
		CreatedAt:  now,
		Hash:       hash,
		Size:       int64(len(data)),
		Snippets:   tree.Len(),
	}
	if err := s.record(meta); err != nil {
		return nil, err
	}

	logging.Info("saved snippet snapshot",
		logging.Editor(string(editor)),
		logging.Path(path),
		logging.Count(meta.Snippets),
	)
	return &meta, nil
}

// CopyFiles copies every file in srcDir ending in suffix into
// "<backup dir>/<editor>/", replacing the previous copy of the same file.
func (s *Store) CopyFiles(editor model.Editor, srcDir, suffix string) ([]Metadata, error) {
	files, err := parser.DiscoverFiles(srcDir, suffix)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	dstDir := filepath.Join(s.dir, string(editor))
	if err := os.MkdirAll(dstDir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	now := s.now()
	copied := make([]Metadata, 0, len(files))
	for _, src := range files {
		dst := filepath.Join(dstDir, filepath.Base(src))
		hash, size, err := copyFile(src, dst)
		if err != nil {
			return copied, err
		}

		// A new copy replaces the old one on disk, so drop its index entry.
		for id, b := range index.Backups {
			if b.Kind == KindFile && b.BackupPath == dst {
				delete(index.Backups, id)
			}
		}

		meta := Metadata{
			ID:         fmt.Sprintf("%s-%s-%s-%s", now.Format(timestampLayout), editor, filepath.Base(src), hash[:8]),
			Kind:       KindFile,
			Editor:     string(editor),
			SourcePath: src,
			BackupPath: dst,
			CreatedAt:  now,
			Hash:       hash,
			Size:       size,
		}
		index.Backups[meta.ID] = meta
		copied = append(copied, meta)

		logging.Debug("backed up snippet file", logging.Path(src))
	}

	if err := s.SaveIndex(index); err != nil {
		return copied, err
	}
	return copied, nil
}

// Get returns the metadata for id.
func (s *Store) Get(id string) (Metadata, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return Metadata{}, err
	}
	meta, ok := index.Backups[id]
	if !ok {
		return Metadata{}, fmt.Errorf("backup %q not found", id)
	}
	return meta, nil
}

// List returns backups newest first, filtered as in Index.List.
func (s *Store) List(editor string, kind Kind) ([]Metadata, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	return index.List(editor, kind), nil
}

// Verify checks that the backup file for id exists and matches its hash.
func (s *Store) Verify(id string) error {
	meta, err := s.Get(id)
	if err != nil {
		return err
	}

	// #nosec G304 - path comes from the backup index
	f, err := os.Open(meta.BackupPath)
	if err != nil {
		return fmt.Errorf("backup file missing: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != meta.Hash {
		return fmt.Errorf("backup file corrupted: hash mismatch (expected %s, got %s)", meta.Hash, got)
	}
	return nil
}

// LoadSnapshot verifies and decodes the snapshot with the given id.
func (s *Store) LoadSnapshot(id string) (Metadata, model.Tree, error) {
	meta, err := s.Get(id)
	if err != nil {
		return Metadata{}, nil, err
	}
	if meta.Kind != KindSnapshot {
		return Metadata{}, nil, fmt.Errorf("backup %q is a %s backup, not a snapshot", id, meta.Kind)
	}
	if err := s.Verify(id); err != nil {
		return Metadata{}, nil, err
	}

	// #nosec G304 - path comes from the backup index
	data, err := os.ReadFile(meta.BackupPath)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	tree := model.NewTree()
	if err := json.Unmarshal(data, &tree); err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return meta, tree, nil
}

// Delete removes the backup file for id and its index entry.
func (s *Store) Delete(id string) error {
	index, err := s.LoadIndex()
	if err != nil {
		return err
	}
	meta, ok := index.Backups[id]
	if !ok {
		return fmt.Errorf("backup %q not found", id)
	}
	if err := os.Remove(meta.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}
	delete(index.Backups, id)
	return s.SaveIndex(index)
}

func (s *Store) record(meta Metadata) error {
	index, err := s.LoadIndex()
	if err != nil {
		return err
	}
	index.Backups[meta.ID] = meta
	return s.SaveIndex(index)
}

// copyFile copies src to dst and returns the SHA256 and size of the content.
func copyFile(src, dst string) (string, int64, error) {
	// #nosec G304 - src comes from DiscoverFiles over a configured directory
	data, err := os.ReadFile(src)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %q: %w", src, err)
	}
	if err := parser.WriteFileAtomic(dst, data, FilePerm); err != nil {
		return "", 0, fmt.Errorf("failed to back up %q: %w", src, err)
	}
	return hashBytes(data), int64(len(data)), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
