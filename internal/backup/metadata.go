package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauern/snipsync/internal/parser"
)

// Kind distinguishes tree snapshots from raw file copies.
type Kind string

const (
	// KindSnapshot is a JSON dump of a whole snippet tree.
	KindSnapshot Kind = "snapshot"
	// KindFile is a raw copy of a snippet file taken before it is overwritten.
	KindFile Kind = "file"
)

// Metadata describes a single backup
type Metadata struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Editor     string    `json:"editor"`
	SourcePath string    `json:"source_path"` // directory or file that was backed up
	BackupPath string    `json:"backup_path"`
	CreatedAt  time.Time `json:"created_at"`
	Hash       string    `json:"hash"` // SHA256 of the backup file
	Size       int64     `json:"size"`
	Snippets   int       `json:"snippets,omitempty"` // snapshot only
}

// Index maintains an index of all backups in one backup directory
type Index struct {
	Version string              `json:"version"`
	Updated time.Time           `json:"updated"`
	Backups map[string]Metadata `json:"backups"` // Key: backup ID
}

const (
	// IndexVersion is the current version of the backup index format
	IndexVersion = "1.0"
	// IndexFilename is the name of the index file
	IndexFilename = "index.json"
)

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, IndexFilename)
}

// LoadIndex reads the index, returning an empty one if none exists yet
func (s *Store) LoadIndex() (*Index, error) {
	// #nosec G304 - index path is derived from the configured backup directory
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return &Index{
			Version: IndexVersion,
			Updated: s.now(),
			Backups: make(map[string]Metadata),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	if index.Backups == nil {
		index.Backups = make(map[string]Metadata)
	}
	return &index, nil
}

// SaveIndex writes the index to disk
func (s *Store) SaveIndex(index *Index) error {
	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	index.Updated = s.now()
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := parser.WriteFileAtomic(s.indexPath(), data, FilePerm); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// List returns backups newest first, optionally filtered by editor and kind.
// Empty filters match everything.
func (idx *Index) List(editor string, kind Kind) []Metadata {
	backups := make([]Metadata, 0, len(idx.Backups))
	for _, b := range idx.Backups {
		if editor != "" && b.Editor != editor {
			continue
		}
		if kind != "" && b.Kind != kind {
			continue
		}
		backups = append(backups, b)
	}

	slices.SortFunc(backups, func(a, b Metadata) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return 1
		}
		if a.ID > b.ID {
			return -1
		}
		return 0
	})
	return backups
}
