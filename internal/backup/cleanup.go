package backup

import (
	"fmt"

	"github.com/klauern/snipsync/internal/logging"
)

// Cleanup keeps the newest keep snapshots per editor and deletes the rest.
// Raw file copies are replaced in place and never pile up, so they are not
// touched. keep <= 0 disables cleanup.
func (s *Store) Cleanup(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}

	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	perEditor := make(map[string]int)
	var doomed []string
	for _, b := range index.List("", KindSnapshot) {
		perEditor[b.Editor]++
		if perEditor[b.Editor] > keep {
			doomed = append(doomed, b.ID)
		}
	}

	deleted := make([]string, 0, len(doomed))
	for _, id := range doomed {
		if err := s.Delete(id); err != nil {
			return deleted, fmt.Errorf("failed to delete backup %q: %w", id, err)
		}
		deleted = append(deleted, id)
	}

	if len(deleted) > 0 {
		logging.Info("removed old snapshots", logging.Count(len(deleted)))
	}
	return deleted, nil
}
