package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/homiapp/planner-api/internal/store"
)

// FileStore persists snapshots as pretty-printed JSON in a single file.
// Writes go to a temp file first and are renamed into place, so a crash
// mid-write never leaves a truncated snapshot behind.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path. The parent directory is
// created on the first Save if it does not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the snapshot file atomically.
func (f *FileStore) Save(_ context.Context, snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("persist.FileStore.Save: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("persist.FileStore.Save: mkdir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persist.FileStore.Save: write temp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("persist.FileStore.Save: rename: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file means no snapshot has been
// saved yet and reports ok=false without an error.
func (f *FileStore) Load(_ context.Context) (store.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("persist.FileStore.Load: read: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("persist.FileStore.Load: unmarshal: %w", err)
	}
	return snap, true, nil
}

// Backup copies the current snapshot file into a "backups" directory next to
// it, named with a unix timestamp. Used by the periodic backup job; a
// missing snapshot file is a no-op.
func (f *FileStore) Backup() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("persist.FileStore.Backup: read: %w", err)
	}

	dir := filepath.Join(filepath.Dir(f.path), "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist.FileStore.Backup: mkdir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(f.path))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("persist.FileStore.Backup: write: %w", err)
	}
	return nil
}
