package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/christopherklint97/sitterload/internal/travel"
)

// TravelCacheKey is the state row holding the serialized travel cache.
const TravelCacheKey = "travel_cache"

var (
	_ travel.Backend = StateBackend{}
	_ travel.Backend = FileBackend{}

	_ travel.Resetter = StateBackend{}
	_ travel.Resetter = FileBackend{}
)

// StateBackend stores a blob in one row of the state table.
type StateBackend struct {
	DB  *DB
	Key string
}

func (b StateBackend) Load() ([]byte, error) {
	v, err := b.DB.GetState(b.Key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", b.Key, err)
	}
	return []byte(v), nil
}

func (b StateBackend) Save(data []byte) error {
	if err := b.DB.SetState(b.Key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", b.Key, err)
	}
	return nil
}

// Reset deletes the state row.
func (b StateBackend) Reset() error {
	if err := b.DB.DeleteState(b.Key); err != nil {
		return fmt.Errorf("deleting %s: %w", b.Key, err)
	}
	return nil
}

// FileBackend stores a blob in a single file, written atomically with 0600
// permissions. A missing file loads as empty.
type FileBackend struct {
	Path string
}

// DefaultCacheFile returns ~/.config/sitterload/travel_cache.json.
func DefaultCacheFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "travel_cache.json"), nil
}

func (b FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	return data, nil
}

func (b FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing temp cache file: %w", err)
	}

	if err := os.Rename(tmp, b.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Reset removes the cache file. A missing file is not an error.
func (b FileBackend) Reset() error {
	if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}
