// Package cache persists the aggregated catalog between runs so startup
// does not need to re-fetch every source.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// ErrNotFound means no usable cache exists. A corrupt cache file is
// reported the same way as a missing one: the caller degrades to a
// fresh aggregation instead of crashing.
var ErrNotFound = errors.New("cache not found")

// Record is the on-disk form of an aggregated catalog.
type Record struct {
	// GeneratedAt is when the aggregation pass that produced these
	// entries completed.
	GeneratedAt time.Time `yaml:"generatedAt"`

	// Entries is the merged entry list in catalog order.
	Entries []entry.Entry `yaml:"entries"`
}

// Store reads and writes the catalog cache file.
type Store struct {
	path string
}

// NewStore creates a store for the given cache file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted cache. Missing and corrupt files both map to
// ErrNotFound.
func (s *Store) Load(_ context.Context) (*Record, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		slog.Warn("Cache file is corrupt, treating as missing", "path", s.path, "error", err)
		return nil, ErrNotFound
	}

	return &record, nil
}

// Save atomically replaces the persisted cache: the record is written to
// a temporary file which is then renamed over the cache path, so a
// concurrent reader observes either the old or the new complete file,
// never a torn one. A file lock keeps concurrent processes from racing
// on the swap.
func (s *Store) Save(_ context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}

	fileLock := flock.New(s.path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache file: %w", err)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			slog.Warn("Failed to unlock cache file", "path", s.path, "error", err)
		}
	}()

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary cache file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

// IsStale reports whether the cache should trigger re-aggregation.
// A nil record is always stale. maxAge zero means the cache never
// expires by age: refresh is user-initiated.
func (*Store) IsStale(record *Record, maxAge time.Duration) bool {
	if record == nil {
		return true
	}
	if maxAge <= 0 {
		return false
	}
	return time.Since(record.GeneratedAt) > maxAge
}
