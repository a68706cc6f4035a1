package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// dirHandler fetches entry records from a local directory of entry files
type dirHandler struct {
	path string
}

// NewDirHandler creates a handler for a local entry directory
func NewDirHandler(path string) Handler {
	return &dirHandler{path: path}
}

// Validate validates the directory source descriptor
func (h *dirHandler) Validate() error {
	if strings.TrimSpace(h.path) == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return nil
}

// Describe returns the origin string for this source
func (h *dirHandler) Describe() string {
	return "dir:" + h.path
}

// Fetch walks the directory for entry files and parses each one.
// A missing directory is not an error: it contributes zero entries.
func (h *dirHandler) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Lazily created on first write; nothing to fetch yet.
			slog.Debug("Source directory does not exist", "path", h.path)
			return &FetchResult{Hash: emptyHash()}, nil
		}
		return nil, fmt.Errorf("failed to stat directory %s: %w", h.path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", h.path)
	}

	files, err := h.entryFiles()
	if err != nil {
		return nil, err
	}

	result := &FetchResult{}
	hasher := sha256.New()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, skipped, err := h.parseFile(file, hasher)
		if err != nil {
			// One unreadable or unparseable file does not take down the
			// source; its siblings still contribute.
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.Entries = append(result.Entries, entries...)
		result.Skipped = append(result.Skipped, skipped...)
	}
	result.Hash = fmt.Sprintf("%x", hasher.Sum(nil))

	return result, nil
}

// entryFiles returns the entry files under the directory in lexical
// order, so repeated fetches see a deterministic sequence.
func (h *dirHandler) entryFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(h.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suffix := range entryFileSuffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate entry files in %s: %w", h.path, err)
	}
	return files, nil
}

func (h *dirHandler) parseFile(file string, hasher hash.Hash) ([]entry.Entry, []error, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- file enumerated from configured source directory
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read entry file %s: %w", file, err)
	}
	hasher.Write([]byte(file))
	hasher.Write(data)

	records, err := decodeRecords(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}

	entries, skipped, assigned := parseRecords(records, h.Describe(), file)
	if assigned {
		// Entry files are user-editable, so generated IDs are written
		// back so they stay stable across fetches. Best effort only.
		if err := h.writeBack(file, records); err != nil {
			slog.Warn("Failed to write generated IDs back to entry file", "file", file, "error", err)
		}
	}

	return entries, skipped, nil
}

// writeBack atomically rewrites an entry file with assigned IDs filled in.
func (*dirHandler) writeBack(file string, records []entry.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary entry file: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace entry file: %w", err)
	}
	return nil
}

func emptyHash() string {
	return fmt.Sprintf("%x", sha256.Sum256(nil))
}
