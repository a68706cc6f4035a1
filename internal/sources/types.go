package sources

import (
	"context"
	"fmt"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// Handler is an interface with methods to fetch entry records from one
// configured source.
type Handler interface {
	// Fetch retrieves all entry records from the source and returns the
	// result. Individual malformed records are collected in the result,
	// never returned as the error; the error means the source as a whole
	// was unreachable or unreadable.
	Fetch(ctx context.Context) (*FetchResult, error)

	// Validate validates the source descriptor
	Validate() error

	// Describe returns a short human-readable origin string,
	// e.g. "dir:/home/user/.config/bbsdial/sources" or
	// "git:https://example.com/boards.git".
	Describe() string
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Entries are the successfully parsed entries, with SourceOrigin set.
	Entries []entry.Entry

	// Skipped collects per-record validation errors. A skipped record
	// never affects its siblings.
	Skipped []error

	// Hash is the SHA-256 hash of the raw source data, for change
	// detection and logging.
	Hash string
}

// FetchError wraps a fetch failure with the source that failed. One
// failing source contributes zero entries; it does not abort the
// aggregation pass.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
