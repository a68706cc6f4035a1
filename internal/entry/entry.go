// Package entry defines the BBS entry model and validation of raw
// entry records coming from source files.
package entry

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Supported URL schemes for entries.
const (
	SchemeTelnet = "telnet"
	SchemeSSH    = "ssh"
	SchemeHTTPS  = "https"
)

// Record is the raw entry shape as it appears in an entry file. It is
// validated into an Entry by ParseRecord.
type Record struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// Entry is one validated BBS endpoint in the catalog.
type Entry struct {
	// ID uniquely identifies the entry across all sources. Generated
	// when the source record carries none.
	ID string `yaml:"id"`

	// Name is the display name shown in listings and the picker.
	Name string `yaml:"name"`

	// URL locates the BBS, e.g. "telnet://bbs.example.com:23".
	URL string `yaml:"url"`

	// Description is optional free-form text.
	Description string `yaml:"description,omitempty"`

	// SourceOrigin records which configured source the entry came from.
	// It is runtime-only and never persisted.
	SourceOrigin string `yaml:"-"`
}

// ValidationError describes why one record was rejected. It localizes
// the failure to a single record so its siblings are unaffected.
type ValidationError struct {
	// Name is the record's name, if it had one.
	Name string

	// Field is the record field that failed validation.
	Field string

	// Reason says what was wrong with the field.
	Reason string
}

func (e *ValidationError) Error() string {
	name := e.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("invalid entry %q: field %s: %s", name, e.Field, e.Reason)
}

// IsSupportedScheme reports whether a URL scheme can be dialed.
func IsSupportedScheme(scheme string) bool {
	switch scheme {
	case SchemeTelnet, SchemeSSH, SchemeHTTPS:
		return true
	}
	return false
}

// ParseRecord validates a raw record into an Entry. A record without an
// ID gets a freshly generated one; the caller decides whether to write
// it back to the source file.
func ParseRecord(rec Record) (Entry, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Entry{}, &ValidationError{Name: rec.Name, Field: "name", Reason: "cannot be empty"}
	}

	rawURL := strings.TrimSpace(rec.URL)
	if rawURL == "" {
		return Entry{}, &ValidationError{Name: name, Field: "url", Reason: "cannot be empty"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Entry{}, &ValidationError{Name: name, Field: "url", Reason: err.Error()}
	}
	if !IsSupportedScheme(u.Scheme) {
		return Entry{}, &ValidationError{
			Name:   name,
			Field:  "url",
			Reason: fmt.Sprintf("unsupported scheme %q (want telnet, ssh or https)", u.Scheme),
		}
	}
	if u.Hostname() == "" {
		return Entry{}, &ValidationError{Name: name, Field: "url", Reason: "missing host"}
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return Entry{
		ID:          id,
		Name:        name,
		URL:         rawURL,
		Description: strings.TrimSpace(rec.Description),
	}, nil
}

// Record converts the entry back to its entry-file form.
func (e Entry) Record() Record {
	return Record{
		ID:          e.ID,
		Name:        e.Name,
		URL:         e.URL,
		Description: e.Description,
	}
}
