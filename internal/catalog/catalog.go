// Package catalog holds the merged, deduplicated set of BBS entries and
// the service façade the command layer talks to.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// ErrNotFound means no entry with the requested ID exists in the catalog.
var ErrNotFound = errors.New("entry not found")

// Catalog is the result of one aggregation pass. It is immutable once
// published: a refresh produces a new Catalog and swaps the reference,
// it never patches an existing one.
type Catalog struct {
	generatedAt time.Time
	byID        map[string]entry.Entry
	order       []string
}

// New builds a catalog from an already-deduplicated entry list. Entries
// are ordered by name (case-insensitive), then ID, so listings are
// stable across runs.
func New(generatedAt time.Time, entries []entry.Entry) *Catalog {
	c := &Catalog{
		generatedAt: generatedAt,
		byID:        make(map[string]entry.Entry, len(entries)),
		order:       make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.byID[e.ID]; !ok {
			c.order = append(c.order, e.ID)
		}
		c.byID[e.ID] = e
	}
	sort.Slice(c.order, func(i, j int) bool {
		a, b := c.byID[c.order[i]], c.byID[c.order[j]]
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return c
}

// GeneratedAt returns when the aggregation pass producing this catalog
// completed.
func (c *Catalog) GeneratedAt() time.Time {
	return c.generatedAt
}

// Entries returns the catalog entries in listing order. The returned
// slice is a copy; the catalog itself stays immutable.
func (c *Catalog) Entries() []entry.Entry {
	entries := make([]entry.Entry, 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, c.byID[id])
	}
	return entries
}

// Get looks up an entry by ID.
func (c *Catalog) Get(id string) (entry.Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.order)
}
