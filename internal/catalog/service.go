package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bbsdial/bbsdial/internal/aggregate"
	"github.com/bbsdial/bbsdial/internal/cache"
	"github.com/bbsdial/bbsdial/internal/config"
	"github.com/bbsdial/bbsdial/internal/entry"
	"github.com/bbsdial/bbsdial/internal/sources"
)

// RefreshReport is the outcome of a refresh pass, including the
// per-source failures the presentation layer may want to show.
type RefreshReport struct {
	Catalog      *Catalog
	SourceErrors []*sources.FetchError
	Skipped      []error
}

// Summary renders the one-line outcome, e.g. "12 entries loaded, 1 source failed".
func (r *RefreshReport) Summary() string {
	s := fmt.Sprintf("%d %s loaded", r.Catalog.Len(), plural(r.Catalog.Len(), "entry", "entries"))
	if n := len(r.SourceErrors); n > 0 {
		s += fmt.Sprintf(", %d %s failed", n, plural(n, "source", "sources"))
	}
	if n := len(r.Skipped); n > 0 {
		s += fmt.Sprintf(", %d %s skipped", n, plural(n, "record", "records"))
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Service is the catalog façade: it decides between cache and
// aggregation, publishes the current catalog, and resolves entries for
// the connector. The published catalog is swapped atomically, so
// concurrent readers always see a complete catalog.
type Service struct {
	cfg        *config.Config
	aggregator *aggregate.Aggregator
	store      *cache.Store

	current atomic.Pointer[Catalog]
	// refreshMu serializes refresh and first-load; readers never take it.
	refreshMu sync.Mutex
}

// NewService creates a catalog service with its collaborators.
func NewService(cfg *config.Config, aggregator *aggregate.Aggregator, store *cache.Store) *Service {
	return &Service{
		cfg:        cfg,
		aggregator: aggregator,
		store:      store,
	}
}

// NewDefaultService wires a service with the default aggregator and
// cache store for the given configuration.
func NewDefaultService(cfg *config.Config) *Service {
	return NewService(cfg, aggregate.New(sources.NewHandlerFactory(cfg.GitAuth)), cache.NewStore(cfg.CacheFile))
}

// List returns the current catalog's entries, loading the cache on
// first call and falling back to a full aggregation when no usable
// cache exists.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	cat, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Entries(), nil
}

// FindByID resolves one entry from the current catalog.
func (s *Service) FindByID(ctx context.Context, id string) (entry.Entry, error) {
	cat, err := s.ensureLoaded(ctx)
	if err != nil {
		return entry.Entry{}, err
	}
	e, ok := cat.Get(id)
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Refresh forces a fresh aggregation pass, persists it, and publishes
// it as the current catalog. On aggregation failure the current catalog
// and the on-disk cache are left untouched. A cache write failure does
// not unpublish the new catalog but is surfaced to the caller.
func (s *Service) Refresh(ctx context.Context) (*RefreshReport, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) (*RefreshReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetRefreshTimeout())
	defer cancel()

	result, err := s.aggregator.Aggregate(ctx, s.cfg.SourceDirs)
	if err != nil {
		// Catalog and cache stay as they were; stale beats empty.
		return nil, err
	}

	cat := New(result.GeneratedAt, result.Entries)
	report := &RefreshReport{
		Catalog:      cat,
		SourceErrors: result.SourceErrors,
		Skipped:      result.Skipped,
	}

	saveErr := s.store.Save(ctx, &cache.Record{
		GeneratedAt: cat.GeneratedAt(),
		Entries:     cat.Entries(),
	})

	s.current.Store(cat)

	if saveErr != nil {
		slog.Error("Failed to persist catalog cache", "path", s.store.Path(), "error", saveErr)
		return report, fmt.Errorf("catalog refreshed but cache save failed: %w", saveErr)
	}

	return report, nil
}

// ensureLoaded returns the published catalog, loading it from cache or
// aggregating on first use.
func (s *Service) ensureLoaded(ctx context.Context) (*Catalog, error) {
	if cat := s.current.Load(); cat != nil {
		return cat, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Re-check: another caller may have loaded while we waited.
	if cat := s.current.Load(); cat != nil {
		return cat, nil
	}

	var stale *cache.Record
	record, err := s.store.Load(ctx)
	switch {
	case err == nil:
		if !s.store.IsStale(record, s.cfg.GetMaxCacheAge()) {
			cat := New(record.GeneratedAt, record.Entries)
			s.current.Store(cat)
			return cat, nil
		}
		slog.Info("Cache is stale, re-aggregating", "generatedAt", record.GeneratedAt)
		stale = record
	case errors.Is(err, cache.ErrNotFound):
		slog.Debug("No usable cache, running initial aggregation")
	default:
		return nil, err
	}

	report, err := s.refreshLocked(ctx)
	if err != nil && report == nil {
		if stale != nil {
			// Stale-but-available beats failing outright.
			slog.Warn("Aggregation failed, serving stale cache", "error", err)
			cat := New(stale.GeneratedAt, stale.Entries)
			s.current.Store(cat)
			return cat, nil
		}
		return nil, err
	}
	// A save failure still yields a usable catalog for this process.
	return report.Catalog, nil
}
