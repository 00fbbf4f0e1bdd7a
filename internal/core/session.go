package core

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Specs         []TableSpec // Tables to load; defaults to DefaultSpecs()
	StrictHeaders bool
	Observer      Observer
}

// Session owns the canonical catalog for one serving context.
//
// The catalog is built on the first call to Catalog and reused afterwards.
// Failed loads are not remembered, so a later call tries again. There is no
// invalidation: changed source files are only seen after a restart.
type Session struct {
	src      Source
	specs    []TableSpec
	strict   bool
	observer Observer

	mu      sync.Mutex // serializes the first load
	catalog atomic.Pointer[Catalog]
}

// NewSession creates a session reading from src. Nothing is loaded yet.
func NewSession(src Source, opts SessionOptions) *Session {
	specs := opts.Specs
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Session{
		src:      src,
		specs:    specs,
		strict:   opts.StrictHeaders,
		observer: observer,
	}
}

// Catalog returns the session's catalog, loading it on first use.
// Loader errors are returned unmodified.
func (s *Session) Catalog(ctx context.Context) (*Catalog, error) {
	if cat := s.catalog.Load(); cat != nil {
		return cat, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cat := s.catalog.Load(); cat != nil {
		return cat, nil
	}

	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Store(cat)
	return cat, nil
}

// Loaded reports whether the catalog has been built.
func (s *Session) Loaded() bool {
	return s.catalog.Load() != nil
}

// Location describes the session's data source.
func (s *Session) Location() string {
	return s.src.Location()
}

func (s *Session) load(ctx context.Context) (*Catalog, error) {
	start := time.Now()
	location := s.src.Location()

	tables, err := Load(ctx, s.src, s.specs)
	if err != nil {
		s.observer.ObserveLoad(location, 0, time.Since(start), err)
		return nil, err
	}

	cat, err := Denormalize(tables, DenormalizeOptions{StrictHeaders: s.strict})
	if err != nil {
		s.observer.ObserveLoad(location, 0, time.Since(start), err)
		return nil, err
	}

	cat.ID = uuid.New()
	cat.LoadedAt = time.Now().UTC()
	cat.Source = location

	duration := time.Since(start)
	s.observer.ObserveLoad(location, len(cat.Foods), duration, nil)

	stats := cat.Stats()
	slog.Info("catalog loaded",
		"snapshot_id", stats.SnapshotID,
		"source", location,
		"foods", stats.Foods,
		"menus", stats.Menus,
		"orphans", stats.Orphans,
		"reduced", stats.Reduced,
		"duration_ms", duration.Milliseconds(),
	)
	return cat, nil
}
