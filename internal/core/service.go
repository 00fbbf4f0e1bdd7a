package core

import (
	"context"
	"time"
)

// Service exposes the two query operations used by the HTTP layer and CLI.
type Service struct {
	session  *Session
	observer Observer
}

// NewService creates a Service over session. observer may be nil.
func NewService(session *Session, observer Observer) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service{session: session, observer: observer}
}

// Search returns foods whose name or description contains text.
func (s *Service) Search(ctx context.Context, text string) (Page, error) {
	return s.Query(ctx, text, ModeTextMatch)
}

// SearchByNutrient returns foods that have a value for the named nutrient
// column. Unknown names fail with *UnknownFieldError.
func (s *Service) SearchByNutrient(ctx context.Context, name string) (Page, error) {
	return s.Query(ctx, name, ModeNutrientPresence)
}

// Query runs one query in the given mode against the session's catalog.
func (s *Service) Query(ctx context.Context, query string, mode Mode) (Page, error) {
	cat, err := s.session.Catalog(ctx)
	if err != nil {
		return Page{}, err
	}

	start := time.Now()
	page, err := Filter(cat, query, mode)
	s.observer.ObserveQuery(mode, page.Total, time.Since(start), err)
	return page, err
}

// Snapshot returns the loaded catalog, loading it if necessary.
func (s *Service) Snapshot(ctx context.Context) (*Catalog, error) {
	return s.session.Catalog(ctx)
}

// Session returns the underlying session.
func (s *Service) Session() *Session {
	return s.session
}
