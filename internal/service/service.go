// Package service orchestrates the session pipeline: fetch the status
// feed at most once per session, build and cache the catalog, track the
// wishlist selection and resolve it into drop locations.
package service

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/meur/reliquary/internal/catalog"
	"github.com/meur/reliquary/internal/models"
	"github.com/meur/reliquary/internal/session"
)

// Upstream is the client for the two external services.
type Upstream interface {
	FetchStatus(ctx context.Context) ([]models.RawStatusRecord, error)
	SearchDrops(ctx context.Context, externalIDs []int64) (models.DropSearchResult, error)
}

// Cache is the session-scoped slot store consumed by the pipeline.
// Reads miss rather than fail; writes are best-effort and silent.
type Cache interface {
	RawStatus(sessionID string) ([]models.RawStatusRecord, bool)
	SetRawStatus(sessionID string, records []models.RawStatusRecord)
	Catalog(sessionID string) ([]models.Set, bool)
	SetCatalog(sessionID string, sets []models.Set)
	DropResult(sessionID string) (models.DropSearchResult, bool)
	SetDropResult(sessionID string, result models.DropSearchResult)
}

// Service wires the upstream client, the session cache and the
// selection trackers together.
type Service struct {
	upstream   Upstream
	cache      Cache
	selections *session.Selections

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-session fetch guard
}

// New creates a Service.
func New(upstream Upstream, cache Cache, selections *session.Selections) *Service {
	return &Service{
		upstream:   upstream,
		cache:      cache,
		selections: selections,
		locks:      make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the guard serializing check-then-populate for one
// session, so two concurrent requests cannot race a duplicate fetch.
func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// PrimeStatus returns the session's raw status feed, fetching it at
// most once per session under normal conditions. A fetch failure leaves
// the cache untouched so the next call retries.
func (s *Service) PrimeStatus(ctx context.Context, sessionID string) ([]models.RawStatusRecord, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return s.primeStatusLocked(ctx, sessionID)
}

func (s *Service) primeStatusLocked(ctx context.Context, sessionID string) ([]models.RawStatusRecord, error) {
	if records, ok := s.cache.RawStatus(sessionID); ok && len(records) > 0 {
		return records, nil
	}
	records, err := s.upstream.FetchStatus(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetRawStatus(sessionID, records)
	return records, nil
}

// PrimeSets returns the session's catalog, building and caching it on
// first use.
func (s *Service) PrimeSets(ctx context.Context, sessionID string) ([]models.Set, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if sets, ok := s.cache.Catalog(sessionID); ok && len(sets) > 0 {
		return sets, nil
	}
	records, err := s.primeStatusLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sets := catalog.Build(records)
	s.cache.SetCatalog(sessionID, sets)
	return sets, nil
}

// Toggle adds or removes one part id from the session's wishlist.
func (s *Service) Toggle(sessionID, partID string, included bool) {
	s.selections.For(sessionID).Toggle(partID, included)
}

// ToggleMany adds or removes a batch of part ids atomically.
func (s *Service) ToggleMany(sessionID string, partIDs []string, included bool) {
	s.selections.For(sessionID).ToggleMany(partIDs, included)
}

// Selected returns the session's wishlisted part ids.
func (s *Service) Selected(sessionID string) []string {
	return s.selections.For(sessionID).Selected()
}

// ResolveDrops maps the session's selection to external numeric ids via
// the full catalog, posts the de-duplicated batch to the drop-search
// service and stores the result for the session. It never mutates the
// catalog or the selection.
func (s *Service) ResolveDrops(ctx context.Context, sessionID string) (models.DropSearchResult, error) {
	selected := s.selections.For(sessionID).Selected()
	if len(selected) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("selection is empty")
	}

	sets, err := s.PrimeSets(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	byPart := make(map[string]int64)
	for _, set := range sets {
		for _, p := range set.Parts {
			if p.ExternalID != 0 {
				byPart[p.ID] = p.ExternalID
			}
		}
	}

	seen := make(map[int64]struct{}, len(selected))
	batch := make([]int64, 0, len(selected))
	for _, partID := range selected {
		ext, ok := byPart[partID]
		if !ok {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		batch = append(batch, ext)
	}
	if len(batch) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no selected parts resolve to external ids")
	}

	result, err := s.upstream.SearchDrops(ctx, batch)
	if err != nil {
		return nil, err
	}
	s.cache.SetDropResult(sessionID, result)
	return result, nil
}

// LastDropResult returns the session's most recent drop search result.
func (s *Service) LastDropResult(sessionID string) (models.DropSearchResult, bool) {
	return s.cache.DropResult(sessionID)
}
