package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"eventhub/search/internal/client"
	"eventhub/search/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ReferenceCatalog serves the slowly-changing reference data (event types,
// categories, and their validity links) with explicit freshness semantics.
// The engine reads immutable snapshots; refresh and invalidation are explicit
// operations rather than ambient cache lookups.
type ReferenceCatalog interface {
	Snapshot() domain.Catalog
	// Ready reports whether event types and categories have both loaded at
	// least once, from cache or from the backend. Search fetches are gated
	// on this.
	Ready() bool
	Refresh(ctx context.Context) error
	Invalidate()
}

const (
	datasetEventTypes = "event_types"
	datasetCategories = "categories"
	datasetLinks      = "event_type_categories"
)

type service struct {
	client client.BackendClient
	cache  Cache
	ttl    time.Duration

	mu        sync.RWMutex
	snap      domain.Catalog
	fetchedAt map[string]time.Time
}

// NewService builds a catalog service. cache may be nil, in which case every
// refresh goes to the backend.
func NewService(backend client.BackendClient, cache Cache, ttl time.Duration) ReferenceCatalog {
	return &service{
		client:    backend,
		cache:     cache,
		ttl:       ttl,
		fetchedAt: make(map[string]time.Time),
	}
}

func (s *service) Snapshot() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, etOK := s.fetchedAt[datasetEventTypes]
	_, catOK := s.fetchedAt[datasetCategories]
	return etOK && catOK
}

func (s *service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = make(map[string]time.Time)
}

// Refresh brings every stale dataset up to date. Each dataset is refreshed
// independently: a failure leaves the previous data in place and degrades to
// "filters unavailable" instead of blocking search, so the first error is
// joined rather than aborting the rest.
func (s *service) Refresh(ctx context.Context) error {
	var errs []error

	if err := refreshDataset(ctx, s, datasetEventTypes, s.client.GetEventTypes, func(v []domain.EventType) {
		s.snap.EventTypes = v
	}); err != nil {
		errs = append(errs, err)
	}
	if err := refreshDataset(ctx, s, datasetCategories, s.client.GetCategories, func(v []domain.Category) {
		s.snap.Categories = v
	}); err != nil {
		errs = append(errs, err)
	}
	if err := refreshDataset(ctx, s, datasetLinks, s.client.GetEventTypeCategoryLinks, func(v []domain.EventTypeCategoryLink) {
		s.snap.Links = v
	}); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// refreshDataset loads one dataset if its freshness window has lapsed,
// preferring the cache. A cache hit short-circuits the network fetch
// entirely; a network result is written back to the cache.
func refreshDataset[T any](
	ctx context.Context,
	s *service,
	key string,
	fetch func(context.Context) ([]T, error),
	assign func([]T),
) error {
	s.mu.RLock()
	fetchedAt, ok := s.fetchedAt[key]
	s.mu.RUnlock()
	if ok && time.Since(fetchedAt) < s.ttl {
		return nil
	}

	if s.cache != nil {
		var cached []T
		hit, err := s.cache.Load(ctx, key, &cached)
		if err != nil {
			log.Warnf("Cache read for %s failed: %v", key, err)
		} else if hit {
			s.mu.Lock()
			assign(cached)
			s.fetchedAt[key] = time.Now()
			s.mu.Unlock()
			log.Debugf("Loaded %d %s entries from cache", len(cached), key)
			return nil
		}
	}

	fetched, err := fetch(ctx)
	if err != nil {
		log.Warnf("⚠️ Refresh of %s failed, keeping previous data: %v", key, err)
		return err
	}

	s.mu.Lock()
	assign(fetched)
	s.fetchedAt[key] = time.Now()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Save(ctx, key, fetched, s.ttl); err != nil {
			log.Warnf("Cache write for %s failed: %v", key, err)
		}
	}

	log.Infof("✅ Refreshed %s: %d entries", key, len(fetched))
	return nil
}
