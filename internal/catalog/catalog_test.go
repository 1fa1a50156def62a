package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"eventhub/search/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu         sync.Mutex
	eventTypes []domain.EventType
	categories []domain.Category
	links      []domain.EventTypeCategoryLink
	fail       bool
	calls      int
}

func (f *fakeBackend) GetEventTypes(context.Context) ([]domain.EventType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("backend down")
	}
	return f.eventTypes, nil
}

func (f *fakeBackend) GetCategories(context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("backend down")
	}
	return f.categories, nil
}

func (f *fakeBackend) GetEventTypeCategoryLinks(context.Context) ([]domain.EventTypeCategoryLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("backend down")
	}
	return f.links, nil
}

func (f *fakeBackend) SearchListings(context.Context, domain.ListingQuery) ([]domain.Listing, error) {
	return nil, nil
}

func (f *fakeBackend) SearchVendors(context.Context, domain.VendorQuery) ([]domain.Vendor, error) {
	return nil, nil
}

func (f *fakeBackend) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Load(_ context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *memoryCache) Save(_ context.Context, key string, v any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		eventTypes: []domain.EventType{{ID: 1, Name: "Wedding"}},
		categories: []domain.Category{{ID: "decorator"}, {ID: "other"}},
		links:      []domain.EventTypeCategoryLink{{EventTypeID: 1, CategoryID: "decorator"}},
	}
}

func TestRefreshLoadsAllDatasets(t *testing.T) {
	backend := newFakeBackend()
	svc := NewService(backend, nil, time.Minute)

	assert.False(t, svc.Ready())
	require.NoError(t, svc.Refresh(context.Background()))
	assert.True(t, svc.Ready())

	snap := svc.Snapshot()
	assert.Len(t, snap.EventTypes, 1)
	assert.Len(t, snap.Categories, 2)
	assert.Len(t, snap.Links, 1)
}

func TestRefreshWithinTTLIsANoOp(t *testing.T) {
	backend := newFakeBackend()
	svc := NewService(backend, nil, time.Minute)

	require.NoError(t, svc.Refresh(context.Background()))
	calls := backend.callCount()

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, calls, backend.callCount(), "fresh datasets must not refetch")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	backend := newFakeBackend()
	svc := NewService(backend, nil, time.Minute)

	require.NoError(t, svc.Refresh(context.Background()))
	calls := backend.callCount()

	svc.Invalidate()
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Greater(t, backend.callCount(), calls)
}

func TestRefreshFailureKeepsPreviousData(t *testing.T) {
	backend := newFakeBackend()
	svc := NewService(backend, nil, time.Nanosecond) // everything always stale

	require.NoError(t, svc.Refresh(context.Background()))
	require.True(t, svc.Ready())

	backend.setFail(true)
	time.Sleep(time.Millisecond)
	err := svc.Refresh(context.Background())
	assert.Error(t, err)

	// Degraded, not blocked: old data and readiness survive.
	assert.True(t, svc.Ready())
	assert.Len(t, svc.Snapshot().Categories, 2)
}

func TestCacheHitShortCircuitsNetwork(t *testing.T) {
	cache := newMemoryCache()
	warm := newFakeBackend()
	require.NoError(t, NewService(warm, cache, time.Minute).Refresh(context.Background()))

	// A fresh service with a failing backend still becomes ready from cache.
	backend := newFakeBackend()
	backend.setFail(true)
	svc := NewService(backend, cache, time.Minute)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.True(t, svc.Ready())
	assert.Zero(t, backend.callCount(), "cache hits must not touch the network")
	assert.Len(t, svc.Snapshot().Categories, 2)
}
