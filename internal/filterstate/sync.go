package filterstate

import (
	"context"
	"sync"
	"time"

	"eventhub/search/internal/domain"

	log "github.com/sirupsen/logrus"
)

// PersistedStore holds the shareable query-string representation of the
// filters, the form the engine is seeded from on startup.
type PersistedStore interface {
	Save(ctx context.Context, encoded string) error
	Load(ctx context.Context) (string, bool, error)
}

// Syncer propagates in-memory filter state to the persisted store behind a
// debounce, so only the last mutation of a burst is written. Urgent actions
// flush synchronously, out-of-band from the timer.
type Syncer struct {
	store PersistedStore
	delay time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	hasPending bool
	lastSaved  string
}

func NewSyncer(store PersistedStore, delay time.Duration) *Syncer {
	return &Syncer{store: store, delay: delay}
}

// Queue schedules a debounced write. An earlier queued write within the
// window is cancelled and replaced.
func (s *Syncer) Queue(state domain.FilterState) {
	encoded := state.Encode()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = encoded
	s.hasPending = true
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Flush writes the state immediately, cancelling any queued write.
func (s *Syncer) Flush(state domain.FilterState) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = ""
	s.hasPending = false
	s.mu.Unlock()

	s.save(state.Encode())
}

// Stop cancels any queued write without persisting it.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = ""
	s.hasPending = false
}

func (s *Syncer) fire() {
	s.mu.Lock()
	// A Flush or Stop that lost the race with this callback already
	// consumed the pending write.
	if !s.hasPending {
		s.mu.Unlock()
		return
	}
	encoded := s.pending
	s.pending = ""
	s.hasPending = false
	s.timer = nil
	s.mu.Unlock()

	s.save(encoded)
}

func (s *Syncer) save(encoded string) {
	s.mu.Lock()
	if encoded == s.lastSaved {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.store.Save(context.Background(), encoded); err != nil {
		log.Warnf("⚠️ Failed to persist filter state: %v", err)
		return
	}

	s.mu.Lock()
	s.lastSaved = encoded
	s.mu.Unlock()
}
