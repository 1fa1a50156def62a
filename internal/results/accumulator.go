// Package results accumulates paginated listing fetches into a single
// monotonically-growing, duplicate-free list.
package results

import (
	"sync"

	"eventhub/search/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Accumulator is the pagination state machine. Every fetch is tagged with
// the fingerprint it was issued for; responses whose tag no longer matches
// are discarded, which is what makes in-flight cancellation unnecessary.
//
// Guarantees: no identifier appears twice, the list never shrinks except on
// a Reset, and at most one fetch is in flight at a time.
type Accumulator struct {
	mu          sync.Mutex
	fingerprint string
	page        int
	items       []domain.Listing
	seen        map[string]struct{}
	hasMore     bool
	inFlight    bool
	pageSize    int
}

func New(pageSize int) *Accumulator {
	a := &Accumulator{pageSize: pageSize}
	a.reset("")
	return a
}

// Reset returns the machine to its initial state for a new fingerprint:
// page 0, empty list, more pages assumed. An in-flight fetch for the old
// fingerprint keeps running; its response will be discarded on arrival.
func (a *Accumulator) Reset(fingerprint string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset(fingerprint)
}

func (a *Accumulator) reset(fingerprint string) {
	a.fingerprint = fingerprint
	a.page = 0
	a.items = nil
	a.seen = make(map[string]struct{})
	a.hasMore = true
	a.inFlight = false
}

// PageSize returns the configured page size.
func (a *Accumulator) PageSize() int {
	return a.pageSize
}

// Page returns the current page index.
func (a *Accumulator) Page() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// Items returns a copy of the accumulated list.
func (a *Accumulator) Items() []domain.Listing {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Listing, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Accumulator) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasMore
}

func (a *Accumulator) InFlight() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}

// BeginFetch marks a fetch as outstanding for the given fingerprint and
// page. It refuses when another fetch is already in flight or the
// fingerprint is stale, enforcing the one-outstanding-fetch rule.
func (a *Accumulator) BeginFetch(fingerprint string, page int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight || fingerprint != a.fingerprint || page != a.page {
		return false
	}
	a.inFlight = true
	return true
}

// Complete applies a fetched page. Page zero replaces the list; later pages
// append only identifiers not yet seen, preserving arrival order. On a
// duplicate id the first-seen version wins; later copies are dropped, never
// merged. A response tagged with a stale fingerprint is discarded entirely.
func (a *Accumulator) Complete(fingerprint string, page int, items []domain.Listing) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if fingerprint != a.fingerprint {
		log.Debugf("Discarding stale page %d response (fingerprint changed)", page)
		return false
	}
	a.inFlight = false

	if page == 0 {
		a.items = nil
		a.seen = make(map[string]struct{})
	}
	for _, item := range items {
		if _, dup := a.seen[item.ID]; dup {
			continue
		}
		a.seen[item.ID] = struct{}{}
		a.items = append(a.items, item)
	}

	a.hasMore = len(items) == a.pageSize
	return true
}

// Fail clears the in-flight marker after a fetch error so the page can be
// retried. Stale failures are ignored.
func (a *Accumulator) Fail(fingerprint string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if fingerprint == a.fingerprint {
		a.inFlight = false
	}
}

// Advance moves to the next page when the trailing edge of the list becomes
// visible. It is a no-op unless more pages exist and no fetch is in flight;
// that gate is the sole ordering guarantee against duplicate page requests.
// The second return is the new page index when the advance happened.
func (a *Accumulator) Advance() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasMore || a.inFlight {
		return a.page, false
	}
	a.page++
	return a.page, true
}
