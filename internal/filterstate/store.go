// Package filterstate holds the two synchronized representations of the
// active filters: the in-memory store that drives rendering immediately, and
// the persisted query-string form written behind a debounce.
package filterstate

import (
	"sync"

	"eventhub/search/internal/domain"
)

// Field names a FilterState field for subscribers.
type Field string

const (
	FieldCity        Field = "city"
	FieldEventType   Field = "eventType"
	FieldCategory    Field = "category"
	FieldEventDate   Field = "eventDate"
	FieldBudget      Field = "budget"
	FieldSortBy      Field = "sortBy"
	FieldQuery       Field = "query"
	FieldListingKind Field = "listingKind"
	FieldViewMode    Field = "viewMode"
	FieldPage        Field = "page"
)

// Update describes one applied mutation. State is the snapshot the mutation
// produced; subscribers must derive everything from it, never from a later
// read, so resets and the next fetch see the same state.
type Update struct {
	State domain.FilterState
	Field Field
	// Urgent mutations bypass the persistence debounce.
	Urgent bool
	// ResetsResults is set when the query fingerprint changed and the
	// accumulated results must be discarded.
	ResetsResults bool
}

// Store is the in-memory filter record. Every mutation to a field other than
// pagination or the free-text query resets the page to zero.
type Store struct {
	mu    sync.Mutex
	state domain.FilterState
	subs  []func(Update)
}

func NewStore() *Store {
	return &Store{state: domain.DefaultFilterState()}
}

// Seed replaces the state without notifying subscribers. Used once at
// startup to load the persisted form.
func (s *Store) Seed(state domain.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Store) Get() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Subscribe(fn func(Update)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) SetCity(city string) {
	s.apply(FieldCity, false, true, func(f *domain.FilterState) bool {
		if f.City == city {
			return false
		}
		f.City = city
		return true
	})
}

// SetEventType stores the raw token. Selecting an event type is one of the
// urgent actions that flush the persisted form synchronously.
func (s *Store) SetEventType(token string) {
	s.apply(FieldEventType, true, true, func(f *domain.FilterState) bool {
		if f.EventType == token {
			return false
		}
		f.EventType = token
		return true
	})
}

// SetCategory is urgent, like SetEventType.
func (s *Store) SetCategory(id string) {
	if id == "" {
		id = domain.CategoryAll
	}
	s.apply(FieldCategory, true, true, func(f *domain.FilterState) bool {
		if f.Category == id {
			return false
		}
		f.Category = id
		return true
	})
}

func (s *Store) SetEventDate(date string) {
	s.apply(FieldEventDate, false, true, func(f *domain.FilterState) bool {
		if f.EventDate == date {
			return false
		}
		f.EventDate = date
		return true
	})
}

func (s *Store) SetBudget(min, max int) {
	s.apply(FieldBudget, false, true, func(f *domain.FilterState) bool {
		if f.MinBudget == min && f.MaxBudget == max {
			return false
		}
		f.MinBudget = min
		f.MaxBudget = max
		return true
	})
}

// SetSortBy is a no-op when the order is unchanged or unknown.
func (s *Store) SetSortBy(order domain.SortOrder) {
	if !order.Valid() {
		return
	}
	s.apply(FieldSortBy, false, true, func(f *domain.FilterState) bool {
		if f.SortBy == order {
			return false
		}
		f.SortBy = order
		return true
	})
}

// SetQuery updates the free-text filter. It is applied client-side only, so
// it neither resets pagination nor invalidates accumulated results.
func (s *Store) SetQuery(query string) {
	s.apply(FieldQuery, false, false, func(f *domain.FilterState) bool {
		if f.Query == query {
			return false
		}
		f.Query = query
		return true
	})
}

func (s *Store) SetListingKind(kind domain.ListingKind) {
	if kind == "" {
		kind = domain.ListingKindAll
	}
	s.apply(FieldListingKind, false, true, func(f *domain.FilterState) bool {
		if f.ListingKind == kind {
			return false
		}
		f.ListingKind = kind
		return true
	})
}

func (s *Store) SetViewMode(mode domain.ViewMode) {
	if mode == "" {
		mode = domain.ViewListings
	}
	s.apply(FieldViewMode, false, true, func(f *domain.FilterState) bool {
		if f.ViewMode == mode {
			return false
		}
		f.ViewMode = mode
		return true
	})
}

// SetPage moves pagination without touching the fingerprint.
func (s *Store) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.apply(FieldPage, false, false, func(f *domain.FilterState) bool {
		if f.Page == page {
			return false
		}
		f.Page = page
		return true
	})
}

func (s *Store) apply(field Field, urgent, resetsResults bool, mutate func(*domain.FilterState) bool) {
	s.mu.Lock()
	if !mutate(&s.state) {
		s.mu.Unlock()
		return
	}
	if resetsResults {
		s.state.Page = 0
	}
	update := Update{
		State:         s.state,
		Field:         field,
		Urgent:        urgent,
		ResetsResults: resetsResults,
	}
	subs := make([]func(Update), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(update)
	}
}
