package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SortOrder is the backend sort vocabulary. Ranking itself is delegated to
// the backend; the engine only forwards the value.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
	SortRating    SortOrder = "rating"
	SortReviews   SortOrder = "reviews"
	SortNewest    SortOrder = "newest"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortRelevance, SortPriceLow, SortPriceHigh, SortRating, SortReviews, SortNewest:
		return true
	}
	return false
}

// ListingKind narrows results to packages only.
type ListingKind string

const (
	ListingKindAll      ListingKind = "all"
	ListingKindPackages ListingKind = "packages"
)

// ViewMode selects between the paginated listing view and the single-page
// vendor view.
type ViewMode string

const (
	ViewListings ViewMode = "listings"
	ViewVendors  ViewMode = "vendors"
)

// CategoryAll is the sentinel for "no category selected".
const CategoryAll = "all"

// FilterState is the full set of active filter fields. EventType holds the
// raw token as supplied (numeric id, name, or legacy alias); resolution to a
// canonical id happens at query-build time.
type FilterState struct {
	City        string
	EventType   string
	Category    string
	EventDate   string
	MinBudget   int
	MaxBudget   int
	SortBy      SortOrder
	Query       string
	ListingKind ListingKind
	ViewMode    ViewMode
	Page        int
}

// DefaultFilterState returns the state of a fresh, unfiltered search.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:    CategoryAll,
		SortBy:      SortRelevance,
		ListingKind: ListingKindAll,
		ViewMode:    ViewListings,
	}
}

// Fingerprint identifies the logical query: every field except pagination and
// the free-text query. The free-text filter is applied client-side only and
// never reaches the backend, so it does not invalidate accumulated pages.
func (f FilterState) Fingerprint() string {
	return f.Values().Encode()
}

// Persisted query-string keys. Absence means default.
const (
	keyCity        = "city"
	keyEventType   = "eventType"
	keyCategory    = "category"
	keyEventDate   = "eventDate"
	keyMinBudget   = "minBudget"
	keyMaxBudget   = "maxBudget"
	keySortBy      = "sortBy"
	keyListingType = "listingType"
	keyView        = "view"
)

// Values encodes the state into its persisted query-string form. Fields at
// their default value are elided so the persisted form stays minimal. Page
// and the free-text query are never persisted.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.City != "" {
		v.Set(keyCity, f.City)
	}
	if f.EventType != "" {
		v.Set(keyEventType, f.EventType)
	}
	if f.Category != "" && f.Category != CategoryAll {
		v.Set(keyCategory, f.Category)
	}
	if f.EventDate != "" {
		v.Set(keyEventDate, f.EventDate)
	}
	if f.MinBudget > 0 {
		v.Set(keyMinBudget, strconv.Itoa(f.MinBudget))
	}
	if f.MaxBudget > 0 {
		v.Set(keyMaxBudget, strconv.Itoa(f.MaxBudget))
	}
	if f.SortBy != "" && f.SortBy != SortRelevance {
		v.Set(keySortBy, string(f.SortBy))
	}
	if f.ListingKind == ListingKindPackages {
		v.Set(keyListingType, string(ListingKindPackages))
	}
	if f.ViewMode == ViewVendors {
		v.Set(keyView, string(ViewVendors))
	}
	return v
}

// Encode returns the canonical persisted representation (sorted keys).
func (f FilterState) Encode() string {
	return f.Values().Encode()
}

// ParseFilterState seeds a FilterState from its persisted form. Malformed
// numeric fields are treated as absent, never as errors; an unknown sort
// order falls back to relevance.
func ParseFilterState(v url.Values) FilterState {
	f := DefaultFilterState()
	f.City = v.Get(keyCity)
	f.EventType = v.Get(keyEventType)
	if c := v.Get(keyCategory); c != "" {
		f.Category = c
	}
	f.EventDate = v.Get(keyEventDate)
	if n, err := strconv.Atoi(v.Get(keyMinBudget)); err == nil && n > 0 {
		f.MinBudget = n
	}
	if n, err := strconv.Atoi(v.Get(keyMaxBudget)); err == nil && n > 0 {
		f.MaxBudget = n
	}
	if s := SortOrder(v.Get(keySortBy)); s.Valid() {
		f.SortBy = s
	}
	if strings.EqualFold(v.Get(keyListingType), string(ListingKindPackages)) {
		f.ListingKind = ListingKindPackages
	}
	if strings.EqualFold(v.Get(keyView), string(ViewVendors)) {
		f.ViewMode = ViewVendors
	}
	return f
}
