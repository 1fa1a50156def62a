package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesElidesDefaults(t *testing.T) {
	f := DefaultFilterState()
	f.City = "Pune"

	v := f.Values()
	assert.Equal(t, "city=Pune", v.Encode())

	// Clearing the field removes the key entirely instead of writing city=.
	f.City = ""
	assert.Empty(t, f.Values().Encode())
}

func TestValuesFullState(t *testing.T) {
	f := FilterState{
		City:        "Pune",
		EventType:   "Wedding",
		Category:    "decorator",
		EventDate:   "2026-11-20",
		MinBudget:   5000,
		MaxBudget:   20000,
		SortBy:      SortPriceLow,
		Query:       "banquet",
		ListingKind: ListingKindPackages,
		ViewMode:    ViewVendors,
		Page:        3,
	}

	v := f.Values()
	assert.Equal(t, "Wedding", v.Get("eventType"))
	assert.Equal(t, "decorator", v.Get("category"))
	assert.Equal(t, "2026-11-20", v.Get("eventDate"))
	assert.Equal(t, "5000", v.Get("minBudget"))
	assert.Equal(t, "20000", v.Get("maxBudget"))
	assert.Equal(t, "price_low", v.Get("sortBy"))
	assert.Equal(t, "packages", v.Get("listingType"))
	assert.Equal(t, "vendors", v.Get("view"))

	// Pagination and the free-text query are never persisted.
	assert.Empty(t, v.Get("page"))
	assert.Empty(t, v.Get("q"))
}

func TestParseFilterStateRoundTrip(t *testing.T) {
	f := DefaultFilterState()
	f.City = "Mumbai"
	f.EventType = "7"
	f.Category = "dj"
	f.SortBy = SortRating

	parsed := ParseFilterState(f.Values())
	assert.Equal(t, f, parsed)
}

func TestParseFilterStateMalformedNumbersAreAbsent(t *testing.T) {
	v, err := url.ParseQuery("minBudget=abc&maxBudget=-5&sortBy=bogus")
	require.NoError(t, err)

	f := ParseFilterState(v)
	assert.Zero(t, f.MinBudget)
	assert.Zero(t, f.MaxBudget)
	assert.Equal(t, SortRelevance, f.SortBy)
}

func TestParseFilterStateDefaults(t *testing.T) {
	f := ParseFilterState(url.Values{})
	assert.Equal(t, DefaultFilterState(), f)
	assert.Equal(t, CategoryAll, f.Category)
	assert.Equal(t, ViewListings, f.ViewMode)
}

func TestFingerprintIgnoresPageAndQuery(t *testing.T) {
	a := DefaultFilterState()
	a.City = "Pune"

	b := a
	b.Page = 4
	b.Query = "dj"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := a
	c.City = "Mumbai"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
