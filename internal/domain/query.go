package domain

import (
	"net/url"
	"strconv"
)

// ListingQuery is the outbound listing-search request. Zero-valued fields are
// omitted from the wire form.
type ListingQuery struct {
	EventType int
	Category  string
	Packages  bool
	City      string
	EventDate string
	MinBudget int
	MaxBudget int
	SortBy    SortOrder
	Limit     int
	Offset    int
}

func (q ListingQuery) Values() url.Values {
	v := url.Values{}
	if q.EventType != 0 {
		v.Set("eventType", strconv.Itoa(q.EventType))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Packages {
		v.Set("listingType", string(ListingKindPackages))
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.EventDate != "" {
		v.Set("eventDate", q.EventDate)
	}
	if q.MinBudget > 0 {
		v.Set("minBudget", strconv.Itoa(q.MinBudget))
	}
	if q.MaxBudget > 0 {
		v.Set("maxBudget", strconv.Itoa(q.MaxBudget))
	}
	if q.SortBy != "" {
		v.Set("sortBy", string(q.SortBy))
	}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

// VendorQuery is the outbound vendor-search request. The vendor view is not
// paginated; the backend returns its full result set in one response.
type VendorQuery struct {
	Category  string
	City      string
	MinBudget int
	MaxBudget int
	Query     string
	EventType int
	EventDate string
	SortBy    SortOrder
}

func (q VendorQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.MinBudget > 0 {
		v.Set("minBudget", strconv.Itoa(q.MinBudget))
	}
	if q.MaxBudget > 0 {
		v.Set("maxBudget", strconv.Itoa(q.MaxBudget))
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.EventType != 0 {
		v.Set("eventType", strconv.Itoa(q.EventType))
	}
	if q.EventDate != "" {
		v.Set("eventDate", q.EventDate)
	}
	if q.SortBy != "" {
		v.Set("sortBy", string(q.SortBy))
	}
	return v
}
