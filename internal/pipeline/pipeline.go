// Package pipeline applies client-side defensive filters over fetched
// results. The backend is expected to filter equivalently; anything this
// pipeline removes points at a backend bug and is logged, not papered over.
package pipeline

import (
	"strings"

	"eventhub/search/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ListingOptions selects which predicates apply. The predicates are pure and
// order-independent.
type ListingOptions struct {
	PackagesOnly bool
	// EventTypeID applies the event-type cross-check when HasEventType is
	// set. Listings with no event-type memberships are dropped under this
	// check: absence means non-membership, not "matches everything".
	EventTypeID  int
	HasEventType bool
	Query        string
}

// FilterListings returns the subset of items passing every active predicate.
func FilterListings(items []domain.Listing, catalog domain.Catalog, opts ListingOptions) []domain.Listing {
	out := make([]domain.Listing, 0, len(items))
	for _, item := range items {
		if opts.PackagesOnly && !item.IsPackage() {
			continue
		}
		if opts.HasEventType && !item.EventTypeIDs.Contains(opts.EventTypeID) {
			continue
		}
		if opts.Query != "" && !listingMatchesQuery(item, catalog, opts.Query) {
			continue
		}
		out = append(out, item)
	}
	if dropped := len(items) - len(out); dropped > 0 && opts.Query == "" {
		log.Warnf("⚠️ Client-side filtering dropped %d items the backend should have excluded", dropped)
	}
	return out
}

func listingMatchesQuery(item domain.Listing, catalog domain.Catalog, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.VendorName), q) ||
		strings.Contains(strings.ToLower(categoryLabel(catalog, item.CategoryID, item.CustomCategoryName)), q)
}

// FilterVendors applies the free-text filter to the vendor view.
func FilterVendors(vendors []domain.Vendor, catalog domain.Catalog, query string) []domain.Vendor {
	if query == "" {
		return vendors
	}
	q := strings.ToLower(query)
	out := make([]domain.Vendor, 0, len(vendors))
	for _, v := range vendors {
		label := categoryLabel(catalog, v.CategoryID, v.CustomCategoryName)
		if strings.Contains(strings.ToLower(v.BusinessName), q) ||
			strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(label), q) ||
			strings.Contains(strings.ToLower(v.CityName), q) {
			out = append(out, v)
		}
	}
	return out
}

// categoryLabel resolves the display name for a category id. A custom name
// carried on the entity itself takes precedence over the catalog lookup.
func categoryLabel(catalog domain.Catalog, categoryID, customName string) string {
	if customName != "" {
		return customName
	}
	if cat, ok := catalog.CategoryByID(categoryID); ok {
		return cat.Label()
	}
	return ""
}
