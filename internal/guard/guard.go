// Package guard re-validates the active category selection against the
// reference catalog whenever the event type or the catalog changes.
package guard

import (
	"eventhub/search/internal/domain"
	"eventhub/search/internal/resolve"
)

// Check reports whether the current category selection is still legal under
// the resolved event type. If it is not, the returned flag is true and the
// caller must clear the selection to "all" and reset pagination. The
// correction is one-way: the event type is never changed to fit the category.
func Check(category string, catalog domain.Catalog, eventTypeID int, resolved bool) (clear bool) {
	if category == "" || category == domain.CategoryAll {
		return false
	}
	legal := resolve.LegalCategoryIDs(catalog, eventTypeID, resolved)
	if legal == nil {
		return false
	}
	_, ok := legal[category]
	return !ok
}
