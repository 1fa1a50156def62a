package resolve

import (
	"sort"

	"eventhub/search/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var displayCollator = collate.New(language.English, collate.IgnoreCase)

// VisibleCategories returns the categories legal to display for the given
// event type, in presentation order: alphabetical by display name with the
// catch-all category pinned last, unconditionally, whenever it exists in the
// catalog. With no resolved event type, or an event type that has no links at
// all, every category passes through unfiltered.
func VisibleCategories(catalog domain.Catalog, eventTypeID int, resolved bool) []domain.Category {
	var catchAll *domain.Category
	rest := make([]domain.Category, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		if cat.IsCatchAll() {
			c := cat
			catchAll = &c
			continue
		}
		rest = append(rest, cat)
	}

	if resolved {
		if linked := catalog.LinkedCategoryIDs(eventTypeID); len(linked) > 0 {
			filtered := rest[:0]
			for _, cat := range rest {
				if _, ok := linked[cat.ID]; ok {
					filtered = append(filtered, cat)
				}
			}
			rest = filtered
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return displayCollator.CompareString(rest[i].Label(), rest[j].Label()) < 0
	})

	if catchAll != nil {
		rest = append(rest, *catchAll)
	}
	return rest
}

// LegalCategoryIDs returns the set of category ids a selection may legally
// hold under the given event type. The catch-all id is always a member. An
// empty map means "everything is legal" (no event type resolved, or the
// event type carries no links).
func LegalCategoryIDs(catalog domain.Catalog, eventTypeID int, resolved bool) map[string]struct{} {
	if !resolved {
		return nil
	}
	linked := catalog.LinkedCategoryIDs(eventTypeID)
	if len(linked) == 0 {
		return nil
	}
	linked[domain.CatchAllCategoryID] = struct{}{}
	return linked
}
