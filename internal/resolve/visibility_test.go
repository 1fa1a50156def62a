package resolve

import (
	"testing"

	"eventhub/search/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedCatalog() domain.Catalog {
	return domain.Catalog{
		EventTypes: []domain.EventType{{ID: 1, Name: "Wedding"}, {ID: 2, Name: "Birthday"}},
		Categories: []domain.Category{
			{ID: "other", Name: "Other"},
			{ID: "dj", Name: "DJ & Sound"},
			{ID: "caterer", Name: "Catering"},
			{ID: "decorator", Name: "Decoration"},
		},
		Links: []domain.EventTypeCategoryLink{
			{EventTypeID: 1, CategoryID: "decorator"},
			{EventTypeID: 1, CategoryID: "caterer"},
		},
	}
}

func ids(cats []domain.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}

func TestVisibleCategoriesFiltersByLinks(t *testing.T) {
	got := VisibleCategories(linkedCatalog(), 1, true)
	assert.Equal(t, []string{"caterer", "decorator", "other"}, ids(got))
}

func TestVisibleCategoriesUnfilteredWithoutLinks(t *testing.T) {
	// Event type 2 has no links: everything passes through, sorted, with the
	// catch-all pinned last.
	got := VisibleCategories(linkedCatalog(), 2, true)
	assert.Equal(t, []string{"caterer", "decorator", "dj", "other"}, ids(got))
}

func TestVisibleCategoriesNoEventType(t *testing.T) {
	got := VisibleCategories(linkedCatalog(), 0, false)
	assert.Equal(t, []string{"caterer", "decorator", "dj", "other"}, ids(got))
}

func TestVisibleCategoriesCatchAllAlwaysLast(t *testing.T) {
	cat := linkedCatalog()
	for _, eventType := range []int{0, 1, 2} {
		got := VisibleCategories(cat, eventType, eventType != 0)
		require.NotEmpty(t, got)
		assert.Equal(t, domain.CatchAllCategoryID, got[len(got)-1].ID)
		for _, c := range got[:len(got)-1] {
			assert.False(t, c.IsCatchAll(), "catch-all must never appear before the end")
		}
	}
}

func TestVisibleCategoriesWithoutCatchAllInCatalog(t *testing.T) {
	cat := linkedCatalog()
	cat.Categories = cat.Categories[1:] // drop "other"
	got := VisibleCategories(cat, 2, true)
	assert.Equal(t, []string{"caterer", "decorator", "dj"}, ids(got))
}

func TestVisibleCategoriesWeddingScenario(t *testing.T) {
	// Catalog with event type 5, categories decorator/other, no links:
	// unfiltered, other last.
	cat := domain.Catalog{
		EventTypes: []domain.EventType{{ID: 5, Name: "Wedding"}},
		Categories: []domain.Category{{ID: "decorator"}, {ID: "other"}},
	}
	got := VisibleCategories(cat, 5, true)
	assert.Equal(t, []string{"decorator", "other"}, ids(got))
}

func TestLegalCategoryIDs(t *testing.T) {
	cat := linkedCatalog()

	legal := LegalCategoryIDs(cat, 1, true)
	require.NotNil(t, legal)
	assert.Contains(t, legal, "decorator")
	assert.Contains(t, legal, "caterer")
	assert.Contains(t, legal, domain.CatchAllCategoryID)
	assert.NotContains(t, legal, "dj")

	// No links, or no resolved event type: everything is legal.
	assert.Nil(t, LegalCategoryIDs(cat, 2, true))
	assert.Nil(t, LegalCategoryIDs(cat, 1, false))
}
