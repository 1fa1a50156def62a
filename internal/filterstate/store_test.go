package filterstate

import (
	"testing"

	"eventhub/search/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationsResetPage(t *testing.T) {
	s := NewStore()
	s.SetPage(4)
	require.Equal(t, 4, s.Get().Page)

	s.SetCity("Pune")
	assert.Equal(t, 0, s.Get().Page)

	s.SetPage(2)
	s.SetBudget(1000, 5000)
	assert.Equal(t, 0, s.Get().Page)
}

func TestQueryAndPageDoNotResetResults(t *testing.T) {
	s := NewStore()
	var updates []Update
	s.Subscribe(func(u Update) { updates = append(updates, u) })

	s.SetPage(3)
	s.SetQuery("dj")

	require.Len(t, updates, 2)
	assert.False(t, updates[0].ResetsResults)
	assert.False(t, updates[1].ResetsResults)
	assert.Equal(t, 3, s.Get().Page, "query must not reset pagination")
}

func TestUrgentFields(t *testing.T) {
	s := NewStore()
	var updates []Update
	s.Subscribe(func(u Update) { updates = append(updates, u) })

	s.SetEventType("Wedding")
	s.SetCategory("decorator")
	s.SetCity("Pune")

	require.Len(t, updates, 3)
	assert.True(t, updates[0].Urgent)
	assert.True(t, updates[1].Urgent)
	assert.False(t, updates[2].Urgent)
}

func TestNoOpMutationsDoNotNotify(t *testing.T) {
	s := NewStore()
	s.SetCity("Pune")

	var updates []Update
	s.Subscribe(func(u Update) { updates = append(updates, u) })

	s.SetCity("Pune")
	s.SetSortBy(domain.SortRelevance) // unchanged default
	s.SetSortBy("bogus")              // unknown orders are ignored
	assert.Empty(t, updates)

	s.SetSortBy(domain.SortPriceHigh)
	assert.Len(t, updates, 1)
}

func TestUpdateCarriesSnapshot(t *testing.T) {
	s := NewStore()
	var got domain.FilterState
	s.Subscribe(func(u Update) { got = u.State })

	s.SetPage(5)
	s.SetEventType("7")

	// The snapshot in the update must already reflect the page reset, so
	// subscribers derive the reset and the fetch from the same state.
	assert.Equal(t, "7", got.EventType)
	assert.Equal(t, 0, got.Page)
}

func TestSeedDoesNotNotify(t *testing.T) {
	s := NewStore()
	var updates []Update
	s.Subscribe(func(u Update) { updates = append(updates, u) })

	seeded := domain.DefaultFilterState()
	seeded.City = "Mumbai"
	s.Seed(seeded)

	assert.Empty(t, updates)
	assert.Equal(t, "Mumbai", s.Get().City)
}

func TestSetCategoryEmptyBecomesAll(t *testing.T) {
	s := NewStore()
	s.SetCategory("decorator")
	s.SetCategory("")
	assert.Equal(t, domain.CategoryAll, s.Get().Category)
}
