package resolve

import (
	"strconv"
	"strings"

	"eventhub/search/internal/domain"
)

// Resolver turns loosely-specified filter tokens (numeric ids, human names,
// legacy aliases) into canonical catalog identifiers. Implementations are
// pure functions over a catalog snapshot; the alias tables sit behind this
// interface so they can be swapped for a backend-driven mapping later.
type Resolver interface {
	// ResolveEventType resolves a token to an event-type id. Numeric tokens
	// pass through verbatim without a catalog membership check; whether the
	// id actually exists is surfaced as an advisory downstream, never as an
	// error. The second return is false only when a name-based token matches
	// nothing.
	ResolveEventType(token string, catalog domain.Catalog) (int, bool)

	// ResolveCategory is total: it always returns a non-empty id, falling
	// back to the input token so the backend still gets a chance at it.
	ResolveCategory(token string, catalog domain.Catalog) string
}

// Historical frontend category ids mapped to their backend counterparts.
var defaultAliases = map[string]string{
	"mua":               "makeup",
	"makeup":            "makeup",
	"photographer":      "photographer",
	"decorator":         "decorator",
	"dj":                "dj",
	"caterer":           "caterer",
	"mehendi":           "mehendi",
	"event-coordinator": "event-coordinator",
}

// Search terms per alias, matched against category names by containment.
var defaultKeywords = map[string][]string{
	"mua":               {"makeup", "mua", "makeup artist", "makeup-artist"},
	"makeup":            {"makeup", "mua", "makeup artist"},
	"photographer":      {"photographer", "photography"},
	"decorator":         {"decorator", "decoration", "décor"},
	"dj":                {"dj", "music", "sound"},
	"caterer":           {"caterer", "catering"},
	"mehendi":           {"mehendi", "henna"},
	"event-coordinator": {"event coordinator", "event planner", "planner"},
}

type tableResolver struct {
	aliases  map[string]string
	keywords map[string][]string
}

// NewResolver returns a resolver backed by the built-in alias tables.
func NewResolver() Resolver {
	return NewResolverWithTables(defaultAliases, defaultKeywords)
}

// NewResolverWithTables returns a resolver with custom alias tables.
func NewResolverWithTables(aliases map[string]string, keywords map[string][]string) Resolver {
	return &tableResolver{aliases: aliases, keywords: keywords}
}

func (r *tableResolver) ResolveEventType(token string, catalog domain.Catalog) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	if id, err := strconv.Atoi(token); err == nil {
		return id, true
	}

	normalized := strings.ToLower(token)
	for _, et := range catalog.EventTypes {
		if strings.ToLower(et.Name) == normalized ||
			strings.ToLower(et.DisplayName) == normalized ||
			strconv.Itoa(et.ID) == normalized {
			return et.ID, true
		}
	}

	// Second pass ignoring whitespace, so "Baby Shower" matches "BabyShower".
	stripped := stripSpaces(normalized)
	for _, et := range catalog.EventTypes {
		if stripSpaces(strings.ToLower(et.Name)) == stripped ||
			stripSpaces(strings.ToLower(et.DisplayName)) == stripped {
			return et.ID, true
		}
	}

	return 0, false
}

func (r *tableResolver) ResolveCategory(token string, catalog domain.Catalog) string {
	token = strings.TrimSpace(token)
	if token == "" || token == domain.CategoryAll {
		return token
	}

	normalized := strings.ToLower(token)

	// Tier 1: direct alias mapping. If the aliased id is missing from the
	// catalog the target is still returned verbatim as a best effort; the
	// backend may accept it anyway.
	if mapped, ok := r.aliases[normalized]; ok {
		if cat, ok := findCategoryByID(catalog, mapped); ok {
			return cat.ID
		}
		return mapped
	}

	// Tier 2: exact or case-insensitive id match.
	if cat, ok := findCategoryByID(catalog, token); ok {
		return cat.ID
	}

	// Tier 3: keyword containment against names. First hit wins.
	terms, ok := r.keywords[normalized]
	if !ok {
		terms = []string{normalized}
	}
	for _, term := range terms {
		for _, cat := range catalog.Categories {
			if strings.Contains(strings.ToLower(cat.Name), term) ||
				strings.Contains(strings.ToLower(cat.DisplayName), term) ||
				strings.ToLower(cat.ID) == term {
				return cat.ID
			}
		}
	}

	return token
}

func findCategoryByID(catalog domain.Catalog, id string) (domain.Category, bool) {
	for _, cat := range catalog.Categories {
		if cat.ID == id || strings.EqualFold(cat.ID, id) {
			return cat, true
		}
	}
	return domain.Category{}, false
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
