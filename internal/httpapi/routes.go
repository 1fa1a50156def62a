// Package httpapi exposes the engine to its renderer over HTTP. It is a thin
// adapter: every handler translates a request into engine operations and
// returns the resulting view snapshot.
package httpapi

import (
	"encoding/json"
	"net/http"

	"eventhub/search/internal/catalog"
	"eventhub/search/internal/domain"
	"eventhub/search/internal/search"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

// FiltersRequest carries a partial filter mutation. Only present fields are
// applied; explicit empty strings clear the field.
type FiltersRequest struct {
	City        *string `json:"city"`
	EventType   *string `json:"eventType"`
	Category    *string `json:"category"`
	EventDate   *string `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	MinBudget   *int    `json:"minBudget" validate:"omitempty,gte=0"`
	MaxBudget   *int    `json:"maxBudget" validate:"omitempty,gte=0"`
	SortBy      *string `json:"sortBy" validate:"omitempty,oneof=relevance price_low price_high rating reviews newest"`
	Query       *string `json:"q"`
	ListingType *string `json:"listingType" validate:"omitempty,oneof=all packages"`
	View        *string `json:"view" validate:"omitempty,oneof=listings vendors"`
}

type api struct {
	engine  *search.Orchestrator
	catalog catalog.ReferenceCatalog
}

// RegisterRoutes wires the engine's HTTP surface.
func RegisterRoutes(r *mux.Router, engine *search.Orchestrator, refCatalog catalog.ReferenceCatalog) {
	a := &api{engine: engine, catalog: refCatalog}

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/search", a.viewHandler).Methods(http.MethodGet)
	r.HandleFunc("/search/filters", a.filtersHandler).Methods(http.MethodPut)
	r.HandleFunc("/search/advance", a.advanceHandler).Methods(http.MethodPost)
	r.HandleFunc("/search/retry", a.retryHandler).Methods(http.MethodPost)
	r.HandleFunc("/catalog/refresh", a.refreshHandler).Methods(http.MethodPost)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (a *api) viewHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.engine.View())
}

func (a *api) filtersHandler(w http.ResponseWriter, r *http.Request) {
	var req FiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	filters := a.engine.Filters()
	if req.City != nil {
		filters.SetCity(*req.City)
	}
	if req.EventType != nil {
		a.engine.SelectEventType(*req.EventType)
	}
	if req.Category != nil {
		a.engine.SelectCategory(*req.Category)
	}
	if req.EventDate != nil {
		filters.SetEventDate(*req.EventDate)
	}
	if req.MinBudget != nil || req.MaxBudget != nil {
		state := filters.Get()
		min, max := state.MinBudget, state.MaxBudget
		if req.MinBudget != nil {
			min = *req.MinBudget
		}
		if req.MaxBudget != nil {
			max = *req.MaxBudget
		}
		filters.SetBudget(min, max)
	}
	if req.SortBy != nil {
		filters.SetSortBy(domain.SortOrder(*req.SortBy))
	}
	if req.Query != nil {
		filters.SetQuery(*req.Query)
	}
	if req.ListingType != nil {
		filters.SetListingKind(domain.ListingKind(*req.ListingType))
	}
	if req.View != nil {
		filters.SetViewMode(domain.ViewMode(*req.View))
	}

	writeJSON(w, a.engine.View())
}

func (a *api) advanceHandler(w http.ResponseWriter, r *http.Request) {
	advanced := a.engine.Advance()
	writeJSON(w, map[string]any{"advanced": advanced, "view": a.engine.View()})
}

func (a *api) retryHandler(w http.ResponseWriter, r *http.Request) {
	a.engine.Retry()
	writeJSON(w, a.engine.View())
}

func (a *api) refreshHandler(w http.ResponseWriter, r *http.Request) {
	a.catalog.Invalidate()
	if err := a.catalog.Refresh(r.Context()); err != nil {
		log.Warnf("⚠️ Catalog refresh incomplete: %v", err)
	}
	a.engine.Revalidate()
	writeJSON(w, a.engine.View())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
