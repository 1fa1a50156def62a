// Package search composes the resolution, filter-state, pagination, and
// pipeline components into the engine the renderer consumes.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"eventhub/search/internal/catalog"
	"eventhub/search/internal/client"
	"eventhub/search/internal/domain"
	"eventhub/search/internal/filterstate"
	"eventhub/search/internal/guard"
	"eventhub/search/internal/pipeline"
	"eventhub/search/internal/resolve"
	"eventhub/search/internal/results"

	log "github.com/sirupsen/logrus"
)

// Deps are the collaborators the orchestrator is wired with.
type Deps struct {
	PageSize  int
	Client    client.BackendClient
	Catalog   catalog.ReferenceCatalog
	Resolver  resolve.Resolver
	Filters   *filterstate.Store
	Syncer    *filterstate.Syncer
	Persisted filterstate.PersistedStore
}

// View is the snapshot handed to the renderer: the filtered result set, the
// categories legal to display, pagination state, and any advisory or
// retryable error.
type View struct {
	Filters      domain.FilterState `json:"filters"`
	Listings     []domain.Listing   `json:"listings,omitempty"`
	Vendors      []domain.Vendor    `json:"vendors,omitempty"`
	Categories   []domain.Category  `json:"categories"`
	Page         int                `json:"page"`
	HasMore      bool               `json:"hasMore"`
	Loading      bool               `json:"loading"`
	CatalogReady bool               `json:"catalogReady"`
	Advisory     string             `json:"advisory,omitempty"`
	Error        string             `json:"error,omitempty"`
	Retryable    bool               `json:"retryable,omitempty"`
}

// Orchestrator drives the search engine. All state transitions derive their
// fetch parameters from the snapshot the triggering mutation produced, so a
// reset and the fetch that follows it can never disagree.
type Orchestrator struct {
	pageSize  int
	client    client.BackendClient
	catalog   catalog.ReferenceCatalog
	resolver  resolve.Resolver
	filters   *filterstate.Store
	syncer    *filterstate.Syncer
	persisted filterstate.PersistedStore
	acc       *results.Accumulator

	baseCtx context.Context

	mu             sync.Mutex
	fingerprint    string
	pending        bool
	vendors        []domain.Vendor
	vendorInFlight bool
	vendorFP       string
	listErr        error
	listErrFP      string
	vendorErr      error
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		pageSize:  deps.PageSize,
		client:    deps.Client,
		catalog:   deps.Catalog,
		resolver:  deps.Resolver,
		filters:   deps.Filters,
		syncer:    deps.Syncer,
		persisted: deps.Persisted,
		acc:       results.New(deps.PageSize),
		baseCtx:   context.Background(),
	}
}

// Start seeds the filter state from its persisted form, loads the reference
// catalog, and issues the initial fetch. The persisted form is the source of
// truth for the event-type and category tokens on load.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.baseCtx = ctx

	if o.persisted != nil {
		encoded, found, err := o.persisted.Load(ctx)
		if err != nil {
			log.Warnf("⚠️ Could not load persisted filters, starting fresh: %v", err)
		} else if found {
			values, err := url.ParseQuery(encoded)
			if err != nil {
				log.Warnf("⚠️ Malformed persisted filters %q, starting fresh: %v", encoded, err)
			} else {
				o.filters.Seed(domain.ParseFilterState(values))
				log.Infof("Seeded filters from persisted form: %s", encoded)
			}
		}
	}

	o.filters.Subscribe(o.onUpdate)

	if err := o.catalog.Refresh(ctx); err != nil {
		log.Warnf("⚠️ Reference catalog refresh incomplete: %v", err)
	}

	o.Revalidate()
	o.dispatch(o.filters.Get())
	return nil
}

// Revalidate re-checks the category selection against the current catalog
// and re-issues a deferred fetch once the catalog becomes ready. Called
// after every catalog refresh.
func (o *Orchestrator) Revalidate() {
	state := o.filters.Get()
	snap := o.catalog.Snapshot()
	etID, etOK := o.resolver.ResolveEventType(state.EventType, snap)
	if guard.Check(state.Category, snap, etID, etOK) {
		log.Infof("Category %q is no longer valid for event type %q, clearing selection", state.Category, state.EventType)
		o.filters.SetCategory(domain.CategoryAll)
		return
	}

	o.mu.Lock()
	deferred := o.pending
	o.mu.Unlock()
	if deferred && o.catalog.Ready() {
		o.dispatch(o.filters.Get())
	}
}

func (o *Orchestrator) onUpdate(u filterstate.Update) {
	if !u.ResetsResults {
		// Free-text and pagination mutations never invalidate results.
		return
	}

	state := u.State
	snap := o.catalog.Snapshot()

	if u.Field == filterstate.FieldEventType || u.Field == filterstate.FieldCategory {
		etID, etOK := o.resolver.ResolveEventType(state.EventType, snap)
		if guard.Check(state.Category, snap, etID, etOK) {
			log.Infof("Category %q is not valid under the new event type, clearing selection", state.Category)
			// The corrective mutation re-enters here with a legal state;
			// persisting or fetching the intermediate state would reorder
			// the reset after the fetch.
			o.filters.SetCategory(domain.CategoryAll)
			return
		}
	}

	if u.Urgent {
		o.syncer.Flush(state)
	} else {
		o.syncer.Queue(state)
	}

	o.dispatch(state)
}

// dispatch resets accumulation for the state's fingerprint and starts the
// fetch path the view mode selects. Fetching is deferred until the catalog
// has delivered event types and categories at least once.
func (o *Orchestrator) dispatch(state domain.FilterState) {
	fp := state.Fingerprint()

	o.acc.Reset(fp)
	o.mu.Lock()
	o.fingerprint = fp
	o.vendors = nil
	o.listErr = nil
	o.vendorErr = nil
	if !o.catalog.Ready() {
		o.pending = true
		o.mu.Unlock()
		log.Debug("Catalog not ready yet, deferring fetch")
		return
	}
	o.pending = false
	o.mu.Unlock()

	if state.ViewMode == domain.ViewVendors {
		o.fetchVendors(state, fp)
	} else {
		o.fetchListings(state, fp, 0)
	}
}

// Advance requests the next listing page. It fires only when the trailing
// edge of the listings view reports proximity: more pages must exist, no
// fetch may be in flight, and the vendor view is never paginated here.
func (o *Orchestrator) Advance() bool {
	state := o.filters.Get()
	if state.ViewMode != domain.ViewListings {
		return false
	}
	page, ok := o.acc.Advance()
	if !ok {
		return false
	}
	o.fetchListings(state, state.Fingerprint(), page)
	return true
}

// Retry re-issues the current query from page zero after a failed fetch.
func (o *Orchestrator) Retry() {
	o.dispatch(o.filters.Get())
}

// SelectCategory applies the dropdown semantics: picking the active category
// again, or the "all" sentinel, clears the selection.
func (o *Orchestrator) SelectCategory(id string) {
	if id == domain.CategoryAll || id == o.filters.Get().Category {
		o.filters.SetCategory(domain.CategoryAll)
		return
	}
	o.filters.SetCategory(id)
}

// SelectEventType stores the raw token; resolution happens at fetch time.
func (o *Orchestrator) SelectEventType(token string) {
	o.filters.SetEventType(token)
}

// Filters exposes the in-memory store for the remaining field mutations.
func (o *Orchestrator) Filters() *filterstate.Store {
	return o.filters
}

func (o *Orchestrator) fetchListings(state domain.FilterState, fp string, page int) {
	if !o.acc.BeginFetch(fp, page) {
		return
	}

	snap := o.catalog.Snapshot()
	query := o.buildListingQuery(state, snap, page)

	go func() {
		items, err := o.client.SearchListings(o.baseCtx, query)
		if err != nil {
			o.acc.Fail(fp)
			o.mu.Lock()
			o.listErr = err
			o.listErrFP = fp
			o.mu.Unlock()
			log.Errorf("❌ Listing search failed: %v", err)
			return
		}
		if o.acc.Complete(fp, page, items) {
			o.mu.Lock()
			if o.listErrFP == fp {
				o.listErr = nil
			}
			o.mu.Unlock()
		}
	}()
}

func (o *Orchestrator) fetchVendors(state domain.FilterState, fp string) {
	o.mu.Lock()
	if o.vendorInFlight && o.vendorFP == fp {
		o.mu.Unlock()
		return
	}
	o.vendorInFlight = true
	o.vendorFP = fp
	o.mu.Unlock()

	snap := o.catalog.Snapshot()
	query := o.buildVendorQuery(state, snap)

	go func() {
		vendors, err := o.client.SearchVendors(o.baseCtx, query)

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.vendorFP != fp || o.fingerprint != fp {
			log.Debug("Discarding stale vendor search response")
			return
		}
		o.vendorInFlight = false
		if err != nil {
			o.vendorErr = err
			log.Errorf("❌ Vendor search failed: %v", err)
			return
		}
		o.vendorErr = nil
		o.vendors = vendors
	}()
}

func (o *Orchestrator) buildListingQuery(state domain.FilterState, snap domain.Catalog, page int) domain.ListingQuery {
	query := domain.ListingQuery{
		City:      state.City,
		EventDate: state.EventDate,
		MinBudget: state.MinBudget,
		MaxBudget: state.MaxBudget,
		SortBy:    state.SortBy,
		Packages:  state.ListingKind == domain.ListingKindPackages,
		Limit:     o.pageSize,
		Offset:    page * o.pageSize,
	}
	if id, ok := o.resolver.ResolveEventType(state.EventType, snap); ok {
		query.EventType = id
	}
	if state.Category != "" && state.Category != domain.CategoryAll {
		query.Category = o.resolver.ResolveCategory(state.Category, snap)
	}
	return query
}

func (o *Orchestrator) buildVendorQuery(state domain.FilterState, snap domain.Catalog) domain.VendorQuery {
	query := domain.VendorQuery{
		City:      state.City,
		MinBudget: state.MinBudget,
		MaxBudget: state.MaxBudget,
		Query:     state.Query,
		EventDate: state.EventDate,
		SortBy:    state.SortBy,
	}
	if id, ok := o.resolver.ResolveEventType(state.EventType, snap); ok {
		query.EventType = id
	}
	if state.Category != "" && state.Category != domain.CategoryAll {
		query.Category = o.resolver.ResolveCategory(state.Category, snap)
	}
	return query
}

// View assembles the renderer snapshot from the current state.
func (o *Orchestrator) View() View {
	state := o.filters.Get()
	snap := o.catalog.Snapshot()
	etID, etOK := o.resolver.ResolveEventType(state.EventType, snap)

	view := View{
		Filters:      state,
		Categories:   resolve.VisibleCategories(snap, etID, etOK),
		CatalogReady: o.catalog.Ready(),
		Advisory:     o.advisory(state, snap, etID, etOK),
	}

	o.mu.Lock()
	fp := o.fingerprint
	vendors := o.vendors
	vendorInFlight := o.vendorInFlight
	listErr := o.listErr
	listErrFP := o.listErrFP
	vendorErr := o.vendorErr
	o.mu.Unlock()

	if state.ViewMode == domain.ViewVendors {
		view.Vendors = pipeline.FilterVendors(vendors, snap, state.Query)
		view.Loading = vendorInFlight
		if vendorErr != nil {
			view.Error = vendorErr.Error()
			view.Retryable = true
		}
		return view
	}

	view.Listings = pipeline.FilterListings(o.acc.Items(), snap, pipeline.ListingOptions{
		PackagesOnly: state.ListingKind == domain.ListingKindPackages,
		EventTypeID:  etID,
		HasEventType: etOK,
		Query:        state.Query,
	})
	view.Page = o.acc.Page()
	view.HasMore = o.acc.HasMore()
	view.Loading = o.acc.InFlight()
	if listErr != nil && listErrFP == fp {
		view.Error = listErr.Error()
		view.Retryable = true
	}
	return view
}

// advisory reports the non-blocking degradations: an unresolvable event-type
// token, a numeric id with no catalog counterpart, or reference data that
// has not loaded yet.
func (o *Orchestrator) advisory(state domain.FilterState, snap domain.Catalog, etID int, etOK bool) string {
	if !o.catalog.Ready() {
		return "filters unavailable: reference data has not loaded yet"
	}
	if state.EventType == "" {
		return ""
	}
	if !etOK {
		return fmt.Sprintf("showing all listings because event type %q could not be resolved", state.EventType)
	}
	if _, found := snap.EventTypeByID(etID); !found {
		return fmt.Sprintf("event type %d is not in the catalog; results may be empty", etID)
	}
	return ""
}
