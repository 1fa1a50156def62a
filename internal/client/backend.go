package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"eventhub/search/internal/config"
	"eventhub/search/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// BackendClient is the transport collaborator: it performs the network
// fetches the engine drives. Caching of reference data lives above it, in
// the catalog service.
type BackendClient interface {
	SearchListings(ctx context.Context, query domain.ListingQuery) ([]domain.Listing, error)
	SearchVendors(ctx context.Context, query domain.VendorQuery) ([]domain.Vendor, error)
	GetEventTypes(ctx context.Context) ([]domain.EventType, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetEventTypeCategoryLinks(ctx context.Context) ([]domain.EventTypeCategoryLink, error)
}

type backendClient struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
}

func NewBackendClient(cfg config.BackendConfig) BackendClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &backendClient{
		rl:         ratelimit.New(rps),
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

func (c *backendClient) SearchListings(ctx context.Context, query domain.ListingQuery) ([]domain.Listing, error) {
	body, err := c.fetchJSON(ctx, "/public/search/listings", query.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	items, err := decodeList[domain.Listing](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode listing results: %w", err)
	}
	log.Debugf("Fetched %d listings at offset %d", len(items), query.Offset)
	return items, nil
}

func (c *backendClient) SearchVendors(ctx context.Context, query domain.VendorQuery) ([]domain.Vendor, error) {
	body, err := c.fetchJSON(ctx, "/public/search/vendors", query.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}
	vendors, err := decodeList[domain.Vendor](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vendor results: %w", err)
	}
	log.Debugf("Fetched %d vendors", len(vendors))
	return vendors, nil
}

func (c *backendClient) GetEventTypes(ctx context.Context) ([]domain.EventType, error) {
	body, err := c.fetchJSON(ctx, "/public/event-types", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event types: %w", err)
	}
	return decodeList[domain.EventType](body)
}

func (c *backendClient) GetCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.fetchJSON(ctx, "/public/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return decodeList[domain.Category](body)
}

func (c *backendClient) GetEventTypeCategoryLinks(ctx context.Context) ([]domain.EventTypeCategoryLink, error) {
	body, err := c.fetchJSON(ctx, "/public/event-type-categories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event-type category links: %w", err)
	}
	return decodeList[domain.EventTypeCategoryLink](body)
}

func (c *backendClient) fetchJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	c.rl.Take()

	req := c.httpClient.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), nil
}

// decodeList normalizes the two response shapes the backend emits: a flat
// JSON array, or an envelope wrapping the payload under a "data" key. A
// single object under "data" decodes to a one-element slice.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []T{single}, nil
}
