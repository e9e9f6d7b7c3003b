// Package remote implements the backend HTTP contract: order creation, the
// two probes, and the catalog feeds for cache refreshes.
//
// Every error leaving this package carries an apperr kind, so the retry
// policy and the sync engine classify by structure, never by message text.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
)

// Client is the backend contract consumed by the sync engine.
type Client interface {
	// CreateOrderHeader pushes a header and returns the backend-assigned
	// order id. syncKey is sent as an idempotency key: re-pushing the same
	// order returns the existing id instead of creating a duplicate.
	CreateOrderHeader(ctx context.Context, payload *OrderHeaderPayload, syncKey string) (string, error)

	// CreateOrderItems pushes the item batch for a created order.
	CreateOrderItems(ctx context.Context, remoteOrderID string, items []OrderItemPayload) error

	// ProbeConnectivity does a cheap reachability read. Any failure means
	// offline.
	ProbeConnectivity(ctx context.Context) error

	// ProbeAuthenticatedUser returns the signed-in user id, or an auth
	// error when the session is not accepted.
	ProbeAuthenticatedUser(ctx context.Context) (string, error)

	// Catalog feeds (see catalog.Fetcher).
	FetchProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error)
	FetchClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error)
}

type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(cfg *Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *HTTPClient) CreateOrderHeader(ctx context.Context, payload *OrderHeaderPayload, syncKey string) (string, error) {
	var resp createOrderResponse
	headers := map[string]string{"Idempotency-Key": syncKey}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/orders", payload, headers, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", apperr.New(apperr.KindValidation, "backend returned an empty order id")
	}
	return resp.ID, nil
}

func (c *HTTPClient) CreateOrderItems(ctx context.Context, remoteOrderID string, items []OrderItemPayload) error {
	path := fmt.Sprintf("/api/v1/orders/%s/items", remoteOrderID)
	return c.doJSON(ctx, http.MethodPost, path, items, nil, nil)
}

func (c *HTTPClient) ProbeConnectivity(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/v1/health", nil, nil, nil)
}

func (c *HTTPClient) ProbeAuthenticatedUser(ctx context.Context) (string, error) {
	var resp meResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/me", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

func (c *HTTPClient) FetchProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error) {
	var rows []productPayload
	path := fmt.Sprintf("/api/v1/warehouses/%s/products", warehouseID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &rows); err != nil {
		return nil, err
	}

	products := make([]model.CachedProduct, 0, len(rows))
	for _, row := range rows {
		products = append(products, model.CachedProduct{
			WarehouseID: warehouseID,
			ProductRef:  row.Ref,
			Name:        row.Name,
			Code:        row.Code,
			UnitPrice:   row.UnitPrice,
		})
	}
	return products, nil
}

func (c *HTTPClient) FetchClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error) {
	var rows []clientPayload
	path := fmt.Sprintf("/api/v1/warehouses/%s/clients", warehouseID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &rows); err != nil {
		return nil, err
	}

	clients := make([]model.CachedClient, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, model.CachedClient{
			WarehouseID: warehouseID,
			ClientRef:   row.Ref,
			Name:        row.Name,
			Address:     row.Address,
		})
	}
	return clients, nil
}

// doJSON runs one request and decodes the response into out (when non-nil).
// Status codes are mapped onto the error taxonomy here and nowhere else.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindValidation, "encode request", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Dial failures, timeouts, resets all land here.
		return apperr.Wrap(apperr.KindTransient, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Wrap(apperr.KindValidation, "decode response", err)
		}
		return nil
	}

	msg := readErrorBody(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperr.Newf(apperr.KindAuth, "%s %s: %d %s", method, path, resp.StatusCode, msg)
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return apperr.Newf(apperr.KindTransient, "%s %s: %d %s", method, path, resp.StatusCode, msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return apperr.Newf(apperr.KindValidation, "%s %s: %d %s", method, path, resp.StatusCode, msg)
	default:
		return apperr.Newf(apperr.KindValidation, "%s %s: unexpected status %d %s", method, path, resp.StatusCode, msg)
	}
}

func readErrorBody(r io.Reader) string {
	const maxErrorBody = 4 * 1024
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(b)
}
