// Package client provides a Go client for the item service HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/helvik/itemd/pkg/registry"
)

// Client talks to an item service over HTTP. Domain failures come back as
// the registry's sentinel errors so callers can use errors.Is.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Create stores a new item. An id conflict is reported as
// registry.ErrAlreadyExists.
func (c *Client) Create(ctx context.Context, id int64, name string) (registry.Item, error) {
	return c.itemRequest(ctx, http.MethodPost, c.itemURL(id, name), registry.ErrAlreadyExists)
}

// Get fetches an item by id.
func (c *Client) Get(ctx context.Context, id int64) (registry.Item, error) {
	return c.itemRequest(ctx, http.MethodGet, fmt.Sprintf("%s/items/%d", c.baseURL, id), nil)
}

// Update replaces the name of an existing item.
func (c *Client) Update(ctx context.Context, id int64, name string) (registry.Item, error) {
	return c.itemRequest(ctx, http.MethodPut, c.itemURL(id, name), nil)
}

// Delete removes an item by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/items/%d", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("item %d: %w", id, registry.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete item failed: %s", readErrorBody(resp.Body))
	}
	return nil
}

// ListResponse is the payload returned by the list endpoint.
type ListResponse struct {
	Items []registry.Item `json:"items"`
	Total int             `json:"total"`
}

// List fetches a snapshot of all stored items.
func (c *Client) List(ctx context.Context) (ListResponse, error) {
	endpoint := fmt.Sprintf("%s/items", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ListResponse{}, fmt.Errorf("create list request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ListResponse{}, fmt.Errorf("list items failed: %s", readErrorBody(resp.Body))
	}

	var out ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ListResponse{}, fmt.Errorf("decode list response: %w", err)
	}
	return out, nil
}

// Health reports whether the service answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/healthz", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", readErrorBody(resp.Body))
	}
	return nil
}

// itemRequest performs a request expected to return a single item.
// conflictErr, when non-nil, is the sentinel reported for a 400 response
// (the service answers duplicate creates with 400).
func (c *Client) itemRequest(ctx context.Context, method, endpoint string, conflictErr error) (registry.Item, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return registry.Item{}, fmt.Errorf("create item request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return registry.Item{}, fmt.Errorf("item request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return registry.Item{}, fmt.Errorf("%s: %w", readErrorBody(resp.Body), registry.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest && conflictErr != nil:
		return registry.Item{}, fmt.Errorf("%s: %w", readErrorBody(resp.Body), conflictErr)
	case resp.StatusCode != http.StatusOK:
		return registry.Item{}, fmt.Errorf("item request failed: %s", readErrorBody(resp.Body))
	}

	var item registry.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return registry.Item{}, fmt.Errorf("decode item response: %w", err)
	}
	return item, nil
}

func (c *Client) itemURL(id int64, name string) string {
	endpoint := fmt.Sprintf("%s/items/%d", c.baseURL, id)
	return endpoint + "?name=" + url.QueryEscape(name)
}

func readErrorBody(body io.Reader) string {
	payload, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(payload))
}
