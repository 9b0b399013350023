// Package orders provides the HTTP client for the production-order endpoint.
//
// One order number may resolve to multiple production line items; the client
// returns them in the order the endpoint produced them.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

// DefaultBaseURL is the default address of the production-order service.
const DefaultBaseURL = "http://localhost:8080"

// defaultTimeout bounds a single lookup request.
const defaultTimeout = 15 * time.Second

// Opts holds configuration options for the order lookup client.
type Opts struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option defines a configuration option for the order lookup client.
type Option func(*Opts)

// WithBaseURL sets the base URL of the production-order service.
func WithBaseURL(u string) Option {
	return func(o *Opts) { o.BaseURL = u }
}

// WithHTTPClient injects a custom HTTP client (used by tests).
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

// Client queries the production-order endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an order lookup client, applying any provided options.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	slog.Debug("Orders client created", "base_url", cfg.BaseURL)
	return &Client{baseURL: cfg.BaseURL, httpClient: cfg.HTTPClient}
}

// FetchOrder retrieves the line items for an order number.
// It returns models.ErrOrderNotFound when the endpoint knows no such order and
// models.ErrOrderServiceUnavailable when the endpoint cannot be reached or
// answers with an unexpected status.
func (c *Client) FetchOrder(ctx context.Context, orderNumber string) ([]models.OrderLine, error) {
	reqURL := fmt.Sprintf("%s/api/v1/pedidos-produccion/%s", c.baseURL, url.PathEscape(orderNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building order lookup request: %w", err)
	}

	slog.Debug("Orders client fetching order", "order_number", orderNumber)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Orders client request failed", "error", err, "order_number", orderNumber)
		return nil, fmt.Errorf("%w: %v", models.ErrOrderServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		slog.Error("Orders client unexpected status", "status", resp.StatusCode, "order_number", orderNumber)
		return nil, fmt.Errorf("%w: status %d", models.ErrOrderServiceUnavailable, resp.StatusCode)
	}

	var lines []models.OrderLine
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		slog.Error("Orders client decode failed", "error", err, "order_number", orderNumber)
		return nil, fmt.Errorf("%w: decoding response: %v", models.ErrOrderServiceUnavailable, err)
	}

	slog.Debug("Orders client fetched order", "order_number", orderNumber, "line_items", len(lines))
	return lines, nil
}
