// Package listing talks to the remote product listing endpoint.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"listingview/internal/domain"
)

// ErrMalformedResponse is returned when the body is not the expected JSON shape
var ErrMalformedResponse = errors.New("malformed listing response")

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("listing endpoint returned %s", e.Status)
}

// Request is a single listing query
type Request struct {
	Query    string // encoded query string without the leading '?'
	Prefetch bool   // low priority, best effort
}

// Fetcher retrieves one page of listing results
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*domain.Page, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, req Request) (*domain.Page, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, req Request) (*domain.Page, error) {
	return f(ctx, req)
}

// Classify maps a fetch error to the failure kind reported to subscribers
func Classify(err error) domain.FailureKind {
	if errors.Is(err, ErrMalformedResponse) {
		return domain.FailureMalformed
	}
	return domain.FailureNetwork
}

// HTTPClient fetches listing pages over HTTP
type HTTPClient struct {
	endpoint *url.URL
	client   *http.Client
	headers  map[string]string
	logger   *zap.Logger
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout bounds each request; zero leaves it to the transport
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.client.Timeout = d }
}

// WithHeaders adds static headers to every request
func WithHeaders(headers map[string]string) Option {
	return func(h *HTTPClient) {
		for k, v := range headers {
			h.headers[k] = v
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient creates a client for the given endpoint URL
func NewHTTPClient(endpoint string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid listing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid listing endpoint %q: scheme must be http or https", endpoint)
	}

	h := &HTTPClient{
		endpoint: u,
		client:   &http.Client{},
		headers:  make(map[string]string),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type response struct {
	Items *[]json.RawMessage `json:"items"`
	Total *int               `json:"total"`
}

// Fetch issues GET <endpoint>?<query> and decodes {items, total}
func (h *HTTPClient) Fetch(ctx context.Context, req Request) (*domain.Page, error) {
	u := *h.endpoint
	u.RawQuery = req.Query

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Prefetch {
		httpReq.Header.Set("Priority", "u=5")
	}
	for k, v := range h.headers {
		httpReq.Header.Set(k, v)
	}

	log := h.logger.With(zap.String("request_id", requestID), zap.Bool("prefetch", req.Prefetch))
	start := time.Now()

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("listing response",
		zap.String("query", req.Query),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Items == nil || body.Total == nil {
		return nil, fmt.Errorf("%w: missing items or total", ErrMalformedResponse)
	}
	if *body.Total < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrMalformedResponse, *body.Total)
	}

	items := make([]domain.Item, len(*body.Items))
	for i, raw := range *body.Items {
		items[i] = domain.Item(raw)
	}
	return &domain.Page{Items: items, Total: *body.Total}, nil
}
