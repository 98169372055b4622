package listing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingview/internal/domain"
)

func newServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/api/products", WithHeaders(map[string]string{"X-Client": "listingview"}))
	require.NoError(t, err)
	return c
}

func TestFetchDecodesPage(t *testing.T) {
	var got *http.Request
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1},{"id":2}],"total":100}`))
	})

	page, err := c.Fetch(context.Background(), Request{Query: "category=sedan&page=1"})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Total)
	require.Len(t, page.Items, 2)
	assert.JSONEq(t, `{"id":1}`, string(page.Items[0]))

	require.NotNil(t, got)
	assert.Equal(t, "/api/products", got.URL.Path)
	assert.Equal(t, "category=sedan&page=1", got.URL.RawQuery)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "listingview", got.Header.Get("X-Client"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.Empty(t, got.Header.Get("Priority"))
}

func TestFetchMarksPrefetchLowPriority(t *testing.T) {
	var priority string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		priority = r.Header.Get("Priority")
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	})

	_, err := c.Fetch(context.Background(), Request{Query: "page=2", Prefetch: true})
	require.NoError(t, err)
	assert.Equal(t, "u=5", priority)
}

func TestFetchNon2xxIsStatusError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := c.Fetch(context.Background(), Request{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, domain.FailureNetwork, Classify(err))
}

func TestFetchMalformedBodies(t *testing.T) {
	bodies := map[string]string{
		"not json":       `<html>`,
		"missing total":  `{"items":[]}`,
		"missing items":  `{"total":3}`,
		"negative total": `{"items":[],"total":-1}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.Fetch(context.Background(), Request{})
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.Equal(t, domain.FailureMalformed, Classify(err))
		})
	}
}

func TestFetchHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Fetch(ctx, Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewHTTPClientRejectsBadEndpoint(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com/products")
	assert.Error(t, err)
	_, err = NewHTTPClient("://bad")
	assert.Error(t, err)
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(ctx context.Context, req Request) (*domain.Page, error) {
		return &domain.Page{Total: len(req.Query)}, nil
	})
	p, err := f.Fetch(context.Background(), Request{Query: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)
}
