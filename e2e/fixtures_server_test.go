//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

type product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// catalog serves a fixed product list the way the listing endpoint does:
// GET ?category=...&page=N&limit=M -> {"items": [...], "total": n}
type catalog struct {
	mu       sync.Mutex
	products []product
	queries  []string
	fail     bool
}

func newCatalog(n int) *catalog {
	c := &catalog{}
	categories := []string{"sedan", "suv", "truck"}
	for i := 1; i <= n; i++ {
		c.products = append(c.products, product{
			ID:       i,
			Name:     fmt.Sprintf("Product %03d", i),
			Category: categories[i%len(categories)],
			Price:    float64(10000 + i*500),
		})
	}
	return c
}

func (c *catalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.queries = append(c.queries, r.URL.RawQuery)
	fail := c.fail
	c.mu.Unlock()

	if fail {
		http.Error(w, "boom", http.StatusBadGateway)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 24
	}

	var matched []product
	for _, p := range c.products {
		if cats := q["category"]; len(cats) > 0 && !contains(cats, p.Category) {
			continue
		}
		matched = append(matched, p)
	}

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items": matched[start:end],
		"total": len(matched),
	})
}

func (c *catalog) setFail(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

func (c *catalog) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// startCatalog serves n products for the duration of the test
func startCatalog(t *testing.T, n int) (*catalog, string) {
	t.Helper()
	c := newCatalog(n)
	srv := httptest.NewServer(c)
	t.Cleanup(srv.Close)
	return c, srv.URL + "/api/products"
}
