//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startListing(t *testing.T, items int, extra string, args ...string) (*TUITestFramework, *catalog) {
	t.Helper()
	cat, endpoint := startCatalog(t, items)

	tf := NewTUITest(t)
	t.Cleanup(tf.Cleanup)

	cfgPath, err := tf.CreateWorkspace(endpoint, extra)
	require.NoError(t, err)
	require.NoError(t, tf.StartApp(append([]string{"-config", cfgPath}, args...)...))
	require.True(t, tf.Ready(), "app should render")
	return tf, cat
}

func TestFirstPageRenders(t *testing.T) {
	t.Parallel()
	tf, cat := startListing(t, 35, "")
	defer tf.DumpTailOnFail(t, "first-page", 4096)

	require.True(t, tf.SeePlain("Product 001"))
	assert.True(t, tf.SeePlain("Showing 1-10 of 35 products"))
	assert.True(t, tf.SeePlain("Next"))

	queries := cat.Queries()
	require.NotEmpty(t, queries)
	assert.Equal(t, "sort=relevance&page=1&limit=10", queries[0])
}

func TestNumberedNavigation(t *testing.T) {
	t.Parallel()
	tf, _ := startListing(t, 35, "")
	defer tf.DumpTailOnFail(t, "numbered", 4096)

	require.True(t, tf.SeePlain("Showing 1-10 of 35 products"))

	require.NoError(t, tf.SendKeys(KeyNextPage))
	require.True(t, tf.SeePlain("Showing 11-20 of 35 products"))
	assert.True(t, tf.SeePlain("Product 011"))

	require.NoError(t, tf.SendKeys(">"))
	require.True(t, tf.SeePlain("Showing 31-35 of 35 products"))

	tf.ResetOutput()
	require.NoError(t, tf.SendKeys(KeyBack))
	assert.True(t, tf.SeePlain("Showing 11-20 of 35 products"), "history back restores page 2")
}

func TestFilterPrompt(t *testing.T) {
	t.Parallel()
	tf, cat := startListing(t, 35, "")
	defer tf.DumpTailOnFail(t, "filter", 4096)

	require.True(t, tf.SeePlain("Showing 1-10 of 35 products"))

	require.NoError(t, tf.SendKeys(KeyFilter))
	require.True(t, tf.SeePlain("Filter (type=value):"))
	require.NoError(t, tf.Type("category=suv"))
	require.NoError(t, tf.SendEnter())

	require.True(t, tf.SeePlain("Showing 1-10 of 12 products"))
	assert.True(t, tf.SeePlain("Category: suv"))

	found := false
	for _, q := range cat.Queries() {
		if strings.HasPrefix(q, "category=suv&sort=relevance&page=1") {
			found = true
		}
	}
	assert.True(t, found, "filtered request sent: %v", cat.Queries())

	require.NoError(t, tf.SendKeys(KeyClear))
	assert.True(t, tf.SeePlain("Showing 1-10 of 35 products"))
}

func TestInitialLocation(t *testing.T) {
	t.Parallel()
	tf, _ := startListing(t, 35, "", "-q", "category=truck&page=2")
	defer tf.DumpTailOnFail(t, "location", 4096)

	assert.True(t, tf.SeePlain("Showing 11-12 of 12 products"))
	assert.True(t, tf.SeePlain("?category=truck&sort=relevance&page=2"))
}

func TestLoadMoreMode(t *testing.T) {
	t.Parallel()
	tf, _ := startListing(t, 25, "", "-mode", "loadmore")
	defer tf.DumpTailOnFail(t, "loadmore", 4096)

	require.True(t, tf.SeePlain("Load More Products"))
	require.True(t, tf.SeePlain("Showing 1-10 of 25 products"))

	require.NoError(t, tf.SendKeys(KeyLoadMore))
	require.True(t, tf.SeePlain("Showing 1-20 of 25 products"))

	require.NoError(t, tf.SendKeys(KeyLoadMore))
	require.True(t, tf.SeePlain("Showing 1-25 of 25 products"))
	assert.True(t, tf.SeePlain("No more products to load"))
}

func TestLoadFailureAndRetry(t *testing.T) {
	t.Parallel()
	cat, endpoint := startCatalog(t, 15)
	cat.setFail(true)

	tf := NewTUITest(t)
	defer tf.Cleanup()
	defer tf.DumpTailOnFail(t, "failure", 4096)

	cfgPath, err := tf.CreateWorkspace(endpoint, "")
	require.NoError(t, err)
	require.NoError(t, tf.StartApp("-config", cfgPath))

	require.True(t, tf.OutputContainsPlain("Failed to load products", 5*time.Second))

	cat.setFail(false)
	require.NoError(t, tf.SendKeys(KeyRetry))
	assert.True(t, tf.SeePlain("Showing 1-10 of 15 products"))
}
