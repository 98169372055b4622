package querycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingview/internal/domain"
)

func price(v float64) *float64 { return &v }

func group(typ string, values ...string) domain.FilterGroup {
	g := domain.FilterGroup{Type: typ}
	for _, v := range values {
		g.Values = append(g.Values, domain.FilterValue{Value: v})
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	c := New(Options{})

	cases := map[string]domain.QueryState{
		"no filters": c.DefaultState(),
		"single value filter": {
			Filters: domain.FilterSet{group("category", "sedan")},
			Sort:    "price_asc", Page: 3, ItemsPerPage: 24,
		},
		"multi value filter": {
			Filters: domain.FilterSet{group("category", "sedan", "suv"), group("brand", "a&b=c")},
			Sort:    "relevance", Page: 1, ItemsPerPage: 48,
		},
		"price with only min": {
			Price: &domain.PriceRange{Min: price(10000)},
			Sort:  "relevance", Page: 2, ItemsPerPage: 24,
		},
		"full price range": {
			Filters: domain.FilterSet{group("color", "dark blue")},
			Price:   &domain.PriceRange{Min: price(9.5), Max: price(30000)},
			Sort:    "newest", Page: 1, ItemsPerPage: 24,
		},
	}

	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, q, c.Decode(c.EncodeLocation(q)), "location form")
			assert.Equal(t, q, c.Decode(c.EncodeRequest(q)), "request form")
		})
	}
}

func TestEncodeRequestOrder(t *testing.T) {
	c := New(Options{})
	q := c.DefaultState()
	q.Filters = domain.FilterSet{group("category", "sedan")}
	q.Price = &domain.PriceRange{Min: price(10000), Max: price(30000)}

	assert.Equal(t,
		"category=sedan&price_min=10000&price_max=30000&sort=relevance&page=1&limit=24",
		c.EncodeRequest(q))
}

func TestEncodeLocationOmitsDefaults(t *testing.T) {
	c := New(Options{DefaultItemsPerPage: 24})
	q := c.DefaultState()
	assert.Equal(t, "sort=relevance", c.EncodeLocation(q))

	q.Page = 2
	q.ItemsPerPage = 12
	assert.Equal(t, "sort=relevance&page=2&limit=12", c.EncodeLocation(q))
}

func TestDecodeIsLenient(t *testing.T) {
	c := New(Options{})

	q := c.Decode("?page=abc&price_min=cheap&price_max=500&limit=-3&category=sedan&category=sedan&price=9&sort=")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, domain.DefaultItemsPerPage, q.ItemsPerPage)
	assert.Equal(t, domain.DefaultSort, q.Sort)
	require.NotNil(t, q.Price)
	assert.Nil(t, q.Price.Min)
	assert.Equal(t, 500.0, *q.Price.Max)
	assert.Equal(t, domain.FilterSet{group("category", "sedan")}, q.Filters)
}

func TestDecodeNormalizesInvertedPrice(t *testing.T) {
	c := New(Options{})
	q := c.Decode("price_min=500&price_max=100")
	require.NotNil(t, q.Price)
	assert.Equal(t, 100.0, *q.Price.Min)
	assert.Equal(t, 500.0, *q.Price.Max)
}

func TestDecodeAcceptsItemsPerPageAlias(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, 60, c.Decode("itemsPerPage=60").ItemsPerPage)
}

func TestKeyIsStructuredAndOrderIndependent(t *testing.T) {
	c := New(Options{})

	a := c.DefaultState()
	a.Filters = domain.FilterSet{group("category", "sedan", "suv"), group("brand", "x")}
	b := c.DefaultState()
	b.Filters = domain.FilterSet{group("brand", "x"), group("category", "suv", "sedan")}
	assert.Equal(t, c.Key(a), c.Key(b))

	// "a&b" as one value must not collide with two values "a" and "b"
	joined := c.DefaultState()
	joined.Filters = domain.FilterSet{group("tag", "a&tag=b")}
	split := c.DefaultState()
	split.Filters = domain.FilterSet{group("tag", "a", "b")}
	assert.NotEqual(t, c.Key(joined), c.Key(split))

	next := a
	next.Page = 2
	assert.NotEqual(t, c.Key(a), c.Key(next))
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{"sort", "page", "limit", "itemsPerPage", "price_min", "price_max", "price"} {
		assert.True(t, IsReserved(k), k)
	}
	assert.False(t, IsReserved("category"))
}
