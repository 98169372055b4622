package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingview/internal/domain"
)

func fp(v float64) *float64 { return &v }

func empty() domain.QueryState { return domain.NewQueryState("", 0) }

func TestAddRemoveParity(t *testing.T) {
	ops := [][]bool{
		{true},
		{true, true},
		{true, false},
		{true, false, false, true},
		{false, true, true, false, true},
		{false, false},
	}
	for _, seq := range ops {
		q := empty()
		want := false
		for _, add := range seq {
			if add {
				q, _ = AddFilter(q, "category", "sedan", nil)
				want = true
			} else {
				q, _ = RemoveFilter(q, "category", "sedan")
				want = false
			}
		}
		assert.Equal(t, want, q.Filters.Has("category", "sedan"), "sequence %v", seq)
		if !want {
			assert.Nil(t, q.Filters, "empty type must be deleted for %v", seq)
		}
	}
}

func TestAddFilterDoesNotMutateInput(t *testing.T) {
	q, _ := AddFilter(empty(), "category", "sedan", map[string]string{"label": "Sedan"})
	next, changed := AddFilter(q, "category", "suv", nil)
	require.True(t, changed)

	assert.Len(t, q.Filters[0].Values, 1)
	assert.Len(t, next.Filters[0].Values, 2)
	assert.Equal(t, "Sedan", next.Filters[0].Values[0].Label())
}

func TestAddFilterRejectsReservedAndEmpty(t *testing.T) {
	for _, typ := range []string{"", "sort", "page", "price", "price_min", "limit"} {
		_, changed := AddFilter(empty(), typ, "x", nil)
		assert.False(t, changed, typ)
	}
	_, changed := AddFilter(empty(), "category", "", nil)
	assert.False(t, changed)
}

func TestRemoveKeepsOtherValuesInOrder(t *testing.T) {
	q := empty()
	q, _ = AddFilter(q, "category", "a", nil)
	q, _ = AddFilter(q, "category", "b", nil)
	q, _ = AddFilter(q, "category", "c", nil)
	q, _ = AddFilter(q, "brand", "x", nil)

	q, changed := RemoveFilter(q, "category", "b")
	require.True(t, changed)
	assert.Equal(t, []ActiveFilter{
		{Type: "category", Value: "a", Label: "a"},
		{Type: "category", Value: "c", Label: "c"},
		{Type: "brand", Value: "x", Label: "x"},
	}, Flatten(q))

	_, changed = RemoveFilter(q, "category", "zzz")
	assert.False(t, changed)
}

func TestToggleFilter(t *testing.T) {
	q, changed := ToggleFilter(empty(), "color", "red", nil)
	require.True(t, changed)
	assert.True(t, q.Filters.Has("color", "red"))

	q, changed = ToggleFilter(q, "color", "red", nil)
	require.True(t, changed)
	assert.False(t, q.Filters.Has("color", "red"))
}

func TestSetPrice(t *testing.T) {
	q, changed := SetPrice(empty(), fp(30000), fp(10000))
	require.True(t, changed)
	assert.Equal(t, 10000.0, *q.Price.Min)
	assert.Equal(t, 30000.0, *q.Price.Max)

	_, changed = SetPrice(q, fp(10000), fp(30000))
	assert.False(t, changed, "same range is not a change")

	q, changed = SetPriceMax(q, fp(math.NaN()))
	require.True(t, changed)
	assert.Nil(t, q.Price.Max)
	assert.Equal(t, 10000.0, *q.Price.Min)

	q, changed = SetPriceMin(q, nil)
	require.True(t, changed)
	assert.Nil(t, q.Price)
}

func TestPartialBoundsResolveInversion(t *testing.T) {
	q, _ := SetPriceMin(empty(), fp(500))
	q, _ = SetPriceMax(q, fp(100))
	assert.Equal(t, 100.0, *q.Price.Min)
	assert.Equal(t, 500.0, *q.Price.Max)
}

func TestClearFilters(t *testing.T) {
	_, changed := ClearFilters(empty())
	assert.False(t, changed)

	q, _ := AddFilter(empty(), "category", "sedan", nil)
	q, _ = SetPrice(q, fp(1), nil)
	q, changed = ClearFilters(q)
	require.True(t, changed)
	assert.False(t, q.HasFilters())
}

func TestFlattenIncludesPrice(t *testing.T) {
	q, _ := AddFilter(empty(), "category", "sedan", nil)
	q, _ = SetPrice(q, fp(10000), fp(30000))

	flat := Flatten(q)
	require.Len(t, flat, 2)
	assert.Equal(t, ActiveFilter{Type: "price", Value: "10000-30000", Label: "10000 to 30000", Price: true}, flat[1])

	q, _ = SetPrice(q, nil, fp(50))
	assert.Equal(t, "up to 50", Flatten(q)[1].Label)
	q, _ = SetPrice(q, fp(50), nil)
	assert.Equal(t, "from 50", Flatten(q)[1].Label)
}

func TestParseFilterInput(t *testing.T) {
	typ, value, err := ParseFilterInput(" category = sedan ")
	require.NoError(t, err)
	assert.Equal(t, "category", typ)
	assert.Equal(t, "sedan", value)

	_, _, err = ParseFilterInput("")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, _, err = ParseFilterInput("sedan")
	assert.Error(t, err)
	_, _, err = ParseFilterInput("page=2")
	assert.ErrorContains(t, err, "reserved")
}

func TestParsePriceInput(t *testing.T) {
	min, max, err := ParsePriceInput("10000-30000")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, *min)
	assert.Equal(t, 30000.0, *max)

	min, max, err = ParsePriceInput("250-")
	require.NoError(t, err)
	assert.Equal(t, 250.0, *min)
	assert.Nil(t, max)

	min, max, err = ParsePriceInput("-99.5")
	require.NoError(t, err)
	assert.Nil(t, min)
	assert.Equal(t, 99.5, *max)

	min, max, err = ParsePriceInput("")
	require.NoError(t, err)
	assert.Nil(t, min)
	assert.Nil(t, max)

	_, _, err = ParsePriceInput("cheap-")
	assert.Error(t, err)
}
