// Package query applies filter mutations to a QueryState. Every function is
// pure: it returns a new state and whether anything changed, leaving page
// handling and fetching to the caller.
package query

import (
	"fmt"

	"listingview/internal/domain"
	"listingview/internal/querycodec"
)

// ValidType reports whether typ can name a regular filter
func ValidType(typ string) bool {
	return typ != "" && !querycodec.IsReserved(typ)
}

// AddFilter appends value under typ unless it is already selected
func AddFilter(q domain.QueryState, typ, value string, meta map[string]string) (domain.QueryState, bool) {
	if !ValidType(typ) || value == "" || q.Filters.Has(typ, value) {
		return q, false
	}

	next := q.Clone()
	fv := domain.FilterValue{Value: value}
	if len(meta) > 0 {
		fv.Metadata = make(map[string]string, len(meta))
		for k, v := range meta {
			fv.Metadata[k] = v
		}
	}
	if i := next.Filters.Index(typ); i >= 0 {
		next.Filters[i].Values = append(next.Filters[i].Values, fv)
	} else {
		next.Filters = append(next.Filters, domain.FilterGroup{Type: typ, Values: []domain.FilterValue{fv}})
	}
	return next, true
}

// RemoveFilter drops value from typ, deleting the type when it empties
func RemoveFilter(q domain.QueryState, typ, value string) (domain.QueryState, bool) {
	if !q.Filters.Has(typ, value) {
		return q, false
	}

	next := q.Clone()
	i := next.Filters.Index(typ)
	kept := next.Filters[i].Values[:0]
	for _, v := range next.Filters[i].Values {
		if v.Value != value {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		next.Filters = append(next.Filters[:i], next.Filters[i+1:]...)
		if len(next.Filters) == 0 {
			next.Filters = nil
		}
	} else {
		next.Filters[i].Values = kept
	}
	return next, true
}

// ToggleFilter removes value if selected, adds it otherwise
func ToggleFilter(q domain.QueryState, typ, value string, meta map[string]string) (domain.QueryState, bool) {
	if q.Filters.Has(typ, value) {
		return RemoveFilter(q, typ, value)
	}
	return AddFilter(q, typ, value, meta)
}

// SetPrice replaces the price range with the normalized bounds
func SetPrice(q domain.QueryState, min, max *float64) (domain.QueryState, bool) {
	r := domain.NewPriceRange(min, max)
	if priceEqual(q.Price, r) {
		return q, false
	}
	next := q.Clone()
	next.Price = r
	return next, true
}

// SetPriceMin updates the lower bound and keeps the upper one
func SetPriceMin(q domain.QueryState, min *float64) (domain.QueryState, bool) {
	var max *float64
	if q.Price != nil {
		max = q.Price.Max
	}
	return SetPrice(q, min, max)
}

// SetPriceMax updates the upper bound and keeps the lower one
func SetPriceMax(q domain.QueryState, max *float64) (domain.QueryState, bool) {
	var min *float64
	if q.Price != nil {
		min = q.Price.Min
	}
	return SetPrice(q, min, max)
}

// ClearFilters removes every filter and the price range
func ClearFilters(q domain.QueryState) (domain.QueryState, bool) {
	if !q.HasFilters() {
		return q, false
	}
	next := q.Clone()
	next.Filters = nil
	next.Price = nil
	return next, true
}

// Flatten lists the active filters in display order, price last
func Flatten(q domain.QueryState) []ActiveFilter {
	out := make([]ActiveFilter, 0, q.FilterCount())
	for _, g := range q.Filters {
		for _, v := range g.Values {
			out = append(out, ActiveFilter{Type: g.Type, Value: v.Value, Label: v.Label()})
		}
	}
	if q.Price != nil {
		out = append(out, ActiveFilter{
			Type:  domain.PriceFilterType,
			Value: PriceValue(q.Price),
			Label: PriceLabel(q.Price),
			Price: true,
		})
	}
	return out
}

// PriceValue renders a range as "min-max" with open ends left blank
func PriceValue(r *domain.PriceRange) string {
	var lo, hi string
	if r.Min != nil {
		lo = querycodec.FormatPrice(*r.Min)
	}
	if r.Max != nil {
		hi = querycodec.FormatPrice(*r.Max)
	}
	return lo + "-" + hi
}

// PriceLabel renders a range for display
func PriceLabel(r *domain.PriceRange) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%s to %s", querycodec.FormatPrice(*r.Min), querycodec.FormatPrice(*r.Max))
	case r.Min != nil:
		return "from " + querycodec.FormatPrice(*r.Min)
	default:
		return "up to " + querycodec.FormatPrice(*r.Max)
	}
}

func priceEqual(a, b *domain.PriceRange) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return boundEqual(a.Min, b.Min) && boundEqual(a.Max, b.Max)
}

func boundEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
