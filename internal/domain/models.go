package domain

import (
	"encoding/json"
	"math"
)

// Defaults for a fresh query
const (
	DefaultSort         = "relevance"
	DefaultItemsPerPage = 24
)

// PriceFilterType is the filter type under which the price range is exposed
const PriceFilterType = "price"

// Mode is the pagination style of the listing
type Mode string

const (
	ModeNumbered Mode = "numbered"
	ModeLoadMore Mode = "loadmore"
	ModeInfinite Mode = "infinite"
)

// Modes lists the pagination modes in cycling order
var Modes = []Mode{ModeNumbered, ModeLoadMore, ModeInfinite}

// ParseMode converts a config or flag value into a Mode
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return ModeNumbered, false
}

// Appends reports whether a next-page load extends the item list
func (m Mode) Appends() bool {
	return m == ModeLoadMore || m == ModeInfinite
}

// FilterValue is one selected value of a filter type
type FilterValue struct {
	Value    string
	Metadata map[string]string // display hints such as "label"; never serialized
}

// Label returns the display label, falling back to the raw value
func (v FilterValue) Label() string {
	if l, ok := v.Metadata["label"]; ok && l != "" {
		return l
	}
	return v.Value
}

// FilterGroup holds the values selected for a single filter type.
// A group in a FilterSet is never empty.
type FilterGroup struct {
	Type   string
	Values []FilterValue
}

// FilterSet is the ordered collection of active filter groups
type FilterSet []FilterGroup

// Index returns the position of typ in the set or -1
func (fs FilterSet) Index(typ string) int {
	for i, g := range fs {
		if g.Type == typ {
			return i
		}
	}
	return -1
}

// Has reports whether value is selected under typ
func (fs FilterSet) Has(typ, value string) bool {
	i := fs.Index(typ)
	if i < 0 {
		return false
	}
	for _, v := range fs[i].Values {
		if v.Value == value {
			return true
		}
	}
	return false
}

// Count returns the number of selected values across all types
func (fs FilterSet) Count() int {
	n := 0
	for _, g := range fs {
		n += len(g.Values)
	}
	return n
}

// Clone returns a deep copy of the set; an empty set clones to nil
func (fs FilterSet) Clone() FilterSet {
	if len(fs) == 0 {
		return nil
	}
	out := make(FilterSet, len(fs))
	for i, g := range fs {
		values := make([]FilterValue, len(g.Values))
		for j, v := range g.Values {
			values[j] = FilterValue{Value: v.Value, Metadata: cloneMeta(v.Metadata)}
		}
		out[i] = FilterGroup{Type: g.Type, Values: values}
	}
	return out
}

func cloneMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PriceRange bounds the listing by price. A nil bound is unbounded.
type PriceRange struct {
	Min *float64
	Max *float64
}

// NewPriceRange builds a normalized range from optional bounds.
// Non-finite bounds are dropped, negative bounds clamp to zero and an
// inverted range is swapped. It returns nil when no bound survives.
func NewPriceRange(min, max *float64) *PriceRange {
	lo := finite(min)
	hi := finite(max)
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	if lo == nil && hi == nil {
		return nil
	}
	return &PriceRange{Min: lo, Max: hi}
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	f := *v
	if f < 0 {
		f = 0
	}
	return &f
}

// Clone returns a copy that shares no pointers with r
func (r *PriceRange) Clone() *PriceRange {
	if r == nil {
		return nil
	}
	out := &PriceRange{}
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// QueryState is the canonical description of the requested listing
type QueryState struct {
	Filters      FilterSet
	Price        *PriceRange
	Sort         string
	Page         int
	ItemsPerPage int
}

// NewQueryState returns the empty state for the given sort and page size
func NewQueryState(sort string, itemsPerPage int) QueryState {
	if sort == "" {
		sort = DefaultSort
	}
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return QueryState{Sort: sort, Page: 1, ItemsPerPage: itemsPerPage}
}

// Clone returns a deep copy of the state
func (q QueryState) Clone() QueryState {
	q.Filters = q.Filters.Clone()
	q.Price = q.Price.Clone()
	return q
}

// HasFilters reports whether any filter or price bound is active
func (q QueryState) HasFilters() bool {
	return len(q.Filters) > 0 || q.Price != nil
}

// FilterCount counts selected values, with the price range counting as one
func (q QueryState) FilterCount() int {
	n := q.Filters.Count()
	if q.Price != nil {
		n++
	}
	return n
}

// Item is a listing entry passed through untouched from the endpoint
type Item = json.RawMessage

// Page is one successful response of the listing endpoint
type Page struct {
	Items []Item
	Total int
}

// TotalPages returns ceil(total / itemsPerPage)
func TotalPages(total, itemsPerPage int) int {
	if total <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (total + itemsPerPage - 1) / itemsPerPage
}

// FailureKind classifies a failed primary fetch
type FailureKind string

const (
	FailureNetwork   FailureKind = "network"
	FailureMalformed FailureKind = "malformed"
)
