// Package querycodec converts listing query state to and from query strings.
//
// Two encodings exist. The location form is what the history shows: page 1
// and the default page size are omitted. The request form is what the
// listing endpoint receives: page and limit are always present. Both keep
// filter types in selection order followed by the price bounds, sort, page
// and limit.
package querycodec

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"listingview/internal/domain"
)

// Reserved query keys; they can never name a filter type
const (
	KeySort         = "sort"
	KeyPage         = "page"
	KeyLimit        = "limit"
	KeyItemsPerPage = "itemsPerPage"
	KeyPriceMin     = "price_min"
	KeyPriceMax     = "price_max"
)

var reserved = map[string]bool{
	KeySort:                true,
	KeyPage:                true,
	KeyLimit:               true,
	KeyItemsPerPage:        true,
	KeyPriceMin:            true,
	KeyPriceMax:            true,
	domain.PriceFilterType: true,
}

// IsReserved reports whether key is used by the codec itself
func IsReserved(key string) bool {
	return reserved[key]
}

// Options configures the defaults a codec omits or falls back to
type Options struct {
	DefaultSort         string
	DefaultItemsPerPage int
}

// Codec encodes and decodes QueryState
type Codec struct {
	defaultSort  string
	defaultLimit int
}

// New creates a codec
func New(opts Options) *Codec {
	if opts.DefaultSort == "" {
		opts.DefaultSort = domain.DefaultSort
	}
	if opts.DefaultItemsPerPage <= 0 {
		opts.DefaultItemsPerPage = domain.DefaultItemsPerPage
	}
	return &Codec{defaultSort: opts.DefaultSort, defaultLimit: opts.DefaultItemsPerPage}
}

// DefaultState returns the state an empty location decodes to
func (c *Codec) DefaultState() domain.QueryState {
	return domain.NewQueryState(c.defaultSort, c.defaultLimit)
}

// EncodeLocation renders the state for the address bar
func (c *Codec) EncodeLocation(q domain.QueryState) string {
	var b builder
	writeFilters(&b, q)
	b.add(KeySort, sortOf(q, c.defaultSort))
	if q.Page > 1 {
		b.add(KeyPage, strconv.Itoa(q.Page))
	}
	if q.ItemsPerPage > 0 && q.ItemsPerPage != c.defaultLimit {
		b.add(KeyLimit, strconv.Itoa(q.ItemsPerPage))
	}
	return b.String()
}

// EncodeRequest renders the state for the listing endpoint
func (c *Codec) EncodeRequest(q domain.QueryState) string {
	var b builder
	writeFilters(&b, q)
	b.add(KeySort, sortOf(q, c.defaultSort))
	page := q.Page
	if page < 1 {
		page = 1
	}
	b.add(KeyPage, strconv.Itoa(page))
	limit := q.ItemsPerPage
	if limit <= 0 {
		limit = c.defaultLimit
	}
	b.add(KeyLimit, strconv.Itoa(limit))
	return b.String()
}

// Decode parses a location or request query string. Unparseable values fall
// back to defaults instead of failing; repeated filter values are deduplicated.
func (c *Codec) Decode(raw string) domain.QueryState {
	q := c.DefaultState()
	var min, max *float64

	for _, kv := range splitPairs(raw) {
		key, value := kv[0], kv[1]
		switch key {
		case KeySort:
			if value != "" {
				q.Sort = value
			}
		case KeyPage:
			if n, err := strconv.Atoi(value); err == nil && n >= 1 {
				q.Page = n
			}
		case KeyLimit, KeyItemsPerPage:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				q.ItemsPerPage = n
			}
		case KeyPriceMin:
			min = parsePrice(value)
		case KeyPriceMax:
			max = parsePrice(value)
		default:
			if key == "" || value == "" || IsReserved(key) {
				continue
			}
			q.Filters = appendValue(q.Filters, key, value)
		}
	}

	q.Price = domain.NewPriceRange(min, max)
	return q
}

// FormatPrice renders a bound the way it appears in a query string
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func sortOf(q domain.QueryState, def string) string {
	if q.Sort == "" {
		return def
	}
	return q.Sort
}

func writeFilters(b *builder, q domain.QueryState) {
	for _, g := range q.Filters {
		for _, v := range g.Values {
			b.add(g.Type, v.Value)
		}
	}
	if q.Price != nil {
		if q.Price.Min != nil {
			b.add(KeyPriceMin, FormatPrice(*q.Price.Min))
		}
		if q.Price.Max != nil {
			b.add(KeyPriceMax, FormatPrice(*q.Price.Max))
		}
	}
}

func appendValue(fs domain.FilterSet, typ, value string) domain.FilterSet {
	i := fs.Index(typ)
	if i < 0 {
		return append(fs, domain.FilterGroup{Type: typ, Values: []domain.FilterValue{{Value: value}}})
	}
	if fs.Has(typ, value) {
		return fs
	}
	fs[i].Values = append(fs[i].Values, domain.FilterValue{Value: value})
	return fs
}

// splitPairs parses a query string keeping key order, which url.ParseQuery loses
func splitPairs(raw string) [][2]string {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil
	}
	var out [][2]string
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		out = append(out, [2]string{k, v})
	}
	return out
}

type builder struct {
	sb strings.Builder
}

func (b *builder) add(key, value string) {
	if b.sb.Len() > 0 {
		b.sb.WriteByte('&')
	}
	b.sb.WriteString(url.QueryEscape(key))
	b.sb.WriteByte('=')
	b.sb.WriteString(url.QueryEscape(value))
}

func (b *builder) String() string {
	return b.sb.String()
}

// Key identifies a cached response. Filters holds the escaped, order
// independent encoding of filters and price, so values containing
// delimiters cannot collide.
type Key struct {
	Filters      string
	Sort         string
	Page         int
	ItemsPerPage int
}

// Key computes the cache key for q
func (c *Codec) Key(q domain.QueryState) Key {
	pairs := make([]string, 0, q.FilterCount()+1)
	for _, g := range q.Filters {
		for _, v := range g.Values {
			pairs = append(pairs, url.QueryEscape(g.Type)+"="+url.QueryEscape(v.Value))
		}
	}
	sort.Strings(pairs)
	if q.Price != nil {
		var lo, hi string
		if q.Price.Min != nil {
			lo = FormatPrice(*q.Price.Min)
		}
		if q.Price.Max != nil {
			hi = FormatPrice(*q.Price.Max)
		}
		pairs = append(pairs, KeyPriceMin+"="+lo+"&"+KeyPriceMax+"="+hi)
	}
	limit := q.ItemsPerPage
	if limit <= 0 {
		limit = c.defaultLimit
	}
	return Key{
		Filters:      strings.Join(pairs, "&"),
		Sort:         sortOf(q, c.defaultSort),
		Page:         q.Page,
		ItemsPerPage: limit,
	}
}
