// Package presenter turns coordinator state into a toolkit-neutral View and
// maps user gestures back onto coordinator operations.
package presenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"listingview/internal/domain"
	"listingview/internal/ui/coordinator"
	"listingview/internal/ui/services/query"
)

// DefaultMaxVisiblePages is the size of the numbered page window
const DefaultMaxVisiblePages = 7

// ErrInvalidJump is returned for jumper input that is not a reachable page
var ErrInvalidJump = errors.New("not a valid page")

// Source is the slice of the coordinator the presenter drives
type Source interface {
	Snapshot() coordinator.State
	Subscribe(listener func(domain.DomainEvent)) func()
	SetPage(n int) error
	LoadNextPage() bool
	RemoveFilter(typ, value string)
	ClearPriceRange()
	ClearFilters()
	SetSort(token string)
	ToggleFilter(typ, value string, meta map[string]string)
}

// SortOption is one entry of the sort control
type SortOption struct {
	Value string
	Label string
}

var sortLabels = map[string]string{
	"relevance":  "Relevance",
	"price_asc":  "Price: low to high",
	"price_desc": "Price: high to low",
	"newest":     "Newest",
	"rating":     "Top rated",
	"name":       "Name",
}

// SortOptionsFor labels sort tokens, falling back to the token itself
func SortOptionsFor(tokens []string) []SortOption {
	out := make([]SortOption, 0, len(tokens))
	for _, t := range tokens {
		label, ok := sortLabels[t]
		if !ok {
			label = t
		}
		out = append(out, SortOption{Value: t, Label: label})
	}
	return out
}

// Options configures what the presenter shows
type Options struct {
	MaxVisiblePages int
	ShowJumper      bool
	ShowInfo        bool
	SortOptions     []SortOption
}

// Presenter builds views from a Source
type Presenter struct {
	source Source
	opts   Options
}

// New creates a presenter
func New(source Source, opts Options) *Presenter {
	if opts.MaxVisiblePages < 5 {
		opts.MaxVisiblePages = DefaultMaxVisiblePages
	}
	return &Presenter{source: source, opts: opts}
}

// Attach calls render with a fresh view now and after every coordinator event
func (p *Presenter) Attach(render func(View)) func() {
	render(p.Build())
	return p.source.Subscribe(func(domain.DomainEvent) {
		render(p.Build())
	})
}

// Build renders the current coordinator state
func (p *Presenter) Build() View {
	s := p.source.Snapshot()
	v := View{
		Mode:        s.Mode,
		Items:       s.Items,
		Loading:     s.Loading,
		Pending:     s.PendingFetch,
		Error:       s.Err,
		Total:       s.Total,
		FilterCount: s.Query.FilterCount(),
		Sort:        p.sortControl(s.Query.Sort),
	}
	v.Offset = itemOffset(s)

	for i, f := range query.Flatten(s.Query) {
		v.Chips = append(v.Chips, Chip{
			Index:     i,
			Type:      f.Type,
			TypeLabel: FormatType(f.Type),
			Value:     f.Value,
			Label:     f.Label,
			Price:     f.Price,
		})
	}
	v.ClearAllEnabled = len(v.Chips) > 0

	if s.TotalKnown && s.Total == 0 && !s.Loading {
		v.Empty = true
	}
	if p.opts.ShowInfo && s.TotalKnown && s.Total > 0 {
		v.Info = infoText(s)
	}

	switch s.Mode {
	case domain.ModeLoadMore:
		v.LoadMore = loadMore(s)
	case domain.ModeInfinite:
		v.Infinite = infinite(s)
	default:
		v.Pager = p.pager(s)
	}
	return v
}

func (p *Presenter) sortControl(current string) SortControl {
	sc := SortControl{Current: current}
	found := false
	for _, o := range p.opts.SortOptions {
		sel := o.Value == current
		found = found || sel
		sc.Options = append(sc.Options, SortChoice{Value: o.Value, Label: o.Label, Selected: sel})
	}
	if !found && current != "" {
		sc.Options = append(sc.Options, SortChoice{Value: current, Label: current, Selected: true})
	}
	return sc
}

func (p *Presenter) pager(s coordinator.State) *Pager {
	if s.TotalPages <= 1 {
		return nil
	}
	cur := s.Query.Page
	return &Pager{
		Current:    cur,
		TotalPages: s.TotalPages,
		Pages:      VisiblePages(cur, s.TotalPages, p.opts.MaxVisiblePages),
		Prev:       NavButton{Label: "Previous", Target: cur - 1, Disabled: cur <= 1 || s.Loading},
		Next:       NavButton{Label: "Next", Target: cur + 1, Disabled: cur >= s.TotalPages || s.Loading},
		Jumper:     p.opts.ShowJumper,
		Disabled:   s.Loading,
	}
}

func loadMore(s coordinator.State) *LoadMoreButton {
	if !s.TotalKnown {
		return nil
	}
	if !s.HasMore && !s.Loading {
		return &LoadMoreButton{End: true, Label: "No more products to load"}
	}
	if s.Loading {
		return &LoadMoreButton{Label: "Loading...", Disabled: true}
	}
	return &LoadMoreButton{Label: "Load More Products"}
}

func infinite(s coordinator.State) *InfiniteStatus {
	switch {
	case s.Loading:
		return &InfiniteStatus{Loading: true, Text: "Loading more products..."}
	case s.TotalKnown && !s.HasMore:
		return &InfiniteStatus{End: true, Text: "You've reached the end"}
	}
	return &InfiniteStatus{}
}

// itemOffset is the listing position of the first held item. Appending modes
// count from the page the accumulated list started at.
func itemOffset(s coordinator.State) int {
	page := s.Query.Page
	if s.Mode.Appends() {
		page = s.FirstPage
	}
	if page <= 1 {
		return 0
	}
	return (page - 1) * s.Query.ItemsPerPage
}

// infoText summarizes the visible range
func infoText(s coordinator.State) string {
	offset := itemOffset(s)
	start := offset + 1
	end := min(offset+s.Query.ItemsPerPage, s.Total)
	if s.Mode.Appends() {
		end = min(offset+len(s.Items), s.Total)
	}
	if end < start {
		start = end
	}
	return fmt.Sprintf("Showing %d-%d of %d products", start, end, s.Total)
}

// VisiblePages lays out at most window page links around current, always
// keeping the first and last page and marking gaps with ellipses.
func VisiblePages(current, total, window int) []PageLink {
	if total <= 0 {
		return nil
	}
	link := func(n int) PageLink { return PageLink{Number: n, Current: n == current} }

	if total <= window {
		pages := make([]PageLink, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, link(i))
		}
		return pages
	}

	pages := []PageLink{link(1)}
	start := max(2, current-(window-3)/2)
	end := min(total-1, start+window-4)
	if end == total-1 {
		start = max(2, end-(window-4))
	}
	if start > 2 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		pages = append(pages, link(i))
	}
	if end < total-1 {
		pages = append(pages, PageLink{Ellipsis: true})
	}
	return append(pages, link(total))
}

// FormatType capitalizes a filter type for display
func FormatType(typ string) string {
	if typ == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(typ)
	return string(unicode.ToUpper(r)) + typ[size:]
}

// ClickPage navigates to page n
func (p *Presenter) ClickPage(n int) error {
	return p.source.SetPage(n)
}

// Prev navigates one page back
func (p *Presenter) Prev() error {
	s := p.source.Snapshot()
	if s.Loading || s.Query.Page <= 1 {
		return nil
	}
	return p.source.SetPage(s.Query.Page - 1)
}

// Next navigates one page forward
func (p *Presenter) Next() error {
	s := p.source.Snapshot()
	if s.Loading || s.Query.Page >= s.TotalPages {
		return nil
	}
	return p.source.SetPage(s.Query.Page + 1)
}

// Jump navigates to the page typed into the jumper. Input that is not a
// page in [1, totalPages] is rejected and leaves the page unchanged.
func (p *Presenter) Jump(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidJump, input)
	}
	if s := p.source.Snapshot(); n < 1 || n > s.TotalPages {
		return fmt.Errorf("%w: %d", ErrInvalidJump, n)
	}
	return p.source.SetPage(n)
}

// LoadMore requests the next page in appending modes
func (p *Presenter) LoadMore() bool {
	return p.source.LoadNextPage()
}

// RemoveChip removes the filter shown at chip index i
func (p *Presenter) RemoveChip(i int) bool {
	chips := query.Flatten(p.source.Snapshot().Query)
	if i < 0 || i >= len(chips) {
		return false
	}
	c := chips[i]
	if c.Price {
		p.source.ClearPriceRange()
	} else {
		p.source.RemoveFilter(c.Type, c.Value)
	}
	return true
}

// ClearAll removes every filter
func (p *Presenter) ClearAll() {
	p.source.ClearFilters()
}

// SelectSort applies a sort option
func (p *Presenter) SelectSort(value string) {
	p.source.SetSort(value)
}

// ToggleFilter flips a filter option
func (p *Presenter) ToggleFilter(typ, value, label string) {
	var meta map[string]string
	if label != "" && label != value {
		meta = map[string]string{"label": label}
	}
	p.source.ToggleFilter(typ, value, meta)
}
