package coordinator

import (
	"listingview/internal/domain"
	"listingview/internal/ui/services/query"
)

// State is a consistent copy of everything a view needs
type State struct {
	Query        domain.QueryState
	Mode         domain.Mode
	Items        []domain.Item
	FirstPage    int // page the first item belongs to
	Total        int
	TotalKnown   bool
	TotalPages   int
	HasMore      bool
	Loading      bool
	Err          string
	PendingFetch bool // a debounced fetch has not fired yet
}

// Snapshot returns a copy of the current state
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.Item, len(c.items))
	copy(items, c.items)
	return State{
		Query:        c.state.Clone(),
		Mode:         c.mode,
		Items:        items,
		FirstPage:    max(c.firstPage, 1),
		Total:        c.total,
		TotalKnown:   c.totalKnown,
		TotalPages:   c.totalPagesLocked(),
		HasMore:      c.hasMoreLocked(),
		Loading:      c.loading,
		Err:          c.lastErr,
		PendingFetch: c.debounce.Pending(),
	}
}

// HasFilter reports whether value is selected under typ
func (c *Coordinator) HasFilter(typ, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filters.Has(typ, value)
}

// FilterCount counts selected values, the price range counting as one
func (c *Coordinator) FilterCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.FilterCount()
}

// ActiveFilters lists the selected filters in display order
func (c *Coordinator) ActiveFilters() []query.ActiveFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return query.Flatten(c.state)
}

// Location is the shareable query string for the current state
func (c *Coordinator) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.EncodeLocation(c.state)
}

// RequestQuery is the query string the next fetch of the current state sends
func (c *Coordinator) RequestQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.EncodeRequest(c.state)
}
