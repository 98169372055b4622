package input

import (
	"listingview/internal/ui/presenter"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	View   presenter.View
	Cursor int
}

// CurrentIndex returns the cursor position in the item list
func (c *ModelContext) CurrentIndex() int {
	return c.Cursor
}

// TotalItems returns the number of listed items
func (c *ModelContext) TotalItems() int {
	return len(c.View.Items)
}

// ChipCount returns the number of active filter chips
func (c *ModelContext) ChipCount() int {
	return len(c.View.Chips)
}

// CurrentSort returns the applied sort token
func (c *ModelContext) CurrentSort() string {
	return c.View.Sort.Current
}

// SortOptions returns the selectable sort tokens in display order
func (c *ModelContext) SortOptions() []string {
	out := make([]string, 0, len(c.View.Sort.Options))
	for _, o := range c.View.Sort.Options {
		out = append(out, o.Value)
	}
	return out
}

// ListingMode returns the pagination mode name
func (c *ModelContext) ListingMode() string {
	return string(c.View.Mode)
}

// HasPager reports whether numbered page controls are shown
func (c *ModelContext) HasPager() bool {
	return c.View.Pager != nil
}

// Loading reports whether a fetch is in flight
func (c *ModelContext) Loading() bool {
	return c.View.Loading
}
