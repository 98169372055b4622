package presenter

import "listingview/internal/domain"

// View is everything a renderer needs for one frame
type View struct {
	Mode    domain.Mode
	Items   []domain.Item
	Offset  int // listing position of Items[0]
	Total   int
	Loading bool
	Pending bool // filters changed, results not requested yet
	Error   string
	Empty   bool
	Info    string

	Chips           []Chip
	ClearAllEnabled bool
	FilterCount     int
	Sort            SortControl

	// Exactly one of these is set for a loaded listing, matching Mode
	Pager    *Pager
	LoadMore *LoadMoreButton
	Infinite *InfiniteStatus
}

// Chip is one removable active filter
type Chip struct {
	Index     int
	Type      string
	TypeLabel string
	Value     string
	Label     string
	Price     bool
}

// SortControl lists the sort options with the current one selected
type SortControl struct {
	Current string
	Options []SortChoice
}

// SortChoice is a rendered sort option
type SortChoice struct {
	Value    string
	Label    string
	Selected bool
}

// Pager is the numbered pagination control
type Pager struct {
	Current    int
	TotalPages int
	Pages      []PageLink
	Prev       NavButton
	Next       NavButton
	Jumper     bool
	Disabled   bool
}

// PageLink is a page number or an ellipsis
type PageLink struct {
	Number   int
	Current  bool
	Ellipsis bool
}

// NavButton is the previous or next control
type NavButton struct {
	Label    string
	Target   int
	Disabled bool
}

// LoadMoreButton is the loadmore control; End replaces it once exhausted
type LoadMoreButton struct {
	Label    string
	Disabled bool
	End      bool
}

// InfiniteStatus is the sentinel shown below an infinite list
type InfiniteStatus struct {
	Loading bool
	End     bool
	Text    string
}
