package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves between result pages
type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

type LoadMoreAction struct{}

func (a LoadMoreAction) Type() string { return "load_more" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for prompt modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Filter actions
type ClearFiltersAction struct{}

func (a ClearFiltersAction) Type() string { return "clear_filters" }

type RemoveChipAction struct {
	Index int
}

func (a RemoveChipAction) Type() string { return "remove_chip" }

type UpdateChipIndexAction struct {
	Index int
}

func (a UpdateChipIndexAction) Type() string { return "update_chip_index" }

// Sort actions
type SortByAction struct {
	Sort string
}

func (a SortByAction) Type() string { return "sort_by" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }

// Listing actions
type ResetAction struct{}

func (a ResetAction) Type() string { return "reset" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type CycleModeAction struct{}

func (a CycleModeAction) Type() string { return "cycle_mode" }

// HistoryAction walks the location history
type HistoryAction struct {
	Direction string // "back" or "forward"
}

func (a HistoryAction) Type() string { return "history" }

type ShowItemAction struct{}

func (a ShowItemAction) Type() string { return "show_item" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
