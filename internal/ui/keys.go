package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap documents the normal mode bindings for the help screen. Dispatch
// itself lives in the input package.
type keyMap struct {
	Up, Down, PageUp, PageDown, Top, Bottom key.Binding
	NextPage, PrevPage, FirstLast, Jump     key.Binding
	LoadMore, CycleMode                     key.Binding
	Filter, Price, Sort, PageSize, Chips    key.Binding
	Clear, Reset, Retry                     key.Binding
	Back, Forward                           key.Binding
	Show, Help, Quit                        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Top:       key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first item")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last item")),
		NextPage:  key.NewBinding(key.WithKeys("n", "l", "right"), key.WithHelp("n/→", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("p", "h", "left"), key.WithHelp("p/←", "previous page")),
		FirstLast: key.NewBinding(key.WithKeys("<", ">"), key.WithHelp("</>", "first/last page")),
		Jump:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to page")),
		LoadMore:  key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m/space", "load more")),
		CycleMode: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "switch pagination mode")),
		Filter:    key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f or /", "add filter")),
		Price:     key.NewBinding(key.WithKeys("$"), key.WithHelp("$", "price range")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		PageSize:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "items per page")),
		Chips:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove filters")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all filters")),
		Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset listing")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "history back")),
		Forward:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "history forward")),
		Show:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "show item")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Filter, k.Sort, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Show},
		{k.NextPage, k.PrevPage, k.FirstLast, k.Jump, k.LoadMore, k.CycleMode},
		{k.Filter, k.Price, k.Sort, k.PageSize, k.Chips, k.Clear},
		{k.Reset, k.Retry, k.Back, k.Forward, k.Help, k.Quit},
	}
}
