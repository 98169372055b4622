package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"listingview/internal/ui/input/types"
)

// SortSelectMode cycles through the configured sort options. The choice is
// only applied on enter, since every sort change refetches page 1.
type SortSelectMode struct {
	options   []string
	sortIndex int
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.options = ctx.SortOptions()
	m.sortIndex = 0
	for i, option := range m.options {
		if option == ctx.CurrentSort() {
			m.sortIndex = i
			break
		}
	}
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "enter":
		actions := []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}
		if len(m.options) > 0 {
			actions = append([]types.Action{types.SortByAction{Sort: m.options[m.sortIndex]}}, actions...)
		}
		return actions, true

	case "up", "k":
		return m.move(-1), true

	case "down", "j":
		return m.move(1), true
	}

	return nil, false
}

func (m *SortSelectMode) move(delta int) []types.Action {
	if len(m.options) == 0 {
		return nil
	}
	m.sortIndex = (m.sortIndex + delta + len(m.options)) % len(m.options)
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}
