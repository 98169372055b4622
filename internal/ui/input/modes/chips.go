package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"listingview/internal/ui/input/types"
)

// ChipsMode selects an active filter chip for removal
type ChipsMode struct {
	index int
}

func NewChipsMode() *ChipsMode {
	return &ChipsMode{}
}

func (m *ChipsMode) Name() string {
	return "chips"
}

func (m *ChipsMode) Enter(ctx types.Context) []types.Action {
	m.index = 0
	return []types.Action{types.UpdateChipIndexAction{Index: m.index}}
}

func (m *ChipsMode) Exit(ctx types.Context) []types.Action {
	return []types.Action{types.UpdateChipIndexAction{Index: -1}}
}

func (m *ChipsMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	n := ctx.ChipCount()
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "left", "h":
		if n > 0 {
			m.index = (m.index - 1 + n) % n
		}
		return []types.Action{types.UpdateChipIndexAction{Index: m.index}}, true

	case "right", "l", "tab":
		if n > 0 {
			m.index = (m.index + 1) % n
		}
		return []types.Action{types.UpdateChipIndexAction{Index: m.index}}, true

	case "enter", "x", "d", "backspace", "delete":
		if n == 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
		}
		actions := []types.Action{types.RemoveChipAction{Index: m.index}}
		if n == 1 {
			return append(actions, types.ChangeModeAction{Mode: types.ModeNormal}), true
		}
		if m.index >= n-1 {
			m.index = n - 2
		}
		return append(actions, types.UpdateChipIndexAction{Index: m.index}), true

	case "c":
		return []types.Action{
			types.ClearFiltersAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	return nil, false
}
