package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"listingview/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case tea.KeyRight:
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ShowItemAction{}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "n", "l":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "p", "h":
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "<":
		return []types.Action{types.PageAction{Direction: "first"}}, true

	case ">":
		return []types.Action{types.PageAction{Direction: "last"}}, true

	case "g":
		if ctx.HasPager() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeJump}}, true
		}
		return nil, true

	case "m", " ":
		if ctx.ListingMode() != "numbered" {
			return []types.Action{types.LoadMoreAction{}}, true
		}
		return nil, true

	case "f", "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case "$":
		return []types.Action{types.ChangeModeAction{Mode: types.ModePrice}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "L":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeItemsPerPage}}, true

	case "x":
		if ctx.ChipCount() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeChips}}, true
		}
		return nil, true

	case "c":
		return []types.Action{types.ClearFiltersAction{}}, true

	case "R":
		return []types.Action{types.ResetAction{}}, true

	case "r":
		return []types.Action{types.RetryAction{}}, true

	case "M":
		return []types.Action{types.CycleModeAction{}}, true

	case "[":
		return []types.Action{types.HistoryAction{Direction: "back"}}, true

	case "]":
		return []types.Action{types.HistoryAction{Direction: "forward"}}, true

	case "i":
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ShowItemAction{}}, true
		}
		return nil, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
