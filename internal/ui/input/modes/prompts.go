package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"listingview/internal/ui/input/types"
)

type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter (type=value): ", ti),
	}
}

type PriceMode struct {
	TextInputMode
}

func NewPriceMode(ti *textinput.Model) *PriceMode {
	return &PriceMode{
		TextInputMode: NewTextInputMode(types.ModePrice, "price", "Price (min-max, empty clears): ", ti),
	}
}

type JumpMode struct {
	TextInputMode
}

func NewJumpMode(ti *textinput.Model) *JumpMode {
	return &JumpMode{
		TextInputMode: NewTextInputMode(types.ModeJump, "jump", "Go to page: ", ti),
	}
}

type ItemsPerPageMode struct {
	TextInputMode
}

func NewItemsPerPageMode(ti *textinput.Model) *ItemsPerPageMode {
	return &ItemsPerPageMode{
		TextInputMode: NewTextInputMode(types.ModeItemsPerPage, "items-per-page", "Items per page: ", ti),
	}
}
