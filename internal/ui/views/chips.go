package views

import (
	"strings"

	"listingview/internal/ui/presenter"
)

// ChipRenderer handles rendering of the active filter row
type ChipRenderer struct {
	styles *Styles
}

// NewChipRenderer creates a new chip renderer
func NewChipRenderer(styles *Styles) *ChipRenderer {
	return &ChipRenderer{styles: styles}
}

// RenderChips renders the active filters. selected is the chip focused in
// chip mode, or -1.
func (r *ChipRenderer) RenderChips(chips []presenter.Chip, selected int) string {
	if len(chips) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(chips)+1)
	for _, c := range chips {
		text := c.TypeLabel + ": " + c.Label + " ×"
		if c.Index == selected {
			rendered = append(rendered, r.styles.ChipSelected.Render(text))
		} else {
			rendered = append(rendered, r.styles.Chip.Render(text))
		}
	}
	line := strings.Join(rendered, " ")
	if selected >= 0 {
		return line + "  " + r.styles.Dim.Render("←/→ select • x remove • c clear all • esc done")
	}
	return line + "  " + r.styles.Dim.Render("(x edit • c clear all)")
}
