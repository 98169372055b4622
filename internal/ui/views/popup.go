package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws a popup centered over a greyed out copy of the
// main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	if width <= 0 {
		width = lipgloss.Width(mainContent)
	}
	if height <= 0 {
		height = lipgloss.Height(mainContent)
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	popupLines := strings.Split(styledPopup, "\n")
	out := make([]string, len(base))
	for i, line := range base {
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = dim.Render(line)
			continue
		}
		left, right := splitColumns(line, x, modalW)
		out[i] = dim.Render(left) + popupLines[row] + dim.Render(right)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// splitColumns returns the plain text left of column x, padded to x, and
// the text right of the covered span
func splitColumns(line string, x, span int) (string, string) {
	runes := []rune(line)
	if len(runes) < x {
		return line + strings.Repeat(" ", x-len(runes)), ""
	}
	left := string(runes[:x])
	if x+span >= len(runes) {
		return left, ""
	}
	return left, string(runes[x+span:])
}
