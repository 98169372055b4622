package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"listingview/internal/ui/presenter"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	View           presenter.View
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	Location       string
	StatusMessage  string
	InputMode      string // "", "prompt", "sort" or "chips"
	Prompt         string
	TextInput      string
	SortIndex      int
	ChipIndex      int
	Spinner        string
	HelpLine       string
	CanGoBack      bool
	CanGoForward   bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	itemRender  *ItemRenderer
	chipRender  *ChipRenderer
	pagerRender *PagerRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		itemRender:  NewItemRenderer(styles),
		chipRender:  NewChipRenderer(styles),
		pagerRender: NewPagerRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}
	v := state.View

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	if state.Location != "" {
		content.WriteString(r.styles.Dim.Render("?" + state.Location))
		content.WriteString("\n")
	}

	chipIndex := -1
	if state.InputMode == "chips" {
		chipIndex = state.ChipIndex
	}
	if chips := r.chipRender.RenderChips(v.Chips, chipIndex); chips != "" {
		content.WriteString(chips)
		content.WriteString("\n")
	}

	content.WriteString(r.styles.Dim.Render("Sort: ") + sortLabel(v.Sort))
	content.WriteString("\n")

	if state.InputMode == "prompt" {
		content.WriteString(r.styles.Prompt.Render(state.Prompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n")
	}

	if v.Error != "" {
		content.WriteString(r.styles.StatusError.Render("! " + v.Error))
		content.WriteString(r.styles.Dim.Render("  (r to retry)"))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	switch {
	case v.Empty:
		content.WriteString(r.styles.Dim.Render("No products match the selected filters."))
		content.WriteString("\n")
	case len(v.Items) == 0 && (v.Loading || v.Pending):
		content.WriteString(r.styles.StatusLoading.Render(state.Spinner + " Loading products..."))
		content.WriteString("\n")
	case len(v.Items) > 0:
		content.WriteString(r.renderItemList(state))
		content.WriteString("\n")
	}

	if footer := r.renderFooter(state); footer != "" {
		content.WriteString("\n")
		content.WriteString(footer)
		content.WriteString("\n")
	}

	if v.Info != "" {
		content.WriteString(r.styles.Status.Render(v.Info))
		content.WriteString("\n")
	}

	if state.StatusMessage != "" {
		content.WriteString(r.styles.StatusWarning.Render(state.StatusMessage))
		content.WriteString("\n")
	}

	helpText := r.styles.Help.Render("Press ? for help")
	if state.HelpLine != "" {
		helpText = state.HelpLine
	}
	currentLines := strings.Count(content.String(), "\n") + 1

	// Account for container padding (1 top, 1 bottom from Padding(1, 2))
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	if paddingNeeded := availableLines - currentLines - 1; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString(helpText)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.InputMode == "sort" {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderSortOptions(state), state.Height, state.Width, r.styles.PopupBox)
	}
	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	v := state.View
	logo := r.styles.Title.Render("listingview")

	var indicators []string
	if v.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner+" Loading"))
	} else if v.Pending {
		indicators = append(indicators, r.styles.StatusLoading.Render("… updating"))
	}
	if v.FilterCount > 0 {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Filters: %d]", v.FilterCount)))
	}
	mode := lipgloss.NewStyle().Foreground(lipgloss.Color(ModeColor(string(v.Mode)))).Render(string(v.Mode))
	indicators = append(indicators, mode)
	if state.CanGoBack || state.CanGoForward {
		indicators = append(indicators, r.styles.Dim.Render(historyArrows(state.CanGoBack, state.CanGoForward)))
	}

	right := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func historyArrows(back, forward bool) string {
	l, r := " ", " "
	if back {
		l = "["
	}
	if forward {
		r = "]"
	}
	return l + "history" + r
}

func sortLabel(sc presenter.SortControl) string {
	for _, o := range sc.Options {
		if o.Selected {
			return o.Label
		}
	}
	return sc.Current
}

// renderItemList renders the items inside the viewport with scroll indicators
func (r *Renderer) renderItemList(state ViewState) string {
	items := state.View.Items
	total := len(items)

	effectiveHeight := state.ViewportHeight
	if effectiveHeight <= 0 {
		effectiveHeight = total
	}
	needsTopIndicator := state.ViewportOffset > 0
	needsBottomIndicator := total > state.ViewportOffset+effectiveHeight

	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}

	var lines []string
	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}

	start := state.ViewportOffset
	end := min(start+max(effectiveHeight, 1), total)
	for i := start; i < end; i++ {
		number := state.View.Offset + i + 1
		lines = append(lines, r.itemRender.RenderItem(items[i], number, i == state.Cursor, state.Width))
	}

	if needsBottomIndicator {
		below := max(total-end, 0)
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFooter(state ViewState) string {
	v := state.View
	switch {
	case v.Pager != nil:
		return r.pagerRender.RenderPager(v.Pager)
	case v.LoadMore != nil && len(v.Items) > 0:
		return r.pagerRender.RenderLoadMore(v.LoadMore)
	case v.Infinite != nil && len(v.Items) > 0:
		return r.pagerRender.RenderInfinite(v.Infinite, state.Spinner)
	}
	return ""
}

// renderSortOptions renders the sort selection popup
func (r *Renderer) renderSortOptions(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Sort by"))
	b.WriteString("\n\n")
	for i, o := range state.View.Sort.Options {
		marker := "  "
		label := o.Label
		if i == state.SortIndex {
			marker = "> "
			label = r.styles.Highlight.Render(label)
		}
		if o.Selected {
			label += r.styles.Dim.Render(" (current)")
		}
		b.WriteString(marker + label + "\n")
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render("↑/↓ or j/k to change • Enter to accept • Esc to cancel"))
	return b.String()
}
