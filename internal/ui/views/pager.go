package views

import (
	"strconv"
	"strings"

	"listingview/internal/ui/presenter"
)

// PagerRenderer handles the controls below the item list
type PagerRenderer struct {
	styles *Styles
}

// NewPagerRenderer creates a new pager renderer
func NewPagerRenderer(styles *Styles) *PagerRenderer {
	return &PagerRenderer{styles: styles}
}

// RenderPager renders the numbered page links with previous and next
func (r *PagerRenderer) RenderPager(p *presenter.Pager) string {
	if p == nil {
		return ""
	}
	parts := []string{r.button(p.Prev)}
	for _, link := range p.Pages {
		switch {
		case link.Ellipsis:
			parts = append(parts, r.styles.Dim.Render("..."))
		case link.Current:
			parts = append(parts, r.styles.PageCurrent.Render(" "+strconv.Itoa(link.Number)+" "))
		case p.Disabled:
			parts = append(parts, r.styles.Disabled.Render(strconv.Itoa(link.Number)))
		default:
			parts = append(parts, r.styles.PageLink.Render(strconv.Itoa(link.Number)))
		}
	}
	parts = append(parts, r.button(p.Next))

	line := strings.Join(parts, " ")
	if p.Jumper {
		line += "  " + r.styles.Dim.Render("g go to page")
	}
	return line
}

func (r *PagerRenderer) button(b presenter.NavButton) string {
	if b.Disabled {
		return r.styles.Disabled.Render(b.Label)
	}
	return r.styles.Button.Render(b.Label)
}

// RenderLoadMore renders the load more control or its end marker
func (r *PagerRenderer) RenderLoadMore(b *presenter.LoadMoreButton) string {
	switch {
	case b == nil:
		return ""
	case b.End:
		return r.styles.Dim.Render(b.Label)
	case b.Disabled:
		return r.styles.Disabled.Render("[ " + b.Label + " ]")
	}
	return r.styles.Button.Render("[ "+b.Label+" ]") + "  " + r.styles.Dim.Render("m / space")
}

// RenderInfinite renders the sentinel line of an infinite list
func (r *PagerRenderer) RenderInfinite(s *presenter.InfiniteStatus, spinner string) string {
	switch {
	case s == nil || s.Text == "":
		return ""
	case s.Loading:
		return r.styles.StatusLoading.Render(spinner + " " + s.Text)
	}
	return r.styles.Dim.Render(s.Text)
}
