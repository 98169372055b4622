package views

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"listingview/internal/domain"
	"listingview/internal/querycodec"
)

var titleKeys = []string{"name", "title", "label", "model"}

const maxDetailFields = 3

// ItemSummary is the display form of a listing entry
type ItemSummary struct {
	Title   string
	Price   string
	Details []string
}

// Summarize extracts a title, price and a few scalar fields from an item.
// Items that are not JSON objects are shown verbatim.
func Summarize(item domain.Item) ItemSummary {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil {
		return ItemSummary{Title: strings.TrimSpace(string(item))}
	}

	var s ItemSummary
	used := map[string]bool{"id": true, "price": true}
	for _, k := range titleKeys {
		if v, ok := fields[k]; ok {
			s.Title = scalar(v)
			used[k] = true
			break
		}
	}
	if s.Title == "" {
		if id, ok := fields["id"]; ok {
			s.Title = "#" + scalar(id)
		}
	}

	switch p := fields["price"].(type) {
	case float64:
		s.Price = "$" + querycodec.FormatPrice(p)
	case string:
		s.Price = p
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !used[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := scalar(fields[k])
		if v == "" {
			continue
		}
		s.Details = append(s.Details, k+": "+v)
		if len(s.Details) == maxDetailFields {
			break
		}
	}
	return s
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return querycodec.FormatPrice(x)
	case bool:
		return fmt.Sprint(x)
	}
	return ""
}

// ItemRenderer handles rendering of listing entries
type ItemRenderer struct {
	styles *Styles
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles) *ItemRenderer {
	return &ItemRenderer{styles: styles}
}

// RenderItem renders one entry as a single line. number is the 1-based
// position in the whole listing.
func (r *ItemRenderer) RenderItem(item domain.Item, number int, isSelected bool, width int) string {
	s := Summarize(item)

	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	parts := []string{
		bg.Render(cursor),
		bg.Inherit(r.styles.Dim).Render(fmt.Sprintf("%4d. ", number)),
	}
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	if isSelected {
		parts = append(parts, bg.Inherit(r.styles.Highlight).Render(title))
	} else {
		parts = append(parts, title)
	}
	if s.Price != "" {
		parts = append(parts, bg.Render("  "), bg.Inherit(r.styles.Price).Render(s.Price))
	}
	if len(s.Details) > 0 {
		parts = append(parts, bg.Render("  "), bg.Inherit(r.styles.Dim).Render(strings.Join(s.Details, " · ")))
	}

	line := strings.Join(parts, "")
	if width > 4 {
		line = lipgloss.NewStyle().MaxWidth(width - 4).Render(line)
	}
	return line
}
