package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys keyMap
	help help.Model
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	h := help.New()
	h.ShowAll = true
	return &HelpRenderer{keys: newKeyMap(), help: h}
}

// Short renders the one line key summary
func (r *HelpRenderer) Short(width int) string {
	r.help.Width = width
	return r.help.ShortHelpView(r.keys.ShortHelp())
}

// Content renders the full help page
func (r *HelpRenderer) Content(width int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	exampleStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("listingview help"))
	b.WriteString("\n")

	r.help.Width = width
	b.WriteString(sectionStyle.Render("Keys"))
	b.WriteString("\n")
	b.WriteString(r.help.FullHelpView(r.keys.FullHelp()))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Prompts"))
	b.WriteString("\n")
	for _, line := range []string{
		"filter   category=suv      adds a value; repeat a type to select several",
		"price    10000-30000       min-max; 10000- or -30000 for one bound; empty clears",
		"page     7                 must be within the listed pages",
		"size     48                items per page, resets to page 1",
	} {
		b.WriteString(exampleStyle.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Pagination modes"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", "numbered", "one page at a time with page links"))
	b.WriteString(fmt.Sprintf("  %s  %s\n", "loadmore", "pages are appended on request"))
	b.WriteString(fmt.Sprintf("  %s  %s\n", "infinite", "pages are appended as the cursor nears the end"))
	return b.String()
}

// PagerOps runs content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// ShowInPager shows content using ov pager
func (h *PagerOps) ShowInPager(content string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
