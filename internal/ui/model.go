package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"listingview/internal/domain"
	"listingview/internal/eventbus"
	"listingview/internal/ui/coordinator"
	"listingview/internal/ui/input"
	inputtypes "listingview/internal/ui/input/types"
	"listingview/internal/ui/presenter"
	"listingview/internal/ui/services/history"
	"listingview/internal/ui/services/navigation"
	"listingview/internal/ui/services/query"
	"listingview/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// Model represents the UI state
type Model struct {
	coord     *coordinator.Coordinator
	presenter *presenter.Presenter
	history   *history.Memory // nil when url sync is off
	logger    *zap.Logger

	width  int
	height int
	view   presenter.View

	statusMessage string
	sortIndex     int
	chipIndex     int
	inPagerMode   bool

	navigator    *navigation.Service
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	spinner      spinner.Model

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model
func NewModel(coord *coordinator.Coordinator, pres *presenter.Presenter, hist *history.Memory, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		coord:        coord,
		presenter:    pres,
		history:      hist,
		logger:       logger.Named("ui"),
		chipIndex:    -1,
		navigator:    navigation.NewService(),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(),
		spinner:      sp,
	}
	m.navigator.OnMove(m.onCursorMove)
	m.refresh()
	m.navigator.SetItemCount(len(m.view.Items), true)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.navigator.SetViewportHeight(msg.Height)

	case tea.KeyMsg:
		ctx := m.inputContext()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		m.refresh()
		return m, tea.Batch(cmds...)

	default:
		// Handle non-keyboard messages
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	nav := m.navigator.State()
	state := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		View:           m.view,
		Cursor:         nav.Cursor,
		ViewportOffset: nav.ViewportOffset,
		ViewportHeight: nav.ViewportHeight,
		Location:       m.coord.Location(),
		StatusMessage:  m.statusMessage,
		SortIndex:      m.sortIndex,
		ChipIndex:      m.chipIndex,
		Spinner:        m.spinner.View(),
		HelpLine:       m.helpRenderer.Short(m.width - 4),
	}
	if m.history != nil {
		state.CanGoBack = m.history.CanGoBack()
		state.CanGoForward = m.history.CanGoForward()
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeSort:
		state.InputMode = "sort"
	case inputtypes.ModeChips:
		state.InputMode = "chips"
	case inputtypes.ModeNormal:
	default:
		state.InputMode = "prompt"
		state.Prompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			state.TextInput = ti.View()
		}
	}
	return m.renderer.Render(state)
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{View: m.view, Cursor: m.navigator.Cursor()}
}

// refresh rebuilds the view from the coordinator
func (m *Model) refresh() {
	m.view = m.presenter.Build()
}

func (m *Model) setStatus(format string, args ...any) tea.Cmd {
	m.statusMessage = fmt.Sprintf(format, args...)
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// onCursorMove requests the next page once the cursor passes the scroll
// threshold of an infinite list
func (m *Model) onCursorMove(oldIndex, newIndex int) {
	if newIndex <= oldIndex || m.view.Mode != domain.ModeInfinite {
		return
	}
	if m.navigator.PastThreshold() {
		m.coord.LoadNextPage()
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigator.Navigate(navigation.Direction(a.Direction))

	case inputtypes.PageAction:
		return m.handlePage(a.Direction)

	case inputtypes.LoadMoreAction:
		if !m.presenter.LoadMore() && m.view.LoadMore != nil && m.view.LoadMore.End {
			return m.setStatus("No more products to load")
		}

	case inputtypes.SubmitTextAction:
		return m.handleSubmit(a)

	case inputtypes.CancelTextAction, inputtypes.UpdateTextAction, inputtypes.ChangeModeAction:
		// handled by the input handler

	case inputtypes.ClearFiltersAction:
		if m.view.ClearAllEnabled {
			m.presenter.ClearAll()
			return m.setStatus("Filters cleared")
		}

	case inputtypes.RemoveChipAction:
		m.presenter.RemoveChip(a.Index)

	case inputtypes.UpdateChipIndexAction:
		m.chipIndex = a.Index

	case inputtypes.SortByAction:
		m.presenter.SelectSort(a.Sort)

	case inputtypes.UpdateSortIndexAction:
		m.sortIndex = a.Index

	case inputtypes.ResetAction:
		m.coord.Reset()
		return m.setStatus("Listing reset")

	case inputtypes.RetryAction:
		m.coord.Refresh()

	case inputtypes.CycleModeAction:
		next := nextMode(m.view.Mode)
		m.coord.SetMode(next)
		m.logger.Info("pagination mode changed", zap.String("mode", string(next)))
		return m.setStatus("Pagination: %s", next)

	case inputtypes.HistoryAction:
		return m.handleHistory(a.Direction)

	case inputtypes.ShowItemAction:
		return m.showItem()

	case inputtypes.ToggleHelpAction:
		return m.showInPager("help", m.helpRenderer.Content(m.width))

	case inputtypes.QuitAction:
		return tea.Quit

	default:
		m.logger.Debug("unhandled action", zap.String("type", action.Type()))
	}
	return nil
}

func (m *Model) handlePage(direction string) tea.Cmd {
	if m.view.Mode.Appends() {
		if direction == "next" {
			m.presenter.LoadMore()
		}
		return nil
	}

	var err error
	switch direction {
	case "next":
		err = m.presenter.Next()
	case "prev":
		err = m.presenter.Prev()
	case "first":
		if m.view.Pager != nil && m.view.Pager.Current != 1 {
			err = m.presenter.ClickPage(1)
		}
	case "last":
		if p := m.view.Pager; p != nil && p.Current != p.TotalPages {
			err = m.presenter.ClickPage(p.TotalPages)
		}
	}
	if err != nil {
		return m.setStatus("%v", err)
	}
	return nil
}

func (m *Model) handleSubmit(a inputtypes.SubmitTextAction) tea.Cmd {
	switch a.Mode {
	case inputtypes.ModeFilter:
		typ, value, err := query.ParseFilterInput(a.Text)
		if errors.Is(err, query.ErrEmptyInput) {
			return nil
		}
		if err != nil {
			return m.setStatus("Filter: %v", err)
		}
		m.coord.AddFilter(typ, value, nil)

	case inputtypes.ModePrice:
		lo, hi, err := query.ParsePriceInput(a.Text)
		if err != nil {
			return m.setStatus("Price: %v", err)
		}
		if lo == nil && hi == nil {
			m.coord.ClearPriceRange()
			return nil
		}
		m.coord.SetPriceBounds(lo, hi)

	case inputtypes.ModeJump:
		if err := m.presenter.Jump(a.Text); err != nil {
			return m.setStatus("Go to page: %v", err)
		}

	case inputtypes.ModeItemsPerPage:
		n, err := strconv.Atoi(a.Text)
		if err == nil {
			err = m.coord.SetItemsPerPage(n)
		}
		if err != nil {
			return m.setStatus("Items per page: %v", err)
		}
	}
	return nil
}

func (m *Model) handleHistory(direction string) tea.Cmd {
	if m.history == nil {
		return m.setStatus("URL sync is disabled")
	}
	var moved bool
	if direction == "back" {
		moved = m.history.Back()
	} else {
		moved = m.history.Forward()
	}
	if !moved {
		return m.setStatus("No %s history", direction)
	}
	return nil
}

func (m *Model) showItem() tea.Cmd {
	cursor := m.navigator.Cursor()
	if cursor < 0 || cursor >= len(m.view.Items) {
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, m.view.Items[cursor], "", "  "); err != nil {
		out.Reset()
		out.Write(m.view.Items[cursor])
	}
	return m.showInPager("item", out.String())
}

// showInPager returns a command that shows content using ov pager
func (m *Model) showInPager(what, content string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.ShowInPager(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

// handleEvent applies a coordinator event to the view
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	m.refresh()
	switch e := event.(type) {
	case domain.UpdateEvent:
		// Events can arrive out of order; size the list from the fresh view
		m.navigator.SetItemCount(len(m.view.Items), !e.Appended)
		if m.view.Mode == domain.ModeInfinite && m.navigator.PastThreshold() {
			// The list may be too short to scroll past the threshold
			m.coord.LoadNextPage()
		}
	case domain.StateChangeEvent:
		m.navigator.SetItemCount(len(m.view.Items), true)
	case domain.ErrorEvent:
		m.logger.Warn("listing load failed",
			zap.String("kind", string(e.Kind)),
			zap.Error(e.Err))
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.String("content", msg.what), zap.Error(msg.err))
			return m, m.setStatus("Could not open pager: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	default:
		return m, nil
	}
}

func nextMode(current domain.Mode) domain.Mode {
	for i, mode := range domain.Modes {
		if mode == current {
			return domain.Modes[(i+1)%len(domain.Modes)]
		}
	}
	return domain.ModeNumbered
}
