// Package navigation keeps the list cursor and its viewport in bounds.
package navigation

// ScrollThreshold is the fraction of the list the cursor has to pass before
// the next page is requested in infinite mode
const ScrollThreshold = 0.8

// chromeLines is the number of terminal rows taken by everything but the list
const chromeLines = 12

// Service handles all navigation logic
type Service struct {
	state  State
	onMove MoveListener
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: State{
			ViewportHeight: 10,
			MaxIndex:       -1,
		},
	}
}

// OnMove registers the cursor listener
func (s *Service) OnMove(l MoveListener) {
	s.onMove = l
}

// State returns a copy of the navigation state
func (s *Service) State() State {
	return s.state
}

// Cursor returns the current cursor position
func (s *Service) Cursor() int {
	return s.state.Cursor
}

// SetViewportHeight derives the list height from the terminal height
func (s *Service) SetViewportHeight(terminalHeight int) {
	s.state.ViewportHeight = max(terminalHeight-chromeLines, 3)
	s.ensureVisible()
}

// SetItemCount updates the list length. When reset is set, the list was
// replaced rather than extended and the cursor returns to the top.
func (s *Service) SetItemCount(n int, reset bool) {
	s.state.MaxIndex = n - 1
	if reset {
		s.state.Cursor = 0
		s.state.ViewportOffset = 0
		return
	}
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	old := s.state.Cursor
	pageSize := max(s.state.ViewportHeight-1, 1)

	switch direction {
	case DirectionUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - 1)
	case DirectionDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + 1)
	case DirectionPageUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - pageSize)
	case DirectionPageDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + pageSize)
	case DirectionHome:
		s.state.Cursor = 0
	case DirectionEnd:
		s.state.Cursor = s.clampIndex(s.state.MaxIndex)
	}
	s.ensureVisible()

	if old != s.state.Cursor && s.onMove != nil {
		s.onMove(old, s.state.Cursor)
	}
}

// PastThreshold reports whether the cursor is deep enough into the list to
// warrant loading more
func (s *Service) PastThreshold() bool {
	n := s.state.MaxIndex + 1
	if n == 0 {
		return false
	}
	return float64(s.state.Cursor+1) >= float64(n)*ScrollThreshold
}

func (s *Service) clampIndex(index int) int {
	if index > s.state.MaxIndex {
		index = s.state.MaxIndex
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
}
