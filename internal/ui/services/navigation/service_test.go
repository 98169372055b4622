package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigateClampsToList(t *testing.T) {
	s := NewService()
	s.Navigate(DirectionDown)
	assert.Equal(t, 0, s.Cursor(), "empty list")

	s.SetItemCount(3, true)
	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	assert.Equal(t, 2, s.Cursor())

	s.Navigate(DirectionHome)
	s.Navigate(DirectionUp)
	assert.Equal(t, 0, s.Cursor())
}

func TestViewportFollowsCursor(t *testing.T) {
	s := NewService()
	s.SetViewportHeight(17)
	assert.Equal(t, 5, s.State().ViewportHeight)

	s.SetItemCount(24, true)
	s.Navigate(DirectionEnd)
	st := s.State()
	assert.Equal(t, 23, st.Cursor)
	assert.Equal(t, 19, st.ViewportOffset)

	s.Navigate(DirectionPageUp)
	st = s.State()
	assert.Equal(t, 19, st.Cursor)
	assert.Equal(t, 19, st.ViewportOffset)
}

func TestSetItemCountKeepsCursorWhenAppending(t *testing.T) {
	s := NewService()
	s.SetItemCount(24, true)
	s.Navigate(DirectionEnd)

	s.SetItemCount(48, false)
	assert.Equal(t, 23, s.Cursor())

	s.SetItemCount(10, true)
	assert.Equal(t, 0, s.Cursor())
}

func TestPastThreshold(t *testing.T) {
	s := NewService()
	assert.False(t, s.PastThreshold())

	s.SetItemCount(10, true)
	for i := 0; i < 6; i++ {
		s.Navigate(DirectionDown)
	}
	assert.False(t, s.PastThreshold(), "cursor on item 7 of 10")
	s.Navigate(DirectionDown)
	assert.True(t, s.PastThreshold(), "cursor on item 8 of 10")
}

func TestOnMove(t *testing.T) {
	s := NewService()
	s.SetItemCount(5, true)
	var moves [][2]int
	s.OnMove(func(o, n int) { moves = append(moves, [2]int{o, n}) })

	s.Navigate(DirectionDown)
	s.Navigate(DirectionHome)
	s.Navigate(DirectionHome)
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}}, moves)
}
