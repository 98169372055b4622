// Package history models the address bar and back/forward stack the
// listing state is mirrored into.
package history

import (
	"strings"
	"sync"
)

// History is the location the coordinator reads from and pushes to
type History interface {
	// Location returns the current query string without a leading '?'
	Location() string
	// Push records a new entry without triggering a pop
	Push(query string)
}

// PopListener is called with the new location after Back or Forward
type PopListener func(location string)

// Memory is an in-process history stack
type Memory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]PopListener
	nextID    int
}

// NewMemory creates a history whose single entry is initial
func NewMemory(initial string) *Memory {
	return &Memory{
		entries:   []string{strings.TrimPrefix(initial, "?")},
		listeners: make(map[int]PopListener),
	}
}

// Location returns the current entry
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Push drops any forward entries and appends query. Pushing the current
// location again is a no-op.
func (m *Memory) Push(query string) {
	query = strings.TrimPrefix(query, "?")

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[m.index] == query {
		return
	}
	m.entries = append(m.entries[:m.index+1], query)
	m.index++
}

// Back moves one entry back and notifies pop listeners
func (m *Memory) Back() bool {
	return m.move(-1)
}

// Forward moves one entry forward and notifies pop listeners
func (m *Memory) Forward() bool {
	return m.move(1)
}

// CanGoBack reports whether Back would move
func (m *Memory) CanGoBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0
}

// CanGoForward reports whether Forward would move
func (m *Memory) CanGoForward() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index < len(m.entries)-1
}

// Len returns the number of entries
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// OnPop registers a listener for Back/Forward and returns its remover
func (m *Memory) OnPop(l PopListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Memory) move(delta int) bool {
	m.mu.Lock()
	next := m.index + delta
	if next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.index = next
	loc := m.entries[next]
	listeners := make([]PopListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(loc)
	}
	return true
}
