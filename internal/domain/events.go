package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFilterChange EventType = "filterchange"
	EventLoading      EventType = "loading"
	EventUpdate       EventType = "update"
	EventError        EventType = "error"
	EventStateChange  EventType = "statechange"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FilterChangeEvent is emitted synchronously whenever filters or sort change
type FilterChangeEvent struct {
	State QueryState
}

func (e FilterChangeEvent) Type() EventType { return EventFilterChange }

// LoadingEvent is emitted when a primary fetch starts or settles
type LoadingEvent struct {
	Loading bool
}

func (e LoadingEvent) Type() EventType { return EventLoading }

// UpdateEvent is emitted after results have been applied
type UpdateEvent struct {
	Items    []Item // accumulated items, already appended in loadmore/infinite mode
	Total    int
	State    QueryState
	Appended bool
	Cached   bool
}

func (e UpdateEvent) Type() EventType { return EventUpdate }

// ErrorEvent is emitted when a primary fetch fails
type ErrorEvent struct {
	Message string
	Kind    FailureKind
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// StateChangeEvent is emitted after state is restored from history
type StateChangeEvent struct {
	State QueryState
}

func (e StateChangeEvent) Type() EventType { return EventStateChange }
