package query

// ActiveFilter is one flattened (type, value) pair of the current state
type ActiveFilter struct {
	Type  string
	Value string
	Label string
	Price bool // the price range entry rather than a regular value
}
