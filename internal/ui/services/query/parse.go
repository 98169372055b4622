package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyInput is returned for blank prompt input
var ErrEmptyInput = errors.New("empty input")

// ParseFilterInput splits "type=value" as typed into the filter prompt
func ParseFilterInput(s string) (typ, value string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", ErrEmptyInput
	}
	typ, value, ok := strings.Cut(s, "=")
	typ = strings.TrimSpace(typ)
	value = strings.TrimSpace(value)
	if !ok || typ == "" || value == "" {
		return "", "", fmt.Errorf("expected type=value, got %q", s)
	}
	if !ValidType(typ) {
		return "", "", fmt.Errorf("%q is a reserved key", typ)
	}
	return typ, value, nil
}

// ParsePriceInput reads "min-max", "min-" or "-max". Both bounds nil means
// the range should be cleared.
func ParsePriceInput(s string) (min, max *float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		lo = s
	}
	if min, err = parseBound(lo); err != nil {
		return nil, nil, err
	}
	if max, err = parseBound(hi); err != nil {
		return nil, nil, err
	}
	return min, max, nil
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &v, nil
}
