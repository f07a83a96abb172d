package domain

import "strings"

// Location identifies a pickup or drop-off point on the route network.
// Values are compared after normalization (trimmed, upper-cased).
type Location string

// NormalizeLocation trims surrounding whitespace and upper-cases s.
func NormalizeLocation(s string) Location {
	return Location(strings.ToUpper(strings.TrimSpace(s)))
}

func (l Location) String() string { return string(l) }

// Empty reports whether l carries no identifier.
func (l Location) Empty() bool { return l == "" }
