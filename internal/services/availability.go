package services

import "cab-booking-service/internal/domain"

// Overlaps reports whether two half-open windows [s1,e1) and [s2,e2) conflict.
// Windows that only touch at an endpoint do not conflict.
func Overlaps(a, b domain.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// IsAvailable reports whether candidate conflicts with none of existing.
// It is a pure O(n) scan.
func IsAvailable(existing []domain.Interval, candidate domain.Interval) bool {
	for _, iv := range existing {
		if Overlaps(iv, candidate) {
			return false
		}
	}
	return true
}
