package board

import "slices"

// Move returns a copy of s with the element at from relocated to to.
// The element is removed first and then inserted, so everything between
// the two positions shifts by one. An out-of-range from yields an unchanged
// copy; to is clamped to the valid index range.
func Move[T any](s []T, from, to int) []T {
	out := slices.Clone(s)
	if from < 0 || from >= len(out) {
		return out
	}
	to = max(0, min(to, len(out)-1))
	if from == to {
		return out
	}
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}
