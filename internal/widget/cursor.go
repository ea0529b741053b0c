// Package widget holds the reusable pieces screens are built from.
package widget

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T Number](v, low, high T) T {
	if high < low {
		low, high = high, low
	}

	return min(high, max(low, v))
}

// Wrap maps v into [0, n), wrapping in both directions. n <= 0 yields 0.
func Wrap[T constraints.Integer](v, n T) T {
	if n <= 0 {
		return 0
	}

	return ((v % n) + n) % n
}

// Scroll returns the first visible row so that cursor stays inside a window
// of visible rows starting at offset.
func Scroll(offset int, cursor int, visible int, total int) int {
	if visible <= 0 || total <= visible {
		return 0
	}

	if cursor < offset {
		offset = cursor
	}

	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}

	return Clamp(offset, 0, total-visible)
}
