package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange reports a range outside the text or with Start > End.
	ErrInvalidRange = errors.New("buffer: invalid range")
	// ErrOverlap reports an annotation that would overlap an existing one.
	ErrOverlap = errors.New("buffer: overlapping annotation")
	// ErrNoMention reports an annotation without a mention.
	ErrNoMention = errors.New("buffer: annotation has no mention")
)

// Range is a half-open span of grapheme offsets: [Start, End).
type Range struct {
	Start int
	End   int
}

// TextEdit replaces the text in Range with Text.
type TextEdit struct {
	Range Range
	Text  string
}

// NewRange returns the range between a and b in ascending order.
func NewRange(a, b int) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) IsEmpty() bool { return r.Start >= r.End }

// Contains reports whether offset i is inside [Start, End).
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Overlaps reports whether r and o share at least one cluster.
func (r Range) Overlaps(o Range) bool { return r.Start < o.End && o.Start < r.End }

// Touches reports whether r and o overlap or share a boundary.
func (r Range) Touches(o Range) bool { return r.Start <= o.End && o.Start <= r.End }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

func (r Range) valid(n int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= n
}

func invalidRange(r Range, n int) error {
	return fmt.Errorf("%w: %s in text of length %d", ErrInvalidRange, r, n)
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// shiftRight moves p through a replacement of r by n clusters. Offsets inside
// r land after the inserted text.
func shiftRight(p int, r Range, n int) int {
	switch {
	case p < r.Start:
		return p
	case p > r.End:
		return p + n - r.Len()
	default:
		return r.Start + n
	}
}

// shiftLeft moves p through a replacement of r by n clusters. Offsets inside
// r land before the inserted text.
func shiftLeft(p int, r Range, n int) int {
	switch {
	case p < r.Start:
		return p
	case p > r.End:
		return p + n - r.Len()
	default:
		return r.Start
	}
}
