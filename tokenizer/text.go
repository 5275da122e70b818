package tokenizer

import (
	"iter"

	"github.com/iw2rmb/mentions/internal/grapheme"
)

// Text is a read-only view of an annotated document.
//
// *buffer.Buffer implements Text.
type Text interface {
	// Len returns the number of grapheme clusters.
	Len() int
	// At returns the cluster at i, or "" when i is out of range.
	At(i int) string
	// Slice returns the text of clusters [start, end).
	Slice(start, end int) string
	// Spans yields the [start, end) bounds of every mention annotation.
	Spans() iter.Seq2[int, int]
}

// Span is a mention bound used by standalone snapshots.
type Span struct {
	Start, End int
}

type snapshot struct {
	clusters []string
	spans    []Span
}

// NewText returns an immutable Text over s with the given mention spans.
func NewText(s string, spans ...Span) Text {
	return snapshot{
		clusters: grapheme.Split(s),
		spans:    append([]Span(nil), spans...),
	}
}

func (s snapshot) Len() int { return len(s.clusters) }

func (s snapshot) At(i int) string {
	if i < 0 || i >= len(s.clusters) {
		return ""
	}
	return s.clusters[i]
}

func (s snapshot) Slice(start, end int) string {
	start = clampInt(start, 0, len(s.clusters))
	end = clampInt(end, start, len(s.clusters))
	return grapheme.Join(s.clusters[start:end])
}

func (s snapshot) Spans() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, sp := range s.spans {
			if !yield(sp.Start, sp.End) {
				return
			}
		}
	}
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
