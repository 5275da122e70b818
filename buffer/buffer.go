package buffer

import (
	"iter"
	"log/slog"

	"github.com/iw2rmb/mentions/internal/grapheme"
)

type Options struct {
	HistoryLimit int // default: 1000; negative disables undo
	Logger       *slog.Logger
}

type selectionState struct {
	active bool
	anchor int
	end    int
}

// Buffer is the document state: text, cursor, selection, and the ranges that
// travel with the text.
type Buffer struct {
	clusters []string
	version  uint64

	cursor int
	sel    selectionState

	anns  []Annotated
	holds []Placeholder
	marks []Range

	observers []Observer

	opt  Options
	log  *slog.Logger
	hist historyState

	lastChange    Change
	hasLastChange bool
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Buffer{
		clusters: grapheme.Split(text),
		opt:      opt,
		log:      log,
	}
}

func (b *Buffer) Text() string { return grapheme.Join(b.clusters) }

// Len returns the number of grapheme clusters.
func (b *Buffer) Len() int { return len(b.clusters) }

// At returns the cluster at i, or "" when i is out of range.
func (b *Buffer) At(i int) string {
	if i < 0 || i >= len(b.clusters) {
		return ""
	}
	return b.clusters[i]
}

// Slice returns the text of [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) string {
	start = clampInt(start, 0, len(b.clusters))
	end = clampInt(end, start, len(b.clusters))
	return grapheme.Join(b.clusters[start:end])
}

// Spans yields the bounds of every annotation in start order.
func (b *Buffer) Spans() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, a := range b.anns {
			if !yield(a.Range.Start, a.Range.End) {
				return
			}
		}
	}
}

func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) Cursor() int { return b.cursor }

func (b *Buffer) SetCursor(p int) {
	next := clampInt(p, 0, len(b.clusters))
	if next == b.cursor {
		return
	}
	b.cursor = next
	b.version++
}

// Selection returns the normalized selection. Empty selections are inactive.
func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NewRange(b.sel.anchor, b.sel.end)
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SetSelection selects r and moves the cursor to r.End. An empty r clears
// the selection.
func (b *Buffer) SetSelection(r Range) {
	n := len(b.clusters)
	anchor := clampInt(r.Start, 0, n)
	end := clampInt(r.End, 0, n)

	prevRange, prevOK := b.Selection()
	next := selectionState{active: anchor != end, anchor: anchor, end: end}
	nextRange := NewRange(anchor, end)

	b.sel = next
	changed := prevOK != next.active || (prevOK && prevRange != nextRange)
	if b.cursor != end {
		b.cursor = end
		changed = true
	}
	if changed {
		b.version++
	}
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	_, ok := b.Selection()
	b.sel = selectionState{}
	if ok {
		b.version++
	}
}
