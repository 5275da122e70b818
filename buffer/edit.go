package buffer

import "github.com/iw2rmb/mentions/internal/grapheme"

// Replace replaces r with text. Tracked ranges and the cursor move with the
// edit; the selection is cleared. An invalid r is logged and rejected with
// ErrInvalidRange, leaving the buffer unchanged.
func (b *Buffer) Replace(r Range, text string) error {
	if !r.valid(len(b.clusters)) {
		b.log.Warn("edit rejected", "range", r.String(), "len", len(b.clusters))
		return invalidRange(r, len(b.clusters))
	}
	b.transact(false, TextEdit{Range: r, Text: text})
	return nil
}

// InsertText inserts text at the cursor, or replaces the active selection.
func (b *Buffer) InsertText(s string) {
	r, ok := b.Selection()
	if !ok {
		if s == "" {
			return
		}
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.transact(true, TextEdit{Range: r, Text: s})
}

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}
	if b.cursor == 0 {
		return
	}
	b.transact(true, TextEdit{Range: Range{Start: b.cursor - 1, End: b.cursor}})
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}
	if b.cursor >= len(b.clusters) {
		return
	}
	b.transact(true, TextEdit{Range: Range{Start: b.cursor, End: b.cursor + 1}})
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	r, ok := b.Selection()
	if !ok {
		return
	}
	b.transact(true, TextEdit{Range: r})
}

// transact applies edits as one change and one undo step. When moveCursor
// is set the cursor ends after the last effective edit.
func (b *Buffer) transact(moveCursor bool, edits ...TextEdit) bool {
	prev := b.snapshot()
	change := b.beginChange(ChangeSourceLocal)

	anyChanged := false
	lastCursor := b.cursor
	for _, e := range edits {
		applied, changed := b.replace(e.Range, e.Text)
		if !changed {
			continue
		}
		anyChanged = true
		lastCursor = applied.RangeAfter.End
		change.addAppliedEdit(applied)
	}
	if !anyChanged {
		return false
	}

	if moveCursor {
		b.cursor = clampInt(lastCursor, 0, len(b.clusters))
	}
	b.sel = selectionState{}
	b.version++
	b.recordUndo(prev)
	b.commitChange(change)
	return true
}

// replace is the single mutation path. r must already be valid.
func (b *Buffer) replace(r Range, text string) (AppliedEdit, bool) {
	ins := grapheme.Split(text)
	deleted := joinClusters(b.clusters[r.Start:r.End])
	if deleted == text {
		return AppliedEdit{}, false
	}

	b.notifyBefore(r, len(ins))

	out := make([]string, 0, len(b.clusters)-r.Len()+len(ins))
	out = append(out, b.clusters[:r.Start]...)
	out = append(out, ins...)
	out = append(out, b.clusters[r.End:]...)
	b.clusters = out

	b.cursor = shiftRight(b.cursor, r, len(ins))
	b.sel = selectionState{}
	b.moveRanges(r, len(ins))

	applied := AppliedEdit{
		RangeBefore: r,
		RangeAfter:  Range{Start: r.Start, End: r.Start + len(ins)},
		InsertText:  text,
		DeletedText: deleted,
	}
	b.notifyAfter(applied)
	return applied, true
}

func joinClusters(c []string) string { return grapheme.Join(c) }
