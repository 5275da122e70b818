package editor

import (
	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/mention"
)

// SetCursor places a collapsed cursor at p. Selected mentions the cursor
// is not on are deselected, and a cursor strictly inside a mention moves
// to its end.
func (e *Editor) SetCursor(p int) {
	e.moveCursor(p, true)
}

// MoveLeft moves the cursor one character back, jumping over a mention in
// one step.
func (e *Editor) MoveLeft() {
	if r, ok := e.buf.Selection(); ok {
		e.moveCursor(r.Start, true)
		return
	}
	e.moveCursor(e.buf.Cursor()-1, false)
}

// MoveRight moves the cursor one character forward, jumping over a mention
// in one step.
func (e *Editor) MoveRight() {
	if r, ok := e.buf.Selection(); ok {
		e.moveCursor(r.End, true)
		return
	}
	e.moveCursor(e.buf.Cursor()+1, true)
}

func (e *Editor) Home() { e.moveCursor(0, true) }

func (e *Editor) End() { e.moveCursor(e.buf.Len(), true) }

func (e *Editor) moveCursor(p int, snapToEnd bool) {
	v := e.buf.Version()
	p = clampInt(p, 0, e.buf.Len())
	deselected := e.deselectOutside(p)

	if an, ok := e.buf.AnnotationAt(p); ok && p > an.Range.Start {
		if snapToEnd {
			p = an.Range.End
		} else {
			p = an.Range.Start
		}
	}
	e.buf.ClearSelection()
	e.buf.SetCursor(p)

	if deselected {
		e.emitState()
		return
	}
	e.emit(v, false)
}

// SetSelection selects r, widened so that no mention is cut in half.
func (e *Editor) SetSelection(r buffer.Range) {
	v := e.buf.Version()
	r = buffer.NewRange(clampInt(r.Start, 0, e.buf.Len()), clampInt(r.End, 0, e.buf.Len()))
	if an, ok := e.buf.AnnotationAt(r.Start); ok && an.Range.Start < r.Start {
		r.Start = an.Range.Start
	}
	if an, ok := e.buf.AnnotationAt(r.End); ok && an.Range.Start < r.End {
		r.End = an.Range.End
	}
	e.buf.SetSelection(r)
	e.emit(v, false)
}

// ToggleMentionAt handles a click on offset i. The cursor moves after the
// mention under i and the mention's selection flips; selecting it
// deselects every other mention.
func (e *Editor) ToggleMentionAt(i int) (*mention.Annotation, bool) {
	an, ok := e.buf.AnnotationAt(i)
	if !ok {
		return nil, false
	}
	e.buf.ClearSelection()
	e.buf.SetCursor(an.Range.End)

	a := an.Annotation
	if !a.Selected {
		e.deselectAll()
	}
	a.Selected = !a.Selected
	e.emitState()
	return a, true
}

// SelectMentionAt selects the text of the mention under i, as a long press
// does, and deselects every mention.
func (e *Editor) SelectMentionAt(i int) (*mention.Annotation, bool) {
	an, ok := e.buf.AnnotationAt(i)
	if !ok {
		return nil, false
	}
	e.buf.SetSelection(an.Range)
	e.deselectAll()
	e.emitState()
	return an.Annotation, true
}

// SelectedMention returns the mention armed for deletion, if any.
func (e *Editor) SelectedMention() (buffer.Annotated, bool) {
	for _, an := range e.buf.Annotations() {
		if an.Annotation.Selected {
			return an, true
		}
	}
	return buffer.Annotated{}, false
}

func (e *Editor) DeselectAll() {
	if e.deselectAll() {
		e.emitState()
	}
}

func (e *Editor) deselectAll() bool {
	changed := false
	for _, an := range e.buf.Annotations() {
		if an.Annotation.Selected {
			an.Annotation.Selected = false
			changed = true
		}
	}
	return changed
}

// deselectOutside deselects mentions whose closed range excludes p.
func (e *Editor) deselectOutside(p int) bool {
	changed := false
	for _, an := range e.buf.Annotations() {
		a := an.Annotation
		if a.Selected && (p < an.Range.Start || p > an.Range.End) {
			a.Selected = false
			changed = true
		}
	}
	return changed
}

// emitState reports a state change that the buffer version does not track,
// such as a mention being selected.
func (e *Editor) emitState() {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(buildChangeEvent(e.buf, false))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
