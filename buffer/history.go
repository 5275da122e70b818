package buffer

import (
	"slices"

	"github.com/iw2rmb/mentions/mention"
)

type annotationState struct {
	r        Range
	a        *mention.Annotation
	mode     mention.DisplayMode
	selected bool
}

type bufferSnapshot struct {
	clusters []string
	cursor   int
	sel      selectionState
	anns     []annotationState
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot

	depth      int
	groupPrev  bufferSnapshot
	groupDirty bool
}

func (b *Buffer) snapshot() bufferSnapshot {
	anns := make([]annotationState, 0, len(b.anns))
	for _, a := range b.anns {
		anns = append(anns, annotationState{
			r:        a.Range,
			a:        a.Annotation,
			mode:     a.Annotation.Mode,
			selected: a.Annotation.Selected,
		})
	}
	return bufferSnapshot{
		clusters: slices.Clone(b.clusters),
		cursor:   b.cursor,
		sel:      b.sel,
		anns:     anns,
	}
}

// restore reinstates s, including the display state of every annotation it
// captured. Placeholders and delete marks do not survive a restore.
func (b *Buffer) restore(s bufferSnapshot) {
	b.clusters = slices.Clone(s.clusters)
	n := len(b.clusters)
	b.cursor = clampInt(s.cursor, 0, n)

	b.anns = b.anns[:0]
	for _, st := range s.anns {
		if st.r.IsEmpty() || !st.r.valid(n) {
			continue
		}
		st.a.Mode = st.mode
		st.a.Selected = st.selected
		b.anns = append(b.anns, Annotated{Range: st.r, Annotation: st.a})
	}
	sortAnnotated(b.anns)
	b.holds = nil
	b.marks = nil

	if !s.sel.active {
		b.sel = selectionState{}
		return
	}
	anchor := clampInt(s.sel.anchor, 0, n)
	end := clampInt(s.sel.end, 0, n)
	b.sel = selectionState{active: anchor != end, anchor: anchor, end: end}
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	if b.hist.depth > 0 {
		b.hist.groupDirty = true
		return
	}
	b.pushUndo(prev)
}

func (b *Buffer) pushUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = append(b.hist.undo, prev)
	if len(b.hist.undo) > limit {
		b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
	}
	b.hist.redo = nil
}

// Group runs fn and records every edit it makes as a single undo step.
// Groups nest; only the outermost one records.
func (b *Buffer) Group(fn func()) {
	if b.hist.depth == 0 {
		b.hist.groupPrev = b.snapshot()
		b.hist.groupDirty = false
	}
	b.hist.depth++
	defer func() {
		b.hist.depth--
		if b.hist.depth == 0 && b.hist.groupDirty {
			b.hist.groupDirty = false
			b.pushUndo(b.hist.groupPrev)
		}
	}()
	fn()
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 {
		return false
	}

	cur := b.snapshot()
	change := b.beginChange(ChangeSourceHistory)

	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = append(b.hist.redo, cur)

	b.restore(prev)
	b.version++
	if applied, ok := replacementAppliedEdit(cur.clusters, prev.clusters); ok {
		change.addAppliedEdit(applied)
	}
	b.commitChange(change)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 {
		return false
	}

	cur := b.snapshot()
	change := b.beginChange(ChangeSourceHistory)

	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]

	limit := b.opt.HistoryLimit
	if limit > 0 {
		b.hist.undo = append(b.hist.undo, cur)
		if len(b.hist.undo) > limit {
			b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
		}
	}

	b.restore(next)
	b.version++
	if applied, ok := replacementAppliedEdit(cur.clusters, next.clusters); ok {
		change.addAppliedEdit(applied)
	}
	b.commitChange(change)
	return true
}
