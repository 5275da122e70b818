package editor

import "github.com/iw2rmb/mentions/buffer"

// ChangeEvent describes the editor state after an operation.
type ChangeEvent struct {
	Version   uint64
	Cursor    int
	Selection struct {
		Range  buffer.Range
		Active bool
	}

	Text     string
	Mentions []buffer.Annotated

	// Change is the last text change, when the operation edited text.
	Change    buffer.Change
	HasChange bool
}

func buildChangeEvent(b *buffer.Buffer, edited bool) ChangeEvent {
	ev := ChangeEvent{
		Version:  b.Version(),
		Cursor:   b.Cursor(),
		Text:     b.Text(),
		Mentions: b.Annotations(),
	}
	if r, ok := b.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	if edited {
		ev.Change, ev.HasChange = b.LastChange()
	}
	return ev
}
