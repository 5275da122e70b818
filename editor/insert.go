package editor

import (
	"fmt"

	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/mention"
)

// InsertMention replaces the token under the cursor with m. It fails with
// ErrNoToken when the cursor is not on a token.
func (e *Editor) InsertMention(m mention.Mentionable) (*mention.Annotation, error) {
	cursor := e.tokenCursor()
	start := e.tok.FindTokenStart(e.buf, cursor)
	end := e.tok.FindTokenEnd(e.buf, cursor)
	if start < 0 || start >= end || end > e.buf.Len() {
		return nil, ErrNoToken
	}
	return e.insertMention(m, buffer.Range{Start: start, End: end})
}

// InsertMentionAt replaces r with m.
func (e *Editor) InsertMentionAt(m mention.Mentionable, r buffer.Range) (*mention.Annotation, error) {
	return e.insertMention(m, r)
}

// InsertMentionWithoutToken inserts m at the cursor, or at the start of the
// selection, without consuming any text.
func (e *Editor) InsertMentionWithoutToken(m mention.Mentionable) (*mention.Annotation, error) {
	at := max(e.tokenCursor(), 0)
	return e.insertMention(m, buffer.Range{Start: at, End: at})
}

// insertMention writes the full display text of m over r, annotates it,
// leaves the cursor after it, and closes the suggestion list. The query
// step does not run.
func (e *Editor) insertMention(m mention.Mentionable, r buffer.Range) (*mention.Annotation, error) {
	if m == nil {
		return nil, buffer.ErrNoMention
	}
	v := e.buf.Version()
	a, err := e.rec.Insert(e.buf, m, r)
	if err != nil {
		return nil, fmt.Errorf("insert mention %d at %s: %w", m.ID(), r, err)
	}
	e.sink.DisplaySuggestions(false)
	e.agg.Clear()
	e.emit(v, true)
	return a, nil
}
