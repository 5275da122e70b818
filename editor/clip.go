package editor

import (
	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/internal/grapheme"
	"github.com/iw2rmb/mentions/mention"
)

// ClipMention is a mention carried by a Clip. Offset counts characters from
// the start of the clip text.
type ClipMention struct {
	Offset  int
	Mention mention.Mentionable
	Mode    mention.DisplayMode
}

// Clip is a copied fragment: plain text plus the mentions it contains.
type Clip struct {
	Text     string
	Mentions []ClipMention
}

// Copy returns the text of r together with every mention fully inside r.
func (e *Editor) Copy(r buffer.Range) Clip {
	r = e.clampRange(r)
	clip := Clip{Text: e.buf.Slice(r.Start, r.End)}
	for _, an := range e.buf.AnnotationsIn(r) {
		if an.Range.Start < r.Start || an.Range.End > r.End {
			continue
		}
		clip.Mentions = append(clip.Mentions, ClipMention{
			Offset:  an.Range.Start - r.Start,
			Mention: an.Annotation.Mention,
			Mode:    an.Annotation.Mode,
		})
	}
	return clip
}

// CopySelection copies the selection, or returns false when there is none.
func (e *Editor) CopySelection() (Clip, bool) {
	r, ok := e.buf.Selection()
	if !ok {
		return Clip{}, false
	}
	return e.Copy(r), true
}

// Cut copies r and deletes it. Mentions overlapping r lose their
// annotation before the text goes.
func (e *Editor) Cut(r buffer.Range) Clip {
	r = e.clampRange(r)
	clip := e.Copy(r)
	if r.IsEmpty() {
		return clip
	}
	e.edit(func() {
		e.unannotateOverlapping(r)
		e.buf.SetSelection(r)
		e.buf.DeleteSelection()
	})
	return clip
}

// CutSelection cuts the selection, or returns false when there is none.
func (e *Editor) CutSelection() (Clip, bool) {
	r, ok := e.buf.Selection()
	if !ok {
		return Clip{}, false
	}
	return e.Cut(r), true
}

// Paste replaces the selection, or inserts at the cursor, with clip and
// reinstalls the mentions it carries. Mentions overlapping the replaced
// range lose their annotation; one ending right where the paste starts is
// kept.
func (e *Editor) Paste(clip Clip) {
	r, ok := e.buf.Selection()
	if !ok {
		c := e.buf.Cursor()
		r = buffer.Range{Start: c, End: c}
	}
	e.edit(func() {
		e.rec.Suspend(func() {
			e.unannotateOverlapping(r)
			if err := e.buf.Replace(r, clip.Text); err != nil {
				return
			}
			n := grapheme.Count(clip.Text)
			for _, cm := range clip.Mentions {
				e.reinstall(cm, r.Start, n)
			}
			e.buf.SetCursor(r.Start + n)
		})
	})
}

func (e *Editor) reinstall(cm ClipMention, at, n int) {
	if cm.Mention == nil || cm.Offset < 0 {
		return
	}
	a := mention.New(cm.Mention)
	a.Mode = cm.Mode
	length := grapheme.Count(a.DisplayText())
	if length == 0 || cm.Offset+length > n {
		e.log.Warn("pasted mention dropped", "id", cm.Mention.ID(), "offset", cm.Offset)
		return
	}
	start := at + cm.Offset
	if err := e.buf.Annotate(buffer.Range{Start: start, End: start + length}, a); err != nil {
		e.log.Warn("pasted mention dropped", "id", cm.Mention.ID(), "err", err)
	}
}

func (e *Editor) unannotateOverlapping(r buffer.Range) {
	for _, an := range e.buf.AnnotationsIn(r) {
		if an.Range.Overlaps(r) {
			e.buf.Unannotate(an.Annotation)
		}
	}
}

// Compose replaces r with text the way an input method commits a
// composition.
func (e *Editor) Compose(r buffer.Range, text string) error {
	if r.Start < 0 || r.End > e.buf.Len() || r.Start > r.End {
		return e.buf.Replace(r, text)
	}
	var err error
	e.edit(func() {
		err = e.buf.Replace(r, text)
		if err == nil {
			e.buf.SetCursor(r.Start + grapheme.Count(text))
		}
	})
	return err
}

// Trim removes leading and trailing whitespace. Mentions keep their
// identity.
func (e *Editor) Trim() {
	e.edit(func() {
		n := e.buf.Len()
		end := n
		for end > 0 && grapheme.IsSpace(e.buf.At(end-1)) {
			end--
		}
		if end < n {
			e.trim(buffer.Range{Start: end, End: n})
		}
		start := 0
		for start < end && grapheme.IsSpace(e.buf.At(start)) {
			start++
		}
		if start > 0 {
			e.trim(buffer.Range{Start: 0, End: start})
		}
	})
}

func (e *Editor) trim(r buffer.Range) {
	if err := e.buf.Replace(r, ""); err != nil {
		e.log.Warn("trim failed", "range", r.String(), "err", err)
	}
}

// DismissSuggestions handles a tap on the text while the list is shown: the
// list is hidden and, with AvoidPrefixOnTap, the last keyword stops being
// queried. An empty keyword is never avoided, so a bare trigger keeps
// working.
func (e *Editor) DismissSuggestions() {
	if !e.sink.IsDisplayingSuggestions() {
		return
	}
	e.sink.DisplaySuggestions(false)
	if !e.cfg.AvoidPrefixOnTap {
		return
	}
	if last, ok := lastKeyword(e.CurrentKeywords()); ok && last != "" {
		e.avoidedPrefix = last
		e.log.Debug("prefix avoided", "prefix", last)
	}
}

func (e *Editor) clampRange(r buffer.Range) buffer.Range {
	n := e.buf.Len()
	return buffer.NewRange(clampInt(r.Start, 0, n), clampInt(r.End, 0, n))
}
