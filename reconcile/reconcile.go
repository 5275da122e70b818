package reconcile

import (
	"errors"
	"log/slog"

	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/internal/grapheme"
	"github.com/iw2rmb/mentions/mention"
	"github.com/iw2rmb/mentions/tokenizer"
)

// ErrEmptyMention reports a mention whose full display text is empty.
var ErrEmptyMention = errors.New("reconcile: mention has no display text")

// Report summarizes the fix-ups applied by Settle or Fix.
type Report struct {
	// Changed reports whether the buffer text or cursor moved.
	Changed bool
	// Removed lists mentions deleted together with their text.
	Removed []*mention.Annotation
	// Partial lists mentions rewritten to their partial text.
	Partial []*mention.Annotation
	// Restored counts placeholders turned back into annotations.
	Restored int
	// Duplicates counts removed runs of duplicated input.
	Duplicates int
}

type Option func(*Reconciler)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

func WithWatcher(w Watcher) Option {
	return func(r *Reconciler) { r.Watch(w) }
}

// Reconciler implements buffer.Observer.
type Reconciler struct {
	tok      *tokenizer.Tokenizer
	log      *slog.Logger
	watchers []Watcher
	applying bool

	// pending is a mention whose whole text the current edit deletes.
	pending *collapsed
}

type collapsed struct {
	ann   *mention.Annotation
	start int
	text  string
}

var _ buffer.Observer = (*Reconciler)(nil)

// New returns a Reconciler that finds word boundaries with tok. A nil tok
// uses the default tokenizer configuration.
func New(tok *tokenizer.Tokenizer, opts ...Option) *Reconciler {
	if tok == nil {
		tok = tokenizer.New(tokenizer.DefaultConfig())
	}
	r := &Reconciler{tok: tok, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Watch(w Watcher) {
	if w != nil {
		r.watchers = append(r.watchers, w)
	}
}

// Applying reports whether the Reconciler is editing the buffer itself.
func (r *Reconciler) Applying() bool { return r.applying }

// BeforeChange arms or advances the mention ending at the cursor when the
// edit deletes into it. Otherwise it parks the mentions in the current word
// as placeholders.
func (r *Reconciler) BeforeChange(b *buffer.Buffer, rng buffer.Range, inserted int) {
	if r.applying {
		return
	}
	r.pending = nil
	if r.deleteIntoMention(b, rng, inserted) {
		return
	}
	r.holdCurrentWord(b)
}

// AfterChange marks a copy of the word before a placeholder's original end
// when an input method has repeated it.
func (r *Reconciler) AfterChange(b *buffer.Buffer, _ buffer.AppliedEdit) {
	if r.applying {
		return
	}
	cursor := b.Cursor()
	for cursor > 0 && r.tok.IsWordBreak(b.At(cursor-1)) {
		cursor--
	}
	wordStart := r.tok.FindWordStart(b, cursor)
	for _, p := range b.PlaceholdersIn(buffer.Range{Start: wordStart, End: wordStart + 1}) {
		spanEnd := p.End
		copyEnd := spanEnd + (spanEnd - wordStart)
		if copyEnd <= spanEnd || copyEnd > b.Len() {
			continue
		}
		if b.Slice(wordStart, spanEnd) != b.Slice(spanEnd, copyEnd) {
			continue
		}
		dup := buffer.Range{Start: spanEnd, End: copyEnd}
		if err := b.MarkDelete(dup); err == nil {
			r.log.Debug("duplicate input marked", "range", dup.String())
		}
	}
}

// Settle applies the fix-ups deferred during the last edit: marked
// duplicates are removed, placeholders become annotations again, and Fix
// runs. Settle is a no-op on a conformant buffer.
func (r *Reconciler) Settle(b *buffer.Buffer) Report {
	var rep Report
	v := b.Version()
	r.guard(func() {
		for _, m := range b.TakeDeleteMarks() {
			if err := b.Replace(m, ""); err != nil {
				continue
			}
			rep.Duplicates++
		}
		r.reinstate(b)
		r.restore(b, &rep)
		r.fix(b, &rep)
	})
	rep.Changed = b.Version() != v
	return rep
}

// Fix makes every annotation cover exactly its display text. Mismatching
// annotations are rewritten in place and keep their identity. Annotations in
// DisplayNone mode, or with empty display text, are deleted with their text.
func (r *Reconciler) Fix(b *buffer.Buffer) Report {
	var rep Report
	v := b.Version()
	r.guard(func() { r.fix(b, &rep) })
	rep.Changed = b.Version() != v
	return rep
}

// Insert replaces rng with the full display text of m and annotates it as
// one undo step. The cursor ends after the mention.
func (r *Reconciler) Insert(b *buffer.Buffer, m mention.Mentionable, rng buffer.Range) (*mention.Annotation, error) {
	a := mention.New(m)
	text := a.DisplayText()
	if text == "" {
		return nil, ErrEmptyMention
	}

	var err error
	end := rng.Start + grapheme.Count(text)
	r.guard(func() {
		b.Group(func() {
			if err = b.Replace(rng, text); err != nil {
				return
			}
			if err = b.Annotate(buffer.Range{Start: rng.Start, End: end}, a); err != nil {
				return
			}
			b.SetCursor(end)
			var rep Report
			r.fix(b, &rep)
		})
	})
	if err != nil {
		return nil, err
	}

	if cur, ok := b.AnnotationRange(a); ok {
		r.log.Debug("mention inserted", "id", m.ID(), "range", cur.String())
		for _, w := range r.watchers {
			w.MentionAdded(m, b.Text(), cur.Start, cur.End)
		}
	}
	return a, nil
}

// Suspend runs fn with the observer callbacks ignored, for programmatic
// edits that must not be mistaken for typing.
func (r *Reconciler) Suspend(fn func()) { r.guard(fn) }

func (r *Reconciler) guard(fn func()) {
	if r.applying {
		fn()
		return
	}
	r.applying = true
	defer func() { r.applying = false }()
	fn()
}

// deleteIntoMention drives the backspace state machine: the first deletion
// right after a mention selects it, later ones advance its display mode.
func (r *Reconciler) deleteIntoMention(b *buffer.Buffer, rng buffer.Range, inserted int) bool {
	cursor := b.Cursor()
	prev, ok := b.AnnotationEndingAt(cursor)
	if !ok {
		return false
	}
	removed := rng.Len()
	if rng.End != cursor || removed == 0 {
		return false
	}
	if removed != inserted+1 && inserted != 0 {
		return false
	}

	a := prev.Annotation
	if inserted == 0 && rng.Start == prev.Range.Start {
		// The buffer drops a collapsed annotation; Settle puts it back.
		r.pending = &collapsed{ann: a, start: prev.Range.Start, text: b.Slice(prev.Range.Start, prev.Range.End)}
	}
	if a.Selected {
		a.Advance()
		r.log.Debug("mention advanced", "id", a.Mention.ID(), "mode", a.Mode.String())
	} else {
		a.Selected = true
		r.log.Debug("mention armed", "id", a.Mention.ID())
	}
	return true
}

// reinstate puts back a mention whose last character the edit deleted. The
// fix pass then applies its new display mode.
func (r *Reconciler) reinstate(b *buffer.Buffer) {
	p := r.pending
	r.pending = nil
	if p == nil {
		return
	}
	if _, ok := b.AnnotationRange(p.ann); ok || p.start > b.Len() {
		return
	}
	at := buffer.Range{Start: p.start, End: p.start}
	if err := b.Replace(at, p.text); err != nil {
		return
	}
	end := p.start + grapheme.Count(p.text)
	if err := b.Annotate(buffer.Range{Start: p.start, End: end}, p.ann); err != nil {
		r.log.Warn("mention not reinstated", "id", p.ann.Mention.ID(), "err", err)
		return
	}
	b.SetCursor(end)
}

// holdCurrentWord parks mentions touching the word before the cursor so
// composition cannot corrupt them. Mentions inside the selection are left
// to the edit.
func (r *Reconciler) holdCurrentWord(b *buffer.Buffer) {
	cursor := b.Cursor()
	wordStart := r.tok.FindWordStart(b, cursor)
	sel, hasSel := b.Selection()
	for _, an := range b.AnnotationsIn(buffer.Range{Start: wordStart, End: cursor}) {
		if an.Annotation.Mode == mention.DisplayNone {
			continue
		}
		if hasSel && sel.Start <= an.Range.Start && an.Range.End <= sel.End {
			continue
		}
		b.Hold(an.Annotation)
	}
}

func (r *Reconciler) restore(b *buffer.Buffer, rep *Report) {
	for _, p := range b.Placeholders() {
		cur, ok := b.Release(p.Annotation)
		if !ok {
			continue
		}
		a := cur.Annotation
		text := a.DisplayText()
		n := grapheme.Count(text)
		if n == 0 {
			continue
		}
		start := cur.Range.Start
		end := min(start+n, b.Len())
		if err := b.Replace(buffer.Range{Start: start, End: end}, text); err != nil {
			continue
		}
		if err := b.Annotate(buffer.Range{Start: start, End: start + n}, a); err != nil {
			r.log.Warn("placeholder not restored", "id", a.Mention.ID(), "err", err)
			continue
		}
		rep.Restored++
	}
}

func (r *Reconciler) fix(b *buffer.Buffer, rep *Report) {
	for _, an := range b.Annotations() {
		a := an.Annotation
		rng, ok := b.AnnotationRange(a)
		if !ok {
			continue
		}

		want := a.DisplayText()
		if a.Mode == mention.DisplayNone || want == "" {
			r.remove(b, a, rng, rep)
			continue
		}
		if b.Slice(rng.Start, rng.End) == want {
			continue
		}

		b.Unannotate(a)
		if err := b.Replace(rng, want); err != nil {
			continue
		}
		if err := b.Annotate(buffer.Range{Start: rng.Start, End: rng.Start + grapheme.Count(want)}, a); err != nil {
			r.log.Warn("mention not re-annotated", "id", a.Mention.ID(), "err", err)
			continue
		}
		if a.Mode == mention.DisplayPartial {
			rep.Partial = append(rep.Partial, a)
			for _, w := range r.watchers {
				w.MentionPartiallyDeleted(a.Mention, b.Text(), rng.Start, rng.End)
			}
		}
	}
}

func (r *Reconciler) remove(b *buffer.Buffer, a *mention.Annotation, rng buffer.Range, rep *Report) {
	before := b.Text()
	b.Unannotate(a)
	if err := b.Replace(rng, ""); err != nil {
		return
	}
	b.SetCursor(rng.Start)
	rep.Removed = append(rep.Removed, a)
	r.log.Debug("mention removed", "id", a.Mention.ID(), "range", rng.String())
	for _, w := range r.watchers {
		w.MentionDeleted(a.Mention, before, rng.Start, rng.End)
	}
}
