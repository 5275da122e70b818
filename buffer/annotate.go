package buffer

import (
	"slices"

	"github.com/iw2rmb/mentions/mention"
)

// Annotated is a mention annotation together with its current range.
type Annotated struct {
	Range      Range
	Annotation *mention.Annotation
}

// Placeholder stands in for an annotation while its text may be rewritten
// by in-flight composition. Start and End are its original bounds.
type Placeholder struct {
	Range      Range
	Annotation *mention.Annotation
	Start      int
	End        int
}

// Annotate installs a over r. The range must be non-empty, inside the text,
// and clear of other annotations. Re-annotating an existing a moves it.
func (b *Buffer) Annotate(r Range, a *mention.Annotation) error {
	if a == nil || a.Mention == nil {
		return ErrNoMention
	}
	if r.IsEmpty() || !r.valid(len(b.clusters)) {
		err := invalidRange(r, len(b.clusters))
		b.log.Warn("annotation rejected", "range", r.String(), "len", len(b.clusters))
		return err
	}
	for _, cur := range b.anns {
		if cur.Annotation != a && cur.Range.Overlaps(r) {
			b.log.Warn("annotation rejected", "range", r.String(), "overlaps", cur.Range.String())
			return ErrOverlap
		}
	}
	b.Unannotate(a)
	b.anns = append(b.anns, Annotated{Range: r, Annotation: a})
	sortAnnotated(b.anns)
	return nil
}

// Unannotate removes a and reports whether it was present.
func (b *Buffer) Unannotate(a *mention.Annotation) bool {
	i := b.indexOf(a)
	if i < 0 {
		return false
	}
	b.anns = slices.Delete(b.anns, i, i+1)
	return true
}

// AnnotationRange returns the current range of a.
func (b *Buffer) AnnotationRange(a *mention.Annotation) (Range, bool) {
	i := b.indexOf(a)
	if i < 0 {
		return Range{}, false
	}
	return b.anns[i].Range, true
}

// Annotations returns all annotations sorted by start.
func (b *Buffer) Annotations() []Annotated {
	return slices.Clone(b.anns)
}

// AnnotationAt returns the annotation covering offset i.
func (b *Buffer) AnnotationAt(i int) (Annotated, bool) {
	for _, a := range b.anns {
		if a.Range.Contains(i) {
			return a, true
		}
	}
	return Annotated{}, false
}

func (b *Buffer) AnnotationStartingAt(i int) (Annotated, bool) {
	for _, a := range b.anns {
		if a.Range.Start == i {
			return a, true
		}
	}
	return Annotated{}, false
}

func (b *Buffer) AnnotationEndingAt(i int) (Annotated, bool) {
	for _, a := range b.anns {
		if a.Range.End == i {
			return a, true
		}
	}
	return Annotated{}, false
}

// AnnotationsIn returns annotations that overlap or touch r.
func (b *Buffer) AnnotationsIn(r Range) []Annotated {
	var out []Annotated
	for _, a := range b.anns {
		if a.Range.Touches(r) {
			out = append(out, a)
		}
	}
	return out
}

// Hold swaps annotation a for a placeholder over the same text.
func (b *Buffer) Hold(a *mention.Annotation) bool {
	i := b.indexOf(a)
	if i < 0 {
		return false
	}
	r := b.anns[i].Range
	b.anns = slices.Delete(b.anns, i, i+1)
	b.holds = append(b.holds, Placeholder{Range: r, Annotation: a, Start: r.Start, End: r.End})
	return true
}

// Placeholders returns the held annotations in start order.
func (b *Buffer) Placeholders() []Placeholder {
	out := slices.Clone(b.holds)
	slices.SortFunc(out, func(x, y Placeholder) int { return x.Range.Start - y.Range.Start })
	return out
}

// PlaceholdersIn returns placeholders that overlap or touch r.
func (b *Buffer) PlaceholdersIn(r Range) []Placeholder {
	var out []Placeholder
	for _, p := range b.Placeholders() {
		if p.Range.Touches(r) {
			out = append(out, p)
		}
	}
	return out
}

// Release drops the placeholder for a without restoring the annotation.
func (b *Buffer) Release(a *mention.Annotation) (Placeholder, bool) {
	for i, p := range b.holds {
		if p.Annotation == a {
			b.holds = slices.Delete(b.holds, i, i+1)
			return p, true
		}
	}
	return Placeholder{}, false
}

// MarkDelete records r for later removal. Marks move with edits.
func (b *Buffer) MarkDelete(r Range) error {
	if r.IsEmpty() || !r.valid(len(b.clusters)) {
		return invalidRange(r, len(b.clusters))
	}
	b.marks = append(b.marks, r)
	return nil
}

// TakeDeleteMarks returns and clears the delete marks, last range first.
func (b *Buffer) TakeDeleteMarks() []Range {
	out := b.marks
	b.marks = nil
	slices.SortFunc(out, func(x, y Range) int { return y.Start - x.Start })
	return out
}

func (b *Buffer) indexOf(a *mention.Annotation) int {
	if a == nil {
		return -1
	}
	for i, cur := range b.anns {
		if cur.Annotation == a {
			return i
		}
	}
	return -1
}

// moveRanges carries every tracked range through a replacement of r by n
// clusters.
func (b *Buffer) moveRanges(r Range, n int) {
	anns := b.anns[:0]
	for _, a := range b.anns {
		a.Range = Range{Start: shiftRight(a.Range.Start, r, n), End: shiftLeft(a.Range.End, r, n)}
		if a.Range.IsEmpty() {
			b.log.Debug("annotation collapsed", "range", r.String())
			continue
		}
		anns = append(anns, a)
	}
	clear(b.anns[len(anns):])
	b.anns = anns

	holds := b.holds[:0]
	for _, h := range b.holds {
		h.Range = Range{Start: holdStart(h.Range.Start, r, n), End: shiftRight(h.Range.End, r, n)}
		if h.Range.IsEmpty() {
			continue
		}
		holds = append(holds, h)
	}
	clear(b.holds[len(holds):])
	b.holds = holds

	marks := b.marks[:0]
	for _, m := range b.marks {
		m = Range{Start: shiftRight(m.Start, r, n), End: shiftLeft(m.End, r, n)}
		if !m.IsEmpty() {
			marks = append(marks, m)
		}
	}
	b.marks = marks
}

// holdStart keeps a placeholder anchored where a replacement begins, so text
// composed over a held mention is rewritten in place. Pure insertions at the
// start still land before it.
func holdStart(p int, r Range, n int) int {
	if r.IsEmpty() {
		return shiftRight(p, r, n)
	}
	switch {
	case p < r.Start:
		return p
	case p >= r.End:
		return p + n - r.Len()
	default:
		return r.Start
	}
}

func sortAnnotated(anns []Annotated) {
	slices.SortFunc(anns, func(x, y Annotated) int { return x.Range.Start - y.Range.Start })
}
