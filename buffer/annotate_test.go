package buffer

import (
	"errors"
	"testing"

	"github.com/iw2rmb/mentions/mention"
)

func newAnnotation(id int, full string) *mention.Annotation {
	return mention.New(mention.Entity{EntityID: id, Full: full})
}

func annotationRange(t *testing.T, b *Buffer, a *mention.Annotation) Range {
	t.Helper()
	r, ok := b.AnnotationRange(a)
	if !ok {
		t.Fatalf("annotation %d missing", a.Mention.ID())
	}
	return r
}

func TestBuffer_Annotate_Validation(t *testing.T) {
	b := New("Alice Bob", Options{})
	alice := newAnnotation(1, "Alice")
	bob := newAnnotation(2, "Bob")

	if err := b.Annotate(Range{Start: 3, End: 3}, alice); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("empty range err=%v, want ErrInvalidRange", err)
	}
	if err := b.Annotate(Range{Start: 6, End: 10}, bob); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("out of range err=%v, want ErrInvalidRange", err)
	}
	if err := b.Annotate(Range{Start: 0, End: 5}, alice); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if err := b.Annotate(Range{Start: 4, End: 6}, bob); !errors.Is(err, ErrOverlap) {
		t.Fatalf("overlap err=%v, want ErrOverlap", err)
	}
	if err := b.Annotate(Range{Start: 6, End: 9}, bob); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	got := b.Annotations()
	if len(got) != 2 || got[0].Annotation != alice || got[1].Annotation != bob {
		t.Fatalf("annotations=%v, want alice then bob", got)
	}

	var spans []Range
	for start, end := range b.Spans() {
		spans = append(spans, Range{Start: start, End: end})
	}
	if len(spans) != 2 || spans[0] != (Range{Start: 0, End: 5}) || spans[1] != (Range{Start: 6, End: 9}) {
		t.Fatalf("spans=%v", spans)
	}

	if a, ok := b.AnnotationEndingAt(5); !ok || a.Annotation != alice {
		t.Fatalf("AnnotationEndingAt(5)=%v,%v", a, ok)
	}
	if a, ok := b.AnnotationStartingAt(6); !ok || a.Annotation != bob {
		t.Fatalf("AnnotationStartingAt(6)=%v,%v", a, ok)
	}
	if _, ok := b.AnnotationAt(5); ok {
		t.Fatalf("expected no annotation covering the space")
	}
	if got := b.AnnotationsIn(Range{Start: 5, End: 6}); len(got) != 2 {
		t.Fatalf("AnnotationsIn touching=%d, want 2", len(got))
	}

	if !b.Unannotate(alice) {
		t.Fatalf("expected Unannotate=true")
	}
	if b.Unannotate(alice) {
		t.Fatalf("expected second Unannotate=false")
	}
}

func TestBuffer_AnnotationBoundsAreExclusive(t *testing.T) {
	b := New("hi Alice there", Options{})
	a := newAnnotation(1, "Alice")
	if err := b.Annotate(Range{Start: 3, End: 8}, a); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	b.SetCursor(0)
	b.InsertText("X")
	if got, want := annotationRange(t, b, a), (Range{Start: 4, End: 9}); got != want {
		t.Fatalf("after insert before=%v, want %v", got, want)
	}

	b.SetCursor(4)
	b.InsertText("Y")
	if got, want := annotationRange(t, b, a), (Range{Start: 5, End: 10}); got != want {
		t.Fatalf("after insert at start=%v, want %v", got, want)
	}

	b.SetCursor(10)
	b.InsertText("Z")
	if got, want := annotationRange(t, b, a), (Range{Start: 5, End: 10}); got != want {
		t.Fatalf("after insert at end=%v, want %v", got, want)
	}
	if got, want := b.Slice(5, 10), "Alice"; got != want {
		t.Fatalf("annotated text=%q, want %q", got, want)
	}

	b.SetCursor(7)
	b.InsertText("-")
	if got, want := annotationRange(t, b, a), (Range{Start: 5, End: 11}); got != want {
		t.Fatalf("after insert inside=%v, want %v", got, want)
	}

	if err := b.Replace(Range{Start: 4, End: 12}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := b.Annotations(); len(got) != 0 {
		t.Fatalf("expected collapsed annotation dropped, got %v", got)
	}
}

func TestBuffer_Placeholders(t *testing.T) {
	b := New("Alice", Options{})
	a := newAnnotation(1, "Alice")
	if err := b.Annotate(Range{Start: 0, End: 5}, a); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !b.Hold(a) {
		t.Fatalf("expected Hold=true")
	}
	if got := b.Annotations(); len(got) != 0 {
		t.Fatalf("held annotation still live: %v", got)
	}

	b.SetCursor(5)
	b.InsertText("x")
	ph := b.Placeholders()
	if len(ph) != 1 {
		t.Fatalf("placeholders=%d, want 1", len(ph))
	}
	if got, want := ph[0].Range, (Range{Start: 0, End: 6}); got != want {
		t.Fatalf("placeholder range=%v, want %v", got, want)
	}
	if ph[0].Start != 0 || ph[0].End != 5 || ph[0].Annotation != a {
		t.Fatalf("placeholder origin=%+v", ph[0])
	}

	if err := b.Replace(Range{Start: 0, End: 6}, "Alicia"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got, want := b.Placeholders()[0].Range, (Range{Start: 0, End: 6}); got != want {
		t.Fatalf("placeholder after rewrite=%v, want %v", got, want)
	}
	if got := b.PlaceholdersIn(Range{Start: 0, End: 1}); len(got) != 1 {
		t.Fatalf("PlaceholdersIn=%d, want 1", len(got))
	}

	p, ok := b.Release(a)
	if !ok || p.Annotation != a {
		t.Fatalf("Release=%v,%v", p, ok)
	}
	if got := b.Placeholders(); len(got) != 0 {
		t.Fatalf("placeholders after release=%v", got)
	}
}

func TestBuffer_PlaceholderDroppedWhenTextRemoved(t *testing.T) {
	b := New("Alice", Options{})
	a := newAnnotation(1, "Alice")
	if err := b.Annotate(Range{Start: 0, End: 5}, a); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	b.Hold(a)
	if err := b.Replace(Range{Start: 0, End: 5}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := b.Placeholders(); len(got) != 0 {
		t.Fatalf("placeholders=%v, want none", got)
	}
}

func TestBuffer_DeleteMarks(t *testing.T) {
	b := New("abcdef", Options{})
	if err := b.MarkDelete(Range{Start: 1, End: 2}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := b.MarkDelete(Range{Start: 3, End: 5}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := b.MarkDelete(Range{Start: 5, End: 9}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err=%v, want ErrInvalidRange", err)
	}

	if err := b.Replace(Range{Start: 0, End: 0}, "zz"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	marks := b.TakeDeleteMarks()
	if len(marks) != 2 || marks[0] != (Range{Start: 5, End: 7}) || marks[1] != (Range{Start: 3, End: 4}) {
		t.Fatalf("marks=%v", marks)
	}
	if got := b.TakeDeleteMarks(); len(got) != 0 {
		t.Fatalf("marks not cleared: %v", got)
	}
}
