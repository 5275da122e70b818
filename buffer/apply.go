package buffer

import "github.com/iw2rmb/mentions/internal/grapheme"

// Apply applies a sequence of text edits as one change. Each edit's range is
// interpreted against the buffer state at the time that edit is applied.
//
// Every range is validated up front; if any is invalid nothing is applied.
// The cursor moves to the end of the last effective edit and the selection
// is cleared if any edit applies.
func (b *Buffer) Apply(edits ...TextEdit) error {
	if len(edits) == 0 {
		return nil
	}

	n := len(b.clusters)
	for _, e := range edits {
		if !e.Range.valid(n) {
			b.log.Warn("edit rejected", "range", e.Range.String(), "len", n)
			return invalidRange(e.Range, n)
		}
		n += countClusters(e.Text) - e.Range.Len()
	}

	b.transact(true, edits...)
	return nil
}

func countClusters(s string) int { return grapheme.Count(s) }
