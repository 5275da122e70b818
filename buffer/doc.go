// Package buffer implements the annotated document model behind a mention
// editor.
//
// Offsets are 0-based grapheme cluster indices into the whole text.
// Ranges are half-open: [Start, End).
//
// Besides text, cursor, and selection, a Buffer tracks three kinds of ranges
// that move with edits:
//   - annotations (mentions), exclusive at both ends;
//   - placeholders, exclusive at the start and inclusive at the end;
//   - delete marks, exclusive at both ends.
//
// Every effective edit is reported to registered Observers before and after
// it is applied.
package buffer
