// Package tokenizer finds mention query tokens around a cursor.
//
// The tokenizer is a pure function of (text, cursor, config). It never panics
// on out-of-range input: a cursor outside [0, len] is treated as 0 and ranges
// are clamped. Indices count grapheme clusters.
package tokenizer
