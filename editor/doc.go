// Package editor is the headless mention editing surface.
//
// An Editor owns a buffer.Buffer, a reconcile.Reconciler observing it, a
// tokenizer.Tokenizer, and a suggestions.Aggregator. Every edit is settled
// by the reconciler before the query step runs, so hosts only see
// consistent text. Rendering and input decoding are left to the host.
package editor
