// Package reconcile keeps mention annotations consistent with the text they
// cover while the buffer is edited.
//
// A Reconciler is registered as a buffer.Observer. During an edit it arms
// and advances mentions under repeated backspaces, parks mentions in the
// word being composed as placeholders, and marks text duplicated by some
// input methods. Settle then applies the deferred fix-ups. Edits made by the
// Reconciler itself are ignored by its observer callbacks.
package reconcile
