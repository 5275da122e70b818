// Package mention defines mentionable entities and the annotation that binds
// one of them to a run of text in a buffer.
//
// An Annotation carries identity, display mode, and selection state. Its range
// is owned by the buffer that holds it.
package mention
