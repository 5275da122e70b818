// Package grapheme segments text into user-perceived characters.
//
// Every index in the buffer and tokenizer packages counts grapheme clusters,
// so a family emoji or a letter with a combining accent is one character.
package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, utf8.RuneCountInString(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Join concatenates grapheme clusters into a single string.
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	return strings.Join(clusters, "")
}

// IsLetterOrDigit reports whether the cluster starts with a Unicode letter or
// digit. Combining marks that follow the base rune do not change the answer.
func IsLetterOrDigit(cluster string) bool {
	r, size := utf8.DecodeRuneInString(cluster)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// In reports whether cluster is exactly one of the runes in set.
func In(cluster, set string) bool {
	if cluster == "" || set == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(cluster)
	if size != len(cluster) {
		// Multi-rune clusters (e.g. "\r\n") match only when the set holds
		// the whole cluster.
		return strings.Contains(set, cluster)
	}
	return strings.ContainsRune(set, r)
}
