package editor

import (
	"strings"

	"github.com/iw2rmb/mentions/internal/grapheme"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

var _ suggestions.TokenSource = (*Editor)(nil)

// tokenCursor is the selection start when text is selected.
func (e *Editor) tokenCursor() int {
	if r, ok := e.buf.Selection(); ok {
		return r.Start
	}
	return e.buf.Cursor()
}

// CurrentTokenString returns the token under the cursor whether or not it
// is a valid query.
func (e *Editor) CurrentTokenString() string {
	return e.tok.TokenString(e.buf, e.tokenCursor())
}

// CurrentKeywords returns the current token without its trigger character.
func (e *Editor) CurrentKeywords() string {
	s := e.CurrentTokenString()
	clusters := grapheme.Split(s)
	if len(clusters) > 0 && e.tok.IsExplicitChar(clusters[0]) {
		return grapheme.Join(clusters[1:])
	}
	return s
}

// QueryTokenIfValid returns the query token under the cursor when it is
// worth sending to a receiver.
func (e *Editor) QueryTokenIfValid() (tokenizer.QueryToken, bool) {
	return e.tok.Token(e.buf, e.tokenCursor())
}

// IsCurrentlyExplicit reports whether the current token opens with a
// trigger character.
func (e *Editor) IsCurrentlyExplicit() bool {
	clusters := grapheme.Split(e.CurrentTokenString())
	return len(clusters) > 0 && e.tok.IsExplicitChar(clusters[0])
}

// lastKeyword returns the last space separated word of keywords. Trailing
// spaces are ignored; ok is false when only spaces remain.
func lastKeyword(keywords string) (string, bool) {
	trimmed := strings.TrimRight(keywords, " ")
	if trimmed == "" && keywords != "" {
		return "", false
	}
	return trimmed[strings.LastIndex(trimmed, " ")+1:], true
}
