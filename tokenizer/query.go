package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// QueryToken is the text the tokenizer considers a mention query.
//
// Two tokens are the same query when their Raw strings are equal, regardless
// of ExplicitChar. Use Key for map keys.
type QueryToken struct {
	Raw string
	// ExplicitChar is the trigger character that opened the token, or 0.
	ExplicitChar rune
}

func NewQueryToken(raw string) QueryToken {
	return QueryToken{Raw: raw}
}

func NewExplicitQueryToken(raw string, explicit rune) QueryToken {
	return QueryToken{Raw: raw, ExplicitChar: explicit}
}

// Keywords returns Raw without its leading explicit character.
func (q QueryToken) Keywords() string {
	if q.ExplicitChar == 0 {
		return q.Raw
	}
	prefix := string(q.ExplicitChar)
	if strings.HasPrefix(q.Raw, prefix) {
		return q.Raw[utf8.RuneLen(q.ExplicitChar):]
	}
	return q.Raw
}

func (q QueryToken) IsExplicit() bool { return q.ExplicitChar != 0 }

// Key is the identity of the token for equality and hashing.
func (q QueryToken) Key() string { return q.Raw }

func (q QueryToken) Equal(o QueryToken) bool { return q.Raw == o.Raw }

func (q QueryToken) String() string { return q.Raw }
