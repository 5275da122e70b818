package suggestions

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ListBuilder turns the latest per-bucket results into the visible list.
// results are in bucket insertion order; current is the token string under
// the cursor.
type ListBuilder interface {
	Combine(results []BucketResult, current string) []Suggestible
}

type ListBuilderFunc func(results []BucketResult, current string) []Suggestible

func (f ListBuilderFunc) Combine(results []BucketResult, current string) []Suggestible {
	return f(results, current)
}

// ConcatBuilder concatenates the items of every result whose token matches
// current.
type ConcatBuilder struct{}

func (ConcatBuilder) Combine(results []BucketResult, current string) []Suggestible {
	var out []Suggestible
	for _, br := range results {
		if MatchToken(br.Result.Token.Raw, current) {
			out = append(out, br.Result.Items...)
		}
	}
	return out
}

// TagOrderBuilder concatenates matching items like ConcatBuilder, then
// groups them by the position of their tag in Order. Items with tags not
// in Order come last; order within a group is preserved.
type TagOrderBuilder struct {
	Order []string
}

func (b TagOrderBuilder) Combine(results []BucketResult, current string) []Suggestible {
	out := ConcatBuilder{}.Combine(results, current)
	rank := func(s Suggestible) int {
		if i := slices.Index(b.Order, s.Tag()); i >= 0 {
			return i
		}
		return len(b.Order)
	}
	slices.SortStableFunc(out, func(x, y Suggestible) int { return rank(x) - rank(y) })
	return out
}

// MatchToken reports whether two token strings are the same query, ignoring
// case and Unicode normalization form.
func MatchToken(a, b string) bool {
	if a == b {
		return true
	}
	return foldToken(a) == foldToken(b)
}

func foldToken(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
