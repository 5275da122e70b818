package suggestions

import (
	"slices"

	"github.com/iw2rmb/mentions/tokenizer"
)

// Suggestible is an item that can be offered for a query.
//
// Tag names the kind of item ("person", "city") so list builders can group
// items without inspecting concrete types.
type Suggestible interface {
	ID() int
	PrimaryText() string
	Tag() string
}

// Result is the answer of one bucket for one token. It is immutable once
// built with NewResult.
type Result struct {
	Token tokenizer.QueryToken
	Items []Suggestible
}

func NewResult(token tokenizer.QueryToken, items ...Suggestible) Result {
	return Result{Token: token, Items: slices.Clone(items)}
}

// BucketResult is the latest Result stored for a bucket.
type BucketResult struct {
	Bucket string
	Result Result
}

// QueryReceiver looks up suggestions for a token. It returns the buckets
// that will each answer exactly once through Aggregator.Submit.
type QueryReceiver interface {
	OnQueryReceived(token tokenizer.QueryToken) []string
}

type QueryReceiverFunc func(token tokenizer.QueryToken) []string

func (f QueryReceiverFunc) OnQueryReceived(token tokenizer.QueryToken) []string { return f(token) }

// TokenSource reports the token string currently under the cursor.
type TokenSource interface {
	CurrentTokenString() string
}

type TokenSourceFunc func() string

func (f TokenSourceFunc) CurrentTokenString() string { return f() }
