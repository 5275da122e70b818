package suggestions

import (
	"log/slog"
	"slices"

	"github.com/iw2rmb/mentions/tokenizer"
)

type Option func(*Aggregator)

// WithBuilder replaces the default ConcatBuilder.
func WithBuilder(b ListBuilder) Option {
	return func(a *Aggregator) {
		if b != nil {
			a.builder = b
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithItemsListener registers fn to receive the list after every rebuild
// and after Clear.
func WithItemsListener(fn func(items []Suggestible)) Option {
	return func(a *Aggregator) { a.onItems = fn }
}

// WithWaitForAllBuckets defers showing a non-empty list until every bucket
// registered for the current token has answered.
func WithWaitForAllBuckets() Option {
	return func(a *Aggregator) { a.waitForAll = true }
}

// Aggregator tracks outstanding buckets per token and the latest result per
// bucket. It is not safe for concurrent use.
//
// By default the list is shown as soon as any bucket returns a non-empty
// result for the current token. WithWaitForAllBuckets keeps it hidden until
// every bucket registered for that token has answered.
//
// Every registered bucket must answer through Submit or be given up with
// Release; otherwise its token stays in the waiting set.
type Aggregator struct {
	sink    VisibilitySink
	builder ListBuilder
	log     *slog.Logger
	onItems func([]Suggestible)

	waitForAll bool

	waiting map[string]map[string]struct{}
	results []BucketResult
	items   []Suggestible
}

// NewAggregator returns an Aggregator signalling visibility to sink. A nil
// sink gets a private VisibilityState.
func NewAggregator(sink VisibilitySink, opts ...Option) *Aggregator {
	if sink == nil {
		sink = &VisibilityState{}
	}
	a := &Aggregator{
		sink:    sink,
		builder: ConcatBuilder{},
		log:     slog.New(slog.DiscardHandler),
		waiting: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Sink() VisibilitySink { return a.sink }

// RegisterPending records that buckets will answer token.
func (a *Aggregator) RegisterPending(token tokenizer.QueryToken, buckets ...string) {
	if len(buckets) == 0 {
		return
	}
	key := token.Key()
	set, ok := a.waiting[key]
	if !ok {
		set = make(map[string]struct{}, len(buckets))
		a.waiting[key] = set
	}
	for _, b := range buckets {
		set[b] = struct{}{}
	}
}

// Submit stores result as the latest answer of bucket and rebuilds the
// list against the token string reported by src.
//
// A non-empty list is shown. An empty list hides suggestions only when no
// bucket is still pending for result's token and that token is still the
// current one, so a stale answer never hides a live list.
func (a *Aggregator) Submit(result Result, bucket string, src TokenSource) {
	a.store(bucket, result)

	if !a.unwait(result.Token, bucket) {
		a.log.Debug("result for untracked token", "token", result.Token.Raw, "bucket", bucket)
	}

	current := ""
	if src != nil {
		current = src.CurrentTokenString()
	}
	a.items = a.builder.Combine(slices.Clone(a.results), current)
	a.emitItems()

	if len(a.items) > 0 {
		if a.waitForAll && len(a.waiting[current]) > 0 {
			return
		}
		a.sink.DisplaySuggestions(true)
		return
	}
	if !a.IsWaiting(result.Token) && result.Token.Raw == current {
		a.sink.DisplaySuggestions(false)
	}
}

// Release gives up on bucket answering token, for abandoned lookups. Stored
// results and visibility are left as they are.
func (a *Aggregator) Release(token tokenizer.QueryToken, bucket string) {
	if a.unwait(token, bucket) {
		a.log.Debug("bucket released", "token", token.Raw, "bucket", bucket)
	}
}

func (a *Aggregator) unwait(token tokenizer.QueryToken, bucket string) bool {
	key := token.Key()
	set, ok := a.waiting[key]
	if !ok {
		return false
	}
	delete(set, bucket)
	if len(set) == 0 {
		delete(a.waiting, key)
	}
	return true
}

// Clear drops every stored result and publishes an empty list. Pending
// buckets are kept.
func (a *Aggregator) Clear() {
	a.results = nil
	a.items = nil
	a.emitItems()
}

// Items returns the current suggestion list.
func (a *Aggregator) Items() []Suggestible { return slices.Clone(a.items) }

// Results returns the latest result per bucket in insertion order.
func (a *Aggregator) Results() []BucketResult { return slices.Clone(a.results) }

// IsWaiting reports whether any bucket has yet to answer token.
func (a *Aggregator) IsWaiting(token tokenizer.QueryToken) bool {
	return len(a.waiting[token.Key()]) > 0
}

// Pending returns the buckets that have yet to answer token, sorted.
func (a *Aggregator) Pending(token tokenizer.QueryToken) []string {
	set := a.waiting[token.Key()]
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

func (a *Aggregator) store(bucket string, result Result) {
	for i := range a.results {
		if a.results[i].Bucket == bucket {
			a.results[i].Result = result
			return
		}
	}
	a.results = append(a.results, BucketResult{Bucket: bucket, Result: result})
}

func (a *Aggregator) emitItems() {
	if a.onItems != nil {
		a.onItems(slices.Clone(a.items))
	}
}
