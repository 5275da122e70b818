// Package suggestions merges asynchronous suggestion results from several
// named sources (buckets) and decides when the suggestion list is shown.
//
// An Aggregator is owned by the editing goroutine. Query receivers may
// look suggestions up anywhere, but must hand each result back to that
// goroutine before calling Submit.
package suggestions
