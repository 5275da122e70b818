package editor

import (
	"log/slog"

	"github.com/iw2rmb/mentions/reconcile"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

// Config configures an Editor.
type Config struct {
	// Initial text for the internal buffer.
	Text string

	// Tokenizer configures query detection. A zero value uses
	// tokenizer.DefaultConfig.
	Tokenizer tokenizer.Config

	// Forwarded to buffer.Options.
	HistoryLimit int

	// Receiver is asked for suggestions whenever the token under the cursor
	// is valid. A nil Receiver only hides suggestions.
	Receiver suggestions.QueryReceiver
	// Sink receives visibility signals. A nil Sink gets a
	// suggestions.VisibilityState.
	Sink suggestions.VisibilitySink
	// ListBuilder combines bucket results. Nil means
	// suggestions.ConcatBuilder.
	ListBuilder suggestions.ListBuilder
	// WaitForAllBuckets keeps the list hidden until every bucket registered
	// for the current token has answered.
	WaitForAllBuckets bool
	// OnItems receives the suggestion list after every rebuild.
	OnItems func(items []suggestions.Suggestible)

	// AvoidPrefixOnTap makes DismissSuggestions stop querying for the last
	// keyword until the user types something that no longer starts with it.
	AvoidPrefixOnTap bool

	// Watcher is notified when mentions are added or deleted.
	Watcher reconcile.Watcher

	// OnChange is called after any operation that changes the buffer
	// version.
	OnChange func(ChangeEvent)

	Logger *slog.Logger
}
