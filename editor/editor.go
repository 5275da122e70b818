package editor

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/reconcile"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

// ErrNoToken reports that there is no token under the cursor to replace.
var ErrNoToken = errors.New("editor: no token at cursor")

// Editor is not safe for concurrent use. Hosts deliver asynchronous bucket
// results to the goroutine that owns the Editor before calling Submit.
type Editor struct {
	cfg Config
	log *slog.Logger

	tok  *tokenizer.Tokenizer
	buf  *buffer.Buffer
	rec  *reconcile.Reconciler
	agg  *suggestions.Aggregator
	sink suggestions.VisibilitySink

	avoidedPrefix string
	edited        bool
}

func New(cfg Config) *Editor {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = &suggestions.VisibilityState{}
	}

	e := &Editor{cfg: cfg, log: log, sink: sink}
	e.tok = tokenizer.New(cfg.Tokenizer)
	e.buf = buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit, Logger: log})

	recOpts := []reconcile.Option{reconcile.WithLogger(log)}
	if cfg.Watcher != nil {
		recOpts = append(recOpts, reconcile.WithWatcher(cfg.Watcher))
	}
	e.rec = reconcile.New(e.tok, recOpts...)
	e.buf.Observe(e.rec)
	e.buf.Observe(buffer.ObserverFuncs{
		After: func(*buffer.Buffer, buffer.AppliedEdit) { e.edited = true },
	})

	aggOpts := []suggestions.Option{suggestions.WithLogger(log)}
	if cfg.ListBuilder != nil {
		aggOpts = append(aggOpts, suggestions.WithBuilder(cfg.ListBuilder))
	}
	if cfg.OnItems != nil {
		aggOpts = append(aggOpts, suggestions.WithItemsListener(cfg.OnItems))
	}
	if cfg.WaitForAllBuckets {
		aggOpts = append(aggOpts, suggestions.WithWaitForAllBuckets())
	}
	e.agg = suggestions.NewAggregator(sink, aggOpts...)
	return e
}

// Buffer exposes the underlying buffer. Edits made on it directly bypass
// the reconciler settle step and the query step.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

func (e *Editor) Tokenizer() *tokenizer.Tokenizer { return e.tok }

func (e *Editor) Text() string { return e.buf.Text() }

// TextWithoutMentions returns the plain text with no annotation data.
func (e *Editor) TextWithoutMentions() string { return e.buf.Text() }

func (e *Editor) Cursor() int { return e.buf.Cursor() }

func (e *Editor) Selection() (buffer.Range, bool) { return e.buf.Selection() }

func (e *Editor) Annotations() []buffer.Annotated { return e.buf.Annotations() }

func (e *Editor) Sink() suggestions.VisibilitySink { return e.sink }

func (e *Editor) IsDisplayingSuggestions() bool { return e.sink.IsDisplayingSuggestions() }

// Items returns the current suggestion list.
func (e *Editor) Items() []suggestions.Suggestible { return e.agg.Items() }

func (e *Editor) Aggregator() *suggestions.Aggregator { return e.agg }

// AvoidedPrefix returns the keyword prefix currently excluded from queries.
func (e *Editor) AvoidedPrefix() string { return e.avoidedPrefix }

func (e *Editor) SetAvoidedPrefix(prefix string) { e.avoidedPrefix = prefix }

// InsertText types s at the cursor, replacing the selection if any.
func (e *Editor) InsertText(s string) {
	e.edit(func() { e.buf.InsertText(s) })
}

// DeleteBackward applies backspace semantics. Right after a mention it
// selects the mention first, then shrinks or removes it.
func (e *Editor) DeleteBackward() {
	e.edit(e.buf.DeleteBackward)
}

func (e *Editor) DeleteForward() {
	e.edit(e.buf.DeleteForward)
}

// Undo reverts the last edit, mentions included.
func (e *Editor) Undo() bool { return e.history(e.buf.Undo) }

func (e *Editor) Redo() bool { return e.history(e.buf.Redo) }

func (e *Editor) history(step func() bool) bool {
	v := e.buf.Version()
	if !step() {
		return false
	}
	e.query()
	e.emit(v, true)
	return true
}

// Submit delivers one bucket's answer. The editor is the token source, so
// a result for a token no longer under the cursor never hides the list.
func (e *Editor) Submit(result suggestions.Result, bucket string) {
	e.agg.Submit(result, bucket, e)
}

// edit runs fn and the reconciler settle step as one undo step, then the
// query step when text changed.
func (e *Editor) edit(fn func()) {
	v := e.buf.Version()
	e.edited = false
	e.buf.Group(func() {
		fn()
		if rep := e.rec.Settle(e.buf); rep.Changed {
			e.log.Debug("edit settled",
				"removed", len(rep.Removed),
				"partial", len(rep.Partial),
				"restored", rep.Restored,
				"duplicates", rep.Duplicates,
			)
		}
	})
	edited := e.edited
	if edited {
		e.query()
	}
	e.emit(v, edited)
}

// query asks the receiver for suggestions for the token under the cursor.
func (e *Editor) query() {
	if e.avoidedPrefix != "" {
		last, ok := lastKeyword(e.CurrentKeywords())
		if !ok {
			return
		}
		if strings.HasPrefix(last, e.avoidedPrefix) {
			return
		}
		e.avoidedPrefix = ""
	}

	token, ok := e.QueryTokenIfValid()
	if !ok || e.cfg.Receiver == nil {
		e.sink.DisplaySuggestions(false)
		return
	}
	buckets := e.cfg.Receiver.OnQueryReceived(token)
	e.log.Debug("query sent", "token", token.Raw, "buckets", buckets)
	e.agg.RegisterPending(token, buckets...)
}

func (e *Editor) emit(before uint64, edited bool) {
	if e.cfg.OnChange == nil || e.buf.Version() == before {
		return
	}
	e.cfg.OnChange(buildChangeEvent(e.buf, edited))
}
