package editor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/mention"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

type queryLog struct {
	tokens  []string
	buckets []string
}

func (q *queryLog) OnQueryReceived(token tokenizer.QueryToken) []string {
	q.tokens = append(q.tokens, token.Raw)
	return q.buckets
}

type mentionLog struct {
	events []string
}

func (w *mentionLog) MentionAdded(m mention.Mentionable, text string, start, end int) {
	w.events = append(w.events, fmt.Sprintf("added %d [%d,%d)", m.ID(), start, end))
}

func (w *mentionLog) MentionDeleted(m mention.Mentionable, text string, start, end int) {
	w.events = append(w.events, fmt.Sprintf("deleted %d [%d,%d)", m.ID(), start, end))
}

func (w *mentionLog) MentionPartiallyDeleted(m mention.Mentionable, text string, start, end int) {
	w.events = append(w.events, fmt.Sprintf("partial %d [%d,%d)", m.ID(), start, end))
}

func newEditor(t *testing.T, text string) (*Editor, *queryLog, *mentionLog) {
	t.Helper()
	q := &queryLog{buckets: []string{"people"}}
	w := &mentionLog{}
	e := New(Config{Text: text, Receiver: q, Watcher: w})
	e.SetCursor(e.Buffer().Len())
	return e, q, w
}

func person(id int, full string) mention.Entity {
	return mention.Entity{EntityID: id, Full: full, Kind: "person"}
}

func explicit(raw string) tokenizer.QueryToken {
	return tokenizer.NewExplicitQueryToken(raw, '@')
}

func TestQueryStep_ExplicitTokens(t *testing.T) {
	e, q, _ := newEditor(t, "")

	e.InsertText("@")
	e.InsertText("a")
	if got, want := fmt.Sprint(q.tokens), "[@ @a]"; got != want {
		t.Fatalf("queries: got %s, want %s", got, want)
	}
	if !e.IsCurrentlyExplicit() {
		t.Fatalf("token %q not explicit", e.CurrentTokenString())
	}
	if got, want := e.CurrentKeywords(), "a"; got != want {
		t.Fatalf("keywords: got %q, want %q", got, want)
	}

	e.InsertText(" ")
	if got := len(q.tokens); got != 2 {
		t.Fatalf("queries after space: got %d, want 2", got)
	}
	if _, ok := e.QueryTokenIfValid(); ok {
		t.Fatalf("token valid after space")
	}
}

func TestQueryStep_ImplicitThreshold(t *testing.T) {
	e, q, _ := newEditor(t, "")

	e.InsertText("hi wor")
	if len(q.tokens) != 0 {
		t.Fatalf("queries below threshold: %q", q.tokens)
	}
	e.InsertText("l")
	if got, want := fmt.Sprint(q.tokens), "[worl]"; got != want {
		t.Fatalf("queries: got %s, want %s", got, want)
	}
}

func TestSubmit_ShowsAndHides(t *testing.T) {
	e, q, _ := newEditor(t, "")
	q.buckets = []string{"people", "cities"}

	e.InsertText("@al")
	if e.IsDisplayingSuggestions() {
		t.Fatalf("displaying before any result")
	}
	if got, want := e.Aggregator().Pending(explicit("@al")), []string{"cities", "people"}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("pending: got %v, want %v", got, want)
	}

	e.Submit(suggestions.NewResult(explicit("@al"), person(1, "Alice")), "people")
	if !e.IsDisplayingSuggestions() {
		t.Fatalf("not displaying after non-empty result")
	}
	if got := len(e.Items()); got != 1 {
		t.Fatalf("items: got %d, want 1", got)
	}

	e.InsertText(" ")
	if e.IsDisplayingSuggestions() {
		t.Fatalf("displaying after token became invalid")
	}
}

func TestInsertMention_ReplacesToken(t *testing.T) {
	e, q, w := newEditor(t, "hi @al")
	queries := len(q.tokens)

	a, err := e.InsertMention(person(1, "Alice Smith"))
	if err != nil {
		t.Fatalf("InsertMention: %v", err)
	}
	if got, want := e.Text(), "hi Alice Smith"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if got, want := e.Cursor(), 14; got != want {
		t.Fatalf("cursor: got %d, want %d", got, want)
	}
	anns := e.Annotations()
	if len(anns) != 1 || anns[0].Annotation != a || anns[0].Range != (buffer.Range{Start: 3, End: 14}) {
		t.Fatalf("annotations: got %v", anns)
	}
	if e.IsDisplayingSuggestions() || len(e.Items()) != 0 {
		t.Fatalf("suggestions left open: display=%v items=%d", e.IsDisplayingSuggestions(), len(e.Items()))
	}
	if len(q.tokens) != queries {
		t.Fatalf("insert sent a query: %q", q.tokens[queries:])
	}
	if got, want := fmt.Sprint(w.events), "[added 1 [3,14)]"; got != want {
		t.Fatalf("watcher: got %s, want %s", got, want)
	}
}

func TestInsertMention_NoToken(t *testing.T) {
	e := New(Config{})
	if _, err := e.InsertMention(person(1, "Alice")); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err: got %v, want ErrNoToken", err)
	}
	if _, err := e.InsertMentionAt(person(1, "Alice"), buffer.Range{Start: 1, End: 3}); !errors.Is(err, buffer.ErrInvalidRange) {
		t.Fatalf("err: got %v, want ErrInvalidRange", err)
	}
}

func TestInsertMentionWithoutToken(t *testing.T) {
	e, _, _ := newEditor(t, "cc ")
	if _, err := e.InsertMentionWithoutToken(person(2, "Bob")); err != nil {
		t.Fatalf("InsertMentionWithoutToken: %v", err)
	}
	if got, want := e.Text(), "cc Bob"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestInsertMention_UndoRestoresToken(t *testing.T) {
	e, q, _ := newEditor(t, "hi @al")
	if _, err := e.InsertMention(person(1, "Alice")); err != nil {
		t.Fatalf("InsertMention: %v", err)
	}
	queries := len(q.tokens)

	if !e.Undo() {
		t.Fatalf("Undo: nothing to undo")
	}
	if got, want := e.Text(), "hi @al"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
	if got := len(e.Annotations()); got != 0 {
		t.Fatalf("annotations after undo: got %d, want 0", got)
	}
	if got := len(q.tokens); got != queries+1 || q.tokens[queries] != "@al" {
		t.Fatalf("queries after undo: %q", q.tokens)
	}

	if !e.Redo() {
		t.Fatalf("Redo: nothing to redo")
	}
	if got, want := e.Text(), "hi Alice"; got != want {
		t.Fatalf("text after redo: got %q, want %q", got, want)
	}
}

func TestDeleteBackward_FullDeleteMention(t *testing.T) {
	e, _, w := newEditor(t, "to @bo")
	a, err := e.InsertMention(person(2, "Bob Stone"))
	if err != nil {
		t.Fatalf("InsertMention: %v", err)
	}
	w.events = nil

	e.DeleteBackward()
	if got, want := e.Text(), "to Bob Stone"; got != want {
		t.Fatalf("text after first backspace: got %q, want %q", got, want)
	}
	sel, ok := e.SelectedMention()
	if !ok || sel.Annotation != a {
		t.Fatalf("mention not selected after first backspace")
	}

	e.DeleteBackward()
	if got, want := e.Text(), "to "; got != want {
		t.Fatalf("text after second backspace: got %q, want %q", got, want)
	}
	if got, want := e.Cursor(), 3; got != want {
		t.Fatalf("cursor: got %d, want %d", got, want)
	}
	if got, want := fmt.Sprint(w.events), "[deleted 2 [3,11)]"; got != want {
		t.Fatalf("watcher: got %s, want %s", got, want)
	}

	e.Undo()
	if got, want := e.Text(), "to Bob Stone"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
	if got := len(e.Annotations()); got != 1 {
		t.Fatalf("annotations after undo: got %d, want 1", got)
	}
}

func TestAvoidedPrefix(t *testing.T) {
	q := &queryLog{buckets: []string{"people"}}
	e := New(Config{Receiver: q, AvoidPrefixOnTap: true})

	e.InsertText("@ali")
	e.Submit(suggestions.NewResult(explicit("@ali"), person(1, "Alice")), "people")
	if !e.IsDisplayingSuggestions() {
		t.Fatalf("not displaying")
	}

	e.DismissSuggestions()
	if e.IsDisplayingSuggestions() {
		t.Fatalf("still displaying after dismiss")
	}
	if got, want := e.AvoidedPrefix(), "ali"; got != want {
		t.Fatalf("avoided prefix: got %q, want %q", got, want)
	}

	e.InsertText("c")
	if got := len(q.tokens); got != 1 {
		t.Fatalf("queries with avoided prefix: %q", q.tokens)
	}

	e.InsertText(" ")
	if got := e.AvoidedPrefix(); got != "" {
		t.Fatalf("avoided prefix kept: %q", got)
	}
}

func TestDismissSuggestions_EmptyKeywordNotAvoided(t *testing.T) {
	q := &queryLog{buckets: []string{"people"}}
	e := New(Config{Receiver: q, AvoidPrefixOnTap: true})

	e.InsertText("@")
	e.Submit(suggestions.NewResult(explicit("@"), person(1, "Alice")), "people")
	e.DismissSuggestions()
	if got := e.AvoidedPrefix(); got != "" {
		t.Fatalf("avoided prefix: got %q, want empty", got)
	}
}

func TestLastKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", true},
		{"alice", "alice", true},
		{"alice bob", "bob", true},
		{"alice ", "alice", true},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := lastKeyword(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("lastKeyword(%q): got (%q,%v), want (%q,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTrim(t *testing.T) {
	e, _, _ := newEditor(t, "  hi  ")
	e.Trim()
	if got, want := e.Text(), "hi"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestTrim_KeepsMentionsAndUndoesAsOneStep(t *testing.T) {
	e, _, _ := newEditor(t, "  @al")
	a, err := e.InsertMention(person(1, "Alice"))
	if err != nil {
		t.Fatalf("InsertMention: %v", err)
	}
	e.InsertText("  ")

	e.Trim()
	if got, want := e.Text(), "Alice"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if anns := e.Annotations(); len(anns) != 1 || anns[0].Annotation != a || anns[0].Range != (buffer.Range{Start: 0, End: 5}) {
		t.Fatalf("annotations: got %v", anns)
	}

	e.Undo()
	if got, want := e.Text(), "  Alice  "; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
}
