package reconcile

import "github.com/iw2rmb/mentions/mention"

// Watcher is told about mention lifecycle events. text is the full buffer
// text at the time of the event and [start, end) the mention's range in it.
type Watcher interface {
	MentionAdded(m mention.Mentionable, text string, start, end int)
	MentionDeleted(m mention.Mentionable, text string, start, end int)
	MentionPartiallyDeleted(m mention.Mentionable, text string, start, end int)
}

// WatcherFuncs adapts plain functions to Watcher. Nil fields are skipped.
type WatcherFuncs struct {
	Added            func(m mention.Mentionable, text string, start, end int)
	Deleted          func(m mention.Mentionable, text string, start, end int)
	PartiallyDeleted func(m mention.Mentionable, text string, start, end int)
}

func (f WatcherFuncs) MentionAdded(m mention.Mentionable, text string, start, end int) {
	if f.Added != nil {
		f.Added(m, text, start, end)
	}
}

func (f WatcherFuncs) MentionDeleted(m mention.Mentionable, text string, start, end int) {
	if f.Deleted != nil {
		f.Deleted(m, text, start, end)
	}
}

func (f WatcherFuncs) MentionPartiallyDeleted(m mention.Mentionable, text string, start, end int) {
	if f.PartiallyDeleted != nil {
		f.PartiallyDeleted(m, text, start, end)
	}
}
