package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mentions/buffer"
	"github.com/iw2rmb/mentions/mention"
	"github.com/iw2rmb/mentions/suggestions"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case ResultMsg:
		return m.updateResult(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateResult(msg ResultMsg) (Model, tea.Cmd) {
	if errors.Is(msg.Err, context.Canceled) {
		// A newer query superseded this lookup; its answer is not wanted.
		m.ed.Aggregator().Release(msg.Result.Token, msg.Bucket)
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn("bucket lookup failed", "bucket", msg.Bucket, "token", msg.Result.Token.Raw, "err", msg.Err)
		m.s.status = fmt.Sprintf("%s: %v", msg.Bucket, msg.Err)
		// An empty answer still releases the bucket.
		msg.Result = suggestions.NewResult(msg.Result.Token)
	}
	m.ed.Submit(msg.Result, msg.Bucket)
	return m, m.drain()
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.ed.InsertText(string(msg.Runes))
		return m, m.drain()
	}

	if m.ShowingSuggestions() {
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.s.active = (m.s.active - 1 + len(m.s.items)) % len(m.s.items)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.s.active = (m.s.active + 1) % len(m.s.items)
			return m, nil
		case key.Matches(msg, m.keys.Accept):
			m.accept()
			return m, m.drain()
		case key.Matches(msg, m.keys.Dismiss):
			m.ed.DismissSuggestions()
			return m, nil
		}
	}

	m.s.status = ""
	extending := false
	switch {
	case key.Matches(msg, m.keys.Left):
		m.ed.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.ed.MoveRight()
	case key.Matches(msg, m.keys.ShiftLeft):
		m.extendSelection(-1)
		extending = true
	case key.Matches(msg, m.keys.ShiftRight):
		m.extendSelection(1)
		extending = true
	case key.Matches(msg, m.keys.Home):
		m.ed.Home()
	case key.Matches(msg, m.keys.End):
		m.ed.End()

	case key.Matches(msg, m.keys.Backspace):
		m.ed.DeleteBackward()
	case key.Matches(msg, m.keys.Delete):
		m.ed.DeleteForward()
	case key.Matches(msg, m.keys.Enter):
		m.ed.InsertText("\n")

	case key.Matches(msg, m.keys.Undo):
		m.ed.Undo()
	case key.Matches(msg, m.keys.Redo):
		m.ed.Redo()

	case key.Matches(msg, m.keys.Copy):
		m.s.clip, m.s.hasClip = m.ed.CopySelection()
	case key.Matches(msg, m.keys.Cut):
		if clip, ok := m.ed.CutSelection(); ok {
			m.s.clip, m.s.hasClip = clip, true
		}
	case key.Matches(msg, m.keys.Paste):
		if m.s.hasClip {
			m.ed.Paste(m.s.clip)
		}

	case key.Matches(msg, m.keys.ToggleMention):
		m.ed.ToggleMentionAt(m.ed.Cursor() - 1)

	default:
		switch {
		case msg.Type == tea.KeySpace:
			m.ed.InsertText(" ")
		case msg.Type == tea.KeyTab:
			m.ed.InsertText("\t")
		case msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt:
			m.ed.InsertText(string(msg.Runes))
		}
	}
	if !extending {
		m.s.anchor, m.s.selEnd = -1, -1
	}
	return m, m.drain()
}

// accept inserts the active suggestion as a mention.
func (m Model) accept() {
	item := m.s.items[m.s.active]
	mm, ok := item.(mention.Mentionable)
	if !ok {
		m.s.status = fmt.Sprintf("%q cannot be mentioned", item.PrimaryText())
		return
	}
	if _, err := m.ed.InsertMention(mm); err != nil {
		m.log.Warn("mention not inserted", "id", mm.ID(), "err", err)
		m.s.status = err.Error()
	}
}

func (m Model) extendSelection(dir int) {
	if m.s.anchor < 0 {
		c := m.ed.Cursor()
		m.s.anchor, m.s.selEnd = c, c
	}
	m.s.selEnd = max(0, min(m.s.selEnd+dir, m.ed.Buffer().Len()))
	m.ed.SetSelection(buffer.NewRange(m.s.anchor, m.s.selEnd))
}

// updateMouse treats a left press as a tap: it toggles the mention under
// the pointer or moves the cursor, and closes the suggestion list.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	p, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.ed.DismissSuggestions()
	if _, hit := m.ed.ToggleMentionAt(p); !hit {
		m.ed.SetCursor(p)
	}
	m.s.anchor, m.s.selEnd = -1, -1
	return m, nil
}
