package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (m Model) View() string {
	parts := []string{m.renderText()}
	if m.ShowingSuggestions() {
		parts = append(parts, m.renderList())
	}
	if m.s.status != "" {
		parts = append(parts, m.st.Status.Render(m.s.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderText styles every character: mentions first, then the selection,
// with the cursor drawn over both.
func (m Model) renderText() string {
	b := m.ed.Buffer()
	cursor := b.Cursor()
	sel, hasSel := b.Selection()
	anns := b.Annotations()

	var sb strings.Builder
	next := 0
	for i := 0; i < b.Len(); i++ {
		for next < len(anns) && anns[next].Range.End <= i {
			next++
		}
		c := b.At(i)
		if c == "\n" {
			if i == cursor {
				sb.WriteString(m.st.Cursor.Render(" "))
			}
			sb.WriteByte('\n')
			continue
		}

		st := m.st.Text
		switch {
		case next < len(anns) && anns[next].Range.Contains(i):
			st = m.st.Mention
			if anns[next].Annotation.Selected {
				st = m.st.MentionSelected
			}
		case hasSel && sel.Contains(i):
			st = m.st.Selection
		}
		if i == cursor && !hasSel {
			st = m.st.Cursor
		}
		sb.WriteString(st.Render(c))
	}
	if cursor == b.Len() && !hasSel {
		sb.WriteString(m.st.Cursor.Render(" "))
	}
	return sb.String()
}

// renderList draws one row per suggestion: the primary text truncated to
// fit, then the tag.
func (m Model) renderList() string {
	inner := max(m.width-m.st.List.GetHorizontalFrameSize(), 8)
	rows := make([]string, 0, len(m.s.items))
	for i, item := range m.s.items {
		tag := item.Tag()
		room := inner
		if tag != "" {
			room -= runewidth.StringWidth(tag) + 1
		}
		name := runewidth.Truncate(item.PrimaryText(), max(room, 1), "…")
		name = runewidth.FillRight(name, max(room, 1))

		st := m.st.Suggestion
		if i == m.s.active {
			st = m.st.SuggestionOn
		}
		row := st.Render(name)
		if tag != "" {
			row += " " + m.st.SuggestionTag.Render(tag)
		}
		rows = append(rows, row)
	}
	return m.st.List.Render(strings.Join(rows, "\n"))
}

// hitTest maps a cell inside the text area to a character offset. A cell
// past the end of a line maps to the line end.
func (m Model) hitTest(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	b := m.ed.Buffer()
	row, col := 0, 0
	for i := 0; i < b.Len(); i++ {
		c := b.At(i)
		if c == "\n" {
			if row == y {
				return i, true
			}
			row++
			col = 0
			continue
		}
		w := max(runewidth.StringWidth(c), 1)
		if row == y && x < col+w {
			return i, true
		}
		col += w
	}
	if row == y {
		return b.Len(), true
	}
	return 0, false
}
