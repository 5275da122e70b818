package tui

import "github.com/charmbracelet/lipgloss"

// Style controls the host rendering.
type Style struct {
	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	Mention         lipgloss.Style
	MentionSelected lipgloss.Style

	List          lipgloss.Style
	Suggestion    lipgloss.Style
	SuggestionOn  lipgloss.Style
	SuggestionTag lipgloss.Style
	Status        lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:            lipgloss.NewStyle(),
		Selection:       lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:          lipgloss.NewStyle().Reverse(true),
		Mention:         lipgloss.NewStyle().Foreground(lipgloss.Color("#00a0dc")),
		MentionSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#0077b5")),
		List:            lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		Suggestion:      lipgloss.NewStyle(),
		SuggestionOn:    lipgloss.NewStyle().Reverse(true),
		SuggestionTag:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Status:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
