package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel is a bordered box with an optional title line
type Panel struct {
	Title   string
	Badge   string // dimmed text after the title, such as a count
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		MaxHeight(p.Height + 2).
		Border(lipgloss.RoundedBorder())

	content := p.Content
	if p.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(p.Title)
		if p.Badge != "" {
			title += lipgloss.NewStyle().Faint(true).Render(p.Badge)
		}
		content = title + "\n" + content
	}

	return style.Render(content)
}
