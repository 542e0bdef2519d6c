package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// ErrorOverlay is a centered box reporting a failed action
type ErrorOverlay struct {
	Title   string
	Message string
	Width   int
	Theme   theme.Theme
}

// NewErrorOverlay creates a new error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{
		Width: 60,
		Theme: th,
	}
}

// SetError replaces the reported error
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Error).
		Bold(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	content := strings.Join([]string{
		titleStyle.Render(e.Title),
		"",
		e.Message,
		"",
		helpStyle.Render("Esc/Enter: dismiss"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(content)
}
