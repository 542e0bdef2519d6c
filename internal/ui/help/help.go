package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"Tab", "Switch panel focus"},
		{"b, ←", "Back to previous search"},
		{"f, →", "Forward"},
		{"o", "Open a query string or URL"},
	}
}

// GetNavigationKeys returns field list key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"g/G", "Jump to top/bottom"},
		{"/", "Quick filter fields (f: v: h: c: r: m: b:, ! negates)"},
	}
}

// GetSearchKeys returns key bindings that change the search
func GetSearchKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter, e", "Edit field value"},
		{"x, d", "Remove filter"},
		{"v", "Show/hide search field"},
		{"c", "Show/hide result column"},
		{"m", "Edit mutation filter"},
		{"S", "Select suborganism"},
		{"R", "Reset all filters"},
	}
}

// GetResultKeys returns ordering, paging and layout key bindings
func GetResultKeys() []KeyBinding {
	return []KeyBinding{
		{"s", "Order results by field"},
		{"r", "Reverse order direction"},
		{"n, ]", "Next page"},
		{"p, [", "Previous page"},
		{"a", "Select sequence by accession"},
		{"A", "Close selected sequence"},
		{"H", "Toggle half-screen detail"},
		{"u", "Toggle URL preview"},
		{"y", "Copy search URL"},
	}
}

// GetSavedSearchKeys returns saved search key bindings
func GetSavedSearchKeys() []KeyBinding {
	return []KeyBinding{
		{"B", "Save current search"},
		{"L", "List saved searches"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Fields", GetNavigationKeys()},
		{"Search", GetSearchKeys()},
		{"Results", GetResultKeys()},
		{"Saved Searches", GetSavedSearchKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("seqsearch - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
