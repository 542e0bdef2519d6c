package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color

	// Field list colors
	FieldFiltered lipgloss.Color // field carries a value
	FieldHidden   lipgloss.Color // search input not shown
	FieldInactive lipgloss.Color // scoped to another suborganism
	FieldForced   lipgloss.Color // value comes from the hidden baseline
	Header        lipgloss.Color
	Column        lipgloss.Color
	OrderMarker   lipgloss.Color
	Mutation      lipgloss.Color
	NullValue     lipgloss.Color
	Metadata      lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
