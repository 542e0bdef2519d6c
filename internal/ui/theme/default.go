package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:      lipgloss.Color("105"),
		TableRowEven:     lipgloss.Color("235"),
		TableRowOdd:      lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("25"),

		// Field list colors
		FieldFiltered: lipgloss.Color("42"),
		FieldHidden:   lipgloss.Color("244"),
		FieldInactive: lipgloss.Color("238"),
		FieldForced:   lipgloss.Color("180"),
		Header:        lipgloss.Color("75"),
		Column:        lipgloss.Color("117"),
		OrderMarker:   lipgloss.Color("220"),
		Mutation:      lipgloss.Color("150"),
		NullValue:     lipgloss.Color("244"),
		Metadata:      lipgloss.Color("245"),
	}
}
