package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Table colors
		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#313244"), // Surface0

		// Field list colors
		FieldFiltered: lipgloss.Color("#a6e3a1"), // Green
		FieldHidden:   lipgloss.Color("#6c7086"), // Overlay0
		FieldInactive: lipgloss.Color("#45475a"), // Surface1
		FieldForced:   lipgloss.Color("#fab387"), // Peach
		Header:        lipgloss.Color("#cba6f7"), // Mauve
		Column:        lipgloss.Color("#94e2d5"), // Teal
		OrderMarker:   lipgloss.Color("#f9e2af"), // Yellow
		Mutation:      lipgloss.Color("#eba0ac"), // Maroon
		NullValue:     lipgloss.Color("#6c7086"), // Overlay0
		Metadata:      lipgloss.Color("#a6adc8"), // Subtext0
	}
}
