package components

// FieldList renders the search page's fields with their current value and
// flags, with keyboard navigation, quick filtering and viewport scrolling.
//
// Usage:
//
//	list := components.NewFieldList(theme)
//	list.SetRows(rows)
//	list.SetFilter("f:")
//
//	// In your Update method:
//	list, cmd := list.Update(msg)

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// FieldRow is one field of the search page as the list shows it
type FieldRow struct {
	Name          string
	Label         string
	Header        string
	Kind          models.FieldKind
	Value         string // Display form of the current value
	Filtered      bool   // Field carries a non-empty value
	Forced        bool   // Value comes from the hidden baseline
	SearchVisible bool
	ColumnVisible bool
	Active        bool   // False when scoped to another suborganism
	Order         string // Order marker when results are ordered by this field
}

// FieldSelectedMsg is sent when a field is selected (Enter key)
type FieldSelectedMsg struct {
	Row FieldRow
}

// FieldList is the navigable list of fields
type FieldList struct {
	CursorIndex  int
	ScrollOffset int
	Width        int
	Height       int
	Theme        theme.Theme

	rows   []FieldRow
	filter string
}

// NewFieldList creates a new field list
func NewFieldList(th theme.Theme) *FieldList {
	return &FieldList{
		Width:  40,
		Height: 20,
		Theme:  th,
	}
}

// SetRows replaces the rows, keeping the cursor on the same field when it is
// still listed.
func (fl *FieldList) SetRows(rows []FieldRow) {
	current, ok := fl.Selected()
	fl.rows = rows
	if ok {
		fl.SelectName(current.Name)
	}
	fl.clampCursor()
}

// SetFilter applies a quick-filter query
func (fl *FieldList) SetFilter(query string) {
	fl.filter = query
	fl.CursorIndex = 0
	fl.ScrollOffset = 0
}

// Filter returns the active quick-filter query
func (fl *FieldList) Filter() string {
	return fl.filter
}

// VisibleRows returns the rows passing the quick filter
func (fl *FieldList) VisibleRows() []FieldRow {
	if fl.filter == "" {
		return fl.rows
	}
	return FilterRows(fl.rows, ParseFieldQuery(fl.filter))
}

// Selected returns the row under the cursor
func (fl *FieldList) Selected() (FieldRow, bool) {
	rows := fl.VisibleRows()
	if fl.CursorIndex < 0 || fl.CursorIndex >= len(rows) {
		return FieldRow{}, false
	}
	return rows[fl.CursorIndex], true
}

// SelectName moves the cursor to the named field
func (fl *FieldList) SelectName(name string) bool {
	for i, row := range fl.VisibleRows() {
		if row.Name == name {
			fl.CursorIndex = i
			return true
		}
	}
	return false
}

// MoveSelection moves the cursor up or down
func (fl *FieldList) MoveSelection(delta int) {
	fl.CursorIndex += delta
	fl.clampCursor()
}

func (fl *FieldList) clampCursor() {
	n := len(fl.VisibleRows())
	if fl.CursorIndex >= n {
		fl.CursorIndex = n - 1
	}
	if fl.CursorIndex < 0 {
		fl.CursorIndex = 0
	}
}

// Update handles keyboard input for list navigation
func (fl *FieldList) Update(msg tea.KeyMsg) (*FieldList, tea.Cmd) {
	rows := fl.VisibleRows()
	if len(rows) == 0 {
		return fl, nil
	}

	var cmd tea.Cmd

	switch msg.String() {
	case "up", "k":
		fl.MoveSelection(-1)
	case "down", "j":
		fl.MoveSelection(1)
	case "g":
		fl.CursorIndex = 0
		fl.ScrollOffset = 0
	case "G":
		fl.CursorIndex = len(rows) - 1
	case "enter":
		row := rows[fl.CursorIndex]
		if row.Active {
			cmd = func() tea.Msg {
				return FieldSelectedMsg{Row: row}
			}
		}
	}

	return fl, cmd
}

// View renders the list
func (fl *FieldList) View() string {
	rows := fl.VisibleRows()
	if len(rows) == 0 {
		return fl.emptyState()
	}
	fl.clampCursor()

	viewHeight := fl.Height - 4
	if viewHeight < 1 {
		viewHeight = 1
	}
	fl.adjustScrollOffset(len(rows), viewHeight)

	startIdx := fl.ScrollOffset
	endIdx := fl.ScrollOffset + viewHeight
	if endIdx > len(rows) {
		endIdx = len(rows)
	}

	var lines []string
	header := ""
	if startIdx > 0 {
		header = rows[startIdx-1].Header
	}
	headerStyle := lipgloss.NewStyle().Foreground(fl.Theme.Header).Bold(true)
	for i := startIdx; i < endIdx && len(lines) < viewHeight; i++ {
		row := rows[i]
		if fl.filter == "" && row.Header != "" && row.Header != header && len(lines) < viewHeight-1 {
			lines = append(lines, headerStyle.Render(row.Header))
		}
		header = row.Header
		lines = append(lines, fl.renderRow(row, i == fl.CursorIndex))
	}

	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	if fl.filter != "" {
		filterStyle := lipgloss.NewStyle().Foreground(fl.Theme.Info).Italic(true)
		content = filterStyle.Render(fmt.Sprintf("/%s (%d)", fl.filter, len(rows))) + "\n" + content
	}
	return content
}

// rowFlags is the fixed-width flag column: search input shown, result
// column shown, value forced.
func rowFlags(row FieldRow) string {
	flags := []byte("   ")
	if row.SearchVisible {
		flags[0] = 's'
	}
	if row.ColumnVisible {
		flags[1] = 'c'
	}
	if row.Forced {
		flags[2] = '*'
	}
	return string(flags)
}

func (fl *FieldList) renderRow(row FieldRow, selected bool) string {
	maxWidth := fl.Width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}

	label := row.Label
	if row.Order != "" {
		label += " " + row.Order
	}
	content := rowFlags(row) + " " + label
	if row.Value != "" {
		content += " = " + row.Value
	}
	if len(content) > maxWidth {
		content = content[:maxWidth-1] + "…"
	}

	style := lipgloss.NewStyle().Width(maxWidth)
	switch {
	case !row.Active:
		style = style.Foreground(fl.Theme.FieldInactive)
	case row.Forced:
		style = style.Foreground(fl.Theme.FieldForced)
	case row.Filtered:
		style = style.Foreground(fl.Theme.FieldFiltered)
	case !row.SearchVisible:
		style = style.Foreground(fl.Theme.FieldHidden)
	default:
		style = style.Foreground(fl.Theme.Foreground)
	}
	if selected {
		style = style.Background(fl.Theme.Selection).Bold(true)
	}
	return style.Render(content)
}

func (fl *FieldList) adjustScrollOffset(total, viewHeight int) {
	if fl.CursorIndex < fl.ScrollOffset {
		fl.ScrollOffset = fl.CursorIndex
	}
	// Header lines take room too; keep a margin of one.
	if fl.CursorIndex >= fl.ScrollOffset+viewHeight-1 {
		fl.ScrollOffset = fl.CursorIndex - viewHeight + 2
	}
	maxScroll := total - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if fl.ScrollOffset > maxScroll {
		fl.ScrollOffset = maxScroll
	}
	if fl.ScrollOffset < 0 {
		fl.ScrollOffset = 0
	}
}

func (fl *FieldList) emptyState() string {
	style := lipgloss.NewStyle().
		Foreground(fl.Theme.Metadata).
		Italic(true).
		Width(fl.Width - 2).
		Align(lipgloss.Center)

	if fl.filter != "" {
		return style.Render(fmt.Sprintf("No fields match %q", fl.filter))
	}
	return style.Render("No search fields configured")
}
