package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// TableView displays rows of text cells with a scrolling window
type TableView struct {
	Columns []string
	Rows    [][]string
	Width   int
	Height  int
	Theme   theme.Theme

	// Status is rendered below the rows
	Status string

	// Marker is appended to the header of column MarkerColumn
	MarkerColumn int
	Marker       string

	TopRow      int
	VisibleRows int
	SelectedRow int

	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Columns:      []string{},
		Rows:         [][]string{},
		ColumnWidths: []int{},
		MarkerColumn: -1,
		Theme:        th,
	}
}

// SetData sets the table data, keeping the selection in range
func (tv *TableView) SetData(columns []string, rows [][]string) {
	tv.Columns = columns
	tv.Rows = rows
	tv.calculateColumnWidths()
	if tv.SelectedRow >= len(rows) {
		tv.SelectedRow = len(rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.TopRow > tv.SelectedRow {
		tv.TopRow = tv.SelectedRow
	}
}

func (tv *TableView) headerLabel(i int) string {
	if i == tv.MarkerColumn && tv.Marker != "" {
		return tv.Columns[i] + " " + tv.Marker
	}
	return tv.Columns[i]
}

func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	for i := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(tv.headerLabel(i))
	}
	for _, row := range tv.Rows {
		for i, cell := range row {
			if i < len(tv.ColumnWidths) {
				if w := runewidth.StringWidth(cell); w > tv.ColumnWidths[i] {
					tv.ColumnWidths[i] = w
				}
			}
		}
	}

	maxWidth := 40
	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > maxWidth {
			tv.ColumnWidths[i] = maxWidth
		}
		if tv.ColumnWidths[i] < 6 {
			tv.ColumnWidths[i] = 6
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Render("No data")
	}
	tv.calculateColumnWidths()

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())

	tv.VisibleRows = tv.Height - 3 // Header + separator + status
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString("\n")
		b.WriteString(tv.renderRow(tv.Rows[i], i == tv.SelectedRow))
	}
	if len(tv.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Italic(true).Render(" (none)"))
	}

	if tv.Status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(tv.Theme.Metadata).
			Italic(true).
			Render(tv.Status))
	}

	return b.String()
}

func (tv *TableView) renderHeader() string {
	parts := make([]string, len(tv.Columns))
	for i := range tv.Columns {
		parts[i] = pad(tv.headerLabel(i), tv.ColumnWidths[i])
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		parts[i] = strings.Repeat("─", width)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row []string, selected bool) string {
	var parts []string
	for i, cell := range row {
		if i >= len(tv.ColumnWidths) {
			break
		}
		parts = append(parts, pad(cell, tv.ColumnWidths[i]))
	}

	line := " " + strings.Join(parts, " │ ") + " "
	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return line
}

func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta

	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// SelectedCells returns the selected row
func (tv *TableView) SelectedCells() ([]string, bool) {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil, false
	}
	return tv.Rows[tv.SelectedRow], true
}
