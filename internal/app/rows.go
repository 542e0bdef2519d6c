package app

import (
	"fmt"
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/session"
	"github.com/loculus-project/seqsearch/internal/ui/components"
)

const (
	markerAscending  = "▲"
	markerDescending = "▼"
)

func orderMarker(dir models.OrderDirection) string {
	if dir == models.Ascending {
		return markerAscending
	}
	return markerDescending
}

// fieldRows lists every schema field with its effective value and flags.
func fieldRows(r *search.Reducer, state querystate.State, snap session.Snapshot) []components.FieldRow {
	schema := r.Schema()
	hidden := r.Hidden()
	rows := make([]components.FieldRow, 0, len(schema.Fields))

	for _, f := range schema.Fields {
		row := components.FieldRow{
			Name:          f.Name,
			Label:         f.Label(),
			Header:        f.Header,
			Kind:          f.Kind,
			SearchVisible: snap.SearchVisibility[f.Name],
			ColumnVisible: snap.ColumnVisibility[f.Name],
			Active:        r.IsActive(state, f.Name),
		}
		for _, key := range f.Keys() {
			v, ok := snap.FieldValues[key]
			if ok && !v.IsEmpty() {
				row.Filtered = true
			}
			if h, isHidden := hidden[key]; isHidden && !state.Has(key) && !h.IsEmpty() {
				row.Forced = true
			}
		}
		row.Value = displayValue(f, snap.FieldValues)
		if snap.OrderBy == f.Name {
			row.Order = orderMarker(snap.Order)
		}
		rows = append(rows, row)
	}
	return rows
}

// displayValue renders a field's value for the list; ranges read "from..to".
func displayValue(f models.FieldDescriptor, values search.FieldValues) string {
	if f.Kind == models.KindRange {
		from, to := values[f.FromKey()], values[f.ToKey()]
		if from.IsEmpty() && to.IsEmpty() {
			return ""
		}
		return from.String() + ".." + to.String()
	}
	v, ok := values[f.Name]
	if !ok || v.IsEmpty() {
		return ""
	}
	if v.IsList {
		return "[" + v.String() + "]"
	}
	return v.String()
}

// resultColumns returns the primary key followed by the shown columns in
// schema order.
func resultColumns(schema *models.Schema, visible map[string]bool) []string {
	columns := []string{schema.PrimaryKey}
	for _, f := range schema.Fields {
		if f.Name != schema.PrimaryKey && visible[f.Name] {
			columns = append(columns, f.Name)
		}
	}
	return columns
}

// conditionRows renders the request's conditions as table rows of
// (key, operator, value).
func conditionRows(req models.SearchRequest) [][]string {
	rows := make([][]string, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		rows = append(rows, []string{c.Param, string(c.Operator), conditionValue(c.Value)})
	}
	return rows
}

func conditionValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []*string:
		parts := make([]string, len(v))
		for i, s := range v {
			if s == nil {
				parts[i] = "null"
			} else {
				parts[i] = *s
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// pageSummary describes the rows the current page covers.
func pageSummary(req models.SearchRequest, page int) string {
	return fmt.Sprintf("page %d · rows %d-%d", page, req.Offset+1, req.Offset+req.Limit)
}
