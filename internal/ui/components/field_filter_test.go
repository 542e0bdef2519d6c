package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

func TestParseFieldQuery_Simple(t *testing.T) {
	q := ParseFieldQuery("date")

	if q.Pattern != "date" {
		t.Errorf("expected pattern 'date', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.Scope != "" {
		t.Errorf("expected empty Scope, got '%s'", q.Scope)
	}
}

func TestParseFieldQuery_Negate(t *testing.T) {
	q := ParseFieldQuery("!host")

	if q.Pattern != "host" {
		t.Errorf("expected pattern 'host', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
}

func TestParseFieldQuery_ScopeShort(t *testing.T) {
	q := ParseFieldQuery("f:coun")

	if q.Pattern != "coun" {
		t.Errorf("expected pattern 'coun', got '%s'", q.Pattern)
	}
	if q.Scope != "filtered" {
		t.Errorf("expected Scope 'filtered', got '%s'", q.Scope)
	}
}

func TestParseFieldQuery_ScopeLong(t *testing.T) {
	q := ParseFieldQuery("filtered:coun")

	if q.Pattern != "coun" {
		t.Errorf("expected pattern 'coun', got '%s'", q.Pattern)
	}
	if q.Scope != "filtered" {
		t.Errorf("expected Scope 'filtered', got '%s'", q.Scope)
	}
}

func TestParseFieldQuery_NegateWithScopeNoPattern(t *testing.T) {
	q := ParseFieldQuery("!H:")

	if q.Pattern != "" {
		t.Errorf("expected empty pattern, got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
	if q.Scope != "hidden" {
		t.Errorf("expected Scope 'hidden', got '%s'", q.Scope)
	}
}

func TestFuzzyMatch_ExactPrefix(t *testing.T) {
	match, positions := FuzzyMatch("geo", "geoLocCountry")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 || positions[0] != 0 || positions[1] != 1 || positions[2] != 2 {
		t.Errorf("expected positions [0,1,2], got %v", positions)
	}
}

func TestFuzzyMatch_Subsequence(t *testing.T) {
	match, positions := FuzzyMatch("scd", "sampleCollectionDate")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(positions))
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	match, _ := FuzzyMatch("xyz", "sampleCollectionDate")

	if match {
		t.Error("expected no match")
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	match, _ := FuzzyMatch("HOST", "hostNameScientific")

	if !match {
		t.Error("expected case-insensitive match")
	}
}

func TestFuzzyMatch_EmptyPattern(t *testing.T) {
	match, positions := FuzzyMatch("", "anything")

	if !match {
		t.Error("empty pattern should match everything")
	}
	if len(positions) != 0 {
		t.Error("empty pattern should have no positions")
	}
}

func TestRowMatchesScope(t *testing.T) {
	row := FieldRow{Name: "date", Kind: models.KindRange, SearchVisible: true, Filtered: true}

	cases := map[string]bool{
		"":            true,
		"filtered":    true,
		"visible":     true,
		"hidden":      false,
		"column":      false,
		"range":       true,
		"multiselect": false,
		"bogus":       false,
	}
	for scope, want := range cases {
		if got := RowMatchesScope(row, scope); got != want {
			t.Errorf("scope %q: expected %v, got %v", scope, want, got)
		}
	}
}

func createTestRows() []FieldRow {
	return []FieldRow{
		{Name: "accessionVersion", Label: "Accession", Kind: models.KindScalar, SearchVisible: true, Active: true},
		{Name: "geoLocCountry", Label: "Collection country", Kind: models.KindMultiSelect, Header: "Sample details", SearchVisible: true, ColumnVisible: true, Filtered: true, Value: "France", Active: true},
		{Name: "sampleCollectionDate", Label: "Collection date", Kind: models.KindRange, Header: "Sample details", SearchVisible: true, ColumnVisible: true, Active: true},
		{Name: "hostNameScientific", Label: "Host", Kind: models.KindScalar, Header: "Host", Active: true},
		{Name: "clade", Label: "Clade (Africa)", Kind: models.KindScalar, Active: false},
	}
}

func TestFilterRows_SimpleMatch(t *testing.T) {
	matches := FilterRows(createTestRows(), ParseFieldQuery("collection"))

	if len(matches) != 2 {
		t.Errorf("expected 2 matches (country, date), got %d", len(matches))
	}
}

func TestFilterRows_MatchesName(t *testing.T) {
	matches := FilterRows(createTestRows(), ParseFieldQuery("geoloc"))

	if len(matches) != 1 || matches[0].Name != "geoLocCountry" {
		t.Errorf("expected geoLocCountry, got %v", matches)
	}
}

func TestFilterRows_Scope(t *testing.T) {
	matches := FilterRows(createTestRows(), ParseFieldQuery("c:"))

	if len(matches) != 2 {
		t.Errorf("expected 2 column matches, got %d", len(matches))
	}
	for _, m := range matches {
		if !m.ColumnVisible {
			t.Errorf("expected only shown columns, got %s", m.Name)
		}
	}
}

func TestFilterRows_Negate(t *testing.T) {
	matches := FilterRows(createTestRows(), ParseFieldQuery("!collection"))

	if len(matches) != 3 {
		t.Errorf("expected 3 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.Label), "collection") {
			t.Errorf("negated query should not match '%s'", m.Label)
		}
	}
}

func TestFilterRows_EmptyQuery(t *testing.T) {
	rows := createTestRows()
	matches := FilterRows(rows, ParseFieldQuery(""))

	if len(matches) != len(rows) {
		t.Errorf("empty query should return all rows, got %d", len(matches))
	}
}

func TestFieldList_Navigation(t *testing.T) {
	list := NewFieldList(theme.DefaultTheme())
	list.SetRows(createTestRows())

	list, _ = list.Update(tea.KeyMsg{Type: tea.KeyDown})
	row, ok := list.Selected()
	if !ok || row.Name != "geoLocCountry" {
		t.Fatalf("expected geoLocCountry after moving down, got %q", row.Name)
	}

	list, _ = list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if row, _ := list.Selected(); row.Name != "clade" {
		t.Errorf("expected clade at bottom, got %q", row.Name)
	}

	list.MoveSelection(10)
	if list.CursorIndex != 4 {
		t.Errorf("cursor should clamp to last row, got %d", list.CursorIndex)
	}
}

func TestFieldList_EnterSelectsActiveField(t *testing.T) {
	list := NewFieldList(theme.DefaultTheme())
	list.SetRows(createTestRows())

	_, cmd := list.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for an active field")
	}
	msg, ok := cmd().(FieldSelectedMsg)
	if !ok || msg.Row.Name != "accessionVersion" {
		t.Errorf("expected FieldSelectedMsg for accessionVersion, got %#v", msg)
	}

	list.SelectName("clade")
	if _, cmd := list.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("inactive field should not be selectable")
	}
}

func TestFieldList_SetRowsKeepsSelection(t *testing.T) {
	list := NewFieldList(theme.DefaultTheme())
	list.SetRows(createTestRows())
	list.SelectName("hostNameScientific")

	rows := createTestRows()
	list.SetRows(rows[2:])

	if row, _ := list.Selected(); row.Name != "hostNameScientific" {
		t.Errorf("expected selection to follow the field, got %q", row.Name)
	}
}

func TestFieldList_Filter(t *testing.T) {
	list := NewFieldList(theme.DefaultTheme())
	list.SetRows(createTestRows())
	list.SetFilter("f:")

	if n := len(list.VisibleRows()); n != 1 {
		t.Fatalf("expected 1 filtered row, got %d", n)
	}
	if !strings.Contains(list.View(), "Collection country") {
		t.Error("view should render the matching row")
	}

	list.SetFilter("zzz")
	if !strings.Contains(list.View(), "No fields match") {
		t.Error("view should render the empty state")
	}
}
