package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

func TestFavoritesDialog_OpenAndDelete(t *testing.T) {
	fd := NewFavoritesDialog(theme.DefaultTheme())
	fd.SetFavorites([]models.Favorite{
		{ID: "1", Name: "french", Query: "geoLocCountry=France"},
		{ID: "2", Name: "recent", Query: "sampleCollectionDateFrom=2024-01-01"},
	})

	fd, _ = fd.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := fd.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	open, ok := cmd().(OpenFavoriteMsg)
	if !ok || open.Favorite.ID != "2" {
		t.Errorf("expected to open favorite 2, got %#v", open)
	}

	_, cmd = fd.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	del, ok := cmd().(DeleteFavoriteMsg)
	if !ok || del.ID != "2" {
		t.Errorf("expected to delete favorite 2, got %#v", del)
	}

	fd.SetFavorites(fd.favorites[:1])
	if fav, ok := fd.Selected(); !ok || fav.ID != "1" {
		t.Errorf("selection should clamp after removal, got %#v", fav)
	}
}

func TestFavoritesDialog_EmptyList(t *testing.T) {
	fd := NewFavoritesDialog(theme.DefaultTheme())

	if _, cmd := fd.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
	if _, ok := fd.Selected(); ok {
		t.Error("empty list has no selection")
	}
}
