package history

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGetRecent(t *testing.T) {
	store := newTestStore(t)

	queries := []string{"host=Bat", "host=Bat&page=2", "geoLocCountry=Uganda"}
	for _, q := range queries {
		if err := store.Add(Entry{Organism: "ebola", Query: q, Action: "set"}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Query != "geoLocCountry=Uganda" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Query)
	}
	if entries[0].Organism != "ebola" || entries[0].Action != "set" {
		t.Errorf("Unexpected entry: %+v", entries[0])
	}
	if entries[0].VisitedAt.IsZero() {
		t.Error("Expected visited_at to be set")
	}

	limited, err := store.GetRecent(1)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(limited))
	}
}

func TestAdd_SkipsRepeatedQuery(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Add(Entry{Organism: "ebola", Query: "host=Bat"}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if err := store.Add(Entry{Organism: "mpox", Query: "host=Bat"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	for _, q := range []string{"host=Bat", "geoLocCountry=Uganda", "host=Homo+sapiens"} {
		if err := store.Add(Entry{Query: q}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := store.Search("host=", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(entries))
	}
}

func TestPruneAndClear(t *testing.T) {
	store := newTestStore(t)
	for _, q := range []string{"page=2", "page=3", "page=4", "page=5"} {
		if err := store.Add(Entry{Query: q}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	removed, err := store.Prune(2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed entries, got %d", removed)
	}

	entries, _ := store.GetRecent(10)
	if len(entries) != 2 || entries[0].Query != "page=5" || entries[1].Query != "page=4" {
		t.Errorf("Unexpected entries after prune: %+v", entries)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, _ = store.GetRecent(10)
	if len(entries) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(entries))
	}
}
