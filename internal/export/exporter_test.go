package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/loculus-project/seqsearch/internal/models"
)

func testFavorites() []models.Favorite {
	return []models.Favorite{
		{
			ID:          "test-1",
			Name:        "Ugandan bat samples",
			Description: "Bat hosts, with commas, quotes \"and\" special chars",
			Query:       "geoLocCountry=Uganda&hostNameScientific=Bat",
			Tags:        []string{"bats", "uganda"},
			Organism:    "ebola-sudan",
			CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			LastUsed:    time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			UsageCount:  5,
		},
		{
			ID:         "test-2",
			Name:       "Everything",
			Query:      "",
			Organism:   "ebola-sudan",
			CreatedAt:  time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC),
			UsageCount: 2,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testFavorites(), "https://example.org/ebola-sudan/search"); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	expectedHeader := []string{"Name", "Description", "Organism", "Query", "URL", "Tags", "Created", "Updated", "Last Used", "Usage Count"}
	if strings.Join(records[0], "|") != strings.Join(expectedHeader, "|") {
		t.Errorf("Header mismatch.\nExpected: %v\nGot: %v", expectedHeader, records[0])
	}

	row1 := records[1]
	if row1[1] != "Bat hosts, with commas, quotes \"and\" special chars" {
		t.Errorf("Description was not escaped correctly: %q", row1[1])
	}
	if row1[4] != "https://example.org/ebola-sudan/search?geoLocCountry=Uganda&hostNameScientific=Bat" {
		t.Errorf("Unexpected URL %q", row1[4])
	}
	if row1[5] != "bats, uganda" {
		t.Errorf("Expected tags 'bats, uganda', got '%s'", row1[5])
	}
	if row1[8] != "2024-01-03 12:00:00" {
		t.Errorf("Unexpected last used %q", row1[8])
	}
	if row1[9] != "5" {
		t.Errorf("Expected usage count '5', got '%s'", row1[9])
	}

	row2 := records[2]
	if row2[4] != "https://example.org/ebola-sudan/search" {
		t.Errorf("Expected bare URL for an empty query, got %q", row2[4])
	}
	if row2[8] != "" {
		t.Errorf("Expected empty last used, got %q", row2[8])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testFavorites()[:1]); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed []models.Favorite
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("Expected 1 favorite, got %d", len(parsed))
	}
	if parsed[0].Organism != "ebola-sudan" {
		t.Errorf("Expected organism ebola-sudan, got %q", parsed[0].Organism)
	}

	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON should be indented")
	}
}

func TestExportToFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "csv", file: "saved.csv"},
		{name: "json", file: "saved.JSON"},
		{name: "unknown extension", file: "saved.xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			err := ExportToFile(testFavorites(), path, "")
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExportToFile failed: %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("Expected file to exist: %v", err)
			}
		})
	}
}

func TestExportEmptyFavorites(t *testing.T) {
	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, nil, ""); err != nil {
		t.Fatalf("WriteCSV with empty list failed: %v", err)
	}
	records, err := csv.NewReader(&csvBuf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 1 { // Only header
		t.Errorf("Expected 1 record (header), got %d", len(records))
	}

	var jsonBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, nil); err != nil {
		t.Fatalf("WriteJSON with empty list failed: %v", err)
	}
	if strings.TrimSpace(jsonBuf.String()) != "[]" {
		t.Errorf("Expected empty JSON array, got %q", jsonBuf.String())
	}
}
