package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export file extension %q", filepath.Ext(path))
	}
}

// SearchURL joins the search page URL with a saved query
func SearchURL(baseURL, query string) string {
	if baseURL == "" || query == "" {
		return baseURL
	}
	return baseURL + "?" + query
}

// Write writes favorites to w in the given format
func Write(w io.Writer, favorites []models.Favorite, format Format, baseURL string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, favorites, baseURL)
	case FormatJSON:
		return WriteJSON(w, favorites)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes one row per saved search. The URL column is empty when no
// base URL is configured.
func WriteCSV(w io.Writer, favorites []models.Favorite, baseURL string) error {
	writer := csv.NewWriter(w)

	header := []string{"Name", "Description", "Organism", "Query", "URL", "Tags", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, fav := range favorites {
		lastUsed := ""
		if !fav.LastUsed.IsZero() {
			lastUsed = fav.LastUsed.Format(timeLayout)
		}

		row := []string{
			fav.Name,
			fav.Description,
			fav.Organism,
			fav.Query,
			SearchURL(baseURL, fav.Query),
			strings.Join(fav.Tags, ", "),
			fav.CreatedAt.Format(timeLayout),
			fav.UpdatedAt.Format(timeLayout),
			lastUsed,
			strconv.Itoa(fav.UsageCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes favorites as an indented JSON array
func WriteJSON(w io.Writer, favorites []models.Favorite) error {
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(favorites); err != nil {
		return fmt.Errorf("failed to marshal favorites to JSON: %w", err)
	}
	return nil
}

// ExportToFile writes favorites to path, picking the format from the extension
func ExportToFile(favorites []models.Favorite, path, baseURL string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(file, favorites, format, baseURL); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
