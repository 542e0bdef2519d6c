package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/loculus-project/seqsearch/internal/export"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

const fileName = "favorites.yaml"

// ErrNotFound is returned when no saved search matches an ID or name.
var ErrNotFound = errors.New("favorite not found")

// Manager keeps the saved searches of every organism in one YAML file.
type Manager struct {
	path      string
	favorites []models.Favorite
}

// NewManager opens the saved searches stored in configDir. A missing file is
// an empty list.
func NewManager(configDir string) (*Manager, error) {
	m := &Manager{
		path:      filepath.Join(configDir, fileName),
		favorites: []models.Favorite{},
	}
	if _, err := os.Stat(m.path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load favorites: %w", err)
		}
	}
	return m, nil
}

// Load replaces the in-memory list with the file's contents.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read favorites file: %w", err)
	}
	if err := yaml.Unmarshal(data, &m.favorites); err != nil {
		return fmt.Errorf("failed to parse favorites: %w", err)
	}
	return nil
}

// Save writes the list back, creating the directory on first use.
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.favorites)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write favorites file: %w", err)
	}
	return nil
}

// normalizeQuery returns the canonical form of query. Saved searches must
// decode cleanly; an empty query is the unfiltered search.
func normalizeQuery(query string) (string, error) {
	state, err := querystate.Parse(strings.TrimSpace(query))
	if err != nil {
		return "", fmt.Errorf("favorite query is invalid: %w", err)
	}
	return state.Encode(), nil
}

// checkName trims name and rejects it when empty or taken by another entry.
// Names compare case-insensitively.
func (m *Manager) checkName(name, exceptID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("favorite name cannot be empty")
	}
	taken := slices.ContainsFunc(m.favorites, func(fav models.Favorite) bool {
		return fav.ID != exceptID && strings.EqualFold(fav.Name, name)
	})
	if taken {
		return "", fmt.Errorf("a favorite named %q already exists (names are case-insensitive)", name)
	}
	return name, nil
}

func (m *Manager) index(id string) (int, error) {
	i := slices.IndexFunc(m.favorites, func(fav models.Favorite) bool { return fav.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	return i, nil
}

// change applies fn to the entry with id and saves.
func (m *Manager) change(id, what string, fn func(*models.Favorite)) error {
	i, err := m.index(id)
	if err != nil {
		return err
	}
	fn(&m.favorites[i])
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", what, err)
	}
	return nil
}

// Add saves query under name for organism.
func (m *Manager) Add(name, description, query, organism string, tags []string) (*models.Favorite, error) {
	name, err := m.checkName(name, "")
	if err != nil {
		return nil, err
	}
	if query, err = normalizeQuery(query); err != nil {
		return nil, err
	}

	now := time.Now()
	fav := models.Favorite{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Query:       query,
		Tags:        tags,
		Organism:    organism,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.favorites = append(m.favorites, fav)
	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return &fav, nil
}

// Update renames an entry and replaces its query, description and tags.
func (m *Manager) Update(id string, name, description, query string, tags []string) error {
	name, err := m.checkName(name, id)
	if err != nil {
		return err
	}
	if query, err = normalizeQuery(query); err != nil {
		return err
	}
	return m.change(id, "favorite", func(fav *models.Favorite) {
		fav.Name = name
		fav.Description = strings.TrimSpace(description)
		fav.Query = query
		fav.Tags = tags
		fav.UpdatedAt = time.Now()
	})
}

// Delete removes the entry with id.
func (m *Manager) Delete(id string) error {
	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.favorites = slices.Delete(m.favorites, i, i+1)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save favorites after deletion: %w", err)
	}
	return nil
}

// RecordUsage counts one opening of the entry.
func (m *Manager) RecordUsage(id string) error {
	return m.change(id, "usage statistics", func(fav *models.Favorite) {
		fav.UsageCount++
		fav.LastUsed = time.Now()
	})
}

// Get returns a copy of the entry with id.
func (m *Manager) Get(id string) (*models.Favorite, error) {
	i, err := m.index(id)
	if err != nil {
		return nil, err
	}
	fav := m.favorites[i]
	return &fav, nil
}

// GetByName looks an entry up by name, ignoring case.
func (m *Manager) GetByName(name string) (*models.Favorite, error) {
	name = strings.TrimSpace(name)
	for _, fav := range m.favorites {
		if strings.EqualFold(fav.Name, name) {
			return &fav, nil
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
}

// GetAll returns every entry in insertion order.
func (m *Manager) GetAll() []models.Favorite {
	return m.favorites
}

// ForOrganism returns the entries saved for organism.
func (m *Manager) ForOrganism(organism string) []models.Favorite {
	return m.filter(func(fav models.Favorite) bool { return fav.Organism == organism })
}

// Search returns the entries whose name, description, query or a tag
// contains text, ignoring case.
func (m *Manager) Search(text string) []models.Favorite {
	if text == "" {
		return m.favorites
	}
	text = strings.ToLower(text)
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), text) }
	return m.filter(func(fav models.Favorite) bool {
		return contains(fav.Name) || contains(fav.Description) || contains(fav.Query) ||
			slices.ContainsFunc(fav.Tags, contains)
	})
}

func (m *Manager) filter(keep func(models.Favorite) bool) []models.Favorite {
	var out []models.Favorite
	for _, fav := range m.favorites {
		if keep(fav) {
			out = append(out, fav)
		}
	}
	return out
}

// GetMostUsed returns up to limit entries by descending usage count. A limit
// of zero returns all of them.
func (m *Manager) GetMostUsed(limit int) []models.Favorite {
	return m.ranked(limit, func(a, b models.Favorite) int { return b.UsageCount - a.UsageCount })
}

// GetRecent returns up to limit entries, most recently opened first.
func (m *Manager) GetRecent(limit int) []models.Favorite {
	return m.ranked(limit, func(a, b models.Favorite) int { return b.LastUsed.Compare(a.LastUsed) })
}

func (m *Manager) ranked(limit int, cmp func(a, b models.Favorite) int) []models.Favorite {
	sorted := slices.Clone(m.favorites)
	slices.SortStableFunc(sorted, cmp)
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Export writes all entries to path in format. An empty path writes
// favorites.<format> next to the favorites file. It returns the path written.
func (m *Manager) Export(path string, format export.Format, baseURL string) (string, error) {
	if len(m.favorites) == 0 {
		return "", errors.New("no favorites to export")
	}
	if path == "" {
		path = filepath.Join(filepath.Dir(m.path), "favorites."+string(format))
	}
	if err := export.ExportToFile(m.favorites, path, baseURL); err != nil {
		return "", fmt.Errorf("failed to export favorites: %w", err)
	}
	return path, nil
}
