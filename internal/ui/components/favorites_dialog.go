package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// OpenFavoriteMsg is sent when a saved search should be loaded
type OpenFavoriteMsg struct {
	Favorite models.Favorite
}

// DeleteFavoriteMsg is sent when a saved search should be removed
type DeleteFavoriteMsg struct {
	ID string
}

// CloseFavoritesDialogMsg is sent when dialog should close
type CloseFavoritesDialogMsg struct{}

// FavoritesDialog lists the saved searches of the current organism
type FavoritesDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	favorites []models.Favorite
	selected  int
	offset    int
}

// NewFavoritesDialog creates a new favorites dialog
func NewFavoritesDialog(th theme.Theme) *FavoritesDialog {
	return &FavoritesDialog{
		Width:  80,
		Height: 24,
		Theme:  th,
	}
}

// SetFavorites updates the favorites list
func (fd *FavoritesDialog) SetFavorites(favorites []models.Favorite) {
	fd.favorites = favorites
	if fd.selected >= len(favorites) {
		fd.selected = len(favorites) - 1
	}
	if fd.selected < 0 {
		fd.selected = 0
	}
	if fd.offset > fd.selected {
		fd.offset = fd.selected
	}
}

// Selected returns the highlighted favorite
func (fd *FavoritesDialog) Selected() (models.Favorite, bool) {
	if fd.selected < 0 || fd.selected >= len(fd.favorites) {
		return models.Favorite{}, false
	}
	return fd.favorites[fd.selected], true
}

func (fd *FavoritesDialog) visibleHeight() int {
	h := (fd.Height - 6) / 2 // two lines per entry
	if h < 1 {
		h = 1
	}
	return h
}

// Update handles keyboard input
func (fd *FavoritesDialog) Update(msg tea.KeyMsg) (*FavoritesDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return fd, func() tea.Msg {
			return CloseFavoritesDialogMsg{}
		}
	case "up", "k":
		if fd.selected > 0 {
			fd.selected--
			if fd.selected < fd.offset {
				fd.offset = fd.selected
			}
		}
	case "down", "j":
		if fd.selected < len(fd.favorites)-1 {
			fd.selected++
			if fd.selected >= fd.offset+fd.visibleHeight() {
				fd.offset = fd.selected - fd.visibleHeight() + 1
			}
		}
	case "enter":
		if fav, ok := fd.Selected(); ok {
			return fd, func() tea.Msg {
				return OpenFavoriteMsg{Favorite: fav}
			}
		}
	case "d", "x":
		if fav, ok := fd.Selected(); ok {
			return fd, func() tea.Msg {
				return DeleteFavoriteMsg{ID: fav.ID}
			}
		}
	}
	return fd, nil
}

// View renders the dialog
func (fd *FavoritesDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fd.Theme.Foreground).
		Background(fd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Saved Searches"))

	instrStyle := lipgloss.NewStyle().
		Foreground(fd.Theme.Metadata).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Open  d: Delete  Esc: Close"))

	if len(fd.favorites) == 0 {
		sections = append(sections, "\nNo saved searches yet. Press 'B' in the explorer to save one.")
	} else {
		sections = append(sections, "")
		end := fd.offset + fd.visibleHeight()
		if end > len(fd.favorites) {
			end = len(fd.favorites)
		}

		for i := fd.offset; i < end; i++ {
			fav := fd.favorites[i]

			name := fav.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			if fav.UsageCount > 0 {
				name += fmt.Sprintf(" (%d)", fav.UsageCount)
			}

			query := fav.Query
			if query == "" {
				query = "(all sequences)"
			}
			if len(query) > fd.Width-8 && fd.Width > 12 {
				query = query[:fd.Width-11] + "..."
			}

			line := fmt.Sprintf("%s\n  %s", name, query)
			if len(fav.Tags) > 0 {
				line += fmt.Sprintf(" [%s]", strings.Join(fav.Tags, ", "))
			}

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == fd.selected {
				style = style.Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fd.Theme.BorderFocused).
		Width(fd.Width).
		Height(fd.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
