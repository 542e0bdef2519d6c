package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/loculus-project/seqsearch/internal/config"
	"github.com/loculus-project/seqsearch/internal/favorites"
	"github.com/loculus-project/seqsearch/internal/filter"
	"github.com/loculus-project/seqsearch/internal/history"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/session"
	"github.com/loculus-project/seqsearch/internal/ui/components"
	"github.com/loculus-project/seqsearch/internal/ui/help"
	"github.com/loculus-project/seqsearch/internal/ui/theme"
)

// App is the main application model
type App struct {
	state      models.AppState
	config     *config.Config
	theme      theme.Theme
	logger     zerolog.Logger
	leftPanel  components.Panel
	rightPanel components.Panel

	session   *session.Session
	builder   *filter.Builder
	favorites *favorites.Manager
	history   *history.Store

	// Derived from the session after every change
	snap session.Snapshot
	req  models.SearchRequest

	fieldList  *components.FieldList
	conditions *components.TableView
	editor     *components.ValueEditor
	prompt     *components.PromptInput
	preview    *components.PreviewPane
	showURL    bool

	favoritesDialog *components.FavoritesDialog

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	status string
}

// Deps are the stores the explorer works on. Favorites and History may be nil.
type Deps struct {
	Session   *session.Session
	Favorites *favorites.Manager
	History   *history.Store
	Logger    *zerolog.Logger
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// New creates a new App instance with config
func New(cfg *config.Config, deps Deps) *App {
	state := models.NewAppState()

	themeName := "default"
	if cfg.UI.Theme != "" {
		themeName = cfg.UI.Theme
	}
	th := theme.GetTheme(themeName)

	if cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}

	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	app := &App{
		state:           state,
		config:          cfg,
		theme:           th,
		logger:          logger.With().Str("component", "explorer").Logger(),
		session:         deps.Session,
		builder:         filter.NewBuilder(cfg.Search.PageSize),
		favorites:       deps.Favorites,
		history:         deps.History,
		fieldList:       components.NewFieldList(th),
		conditions:      components.NewTableView(th),
		editor:          components.NewValueEditor(th),
		prompt:          components.NewPromptInput(th),
		preview:         components.NewPreviewPane(th),
		favoritesDialog: components.NewFavoritesDialog(th),
		errorOverlay:    components.NewErrorOverlay(th),
		leftPanel: components.Panel{
			Title: "Fields",
			Style: lipgloss.NewStyle().BorderForeground(th.BorderFocused),
		},
		rightPanel: components.Panel{
			Title: "Search",
			Style: lipgloss.NewStyle().BorderForeground(th.Border),
		},
	}

	app.refresh()
	app.updatePanelDimensions()
	app.updatePanelStyles()

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case components.FieldSelectedMsg:
		a.openEditor(msg.Row.Name)
		return a, nil

	case components.ApplyValueMsg:
		a.state.ViewMode = models.NormalMode
		r := a.session.Reducer()
		a.apply("set "+msg.Field, func(s querystate.State) querystate.State {
			return r.SetSomeFieldValues(s, msg.Updates...)
		})
		return a, nil

	case components.CloseValueEditorMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.PromptSubmitMsg:
		a.prompt.Close()
		a.handlePrompt(msg)
		return a, nil

	case components.PromptCancelMsg:
		a.prompt.Close()
		return a, nil

	case components.OpenFavoriteMsg:
		a.state.ViewMode = models.NormalMode
		a.openFavorite(msg.Favorite)
		return a, nil

	case components.DeleteFavoriteMsg:
		a.deleteFavorite(msg.ID)
		return a, nil

	case components.CloseFavoritesDialogMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil
	}

	// Cursor blink and other input model ticks
	if a.prompt.Visible {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if a.prompt.Visible {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}

	switch a.state.ViewMode {
	case models.EditMode:
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	case models.FavoritesMode:
		var cmd tea.Cmd
		a.favoritesDialog, cmd = a.favoritesDialog.Update(msg)
		return a, cmd
	case models.HelpMode:
		switch key {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "esc":
		if a.fieldList.Filter() != "" {
			a.fieldList.SetFilter("")
		}
		return a, nil
	case "tab":
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
		}
		a.updatePanelStyles()
		return a, nil
	}

	if a.handleSearchKey(key) {
		return a, nil
	}

	if a.state.FocusedPanel == models.RightPanel {
		a.handleConditionsKey(key)
		return a, nil
	}
	return a.handleFieldKey(msg)
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme)
	case models.EditMode:
		return a.placeDialog(a.editor.View())
	case models.FavoritesMode:
		a.favoritesDialog.Width = min(90, a.state.Width-6)
		a.favoritesDialog.Height = min(30, a.state.Height-6)
		return a.placeDialog(a.favoritesDialog.View())
	}

	return a.renderNormalView()
}

func (a *App) placeDialog(dialog string) string {
	return lipgloss.Place(
		a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (a *App) renderNormalView() string {
	schema := a.session.Reducer().Schema()

	topBarLeft := "seqsearch · " + schema.Organism
	if a.snap.Suborganism != "" {
		topBarLeft += " / " + a.snap.Suborganism
	}
	topBarRight := navIndicator(a.session.CanBack(), a.session.CanForward())
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar(topBarLeft, topBarRight))

	bottomBarLeft := "[tab] Switch panel | [enter] Edit | [?] Help | [q] Quit"
	if a.status != "" {
		bottomBarLeft = a.status
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomBarLeft, pageSummary(a.req, a.snap.Page)))

	a.fieldList.Width = a.leftPanel.Width
	a.fieldList.Height = a.leftPanel.Height
	a.leftPanel.Content = a.fieldList.View()
	a.leftPanel.Badge = fmt.Sprintf("%d filters", len(a.req.Conditions))

	a.rightPanel.Content = a.renderSearchPanel()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	sections := []string{topBar, panels}
	if a.prompt.Visible {
		a.prompt.Width = a.state.Width
		sections = append(sections, a.prompt.View())
	}
	sections = append(sections, bottomBar)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func navIndicator(back, forward bool) string {
	left, right := "·", "·"
	if back {
		left = "◀"
	}
	if forward {
		right = "▶"
	}
	return left + " " + right
}

// renderSearchPanel stacks the summary, the conditions table and the preview.
func (a *App) renderSearchPanel() string {
	width := a.rightPanel.Width
	height := a.rightPanel.Height - 1 // title

	summary := a.summaryLines()

	previewHeight := 0
	if a.preview.Visible {
		a.preview.Width = width
		switch {
		case a.snap.SelectedSeq != nil && !a.snap.HalfScreen:
			previewHeight = height
		case a.snap.SelectedSeq != nil:
			previewHeight = height / 2
		default:
			previewHeight = 7
		}
		a.preview.MaxHeight = previewHeight
	}

	if previewHeight >= height {
		return a.preview.View()
	}

	a.conditions.Width = width
	a.conditions.Height = height - len(summary) - previewHeight - 1
	parts := []string{strings.Join(summary, "\n"), a.conditions.View()}
	if previewHeight > 0 {
		parts = append(parts, a.preview.View())
	}
	return strings.Join(parts, "\n")
}

func (a *App) summaryLines() []string {
	labelStyle := lipgloss.NewStyle().Foreground(a.theme.Metadata).Width(11)
	orderStyle := lipgloss.NewStyle().Foreground(a.theme.OrderMarker)
	columnStyle := lipgloss.NewStyle().Foreground(a.theme.Column)
	mutationStyle := lipgloss.NewStyle().Foreground(a.theme.Mutation)

	schema := a.session.Reducer().Schema()
	lines := []string{
		labelStyle.Render("Order") + orderStyle.Render(fmt.Sprintf("%s %s (%s)", a.snap.OrderBy, orderMarker(a.snap.Order), a.snap.Order)),
		labelStyle.Render("Columns") + columnStyle.Render(strings.Join(resultColumns(schema, a.snap.ColumnVisibility), ", ")),
	}
	if !a.snap.Mutations.IsEmpty() {
		lines = append(lines, labelStyle.Render("Mutations")+mutationStyle.Render(a.snap.Mutations.String()))
	}

	predicate, err := filter.Describe(a.req)
	switch {
	case err != nil:
		predicate = "error: " + err.Error()
	case predicate == "":
		predicate = "all sequences"
	}
	lines = append(lines, labelStyle.Render("Where")+predicate)
	return lines
}

func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	contentHeight := a.state.Height - 4 // top bar, bottom bar, borders
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}

	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
	a.editor.Width = min(70, a.state.Width-6)
}

func (a *App) updatePanelStyles() {
	if a.state.FocusedPanel == models.LeftPanel {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
	} else {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
	}
}

func (a *App) formatStatusBar(left, right string) string {
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return truncate(left, availableWidth-rightLen) + right
		}
		return truncate(left, availableWidth)
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

// ShowError displays an error overlay
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
