package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loculus-project/seqsearch/internal/binding"
	"github.com/loculus-project/seqsearch/internal/export"
	"github.com/loculus-project/seqsearch/internal/history"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/ui/components"
)

// apply runs one search action through the session and refreshes the view.
func (a *App) apply(action string, fn func(querystate.State) querystate.State) {
	before := a.session.Query()
	a.session.Apply(action, fn)
	after := a.session.Query()
	if after == before {
		a.status = action + ": no change"
		return
	}
	a.status = action
	a.recordHistory(action, after)
	a.refresh()
}

// refresh re-derives everything shown from the session's current state.
func (a *App) refresh() {
	r := a.session.Reducer()
	state := a.session.State()
	a.snap = a.session.Snapshot()
	a.req = a.builder.Build(r, state)

	a.fieldList.SetRows(fieldRows(r, state, a.snap))

	a.conditions.SetData([]string{"param", "op", "value"}, conditionRows(a.req))
	a.conditions.Status = fmt.Sprintf("%d per page, offset %d", a.req.Limit, a.req.Offset)

	switch {
	case a.snap.SelectedSeq != nil:
		id := *a.snap.SelectedSeq
		a.preview.SetContent(sequenceDetails(a.config.General.BaseURL, id, a.snap.HalfScreen), "Sequence "+id)
		a.preview.Visible = true
	case a.showURL:
		a.preview.SetContent(a.searchURL(), "Search URL")
		a.preview.Visible = true
	default:
		a.preview.Visible = false
	}
}

func (a *App) searchURL() string {
	return export.SearchURL(a.config.General.BaseURL, a.session.Query())
}

func (a *App) recordHistory(action, query string) {
	if a.history == nil || !a.config.History.Enabled {
		return
	}
	entry := history.Entry{
		Organism: a.session.Reducer().Schema().Organism,
		Query:    query,
		Action:   action,
	}
	if err := a.history.Add(entry); err != nil {
		a.logger.Warn().Err(err).Str("action", action).Msg("failed to record history")
	}
}

// sequenceDetails renders the detail pane of a selected sequence. The
// sequence page lives at /seq/<id> on the search page's host.
func sequenceDetails(baseURL, id string, halfScreen bool) string {
	lines := []string{"Accession: " + id}
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		u.Path = "/seq/" + id
		u.RawQuery = ""
		lines = append(lines, "Page:      "+u.String())
	}
	layout := "full"
	if halfScreen {
		layout = "half screen"
	}
	lines = append(lines, "Layout:    "+layout, "", "A: close  H: toggle layout")
	return strings.Join(lines, "\n")
}

// handleSearchKey handles the keys that work in either panel. Returns false
// for keys it does not own.
func (a *App) handleSearchKey(key string) bool {
	r := a.session.Reducer()
	schema := r.Schema()

	switch key {
	case "b", "left":
		if a.session.Back() {
			a.status = "back"
			a.refresh()
		}
	case "f", "right":
		if a.session.Forward() {
			a.status = "forward"
			a.refresh()
		}
	case "n", "]":
		next := a.snap.Page + 1
		a.apply(fmt.Sprintf("page %d", next), func(s querystate.State) querystate.State {
			return r.SetPage(s, next)
		})
	case "p", "[":
		prev := a.snap.Page - 1
		if prev < 1 {
			a.status = "already on the first page"
			return true
		}
		a.apply(fmt.Sprintf("page %d", prev), func(s querystate.State) querystate.State {
			return r.SetPage(s, prev)
		})
	case "r":
		dir := models.Descending
		if a.snap.Order == models.Descending {
			dir = models.Ascending
		}
		a.apply("order "+string(dir), func(s querystate.State) querystate.State {
			return r.SetOrderDirection(s, dir)
		})
	case "R":
		a.apply("reset", r.Reset)
	case "m":
		a.prompt.Open(components.PromptMutations, "Mutations", "A23T, S:A23T, GPC:A82V, ins_123:ACG", a.snap.Mutations.String())
	case "S":
		if schema.SuborganismIdentifierField == "" {
			a.status = "this organism has no suborganisms"
			return true
		}
		a.prompt.Open(components.PromptSuborganism, "Suborganism", "empty for all", a.snap.Suborganism)
	case "a":
		current := ""
		if a.snap.SelectedSeq != nil {
			current = *a.snap.SelectedSeq
		}
		a.prompt.Open(components.PromptSelectedSeq, "Accession", "accession version", current)
	case "A":
		a.apply("close sequence", func(s querystate.State) querystate.State {
			return binding.SelectedSeq().Write(s, nil, nil)
		})
	case "H":
		half := !a.snap.HalfScreen
		a.apply("half screen", func(s querystate.State) querystate.State {
			return binding.HalfScreen().Write(s, half, nil)
		})
	case "u":
		a.showURL = !a.showURL
		a.refresh()
	case "pgup":
		a.preview.ScrollUp()
	case "pgdown":
		a.preview.ScrollDown()
	case "y":
		if err := clipboard.WriteAll(a.searchURL()); err != nil {
			a.ShowError("Clipboard", fmt.Sprintf("Could not copy the search URL:\n\n%v", err))
			return true
		}
		a.status = "copied search URL"
	case "o":
		a.prompt.Open(components.PromptNavigate, "Open", "query string or URL", "")
	case "/":
		a.prompt.Open(components.PromptQuickFilter, "Filter fields", "f: v: h: c: r: m: b:, ! negates", a.fieldList.Filter())
	case "B":
		a.prompt.Open(components.PromptBookmark, "Save as", "name", "")
	case "L":
		a.openFavoritesDialog()
	default:
		return false
	}
	return true
}

// handleFieldKey handles keys of the focused field list
func (a *App) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := a.session.Reducer()
	row, ok := a.fieldList.Selected()

	switch msg.String() {
	case "e":
		if ok {
			a.openEditor(row.Name)
		}
		return a, nil
	case "x", "d":
		if ok {
			a.apply("remove "+row.Name, func(s querystate.State) querystate.State {
				return r.RemoveField(s, row.Name)
			})
		}
		return a, nil
	case "v":
		if ok && row.Active {
			visible := !row.SearchVisible
			a.apply(visibilityAction("search field", row.Name, visible), func(s querystate.State) querystate.State {
				return r.SetASearchVisibility(s, row.Name, visible)
			})
		}
		return a, nil
	case "c":
		if ok {
			visible := !row.ColumnVisible
			a.apply(visibilityAction("column", row.Name, visible), func(s querystate.State) querystate.State {
				return r.SetAColumnVisibility(s, row.Name, visible)
			})
		}
		return a, nil
	case "s":
		if ok {
			a.orderBy(row.Name)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.fieldList, cmd = a.fieldList.Update(msg)
	return a, cmd
}

func visibilityAction(what, name string, visible bool) string {
	if visible {
		return "show " + what + " " + name
	}
	return "hide " + what + " " + name
}

// orderBy orders results by name, showing its column so the order holds.
func (a *App) orderBy(name string) {
	r := a.session.Reducer()
	pk := r.Schema().PrimaryKey
	a.apply("order by "+name, func(s querystate.State) querystate.State {
		if name != pk {
			s = r.SetAColumnVisibility(s, name, true)
		}
		return r.SetOrderByField(s, name)
	})
}

// handleConditionsKey handles keys of the focused conditions table
func (a *App) handleConditionsKey(key string) {
	switch key {
	case "up", "k":
		a.conditions.MoveSelection(-1)
	case "down", "j":
		a.conditions.MoveSelection(1)
	case "x", "d":
		cells, ok := a.conditions.SelectedCells()
		if !ok {
			return
		}
		r := a.session.Reducer()
		param := cells[0]
		a.apply("remove "+param, func(s querystate.State) querystate.State {
			return r.RemoveFilter(s, param)
		})
	}
}

func (a *App) openEditor(name string) {
	r := a.session.Reducer()
	field, ok := r.Schema().Field(name)
	if !ok {
		return
	}
	if !r.IsActive(a.session.State(), name) {
		a.status = field.Label() + " applies to suborganism " + field.OnlyForSuborganism
		return
	}
	a.editor.Open(field, a.snap.FieldValues)
	a.state.ViewMode = models.EditMode
}

func (a *App) handlePrompt(msg components.PromptSubmitMsg) {
	r := a.session.Reducer()
	value := strings.TrimSpace(msg.Value)

	switch msg.Purpose {
	case components.PromptQuickFilter:
		a.fieldList.SetFilter(value)

	case components.PromptMutations:
		m, invalid := search.ParseMutationQuery(value, r.Schema().ReferenceGenome)
		if len(invalid) > 0 {
			a.ShowError("Invalid mutations", "Could not read:\n\n"+strings.Join(invalid, "\n"))
			return
		}
		a.apply("mutations", func(s querystate.State) querystate.State {
			return r.SetMutations(s, m)
		})

	case components.PromptSuborganism:
		a.apply("suborganism", func(s querystate.State) querystate.State {
			return r.SetSuborganism(s, value)
		})

	case components.PromptSelectedSeq:
		var selected *string
		if value != "" {
			selected = &value
		}
		a.apply("select sequence", func(s querystate.State) querystate.State {
			return binding.SelectedSeq().Write(s, selected, nil)
		})

	case components.PromptNavigate:
		a.navigate("open", querystate.QueryPart(value))

	case components.PromptBookmark:
		a.saveFavorite(value)
	}
}

func (a *App) navigate(action, raw string) {
	before := a.session.Query()
	a.session.Navigate(raw)
	if after := a.session.Query(); after != before {
		a.recordHistory(action, after)
	}
	a.status = action
	a.refresh()
}

var errNoFavorites = errors.New("saved searches are not available")

func (a *App) saveFavorite(name string) {
	if a.favorites == nil {
		a.ShowError("Save failed", errNoFavorites.Error())
		return
	}
	organism := a.session.Reducer().Schema().Organism
	fav, err := a.favorites.Add(name, "", a.session.Query(), organism, nil)
	if err != nil {
		a.ShowError("Save failed", err.Error())
		return
	}
	a.status = "saved " + fav.Name
}

func (a *App) openFavoritesDialog() {
	if a.favorites == nil {
		a.ShowError("Saved searches", errNoFavorites.Error())
		return
	}
	organism := a.session.Reducer().Schema().Organism
	a.favoritesDialog.SetFavorites(a.favorites.ForOrganism(organism))
	a.state.ViewMode = models.FavoritesMode
}

func (a *App) openFavorite(fav models.Favorite) {
	a.navigate("open "+fav.Name, fav.Query)
	if err := a.favorites.RecordUsage(fav.ID); err != nil {
		a.logger.Warn().Err(err).Str("favorite", fav.ID).Msg("failed to record usage")
	}
}

func (a *App) deleteFavorite(id string) {
	if err := a.favorites.Delete(id); err != nil {
		a.ShowError("Delete failed", err.Error())
		return
	}
	organism := a.session.Reducer().Schema().Organism
	a.favoritesDialog.SetFavorites(a.favorites.ForOrganism(organism))
	a.status = "deleted saved search"
}
