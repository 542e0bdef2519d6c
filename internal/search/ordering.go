package search

import (
	"strconv"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

// OrderByField returns the sort field. A field whose column is hidden cannot
// be sorted on, so the primary key is used instead.
func (r *Reducer) OrderByField(state querystate.State) string {
	field := r.schema.OrderByDefault()
	if v, ok := state.Get(models.KeyOrderBy); ok && !v.IsList() && v.String() != "" {
		field = v.String()
	}
	if field == r.schema.PrimaryKey || r.ColumnVisibility(state, field) {
		return field
	}
	return r.schema.PrimaryKey
}

// OrderDirection returns the sort direction. Unknown values read as the
// default.
func (r *Reducer) OrderDirection(state querystate.State) models.OrderDirection {
	if v, ok := state.Get(models.KeyOrder); ok {
		if dir := models.OrderDirection(v.String()); !v.IsList() && dir.Valid() {
			return dir
		}
	}
	return r.schema.OrderDefault()
}

// SetOrderByField sorts by field and resets the page.
func (r *Reducer) SetOrderByField(state querystate.State, field string) querystate.State {
	return state.Edit(func(d *querystate.Draft) {
		if field == "" || field == r.schema.OrderByDefault() {
			d.Delete(models.KeyOrderBy)
		} else {
			d.SetString(models.KeyOrderBy, field)
		}
		d.Delete(models.KeyPage)
	})
}

// SetOrderDirection sets the sort direction and resets the page.
func (r *Reducer) SetOrderDirection(state querystate.State, dir models.OrderDirection) querystate.State {
	return state.Edit(func(d *querystate.Draft) {
		if !dir.Valid() || dir == r.schema.OrderDefault() {
			d.Delete(models.KeyOrder)
		} else {
			d.SetString(models.KeyOrder, string(dir))
		}
		d.Delete(models.KeyPage)
	})
}

// Page returns the current page. Missing, non-numeric and non-positive values
// read as 1.
func (r *Reducer) Page(state querystate.State) int {
	v, ok := state.Get(models.KeyPage)
	if !ok || v.IsList() {
		return 1
	}
	n, err := strconv.Atoi(v.String())
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// SetPage moves to page n. Page 1 and anything below it drop the key.
func (r *Reducer) SetPage(state querystate.State, n int) querystate.State {
	if n <= 1 {
		return state.Delete(models.KeyPage)
	}
	return state.Set(models.KeyPage, querystate.Scalar(strconv.Itoa(n)))
}
