package search

import (
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

// Visibility resolves a boolean per field from a static default and an
// optional override stored under Prefix+name. Only overrides that differ from
// the default are kept in the query.
type Visibility struct {
	Prefix  string
	Default func(name string) bool
}

// Key returns the override key of name.
func (v Visibility) Key(name string) string { return v.Prefix + name }

// Get returns the effective visibility of name.
func (v Visibility) Get(state querystate.State, name string) bool {
	if raw, ok := state.Get(v.Key(name)); ok {
		return raw.String() == "true"
	}
	return v.Default(name)
}

// Set returns a state where name resolves to visible.
func (v Visibility) Set(state querystate.State, name string, visible bool) querystate.State {
	return state.Edit(func(d *querystate.Draft) { v.apply(d, name, visible) })
}

func (v Visibility) apply(d *querystate.Draft, name string, visible bool) {
	if visible == v.Default(name) {
		d.Delete(v.Key(name))
		return
	}
	if visible {
		d.SetString(v.Key(name), "true")
	} else {
		d.SetString(v.Key(name), "false")
	}
}

// SearchVisibility reports whether the filter control of name is shown.
// Fields scoped to another suborganism are never shown.
func (r *Reducer) SearchVisibility(state querystate.State, name string) bool {
	if f, ok := r.schema.Field(name); ok && !activeFor(f, r.Suborganism(state)) {
		return false
	}
	return r.searchVisibility.Get(state, name)
}

// SearchVisibilities returns the search visibility of every schema field.
func (r *Reducer) SearchVisibilities(state querystate.State) map[string]bool {
	out := make(map[string]bool, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		out[f.Name] = r.SearchVisibility(state, f.Name)
	}
	return out
}

// SetASearchVisibility shows or hides the filter control of name. Hiding also
// clears the field's value and resets the page.
func (r *Reducer) SetASearchVisibility(state querystate.State, name string, visible bool) querystate.State {
	return state.Edit(func(d *querystate.Draft) {
		r.searchVisibility.apply(d, name, visible)
		if visible {
			return
		}
		keys := []string{name}
		if f, ok := r.schema.Field(name); ok {
			keys = f.Keys()
		}
		for _, key := range keys {
			r.applyUpdate(d, Clear(key))
		}
		d.Delete(models.KeyPage)
	})
}

// ColumnVisibility reports whether the result column of name is shown.
func (r *Reducer) ColumnVisibility(state querystate.State, name string) bool {
	return r.columnVisibility.Get(state, name)
}

// ColumnVisibilities returns the column visibility of every schema field.
func (r *Reducer) ColumnVisibilities(state querystate.State) map[string]bool {
	out := make(map[string]bool, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		out[f.Name] = r.ColumnVisibility(state, f.Name)
	}
	return out
}

// SetAColumnVisibility shows or hides a result column. Values and page are
// left alone.
func (r *Reducer) SetAColumnVisibility(state querystate.State, name string, visible bool) querystate.State {
	return r.columnVisibility.Set(state, name, visible)
}
