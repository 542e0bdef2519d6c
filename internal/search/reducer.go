// Package search derives the effective search state of a sequence search page
// from its query string and computes new query strings for every user action.
//
// Reducer methods are pure: they take a querystate.State and return a new one,
// never mutating their input. Every filtering change drops the page key so the
// result list starts over at page one.
package search

import (
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

// Reducer computes derived values and state transitions for one schema and one
// set of hidden values.
type Reducer struct {
	schema *models.Schema
	hidden HiddenValues

	searchVisibility Visibility
	columnVisibility Visibility
}

// NewReducer creates a reducer. The schema is expected to be validated.
func NewReducer(schema *models.Schema, hidden HiddenValues) *Reducer {
	if hidden == nil {
		hidden = HiddenValues{}
	}
	r := &Reducer{schema: schema, hidden: hidden}
	r.searchVisibility = Visibility{
		Prefix: models.VisibilityPrefix,
		Default: func(name string) bool {
			f, ok := schema.Field(name)
			return ok && f.InitiallyVisible
		},
	}
	r.columnVisibility = Visibility{
		Prefix:  models.ColumnPrefix,
		Default: schema.IsDefaultColumn,
	}
	return r
}

// Schema returns the reducer's schema.
func (r *Reducer) Schema() *models.Schema { return r.schema }

// Hidden returns the hidden values.
func (r *Reducer) Hidden() HiddenValues { return r.hidden }

// FieldValues returns the effective value of every active field.
func (r *Reducer) FieldValues(state querystate.State) FieldValues {
	return FieldValuesFromQuery(state, r.schema, r.hidden)
}

// FieldValuesFromQuery merges explicit query entries over hidden defaults. A
// present key wins even when its value is empty. Fields scoped to another
// suborganism are left out.
func FieldValuesFromQuery(state querystate.State, schema *models.Schema, hidden HiddenValues) FieldValues {
	out := FieldValues{}
	covered := map[string]struct{}{}
	sub := suborganism(state, schema, hidden)

	for _, f := range schema.Fields {
		for _, key := range f.Keys() {
			covered[key] = struct{}{}
			if !activeFor(f, sub) {
				continue
			}
			if v, ok := effectiveValue(state, hidden, key, f.Kind); ok {
				out[key] = v
			}
		}
	}

	if sel := schema.SuborganismIdentifierField; sel != "" {
		covered[sel] = struct{}{}
		if v, ok := effectiveValue(state, hidden, sel, models.KindScalar); ok {
			out[sel] = v
		}
	}

	for key, def := range hidden {
		if _, ok := covered[key]; ok {
			continue
		}
		if qv, ok := state.Get(key); ok {
			out[key] = decodeValue(qv, kindOf(def))
		} else {
			out[key] = def
		}
	}
	return out
}

func effectiveValue(state querystate.State, hidden HiddenValues, key string, kind models.FieldKind) (Value, bool) {
	if qv, ok := state.Get(key); ok {
		return decodeValue(qv, kind), true
	}
	if def, ok := hidden[key]; ok {
		return def, true
	}
	return Value{}, false
}

func kindOf(v Value) models.FieldKind {
	if v.IsList {
		return models.KindMultiSelect
	}
	return models.KindScalar
}

// SetSomeFieldValues applies a batch of updates against one snapshot and
// resets the page.
func (r *Reducer) SetSomeFieldValues(state querystate.State, updates ...Update) querystate.State {
	return state.Edit(func(d *querystate.Draft) {
		for _, u := range updates {
			r.applyUpdate(d, u)
		}
		d.Delete(models.KeyPage)
	})
}

func (r *Reducer) applyUpdate(d *querystate.Draft, u Update) {
	v := u.Value
	switch {
	case v.IsList && len(v.Items) == 0:
		d.Delete(u.Name)
		return
	case !v.IsList && v.Text == "":
		switch ResolveOnClear(u.Name, r.hidden) {
		case StoreEmpty:
			d.SetString(u.Name, "")
		case DeleteKey:
			d.Delete(u.Name)
		}
		return
	}

	// An explicit copy of the hidden default is the same as no override.
	if def, ok := r.hidden[u.Name]; ok && def.Equal(v) {
		d.Delete(u.Name)
		return
	}
	d.Set(u.Name, encodeValue(v))
}

// RemoveFilter drops the user's constraint on name. A hidden field reverts to
// its hidden default instead of becoming unconstrained.
func (r *Reducer) RemoveFilter(state querystate.State, name string) querystate.State {
	if _, ok := r.hidden[name]; ok {
		return state.Delete(name, models.KeyPage)
	}
	return r.SetSomeFieldValues(state, Clear(name))
}

// RemoveField clears every key a descriptor owns, both bounds for a range.
func (r *Reducer) RemoveField(state querystate.State, name string) querystate.State {
	f, ok := r.schema.Field(name)
	if !ok {
		return r.RemoveFilter(state, name)
	}
	return state.Edit(func(d *querystate.Draft) {
		for _, key := range f.Keys() {
			if _, hidden := r.hidden[key]; hidden {
				d.Delete(key)
				continue
			}
			r.applyUpdate(d, Clear(key))
		}
		d.Delete(models.KeyPage)
	})
}

// Suborganism returns the selected suborganism, or "" when none is selected or
// the schema has no selector.
func (r *Reducer) Suborganism(state querystate.State) string {
	return suborganism(state, r.schema, r.hidden)
}

func suborganism(state querystate.State, schema *models.Schema, hidden HiddenValues) string {
	sel := schema.SuborganismIdentifierField
	if sel == "" {
		return ""
	}
	v, ok := effectiveValue(state, hidden, sel, models.KindScalar)
	if !ok {
		return ""
	}
	return v.Text
}

func activeFor(f models.FieldDescriptor, sub string) bool {
	return f.OnlyForSuborganism == "" || f.OnlyForSuborganism == sub
}

// IsActive reports whether a field applies under the current suborganism.
func (r *Reducer) IsActive(state querystate.State, name string) bool {
	f, ok := r.schema.Field(name)
	if !ok {
		return false
	}
	return activeFor(f, r.Suborganism(state))
}

// SetSuborganism selects a suborganism ("" deselects), clears the values of
// fields scoped to other suborganisms and resets the page.
func (r *Reducer) SetSuborganism(state querystate.State, value string) querystate.State {
	sel := r.schema.SuborganismIdentifierField
	if sel == "" {
		return state
	}
	return state.Edit(func(d *querystate.Draft) {
		r.applyUpdate(d, Set(sel, Scalar(value)))
		for _, f := range r.schema.Fields {
			if f.OnlyForSuborganism == "" || f.OnlyForSuborganism == value {
				continue
			}
			for _, key := range f.Keys() {
				d.Delete(key)
			}
		}
		d.Delete(models.KeyPage)
	})
}

// Reset drops every key the search page owns and keeps unknown keys and the
// presentation toggles.
func (r *Reducer) Reset(state querystate.State) querystate.State {
	owned := map[string]struct{}{
		models.KeyPage:    {},
		models.KeyOrderBy: {},
		models.KeyOrder:   {},
	}
	for _, key := range models.MutationKeys() {
		owned[key] = struct{}{}
	}
	for _, f := range r.schema.Fields {
		for _, key := range f.Keys() {
			owned[key] = struct{}{}
		}
	}
	for key := range r.hidden {
		owned[key] = struct{}{}
	}
	if sel := r.schema.SuborganismIdentifierField; sel != "" {
		owned[sel] = struct{}{}
	}

	var drop []string
	for _, key := range state.Keys() {
		_, ok := owned[key]
		if ok || strings.HasPrefix(key, models.VisibilityPrefix) || strings.HasPrefix(key, models.ColumnPrefix) {
			drop = append(drop, key)
		}
	}
	return state.Delete(drop...)
}
