package search

import (
	"slices"
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

// Item is one element of a multiselect value. Null marks a logical null.
type Item struct {
	Value string
	Null  bool
}

// Of returns a non-null item.
func Of(s string) Item { return Item{Value: s} }

// Null returns the null item.
func Null() Item { return Item{Null: true} }

// Value is the effective value of a filter field: a scalar or an ordered list
// of nullable strings. The zero Value is the cleared scalar.
type Value struct {
	Text   string
	Items  []Item
	IsList bool
}

// Scalar returns a scalar value.
func Scalar(s string) Value { return Value{Text: s} }

// List returns a list value.
func List(items ...Item) Value {
	return Value{Items: slices.Clone(items), IsList: true}
}

// Strings returns a list value of non-null items.
func Strings(ss ...string) Value {
	items := make([]Item, len(ss))
	for i, s := range ss {
		items[i] = Of(s)
	}
	return Value{Items: items, IsList: true}
}

// IsEmpty reports whether v is the empty scalar or an empty list.
func (v Value) IsEmpty() bool {
	if v.IsList {
		return len(v.Items) == 0
	}
	return v.Text == ""
}

// Equal compares values the way the query string sees them: a one-element
// list of a non-null item equals the scalar of the same text.
func (v Value) Equal(other Value) bool {
	a, b := v.canonical(), other.canonical()
	if a.IsList != b.IsList {
		return false
	}
	if !a.IsList {
		return a.Text == b.Text
	}
	return slices.Equal(a.Items, b.Items)
}

func (v Value) canonical() Value {
	if v.IsList && len(v.Items) == 1 && !v.Items[0].Null {
		return Scalar(v.Items[0].Value)
	}
	return v
}

// Values returns the non-null elements. A non-empty scalar yields one element.
func (v Value) Values() []string {
	if !v.IsList {
		if v.Text == "" {
			return nil
		}
		return []string{v.Text}
	}
	out := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		if !it.Null {
			out = append(out, it.Value)
		}
	}
	return out
}

// HasNull reports whether a list value holds a logical null.
func (v Value) HasNull() bool {
	return slices.ContainsFunc(v.Items, func(it Item) bool { return it.Null })
}

func (v Value) String() string {
	if !v.IsList {
		return v.Text
	}
	parts := make([]string, len(v.Items))
	for i, it := range v.Items {
		if it.Null {
			parts[i] = "null"
		} else {
			parts[i] = it.Value
		}
	}
	return strings.Join(parts, ", ")
}

// Update is one (name, value) pair of a SetSomeFieldValues batch.
type Update struct {
	Name  string
	Value Value
}

// Set returns an update storing v under name.
func Set(name string, v Value) Update { return Update{Name: name, Value: v} }

// Clear returns an update clearing name.
func Clear(name string) Update { return Update{Name: name} }

// FieldValues maps query keys to effective field values.
type FieldValues map[string]Value

// HiddenValues maps query keys to the baseline values forced by the hosting
// context. It is fixed for a session.
type HiddenValues map[string]Value

// ClearAction is what clearing a field does to its query key.
type ClearAction int

const (
	// DeleteKey removes the key so the field falls back to absent.
	DeleteKey ClearAction = iota
	// StoreEmpty keeps the key with an empty value so it overrides a hidden
	// default.
	StoreEmpty
)

func (a ClearAction) String() string {
	switch a {
	case DeleteKey:
		return "delete"
	case StoreEmpty:
		return "store-empty"
	default:
		return "unknown"
	}
}

// ResolveOnClear decides how clearing name is encoded.
func ResolveOnClear(name string, hidden HiddenValues) ClearAction {
	if _, ok := hidden[name]; ok {
		return StoreEmpty
	}
	return DeleteKey
}

func encodeValue(v Value) querystate.Value {
	if !v.IsList {
		return querystate.Scalar(v.Text)
	}
	raw := make([]string, len(v.Items))
	for i, it := range v.Items {
		if it.Null {
			raw[i] = models.NullSentinel
		} else {
			raw[i] = it.Value
		}
	}
	return querystate.List(raw...)
}

func decodeValue(qv querystate.Value, kind models.FieldKind) Value {
	if !qv.IsList() && (kind != models.KindMultiSelect || qv.String() == "") {
		return Scalar(qv.String())
	}
	raw := qv.Items()
	items := make([]Item, len(raw))
	for i, s := range raw {
		if s == models.NullSentinel {
			items[i] = Null()
		} else {
			items[i] = Of(s)
		}
	}
	return List(items...)
}
