// Package querystate holds the in-memory mirror of a search page's URL query
// string: a flat mapping from parameter name to a scalar or an ordered list of
// strings.
//
// A State is never mutated in place. Every change goes through Edit, which
// copies the snapshot once, applies a batch of edits to the copy and returns
// it, so callers can keep the previous snapshot for back/forward navigation.
package querystate

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// ErrMalformedQuery reports a raw query string with undecodable escapes.
var ErrMalformedQuery = errors.New("querystate: malformed query")

// Value is a single parameter value: either a scalar or an ordered list.
type Value struct {
	items []string
	list  bool
}

// Scalar returns a single-string value.
func Scalar(s string) Value {
	return Value{items: []string{s}}
}

// List returns a list value. A one-element list collapses to a scalar since
// the query string cannot tell the two apart; readers that expect a list
// treat a scalar as a list of one.
func List(items ...string) Value {
	if len(items) == 1 {
		return Scalar(items[0])
	}
	return Value{items: slices.Clone(items), list: true}
}

// IsList reports whether v holds more than one element or an explicit list.
func (v Value) IsList() bool { return v.list }

// String returns the scalar value, or the first element of a list.
func (v Value) String() string {
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// Items returns a copy of the elements. A scalar yields a one-element slice.
func (v Value) Items() []string {
	return slices.Clone(v.items)
}

// Equal reports whether two values have the same shape and elements.
func (v Value) Equal(other Value) bool {
	return v.list == other.list && slices.Equal(v.items, other.items)
}

// State is an immutable snapshot of the query string.
type State struct {
	values map[string]Value
}

// Empty returns a state with no parameters.
func Empty() State {
	return State{}
}

// Parse decodes a raw query string (with or without a leading '?').
// Keys repeated in the query become lists; single keys become scalars.
//
// No pair is ever dropped. A key or value with an invalid escape is kept as
// written and ';' is an ordinary character, as in a browser's
// URLSearchParams. The error wraps ErrMalformedQuery and names the first such
// pair; the returned state is complete either way.
func Parse(raw string) (State, error) {
	raw = strings.TrimPrefix(raw, "?")
	values := make(url.Values)
	var first error
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, kerr := unescape(key)
		v, verr := unescape(value)
		if err := errors.Join(kerr, verr); err != nil && first == nil {
			first = fmt.Errorf("%w: %q: %v", ErrMalformedQuery, pair, err)
		}
		values[k] = append(values[k], v)
	}
	return FromValues(values), first
}

// unescape decodes s, returning it unchanged when it is not valid
// percent-encoding.
func unescape(s string) (string, error) {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s, err
	}
	return out, nil
}

// QueryPart returns the query string of input, which may be a bare query, a
// query with a leading '?' or a full URL. A fragment is dropped.
func QueryPart(input string) string {
	input = strings.TrimSpace(input)
	input, _, _ = strings.Cut(input, "#")
	if _, query, ok := strings.Cut(input, "?"); ok {
		return query
	}
	return input
}

// MustParse is like Parse but panics on error. Intended for tests and
// literals.
func MustParse(raw string) State {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// FromValues converts url.Values into a State.
func FromValues(values url.Values) State {
	out := make(map[string]Value, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
			continue
		case 1:
			out[k] = Scalar(vs[0])
		default:
			out[k] = Value{items: slices.Clone(vs), list: true}
		}
	}
	return State{values: out}
}

// Values converts the state to url.Values.
func (s State) Values() url.Values {
	out := make(url.Values, len(s.values))
	for k, v := range s.values {
		out[k] = v.Items()
	}
	return out
}

// Encode serialises the state as a query string without the leading '?'.
// Keys are sorted; list order is preserved.
func (s State) Encode() string {
	return s.Values().Encode()
}

// Get returns the value stored under name.
func (s State) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name is present.
func (s State) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Len returns the number of parameters.
func (s State) Len() int { return len(s.values) }

// Keys returns the parameter names in sorted order.
func (s State) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Equal reports whether both states hold the same parameters and values.
func (s State) Equal(other State) bool {
	return maps.EqualFunc(s.values, other.values, Value.Equal)
}

// Set returns a copy of s with name set to v.
func (s State) Set(name string, v Value) State {
	return s.Edit(func(d *Draft) { d.Set(name, v) })
}

// Delete returns a copy of s without the given names.
func (s State) Delete(names ...string) State {
	return s.Edit(func(d *Draft) {
		for _, name := range names {
			d.Delete(name)
		}
	})
}

// Edit applies fn to a private copy of s and returns the copy.
func (s State) Edit(fn func(d *Draft)) State {
	d := &Draft{values: maps.Clone(s.values)}
	if d.values == nil {
		d.values = map[string]Value{}
	}
	fn(d)
	return State{values: d.values}
}

// Draft is the mutable view handed to Edit callbacks. It must not escape the
// callback.
type Draft struct {
	values map[string]Value
}

// Get returns the value currently held by the draft.
func (d *Draft) Get(name string) (Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Set stores v under name.
func (d *Draft) Set(name string, v Value) {
	d.values[name] = Value{items: slices.Clone(v.items), list: v.list}
}

// SetString stores a scalar under name.
func (d *Draft) SetString(name, value string) {
	d.values[name] = Scalar(value)
}

// Delete removes name.
func (d *Draft) Delete(name string) {
	delete(d.values, name)
}
