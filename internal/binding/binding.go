// Package binding adapts single query parameters to typed values.
//
// A Binding reads its parameter with a default and writes it back either
// through the search reducer, which treats the change as a new search and
// resets the page, or directly, for presentation-only toggles.
package binding

import (
	"errors"
	"fmt"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
)

// ErrTypeMismatch is returned when a parameter bound as a string holds a list.
var ErrTypeMismatch = errors.New("binding: parameter holds a list")

// Mode selects the write path of a binding.
type Mode int

const (
	// ModeResetPagination writes through SetSomeFieldValues.
	ModeResetPagination Mode = iota
	// ModeDirect sets or deletes the key and leaves the page alone.
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeResetPagination:
		return "reset-pagination"
	case ModeDirect:
		return "direct"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// FieldSetter is the filtering write path. *search.Reducer implements it.
type FieldSetter interface {
	SetSomeFieldValues(state querystate.State, updates ...search.Update) querystate.State
}

// Codec pairs the conversions between a typed value and its raw parameter.
type Codec[T any] struct {
	Decode func(raw querystate.Value) (T, error)
	Encode func(v T) string
}

// Binding binds one named parameter to a value of type T.
type Binding[T any] struct {
	Name       string
	Default    T
	ShouldOmit func(v T) bool
	Mode       Mode
	Codec      Codec[T]
}

// Read returns the bound value, or the default when the key is absent.
func (b Binding[T]) Read(state querystate.State) (T, error) {
	raw, ok := state.Get(b.Name)
	if !ok {
		return b.Default, nil
	}
	v, err := b.Codec.Decode(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %q: %w", b.Name, err)
	}
	return v, nil
}

// MustRead is like Read but panics on a decode error. A mismatch means the
// binding and the schema disagree.
func (b Binding[T]) MustRead(state querystate.State) T {
	v, err := b.Read(state)
	if err != nil {
		panic(err)
	}
	return v
}

// Write stores v. Values matched by ShouldOmit delete the key. The setter is
// only used in ModeResetPagination and may be nil otherwise.
func (b Binding[T]) Write(state querystate.State, v T, setter FieldSetter) querystate.State {
	omit := b.ShouldOmit != nil && b.ShouldOmit(v)

	switch b.Mode {
	case ModeResetPagination:
		if omit {
			return setter.SetSomeFieldValues(state, search.Clear(b.Name))
		}
		return setter.SetSomeFieldValues(state, search.Set(b.Name, search.Scalar(b.Codec.Encode(v))))
	case ModeDirect:
		if omit {
			return state.Delete(b.Name)
		}
		return state.Set(b.Name, querystate.Scalar(b.Codec.Encode(v)))
	default:
		panic(fmt.Sprintf("binding %q: unknown mode %v", b.Name, b.Mode))
	}
}

// String binds a plain string. A list stored under the key is a type
// mismatch. A nil shouldOmit omits the default.
func String(name, def string, mode Mode, shouldOmit func(string) bool) Binding[string] {
	if shouldOmit == nil {
		shouldOmit = func(v string) bool { return v == def }
	}
	return Binding[string]{
		Name:       name,
		Default:    def,
		ShouldOmit: shouldOmit,
		Mode:       mode,
		Codec: Codec[string]{
			Decode: func(raw querystate.Value) (string, error) {
				if raw.IsList() {
					return "", ErrTypeMismatch
				}
				return raw.String(), nil
			},
			Encode: func(v string) string { return v },
		},
	}
}

// Bool binds a flag that is true only for the literal "true". A nil
// shouldOmit omits the default.
func Bool(name string, def bool, mode Mode, shouldOmit func(bool) bool) Binding[bool] {
	if shouldOmit == nil {
		shouldOmit = func(v bool) bool { return v == def }
	}
	return Binding[bool]{
		Name:       name,
		Default:    def,
		ShouldOmit: shouldOmit,
		Mode:       mode,
		Codec: Codec[bool]{
			Decode: func(raw querystate.Value) (bool, error) { return raw.String() == "true", nil },
			Encode: func(v bool) string {
				if v {
					return "true"
				}
				return "false"
			},
		},
	}
}

// NullableString binds a string that may be absent. Its default is nil and a
// nil shouldOmit omits nil.
func NullableString(name string, mode Mode, shouldOmit func(*string) bool) Binding[*string] {
	if shouldOmit == nil {
		shouldOmit = func(v *string) bool { return v == nil }
	}
	return Binding[*string]{
		Name:       name,
		ShouldOmit: shouldOmit,
		Mode:       mode,
		Codec: Codec[*string]{
			Decode: func(raw querystate.Value) (*string, error) {
				s := raw.String()
				return &s, nil
			},
			Encode: func(v *string) string {
				if v == nil {
					return ""
				}
				return *v
			},
		},
	}
}

// SelectedSeq is the accession shown in the detail panel.
func SelectedSeq() Binding[*string] {
	return NullableString(models.KeySelectedSeq, ModeDirect, nil)
}

// HalfScreen toggles the docked detail layout.
func HalfScreen() Binding[bool] {
	return Bool(models.KeyHalfScreen, false, ModeDirect, nil)
}
