package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSchema wraps every schema validation failure.
var ErrInvalidSchema = errors.New("invalid search schema")

var schemaValidate = validator.New()

// FieldKind tags the value shape of a filter field.
type FieldKind string

const (
	KindScalar      FieldKind = "scalar"
	KindMultiSelect FieldKind = "multiselect"
	KindBoolean     FieldKind = "boolean"
	KindRange       FieldKind = "range"
)

// OrderDirection is the sort direction of the result table.
type OrderDirection string

const (
	Ascending  OrderDirection = "ascending"
	Descending OrderDirection = "descending"
)

// Valid reports whether d is one of the known directions.
func (d OrderDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// FieldDescriptor describes one configurable filter field
type FieldDescriptor struct {
	Name             string    `mapstructure:"name" yaml:"name" validate:"required"`
	DisplayName      string    `mapstructure:"display_name" yaml:"display_name,omitempty"`
	Kind             FieldKind `mapstructure:"kind" yaml:"kind" validate:"required,oneof=scalar multiselect boolean range"`
	Header           string    `mapstructure:"header" yaml:"header,omitempty"`
	InitiallyVisible bool      `mapstructure:"initially_visible" yaml:"initially_visible,omitempty"`
	// RangeName overrides the base of the bound keys of a range field.
	RangeName          string `mapstructure:"range_name" yaml:"range_name,omitempty"`
	OnlyForSuborganism string `mapstructure:"only_for_suborganism" yaml:"only_for_suborganism,omitempty"`
}

// Label returns the display name, falling back to the field name.
func (f FieldDescriptor) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func (f FieldDescriptor) rangeBase() string {
	if f.RangeName != "" {
		return f.RangeName
	}
	return f.Name
}

// FromKey returns the lower-bound query key of a range field.
func (f FieldDescriptor) FromKey() string { return f.rangeBase() + "From" }

// ToKey returns the upper-bound query key of a range field.
func (f FieldDescriptor) ToKey() string { return f.rangeBase() + "To" }

// Keys returns the raw query keys that hold this field's value.
func (f FieldDescriptor) Keys() []string {
	switch f.Kind {
	case KindRange:
		return []string{f.FromKey(), f.ToKey()}
	case KindScalar, KindMultiSelect, KindBoolean:
		return []string{f.Name}
	default:
		return []string{f.Name}
	}
}

// ReferenceGenome lists the segment and gene names mutation queries may
// reference.
type ReferenceGenome struct {
	Segments []string `mapstructure:"segments" yaml:"segments,omitempty"`
	Genes    []string `mapstructure:"genes" yaml:"genes,omitempty"`
}

// MultiSegmented reports whether nucleotide mutations need a segment prefix.
func (g ReferenceGenome) MultiSegmented() bool {
	return len(g.Segments) > 1
}

// Schema is the ordered field configuration of one search page.
type Schema struct {
	Organism                   string            `mapstructure:"organism" yaml:"organism,omitempty"`
	Fields                     []FieldDescriptor `mapstructure:"fields" yaml:"fields" validate:"dive"`
	PrimaryKey                 string            `mapstructure:"primary_key" yaml:"primary_key" validate:"required"`
	DefaultOrderBy             string            `mapstructure:"default_order_by" yaml:"default_order_by,omitempty"`
	DefaultOrder               OrderDirection    `mapstructure:"default_order" yaml:"default_order,omitempty" validate:"omitempty,oneof=ascending descending"`
	TableColumns               []string          `mapstructure:"table_columns" yaml:"table_columns,omitempty"`
	SuborganismIdentifierField string            `mapstructure:"suborganism_identifier_field" yaml:"suborganism_identifier_field,omitempty"`
	ReferenceGenome            ReferenceGenome   `mapstructure:"reference_genome" yaml:"reference_genome,omitempty"`
}

// Field looks up a descriptor by name.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// IsDefaultColumn reports whether name is shown in the result table by
// default.
func (s *Schema) IsDefaultColumn(name string) bool {
	return slices.Contains(s.TableColumns, name)
}

// OrderDefault returns the configured default direction, ascending if unset.
func (s *Schema) OrderDefault() OrderDirection {
	if s.DefaultOrder.Valid() {
		return s.DefaultOrder
	}
	return Ascending
}

// OrderByDefault returns the configured default sort field, the primary key if
// unset.
func (s *Schema) OrderByDefault() string {
	if s.DefaultOrderBy != "" {
		return s.DefaultOrderBy
	}
	return s.PrimaryKey
}

// Validate checks struct tags and the cross-field rules: unique query keys and
// no collision with control keys.
func (s *Schema) Validate() error {
	if err := schemaValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	names := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		names[f.Name] = struct{}{}
	}

	seen := map[string]string{}
	claim := func(key, owner string) error {
		if IsReservedKey(key) {
			return fmt.Errorf("%w: %s uses reserved key %q", ErrInvalidSchema, owner, key)
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: key %q claimed by both %s and %s", ErrInvalidSchema, key, prev, owner)
		}
		seen[key] = owner
		return nil
	}

	for _, f := range s.Fields {
		owner := fmt.Sprintf("field %q", f.Name)
		if IsReservedKey(f.Name) {
			return fmt.Errorf("%w: %s uses a reserved name", ErrInvalidSchema, owner)
		}
		for _, key := range f.Keys() {
			if err := claim(key, owner); err != nil {
				return err
			}
		}
	}

	if s.SuborganismIdentifierField != "" {
		if err := claim(s.SuborganismIdentifierField, "the suborganism selector"); err != nil {
			return err
		}
	}

	if s.DefaultOrderBy != "" && s.DefaultOrderBy != s.PrimaryKey {
		if _, ok := names[s.DefaultOrderBy]; !ok && !s.IsDefaultColumn(s.DefaultOrderBy) {
			return fmt.Errorf("%w: unknown default order field %q", ErrInvalidSchema, s.DefaultOrderBy)
		}
	}
	return nil
}
