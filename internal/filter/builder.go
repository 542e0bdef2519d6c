package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
)

// DefaultPageSize is used when the builder is given no page size.
const DefaultPageSize = 100

// Builder turns a search state into the backend request
type Builder struct {
	pageSize int
}

// NewBuilder creates a new request builder
func NewBuilder(pageSize int) *Builder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Builder{pageSize: pageSize}
}

// PageSize returns the number of rows per page
func (b *Builder) PageSize() int { return b.pageSize }

// Build derives the backend request from state
func (b *Builder) Build(r *search.Reducer, state querystate.State) models.SearchRequest {
	values := r.FieldValues(state)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var conditions []models.FilterCondition
	for _, key := range keys {
		v := values[key]
		if v.IsEmpty() {
			continue
		}
		conditions = append(conditions, b.buildCondition(r.Schema(), key, v))
	}

	page := r.Page(state)
	return models.SearchRequest{
		Conditions: conditions,
		Mutations:  r.Mutations(state).Lists(),
		OrderBy:    r.OrderByField(state),
		Order:      r.OrderDirection(state),
		Limit:      b.pageSize,
		Offset:     (page - 1) * b.pageSize,
	}
}

// buildCondition maps one effective value to a condition
func (b *Builder) buildCondition(schema *models.Schema, key string, v search.Value) models.FilterCondition {
	field, ok := fieldForKey(schema, key)
	if !ok {
		return textCondition(key, key, v)
	}

	switch field.Kind {
	case models.KindRange:
		op := models.OpGreaterOrEqual
		if key == field.ToKey() {
			op = models.OpLessOrEqual
		}
		return models.FilterCondition{Field: field.Name, Param: key, Operator: op, Value: v.String()}
	case models.KindBoolean:
		return models.FilterCondition{Field: field.Name, Param: key, Operator: models.OpEqual, Value: v.Text == "true"}
	case models.KindMultiSelect, models.KindScalar:
		return textCondition(field.Name, key, v)
	default:
		return textCondition(field.Name, key, v)
	}
}

func textCondition(field, param string, v search.Value) models.FilterCondition {
	if !v.IsList {
		return models.FilterCondition{Field: field, Param: param, Operator: models.OpEqual, Value: v.Text}
	}
	if len(v.Items) == 1 && v.Items[0].Null {
		return models.FilterCondition{Field: field, Param: param, Operator: models.OpIsNull}
	}
	in := make([]*string, len(v.Items))
	for i, it := range v.Items {
		if !it.Null {
			s := it.Value
			in[i] = &s
		}
	}
	return models.FilterCondition{Field: field, Param: param, Operator: models.OpIn, Value: in}
}

func fieldForKey(schema *models.Schema, key string) (models.FieldDescriptor, bool) {
	for _, f := range schema.Fields {
		if slices.Contains(f.Keys(), key) {
			return f, true
		}
	}
	return models.FieldDescriptor{}, false
}

// Params renders the request as the backend's parameter map
func Params(req models.SearchRequest) map[string]any {
	out := map[string]any{}
	for _, c := range req.Conditions {
		switch c.Operator {
		case models.OpIsNull:
			out[c.Param] = nil
		default:
			out[c.Param] = c.Value
		}
	}

	lists := map[string][]string{
		models.KeyNucleotideMutations:  req.Mutations.NucleotideMutations,
		models.KeyAminoAcidMutations:   req.Mutations.AminoAcidMutations,
		models.KeyNucleotideInsertions: req.Mutations.NucleotideInsertions,
		models.KeyAminoAcidInsertions:  req.Mutations.AminoAcidInsertions,
	}
	for key, list := range lists {
		if len(list) > 0 {
			out[key] = list
		}
	}

	out["orderBy"] = []map[string]string{{"field": req.OrderBy, "type": string(req.Order)}}
	out["limit"] = req.Limit
	out["offset"] = req.Offset
	return out
}

// Describe renders the conditions as a human readable predicate
func Describe(req models.SearchRequest) (string, error) {
	var clauses []string
	for _, c := range req.Conditions {
		clause, err := describeCondition(c)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	if m := mutationSummary(req.Mutations); m != "" {
		clauses = append(clauses, m)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return strings.Join(clauses, " AND "), nil
}

func describeCondition(c models.FilterCondition) (string, error) {
	switch c.Operator {
	case models.OpIsNull:
		return fmt.Sprintf("%s IS NULL", c.Field), nil
	case models.OpEqual, models.OpGreaterOrEqual, models.OpLessOrEqual:
		return fmt.Sprintf("%s %s %v", c.Field, c.Operator, c.Value), nil
	case models.OpIn:
		items, _ := c.Value.([]*string)
		parts := make([]string, len(items))
		for i, it := range items {
			if it == nil {
				parts[i] = "NULL"
			} else {
				parts[i] = *it
			}
		}
		return fmt.Sprintf("%s IN (%s)", c.Field, strings.Join(parts, ", ")), nil
	default:
		return "", fmt.Errorf("unsupported operator: %s", c.Operator)
	}
}

func mutationSummary(m models.MutationLists) string {
	var all []string
	all = append(all, m.NucleotideMutations...)
	all = append(all, m.AminoAcidMutations...)
	all = append(all, m.NucleotideInsertions...)
	all = append(all, m.AminoAcidInsertions...)
	if len(all) == 0 {
		return ""
	}
	return fmt.Sprintf("mutations (%s)", strings.Join(all, ", "))
}
