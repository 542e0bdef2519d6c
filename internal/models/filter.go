package models

// FilterOperator represents a comparison the backend applies to a field
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpIn             FilterOperator = "IN"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessOrEqual    FilterOperator = "<="
	OpIsNull         FilterOperator = "IS NULL"
)

// FilterCondition represents a single backend filter condition
type FilterCondition struct {
	Field    string
	Param    string // request parameter that carries the condition
	Operator FilterOperator
	Value    any    // string, bool, []*string or nil
}

// MutationLists carries the four mutation query lists of a request.
type MutationLists struct {
	NucleotideMutations  []string `json:"nucleotideMutations,omitempty"`
	AminoAcidMutations   []string `json:"aminoAcidMutations,omitempty"`
	NucleotideInsertions []string `json:"nucleotideInsertions,omitempty"`
	AminoAcidInsertions  []string `json:"aminoAcidInsertions,omitempty"`
}

// SearchRequest is the backend query derived from the search state
type SearchRequest struct {
	Conditions []FilterCondition
	Mutations  MutationLists
	OrderBy    string
	Order      OrderDirection
	Limit      int
	Offset     int
}
