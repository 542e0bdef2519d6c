package models

import "strings"

// Control keys and prefixes of the search page's query string.
const (
	KeyPage        = "page"
	KeyOrderBy     = "orderBy"
	KeyOrder       = "order"
	KeySelectedSeq = "selectedSeq"
	KeyHalfScreen  = "halfScreen"

	KeyNucleotideMutations  = "nucleotideMutations"
	KeyAminoAcidMutations   = "aminoAcidMutations"
	KeyNucleotideInsertions = "nucleotideInsertions"
	KeyAminoAcidInsertions  = "aminoAcidInsertions"

	VisibilityPrefix = "visibility_"
	ColumnPrefix     = "column_"

	// NullSentinel stands in for a logical null inside a list value.
	NullSentinel = "_null_"
)

var reservedKeys = map[string]struct{}{
	KeyPage:                 {},
	KeyOrderBy:              {},
	KeyOrder:                {},
	KeySelectedSeq:          {},
	KeyHalfScreen:           {},
	KeyNucleotideMutations:  {},
	KeyAminoAcidMutations:   {},
	KeyNucleotideInsertions: {},
	KeyAminoAcidInsertions:  {},
}

// IsReservedKey reports whether name collides with a control key or one of the
// override namespaces.
func IsReservedKey(name string) bool {
	if _, ok := reservedKeys[name]; ok {
		return true
	}
	return strings.HasPrefix(name, VisibilityPrefix) || strings.HasPrefix(name, ColumnPrefix)
}

// MutationKeys returns the four mutation list keys in display order.
func MutationKeys() []string {
	return []string{
		KeyNucleotideMutations,
		KeyAminoAcidMutations,
		KeyNucleotideInsertions,
		KeyAminoAcidInsertions,
	}
}
