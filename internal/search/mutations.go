package search

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

// MutationKind names one of the four mutation lists. Its value is the list's
// query key.
type MutationKind string

const (
	NucleotideMutations  MutationKind = models.KeyNucleotideMutations
	AminoAcidMutations   MutationKind = models.KeyAminoAcidMutations
	NucleotideInsertions MutationKind = models.KeyNucleotideInsertions
	AminoAcidInsertions  MutationKind = models.KeyAminoAcidInsertions
)

// MutationKinds returns the kinds in display order.
func MutationKinds() []MutationKind {
	return []MutationKind{NucleotideMutations, AminoAcidMutations, NucleotideInsertions, AminoAcidInsertions}
}

// MutationFilter holds the mutation query lists. It is read by the sequence
// query path, not by the metadata filter.
type MutationFilter struct {
	NucleotideMutations  []string
	AminoAcidMutations   []string
	NucleotideInsertions []string
	AminoAcidInsertions  []string
}

// Get returns the list of kind.
func (m MutationFilter) Get(kind MutationKind) []string {
	switch kind {
	case NucleotideMutations:
		return m.NucleotideMutations
	case AminoAcidMutations:
		return m.AminoAcidMutations
	case NucleotideInsertions:
		return m.NucleotideInsertions
	case AminoAcidInsertions:
		return m.AminoAcidInsertions
	default:
		return nil
	}
}

// With returns a copy of m with the list of kind replaced.
func (m MutationFilter) With(kind MutationKind, items []string) MutationFilter {
	items = slices.Clone(items)
	switch kind {
	case NucleotideMutations:
		m.NucleotideMutations = items
	case AminoAcidMutations:
		m.AminoAcidMutations = items
	case NucleotideInsertions:
		m.NucleotideInsertions = items
	case AminoAcidInsertions:
		m.AminoAcidInsertions = items
	}
	return m
}

// IsEmpty reports whether all four lists are empty.
func (m MutationFilter) IsEmpty() bool {
	for _, kind := range MutationKinds() {
		if len(m.Get(kind)) > 0 {
			return false
		}
	}
	return true
}

// String joins all entries the way a user would type them.
func (m MutationFilter) String() string {
	var all []string
	for _, kind := range MutationKinds() {
		all = append(all, m.Get(kind)...)
	}
	return strings.Join(all, ", ")
}

// Lists converts m to the request representation.
func (m MutationFilter) Lists() models.MutationLists {
	return models.MutationLists{
		NucleotideMutations:  slices.Clone(m.NucleotideMutations),
		AminoAcidMutations:   slices.Clone(m.AminoAcidMutations),
		NucleotideInsertions: slices.Clone(m.NucleotideInsertions),
		AminoAcidInsertions:  slices.Clone(m.AminoAcidInsertions),
	}
}

// Mutations reads the four mutation lists.
func (r *Reducer) Mutations(state querystate.State) MutationFilter {
	var m MutationFilter
	for _, kind := range MutationKinds() {
		v, ok := state.Get(string(kind))
		if !ok {
			continue
		}
		var items []string
		for _, s := range v.Items() {
			if s != "" {
				items = append(items, s)
			}
		}
		m = m.With(kind, items)
	}
	return m
}

// SetMutations replaces all four lists and resets the page.
func (r *Reducer) SetMutations(state querystate.State, m MutationFilter) querystate.State {
	return state.Edit(func(d *querystate.Draft) {
		for _, kind := range MutationKinds() {
			setList(d, string(kind), m.Get(kind))
		}
		d.Delete(models.KeyPage)
	})
}

// setList stores the non-empty items under key. A list with nothing left is
// deleted, since Mutations reads empty entries back as absent.
func setList(d *querystate.Draft, key string, items []string) {
	items = slices.DeleteFunc(slices.Clone(items), func(s string) bool { return s == "" })
	if len(items) == 0 {
		d.Delete(key)
		return
	}
	d.Set(key, querystate.List(items...))
}

var (
	nucleotideMutationPattern = regexp.MustCompile(`^([A-Z]?)([0-9]+)([A-Z.\-]?)$`)
	aminoAcidMutationPattern  = regexp.MustCompile(`^([A-Z*]?)([0-9]+)([A-Z*.\-]?)$`)
	insertionPattern          = regexp.MustCompile(`^[A-Z*?.]+$`)
)

// ParseMutationQuery splits a comma separated mutation query such as
// "A23T, S:N501Y, ins_123:ACG, ins_S:214:EPE" into the four lists. Entries
// that do not match the reference genome are returned in invalid, as typed.
func ParseMutationQuery(text string, genome models.ReferenceGenome) (m MutationFilter, invalid []string) {
	for _, raw := range strings.Split(text, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		kind, canonical, ok := classifyMutation(entry, genome)
		if !ok {
			invalid = append(invalid, entry)
			continue
		}
		list := m.Get(kind)
		if slices.Contains(list, canonical) {
			continue
		}
		m = m.With(kind, append(list, canonical))
	}
	return m, invalid
}

func classifyMutation(entry string, genome models.ReferenceGenome) (MutationKind, string, bool) {
	upper := strings.ToUpper(entry)
	if rest, ok := strings.CutPrefix(upper, "INS_"); ok {
		return classifyInsertion(rest, genome)
	}

	parts := strings.Split(upper, ":")
	switch len(parts) {
	case 1:
		if genome.MultiSegmented() || !nucleotideMutationPattern.MatchString(parts[0]) {
			return "", "", false
		}
		return NucleotideMutations, parts[0], true
	case 2:
		if seg, ok := lookupName(genome.Segments, parts[0]); ok && genome.MultiSegmented() {
			if !nucleotideMutationPattern.MatchString(parts[1]) {
				return "", "", false
			}
			return NucleotideMutations, seg + ":" + parts[1], true
		}
		if gene, ok := lookupName(genome.Genes, parts[0]); ok {
			if !aminoAcidMutationPattern.MatchString(parts[1]) {
				return "", "", false
			}
			return AminoAcidMutations, gene + ":" + parts[1], true
		}
	}
	return "", "", false
}

func classifyInsertion(rest string, genome models.ReferenceGenome) (MutationKind, string, bool) {
	parts := strings.Split(rest, ":")
	switch len(parts) {
	case 2:
		if genome.MultiSegmented() || !validInsertion(parts[0], parts[1]) {
			return "", "", false
		}
		return NucleotideInsertions, "ins_" + parts[0] + ":" + parts[1], true
	case 3:
		if !validInsertion(parts[1], parts[2]) {
			return "", "", false
		}
		if seg, ok := lookupName(genome.Segments, parts[0]); ok && genome.MultiSegmented() {
			return NucleotideInsertions, "ins_" + seg + ":" + parts[1] + ":" + parts[2], true
		}
		if gene, ok := lookupName(genome.Genes, parts[0]); ok {
			return AminoAcidInsertions, "ins_" + gene + ":" + parts[1] + ":" + parts[2], true
		}
	}
	return "", "", false
}

func validInsertion(position, sequence string) bool {
	n, err := strconv.Atoi(position)
	return err == nil && n > 0 && insertionPattern.MatchString(sequence)
}

// lookupName matches name case-insensitively and returns the configured
// spelling.
func lookupName(names []string, name string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
