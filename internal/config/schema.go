package config

import "github.com/loculus-project/seqsearch/internal/models"

// DefaultSchema is the built-in search page used when the config declares no
// fields.
func DefaultSchema() models.Schema {
	return models.Schema{
		Organism:                   "cchf",
		PrimaryKey:                 "accessionVersion",
		DefaultOrderBy:             "sampleCollectionDate",
		DefaultOrder:               models.Descending,
		TableColumns:               []string{"sampleCollectionDate", "geoLocCountry", "hostNameScientific", "length"},
		SuborganismIdentifierField: "genotype",
		Fields: []models.FieldDescriptor{
			{Name: "accessionVersion", DisplayName: "Accession", Kind: models.KindScalar, InitiallyVisible: true},
			{Name: "geoLocCountry", DisplayName: "Collection country", Kind: models.KindMultiSelect, Header: "Sample details", InitiallyVisible: true},
			{Name: "sampleCollectionDate", DisplayName: "Collection date", Kind: models.KindRange, Header: "Sample details", InitiallyVisible: true},
			{Name: "hostNameScientific", DisplayName: "Host", Kind: models.KindScalar, Header: "Host"},
			{Name: "length", DisplayName: "Length", Kind: models.KindRange, Header: "Sequence"},
			{Name: "isRevocation", DisplayName: "Revoked", Kind: models.KindBoolean},
			{Name: "groupId", DisplayName: "Group", Kind: models.KindScalar, Header: "Submitter"},
			{Name: "clade", DisplayName: "Clade (Africa)", Kind: models.KindScalar, OnlyForSuborganism: "africa"},
			{Name: "lineage", DisplayName: "Lineage (Europe)", Kind: models.KindScalar, OnlyForSuborganism: "europe"},
		},
		ReferenceGenome: models.ReferenceGenome{
			Segments: []string{"L", "M", "S"},
			Genes:    []string{"RdRp", "GPC", "NP"},
		},
	}
}
