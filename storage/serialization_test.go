package storage

import (
	"testing"

	"github.com/poiesic/genie/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  core.Record
	}{
		{
			name: "gene-disease record",
			rec: core.Record{
				"GeneSymbol":      core.String("TP53"),
				"GeneID":          core.Int(7157),
				"DiseaseName":     core.String("Li-Fraumeni Syndrome"),
				"DiseaseID":       core.String("D016864"),
				"PubMedIDs":       core.Ints(20301488, 21305319),
				core.DigestColumn: core.String(core.DigestFromContent("TP53|7157")),
			},
		},
		{
			name: "article record with string list",
			rec: core.Record{
				"PMID":    core.String("31452104"),
				"Title":   core.String("TP53 mutations in hereditary cancer."),
				"Authors": core.Strings("Jane Smith", "Ken Jones"),
			},
		},
		{
			name: "empty record",
			rec:  core.Record{},
		},
		{
			name: "negative and zero ints",
			rec: core.Record{
				"A": core.Int(-42),
				"B": core.Int(0),
				"C": core.Ints(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecord(tt.rec)
			require.NotNil(t, data)

			decoded, err := UnmarshalRecord(data)
			require.NoError(t, err)
			assert.True(t, tt.rec.Equal(decoded), "round-tripped record differs: %v vs %v", tt.rec, decoded)
		})
	}
}

func TestMarshalRecord_Deterministic(t *testing.T) {
	rec := core.Record{
		"GeneSymbol": core.String("BRCA1"),
		"GeneID":     core.Int(672),
		"PubMedIDs":  core.Ints(1, 2, 3),
	}
	assert.Equal(t, MarshalRecord(rec), MarshalRecord(rec))
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", MarshalRecord(core.Record{"A": core.String("hello")})[:3]},
		{"garbage", []byte{0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tt.data)
			assert.Error(t, err)
		})
	}
}
