package parser

import (
	"testing"

	"github.com/poiesic/genie/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ctdSample = `GeneSymbol,GeneID,DiseaseName,DiseaseID,PubMedIDs
TP53,7157,Li-Fraumeni Syndrome,D016864,20301488|21305319
BRCA1,672,Breast Neoplasms,D001943,20301425
`

func TestCtdParse(t *testing.T) {
	p := NewCtdParser()

	batch, err := p.Parse([]byte(ctdSample), DataDefault)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	first := batch[0]
	assert.Equal(t, core.String("TP53"), first["GeneSymbol"])
	assert.Equal(t, core.Int(7157), first["GeneID"])
	assert.Equal(t, core.String("D016864"), first["DiseaseID"])
	assert.Equal(t, core.Ints(20301488, 21305319), first["PubMedIDs"])
	assert.NotEmpty(t, first.Digest())

	assert.True(t, p.IsValid(batch), "parsed batch should satisfy the ctd schema")
}

func TestCtdParse_DigestDeterministic(t *testing.T) {
	p := NewCtdParser()

	b1, err := p.Parse([]byte(ctdSample), DataDelimited)
	require.NoError(t, err)
	b2, err := p.Parse([]byte(ctdSample), DataDelimited)
	require.NoError(t, err)

	assert.Equal(t, b1.Digests(), b2.Digests())
	assert.NotEqual(t, b1[0].Digest(), b1[1].Digest())
}

func TestCtdParse_Malformed(t *testing.T) {
	p := NewCtdParser()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "non-integer gene id",
			input: "GeneSymbol,GeneID,DiseaseName,DiseaseID,PubMedIDs\nTP53,notanint,X,D1,2",
		},
		{
			name:  "bad id list",
			input: "GeneSymbol,GeneID,DiseaseName,DiseaseID,PubMedIDs\nTP53,7157,X,D1,12|abc",
		},
		{
			name:  "missing header column",
			input: "GeneSymbol,GeneID,DiseaseName\nTP53,7157,X",
		},
		{
			name:  "ragged row",
			input: "GeneSymbol,GeneID,DiseaseName,DiseaseID,PubMedIDs\nTP53,7157",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := p.Parse([]byte(tt.input), DataDefault)
			require.ErrorIs(t, err, core.ErrParseFailed)
			assert.Nil(t, batch)
		})
	}
}

func TestCtdParse_Empty(t *testing.T) {
	p := NewCtdParser()

	batch, err := p.Parse(nil, DataDefault)
	require.NoError(t, err)
	assert.Nil(t, batch, "empty input means nothing to persist")
}

func TestRegistry(t *testing.T) {
	for _, source := range []string{CtdSource, PubmedSource} {
		p, err := New(source)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.NotNil(t, p.Schema())
	}

	_, err := New("nonesuch")
	assert.Error(t, err)

	assert.Contains(t, Sources(), CtdSource)
	assert.Contains(t, Sources(), PubmedSource)
}
