package core

import (
	"encoding/json"
	"testing"
)

func TestDigestFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"simple content", "TP53|7157|D016864"},
		{"empty string", ""},
		{"long content", "a much longer piece of row content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d1 := DigestFromContent(tt.content)
			d2 := DigestFromContent(tt.content)
			if d1 != d2 {
				t.Errorf("DigestFromContent() produced different digests for same content: %s vs %s", d1, d2)
			}
			if d1 == "" {
				t.Error("DigestFromContent() produced empty digest")
			}
		})
	}
}

func TestDigestFromContent_Different(t *testing.T) {
	if DigestFromContent("row1") == DigestFromContent("row2") {
		t.Error("DigestFromContent() produced same digest for different content")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	rec := Record{
		"GeneSymbol": String("BRCA1"),
		"GeneID":     Int(672),
		"PubMedIDs":  Ints(20301425),
		"Authors":    Strings("Smith J", "Jones K"),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["GeneSymbol"] != "BRCA1" {
		t.Errorf("GeneSymbol = %v, want BRCA1", decoded["GeneSymbol"])
	}
	if decoded["GeneID"] != float64(672) {
		t.Errorf("GeneID = %v, want 672", decoded["GeneID"])
	}
}

func TestRecordEqual(t *testing.T) {
	a := Record{"GeneSymbol": String("TP53"), "GeneID": Int(7157)}
	b := Record{"GeneSymbol": String("TP53"), "GeneID": Int(7157)}
	c := Record{"GeneSymbol": String("TP53"), "GeneID": Int(1)}

	if !a.Equal(b) {
		t.Error("identical records compare unequal")
	}
	if a.Equal(c) {
		t.Error("different records compare equal")
	}
	if a.Equal(Record{"GeneSymbol": String("TP53")}) {
		t.Error("records with different column sets compare equal")
	}
}
