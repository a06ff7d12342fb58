package core

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return NewSchema("assoc",
		Col("GeneSymbol", KindString),
		Col("GeneID", KindInt),
		Col("DiseaseName", KindString),
		PatternCol("DiseaseID", `^D(\d)+$`),
		Col("PubMedIDs", KindIntList),
	)
}

func validRecord() Record {
	return Record{
		"GeneSymbol":  String("TP53"),
		"GeneID":      Int(7157),
		"DiseaseName": String("Li-Fraumeni Syndrome"),
		"DiseaseID":   String("D016864"),
		"PubMedIDs":   Ints(20301488, 21305319),
	}
}

func TestSchemaValidate(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		name    string
		mutate  func(Record) Batch
		wantErr bool
	}{
		{
			name:    "conforming record",
			mutate:  func(r Record) Batch { return Batch{r} },
			wantErr: false,
		},
		{
			name: "missing column",
			mutate: func(r Record) Batch {
				delete(r, "GeneID")
				return Batch{r}
			},
			wantErr: true,
		},
		{
			name: "wrong typed column",
			mutate: func(r Record) Batch {
				r["GeneID"] = String("7157")
				return Batch{r}
			},
			wantErr: true,
		},
		{
			name: "pattern mismatch",
			mutate: func(r Record) Batch {
				r["DiseaseID"] = String("X016864")
				return Batch{r}
			},
			wantErr: true,
		},
		{
			name: "pattern mismatch on empty value",
			mutate: func(r Record) Batch {
				r["DiseaseID"] = String("")
				return Batch{r}
			},
			wantErr: true,
		},
		{
			name: "extra columns are allowed",
			mutate: func(r Record) Batch {
				r[DigestColumn] = String("abc123")
				return Batch{r}
			},
			wantErr: false,
		},
		{
			name: "one bad record rejects the whole batch",
			mutate: func(r Record) Batch {
				bad := validRecord()
				bad["DiseaseID"] = String("bogus")
				return Batch{r, bad}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := tt.mutate(validRecord())
			err := schema.Validate(batch)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() returned nil, want error")
				}
				if !errors.Is(err, ErrSchemaViolation) {
					t.Errorf("Validate() error = %v, want ErrSchemaViolation", err)
				}
				if schema.Valid(batch) {
					t.Error("Valid() = true, want false")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if !schema.Valid(batch) {
				t.Error("Valid() = false, want true")
			}
		})
	}
}

func TestSchemaValidate_NilBatch(t *testing.T) {
	schema := testSchema()
	if schema.Valid(nil) {
		t.Error("Valid(nil) = true, want false")
	}
	if !errors.Is(schema.Validate(nil), ErrSchemaViolation) {
		t.Error("Validate(nil) should return ErrSchemaViolation")
	}
}

func TestSchemaValidate_EmptyBatch(t *testing.T) {
	schema := testSchema()
	if !schema.Valid(Batch{}) {
		t.Error("Valid(empty) = false, want true")
	}
}
