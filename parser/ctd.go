// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/genie/core"
)

// CtdSource is the registry name of the CTD gene-disease parser.
const CtdSource = "ctd"

func init() {
	Register(CtdSource, func() Parser { return NewCtdParser() })
}

// ctdSchema describes one CTD gene-disease association row.
// See http://ctdbase.org/ for the upstream column definitions.
var ctdSchema = core.NewSchema("ctd",
	core.Col("GeneSymbol", core.KindString),
	core.Col("GeneID", core.KindInt),
	core.Col("DiseaseName", core.KindString),
	core.PatternCol("DiseaseID", `^D(\d)+$`), // i.e. D000014
	core.Col("PubMedIDs", core.KindIntList),
)

// CtdParser parses Comparative Toxicogenomics Database gene-disease
// association tables. The native input is delimited text with a header
// row; the id-list column uses '|' separators.
type CtdParser struct {
	validator
}

// NewCtdParser constructs a CTD parser bound to the CTD schema.
func NewCtdParser() *CtdParser {
	return &CtdParser{validator{schema: ctdSchema}}
}

// Parse converts a delimited CTD table into a batch. All data kinds
// resolve to the delimited-text interpretation for this source. Each
// record receives a content-derived digest.
func (p *CtdParser) Parse(data []byte, kind DataKind) (core.Batch, error) {
	switch kind {
	case DataDefault, DataDelimited, DataString:
	default:
		return nil, fmt.Errorf("%w: ctd: unsupported data kind %d", core.ErrParseFailed, kind)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: ctd: reading header: %v", core.ErrParseFailed, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range ctdSchema.Columns {
		if _, ok := idx[col.Name]; !ok {
			return nil, fmt.Errorf("%w: ctd: header is missing column %q", core.ErrParseFailed, col.Name)
		}
	}

	var batch core.Batch
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ctd: line %d: %v", core.ErrParseFailed, line, err)
		}

		geneID, err := strconv.ParseInt(row[idx["GeneID"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ctd: line %d: bad GeneID %q", core.ErrParseFailed, line, row[idx["GeneID"]])
		}
		pubmedIDs, err := parseIDList(row[idx["PubMedIDs"]])
		if err != nil {
			return nil, fmt.Errorf("%w: ctd: line %d: bad PubMedIDs %q", core.ErrParseFailed, line, row[idx["PubMedIDs"]])
		}

		rec := core.Record{
			"GeneSymbol":      core.String(row[idx["GeneSymbol"]]),
			"GeneID":          core.Int(geneID),
			"DiseaseName":     core.String(row[idx["DiseaseName"]]),
			"DiseaseID":       core.String(row[idx["DiseaseID"]]),
			"PubMedIDs":       core.Ints(pubmedIDs...),
			core.DigestColumn: core.String(core.DigestFromContent(strings.Join(row, "|"))),
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// parseIDList splits a '|'-separated list of integer ids. An empty
// field yields an empty list.
func parseIDList(field string) ([]int64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	parts := strings.Split(field, "|")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
