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
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/genie/core"
)

// PubmedSource is the registry name of the PubMed article-set parser.
const PubmedSource = "pubmed"

func init() {
	Register(PubmedSource, func() Parser { return NewPubmedParser() })
}

var pubmedSchema = core.NewSchema("pubmed",
	core.PatternCol("PMID", `^(\d)+$`),
	core.Col("Title", core.KindString),
	core.Col("Abstract", core.KindString),
	core.Col("Journal", core.KindString),
	core.Col("Authors", core.KindStringList),
)

// PubmedParser parses PubMed baseline article-set XML documents into
// article records. The native input is one PubmedArticleSet document.
type PubmedParser struct {
	validator
}

// NewPubmedParser constructs a PubMed parser bound to the article schema.
func NewPubmedParser() *PubmedParser {
	return &PubmedParser{validator{schema: pubmedSchema}}
}

// XML decoding shapes for the subset of the PubMed article set we keep.
type xmlArticleSet struct {
	XMLName  xml.Name     `xml:"PubmedArticleSet"`
	Articles []xmlArticle `xml:"PubmedArticle"`
}

type xmlArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Title string `xml:"Title"`
			} `xml:"Journal"`
			AuthorList struct {
				Authors []struct {
					LastName string `xml:"LastName"`
					ForeName string `xml:"ForeName"`
				} `xml:"Author"`
			} `xml:"AuthorList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

// Parse converts an article-set XML document into a batch. The
// delimited-text kind does not apply to this source.
func (p *PubmedParser) Parse(data []byte, kind DataKind) (core.Batch, error) {
	switch kind {
	case DataDefault, DataString:
	default:
		return nil, fmt.Errorf("%w: pubmed: unsupported data kind %d", core.ErrParseFailed, kind)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var set xmlArticleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: pubmed: %v", core.ErrParseFailed, err)
	}

	batch := make(core.Batch, 0, len(set.Articles))
	for _, a := range set.Articles {
		art := a.Citation.Article

		authors := make([]string, 0, len(art.AuthorList.Authors))
		for _, au := range art.AuthorList.Authors {
			name := strings.TrimSpace(au.ForeName + " " + au.LastName)
			if name != "" {
				authors = append(authors, name)
			}
		}
		abstract := strings.Join(art.Abstract.Text, " ")

		rec := core.Record{
			"PMID":            core.String(strings.TrimSpace(a.Citation.PMID)),
			"Title":           core.String(art.Title),
			"Abstract":        core.String(abstract),
			"Journal":         core.String(art.Journal.Title),
			"Authors":         core.Strings(authors...),
			core.DigestColumn: core.String(core.DigestFromContent(a.Citation.PMID + "|" + art.Title)),
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// ExtractFile parses a decompressed article-set XML file from disk.
func (p *PubmedParser) ExtractFile(path string) (core.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(data, DataDefault)
}

// WriteJSONL serializes a batch to line-delimited JSON, one record per
// line, in batch order.
func WriteJSONL(w io.Writer, batch core.Batch) error {
	enc := json.NewEncoder(w)
	for _, rec := range batch {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
