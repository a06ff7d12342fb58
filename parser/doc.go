// Package parser converts raw biomedical source data into validated
// record batches.
//
// Each data source registers a Parser variant carrying its own
// immutable schema:
//   - ctd: CTD gene-disease association tables (delimited text)
//   - pubmed: PubMed baseline article-set XML documents
//
// Variants are selected by source name through the package registry,
// so new sources plug in without modifying calling code. Validation is
// shared: every variant's IsValid is the schema validator bound to
// that variant's schema.
package parser
