// Package dao provides data access objects for genie's data sources.
//
// A DAO composes one storage repository with one source parser and is
// responsible for storing and delivering that source's records:
// CTD gene-disease associations, PubMed publications, and so on. All
// writes pass through schema validation; an invalid batch never
// reaches the repository.
package dao
