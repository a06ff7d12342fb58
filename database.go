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


// Package genie ingests bulk biomedical data, validates it against
// per-source schemas, and makes it queryable. The Database facade
// opens the storage backend once and hands out a ready-made data
// access object per data source.
package genie

import (
	"log/slog"

	"github.com/poiesic/genie/dao"
	"github.com/poiesic/genie/parser"
	"github.com/poiesic/genie/storage/badger"
)

// Database bundles the storage backend with one DAO per data source.
type Database struct {
	backend *badger.Backend
	daos    map[string]*dao.DAO
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(db *Database) {
		if logger == nil {
			logger = slog.Default()
		}
		db.logger = logger
	}
}

// NewDatabase opens (or creates) a database at filePath and builds a
// DAO for every registered parser source, each bound to its own table.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	db := &Database{
		daos:   make(map[string]*dao.DAO),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	db.backend = backend

	for _, source := range parser.Sources() {
		p, err := parser.New(source)
		if err != nil {
			backend.Close()
			return nil, err
		}
		repo, err := badger.NewTableRepository(backend, source)
		if err != nil {
			backend.Close()
			return nil, err
		}
		d, err := dao.New(repo, p, dao.WithLogger(db.logger))
		if err != nil {
			backend.Close()
			return nil, err
		}
		db.daos[source] = d
	}

	return db, nil
}

// DAO returns the data access object for a source, or nil if the
// source is not registered.
func (db *Database) DAO(source string) *dao.DAO {
	return db.daos[source]
}

// CtdDAO returns the CTD gene-disease association DAO.
func (db *Database) CtdDAO() *dao.DAO {
	return db.daos[parser.CtdSource]
}

// PubmedDAO returns the PubMed publication DAO.
func (db *Database) PubmedDAO() *dao.DAO {
	return db.daos[parser.PubmedSource]
}

// Close closes the storage backend.
func (db *Database) Close() error {
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
