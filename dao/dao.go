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


package dao

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/genie/core"
	"github.com/poiesic/genie/parser"
	"github.com/poiesic/genie/storage"
)

// DAO is the only sanctioned write path into a repository. It is bound
// to exactly one repository and one parser for its lifetime, fixed at
// construction, and gates every save through schema validation.
type DAO struct {
	repo     storage.Repository
	parser   parser.Parser
	download DownloadFunc
	logger   *slog.Logger
}

// DownloadFunc fetches new upstream data for a source and pipes it
// through the DAO's Save gate.
type DownloadFunc func(ctx context.Context, d *DAO) error

// Option configures a DAO.
type Option func(*DAO)

// WithDownload equips the DAO with an upstream fetch capability.
// Variants without one fail Download with core.ErrNotImplemented.
func WithDownload(fn DownloadFunc) Option {
	return func(d *DAO) { d.download = fn }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *DAO) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// New creates a DAO bound to the given repository and parser.
func New(repo storage.Repository, p parser.Parser, opts ...Option) (*DAO, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if p == nil {
		return nil, ErrParserRequired
	}
	d := &DAO{
		repo:   repo,
		parser: p,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Save persists the batch if it conforms to the parser's schema.
// An invalid batch is rejected with core.ErrSchemaViolation before the
// repository is touched, so nothing is partially written.
func (d *DAO) Save(ctx context.Context, batch core.Batch) error {
	if err := d.parser.Schema().Validate(batch); err != nil {
		return err
	}
	return d.repo.Save(ctx, batch)
}

// Query returns a lazy cursor of batches matching expr (empty expr
// returns all records), each chunk at most chunkSize records. The
// sequence is finite; restart by calling Query again.
func (d *DAO) Query(ctx context.Context, expr string, chunkSize int) (storage.Cursor, error) {
	return d.repo.Query(ctx, expr, chunkSize)
}

// PurgeRecords deletes all records for this DAO's table. Idempotent.
func (d *DAO) PurgeRecords(ctx context.Context) error {
	d.logger.Info("purging records", "table", d.Tablename())
	return d.repo.DeleteAll(ctx)
}

// Download fetches new upstream data if this variant has an online
// source, otherwise fails with core.ErrNotImplemented. The error is a
// capability-absence signal, not a transient failure.
func (d *DAO) Download(ctx context.Context) error {
	if d.download == nil {
		return fmt.Errorf("%w: %s has no online source", core.ErrNotImplemented, d.Tablename())
	}
	return d.download(ctx, d)
}

// Tablename returns the bound repository's table identifier.
func (d *DAO) Tablename() string {
	return d.repo.Tablename()
}
