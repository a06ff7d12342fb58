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


// Package config holds runtime configuration for the genie CLI,
// loadable from a TOML file and overlaid on defaults.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/genie/pipeline"
	"github.com/poiesic/genie/storage"
)

// Config holds the tunable settings of a genie run.
type Config struct {
	// DBPath is the BadgerDB database directory.
	DBPath string `toml:"db_path"`

	// Workers is the default worker count for bulk ingestion.
	// Must lie within [pipeline.MinWorkers, pipeline.MaxWorkers].
	Workers int `toml:"workers"`

	// ChunkSize is the default number of records per query chunk.
	ChunkSize int `toml:"chunk_size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DBPath:    "genie-db",
		Workers:   pipeline.MinWorkers,
		ChunkSize: storage.DefaultChunkSize,
	}
}

// Load reads a TOML configuration file and overlays it on the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.Workers < pipeline.MinWorkers || c.Workers > pipeline.MaxWorkers {
		return fmt.Errorf("workers must be in [%d, %d], got %d",
			pipeline.MinWorkers, pipeline.MaxWorkers, c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	return nil
}
