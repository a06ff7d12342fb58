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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/genie"
	"github.com/poiesic/genie/config"
	"github.com/poiesic/genie/parser"
	"github.com/poiesic/genie/pipeline"
	"github.com/urfave/cli/v2"
)

// cfg is loaded in the Before hook and provides defaults for flags
// and arguments the user left unset.
var cfg = config.Default()

func main() {
	app := &cli.App{
		Name:  "genie",
		Usage: "Biomedical data ingestion and query system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Convert a directory of compressed record-set archives into compressed record files",
				ArgsUsage: "<input-dir> <output-dir> [workers]",
				Action:    ingestCommand,
			},
			{
				Name:      "save",
				Usage:     "Parse a source data file and save it through the validation gate",
				ArgsUsage: "<file>",
				Action:    saveCommand,
				Flags: []cli.Flag{
					dbFlag(),
					sourceFlag(),
				},
			},
			{
				Name:   "query",
				Usage:  "Query stored records and print them as line-delimited JSON",
				Action: queryCommand,
				Flags: []cli.Flag{
					dbFlag(),
					sourceFlag(),
					&cli.StringFlag{
						Name:  "expr",
						Usage: "Filter expression of the form column=value (empty returns all records)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Number of records fetched per chunk",
					},
				},
			},
			{
				Name:   "purge",
				Usage:  "Delete all records of a source's table",
				Action: purgeCommand,
				Flags: []cli.Flag{
					dbFlag(),
					sourceFlag(),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory (default from config)",
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "source",
		Usage: "Data source name (" + strings.Join(parser.Sources(), ", ") + ")",
		Value: parser.CtdSource,
	}
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("expected arguments: <input-dir> <output-dir> [workers]")
	}
	inDir := c.Args().Get(0)
	outDir := c.Args().Get(1)
	if err := requireDir(inDir, "input data directory"); err != nil {
		return err
	}
	if err := requireDir(outDir, "output data directory"); err != nil {
		return err
	}

	workers := cfg.Workers
	if c.NArg() > 2 {
		n, err := strconv.Atoi(c.Args().Get(2))
		if err != nil {
			slog.Warn("worker count is not a valid integer, defaulting to 1",
				"arg", c.Args().Get(2))
			n = pipeline.MinWorkers
		}
		workers = n
	}

	p, err := pipeline.NewPipeline(parser.NewPubmedParser(), pipeline.WithWorkers(workers))
	if err != nil {
		return err
	}
	stats, err := p.Run(context.Background(), inDir, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Processed %d files (%d succeeded, %d failed) in %s\n",
		stats.Processed, stats.Succeeded, stats.Failed, stats.Elapsed)
	return nil
}

func saveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected argument: <file>")
	}
	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	d := db.DAO(c.String("source"))
	if d == nil {
		return fmt.Errorf("unknown source %q", c.String("source"))
	}

	p, err := parser.New(c.String("source"))
	if err != nil {
		return err
	}
	batch, err := p.Parse(data, parser.DataDefault)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to persist")
		return nil
	}
	if err := d.Save(context.Background(), batch); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %d records to table %s\n", len(batch), d.Tablename())
	return nil
}

func queryCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	d := db.DAO(c.String("source"))
	if d == nil {
		return fmt.Errorf("unknown source %q", c.String("source"))
	}

	chunkSize := c.Int("chunk-size")
	if chunkSize < 1 {
		chunkSize = cfg.ChunkSize
	}

	ctx := context.Background()
	cur, err := d.Query(ctx, c.String("expr"), chunkSize)
	if err != nil {
		return err
	}
	for cur.Next(ctx) {
		if err := parser.WriteJSONL(os.Stdout, cur.Chunk()); err != nil {
			return err
		}
	}
	return cur.Err()
}

func purgeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	d := db.DAO(c.String("source"))
	if d == nil {
		return fmt.Errorf("unknown source %q", c.String("source"))
	}
	return d.PurgeRecords(context.Background())
}

func openDatabase(c *cli.Context) (*genie.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	return genie.NewDatabase(dbPath)
}

func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not valid: %s", what, path)
	}
	return nil
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	loaded, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
