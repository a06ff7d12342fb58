package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/genie/core"
	"github.com/poiesic/genie/parser"
)

const (
	// ArchiveSuffix is the naming convention for compressed record-set
	// archives in the input directory.
	ArchiveSuffix = ".xml.gz"

	// outputSuffix is the interchange format of serialized records.
	// The final on-disk name is <name>.jsonl.gz.
	outputSuffix = ".jsonl"

	// MinWorkers and MaxWorkers bound the worker pool size.
	MinWorkers = 1
	MaxWorkers = 16
)

// Extractor parses one decompressed record-set file into records.
// Parser variants with whole-file support satisfy it.
type Extractor interface {
	ExtractFile(path string) (core.Batch, error)
}

// Stats aggregates the result of one pipeline run.
type Stats struct {
	Discovered int           // archive files selected from the input directory
	Processed  int           // files attempted, successful or not
	Succeeded  int           // compressed output files produced
	Failed     int           // files whose processing failed
	Elapsed    time.Duration // wall-clock time for the whole run
}

// Pipeline converts a directory of compressed archive files into a
// directory of compressed record files using a bounded worker pool.
// Each file is processed in isolation: one corrupt archive never
// aborts sibling work.
type Pipeline struct {
	extractor Extractor
	workers   int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers requests a worker pool size. Values outside
// [MinWorkers, MaxWorkers] are replaced with MinWorkers and a warning
// is logged at construction.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPipeline creates a bulk ingestion pipeline around a source
// extractor.
func NewPipeline(extractor Extractor, opts ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	p := &Pipeline{
		extractor: extractor,
		workers:   MinWorkers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < MinWorkers || p.workers > MaxWorkers {
		p.logger.Warn("invalid worker count, defaulting to 1",
			"requested", p.workers, "min", MinWorkers, "max", MaxWorkers)
		p.workers = MinWorkers
	}
	return p, nil
}

// IsArchiveFile reports whether a file name follows the archive naming
// convention.
func IsArchiveFile(name string) bool {
	return strings.HasSuffix(name, ArchiveSuffix)
}

// Run discovers archive files in inDir and processes each into a
// compressed record file in outDir. It blocks until all dispatched
// work completes. Per-file failures are logged and counted but do not
// fail the run; an empty discovery result is a no-op.
func (p *Pipeline) Run(ctx context.Context, inDir, outDir string) (Stats, error) {
	start := time.Now()

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return Stats{}, err
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsArchiveFile(entry.Name()) {
			files = append(files, filepath.Join(inDir, entry.Name()))
		}
	}
	p.logger.Info("found record-set archives", "count", len(files), "dir", inDir)

	stats := Stats{Discovered: len(files)}
	if len(files) == 0 {
		stats.Elapsed = time.Since(start)
		return stats, nil
	}
	// No cancellation once work is dispatched; the dispatcher joins on
	// all submitted files. TODO: check ctx between files when a
	// cancellation path is needed.
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	pool, err := ants.NewPool(p.workers, ants.WithPanicHandler(func(v any) {
		p.logger.Error("worker panic", "panic", v)
	}))
	if err != nil {
		return stats, err
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)
	for _, file := range files {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := p.processFile(file, outDir); err != nil {
				p.logger.Error("archive processing failed", "file", file, "err", err)
				return
			}
			succeeded.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("submitting work failed", "file", file, "err", submitErr)
		}
	}
	wg.Wait()

	stats.Processed = len(files)
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = stats.Processed - stats.Succeeded
	stats.Elapsed = time.Since(start)
	p.logger.Info("bulk ingestion complete",
		"workers", p.workers,
		"files", stats.Processed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"elapsed", stats.Elapsed)
	return stats, nil
}

// processFile runs the per-file conversion. It is re-entrant across
// files and touches no state shared with sibling work items.
func (p *Pipeline) processFile(archivePath, outDir string) error {
	decompressedPath := strings.TrimSuffix(archivePath, ".gz")
	if _, err := os.Stat(decompressedPath); os.IsNotExist(err) {
		p.logger.Info("extracting archive", "archive", archivePath, "to", decompressedPath)
		if err := DecompressFile(archivePath, decompressedPath); err != nil {
			return fmt.Errorf("decompressing %s: %w", archivePath, err)
		}
	}
	// The decompressed artifact must not outlive this file's
	// processing, parse success or not.
	defer os.Remove(decompressedPath)

	p.logger.Info("parsing record set", "file", decompressedPath)
	batch, err := p.extractor.ExtractFile(decompressedPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", decompressedPath, err)
	}

	name := filepath.Base(archivePath)
	outPath := filepath.Join(outDir, strings.TrimSuffix(name, ArchiveSuffix)+outputSuffix)
	if err := writeJSONLFile(outPath, batch); err != nil {
		return fmt.Errorf("serializing %s: %w", outPath, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return err
	}
	compressedPath := outPath + ".gz"
	compressed, err := Compress(data)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", outPath, err)
	}
	if err := os.WriteFile(compressedPath, compressed, 0o644); err != nil {
		return err
	}
	if err := os.Remove(outPath); err != nil {
		return err
	}

	p.logger.Info("file processed",
		"pid", os.Getpid(),
		"output", compressedPath,
		"records", len(batch))
	return nil
}

func writeJSONLFile(path string, batch core.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := parser.WriteJSONL(f, batch); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
