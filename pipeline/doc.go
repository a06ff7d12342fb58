// Package pipeline provides concurrent bulk ingestion of compressed
// record-set archives.
//
// A Pipeline discovers archive files (*.xml.gz) in an input directory
// and converts each into a compressed line-delimited record file
// (*.jsonl.gz) in an output directory:
//
//	decompress -> parse -> serialize -> recompress -> clean up
//
// Work is distributed across a bounded worker pool. Each file is an
// independent work item: failures are logged and counted without
// affecting sibling files, and the decompressed intermediate is always
// removed, whether or not parsing succeeded. Only the original archive
// and the final compressed output survive a file's processing.
package pipeline
