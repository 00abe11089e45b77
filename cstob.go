// Package cstob decodes Campbell Scientific datalogger binary and
// ASCII table files: TOB1, TOB2, TOB3, and TOA5.
//
// # Core Features
//
//   - TOB2/TOB3 binary frame decoding with vector and scalar
//     decode paths, chosen automatically by schema (TOB1 is recognised,
//     but decoding its frames fails with errs.ErrUnsupportedFormat)
//   - TOA5 textual CSV decoding with "-9999"/"NAN" sentinel handling
//   - Per-row timestamp and record-number reconstruction from frame
//     headers, with optional clock-drift correction
//   - Lazy, chunked iteration over large files via range-over-func
//   - Transparent gzip/zstd/s2/lz4 input unwrapping and optional
//     memory-mapped reads
//   - Concurrent multi-file batch decoding
//
// # Basic Usage
//
// Decoding a whole file:
//
//	import "github.com/afoxland/cstob"
//
//	rc, err := cstob.Open("CR1000_Table1.dat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rc.Close()
//
//	table, err := cstob.DecodeWhole(rc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Rows(), "rows")
//
// Decoding a large file in fixed-size chunks:
//
//	for table, err := range cstob.DecodeChunks(rc, 10_000) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(table)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// stream, toa5, source, and batch packages, covering the common cases.
// For advanced control over decode policy or input source, use those
// packages directly.
package cstob

import (
	"context"
	"io"
	"iter"

	"github.com/afoxland/cstob/batch"
	"github.com/afoxland/cstob/config"
	"github.com/afoxland/cstob/source"
	"github.com/afoxland/cstob/stream"
	"github.com/afoxland/cstob/toa5"
)

// Table is one decoded slab of rows: the declared data columns plus the
// synthesised TIMESTAMP column and, for TOB3 sources, RECORD.
type Table = stream.Table

// Option configures decode policy: NSEC millisecond truncation and
// clock-drift correction. See the config package for the available
// options.
type Option = config.Option

// Open opens name for decoding, transparently unwrapping a gzip, zstd,
// s2, or lz4 envelope if one is detected from the file's leading bytes.
func Open(name string) (io.ReadCloser, error) {
	return source.Open(name)
}

// OpenMmap memory-maps name instead of reading it into a buffer, useful
// for large files where the caller wants to avoid the extra copy. The
// returned Mapped must be closed to release the mapping.
func OpenMmap(name string) (*source.Mapped, error) {
	return source.OpenMmap(name)
}

// NewReader constructs a stream.Reader over rd, parsing the six-line
// ASCII header and preparing the frame decoder. TOA5 sources are
// accepted here too, but must be decoded with DecodeTOA5, not
// DecodeWhole or DecodeChunks.
func NewReader(rd io.Reader, opts ...Option) (*stream.Reader, error) {
	return stream.NewReader(rd, opts...)
}

// DecodeWhole decodes an entire TOB2/TOB3 file into a single Table. A
// TOB1 file fails with errs.ErrUnsupportedFormat. Use DecodeTOA5 for the
// textual TOA5 format.
func DecodeWhole(rd io.Reader, opts ...Option) (Table, error) {
	r, err := stream.NewReader(rd, opts...)
	if err != nil {
		return Table{}, err
	}

	return r.DecodeWhole()
}

// DecodeChunks decodes a TOB2/TOB3 file lazily, yielding a Table
// every time chunksize rows have accumulated and a final, possibly
// shorter, Table at end-of-stream. A non-positive chunksize yields the
// whole file as one Table, equivalent to DecodeWhole.
func DecodeChunks(rd io.Reader, chunksize int, opts ...Option) iter.Seq2[Table, error] {
	r, err := stream.NewReader(rd, opts...)
	if err != nil {
		return func(yield func(Table, error) bool) { yield(Table{}, err) }
	}

	return r.Chunks(chunksize)
}

// DecodeTOA5 decodes a textual TOA5 file.
func DecodeTOA5(rd io.Reader) (toa5.Table, error) {
	return toa5.Decode(rd)
}

// DecodeAll opens and decodes every path in paths concurrently, up to
// maxConcurrency at a time (0 means unbounded). A failure on one path
// does not abort the others; each path's outcome is reported
// independently, in input order.
func DecodeAll(ctx context.Context, paths []string, maxConcurrency int, opts ...Option) []batch.Result {
	return batch.DecodeWholeAll(ctx, paths, maxConcurrency, opts...)
}
