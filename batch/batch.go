// Package batch decodes multiple independent Campbell Scientific files
// concurrently. Each file gets its own stream.Reader; nothing is shared
// mutably between them, matching the single-consumer-per-decoder model
// the core design requires.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/afoxland/cstob/config"
	"github.com/afoxland/cstob/source"
	"github.com/afoxland/cstob/stream"
)

// Result pairs one input path with its decoded table, or the error that
// aborted its decode.
type Result struct {
	Path  string
	Table stream.Table
	Err   error

	// Fingerprint is the decoded file's schema.Metadata.Fingerprint, valid
	// only when Err is nil.
	Fingerprint uint64

	// SchemaChanged reports whether Fingerprint differs from the previous
	// successfully-decoded path's Fingerprint, in paths order. False for
	// the first successful result and for any result with a non-nil Err.
	SchemaChanged bool
}

// DecodeWholeAll opens and decodes every path in paths concurrently, up
// to maxConcurrency at a time (0 means errgroup's default of unbounded).
// A failure on one path does not cancel the others; each path's outcome
// is reported independently in the returned slice, in input order.
//
// After every file has decoded, DecodeWholeAll walks the results in path
// order and sets SchemaChanged on each successful result by comparing its
// Fingerprint against the previous successful result's — a cheap signal
// for callers batching many files from possibly-heterogeneous loggers,
// without a field-by-field schema comparison.
func DecodeWholeAll(ctx context.Context, paths []string, maxConcurrency int, opts ...config.Option) []Result {
	results := make([]Result, len(paths))

	g, _ := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = decodeOne(path, opts...)
			return nil
		})
	}

	_ = g.Wait() // per-path errors are carried in Result, never propagated here

	markSchemaChanges(results)

	return results
}

func decodeOne(path string, opts ...config.Option) Result {
	rc, err := source.Open(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	defer rc.Close()

	r, err := stream.NewReader(rc, opts...)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	table, err := r.DecodeWhole()
	if err != nil {
		return Result{Path: path, Err: err}
	}

	return Result{Path: path, Table: table, Fingerprint: r.Metadata.Fingerprint()}
}

// markSchemaChanges sets SchemaChanged on each successful result in
// results, sequentially, so the comparison has no data race with the
// concurrent decodes above it.
func markSchemaChanges(results []Result) {
	var prev uint64
	havePrev := false

	for i := range results {
		if results[i].Err != nil {
			continue
		}
		results[i].SchemaChanged = havePrev && results[i].Fingerprint != prev
		prev = results[i].Fingerprint
		havePrev = true
	}
}
