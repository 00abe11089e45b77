// Package schema holds the metadata parsed from a Campbell Scientific
// file's six ASCII header lines, and the values derived from it once: row
// stride, frame geometry, sample interval, and vectorisability.
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/format"
	"github.com/afoxland/cstob/internal/fingerprint"
	"github.com/afoxland/cstob/registry"
)

// Metadata is the literal content of the six ASCII header lines.
type Metadata struct {
	Fmt            format.Format
	Station        string
	Model          string
	SerialNumber   string
	OSVersion      string
	Program        string
	Signature      string
	Created        string
	Table          string
	Interval       string
	FrameSize      int
	TableSize      int
	Validation     string
	FrameTimeRes   string
	FieldNames     []string
	Units          []string
	Process        []string
	Dtypes         []string

	// RawLines preserves the six header lines, split into unquoted
	// fields, for callers that want every field as read (e.g.
	// round-tripping it into an output file). For TOA5 only line 1 is
	// filled.
	RawLines [6][]string
}

// Derived holds the values computed once from Metadata and the registry,
// used by the frame decoder and stream reader on every frame.
type Derived struct {
	Strides        []int
	RowStride      int
	FrameDataSize  int
	FrameNRows     int
	NFrames        int
	SampleInterval time.Duration
	FrameDuration  time.Duration
	Vectorisable   bool
}

// Build resolves Metadata.Dtypes against r and computes Derived, validating
// invariant 1 (frame_data_size is a non-negative multiple of row_stride).
func Build(md Metadata, r *registry.Registry) (Derived, error) {
	var d Derived

	d.Strides = make([]int, len(md.Dtypes))
	d.Vectorisable = true

	for i, name := range md.Dtypes {
		width, err := r.Width(name)
		if err != nil {
			return Derived{}, err
		}
		d.Strides[i] = width
		d.RowStride += width

		if !r.IsNative(name) {
			d.Vectorisable = false
		}
	}

	handler := format.HandlerFor(md.Fmt, r)
	d.FrameDataSize = md.FrameSize - handler.HeaderSize() - handler.FooterSize()

	if d.FrameDataSize < 0 || (d.RowStride > 0 && d.FrameDataSize%d.RowStride != 0) {
		return Derived{}, fmt.Errorf("%w: frame_data_size=%d row_stride=%d", errs.ErrSchemaMismatch, d.FrameDataSize, d.RowStride)
	}

	if d.RowStride > 0 {
		d.FrameNRows = d.FrameDataSize / d.RowStride
	}

	if d.FrameNRows > 0 {
		d.NFrames = md.TableSize / d.FrameNRows
	}

	interval, err := ParseInterval(md.Interval)
	if err != nil {
		return Derived{}, err
	}
	d.SampleInterval = interval
	d.FrameDuration = time.Duration(d.FrameNRows) * interval

	return d, nil
}

// ParseInterval parses the two-token "<integer> <unit>" interval string,
// recognising "MSEC" (milliseconds) and "MIN" (minutes).
func ParseInterval(s string) (time.Duration, error) {
	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d %s", &n, &unit); err != nil {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedInterval, s)
	}

	switch unit {
	case "MSEC":
		return time.Duration(n) * time.Millisecond, nil
	case "MIN":
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedInterval, unit)
	}
}

// Fingerprint returns a stable hash of the column schema (names and
// dtypes), useful for callers batching many files and wanting to detect
// a schema change without a full struct comparison.
func (md Metadata) Fingerprint() uint64 {
	var b strings.Builder
	for i, name := range md.FieldNames {
		b.WriteString(name)
		b.WriteByte(0)
		if i < len(md.Dtypes) {
			b.WriteString(md.Dtypes[i])
		}
		b.WriteByte(0)
	}

	return fingerprint.ID(b.String())
}
