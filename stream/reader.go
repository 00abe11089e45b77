// Package stream drives the top-level decode: parsing the six-line ASCII
// header, iterating binary frames, reconstructing per-row timestamps and
// record numbers, and emitting either a whole-file table or a sequence of
// fixed-row chunks.
package stream

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/afoxland/cstob/config"
	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/format"
	"github.com/afoxland/cstob/frame"
	"github.com/afoxland/cstob/registry"
	"github.com/afoxland/cstob/schema"
)

type state uint8

const (
	stateReadingHeader state = iota
	stateDecodingFrames
	stateDraining
	stateDone
)

// Table is one emitted slab of decoded rows: the declared columns plus
// the synthesised TIMESTAMP column and, for TOB3 sources, RECORD.
type Table struct {
	Columns   map[string]any
	Timestamp []time.Time
	Record    []uint32 // nil if the source format has no record numbers
}

// Rows reports the row count of the table, derived from Timestamp.
func (t Table) Rows() int { return len(t.Timestamp) }

// Reader is the StreamReader state machine. Construct with NewReader, then
// call either DecodeWhole or Chunks.
type Reader struct {
	rd     *bufio.Reader
	reg    *registry.Registry
	policy config.Policy

	Metadata schema.Metadata
	Derived  schema.Derived

	isTOA5    bool
	hasRecord bool
	handler   format.Handler
	dec       *frame.Decoder

	state state

	referenceClock time.Time
	lastRefStart   time.Time
	framesSeen     int

	pending     []frameRecord
	pendingRows int

	warnings []errs.Warning
}

type frameRecord struct {
	timestamps []time.Time
	record     []uint32
	columns    frame.Columns
}

// NewReader parses the six-line ASCII header from rd and prepares to
// decode frames. For a TOA5 source, header parsing stops after the first
// line (TOA5's header shape differs from the TOB formats and its data
// path is delegated to package toa5); DecodeWhole and Chunks on such a
// Reader return errs.ErrUnsupportedFormat.
func NewReader(rd io.Reader, opts ...config.Option) (*Reader, error) {
	policy, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		rd:     bufio.NewReader(rd),
		reg:    registry.New(),
		policy: policy,
		state:  stateReadingHeader,
	}
	r.reg.SetNSECTruncation(policy.TruncateNSECToMillis)

	line1, err := readHeaderLine(r.rd)
	if err != nil {
		return nil, err
	}
	if len(line1) < 8 {
		return nil, fmt.Errorf("%w: header line 1 has %d fields, want at least 8", errs.ErrMalformedHeader, len(line1))
	}

	fmtVal, ok := format.Parse(line1[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, line1[0])
	}

	r.Metadata.Fmt = fmtVal
	r.Metadata.Station = line1[1]
	r.Metadata.Model = line1[2]
	r.Metadata.SerialNumber = line1[3]
	r.Metadata.OSVersion = line1[4]
	r.Metadata.Program = line1[5]
	r.Metadata.Signature = line1[6]
	r.Metadata.Created = line1[7]
	r.Metadata.RawLines[0] = line1

	if fmtVal == format.TOA5 {
		r.isTOA5 = true
		return r, nil
	}

	if err := r.readRemainingHeaderLines(); err != nil {
		return nil, err
	}

	r.handler = format.HandlerFor(fmtVal, r.reg)
	r.hasRecord = fmtVal == format.TOB3

	derived, err := schema.Build(r.Metadata, r.reg)
	if err != nil {
		return nil, err
	}
	r.Derived = derived

	dec, err := frame.New(r.reg, r.Metadata, derived)
	if err != nil {
		return nil, err
	}
	r.dec = dec

	r.state = stateDecodingFrames

	return r, nil
}

func (r *Reader) readRemainingHeaderLines() error {
	line2, err := readHeaderLine(r.rd)
	if err != nil {
		return err
	}
	if len(line2) < 6 {
		return fmt.Errorf("%w: header line 2 has %d fields, want 6", errs.ErrMalformedHeader, len(line2))
	}
	r.Metadata.Table = line2[0]
	r.Metadata.Interval = line2[1]
	frameSize, err := strconv.Atoi(strings.TrimSpace(line2[2]))
	if err != nil {
		return fmt.Errorf("%w: frame_size %q: %v", errs.ErrMalformedHeader, line2[2], err)
	}
	r.Metadata.FrameSize = frameSize
	tableSize, err := strconv.Atoi(strings.TrimSpace(line2[3]))
	if err != nil {
		return fmt.Errorf("%w: intended_table_size %q: %v", errs.ErrMalformedHeader, line2[3], err)
	}
	r.Metadata.TableSize = tableSize
	r.Metadata.Validation = line2[4]
	r.Metadata.FrameTimeRes = line2[5]
	r.Metadata.RawLines[1] = line2

	fieldNames, err := readHeaderLine(r.rd)
	if err != nil {
		return err
	}
	r.Metadata.FieldNames = fieldNames
	r.Metadata.RawLines[2] = fieldNames

	units, err := readHeaderLine(r.rd)
	if err != nil {
		return err
	}
	r.Metadata.Units = units
	r.Metadata.RawLines[3] = units

	process, err := readHeaderLine(r.rd)
	if err != nil {
		return err
	}
	r.Metadata.Process = process
	r.Metadata.RawLines[4] = process

	dtypes, err := readHeaderLine(r.rd)
	if err != nil {
		return err
	}
	r.Metadata.Dtypes = dtypes
	r.Metadata.RawLines[5] = dtypes

	if len(fieldNames) != len(dtypes) {
		return fmt.Errorf("%w: %d field names but %d dtypes", errs.ErrMalformedHeader, len(fieldNames), len(dtypes))
	}

	return nil
}

// readHeaderLine reads one LF- or CRLF-terminated line and splits it as a
// comma-separated list of double-quoted fields.
func readHeaderLine(br *bufio.Reader) ([]string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}
	line = strings.TrimRight(line, "\r\n")

	cr := csv.NewReader(strings.NewReader(line))
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}

	return fields, nil
}

// Warnings returns the non-fatal diagnostics (truncated frames, clock
// drift corrections) accumulated so far.
func (r *Reader) Warnings() []errs.Warning {
	return r.warnings
}
