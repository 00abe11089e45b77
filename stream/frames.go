package stream

import (
	"fmt"
	"io"
	"iter"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/format"
	"github.com/afoxland/cstob/frame"
	"github.com/afoxland/cstob/internal/pool"
)

// advance reads and decodes exactly one frame, appending it to r.pending.
// It returns ok=false when the stream ended cleanly at a frame boundary.
// A mid-frame short read is recorded as an errs.KindTruncatedFrame
// warning, unless it occurs before any complete frame has been decoded,
// in which case it is returned as a fatal error.
func (r *Reader) advance() (ok bool, err error) {
	headerBB := pool.GetFrameBuffer()
	headerBB.Grow(r.handler.HeaderSize())
	headerBB.SetLength(r.handler.HeaderSize())
	n, readErr := io.ReadFull(r.rd, headerBB.Bytes())
	if n == 0 && readErr != nil {
		pool.PutFrameBuffer(headerBB)
		return false, nil
	}
	if readErr != nil {
		pool.PutFrameBuffer(headerBB)
		return r.truncated(r.handler.HeaderSize(), n)
	}

	// ParseHeader copies whatever it needs into hdr; the buffer can go
	// back to the pool immediately.
	hdr, err := r.handler.ParseHeader(headerBB.Bytes())
	pool.PutFrameBuffer(headerBB)
	if err != nil {
		return false, err
	}

	if r.framesSeen == 0 {
		r.referenceClock = hdr.Clock
	} else {
		r.referenceClock = r.referenceClock.Add(r.Derived.FrameDuration)
		r.checkClockDrift(hdr.Clock)
	}
	r.lastRefStart = r.referenceClock

	dataBB := pool.GetFrameBuffer()
	dataBB.Grow(r.Derived.FrameDataSize)
	dataBB.SetLength(r.Derived.FrameDataSize)
	n, readErr = io.ReadFull(r.rd, dataBB.Bytes())
	if readErr != nil {
		pool.PutFrameBuffer(dataBB)
		return r.truncated(r.Derived.FrameDataSize, n)
	}

	// Decode copies every value out into freshly allocated column
	// arrays, so the raw buffer is free to return to the pool as soon
	// as it returns.
	cols, err := r.dec.Decode(dataBB.Bytes())
	pool.PutFrameBuffer(dataBB)
	if err != nil {
		return false, err
	}

	footerBB := pool.GetFrameBuffer()
	footerBB.Grow(r.handler.FooterSize())
	footerBB.SetLength(r.handler.FooterSize())
	n, readErr = io.ReadFull(r.rd, footerBB.Bytes())
	if readErr != nil {
		pool.PutFrameBuffer(footerBB)
		// A short footer leaves the frame incomplete; its rows are
		// discarded like any other partial frame.
		return r.truncated(r.handler.FooterSize(), n)
	}
	ferr := r.handler.ParseFooter(footerBB.Bytes())
	pool.PutFrameBuffer(footerBB)
	if ferr != nil {
		return false, ferr
	}

	r.appendFrame(hdr, cols)
	r.framesSeen++

	return true, nil
}

func (r *Reader) truncated(want, got int) (bool, error) {
	if r.framesSeen == 0 && len(r.pending) == 0 {
		return false, fmt.Errorf("%w: no complete frame decoded (want %d bytes, got %d)", errs.ErrTruncatedFrame, want, got)
	}
	r.warn(errs.NewTruncatedFrameWarning(r.framesSeen, want, got))

	return false, nil
}

func (r *Reader) checkClockDrift(reported time.Time) {
	if !r.policy.ClockDriftEnabled || r.framesSeen == 0 {
		return
	}

	expected := float64(r.Derived.FrameDuration) * float64(r.framesSeen) * r.policy.ClockDriftThreshold
	diff := math.Abs(float64(reported.Sub(r.lastRefStart)))
	if diff > expected {
		r.warn(errs.NewClockDriftWarning(reported.UnixNano(), r.lastRefStart.UnixNano(), int64(expected)))
		r.referenceClock = reported
		r.lastRefStart = reported
	}
}

func (r *Reader) warn(w errs.Warning) {
	r.warnings = append(r.warnings, w)
}

func (r *Reader) appendFrame(hdr format.Header, cols frame.Columns) {
	nrows := r.Derived.FrameNRows
	timestamps := make([]time.Time, nrows)
	for k := 0; k < nrows; k++ {
		timestamps[k] = r.referenceClock.Add(time.Duration(k) * r.Derived.SampleInterval)
	}

	var record []uint32
	if hdr.Recnum != nil {
		record = make([]uint32, nrows)
		for k := 0; k < nrows; k++ {
			record[k] = *hdr.Recnum + uint32(k)
		}
	}

	r.pending = append(r.pending, frameRecord{timestamps: timestamps, record: record, columns: cols})
	r.pendingRows += nrows
}

type rowRef struct {
	ts  time.Time
	src int
	idx int
}

// drain concatenates and sorts r.pending by TIMESTAMP, returning exactly
// n rows (or all of them if n <= 0 or n >= pendingRows) as a Table and
// leaving the remainder as the new pending accumulator.
func (r *Reader) drain(n int) Table {
	total := r.pendingRows
	if n <= 0 || n > total {
		n = total
	}

	rows := make([]rowRef, 0, total)
	for si, fr := range r.pending {
		for i := range fr.timestamps {
			rows = append(rows, rowRef{ts: fr.timestamps[i], src: si, idx: i})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	emit := rows[:n]
	rest := rows[n:]

	out := Table{
		Columns:   make(map[string]any, len(r.Metadata.FieldNames)),
		Timestamp: make([]time.Time, len(emit)),
	}
	if r.hasRecord {
		out.Record = make([]uint32, len(emit))
	}

	builders := make(map[string]reflect.Value, len(r.Metadata.FieldNames))
	for _, name := range r.Metadata.FieldNames {
		elemType := reflect.TypeOf(r.pending[0].columns[name]).Elem()
		builders[name] = reflect.MakeSlice(reflect.SliceOf(elemType), len(emit), len(emit))
	}

	for i, rw := range emit {
		out.Timestamp[i] = rw.ts
		fr := r.pending[rw.src]
		if out.Record != nil {
			out.Record[i] = fr.record[rw.idx]
		}
		for _, name := range r.Metadata.FieldNames {
			src := reflect.ValueOf(fr.columns[name])
			builders[name].Index(i).Set(src.Index(rw.idx))
		}
	}
	for name, built := range builders {
		out.Columns[name] = built.Interface()
	}

	if len(rest) == 0 {
		r.pending = nil
		r.pendingRows = 0
		return out
	}

	remainingBySource := make(map[int][]int, len(r.pending))
	for _, rw := range rest {
		remainingBySource[rw.src] = append(remainingBySource[rw.src], rw.idx)
	}

	newPending := make([]frameRecord, 0, len(remainingBySource))
	for si, fr := range r.pending {
		idxs, ok := remainingBySource[si]
		if !ok {
			continue
		}
		newPending = append(newPending, subsetFrame(fr, idxs))
	}
	r.pending = newPending
	r.pendingRows = len(rest)

	return out
}

// subsetFrame builds a new frameRecord holding only the rows at idxs,
// preserving their order, so a partially-drained frame can be retained
// as part of the next accumulator.
func subsetFrame(fr frameRecord, idxs []int) frameRecord {
	out := frameRecord{
		timestamps: make([]time.Time, len(idxs)),
		columns:    make(frame.Columns, len(fr.columns)),
	}
	if fr.record != nil {
		out.record = make([]uint32, len(idxs))
	}

	for i, idx := range idxs {
		out.timestamps[i] = fr.timestamps[idx]
		if fr.record != nil {
			out.record[i] = fr.record[idx]
		}
	}

	for name, col := range fr.columns {
		src := reflect.ValueOf(col)
		elemType := src.Type().Elem()
		dst := reflect.MakeSlice(reflect.SliceOf(elemType), len(idxs), len(idxs))
		for i, idx := range idxs {
			dst.Index(i).Set(src.Index(idx))
		}
		out.columns[name] = dst.Interface()
	}

	return out
}

// Chunks decodes frames lazily, emitting a Table every time chunksize
// rows have accumulated, and a final, possibly shorter, Table at
// end-of-stream. A non-positive chunksize emits the whole file as one
// Table, equivalent to DecodeWhole.
func (r *Reader) Chunks(chunksize int) iter.Seq2[Table, error] {
	return func(yield func(Table, error) bool) {
		if r.isTOA5 {
			yield(Table{}, fmt.Errorf("%w: TOA5 is decoded via package toa5", errs.ErrUnsupportedFormat))
			return
		}

		for {
			ok, err := r.advance()
			if err != nil {
				yield(Table{}, err)
				return
			}
			if !ok {
				break
			}
			if chunksize > 0 {
				for r.pendingRows >= chunksize {
					if !yield(r.drain(chunksize), nil) {
						return
					}
				}
			}
		}

		if r.pendingRows > 0 {
			yield(r.drain(r.pendingRows), nil)
		}
	}
}

// DecodeWhole decodes the entire remaining stream into a single Table.
func (r *Reader) DecodeWhole() (Table, error) {
	if r.isTOA5 {
		return Table{}, fmt.Errorf("%w: TOA5 is decoded via package toa5", errs.ErrUnsupportedFormat)
	}

	var out Table
	for table, err := range r.Chunks(0) {
		if err != nil {
			return Table{}, err
		}
		out = table
	}

	return out, nil
}
