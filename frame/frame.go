// Package frame decodes one frame's data region into typed column
// arrays, choosing between a vector path (all-native schemas) and a
// scalar, element-wise path (any proprietary dtype present) per
// registry.Registry.IsNative.
package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/registry"
	"github.com/afoxland/cstob/schema"
)

// Columns maps a column name to its decoded array. The concrete element
// type of each entry follows registry.Kind: []float32, []float64,
// []int32, []uint32, []uint16, []uint8, []bool, []string, or []time.Time.
type Columns map[string]any

// Decoder decodes successive frames of one file against a fixed schema.
// A Decoder is constructed once per file and reused across frames.
type Decoder struct {
	reg     *registry.Registry
	fields  []string
	descs   []registry.Descriptor
	offsets []int
	derived schema.Derived
}

// New builds a Decoder from a resolved schema. It resolves every column
// dtype up front so later Decode calls never fail on an unknown dtype.
func New(reg *registry.Registry, md schema.Metadata, derived schema.Derived) (*Decoder, error) {
	descs := make([]registry.Descriptor, len(md.Dtypes))
	offsets := make([]int, len(md.Dtypes))
	offset := 0
	for i, name := range md.Dtypes {
		d, err := reg.Resolve(name)
		if err != nil {
			return nil, err
		}
		descs[i] = d
		offsets[i] = offset
		offset += d.Width
	}

	return &Decoder{
		reg:     reg,
		fields:  md.FieldNames,
		descs:   descs,
		offsets: offsets,
		derived: derived,
	}, nil
}

// Decode decodes exactly len(data) == derived.FrameDataSize bytes into
// Columns, each of length derived.FrameNRows.
//
// Decode returns errs.ErrTruncatedFrame if data is shorter than
// FrameDataSize; the caller is expected to have already distinguished a
// clean end-of-stream (zero bytes at a frame boundary) from a
// mid-frame truncation before calling Decode.
func (dec *Decoder) Decode(data []byte) (Columns, error) {
	want := dec.derived.FrameDataSize
	if len(data) != want {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", errs.ErrTruncatedFrame, want, len(data))
	}

	if dec.derived.Vectorisable {
		return dec.decodeVector(data)
	}

	return dec.decodeScalar(data)
}

// decodeVector decodes a row-major, fixed-stride frame column-by-column
// using direct engine reads, bypassing the per-value DecodeScalar
// indirection. Every dtype involved is guaranteed native by the
// Vectorisable precondition.
func (dec *Decoder) decodeVector(data []byte) (Columns, error) {
	engine := dec.reg.Engine()
	nrows := dec.derived.FrameNRows
	stride := dec.derived.RowStride

	out := make(Columns, len(dec.fields))

	for i, name := range dec.fields {
		d := dec.descs[i]
		colOffset := dec.offsets[i]

		switch d.Kind {
		case registry.KindFloat32:
			col := make([]float32, nrows)
			for row := 0; row < nrows; row++ {
				b := data[row*stride+colOffset:]
				col[row] = math.Float32frombits(engine.Uint32(b))
			}
			out[name] = col
		case registry.KindFloat64:
			col := make([]float64, nrows)
			for row := 0; row < nrows; row++ {
				b := data[row*stride+colOffset:]
				col[row] = math.Float64frombits(engine.Uint64(b))
			}
			out[name] = col
		case registry.KindInt32:
			col := make([]int32, nrows)
			for row := 0; row < nrows; row++ {
				b := data[row*stride+colOffset:]
				col[row] = int32(engine.Uint32(b))
			}
			out[name] = col
		case registry.KindUint32:
			col := make([]uint32, nrows)
			for row := 0; row < nrows; row++ {
				b := data[row*stride+colOffset:]
				col[row] = engine.Uint32(b)
			}
			out[name] = col
		case registry.KindUint16:
			col := make([]uint16, nrows)
			for row := 0; row < nrows; row++ {
				b := data[row*stride+colOffset:]
				col[row] = engine.Uint16(b)
			}
			out[name] = col
		case registry.KindUint8:
			col := make([]uint8, nrows)
			for row := 0; row < nrows; row++ {
				col[row] = data[row*stride+colOffset]
			}
			out[name] = col
		case registry.KindBool:
			col := make([]bool, nrows)
			for row := 0; row < nrows; row++ {
				col[row] = data[row*stride+colOffset] != 0
			}
			out[name] = col
		default:
			return nil, fmt.Errorf("%w: dtype %q is not vector-decodable", errs.ErrSchemaMismatch, d.Name)
		}
	}

	return out, nil
}

// decodeScalar decodes row by row, column by column, always through
// Descriptor.DecodeScalar. It is the path of record for any schema
// containing NSEC, FP2, or ASCII(n) columns, and is also what the
// vector path's values are checked against in tests.
func (dec *Decoder) decodeScalar(data []byte) (Columns, error) {
	nrows := dec.derived.FrameNRows
	stride := dec.derived.RowStride

	arrays := make([]any, len(dec.fields))
	for i, d := range dec.descs {
		arrays[i] = newColumnArray(d.Kind, nrows)
	}

	for row := 0; row < nrows; row++ {
		rowStart := row * stride
		for i, d := range dec.descs {
			start := rowStart + dec.offsets[i]
			v, err := d.DecodeScalar(data[start : start+d.Width])
			if err != nil {
				return nil, err
			}
			setColumnValue(arrays[i], d.Kind, row, v)
		}
	}

	out := make(Columns, len(dec.fields))
	for i, name := range dec.fields {
		out[name] = arrays[i]
	}

	return out, nil
}

func newColumnArray(kind registry.Kind, n int) any {
	switch kind {
	case registry.KindFloat32:
		return make([]float32, n)
	case registry.KindFloat64:
		return make([]float64, n)
	case registry.KindInt32:
		return make([]int32, n)
	case registry.KindUint32:
		return make([]uint32, n)
	case registry.KindUint16:
		return make([]uint16, n)
	case registry.KindUint8:
		return make([]uint8, n)
	case registry.KindBool:
		return make([]bool, n)
	case registry.KindASCII:
		return make([]string, n)
	case registry.KindTimestamp:
		return make([]time.Time, n)
	default:
		return make([]any, n)
	}
}

func setColumnValue(arr any, kind registry.Kind, row int, v any) {
	switch kind {
	case registry.KindFloat32:
		arr.([]float32)[row] = v.(float32)
	case registry.KindFloat64:
		arr.([]float64)[row] = v.(float64)
	case registry.KindInt32:
		arr.([]int32)[row] = v.(int32)
	case registry.KindUint32:
		arr.([]uint32)[row] = v.(uint32)
	case registry.KindUint16:
		arr.([]uint16)[row] = v.(uint16)
	case registry.KindUint8:
		arr.([]uint8)[row] = v.(uint8)
	case registry.KindBool:
		arr.([]bool)[row] = v.(bool)
	case registry.KindASCII:
		arr.([]string)[row] = v.(string)
	case registry.KindTimestamp:
		arr.([]time.Time)[row] = v.(time.Time)
	default:
		arr.([]any)[row] = v
	}
}
