package frame

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/afoxland/cstob/format"
	"github.com/afoxland/cstob/registry"
	"github.com/afoxland/cstob/schema"
)

func buildSchema(t *testing.T, fmtVal format.Format, dtypes []string, frameSize int) (schema.Metadata, schema.Derived, *registry.Registry) {
	t.Helper()
	r := registry.New()
	names := make([]string, len(dtypes))
	for i := range names {
		names[i] = "col" + string(rune('a'+i))
	}
	md := schema.Metadata{
		Fmt:        fmtVal,
		Interval:   "1000 MSEC",
		FrameSize:  frameSize,
		TableSize:  1000,
		FieldNames: names,
		Dtypes:     dtypes,
	}
	d, err := schema.Build(md, r)
	require.NoError(t, err)

	return md, d, r
}

func TestDecode_VectorPath_TwoFloatColumns(t *testing.T) {
	// S1: schema [IEEE4B, IEEE4B], frame_size = 8 + 2*4*2 + 4 = 28.
	md, d, r := buildSchema(t, format.TOB2, []string{"IEEE4B", "IEEE4B"}, 28)
	require.True(t, d.Vectorisable)
	require.Equal(t, 2, d.FrameNRows)

	dec, err := New(r, md, d)
	require.NoError(t, err)

	data := make([]byte, 16)
	binary.BigEndian.PutUint32(data[0:4], math.Float32bits(1.0))
	binary.BigEndian.PutUint32(data[4:8], math.Float32bits(2.0))
	binary.BigEndian.PutUint32(data[8:12], math.Float32bits(3.0))
	binary.BigEndian.PutUint32(data[12:16], math.Float32bits(4.0))

	cols, err := dec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, []float32{1.0, 3.0}, cols["cola"])
	require.Equal(t, []float32{2.0, 4.0}, cols["colb"])
}

func TestDecode_ScalarPath_WithFP2(t *testing.T) {
	md, d, r := buildSchema(t, format.TOB3, []string{"FP2"}, 12+2+4)
	require.False(t, d.Vectorisable)
	require.Equal(t, 1, d.FrameNRows)

	dec, err := New(r, md, d)
	require.NoError(t, err)

	// (S=0,E=0,M=1) -> word 0x0001 -> 1.0
	cols, err := dec.Decode([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.Equal(t, []float64{1.0}, cols["cola"])
}

func TestDecode_VectorAndScalarPathsAgree(t *testing.T) {
	// A schema with only native dtypes can be decoded through either
	// path by forcing Vectorisable off for the scalar comparison.
	md, d, r := buildSchema(t, format.TOB2, []string{"IEEE4B", "UINT2"}, 8+6+4)
	require.Equal(t, 1, d.FrameNRows)

	dec, err := New(r, md, d)
	require.NoError(t, err)

	data := make([]byte, 6)
	binary.BigEndian.PutUint32(data[0:4], math.Float32bits(42.5))
	binary.BigEndian.PutUint16(data[4:6], 7)

	vector, err := dec.Decode(data)
	require.NoError(t, err)

	scalarDerived := d
	scalarDerived.Vectorisable = false
	scalarDec := &Decoder{reg: r, fields: dec.fields, descs: dec.descs, offsets: dec.offsets, derived: scalarDerived}
	scalar, err := scalarDec.Decode(data)
	require.NoError(t, err)

	require.Equal(t, vector["cola"], scalar["cola"])
	require.Equal(t, vector["colb"], scalar["colb"])
}

func TestDecode_TruncatedFrame(t *testing.T) {
	md, d, r := buildSchema(t, format.TOB2, []string{"IEEE4B"}, 8+4+4)
	dec, err := New(r, md, d)
	require.NoError(t, err)

	_, err = dec.Decode([]byte{0x00, 0x00})
	require.Error(t, err)
}
