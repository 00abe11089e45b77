package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afoxland/cstob/format"
	"github.com/afoxland/cstob/registry"
)

func TestParseInterval(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want time.Duration
	}{
		{"1000 MSEC", time.Second},
		{"100 MSEC", 100 * time.Millisecond},
		{"30 MIN", 30 * time.Minute},
	} {
		got, err := ParseInterval(tt.s)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := ParseInterval("1 HOUR")
	require.Error(t, err)
}

func TestBuild_TOB2(t *testing.T) {
	r := registry.New()

	md := Metadata{
		Fmt:       format.TOB2,
		Table:     "data",
		Interval:  "1000 MSEC",
		FrameSize: 28,
		TableSize: 4,
		FieldNames: []string{"a", "b"},
		Dtypes:    []string{"IEEE4B", "IEEE4B"},
	}

	d, err := Build(md, r)
	require.NoError(t, err)
	require.Equal(t, 8, d.RowStride)
	require.Equal(t, 16, d.FrameDataSize) // 28 - 8(header) - 4(footer)
	require.Equal(t, 2, d.FrameNRows)
	require.True(t, d.Vectorisable)
	require.Equal(t, time.Second, d.SampleInterval)
	require.Equal(t, 2*time.Second, d.FrameDuration)
}

func TestBuild_NonVectorisableWithFP2(t *testing.T) {
	r := registry.New()

	md := Metadata{
		Fmt:       format.TOB3,
		Interval:  "100 MSEC",
		FrameSize: 12 + 2 + 4,
		TableSize: 1,
		Dtypes:    []string{"FP2"},
	}

	d, err := Build(md, r)
	require.NoError(t, err)
	require.False(t, d.Vectorisable)
	require.Equal(t, 1, d.FrameNRows)
}

func TestBuild_SchemaMismatch(t *testing.T) {
	r := registry.New()

	md := Metadata{
		Fmt:       format.TOB2,
		Interval:  "1000 MSEC",
		FrameSize: 8 + 5 + 4, // 5 is not a multiple of an 4-byte stride
		TableSize: 1,
		Dtypes:    []string{"IEEE4B"},
	}

	_, err := Build(md, r)
	require.Error(t, err)
}

func TestMetadata_Fingerprint_StableAndSensitive(t *testing.T) {
	a := Metadata{FieldNames: []string{"temp", "rh"}, Dtypes: []string{"IEEE4B", "IEEE4B"}}
	b := Metadata{FieldNames: []string{"temp", "rh"}, Dtypes: []string{"IEEE4B", "IEEE4B"}}
	c := Metadata{FieldNames: []string{"temp", "rh"}, Dtypes: []string{"IEEE4B", "FP2"}}

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
