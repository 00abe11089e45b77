package registry

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeFP2_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		b     []byte
		want  float64
		isNaN bool
	}{
		// Bytes are the big-endian encoding of (S=0,E=0,M=8191): word 0x1FFF.
		{name: "+Inf", b: []byte{0x1F, 0xFF}, want: math.Inf(1)},
		// (S=1,E=0,M=8191): word 0x9FFF.
		{name: "-Inf", b: []byte{0x9F, 0xFF}, want: math.Inf(-1)},
		// (S=1,E=0,M=8190): word 0x9FFE.
		{name: "NaN", b: []byte{0x9F, 0xFE}, isNaN: true},
		// (S=0,E=0,M=1): word 0x0001 -> 1.0
		{name: "one", b: []byte{0x00, 0x01}, want: 1.0},
		// (S=0,E=3,M=1): word 0x6001 -> 1 * 10^-3 = 0.001
		{name: "0.001", b: []byte{0x60, 0x01}, want: 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeFP2(tt.b)
			if tt.isNaN {
				require.True(t, math.IsNaN(got))
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_DecodeNSEC(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		b    []byte
		want time.Time
	}{
		{
			name: "epoch",
			b:    []byte{0, 0, 0, 0, 0, 0, 0, 0},
			want: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "one second",
			b:    []byte{1, 0, 0, 0, 0, 0, 0, 0},
			want: time.Date(1990, 1, 1, 0, 0, 1, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.decodeNSEC(tt.b)
			require.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestRegistry_DecodeNSEC_MillisecondTruncation(t *testing.T) {
	r := New()
	// 123,456,789 ns truncates to 123,000,000 ns (123ms) when enabled.
	b := []byte{0, 0, 0, 0, 0x15, 0xCD, 0x5B, 0x07} // NS = 123456789 little-endian

	got := r.decodeNSEC(b)
	want := nsecEpoch.Add(123 * time.Millisecond)
	require.True(t, want.Equal(got))

	r.SetNSECTruncation(false)
	got = r.decodeNSEC(b)
	want = nsecEpoch.Add(123456789 * time.Nanosecond)
	require.True(t, want.Equal(got))
}

func TestRegistry_ResolveNative(t *testing.T) {
	r := New()

	for _, name := range []string{"IEEE4B", "IEEE8B", "Long", "ULONG", "UINT2", "UINT1", "Boolean"} {
		d, err := r.Resolve(name)
		require.NoError(t, err)
		require.True(t, d.Native)
		require.Positive(t, d.Width)
	}
}

func TestRegistry_ResolveASCII(t *testing.T) {
	r := New()

	d, err := r.Resolve("ASCII(8)")
	require.NoError(t, err)
	require.Equal(t, 8, d.Width)
	require.False(t, d.Native)
	require.Equal(t, KindASCII, d.Kind)

	val, err := d.DecodeScalar([]byte("hi\x00\x00\x00\x00\x00\x00"))
	require.NoError(t, err)
	require.Equal(t, "hi", val)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := New()

	_, err := r.Resolve("NOT_A_TYPE")
	require.Error(t, err)
}

func TestRegistry_IsNative(t *testing.T) {
	r := New()

	require.True(t, r.IsNative("IEEE4B"))
	require.False(t, r.IsNative("NSEC"))
	require.False(t, r.IsNative("FP2"))
	require.False(t, r.IsNative("ASCII(4)"))
	require.False(t, r.IsNative("bogus"))
}
