package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/registry"
)

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		token string
		want  Format
	}{
		{"TOB1", TOB1},
		{"TOB2", TOB2},
		{"TOB3", TOB3},
		{"TOA5", TOA5},
	} {
		got, ok := Parse(tt.token)
		require.True(t, ok)
		require.Equal(t, tt.want, got)
	}

	_, ok := Parse("TOB4")
	require.False(t, ok)
}

func TestHandlerFor_Sizes(t *testing.T) {
	r := registry.New()

	for _, tt := range []struct {
		f          Format
		headerSize int
		footerSize int
	}{
		{TOB1, 8, 4},
		{TOB2, 8, 4},
		{TOB3, 12, 4},
		{TOA5, 0, 0},
	} {
		h := HandlerFor(tt.f, r)
		require.Equal(t, tt.headerSize, h.HeaderSize(), tt.f.String())
		require.Equal(t, tt.footerSize, h.FooterSize(), tt.f.String())
	}
}

func TestTOB1Handler_Unsupported(t *testing.T) {
	r := registry.New()
	h := HandlerFor(TOB1, r)

	_, err := h.ParseHeader(make([]byte, 8))
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)

	err = h.ParseFooter(make([]byte, 4))
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestTOB2Handler_ParseHeader(t *testing.T) {
	r := registry.New()
	h := HandlerFor(TOB2, r)

	// NSEC bytes for 1990-01-01T00:00:00 (zero seconds, zero nanos).
	hdr, err := h.ParseHeader(make([]byte, 8))
	require.NoError(t, err)
	require.True(t, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC).Equal(hdr.Clock))
	require.Nil(t, hdr.Recnum)
}

func TestTOB3Handler_ParseHeader(t *testing.T) {
	r := registry.New()
	h := HandlerFor(TOB3, r)

	b := make([]byte, 12)
	// bytes[8:12) = 100 big-endian.
	b[8], b[9], b[10], b[11] = 0, 0, 0, 100

	hdr, err := h.ParseHeader(b)
	require.NoError(t, err)
	require.True(t, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC).Equal(hdr.Clock))
	require.NotNil(t, hdr.Recnum)
	require.Equal(t, uint32(100), *hdr.Recnum)
}

func TestTOA5Handler_NeverInvokedOnBinaryPath(t *testing.T) {
	h := HandlerFor(TOA5, nil)

	hdr, err := h.ParseHeader(nil)
	require.NoError(t, err)
	require.True(t, hdr.Clock.IsZero())

	require.NoError(t, h.ParseFooter(nil))
}
