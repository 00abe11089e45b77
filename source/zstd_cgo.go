//go:build cgo

package source

import (
	"io"

	"github.com/valyala/gozstd"
)

// newZstdReader decodes zstd with valyala/gozstd's cgo binding to the
// reference libzstd, substantially faster than the pure-Go decoder on
// large TOB3 files when cgo is available.
func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReadCloser{r: gozstd.NewReader(r)}, nil
}

type gozstdReadCloser struct {
	r *gozstd.Reader
}

func (g *gozstdReadCloser) Read(p []byte) (int, error) {
	return g.r.Read(p)
}

func (g *gozstdReadCloser) Close() error {
	g.r.Release()
	return nil
}
