//go:build !cgo

package source

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader decodes zstd with the pure-Go klauspost/compress decoder,
// used whenever cgo is unavailable (cross-compiling, CGO_ENABLED=0).
func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return zr.IOReadCloser(), nil
}
