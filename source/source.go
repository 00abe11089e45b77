// Package source opens Campbell Scientific files for decoding: a plain
// io.Reader path for ordinary files and piped input, a memory-mapped path
// for large files where avoiding a full read() copy matters, and
// transparent unwrapping of gzip/zstd/lz4/s2-compressed input.
package source

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Codec names a transparent input codec. CodecNone passes bytes through
// unchanged.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecGzip
	CodecZstd
	CodecS2
	CodecLZ4
)

var magicBytes = []struct {
	codec Codec
	magic []byte
}{
	{CodecGzip, []byte{0x1f, 0x8b}},
	{CodecZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{CodecS2, []byte{0x73, 0x32}}, // s2's framed stream magic prefix ("s2")
	{CodecLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
}

// Sniff peeks at the first bytes of b to detect a known compression
// codec's magic number, returning CodecNone for anything unrecognised
// (treated as a plain, uncompressed stream).
func Sniff(b []byte) Codec {
	for _, m := range magicBytes {
		if len(b) >= len(m.magic) && string(b[:len(m.magic)]) == string(m.magic) {
			return m.codec
		}
	}

	return CodecNone
}

// Open opens name for reading, sniffing and transparently unwrapping any
// of the supported compression codecs. The caller is responsible for
// closing the returned ReadCloser.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	peek, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		f.Close()
		return nil, err
	}

	switch Sniff(peek) {
	case CodecGzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		return wrapClosers{Reader: gr, closers: []io.Closer{gr, f}}, nil
	case CodecZstd:
		zr, err := newZstdReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		return wrapClosers{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case CodecS2:
		return wrapClosers{Reader: s2.NewReader(br), closers: []io.Closer{f}}, nil
	case CodecLZ4:
		return wrapClosers{Reader: lz4.NewReader(br), closers: []io.Closer{f}}, nil
	default:
		return wrapClosers{Reader: br, closers: []io.Closer{f}}, nil
	}
}

type wrapClosers struct {
	io.Reader
	closers []io.Closer
}

func (w wrapClosers) Close() error {
	var firstErr error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Mapped is a memory-mapped, read-only view of a file. It satisfies
// io.Reader via Reader() for callers that want to stream it, and exposes
// Bytes() for callers that want to slice it directly (the frame decoder's
// vector path can read straight out of the mapping without a copy).
type Mapped struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap memory-maps name read-only. It is intended for large TOB3
// files where decode_whole would otherwise require holding two copies of
// the data (the OS page cache plus a read() buffer).
func OpenMmap(name string) (*Mapped, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Mapped{f: f, data: data}, nil
}

// Bytes returns the mapped file contents. The slice is invalid after Close.
func (m *Mapped) Bytes() []byte {
	return m.data
}

// Reader returns a fresh io.Reader positioned at the start of the mapping.
func (m *Mapped) Reader() io.Reader {
	return &byteSliceReader{b: m.data}
}

// Close unmaps the file and closes the underlying file handle.
func (m *Mapped) Close() error {
	if err := m.data.Unmap(); err != nil {
		m.f.Close()
		return err
	}

	return m.f.Close()
}

type byteSliceReader struct {
	b   []byte
	pos int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n

	return n, nil
}
