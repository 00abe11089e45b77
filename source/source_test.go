package source

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	require.Equal(t, CodecGzip, Sniff([]byte{0x1f, 0x8b, 0x08, 0x00}))
	require.Equal(t, CodecZstd, Sniff([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	require.Equal(t, CodecLZ4, Sniff([]byte{0x04, 0x22, 0x4d, 0x18}))
	require.Equal(t, CodecNone, Sniff([]byte{0x22, 0x54, 0x4f, 0x42})) // `"TOB`
}

func TestOpen_PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.dat")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestOpen_GzipFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.gz")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("compressed payload"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "compressed payload", string(got))
}

func TestOpenMmap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapped.dat")
	require.NoError(t, os.WriteFile(path, []byte("mapped contents"), 0o600))

	m, err := OpenMmap(path)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, "mapped contents", string(m.Bytes()))

	got, err := io.ReadAll(m.Reader())
	require.NoError(t, err)
	require.Equal(t, "mapped contents", string(got))
}
