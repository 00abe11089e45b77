// Package registry maps Campbell Scientific dtype names (as they appear in
// the sixth ASCII header line, e.g. "IEEE4B", "UINT2", "NSEC", "FP2",
// "ASCII(8)") to byte widths and decode functions.
//
// Native numeric dtypes are registered by New on every Registry and are
// vector-decodable: a contiguous run of N values can be decoded with a
// direct big-endian copy, no per-element branching. The two proprietary
// dtypes, NSEC and FP2, and any ASCII(n) dtype are scalar-only: decoding
// them forces the frame decoder onto its element-wise path. See
// frame.Decoder for how the two paths are selected.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/afoxland/cstob/endian"
	"github.com/afoxland/cstob/errs"
)

// Kind identifies the Go type a decoded column value takes, independent of
// its on-disk dtype name. Several dtype names can map to the same Kind
// (e.g. "UINT4", "ULONG" and "UINT4B" are all KindUint32).
type Kind uint8

const (
	KindFloat32 Kind = iota + 1
	KindFloat64
	KindInt32
	KindUint32
	KindUint16
	KindUint8
	KindBool
	KindASCII
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindUint16:
		return "uint16"
	case KindUint8:
		return "uint8"
	case KindBool:
		return "bool"
	case KindASCII:
		return "ascii"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Descriptor describes how to decode one dtype: its on-disk byte width,
// whether it is vector-decodable, and a scalar decode function usable
// by the scalar frame decode path and by format header parsing (the
// vector path does not call it; it reads native dtypes directly via the
// Engine for speed).
type Descriptor struct {
	Name   string
	Width  int
	Kind   Kind
	Native bool // true => big-endian direct-copy vector decode is valid

	// DecodeScalar decodes exactly Width bytes of b into a value of the Go
	// type implied by Kind. Callers must pass a slice of length Width.
	DecodeScalar func(b []byte) (any, error)
}

// Registry is a mapping from dtype name to Descriptor. The zero value is
// not usable; construct one with New.
type Registry struct {
	engine               endian.EndianEngine
	descriptors          map[string]Descriptor
	truncateNSECToMillis bool
}

// New creates a Registry pre-populated with the recognised native types
// and the two proprietary types (NSEC/SecNano, FP2). ASCII(n) dtypes are
// registered lazily via Resolve, since their width is parsed out of the
// dtype token itself.
func New() *Registry {
	engine := endian.GetBigEndianEngine()
	r := &Registry{
		engine:               engine,
		descriptors:          make(map[string]Descriptor, 16),
		truncateNSECToMillis: true,
	}
	r.registerNative()
	r.registerProprietary()

	return r
}

func (r *Registry) register(d Descriptor) {
	r.descriptors[d.Name] = d
}

// Resolve looks up the Descriptor for a dtype name, registering it on the
// fly if it has the ASCII(n) shape and hasn't been seen before.
//
// Returns errs.ErrUnknownDtype, wrapped with the offending name, for any
// name that is neither a known dtype nor ASCII(n)-shaped.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	if d, ok := r.descriptors[name]; ok {
		return d, nil
	}

	if strings.Contains(name, "ASCII(") {
		d, err := r.registerASCII(name)
		if err != nil {
			return Descriptor{}, err
		}

		return d, nil
	}

	return Descriptor{}, fmt.Errorf("%w: %q", errs.ErrUnknownDtype, name)
}

// Width is a convenience wrapper around Resolve that returns only the byte
// width of the named dtype.
func (r *Registry) Width(name string) (int, error) {
	d, err := r.Resolve(name)
	if err != nil {
		return 0, err
	}

	return d.Width, nil
}

// IsNative reports whether the named dtype is vector-decodable. It returns
// false (without error) for unknown names so callers computing
// vectorisability over a whole schema can fold unresolved names into "not
// vectorisable" and let the later Resolve call surface the real error.
func (r *Registry) IsNative(name string) bool {
	d, err := r.Resolve(name)
	if err != nil {
		return false
	}

	return d.Native
}

// Engine returns the byte-order engine used to decode native numeric
// dtypes. All multi-byte native numerics are big-endian on disk.
func (r *Registry) Engine() endian.EndianEngine {
	return r.engine
}

func (r *Registry) registerASCII(name string) (Descriptor, error) {
	open := strings.Index(name, "(")
	closeParen := strings.Index(name, ")")
	if open < 0 || closeParen < 0 || closeParen < open {
		return Descriptor{}, fmt.Errorf("%w: %q", errs.ErrUnknownDtype, name)
	}

	n, err := strconv.Atoi(strings.TrimSpace(name[open+1 : closeParen]))
	if err != nil || n <= 0 {
		return Descriptor{}, fmt.Errorf("%w: %q", errs.ErrUnknownDtype, name)
	}

	d := Descriptor{
		Name:   name,
		Width:  n,
		Kind:   KindASCII,
		Native: false,
		DecodeScalar: func(b []byte) (any, error) {
			return decodeASCII(b), nil
		},
	}
	r.register(d)

	return d, nil
}

func decodeASCII(b []byte) string {
	// Fixed-length byte string; trim the trailing NUL padding Campbell
	// dataloggers use to fill the declared width.
	return strings.TrimRight(string(b), "\x00")
}
