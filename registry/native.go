package registry

import "math"

// registerNative populates the recognised native numeric dtypes, all
// decoded by direct big-endian copy and all vector-decodable.
func (r *Registry) registerNative() {
	engine := r.engine

	float32Decode := func(b []byte) (any, error) {
		return math.Float32frombits(engine.Uint32(b)), nil
	}
	float64Decode := func(b []byte) (any, error) {
		return math.Float64frombits(engine.Uint64(b)), nil
	}
	int32Decode := func(b []byte) (any, error) {
		return int32(engine.Uint32(b)), nil
	}
	uint32Decode := func(b []byte) (any, error) {
		return engine.Uint32(b), nil
	}
	uint16Decode := func(b []byte) (any, error) {
		return engine.Uint16(b), nil
	}
	uint8Decode := func(b []byte) (any, error) {
		return b[0], nil
	}
	boolDecode := func(b []byte) (any, error) {
		return b[0] != 0, nil
	}

	for _, name := range []string{"IEEE4", "IEEE4B"} {
		r.register(Descriptor{Name: name, Width: 4, Kind: KindFloat32, Native: true, DecodeScalar: float32Decode})
	}
	for _, name := range []string{"IEEE8", "IEEE8B"} {
		r.register(Descriptor{Name: name, Width: 8, Kind: KindFloat64, Native: true, DecodeScalar: float64Decode})
	}
	for _, name := range []string{"Long", "LONG"} {
		r.register(Descriptor{Name: name, Width: 4, Kind: KindInt32, Native: true, DecodeScalar: int32Decode})
	}
	for _, name := range []string{"ULONG", "UINT4", "UINT4B"} {
		r.register(Descriptor{Name: name, Width: 4, Kind: KindUint32, Native: true, DecodeScalar: uint32Decode})
	}
	for _, name := range []string{"UINT2", "UINT2B"} {
		r.register(Descriptor{Name: name, Width: 2, Kind: KindUint16, Native: true, DecodeScalar: uint16Decode})
	}
	for _, name := range []string{"UINT1", "UINT1B", "Bool8", "Bool8B"} {
		r.register(Descriptor{Name: name, Width: 1, Kind: KindUint8, Native: true, DecodeScalar: uint8Decode})
	}
	r.register(Descriptor{Name: "Boolean", Width: 1, Kind: KindBool, Native: true, DecodeScalar: boolDecode})
}
