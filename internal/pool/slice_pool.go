package pool

import "sync"

// SlicePool reuses typed slices through a sync.Pool. The frame decoder
// does not use it: decoded columns are allocated with make, since they
// outlive the Decode call.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool constructs an empty SlicePool for element type T.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{New: func() any { s := make([]T, 0); return &s }},
	}
}

// Get returns a slice of length size, and a cleanup function the caller
// must invoke once that slice's contents have been copied out or are
// otherwise no longer needed. If the pooled slice has insufficient
// capacity, a new one is allocated.
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	s := (*ptr)[:0]

	if cap(s) < size {
		s = make([]T, size)
	} else {
		s = s[:size]
	}
	*ptr = s

	return s, func() { p.pool.Put(ptr) }
}

var (
	float32Pool = NewSlicePool[float32]()
	float64Pool = NewSlicePool[float64]()
	uint32Pool  = NewSlicePool[uint32]()
	stringPool  = NewSlicePool[string]()
)

// GetFloat32Slice returns a pooled float32 slice of length size, the
// element type of IEEE4/IEEE4B columns.
func GetFloat32Slice(size int) ([]float32, func()) { return float32Pool.Get(size) }

// GetFloat64Slice returns a pooled float64 slice of length size, the
// element type of IEEE8/IEEE8B and FP2 columns.
func GetFloat64Slice(size int) ([]float64, func()) { return float64Pool.Get(size) }

// GetUint32Slice returns a pooled uint32 slice of length size, the
// element type of ULONG/UINT4/UINT4B and RECORD columns.
func GetUint32Slice(size int) ([]uint32, func()) { return uint32Pool.Get(size) }

// GetStringSlice returns a pooled string slice of length size, the
// element type of ASCII(n) columns.
func GetStringSlice(size int) ([]string, func()) { return stringPool.Get(size) }
