// Package pool provides byte and slice pools. The byte-buffer pool serves
// the frame read path, where the same frame-sized buffers are reused
// thousands of times over the life of one stream.
package pool

import "sync"

// Default and maximum retained sizes for pooled frame-read buffers.
//
// Campbell Scientific frame sizes are typically in the low kilobytes
// (header + a few dozen rows + footer); FrameBufferMaxThreshold guards
// against retaining an outsized buffer in the pool after an unusually
// large frame_size is seen once.
const (
	FrameBufferDefaultSize  = 4 * 1024  // 4KiB
	FrameBufferMaxThreshold = 256 * 1024 // 256KiB
)

// ByteBuffer is a reusable, growable byte slice wrapper.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool: Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool: SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer already has sufficient capacity,
// Grow does nothing.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := FrameBufferDefaultSize
	if cap(bb.B) > 4*FrameBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ExtendOrGrow extends the buffer length by n bytes, growing the backing
// array first if there isn't enough spare capacity.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	curLen := len(bb.B)
	if cap(bb.B)-curLen >= n {
		bb.B = bb.B[:curLen+n]
		return
	}

	bb.Grow(n)
	bb.B = bb.B[:curLen+n]
}

// FrameBufferPool is a pool of ByteBuffers sized for one frame's raw bytes
// (header + data region + footer) at a time.
//
// It uses sync.Pool internally to amortize allocation across the many
// frames read from a single stream, and discards buffers that grew well
// past the expected frame size to avoid pinning memory for an outlier file.
type FrameBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewFrameBufferPool creates a new FrameBufferPool with buffers of the
// specified default size.
func NewFrameBufferPool(defaultSize, maxThreshold int) *FrameBufferPool {
	return &FrameBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *FrameBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *FrameBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultFramePool = NewFrameBufferPool(FrameBufferDefaultSize, FrameBufferMaxThreshold)

// GetFrameBuffer retrieves a ByteBuffer from the default frame-read pool.
func GetFrameBuffer() *ByteBuffer {
	return defaultFramePool.Get()
}

// PutFrameBuffer returns a ByteBuffer to the default frame-read pool.
func PutFrameBuffer(bb *ByteBuffer) {
	defaultFramePool.Put(bb)
}
