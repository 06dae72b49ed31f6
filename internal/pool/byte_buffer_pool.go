// Package pool provides pooled byte buffers for serializing catalog values.
package pool

import "sync"

const (
	// ValueBufferDefaultSize fits a container of roughly 150 single-chunk blobs.
	ValueBufferDefaultSize = 1024 * 4 // 4KiB
	// ValueBufferMaxThreshold is the largest buffer returned to the pool.
	ValueBufferMaxThreshold = 1024 * 1024 // 1MiB
)

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

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Resize sets the length of the buffer to exactly n bytes, reallocating when
// the capacity is insufficient. Existing content is not preserved across a
// reallocation; the buffer is meant to be filled after Resize.
func (bb *ByteBuffer) Resize(n int) {
	if n < 0 {
		panic("Resize: negative length")
	}

	if cap(bb.B) < n {
		bb.B = make([]byte, n)
		return
	}

	bb.B = bb.B[:n]
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers whose capacity grew beyond maxThreshold are dropped on Put so that a
// single large container does not pin memory for the life of the process.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// GetSized retrieves a ByteBuffer whose length is exactly n.
func (bbp *ByteBufferPool) GetSized(n int) *ByteBuffer {
	bb := bbp.Get()
	bb.Resize(n)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var valueDefaultPool = NewByteBufferPool(ValueBufferDefaultSize, ValueBufferMaxThreshold)

// GetValueBuffer retrieves a buffer of length n from the default value pool.
func GetValueBuffer(n int) *ByteBuffer {
	return valueDefaultPool.GetSized(n)
}

// PutValueBuffer returns a ByteBuffer to the default value pool.
func PutValueBuffer(bb *ByteBuffer) {
	valueDefaultPool.Put(bb)
}
