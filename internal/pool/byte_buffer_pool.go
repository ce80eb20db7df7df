package pool

import (
	"sync"
)

const (
	// EncodeBufferDefaultSize is the initial size of buffers used by the geometry writers.
	EncodeBufferDefaultSize = 1024 * 4 // 4KiB
	// EncodeBufferMaxThreshold is the largest writer buffer kept for reuse.
	EncodeBufferMaxThreshold = 1024 * 256 // 256KiB
	// ChunkBufferDefaultSize is the initial size of column chunk payload buffers.
	ChunkBufferDefaultSize = 1024 * 64 // 64KiB
	// ChunkBufferMaxThreshold is the largest chunk buffer kept for reuse.
	ChunkBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice used by the writers and the column encoder.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// ExtendOrGrow extends the buffer by n bytes, growing it if necessary. The new bytes are
// not cleared.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by EncodeBufferDefaultSize, larger ones by 25% of their capacity,
// and never by less than requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := EncodeBufferDefaultSize
	if cap(bb.B) > 4*EncodeBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, requiredBytes)

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers larger than
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given initial size. A zero
// maxThreshold keeps every buffer.
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

// Put returns bb to the pool.
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

var (
	encodeDefaultPool = NewByteBufferPool(EncodeBufferDefaultSize, EncodeBufferMaxThreshold)
	chunkDefaultPool  = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)
)

// GetEncodeBuffer retrieves a buffer for a WKT, WKB or GeoJSON writer.
func GetEncodeBuffer() *ByteBuffer {
	return encodeDefaultPool.Get()
}

// PutEncodeBuffer returns a writer buffer to its pool.
func PutEncodeBuffer(bb *ByteBuffer) {
	encodeDefaultPool.Put(bb)
}

// GetChunkBuffer retrieves a buffer for a column chunk payload.
func GetChunkBuffer() *ByteBuffer {
	return chunkDefaultPool.Get()
}

// PutChunkBuffer returns a column chunk buffer to its pool.
func PutChunkBuffer(bb *ByteBuffer) {
	chunkDefaultPool.Put(bb)
}
