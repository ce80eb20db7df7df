package pool

import "sync"

// Float64Scratch is a reusable float64 accumulator for readers that collect ordinates
// before they know the vertex count.
type Float64Scratch struct {
	// B holds the accumulated values.
	B []float64
}

var float64ScratchPool = sync.Pool{
	New: func() any { return &Float64Scratch{B: make([]float64, 0, 256)} },
}

// scratchMaxThreshold is the largest scratch capacity kept for reuse (1MiB of float64).
const scratchMaxThreshold = 128 * 1024

// GetFloat64Scratch retrieves an empty scratch buffer.
//
// Example:
//
//	scratch := pool.GetFloat64Scratch()
//	defer pool.PutFloat64Scratch(scratch)
//	scratch.B = append(scratch.B, x, y)
func GetFloat64Scratch() *Float64Scratch {
	s, _ := float64ScratchPool.Get().(*Float64Scratch)
	s.B = s.B[:0]

	return s
}

// PutFloat64Scratch returns s to the pool.
func PutFloat64Scratch(s *Float64Scratch) {
	if s == nil || cap(s.B) > scratchMaxThreshold {
		return
	}

	float64ScratchPool.Put(s)
}
