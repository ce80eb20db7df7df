package geometry

import "github.com/arloliu/geoblob/internal/options"

const (
	// DefaultChunkSize is the number of float64 values in one vertex chunk (64KiB).
	DefaultChunkSize = 8 * 1024

	// initialNodeCapacity is the initial capacity of the node slot slice.
	initialNodeCapacity = 64
)

// Handle is the index of a geometry node inside its Arena.
type Handle int32

// Nil is the handle of no node.
const Nil Handle = -1

const (
	dimZ uint8 = 1 << iota
	dimM
)

// node is one geometry slot. Parts of a container form a circular singly-linked list
// through next; the container stores the handle of the last inserted part.
type node struct {
	vertices []float64
	count    uint32 // vertex count for leaves, part count for containers
	last     Handle
	next     Handle
	parent   Handle
	kind     Kind
	dims     uint8
}

// Arena is an index-based bump allocator for geometry values.
//
// Nodes live in a growable slice and reference each other by Handle, so the circular
// part lists and parent back references never form pointer cycles. Vertex buffers are
// carved out of large float64 chunks.
//
// Nothing is freed individually: Reset releases every geometry at once and keeps the
// allocated chunks for reuse. Geometries obtained before a Reset must not be used after it.
//
// An Arena is not safe for concurrent use; give each unit of work its own arena.
type Arena struct {
	nodes       []node
	chunks      [][]float64
	chunkIdx    int
	offset      int
	chunkSize   int
	vertexBytes int
}

// ArenaOption configures an Arena.
type ArenaOption = options.Option[*Arena]

// WithChunkSize sets the number of float64 values per vertex chunk.
func WithChunkSize(size int) ArenaOption {
	return options.NoError(func(a *Arena) {
		if size > 0 {
			a.chunkSize = size
		}
	})
}

// WithNodeCapacity pre-sizes the node slot slice.
func WithNodeCapacity(capacity int) ArenaOption {
	return options.NoError(func(a *Arena) {
		if capacity > 0 {
			a.nodes = make([]node, 0, capacity)
		}
	})
}

// NewArena creates an empty arena.
func NewArena(opts ...ArenaOption) *Arena {
	a := &Arena{
		chunkSize: DefaultChunkSize,
	}
	_ = options.Apply(a, opts...)

	if a.nodes == nil {
		a.nodes = make([]node, 0, initialNodeCapacity)
	}

	return a
}

// Reset releases every geometry allocated from the arena.
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
	a.chunkIdx = 0
	a.offset = 0
	a.vertexBytes = 0
}

// Len returns the number of geometry nodes currently allocated.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// VertexBytes returns the number of vertex bytes allocated since the last Reset.
func (a *Arena) VertexBytes() int {
	return a.vertexBytes
}

// Get returns the geometry for handle h.
func (a *Arena) Get(h Handle) Geometry {
	if h < 0 || int(h) >= len(a.nodes) {
		panic("geometry: handle out of range")
	}

	return Geometry{a: a, h: h}
}

// New allocates an empty geometry of the given kind and dimensionality.
//
// Panics if kind is not a valid geometry kind.
func (a *Arena) New(kind Kind, hasZ, hasM bool) Geometry {
	if !kind.IsValid() {
		panic("geometry: invalid kind " + kind.String())
	}

	var dims uint8
	if hasZ {
		dims |= dimZ
	}
	if hasM {
		dims |= dimM
	}

	a.nodes = append(a.nodes, node{
		kind:   kind,
		dims:   dims,
		last:   Nil,
		next:   Nil,
		parent: Nil,
	})

	return Geometry{a: a, h: Handle(len(a.nodes) - 1)}
}

// NewLeaf allocates a Point or LineString and copies coords into the arena.
func (a *Arena) NewLeaf(kind Kind, hasZ, hasM bool, coords ...float64) Geometry {
	g := a.New(kind, hasZ, hasM)
	g.CopyVertices(coords)

	return g
}

// NewPoint allocates a Point. An empty coords yields the empty point.
func (a *Arena) NewPoint(hasZ, hasM bool, coords ...float64) Geometry {
	return a.NewLeaf(Point, hasZ, hasM, coords...)
}

// NewLineString allocates a LineString from a flat coordinate list.
func (a *Arena) NewLineString(hasZ, hasM bool, coords ...float64) Geometry {
	return a.NewLeaf(LineString, hasZ, hasM, coords...)
}

// NewContainer allocates a container geometry and appends parts in order.
func (a *Arena) NewContainer(kind Kind, hasZ, hasM bool, parts ...Geometry) Geometry {
	g := a.New(kind, hasZ, hasM)
	for _, p := range parts {
		g.AppendPart(p)
	}

	return g
}

// AllocVertices returns a zeroed buffer for count vertices of the given dimensionality.
//
// The returned slice has its capacity clipped to its length, so appending to it never
// overwrites neighbouring allocations.
func (a *Arena) AllocVertices(count int, hasZ, hasM bool) []float64 {
	return a.allocFloats(count * Stride(hasZ, hasM))
}

func (a *Arena) allocFloats(n int) []float64 {
	if n <= 0 {
		return nil
	}
	a.vertexBytes += n * 8

	// Oversized requests get their own buffer and are not retained.
	if n > a.chunkSize {
		return make([]float64, n)
	}

	if len(a.chunks) == 0 || a.offset+n > len(a.chunks[a.chunkIdx]) {
		a.nextChunk()
	}

	chunk := a.chunks[a.chunkIdx]
	buf := chunk[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	clear(buf)

	return buf
}

// nextChunk moves to the next retained chunk or allocates a new one.
func (a *Arena) nextChunk() {
	if len(a.chunks) > 0 {
		a.chunkIdx++
	}
	a.offset = 0

	if a.chunkIdx < len(a.chunks) {
		return
	}

	a.chunks = append(a.chunks, make([]float64, a.chunkSize))
	a.chunkIdx = len(a.chunks) - 1
}
