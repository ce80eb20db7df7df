package geometry

import (
	"fmt"
	"iter"
)

// Vertex is a single coordinate. Z and M are zero when the geometry lacks them.
type Vertex struct {
	X, Y, Z, M float64
}

// Geometry is a handle to a geometry value stored in an Arena.
//
// The zero value is the nil geometry. Geometry values are cheap to copy; they stay
// valid until the owning arena is reset.
type Geometry struct {
	a *Arena
	h Handle
}

func (g Geometry) n() *node {
	return &g.a.nodes[g.h]
}

// IsNil reports whether g refers to no geometry.
func (g Geometry) IsNil() bool {
	return g.a == nil || g.h == Nil
}

// Arena returns the arena owning g.
func (g Geometry) Arena() *Arena {
	return g.a
}

// Handle returns the arena handle of g.
func (g Geometry) Handle() Handle {
	return g.h
}

// Kind returns the geometry kind.
func (g Geometry) Kind() Kind {
	return g.n().kind
}

// HasZ reports whether vertices carry a Z ordinate.
func (g Geometry) HasZ() bool {
	return g.n().dims&dimZ != 0
}

// HasM reports whether vertices carry an M ordinate.
func (g Geometry) HasM() bool {
	return g.n().dims&dimM != 0
}

// Stride returns the number of float64 values per vertex.
func (g Geometry) Stride() int {
	return Stride(g.HasZ(), g.HasM())
}

// SameDims reports whether g and other agree on Z and M presence.
func (g Geometry) SameDims(other Geometry) bool {
	return g.n().dims == other.n().dims
}

// String returns a short description such as "POLYGON Z[3 parts]".
func (g Geometry) String() string {
	if g.IsNil() {
		return "<nil>"
	}

	n := g.n()
	unit := "vertices"
	if n.kind.IsContainer() {
		unit = "parts"
	}

	return fmt.Sprintf("%s%s[%d %s]", n.kind, dimSuffix(n.dims), n.count, unit)
}

func dimSuffix(dims uint8) string {
	switch dims {
	case dimZ:
		return " Z"
	case dimM:
		return " M"
	case dimZ | dimM:
		return " ZM"
	default:
		return ""
	}
}

// Leaf accessors

// VertexCount returns the number of vertices of a leaf, or 0 for containers.
func (g Geometry) VertexCount() int {
	n := g.n()
	if !n.kind.IsLeaf() {
		return 0
	}

	return int(n.count)
}

// Vertices returns the raw vertex data of a leaf, stride values per vertex.
//
// The returned slice aliases the geometry; callers must not modify it once the
// geometry has been handed to a consumer.
func (g Geometry) Vertices() []float64 {
	return g.n().vertices
}

// SetVertices sets the vertex data of a leaf without copying.
//
// The slice is retained as is (view mode): the caller guarantees it outlives the arena
// scope. Panics if g is a container, if len(data) is not a multiple of the stride, or if
// a Point receives more than one vertex.
func (g Geometry) SetVertices(data []float64) {
	n := g.n()
	if !n.kind.IsLeaf() {
		panic("geometry: SetVertices on " + n.kind.String())
	}

	stride := Stride(n.dims&dimZ != 0, n.dims&dimM != 0)
	if len(data)%stride != 0 {
		panic(fmt.Sprintf("geometry: %d values is not a multiple of stride %d", len(data), stride))
	}

	count := len(data) / stride
	if n.kind == Point && count > 1 {
		panic(fmt.Sprintf("geometry: point with %d vertices", count))
	}

	n.vertices = data
	n.count = uint32(count) //nolint:gosec
}

// CopyVertices copies data into the arena and sets it as the vertex data of a leaf.
func (g Geometry) CopyVertices(data []float64) {
	buf := g.a.allocFloats(len(data))
	copy(buf, data)
	g.SetVertices(buf)
}

// Vertex returns vertex i. Panics if i is out of range.
func (g Geometry) Vertex(i int) Vertex {
	n := g.n()
	if i < 0 || i >= int(n.count) || !n.kind.IsLeaf() {
		panic(fmt.Sprintf("geometry: vertex %d out of range [0,%d)", i, g.VertexCount()))
	}

	hasZ, hasM := n.dims&dimZ != 0, n.dims&dimM != 0
	stride := Stride(hasZ, hasM)
	v := n.vertices[i*stride : i*stride+stride]

	out := Vertex{X: v[0], Y: v[1]}
	switch {
	case hasZ && hasM:
		out.Z, out.M = v[2], v[3]
	case hasZ:
		out.Z = v[2]
	case hasM:
		out.M = v[2]
	}

	return out
}

// XY returns the X and Y ordinates of vertex i. Panics if i is out of range.
func (g Geometry) XY(i int) (x, y float64) {
	n := g.n()
	if i < 0 || i >= int(n.count) || !n.kind.IsLeaf() {
		panic(fmt.Sprintf("geometry: vertex %d out of range [0,%d)", i, g.VertexCount()))
	}
	stride := Stride(n.dims&dimZ != 0, n.dims&dimM != 0)

	return n.vertices[i*stride], n.vertices[i*stride+1]
}

// Container accessors

// PartCount returns the number of parts of a container, or 0 for leaves.
func (g Geometry) PartCount() int {
	n := g.n()
	if !n.kind.IsContainer() {
		return 0
	}

	return int(n.count)
}

// AppendPart appends part to the container g.
//
// Panics if g is a leaf, if part belongs to another arena or container, if part is g or
// one of its ancestors, or if part's kind is not allowed in g (e.g. a Polygon inside a
// MultiPoint). Parts may disagree with
// g on Z/M presence; such values must be normalized before serialization.
func (g Geometry) AppendPart(part Geometry) {
	if part.a != g.a || part.IsNil() {
		panic("geometry: part belongs to a different arena")
	}
	for h := g.h; h != Nil; h = g.a.nodes[h].parent {
		if h == part.h {
			panic("geometry: geometry cannot contain itself")
		}
	}

	n := g.n()
	if !n.kind.IsContainer() {
		panic("geometry: AppendPart on " + n.kind.String())
	}

	p := part.n()
	if p.parent != Nil {
		panic("geometry: part already attached to a container")
	}
	if want := n.kind.PartKind(); want != Invalid && p.kind != want {
		panic(fmt.Sprintf("geometry: %s cannot contain %s", n.kind, p.kind))
	}

	if n.last == Nil {
		p.next = part.h
	} else {
		tail := &g.a.nodes[n.last]
		p.next = tail.next
		tail.next = part.h
	}
	p.parent = g.h
	n.last = part.h
	n.count++
}

// LastPart returns the last inserted part, or the nil geometry when there is none.
func (g Geometry) LastPart() Geometry {
	n := g.n()
	if n.last == Nil {
		return Geometry{}
	}

	return Geometry{a: g.a, h: n.last}
}

// FirstPart returns the first inserted part, or the nil geometry when there is none.
func (g Geometry) FirstPart() Geometry {
	n := g.n()
	if n.last == Nil {
		return Geometry{}
	}

	return Geometry{a: g.a, h: g.a.nodes[n.last].next}
}

// Next returns the next sibling in the circular part list. The next of the last part is
// the first part; use IsLastPart to stop.
func (g Geometry) Next() Geometry {
	n := g.n()
	if n.next == Nil {
		return Geometry{}
	}

	return Geometry{a: g.a, h: n.next}
}

// Parent returns the container of g, or the nil geometry for a root.
func (g Geometry) Parent() Geometry {
	n := g.n()
	if n.parent == Nil {
		return Geometry{}
	}

	return Geometry{a: g.a, h: n.parent}
}

// IsLastPart reports whether g is the tail of its container's part list.
func (g Geometry) IsLastPart() bool {
	n := g.n()
	if n.parent == Nil {
		return false
	}

	return g.a.nodes[n.parent].last == g.h
}

// Parts returns an iterator over the parts of g in insertion order.
func (g Geometry) Parts() iter.Seq[Geometry] {
	return func(yield func(Geometry) bool) {
		tail := g.LastPart()
		if tail.IsNil() {
			return
		}

		cur := tail
		for {
			cur = cur.Next()
			if !yield(cur) {
				return
			}
			if cur.h == tail.h {
				return
			}
		}
	}
}

// PartAt returns part i in insertion order. Panics if i is out of range.
func (g Geometry) PartAt(i int) Geometry {
	if i < 0 || i >= g.PartCount() {
		panic(fmt.Sprintf("geometry: part %d out of range [0,%d)", i, g.PartCount()))
	}

	cur := g.FirstPart()
	for ; i > 0; i-- {
		cur = cur.Next()
	}

	return cur
}

// IsEmpty reports whether g has no vertices at all. A container whose parts are all
// empty is empty.
func (g Geometry) IsEmpty() bool {
	empty := true
	Walk(g, func(cur Geometry, leaving bool) bool {
		if !leaving && cur.VertexCount() > 0 {
			empty = false
			return false
		}

		return true
	})

	return empty
}
