package geometry

import "math"

// Box is a 2D bounding box.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Union returns the smallest box containing b and other.
func (b Box) Union(other Box) Box {
	return Box{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Extent returns the 2D bounding box of g. The second result is false when g has no
// vertices.
func Extent(g Geometry) (Box, bool) {
	box := Box{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
	found := false

	Walk(g, func(cur Geometry, leaving bool) bool {
		if leaving || !cur.Kind().IsLeaf() {
			return true
		}

		stride := cur.Stride()
		data := cur.Vertices()
		for i := 0; i+1 < len(data); i += stride {
			x, y := data[i], data[i+1]
			box.MinX = math.Min(box.MinX, x)
			box.MinY = math.Min(box.MinY, y)
			box.MaxX = math.Max(box.MaxX, x)
			box.MaxY = math.Max(box.MaxY, y)
			found = true
		}

		return true
	})

	if !found {
		return Box{}, false
	}

	return box, true
}

// VertexTotal returns the number of vertices in g and all of its parts.
func VertexTotal(g Geometry) int {
	total := 0
	Walk(g, func(cur Geometry, leaving bool) bool {
		if !leaving {
			total += cur.VertexCount()
		}

		return true
	})

	return total
}

// AnyDims reports whether any node of g carries Z or M.
func AnyDims(g Geometry) (anyZ, anyM bool) {
	Walk(g, func(cur Geometry, leaving bool) bool {
		if !leaving {
			anyZ = anyZ || cur.HasZ()
			anyM = anyM || cur.HasM()
		}

		return true
	})

	return anyZ, anyM
}

// HasMixedDims reports whether some node of g disagrees with g on Z/M presence.
func HasMixedDims(g Geometry) bool {
	mixed := false
	Walk(g, func(cur Geometry, leaving bool) bool {
		if !leaving && !cur.SameDims(g) {
			mixed = true
			return false
		}

		return true
	})

	return mixed
}

// IsClosed reports whether a LineString has at least one vertex and its first and last
// vertices are equal in every ordinate.
func IsClosed(ring Geometry) bool {
	if ring.Kind() != LineString || ring.VertexCount() == 0 {
		return false
	}

	stride := ring.Stride()
	data := ring.Vertices()
	last := len(data) - stride
	for i := 0; i < stride; i++ {
		if data[i] != data[last+i] {
			return false
		}
	}

	return true
}

// Equal reports whether a and b have the same structure, dimensionality and bitwise equal
// vertex data. NaN ordinates compare equal to NaN.
func Equal(a, b Geometry) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}

	if a.Kind() != b.Kind() || !a.SameDims(b) {
		return false
	}

	if a.Kind().IsLeaf() {
		va, vb := a.Vertices(), b.Vertices()
		if len(va) != len(vb) {
			return false
		}
		for i := range va {
			if math.Float64bits(va[i]) != math.Float64bits(vb[i]) {
				return false
			}
		}

		return true
	}

	if a.PartCount() != b.PartCount() {
		return false
	}

	pa, pb := a.FirstPart(), b.FirstPart()
	for i := 0; i < a.PartCount(); i++ {
		if !Equal(pa, pb) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}

	return true
}

// DimsFunc returns the dimensionality of the copy of src.
type DimsFunc func(src Geometry) (hasZ, hasM bool)

// LeafFunc builds the copy of the leaf src inside dst with the given dimensionality.
type LeafFunc func(dst *Arena, src Geometry, hasZ, hasM bool) Geometry

// Rebuild copies g into dst, node by node, in insertion order.
//
// Containers are recreated with the dimensionality returned by dims; leaves are produced
// by leaf. dst may be g's own arena. The copy is built iteratively.
func Rebuild(dst *Arena, g Geometry, dims DimsFunc, leaf LeafFunc) Geometry {
	if g.IsNil() {
		return Geometry{}
	}

	var root Geometry
	stack := make([]Geometry, 0, 8)

	attach := func(cp Geometry) {
		if len(stack) == 0 {
			root = cp
			return
		}
		stack[len(stack)-1].AppendPart(cp)
	}

	Walk(g, func(cur Geometry, leaving bool) bool {
		kind := cur.Kind()
		if kind.IsLeaf() {
			if !leaving {
				hasZ, hasM := dims(cur)
				attach(leaf(dst, cur, hasZ, hasM))
			}

			return true
		}

		if leaving {
			stack = stack[:len(stack)-1]
			return true
		}

		hasZ, hasM := dims(cur)
		cp := dst.New(kind, hasZ, hasM)
		attach(cp)
		stack = append(stack, cp)

		return true
	})

	return root
}

// SameDimsFunc keeps the dimensionality of every node.
func SameDimsFunc(src Geometry) (hasZ, hasM bool) {
	return src.HasZ(), src.HasM()
}

// CopyLeaf copies the vertex data of src into dst. The dimensionality must match src.
func CopyLeaf(dst *Arena, src Geometry, hasZ, hasM bool) Geometry {
	return dst.NewLeaf(src.Kind(), hasZ, hasM, src.Vertices()...)
}

// Clone deep-copies g into dst.
func Clone(dst *Arena, g Geometry) Geometry {
	return Rebuild(dst, g, SameDimsFunc, CopyLeaf)
}

// FlipCoordinates returns a copy of g with X and Y swapped in every vertex.
func FlipCoordinates(dst *Arena, g Geometry) Geometry {
	return Rebuild(dst, g, SameDimsFunc, func(dst *Arena, src Geometry, hasZ, hasM bool) Geometry {
		cp := CopyLeaf(dst, src, hasZ, hasM)
		data := cp.Vertices()
		stride := cp.Stride()
		for i := 0; i+1 < len(data); i += stride {
			data[i], data[i+1] = data[i+1], data[i]
		}

		return cp
	})
}

// Extract collects every Point, LineString or Polygon of g (selected by kind) into a new
// Multi* geometry with g's dimensionality. Polygon rings are never extracted as lines.
// Panics if kind is not Point, LineString or Polygon.
func Extract(dst *Arena, g Geometry, kind Kind) Geometry {
	if kind != Point && kind != LineString && kind != Polygon {
		panic("geometry: cannot extract " + kind.String())
	}

	out := dst.New(kind.Multi(), g.HasZ(), g.HasM())
	Walk(g, func(cur Geometry, leaving bool) bool {
		if leaving || cur.Kind() != kind {
			return true
		}
		if parent := cur.Parent(); !parent.IsNil() && parent.Kind() == Polygon {
			return true
		}
		out.AppendPart(Clone(dst, cur))

		return true
	})

	return out
}
