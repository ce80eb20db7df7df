package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func unitSquare(a *Arena) Geometry {
	ring := a.NewLeaf(LineString, false, false, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0)
	return a.NewContainer(Polygon, false, false, ring)
}

func TestKind(t *testing.T) {
	require.Equal(t, "MULTIPOLYGON", MultiPolygon.String())
	require.Equal(t, "GeometryCollection", GeometryCollection.Name())
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, "UNKNOWN", Kind(42).String())

	require.True(t, Point.IsLeaf())
	require.True(t, LineString.IsLeaf())
	require.False(t, Polygon.IsLeaf())
	require.True(t, Polygon.IsContainer())
	require.False(t, Kind(8).IsValid())

	require.Equal(t, LineString, Polygon.PartKind())
	require.Equal(t, Polygon, MultiPolygon.PartKind())
	require.Equal(t, Invalid, GeometryCollection.PartKind())
	require.Equal(t, MultiLineString, LineString.Multi())

	k, ok := KindFromName("multiLineString")
	require.True(t, ok)
	require.Equal(t, MultiLineString, k)

	_, ok = KindFromName("Circle")
	require.False(t, ok)

	require.Equal(t, 2, Stride(false, false))
	require.Equal(t, 3, Stride(true, false))
	require.Equal(t, 3, Stride(false, true))
	require.Equal(t, 4, Stride(true, true))
}

func TestArena(t *testing.T) {
	t.Run("Leaf vertices are copied", func(t *testing.T) {
		a := NewArena()
		src := []float64{1, 2, 3}
		p := a.NewLeaf(Point, true, false, src...)
		src[0] = 99

		require.Equal(t, 1, p.VertexCount())
		require.Equal(t, Vertex{X: 1, Y: 2, Z: 3}, p.Vertex(0))
		require.Equal(t, 24, a.VertexBytes())
	})

	t.Run("Allocations span chunks", func(t *testing.T) {
		a := NewArena(WithChunkSize(4))
		first := a.AllocVertices(2, false, false)
		second := a.AllocVertices(1, false, false)
		big := a.AllocVertices(10, false, false)

		require.Len(t, first, 4)
		require.Len(t, second, 2)
		require.Len(t, big, 20)
		require.Equal(t, len(first), cap(first))

		first[3] = 7
		require.Zero(t, second[0])
	})

	t.Run("Reset releases nodes and reuses chunks", func(t *testing.T) {
		a := NewArena(WithChunkSize(16), WithNodeCapacity(4))
		unitSquare(a)
		require.Equal(t, 2, a.Len())

		a.Reset()
		require.Zero(t, a.Len())
		require.Zero(t, a.VertexBytes())

		buf := a.AllocVertices(2, false, false)
		require.Equal(t, []float64{0, 0, 0, 0}, buf)
	})

	t.Run("Invalid kind panics", func(t *testing.T) {
		a := NewArena()
		require.Panics(t, func() { a.New(Invalid, false, false) })
		require.Panics(t, func() { a.Get(5) })
	})
}

func TestGeometry_Vertices(t *testing.T) {
	a := NewArena()

	t.Run("XYM vertex", func(t *testing.T) {
		p := a.NewLeaf(Point, false, true, 1, 2, 5)
		require.Equal(t, Vertex{X: 1, Y: 2, M: 5}, p.Vertex(0))
		x, y := p.XY(0)
		require.Equal(t, 1.0, x)
		require.Equal(t, 2.0, y)
	})

	t.Run("Out of range panics", func(t *testing.T) {
		ls := a.NewLeaf(LineString, false, false, 0, 0, 1, 1)
		require.Panics(t, func() { ls.Vertex(2) })
		require.Panics(t, func() { ls.XY(-1) })
	})

	t.Run("SetVertices keeps the caller slice", func(t *testing.T) {
		data := []float64{0, 0, 1, 1, 2, 2}
		ls := a.New(LineString, false, false)
		ls.SetVertices(data)
		data[0] = 10

		require.Equal(t, 3, ls.VertexCount())
		require.Equal(t, 10.0, ls.Vertex(0).X)
	})

	t.Run("SetVertices rejects bad input", func(t *testing.T) {
		require.Panics(t, func() { a.New(LineString, true, false).SetVertices([]float64{1, 2}) })
		require.Panics(t, func() { a.New(Point, false, false).SetVertices([]float64{1, 2, 3, 4}) })
		require.Panics(t, func() { a.New(Polygon, false, false).SetVertices([]float64{1, 2}) })
	})

	t.Run("Containers have no vertices", func(t *testing.T) {
		poly := unitSquare(a)
		require.Zero(t, poly.VertexCount())
		require.Equal(t, 1, poly.PartCount())
		require.Equal(t, "POLYGON[1 parts]", poly.String())
	})
}

func TestGeometry_Parts(t *testing.T) {
	a := NewArena()
	mp := a.New(MultiPoint, false, false)
	require.True(t, mp.FirstPart().IsNil())
	require.True(t, mp.LastPart().IsNil())

	for i := range 4 {
		mp.AppendPart(a.NewLeaf(Point, false, false, float64(i), 0))
	}

	t.Run("Insertion order", func(t *testing.T) {
		var xs []float64
		for p := range mp.Parts() {
			xs = append(xs, p.Vertex(0).X)
		}
		require.Equal(t, []float64{0, 1, 2, 3}, xs)
	})

	t.Run("Circular list", func(t *testing.T) {
		last := mp.LastPart()
		require.True(t, last.IsLastPart())
		require.Equal(t, mp.FirstPart().Handle(), last.Next().Handle())
		require.Equal(t, mp.Handle(), last.Parent().Handle())
		require.False(t, mp.FirstPart().IsLastPart())
		require.True(t, mp.Parent().IsNil())
	})

	t.Run("PartAt", func(t *testing.T) {
		require.Equal(t, 2.0, mp.PartAt(2).Vertex(0).X)
		require.Panics(t, func() { mp.PartAt(4) })
	})

	t.Run("Early break", func(t *testing.T) {
		n := 0
		for range mp.Parts() {
			n++
			if n == 2 {
				break
			}
		}
		require.Equal(t, 2, n)
	})

	t.Run("Invalid appends panic", func(t *testing.T) {
		other := NewArena()
		line := a.NewLeaf(LineString, false, false, 0, 0, 1, 1)
		attached := mp.FirstPart()

		require.Panics(t, func() { mp.AppendPart(other.NewLeaf(Point, false, false, 0, 0)) })
		require.Panics(t, func() { mp.AppendPart(line) })
		require.Panics(t, func() { mp.AppendPart(mp) })
		require.Panics(t, func() { mp.AppendPart(attached) })
		require.Panics(t, func() { line.AppendPart(a.NewLeaf(Point, false, false, 0, 0)) })
	})

	t.Run("Ancestors cannot become parts", func(t *testing.T) {
		root := a.New(GeometryCollection, false, false)
		child := a.New(GeometryCollection, false, false)
		grandchild := a.New(GeometryCollection, false, false)
		root.AppendPart(child)
		child.AppendPart(grandchild)

		require.Panics(t, func() { child.AppendPart(root) })
		require.Panics(t, func() { grandchild.AppendPart(root) })
		require.Equal(t, 1, root.PartCount())
		require.Equal(t, 1, child.PartCount())
		require.Zero(t, grandchild.PartCount())
		require.Equal(t, 2, Depth(root))
	})

	t.Run("Collections accept any kind", func(t *testing.T) {
		gc := a.NewContainer(GeometryCollection, false, false,
			a.NewLeaf(Point, false, false, 1, 1),
			unitSquare(a),
			a.New(GeometryCollection, false, false),
		)
		require.Equal(t, 3, gc.PartCount())
	})
}

func TestGeometry_IsEmpty(t *testing.T) {
	a := NewArena()

	require.True(t, a.New(Point, false, false).IsEmpty())
	require.True(t, a.New(MultiPoint, false, false).IsEmpty())
	require.True(t, a.NewContainer(GeometryCollection, false, false, a.New(Polygon, false, false)).IsEmpty())
	require.False(t, unitSquare(a).IsEmpty())
}

func TestWalk(t *testing.T) {
	a := NewArena()
	gc := a.NewContainer(GeometryCollection, false, false,
		a.NewLeaf(Point, false, false, 1, 1),
		a.New(MultiPoint, false, false),
		unitSquare(a),
	)

	t.Run("Enter and leave order", func(t *testing.T) {
		var trace []string
		Walk(gc, func(g Geometry, leaving bool) bool {
			prefix := "+"
			if leaving {
				prefix = "-"
			}
			trace = append(trace, prefix+g.Kind().String())

			return true
		})

		require.Equal(t, []string{
			"+GEOMETRYCOLLECTION",
			"+POINT", "-POINT",
			"+MULTIPOINT", "-MULTIPOINT",
			"+POLYGON", "+LINESTRING", "-LINESTRING", "-POLYGON",
			"-GEOMETRYCOLLECTION",
		}, trace)
	})

	t.Run("Stop early", func(t *testing.T) {
		visited := 0
		completed := Walk(gc, func(g Geometry, leaving bool) bool {
			visited++
			return g.Kind() != MultiPoint
		})
		require.False(t, completed)
		require.Equal(t, 4, visited)
	})

	t.Run("Subtree walk stays inside the subtree", func(t *testing.T) {
		poly := gc.LastPart()
		n := 0
		Walk(poly, func(Geometry, bool) bool {
			n++
			return true
		})
		require.Equal(t, 4, n)
	})

	t.Run("Deep nesting", func(t *testing.T) {
		root := a.New(GeometryCollection, false, false)
		cur := root
		for range 10000 {
			child := a.New(GeometryCollection, false, false)
			cur.AppendPart(child)
			cur = child
		}
		cur.AppendPart(a.NewLeaf(Point, false, false, 0, 0))

		require.Equal(t, 10001, Depth(root))
		require.Equal(t, 1, VertexTotal(root))
	})

	t.Run("Depth", func(t *testing.T) {
		require.Equal(t, 0, Depth(a.NewLeaf(Point, false, false, 0, 0)))
		require.Equal(t, 0, Depth(a.New(MultiPolygon, false, false)))
		require.Equal(t, 2, Depth(gc))
	})
}

func TestExtent(t *testing.T) {
	a := NewArena()

	box, ok := Extent(a.NewContainer(MultiLineString, true, false,
		a.NewLeaf(LineString, true, false, -1, 2, 100, 3, 4, 100),
		a.NewLeaf(LineString, true, false, 0, -5, 100),
	))
	require.True(t, ok)
	require.Equal(t, Box{MinX: -1, MinY: -5, MaxX: 3, MaxY: 4}, box)

	_, ok = Extent(a.New(Polygon, false, false))
	require.False(t, ok)

	merged := Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}.Union(Box{MinX: -1, MinY: 0.5, MaxX: 0.5, MaxY: 2})
	require.Equal(t, Box{MinX: -1, MinY: 0, MaxX: 1, MaxY: 2}, merged)
}

func TestDims(t *testing.T) {
	a := NewArena()

	uniform := a.NewContainer(MultiPoint, true, false,
		a.NewLeaf(Point, true, false, 1, 2, 3),
	)
	require.False(t, HasMixedDims(uniform))

	mixed := a.NewContainer(GeometryCollection, false, false,
		a.NewLeaf(Point, false, false, 1, 2),
		a.NewLeaf(Point, false, true, 1, 2, 3),
	)
	require.True(t, HasMixedDims(mixed))

	anyZ, anyM := AnyDims(mixed)
	require.False(t, anyZ)
	require.True(t, anyM)
}

func TestIsClosed(t *testing.T) {
	a := NewArena()

	require.True(t, IsClosed(unitSquare(a).FirstPart()))
	require.False(t, IsClosed(a.NewLeaf(LineString, false, false, 0, 0, 1, 1)))
	require.False(t, IsClosed(a.New(LineString, false, false)))
	require.False(t, IsClosed(a.NewLeaf(LineString, true, false, 0, 0, 1, 1, 1, 1, 0, 0, 2)))
	require.False(t, IsClosed(unitSquare(a)))
}

func TestEqual(t *testing.T) {
	a := NewArena()
	b := NewArena()

	require.True(t, Equal(unitSquare(a), unitSquare(b)))
	require.True(t, Equal(Geometry{}, Geometry{}))
	require.False(t, Equal(unitSquare(a), Geometry{}))

	nan := math.NaN()
	require.True(t, Equal(a.NewLeaf(Point, false, false, nan, nan), b.NewLeaf(Point, false, false, nan, nan)))

	require.False(t, Equal(a.NewLeaf(Point, false, false, 0, 0), a.NewLeaf(Point, false, true, 0, 0, 0)))
	require.False(t, Equal(a.New(MultiPoint, false, false), a.New(MultiLineString, false, false)))
	require.False(t, Equal(
		a.NewContainer(MultiPoint, false, false, a.NewLeaf(Point, false, false, 0, 0)),
		a.NewContainer(MultiPoint, false, false, a.NewLeaf(Point, false, false, 0, 1)),
	))
}

func TestRebuild(t *testing.T) {
	src := NewArena()
	gc := src.NewContainer(GeometryCollection, false, false,
		src.NewLeaf(Point, false, false, 1, 2),
		unitSquare(src),
		src.New(MultiPoint, false, false),
	)

	t.Run("Clone into another arena", func(t *testing.T) {
		dst := NewArena()
		cp := Clone(dst, gc)

		require.Same(t, dst, cp.Arena())
		require.True(t, Equal(gc, cp))

		cp.FirstPart().Vertices()[0] = 42
		require.Equal(t, 1.0, gc.FirstPart().Vertex(0).X)
	})

	t.Run("Clone in the same arena", func(t *testing.T) {
		cp := Clone(src, gc)
		require.True(t, Equal(gc, cp))
		require.NotEqual(t, gc.Handle(), cp.Handle())
	})

	t.Run("FlipCoordinates", func(t *testing.T) {
		dst := NewArena()
		flipped := FlipCoordinates(dst, gc)
		require.Equal(t, Vertex{X: 2, Y: 1}, flipped.FirstPart().Vertex(0))
		require.Equal(t, Vertex{X: 1, Y: 0}, flipped.PartAt(1).FirstPart().Vertex(1))
	})

	t.Run("Nil geometry", func(t *testing.T) {
		require.True(t, Clone(NewArena(), Geometry{}).IsNil())
	})
}

func TestExtract(t *testing.T) {
	a := NewArena()
	gc := a.NewContainer(GeometryCollection, false, false,
		a.NewLeaf(Point, false, false, 1, 2),
		unitSquare(a),
		a.NewContainer(MultiLineString, false, false,
			a.NewLeaf(LineString, false, false, 0, 0, 5, 5),
		),
		a.NewContainer(GeometryCollection, false, false,
			a.NewLeaf(Point, false, false, 3, 4),
		),
	)

	points := Extract(a, gc, Point)
	require.Equal(t, MultiPoint, points.Kind())
	require.Equal(t, 2, points.PartCount())
	require.Equal(t, 3.0, points.LastPart().Vertex(0).X)

	lines := Extract(a, gc, LineString)
	require.Equal(t, 1, lines.PartCount())

	polys := Extract(a, gc, Polygon)
	require.Equal(t, 1, polys.PartCount())

	require.Panics(t, func() { Extract(a, gc, MultiPoint) })
}
