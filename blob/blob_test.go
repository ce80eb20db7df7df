package blob

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/section"
	"github.com/stretchr/testify/require"
)

// coords returns n vertices of the given stride with distinct ordinates.
func coords(n, stride int, seed float64) []float64 {
	out := make([]float64, n*stride)
	for i := range out {
		out[i] = seed + float64(i)*0.5
	}

	return out
}

// fixtures returns one geometry of every kind, plus empties, with the given dims.
func fixtures(a *geometry.Arena, hasZ, hasM bool) map[string]geometry.Geometry {
	s := geometry.Stride(hasZ, hasM)
	ring := func(seed float64) geometry.Geometry {
		c := coords(4, s, seed)
		c = append(c, c[:s]...)
		return a.NewLineString(hasZ, hasM, c...)
	}
	polygon := func(seed float64) geometry.Geometry {
		return a.NewContainer(geometry.Polygon, hasZ, hasM, ring(seed), ring(seed+100))
	}

	return map[string]geometry.Geometry{
		"point":                    a.NewPoint(hasZ, hasM, coords(1, s, 1)...),
		"empty point":              a.NewPoint(hasZ, hasM),
		"linestring":               a.NewLineString(hasZ, hasM, coords(3, s, 2)...),
		"empty linestring":         a.NewLineString(hasZ, hasM),
		"polygon":                  polygon(3),
		"empty polygon":            a.New(geometry.Polygon, hasZ, hasM),
		"multipoint":               a.NewContainer(geometry.MultiPoint, hasZ, hasM, a.NewPoint(hasZ, hasM, coords(1, s, 4)...), a.NewPoint(hasZ, hasM)),
		"empty multipoint":         a.New(geometry.MultiPoint, hasZ, hasM),
		"multilinestring":          a.NewContainer(geometry.MultiLineString, hasZ, hasM, a.NewLineString(hasZ, hasM, coords(2, s, 5)...), a.NewLineString(hasZ, hasM)),
		"multipolygon":             a.NewContainer(geometry.MultiPolygon, hasZ, hasM, polygon(6), a.New(geometry.Polygon, hasZ, hasM)),
		"empty multipolygon":       a.New(geometry.MultiPolygon, hasZ, hasM),
		"geometrycollection":       a.NewContainer(geometry.GeometryCollection, hasZ, hasM, a.NewPoint(hasZ, hasM, coords(1, s, 7)...), polygon(8), a.New(geometry.MultiPoint, hasZ, hasM), a.NewContainer(geometry.GeometryCollection, hasZ, hasM, a.NewLineString(hasZ, hasM, coords(2, s, 9)...))),
		"empty geometrycollection": a.New(geometry.GeometryCollection, hasZ, hasM),
	}
}

var dimCases = []struct {
	name       string
	hasZ, hasM bool
}{
	{"XY", false, false},
	{"XYZ", true, false},
	{"XYM", false, true},
	{"XYZM", true, true},
}

func TestRoundTrip(t *testing.T) {
	optionSets := map[string][]Option{
		"default":         nil,
		"big endian":      {WithBigEndian()},
		"checksum":        {WithChecksum(true)},
		"big endian+view": {WithBigEndian(), WithViewVertices()},
		"view":            {WithViewVertices(), WithChecksum(true)},
	}

	for _, dc := range dimCases {
		src := geometry.NewArena()
		for name, g := range fixtures(src, dc.hasZ, dc.hasM) {
			for optName, opts := range optionSets {
				t.Run(fmt.Sprintf("%s %s %s", dc.name, name, optName), func(t *testing.T) {
					size, err := RequiredSize(g, opts...)
					require.NoError(t, err)

					buf := make([]byte, size)
					n, err := Serialize(g, buf, opts...)
					require.NoError(t, err)
					require.Equal(t, size, n)

					dst := geometry.NewArena()
					out, err := Deserialize(dst, buf, opts...)
					require.NoError(t, err)
					require.True(t, geometry.Equal(g, out), "got %s want %s", out, g)
				})
			}
		}
	}
}

func TestRoundTrip_PointZ(t *testing.T) {
	a := geometry.NewArena()
	p := a.NewPoint(true, false, 1, 2, 3)

	data, err := Marshal(p)
	require.NoError(t, err)

	out, err := Deserialize(geometry.NewArena(), data)
	require.NoError(t, err)
	require.Equal(t, geometry.Point, out.Kind())
	require.True(t, out.HasZ())
	require.False(t, out.HasM())
	require.Equal(t, geometry.Vertex{X: 1, Y: 2, Z: 3}, out.Vertex(0))
}

func TestRequiredSize(t *testing.T) {
	a := geometry.NewArena()

	t.Run("Layout arithmetic", func(t *testing.T) {
		ring := a.NewLineString(false, false, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0)
		poly := a.NewContainer(geometry.Polygon, false, false, ring)

		size, err := RequiredSize(poly)
		require.NoError(t, err)
		// header + polygon node + ring node + 5 XY vertices
		require.Equal(t, 8+8+8+5*16, size)

		size, err = RequiredSize(poly, WithChecksum(true))
		require.NoError(t, err)
		require.Equal(t, 8+8+8+5*16+8, size)
	})

	t.Run("Nil geometry", func(t *testing.T) {
		_, err := RequiredSize(geometry.Geometry{})
		require.ErrorIs(t, err, errs.ErrNilGeometry)
	})

	t.Run("Mixed dims", func(t *testing.T) {
		gc := a.NewContainer(geometry.GeometryCollection, false, false,
			a.NewPoint(false, false, 1, 2),
			a.NewPoint(true, false, 1, 2, 3),
		)
		_, err := RequiredSize(gc)
		require.ErrorIs(t, err, errs.ErrInconsistentDimensionality)

		_, err = Serialize(gc, make([]byte, 1024))
		require.ErrorIs(t, err, errs.ErrInconsistentDimensionality)
	})

	t.Run("Invalid option", func(t *testing.T) {
		_, err := RequiredSize(a.NewPoint(false, false), WithMaxDepth(0))
		require.Error(t, err)
	})
}

func TestSerialize_ShortBuffer(t *testing.T) {
	a := geometry.NewArena()
	g := a.NewLineString(false, false, 0, 0, 1, 1)

	size, err := RequiredSize(g)
	require.NoError(t, err)

	buf := make([]byte, size-1)
	_, err = Serialize(g, buf)
	require.ErrorIs(t, err, errs.ErrShortBuffer)
	require.Equal(t, make([]byte, size-1), buf)

	// Larger buffers are fine; only the prefix is written.
	buf = make([]byte, size+16)
	n, err := Serialize(g, buf)
	require.NoError(t, err)
	require.Equal(t, size, n)
}

func TestAppend(t *testing.T) {
	a := geometry.NewArena()
	p1 := a.NewPoint(false, false, 1, 2)
	p2 := a.NewPoint(false, false, 3, 4)

	buf, err := Append([]byte("prefix"), p1)
	require.NoError(t, err)
	mid := len(buf)
	buf, err = Append(buf, p2)
	require.NoError(t, err)
	require.Equal(t, "prefix", string(buf[:6]))

	out, err := Deserialize(a, buf[6:mid])
	require.NoError(t, err)
	require.True(t, geometry.Equal(p1, out))

	out, err = Deserialize(a, buf[mid:])
	require.NoError(t, err)
	require.True(t, geometry.Equal(p2, out))
}

func TestPeek(t *testing.T) {
	a := geometry.NewArena()
	data, err := Marshal(a.New(geometry.MultiPolygon, true, true), WithBigEndian())
	require.NoError(t, err)

	h, err := Peek(data)
	require.NoError(t, err)
	require.Equal(t, geometry.MultiPolygon, h.Kind)
	require.True(t, h.HasZ())
	require.True(t, h.HasM())
	require.True(t, h.Options.IsBigEndian())

	_, err = Peek(data[:4])
	require.ErrorIs(t, err, errs.ErrMalformedInput)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestDeserialize_ViewVertices(t *testing.T) {
	a := geometry.NewArena()
	g := a.NewLineString(false, false, 1, 2, 3, 4)

	size, err := RequiredSize(g)
	require.NoError(t, err)

	// A float64 backing array guarantees 8-byte alignment.
	backing := make([]float64, size/8)
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), size)
	_, err = Serialize(g, buf)
	require.NoError(t, err)

	view, err := Deserialize(geometry.NewArena(), buf, WithViewVertices())
	require.NoError(t, err)
	require.True(t, geometry.Equal(g, view))

	copied, err := Deserialize(geometry.NewArena(), buf)
	require.NoError(t, err)

	// Overwrite the first X ordinate in the input.
	for i := range 8 {
		buf[section.GeometryHeaderSize+section.NodeHeaderSize+i] = 0
	}
	require.Equal(t, 1.0, copied.Vertex(0).X)

	x := view.Vertex(0).X
	if &view.Vertices()[0] == &backing[2] {
		require.Zero(t, x)
	} else {
		require.Equal(t, 1.0, x)
	}
}

func TestDeserialize_Malformed(t *testing.T) {
	a := geometry.NewArena()
	poly := a.NewContainer(geometry.Polygon, false, false,
		a.NewLineString(false, false, 0, 0, 0, 1, 1, 1, 0, 0),
	)
	valid, err := Marshal(poly)
	require.NoError(t, err)

	clone := func() []byte { return append([]byte(nil), valid...) }
	le := func(b []byte, off int, v uint32) {
		b[off], b[off+1], b[off+2], b[off+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}

	tests := []struct {
		name   string
		data   func() []byte
		sentry error
	}{
		{"Empty input", func() []byte { return nil }, errs.ErrInvalidHeaderSize},
		{"Bad magic", func() []byte { b := clone(); b[1] = 0; return b }, errs.ErrInvalidMagicNumber},
		{"Truncated body", func() []byte { return valid[:len(valid)-8] }, nil},
		{"Truncated node header", func() []byte { return valid[:12] }, nil},
		{"Trailing bytes", func() []byte { return append(clone(), make([]byte, 8)...) }, nil},
		{"Unknown node kind", func() []byte { b := clone(); le(b, 8, 42); return b }, nil},
		{"Root kind differs from header", func() []byte { b := clone(); le(b, 8, uint32(geometry.MultiLineString)); return b }, nil},
		{"Polygon part is not a ring", func() []byte { b := clone(); le(b, 16, uint32(geometry.Point)); return b }, nil},
		{"Huge vertex count", func() []byte { b := clone(); le(b, 20, math.MaxUint32); return b }, nil},
		{"Huge part count", func() []byte { b := clone(); le(b, 12, math.MaxUint32); return b }, nil},
		{"Point with two vertices", func() []byte {
			b, _ := Marshal(a.NewPoint(false, false, 1, 2))
			b = append(b, make([]byte, 16)...)
			le(b, 12, 2)
			return b
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(geometry.NewArena(), tt.data())
			require.ErrorIs(t, err, errs.ErrMalformedInput)

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, errs.FormatBlob, e.Format)
			if tt.sentry != nil {
				require.ErrorIs(t, err, tt.sentry)
			}
		})
	}
}

func TestDeserialize_Checksum(t *testing.T) {
	a := geometry.NewArena()
	data, err := Marshal(a.NewLineString(true, false, 1, 2, 3, 4, 5, 6), WithChecksum(true))
	require.NoError(t, err)

	_, err = Deserialize(a, data)
	require.NoError(t, err)

	data[20] ^= 0x01
	_, err = Deserialize(a, data)
	require.ErrorIs(t, err, errs.ErrMalformedInput)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	_, err = Deserialize(a, data[:section.GeometryHeaderSize+4])
	require.ErrorIs(t, err, errs.ErrMalformedInput)
}

func nested(a *geometry.Arena, depth int) geometry.Geometry {
	root := a.New(geometry.GeometryCollection, false, false)
	cur := root
	for range depth - 1 {
		child := a.New(geometry.GeometryCollection, false, false)
		cur.AppendPart(child)
		cur = child
	}
	cur.AppendPart(a.NewPoint(false, false, 1, 1))

	return root
}

func TestDeserialize_Depth(t *testing.T) {
	const capacity = 16
	a := geometry.NewArena()

	t.Run("At capacity", func(t *testing.T) {
		data, err := Marshal(nested(a, capacity))
		require.NoError(t, err)

		out, err := Deserialize(a, data, WithMaxDepth(capacity))
		require.NoError(t, err)
		require.Equal(t, capacity, geometry.Depth(out))
	})

	for _, depth := range []int{capacity + 1, 10 * capacity} {
		t.Run(fmt.Sprintf("Depth %d", depth), func(t *testing.T) {
			data, err := Marshal(nested(a, depth))
			require.NoError(t, err)

			_, err = Deserialize(a, data, WithMaxDepth(capacity))
			require.ErrorIs(t, err, errs.ErrTooDeeplyNested)
		})
	}

	t.Run("Default bound", func(t *testing.T) {
		data, err := Marshal(nested(a, DefaultMaxDepth+1))
		require.NoError(t, err)

		_, err = Deserialize(a, data)
		require.ErrorIs(t, err, errs.ErrTooDeeplyNested)
	})
}
