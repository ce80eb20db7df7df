package geojson

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	gogeojson "github.com/twpayne/go-geom/encoding/geojson"
)

func TestMarshal(t *testing.T) {
	a := geometry.NewArena()
	ring := func() geometry.Geometry {
		return a.NewLineString(false, false, 0, 0, 1, 0, 1, 1, 0, 0)
	}

	tests := []struct {
		name string
		g    geometry.Geometry
		want string
	}{
		{"Point", a.NewPoint(false, false, 1, 2.5), `{"type":"Point","coordinates":[1,2.5]}`},
		{"Point Z", a.NewPoint(true, false, 1, 2, 3), `{"type":"Point","coordinates":[1,2,3]}`},
		{"Point M is dropped", a.NewPoint(false, true, 1, 2, 9), `{"type":"Point","coordinates":[1,2]}`},
		{"Point ZM keeps Z", a.NewPoint(true, true, 1, 2, 3, 9), `{"type":"Point","coordinates":[1,2,3]}`},
		{"Empty point", a.NewPoint(false, false), `{"type":"Point","coordinates":[]}`},
		{"LineString", a.NewLineString(false, false, 1, 2, 3, 4), `{"type":"LineString","coordinates":[[1,2],[3,4]]}`},
		{"Empty linestring", a.New(geometry.LineString, false, false), `{"type":"LineString","coordinates":[]}`},
		{"Polygon", a.NewContainer(geometry.Polygon, false, false, ring()), `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`},
		{"MultiPoint", a.NewContainer(geometry.MultiPoint, false, false,
			a.NewPoint(false, false, 1, 2), a.NewPoint(false, false, 3, 4)), `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`},
		{"Empty multipoint", a.New(geometry.MultiPoint, false, false), `{"type":"MultiPoint","coordinates":[]}`},
		{"MultiLineString", a.NewContainer(geometry.MultiLineString, false, false,
			a.NewLineString(false, false, 1, 2, 3, 4), a.NewLineString(false, false, 5, 6, 7, 8)),
			`{"type":"MultiLineString","coordinates":[[[1,2],[3,4]],[[5,6],[7,8]]]}`},
		{"MultiPolygon", a.NewContainer(geometry.MultiPolygon, false, false,
			a.NewContainer(geometry.Polygon, false, false, ring()), a.New(geometry.Polygon, false, false)),
			`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[]]}`},
		{"GeometryCollection", a.NewContainer(geometry.GeometryCollection, false, false,
			a.NewPoint(false, false, 1, 2),
			a.NewContainer(geometry.GeometryCollection, false, false),
			a.NewContainer(geometry.MultiPoint, false, false, a.NewPoint(false, false, 3, 4))),
			`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]},` +
				`{"type":"GeometryCollection","geometries":[]},{"type":"MultiPoint","coordinates":[[3,4]]}]}`},
		{"Extreme exponents", a.NewPoint(false, false, 1e-7, 1e21), `{"type":"Point","coordinates":[1e-07,1e+21]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Marshal(tt.g)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(out))
			require.True(t, json.Valid(out))
		})
	}

	t.Run("Nil geometry", func(t *testing.T) {
		_, err := Marshal(geometry.Geometry{})
		require.ErrorIs(t, err, errs.ErrNilGeometry)
	})

	t.Run("Non finite coordinate", func(t *testing.T) {
		out, err := Append([]byte("x"), a.NewLineString(false, false, 1, 2, math.NaN(), 4))
		require.ErrorIs(t, err, errs.ErrMalformedInput)
		require.Equal(t, "x", string(out))
	})
}

func TestUnmarshal(t *testing.T) {
	t.Run("Point", func(t *testing.T) {
		g, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"Point","coordinates":[1,2]}`))
		require.NoError(t, err)
		require.Equal(t, geometry.Point, g.Kind())
		require.False(t, g.HasZ())
		require.Equal(t, []float64{1, 2}, g.Vertices())
	})

	t.Run("Fourth ordinate is ignored", func(t *testing.T) {
		g, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"Point","coordinates":[1,2,3,4]}`))
		require.NoError(t, err)
		require.True(t, g.HasZ())
		require.False(t, g.HasM())
		require.Equal(t, []float64{1, 2, 3}, g.Vertices())
	})

	t.Run("Mixed positions become Z", func(t *testing.T) {
		g, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"LineString","coordinates":[[1,2],[3,4,5]]}`))
		require.NoError(t, err)
		require.True(t, g.HasZ())
		require.Equal(t, []float64{1, 2, 0, 3, 4, 5}, g.Vertices())
	})

	t.Run("Mixed parts become Z", func(t *testing.T) {
		g, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"GeometryCollection","geometries":[`+
			`{"type":"Point","coordinates":[1,2]},{"type":"MultiPoint","coordinates":[[3,4,5]]}]}`))
		require.NoError(t, err)
		require.False(t, geometry.HasMixedDims(g))
		require.True(t, g.HasZ())
		require.Equal(t, []float64{1, 2, 0}, g.PartAt(0).Vertices())
	})

	t.Run("Feature is unwrapped", func(t *testing.T) {
		g, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"Feature","properties":{"name":"a"},`+
			`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`))
		require.NoError(t, err)
		require.Equal(t, geometry.Polygon, g.Kind())
		require.Equal(t, 4, g.PartAt(0).VertexCount())
	})

	t.Run("Empty values", func(t *testing.T) {
		for _, text := range []string{
			`{"type":"Point","coordinates":[]}`,
			`{"type":"MultiPolygon","coordinates":[]}`,
			`{"type":"GeometryCollection","geometries":[]}`,
		} {
			g, err := Unmarshal(geometry.NewArena(), []byte(text))
			require.NoError(t, err, text)
			require.True(t, g.IsEmpty(), text)
		}
	})
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind error
	}{
		{"Syntax error", `{"type":"Point",`, errs.ErrMalformedInput},
		{"Unknown type", `{"type":"Circle","coordinates":[1,2]}`, errs.ErrUnsupportedType},
		{"Feature collection", `{"type":"FeatureCollection","features":[]}`, errs.ErrUnsupportedType},
		{"Missing coordinates", `{"type":"Point"}`, errs.ErrMalformedInput},
		{"Short position", `{"type":"LineString","coordinates":[[1,2],[3]]}`, errs.ErrMalformedInput},
		{"Wrong nesting", `{"type":"Polygon","coordinates":[1,2]}`, errs.ErrMalformedInput},
		{"Feature without geometry", `{"type":"Feature","geometry":null}`, errs.ErrMalformedInput},
		{"Null collection member", `{"type":"GeometryCollection","geometries":[null]}`, errs.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(geometry.NewArena(), []byte(tt.in))
			require.ErrorIs(t, err, tt.kind)

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, errs.FormatGeoJSON, e.Format)
		})
	}

	t.Run("Syntax errors carry the offset", func(t *testing.T) {
		_, err := Unmarshal(geometry.NewArena(), []byte(`{"type":"Point","coordinates":[1,x]}`))
		var e *errs.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, 34, e.Offset)
	})
}

func nestedCollections(depth int) string {
	return strings.Repeat(`{"type":"GeometryCollection","geometries":[`, depth) +
		`{"type":"Point","coordinates":[1,2]}` + strings.Repeat(`]}`, depth)
}

func TestUnmarshal_Depth(t *testing.T) {
	const capacity = 8

	g, err := Unmarshal(geometry.NewArena(), []byte(nestedCollections(capacity)), WithMaxDepth(capacity))
	require.NoError(t, err)
	require.Equal(t, capacity, geometry.Depth(g))

	_, err = Unmarshal(geometry.NewArena(), []byte(nestedCollections(capacity+1)), WithMaxDepth(capacity))
	require.ErrorIs(t, err, errs.ErrTooDeeplyNested)

	_, err = Unmarshal(geometry.NewArena(), []byte(nestedCollections(10*capacity)), WithMaxDepth(capacity))
	require.ErrorIs(t, err, errs.ErrTooDeeplyNested)

	_, err = Unmarshal(geometry.NewArena(), []byte(nestedCollections(1)), WithMaxDepth(-1))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	a := geometry.NewArena()
	values := []geometry.Geometry{
		a.NewPoint(true, false, 1, 2, 3),
		a.NewLineString(false, false, 0.5, 1.5, -2, 3e-9),
		a.NewContainer(geometry.MultiPolygon, true, false,
			a.NewContainer(geometry.Polygon, true, false,
				a.NewLineString(true, false, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 0, 1))),
		a.NewContainer(geometry.GeometryCollection, false, false,
			a.NewContainer(geometry.GeometryCollection, false, false, a.NewPoint(false, false, 1, 2)),
			a.New(geometry.MultiLineString, false, false)),
	}

	for _, g := range values {
		t.Run(g.Kind().Name(), func(t *testing.T) {
			data, err := Marshal(g)
			require.NoError(t, err)

			got, err := Unmarshal(geometry.NewArena(), data)
			require.NoError(t, err)
			require.True(t, geometry.Equal(g, got), "got %s", data)
		})
	}
}

func TestGoGeomOracle(t *testing.T) {
	values := []geom.T{
		geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3}),
		geom.NewLineStringFlat(geom.XY, []float64{1, 2, 3, 4}),
		geom.NewPolygonFlat(geom.XY, []float64{0, 0, 0, 1, 1, 1, 0, 0}, []int{8}),
		geom.NewMultiPolygonFlat(geom.XYZ, []float64{0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 0, 1}, [][]int{{12}}),
	}

	for _, want := range values {
		data, err := gogeojson.Marshal(want)
		require.NoError(t, err)

		t.Run(string(data), func(t *testing.T) {
			g, err := Unmarshal(geometry.NewArena(), data)
			require.NoError(t, err)
			require.Equal(t, want.Layout() == geom.XYZ, g.HasZ())

			ours, err := Marshal(g)
			require.NoError(t, err)
			require.JSONEq(t, string(data), string(ours))
		})
	}
}
