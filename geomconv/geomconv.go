// Package geomconv converts between arena geometries and github.com/twpayne/go-geom values.
package geomconv

import (
	"fmt"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/normalize"
	"github.com/twpayne/go-geom"
)

// Layout returns the go-geom layout for the given dimensionality.
func Layout(hasZ, hasM bool) geom.Layout {
	switch {
	case hasZ && hasM:
		return geom.XYZM
	case hasZ:
		return geom.XYZ
	case hasM:
		return geom.XYM
	default:
		return geom.XY
	}
}

// Dims returns the dimensionality of a go-geom layout. NoLayout, used by empty
// collections, is XY.
func Dims(layout geom.Layout) (hasZ, hasM bool, err error) {
	switch layout {
	case geom.NoLayout, geom.XY:
		return false, false, nil
	case geom.XYZ:
		return true, false, nil
	case geom.XYM:
		return false, true, nil
	case geom.XYZM:
		return true, true, nil
	default:
		return false, false, errs.Unsupported(errs.FormatGeom, errs.NoOffset, int(layout), "layout")
	}
}

// ToGeom converts g to the equivalent go-geom value. An empty collection has no layout in
// go-geom, so its Z and M flags are lost.
func ToGeom(g geometry.Geometry) (geom.T, error) {
	if g.IsNil() {
		return nil, errs.ErrNilGeometry
	}

	layout := Layout(g.HasZ(), g.HasM())

	switch g.Kind() {
	case geometry.Point:
		if g.VertexCount() == 0 {
			return geom.NewPointEmpty(layout), nil
		}
		return geom.NewPointFlat(layout, clone(g.Vertices())), nil

	case geometry.LineString:
		return geom.NewLineStringFlat(layout, clone(g.Vertices())), nil

	case geometry.Polygon:
		flat, ends := rings(nil, nil, g)
		return geom.NewPolygonFlat(layout, flat, ends), nil

	case geometry.MultiPoint:
		mp := geom.NewMultiPoint(layout)
		for p := range g.Parts() {
			point := geom.NewPointEmpty(layout)
			if p.VertexCount() > 0 {
				point = geom.NewPointFlat(layout, clone(p.Vertices()))
			}
			if err := mp.Push(point); err != nil {
				return nil, wrap(err)
			}
		}
		return mp, nil

	case geometry.MultiLineString:
		flat, ends := rings(nil, nil, g)
		return geom.NewMultiLineStringFlat(layout, flat, ends), nil

	case geometry.MultiPolygon:
		var (
			flat  []float64
			endss [][]int
		)
		for p := range g.Parts() {
			var ends []int
			flat, ends = rings(flat, nil, p)
			endss = append(endss, ends)
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss), nil

	case geometry.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for p := range g.Parts() {
			t, err := ToGeom(p)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(t); err != nil {
				return nil, wrap(err)
			}
		}
		return gc, nil

	default:
		return nil, errs.Unsupported(errs.FormatGeom, errs.NoOffset, g.Kind().String(), "geometry kind")
	}
}

// rings appends the vertices of the line parts of g to flat and their end offsets to ends.
func rings(flat []float64, ends []int, g geometry.Geometry) ([]float64, []int) {
	for ring := range g.Parts() {
		flat = append(flat, ring.Vertices()...)
		ends = append(ends, len(flat))
	}

	return flat, ends
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

func wrap(err error) error {
	return errs.New(errs.FormatGeom, errs.KindMalformedInput).
		Offset(errs.NoOffset).
		Cause(err).
		Detail("go-geom rejected the value").
		Build()
}

// FromGeom converts a go-geom value into arena. Collection members with different
// layouts are reconciled to the union of their dimensions.
func FromGeom(arena *geometry.Arena, t geom.T) (geometry.Geometry, error) {
	if t == nil {
		return geometry.Geometry{}, errs.ErrNilGeometry
	}

	g, err := fromGeom(arena, t)
	if err != nil {
		return geometry.Geometry{}, err
	}

	if geometry.HasMixedDims(g) {
		g = normalize.Reconcile(arena, g)
	}

	return g, nil
}

func fromGeom(arena *geometry.Arena, t geom.T) (geometry.Geometry, error) {
	hasZ, hasM, err := Dims(t.Layout())
	if err != nil {
		return geometry.Geometry{}, err
	}

	switch v := t.(type) {
	case *geom.Point:
		return arena.NewPoint(hasZ, hasM, v.FlatCoords()...), nil

	case *geom.LineString:
		return arena.NewLineString(hasZ, hasM, v.FlatCoords()...), nil

	case *geom.Polygon:
		return lines(arena, geometry.Polygon, hasZ, hasM, v.FlatCoords(), 0, v.Ends()), nil

	case *geom.MultiPoint:
		mp := arena.New(geometry.MultiPoint, hasZ, hasM)
		for i := range v.NumPoints() {
			mp.AppendPart(arena.NewPoint(hasZ, hasM, v.Point(i).FlatCoords()...))
		}
		return mp, nil

	case *geom.MultiLineString:
		return lines(arena, geometry.MultiLineString, hasZ, hasM, v.FlatCoords(), 0, v.Ends()), nil

	case *geom.MultiPolygon:
		mp := arena.New(geometry.MultiPolygon, hasZ, hasM)
		start := 0
		for _, ends := range v.Endss() {
			mp.AppendPart(lines(arena, geometry.Polygon, hasZ, hasM, v.FlatCoords(), start, ends))
			if len(ends) > 0 {
				start = ends[len(ends)-1]
			}
		}
		return mp, nil

	case *geom.GeometryCollection:
		parts := make([]geometry.Geometry, 0, v.NumGeoms())
		var anyZ, anyM bool
		for _, member := range v.Geoms() {
			part, err := fromGeom(arena, member)
			if err != nil {
				return geometry.Geometry{}, err
			}
			anyZ = anyZ || part.HasZ()
			anyM = anyM || part.HasM()
			parts = append(parts, part)
		}
		return arena.NewContainer(geometry.GeometryCollection, anyZ, anyM, parts...), nil

	default:
		return geometry.Geometry{}, errs.Unsupported(errs.FormatGeom, errs.NoOffset, fmt.Sprintf("%T", t), "go-geom type")
	}
}

// lines builds a container of LineStrings from flat[start:] split at ends.
func lines(arena *geometry.Arena, kind geometry.Kind, hasZ, hasM bool, flat []float64, start int, ends []int) geometry.Geometry {
	g := arena.New(kind, hasZ, hasM)
	for _, end := range ends {
		g.AppendPart(arena.NewLineString(hasZ, hasM, flat[start:end]...))
		start = end
	}

	return g
}
