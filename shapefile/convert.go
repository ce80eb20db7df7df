package shapefile

import (
	"fmt"
	"math"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/jonas-p/go-shp"
)

// noDataM is the ESRI threshold below which a measure means "no data".
const noDataM = -1e38

// shapeParts is the common view of the multi-part shape records.
type shapeParts struct {
	parts  []int32
	points []shp.Point
	z      []float64
	m      []float64
	hasZ   bool
	hasM   bool
}

func newShapeParts(parts []int32, points []shp.Point, z, m []float64) (shapeParts, error) {
	s := shapeParts{parts: parts, points: points}

	if z != nil {
		if len(z) < len(points) {
			return shapeParts{}, errs.Malformed(errs.FormatShape, errs.NoOffset,
				"%d Z values for %d points", len(z), len(points))
		}
		s.z, s.hasZ = z, true
	}

	// The M section of Z shapes is optional and often filled with no-data values.
	if len(m) >= len(points) && hasMeasures(m[:len(points)]) {
		s.m, s.hasM = m, true
	}

	prev := int32(0)
	for i, start := range parts {
		if start < prev || int(start) > len(points) || (i == 0 && start != 0) {
			return shapeParts{}, errs.New(errs.FormatShape, errs.KindMalformedInput).
				Offset(errs.NoOffset).
				Value(start).
				Detail("part %d starts outside the %d points", i, len(points)).
				Build()
		}
		prev = start
	}

	return s, nil
}

func hasMeasures(m []float64) bool {
	for _, v := range m {
		if v > noDataM {
			return true
		}
	}

	return false
}

// partRange returns the point range of part i.
func (s shapeParts) partRange(i int) (start, end int) {
	start = int(s.parts[i])
	if i == len(s.parts)-1 {
		return start, len(s.points)
	}

	return start, int(s.parts[i+1])
}

// leaf copies points [start, end) into a new Point or LineString.
func (s shapeParts) leaf(arena *geometry.Arena, kind geometry.Kind, start, end int) geometry.Geometry {
	g := arena.New(kind, s.hasZ, s.hasM)
	data := arena.AllocVertices(end-start, s.hasZ, s.hasM)

	o := 0
	for i := start; i < end; i++ {
		data[o], data[o+1] = s.points[i].X, s.points[i].Y
		o += 2
		if s.hasZ {
			data[o] = s.z[i]
			o++
		}
		if s.hasM {
			data[o] = measure(s.m[i])
			o++
		}
	}
	g.SetVertices(data)

	return g
}

func measure(v float64) float64 {
	if v <= noDataM {
		return math.NaN()
	}

	return v
}

// signedArea is twice the shoelace area of ring i. Clockwise rings are negative.
func (s shapeParts) signedArea(i int) float64 {
	start, end := s.partRange(i)
	area := 0.0
	for j := start; j < end-1; j++ {
		area += s.points[j].X*s.points[j+1].Y - s.points[j+1].X*s.points[j].Y
	}

	return area
}

// lines converts a PolyLine: a single part is a LineString, anything else a
// MultiLineString.
func (s shapeParts) lines(arena *geometry.Arena) geometry.Geometry {
	if len(s.parts) == 1 {
		start, end := s.partRange(0)
		return s.leaf(arena, geometry.LineString, start, end)
	}

	mls := arena.New(geometry.MultiLineString, s.hasZ, s.hasM)
	for i := range s.parts {
		start, end := s.partRange(i)
		mls.AppendPart(s.leaf(arena, geometry.LineString, start, end))
	}

	return mls
}

// polygons converts a Polygon shape. Every clockwise ring starts a new polygon and the
// rings that follow it are its holes. With fewer than two clockwise rings all rings form
// a single Polygon, whatever their winding. Rings ahead of the first clockwise ring
// belong to the first polygon.
func (s shapeParts) polygons(arena *geometry.Arena) geometry.Geometry {
	var shells []int
	for i := range s.parts {
		if s.signedArea(i) < 0 {
			shells = append(shells, i)
		}
	}

	if len(shells) < 2 {
		return s.polygon(arena, 0, len(s.parts))
	}

	shells[0] = 0
	mp := arena.New(geometry.MultiPolygon, s.hasZ, s.hasM)
	for i, first := range shells {
		last := len(s.parts)
		if i+1 < len(shells) {
			last = shells[i+1]
		}
		mp.AppendPart(s.polygon(arena, first, last))
	}

	return mp
}

func (s shapeParts) polygon(arena *geometry.Arena, first, last int) geometry.Geometry {
	poly := arena.New(geometry.Polygon, s.hasZ, s.hasM)
	for i := first; i < last; i++ {
		start, end := s.partRange(i)
		poly.AppendPart(s.leaf(arena, geometry.LineString, start, end))
	}

	return poly
}

func (s shapeParts) multiPoint(arena *geometry.Arena) geometry.Geometry {
	mp := arena.New(geometry.MultiPoint, s.hasZ, s.hasM)
	for i := range s.points {
		mp.AppendPart(s.leaf(arena, geometry.Point, i, i+1))
	}

	return mp
}

// convert builds the geometry of one shape record. The second result is false for a
// null shape.
func convert(arena *geometry.Arena, shape shp.Shape) (geometry.Geometry, bool, error) {
	var (
		s   shapeParts
		err error
	)

	switch v := shape.(type) {
	case nil, *shp.Null:
		return geometry.Geometry{}, false, nil

	case *shp.Point:
		return arena.NewPoint(false, false, v.X, v.Y), true, nil
	case *shp.PointZ:
		if v.M > noDataM {
			return arena.NewPoint(true, true, v.X, v.Y, v.Z, v.M), true, nil
		}
		return arena.NewPoint(true, false, v.X, v.Y, v.Z), true, nil
	case *shp.PointM:
		return arena.NewPoint(false, true, v.X, v.Y, measure(v.M)), true, nil

	case *shp.PolyLine:
		if s, err = newShapeParts(v.Parts, v.Points, nil, nil); err == nil {
			return s.lines(arena), true, nil
		}
	case *shp.PolyLineZ:
		if s, err = newShapeParts(v.Parts, v.Points, v.ZArray, v.MArray); err == nil {
			return s.lines(arena), true, nil
		}
	case *shp.PolyLineM:
		if s, err = newMeasured(v.Parts, v.Points, v.MArray); err == nil {
			return s.lines(arena), true, nil
		}

	case *shp.Polygon:
		if s, err = newShapeParts(v.Parts, v.Points, nil, nil); err == nil {
			return s.polygons(arena), true, nil
		}
	case *shp.PolygonZ:
		if s, err = newShapeParts(v.Parts, v.Points, v.ZArray, v.MArray); err == nil {
			return s.polygons(arena), true, nil
		}
	case *shp.PolygonM:
		if s, err = newMeasured(v.Parts, v.Points, v.MArray); err == nil {
			return s.polygons(arena), true, nil
		}

	case *shp.MultiPoint:
		if s, err = newShapeParts(nil, v.Points, nil, nil); err == nil {
			return s.multiPoint(arena), true, nil
		}
	case *shp.MultiPointZ:
		if s, err = newShapeParts(nil, v.Points, v.ZArray, v.MArray); err == nil {
			return s.multiPoint(arena), true, nil
		}
	case *shp.MultiPointM:
		if s, err = newMeasured(nil, v.Points, v.MArray); err == nil {
			return s.multiPoint(arena), true, nil
		}

	case *shp.MultiPatch:
		return geometry.Geometry{}, false, errs.Unsupported(errs.FormatShape, errs.NoOffset,
			ShapeTypeName(shp.MULTIPATCH), "shape type")
	default:
		return geometry.Geometry{}, false, errs.Unsupported(errs.FormatShape, errs.NoOffset,
			fmt.Sprintf("%T", shape), "shape type")
	}

	return geometry.Geometry{}, false, err
}

// newMeasured builds the parts of an M shape, which always carries M even when every
// value is no-data.
func newMeasured(parts []int32, points []shp.Point, m []float64) (shapeParts, error) {
	s, err := newShapeParts(parts, points, nil, nil)
	if err != nil {
		return shapeParts{}, err
	}
	if len(m) < len(points) {
		return shapeParts{}, errs.Malformed(errs.FormatShape, errs.NoOffset,
			"%d M values for %d points", len(m), len(points))
	}
	s.m, s.hasM = m, true

	return s, nil
}
