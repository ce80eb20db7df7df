package geojson

import (
	"math"
	"strconv"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/pool"
)

// Marshal encodes g as a GeoJSON geometry object. M ordinates are dropped. Non-finite
// coordinates cannot be represented and are rejected.
func Marshal(g geometry.Geometry) ([]byte, error) {
	buf := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(buf)

	out, err := Append(buf.B, g)
	if err != nil {
		return nil, err
	}
	buf.B = out

	return append([]byte(nil), out...), nil
}

// Append appends the GeoJSON encoding of g to dst.
func Append(dst []byte, g geometry.Geometry) ([]byte, error) {
	if g.IsNil() {
		return dst, errs.ErrNilGeometry
	}

	start := len(dst)
	var err error

	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		kind := cur.Kind()
		isRoot := cur.Handle() == g.Handle()
		// Roots and collection members are objects; everything else is a coordinate array.
		isObject := isRoot || cur.Parent().Kind() == geometry.GeometryCollection

		if leaving {
			switch {
			case kind == geometry.GeometryCollection:
				dst = append(dst, "]}"...)
			case kind.IsContainer():
				dst = append(dst, ']')
				if isObject {
					dst = append(dst, '}')
				}
			case isObject:
				dst = append(dst, '}')
			}
			return true
		}

		if !isRoot && cur.Parent().FirstPart().Handle() != cur.Handle() {
			dst = append(dst, ',')
		}

		if isObject {
			dst = append(dst, `{"type":"`...)
			dst = append(dst, kind.Name()...)
			if kind == geometry.GeometryCollection {
				dst = append(dst, `","geometries":[`...)
				return true
			}
			dst = append(dst, `","coordinates":`...)
		}

		switch kind {
		case geometry.Point:
			dst, err = appendPosition(dst, cur)
		case geometry.LineString:
			dst = append(dst, '[')
			for i := range cur.VertexCount() {
				if i > 0 {
					dst = append(dst, ',')
				}
				if dst, err = appendVertex(dst, cur, i); err != nil {
					break
				}
			}
			dst = append(dst, ']')
		default:
			dst = append(dst, '[')
		}

		return err == nil
	})

	if err != nil {
		return dst[:start], err
	}

	return dst, nil
}

// appendPosition writes a Point's position, or [] for the empty point.
func appendPosition(dst []byte, p geometry.Geometry) ([]byte, error) {
	if p.VertexCount() == 0 {
		return append(dst, "[]"...), nil
	}

	return appendVertex(dst, p, 0)
}

func appendVertex(dst []byte, g geometry.Geometry, i int) ([]byte, error) {
	v := g.Vertex(i)
	ordinates := [3]float64{v.X, v.Y, v.Z}
	n := 2
	if g.HasZ() {
		n = 3
	}

	dst = append(dst, '[')
	for j, o := range ordinates[:n] {
		if math.IsNaN(o) || math.IsInf(o, 0) {
			return dst, errs.New(errs.FormatGeoJSON, errs.KindMalformedInput).
				Offset(errs.NoOffset).
				Value(o).
				Detail("non-finite coordinate in %s", g.Kind().Name()).
				Build()
		}
		if j > 0 {
			dst = append(dst, ',')
		}
		dst = appendFloat(dst, o)
	}

	return append(dst, ']'), nil
}

// appendFloat formats like encoding/json: plain notation unless the exponent is extreme.
func appendFloat(dst []byte, v float64) []byte {
	abs := math.Abs(v)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	return strconv.AppendFloat(dst, v, format, -1, 64)
}
