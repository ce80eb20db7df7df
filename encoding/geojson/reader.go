package geojson

import (
	"encoding/json"
	"errors"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/pool"
	"github.com/arloliu/geoblob/normalize"
	"go.uber.org/zap"
)

// object is any GeoJSON object this package understands.
type object struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  []*object       `json:"geometries"`
	Geometry    *object         `json:"geometry"`
}

type decoder struct {
	arena   *geometry.Arena
	cfg     *ReaderConfig
	scratch *pool.Float64Scratch
	data    []byte
}

// Unmarshal decodes a GeoJSON geometry or Feature into arena.
//
// Errors are *errs.Error values of format errs.FormatGeoJSON. JSON syntax errors carry
// the byte offset reported by encoding/json.
func Unmarshal(arena *geometry.Arena, data []byte, opts ...ReaderOption) (geometry.Geometry, error) {
	cfg, err := newReaderConfig(opts)
	if err != nil {
		return geometry.Geometry{}, err
	}

	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return geometry.Geometry{}, jsonError(data, err)
	}

	d := decoder{
		arena:   arena,
		cfg:     cfg,
		data:    data,
		scratch: pool.GetFloat64Scratch(),
	}
	defer pool.PutFloat64Scratch(d.scratch)

	root := &obj
	if root.Type == "Feature" {
		if root.Geometry == nil {
			return geometry.Geometry{}, d.errorf("feature without geometry")
		}
		root = root.Geometry
	}

	g, err := d.decode(root, 0)
	if err != nil {
		return geometry.Geometry{}, err
	}

	if geometry.HasMixedDims(g) {
		Logger().Debug("normalizing mixed dimensionality", zap.Stringer("kind", g.Kind()))
		g = normalize.Reconcile(arena, g)
	}

	return g, nil
}

func jsonError(data []byte, err error) error {
	offset := errs.NoOffset

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = int(syntaxErr.Offset)
	case errors.As(err, &typeErr):
		offset = int(typeErr.Offset)
	}

	b := errs.New(errs.FormatGeoJSON, errs.KindMalformedInput).
		Offset(offset).
		Cause(err).
		Detail("invalid JSON")
	if offset >= 0 {
		b.Fragment(errs.FragmentAt(string(data), max(offset-1, 0)))
	}

	return b.Build()
}

func (d *decoder) errorf(msg string, args ...any) *errs.Error {
	return errs.New(errs.FormatGeoJSON, errs.KindMalformedInput).
		Offset(errs.NoOffset).
		Detail(msg, args...).
		Build()
}

// decode builds obj. Only geometry collections recurse, bounded by the max depth.
func (d *decoder) decode(obj *object, depth int) (geometry.Geometry, error) {
	if obj == nil {
		return geometry.Geometry{}, d.errorf("null geometry")
	}

	kind, ok := geometry.KindFromName(obj.Type)
	if !ok {
		return geometry.Geometry{}, errs.New(errs.FormatGeoJSON, errs.KindUnsupportedType).
			Offset(errs.NoOffset).
			Value(obj.Type).
			Detail("unsupported geometry type").
			Build()
	}

	if kind == geometry.GeometryCollection {
		if depth >= d.cfg.maxDepth {
			return geometry.Geometry{}, errs.TooDeep(errs.FormatGeoJSON, errs.NoOffset, d.cfg.maxDepth)
		}

		parts := make([]geometry.Geometry, 0, len(obj.Geometries))
		var anyZ bool
		for _, child := range obj.Geometries {
			part, err := d.decode(child, depth+1)
			if err != nil {
				return geometry.Geometry{}, err
			}
			anyZ = anyZ || part.HasZ()
			parts = append(parts, part)
		}

		return d.arena.NewContainer(geometry.GeometryCollection, anyZ, false, parts...), nil
	}

	if len(obj.Coordinates) == 0 {
		return geometry.Geometry{}, d.errorf("%s without coordinates", kind.Name())
	}

	return d.decodeCoordinates(kind, obj.Coordinates)
}

func (d *decoder) decodeCoordinates(kind geometry.Kind, raw json.RawMessage) (geometry.Geometry, error) {
	switch kind {
	case geometry.Point:
		var pos []float64
		if err := d.unmarshal(raw, &pos); err != nil {
			return geometry.Geometry{}, err
		}
		return d.leaf(geometry.Point, [][]float64{pos})

	case geometry.LineString:
		var line [][]float64
		if err := d.unmarshal(raw, &line); err != nil {
			return geometry.Geometry{}, err
		}
		return d.leaf(geometry.LineString, line)

	case geometry.MultiPoint:
		var points [][]float64
		if err := d.unmarshal(raw, &points); err != nil {
			return geometry.Geometry{}, err
		}
		parts := make([]geometry.Geometry, 0, len(points))
		for _, pos := range points {
			p, err := d.leaf(geometry.Point, [][]float64{pos})
			if err != nil {
				return geometry.Geometry{}, err
			}
			parts = append(parts, p)
		}
		return d.container(geometry.MultiPoint, parts), nil

	case geometry.Polygon, geometry.MultiLineString:
		var lines [][][]float64
		if err := d.unmarshal(raw, &lines); err != nil {
			return geometry.Geometry{}, err
		}
		return d.lines(kind, lines)

	case geometry.MultiPolygon:
		var polygons [][][][]float64
		if err := d.unmarshal(raw, &polygons); err != nil {
			return geometry.Geometry{}, err
		}
		parts := make([]geometry.Geometry, 0, len(polygons))
		for _, rings := range polygons {
			p, err := d.lines(geometry.Polygon, rings)
			if err != nil {
				return geometry.Geometry{}, err
			}
			parts = append(parts, p)
		}
		return d.container(geometry.MultiPolygon, parts), nil

	default:
		return geometry.Geometry{}, d.errorf("unexpected coordinates for %s", kind.Name())
	}
}

func (d *decoder) unmarshal(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errs.New(errs.FormatGeoJSON, errs.KindMalformedInput).
			Offset(errs.NoOffset).
			Fragment(errs.FragmentAt(string(raw), 0)).
			Cause(err).
			Detail("invalid coordinates").
			Build()
	}

	return nil
}

func (d *decoder) lines(kind geometry.Kind, lines [][][]float64) (geometry.Geometry, error) {
	parts := make([]geometry.Geometry, 0, len(lines))
	for _, line := range lines {
		ls, err := d.leaf(geometry.LineString, line)
		if err != nil {
			return geometry.Geometry{}, err
		}
		parts = append(parts, ls)
	}

	return d.container(kind, parts), nil
}

func (d *decoder) container(kind geometry.Kind, parts []geometry.Geometry) geometry.Geometry {
	var anyZ bool
	for _, p := range parts {
		anyZ = anyZ || p.HasZ()
	}

	return d.arena.NewContainer(kind, anyZ, false, parts...)
}

// leaf builds a Point or LineString. A leaf is Z when any position has a third ordinate;
// positions without one get Z 0. An empty Point position is the empty point.
func (d *decoder) leaf(kind geometry.Kind, positions [][]float64) (geometry.Geometry, error) {
	hasZ := false
	for _, pos := range positions {
		switch {
		case len(pos) == 0 && kind == geometry.Point:
		case len(pos) < 2:
			return geometry.Geometry{}, d.errorf("position with %d ordinates", len(pos))
		case len(pos) > 2:
			hasZ = true
		}
	}

	d.scratch.B = d.scratch.B[:0]
	for _, pos := range positions {
		if len(pos) == 0 {
			continue
		}
		d.scratch.B = append(d.scratch.B, pos[0], pos[1])
		if hasZ {
			z := 0.0
			if len(pos) > 2 {
				z = pos[2]
			}
			d.scratch.B = append(d.scratch.B, z)
		}
	}

	return d.arena.NewLeaf(kind, hasZ, false, d.scratch.B...), nil
}
