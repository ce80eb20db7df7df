package geometry

import "strings"

// Kind is the geometry type tag. The numeric values equal the ISO WKB base type codes.
type Kind uint8

const (
	Invalid            Kind = 0
	Point              Kind = 1
	LineString         Kind = 2
	Polygon            Kind = 3
	MultiPoint         Kind = 4
	MultiLineString    Kind = 5
	MultiPolygon       Kind = 6
	GeometryCollection Kind = 7
)

// String returns the WKT keyword of the kind, e.g. "MULTIPOLYGON".
func (k Kind) String() string {
	switch k {
	case Point:
		return "POINT"
	case LineString:
		return "LINESTRING"
	case Polygon:
		return "POLYGON"
	case MultiPoint:
		return "MULTIPOINT"
	case MultiLineString:
		return "MULTILINESTRING"
	case MultiPolygon:
		return "MULTIPOLYGON"
	case GeometryCollection:
		return "GEOMETRYCOLLECTION"
	case Invalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Name returns the GeoJSON type name of the kind, e.g. "MultiPolygon".
func (k Kind) Name() string {
	switch k {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	case GeometryCollection:
		return "GeometryCollection"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is one of the seven geometry kinds.
func (k Kind) IsValid() bool {
	return k >= Point && k <= GeometryCollection
}

// IsLeaf reports whether k stores vertex data (Point and LineString).
func (k Kind) IsLeaf() bool {
	return k == Point || k == LineString
}

// IsContainer reports whether k stores parts.
func (k Kind) IsContainer() bool {
	return k >= Polygon && k <= GeometryCollection
}

// PartKind returns the kind every part of k must have, or Invalid when any kind is
// allowed (GeometryCollection) or k has no parts.
func (k Kind) PartKind() Kind {
	switch k { //nolint: exhaustive
	case Polygon, MultiLineString:
		return LineString
	case MultiPoint:
		return Point
	case MultiPolygon:
		return Polygon
	default:
		return Invalid
	}
}

// Multi returns the multi kind collecting k, e.g. MultiPoint for Point.
func (k Kind) Multi() Kind {
	switch k { //nolint: exhaustive
	case Point:
		return MultiPoint
	case LineString:
		return MultiLineString
	case Polygon:
		return MultiPolygon
	default:
		return GeometryCollection
	}
}

// KindFromName resolves a WKT keyword or GeoJSON type name, case-insensitively.
func KindFromName(name string) (Kind, bool) {
	for k := Point; k <= GeometryCollection; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, true
		}
	}

	return Invalid, false
}

// Stride returns the number of float64 values per vertex for the given dimensionality.
func Stride(hasZ, hasM bool) int {
	stride := 2
	if hasZ {
		stride++
	}
	if hasM {
		stride++
	}

	return stride
}
