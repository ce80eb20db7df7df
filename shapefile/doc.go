// Package shapefile converts ESRI shapefile records into geometries.
//
// Shape records map to geometries as follows:
//
//	Point, PointZ, PointM           -> Point
//	PolyLine (one part)             -> LineString
//	PolyLine (several parts)        -> MultiLineString
//	Polygon                         -> Polygon or MultiPolygon, see below
//	MultiPoint                      -> MultiPoint
//	Null                            -> no geometry
//	MultiPatch                      -> unsupported
//
// Polygon rings are grouped by winding: a clockwise ring (negative signed area) starts a
// new polygon and the rings after it are its holes. A record with fewer than two
// clockwise rings becomes a single Polygon holding every ring.
//
// Z variants carry Z, plus M when any measure is above the ESRI no-data threshold. M
// variants carry M, with no-data measures read as NaN.
//
// DBF attributes are typed by column (see FieldType). Text is decoded according to the
// .cpg file next to the shapefile, Latin-1 when there is none, or the encoding given by
// WithEncoding.
package shapefile
