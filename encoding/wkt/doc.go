// Package wkt reads and writes geometry values in Well-Known Text.
//
// Parse is a hand-written scanner and recursive-descent parser. Nesting is bounded by
// WithMaxDepth, so input controls neither the call stack depth nor the amount of work
// beyond its own length. Both MULTIPOINT forms, glued dimension suffixes ("POINTZ") and
// the EWKT "SRID=n;" prefix are accepted.
//
// Format writes the canonical form:
//
//	POINT Z (1 2 3)
//	MULTIPOINT ((1 2), EMPTY)
//	GEOMETRYCOLLECTION (POINT (1 2), LINESTRING EMPTY)
package wkt
