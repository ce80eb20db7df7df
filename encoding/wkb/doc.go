// Package wkb reads and writes geometry values in Well-Known Binary, including the
// PostGIS extended form (EWKB).
//
// Every geometry header starts with its own byte order marker (0 big-endian, 1
// little-endian) followed by a 4-byte type code. Both the ISO convention (1000 added for
// Z, 2000 for M) and the extended one (0x80000000 Z, 0x40000000 M, 0x20000000 SRID)
// are accepted; when they disagree either signal sets the flag.
//
// WKB nesting depth is chosen by whoever produced the bytes, so the Reader tracks open
// containers on a stack supplied by the caller:
//
//	var stack [16]wkb.Frame
//	r := wkb.NewReader(stack[:], wkb.WithAllowMixedZM(true))
//	g, err := r.Read(arena, data) // errs.ErrTooDeeplyNested past 16 levels
//
// Marshal writes little-endian ISO codes unless WithBigEndian or WithExtended is given.
// Empty points are written as NaN coordinates.
package wkb
