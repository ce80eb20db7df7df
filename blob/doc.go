// Package blob implements the compact binary serialization of geometry values.
//
// A serialized geometry is what higher layers store and pass around; they never see the
// in-memory tree. The contract is three functions:
//
//	size, err := blob.RequiredSize(g)
//	buf := make([]byte, size)
//	n, err := blob.Serialize(g, buf)        // n == size
//	g2, err := blob.Deserialize(arena, buf) // g2 equals g
//
// # Layout
//
// An 8-byte section.GeometryHeader (magic/version, byte order, checksum flag, root kind,
// Z/M flags) is followed by every node in pre-order. Each node is a kind and a count
// (uint32 each); leaves are followed by count × stride float64 values. Polygon rings are
// LineString nodes. With WithChecksum(true) an xxHash64 of everything before it is
// appended. All sections are multiples of 8 bytes.
//
// # Options
//
//   - WithBigEndian / WithLittleEndian: body byte order (default little-endian)
//   - WithChecksum: append and verify an xxHash64 trailer
//   - WithMaxDepth: nesting bound for Deserialize (default 256)
//   - WithViewVertices: reference vertex data inside the input instead of copying it
//
// Serialization requires uniform dimensionality; normalize mixed values first (see the
// normalize package).
package blob
