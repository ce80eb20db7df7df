// Package section defines the low-level binary structures of the serialized geometry and
// the geometry column chunk.
//
// # Serialized Geometry
//
//	┌─────────────────────────────────────────────────────────┐
//	│ GeometryHeader (8 bytes)                                │
//	│  - Options (2 bytes, LE): checksum, endianness, magic   │
//	│  - Kind (1 byte), Dims (1 byte), Reserved (4 bytes)     │
//	├─────────────────────────────────────────────────────────┤
//	│ Nodes in pre-order                                      │
//	│  - kind (uint32), count (uint32)                        │
//	│  - leaves: count × stride float64 values                │
//	├─────────────────────────────────────────────────────────┤
//	│ Checksum (8 bytes, optional): xxHash64 of the above     │
//	└─────────────────────────────────────────────────────────┘
//
// Every section is a multiple of 8 bytes, so vertex data stays 8-byte aligned relative
// to the start of the blob.
//
// # Column Chunk
//
//	┌─────────────────────────────────────────────────────────┐
//	│ ColumnHeader (32 bytes)                                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Index (RowCount × 8 bytes): offset, length per row      │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (optionally compressed): concatenated blobs     │
//	└─────────────────────────────────────────────────────────┘
//
// # Options
//
// Both headers start with the packed Options field:
//
//	Bit 0: Checksum (0=absent, 1=present)
//	Bit 1: Endianness (0=little-endian, 1=big-endian)
//	Bit 2-3: Reserved (must be 0)
//	Bits 4-15: Magic number (0x6E10 geometry, 0xEC10 column chunk)
//
// The magic number doubles as the format version. Options is always little-endian; every
// other multi-byte field uses the byte order selected by bit 1.
//
// Most users should use the blob and column packages instead of this package.
package section
