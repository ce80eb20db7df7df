package section

import "math"

const (
	// Bit masks of the packed Options field shared by every header
	ChecksumMask     = 0x0001 // Mask for checksum bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicGeometryV1Opt = 0x6E10 // MagicGeometryV1Opt identifies a version 1 serialized geometry.
	MagicColumnV1Opt   = 0xEC10 // MagicColumnV1Opt identifies a version 1 geometry column chunk.

	// Dimension bits of the geometry header Dims byte
	DimZMask        = 0x01 // Vertices carry Z
	DimMMask        = 0x02 // Vertices carry M
	DimReservedMask = 0xFC // Reserved, must be 0
)

// offset and section sizes
const (
	GeometryHeaderSize   = 8  // fixed serialized geometry header size in bytes
	NodeHeaderSize       = 8  // kind (uint32) + count (uint32) per node
	ChecksumSize         = 8  // optional xxHash64 trailer
	ColumnHeaderSize     = 32 // fixed column chunk header size in bytes
	ColumnIndexEntrySize = 8  // offset (uint32) + length (uint32) per row

	// NullRowOffset marks a null row in the column index.
	NullRowOffset = math.MaxUint32
	// ColumnMaxPayload is the largest addressable column payload.
	ColumnMaxPayload = math.MaxUint32 - 1
)
