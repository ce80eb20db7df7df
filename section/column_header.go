package section

import (
	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/format"
)

// ColumnHeader is the fixed 32-byte header of a geometry column chunk.
//
//	Bytes | Field         | Type   | Description
//	------|---------------|--------|-------------------------------------------
//	0-1   | Options       | uint16 | checksum, endianness, magic (always LE)
//	2     | Compression   | uint8  | payload compression (format.CompressionType)
//	3     | Reserved      | uint8  | must be 0
//	4-7   | RowCount      | uint32 | number of rows, null rows included
//	8-11  | IndexOffset   | uint32 | byte offset of the row index
//	12-15 | PayloadOffset | uint32 | byte offset of the stored payload
//	16-19 | PayloadLength | uint32 | uncompressed payload length
//	20-23 | StoredLength  | uint32 | stored (possibly compressed) payload length
//	24-31 | Checksum      | uint64 | xxHash64 of the uncompressed payload, 0 when disabled
type ColumnHeader struct {
	Checksum      uint64
	RowCount      uint32
	IndexOffset   uint32
	PayloadOffset uint32
	PayloadLength uint32
	StoredLength  uint32
	Options       Options
	Compression   format.CompressionType
	Reserved      uint8
}

// NewColumnHeader creates a little-endian header for the given compression.
func NewColumnHeader(compression format.CompressionType) ColumnHeader {
	return ColumnHeader{
		Options:     NewOptions(MagicColumnV1Opt),
		Compression: compression,
		IndexOffset: ColumnHeaderSize,
	}
}

// Engine returns the byte order engine of the chunk.
func (h ColumnHeader) Engine() endian.EndianEngine {
	return h.Options.EndianEngine()
}

// IndexLength returns the byte length of the row index.
func (h ColumnHeader) IndexLength() int {
	return int(h.RowCount) * ColumnIndexEntrySize
}

// Validate checks the magic number, the reserved fields, the compression type and
// the section layout.
func (h ColumnHeader) Validate() error {
	if err := h.Options.Validate(MagicColumnV1Opt); err != nil {
		return err
	}
	if h.Reserved != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	switch h.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return errs.ErrInvalidHeaderFlags
	}

	if h.IndexOffset != ColumnHeaderSize ||
		uint64(h.PayloadOffset) != uint64(h.IndexOffset)+uint64(h.IndexLength()) {
		return errs.ErrInvalidIndexOffsets
	}
	if h.Compression == format.CompressionNone && h.StoredLength != h.PayloadLength {
		return errs.ErrInvalidIndexOffsets
	}

	return nil
}

// Parse parses the header from the first ColumnHeaderSize bytes of data.
func (h *ColumnHeader) Parse(data []byte) error {
	if len(data) < ColumnHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Options = parseOptions(data)
	h.Compression = format.CompressionType(data[2])
	h.Reserved = data[3]

	engine := h.Engine()
	h.RowCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.PayloadLength = engine.Uint32(data[16:20])
	h.StoredLength = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return h.Validate()
}

// WriteToSlice writes the header into data at offset and returns the next position.
func (h ColumnHeader) WriteToSlice(data []byte, offset int) int {
	b := data[offset : offset+ColumnHeaderSize]
	engine := h.Engine()

	putOptions(b, h.Options)
	b[2] = uint8(h.Compression)
	b[3] = h.Reserved
	engine.PutUint32(b[4:8], h.RowCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.PayloadLength)
	engine.PutUint32(b[20:24], h.StoredLength)
	engine.PutUint64(b[24:32], h.Checksum)

	return offset + ColumnHeaderSize
}

// Bytes serializes the header.
func (h ColumnHeader) Bytes() []byte {
	b := make([]byte, ColumnHeaderSize)
	h.WriteToSlice(b, 0)

	return b
}

// ParseColumnHeader parses a ColumnHeader from the start of data.
func ParseColumnHeader(data []byte) (ColumnHeader, error) {
	var h ColumnHeader
	if err := h.Parse(data); err != nil {
		return ColumnHeader{}, err
	}

	return h, nil
}
