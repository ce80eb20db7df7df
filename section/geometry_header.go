package section

import (
	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
)

// GeometryHeader is the fixed 8-byte header of a serialized geometry.
//
//	Bytes | Field    | Type   | Description
//	------|----------|--------|---------------------------------------
//	0-1   | Options  | uint16 | checksum, endianness, magic (always LE)
//	2     | Kind     | uint8  | root geometry kind
//	3     | Dims     | uint8  | bit 0 Z, bit 1 M
//	4-7   | Reserved | uint32 | must be 0
type GeometryHeader struct {
	Reserved uint32
	Options  Options
	Kind     geometry.Kind
	Dims     uint8
}

// NewGeometryHeader creates a little-endian header without checksum.
func NewGeometryHeader(kind geometry.Kind, hasZ, hasM bool) GeometryHeader {
	h := GeometryHeader{
		Options: NewOptions(MagicGeometryV1Opt),
		Kind:    kind,
	}
	h.SetDims(hasZ, hasM)

	return h
}

// HasZ returns whether vertices carry Z.
func (h GeometryHeader) HasZ() bool {
	return h.Dims&DimZMask != 0
}

// HasM returns whether vertices carry M.
func (h GeometryHeader) HasM() bool {
	return h.Dims&DimMMask != 0
}

// SetDims sets the dimension bits.
func (h *GeometryHeader) SetDims(hasZ, hasM bool) {
	h.Dims = 0
	if hasZ {
		h.Dims |= DimZMask
	}
	if hasM {
		h.Dims |= DimMMask
	}
}

// Stride returns the number of float64 values per vertex.
func (h GeometryHeader) Stride() int {
	return geometry.Stride(h.HasZ(), h.HasM())
}

// Engine returns the byte order engine of the body.
func (h GeometryHeader) Engine() endian.EndianEngine {
	return h.Options.EndianEngine()
}

// Validate checks the magic number, the reserved fields and the kind.
func (h GeometryHeader) Validate() error {
	if err := h.Options.Validate(MagicGeometryV1Opt); err != nil {
		return err
	}
	if h.Dims&DimReservedMask != 0 || h.Reserved != 0 || !h.Kind.IsValid() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Parse parses the header from the first GeometryHeaderSize bytes of data.
func (h *GeometryHeader) Parse(data []byte) error {
	if len(data) < GeometryHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Options = parseOptions(data)
	h.Kind = geometry.Kind(data[2])
	h.Dims = data[3]
	h.Reserved = h.Engine().Uint32(data[4:8])

	return h.Validate()
}

// WriteToSlice writes the header into data at offset and returns the next position.
func (h GeometryHeader) WriteToSlice(data []byte, offset int) int {
	b := data[offset : offset+GeometryHeaderSize]
	putOptions(b, h.Options)
	b[2] = uint8(h.Kind)
	b[3] = h.Dims
	h.Engine().PutUint32(b[4:8], h.Reserved)

	return offset + GeometryHeaderSize
}

// Bytes serializes the header.
func (h GeometryHeader) Bytes() []byte {
	b := make([]byte, GeometryHeaderSize)
	h.WriteToSlice(b, 0)

	return b
}

// ParseGeometryHeader parses a GeometryHeader from the start of data.
func ParseGeometryHeader(data []byte) (GeometryHeader, error) {
	var h GeometryHeader
	if err := h.Parse(data); err != nil {
		return GeometryHeader{}, err
	}

	return h, nil
}
