package section

import (
	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
)

// Options is the packed 16-bit field at the start of every header.
//
// Bit 0 is the checksum flag, 0 means no checksum, 1 means an xxHash64 checksum is present.
// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
// Bit 2-3 are reserved for future use, must be set to 0.
// Bit 4-15 are the magic number identifying the format and its version:
//   - 0x6E10: serialized geometry v1
//   - 0xEC10: geometry column chunk v1
//
// Options itself is always stored little-endian so the byte order can be read first.
type Options uint16

// NewOptions returns little-endian options without checksum for the given magic number.
func NewOptions(magic uint16) Options {
	return Options(magic & MagicNumberMask)
}

// HasChecksum returns whether a checksum is present.
func (o Options) HasChecksum() bool {
	return o&ChecksumMask != 0
}

// SetChecksum enables or disables the checksum flag.
func (o *Options) SetChecksum(enabled bool) {
	if enabled {
		*o |= ChecksumMask
	} else {
		*o &^= ChecksumMask
	}
}

// IsBigEndian returns whether the data is big-endian.
func (o Options) IsBigEndian() bool {
	return o&EndiannessMask != 0
}

// SetBigEndian selects big-endian (true) or little-endian (false) byte order.
func (o *Options) SetBigEndian(enabled bool) {
	if enabled {
		*o |= EndiannessMask
	} else {
		*o &^= EndiannessMask
	}
}

// MagicNumber returns the magic number bits.
func (o Options) MagicNumber() uint16 {
	return uint16(o) & MagicNumberMask
}

// EndianEngine returns the engine for the selected byte order.
func (o Options) EndianEngine() endian.EndianEngine {
	return endian.Engine(o.IsBigEndian())
}

// Validate checks the magic number and the reserved bits.
func (o Options) Validate(magic uint16) error {
	if o.MagicNumber() != magic {
		return errs.ErrInvalidMagicNumber
	}
	if o&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

func parseOptions(data []byte) Options {
	return Options(uint16(data[0]) | uint16(data[1])<<8)
}

func putOptions(data []byte, o Options) {
	data[0] = byte(o)
	data[1] = byte(o >> 8)
}
