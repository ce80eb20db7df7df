// Package endian provides byte order utilities for the binary geometry formats.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so the blob codec,
// the WKB reader/writer and the column chunk share one value for both fixed-offset writes
// and appends:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(kind))
//	buf = endian.AppendFloat64(engine, buf, x)
//
// WKB carries its byte order per geometry as a marker byte (0 big-endian, 1 little-endian);
// FromWKBMarker and WKBMarker translate between the marker and an engine.
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// WKB byte order markers.
const (
	WKBBigEndian    byte = 0
	WKBLittleEndian byte = 1
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness returns the host byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 stores 0x01 first on big-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Engine returns the big-endian engine when bigEndian is set, little-endian otherwise.
func Engine(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBigEndian reports whether engine is the big-endian engine.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// FromWKBMarker returns the engine for a WKB byte order marker. ok is false for any
// byte other than 0 or 1.
func FromWKBMarker(marker byte) (engine EndianEngine, ok bool) {
	switch marker {
	case WKBBigEndian:
		return binary.BigEndian, true
	case WKBLittleEndian:
		return binary.LittleEndian, true
	default:
		return nil, false
	}
}

// WKBMarker returns the WKB byte order marker for engine.
func WKBMarker(engine EndianEngine) byte {
	if IsBigEndian(engine) {
		return WKBBigEndian
	}

	return WKBLittleEndian
}

// Float64 decodes an IEEE-754 double from the first 8 bytes of b.
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}

// PutFloat64 encodes v into the first 8 bytes of b.
func PutFloat64(engine EndianEngine, b []byte, v float64) {
	engine.PutUint64(b, math.Float64bits(v))
}

// AppendFloat64 appends the 8-byte encoding of v to dst.
func AppendFloat64(engine EndianEngine, dst []byte, v float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(v))
}

// Float64View reinterprets data as float64 values without copying.
//
// ok is false when engine is not the host byte order, when len(data) is not a multiple
// of 8, or when data is not 8-byte aligned; the caller must then decode a copy. The
// returned slice aliases data.
func Float64View(engine EndianEngine, data []byte) (view []float64, ok bool) {
	if len(data) == 0 {
		return nil, true
	}
	if !CompareNativeEndian(engine) || len(data)%8 != 0 {
		return nil, false
	}

	ptr := unsafe.Pointer(unsafe.SliceData(data))
	if uintptr(ptr)%unsafe.Alignof(float64(0)) != 0 {
		return nil, false
	}

	return unsafe.Slice((*float64)(ptr), len(data)/8), true
}
