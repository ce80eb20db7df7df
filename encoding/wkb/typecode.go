package wkb

import "github.com/arloliu/geoblob/geometry"

// Extended (EWKB) type code flags.
const (
	extendedZ    uint32 = 0x80000000
	extendedM    uint32 = 0x40000000
	extendedSRID uint32 = 0x20000000
	extendedMask        = extendedZ | extendedM | extendedSRID
)

// typeCode is a decoded geometry type field.
type typeCode struct {
	kind    geometry.Kind
	hasZ    bool
	hasM    bool
	hasSRID bool
}

// parseTypeCode decodes both the ISO (+1000 Z, +2000 M, +3000 ZM) and the extended
// conventions. Either signal sets a flag.
func parseTypeCode(code uint32) (typeCode, bool) {
	tc := typeCode{
		hasZ:    code&extendedZ != 0,
		hasM:    code&extendedM != 0,
		hasSRID: code&extendedSRID != 0,
	}

	base := code &^ extendedMask
	switch base / 1000 {
	case 0:
	case 1:
		tc.hasZ = true
	case 2:
		tc.hasM = true
	case 3:
		tc.hasZ, tc.hasM = true, true
	default:
		return tc, false
	}

	tc.kind = geometry.Kind(base % 1000)
	if base%1000 > uint32(geometry.GeometryCollection) || !tc.kind.IsValid() {
		return tc, false
	}

	return tc, true
}

func isoCode(kind geometry.Kind, hasZ, hasM bool) uint32 {
	code := uint32(kind)
	if hasZ {
		code += 1000
	}
	if hasM {
		code += 2000
	}

	return code
}

func extendedCode(kind geometry.Kind, hasZ, hasM, hasSRID bool) uint32 {
	code := uint32(kind)
	if hasZ {
		code |= extendedZ
	}
	if hasM {
		code |= extendedM
	}
	if hasSRID {
		code |= extendedSRID
	}

	return code
}
