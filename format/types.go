// Package format defines the enumerations shared by the column chunk, the CLI and the
// configuration: payload compression and geometry exchange formats.
package format

import (
	"fmt"
	"strings"
)

type (
	// CompressionType identifies the compression applied to a column chunk payload.
	CompressionType uint8
	// ExchangeFormat identifies a geometry text or binary representation.
	ExchangeFormat uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	FormatWKT     ExchangeFormat = iota + 1 // FormatWKT is Well-Known Text.
	FormatWKB                               // FormatWKB is raw Well-Known Binary.
	FormatWKBHex                            // FormatWKBHex is hex-encoded Well-Known Binary.
	FormatGeoJSON                           // FormatGeoJSON is a GeoJSON geometry object.
	FormatBlob                              // FormatBlob is the native serialized geometry.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression resolves a compression name case-insensitively. An empty name is
// CompressionNone.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

func (f ExchangeFormat) String() string {
	switch f {
	case FormatWKT:
		return "wkt"
	case FormatWKB:
		return "wkb"
	case FormatWKBHex:
		return "wkb-hex"
	case FormatGeoJSON:
		return "geojson"
	case FormatBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// IsText reports whether the format is human-readable text.
func (f ExchangeFormat) IsText() bool {
	return f == FormatWKT || f == FormatWKBHex || f == FormatGeoJSON
}

// ParseExchangeFormat resolves a format name as printed by String.
func ParseExchangeFormat(name string) (ExchangeFormat, error) {
	for f := FormatWKT; f <= FormatBlob; f++ {
		if strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown geometry format %q", name)
}
