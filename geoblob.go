// Package geoblob converts geometries between WKT, WKB, GeoJSON and a compact native
// binary blob, and stores batches of blobs in compressed column chunks.
//
// # Core Features
//
//   - Arena-backed geometry values with iterative traversal
//   - Native blob format with optional big-endian body and xxHash64 checksum
//   - WKT, ISO/extended WKB and GeoJSON readers hardened against untrusted input
//   - Z/M normalization of mixed-dimension input
//   - Column chunks of blobs with None, Zstd, S2 or LZ4 compression
//   - Shapefile import and go-geom interop
//
// # Basic Usage
//
// Converting WKT to a blob and back:
//
//	data, _ := geoblob.FromWKT("POLYGON Z ((0 0 1, 4 0 1, 4 4 1, 0 0 1))")
//	text, _ := geoblob.ToWKT(data)
//
// Converting between any two exchange formats:
//
//	out, _ := geoblob.Convert(wkbBytes, format.FormatWKB, format.FormatGeoJSON)
//
// Building a column chunk:
//
//	enc, _ := geoblob.NewColumnEncoder()
//	enc.Append(g)
//	chunk, _ := enc.Finish()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the geometry, blob,
// encoding and column packages, simplifying the most common use cases. For advanced
// usage and fine-grained control, use those packages directly.
package geoblob

import (
	"fmt"

	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/encoding/geojson"
	"github.com/arloliu/geoblob/encoding/wkb"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/options"
	"github.com/arloliu/geoblob/normalize"
)

var defaultColumnOptions = []column.Option{
	column.WithCompression(format.CompressionZstd),
	column.WithChecksum(true),
}

// Config holds the reader and writer settings used by Decode, Encode and Convert.
type Config struct {
	wktReader     []wkt.ReaderOption
	wktWriter     []wkt.WriterOption
	wkbReader     []wkb.ReaderOption
	wkbWriter     []wkb.WriterOption
	geojsonReader []geojson.ReaderOption
	blob          []blob.Option
	extract       geometry.Kind
	flip          bool
	force         bool
	hasZ          bool
	hasM          bool
}

// Option configures Decode, Encode and Convert.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithWKTReaderOptions passes options to wkt.Parse.
func WithWKTReaderOptions(opts ...wkt.ReaderOption) Option {
	return options.NoError(func(c *Config) {
		c.wktReader = append(c.wktReader, opts...)
	})
}

// WithWKTWriterOptions passes options to wkt.Append.
func WithWKTWriterOptions(opts ...wkt.WriterOption) Option {
	return options.NoError(func(c *Config) {
		c.wktWriter = append(c.wktWriter, opts...)
	})
}

// WithWKBReaderOptions passes options to wkb.Read.
func WithWKBReaderOptions(opts ...wkb.ReaderOption) Option {
	return options.NoError(func(c *Config) {
		c.wkbReader = append(c.wkbReader, opts...)
	})
}

// WithWKBWriterOptions passes options to wkb.Append.
func WithWKBWriterOptions(opts ...wkb.WriterOption) Option {
	return options.NoError(func(c *Config) {
		c.wkbWriter = append(c.wkbWriter, opts...)
	})
}

// WithGeoJSONReaderOptions passes options to geojson.Unmarshal.
func WithGeoJSONReaderOptions(opts ...geojson.ReaderOption) Option {
	return options.NoError(func(c *Config) {
		c.geojsonReader = append(c.geojsonReader, opts...)
	})
}

// WithBlobOptions passes options to blob.Append and blob.Deserialize.
func WithBlobOptions(opts ...blob.Option) Option {
	return options.NoError(func(c *Config) {
		c.blob = append(c.blob, opts...)
	})
}

// WithExtract makes Encode and Convert write only the parts of the given kind, collected
// into a Multi* geometry. kind must be Point, LineString or Polygon.
func WithExtract(kind geometry.Kind) Option {
	return options.New(func(c *Config) error {
		switch kind {
		case geometry.Point, geometry.LineString, geometry.Polygon:
			c.extract = kind
			return nil
		default:
			return fmt.Errorf("cannot extract %s parts", kind)
		}
	})
}

// WithFlipCoordinates makes Encode and Convert swap X and Y in every vertex.
func WithFlipCoordinates() Option {
	return options.NoError(func(c *Config) {
		c.flip = true
	})
}

// WithForceDims makes Encode and Convert rewrite every geometry to the given
// dimensionality with normalize.Force, using 0 for missing ordinates.
func WithForceDims(hasZ, hasM bool) Option {
	return options.NoError(func(c *Config) {
		c.force, c.hasZ, c.hasM = true, hasZ, hasM
	})
}

// Decode reads data in the given exchange format into arena.
//
// Parameters:
//   - arena: Arena receiving the geometry
//   - data: Encoded geometry; text formats are read as UTF-8
//   - f: Exchange format of data
//   - opts: Optional reader settings
//
// Returns:
//   - geometry.Geometry: Decoded geometry, valid until arena is reset
//   - error: *errs.Error for malformed input, or an unknown format
func Decode(arena *geometry.Arena, data []byte, f format.ExchangeFormat, opts ...Option) (geometry.Geometry, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return geometry.Geometry{}, err
	}

	return cfg.decode(arena, data, f)
}

func (c *Config) decode(arena *geometry.Arena, data []byte, f format.ExchangeFormat) (geometry.Geometry, error) {
	switch f {
	case format.FormatWKT:
		return wkt.Parse(arena, string(data), c.wktReader...)
	case format.FormatWKB:
		return wkb.Read(arena, data, c.wkbReader...)
	case format.FormatWKBHex:
		return wkb.ReadHex(arena, string(data), c.wkbReader...)
	case format.FormatGeoJSON:
		return geojson.Unmarshal(arena, data, c.geojsonReader...)
	case format.FormatBlob:
		return blob.Deserialize(arena, data, c.blob...)
	default:
		return geometry.Geometry{}, fmt.Errorf("unsupported geometry format %s", f)
	}
}

// Encode writes g in the given exchange format.
//
// Parameters:
//   - g: Geometry to encode
//   - f: Target exchange format
//   - opts: Optional writer settings
//
// Returns:
//   - []byte: Encoded geometry
//   - error: Encoding error or an unknown format
func Encode(g geometry.Geometry, f format.ExchangeFormat, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return cfg.encode(g, f)
}

// encode applies the configured transformations in order: extract, flip, force.
func (c *Config) encode(g geometry.Geometry, f format.ExchangeFormat) ([]byte, error) {
	if !g.IsNil() {
		if c.extract != geometry.Invalid {
			g = geometry.Extract(g.Arena(), g, c.extract)
		}
		if c.flip {
			g = geometry.FlipCoordinates(g.Arena(), g)
		}
		if c.force {
			g = normalize.Force(g.Arena(), g, c.hasZ, c.hasM, 0, 0)
		}
	}

	switch f {
	case format.FormatWKT:
		if g.IsNil() {
			return nil, fmt.Errorf("cannot encode nil geometry as %s", f)
		}
		return wkt.Append(nil, g, c.wktWriter...), nil
	case format.FormatWKB:
		return wkb.Append(nil, g, c.wkbWriter...)
	case format.FormatWKBHex:
		hex, err := wkb.MarshalHex(g, c.wkbWriter...)
		return []byte(hex), err
	case format.FormatGeoJSON:
		return geojson.Marshal(g)
	case format.FormatBlob:
		return blob.Marshal(g, c.blob...)
	default:
		return nil, fmt.Errorf("unsupported geometry format %s", f)
	}
}

// Convert decodes data from one exchange format and encodes it in another.
func Convert(data []byte, from, to format.ExchangeFormat, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	arena := geometry.NewArena()
	g, err := cfg.decode(arena, data, from)
	if err != nil {
		return nil, err
	}

	return cfg.encode(g, to)
}

// FromWKT parses WKT or EWKT text into a blob.
func FromWKT(text string, opts ...Option) ([]byte, error) {
	return Convert([]byte(text), format.FormatWKT, format.FormatBlob, opts...)
}

// ToWKT formats a blob as WKT.
func ToWKT(data []byte, opts ...Option) (string, error) {
	out, err := Convert(data, format.FormatBlob, format.FormatWKT, opts...)
	return string(out), err
}

// FromWKB reads ISO or extended WKB into a blob.
func FromWKB(data []byte, opts ...Option) ([]byte, error) {
	return Convert(data, format.FormatWKB, format.FormatBlob, opts...)
}

// ToWKB writes a blob as WKB.
func ToWKB(data []byte, opts ...Option) ([]byte, error) {
	return Convert(data, format.FormatBlob, format.FormatWKB, opts...)
}

// FromGeoJSON reads a GeoJSON geometry or Feature into a blob.
func FromGeoJSON(data []byte, opts ...Option) ([]byte, error) {
	return Convert(data, format.FormatGeoJSON, format.FormatBlob, opts...)
}

// ToGeoJSON writes a blob as a GeoJSON geometry object.
func ToGeoJSON(data []byte, opts ...Option) ([]byte, error) {
	return Convert(data, format.FormatBlob, format.FormatGeoJSON, opts...)
}

// NewColumnEncoder creates a column chunk encoder. Without options the chunk is Zstd
// compressed and checksummed; any option given replaces those defaults entirely.
//
// Parameters:
//   - opts: Optional column settings
//
// Returns:
//   - *column.Encoder: New encoder instance
//   - error: Invalid option
func NewColumnEncoder(opts ...column.Option) (*column.Encoder, error) {
	if len(opts) == 0 {
		opts = defaultColumnOptions
	}

	return column.NewEncoder(opts...)
}

// NewColumnDecoder parses a column chunk.
func NewColumnDecoder(data []byte, opts ...column.Option) (*column.Decoder, error) {
	return column.NewDecoder(data, opts...)
}
