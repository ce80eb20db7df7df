// Package config loads the geoblob command line settings from an optional TOML file and
// translates them into library options.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/geoblob"
	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/encoding/geojson"
	"github.com/arloliu/geoblob/encoding/wkb"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/shapefile"
	"go.uber.org/zap/zapcore"
)

// Config holds every setting the command line tool reads from its configuration file.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Development selects zap's human readable development encoder.
	Development bool `toml:"development"`

	Reader    ReaderConfig    `toml:"reader"`
	Writer    WriterConfig    `toml:"writer"`
	Column    ColumnConfig    `toml:"column"`
	Shapefile ShapefileConfig `toml:"shapefile"`
}

// ReaderConfig holds the defaults applied to every format reader.
type ReaderConfig struct {
	AllowMixedZM bool `toml:"allow_mixed_zm"`
	NaNAsEmpty   bool `toml:"nan_as_empty"`
	StrictDims   bool `toml:"strict_dims"`
	MaxDepth     int  `toml:"max_depth"`
}

// WriterConfig holds the defaults applied to the text and WKB writers.
type WriterConfig struct {
	// MaxDecimalDigits bounds WKT coordinate precision; negative means shortest exact.
	MaxDecimalDigits int  `toml:"max_decimal_digits"`
	WKBBigEndian     bool `toml:"wkb_big_endian"`
	WKBExtended      bool `toml:"wkb_extended"`
	BlobChecksum     bool `toml:"blob_checksum"`
}

// ColumnConfig holds the column chunk encoder settings.
type ColumnConfig struct {
	Compression string `toml:"compression"`
	Checksum    bool   `toml:"checksum"`
	BigEndian   bool   `toml:"big_endian"`
}

// ShapefileConfig holds the shapefile reader settings.
type ShapefileConfig struct {
	// Encoding is auto, utf8, latin1 or raw.
	Encoding string `toml:"encoding"`
}

// Default returns the settings used when no configuration file is given.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Reader: ReaderConfig{
			NaNAsEmpty: true,
			MaxDepth:   blob.DefaultMaxDepth,
		},
		Writer: WriterConfig{
			MaxDecimalDigits: -1,
		},
		Column: ColumnConfig{
			Compression: format.CompressionZstd.String(),
			Checksum:    true,
		},
		Shapefile: ShapefileConfig{
			Encoding: shapefile.EncodingAuto.String(),
		},
	}
}

// Load reads the TOML file at path over the defaults. Environment variables in string
// values are expanded. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	if err := Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("configuration file %s: %w", path, err)
	}

	return cfg, nil
}

// Decode parses TOML text into cfg, keeping the values of keys the text omits.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	cfg.LogLevel = os.ExpandEnv(cfg.LogLevel)
	cfg.Column.Compression = os.ExpandEnv(cfg.Column.Compression)
	cfg.Shapefile.Encoding = os.ExpandEnv(cfg.Shapefile.Encoding)

	return cfg.Validate()
}

// Validate checks that every enumerated setting names a known value.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := format.ParseCompression(c.Column.Compression); err != nil {
		return err
	}
	if _, err := shapefile.ParseEncoding(c.Shapefile.Encoding); err != nil {
		return err
	}
	if c.Reader.MaxDepth < 1 {
		return fmt.Errorf("reader.max_depth must be positive, got %d", c.Reader.MaxDepth)
	}

	return nil
}

// Level returns the zap level named by LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// Options returns the facade options for the reader and writer settings.
func (c *Config) Options() []geoblob.Option {
	wkbWriter := []wkb.WriterOption{}
	if c.Writer.WKBBigEndian {
		wkbWriter = append(wkbWriter, wkb.WithBigEndian())
	}
	if c.Writer.WKBExtended {
		wkbWriter = append(wkbWriter, wkb.WithExtended())
	}

	wktReader := []wkt.ReaderOption{wkt.WithMaxDepth(c.Reader.MaxDepth)}
	if c.Reader.StrictDims {
		wktReader = append(wktReader, wkt.WithStrictDims())
	}

	return []geoblob.Option{
		geoblob.WithWKTReaderOptions(wktReader...),
		geoblob.WithWKTWriterOptions(wkt.WithMaxDecimalDigits(c.Writer.MaxDecimalDigits)),
		geoblob.WithWKBReaderOptions(
			wkb.WithAllowMixedZM(c.Reader.AllowMixedZM),
			wkb.WithNaNAsEmpty(c.Reader.NaNAsEmpty),
			wkb.WithStackSize(c.Reader.MaxDepth),
		),
		geoblob.WithWKBWriterOptions(wkbWriter...),
		geoblob.WithGeoJSONReaderOptions(geojson.WithMaxDepth(c.Reader.MaxDepth)),
		geoblob.WithBlobOptions(c.blobOptions()...),
	}
}

func (c *Config) blobOptions() []blob.Option {
	return []blob.Option{
		blob.WithMaxDepth(c.Reader.MaxDepth),
		blob.WithChecksum(c.Writer.BlobChecksum),
	}
}

// ColumnOptions returns the column encoder and decoder options.
func (c *Config) ColumnOptions() ([]column.Option, error) {
	ct, err := format.ParseCompression(c.Column.Compression)
	if err != nil {
		return nil, err
	}

	opts := []column.Option{
		column.WithCompression(ct),
		column.WithChecksum(c.Column.Checksum),
		column.WithBlobOptions(blob.WithMaxDepth(c.Reader.MaxDepth)),
	}
	if c.Column.BigEndian {
		opts = append(opts, column.WithBigEndian())
	}

	return opts, nil
}

// ShapefileOptions returns the shapefile reader options.
func (c *Config) ShapefileOptions() ([]shapefile.Option, error) {
	enc, err := shapefile.ParseEncoding(c.Shapefile.Encoding)
	if err != nil {
		return nil, err
	}

	return []shapefile.Option{shapefile.WithEncoding(enc)}, nil
}
