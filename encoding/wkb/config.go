package wkb

import (
	"github.com/arloliu/geoblob/internal/options"
)

// ReaderConfig holds the Reader settings.
type ReaderConfig struct {
	allowMixedZM bool
	nanAsEmpty   bool
	copyVertices bool
	stackSize    int
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*ReaderConfig]

func newReaderConfig(opts []ReaderOption) ReaderConfig {
	cfg := ReaderConfig{
		nanAsEmpty:   true,
		copyVertices: true,
		stackSize:    DefaultStackSize,
	}
	// reader options cannot fail
	_ = options.Apply(&cfg, opts...)

	return cfg
}

// WithAllowMixedZM accepts parts whose Z/M presence differs from their container. The
// result is then normalized to the union of the dimensions. Default false.
func WithAllowMixedZM(allow bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.allowMixedZM = allow
	})
}

// WithNaNAsEmpty reads a point whose X and Y are NaN as the empty point instead of
// rejecting it. Default true.
func WithNaNAsEmpty(enabled bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.nanAsEmpty = enabled
	})
}

// WithCopyVertices copies coordinates into the arena. When disabled, leaves reference the
// input directly wherever its byte order matches the host and the data is 8-byte aligned;
// the input must then outlive the result and must not be modified. Default true.
func WithCopyVertices(enabled bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.copyVertices = enabled
	})
}

// WithStackSize sets the nesting capacity of Read and ReadHex, which allocate a frame
// stack of that many entries. A Reader built with NewReader uses the stack it was given.
// Sizes below 1 keep DefaultStackSize.
func WithStackSize(n int) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		if n > 0 {
			c.stackSize = n
		}
	})
}

// WriterConfig holds the Marshal and Append settings.
type WriterConfig struct {
	bigEndian bool
	extended  bool
	srid      uint32
	hasSRID   bool
}

// WriterOption configures Marshal, Append and Size.
type WriterOption = options.Option[*WriterConfig]

func newWriterConfig(opts []WriterOption) WriterConfig {
	var cfg WriterConfig
	// writer options cannot fail
	_ = options.Apply(&cfg, opts...)

	return cfg
}

// WithBigEndian writes big-endian WKB. The default is little-endian.
func WithBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.bigEndian = true
	})
}

// WithExtended writes the legacy extended type codes (high bit flags) instead of ISO codes.
func WithExtended() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.extended = true
	})
}

// WithSRID writes an EWKB SRID on the root geometry. It implies WithExtended.
func WithSRID(srid uint32) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.extended = true
		c.hasSRID = true
		c.srid = srid
	})
}
