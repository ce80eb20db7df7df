package wkt

import (
	"fmt"

	"github.com/arloliu/geoblob/internal/options"
)

// DefaultMaxDepth is the default maximum number of nested containers accepted by Parse.
const DefaultMaxDepth = 256

// ReaderConfig holds the Parse settings.
type ReaderConfig struct {
	maxDepth   int
	strictDims bool
}

// ReaderOption configures Parse and ParseWithSRID.
type ReaderOption = options.Option[*ReaderConfig]

func newReaderConfig(opts []ReaderOption) (*ReaderConfig, error) {
	cfg := &ReaderConfig{maxDepth: DefaultMaxDepth}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithMaxDepth sets the maximum number of nested containers.
func WithMaxDepth(depth int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if depth <= 0 {
			return fmt.Errorf("wkt: max depth must be positive, got %d", depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithStrictDims makes Parse fail when parts disagree on Z/M presence instead of
// normalizing them to the union of their dimensions.
func WithStrictDims() ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.strictDims = true
	})
}

// WriterConfig holds the Format settings.
type WriterConfig struct {
	maxDecimalDigits int
}

// WriterOption configures Format and Append.
type WriterOption = options.Option[*WriterConfig]

func newWriterConfig(opts []WriterOption) *WriterConfig {
	cfg := &WriterConfig{maxDecimalDigits: -1}
	// writer options cannot fail
	_ = options.Apply(cfg, opts...)

	return cfg
}

// WithMaxDecimalDigits limits ordinates to n digits after the decimal point, dropping
// trailing zeros. A negative n restores the shortest exact representation.
func WithMaxDecimalDigits(n int) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.maxDecimalDigits = n
	})
}
