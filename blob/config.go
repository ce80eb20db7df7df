package blob

import (
	"fmt"

	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/internal/options"
)

// DefaultMaxDepth is the default maximum number of nested containers accepted by
// Deserialize.
const DefaultMaxDepth = 256

// Config holds the serialization and deserialization settings.
type Config struct {
	engine       endian.EndianEngine
	maxDepth     int
	bigEndian    bool
	checksum     bool
	viewVertices bool
}

// Option configures Serialize, RequiredSize, Append and Deserialize.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		maxDepth: DefaultMaxDepth,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	cfg.engine = endian.Engine(cfg.bigEndian)

	return cfg, nil
}

// WithLittleEndian writes the body in little-endian byte order. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = false
	})
}

// WithBigEndian writes the body in big-endian byte order.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = true
	})
}

// WithChecksum appends an xxHash64 trailer over header and body when enabled.
// Deserialize always verifies a trailer that is present.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.checksum = enabled
	})
}

// WithMaxDepth sets the maximum number of nested containers Deserialize accepts.
func WithMaxDepth(depth int) Option {
	return options.New(func(c *Config) error {
		if depth <= 0 {
			return fmt.Errorf("blob: max depth must be positive, got %d", depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithViewVertices lets Deserialize reference vertex data inside the input instead of
// copying it, when the blob byte order matches the host and the input is 8-byte aligned.
// The input must then outlive the returned geometry and must not be modified.
func WithViewVertices() Option {
	return options.NoError(func(c *Config) {
		c.viewVertices = true
	})
}
