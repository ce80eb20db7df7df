package geojson

import (
	"fmt"

	"github.com/arloliu/geoblob/internal/options"
)

// DefaultMaxDepth is the default maximum number of nested geometry collections.
const DefaultMaxDepth = 256

// ReaderConfig holds the Unmarshal settings.
type ReaderConfig struct {
	maxDepth int
}

// ReaderOption configures Unmarshal.
type ReaderOption = options.Option[*ReaderConfig]

func newReaderConfig(opts []ReaderOption) (*ReaderConfig, error) {
	cfg := &ReaderConfig{maxDepth: DefaultMaxDepth}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithMaxDepth sets the maximum number of nested geometry collections.
func WithMaxDepth(depth int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if depth <= 0 {
			return fmt.Errorf("geojson: max depth must be positive, got %d", depth)
		}
		c.maxDepth = depth

		return nil
	})
}
