package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	maxDepth  int
	strict    bool
	lastApply string
}

func withMaxDepth(depth int) Option[*readerConfig] {
	return New(func(c *readerConfig) error {
		if depth <= 0 {
			return errors.New("max depth must be positive")
		}
		c.maxDepth = depth
		c.lastApply = "depth"

		return nil
	})
}

func withStrict() Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.strict = true
		c.lastApply = "strict"
	})
}

func TestApply(t *testing.T) {
	t.Run("Options are applied in order", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withMaxDepth(8), withStrict())

		require.NoError(t, err)
		require.Equal(t, 8, cfg.maxDepth)
		require.True(t, cfg.strict)
		require.Equal(t, "strict", cfg.lastApply)
	})

	t.Run("First error stops the chain", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withMaxDepth(0), withStrict())

		require.EqualError(t, err, "max depth must be positive")
		require.False(t, cfg.strict)
	})

	t.Run("No options", func(t *testing.T) {
		cfg := &readerConfig{maxDepth: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.maxDepth)
	})

	t.Run("Nil options are skipped", func(t *testing.T) {
		cfg := &readerConfig{}
		require.NoError(t, Apply(cfg, nil, withStrict()))
		require.True(t, cfg.strict)
	})
}
