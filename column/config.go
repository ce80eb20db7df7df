package column

import (
	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/compress"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/internal/options"
)

// Config holds the settings shared by Encoder and Decoder.
type Config struct {
	blobOpts    []blob.Option
	compression format.CompressionType
	checksum    bool
	bigEndian   bool
}

// Option configures NewEncoder and NewDecoder.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		compression: format.CompressionNone,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression sets the payload compression. Ignored by NewDecoder, which reads it
// from the header.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		c.compression = compressionType

		return nil
	})
}

// WithChecksum stores an xxHash64 of the uncompressed payload in the header when enabled.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.checksum = enabled
	})
}

// WithBigEndian writes the header fields, the row index and every appended geometry in
// big-endian byte order.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = true
	})
}

// WithBlobOptions passes options to blob.Append when encoding rows and to
// blob.Deserialize when decoding them.
func WithBlobOptions(opts ...blob.Option) Option {
	return options.NoError(func(c *Config) {
		c.blobOpts = append(c.blobOpts, opts...)
	})
}
