package shapefile

import (
	"fmt"

	"github.com/arloliu/geoblob/internal/options"
)

// Encoding selects how DBF attribute values are decoded.
type Encoding uint8

const (
	// EncodingAuto reads the .cpg sidecar file and falls back to Latin-1 without one.
	EncodingAuto Encoding = iota
	// EncodingUTF8 requires attribute values to be valid UTF-8.
	EncodingUTF8
	// EncodingLatin1 converts ISO-8859-1 attribute values to UTF-8.
	EncodingLatin1
	// EncodingRaw returns attribute bytes unchanged.
	EncodingRaw
)

func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingUTF8:
		return "utf-8"
	case EncodingLatin1:
		return "iso-8859-1"
	case EncodingRaw:
		return "raw"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// Config holds the reader settings.
type Config struct {
	encoding Encoding
}

// Option configures Open and ReadAll.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{encoding: EncodingAuto}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithEncoding overrides the attribute encoding.
func WithEncoding(encoding Encoding) Option {
	return options.New(func(c *Config) error {
		if encoding > EncodingRaw {
			return fmt.Errorf("shapefile: unknown encoding %d", encoding)
		}
		c.encoding = encoding

		return nil
	})
}

// ParseEncoding maps a name such as "utf-8", "latin1" or "blob" to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch normalizeEncodingName(name) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf8":
		return EncodingUTF8, nil
	case "iso88591", "latin1":
		return EncodingLatin1, nil
	case "raw", "blob":
		return EncodingRaw, nil
	default:
		return EncodingAuto, fmt.Errorf("shapefile: unknown encoding %q", name)
	}
}
