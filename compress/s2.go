package compress

import (
	"fmt"

	"github.com/arloliu/geoblob/format"
	"github.com/klauspost/compress/s2"
)

// S2Compressor uses S2, a Snappy-compatible format tuned for speed.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data using S2 block encoding.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block.
func (c S2Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("s2", nil, rawSize)
	}

	if err := CheckExpansion(format.CompressionS2, len(data), rawSize); err != nil {
		return nil, err
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("s2: block holds %d bytes, expected %d", n, rawSize)
	}

	out, err := s2.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
