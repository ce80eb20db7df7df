//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/arloliu/geoblob/format"
	"github.com/valyala/gozstd"
)

// Compress compresses data with libzstd at level 3.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decodes a Zstandard frame with libzstd.
func (c ZstdCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("zstd", nil, rawSize)
	}

	if err := CheckExpansion(format.CompressionZstd, len(data), rawSize); err != nil {
		return nil, err
	}

	out, err := gozstd.Decompress(make([]byte, 0, rawSize), data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return checkSize("zstd", out, rawSize)
}
