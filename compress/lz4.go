package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/geoblob/format"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; they keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor uses LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data into a single LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decodes an LZ4 block into a buffer of exactly rawSize bytes.
func (c LZ4Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("lz4", nil, rawSize)
	}

	if err := CheckExpansion(format.CompressionLZ4, len(data), rawSize); err != nil {
		return nil, err
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return checkSize("lz4", buf[:n], rawSize)
}
