//go:build !gozstd || !cgo

package compress

import (
	"fmt"
	"math"
	"sync"

	"github.com/arloliu/geoblob/format"
	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools decoders; klauspost decoders run allocation-free once warmed up.
// DecodeAll never grows the destination past its capacity, and no frame may declare more
// than a column header can record.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecodeAllCapLimit(true),
			zstd.WithDecoderMaxMemory(math.MaxUint32),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Compress compresses data with a pooled encoder.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes a Zstandard frame with a pooled decoder.
func (c ZstdCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("zstd", nil, rawSize)
	}

	if err := CheckExpansion(format.CompressionZstd, len(data), rawSize); err != nil {
		return nil, err
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, make([]byte, 0, rawSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return checkSize("zstd", out, rawSize)
}
