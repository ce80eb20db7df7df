package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/geoblob/format"
)

// Compressor compresses a column chunk payload.
type Compressor interface {
	// Compress returns the compressed form of data. The input slice is not modified;
	// the result may alias it (NoOp).
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload whose uncompressed size is recorded alongside it.
type Decompressor interface {
	// Decompress returns the original payload. rawSize is the expected uncompressed length;
	// a result of any other length is an error.
	Decompress(data []byte, rawSize int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for compressionType. Built-in codecs are
// safe for concurrent use.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// ErrExpansionLimit reports a raw size that the stored bytes cannot decompress to.
var ErrExpansionLimit = errors.New("raw size exceeds the codec's expansion limit")

// maxExpansion is the largest raw/stored ratio each format can encode. LZ4 spends one
// byte per 255 bytes of run length, a Zstandard RLE block turns 4 bytes into 128 KiB, and
// an S2 repeat code turns 5 bytes into about 16 MiB.
var maxExpansion = map[format.CompressionType]uint64{
	format.CompressionNone: 1,
	format.CompressionLZ4:  255,
	format.CompressionZstd: 1 << 15,
	format.CompressionS2:   1 << 22,
}

// expansionSlack covers block and frame headers of tiny payloads.
const expansionSlack = 64

// CheckExpansion returns ErrExpansionLimit when storedSize bytes of compressionType
// cannot hold rawSize bytes. Decoders call it before sizing a buffer from a header.
func CheckExpansion(compressionType format.CompressionType, storedSize, rawSize int) error {
	ratio, ok := maxExpansion[compressionType]
	if !ok {
		return fmt.Errorf("unsupported compression type: %s", compressionType)
	}

	limit := uint64(storedSize) * ratio
	if compressionType != format.CompressionNone {
		limit += expansionSlack
	}
	if rawSize < 0 || uint64(rawSize) > limit {
		return fmt.Errorf("%w: %s payload of %d bytes cannot hold %d bytes",
			ErrExpansionLimit, compressionType, storedSize, rawSize)
	}

	return nil
}

func checkSize(name string, out []byte, rawSize int) ([]byte, error) {
	if len(out) != rawSize {
		return nil, fmt.Errorf("%s: decompressed %d bytes, expected %d", name, len(out), rawSize)
	}

	return out, nil
}
