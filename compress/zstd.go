package compress

// ZstdCompressor uses Zstandard, the best ratio of the built-in codecs.
//
// The pure Go implementation (klauspost/compress) is used by default; building with the
// gozstd tag and cgo enabled switches to the libzstd binding (valyala/gozstd).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
