package blob

import (
	"fmt"

	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/hash"
	"github.com/arloliu/geoblob/section"
)

// RequiredSize returns the exact number of bytes Serialize writes for g.
//
// It fails with errs.ErrNilGeometry for the nil geometry and with an
// InconsistentDimensionality error when some node disagrees with g on Z/M presence.
func RequiredSize(g geometry.Geometry, opts ...Option) (int, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, err
	}

	return requiredSize(g, cfg)
}

func requiredSize(g geometry.Geometry, cfg *Config) (int, error) {
	if g.IsNil() {
		return 0, errs.ErrNilGeometry
	}

	size := section.GeometryHeaderSize
	if cfg.checksum {
		size += section.ChecksumSize
	}

	var mixed geometry.Geometry
	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		if leaving {
			return true
		}
		if !cur.SameDims(g) {
			mixed = cur
			return false
		}
		size += section.NodeHeaderSize + len(cur.Vertices())*8

		return true
	})

	if !mixed.IsNil() {
		return 0, errs.MixedDims(errs.FormatBlob, errs.NoOffset,
			fmt.Sprintf("%s part inside %s", mixed, g))
	}

	return size, nil
}

// Serialize writes g into buf and returns the number of bytes written.
//
// buf must hold at least RequiredSize(g) bytes, otherwise errs.ErrShortBuffer is returned
// and buf is left untouched.
func Serialize(g geometry.Geometry, buf []byte, opts ...Option) (int, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, err
	}

	size, err := requiredSize(g, cfg)
	if err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, fmt.Errorf("blob: need %d bytes, have %d: %w", size, len(buf), errs.ErrShortBuffer)
	}

	return write(g, buf[:size], cfg), nil
}

// Append serializes g and appends the result to dst.
func Append(dst []byte, g geometry.Geometry, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return dst, err
	}

	size, err := requiredSize(g, cfg)
	if err != nil {
		return dst, err
	}

	start := len(dst)
	dst = grow(dst, size)
	write(g, dst[start:start+size], cfg)

	return dst, nil
}

// Marshal serializes g into a new byte slice.
func Marshal(g geometry.Geometry, opts ...Option) ([]byte, error) {
	return Append(nil, g, opts...)
}

func grow(dst []byte, n int) []byte {
	if cap(dst)-len(dst) < n {
		grown := make([]byte, len(dst), len(dst)+n)
		copy(grown, dst)
		dst = grown
	}

	return dst[:len(dst)+n]
}

// write encodes g into buf, which has exactly the required size.
func write(g geometry.Geometry, buf []byte, cfg *Config) int {
	engine := cfg.engine

	header := section.NewGeometryHeader(g.Kind(), g.HasZ(), g.HasM())
	header.Options.SetBigEndian(cfg.bigEndian)
	header.Options.SetChecksum(cfg.checksum)
	off := header.WriteToSlice(buf, 0)

	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		if leaving {
			return true
		}

		kind := cur.Kind()
		count := cur.PartCount()
		if kind.IsLeaf() {
			count = cur.VertexCount()
		}
		engine.PutUint32(buf[off:], uint32(kind))
		engine.PutUint32(buf[off+4:], uint32(count)) //nolint:gosec
		off += section.NodeHeaderSize

		for _, v := range cur.Vertices() {
			endian.PutFloat64(engine, buf[off:], v)
			off += 8
		}

		return true
	})

	if cfg.checksum {
		// Checksum is always little-endian, like the Options field.
		sum := hash.Checksum(buf[:off])
		endian.GetLittleEndianEngine().PutUint64(buf[off:], sum)
		off += section.ChecksumSize
	}

	return off
}
