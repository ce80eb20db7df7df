package wkb

import (
	"encoding/hex"
	"math"

	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
)

// Size returns the number of bytes Marshal produces for g. Parts may differ in
// dimensionality; every WKB geometry header carries its own.
func Size(g geometry.Geometry, opts ...WriterOption) int {
	if g.IsNil() {
		return 0
	}

	cfg := newWriterConfig(opts)

	return size(g, &cfg)
}

func size(root geometry.Geometry, cfg *WriterConfig) int {
	n := 0
	if cfg.hasSRID {
		n += 4
	}

	geometry.Walk(root, func(cur geometry.Geometry, leaving bool) bool {
		if leaving {
			return true
		}

		if isRing(root, cur) {
			n += countSize + len(cur.Vertices())*8
			return true
		}

		switch cur.Kind() {
		case geometry.Point:
			// empty points are written as NaN coordinates
			n += headerSize + cur.Stride()*8
		case geometry.LineString:
			n += headerSize + countSize + len(cur.Vertices())*8
		default:
			n += headerSize + countSize
		}

		return true
	})

	return n
}

// isRing reports whether cur is a polygon ring below root, which WKB writes without a
// header.
func isRing(root, cur geometry.Geometry) bool {
	return cur.Handle() != root.Handle() && cur.Parent().Kind() == geometry.Polygon
}

// Marshal encodes g as WKB: ISO type codes and little-endian unless configured otherwise.
func Marshal(g geometry.Geometry, opts ...WriterOption) ([]byte, error) {
	return Append(nil, g, opts...)
}

// MarshalHex encodes g as upper-case hex WKB.
func MarshalHex(g geometry.Geometry, opts ...WriterOption) (string, error) {
	data, err := Marshal(g, opts...)
	if err != nil {
		return "", err
	}

	return hexUpper(data), nil
}

func hexUpper(data []byte) string {
	out := hex.AppendEncode(make([]byte, 0, hex.EncodedLen(len(data))), data)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - 'a' + 'A'
		}
	}

	return string(out)
}

// Append appends the WKB encoding of g to dst.
func Append(dst []byte, g geometry.Geometry, opts ...WriterOption) ([]byte, error) {
	if g.IsNil() {
		return dst, errs.ErrNilGeometry
	}

	cfg := newWriterConfig(opts)
	engine := endian.Engine(cfg.bigEndian)
	marker := endian.WKBMarker(engine)

	if n := size(g, &cfg); cap(dst)-len(dst) < n {
		grown := make([]byte, len(dst), len(dst)+n)
		copy(grown, dst)
		dst = grown
	}

	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		if leaving {
			return true
		}

		if isRing(g, cur) {
			dst = appendVertices(dst, engine, cur)
			return true
		}

		isRoot := cur.Handle() == g.Handle()
		kind := cur.Kind()

		var code uint32
		if cfg.extended {
			code = extendedCode(kind, cur.HasZ(), cur.HasM(), isRoot && cfg.hasSRID)
		} else {
			code = isoCode(kind, cur.HasZ(), cur.HasM())
		}

		dst = append(dst, marker)
		dst = engine.AppendUint32(dst, code)
		if isRoot && cfg.hasSRID {
			dst = engine.AppendUint32(dst, cfg.srid)
		}

		switch kind {
		case geometry.Point:
			if cur.VertexCount() == 0 {
				for range cur.Stride() {
					dst = endian.AppendFloat64(engine, dst, math.NaN())
				}
				return true
			}
			for _, v := range cur.Vertices() {
				dst = endian.AppendFloat64(engine, dst, v)
			}
		case geometry.LineString:
			dst = appendVertices(dst, engine, cur)
		default:
			dst = engine.AppendUint32(dst, uint32(cur.PartCount())) //nolint:gosec
		}

		return true
	})

	return dst, nil
}

func appendVertices(dst []byte, engine endian.EndianEngine, g geometry.Geometry) []byte {
	dst = engine.AppendUint32(dst, uint32(g.VertexCount())) //nolint:gosec
	for _, v := range g.Vertices() {
		dst = endian.AppendFloat64(engine, dst, v)
	}

	return dst
}
