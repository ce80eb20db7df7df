package wkt

import (
	"strconv"

	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/pool"
)

// Format renders g as WKT. Zero-vertex leaves and zero-part containers are written as
// EMPTY. The nil geometry formats as the empty string.
func Format(g geometry.Geometry, opts ...WriterOption) string {
	if g.IsNil() {
		return ""
	}

	buf := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(buf)

	buf.B = appendGeometry(buf.B, g, newWriterConfig(opts))

	return string(buf.B)
}

// Append appends the WKT form of g to dst.
func Append(dst []byte, g geometry.Geometry, opts ...WriterOption) []byte {
	if g.IsNil() {
		return dst
	}

	return appendGeometry(dst, g, newWriterConfig(opts))
}

func appendGeometry(dst []byte, root geometry.Geometry, cfg *WriterConfig) []byte {
	geometry.Walk(root, func(cur geometry.Geometry, leaving bool) bool {
		kind := cur.Kind()
		if leaving {
			if kind.IsContainer() && cur.PartCount() > 0 {
				dst = append(dst, ')')
			}
			return true
		}

		isRoot := cur.Handle() == root.Handle()
		var parent geometry.Geometry
		if !isRoot {
			parent = cur.Parent()
			if parent.FirstPart().Handle() != cur.Handle() {
				dst = append(dst, ", "...)
			}
		}

		// Only the root and collection members carry a keyword.
		if isRoot || parent.Kind() == geometry.GeometryCollection {
			dst = append(dst, kind.String()...)
			dst = appendDims(dst, cur)
			dst = append(dst, ' ')
		}

		if kind.IsContainer() {
			if cur.PartCount() == 0 {
				dst = append(dst, "EMPTY"...)
			} else {
				dst = append(dst, '(')
			}
			return true
		}

		if cur.VertexCount() == 0 {
			dst = append(dst, "EMPTY"...)
			return true
		}

		dst = append(dst, '(')
		dst = appendVertices(dst, cur.Vertices(), cur.Stride(), cfg.maxDecimalDigits)
		dst = append(dst, ')')

		return true
	})

	return dst
}

func appendDims(dst []byte, g geometry.Geometry) []byte {
	switch {
	case g.HasZ() && g.HasM():
		return append(dst, " ZM"...)
	case g.HasZ():
		return append(dst, " Z"...)
	case g.HasM():
		return append(dst, " M"...)
	default:
		return dst
	}
}

func appendVertices(dst []byte, values []float64, stride int, digits int) []byte {
	for i, v := range values {
		switch {
		case i == 0:
		case i%stride == 0:
			dst = append(dst, ", "...)
		default:
			dst = append(dst, ' ')
		}
		dst = appendFloat(dst, v, digits)
	}

	return dst
}

func appendFloat(dst []byte, v float64, digits int) []byte {
	if digits < 0 {
		return strconv.AppendFloat(dst, v, 'f', -1, 64)
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', digits, 64)

	// drop trailing zeros and a dangling point
	end := len(dst)
	for i := start; i < end; i++ {
		if dst[i] != '.' {
			continue
		}
		for end > i+1 && dst[end-1] == '0' {
			end--
		}
		if end == i+1 {
			end = i
		}
		break
	}
	dst = dst[:end]

	// "-0" after rounding
	if end-start == 2 && dst[start] == '-' && dst[start+1] == '0' {
		dst = append(dst[:start], '0')
	}

	return dst
}
