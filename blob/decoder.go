package blob

import (
	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/hash"
	"github.com/arloliu/geoblob/section"
)

// Peek parses the header of a serialized geometry without decoding the body.
func Peek(data []byte) (section.GeometryHeader, error) {
	h, err := section.ParseGeometryHeader(data)
	if err != nil {
		return section.GeometryHeader{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
			Offset(0).
			Cause(err).
			Detail("invalid geometry header").
			Build()
	}

	return h, nil
}

// frame is one open container during decoding.
type frame struct {
	g         geometry.Geometry
	remaining uint32
}

// decoder holds the state of one Deserialize call.
type decoder struct {
	arena  *geometry.Arena
	engine endian.EndianEngine
	data   []byte
	cfg    *Config
	stack  []frame
	off    int
	end    int
	hasZ   bool
	hasM   bool
	stride int
}

// Deserialize decodes a serialized geometry into arena.
//
// The input is treated as untrusted: nesting is bounded by WithMaxDepth, every count is
// checked against the remaining bytes before anything is allocated, trailing bytes are
// rejected and a checksum trailer, when present, is verified. Errors are *errs.Error
// values of format errs.FormatBlob. On error nothing usable is returned, although nodes
// may already have been allocated in arena.
func Deserialize(arena *geometry.Arena, data []byte, opts ...Option) (geometry.Geometry, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return geometry.Geometry{}, err
	}

	header, err := Peek(data)
	if err != nil {
		return geometry.Geometry{}, err
	}

	end := len(data)
	if header.Options.HasChecksum() {
		if end < section.GeometryHeaderSize+section.ChecksumSize {
			return geometry.Geometry{}, errs.Malformed(errs.FormatBlob, end, "missing checksum trailer")
		}
		end -= section.ChecksumSize

		want := endian.GetLittleEndianEngine().Uint64(data[end:])
		if hash.Checksum(data[:end]) != want {
			return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
				Offset(end).
				Cause(errs.ErrChecksumMismatch).
				Detail("checksum trailer does not match").
				Build()
		}
	}

	d := decoder{
		arena:  arena,
		engine: header.Engine(),
		data:   data,
		cfg:    cfg,
		off:    section.GeometryHeaderSize,
		end:    end,
		hasZ:   header.HasZ(),
		hasM:   header.HasM(),
		stride: header.Stride(),
	}

	root, err := d.decode(header.Kind)
	if err != nil {
		return geometry.Geometry{}, err
	}

	if d.off != d.end {
		return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
			Offset(d.off).
			Value(d.end - d.off).
			Detail("trailing bytes after geometry").
			Build()
	}

	return root, nil
}

// decode reads nodes in pre-order with an explicit stack of open containers.
func (d *decoder) decode(rootKind geometry.Kind) (geometry.Geometry, error) {
	var root geometry.Geometry
	d.stack = make([]frame, 0, min(d.cfg.maxDepth, 16))

	for {
		nodeOff := d.off
		kind, count, err := d.readNodeHeader()
		if err != nil {
			return geometry.Geometry{}, err
		}

		var parent *frame
		if len(d.stack) > 0 {
			parent = &d.stack[len(d.stack)-1]
			if want := parent.g.Kind().PartKind(); want != geometry.Invalid && kind != want {
				return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
					Offset(nodeOff).
					Value(uint32(kind)).
					Detail("%s cannot contain %s", parent.g.Kind(), kind).
					Build()
			}
		} else if kind != rootKind {
			return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
				Offset(nodeOff).
				Value(uint32(kind)).
				Detail("root node %s does not match header kind %s", kind, rootKind).
				Build()
		}

		g, err := d.readNode(kind, count, nodeOff)
		if err != nil {
			return geometry.Geometry{}, err
		}

		if parent != nil {
			parent.g.AppendPart(g)
			parent.remaining--
		} else {
			root = g
		}

		if kind.IsContainer() && count > 0 {
			if len(d.stack) >= d.cfg.maxDepth {
				return geometry.Geometry{}, errs.TooDeep(errs.FormatBlob, nodeOff, d.cfg.maxDepth)
			}
			d.stack = append(d.stack, frame{g: g, remaining: count})
			continue
		}

		for len(d.stack) > 0 && d.stack[len(d.stack)-1].remaining == 0 {
			d.stack = d.stack[:len(d.stack)-1]
		}
		if len(d.stack) == 0 {
			return root, nil
		}
	}
}

func (d *decoder) readNodeHeader() (geometry.Kind, uint32, error) {
	if d.end-d.off < section.NodeHeaderSize {
		return geometry.Invalid, 0, errs.Malformed(errs.FormatBlob, d.off, "truncated node header")
	}

	code := d.engine.Uint32(d.data[d.off:])
	count := d.engine.Uint32(d.data[d.off+4:])

	kind := geometry.Kind(code)
	if code > uint32(geometry.GeometryCollection) || !kind.IsValid() {
		return geometry.Invalid, 0, errs.New(errs.FormatBlob, errs.KindMalformedInput).
			Offset(d.off).
			Value(code).
			Detail("unknown node kind").
			Build()
	}
	d.off += section.NodeHeaderSize

	return kind, count, nil
}

func (d *decoder) readNode(kind geometry.Kind, count uint32, nodeOff int) (geometry.Geometry, error) {
	remaining := uint64(d.end - d.off)

	if kind.IsContainer() {
		// Every part needs at least a node header.
		if uint64(count)*section.NodeHeaderSize > remaining {
			return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
				Offset(nodeOff).
				Value(count).
				Detail("part count exceeds remaining %d bytes", remaining).
				Build()
		}

		return d.arena.New(kind, d.hasZ, d.hasM), nil
	}

	if kind == geometry.Point && count > 1 {
		return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
			Offset(nodeOff).
			Value(count).
			Detail("point with more than one vertex").
			Build()
	}

	size := uint64(count) * uint64(d.stride) * 8
	if size > remaining {
		return geometry.Geometry{}, errs.New(errs.FormatBlob, errs.KindMalformedInput).
			Offset(nodeOff).
			Value(count).
			Detail("vertex count exceeds remaining %d bytes", remaining).
			Build()
	}

	g := d.arena.New(kind, d.hasZ, d.hasM)
	raw := d.data[d.off : d.off+int(size)]
	d.off += int(size)

	if d.cfg.viewVertices {
		if view, ok := endian.Float64View(d.engine, raw); ok {
			g.SetVertices(view)
			return g, nil
		}
	}

	values := d.arena.AllocVertices(int(count), d.hasZ, d.hasM)
	for i := range values {
		values[i] = endian.Float64(d.engine, raw[i*8:])
	}
	g.SetVertices(values)

	return g, nil
}
