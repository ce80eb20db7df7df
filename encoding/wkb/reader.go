package wkb

import (
	"encoding/hex"
	"math"

	"github.com/arloliu/geoblob/endian"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/normalize"
	"go.uber.org/zap"
)

// DefaultStackSize is the nesting capacity used by Read unless WithStackSize says otherwise.
const DefaultStackSize = 64

const (
	headerSize = 5 // byte order + type code
	countSize  = 4
	// minPartSize is the smallest encoding of any part: a header and a count.
	minPartSize = headerSize + countSize
)

// Frame is one open container on a Reader's stack.
type Frame struct {
	g         geometry.Geometry
	remaining uint32
}

// Reader decodes WKB and EWKB.
//
// Nested containers are tracked on the caller-supplied stack rather than the call stack;
// its length is the maximum nesting depth. A Reader is not safe for concurrent use.
type Reader struct {
	stack []Frame
	cfg   ReaderConfig
}

// NewReader creates a reader whose nesting capacity is len(stack).
func NewReader(stack []Frame, opts ...ReaderOption) *Reader {
	return &Reader{
		stack: stack,
		cfg:   newReaderConfig(opts),
	}
}

// Read decodes data with a frame stack of WithStackSize entries, DefaultStackSize by
// default. Stacks up to DefaultStackSize live on the goroutine stack.
func Read(arena *geometry.Arena, data []byte, opts ...ReaderOption) (geometry.Geometry, error) {
	r := &Reader{cfg: newReaderConfig(opts)}

	var stack [DefaultStackSize]Frame
	if r.cfg.stackSize <= DefaultStackSize {
		r.stack = stack[:r.cfg.stackSize]
	} else {
		r.stack = make([]Frame, r.cfg.stackSize)
	}

	return r.Read(arena, data)
}

// ReadHex decodes hex encoded WKB, the form PostGIS prints.
func ReadHex(arena *geometry.Arena, text string, opts ...ReaderOption) (geometry.Geometry, error) {
	data, err := hex.DecodeString(text)
	if err != nil {
		return geometry.Geometry{}, errs.New(errs.FormatWKB, errs.KindMalformedInput).
			Offset(errs.NoOffset).
			Cause(err).
			Detail("invalid hex input").
			Build()
	}

	return Read(arena, data, opts...)
}

// Read decodes one geometry from data into arena.
func (r *Reader) Read(arena *geometry.Arena, data []byte) (geometry.Geometry, error) {
	g, _, err := r.ReadWithSRID(arena, data)
	return g, err
}

// ReadWithSRID is like Read and also returns the EWKB SRID of the root geometry, or 0.
//
// Errors are *errs.Error values of format errs.FormatWKB with the byte offset and, where
// one byte or field violated the format, its value.
func (r *Reader) ReadWithSRID(arena *geometry.Arena, data []byte) (geometry.Geometry, int, error) {
	d := decoder{
		Reader: r,
		arena:  arena,
		data:   data,
	}

	g, err := d.decode()
	if err != nil {
		return geometry.Geometry{}, 0, err
	}

	if d.off != len(data) {
		return geometry.Geometry{}, 0, errs.New(errs.FormatWKB, errs.KindMalformedInput).
			Offset(d.off).
			Value(len(data) - d.off).
			Detail("trailing bytes after geometry").
			Build()
	}

	if r.cfg.allowMixedZM && geometry.HasMixedDims(g) {
		Logger().Debug("normalizing mixed dimensionality", zap.Stringer("kind", g.Kind()))
		g = normalize.Reconcile(arena, g)
	}

	return g, d.srid, nil
}

// decoder holds the state of one Read call.
type decoder struct {
	*Reader
	arena *geometry.Arena
	data  []byte
	off   int
	depth int
	srid  int
}

func (d *decoder) clearStack() {
	for i := range d.depth {
		d.stack[i] = Frame{}
	}
	d.depth = 0
}

// decode walks the input in pre-order: ReadHeader, then either the leaf payload or the
// part count, pushing every non-empty container on the stack until its parts are read.
func (d *decoder) decode() (geometry.Geometry, error) {
	defer d.clearStack()

	var root geometry.Geometry
	for {
		nodeOff := d.off
		engine, tc, err := d.readHeader(nodeOff == 0)
		if err != nil {
			return geometry.Geometry{}, err
		}

		var parent *Frame
		if d.depth > 0 {
			parent = &d.stack[d.depth-1]
			if err := d.checkPart(parent.g, tc, nodeOff); err != nil {
				return geometry.Geometry{}, err
			}
		}

		g, count, err := d.readNode(engine, tc, nodeOff)
		if err != nil {
			return geometry.Geometry{}, err
		}

		if parent != nil {
			parent.g.AppendPart(g)
			parent.remaining--
		} else {
			root = g
		}

		if count > 0 {
			if d.depth >= len(d.stack) {
				return geometry.Geometry{}, errs.TooDeep(errs.FormatWKB, nodeOff, len(d.stack))
			}
			d.stack[d.depth] = Frame{g: g, remaining: count}
			d.depth++

			continue
		}

		for d.depth > 0 && d.stack[d.depth-1].remaining == 0 {
			d.depth--
			d.stack[d.depth] = Frame{}
		}
		if d.depth == 0 {
			return root, nil
		}
	}
}

func (d *decoder) checkPart(parent geometry.Geometry, tc typeCode, off int) error {
	if want := parent.Kind().PartKind(); want != geometry.Invalid && tc.kind != want {
		return errs.New(errs.FormatWKB, errs.KindMalformedInput).
			Offset(off).
			Value(uint32(tc.kind)).
			Detail("%s cannot contain %s", parent.Kind(), tc.kind).
			Build()
	}

	if !d.cfg.allowMixedZM && (tc.hasZ != parent.HasZ() || tc.hasM != parent.HasM()) {
		return errs.MixedDims(errs.FormatWKB, off,
			tc.kind.String()+" part dimensionality differs from its "+parent.Kind().String())
	}

	return nil
}

func (d *decoder) readHeader(root bool) (endian.EndianEngine, typeCode, error) {
	if len(d.data)-d.off < headerSize {
		return nil, typeCode{}, errs.Malformed(errs.FormatWKB, d.off, "truncated geometry header")
	}

	marker := d.data[d.off]
	engine, ok := endian.FromWKBMarker(marker)
	if !ok {
		return nil, typeCode{}, errs.New(errs.FormatWKB, errs.KindMalformedInput).
			Offset(d.off).
			Value(marker).
			Detail("invalid byte order").
			Build()
	}

	code := engine.Uint32(d.data[d.off+1:])
	tc, ok := parseTypeCode(code)
	if !ok {
		return nil, typeCode{}, errs.Unsupported(errs.FormatWKB, d.off+1, code, "unsupported geometry type code")
	}
	d.off += headerSize

	if tc.hasSRID {
		if len(d.data)-d.off < 4 {
			return nil, typeCode{}, errs.Malformed(errs.FormatWKB, d.off, "truncated SRID")
		}
		// Only the root SRID is reported; PostGIS never writes one on parts.
		if root {
			d.srid = int(engine.Uint32(d.data[d.off:]))
		}
		d.off += 4
	}

	return engine, tc, nil
}

// readNode reads the payload of one node. Containers return their part count.
func (d *decoder) readNode(engine endian.EndianEngine, tc typeCode, nodeOff int) (geometry.Geometry, uint32, error) {
	stride := geometry.Stride(tc.hasZ, tc.hasM)

	switch tc.kind {
	case geometry.Point:
		g := d.arena.New(geometry.Point, tc.hasZ, tc.hasM)
		return g, 0, d.readPoint(engine, g, stride, nodeOff)

	case geometry.LineString:
		g := d.arena.New(geometry.LineString, tc.hasZ, tc.hasM)
		return g, 0, d.readVertices(engine, g, stride)

	case geometry.Polygon:
		g := d.arena.New(geometry.Polygon, tc.hasZ, tc.hasM)
		rings, err := d.readCount(engine, countSize)
		if err != nil {
			return geometry.Geometry{}, 0, err
		}
		for range rings {
			ring := d.arena.New(geometry.LineString, tc.hasZ, tc.hasM)
			if err := d.readVertices(engine, ring, stride); err != nil {
				return geometry.Geometry{}, 0, err
			}
			g.AppendPart(ring)
		}
		return g, 0, nil

	default:
		count, err := d.readCount(engine, minPartSize)
		if err != nil {
			return geometry.Geometry{}, 0, err
		}
		return d.arena.New(tc.kind, tc.hasZ, tc.hasM), count, nil
	}
}

// readCount reads a uint32 count whose items need at least itemSize bytes each.
func (d *decoder) readCount(engine endian.EndianEngine, itemSize uint64) (uint32, error) {
	if len(d.data)-d.off < countSize {
		return 0, errs.Malformed(errs.FormatWKB, d.off, "truncated count")
	}

	count := engine.Uint32(d.data[d.off:])
	remaining := uint64(len(d.data) - d.off - countSize)
	if uint64(count)*itemSize > remaining {
		return 0, errs.New(errs.FormatWKB, errs.KindMalformedInput).
			Offset(d.off).
			Value(count).
			Detail("count exceeds remaining %d bytes", remaining).
			Build()
	}
	d.off += countSize

	return count, nil
}

func (d *decoder) readVertices(engine endian.EndianEngine, g geometry.Geometry, stride int) error {
	count, err := d.readCount(engine, uint64(stride)*8)
	if err != nil {
		return err
	}

	size := int(count) * stride * 8
	raw := d.data[d.off : d.off+size]
	d.off += size

	if !d.cfg.copyVertices {
		if view, ok := endian.Float64View(engine, raw); ok {
			g.SetVertices(view)
			return nil
		}
	}

	values := d.arena.AllocVertices(int(count), g.HasZ(), g.HasM())
	for i := range values {
		values[i] = endian.Float64(engine, raw[i*8:])
	}
	g.SetVertices(values)

	return nil
}

// readPoint reads one vertex. X and Y both NaN encode the empty point.
func (d *decoder) readPoint(engine endian.EndianEngine, g geometry.Geometry, stride int, nodeOff int) error {
	size := stride * 8
	if len(d.data)-d.off < size {
		return errs.Malformed(errs.FormatWKB, d.off, "truncated point")
	}

	raw := d.data[d.off : d.off+size]
	x := endian.Float64(engine, raw)
	y := endian.Float64(engine, raw[8:])
	if math.IsNaN(x) && math.IsNaN(y) {
		if !d.cfg.nanAsEmpty {
			return errs.Malformed(errs.FormatWKB, nodeOff, "point with NaN coordinates")
		}
		d.off += size

		return nil
	}

	values := d.arena.AllocVertices(1, g.HasZ(), g.HasM())
	for i := range values {
		values[i] = endian.Float64(engine, raw[i*8:])
	}
	g.SetVertices(values)
	d.off += size

	return nil
}
