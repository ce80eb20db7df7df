package wkt

import (
	"strconv"
	"strings"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/internal/pool"
	"github.com/arloliu/geoblob/normalize"
	"go.uber.org/zap"
)

// dims is the dimensionality of the geometry being parsed. It is unknown until a tag or
// the first coordinate fixes it.
type dims struct {
	z, m  bool
	known bool
}

func (d dims) stride() int {
	return geometry.Stride(d.z, d.m)
}

func (d dims) String() string {
	switch {
	case d.z && d.m:
		return "ZM"
	case d.z:
		return "Z"
	case d.m:
		return "M"
	default:
		return "2D"
	}
}

type parser struct {
	arena   *geometry.Arena
	cfg     *ReaderConfig
	scratch *pool.Float64Scratch
	text    string
	parts   []geometry.Geometry
	pos     int
	depth   int
}

// Parse reads a WKT or EWKT geometry into arena.
//
// Keywords are case-insensitive. Without a Z/M/ZM tag the dimensionality is implied by the
// number of ordinates: 3 means Z and 4 means ZM. Parts of a collection whose dimensions
// disagree are normalized to the union of their dimensions unless WithStrictDims is set.
// Errors are *errs.Error values carrying the byte offset and a fragment of the input.
func Parse(arena *geometry.Arena, text string, opts ...ReaderOption) (geometry.Geometry, error) {
	g, _, err := ParseWithSRID(arena, text, opts...)
	return g, err
}

// ParseWithSRID is like Parse and also returns the SRID of an EWKT "SRID=n;" prefix, or 0
// when there is none.
func ParseWithSRID(arena *geometry.Arena, text string, opts ...ReaderOption) (geometry.Geometry, int, error) {
	cfg, err := newReaderConfig(opts)
	if err != nil {
		return geometry.Geometry{}, 0, err
	}

	p := parser{
		arena:   arena,
		cfg:     cfg,
		text:    text,
		scratch: pool.GetFloat64Scratch(),
	}
	defer pool.PutFloat64Scratch(p.scratch)

	srid, err := p.parseSRID()
	if err != nil {
		return geometry.Geometry{}, 0, err
	}

	g, err := p.parseGeometry()
	if err != nil {
		return geometry.Geometry{}, 0, err
	}

	p.skipSpace()
	if p.pos < len(p.text) {
		return geometry.Geometry{}, 0, p.errorf(p.pos, "unexpected content after geometry")
	}

	if geometry.HasMixedDims(g) {
		if cfg.strictDims {
			return geometry.Geometry{}, 0, errs.New(errs.FormatWKT, errs.KindInconsistentDimensionality).
				Offset(0).
				Fragment(errs.FragmentAt(text, 0)).
				Detail("parts of %s disagree on Z/M presence", g.Kind()).
				Build()
		}
		Logger().Debug("normalizing mixed dimensionality", zap.Stringer("kind", g.Kind()))
		g = normalize.Reconcile(arena, g)
	}

	return g, srid, nil
}

func (p *parser) errorf(offset int, msg string, args ...any) *errs.Error {
	return errs.New(errs.FormatWKT, errs.KindMalformedInput).
		Offset(offset).
		Fragment(errs.FragmentAt(p.text, offset)).
		Detail(msg, args...).
		Build()
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return 0
	}

	return p.text[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		if p.pos >= len(p.text) {
			return p.errorf(p.pos, "expected %q, got end of input", c)
		}
		return p.errorf(p.pos, "expected %q, got %q", c, p.text[p.pos])
	}
	p.pos++

	return nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// word reads a run of letters without consuming anything else.
func (p *parser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) && isLetter(p.text[p.pos]) {
		p.pos++
	}

	return p.text[start:p.pos]
}

// peekWord returns the next word without consuming it.
func (p *parser) peekWord() string {
	p.skipSpace()
	pos := p.pos
	w := p.word()
	p.pos = pos

	return w
}

func (p *parser) parseSRID() (int, error) {
	p.skipSpace()
	if len(p.text)-p.pos < 5 || !strings.EqualFold(p.text[p.pos:p.pos+5], "SRID=") {
		return 0, nil
	}

	start := p.pos + 5
	end := strings.IndexByte(p.text[start:], ';')
	if end < 0 {
		return 0, p.errorf(p.pos, "SRID prefix without ';'")
	}

	srid, err := strconv.Atoi(strings.TrimSpace(p.text[start : start+end]))
	if err != nil {
		return 0, p.errorf(start, "invalid SRID %q", p.text[start:start+end])
	}
	p.pos = start + end + 1

	return srid, nil
}

// kindFromKeyword accepts KIND, and KIND glued to a Z, M or ZM suffix.
func kindFromKeyword(w string) (geometry.Kind, dims, bool) {
	upper := strings.ToUpper(w)
	for _, suffix := range [...]struct {
		s string
		d dims
	}{
		{"", dims{}},
		{"ZM", dims{z: true, m: true, known: true}},
		{"Z", dims{z: true, known: true}},
		{"M", dims{m: true, known: true}},
	} {
		base, ok := strings.CutSuffix(upper, suffix.s)
		if !ok {
			continue
		}
		if k, ok := geometry.KindFromName(base); ok {
			return k, suffix.d, true
		}
	}

	return geometry.Invalid, dims{}, false
}

// parseTag reads an optional Z/M/ZM tag and the EMPTY keyword.
func (p *parser) parseTag(d *dims) (bool, error) {
	w := p.peekWord()
	tag := dims{known: true}
	switch strings.ToUpper(w) {
	case "Z":
		tag.z = true
	case "M":
		tag.m = true
	case "ZM":
		tag.z, tag.m = true, true
	case "EMPTY":
		p.word()
		return true, nil
	case "":
		return false, nil
	default:
		return false, p.errorf(p.pos, "unexpected word %q", w)
	}

	start := p.pos
	p.word()
	if d.known && (d.z != tag.z || d.m != tag.m) {
		return false, p.errorf(start, "conflicting dimension tags %s and %s", *d, tag)
	}
	*d = tag

	if strings.EqualFold(p.peekWord(), "EMPTY") {
		p.word()
		return true, nil
	}

	return false, nil
}

// parseGeometry reads a tagged geometry: keyword, optional dims, then EMPTY or a body.
func (p *parser) parseGeometry() (geometry.Geometry, error) {
	p.skipSpace()
	start := p.pos
	w := p.word()
	if w == "" {
		if p.pos >= len(p.text) {
			return geometry.Geometry{}, p.errorf(start, "expected geometry keyword, got end of input")
		}
		return geometry.Geometry{}, p.errorf(start, "expected geometry keyword")
	}

	kind, d, ok := kindFromKeyword(w)
	if !ok {
		return geometry.Geometry{}, errs.New(errs.FormatWKT, errs.KindUnsupportedType).
			Offset(start).
			Fragment(errs.FragmentAt(p.text, start)).
			Value(w).
			Detail("unknown geometry type").
			Build()
	}

	empty, err := p.parseTag(&d)
	if err != nil {
		return geometry.Geometry{}, err
	}
	if empty {
		return p.arena.New(kind, d.z, d.m), nil
	}

	return p.parseBody(kind, &d)
}

// parseBody reads the parenthesized body of kind. Multi* and Polygon parts share d.
func (p *parser) parseBody(kind geometry.Kind, d *dims) (geometry.Geometry, error) {
	switch kind {
	case geometry.Point:
		if err := p.expect('('); err != nil {
			return geometry.Geometry{}, err
		}
		g, err := p.parseLeaf(geometry.Point, d)
		if err != nil {
			return geometry.Geometry{}, err
		}
		return g, p.expect(')')

	case geometry.LineString:
		return p.parseLineString(d)

	case geometry.Polygon, geometry.MultiPoint, geometry.MultiLineString,
		geometry.MultiPolygon, geometry.GeometryCollection:
		return p.parseContainer(kind, d)

	default:
		return geometry.Geometry{}, p.errorf(p.pos, "unexpected geometry kind %s", kind)
	}
}

func (p *parser) parseLineString(d *dims) (geometry.Geometry, error) {
	if strings.EqualFold(p.peekWord(), "EMPTY") {
		p.word()
		return p.arena.New(geometry.LineString, d.z, d.m), nil
	}
	if err := p.expect('('); err != nil {
		return geometry.Geometry{}, err
	}
	g, err := p.parseLeaf(geometry.LineString, d)
	if err != nil {
		return geometry.Geometry{}, err
	}

	return g, p.expect(')')
}

// parseContainer reads "( part, part, ... )". Parts are collected on p.parts and attached
// once the container dimensionality is known.
func (p *parser) parseContainer(kind geometry.Kind, d *dims) (geometry.Geometry, error) {
	p.skipSpace()
	open := p.pos
	if err := p.expect('('); err != nil {
		return geometry.Geometry{}, err
	}

	if p.depth >= p.cfg.maxDepth {
		return geometry.Geometry{}, errs.New(errs.FormatWKT, errs.KindTooDeeplyNested).
			Offset(open).
			Fragment(errs.FragmentAt(p.text, open)).
			Detail("nesting exceeds capacity of %d levels", p.cfg.maxDepth).
			Build()
	}
	p.depth++
	defer func() { p.depth-- }()

	mark := len(p.parts)
	defer func() { p.parts = p.parts[:mark] }()

	var anyZ, anyM bool
	for {
		part, err := p.parsePart(kind, d)
		if err != nil {
			return geometry.Geometry{}, err
		}
		anyZ = anyZ || part.HasZ()
		anyM = anyM || part.HasM()
		p.parts = append(p.parts, part)

		if p.peek() == ',' {
			p.pos++
			continue
		}
		if err := p.expect(')'); err != nil {
			return geometry.Geometry{}, err
		}
		break
	}

	hasZ, hasM := d.z, d.m
	if kind == geometry.GeometryCollection && !d.known {
		hasZ, hasM = anyZ, anyM
	}

	return p.arena.NewContainer(kind, hasZ, hasM, p.parts[mark:]...), nil
}

func (p *parser) parsePart(kind geometry.Kind, d *dims) (geometry.Geometry, error) {
	switch kind {
	case geometry.GeometryCollection:
		return p.parseGeometry()

	case geometry.Polygon, geometry.MultiLineString:
		return p.parseLineString(d)

	case geometry.MultiPolygon:
		if strings.EqualFold(p.peekWord(), "EMPTY") {
			p.word()
			return p.arena.New(geometry.Polygon, d.z, d.m), nil
		}
		return p.parseContainer(geometry.Polygon, d)

	case geometry.MultiPoint:
		// Points may be bare or parenthesized.
		switch c := p.peek(); {
		case c == '(':
			p.pos++
			g, err := p.parseLeaf(geometry.Point, d)
			if err != nil {
				return geometry.Geometry{}, err
			}
			return g, p.expect(')')
		case isLetter(c) && strings.EqualFold(p.peekWord(), "EMPTY"):
			p.word()
			return p.arena.New(geometry.Point, d.z, d.m), nil
		default:
			return p.parseLeaf(geometry.Point, d)
		}

	default:
		return geometry.Geometry{}, p.errorf(p.pos, "%s has no parts", kind)
	}
}

// parseLeaf reads comma separated coordinates up to, not including, the closing paren.
// A Point reads exactly one coordinate.
func (p *parser) parseLeaf(kind geometry.Kind, d *dims) (geometry.Geometry, error) {
	p.scratch.B = p.scratch.B[:0]

	for {
		p.skipSpace()
		start := p.pos
		n, err := p.parseCoord()
		if err != nil {
			return geometry.Geometry{}, err
		}

		if !d.known {
			switch n {
			case 2:
			case 3:
				d.z = true
			case 4:
				d.z, d.m = true, true
			default:
				return geometry.Geometry{}, p.errorf(start, "coordinate has %d ordinates", n)
			}
			d.known = true
		} else if n != d.stride() {
			return geometry.Geometry{}, p.errorf(start, "expected %d ordinates for %s, got %d", d.stride(), *d, n)
		}

		if kind == geometry.Point || p.peek() != ',' {
			break
		}
		p.pos++
	}

	return p.arena.NewLeaf(kind, d.z, d.m, p.scratch.B...), nil
}

// parseCoord appends one coordinate to the scratch buffer and returns its ordinate count.
func (p *parser) parseCoord() (int, error) {
	n := 0
	for {
		switch c := p.peek(); c {
		case ',', ')', 0:
			if n == 0 {
				return 0, p.errorf(p.pos, "expected coordinate")
			}
			return n, nil
		}

		start := p.pos
		for p.pos < len(p.text) {
			c := p.text[p.pos]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' || c == '(' || c == ')' {
				break
			}
			p.pos++
		}
		if start == p.pos {
			return 0, p.errorf(start, "unexpected %q", p.text[start])
		}

		v, err := strconv.ParseFloat(p.text[start:p.pos], 64)
		if err != nil {
			return 0, p.errorf(start, "invalid number %q", p.text[start:p.pos])
		}
		if n == 4 {
			return 0, p.errorf(start, "coordinate has more than 4 ordinates")
		}
		p.scratch.B = append(p.scratch.B, v)
		n++
	}
}
