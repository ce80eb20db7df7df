package shapefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/geometry"
	"github.com/jonas-p/go-shp"
	"go.uber.org/zap"
)

var shapeTypeNames = map[shp.ShapeType]string{
	shp.NULL:        "NULL",
	shp.POINT:       "POINT",
	shp.POLYLINE:    "LINESTRING",
	shp.POLYGON:     "POLYGON",
	shp.MULTIPOINT:  "MULTIPOINT",
	shp.POINTZ:      "POINTZ",
	shp.POLYLINEZ:   "LINESTRINGZ",
	shp.POLYGONZ:    "POLYGONZ",
	shp.MULTIPOINTZ: "MULTIPOINTZ",
	shp.POINTM:      "POINTM",
	shp.POLYLINEM:   "LINESTRINGM",
	shp.POLYGONM:    "POLYGONM",
	shp.MULTIPOINTM: "MULTIPOINTM",
	shp.MULTIPATCH:  "MULTIPATCH",
}

// ShapeTypeName returns the name of a shapefile geometry type, such as "LINESTRINGZ" for
// PolyLineZ.
func ShapeTypeName(t shp.ShapeType) string {
	if name, ok := shapeTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("UNKNOWN(%d)", int32(t))
}

// basePath strips the extension of a .shp path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Reader reads the records of a shapefile and its DBF attribute table.
//
// Note: The Reader is NOT thread-safe.
type Reader struct {
	shp      *shp.Reader
	shape    shp.Shape
	err      error
	fields   []Field
	encoding Encoding
	row      int
}

// Open opens the shapefile at path. The .shx and .dbf files are looked up next to it and
// a missing .dbf is an error. Files whose type is MultiPatch, and attribute tables with
// column types other than C, N, F, D and L, are rejected.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	base := basePath(path)
	encoding := cfg.encoding
	if encoding == EncodingAuto {
		if encoding, err = detectEncoding(base); err != nil {
			return nil, fmt.Errorf("failed to read code page: %w", err)
		}
	}

	// go-shp opens the .dbf lazily and drops its error.
	if _, err := os.Stat(base + ".dbf"); err != nil {
		return nil, fmt.Errorf("failed to open attribute table: %w", err)
	}

	sr, err := shp.Open(base + ".shp")
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}

	if sr.GeometryType == shp.MULTIPATCH {
		sr.Close()
		return nil, errs.Unsupported(errs.FormatShape, errs.NoOffset, ShapeTypeName(sr.GeometryType), "shape type")
	}

	fields, err := newFields(sr.Fields(), encoding)
	if err != nil {
		sr.Close()
		return nil, err
	}

	r := &Reader{
		shp:      sr,
		fields:   fields,
		encoding: encoding,
		row:      -1,
	}

	Logger().Debug("shapefile opened",
		zap.String("path", base+".shp"),
		zap.String("shape_type", ShapeTypeName(sr.GeometryType)),
		zap.Int("fields", len(r.fields)),
		zap.Stringer("encoding", encoding),
	)

	return r, nil
}

// ShapeType returns the file-wide shape type.
func (r *Reader) ShapeType() shp.ShapeType {
	return r.shp.GeometryType
}

// Fields returns the attribute columns in table order. Repeated names carry a numeric
// suffix.
func (r *Reader) Fields() []Field {
	return r.fields
}

// Next advances to the next record. It returns false at the end of the file or on error;
// Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.err != nil || !r.shp.Next() {
		if r.err == nil {
			r.err = r.shp.Err()
		}
		r.shape = nil
		return false
	}

	_, r.shape = r.shp.Shape()
	r.row++

	return true
}

// Row returns the zero-based index of the current record.
func (r *Reader) Row() int {
	return r.row
}

// Geometry converts the current record into arena. The second result is false for a
// null shape.
func (r *Reader) Geometry(arena *geometry.Arena) (geometry.Geometry, bool, error) {
	g, ok, err := convert(arena, r.shape)
	if err != nil {
		return geometry.Geometry{}, false, fmt.Errorf("record %d: %w", r.row, err)
	}

	return g, ok, nil
}

// Attributes returns the attribute values of the current record keyed by field name.
// Values are typed by column, see FieldType; NULL cells are nil.
func (r *Reader) Attributes() (map[string]any, error) {
	attrs := make(map[string]any, len(r.fields))
	for i, f := range r.fields {
		value, err := decodeValue(r.shp.ReadAttribute(r.row, i), f.Type, r.encoding)
		if err != nil {
			return nil, fmt.Errorf("record %d field %s: %w", r.row, f.Name, err)
		}
		attrs[f.Name] = value
	}

	return attrs, nil
}

// Err returns the first error met by Next.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying files.
func (r *Reader) Close() {
	r.shp.Close()
}
