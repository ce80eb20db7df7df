package shapefile

import (
	"fmt"
	"os"

	"github.com/arloliu/geoblob/geometry"
	"github.com/jonas-p/go-shp"
)

const (
	shxHeaderSize = 100
	shxRecordSize = 8
)

// Meta describes a shapefile without reading its records.
type Meta struct {
	Path        string
	ShapeType   string
	Bounds      geometry.Box
	RecordCount int
}

// ReadMeta returns the shape type, bounds and record count of the shapefile at path.
// The record count comes from the .shx index, or from a scan of the records when the
// index is missing.
func ReadMeta(path string) (Meta, error) {
	base := basePath(path)

	sr, err := shp.Open(base + ".shp")
	if err != nil {
		return Meta{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer sr.Close()

	box := sr.BBox()
	meta := Meta{
		Path:      base + ".shp",
		ShapeType: ShapeTypeName(sr.GeometryType),
		Bounds: geometry.Box{
			MinX: box.MinX,
			MinY: box.MinY,
			MaxX: box.MaxX,
			MaxY: box.MaxY,
		},
	}

	if info, err := os.Stat(base + ".shx"); err == nil && info.Size() >= shxHeaderSize {
		meta.RecordCount = int((info.Size() - shxHeaderSize) / shxRecordSize)
		return meta, nil
	}

	for sr.Next() {
		meta.RecordCount++
	}
	if err := sr.Err(); err != nil {
		return Meta{}, fmt.Errorf("failed to count records: %w", err)
	}

	return meta, nil
}
