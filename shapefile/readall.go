package shapefile

import (
	"fmt"

	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/geometry"
	"go.uber.org/zap"
)

// ReadAll appends every record of the shapefile at path to enc, null shapes as null rows,
// and returns the number of rows added.
func ReadAll(path string, enc *column.Encoder, opts ...Option) (int, error) {
	r, err := Open(path, opts...)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	arena := geometry.NewArena()
	rows, nulls := 0, 0
	for r.Next() {
		g, ok, err := r.Geometry(arena)
		if err != nil {
			return rows, err
		}

		if ok {
			err = enc.Append(g)
		} else {
			err = enc.AppendNull()
			nulls++
		}
		if err != nil {
			return rows, fmt.Errorf("record %d: %w", r.Row(), err)
		}

		rows++
		arena.Reset()
	}
	if err := r.Err(); err != nil {
		return rows, err
	}

	Logger().Debug("shapefile read",
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("nulls", nulls),
	)

	return rows, nil
}
