package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/geometry"
	"github.com/arloliu/geoblob/shapefile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newShpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shp",
		Short: "Read ESRI shapefiles",
	}

	cmd.AddCommand(
		newShpReadCmd(a),
		newShpMetaCmd(),
		newShpDumpCmd(a),
	)

	return cmd
}

func newShpReadCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "read <file.shp>",
		Short: "Write every record of a shapefile to a column chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			colOpts, err := a.cfg.ColumnOptions()
			if err != nil {
				return err
			}
			shpOpts, err := a.cfg.ShapefileOptions()
			if err != nil {
				return err
			}

			enc, err := column.NewEncoder(colOpts...)
			if err != nil {
				return err
			}

			rows, err := shapefile.ReadAll(args[0], enc, shpOpts...)
			if err != nil {
				return err
			}

			data, err := enc.Finish()
			if err != nil {
				return err
			}

			a.logger.Info("column chunk written",
				zap.String("source", args[0]),
				zap.String("out", out),
				zap.Int("rows", rows),
				zap.Int("bytes", len(data)),
			)

			return writeOutput(cmd, out, data, false)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output column chunk file, stdout when empty")

	return cmd
}

func newShpMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta <file.shp>",
		Short: "Print the shape type, bounds and record count of a shapefile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := shapefile.ReadMeta(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "path:    %s\n", meta.Path)
			fmt.Fprintf(w, "type:    %s\n", meta.ShapeType)
			fmt.Fprintf(w, "bounds:  %g %g, %g %g\n", meta.Bounds.MinX, meta.Bounds.MinY, meta.Bounds.MaxX, meta.Bounds.MaxY)
			fmt.Fprintf(w, "records: %d\n", meta.RecordCount)

			return nil
		},
	}
}

func newShpDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.shp>",
		Short: "Print every record as WKT with its attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.ShapefileOptions()
			if err != nil {
				return err
			}

			r, err := shapefile.Open(args[0], opts...)
			if err != nil {
				return err
			}
			defer r.Close()

			w := cmd.OutOrStdout()
			arena := geometry.NewArena()
			for r.Next() {
				g, ok, err := r.Geometry(arena)
				if err != nil {
					return err
				}
				attrs, err := r.Attributes()
				if err != nil {
					return err
				}

				text := "NULL"
				if ok {
					text = wkt.Format(g)
				}
				fmt.Fprintf(w, "%d\t%s", r.Row(), text)
				for _, name := range slices.Sorted(maps.Keys(attrs)) {
					fmt.Fprintf(w, "\t%s=%s", name, formatAttribute(attrs[name]))
				}
				fmt.Fprintln(w)

				arena.Reset()
			}

			return r.Err()
		},
	}
}

// formatAttribute prints a typed attribute value; NULL cells print as NULL.
func formatAttribute(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.DateOnly)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
