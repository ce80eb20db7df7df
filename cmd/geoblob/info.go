package main

import (
	"fmt"

	"github.com/arloliu/geoblob"
	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	var from, in string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe a geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.ParseExchangeFormat(from)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, in, f)
			if err != nil {
				return err
			}

			g, err := geoblob.Decode(geometry.NewArena(), data, f, a.cfg.Options()...)
			if err != nil {
				return err
			}

			return printInfo(cmd, g)
		},
	}

	cmd.Flags().StringVar(&from, "from", format.FormatWKT.String(), "input format: wkt, wkb, wkb-hex, geojson or blob")
	cmd.Flags().StringVar(&in, "in", "", "input file, stdin when empty")

	return cmd
}

func dimsName(g geometry.Geometry) string {
	switch {
	case g.HasZ() && g.HasM():
		return "XYZM"
	case g.HasZ():
		return "XYZ"
	case g.HasM():
		return "XYM"
	default:
		return "XY"
	}
}

// openRings counts polygon rings whose first and last vertices differ.
func openRings(g geometry.Geometry) int {
	n := 0
	geometry.Walk(g, func(cur geometry.Geometry, leaving bool) bool {
		if leaving || cur.Kind() != geometry.LineString {
			return true
		}
		if parent := cur.Parent(); !parent.IsNil() && parent.Kind() == geometry.Polygon && !geometry.IsClosed(cur) {
			n++
		}
		return true
	})

	return n
}

func printInfo(cmd *cobra.Command, g geometry.Geometry) error {
	size, err := blob.RequiredSize(g)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "kind:      %s\n", g.Kind())
	fmt.Fprintf(w, "dims:      %s\n", dimsName(g))
	fmt.Fprintf(w, "parts:     %d\n", g.PartCount())
	fmt.Fprintf(w, "vertices:  %d\n", geometry.VertexTotal(g))
	fmt.Fprintf(w, "depth:     %d\n", geometry.Depth(g))
	if box, ok := geometry.Extent(g); ok {
		fmt.Fprintf(w, "extent:    %g %g, %g %g\n", box.MinX, box.MinY, box.MaxX, box.MaxY)
	} else {
		fmt.Fprintln(w, "extent:    EMPTY")
	}
	fmt.Fprintf(w, "open rings: %d\n", openRings(g))
	fmt.Fprintf(w, "blob size: %d\n", size)

	return nil
}
