package main

import (
	"fmt"
	"strings"

	"github.com/arloliu/geoblob"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/spf13/cobra"
)

type convertFlags struct {
	from    string
	to      string
	in      string
	out     string
	force   string
	extract string
	flip    bool
}

func newConvertCmd(a *app) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a geometry between exchange formats",
		Example: `  echo 'POINT Z (1 2 3)' | geoblob convert --to geojson
  geoblob convert --from geojson --to wkb-hex --in shape.json --force 2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", format.FormatWKT.String(), "input format: wkt, wkb, wkb-hex, geojson or blob")
	cmd.Flags().StringVar(&flags.to, "to", format.FormatBlob.String(), "output format: wkt, wkb, wkb-hex, geojson or blob")
	cmd.Flags().StringVar(&flags.in, "in", "", "input file, stdin when empty")
	cmd.Flags().StringVar(&flags.out, "out", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&flags.force, "force", "", "output dimensionality: 2d, 3dz, 3dm or 4d")
	cmd.Flags().StringVar(&flags.extract, "extract", "", "keep only point, linestring or polygon parts")
	cmd.Flags().BoolVar(&flags.flip, "flip", false, "swap X and Y")

	return cmd
}

func (a *app) convert(cmd *cobra.Command, flags convertFlags) error {
	from, err := format.ParseExchangeFormat(flags.from)
	if err != nil {
		return err
	}
	to, err := format.ParseExchangeFormat(flags.to)
	if err != nil {
		return err
	}

	opts := a.cfg.Options()
	if flags.extract != "" {
		kind, ok := geometry.KindFromName(flags.extract)
		if !ok {
			return fmt.Errorf("unknown geometry kind %q", flags.extract)
		}
		opts = append(opts, geoblob.WithExtract(kind))
	}
	if flags.flip {
		opts = append(opts, geoblob.WithFlipCoordinates())
	}
	if flags.force != "" {
		force, err := parseForce(flags.force)
		if err != nil {
			return err
		}
		opts = append(opts, force)
	}

	data, err := readInput(cmd, flags.in, from)
	if err != nil {
		return err
	}

	out, err := geoblob.Convert(data, from, to, opts...)
	if err != nil {
		return err
	}

	return writeOutput(cmd, flags.out, out, to.IsText())
}

func parseForce(name string) (geoblob.Option, error) {
	switch strings.ToLower(name) {
	case "2d":
		return geoblob.WithForceDims(false, false), nil
	case "3dz":
		return geoblob.WithForceDims(true, false), nil
	case "3dm":
		return geoblob.WithForceDims(false, true), nil
	case "4d":
		return geoblob.WithForceDims(true, true), nil
	default:
		return nil, fmt.Errorf("unknown dimensionality %q", name)
	}
}
