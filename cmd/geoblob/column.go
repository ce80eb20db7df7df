package main

import (
	"fmt"
	"os"

	"github.com/arloliu/geoblob"
	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/spf13/cobra"
)

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Inspect geometry column chunks",
	}

	cmd.AddCommand(
		newColumnDumpCmd(a),
		newColumnStatCmd(a),
	)

	return cmd
}

func (a *app) openColumn(path string) (*column.Decoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column chunk: %w", err)
	}

	opts, err := a.cfg.ColumnOptions()
	if err != nil {
		return nil, err
	}

	return column.NewDecoder(data, opts...)
}

func newColumnDumpCmd(a *app) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "dump <chunk>",
		Short: "Print every row of a column chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.ParseExchangeFormat(to)
			if err != nil {
				return err
			}
			if !f.IsText() {
				return fmt.Errorf("dump needs a text format, got %s", f)
			}

			dec, err := a.openColumn(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			opts := a.cfg.Options()
			arena := geometry.NewArena()
			for i, g := range dec.All(arena) {
				text := []byte("NULL")
				if !g.IsNil() {
					if text, err = geoblob.Encode(g, f, opts...); err != nil {
						return fmt.Errorf("row %d: %w", i, err)
					}
				}
				fmt.Fprintf(w, "%d\t%s\n", i, text)
				arena.Reset()
			}

			return dec.Err()
		},
	}

	cmd.Flags().StringVar(&to, "to", format.FormatWKT.String(), "row format: wkt, wkb-hex or geojson")

	return cmd
}

func newColumnStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <chunk>",
		Short: "Print the header and extent of a column chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := a.openColumn(args[0])
			if err != nil {
				return err
			}

			nulls := 0
			for i := range dec.Len() {
				if dec.IsNull(i) {
					nulls++
				}
			}

			h := dec.Header()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rows:        %d\n", dec.Len())
			fmt.Fprintf(w, "nulls:       %d\n", nulls)
			fmt.Fprintf(w, "compression: %s\n", h.Compression)
			fmt.Fprintf(w, "checksum:    %t\n", h.Options.HasChecksum())
			fmt.Fprintf(w, "big endian:  %t\n", h.Options.IsBigEndian())
			fmt.Fprintf(w, "payload:     %d bytes, %d stored\n", h.PayloadLength, h.StoredLength)

			box, ok, err := dec.Extent()
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(w, "extent:      %g %g, %g %g\n", box.MinX, box.MinY, box.MaxX, box.MaxY)
			} else {
				fmt.Fprintln(w, "extent:      EMPTY")
			}

			return nil
		},
	}
}
