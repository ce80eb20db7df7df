package geoblob

import (
	"testing"

	"github.com/arloliu/geoblob/blob"
	"github.com/arloliu/geoblob/encoding/wkb"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/errs"
	"github.com/arloliu/geoblob/format"
	"github.com/arloliu/geoblob/geometry"
	"github.com/stretchr/testify/require"
)

// TestWKTRoundTrip verifies text survives a trip through the blob format
func TestWKTRoundTrip(t *testing.T) {
	inputs := []string{
		"POINT (1 2)",
		"LINESTRING Z (0 0 1, 1 1 2)",
		"POLYGON M ((0 0 5, 4 0 5, 4 4 5, 0 0 5))",
		"MULTIPOINT ZM ((1 2 3 4), (5 6 7 8))",
		"GEOMETRYCOLLECTION (POINT (1 2), LINESTRING EMPTY)",
		"MULTIPOLYGON EMPTY",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			data, err := FromWKT(text)
			require.NoError(t, err)

			out, err := ToWKT(data)
			require.NoError(t, err)
			require.Equal(t, text, out)
		})
	}
}

// TestConvert verifies every pair of exchange formats agrees on the decoded geometry
func TestConvert(t *testing.T) {
	formats := []format.ExchangeFormat{
		format.FormatWKT,
		format.FormatWKB,
		format.FormatWKBHex,
		format.FormatGeoJSON,
		format.FormatBlob,
	}

	a := geometry.NewArena()
	want := a.NewContainer(geometry.MultiLineString, true, false,
		a.NewLineString(true, false, 0, 0, 1, 2, 3, 4),
		a.NewLineString(true, false, -1, -2, 0.5, 8, 9, 10))

	for _, from := range formats {
		src, err := Encode(want, from)
		require.NoError(t, err)

		for _, to := range formats {
			t.Run(from.String()+" to "+to.String(), func(t *testing.T) {
				out, err := Convert(src, from, to)
				require.NoError(t, err)

				got, err := Decode(geometry.NewArena(), out, to)
				require.NoError(t, err)
				require.True(t, geometry.Equal(want, got), "got %s", got)
			})
		}
	}
}

// TestWithForceDims verifies the geometry is rewritten before encoding
func TestWithForceDims(t *testing.T) {
	out, err := Convert([]byte("LINESTRING Z (0 0 1, 1 1 2)"), format.FormatWKT, format.FormatWKT,
		WithForceDims(false, true))
	require.NoError(t, err)
	require.Equal(t, "LINESTRING M (0 0 0, 1 1 0)", string(out))

	out, err = Convert([]byte("POINT ZM (1 2 3 4)"), format.FormatWKT, format.FormatWKT,
		WithForceDims(false, false))
	require.NoError(t, err)
	require.Equal(t, "POINT (1 2)", string(out))
}

// TestTransformations verifies extract, flip and force run in that order
func TestTransformations(t *testing.T) {
	in := []byte("GEOMETRYCOLLECTION Z (LINESTRING Z (1 2 3, 4 5 6), POLYGON Z ((0 0 0, 1 0 0, 1 1 0, 0 0 0)))")

	out, err := Convert(in, format.FormatWKT, format.FormatWKT,
		WithExtract(geometry.LineString), WithFlipCoordinates(), WithForceDims(false, false))
	require.NoError(t, err)
	require.Equal(t, "MULTILINESTRING ((2 1, 5 4))", string(out))

	out, err = Convert(in, format.FormatWKT, format.FormatWKT, WithExtract(geometry.Point))
	require.NoError(t, err)
	require.Equal(t, "MULTIPOINT Z EMPTY", string(out))

	_, err = Convert(in, format.FormatWKT, format.FormatWKT, WithExtract(geometry.MultiPoint))
	require.Error(t, err)
}

// TestFormatOptions verifies per-format options reach the readers and writers
func TestFormatOptions(t *testing.T) {
	t.Run("WKT reader depth", func(t *testing.T) {
		_, err := FromWKT("GEOMETRYCOLLECTION (GEOMETRYCOLLECTION (POINT (1 2)))",
			WithWKTReaderOptions(wkt.WithMaxDepth(1)))
		require.ErrorIs(t, err, errs.ErrTooDeeplyNested)
	})

	t.Run("WKT writer digits", func(t *testing.T) {
		out, err := Convert([]byte("POINT (0.123456 1)"), format.FormatWKT, format.FormatWKT,
			WithWKTWriterOptions(wkt.WithMaxDecimalDigits(2)))
		require.NoError(t, err)
		require.Equal(t, "POINT (0.12 1)", string(out))
	})

	t.Run("WKB writer big endian", func(t *testing.T) {
		out, err := Convert([]byte("POINT (1 2)"), format.FormatWKT, format.FormatWKB,
			WithWKBWriterOptions(wkb.WithBigEndian()))
		require.NoError(t, err)
		require.Equal(t, byte(0), out[0])
	})

	t.Run("Blob checksum", func(t *testing.T) {
		data, err := FromWKT("POINT (1 2)", WithBlobOptions(blob.WithChecksum(true)))
		require.NoError(t, err)

		header, err := blob.Peek(data)
		require.NoError(t, err)
		require.True(t, header.Options.HasChecksum())
	})
}

// TestErrors verifies malformed input and unknown formats are reported
func TestErrors(t *testing.T) {
	_, err := FromWKT("POINT (1")
	require.ErrorIs(t, err, errs.ErrMalformedInput)

	_, err = FromGeoJSON([]byte(`{"type":"Circle"}`))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = ToWKB([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = Convert([]byte("POINT (1 2)"), format.FormatWKT, format.ExchangeFormat(99))
	require.Error(t, err)

	_, err = Decode(geometry.NewArena(), []byte("POINT (1 2)"), format.ExchangeFormat(99))
	require.Error(t, err)

	_, err = Encode(geometry.Geometry{}, format.FormatWKT)
	require.Error(t, err)
}

// TestColumn verifies the default column encoder and decoder work together
func TestColumn(t *testing.T) {
	enc, err := NewColumnEncoder()
	require.NoError(t, err)

	a := geometry.NewArena()
	require.NoError(t, enc.Append(a.NewPoint(false, false, 1, 2)))
	require.NoError(t, enc.AppendNull())

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := NewColumnDecoder(data)
	require.NoError(t, err)
	require.Equal(t, 2, dec.Len())
	require.Equal(t, format.CompressionZstd, dec.Header().Compression)
	require.True(t, dec.Header().Options.HasChecksum())
	require.True(t, dec.IsNull(1))
}
