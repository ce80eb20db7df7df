package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want CompressionType
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"ZSTD", CompressionZstd},
		{" s2 ", CompressionS2},
		{"lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompression(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCompression("gzip")
	require.ErrorContains(t, err, "gzip")

	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(0).String())
}

func TestParseExchangeFormat(t *testing.T) {
	for f := FormatWKT; f <= FormatBlob; f++ {
		got, err := ParseExchangeFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	got, err := ParseExchangeFormat("GeoJSON")
	require.NoError(t, err)
	require.Equal(t, FormatGeoJSON, got)

	_, err = ParseExchangeFormat("kml")
	require.Error(t, err)

	require.True(t, FormatWKBHex.IsText())
	require.False(t, FormatWKB.IsText())
	require.False(t, FormatBlob.IsText())
}
