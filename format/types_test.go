package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion_IsSupported(t *testing.T) {
	require.True(t, VersionV0.IsSupported())
	require.True(t, CurrentVersion.IsSupported())
	require.False(t, Version(1).IsSupported())
	require.False(t, Version(0xEA10).IsSupported())
}

func TestCompressionType(t *testing.T) {
	tests := []struct {
		typ  CompressionType
		name string
	}{
		{CompressionNone, "None"},
		{CompressionZstd, "Zstd"},
		{CompressionS2, "S2"},
		{CompressionLZ4, "LZ4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.typ.String())
			require.True(t, tt.typ.IsValid())

			parsed, ok := ParseCompressionType(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.typ, parsed)

			parsed, ok = ParseCompressionType(strings.ToLower(tt.name))
			require.True(t, ok)
			require.Equal(t, tt.typ, parsed)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		require.Equal(t, "Unknown", CompressionType(0).String())
		require.False(t, CompressionType(0).IsValid())
		require.False(t, CompressionType(5).IsValid())

		_, ok := ParseCompressionType("brotli")
		require.False(t, ok)
	})
}
