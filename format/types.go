package format

import "strings"

type (
	// Version is the leading u32 tag of every serialized location table.
	Version uint32
	// CompressionType identifies the codec applied to catalog row values.
	CompressionType uint8
)

const (
	// VersionV0 is the original layout: fixed-width u64 offsets and sizes.
	// Data written before the tag was interpreted as a version always carries 0.
	VersionV0 Version = 0

	// CurrentVersion is the version written by this package.
	CurrentVersion = VersionV0
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsSupported reports whether v can be decoded.
func (v Version) IsSupported() bool {
	return v == VersionV0
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the known compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompressionType parses the case-insensitive name produced by String.
func ParseCompressionType(name string) (CompressionType, bool) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.EqualFold(name, c.String()) {
			return c, true
		}
	}

	return 0, false
}
