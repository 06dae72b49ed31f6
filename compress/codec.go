package compress

import (
	"fmt"

	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
)

// Compressor compresses serialized catalog values.
type Compressor interface {
	// Compress compresses data and returns the result.
	//
	// The input slice is not modified. Except for the no-op codec the returned
	// slice is newly allocated and owned by the caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores values produced by the matching Compressor.
//
// Decompress returns an error if the input is corrupted or was produced by a
// different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a new Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidCompression for unknown types
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s %s (%d)", errs.ErrInvalidCompression, target, compressionType, uint8(compressionType))
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (%d)", errs.ErrInvalidCompression, compressionType, uint8(compressionType))
}
