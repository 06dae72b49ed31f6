package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; they keep a hash table
// that is expensive to allocate.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	lz4ModeStored     = 0x0 // payload kept as-is, lz4 could not shrink it
	lz4ModeCompressed = 0x1 // payload is one lz4 block

	// lz4MaxDecodedSize caps the decoded size read from a header.
	lz4MaxDecodedSize = 128 * 1024 * 1024
)

var errLZ4Header = errors.New("invalid lz4 value header")

// LZ4Compressor provides LZ4 block compression for catalog values.
//
// Raw lz4 blocks carry neither the decoded length nor a way to express
// incompressible input, so every value starts with a header:
//
//	mode u8 | decoded length uvarint | payload
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using a pooled lz4.Compressor.
//
// Returns nil for empty input.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	headerSize := 1 + binary.PutUvarint(make([]byte, binary.MaxVarintLen64), uint64(len(data)))
	dst := make([]byte, headerSize+lz4.CompressBlockBound(len(data)))
	dst[0] = lz4ModeCompressed
	binary.PutUvarint(dst[1:], uint64(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	if n == 0 || n >= len(data) {
		dst[0] = lz4ModeStored
		n = copy(dst[headerSize:], data)
	}

	return dst[:headerSize+n], nil
}

// Decompress decompresses a value produced by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, n := binary.Uvarint(data[1:])
	if n <= 0 || size > lz4MaxDecodedSize {
		return nil, errLZ4Header
	}
	payload := data[1+n:]

	switch data[0] {
	case lz4ModeStored:
		if uint64(len(payload)) != size {
			return nil, fmt.Errorf("%w: stored length %d, header %d", errLZ4Header, len(payload), size)
		}

		return append([]byte(nil), payload...), nil
	case lz4ModeCompressed:
		buf := make([]byte, size)
		decoded, err := lz4.UncompressBlock(payload, buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(decoded) != size {
			return nil, fmt.Errorf("%w: decoded %d bytes, header %d", errLZ4Header, decoded, size)
		}

		return buf, nil
	default:
		return nil, fmt.Errorf("%w: mode %d", errLZ4Header, data[0])
	}
}
