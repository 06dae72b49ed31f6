package section

import (
	"fmt"

	"github.com/arloliu/superblob/endian"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
)

// ChunkLocation describes one contiguous byte range of a physical file.
//
// Offset: 0, Size: 8 bytes  (Offset)
// Offset: 8, Size: 8 bytes  (Size)
type ChunkLocation struct {
	Offset uint64
	Size   uint64
}

// End returns the offset one past the last byte of the chunk.
func (c ChunkLocation) End() uint64 {
	return c.Offset + c.Size
}

func (c ChunkLocation) String() string {
	return fmt.Sprintf("{offset: %d, size: %d}", c.Offset, c.Size)
}

// WriteToSlice writes the chunk at data[offset:] and returns the next position.
//
// The caller guarantees that data has ChunkLocationSize bytes available at offset.
func (c ChunkLocation) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], c.Offset)
	engine.PutUint64(data[offset+8:offset+16], c.Size)

	return offset + ChunkLocationSize
}

// ParseChunkLocation parses a ChunkLocation from data[offset:].
//
// Returns:
//   - ChunkLocation: Parsed chunk
//   - int: Next read position
//   - error: ErrTruncated if fewer than 16 bytes remain
func ParseChunkLocation(data []byte, offset int, engine endian.EndianEngine) (ChunkLocation, int, error) {
	if offset < 0 || len(data)-offset < ChunkLocationSize {
		return ChunkLocation{}, offset, fmt.Errorf("%w: chunk location at offset %d", errs.ErrTruncated, offset)
	}

	return ChunkLocation{
		Offset: engine.Uint64(data[offset : offset+8]),
		Size:   engine.Uint64(data[offset+8 : offset+16]),
	}, offset + ChunkLocationSize, nil
}

// tableHeader is the version + count prefix shared by ExtBlobMap and
// BlobMetaContainer.
type tableHeader struct {
	Version format.Version
	Count   uint32
}

func (h tableHeader) writeToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], uint32(h.Version))
	engine.PutUint32(data[offset+4:offset+8], h.Count)

	return offset + TableHeaderSize
}

// parseTableHeader reads and validates a table header, then checks that at
// least Count*minItemSize bytes follow it. The check bounds allocations made
// from an untrusted count.
func parseTableHeader(data []byte, offset int, minItemSize int, engine endian.EndianEngine) (tableHeader, int, error) {
	if offset < 0 || len(data)-offset < TableHeaderSize {
		return tableHeader{}, offset, fmt.Errorf("%w: table header at offset %d", errs.ErrTruncated, offset)
	}

	h := tableHeader{
		Version: format.Version(engine.Uint32(data[offset : offset+4])),
		Count:   engine.Uint32(data[offset+4 : offset+8]),
	}
	if !h.Version.IsSupported() {
		return tableHeader{}, offset, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	offset += TableHeaderSize
	if uint64(h.Count)*uint64(minItemSize) > uint64(len(data)-offset) {
		return tableHeader{}, offset, fmt.Errorf("%w: count %d exceeds remaining %d bytes", errs.ErrTruncated, h.Count, len(data)-offset)
	}

	return h, offset, nil
}
