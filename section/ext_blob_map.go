package section

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/arloliu/superblob/endian"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
)

// BlobLoc is the location of one BLOB inside a reassembled container.
//
// Chunks keeps insertion order and is never empty for entries created by
// ExtBlobMap.Add or ExtBlobMap.AddChunks.
type BlobLoc struct {
	BlobID uint32
	Chunks []ChunkLocation
}

// IsSingleChunk reports whether the BLOB is stored contiguously.
func (l BlobLoc) IsSingleChunk() bool {
	return len(l.Chunks) == 1
}

// TotalSize returns the sum of all chunk sizes.
func (l BlobLoc) TotalSize() uint64 {
	var total uint64
	for _, c := range l.Chunks {
		total += c.Size
	}

	return total
}

func (l BlobLoc) serializationSize() int {
	return BlobEntryHeaderSize + len(l.Chunks)*ChunkLocationSize
}

// ExtBlobMap maps blob ids to their chunk lists.
//
// Entries are kept in insertion order, which is also the serialization order.
// Blob ids are unique: adding an existing id fails with errs.ErrConflict and
// leaves the map untouched. Entries cannot be updated or removed.
//
// The zero value is an empty map ready to use.
type ExtBlobMap struct {
	blobs []BlobLoc
	index map[uint32]int // blob id -> position in blobs
}

// NewExtBlobMap creates an empty map with room for capacity entries.
func NewExtBlobMap(capacity int) *ExtBlobMap {
	return &ExtBlobMap{
		blobs: make([]BlobLoc, 0, capacity),
		index: make(map[uint32]int, capacity),
	}
}

// Add inserts a single-chunk entry for blobID.
//
// Returns:
//   - errs.ErrConflict: blobID is already present
//   - errs.ErrInvalidChunk: size is zero
func (m *ExtBlobMap) Add(blobID uint32, offset, size uint64) error {
	return m.AddChunks(blobID, ChunkLocation{Offset: offset, Size: size})
}

// AddChunks inserts an entry for a BLOB fragmented across several chunks.
// The chunk order is preserved; the map keeps its own copy of chunks.
//
// Returns:
//   - errs.ErrConflict: blobID is already present
//   - errs.ErrInvalidChunk: no chunks given, or a chunk has zero size
func (m *ExtBlobMap) AddChunks(blobID uint32, chunks ...ChunkLocation) error {
	if m.HasBlob(blobID) {
		return fmt.Errorf("%w: blob %d", errs.ErrConflict, blobID)
	}

	if len(chunks) == 0 {
		return fmt.Errorf("%w: blob %d has no chunks", errs.ErrInvalidChunk, blobID)
	}
	if uint64(len(chunks)) > math.MaxUint32 {
		return fmt.Errorf("%w: blob %d has %d chunks", errs.ErrInvalidChunk, blobID, len(chunks))
	}
	for i, c := range chunks {
		if c.Size == 0 {
			return fmt.Errorf("%w: blob %d chunk %d has zero size", errs.ErrInvalidChunk, blobID, i)
		}
	}

	m.insert(BlobLoc{BlobID: blobID, Chunks: slices.Clone(chunks)})

	return nil
}

func (m *ExtBlobMap) insert(loc BlobLoc) {
	if m.index == nil {
		m.index = make(map[uint32]int)
	}
	m.index[loc.BlobID] = len(m.blobs)
	m.blobs = append(m.blobs, loc)
}

// HasBlob reports whether blobID is present.
func (m *ExtBlobMap) HasBlob(blobID uint32) bool {
	_, ok := m.index[blobID]
	return ok
}

// GetBlobLoc returns the location of a contiguous BLOB.
//
// Returns:
//   - errs.ErrNotFound: blobID is absent
//   - errs.ErrTooManyChunks: the BLOB is fragmented, use GetBlobChunks instead
func (m *ExtBlobMap) GetBlobLoc(blobID uint32) (offset, size uint64, err error) {
	loc, ok := m.lookup(blobID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: blob %d", errs.ErrNotFound, blobID)
	}

	if !loc.IsSingleChunk() {
		return 0, 0, fmt.Errorf("%w: blob %d has %d chunks", errs.ErrTooManyChunks, blobID, len(loc.Chunks))
	}

	return loc.Chunks[0].Offset, loc.Chunks[0].Size, nil
}

// GetBlobChunks returns a copy of the chunk list of blobID, fragmented or not.
func (m *ExtBlobMap) GetBlobChunks(blobID uint32) ([]ChunkLocation, error) {
	loc, ok := m.lookup(blobID)
	if !ok {
		return nil, fmt.Errorf("%w: blob %d", errs.ErrNotFound, blobID)
	}

	return slices.Clone(loc.Chunks), nil
}

func (m *ExtBlobMap) lookup(blobID uint32) (BlobLoc, bool) {
	pos, ok := m.index[blobID]
	if !ok {
		return BlobLoc{}, false
	}

	return m.blobs[pos], true
}

// GetBlobIDRange returns the smallest and largest blob id in the map.
//
// Returns errs.ErrEmptyMap when the map holds no entries.
func (m *ExtBlobMap) GetBlobIDRange() (minID, maxID uint32, err error) {
	if len(m.blobs) == 0 {
		return 0, 0, errs.ErrEmptyMap
	}

	minID, maxID = m.blobs[0].BlobID, m.blobs[0].BlobID
	for _, loc := range m.blobs[1:] {
		minID = min(minID, loc.BlobID)
		maxID = max(maxID, loc.BlobID)
	}

	return minID, maxID, nil
}

// Len returns the number of entries.
func (m *ExtBlobMap) Len() int {
	return len(m.blobs)
}

// BlobIDs returns the blob ids in insertion order.
func (m *ExtBlobMap) BlobIDs() []uint32 {
	ids := make([]uint32, len(m.blobs))
	for i, loc := range m.blobs {
		ids[i] = loc.BlobID
	}

	return ids
}

// All iterates over the entries in insertion order.
//
// The yielded Chunks slices belong to the map and must not be modified.
func (m *ExtBlobMap) All() iter.Seq[BlobLoc] {
	return func(yield func(BlobLoc) bool) {
		for _, loc := range m.blobs {
			if !yield(loc) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *ExtBlobMap) Equal(other *ExtBlobMap) bool {
	if m == nil || other == nil {
		return m == other
	}

	return slices.EqualFunc(m.blobs, other.blobs, func(a, b BlobLoc) bool {
		return a.BlobID == b.BlobID && slices.Equal(a.Chunks, b.Chunks)
	})
}

// ComputeSerializationSize returns the exact number of bytes Serialize writes.
func (m *ExtBlobMap) ComputeSerializationSize() int {
	size := TableHeaderSize
	for _, loc := range m.blobs {
		size += loc.serializationSize()
	}

	return size
}

// Serialize writes the map into buf starting at offset and returns the
// position following the last byte written.
//
// buf must have ComputeSerializationSize bytes available at offset; it is
// never grown. On errs.ErrBufferTooSmall nothing is written.
func (m *ExtBlobMap) Serialize(buf []byte, offset int) (int, error) {
	size := m.ComputeSerializationSize()
	if offset < 0 || len(buf)-offset < size {
		return offset, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrBufferTooSmall, size, offset, len(buf)-offset)
	}

	return m.writeToSlice(buf, offset, endian.WireEngine()), nil
}

func (m *ExtBlobMap) writeToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	offset = tableHeader{Version: format.CurrentVersion, Count: uint32(len(m.blobs))}.writeToSlice(data, offset, engine) //nolint: gosec

	for _, loc := range m.blobs {
		engine.PutUint32(data[offset:offset+4], loc.BlobID)
		engine.PutUint32(data[offset+4:offset+8], uint32(len(loc.Chunks))) //nolint: gosec
		offset += BlobEntryHeaderSize

		for _, c := range loc.Chunks {
			offset = c.WriteToSlice(data, offset, engine)
		}
	}

	return offset
}

// Bytes serializes the map into a newly allocated slice.
func (m *ExtBlobMap) Bytes() []byte {
	buf := make([]byte, m.ComputeSerializationSize())
	m.writeToSlice(buf, 0, endian.WireEngine())

	return buf
}

// Deserialize replaces the contents of m with the map encoded in buf at
// offset and returns the position following the encoded map.
//
// On error m is left unchanged. Duplicate blob ids in the input are rejected
// with errs.ErrConflict, entries without chunks with errs.ErrInvalidChunk.
func (m *ExtBlobMap) Deserialize(buf []byte, offset int) (int, error) {
	engine := endian.WireEngine()

	h, offset, err := parseTableHeader(buf, offset, BlobEntryHeaderSize, engine)
	if err != nil {
		return offset, fmt.Errorf("blob map: %w", err)
	}

	decoded := NewExtBlobMap(int(h.Count))
	for i := uint32(0); i < h.Count; i++ {
		if len(buf)-offset < BlobEntryHeaderSize {
			return offset, fmt.Errorf("blob map: %w: entry %d at offset %d", errs.ErrTruncated, i, offset)
		}

		blobID := engine.Uint32(buf[offset : offset+4])
		chunkCount := engine.Uint32(buf[offset+4 : offset+8])
		offset += BlobEntryHeaderSize

		if chunkCount == 0 {
			return offset, fmt.Errorf("blob map: %w: blob %d has no chunks", errs.ErrInvalidChunk, blobID)
		}
		if uint64(chunkCount)*ChunkLocationSize > uint64(len(buf)-offset) {
			return offset, fmt.Errorf("blob map: %w: blob %d claims %d chunks", errs.ErrTruncated, blobID, chunkCount)
		}
		if decoded.HasBlob(blobID) {
			return offset, fmt.Errorf("blob map: %w: blob %d", errs.ErrConflict, blobID)
		}

		chunks := make([]ChunkLocation, chunkCount)
		for j := range chunks {
			// length already checked against chunkCount
			chunks[j], offset, _ = ParseChunkLocation(buf, offset, engine)
		}

		decoded.insert(BlobLoc{BlobID: blobID, Chunks: chunks})
	}

	*m = *decoded

	return offset, nil
}

// ParseExtBlobMap decodes a map that occupies all of data.
//
// Returns errs.ErrTrailingData if bytes remain after the map.
func ParseExtBlobMap(data []byte) (*ExtBlobMap, error) {
	m := &ExtBlobMap{}

	n, err := m.Deserialize(data, 0)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("blob map: %w: %d bytes", errs.ErrTrailingData, len(data)-n)
	}

	return m, nil
}
