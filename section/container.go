package section

import (
	"fmt"
	"slices"

	"github.com/arloliu/superblob/endian"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
)

// BlobMetaContainer pairs the location of a super-blob container in the
// archival file with the map of the BLOBs packed inside it.
//
// A container is built per write batch: blobs are added to its map while the
// batch is assembled, and the super location is set once the writer knows
// where the (possibly compressed) container bytes landed. After it has been
// inserted into a catalog the container should be treated as read-only.
type BlobMetaContainer struct {
	superLoc []ChunkLocation
	blobMap  *ExtBlobMap
}

// NewBlobMetaContainer creates a container with no super location and an
// empty blob map.
func NewBlobMetaContainer() *BlobMetaContainer {
	return &BlobMetaContainer{blobMap: &ExtBlobMap{}}
}

// SetLoc replaces the super location with a single chunk. size is not
// checked here; catalog inserts reject zero-size super chunks.
func (c *BlobMetaContainer) SetLoc(offset, size uint64) {
	c.superLoc = []ChunkLocation{{Offset: offset, Size: size}}
}

// GetLoc returns the super location of a container stored contiguously.
//
// Returns errs.ErrNotSingleChunk when the super location does not hold
// exactly one chunk. With two or more chunks the error also matches
// errs.ErrTooManyChunks.
func (c *BlobMetaContainer) GetLoc() (offset, size uint64, err error) {
	switch n := len(c.superLoc); {
	case n == 0:
		return 0, 0, fmt.Errorf("%w: super location is empty", errs.ErrNotSingleChunk)
	case n > 1:
		return 0, 0, fmt.Errorf("%w: %w: %d chunks", errs.ErrNotSingleChunk, errs.ErrTooManyChunks, n)
	}

	return c.superLoc[0].Offset, c.superLoc[0].Size, nil
}

// SetSuperLoc replaces the super location with a copy of chunks. It is used
// for containers split across several ranges of the archival file. As with
// SetLoc, every chunk must have a positive size before the container is
// inserted into a catalog.
func (c *BlobMetaContainer) SetSuperLoc(chunks []ChunkLocation) {
	c.superLoc = slices.Clone(chunks)
}

// GetSuperLoc returns a copy of the super location.
func (c *BlobMetaContainer) GetSuperLoc() []ChunkLocation {
	return slices.Clone(c.superLoc)
}

// GetBlobMap returns the embedded blob map. The map is shared with the
// container, so changes through it are visible in later serializations.
func (c *BlobMetaContainer) GetBlobMap() *ExtBlobMap {
	if c.blobMap == nil {
		c.blobMap = &ExtBlobMap{}
	}

	return c.blobMap
}

// SetBlobMap replaces the embedded blob map. A nil map resets it to empty.
func (c *BlobMetaContainer) SetBlobMap(m *ExtBlobMap) {
	if m == nil {
		m = &ExtBlobMap{}
	}
	c.blobMap = m
}

// IDRange returns the blob id range covered by the container.
func (c *BlobMetaContainer) IDRange() (minID, maxID uint32, err error) {
	return c.GetBlobMap().GetBlobIDRange()
}

// Locate returns the chunks of blobID within the reassembled container.
func (c *BlobMetaContainer) Locate(blobID uint32) ([]ChunkLocation, error) {
	return c.GetBlobMap().GetBlobChunks(blobID)
}

// Equal reports whether both containers have identical super locations and
// blob maps.
func (c *BlobMetaContainer) Equal(other *BlobMetaContainer) bool {
	if c == nil || other == nil {
		return c == other
	}

	return slices.Equal(c.superLoc, other.superLoc) && c.GetBlobMap().Equal(other.GetBlobMap())
}

// ComputeSerializationSize returns the exact number of bytes Serialize writes:
// the header and super chunk array plus the embedded map.
func (c *BlobMetaContainer) ComputeSerializationSize() int {
	return TableHeaderSize + len(c.superLoc)*ChunkLocationSize + c.GetBlobMap().ComputeSerializationSize()
}

// Serialize writes the container into buf starting at offset and returns
// the position following the last byte written. The embedded map follows the
// super chunk array directly.
//
// buf must have ComputeSerializationSize bytes available at offset; it is
// never grown. On errs.ErrBufferTooSmall nothing is written.
func (c *BlobMetaContainer) Serialize(buf []byte, offset int) (int, error) {
	size := c.ComputeSerializationSize()
	if offset < 0 || len(buf)-offset < size {
		return offset, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrBufferTooSmall, size, offset, len(buf)-offset)
	}

	return c.writeToSlice(buf, offset, endian.WireEngine()), nil
}

func (c *BlobMetaContainer) writeToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	offset = tableHeader{Version: format.CurrentVersion, Count: uint32(len(c.superLoc))}.writeToSlice(data, offset, engine) //nolint: gosec
	for _, chunk := range c.superLoc {
		offset = chunk.WriteToSlice(data, offset, engine)
	}

	return c.GetBlobMap().writeToSlice(data, offset, engine)
}

// Bytes serializes the container into a newly allocated slice.
func (c *BlobMetaContainer) Bytes() []byte {
	buf := make([]byte, c.ComputeSerializationSize())
	c.writeToSlice(buf, 0, endian.WireEngine())

	return buf
}

// Deserialize replaces the contents of c with the container encoded in buf
// at offset and returns the position following it, embedded map included.
//
// On error c is left unchanged.
func (c *BlobMetaContainer) Deserialize(buf []byte, offset int) (int, error) {
	engine := endian.WireEngine()

	h, offset, err := parseTableHeader(buf, offset, ChunkLocationSize, engine)
	if err != nil {
		return offset, fmt.Errorf("container: %w", err)
	}

	var superLoc []ChunkLocation
	if h.Count > 0 {
		superLoc = make([]ChunkLocation, h.Count)
	}
	for i := range superLoc {
		// length already checked against the count
		superLoc[i], offset, _ = ParseChunkLocation(buf, offset, engine)
	}

	blobMap := &ExtBlobMap{}
	offset, err = blobMap.Deserialize(buf, offset)
	if err != nil {
		return offset, fmt.Errorf("container: %w", err)
	}

	c.superLoc = superLoc
	c.blobMap = blobMap

	return offset, nil
}

// ParseBlobMetaContainer decodes a container that occupies all of data.
//
// Returns errs.ErrTrailingData if bytes remain after the embedded map.
func ParseBlobMetaContainer(data []byte) (*BlobMetaContainer, error) {
	c := NewBlobMetaContainer()

	n, err := c.Deserialize(data, 0)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("container: %w: %d bytes", errs.ErrTrailingData, len(data)-n)
	}

	return c, nil
}
