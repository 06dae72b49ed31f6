package section

import (
	"fmt"

	"github.com/arloliu/superblob/errs"
)

// ContainerBuilder assembles the blob map of a super-blob container while
// blob payloads are appended back to back to the container body.
//
// Each appended blob is placed at the current end of the body, so offsets in
// the resulting map are relative to the start of the uncompressed container.
// The builder is not safe for concurrent use.
type ContainerBuilder struct {
	blobMap *ExtBlobMap
	size    uint64
}

// NewContainerBuilder creates a builder expecting about capacity blobs.
func NewContainerBuilder(capacity int) *ContainerBuilder {
	return &ContainerBuilder{blobMap: NewExtBlobMap(capacity)}
}

// Append records a blob of size bytes placed at the current end of the body
// and returns its offset.
//
// Returns errs.ErrConflict if blobID was already appended and
// errs.ErrInvalidChunk if size is zero; the body size is unchanged on error.
func (b *ContainerBuilder) Append(blobID uint32, size uint64) (uint64, error) {
	offset := b.size
	if err := b.blobMap.Add(blobID, offset, size); err != nil {
		return 0, err
	}
	b.size += size

	return offset, nil
}

// Len returns the number of blobs appended so far.
func (b *ContainerBuilder) Len() int {
	return b.blobMap.Len()
}

// Size returns the body size in bytes, the sum of all appended blob sizes.
func (b *ContainerBuilder) Size() uint64 {
	return b.size
}

// Finish returns the container stored at superOffset in the archival file,
// occupying superSize bytes. superSize differs from Size when the body was
// compressed before it was written.
//
// The builder is reset and can be reused for the next container.
func (b *ContainerBuilder) Finish(superOffset, superSize uint64) (*BlobMetaContainer, error) {
	if b.blobMap.Len() == 0 {
		return nil, fmt.Errorf("%w: no blobs appended", errs.ErrEmptyMap)
	}
	if superSize == 0 {
		return nil, fmt.Errorf("%w: zero super location size", errs.ErrInvalidChunk)
	}

	c := NewBlobMetaContainer()
	c.SetLoc(superOffset, superSize)
	c.SetBlobMap(b.blobMap)

	b.blobMap = NewExtBlobMap(b.blobMap.Len())
	b.size = 0

	return c, nil
}
