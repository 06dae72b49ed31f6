package section

import (
	"testing"

	"github.com/arloliu/superblob/errs"
	"github.com/stretchr/testify/require"
)

func TestContainerBuilder(t *testing.T) {
	b := NewContainerBuilder(4)

	for i, blob := range []struct {
		id   uint32
		size uint64
	}{{12, 100}, {10, 50}, {15, 25}} {
		offset, err := b.Append(blob.id, blob.size)
		require.NoError(t, err)
		require.Equal(t, []uint64{0, 100, 150}[i], offset)
	}
	require.Equal(t, 3, b.Len())
	require.Equal(t, uint64(175), b.Size())

	_, err := b.Append(10, 1)
	require.ErrorIs(t, err, errs.ErrConflict)
	_, err = b.Append(99, 0)
	require.ErrorIs(t, err, errs.ErrInvalidChunk)
	require.Equal(t, uint64(175), b.Size(), "failed appends do not grow the body")

	c, err := b.Finish(1<<20, 90)
	require.NoError(t, err)

	offset, size, err := c.GetLoc()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<20), offset)
	require.Equal(t, uint64(90), size)

	minID, maxID, err := c.IDRange()
	require.NoError(t, err)
	require.Equal(t, uint32(10), minID)
	require.Equal(t, uint32(15), maxID)

	offset, size, err = c.GetBlobMap().GetBlobLoc(15)
	require.NoError(t, err)
	require.Equal(t, uint64(150), offset)
	require.Equal(t, uint64(25), size)

	t.Run("Reset after Finish", func(t *testing.T) {
		require.Equal(t, 0, b.Len())
		require.Equal(t, uint64(0), b.Size())

		_, err := b.Append(12, 5)
		require.NoError(t, err, "ids may repeat across containers")
		require.False(t, c.GetBlobMap().HasBlob(99))
		require.Equal(t, 3, c.GetBlobMap().Len(), "finished container is detached from the builder")
	})

	t.Run("Finish errors", func(t *testing.T) {
		_, err := NewContainerBuilder(0).Finish(0, 10)
		require.ErrorIs(t, err, errs.ErrEmptyMap)

		nb := NewContainerBuilder(1)
		_, err = nb.Append(1, 1)
		require.NoError(t, err)
		_, err = nb.Finish(0, 0)
		require.ErrorIs(t, err, errs.ErrInvalidChunk)
	})
}
