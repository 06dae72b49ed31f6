package superblob

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/superblob/catalog"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
	"github.com/arloliu/superblob/section"
)

func buildContainer(t *testing.T, superOffset uint64, ids ...uint32) *section.BlobMetaContainer {
	t.Helper()

	b := NewContainerBuilder(len(ids))
	for _, id := range ids {
		_, err := b.Append(id, 64)
		require.NoError(t, err)
	}

	c, err := b.Finish(superOffset, b.Size())
	require.NoError(t, err)

	return c
}

func TestOpenMemCatalog_LocateBlob(t *testing.T) {
	db, err := OpenMemCatalog()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.InsertRange(buildContainer(t, 0, 1, 2, 3))
	require.NoError(t, err)
	_, err = db.InsertRange(buildContainer(t, 4096, 10, 20))
	require.NoError(t, err)

	loc, err := LocateBlob(db, 3)
	require.NoError(t, err)
	require.Equal(t, uint32(3), loc.BlobID)
	require.Equal(t, []section.ChunkLocation{{Offset: 0, Size: 192}}, loc.SuperLoc)
	require.Equal(t, []section.ChunkLocation{{Offset: 128, Size: 64}}, loc.Chunks)
	require.Equal(t, uint64(64), loc.Size)

	loc, err = LocateBlob(db, 20)
	require.NoError(t, err)
	require.Equal(t, uint64(4096), loc.SuperLoc[0].Offset)
	require.Equal(t, uint64(64), loc.Chunks[0].Offset)

	_, err = LocateBlob(db, 15)
	require.ErrorIs(t, err, errs.ErrNotFound, "covered by [10,20] but not held")

	_, err = LocateBlob(db, 30)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestOpenCatalog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")

	db, err := OpenCatalog(dir, catalog.WithValueCompression(format.CompressionS2))
	require.NoError(t, err)
	_, err = db.InsertRange(buildContainer(t, 0, 7))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenCatalog(dir)
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, format.CompressionS2, db.Compression())

	loc, err := LocateBlob(db, 7)
	require.NoError(t, err)
	require.Equal(t, []section.ChunkLocation{{Offset: 0, Size: 64}}, loc.Chunks)
}

func TestOpenMemCatalog_InvalidOption(t *testing.T) {
	_, err := OpenMemCatalog(catalog.WithValueCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}
