package section

import (
	"testing"

	"github.com/arloliu/superblob/endian"
	"github.com/arloliu/superblob/errs"
	"github.com/stretchr/testify/require"
)

func TestChunkLocation_WriteAndParse(t *testing.T) {
	engine := endian.WireEngine()
	chunk := ChunkLocation{Offset: 0x0102030405060708, Size: 77}

	data := make([]byte, 4+ChunkLocationSize)
	next := chunk.WriteToSlice(data, 4, engine)
	require.Equal(t, 4+ChunkLocationSize, next)

	parsed, next, err := ParseChunkLocation(data, 4, engine)
	require.NoError(t, err)
	require.Equal(t, chunk, parsed)
	require.Equal(t, len(data), next)

	_, _, err = ParseChunkLocation(data, 5, engine)
	require.ErrorIs(t, err, errs.ErrTruncated)

	_, _, err = ParseChunkLocation(data, -1, engine)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestChunkLocation_End(t *testing.T) {
	require.Equal(t, uint64(150), ChunkLocation{Offset: 100, Size: 50}.End())
	require.Equal(t, "{offset: 100, size: 50}", ChunkLocation{Offset: 100, Size: 50}.String())
}
