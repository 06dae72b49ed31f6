package section

// Field and record sizes of the location table wire format, in bytes.
const (
	VersionFieldSize    = 4
	CountFieldSize      = 4
	TableHeaderSize     = VersionFieldSize + CountFieldSize // version + count, shared by both tables
	ChunkLocationSize   = 16                                // offset u64 + size u64
	BlobEntryHeaderSize = 8                                 // blob_id u32 + chunk_count u32

	// EmptyExtBlobMapSize is the serialized size of a map without entries.
	EmptyExtBlobMapSize = TableHeaderSize
	// EmptyContainerSize is the serialized size of a container with no super
	// chunks and an empty map.
	EmptyContainerSize = TableHeaderSize + EmptyExtBlobMapSize
)
