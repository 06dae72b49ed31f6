// Package section defines the location tables of a super-blob container and
// their binary layout.
//
// A super-blob container packs many small BLOBs into one archival unit. Two
// tables describe it:
//
//  1. ExtBlobMap: where every constituent BLOB lives inside the reassembled
//     container, as an ordered list of chunks per blob id.
//  2. BlobMetaContainer: where the container's own bytes live in the archival
//     file, followed by the embedded ExtBlobMap.
//
// Neither table touches payload bytes; they only carry {offset, size}
// descriptors.
//
// # Binary Layout
//
// All integers are little-endian. Offsets and sizes are always 64-bit.
//
//	ExtBlobMap
//	┌──────────────────────────────────────────────┐
//	│ version      u32  (format.VersionV0 = 0)     │
//	│ entry_count  u32                             │
//	├──────────────────────────────────────────────┤
//	│ entry_count ×                                │
//	│   blob_id      u32                           │
//	│   chunk_count  u32                           │
//	│   chunk_count × { offset u64, size u64 }     │
//	└──────────────────────────────────────────────┘
//
//	BlobMetaContainer
//	┌──────────────────────────────────────────────┐
//	│ version            u32                       │
//	│ super_chunk_count  u32                       │
//	│ super_chunk_count × { offset u64, size u64 } │
//	├──────────────────────────────────────────────┤
//	│ ExtBlobMap (no length prefix)                │
//	└──────────────────────────────────────────────┘
//
// The embedded map is self-delimiting: its extent is recovered by decoding it.
//
// # Buffer Sizing
//
// ComputeSerializationSize returns exactly the number of bytes Serialize
// writes. Callers size destination buffers from it and Serialize never grows
// them:
//
//	buf := make([]byte, m.ComputeSerializationSize())
//	n, err := m.Serialize(buf, 0)
//
// # Thread Safety
//
// ExtBlobMap and BlobMetaContainer are not safe for concurrent mutation. The
// serialized bytes are immutable and may be shared freely.
package section
