// Package endian provides the byte order engines used by the superblob codecs.
//
// Two orders are in use:
//
//   - Wire values (ExtBlobMap, BlobMetaContainer, sequence counters) are
//     little-endian, see WireEngine.
//   - Catalog row keys are big-endian, see KeyEngine, so that the byte-wise
//     ordering of the key/value engine matches numeric ordering of the ids.
//
// # Basic Usage
//
//	engine := endian.WireEngine()
//	buf = engine.AppendUint32(buf, blobID)
//	engine.PutUint64(buf[off:off+8], offset)
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// WireEngine returns the engine used for serialized location tables.
func WireEngine() EndianEngine {
	return binary.LittleEndian
}

// KeyEngine returns the engine used for order-preserving catalog keys.
func KeyEngine() EndianEngine {
	return binary.BigEndian
}
