// Package compress provides the codecs applied to catalog row values.
//
// A catalog stores one serialized BlobMetaContainer per row. Containers with
// large fan-out carry thousands of near-identical chunk descriptors, which
// general-purpose compression shrinks well. The codec is chosen once per
// catalog and recorded in the catalog descriptor; it never touches the BLOB
// payloads in the archival file.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): values are the container wire bytes, unchanged.
//   - Zstd (format.CompressionZstd): best ratio, pooled klauspost/compress encoders.
//   - S2 (format.CompressionS2): fast, klauspost/compress/s2 block format.
//   - LZ4 (format.CompressionLZ4): pierrec/lz4 block format with a small header.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	value, err := codec.Compress(container.Bytes())
//	...
//	raw, err := codec.Decompress(value)
//
// # Thread Safety
//
// All codecs in this package are stateless values backed by sync.Pool and are
// safe for concurrent use.
package compress
