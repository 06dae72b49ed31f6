// Package errs defines the sentinel errors returned by superblob packages.
//
// Callers should compare with errors.Is; most errors are returned wrapped with
// additional context such as the offending blob id or buffer offset.
package errs

import "errors"

// Location table errors.
var (
	// ErrConflict is returned when a blob id is added to a map that already holds it.
	ErrConflict = errors.New("blob id already present")
	// ErrNotFound is returned when a blob id or id range has no matching entry or catalog row.
	ErrNotFound = errors.New("not found")
	// ErrTooManyChunks is returned by single-chunk accessors on fragmented entries.
	ErrTooManyChunks = errors.New("entry has more than one chunk")
	// ErrNotSingleChunk is returned by BlobMetaContainer.GetLoc when the super location
	// does not hold exactly one chunk.
	ErrNotSingleChunk = errors.New("super location is not a single chunk")
	// ErrEmptyMap is returned when an id range is requested from a map without entries.
	ErrEmptyMap = errors.New("blob map is empty")
	// ErrInvalidChunk is returned when a chunk with zero size is added.
	ErrInvalidChunk = errors.New("invalid chunk location")
)

// Wire format errors.
var (
	ErrBufferTooSmall     = errors.New("destination buffer too small")
	ErrTruncated          = errors.New("serialized data truncated")
	ErrTrailingData       = errors.New("unexpected trailing data")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrInvalidRowKey      = errors.New("invalid catalog row key")
	ErrInvalidDescriptor  = errors.New("invalid catalog descriptor")
)

// ErrEngine marks every failure surfaced by the underlying key/value engine.
var ErrEngine = errors.New("key/value engine error")

// ErrClosed is returned by catalog operations after Close.
var ErrClosed = errors.New("catalog closed")
