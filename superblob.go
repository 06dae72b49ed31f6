// Package superblob locates BLOBs packed into super-blob containers of an
// archival file.
//
// Small BLOBs are grouped into containers that are written to the archival
// file as one unit. A container's location (the super location) and the
// position of every BLOB inside it are described by a
// section.BlobMetaContainer, and containers are found through a catalog that
// maps blob id ranges to them.
//
// # Core Features
//
//   - Bit-exact little-endian wire format for location tables
//   - Fragmented BLOBs and containers split across several file ranges
//   - Append-only range catalog on top of pebble
//   - Optional compression of catalog values (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Writing a container and recording it:
//
//	db, _ := superblob.OpenCatalog("/var/lib/superblob/catalog")
//	defer db.Close()
//
//	builder := superblob.NewContainerBuilder(len(blobs))
//	for _, b := range blobs {
//	    builder.Append(b.ID, uint64(len(b.Data)))
//	}
//	container, _ := builder.Finish(fileOffset, writtenSize)
//	db.InsertRange(container)
//
// Locating a blob:
//
//	loc, err := superblob.LocateBlob(db, blobID)
//	// read loc.SuperLoc from the archival file, then loc.Chunks from the container body
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the section and
// catalog packages. For fine-grained control use those packages directly.
package superblob

import (
	"fmt"

	"github.com/arloliu/superblob/catalog"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/section"
)

// MetaFetcher finds the container covering a blob id. *catalog.DB implements it.
type MetaFetcher interface {
	FetchMeta(blobID uint32) (*section.BlobMetaContainer, error)
}

// BlobLocation is the resolved position of a BLOB.
type BlobLocation struct {
	BlobID uint32
	// SuperLoc is where the container is stored in the archival file.
	SuperLoc []section.ChunkLocation
	// Chunks are the BLOB's byte ranges within the reassembled container.
	Chunks []section.ChunkLocation
	// Size is the BLOB length, the sum of its chunk sizes.
	Size uint64
}

// OpenCatalog opens (creating if needed) an on-disk catalog in dir.
//
// Parameters:
//   - dir: Directory holding the pebble database
//   - opts: Catalog options (see catalog.Option)
//
// Returns:
//   - *catalog.DB: The opened catalog, owning its engine
//   - error: An error if the engine or the catalog descriptor cannot be opened
//
// Example:
//
//	db, err := superblob.OpenCatalog(dir,
//	    catalog.WithLogger(logger),
//	    catalog.WithValueCompression(format.CompressionZstd),
//	)
func OpenCatalog(dir string, opts ...catalog.Option) (*catalog.DB, error) {
	engine, err := catalog.NewPebbleEngine(dir)
	if err != nil {
		return nil, err
	}

	return openWithEngine(engine, opts...)
}

// OpenMemCatalog opens a catalog kept entirely in memory. It is intended for
// tests and tools that build a catalog before exporting it.
func OpenMemCatalog(opts ...catalog.Option) (*catalog.DB, error) {
	engine, err := catalog.NewMemPebbleEngine()
	if err != nil {
		return nil, err
	}

	return openWithEngine(engine, opts...)
}

func openWithEngine(engine catalog.Engine, opts ...catalog.Option) (*catalog.DB, error) {
	db, err := catalog.Open(engine, opts...)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	return db, nil
}

// NewContainerBuilder creates a builder for the blob map of one container.
func NewContainerBuilder(capacity int) *section.ContainerBuilder {
	return section.NewContainerBuilder(capacity)
}

// LocateBlob resolves blobID through the first container covering it.
//
// The catalog returns the first row whose range covers blobID even when that
// container does not hold the blob; LocateBlob reports such misses as
// errs.ErrNotFound instead of consulting later rows.
func LocateBlob(f MetaFetcher, blobID uint32) (BlobLocation, error) {
	container, err := f.FetchMeta(blobID)
	if err != nil {
		return BlobLocation{}, err
	}

	chunks, err := container.Locate(blobID)
	if err != nil {
		return BlobLocation{}, fmt.Errorf("%w: blob %d is not in its covering container", errs.ErrNotFound, blobID)
	}

	return BlobLocation{
		BlobID:   blobID,
		SuperLoc: container.GetSuperLoc(),
		Chunks:   chunks,
		Size:     section.BlobLoc{BlobID: blobID, Chunks: chunks}.TotalSize(),
	}, nil
}
