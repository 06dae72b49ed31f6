// Package catalog implements the range-indexed location catalog of
// super-blob containers.
//
// Every row maps a closed blob id interval [IDFrom, IDTo] to the serialized
// section.BlobMetaContainer holding those blobs. Rows are append-only: the
// catalog never merges or replaces rows, so intervals of different rows may
// overlap, and even repeat.
//
// # Lookup Policy
//
// FetchMeta scans rows in ascending (IDFrom, IDTo, Seq) order and returns the
// first row whose interval contains the requested id. When intervals overlap
// the earliest row in that order wins, whether or not it is the container the
// writer intended. FetchRows lists every covering row for diagnostics.
//
// # Storage
//
// Rows live in an ordered key/value Engine supplied by the caller. The
// package ships PebbleEngine, backed by github.com/cockroachdb/pebble.
// Concurrency control, durability and crash recovery are the engine's
// concern; the catalog performs no retries and reports every engine failure
// wrapped with errs.ErrEngine.
//
// # Usage
//
//	engine, err := catalog.NewPebbleEngine("/var/lib/superblob/catalog")
//	if err != nil {
//	    return err
//	}
//	db, err := catalog.Open(engine, catalog.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	row, err := db.InsertRange(container)
//	...
//	container, err := db.FetchMeta(blobID)
//	offset, size, err := container.GetBlobMap().GetBlobLoc(blobID)
package catalog
