package catalog

// Entry is one key/value pair written to an Engine.
type Entry struct {
	Key   []byte
	Value []byte
}

// Engine is the ordered key/value store underneath a catalog.
//
// Keys are compared byte-wise. Implementations must copy keys and values
// passed to Insert before returning; the catalog reuses those buffers.
type Engine interface {
	// Insert writes all entries atomically, overwriting existing keys.
	Insert(entries ...Entry) error
	// Fetch returns a copy of the value stored under key, or errs.ErrNotFound.
	Fetch(key []byte) ([]byte, error)
	// NewCursor returns a cursor over keys in [lower, upper) in ascending
	// order. A nil upper bound means unbounded.
	NewCursor(lower, upper []byte) (Cursor, error)
	// Close releases the engine.
	Close() error
}

// Cursor iterates over a key range of an Engine.
//
// Key and Value are only valid until the next call to Next.
type Cursor interface {
	// Next advances to the next entry, positioning on the first entry on the
	// first call. It returns false when the range is exhausted or on error.
	Next() bool
	Key() []byte
	Value() []byte
	// Err returns the error that stopped iteration, if any.
	Err() error
	Close() error
}
