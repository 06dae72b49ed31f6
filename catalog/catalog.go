package catalog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/superblob/compress"
	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
	"github.com/arloliu/superblob/internal/options"
	"github.com/arloliu/superblob/internal/pool"
	"github.com/arloliu/superblob/section"
)

// DB is the range-indexed catalog of super-blob containers.
//
// DB is safe for concurrent use. Inserts are serialized by an internal mutex
// that guards sequence allocation; reads see whatever the engine exposes at
// the time their cursor is opened. Close waits for running operations to
// finish before it closes the engine.
type DB struct {
	engine      Engine
	logger      *slog.Logger
	compression format.CompressionType
	codec       compress.Codec
	metrics     *metrics

	mu      sync.Mutex
	nextSeq uint64

	// lifecycle is held shared by every operation using the engine and
	// exclusively by Close.
	lifecycle sync.RWMutex
	closed    bool
}

// Record is a catalog row together with its decoded container.
type Record struct {
	Row       Row
	Container *section.BlobMetaContainer
}

// Stats summarizes the rows of a catalog.
type Stats struct {
	Rows        int
	MinID       uint32 // smallest IDFrom, valid when Rows > 0
	MaxID       uint32 // largest IDTo, valid when Rows > 0
	NextSeq     uint64
	Compression format.CompressionType
}

// Open opens the catalog stored in engine. The first open of an empty engine
// records the value compression; later opens use the recorded one and log a
// warning when the options ask for another.
//
// The returned DB owns engine and closes it on Close. On error the engine is
// left open.
func Open(engine Engine, opts ...Option) (*DB, error) {
	if engine == nil {
		return nil, errors.New("catalog: engine cannot be nil")
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	db := &DB{
		engine:  engine,
		logger:  cfg.logger,
		metrics: newMetrics(),
	}

	if err := db.metrics.register(cfg.registerer); err != nil {
		return nil, fmt.Errorf("catalog: register metrics: %w", err)
	}

	desc, err := db.loadDescriptor(cfg)
	if err != nil {
		return nil, err
	}

	db.compression, err = desc.compression()
	if err != nil {
		return nil, err
	}
	db.codec, err = compress.CreateCodec(db.compression, "catalog value")
	if err != nil {
		return nil, err
	}

	db.nextSeq, err = db.loadSeq()
	if err != nil {
		return nil, err
	}

	db.logger.Debug("catalog opened",
		"compression", db.compression.String(),
		"next_seq", db.nextSeq,
	)

	return db, nil
}

func (db *DB) loadDescriptor(cfg *config) (descriptor, error) {
	want := newDescriptor(cfg)

	data, err := db.engine.Fetch(descKey)
	if errors.Is(err, errs.ErrNotFound) {
		data, err = want.marshal()
		if err != nil {
			return descriptor{}, fmt.Errorf("catalog: encode descriptor: %w", err)
		}
		if err := db.engine.Insert(Entry{Key: descKey, Value: data}); err != nil {
			return descriptor{}, engineError(err, "write descriptor")
		}

		return want, nil
	}
	if err != nil {
		return descriptor{}, engineError(err, "read descriptor")
	}

	have, err := parseDescriptor(data)
	if err != nil {
		return descriptor{}, fmt.Errorf("catalog: %w", err)
	}

	if have.ValueCompression != want.ValueCompression {
		db.logger.Warn("value compression differs from the catalog descriptor, using the persisted one",
			"requested", want.ValueCompression,
			"persisted", have.ValueCompression,
		)
	}

	return have, nil
}

func (db *DB) loadSeq() (uint64, error) {
	data, err := db.engine.Fetch(seqKey)
	if errors.Is(err, errs.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, engineError(err, "read sequence")
	}

	seq, err := decodeSeq(data)
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}

	return seq, nil
}

// Compression returns the codec applied to row values.
func (db *DB) Compression() format.CompressionType {
	return db.compression
}

// FetchMeta returns the container of the first row, in ascending
// (IDFrom, IDTo, Seq) order, whose interval contains blobID.
//
// When intervals overlap the earliest row wins even if the blob is not in
// its map; callers should check the map of the returned container.
// Returns errs.ErrNotFound when no row covers blobID.
func (db *DB) FetchMeta(blobID uint32) (*section.BlobMetaContainer, error) {
	if err := db.acquire(); err != nil {
		return nil, err
	}
	defer db.lifecycle.RUnlock()

	var found *section.BlobMetaContainer
	scanned, err := db.scanCovering(blobID, func(row Row, value []byte) (bool, error) {
		c, err := db.decodeValue(row, value)
		if err != nil {
			return false, err
		}
		found = c

		return false, nil
	})

	switch {
	case err != nil:
		db.metrics.observeFetch(fetchError, scanned)
		return nil, err
	case found == nil:
		db.metrics.observeFetch(fetchMiss, scanned)
		db.logger.Debug("no catalog row covers blob", "blob_id", blobID, "scanned", scanned)

		return nil, fmt.Errorf("%w: blob id %d", errs.ErrNotFound, blobID)
	}

	db.metrics.observeFetch(fetchHit, scanned)

	return found, nil
}

// FetchRows returns every row whose interval contains blobID, in the order
// FetchMeta considers them. The first record is the one FetchMeta returns.
func (db *DB) FetchRows(blobID uint32) ([]Record, error) {
	if err := db.acquire(); err != nil {
		return nil, err
	}
	defer db.lifecycle.RUnlock()

	var records []Record
	_, err := db.scanCovering(blobID, func(row Row, value []byte) (bool, error) {
		c, err := db.decodeValue(row, value)
		if err != nil {
			return false, err
		}
		records = append(records, Record{Row: row, Container: c})

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// scanCovering calls fn for rows covering blobID in key order until fn
// returns false. It returns the number of rows visited.
func (db *DB) scanCovering(blobID uint32, fn func(row Row, value []byte) (bool, error)) (int, error) {
	lower, upper := rowBounds(blobID)

	cur, err := db.engine.NewCursor(lower, upper)
	if err != nil {
		return 0, engineError(err, "open cursor for blob id %d", blobID)
	}
	defer cur.Close()

	scanned := 0
	for cur.Next() {
		scanned++

		row, err := parseRowKey(cur.Key())
		if err != nil {
			return scanned, fmt.Errorf("catalog: %w", err)
		}
		if !row.Contains(blobID) {
			continue
		}

		more, err := fn(row, cur.Value())
		if err != nil {
			return scanned, err
		}
		if !more {
			return scanned, nil
		}
	}

	if err := cur.Err(); err != nil {
		return scanned, engineError(err, "scan rows for blob id %d", blobID)
	}

	return scanned, nil
}

// Scan calls fn for every row in key order. Iteration stops at the first
// error returned by fn, which Scan returns unchanged.
// fn must not close the DB.
func (db *DB) Scan(fn func(row Row, container *section.BlobMetaContainer) error) error {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.lifecycle.RUnlock()

	lower, upper := allRowBounds()

	cur, err := db.engine.NewCursor(lower, upper)
	if err != nil {
		return engineError(err, "open cursor")
	}
	defer cur.Close()

	for cur.Next() {
		row, err := parseRowKey(cur.Key())
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}

		c, err := db.decodeValue(row, cur.Value())
		if err != nil {
			return err
		}

		if err := fn(row, c); err != nil {
			return err
		}
	}

	if err := cur.Err(); err != nil {
		return engineError(err, "scan rows")
	}

	return nil
}

// InsertRange appends a row for container covering the id range of its blob
// map. Rows are never merged or replaced: inserting the same range twice
// yields two rows.
//
// Returns errs.ErrEmptyMap when the container holds no blobs and
// errs.ErrInvalidChunk when a super location chunk has zero size.
func (db *DB) InsertRange(container *section.BlobMetaContainer) (Row, error) {
	if err := db.acquire(); err != nil {
		return Row{}, err
	}
	defer db.lifecycle.RUnlock()
	if container == nil {
		return Row{}, fmt.Errorf("%w: nil container", errs.ErrEmptyMap)
	}

	idFrom, idTo, err := container.IDRange()
	if err != nil {
		return Row{}, err
	}
	for i, c := range container.GetSuperLoc() {
		if c.Size == 0 {
			return Row{}, fmt.Errorf("%w: super location chunk %d has zero size", errs.ErrInvalidChunk, i)
		}
	}

	bb := pool.GetValueBuffer(container.ComputeSerializationSize())
	defer pool.PutValueBuffer(bb)

	if _, err := container.Serialize(bb.B, 0); err != nil {
		return Row{}, err
	}

	value, err := db.codec.Compress(bb.Bytes())
	if err != nil {
		return Row{}, fmt.Errorf("catalog: compress value: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	row := Row{IDFrom: idFrom, IDTo: idTo, Seq: db.nextSeq}
	err = db.engine.Insert(
		Entry{Key: row.key(), Value: value},
		Entry{Key: seqKey, Value: encodeSeq(row.Seq + 1)},
	)
	if err != nil {
		return Row{}, engineError(err, "insert row %s", row)
	}
	db.nextSeq++

	db.metrics.rowsInserted.Inc()
	db.logger.Debug("catalog row inserted",
		"row", row.String(),
		"blobs", container.GetBlobMap().Len(),
		"value_size", len(value),
	)

	return row, nil
}

// UpdateInsert appends a row for container.
//
// Deprecated: use InsertRange, which also reports the inserted row. Despite
// its name UpdateInsert never updates an existing row.
func (db *DB) UpdateInsert(container *section.BlobMetaContainer) error {
	_, err := db.InsertRange(container)
	return err
}

// Stats walks every row key and summarizes the catalog. Values are not
// decoded.
func (db *DB) Stats() (Stats, error) {
	if err := db.acquire(); err != nil {
		return Stats{}, err
	}
	defer db.lifecycle.RUnlock()

	db.mu.Lock()
	st := Stats{NextSeq: db.nextSeq, Compression: db.compression}
	db.mu.Unlock()

	lower, upper := allRowBounds()

	cur, err := db.engine.NewCursor(lower, upper)
	if err != nil {
		return Stats{}, engineError(err, "open cursor")
	}
	defer cur.Close()

	for cur.Next() {
		row, err := parseRowKey(cur.Key())
		if err != nil {
			return Stats{}, fmt.Errorf("catalog: %w", err)
		}

		if st.Rows == 0 || row.IDFrom < st.MinID {
			st.MinID = row.IDFrom
		}
		if st.Rows == 0 || row.IDTo > st.MaxID {
			st.MaxID = row.IDTo
		}
		st.Rows++
	}

	if err := cur.Err(); err != nil {
		return Stats{}, engineError(err, "scan rows")
	}

	return st, nil
}

// Close closes the catalog and its engine once running operations have
// returned. Later calls, and operations started afterwards, return
// errs.ErrClosed.
func (db *DB) Close() error {
	db.lifecycle.Lock()
	defer db.lifecycle.Unlock()

	if db.closed {
		return errs.ErrClosed
	}
	db.closed = true

	if err := db.engine.Close(); err != nil {
		return engineError(err, "close engine")
	}

	return nil
}

// acquire read-locks the lifecycle for one operation. On success the caller
// must release it with db.lifecycle.RUnlock.
func (db *DB) acquire() error {
	db.lifecycle.RLock()
	if db.closed {
		db.lifecycle.RUnlock()
		return errs.ErrClosed
	}

	return nil
}

func (db *DB) decodeValue(row Row, value []byte) (*section.BlobMetaContainer, error) {
	data, err := db.codec.Decompress(value)
	if err != nil {
		return nil, fmt.Errorf("catalog: row %s: decompress value: %w", row, err)
	}

	c, err := section.ParseBlobMetaContainer(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: row %s: %w", row, err)
	}

	return c, nil
}

// engineError marks err as an engine failure, keeping the original cause
// reachable through errors.Is and errors.As.
func engineError(err error, msg string, args ...any) error {
	return fmt.Errorf("%w: %w", errs.ErrEngine, errors.Wrapf(err, msg, args...))
}
