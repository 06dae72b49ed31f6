package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/internal/options"
)

// PebbleEngine is an Engine backed by a pebble database.
type PebbleEngine struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

var _ Engine = (*PebbleEngine)(nil)

type pebbleConfig struct {
	fs       vfs.FS
	sync     bool
	readOnly bool
	logger   *slog.Logger
}

// PebbleOption configures a PebbleEngine.
type PebbleOption = options.Option[*pebbleConfig]

// WithFS sets the filesystem pebble runs on. Tests use vfs.NewMem().
func WithFS(fs vfs.FS) PebbleOption {
	return options.New("WithFS", func(c *pebbleConfig) error {
		if fs == nil {
			return errors.New("filesystem cannot be nil")
		}
		c.fs = fs

		return nil
	})
}

// WithSyncWrites controls whether every insert is synced to stable storage
// before it returns. Enabled by default.
func WithSyncWrites(enabled bool) PebbleOption {
	return options.NoError("WithSyncWrites", func(c *pebbleConfig) {
		c.sync = enabled
	})
}

// WithReadOnly opens the database read-only; inserts fail.
func WithReadOnly() PebbleOption {
	return options.NoError("WithReadOnly", func(c *pebbleConfig) {
		c.readOnly = true
	})
}

// WithEngineLogger routes pebble's own log output to logger.
func WithEngineLogger(logger *slog.Logger) PebbleOption {
	return options.NoError("WithEngineLogger", func(c *pebbleConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// NewPebbleEngine opens (creating if needed) a pebble database in dir.
func NewPebbleEngine(dir string, opts ...PebbleOption) (*PebbleEngine, error) {
	cfg := &pebbleConfig{
		fs:     vfs.Default,
		sync:   true,
		logger: slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	db, err := pebble.Open(dir, &pebble.Options{
		FS:       cfg.fs,
		ReadOnly: cfg.readOnly,
		Logger:   pebbleLogger{logger: cfg.logger.With("component", "pebble")},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble engine in %q", dir)
	}

	writeOpts := pebble.NoSync
	if cfg.sync {
		writeOpts = pebble.Sync
	}

	return &PebbleEngine{db: db, writeOpts: writeOpts}, nil
}

// NewMemPebbleEngine opens a pebble database on a fresh in-memory filesystem.
func NewMemPebbleEngine(opts ...PebbleOption) (*PebbleEngine, error) {
	return NewPebbleEngine("catalog", append([]PebbleOption{WithFS(vfs.NewMem()), WithSyncWrites(false)}, opts...)...)
}

// Insert implements Engine. Entries are committed in one batch.
func (e *PebbleEngine) Insert(entries ...Entry) error {
	b := e.db.NewBatch()
	defer b.Close()

	for _, entry := range entries {
		// Batch.Set copies key and value into the batch representation.
		if err := b.Set(entry.Key, entry.Value, nil); err != nil {
			return err
		}
	}

	return b.Commit(e.writeOpts)
}

// Fetch implements Engine.
func (e *PebbleEngine) Fetch(key []byte) ([]byte, error) {
	value, closer, err := e.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), value...), nil
}

// NewCursor implements Engine.
func (e *PebbleEngine) NewCursor(lower, upper []byte) (Cursor, error) {
	iter, err := e.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}

	return &pebbleCursor{iter: iter}, nil
}

// Close implements Engine.
func (e *PebbleEngine) Close() error {
	return e.db.Close()
}

// Flush persists the memtable; used by tools before handing the files off.
func (e *PebbleEngine) Flush() error {
	return e.db.Flush()
}

type pebbleCursor struct {
	iter    *pebble.Iterator
	started bool
}

func (c *pebbleCursor) Next() bool {
	if !c.started {
		c.started = true
		return c.iter.First()
	}

	return c.iter.Next()
}

func (c *pebbleCursor) Key() []byte {
	return c.iter.Key()
}

func (c *pebbleCursor) Value() []byte {
	return c.iter.Value()
}

func (c *pebbleCursor) Err() error {
	return c.iter.Error()
}

func (c *pebbleCursor) Close() error {
	return c.iter.Close()
}

// pebbleLogger adapts slog to pebble's logger interface.
type pebbleLogger struct {
	logger *slog.Logger
}

func (l pebbleLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l pebbleLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l pebbleLogger) Fatalf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "fatal", true)
	os.Exit(1)
}
