package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"board/diagram"
)

// Key prefixes for the three entity spaces sharing one keyspace.
const (
	prefixDiagram = "diagram/"
	prefixFolder  = "folder/"
	prefixSetting = "setting/"
)

// Config holds configuration for the Badger-backed store.
type Config struct {
	// Path is the directory for database files. Required unless InMemory.
	Path string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites makes each write durable before returning.
	SyncWrites bool

	// Logger receives Badger's internal log output. If nil, Badger's
	// logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests: no disk, no sync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore implements Store on an embedded BadgerDB. Entities are stored
// as JSON values under prefixed keys. Safe for concurrent use.
type BadgerStore struct {
	db *badger.DB
}

// Open opens a Badger-backed store with the given configuration.
func Open(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// OpenInMemory opens an in-memory store for testing.
func OpenInMemory() (*BadgerStore, error) {
	return Open(InMemoryConfig())
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) get(ctx context.Context, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BadgerStore) put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *BadgerStore) delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// scan decodes every value under prefix via decode, which receives the raw
// JSON for one entity.
func (s *BadgerStore) scan(ctx context.Context, prefix string, decode func(val []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				return decode(val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Diagram(ctx context.Context, id string) (*diagram.Diagram, error) {
	var d diagram.Diagram
	if err := s.get(ctx, prefixDiagram+id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *BadgerStore) Diagrams(ctx context.Context) ([]*diagram.Diagram, error) {
	var out []*diagram.Diagram
	err := s.scan(ctx, prefixDiagram, func(val []byte) error {
		var d diagram.Diagram
		if err := json.Unmarshal(val, &d); err != nil {
			return err
		}
		out = append(out, &d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) SaveDiagram(ctx context.Context, d *diagram.Diagram) error {
	return s.put(ctx, prefixDiagram+d.ID, d)
}

func (s *BadgerStore) DeleteDiagram(ctx context.Context, id string) error {
	return s.delete(ctx, prefixDiagram+id)
}

func (s *BadgerStore) Folder(ctx context.Context, id string) (*diagram.Folder, error) {
	var f diagram.Folder
	if err := s.get(ctx, prefixFolder+id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *BadgerStore) Folders(ctx context.Context) ([]*diagram.Folder, error) {
	var out []*diagram.Folder
	err := s.scan(ctx, prefixFolder, func(val []byte) error {
		var f diagram.Folder
		if err := json.Unmarshal(val, &f); err != nil {
			return err
		}
		out = append(out, &f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) SaveFolder(ctx context.Context, f *diagram.Folder) error {
	return s.put(ctx, prefixFolder+f.ID, f)
}

func (s *BadgerStore) DeleteFolder(ctx context.Context, id string) error {
	return s.delete(ctx, prefixFolder+id)
}

func (s *BadgerStore) Setting(ctx context.Context, key string, out any) (bool, error) {
	err := s.get(ctx, prefixSetting+key, out)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BadgerStore) SetSetting(ctx context.Context, key string, value any) error {
	return s.put(ctx, prefixSetting+key, value)
}
