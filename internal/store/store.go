// Package store persists retained series samples across restarts so the
// graphs are not empty after a reboot.
//
// Each series is one Badger key holding its samples as zstd-compressed JSON.
// Keys expire after the configured max age; samples older than that are also
// dropped on load.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/series"
)

const keyPrefix = "history/"

// Options configures a Store.
type Options struct {
	Dir string
	// MaxAge bounds how old restored samples may be. Zero keeps everything.
	MaxAge time.Duration
	Logger logger.Logger
}

// Store is a small key-value history database.
type Store struct {
	db     *badger.DB
	maxAge time.Duration
	log    logger.Logger
	now    func() time.Time

	mu  sync.Mutex
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens or creates the store in opts.Dir.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New(errors.ErrStore, "No history directory configured",
			"Set history.dir in the config file, or disable history")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't create history directory %s", opts.Dir),
			"Check the directory permissions")
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	// Small tables and value logs: this runs on boards with little RAM and
	// stores a few kilobytes.
	bopts := badger.DefaultOptions(opts.Dir).
		WithLogger(nil).
		WithMemTableSize(8 << 20).
		WithValueLogFileSize(16 << 20).
		WithNumMemtables(2)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't open history database in %s", opts.Dir),
			"Another fbdash may be running, or the directory is corrupt; remove it to start fresh")
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	log.Debug("opened history store in %s (max age %s)", opts.Dir, opts.MaxAge)
	return &Store{db: db, maxAge: opts.MaxAge, log: log, now: time.Now, enc: enc, dec: dec}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc.Close()
	s.dec.Close()
	if err := s.db.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Couldn't close history database", "")
	}
	return nil
}

// Save replaces the stored history of name with samples.
func Save[T any](s *Store, name string, samples []series.Sample[T]) error {
	raw, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("encode %s history: %w", name, err)
	}
	return s.put(name, raw)
}

// Load returns the stored history of name, oldest first, without samples
// older than the max age. A missing key yields nil and no error.
func Load[T any](s *Store, name string) ([]series.Sample[T], error) {
	raw, err := s.get(name)
	if err != nil || raw == nil {
		return nil, err
	}

	var samples []series.Sample[T]
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Stored %s history is unreadable", name),
			"It will be overwritten on the next save")
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		kept := samples[:0]
		for _, sample := range samples {
			if !sample.ObservedAt.Before(cutoff) {
				kept = append(kept, sample)
			}
		}
		samples = kept
	}
	if len(samples) == 0 {
		return nil, nil
	}
	return samples, nil
}

// Delete removes the stored history of name.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, fmt.Sprintf("Couldn't delete %s history", name), "")
	}
	return nil
}

// Names lists the series with stored history.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, "Couldn't list stored history", "")
	}
	return names, nil
}

func (s *Store) put(name string, raw []byte) error {
	s.mu.Lock()
	compressed := s.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key(name), compressed)
		if s.maxAge > 0 {
			e = e.WithTTL(s.maxAge)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, fmt.Sprintf("Couldn't save %s history", name), "")
	}
	s.log.Debug("saved %s history (%d bytes, %d compressed)", name, len(raw), len(compressed))
	return nil
}

func (s *Store) get(name string) ([]byte, error) {
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore, fmt.Sprintf("Couldn't read %s history", name), "")
	}

	s.mu.Lock()
	raw, err := s.dec.DecodeAll(compressed, nil)
	s.mu.Unlock()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Stored %s history is corrupt", name),
			"It will be overwritten on the next save")
	}
	return raw, nil
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}
