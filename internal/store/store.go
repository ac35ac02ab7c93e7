package store

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/rmarsh/chessperf/internal/logging"
)

// Store is the handle chessperf's command-line verbs open against the
// on-disk database. It owns the Badger instance and serializes write
// transactions the same way Badger itself does: at most one write
// transaction may be open at a time, enforced here with writeMu rather than
// relying on callers to coordinate.
type Store struct {
	db      *badger.DB
	dir     string
	writeMu sync.Mutex
}

// Options configures Open.
type Options struct {
	Dir string

	// InMemory opens a throwaway database useful for tests; Dir is ignored.
	InMemory bool
}

// Open opens (creating if necessary) the database at opts.Dir.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogAdapter{})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", opts.Dir, err)
	}
	return &Store{db: db, dir: opts.Dir}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close %q: %w", s.dir, err)
	}
	return nil
}

// RunValueLogGC triggers Badger's value-log garbage collection, cheap to
// call periodically after a large import; a nil return means space was
// reclaimed, badger.ErrNoRewrite means there was nothing to do.
func (s *Store) RunValueLogGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// badgerLogAdapter routes Badger's internal logging through the
// application's zerolog logger instead of Badger's default stderr logger.
type badgerLogAdapter struct{}

func (badgerLogAdapter) Errorf(format string, args ...any) {
	logging.WithComponent("badger").Error().Msgf(format, args...)
}

func (badgerLogAdapter) Warningf(format string, args ...any) {
	logging.WithComponent("badger").Warn().Msgf(format, args...)
}

func (badgerLogAdapter) Infof(format string, args ...any) {
	logging.WithComponent("badger").Info().Msgf(format, args...)
}

func (badgerLogAdapter) Debugf(format string, args ...any) {
	logging.WithComponent("badger").Debug().Msgf(format, args...)
}
