package domdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Config holds the parameters for opening a Store. Path is required.
type Config struct {
	// Path is the filesystem path to the reference database. The file
	// must already exist; the store never creates or migrates it.
	Path string

	// PoolSize is the number of connections in the pool. If zero or
	// negative, defaults to max(runtime.NumCPU(), 4). Reads dominate
	// here, so extra connections only matter for concurrent lookups.
	PoolSize int

	// Logger receives operational messages. If nil, logging is disabled.
	Logger *zerolog.Logger
}

// Store is a read-only handle on the reference database. Safe for
// concurrent use; individual connections are not shared across
// goroutines.
type Store struct {
	pool   *sqlitex.Pool
	logger zerolog.Logger
	path   string
}

// Open opens the reference database read-only. The caller must Close
// the store when done.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("domdb: Path is required")
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize: poolSize,
		Flags:    sqlite.OpenReadOnly | sqlite.OpenWAL | sqlite.OpenURI,
	})
	if err != nil {
		return nil, fmt.Errorf("domdb: opening %s: %w", cfg.Path, err)
	}

	logger.Info().Str("path", cfg.Path).Int("pool_size", poolSize).Msg("reference database opened")

	return &Store{pool: pool, logger: logger, path: cfg.Path}, nil
}

// Close closes all connections in the pool.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("domdb: closing %s: %w", s.path, err)
	}
	return nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string { return s.path }

// withConn borrows a connection, runs fn, and returns it.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("domdb: take: %w", err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}
