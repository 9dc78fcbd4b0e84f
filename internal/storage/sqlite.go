package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"taskmgr/internal/logging"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLite keeps slots as rows of a single kv table.
type SQLite struct {
	pool   *sqlitex.Pool
	path   string
	logger logrus.FieldLogger
}

// OpenSQLite opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string, logger logrus.FieldLogger) (*SQLite, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", filepath.Dir(path), err)
		}
	}

	// A single connection: one writer, and ":memory:" databases are
	// per-connection.
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    1,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", path, err)
	}

	logger.WithField("path", path).Debug("sqlite storage opened")
	return &SQLite{pool: pool, path: path, logger: logger}, nil
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}
	return sqlitex.ExecuteTransient(conn, kvSchema, nil)
}

// Get implements KV.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("storage: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	var (
		value []byte
		found bool
	)
	err = sqlitex.Execute(conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = []byte(stmt.ColumnText(0))
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

// Set implements KV.
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("storage: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	return sqlitex.Execute(conn,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, string(value)}},
	)
}

// Close implements KV.
func (s *SQLite) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("storage: closing %s: %w", s.path, err)
	}
	s.logger.WithField("path", s.path).Debug("sqlite storage closed")
	return nil
}
