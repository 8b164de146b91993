package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// SQLKV stores keys in a two-column table. The same SQL serves SQLite and
// Postgres; only the placeholder style differs.
type SQLKV struct {
	db *sql.DB

	getQuery    string
	setQuery    string
	deleteQuery string
}

// NewSQLite opens (or creates) the SQLite database at path.
func NewSQLite(path string) (*SQLKV, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite storage requires a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)

	return newSQLKV(db, "?", "?")
}

// NewPostgres connects to the Postgres database at dsn.
func NewPostgres(dsn string) (*SQLKV, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage requires a DSN")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return newSQLKV(db, "$1", "$2")
}

func newSQLKV(db *sql.DB, p1, p2 string) (*SQLKV, error) {
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLKV{
		db:          db,
		getQuery:    `SELECT value FROM kv WHERE key = ` + p1,
		setQuery:    `INSERT INTO kv(key, value) VALUES(` + p1 + `, ` + p2 + `) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		deleteQuery: `DELETE FROM kv WHERE key = ` + p1,
	}, nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.setQuery, key, value)
	return err
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.deleteQuery, key)
	return err
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}
