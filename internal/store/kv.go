package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("key not found")
)

// KV is a small string key-value store, the server-side stand-in for the
// browser's local storage.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Supported values of Options.Driver.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a KV backend.
type Options struct {
	Driver string
	// Path is the file for the file and sqlite drivers.
	Path string
	// DSN is the connection string for the postgres driver.
	DSN string
}

// Open creates the KV backend named by opts.Driver.
func Open(opts Options) (KV, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryKV(), nil
	case DriverFile, "":
		return NewFileKV(opts.Path)
	case DriverSQLite:
		return NewSQLite(opts.Path)
	case DriverPostgres:
		return NewPostgres(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
