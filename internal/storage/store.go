// Package storage persists wheel state in a small key-value store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is durable key-value storage.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, v []byte) error
	Close() error
}

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open builds the store named by driver. dsn is a directory for "file" and
// a database path for "sqlite"; "memory" ignores it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		return NewFileStore(dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}
