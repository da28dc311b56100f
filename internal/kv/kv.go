// Package kv is the local key-value store the to-do list persists into.
// Values are opaque strings; a key is either present or absent.
package kv

import (
	"fmt"
	"io"
	"strings"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites any existing value at key.
	Set(key, value string) error
}

// Open builds the store named by driver. dataDir is only used by the file
// driver.
func Open(driver, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFile:
		return NewFileStore(dataDir)
	case DriverSQLite:
		return NewSQLiteStore(dataDir)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// Close releases s if it holds a resource such as a database handle.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
