// Package storage provides the file storage the generated project is written to.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read for missing files.
var ErrNotFound = errors.New("file not found")

// Storage defines the storage adapter interface. Paths are slash separated and relative to
// the project root.
type Storage interface {
	// Read reads contents from a path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write writes contents to a path, creating parent directories.
	Write(ctx context.Context, path string, content []byte) error

	// Delete deletes a file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if a path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List lists the entries of a directory, sorted by name.
	List(ctx context.Context, dir string) ([]string, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(ctx context.Context, path string) error
}

// Config holds storage configuration.
type Config struct {
	// Type is the storage type (filesystem, memory).
	Type string

	// BasePath is the project root for filesystem storage.
	BasePath string
}
