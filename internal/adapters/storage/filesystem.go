package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// FilesystemStorage implements Storage on an afero filesystem, usually a base path
// filesystem rooted at the project directory.
type FilesystemStorage struct {
	fs afero.Fs
}

// NewFilesystemStorage creates a new filesystem storage adapter.
func NewFilesystemStorage(fs afero.Fs) *FilesystemStorage {
	return &FilesystemStorage{fs: fs}
}

// Read reads contents from a path.
func (s *FilesystemStorage) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Write writes contents to a path.
func (s *FilesystemStorage) Write(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, p, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete deletes a file at path.
func (s *FilesystemStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a path exists.
func (s *FilesystemStorage) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := afero.Exists(s.fs, p)
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return ok, nil
}

// List lists the entries of a directory.
func (s *FilesystemStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// MkdirAll creates a directory and all parent directories.
func (s *FilesystemStorage) MkdirAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(p, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Ensure FilesystemStorage implements Storage interface.
var _ Storage = (*FilesystemStorage)(nil)
