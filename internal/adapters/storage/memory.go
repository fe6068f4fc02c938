package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage implements Storage in memory. Dry runs and tests write here.
type MemoryStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage adapter.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: make(map[string][]byte),
	}
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Read reads contents from a path.
func (ms *MemoryStorage) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	content, exists := ms.files[clean(p)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return append([]byte(nil), content...), nil
}

// Write writes contents to a path.
func (ms *MemoryStorage) Write(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.files[clean(p)] = append([]byte(nil), content...)
	return nil
}

// Delete deletes a file at path.
func (ms *MemoryStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.files, clean(p))
	return nil
}

// Exists checks if a file or an implicit directory exists.
func (ms *MemoryStorage) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	key := clean(p)
	if _, exists := ms.files[key]; exists {
		return true, nil
	}
	for name := range ms.files {
		if key == "" || strings.HasPrefix(name, key+"/") {
			return true, nil
		}
	}
	return false, nil
}

// List lists the first path component of every file below dir.
func (ms *MemoryStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	prefix := clean(dir)
	if prefix != "" {
		prefix += "/"
	}

	files := []string{}
	seen := make(map[string]bool)
	for name := range ms.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		first := strings.SplitN(strings.TrimPrefix(name, prefix), "/", 2)[0]
		if first != "" && !seen[first] {
			files = append(files, first)
			seen[first] = true
		}
	}
	sort.Strings(files)
	return files, nil
}

// MkdirAll is a no-op: directories are implicit in memory storage.
func (ms *MemoryStorage) MkdirAll(ctx context.Context, _ string) error {
	return ctx.Err()
}

// Files returns a copy of every stored file keyed by path.
func (ms *MemoryStorage) Files() map[string]string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make(map[string]string, len(ms.files))
	for name, content := range ms.files {
		out[name] = string(content)
	}
	return out
}

// Size returns the number of files in storage.
func (ms *MemoryStorage) Size() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.files)
}

// Ensure MemoryStorage implements Storage interface.
var _ Storage = (*MemoryStorage)(nil)
