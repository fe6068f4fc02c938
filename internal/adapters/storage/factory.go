package storage

import (
	"fmt"

	"github.com/spf13/afero"
)

// StorageType selects the storage a project is written to.
type StorageType string

const (
	// TypeFilesystem roots the project at Config.BasePath on disk. It is also used when the
	// type is empty.
	TypeFilesystem StorageType = "filesystem"

	// TypeMemory keeps the project in memory, for tests and previews.
	TypeMemory StorageType = "memory"
)

// NewStorage opens the project storage described by config. A nil config opens the current
// directory.
func NewStorage(config *Config) (Storage, error) {
	if config == nil {
		config = &Config{}
	}

	switch StorageType(config.Type) {
	case TypeFilesystem, "":
		root := config.BasePath
		if root == "" {
			root = "."
		}
		return NewFilesystemStorage(afero.NewBasePathFs(afero.NewOsFs(), root)), nil

	case TypeMemory:
		return NewMemoryStorage(), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q (expected %s or %s)", config.Type, TypeFilesystem, TypeMemory)
	}
}
