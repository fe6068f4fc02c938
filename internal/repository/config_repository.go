package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/project"
)

const (
	// ConfigFile is the project configuration file.
	ConfigFile = ".yo-rc.json"
	// ConfigKey is the root key holding the generator configuration.
	ConfigKey = "generator-jhipster"
)

// ConfigRepositoryImpl implements ConfigRepository over a project storage.
type ConfigRepositoryImpl struct {
	store storage.Storage
}

// NewConfigRepository creates a new config repository.
func NewConfigRepository(store storage.Storage) *ConfigRepositoryImpl {
	return &ConfigRepositoryImpl{store: store}
}

// Load loads configuration from file.
func (r *ConfigRepositoryImpl) Load(ctx context.Context) (*project.Config, error) {
	data, err := r.store.Read(ctx, ConfigFile)
	if errors.Is(err, storage.ErrNotFound) {
		return project.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	return DecodeConfig(data)
}

// Save saves configuration to file.
func (r *ConfigRepositoryImpl) Save(ctx context.Context, cfg *project.Config) error {
	existing, err := r.store.Read(ctx, ConfigFile)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	data, err := EncodeConfig(existing, cfg)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, ConfigFile, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFile, err)
	}
	return nil
}

// Exists reports whether the configuration file exists.
func (r *ConfigRepositoryImpl) Exists(ctx context.Context) (bool, error) {
	return r.store.Exists(ctx, ConfigFile)
}

// DecodeConfig extracts the generator configuration from .yo-rc.json content.
func DecodeConfig(data []byte) (*project.Config, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}
	cfg := project.New()
	raw, ok := root[ConfigKey]
	if !ok {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s %q: %w", ConfigFile, ConfigKey, err)
	}
	return cfg, nil
}

// EncodeConfig renders cfg under the generator key of the existing .yo-rc.json content, which
// may be empty.
func EncodeConfig(existing []byte, cfg *project.Config) ([]byte, error) {
	root := map[string]json.RawMessage{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &root); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
		}
	}
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	root[ConfigKey] = encoded
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", ConfigFile, err)
	}
	return append(out, '\n'), nil
}

var _ ConfigRepository = (*ConfigRepositoryImpl)(nil)
