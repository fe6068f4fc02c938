package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/entity"
)

// EntityDir holds one JSON file per entity.
const EntityDir = ".jhipster"

// EntityPath returns the definition file of an entity.
func EntityPath(name string) string {
	return path.Join(EntityDir, name+".json")
}

// EntityRepositoryImpl implements EntityRepository over a project storage.
type EntityRepositoryImpl struct {
	store storage.Storage
}

// NewEntityRepository creates a new entity repository.
func NewEntityRepository(store storage.Storage) *EntityRepositoryImpl {
	return &EntityRepositoryImpl{store: store}
}

// FindAll reads every .jhipster/*.json file.
func (r *EntityRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Entity, error) {
	exists, err := r.store.Exists(ctx, EntityDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	names, err := r.store.List(ctx, EntityDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", EntityDir, err)
	}

	var out []*entity.Entity
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		e, err := r.read(ctx, path.Join(EntityDir, name))
		if err != nil {
			return nil, err
		}
		if e.Name == "" {
			e.Name = strings.TrimSuffix(name, ".json")
		}
		out = append(out, e)
	}
	entity.SortByChangelog(out)
	return out, nil
}

// FindByName reads the definition of one entity.
func (r *EntityRepositoryImpl) FindByName(ctx context.Context, name string) (*entity.Entity, error) {
	e, err := r.read(ctx, EntityPath(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	if e.Name == "" {
		e.Name = name
	}
	return e, nil
}

// Save writes the entity definition.
func (r *EntityRepositoryImpl) Save(ctx context.Context, e *entity.Entity) error {
	data, err := EncodeEntity(e)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, EntityPath(e.Name), data); err != nil {
		return fmt.Errorf("failed to write entity %s: %w", e.Name, err)
	}
	return nil
}

// Delete removes the entity definition. Storages accept deleting missing files, so the
// definition is looked up first.
func (r *EntityRepositoryImpl) Delete(ctx context.Context, name string) error {
	p := EntityPath(name)
	exists, err := r.store.Exists(ctx, p)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	if err := r.store.Delete(ctx, p); err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", name, err)
	}
	return nil
}

func (r *EntityRepositoryImpl) read(ctx context.Context, p string) (*entity.Entity, error) {
	data, err := r.store.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	return DecodeEntity(data)
}

// DecodeEntity parses an entity definition.
func DecodeEntity(data []byte) (*entity.Entity, error) {
	e := entity.New("")
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("failed to parse entity: %w", err)
	}
	return e, nil
}

// EncodeEntity renders an entity definition the way it is stored.
func EncodeEntity(e *entity.Entity) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity %s: %w", e.Name, err)
	}
	return append(data, '\n'), nil
}

var _ EntityRepository = (*EntityRepositoryImpl)(nil)
