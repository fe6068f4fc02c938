package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
	_ "github.com/jhipster/jhipster-go/internal/adapters/database/sqlite"
	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/project"
)

func TestConfigRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewConfigRepository(store)

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, cfg.Len())

	require.NoError(t, store.Write(ctx, ConfigFile, []byte(`{"generator-jhipster-docker": {"enabled": true}}`)))

	cfg = project.New()
	cfg.Set("baseName", "store")
	cfg.Set("serverPort", 8080)
	cfg.Set("languages", []string{"en", "fr"})
	require.NoError(t, repo.Save(ctx, cfg))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "store", loaded.String("baseName"))
	assert.Equal(t, 8080, loaded.Int("serverPort"))
	assert.Equal(t, []string{"en", "fr"}, loaded.Strings("languages"))

	raw := store.Files()[ConfigFile]
	assert.Contains(t, raw, `"generator-jhipster-docker"`, "other root keys are kept")
	assert.Contains(t, raw, `"generator-jhipster": {`)
}

func TestDecodeConfig_Invalid(t *testing.T) {
	_, err := DecodeConfig([]byte("{"))
	assert.Error(t, err)

	cfg, err := DecodeConfig([]byte(`{"other": {}}`))
	require.NoError(t, err)
	assert.Zero(t, cfg.Len())
}

func TestEntityRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewEntityRepository(store)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	owner := entity.New("Owner")
	owner.ChangelogDate = "20240102000000"
	owner.Fields = append(owner.Fields, entity.Field{FieldName: "name", FieldType: "String"})
	car := entity.New("Car")
	car.ChangelogDate = "20240101000000"
	require.NoError(t, repo.Save(ctx, owner))
	require.NoError(t, repo.Save(ctx, car))
	require.NoError(t, store.Write(ctx, EntityDir+"/notes.txt", []byte("ignored")))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Car", all[0].Name)
	assert.Equal(t, "Owner", all[1].Name)

	found, err := repo.FindByName(ctx, "Owner")
	require.NoError(t, err)
	assert.Equal(t, "name", found.Fields[0].FieldName)

	_, err = repo.FindByName(ctx, "Garage")
	assert.ErrorIs(t, err, ErrEntityNotFound)

	require.NoError(t, repo.Delete(ctx, "Car"))
	assert.ErrorIs(t, repo.Delete(ctx, "Car"), ErrEntityNotFound)
}

func TestEncodeEntity(t *testing.T) {
	data, err := EncodeEntity(entity.New("Car"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Car"`)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	e, err := DecodeEntity(data)
	require.NoError(t, err)
	assert.Equal(t, "Car", e.Name)
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	adapter, err := database.NewAdapter(database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(ctx))
	defer adapter.Disconnect(ctx)

	repo := NewHistoryRepository(adapter)
	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := &Run{StartedAt: start, Command: "app", BaseName: "store", Generators: []string{"app", "common"}, Status: StatusSuccess, Duration: 1500 * time.Millisecond}
	second := &Run{StartedAt: start.Add(time.Hour), Command: "entity", BaseName: "store", Blueprints: []string{"docker"}, Status: StatusFailed, Error: "boom"}
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))
	assert.NotZero(t, second.ID)

	runs, err := repo.FindAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "entity", runs[0].Command)
	assert.Equal(t, []string{"docker"}, runs[0].Blueprints)
	assert.Equal(t, "boom", runs[0].Error)
	assert.Equal(t, []string{"app", "common"}, runs[1].Generators)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.True(t, start.Equal(runs[1].StartedAt))

	last, err = repo.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, last.Status)
}

func TestHistoryRepository_Disabled(t *testing.T) {
	repo := NewHistoryRepository(nil)
	require.NoError(t, repo.Record(context.Background(), &Run{Command: "app"}))
	runs, err := repo.FindAll(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
