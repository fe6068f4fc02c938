package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/adapters/toolrunner"
	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/jdl"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/generators"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// projects hands out one memory storage per directory.
type projects struct {
	mu    sync.Mutex
	byDir map[string]*storage.MemoryStorage
}

func (p *projects) open(dir string) (storage.Storage, error) {
	return p.get(dir), nil
}

func (p *projects) get(dir string) *storage.MemoryStorage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byDir == nil {
		p.byDir = map[string]*storage.MemoryStorage{}
	}
	if _, ok := p.byDir[dir]; !ok {
		p.byDir[dir] = storage.NewMemoryStorage()
	}
	return p.byDir[dir]
}

type fakeHistory struct {
	runs []*repository.Run
	err  error
}

func (h *fakeHistory) Record(_ context.Context, run *repository.Run) error {
	h.runs = append(h.runs, run)
	return h.err
}

func (h *fakeHistory) FindAll(context.Context, int) ([]*repository.Run, error) { return h.runs, nil }

func (h *fakeHistory) Last(context.Context) (*repository.Run, error) {
	if len(h.runs) == 0 {
		return nil, nil
	}
	return h.runs[len(h.runs)-1], nil
}

type fixture struct {
	projects *projects
	runner   *toolrunner.Recorder
	history  *fakeHistory
	registry *blueprint.Registry
	generate *GenerateService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		projects: &projects{},
		runner:   &toolrunner.Recorder{},
		history:  &fakeHistory{},
		registry: blueprint.NewRegistry(),
	}
	f.generate = NewGenerateService(Deps{
		Open:        f.projects.open,
		Runner:      f.runner,
		History:     f.history,
		Blueprints:  f.registry,
		Logger:      zerolog.Nop(),
		ToolVersion: "1.2.0",
	})
	return f
}

func writeConfig(t *testing.T, store storage.Storage, values map[string]any) {
	t.Helper()
	require.NoError(t, repository.NewConfigRepository(store).Save(context.Background(), project.FromMap(values)))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := f.projects.get("/work/store")
	writeConfig(t, store, map[string]any{"baseName": "store", "packageName": "com.acme.store"})

	result, err := f.generate.Generate(ctx, GenerateInput{
		Dir:     "/work/store",
		SkipGit: true,
		Config:  project.FromMap(map[string]any{options.BuildTool: "gradle"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "store", result.BaseName)
	assert.Contains(t, result.Generators, generators.Server)
	assert.Zero(t, result.Conflicts())
	assert.Contains(t, store.Files(), "build.gradle")
	assert.Equal(t, []string{"npm install"}, f.runner.Calls())

	saved, err := repository.NewConfigRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gradle", saved.String(options.BuildTool), "overrides are persisted")

	require.Len(t, f.history.runs, 1)
	run := f.history.runs[0]
	assert.Equal(t, "app", run.Command)
	assert.Equal(t, repository.StatusSuccess, run.Status)
	assert.Equal(t, "store", run.BaseName)
}

func TestGenerate_Failure(t *testing.T) {
	f := newFixture(t)
	writeConfig(t, f.projects.get("."), map[string]any{"baseName": "store", "clientFramework": "svelte"})
	f.history.err = errors.New("disk full")

	_, err := f.generate.Generate(context.Background(), GenerateInput{Command: "app --force"})
	assert.ErrorIs(t, err, project.ErrInvalidChoice)

	require.Len(t, f.history.runs, 1)
	assert.Equal(t, repository.StatusFailed, f.history.runs[0].Status)
	assert.Equal(t, "app --force", f.history.runs[0].Command)
	assert.Contains(t, f.history.runs[0].Error, "svelte")
}

func TestGenerate_RecordedBlueprints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.registry.Register(blueprint.Blueprint{Name: "sample", Version: "0.1.0", Requires: ">= 2.0"}))

	store := f.projects.get(".")
	writeConfig(t, store, map[string]any{
		"baseName":   "store",
		"blueprints": []any{map[string]any{"name": "generator-jhipster-sample", "version": "0.1.0"}},
	})

	names, err := RecordedBlueprints(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample"}, names)

	_, err = f.generate.Generate(ctx, GenerateInput{SkipInstall: true, SkipGit: true})
	assert.ErrorIs(t, err, blueprint.ErrIncompatible)

	result, err := f.generate.Generate(ctx, GenerateInput{SkipInstall: true, SkipGit: true, SkipChecks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"sample"}, result.Blueprints)
}

const storeJDL = `
application {
  config {
    baseName store
    packageName com.acme.store
    enableTranslation false
  }
  entities Car, Owner
}

entity Owner {
  name String required
}

entity Car {
  model String
  status Status
}

enum Status {
  NEW, USED
}

relationship ManyToOne {
  Car{owner} to Owner
}
`

const microservicesJDL = `
application {
  config {
    baseName gateway
    applicationType gateway
    packageName com.acme.gateway
  }
  entities Invoice
}

application {
  config {
    baseName billing
    applicationType microservice
    packageName com.acme.billing
    serverPort 8081
  }
  entities Invoice
}

entity Invoice {
  total BigDecimal
}
`

func newJDLService(t *testing.T, f *fixture, files map[string]string) *JDLService {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	s := NewJDLService(fs, f.generate)
	s.clock = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestImport_SingleApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/store.jdl": storeJDL})

	result, err := s.Import(ctx, ImportInput{Files: []string{"/jdl/store.jdl"}, Dir: "/work", SkipInstall: true, SkipGit: true})
	require.NoError(t, err)
	require.Len(t, result.Applications, 1)

	app := result.Applications[0]
	assert.Equal(t, "store", app.BaseName)
	assert.Equal(t, "/work", app.Dir)
	assert.Equal(t, []string{"Car", "Owner"}, app.Entities)
	require.NotNil(t, app.Result)
	assert.Contains(t, app.Result.Generators, "entity:Car")

	files := f.projects.get("/work").Files()
	assert.Contains(t, files, "src/main/java/com/acme/store/domain/Car.java")
	assert.Contains(t, files, "src/main/resources/config/liquibase/changelog/20240501100000_added_entity_Car.xml")

	car, err := repository.NewEntityRepository(f.projects.get("/work")).FindByName(ctx, "Car")
	require.NoError(t, err)
	assert.Equal(t, "20240501100000", car.ChangelogDate)
	require.Len(t, car.Relationships, 1)
	assert.Equal(t, entity.ManyToOne, car.Relationships[0].RelationshipType)
}

func TestImport_KeepsChangelogDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, repository.NewEntityRepository(f.projects.get("/work")).Save(ctx, &entity.Entity{
		Name:          "Car",
		ChangelogDate: "20200101000000",
		Fields:        []entity.Field{{FieldName: "model", FieldType: "String"}},
	}))
	s := newJDLService(t, f, map[string]string{"/jdl/store.jdl": storeJDL})

	_, err := s.Import(ctx, ImportInput{Files: []string{"/jdl/store.jdl"}, Dir: "/work", SkipGeneration: true})
	require.NoError(t, err)

	repo := repository.NewEntityRepository(f.projects.get("/work"))
	car, err := repo.FindByName(ctx, "Car")
	require.NoError(t, err)
	assert.Equal(t, "20200101000000", car.ChangelogDate)
	owner, err := repo.FindByName(ctx, "Owner")
	require.NoError(t, err)
	assert.Equal(t, "20240501100000", owner.ChangelogDate)

	cfg, err := repository.NewConfigRepository(f.projects.get("/work")).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "store", cfg.String(options.BaseName))
	assert.Empty(t, f.history.runs, "nothing is generated")
	assert.NotContains(t, f.projects.get("/work").Files(), "README.md")
}

func TestImport_MultipleApplications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/apps.jdl": microservicesJDL})

	result, err := s.Import(ctx, ImportInput{Files: []string{"/jdl/apps.jdl"}, Dir: "/work", SkipInstall: true, SkipGit: true})
	require.NoError(t, err)
	require.Len(t, result.Applications, 2)
	assert.Equal(t, "/work/gateway", result.Applications[0].Dir)
	assert.Equal(t, "/work/billing", result.Applications[1].Dir)

	billing := f.projects.get("/work/billing").Files()
	assert.Contains(t, billing, "src/main/java/com/acme/billing/domain/Invoice.java")
	assert.Contains(t, billing, repository.ConfigFile)
	for path := range billing {
		assert.False(t, strings.HasPrefix(path, "src/main/webapp/"), "microservice has no client: %s", path)
	}
	assert.Contains(t, f.projects.get("/work/gateway").Files(), "src/main/java/com/acme/gateway/domain/Invoice.java")
	assert.Len(t, f.history.runs, 2)
}

func TestImport_EntitiesOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	writeConfig(t, f.projects.get("/work"), map[string]any{"baseName": "store", "packageName": "com.acme.store"})
	s := newJDLService(t, f, map[string]string{"/jdl/tag.jdl": "entity Tag {\n  label String\n}\n"})

	result, err := s.Import(ctx, ImportInput{Files: []string{"/jdl/tag.jdl"}, Dir: "/work"})
	require.NoError(t, err)
	require.Len(t, result.Applications, 1)
	assert.Equal(t, []string{"entities", "entity:Tag"}, result.Applications[0].Result.Generators)
	assert.Contains(t, f.projects.get("/work").Files(), "src/main/java/com/acme/store/domain/Tag.java")
	assert.Empty(t, f.runner.Calls())
}

func TestImport_DryRun(t *testing.T) {
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/store.jdl": storeJDL})

	result, err := s.Import(context.Background(), ImportInput{Files: []string{"/jdl/store.jdl"}, Dir: "/work", DryRun: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Applications[0].Result.Files)
	assert.Zero(t, f.projects.get("/work").Size())
}

func TestImport_InvalidDocument(t *testing.T) {
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/bad.jdl": "entity A {\n  kind Kind\n}\n"})

	result, err := s.Import(context.Background(), ImportInput{Files: []string{"/jdl/bad.jdl"}, Dir: "/work"})
	require.Error(t, err)
	assert.ErrorIs(t, err, jdl.ErrInvalidDocument)
	require.NotNil(t, result)
	assert.True(t, result.Diagnostics.HasErrors())
	assert.Zero(t, f.projects.get("/work").Size())

	_, err = s.Import(context.Background(), ImportInput{Files: []string{"/jdl/missing.jdl"}})
	assert.Error(t, err)

	_, err = s.Load(nil)
	assert.ErrorIs(t, err, jdl.ErrInvalidDocument)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/store.jdl": storeJDL})
	_, err := s.Import(ctx, ImportInput{Files: []string{"/jdl/store.jdl"}, Dir: "/work", SkipGeneration: true})
	require.NoError(t, err)

	out, err := s.Export(ctx, "/work")
	require.NoError(t, err)
	assert.Contains(t, out, "baseName store")
	assert.Contains(t, out, "entity Car")
	assert.Contains(t, out, "enum Status")
	assert.Contains(t, out, "relationship ManyToOne")

	doc, diags := jdl.Load("exported.jdl", out)
	require.False(t, diags.HasErrors(), diags.PrettyString(out))
	assert.ElementsMatch(t, []string{"Car", "Owner"}, doc.EntityNames())
}

func TestDump(t *testing.T) {
	f := newFixture(t)
	s := newJDLService(t, f, map[string]string{"/jdl/store.jdl": storeJDL})
	result, err := s.Load([]string{"/jdl/store.jdl"})
	require.NoError(t, err)

	out, err := Dump(result.Export, "json")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"baseName": "store"`)

	out, err = Dump(result.Export, "yaml")
	require.NoError(t, err)
	var decoded struct {
		Applications []struct {
			Config   map[string]any `yaml:"config"`
			Entities []string       `yaml:"entities"`
		} `yaml:"applications"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded.Applications, 1)
	assert.Equal(t, "store", decoded.Applications[0].Config["baseName"])
	assert.Equal(t, []string{"Car", "Owner"}, decoded.Applications[0].Entities)

	_, err = Dump(result.Export, "xml")
	assert.Error(t, err)
}
