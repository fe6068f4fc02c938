// Package container provides dependency injection.
package container

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	_ "github.com/jhipster/jhipster-go/internal/adapters/database/sqlite" // history store
	"github.com/jhipster/jhipster-go/internal/adapters/toolrunner"
	"github.com/jhipster/jhipster-go/internal/config"
	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/core/templates"
	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/service"
)

// Options are the process level collaborators.
type Options struct {
	// Fs is where JDL files and the history database directory live.
	Fs          afero.Fs
	Out         io.Writer
	Logger      zerolog.Logger
	ToolVersion string
	// Open overrides the project storage, the OS filesystem by default.
	Open service.Opener
}

// Container holds all application dependencies.
type Container struct {
	// Configuration
	config *config.Config

	// Adapters
	open      service.Opener
	historyDB database.Adapter
	runner    *toolrunner.Runner

	// Repositories
	historyRepo repository.HistoryRepository

	// Services
	generateService *service.GenerateService
	jdlService      *service.JDLService
}

// NewContainer creates a new dependency injection container. An unusable history database
// only disables the history.
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = service.OpenFilesystem
	}
	c := &Container{config: cfg, open: opts.Open}

	// Initialize adapters
	c.runner = toolrunner.New(opts.Logger.With().Str("component", "toolrunner").Logger())
	c.historyDB = openHistory(ctx, opts.Fs, cfg.HistoryDB, opts.Logger)

	// Initialize repositories
	c.historyRepo = repository.NewHistoryRepository(c.historyDB)

	// Initialize services
	c.generateService = service.NewGenerateService(service.Deps{
		Open:        opts.Open,
		Engine:      templates.Default(),
		Runner:      c.runner,
		History:     c.historyRepo,
		Blueprints:  blueprint.Default,
		Out:         opts.Out,
		Logger:      opts.Logger,
		ToolVersion: opts.ToolVersion,
	})
	c.jdlService = service.NewJDLService(opts.Fs, c.generateService)

	return c, nil
}

func openHistory(ctx context.Context, fs afero.Fs, path string, logger zerolog.Logger) database.Adapter {
	if path == "" {
		return nil
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("run history disabled")
		return nil
	}
	adapter, err := database.NewAdapter(database.Config{Provider: "sqlite", URL: path})
	if err == nil {
		err = adapter.Connect(ctx)
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("run history disabled")
		return nil
	}
	return adapter
}

// Config returns the tool settings.
func (c *Container) Config() *config.Config {
	return c.config
}

// Open opens the project storage rooted at dir.
func (c *Container) Open(dir string) (storage.Storage, error) {
	return c.open(dir)
}

// GenerateService returns the generate service.
func (c *Container) GenerateService() *service.GenerateService {
	return c.generateService
}

// JDLService returns the JDL service.
func (c *Container) JDLService() *service.JDLService {
	return c.jdlService
}

// History returns the run history repository.
func (c *Container) History() repository.HistoryRepository {
	return c.historyRepo
}

// Close cleans up resources.
func (c *Container) Close(ctx context.Context) error {
	if c.historyDB != nil {
		return c.historyDB.Disconnect(ctx)
	}
	return nil
}
