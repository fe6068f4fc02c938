// Package service implements application services.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
	"github.com/jhipster/jhipster-go/internal/generators"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// Opener opens the project storage rooted at dir.
type Opener func(dir string) (storage.Storage, error)

// OpenFilesystem opens dir on the operating system filesystem.
func OpenFilesystem(dir string) (storage.Storage, error) {
	return storage.NewStorage(&storage.Config{Type: string(storage.TypeFilesystem), BasePath: dir})
}

// Deps are the collaborators of the generate service.
type Deps struct {
	Open        Opener
	Engine      *templates.Engine
	Runner      environment.ToolRunner
	History     repository.HistoryRepository
	Blueprints  *blueprint.Registry
	Out         io.Writer
	Logger      zerolog.Logger
	ToolVersion string
}

// GenerateService runs generators against a project directory.
type GenerateService struct {
	deps Deps
}

// NewGenerateService creates a new generate service.
func NewGenerateService(deps Deps) *GenerateService {
	if deps.Open == nil {
		deps.Open = OpenFilesystem
	}
	if deps.Blueprints == nil {
		deps.Blueprints = blueprint.Default
	}
	return &GenerateService{deps: deps}
}

// GenerateInput contains generation input parameters.
type GenerateInput struct {
	Dir         string
	Namespace   string
	Args        []string
	Blueprints  []string
	Force       bool
	SkipInstall bool
	SkipGit     bool
	SkipChecks  bool
	DryRun      bool
	// Config is layered over .yo-rc.json for this run.
	Config *project.Config
	// Entities replace the .jhipster directory for this run.
	Entities []*entity.Entity
	// Command is recorded in the run history; Namespace is used when empty.
	Command string
}

// GenerateResult describes a finished run.
type GenerateResult struct {
	BaseName   string
	Generators []string
	Blueprints []string
	Files      []templates.Result
	Duration   time.Duration
}

// Conflicts returns the number of files left untouched because they differ.
func (r *GenerateResult) Conflicts() int {
	return templates.Summary(r.Files)[templates.StatusConflict]
}

// Generate composes input.Namespace in a fresh environment and runs it. Blueprints default to
// the ones recorded in .yo-rc.json. Every run is recorded in the history, failed ones too.
func (s *GenerateService) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	start := time.Now()
	if input.Namespace == "" {
		input.Namespace = generators.App
	}
	dir := input.Dir
	if dir == "" {
		dir = "."
	}
	store, err := s.deps.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}

	blueprints := input.Blueprints
	if len(blueprints) == 0 {
		if blueprints, err = RecordedBlueprints(ctx, store); err != nil {
			return nil, err
		}
	}

	logger := s.deps.Logger.With().Str("dir", dir).Logger()
	env := environment.New(environment.Options{
		Dir:         dir,
		Force:       input.Force,
		SkipInstall: input.SkipInstall,
		SkipGit:     input.SkipGit,
		SkipChecks:  input.SkipChecks,
		DryRun:      input.DryRun,
		Blueprints:  blueprints,
		ToolVersion: s.deps.ToolVersion,
	}, environment.Deps{
		Storage:  store,
		Engine:   s.deps.Engine,
		Runner:   s.deps.Runner,
		Resolver: s.deps.Blueprints.Resolver(s.deps.ToolVersion, input.SkipChecks),
		Logger:   logger,
	})
	if err := generators.Register(env, generators.Options{Blueprints: s.deps.Blueprints, Out: s.deps.Out}); err != nil {
		return nil, err
	}
	if input.Config != nil {
		env.SetConfig(input.Config.Clone())
	}
	for _, e := range input.Entities {
		env.Entities().Put(e.Clone())
	}

	if _, err = env.ComposeWith(ctx, input.Namespace, input.Args...); err == nil {
		err = env.Run(ctx)
	}

	result := &GenerateResult{
		BaseName:   env.Config().String(options.BaseName),
		Generators: env.Composed(),
		Blueprints: blueprints,
		Files:      env.Results(),
		Duration:   time.Since(start),
	}
	s.record(ctx, input, result, err)
	if err != nil {
		return result, err
	}
	logger.Info().Str("generator", input.Namespace).Int("files", len(result.Files)).Dur("duration", result.Duration).Msg("generation finished")
	return result, nil
}

func (s *GenerateService) record(ctx context.Context, input GenerateInput, result *GenerateResult, runErr error) {
	if s.deps.History == nil {
		return
	}
	command := input.Command
	if command == "" {
		command = strings.TrimSpace(input.Namespace + " " + strings.Join(input.Args, " "))
	}
	run := &repository.Run{
		StartedAt:  time.Now().Add(-result.Duration),
		Command:    command,
		BaseName:   result.BaseName,
		Generators: result.Generators,
		Blueprints: result.Blueprints,
		Status:     repository.StatusSuccess,
		Duration:   result.Duration,
	}
	if runErr != nil {
		run.Status = repository.StatusFailed
		run.Error = runErr.Error()
	}
	// a broken history database must not fail the generation
	if err := s.deps.History.Record(context.WithoutCancel(ctx), run); err != nil {
		s.deps.Logger.Warn().Err(err).Msg("failed to record run history")
	}
}

// RecordedBlueprints returns the blueprint names stored in the project's .yo-rc.json.
func RecordedBlueprints(ctx context.Context, store storage.Storage) ([]string, error) {
	cfg, err := repository.NewConfigRepository(store).Load(ctx)
	if err != nil {
		return nil, err
	}
	value, ok := cfg.Get(options.Blueprints)
	if !ok {
		return nil, nil
	}
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		for _, name := range v {
			items = append(items, name)
		}
	default:
		return nil, fmt.Errorf("invalid %s in %s", options.Blueprints, repository.ConfigFile)
	}
	var names []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			names = append(names, blueprint.Normalize(v))
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				names = append(names, blueprint.Normalize(name))
			}
		}
	}
	return names, nil
}
