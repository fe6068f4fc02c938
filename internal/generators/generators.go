// Package generators holds the built-in generators. Each contributes task groups to the
// lifecycle phases; app composes the others.
package generators

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// Namespaces of the built-in generators.
const (
	App       = "app"
	Common    = "common"
	Server    = "server"
	Client    = "client"
	Languages = "languages"
	Entities  = "entities"
	Entity    = "entity"
	CiCd      = "ci-cd"
)

// ErrMissingArgument is returned when a generator is composed without a required argument.
var ErrMissingArgument = errors.New("missing argument")

// Options configure the built-in generators.
type Options struct {
	// Blueprints provides the versions recorded in .yo-rc.json. Nil means blueprint.Default.
	Blueprints *blueprint.Registry
	// Out receives the next steps printed when an app run ends. Nil disables them.
	Out io.Writer
}

func (o Options) registry() *blueprint.Registry {
	if o.Blueprints == nil {
		return blueprint.Default
	}
	return o.Blueprints
}

// Register adds every built-in generator to env.
func Register(env *environment.Environment, opts Options) error {
	factories := map[string]environment.Factory{
		App:       func(env *environment.Environment, args []string) (environment.Generator, error) { return newApp(env, opts), nil },
		Common:    func(env *environment.Environment, args []string) (environment.Generator, error) { return newCommon(env), nil },
		Server:    func(env *environment.Environment, args []string) (environment.Generator, error) { return newServer(env), nil },
		Client:    func(env *environment.Environment, args []string) (environment.Generator, error) { return newClient(env), nil },
		Languages: func(env *environment.Environment, args []string) (environment.Generator, error) { return newLanguages(env, args), nil },
		Entities:  func(env *environment.Environment, args []string) (environment.Generator, error) { return newEntities(env, args), nil },
		Entity:    newEntity,
		CiCd:      func(env *environment.Environment, args []string) (environment.Generator, error) { return newCiCd(env, args), nil },
	}
	for _, ns := range []string{App, Common, Server, Client, Languages, Entities, Entity, CiCd} {
		if err := env.Register(ns, factories[ns]); err != nil {
			return err
		}
	}
	return nil
}

// base carries what every generator shares.
type base struct {
	env       *environment.Environment
	namespace string
	log       zerolog.Logger
}

func newBase(env *environment.Environment, namespace string) base {
	return base{
		env:       env,
		namespace: namespace,
		log:       env.Logger().With().Str("generator", namespace).Logger(),
	}
}

// Namespace implements environment.Generator.
func (b *base) Namespace() string { return b.namespace }

func (b *base) writeFiles(ctx context.Context, sections []templates.Section, data derive.Data) error {
	written, err := b.env.Engine().WriteFiles(ctx, b.env.Writer(), sections, data)
	if err != nil {
		return fmt.Errorf("failed to write %s files: %w", b.namespace, err)
	}
	b.log.Debug().Int("files", len(written)).Msg("files staged")
	return nil
}

func (b *base) needle(ctx context.Context, path, marker, content string) error {
	ok, err := b.env.Writer().Needle(ctx, path, marker, content)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	if ok {
		b.log.Debug().Str("file", path).Str("needle", marker).Msg("needle applied")
	}
	return nil
}

// loadConfig reads .yo-rc.json and layers the run configuration over it. It is idempotent, so
// every generator can call it whatever composed it.
func loadConfig(ctx context.Context, env *environment.Environment) (*project.Config, error) {
	cfg, err := repository.NewConfigRepository(env.Storage()).Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Merge(env.Config())
	env.SetConfig(cfg)
	return cfg, nil
}

// prepareApplication returns the derived application data, building it from the defaulted and
// validated configuration on first use.
func prepareApplication(ctx context.Context, env *environment.Environment) (derive.Data, error) {
	if data := env.ApplicationData(); data.Has(options.BaseName) {
		return data, nil
	}
	cfg, err := loadConfig(ctx, env)
	if err != nil {
		return nil, err
	}
	project.ApplyDefaults(cfg)
	if err := project.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", repository.ConfigFile, err)
	}
	data := project.PrepareApplication(cfg)
	env.SetApplicationData(data)
	return data, nil
}

// loadEntities fills the run's entity store from .jhipster/*.json unless entities were already
// provided, then validates them.
func loadEntities(ctx context.Context, env *environment.Environment) (*entity.Store, error) {
	store := env.Entities()
	if store.Len() == 0 {
		all, err := repository.NewEntityRepository(env.Storage()).FindAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range all {
			store.Put(e)
		}
	}
	if err := entity.ValidateAll(store); err != nil {
		return nil, err
	}
	return store, nil
}

func task(name string, fn func(ctx context.Context) error) lifecycle.Task {
	return lifecycle.NewTask(name, fn)
}
