// Package environment registers generators, composes them with their blueprints and runs the
// resulting tasks through a single lifecycle queue.
package environment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

var (
	// ErrUnknownGenerator is returned when composing a namespace nobody registered.
	ErrUnknownGenerator = errors.New("unknown generator")
	// ErrDuplicateGenerator is returned when a namespace is registered twice.
	ErrDuplicateGenerator = errors.New("generator already registered")
)

// Generator contributes task groups to lifecycle phases.
type Generator interface {
	Namespace() string
	Priorities() lifecycle.Priorities
}

// Factory builds the generator of a namespace.
type Factory func(env *Environment, args []string) (Generator, error)

// ToolRunner runs external commands. Run blocks until the command exits.
type ToolRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Options are the run-wide switches.
type Options struct {
	// Dir is the project directory, used by external commands.
	Dir         string
	Force       bool
	SkipInstall bool
	SkipGit     bool
	SkipChecks  bool
	DryRun      bool
	// Blueprints are the blueprint names applied to every composed namespace.
	Blueprints []string
	// ToolVersion is checked against blueprint and project requirements.
	ToolVersion string
}

// Deps are the collaborators of an environment. Zero values get in-memory defaults.
type Deps struct {
	Storage  storage.Storage
	Engine   *templates.Engine
	Runner   ToolRunner
	Resolver BlueprintResolver
	Logger   zerolog.Logger
}

// Environment holds the generator registry and the shared state of one run.
type Environment struct {
	opts     Options
	storage  storage.Storage
	engine   *templates.Engine
	writer   *templates.Writer
	runner   ToolRunner
	resolver BlueprintResolver
	queue    *lifecycle.Queue
	logger   zerolog.Logger

	mu        sync.Mutex
	factories map[string]Factory
	composed  map[string]*Composition
	order     []string
	config    *project.Config
	data      derive.Data
	entities  *entity.Store
	results   []templates.Result
	committed bool
}

// New creates an environment.
func New(opts Options, deps Deps) *Environment {
	if deps.Storage == nil {
		deps.Storage = storage.NewMemoryStorage()
	}
	if deps.Engine == nil {
		deps.Engine = templates.Default()
	}
	env := &Environment{
		opts:      opts,
		storage:   deps.Storage,
		engine:    deps.Engine,
		runner:    deps.Runner,
		resolver:  deps.Resolver,
		logger:    deps.Logger,
		queue:     lifecycle.NewQueue(deps.Logger),
		factories: map[string]Factory{},
		composed:  map[string]*Composition{},
		config:    project.New(),
		data:      derive.Data{},
		entities:  entity.NewStore(),
	}
	env.writer = templates.NewWriter(deps.Storage, templates.WriterOptions{Force: opts.Force, DryRun: opts.DryRun}, deps.Logger)
	env.queue.Enqueue("environment", lifecycle.Conflicts, lifecycle.Group(
		lifecycle.NewTask("commitFiles", env.commitFiles),
	))
	return env
}

// Register adds the factory of a namespace.
func (e *Environment) Register(namespace string, factory Factory) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.factories[namespace]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGenerator, namespace)
	}
	e.factories[namespace] = factory
	return nil
}

// Namespaces returns the registered namespaces, sorted.
func (e *Environment) Namespaces() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.factories))
	for ns := range e.factories {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Run drives the queue until every composed task ran or the run aborted. Pending files are
// committed in the conflicts phase; an aborted run discards them.
func (e *Environment) Run(ctx context.Context) error {
	err := e.queue.Run(ctx)
	if err != nil {
		e.writer.Discard()
		stats := e.queue.Stats()
		e.logger.Error().Err(err).Int("ran", stats.Ran).Int("skipped", stats.Skipped).Msg("run aborted")
		return err
	}
	return nil
}

// Abort stops the run after the current task.
func (e *Environment) Abort(err error) {
	e.queue.Abort(err)
}

// Aborted reports whether the run was aborted.
func (e *Environment) Aborted() bool {
	return e.queue.Aborted()
}

// Stats returns the task counters of the run.
func (e *Environment) Stats() lifecycle.Stats {
	return e.queue.Stats()
}

func (e *Environment) commitFiles(ctx context.Context) error {
	results, err := e.writer.Commit(ctx)

	e.mu.Lock()
	e.results = append(e.results, results...)
	e.committed = true
	e.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to commit files: %w", err)
	}
	counts := templates.Summary(results)
	e.logger.Info().
		Int("created", counts[templates.StatusCreate]).
		Int("identical", counts[templates.StatusIdentical]).
		Int("overwritten", counts[templates.StatusForce]).
		Int("conflicts", counts[templates.StatusConflict]).
		Bool("dryRun", e.opts.DryRun).
		Msg("files committed")
	return nil
}

// Options returns the run options.
func (e *Environment) Options() Options { return e.opts }

// Logger returns the run logger.
func (e *Environment) Logger() zerolog.Logger { return e.logger }

// Storage returns the project storage.
func (e *Environment) Storage() storage.Storage { return e.storage }

// Engine returns the template engine.
func (e *Environment) Engine() *templates.Engine { return e.engine }

// Writer returns the pending file writer.
func (e *Environment) Writer() *templates.Writer { return e.writer }

// Runner returns the external tool runner, nil when none is configured.
func (e *Environment) Runner() ToolRunner { return e.runner }

// Config returns the project configuration shared by every generator.
func (e *Environment) Config() *project.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// SetConfig replaces the project configuration.
func (e *Environment) SetConfig(cfg *project.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
}

// ApplicationData returns the derived application data prepared for templates.
func (e *Environment) ApplicationData() derive.Data {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// SetApplicationData replaces the derived application data.
func (e *Environment) SetApplicationData(data derive.Data) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = data
}

// Entities returns the entities of the run.
func (e *Environment) Entities() *entity.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entities
}

// Results returns the outcome of committed files. It is empty before the conflicts phase.
func (e *Environment) Results() []templates.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]templates.Result(nil), e.results...)
}

// Committed reports whether pending files were committed.
func (e *Environment) Committed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

func compositionKey(namespace string, args []string) string {
	if len(args) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(args, ":")
}
