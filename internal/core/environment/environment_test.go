package environment

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

type fakeGenerator struct {
	namespace  string
	priorities lifecycle.Priorities
}

func (g *fakeGenerator) Namespace() string { return g.namespace }
func (g *fakeGenerator) Priorities() lifecycle.Priorities { return g.priorities }

type recorder struct{ calls []string }

func (r *recorder) task(name string) lifecycle.Task {
	return lifecycle.NewTask(name, func(context.Context) error {
		r.calls = append(r.calls, name)
		return nil
	})
}

type fakeResolver map[string][]BlueprintGenerator

func (f fakeResolver) Resolve(_ []string, namespace string) ([]BlueprintGenerator, error) {
	return f[namespace], nil
}

func newEnv(t *testing.T, opts Options, resolver BlueprintResolver) (*Environment, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	return New(opts, Deps{Storage: store, Resolver: resolver, Logger: zerolog.Nop()}), store
}

func register(t *testing.T, env *Environment, namespace string, build func(args []string) lifecycle.Priorities) {
	t.Helper()
	require.NoError(t, env.Register(namespace, func(_ *Environment, args []string) (Generator, error) {
		return &fakeGenerator{namespace: namespace, priorities: build(args)}, nil
	}))
}

func TestRegister(t *testing.T) {
	env, _ := newEnv(t, Options{}, nil)
	register(t, env, "app", func([]string) lifecycle.Priorities { return nil })

	err := env.Register("app", nil)
	assert.ErrorIs(t, err, ErrDuplicateGenerator)
	assert.Equal(t, []string{"app"}, env.Namespaces())
}

func TestComposeWith(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown namespace", func(t *testing.T) {
		env, _ := newEnv(t, Options{}, nil)
		_, err := env.ComposeWith(ctx, "nope")
		assert.ErrorIs(t, err, ErrUnknownGenerator)
	})

	t.Run("idempotent per namespace and arguments", func(t *testing.T) {
		env, _ := newEnv(t, Options{}, nil)
		built := 0
		require.NoError(t, env.Register("entity", func(_ *Environment, args []string) (Generator, error) {
			built++
			return &fakeGenerator{namespace: "entity"}, nil
		}))

		first, err := env.ComposeWith(ctx, "entity", "Car")
		require.NoError(t, err)
		second, err := env.ComposeWith(ctx, "entity", "Car")
		require.NoError(t, err)
		_, err = env.ComposeWith(ctx, "entity", "Owner")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 2, built)
		assert.Equal(t, []string{"entity:Car", "entity:Owner"}, env.Composed())
	})

	t.Run("factory errors are wrapped", func(t *testing.T) {
		env, _ := newEnv(t, Options{}, nil)
		boom := errors.New("boom")
		require.NoError(t, env.Register("app", func(*Environment, []string) (Generator, error) { return nil, boom }))

		_, err := env.ComposeWith(ctx, "app")
		assert.ErrorIs(t, err, boom)
	})
}

func TestRun_PhaseOrder(t *testing.T) {
	ctx := context.Background()
	env, _ := newEnv(t, Options{}, nil)
	rec := &recorder{}

	register(t, env, "server", func([]string) lifecycle.Priorities {
		return lifecycle.Priorities{
			lifecycle.Initializing: lifecycle.Group(rec.task("server.init")),
			lifecycle.Writing:      lifecycle.Group(rec.task("server.write")),
		}
	})
	register(t, env, "app", func([]string) lifecycle.Priorities {
		return lifecycle.Priorities{
			lifecycle.Initializing: lifecycle.Group(rec.task("app.init")),
			lifecycle.Composing: lifecycle.Group(lifecycle.NewTask("compose", func(ctx context.Context) error {
				rec.calls = append(rec.calls, "app.compose")
				_, err := env.ComposeWith(ctx, "server")
				return err
			}), rec.task("app.compose.after")),
			lifecycle.Writing: lifecycle.Group(rec.task("app.write")),
		}
	})

	_, err := env.ComposeWith(ctx, "app")
	require.NoError(t, err)
	require.NoError(t, env.Run(ctx))

	assert.Equal(t, []string{
		"app.init",
		"app.compose",
		"server.init",
		"app.compose.after",
		"app.write",
		"server.write",
	}, rec.calls)
	assert.True(t, env.Committed())
}

func TestRun_Blueprints(t *testing.T) {
	ctx := context.Background()

	parentPriorities := func(rec *recorder) func([]string) lifecycle.Priorities {
		return func([]string) lifecycle.Priorities {
			return lifecycle.Priorities{
				lifecycle.Initializing: lifecycle.Group(rec.task("parent.init")),
				lifecycle.Writing:      lifecycle.Group(rec.task("parent.write")),
				lifecycle.End:          lifecycle.Group(rec.task("parent.end")),
			}
		}
	}

	t.Run("non-sidecar overrides declared phases", func(t *testing.T) {
		rec := &recorder{}
		resolver := fakeResolver{"server": {{
			Blueprint: "custom",
			Factory: func(_ *Environment, parent Generator, _ []string) (Generator, error) {
				super := parent.Priorities()
				return &fakeGenerator{namespace: "server", priorities: lifecycle.Priorities{
					lifecycle.Writing: append(lifecycle.Group(rec.task("blueprint.write")), super[lifecycle.Writing]...),
					lifecycle.End:     lifecycle.Group(),
				}}, nil
			},
		}}}
		env, _ := newEnv(t, Options{Blueprints: []string{"custom"}}, resolver)
		register(t, env, "server", parentPriorities(rec))

		gen, err := env.ComposeWith(ctx, "server")
		require.NoError(t, err)
		require.NoError(t, env.Run(ctx))

		assert.Equal(t, []string{"parent.init", "blueprint.write", "parent.write"}, rec.calls)
		assert.Equal(t, []string{"custom"}, gen.(*Composition).Blueprints)
	})

	t.Run("sidecar runs after the parent", func(t *testing.T) {
		rec := &recorder{}
		resolver := fakeResolver{"server": {{
			Blueprint: "docker",
			Sidecar:   true,
			Factory: func(*Environment, Generator, []string) (Generator, error) {
				return &fakeGenerator{namespace: "server", priorities: lifecycle.Priorities{
					lifecycle.Writing: lifecycle.Group(rec.task("sidecar.write")),
				}}, nil
			},
		}}}
		env, _ := newEnv(t, Options{Blueprints: []string{"docker"}}, resolver)
		register(t, env, "server", parentPriorities(rec))

		_, err := env.ComposeWith(ctx, "server")
		require.NoError(t, err)
		require.NoError(t, env.Run(ctx))

		assert.Equal(t, []string{"parent.init", "parent.write", "sidecar.write", "parent.end"}, rec.calls)
	})

	t.Run("chained blueprints see earlier ones", func(t *testing.T) {
		rec := &recorder{}
		override := func(name string) BlueprintGenerator {
			return BlueprintGenerator{
				Blueprint: name,
				Factory: func(_ *Environment, parent Generator, _ []string) (Generator, error) {
					super := parent.Priorities()[lifecycle.Writing]
					return &fakeGenerator{namespace: "server", priorities: lifecycle.Priorities{
						lifecycle.Writing: append(super, rec.task(name+".write")),
					}}, nil
				},
			}
		}
		resolver := fakeResolver{"server": {override("first"), override("second")}}
		env, _ := newEnv(t, Options{Blueprints: []string{"first", "second"}}, resolver)
		register(t, env, "server", parentPriorities(rec))

		_, err := env.ComposeWith(ctx, "server")
		require.NoError(t, err)
		require.NoError(t, env.Run(ctx))

		assert.Equal(t, []string{"parent.init", "parent.write", "first.write", "second.write", "parent.end"}, rec.calls)
	})
}

func TestRun_CommitsFiles(t *testing.T) {
	ctx := context.Background()
	env, store := newEnv(t, Options{}, nil)
	register(t, env, "common", func([]string) lifecycle.Priorities {
		return lifecycle.Priorities{
			lifecycle.Writing: lifecycle.Group(lifecycle.NewTask("write", func(context.Context) error {
				env.Writer().Write("README.md", []byte("# store"))
				return nil
			})),
			lifecycle.End: lifecycle.Group(lifecycle.NewTask("check", func(context.Context) error {
				if !env.Committed() {
					return errors.New("files should be committed before end")
				}
				return nil
			})),
		}
	})

	_, err := env.ComposeWith(ctx, "common")
	require.NoError(t, err)
	require.NoError(t, env.Run(ctx))

	assert.Equal(t, "# store", store.Files()["README.md"])
	assert.Equal(t, []templates.Result{{Path: "README.md", Status: templates.StatusCreate}}, env.Results())
}

func TestRun_Abort(t *testing.T) {
	ctx := context.Background()
	env, store := newEnv(t, Options{}, nil)
	rec := &recorder{}
	reason := errors.New("invalid configuration")

	register(t, env, "app", func([]string) lifecycle.Priorities {
		return lifecycle.Priorities{
			lifecycle.Configuring: lifecycle.Group(lifecycle.NewTask("validate", func(context.Context) error {
				env.Writer().Write("partial.txt", []byte("x"))
				env.Abort(reason)
				return nil
			}), rec.task("app.configure.after")),
			lifecycle.Writing: lifecycle.Group(rec.task("app.write")),
		}
	})

	_, err := env.ComposeWith(ctx, "app")
	require.NoError(t, err)

	err = env.Run(ctx)
	require.ErrorIs(t, err, lifecycle.ErrAborted)
	assert.ErrorIs(t, err, reason)
	assert.Empty(t, rec.calls)
	assert.True(t, env.Aborted())
	assert.False(t, env.Committed())
	assert.Zero(t, store.Size())
	assert.Equal(t, 3, env.Stats().Skipped, "after task, write task and the commit task")
}
