package environment

import (
	"context"
	"fmt"

	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
)

// BlueprintFactory builds a blueprint generator. parent is the generator being overridden, so
// blueprint tasks can reuse its task groups.
type BlueprintFactory func(env *Environment, parent Generator, args []string) (Generator, error)

// BlueprintGenerator is what a blueprint provides for one namespace.
type BlueprintGenerator struct {
	Blueprint string
	// Sidecar blueprints run after the parent instead of replacing its phases.
	Sidecar bool
	Factory BlueprintFactory
}

// BlueprintResolver returns the blueprint generators applied to a namespace, in order.
type BlueprintResolver interface {
	Resolve(names []string, namespace string) ([]BlueprintGenerator, error)
}

// Composition is a composed generator with the blueprints applied to it.
type Composition struct {
	Key        string
	Generator  Generator
	Blueprints []string
	Effective  lifecycle.Priorities
}

// Namespace implements Generator.
func (c *Composition) Namespace() string { return c.Generator.Namespace() }

// Priorities implements Generator and returns the effective task groups.
func (c *Composition) Priorities() lifecycle.Priorities { return c.Effective }

// ComposeWith builds the generator of namespace, applies its blueprints and queues its tasks.
// Composing the same namespace and arguments twice returns the first composition.
func (e *Environment) ComposeWith(ctx context.Context, namespace string, args ...string) (Generator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := compositionKey(namespace, args)

	e.mu.Lock()
	if c, ok := e.composed[key]; ok {
		e.mu.Unlock()
		return c, nil
	}
	factory, ok := e.factories[namespace]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, namespace)
	}

	gen, err := factory(e, args)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator %s: %w", key, err)
	}

	c := &Composition{Key: key, Generator: gen, Effective: gen.Priorities().Clone()}
	if e.resolver != nil && len(e.opts.Blueprints) > 0 {
		blueprints, err := e.resolver.Resolve(e.opts.Blueprints, namespace)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve blueprints of %s: %w", namespace, err)
		}
		for _, bp := range blueprints {
			if err := e.applyBlueprint(c, bp, args); err != nil {
				return nil, err
			}
		}
	}

	e.mu.Lock()
	if existing, ok := e.composed[key]; ok {
		e.mu.Unlock()
		return existing, nil
	}
	e.composed[key] = c
	e.order = append(e.order, key)
	e.mu.Unlock()

	e.logger.Debug().Str("generator", key).Strs("blueprints", c.Blueprints).Msg("composed")
	e.queue.EnqueuePriorities(key, c.Effective)
	return c, nil
}

// applyBlueprint merges the blueprint's priorities into c. The parent handed to the blueprint
// is a snapshot of c, so chained blueprints see the effect of earlier ones.
func (e *Environment) applyBlueprint(c *Composition, bp BlueprintGenerator, args []string) error {
	parent := &Composition{Key: c.Key, Generator: c.Generator, Blueprints: c.Blueprints, Effective: c.Effective.Clone()}
	gen, err := bp.Factory(e, parent, args)
	if err != nil {
		return fmt.Errorf("failed to create blueprint %s for %s: %w", bp.Blueprint, c.Key, err)
	}
	for phase, group := range gen.Priorities() {
		if bp.Sidecar {
			c.Effective[phase] = append(c.Effective[phase], group...)
			continue
		}
		c.Effective[phase] = append(lifecycle.TaskGroup(nil), group...)
	}
	c.Blueprints = append(append([]string(nil), c.Blueprints...), bp.Blueprint)
	return nil
}

// Composed returns the composition keys in composition order.
func (e *Environment) Composed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.order...)
}

// Composition returns the composition registered under key.
func (e *Environment) Composition(key string) (*Composition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.composed[key]
	return c, ok
}
