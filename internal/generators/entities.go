package generators

import (
	"context"
	"fmt"

	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// entities composes the entity generator for every known entity, or for the named ones.
type entities struct {
	base
	names []string
}

func newEntities(env *environment.Environment, args []string) *entities {
	return &entities{base: newBase(env, Entities), names: args}
}

func (g *entities) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Composing: lifecycle.Group(
			task("composeEntities", g.compose),
		),
	}
}

func (g *entities) compose(ctx context.Context) error {
	store, err := loadEntities(ctx, g.env)
	if err != nil {
		return err
	}
	names := g.names
	if len(names) == 0 {
		names = store.Names()
	}
	if len(names) == 0 {
		g.log.Debug().Msg("no entities")
		return nil
	}
	for _, name := range names {
		e, ok := store.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", repository.ErrEntityNotFound, name)
		}
		if _, err := g.env.ComposeWith(ctx, Entity, e.Name); err != nil {
			return fmt.Errorf("failed to compose entity %s: %w", e.Name, err)
		}
	}
	g.log.Info().Int("count", len(names)).Msg("entities composed")
	return nil
}
