package generators

import (
	"context"

	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

var commonFiles = []templates.Section{
	{
		Name: "global",
		Blocks: []templates.Block{
			{
				From: "common",
				Templates: []templates.File{
					{Source: "README.md.tmpl"},
					{Source: "gitignore.tmpl", RenameTo: ".gitignore"},
					{Source: "editorconfig.tmpl", RenameTo: ".editorconfig"},
					{Source: "prettierrc.tmpl", RenameTo: ".prettierrc"},
				},
			},
			{
				Condition: templates.Unless("skipServer"),
				From:      "common",
				Templates: templates.Files("sonar-project.properties.tmpl"),
			},
		},
	},
}

// common writes the files every project has whatever its stack.
type common struct {
	base
}

func newCommon(env *environment.Environment) *common {
	return &common{base: newBase(env, Common)}
}

func (g *common) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Writing: lifecycle.Group(
			task("writeFiles", func(ctx context.Context) error {
				data, err := prepareApplication(ctx, g.env)
				if err != nil {
					return err
				}
				return g.writeFiles(ctx, commonFiles, data)
			}),
		),
	}
}
