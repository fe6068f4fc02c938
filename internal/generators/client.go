package generators

import (
	"context"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

// Client files the entity generator registers entities in.
const (
	angularRoutesFile = "{{.clientSrcDir}}app/app.routes.ts"
	angularNavbarFile = "{{.clientSrcDir}}app/layouts/navbar/navbar.component.html"
	reactRoutesFile   = "{{.clientSrcDir}}app/routes.tsx"
	reactMenuFile     = "{{.clientSrcDir}}app/entities/menu.tsx"
	vueRouterFile     = "{{.clientSrcDir}}app/router.ts"
	vueMenuFile       = "{{.clientSrcDir}}app/entities/entities-menu.vue"
)

var clientFiles = []templates.Section{
	{
		Name: "build",
		Blocks: []templates.Block{
			{From: "client", Templates: templates.Files("package.json.tmpl", "tsconfig.json.tmpl")},
			{From: "client", To: "{{.clientSrcDir}}", Templates: templates.Files("index.html.tmpl")},
		},
	},
	{
		Name: "angular",
		Blocks: []templates.Block{
			{
				Condition: templates.When("clientFrameworkAngular"),
				From:      "client/angular",
				To:        "{{.clientSrcDir}}app/",
				Templates: []templates.File{
					{Source: "main.ts.tmpl"},
					{Source: "app.routes.ts.tmpl"},
					{Source: "navbar.component.html.tmpl", RenameTo: "layouts/navbar/navbar.component.html"},
				},
			},
		},
	},
	{
		Name: "react",
		Blocks: []templates.Block{
			{
				Condition: templates.When("clientFrameworkReact"),
				From:      "client/react",
				To:        "{{.clientSrcDir}}app/",
				Templates: []templates.File{
					{Source: "index.tsx.tmpl"},
					{Source: "routes.tsx.tmpl"},
					{Source: "menu.tsx.tmpl", RenameTo: "entities/menu.tsx"},
				},
			},
		},
	},
	{
		Name: "vue",
		Blocks: []templates.Block{
			{
				Condition: templates.When("clientFrameworkVue"),
				From:      "client/vue",
				To:        "{{.clientSrcDir}}app/",
				Templates: []templates.File{
					{Source: "main.ts.tmpl"},
					{Source: "router.ts.tmpl"},
					{Source: "entities-menu.vue.tmpl", RenameTo: "entities/entities-menu.vue"},
				},
			},
		},
	},
}

// client writes the single page application for the configured framework.
type client struct {
	base
	data derive.Data
}

func newClient(env *environment.Environment) *client {
	return &client{base: newBase(env, Client)}
}

func (g *client) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Preparing: lifecycle.Group(
			task("prepareApplication", func(ctx context.Context) error {
				data, err := prepareApplication(ctx, g.env)
				g.data = data
				return err
			}),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeFiles", func(ctx context.Context) error {
				if !g.data.Bool("clientFrameworkAny") {
					g.log.Debug().Msg("no client framework, nothing to write")
					return nil
				}
				return g.writeFiles(ctx, clientFiles, g.data)
			}),
		),
	}
}
