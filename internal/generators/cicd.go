package generators

import (
	"context"
	"fmt"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

var ciCdFiles = []templates.Section{
	{
		Name: "pipelines",
		Blocks: []templates.Block{
			{
				Condition: templates.When("ciCdGithub"),
				From:      "ci-cd",
				To:        ".github/workflows/",
				Templates: []templates.File{{Source: "github.yml.tmpl", RenameTo: "main.yml"}},
			},
			{
				Condition: templates.When("ciCdGitlab"),
				From:      "ci-cd",
				Templates: []templates.File{{Source: "gitlab-ci.yml.tmpl", RenameTo: ".gitlab-ci.yml"}},
			},
			{
				Condition: templates.When("ciCdJenkins"),
				From:      "ci-cd",
				Templates: templates.Files("Jenkinsfile.tmpl"),
			},
		},
	},
}

// ciCd writes continuous integration pipelines. Pipelines passed as arguments are added to
// the configured ones.
type ciCd struct {
	base
	add     []string
	changed bool
	data    derive.Data
}

func newCiCd(env *environment.Environment, args []string) *ciCd {
	return &ciCd{base: newBase(env, CiCd), add: args}
}

func (g *ciCd) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Configuring: lifecycle.Group(
			task("addPipelines", g.addPipelines),
		),
		lifecycle.Preparing: lifecycle.Group(
			task("prepareApplication", func(ctx context.Context) error {
				data, err := prepareApplication(ctx, g.env)
				g.data = data
				return err
			}),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeConfig", func(ctx context.Context) error {
				if !g.changed {
					return nil
				}
				return saveConfig(ctx, g.env)
			}),
			task("writeFiles", func(ctx context.Context) error {
				if len(g.data.Strings(options.CiCd)) == 0 {
					g.log.Warn().Msg("no pipeline configured")
					return nil
				}
				return g.writeFiles(ctx, ciCdFiles, g.data)
			}),
		),
	}
}

func (g *ciCd) addPipelines(ctx context.Context) error {
	if len(g.add) == 0 {
		return nil
	}
	cfg, err := loadConfig(ctx, g.env)
	if err != nil {
		return err
	}
	current := cfg.Strings(options.CiCd)
	for _, p := range g.add {
		if !options.IsKnownChoice(options.CiCd, p) {
			return fmt.Errorf("%w: ciCd does not accept %q (choices: %v)", project.ErrInvalidChoice, p, options.Choices(options.CiCd))
		}
		if !contains(current, p) {
			current = append(current, p)
			g.changed = true
		}
	}
	cfg.Set(options.CiCd, current)
	return nil
}
