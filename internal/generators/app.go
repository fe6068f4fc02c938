package generators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhipster/jhipster-go/internal/adapters/storage"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/ui"
)

// app is the main generator: it settles the configuration and composes everything else.
type app struct {
	base
	opts Options
	cfg  *project.Config
}

func newApp(env *environment.Environment, opts Options) *app {
	return &app{base: newBase(env, App), opts: opts}
}

func (g *app) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Initializing: lifecycle.Group(
			task("loadConfig", g.loadConfig),
			task("checkVersion", g.checkVersion),
		),
		lifecycle.Configuring: lifecycle.Group(
			task("configure", g.configure),
		),
		lifecycle.Composing: lifecycle.Group(
			task("compose", g.compose),
		),
		lifecycle.Preparing: lifecycle.Group(
			task("prepareApplication", g.prepare),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeConfig", func(ctx context.Context) error { return saveConfig(ctx, g.env) }),
		),
		lifecycle.Install: lifecycle.Group(
			task("installDependencies", g.install),
		),
		lifecycle.End: lifecycle.Group(
			task("initGit", g.initGit),
			task("printNextSteps", g.printNextSteps),
		),
	}
}

func (g *app) loadConfig(ctx context.Context) error {
	cfg, err := loadConfig(ctx, g.env)
	if err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func (g *app) checkVersion(context.Context) error {
	if g.env.Options().SkipChecks {
		return nil
	}
	return project.CheckVersion(g.cfg.String(options.JHipsterVersion), g.env.Options().ToolVersion)
}

func (g *app) configure(context.Context) error {
	project.ApplyDefaults(g.cfg)
	if v := g.env.Options().ToolVersion; v != "" {
		g.cfg.Set(options.JHipsterVersion, v)
	}
	if names := g.env.Options().Blueprints; len(names) > 0 {
		records := make([]any, 0, len(names))
		for _, r := range g.opts.registry().Records(names) {
			records = append(records, map[string]any{"name": r.Name, "version": r.Version})
		}
		g.cfg.Set(options.Blueprints, records)
	}
	if err := project.Validate(g.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (g *app) compose(ctx context.Context) error {
	namespaces := []string{Common}
	if !g.cfg.Bool(options.SkipServer) {
		namespaces = append(namespaces, Server)
	}
	if !g.cfg.Bool(options.SkipClient) {
		namespaces = append(namespaces, Client)
	}
	if g.cfg.Bool(options.EnableTranslation) {
		namespaces = append(namespaces, Languages)
	}
	if len(g.cfg.Strings(options.CiCd)) > 0 {
		namespaces = append(namespaces, CiCd)
	}
	namespaces = append(namespaces, Entities)

	for _, ns := range namespaces {
		if _, err := g.env.ComposeWith(ctx, ns); err != nil {
			return fmt.Errorf("failed to compose %s: %w", ns, err)
		}
	}
	return nil
}

func (g *app) prepare(context.Context) error {
	g.env.SetApplicationData(project.PrepareApplication(g.cfg))
	return nil
}

func (g *app) install(ctx context.Context) error {
	opts := g.env.Options()
	if opts.SkipInstall || opts.DryRun || g.cfg.Bool(options.SkipClient) {
		return nil
	}
	runner := g.env.Runner()
	if runner == nil {
		return nil
	}
	if _, err := runner.LookPath("npm"); err != nil {
		g.log.Warn().Err(err).Msg("npm not found, run 'npm install' yourself")
		return nil
	}
	if err := runner.Run(ctx, opts.Dir, "npm", "install"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.log.Warn().Err(err).Msg("npm install failed, run 'npm install' yourself")
	}
	return nil
}

func (g *app) initGit(ctx context.Context) error {
	opts := g.env.Options()
	if opts.SkipGit || opts.DryRun {
		return nil
	}
	runner := g.env.Runner()
	if runner == nil {
		return nil
	}
	if _, err := runner.LookPath("git"); err != nil {
		g.log.Warn().Err(err).Msg("git not found, skipping repository initialization")
		return nil
	}
	exists, err := g.env.Storage().Exists(ctx, ".git")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	steps := [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-q", "-m", "Initial version of " + g.cfg.String(options.BaseName) + " generated by jhipster-go", "--no-verify"},
	}
	for _, args := range steps {
		if err := runner.Run(ctx, opts.Dir, "git", args...); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warn().Err(err).Str("command", "git "+strings.Join(args, " ")).Msg("git failed")
			return nil
		}
	}
	g.log.Info().Msg("git repository initialized")
	return nil
}

func (g *app) printNextSteps(context.Context) error {
	if g.opts.Out == nil {
		return nil
	}
	rendered, err := ui.RenderMarkdown(nextSteps(g.cfg, g.env.Results(), g.env.Options()))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.opts.Out, rendered)
	return err
}

// nextSteps builds the markdown summary printed when generation ends.
func nextSteps(cfg *project.Config, results []templates.Result, opts environment.Options) string {
	var b strings.Builder
	counts := templates.Summary(results)
	fmt.Fprintf(&b, "# %s\n\n", cfg.String(options.BaseName))
	fmt.Fprintf(&b, "%d files created, %d identical, %d overwritten", counts[templates.StatusCreate], counts[templates.StatusIdentical], counts[templates.StatusForce])
	if opts.DryRun {
		b.WriteString(" (dry run, nothing was written)")
	}
	b.WriteString(".\n\n")
	if n := counts[templates.StatusConflict]; n > 0 {
		fmt.Fprintf(&b, "**%d files were left untouched because they differ.** Run again with `--force` to overwrite them.\n\n", n)
	}

	b.WriteString("## Next steps\n\n")
	if !cfg.Bool(options.SkipServer) {
		if cfg.String(options.BuildTool) == "gradle" {
			b.WriteString("- Start the server: `./gradlew`\n")
		} else {
			b.WriteString("- Start the server: `./mvnw`\n")
		}
	}
	if !cfg.Bool(options.SkipClient) {
		if opts.SkipInstall {
			b.WriteString("- Install the client dependencies: `npm install`\n")
		}
		b.WriteString("- Start the client in watch mode: `npm start`\n")
	}
	b.WriteString("- Add entities: `jhipster jdl app.jdl`\n")
	return b.String()
}

// saveConfig stages .yo-rc.json with the run configuration, keeping the other root keys.
func saveConfig(ctx context.Context, env *environment.Environment) error {
	existing, err := env.Storage().Read(ctx, repository.ConfigFile)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	data, err := repository.EncodeConfig(existing, env.Config())
	if err != nil {
		return err
	}
	env.Writer().Overwrite(repository.ConfigFile, data)
	return nil
}
