package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/generators"
	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/service"
	"github.com/jhipster/jhipster-go/internal/ui"
)

func (c *cli) appCommand() *cobra.Command {
	var set []string
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Generate an application from .yo-rc.json",
		Long: `Generate or regenerate the application described by .yo-rc.json.

Options can be set for this run with --set, for example:
  jhipster app --set baseName=store --set buildTool=gradle --set testFrameworks=cypress,gatling`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseSettings(set)
			if err != nil {
				return err
			}
			return c.runGenerator(cmd, generators.App, nil, cfg)
		},
	}
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "Set an application option (key=value), repeatable")
	return cmd
}

func (c *cli) entityCommand() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "entity <name>",
		Short: "Generate one entity from .jhipster/<name>.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove {
				return c.removeEntity(cmd, args[0])
			}
			return c.runGenerator(cmd, generators.Entity, args, nil)
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Delete .jhipster/<name>.json instead of generating")
	return cmd
}

// removeEntity deletes an entity definition. Files generated from it are left in place.
func (c *cli) removeEntity(cmd *cobra.Command, name string) error {
	store, err := c.container.Open(c.dir())
	if err != nil {
		return err
	}
	if err := repository.NewEntityRepository(store).Delete(cmd.Context(), name); err != nil {
		return err
	}
	ui.PrintSuccess("Removed %s", repository.EntityPath(name))
	ui.PrintBox("Generated files are kept",
		"Delete the "+name+" sources yourself, then run 'jhipster app' to refresh the menus and routes.")
	return nil
}

func (c *cli) entitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entities [names...]",
		Short: "Regenerate the given entities, or every entity of .jhipster/",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerator(cmd, generators.Entities, args, nil)
		},
	}
}

func (c *cli) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages <codes...>",
		Short: "Add languages to the application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerator(cmd, generators.Languages, args, nil)
		},
	}
}

func (c *cli) ciCdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ci-cd [pipelines...]",
		Short: "Add continuous integration pipelines (github, gitlab, jenkins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerator(cmd, generators.CiCd, args, nil)
		},
	}
}

// runGenerator composes namespace in the project directory and prints what changed.
func (c *cli) runGenerator(cmd *cobra.Command, namespace string, args []string, cfg *project.Config) error {
	ui.PrintHeader("JHipster", "Running the "+namespace+" generator")

	input := service.GenerateInput{
		Dir:         c.dir(),
		Namespace:   namespace,
		Args:        args,
		Blueprints:  c.settings.Blueprints,
		Force:       c.settings.Force,
		SkipInstall: c.settings.SkipInstall,
		SkipGit:     c.settings.SkipGit,
		SkipChecks:  c.settings.SkipChecks,
		DryRun:      c.flags.dryRun,
		Config:      cfg,
		Command:     strings.TrimSpace(namespace + " " + strings.Join(args, " ")),
	}
	result, err := c.container.GenerateService().Generate(cmd.Context(), input)
	if err != nil {
		return err
	}

	ui.PrintResults(result.Files, c.flags.verbose)
	if n := result.Conflicts(); n > 0 {
		ui.PrintBox("Conflicts", fmt.Sprintf("%d file(s) differ from the generated content and were left untouched.\nRun again with --force to overwrite them or --verbose to see the diffs.", n))
	}
	if c.flags.dryRun {
		ui.PrintInfo("Dry run, nothing was written")
	}
	ui.PrintSuccess("Generated in %s", result.Duration.Round(time.Millisecond))
	return nil
}

// parseSettings turns key=value pairs into a configuration, typed by the option registry.
func parseSettings(pairs []string) (*project.Config, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	cfg := project.New()
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q, expected key=value", pair)
		}
		value, err := options.ParseValue(key, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		cfg.Set(key, value)
	}
	return cfg, nil
}
