// Package commands implements the jhipster command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/config"
	"github.com/jhipster/jhipster-go/internal/debug"
	"github.com/jhipster/jhipster-go/internal/ui"
	"github.com/jhipster/jhipster-go/internal/utils/container"
	"github.com/jhipster/jhipster-go/internal/version"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir         string
	blueprints  []string
	force       bool
	skipInstall bool
	skipGit     bool
	skipChecks  bool
	dryRun      bool
	verbose     bool
	logLevel    string
}

// cli is the state of one command line invocation.
type cli struct {
	flags     globalFlags
	settings  *config.Config
	container *container.Container
}

// Execute is the main entry point for the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "jhipster",
		Short: "Generate Spring Boot and JavaScript applications",
		Long: `jhipster-go generates Spring Boot applications with an Angular, React or Vue client
from a few questions' worth of configuration or from a JDL document.

The project configuration lives in .yo-rc.json and entity definitions in .jhipster/.`,
		Version:           version.Get().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.container == nil {
				return nil
			}
			return c.container.Close(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&c.flags.dir, "dir", "d", ".", "Project directory")
	f.StringSliceVar(&c.flags.blueprints, "blueprints", nil, "Blueprints to apply, comma separated")
	f.BoolVarP(&c.flags.force, "force", "f", false, "Overwrite files that differ from the generated content")
	f.BoolVar(&c.flags.skipInstall, "skip-install", false, "Do not run npm install")
	f.BoolVar(&c.flags.skipGit, "skip-git", false, "Do not create the git repository")
	f.BoolVar(&c.flags.skipChecks, "skip-checks", false, "Skip version and blueprint compatibility checks")
	f.BoolVar(&c.flags.dryRun, "dry-run", false, "Compute the changes without writing them")
	f.BoolVar(&c.flags.verbose, "verbose", false, "Print conflict diffs")
	f.StringVar(&c.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		c.appCommand(),
		c.entityCommand(),
		c.entitiesCommand(),
		c.languagesCommand(),
		c.ciCdCommand(),
		c.jdlCommand(),
		c.exportJDLCommand(),
		c.infoCommand(),
		c.optionsCommand(),
		c.historyCommand(),
		c.dbCommand(),
		c.versionCommand(),
	)
	return root
}

// setup loads the settings, applies the flags over them and wires the services.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	ui.Out = cmd.OutOrStdout()
	ui.Err = cmd.ErrOrStderr()

	settings, err := config.LoadConfig(c.flags.dir)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dir") || settings.OutputDir == "" {
		settings.OutputDir = c.flags.dir
	}
	if flags.Changed("blueprints") {
		settings.Blueprints = c.flags.blueprints
	}
	if flags.Changed("log-level") {
		settings.LogLevel = c.flags.logLevel
	}
	settings.Force = settings.Force || c.flags.force
	settings.SkipInstall = settings.SkipInstall || c.flags.skipInstall
	settings.SkipGit = settings.SkipGit || c.flags.skipGit
	settings.SkipChecks = settings.SkipChecks || c.flags.skipChecks
	c.settings = settings

	if err := debug.Init(settings.LogLevel, nil); err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	debug.Debug().Str("settings", settings.File).Str("dir", settings.OutputDir).Msg("settings loaded")

	c.container, err = container.NewContainer(cmd.Context(), settings, container.Options{
		Fs:          config.AppFs,
		Out:         cmd.OutOrStdout(),
		Logger:      debug.Logger(),
		ToolVersion: version.Version,
	})
	return err
}

func (c *cli) dir() string {
	return c.settings.OutputDir
}
