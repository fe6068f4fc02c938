package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/config"
	"github.com/jhipster/jhipster-go/internal/debug"
	"github.com/jhipster/jhipster-go/internal/service"
	"github.com/jhipster/jhipster-go/internal/ui"
	"github.com/jhipster/jhipster-go/internal/watch"
)

type jdlFlags struct {
	watch          bool
	skipGeneration bool
	dump           string
}

func (c *cli) jdlCommand() *cobra.Command {
	var flags jdlFlags
	cmd := &cobra.Command{
		Use:   "jdl <files...>",
		Short: "Import JDL files and generate the applications they describe",
		Long: `Import one or more JDL files. Applications are written to .yo-rc.json and entities to
.jhipster/, then generated. A document declaring several applications writes each one
to a directory named after its baseName.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dump != "" {
				return c.dumpJDL(cmd, args, flags.dump)
			}
			if !flags.watch {
				return c.importJDL(cmd.Context(), args, flags)
			}
			return c.watchJDL(cmd.Context(), args, flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Re-import when the files change")
	cmd.Flags().BoolVar(&flags.skipGeneration, "skip-generation", false, "Only write .yo-rc.json and .jhipster/")
	cmd.Flags().StringVar(&flags.dump, "dump", "", "Print the converted JSON (json or yaml) instead of importing")
	return cmd
}

func (c *cli) importJDL(ctx context.Context, files []string, flags jdlFlags) error {
	ui.PrintHeader("JHipster", "Importing "+strings.Join(files, ", "))

	spinner, _ := ui.Spinner("Importing JDL...")
	result, err := c.container.JDLService().Import(ctx, service.ImportInput{
		Files:          files,
		Dir:            c.dir(),
		SkipGeneration: flags.skipGeneration,
		Blueprints:     c.settings.Blueprints,
		Force:          c.settings.Force,
		SkipInstall:    c.settings.SkipInstall,
		SkipGit:        c.settings.SkipGit,
		SkipChecks:     c.settings.SkipChecks,
		DryRun:         c.flags.dryRun,
	})
	if spinner != nil {
		_ = spinner.Stop()
	}
	printDiagnostics(result)
	if err != nil {
		return err
	}

	for _, app := range result.Applications {
		name := app.BaseName
		if name == "" {
			name = "entities"
		}
		ui.PrintSection(fmt.Sprintf("%s (%s)", name, app.Dir))
		if len(app.Entities) > 0 {
			ui.PrintList(app.Entities)
		}
		if app.Result != nil {
			ui.PrintResults(app.Result.Files, c.flags.verbose)
		}
	}
	ui.PrintSuccess("Imported %d application(s)", len(result.Applications))
	return nil
}

// watchJDL imports once, then again on every change until the context is cancelled.
func (c *cli) watchJDL(ctx context.Context, files []string, flags jdlFlags) error {
	logger := debug.With("watch")
	w, err := watch.NewWatcher(files, func(ctx context.Context) error {
		err := c.importJDL(ctx, files, flags)
		if err != nil {
			ui.PrintError("%v", err)
		}
		return err
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		logger.Debug().Err(err).Msg("initial import failed")
	}
	ui.PrintInfo("Watching %s, press Ctrl+C to stop", strings.Join(files, ", "))

	<-ctx.Done()
	return w.Stop()
}

func (c *cli) dumpJDL(cmd *cobra.Command, files []string, format string) error {
	result, err := c.container.JDLService().Load(files)
	printDiagnostics(result)
	if err != nil {
		return err
	}
	out, err := service.Dump(result.Export, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func printDiagnostics(result *service.ImportResult) {
	if result == nil {
		return
	}
	if result.Diagnostics.HasErrors() {
		fmt.Fprint(ui.Err, result.Diagnostics.PrettyString(result.Source))
		return
	}
	for _, w := range result.Diagnostics.Warnings() {
		ui.PrintWarning("%s", w.Error())
	}
}

func (c *cli) exportJDLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-jdl [file]",
		Short: "Export the project configuration and entities as JDL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.container.JDLService().Export(cmd.Context(), c.dir())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := afero.WriteFile(config.AppFs, args[0], []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			ui.PrintSuccess("Exported JDL to %s", args[0])
			return nil
		},
	}
}
