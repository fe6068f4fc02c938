package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/ui"
	"github.com/jhipster/jhipster-go/internal/version"
)

func (c *cli) versionCommand() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if full {
				return ui.PrintMarkdown(version.Get().Markdown())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print build details")
	return cmd
}
