package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/ui"
)

func (c *cli) dbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Check the databases of the generated application",
	}

	var provider, url string
	var timeout time.Duration
	ping := &cobra.Command{
		Use:   "ping",
		Short: "Connect to the production database of the project",
		Long: `Connect to the production database and report the round trip time.

The provider defaults to prodDatabaseType from .yo-rc.json and the URL to $DATABASE_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if provider == "" {
				p, err := c.projectDatabase(ctx)
				if err != nil {
					return err
				}
				provider = p
			}
			if url == "" {
				url = os.Getenv("DATABASE_URL")
			}
			if url == "" {
				return fmt.Errorf("no database URL, use --url or set DATABASE_URL")
			}

			ui.PrintStep(1, 1, fmt.Sprintf("Connecting to %s", provider))
			latency, err := database.Ping(ctx, database.Config{Provider: provider, URL: url, ConnectTimeout: timeout})
			if err != nil {
				return err
			}
			ui.PrintSuccess("%s answered in %s", provider, latency.Round(time.Millisecond))
			return nil
		},
	}
	ping.Flags().StringVar(&provider, "provider", "", "Database provider ("+strings.Join(database.Providers(), ", ")+")")
	ping.Flags().StringVar(&url, "url", "", "Connection URL")
	ping.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Connection timeout")

	cmd.AddCommand(ping)
	return cmd
}

func (c *cli) projectDatabase(ctx context.Context) (string, error) {
	store, err := c.container.Open(c.dir())
	if err != nil {
		return "", err
	}
	cfg, err := repository.NewConfigRepository(store).Load(ctx)
	if err != nil {
		return "", err
	}
	provider := cfg.String(options.ProdDatabaseType)
	if provider == "" || provider == "no" {
		return "", fmt.Errorf("the project has no production database, use --provider")
	}
	return provider, nil
}
