package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/ui"
)

func (c *cli) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the recent generator runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := c.container.History().FindAll(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				ui.PrintInfo("No run recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				status := run.Status
				if run.Status == repository.StatusFailed && run.Error != "" {
					status += ": " + run.Error
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.StartedAt.Local().Format(time.DateTime),
					run.Command,
					run.BaseName,
					strings.Join(run.Blueprints, ", "),
					run.Duration.Round(time.Millisecond).String(),
					status,
				})
			}
			return ui.PrintTable([]string{"ID", "Started", "Command", "Application", "Blueprints", "Duration", "Status"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show, 0 for all")
	return cmd
}
