package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/repository"
	"github.com/jhipster/jhipster-go/internal/service"
	"github.com/jhipster/jhipster-go/internal/ui"
	"github.com/jhipster/jhipster-go/internal/version"
)

func (c *cli) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the tool version, project configuration and entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := c.container.Open(c.dir())
			if err != nil {
				return err
			}
			cfg, err := repository.NewConfigRepository(store).Load(ctx)
			if err != nil {
				return err
			}
			entities, err := repository.NewEntityRepository(store).FindAll(ctx)
			if err != nil {
				return err
			}
			recorded, err := service.RecordedBlueprints(ctx, store)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString("# Environment\n\n")
			b.WriteString(version.Get().Markdown())
			b.WriteString("\n## Blueprints\n\n")
			names := blueprint.Names()
			if len(names) == 0 {
				b.WriteString("No blueprint registered.\n")
			}
			for _, name := range names {
				bp, _ := blueprint.Lookup(name)
				marker := ""
				if contains(recorded, name) {
					marker = " (used by this project)"
				}
				fmt.Fprintf(&b, "- **%s** %s%s: %s\n", bp.Name, bp.Version, marker, bp.Description)
			}
			if err := ui.PrintMarkdown(b.String()); err != nil {
				return err
			}

			if cfg.Len() == 0 {
				ui.PrintWarning("No %s found in %s", repository.ConfigFile, c.dir())
				return nil
			}
			ui.PrintSection("Configuration")
			keys := cfg.Keys()
			sort.Strings(keys)
			rows := make([][]string, 0, len(keys))
			for _, key := range keys {
				value, _ := cfg.Get(key)
				rows = append(rows, []string{key, formatValue(value)})
			}
			if err := ui.PrintTable([]string{"Option", "Value"}, rows); err != nil {
				return err
			}

			ui.PrintSection(fmt.Sprintf("Entities (%d)", len(entities)))
			for _, e := range entities {
				ui.PrintInfo("%s: %d field(s), %d relationship(s)", e.Name, len(e.Fields), len(e.Relationships))
			}
			return nil
		},
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return fmt.Sprintf("%d key(s)", len(val))
	default:
		return fmt.Sprint(val)
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
