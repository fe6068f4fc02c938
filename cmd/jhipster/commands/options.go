package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/ui"
)

func (c *cli) optionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options [name]",
		Short: "List the known configuration options, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return describeOption(args[0])
			}
			rows := [][]string{}
			for _, def := range options.Default.All() {
				rows = append(rows, []string{def.Name, string(def.Type), string(def.Scope), defaultLabel(def), strings.Join(def.ChoiceValues(), ", ")})
			}
			return ui.PrintTable([]string{"Name", "Type", "Scope", "Default", "Choices"}, rows)
		},
	}
}

func describeOption(name string) error {
	def, ok := options.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown option %q", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", def.Name, def.Description)
	fmt.Fprintf(&b, "- Type: `%s`\n- Scope: %s\n- Default: `%s`\n", def.Type, def.Scope, defaultLabel(def))
	if def.JDL {
		b.WriteString("- Can be set in a JDL `config` block\n")
	}
	if def.HasChoices() {
		b.WriteString("\n## Choices\n\n")
		for _, choice := range def.Choices {
			fmt.Fprintf(&b, "- `%s`: %s\n", choice.Value, choice.Name)
		}
	}
	return ui.PrintMarkdown(b.String())
}

func defaultLabel(def options.Definition) string {
	switch def.Default.(type) {
	case nil:
		return ""
	case options.DefaultFunc, func(derive.Data) any:
		return "(computed)"
	default:
		return formatValue(def.Default)
	}
}
