package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gohtmlrewrite/internal/ui/pretty"
	"github.com/yaklabco/gohtmlrewrite/pkg/filters"
)

const formatJSON = "json"

type filtersFlags struct {
	format string
}

// filterInfo represents a filter in JSON output.
type filterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newFiltersCommand() *cobra.Command {
	flags := &filtersFlags{}

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List available filters",
		Long: `List all registered filters with their descriptions. Filters run
in the order given by --filter or the "filters" config key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := filters.DefaultRegistry
			names := registry.Names()

			if flags.format == formatJSON {
				return outputFiltersJSON(registry, names)
			}

			colorMode, err := cmd.Flags().GetString("color")
			if err != nil {
				colorMode = "auto"
			}
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

			descriptions := make(map[string]string, len(names))
			for _, name := range names {
				descriptions[name] = registry.Description(name)
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.Bold.Render("Available filters:"))
			fmt.Fprint(cmd.OutOrStdout(), styles.FormatFilterList(names, descriptions))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// outputFiltersJSON outputs filters as a JSON array.
func outputFiltersJSON(registry *filters.Registry, names []string) error {
	infos := make([]filterInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, filterInfo{
			Name:        name,
			Description: registry.Description(name),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	return nil
}
