package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect equipment schemas",
	Long: `List and show the equipment schemas drafts are normalised against.

Schemas are embedded in the binary and may be overridden by YAML files in
the directory configured with catalog.dir.`,
	RunE: runCatalogList,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment schemas",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [equipment]",
	Short: "Show one equipment schema as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	schemas := catalogService.List()
	if len(schemas) == 0 {
		cmd.Println("No equipment schemas loaded.")
		return nil
	}

	cmd.Printf("Equipment schemas (%d):\n\n", len(schemas))
	for i := range schemas {
		s := &schemas[i]
		cmd.Printf("  %-16s %s\n", s.Key, s.Label)
		cmd.Printf("  %-16s mode: %s, photo slots: %d", "", s.Mode, len(s.Photos))
		if s.Unit != nil {
			kinds := make([]string, 0, len(s.Unit.Kinds))
			for _, k := range s.Unit.Kinds {
				kinds = append(kinds, k.Key)
			}
			cmd.Printf(", units: %s", strings.Join(kinds, "/"))
		}
		cmd.Println()
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	schema, err := catalogService.Get(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, schema)
}
