package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var normaliseCmd = &cobra.Command{
	Use:     "normalise [equipment] [file]",
	Aliases: []string{"normalize"},
	Short:   "Print the canonical form of a document",
	Long: `Read a raw JSON document from file (or stdin) and print its canonical,
schema-complete form.

Missing fields are filled with defaults, numbers are coerced to text, legacy
photo slot keys are migrated and units are given stable ids.

Examples:
  reportdraft normalise fan draft.json
  cat draft.json | reportdraft normalise pump`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNormalise,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [equipment] [file]",
	Short: "Migrate legacy photo slot keys",
	Long: `Read a JSON object of photo slots ({"slotId": [{"dataUrl": ...}]}) and
apply the schema's slot renames and fan-outs in version order.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMigrate,
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Repeating unit commands",
}

var unitsSyncCmd = &cobra.Command{
	Use:   "sync [equipment] [file]",
	Short: "Rebuild units from the unit config",
	Long: `Read a raw document and rebuild its units (rooms, classrooms) from its
config block. Existing units keep their ids and entered values.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUnitsSync,
}

var calcCmd = &cobra.Command{
	Use:   "calc [equipment] [file]",
	Short: "Compute derived values of a document",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCalc,
}

func init() {
	unitsCmd.AddCommand(unitsSyncCmd)
	rootCmd.AddCommand(normaliseCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(calcCmd)
}

func runNormalise(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	raw, err := readDocument(cmd, args, 1)
	if err != nil {
		return err
	}

	doc, err := catalogService.Normalise(args[0], raw)
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	var slots map[string][]domain.PhotoRef
	if err := readJSON(cmd, args, 1, &slots); err != nil {
		return err
	}

	migrated, err := catalogService.MigratePhotos(args[0], slots)
	if err != nil {
		return err
	}
	return printJSON(cmd, migrated)
}

func runUnitsSync(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	raw, err := readDocument(cmd, args, 1)
	if err != nil {
		return err
	}

	doc, err := catalogService.SyncUnits(args[0], raw)
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

func runCalc(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	raw, err := readDocument(cmd, args, 1)
	if err != nil {
		return err
	}

	values, err := catalogService.Derive(args[0], raw)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		cmd.Println("No derived values for this equipment.")
		return nil
	}
	for _, v := range values {
		cmd.Printf("  %-24s %s\n", v.Label, formatDerived(v))
	}
	return nil
}

func formatDerived(v domain.DerivedValue) string {
	if !v.OK {
		return "-"
	}
	if v.Unit == "" {
		return v.Text
	}
	return fmt.Sprintf("%s %s", v.Text, v.Unit)
}
