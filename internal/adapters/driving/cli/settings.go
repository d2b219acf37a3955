package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure draft storage, autosave, the schema catalog and the
report API.

Use subcommands to change single settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its config key.

Run 'reportdraft settings keys' to list the available keys.

Example:
  reportdraft settings set storage.driver redis
  reportdraft settings set autosave.interval_ms 500`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure draft storage step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Storage settings
	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver.Description())
	switch settings.Storage.Driver {
	case domain.StorageSQLite:
		dir := settings.Storage.SQLiteDir
		if dir == "" {
			dir = "(default)"
		}
		cmd.Printf("  Directory: %s\n", dir)
	case domain.StorageRedis:
		cmd.Printf("  Address: %s\n", settings.Storage.RedisAddr)
		cmd.Printf("  DB: %d\n", settings.Storage.RedisDB)
		if settings.Storage.RedisPassword != "" {
			cmd.Printf("  Password: %s\n", maskSecret(settings.Storage.RedisPassword))
		} else {
			cmd.Printf("  Password: (not set)\n")
		}
	case domain.StorageS3:
		cmd.Printf("  Bucket: %s\n", settings.Storage.S3Bucket)
		cmd.Printf("  Region: %s\n", settings.Storage.S3Region)
		if settings.Storage.S3Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", settings.Storage.S3Endpoint)
		}
	}
	if settings.Storage.Driver != domain.StorageMemory && settings.Storage.Driver != domain.StorageSQLite {
		cmd.Printf("  Key prefix: %s\n", settings.Storage.KeyPrefix)
	}
	cmd.Println()

	// Autosave settings
	cmd.Println("[Autosave]")
	cmd.Printf("  Interval: %s\n", settings.Autosave.Interval)
	cmd.Printf("  Burst: %d\n", settings.Autosave.Burst)
	cmd.Println()

	// Catalog settings
	cmd.Println("[Catalog]")
	if settings.Catalog.Dir != "" {
		cmd.Printf("  Overrides: %s\n", settings.Catalog.Dir)
		cmd.Printf("  Watch: %s\n", yesNo(settings.Catalog.Watch))
	} else {
		cmd.Printf("  Overrides: (embedded schemas only)\n")
	}
	cmd.Println()

	// API settings
	cmd.Println("[Report API]")
	if settings.API.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
		cmd.Printf("  Timeout: %s\n", settings.API.Timeout)
	} else {
		cmd.Printf("  Base URL: (offline stub)\n")
	}
	cmd.Println()

	cmd.Println("[Calculation]")
	cmd.Printf("  Strip grouping dots: %s\n", yesNo(settings.Calc.StripGroupingDots))
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'reportdraft settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("reportdraft Settings Wizard")
	cmd.Println("===========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Storage driver
	cmd.Println("Step 1: Select Draft Storage")
	cmd.Println("----------------------------")
	drivers := domain.AllStorageDrivers()
	current := 1
	for i, d := range drivers {
		cmd.Printf("  %d. %s\n", i+1, d.Description())
		if d == settings.Storage.Driver {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	idx := parseChoice(readLine(reader), len(drivers), current)
	settings.Storage.Driver = drivers[idx-1]
	cmd.Println()

	// Step 2: Driver specifics
	cmd.Println("Step 2: Storage Details")
	cmd.Println("-----------------------")
	switch settings.Storage.Driver {
	case domain.StorageSQLite:
		settings.Storage.SQLiteDir = prompt(cmd, reader, "Data directory", settings.Storage.SQLiteDir)
	case domain.StorageRedis:
		settings.Storage.RedisAddr = prompt(cmd, reader, "Redis address", settings.Storage.RedisAddr)
		cmd.Print("Redis password (leave empty to keep): ")
		if pw := readPassword(reader); pw != "" {
			settings.Storage.RedisPassword = pw
		}
	case domain.StorageS3:
		settings.Storage.S3Bucket = prompt(cmd, reader, "Bucket", settings.Storage.S3Bucket)
		settings.Storage.S3Region = prompt(cmd, reader, "Region", settings.Storage.S3Region)
		settings.Storage.S3Endpoint = prompt(cmd, reader, "Endpoint (empty for AWS)", settings.Storage.S3Endpoint)
	default:
		cmd.Println("Nothing to configure.")
	}
	cmd.Println()

	// Step 3: Report API
	cmd.Println("Step 3: Report API")
	cmd.Println("------------------")
	settings.API.BaseURL = prompt(cmd, reader, "Base URL (empty for offline stub)", settings.API.BaseURL)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return nil
	}
	cmd.Println("Settings saved.")
	return nil
}

// prompt asks for a value, keeping current when the answer is empty.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	if v := readLine(reader); v != "" {
		return v
	}
	return current
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
