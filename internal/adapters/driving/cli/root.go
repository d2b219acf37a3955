// Package cli provides the cobra command tree of the reportdraft binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services consumed by the commands. Set by main through SetServices.
var (
	catalogService  driving.CatalogService
	draftService    driving.DraftService
	sessionService  driving.SessionService
	reportService   driving.ReportService
	settingsService driving.SettingsService
	autosaver       driving.AutosaveScheduler
)

// Services groups the core services wired into the command tree.
type Services struct {
	Catalog   driving.CatalogService
	Drafts    driving.DraftService
	Sessions  driving.SessionService
	Reports   driving.ReportService
	Settings  driving.SettingsService
	Scheduler driving.AutosaveScheduler
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	catalogService = s.Catalog
	draftService = s.Drafts
	sessionService = s.Sessions
	reportService = s.Reports
	settingsService = s.Settings
	autosaver = s.Scheduler
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "reportdraft",
	Short: "Equipment inspection report drafts",
	Long: `reportdraft edits, normalises and submits equipment inspection reports.

Each equipment instance (fan, pump, cooling tower, room noise survey, ...)
is a draft document shaped by a schema. Drafts are normalised on every load
and save, so legacy photo keys, missing fields and unit lists are repaired
automatically.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err == nil && verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every
// subcommand through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
