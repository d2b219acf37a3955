package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [report-id]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive form editor.

Pick an equipment type, name the instance and edit its fields. Every
committed edit is autosaved to the configured draft store.

Controls:
  ↑/k, ↓/j  - Navigate
  Enter     - Select / commit field
  Tab       - Next field (commits)
  Esc       - Back (flushes the draft)
  ?         - Toggle help
  q         - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Deferred autosaves are retried in the background while the TUI runs.
	if autosaver != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(cmd.Context())
		defer schedulerCancel()
		autosaver.Start(schedulerCtx)
		defer autosaver.Stop()
	}

	ports := &tui.Ports{
		Catalog:   catalogService,
		Sessions:  sessionService,
		Drafts:    draftService,
		Settings:  settingsService,
		Scheduler: autosaver,
	}

	reportID := "draft"
	if len(args) == 1 {
		reportID = args[0]
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	app.WithReportID(reportID)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
