package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Upload, submit and export reports",
	Long: `A report is every draft stored under one report id, e.g. r1/fan/east and
r1/pump are both part of report r1.`,
}

var reportUploadCmd = &cobra.Command{
	Use:   "upload [key]",
	Short: "Upload one stored draft to the report API",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportUpload,
}

var reportSubmitCmd = &cobra.Command{
	Use:   "submit [report-id]",
	Short: "Submit every draft of a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportSubmit,
}

var reportExportCmd = &cobra.Command{
	Use:   "export [report-id]",
	Short: "Export a report as a spreadsheet",
	Long: `Export every draft of a report to an .xlsx workbook with one sheet per
equipment instance.

Example:
  reportdraft report export r1 -o r1.xlsx --title "Annual inspection"`,
	Args: cobra.ExactArgs(1),
	RunE: runReportExport,
}

func init() {
	reportSubmitCmd.Flags().String("building", "", "Building id (required)")
	reportSubmitCmd.Flags().String("title", "", "Report title")
	_ = reportSubmitCmd.MarkFlagRequired("building")

	reportExportCmd.Flags().StringP("output", "o", "", "Output file (default <report-id>.xlsx)")
	reportExportCmd.Flags().String("title", "", "Report title")
	reportExportCmd.Flags().String("building", "", "Building name shown on the cover sheet")

	reportCmd.AddCommand(reportUploadCmd)
	reportCmd.AddCommand(reportSubmitCmd)
	reportCmd.AddCommand(reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportUpload(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	if err := envelopeErr(reportService.SaveDraft(cmd.Context(), args[0])); err != nil {
		return err
	}
	cmd.Printf("Uploaded %s\n", args[0])
	return nil
}

func runReportSubmit(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	building, _ := cmd.Flags().GetString("building")
	title, _ := cmd.Flags().GetString("title")

	env := reportService.SubmitReport(cmd.Context(), args[0], building, title)
	if err := envelopeErr(env); err != nil {
		return err
	}
	var payload struct {
		Entries int `json:"entries"`
	}
	if err := env.Decode(&payload); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	cmd.Printf("Submitted report %s (%d equipment entries)\n", args[0], payload.Entries)
	return nil
}

func runReportExport(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	output, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	building, _ := cmd.Flags().GetString("building")
	if output == "" {
		output = args[0] + ".xlsx"
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := reportService.Export(cmd.Context(), f, args[0], title, building); err != nil {
		f.Close()
		_ = os.Remove(output)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	cmd.Printf("Exported report %s to %s\n", args[0], output)
	return nil
}
