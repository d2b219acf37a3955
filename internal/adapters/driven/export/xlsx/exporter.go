// Package xlsx exports reports as Excel workbooks: a summary sheet followed
// by one sheet per equipment instance with its fields and derived values.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

const (
	summarySheet = "Summary"
	defaultSheet = "Sheet1"

	// maxSheetName is the Excel limit on sheet name length.
	maxSheetName = 31
)

var headers = []string{"Group", "Label", "Value", "Unit"}

var columnWidths = []float64{18, 36, 24, 10}

// Exporter implements driven.Exporter.
type Exporter struct{}

var _ driven.Exporter = (*Exporter)(nil)

// NewExporter creates an xlsx exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Extension returns "xlsx".
func (e *Exporter) Extension() string {
	return "xlsx"
}

// Export writes the workbook to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer, report domain.ExportReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	names := sheetNames(report.Sheets)
	if err := writeSummary(f, report, names); err != nil {
		return err
	}
	for i, sheet := range report.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeSheet(f, names[i], sheet, header); err != nil {
			return fmt.Errorf("writing sheet %s: %w", names[i], err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report domain.ExportReport, names []string) error {
	rows := [][]any{
		{"Report", report.ID},
		{"Title", report.Title},
		{"Building", report.Building},
		{"Generated", report.Generated.Format("2006-01-02 15:04")},
		{},
		{"Sheet", "Fields", "Derived", "Photos"},
	}
	for i, s := range report.Sheets {
		rows = append(rows, []any{names[i], len(s.Rows), len(s.Derived), s.Photos})
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 24)
}

func writeSheet(f *excelize.File, name string, sheet domain.ExportSheet, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}

	row := 2
	write := func(r domain.ExportRow) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{r.Group, r.Label, r.Value, r.Unit}
		row++
		return f.SetSheetRow(name, cell, &values)
	}

	for _, r := range sheet.Rows {
		if err := write(r); err != nil {
			return err
		}
	}
	if len(sheet.Derived) > 0 {
		row++
		for _, r := range sheet.Derived {
			if r.Group == "" {
				r.Group = "derived"
			}
			if err := write(r); err != nil {
				return err
			}
		}
	}
	row++
	return write(domain.ExportRow{Group: "photos", Label: "attached", Value: fmt.Sprint(sheet.Photos)})
}

// sheetNames derives unique, Excel-safe names from the sheet titles.
func sheetNames(sheets []domain.ExportSheet) []string {
	used := map[string]bool{strings.ToLower(summarySheet): true}
	names := make([]string, len(sheets))
	for i, s := range sheets {
		base := SafeSheetName(s.Name)
		if base == "" {
			base = fmt.Sprintf("Sheet %d", i+1)
		}
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// SafeSheetName strips the characters Excel forbids and trims to the length limit.
func SafeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")
	return truncate(s, maxSheetName)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
