package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook writes every aggregate table into one Excel workbook,
// one sheet per table, for readers who want the full report in a
// single file.
func (e *ReportExporter) ExportWorkbook(ctx context.Context) error {
	f := excelize.NewFile()
	defer f.Close()

	shareHeader := []interface{}{"year", "category", "count", "share"}

	sheets := []struct {
		name   string
		header []interface{}
		rows   func() [][]interface{}
	}{
		{
			name:   "Work Modes",
			header: shareHeader,
			rows: func() [][]interface{} {
				var out [][]interface{}
				for _, r := range e.svc.WorkModeShares(ctx) {
					out = append(out, []interface{}{r.Year, r.Category, r.Count, r.Share})
				}
				return out
			},
		},
		{
			name:   "Flexibility",
			header: []interface{}{"year", "company_size", "flexible", "total", "pct"},
			rows: func() [][]interface{} {
				var out [][]interface{}
				for _, r := range e.svc.FlexibilityTable(ctx) {
					out = append(out, []interface{}{r.Year, r.CompanySize, r.Flexible, r.Total, r.Pct})
				}
				return out
			},
		},
		{
			name:   "Languages",
			header: shareHeader,
			rows: func() [][]interface{} {
				var out [][]interface{}
				for _, r := range e.svc.LanguageShares(ctx) {
					out = append(out, []interface{}{r.Year, r.Category, r.Count, r.Share})
				}
				return out
			},
		},
		{
			name:   "Frameworks",
			header: []interface{}{"year", "category", "cohort", "count", "share"},
			rows: func() [][]interface{} {
				var out [][]interface{}
				for _, r := range e.svc.FrameworkCohorts(ctx) {
					out = append(out, []interface{}{r.Year, r.Category, r.Cohort, r.Count, r.Share})
				}
				return out
			},
		},
		{
			name:   "Lifecycles",
			header: []interface{}{"category", "first_year", "peak_year", "peak_share"},
			rows: func() [][]interface{} {
				var out [][]interface{}
				for _, r := range e.svc.FrameworkLifecycles(ctx) {
					out = append(out, []interface{}{r.Category, r.FirstYear, r.PeakYear, r.PeakShare})
				}
				return out
			},
		},
	}

	for i, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}

		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows()); err != nil {
			return err
		}

		if i == 0 {
			idx, err := f.GetSheetIndex(sheet.name)
			if err != nil {
				return fmt.Errorf("sheet index %s: %w", sheet.name, err)
			}
			f.SetActiveSheet(idx)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := os.MkdirAll(e.reportsDir, 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	return f.SaveAs(filepath.Join(e.reportsDir, FileWorkbook))
}

// writeSheet fills one worksheet with a header row and data rows
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name on %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}

	return nil
}
