package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"sopulse/internal/analytics"
	"sopulse/internal/config"
	"sopulse/internal/services"
)

// Report file names produced by ExportAll
const (
	FileWorkModeShares     = "work_mode_shares.csv"
	FileWorkModeYoY        = "work_mode_yoy.csv"
	FileFlexibility        = "flexibility_by_size.csv"
	FileLanguageShares     = "language_shares.csv"
	FileFrameworkShares    = "framework_shares.csv"
	FileFrameworkCohorts   = "framework_cohorts.csv"
	FileFrameworkLifecycle = "framework_lifecycles.csv"
	FileCompensation       = "compensation_clipped.csv"
	FileSummary            = "summary.json"
	FileWorkbook           = "survey_report.xlsx"
)

// ReportExporter writes the aggregate tables to report files
type ReportExporter struct {
	svc        *services.AnalyticsService
	csv        *CSVWriter
	reportsDir string
	logger     *slog.Logger
}

// NewReportExporter creates a report exporter writing into reportsDir
func NewReportExporter(svc *services.AnalyticsService, reportsDir string, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		svc:        svc,
		csv:        NewCSVWriter(reportsDir),
		reportsDir: reportsDir,
		logger:     logger,
	}
}

// ExportAll writes every report file. The CSV tables are independent
// of each other and are written concurrently; the summary and workbook
// follow once the tables are done.
func (e *ReportExporter) ExportAll(ctx context.Context) error {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.ExportWorkModeShares(gctx) })
	g.Go(func() error { return e.ExportWorkModeYoY(gctx) })
	g.Go(func() error { return e.ExportFlexibility(gctx) })
	g.Go(func() error { return e.ExportLanguageShares(gctx) })
	g.Go(func() error { return e.ExportFrameworkShares(gctx) })
	g.Go(func() error { return e.ExportFrameworkCohorts(gctx) })
	g.Go(func() error { return e.ExportFrameworkLifecycles(gctx) })
	g.Go(func() error { return e.ExportCompensation(gctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("export report tables: %w", err)
	}

	if err := e.ExportSummary(ctx); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	if err := e.ExportWorkbook(ctx); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "report export completed",
		slog.String("reports_dir", e.reportsDir),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// ExportWorkModeShares writes the work-mode share table
func (e *ReportExporter) ExportWorkModeShares(ctx context.Context) error {
	return e.writeShareTable(FileWorkModeShares, e.svc.WorkModeShares(ctx))
}

// ExportLanguageShares writes the top-language share table
func (e *ReportExporter) ExportLanguageShares(ctx context.Context) error {
	return e.writeShareTable(FileLanguageShares, e.svc.LanguageShares(ctx))
}

// ExportFrameworkShares writes the top-framework share table
func (e *ReportExporter) ExportFrameworkShares(ctx context.Context) error {
	return e.writeShareTable(FileFrameworkShares, e.svc.FrameworkShares(ctx))
}

func (e *ReportExporter) writeShareTable(name string, rows []analytics.ShareRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			row.Category,
			formatInt(row.Count),
			formatShare(row.Share),
		})
	}
	return e.csv.WriteSimpleCSV(name, []string{"year", "category", "count", "share"}, records)
}

// ExportWorkModeYoY writes the year-over-year work-mode deltas
func (e *ReportExporter) ExportWorkModeYoY(ctx context.Context) error {
	transitions := e.svc.WorkModeYearOverYear(ctx)

	records := make([][]string, 0, len(transitions))
	for _, tr := range transitions {
		records = append(records, []string{tr.Label, tr.Category, formatFloat(tr.Delta)})
	}
	return e.csv.WriteSimpleCSV(FileWorkModeYoY, []string{"transition", "category", "delta"}, records)
}

// ExportFlexibility writes flexible-work percentages per year and size
func (e *ReportExporter) ExportFlexibility(ctx context.Context) error {
	rows := e.svc.FlexibilityTable(ctx)

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			row.CompanySize,
			formatInt(row.Flexible),
			formatInt(row.Total),
			formatFloat(row.Pct),
		})
	}
	return e.csv.WriteSimpleCSV(FileFlexibility,
		[]string{"year", "company_size", "flexible", "total", "pct"}, records)
}

// ExportFrameworkCohorts writes framework shares with cohort labels
func (e *ReportExporter) ExportFrameworkCohorts(ctx context.Context) error {
	rows := e.svc.FrameworkCohorts(ctx)

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			row.Category,
			row.Cohort,
			formatInt(row.Count),
			formatShare(row.Share),
		})
	}
	return e.csv.WriteSimpleCSV(FileFrameworkCohorts,
		[]string{"year", "category", "cohort", "count", "share"}, records)
}

// ExportFrameworkLifecycles writes first/peak summaries per framework
func (e *ReportExporter) ExportFrameworkLifecycles(ctx context.Context) error {
	summaries := e.svc.FrameworkLifecycles(ctx)

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Category,
			formatInt(s.FirstYear),
			formatInt(s.PeakYear),
			formatFloat(s.PeakShare),
		})
	}
	return e.csv.WriteSimpleCSV(FileFrameworkLifecycle,
		[]string{"category", "first_year", "peak_year", "peak_share"}, records)
}

// ExportCompensation streams the clipped compensation scatter input.
// This is the largest table (one row per respondent), so it goes
// through the stream writer instead of being buffered.
func (e *ReportExporter) ExportCompensation(ctx context.Context) error {
	scatter := e.svc.CompensationScatter(ctx)

	sw, err := e.csv.CreateStreamWriter(FileCompensation,
		[]string{"year", "experience_years", "compensation", "compensation_clipped"})
	if err != nil {
		return err
	}

	for _, cv := range scatter {
		if !cv.Clipped.Valid {
			continue
		}
		experience := ""
		if cv.Record.ExperienceYearsCode.Valid {
			experience = formatFloat(cv.Record.ExperienceYearsCode.Value)
		}
		compensation := ""
		if cv.Record.CompensationAnnual.Valid {
			compensation = formatFloat(cv.Record.CompensationAnnual.Value)
		}

		if err := sw.WriteRecord([]string{
			formatInt(cv.Record.Year),
			experience,
			compensation,
			formatFloat(cv.Clipped.Value),
		}); err != nil {
			sw.Close()
			return err
		}
	}

	return sw.Close()
}

// SatisfactionChangeEntry is one per-mode satisfaction delta in the
// summary report.
type SatisfactionChangeEntry struct {
	WorkMode  string  `json:"work_mode"`
	Change    float64 `json:"change"`
	PreCount  int     `json:"pre_count"`
	PostCount int     `json:"post_count"`
}

// SummaryReport is the JSON metadata envelope written next to the CSVs
type SummaryReport struct {
	GeneratedAt         time.Time                 `json:"generated_at"`
	AppVersion          string                    `json:"app_version"`
	Records             int                       `json:"records"`
	Years               []int                     `json:"years"`
	SatisfactionChanges []SatisfactionChangeEntry `json:"satisfaction_changes"`
	CompensationBounds  *analytics.ClipBounds     `json:"compensation_bounds,omitempty"`
	FlexibilityGaps     map[string]*float64       `json:"flexibility_gaps"`
}

// ExportSummary writes the summary.json metadata envelope
func (e *ReportExporter) ExportSummary(ctx context.Context) error {
	ds := e.svc.Dataset()

	summary := SummaryReport{
		GeneratedAt:     time.Now().UTC(),
		AppVersion:      config.AppVersion,
		Records:         ds.Len(),
		Years:           ds.Years,
		FlexibilityGaps: make(map[string]*float64),
	}

	for _, mode := range []string{"remote", "hybrid", "on_site"} {
		summary.SatisfactionChanges = append(summary.SatisfactionChanges, SatisfactionChangeEntry{
			WorkMode:  mode,
			Change:    e.svc.SatisfactionChange(ctx, mode),
			PreCount:  e.svc.SatisfactionStats(ctx, mode, e.svc.PrePeriod()).Count,
			PostCount: e.svc.SatisfactionStats(ctx, mode, e.svc.PostPeriod()).Count,
		})
	}

	if bounds, ok := e.svc.CompensationBounds(ctx); ok {
		summary.CompensationBounds = &bounds
	}

	for _, year := range ds.Years {
		summary.FlexibilityGaps[fmt.Sprintf("%d", year)] = e.svc.FlexibilityGap(ctx, year)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.MkdirAll(e.reportsDir, 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	return os.WriteFile(filepath.Join(e.reportsDir, FileSummary), data, 0644)
}
