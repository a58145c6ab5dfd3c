// Package exporter writes the survey aggregate tables to report files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Generates the per-table CSV reports, the
// summary.json metadata envelope, and the combined Excel workbook from
// an AnalyticsService.
//
// Example usage:
//
//	exp := exporter.NewReportExporter(svc, cfg.GetReportsDir(), logger)
//	if err := exp.ExportAll(ctx); err != nil {
//	    logger.Error("export failed", "error", err)
//	}
package exporter
