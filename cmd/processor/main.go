package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/exporter"
	"sopulse/internal/infrastructure"
	"sopulse/internal/services"
)

func main() {
	csvPath := flag.String("in", "", "survey CSV path (defaults to the configured dataset path)")
	outDir := flag.String("out", "", "report output directory (defaults to the configured reports dir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *csvPath == "" {
		*csvPath = cfg.Dataset.CSVPath
	}
	if *outDir == "" {
		*outDir = cfg.GetReportsDir()
	}

	ctx := context.Background()
	start := time.Now()

	ds, err := dataset.Load(ctx, *csvPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load survey dataset",
			slog.String("path", *csvPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := services.NewAnalyticsService(ds, cfg.Analytics, nil, logger)

	exp := exporter.NewReportExporter(svc, *outDir, logger)
	if err := exp.ExportAll(ctx); err != nil {
		logger.ErrorContext(ctx, "Report export failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Processing completed",
		slog.Int("records", ds.Len()),
		slog.Int("years", len(ds.Years)),
		slog.String("reports_dir", *outDir),
		slog.Duration("duration", time.Since(start)))
}
