package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sopulse/internal/analytics"
	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/infrastructure"
)

// AnalyticsService exposes the survey aggregations to transport and
// export layers. Every result is memoized in a ResultCache keyed by
// the operation and its parameters; the cache lives exactly as long as
// the dataset it was computed from.
type AnalyticsService struct {
	ds      *dataset.Dataset
	cfg     config.AnalyticsConfig
	cohorts analytics.CohortSets
	cache   *analytics.ResultCache
	metrics *infrastructure.AggregationMetrics
	logger  *slog.Logger
}

// NewAnalyticsService creates an analytics service over a loaded
// dataset. metrics may be nil when telemetry is disabled.
func NewAnalyticsService(ds *dataset.Dataset, cfg config.AnalyticsConfig, metrics *infrastructure.AggregationMetrics, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AnalyticsService{
		ds:      ds,
		cfg:     cfg,
		cohorts: analytics.NewCohortSets(cfg.FrontEndFrameworks, cfg.BackEndFrameworks),
		cache:   analytics.NewResultCache(),
		metrics: metrics,
		logger:  logger,
	}
}

// Dataset returns the underlying immutable dataset
func (s *AnalyticsService) Dataset() *dataset.Dataset {
	return s.ds
}

// PrePeriod returns the configured pre-split comparison period
func (s *AnalyticsService) PrePeriod() analytics.Period {
	return analytics.Period{Start: s.cfg.PrePeriodStart, End: s.cfg.PrePeriodEnd}
}

// PostPeriod returns the configured post-split comparison period
func (s *AnalyticsService) PostPeriod() analytics.Period {
	return analytics.Period{Start: s.cfg.PostPeriodStart, End: s.cfg.PostPeriodEnd}
}

// memoize runs compute once per key and serves repeats from the cache
func (s *AnalyticsService) memoize(ctx context.Context, key string, compute func() interface{}) interface{} {
	start := time.Now()

	if v, ok := s.cache.Get(key); ok {
		infrastructure.RecordAggregation(ctx, s.metrics, key, time.Since(start), true)
		return v
	}

	v := compute()
	s.cache.Set(key, v)

	s.logger.DebugContext(ctx, "aggregation computed",
		slog.String("operation", key),
		slog.Duration("duration", time.Since(start)))
	infrastructure.RecordAggregation(ctx, s.metrics, key, time.Since(start), false)

	return v
}

// WorkModeShares returns the work-mode share table across all years
func (s *AnalyticsService) WorkModeShares(ctx context.Context) []analytics.ShareRow {
	v := s.memoize(ctx, analytics.CacheKey("shares", "work_mode"), func() interface{} {
		return analytics.SharesByYear(s.ds.Records, analytics.WorkModeField, false)
	})
	return v.([]analytics.ShareRow)
}

// WorkModeYearOverYear returns year-over-year work-mode share deltas
func (s *AnalyticsService) WorkModeYearOverYear(ctx context.Context) []analytics.Transition {
	v := s.memoize(ctx, analytics.CacheKey("yoy", "work_mode"), func() interface{} {
		return analytics.YearOverYear(s.WorkModeShares(ctx))
	})
	return v.([]analytics.Transition)
}

// WorkModeGap returns the spread between the largest and smallest
// work-mode share in a year, or nil when fewer than two modes were
// observed.
func (s *AnalyticsService) WorkModeGap(ctx context.Context, year int) *float64 {
	return analytics.Gap(s.WorkModeShares(ctx), year)
}

// FlexibilityTable returns flexible-work percentages per year and
// company size.
func (s *AnalyticsService) FlexibilityTable(ctx context.Context) []analytics.FlexibilityRow {
	v := s.memoize(ctx, analytics.CacheKey("flexibility", "size_year"), func() interface{} {
		return analytics.FlexibilityBySizeYear(s.ds.Records)
	})
	return v.([]analytics.FlexibilityRow)
}

// FlexibilityGap returns the flexibility spread across company sizes
// for one year, or nil when fewer than two sizes were observed.
func (s *AnalyticsService) FlexibilityGap(ctx context.Context, year int) *float64 {
	return analytics.FlexibilityGap(s.FlexibilityTable(ctx), year)
}

// workModeFilter builds a filter matching one canonical work mode; an
// empty mode accepts every record.
func workModeFilter(mode string) analytics.RecordFilter {
	if mode == "" {
		return nil
	}
	return func(r dataset.SurveyRecord) bool {
		return r.WorkMode.Valid && r.WorkMode.Value == mode
	}
}

// SatisfactionStats returns satisfaction statistics for one work mode
// (empty for all respondents) over a period. A zero Count means no
// qualifying records.
func (s *AnalyticsService) SatisfactionStats(ctx context.Context, workMode string, period analytics.Period) analytics.Stats {
	key := analytics.CacheKey("satisfaction", workMode, fmt.Sprintf("%d-%d", period.Start, period.End))
	v := s.memoize(ctx, key, func() interface{} {
		return analytics.PeriodStats(s.ds.Records, analytics.JobSatisfactionField, workModeFilter(workMode), period)
	})
	return v.(analytics.Stats)
}

// SatisfactionChange returns the post-period minus pre-period mean
// satisfaction for one work mode. Zero is returned both for a true
// zero change and when either period is empty; check the per-period
// stats when the distinction matters.
func (s *AnalyticsService) SatisfactionChange(ctx context.Context, workMode string) float64 {
	key := analytics.CacheKey("satisfaction_change", workMode)
	v := s.memoize(ctx, key, func() interface{} {
		return analytics.Change(s.ds.Records, analytics.JobSatisfactionField, workModeFilter(workMode), s.PrePeriod(), s.PostPeriod())
	})
	return v.(float64)
}

// LanguageShares returns the share table for the top-N languages,
// ranked by total mentions across all years.
func (s *AnalyticsService) LanguageShares(ctx context.Context) []analytics.ShareRow {
	v := s.memoize(ctx, analytics.CacheKey("shares", "languages", fmt.Sprintf("top%d", s.cfg.TopLanguages)), func() interface{} {
		all := analytics.SharesByYear(s.ds.Records, analytics.LanguagesField, true)
		top := analytics.TopCategories(all, s.cfg.TopLanguages, nil)
		return analytics.FilterByCategories(all, top)
	})
	return v.([]analytics.ShareRow)
}

// FrameworkShares returns the share table for the top-N frameworks
func (s *AnalyticsService) FrameworkShares(ctx context.Context) []analytics.ShareRow {
	v := s.memoize(ctx, analytics.CacheKey("shares", "frameworks", fmt.Sprintf("top%d", s.cfg.TopFrameworks)), func() interface{} {
		all := analytics.SharesByYear(s.ds.Records, analytics.FrameworksField, true)
		top := analytics.TopCategories(all, s.cfg.TopFrameworks, nil)
		return analytics.FilterByCategories(all, top)
	})
	return v.([]analytics.ShareRow)
}

// CohortShareRow is a framework share row with its cohort label
type CohortShareRow struct {
	analytics.ShareRow
	Cohort string `json:"cohort"`
}

// FrameworkCohorts labels every framework share row with its cohort
// (Front-End, Back-End or Other).
func (s *AnalyticsService) FrameworkCohorts(ctx context.Context) []CohortShareRow {
	v := s.memoize(ctx, analytics.CacheKey("cohorts", "frameworks"), func() interface{} {
		all := analytics.SharesByYear(s.ds.Records, analytics.FrameworksField, true)
		out := make([]CohortShareRow, 0, len(all))
		for _, row := range all {
			out = append(out, CohortShareRow{
				ShareRow: row,
				Cohort:   s.cohorts.Classify(row.Category),
			})
		}
		return out
	})
	return v.([]CohortShareRow)
}

// FrameworkLifecycles summarizes first appearance and peak for every
// observed framework.
func (s *AnalyticsService) FrameworkLifecycles(ctx context.Context) []analytics.LifecycleSummary {
	v := s.memoize(ctx, analytics.CacheKey("lifecycles", "frameworks"), func() interface{} {
		all := analytics.SharesByYear(s.ds.Records, analytics.FrameworksField, true)
		return analytics.Lifecycles(all)
	})
	return v.([]analytics.LifecycleSummary)
}

// CompensationScatter returns records paired with their clipped annual
// compensation, bounded to the configured dataset-wide percentiles.
// Rows with missing compensation keep a missing clipped value so the
// scatter input preserves the dataset's row count.
func (s *AnalyticsService) CompensationScatter(ctx context.Context) []analytics.ClippedValue {
	v := s.memoize(ctx, analytics.CacheKey("compensation", "clipped"), func() interface{} {
		return analytics.Clip(s.ds.Records, analytics.CompensationField, s.cfg.ClipLowerPct, s.cfg.ClipUpperPct)
	})
	return v.([]analytics.ClippedValue)
}

// CompensationBounds returns the clip bounds used for the scatter, and
// false when the dataset has no compensation values at all.
func (s *AnalyticsService) CompensationBounds(ctx context.Context) (analytics.ClipBounds, bool) {
	return analytics.QuantileBounds(s.ds.Records, analytics.CompensationField, s.cfg.ClipLowerPct, s.cfg.ClipUpperPct)
}

// LanguageAdoptionByExperience compares language shares of respondents
// with at least minYears of professional experience against the whole
// population.
func (s *AnalyticsService) LanguageAdoptionByExperience(ctx context.Context, minYears float64) []analytics.ShareComparison {
	key := analytics.CacheKey("filtered_vs_overall", "languages", fmt.Sprintf("min_exp_%g", minYears))
	v := s.memoize(ctx, key, func() interface{} {
		experienced := func(r dataset.SurveyRecord) bool {
			return r.ExperienceYearsCode.Valid && r.ExperienceYearsCode.Value >= minYears
		}
		return analytics.FilteredVsOverall(s.ds.Records, experienced, analytics.LanguagesField, true)
	})
	return v.([]analytics.ShareComparison)
}

// Warmup precomputes the aggregations served by every endpoint so the
// first requests hit a hot cache. Satisfaction changes are computed
// for each canonical work mode.
func (s *AnalyticsService) Warmup(ctx context.Context) {
	start := time.Now()

	s.WorkModeShares(ctx)
	s.WorkModeYearOverYear(ctx)
	s.FlexibilityTable(ctx)
	s.LanguageShares(ctx)
	s.FrameworkShares(ctx)
	s.FrameworkCohorts(ctx)
	s.FrameworkLifecycles(ctx)
	s.CompensationScatter(ctx)
	for _, mode := range []string{"", "remote", "hybrid", "on_site"} {
		s.SatisfactionChange(ctx, mode)
	}

	s.logger.InfoContext(ctx, "analytics cache warmed",
		slog.Int("entries", s.cache.Len()),
		slog.Duration("duration", time.Since(start)))
}
