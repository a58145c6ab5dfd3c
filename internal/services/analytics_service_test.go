package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sopulse/internal/analytics"
	"sopulse/internal/config"
	"sopulse/internal/dataset"
)

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		ClipLowerPct:       0.01,
		ClipUpperPct:       0.99,
		TopLanguages:       12,
		TopFrameworks:      8,
		SplitYear:          2020,
		PrePeriodStart:     2017,
		PrePeriodEnd:       2019,
		PostPeriodStart:    2024,
		PostPeriodEnd:      2025,
		FrontEndFrameworks: config.DefaultFrontEndFrameworks(),
		BackEndFrameworks:  config.DefaultBackEndFrameworks(),
	}
}

func testDataset() *dataset.Dataset {
	records := []dataset.SurveyRecord{
		{
			Year:                 2017,
			WorkMode:             dataset.String("remote"),
			CompanySize:          dataset.String("1-9"),
			JobSatisfaction:      dataset.Float(6),
			CompensationAnnual:   dataset.Float(50000),
			FrameworksWorkedWith: dataset.String("React;Django"),
			LanguagesWorkedWith:  dataset.String("Go;Python"),
		},
		{
			Year:                 2017,
			WorkMode:             dataset.String("on_site"),
			CompanySize:          dataset.String("1000+"),
			JobSatisfaction:      dataset.Float(7),
			CompensationAnnual:   dataset.Float(90000),
			FrameworksWorkedWith: dataset.String("Django"),
			LanguagesWorkedWith:  dataset.String("Python"),
		},
		{
			Year:                 2024,
			WorkMode:             dataset.String("remote"),
			CompanySize:          dataset.String("1-9"),
			JobSatisfaction:      dataset.Float(8),
			CompensationAnnual:   dataset.Float(120000),
			FrameworksWorkedWith: dataset.String("React"),
			LanguagesWorkedWith:  dataset.String("Go"),
		},
	}
	return &dataset.Dataset{Records: records, Years: []int{2017, 2024}}
}

func newTestService() *AnalyticsService {
	return NewAnalyticsService(testDataset(), testConfig(), nil, nil)
}

func TestAnalyticsService_WorkModeShares(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rows := svc.WorkModeShares(ctx)
	require.Len(t, rows, 3)
	assert.Equal(t, 2017, rows[0].Year)
	assert.Equal(t, "remote", rows[0].Category)
	assert.InDelta(t, 50.0, rows[0].Share, 1e-9)

	// Second call serves the memoized table.
	again := svc.WorkModeShares(ctx)
	assert.Equal(t, rows, again)
}

func TestAnalyticsService_SatisfactionChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// remote: pre mean 6, post mean 8.
	assert.InDelta(t, 2.0, svc.SatisfactionChange(ctx, "remote"), 1e-9)

	// on_site has no post-period records, so the change collapses to 0.
	assert.Equal(t, 0.0, svc.SatisfactionChange(ctx, "on_site"))
}

func TestAnalyticsService_SatisfactionStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	pre := svc.SatisfactionStats(ctx, "", svc.PrePeriod())
	assert.Equal(t, 2, pre.Count)
	assert.InDelta(t, 6.5, pre.Mean, 1e-9)

	empty := svc.SatisfactionStats(ctx, "hybrid", svc.PrePeriod())
	assert.Equal(t, 0, empty.Count)
}

func TestAnalyticsService_FrameworkCohorts(t *testing.T) {
	svc := newTestService()

	rows := svc.FrameworkCohorts(context.Background())
	require.NotEmpty(t, rows)

	byCategory := make(map[string]string)
	for _, row := range rows {
		byCategory[row.Category] = row.Cohort
	}
	assert.Equal(t, analytics.CohortFrontEnd, byCategory["React"])
	assert.Equal(t, analytics.CohortBackEnd, byCategory["Django"])
}

func TestAnalyticsService_FrameworkLifecycles(t *testing.T) {
	svc := newTestService()

	summaries := svc.FrameworkLifecycles(context.Background())
	require.Len(t, summaries, 2)

	byCategory := make(map[string]analytics.LifecycleSummary)
	for _, s := range summaries {
		byCategory[s.Category] = s
	}

	react := byCategory["React"]
	assert.Equal(t, 2017, react.FirstYear)
	// React: 2017 share 50 (1 of 2 respondents), 2024 share 100.
	assert.Equal(t, 2024, react.PeakYear)
	assert.InDelta(t, 100.0, react.PeakShare, 1e-9)
}

func TestAnalyticsService_FlexibilityGap(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	gap := svc.FlexibilityGap(ctx, 2017)
	require.NotNil(t, gap)
	assert.InDelta(t, 100.0, *gap, 1e-9) // 1-9 fully flexible, 1000+ not at all

	assert.Nil(t, svc.FlexibilityGap(ctx, 2024), "single size in 2024")
}

func TestAnalyticsService_CompensationScatter(t *testing.T) {
	svc := newTestService()

	scatter := svc.CompensationScatter(context.Background())
	require.Len(t, scatter, svc.Dataset().Len())

	bounds, ok := svc.CompensationBounds(context.Background())
	require.True(t, ok)
	for _, cv := range scatter {
		if cv.Clipped.Valid {
			assert.GreaterOrEqual(t, cv.Clipped.Value, bounds.Lower)
			assert.LessOrEqual(t, cv.Clipped.Value, bounds.Upper)
		}
	}
}

func TestAnalyticsService_Warmup(t *testing.T) {
	svc := newTestService()
	svc.Warmup(context.Background())
	assert.Greater(t, svc.cache.Len(), 8)
}
