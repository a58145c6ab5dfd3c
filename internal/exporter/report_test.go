package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/services"
)

func testService() *services.AnalyticsService {
	records := []dataset.SurveyRecord{
		{
			Year:                 2017,
			WorkMode:             dataset.String("remote"),
			CompanySize:          dataset.String("1-9"),
			JobSatisfaction:      dataset.Float(6),
			CompensationAnnual:   dataset.Float(50000),
			ExperienceYearsCode:  dataset.Float(4),
			LanguagesWorkedWith:  dataset.String("Go;Python"),
			FrameworksWorkedWith: dataset.String("React;Django"),
		},
		{
			Year:                 2024,
			WorkMode:             dataset.String("hybrid"),
			CompanySize:          dataset.String("1000+"),
			JobSatisfaction:      dataset.Float(8),
			CompensationAnnual:   dataset.Float(110000),
			ExperienceYearsCode:  dataset.Float(9),
			LanguagesWorkedWith:  dataset.String("Go"),
			FrameworksWorkedWith: dataset.String("React"),
		},
	}
	ds := &dataset.Dataset{Records: records, Years: []int{2017, 2024}}

	cfg := config.AnalyticsConfig{
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
	return services.NewAnalyticsService(ds, cfg, nil, nil)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\ufeff")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"year", "category"},
		[][]string{{"2020", "remote"}, {"2021", "hybrid"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeff"), "BOM expected")

	rows := readCSV(t, filepath.Join(dir, "out.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"year", "category"}, rows[0])
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"1", "2"}))
	require.NoError(t, sw.Close())

	rows := readCSV(t, filepath.Join(dir, "stream.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReportExporter_ExportAll(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(testService(), dir, nil)

	require.NoError(t, exp.ExportAll(context.Background()))

	for _, name := range []string{
		FileWorkModeShares, FileWorkModeYoY, FileFlexibility,
		FileLanguageShares, FileFrameworkShares, FileFrameworkCohorts,
		FileFrameworkLifecycle, FileCompensation, FileSummary, FileWorkbook,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	shares := readCSV(t, filepath.Join(dir, FileWorkModeShares))
	require.Len(t, shares, 3) // header + one row per (year, mode)
	assert.Equal(t, []string{"year", "category", "count", "share"}, shares[0])
	assert.Equal(t, []string{"2017", "remote", "1", "100"}, shares[1])

	cohorts := readCSV(t, filepath.Join(dir, FileFrameworkCohorts))
	require.GreaterOrEqual(t, len(cohorts), 3)
	assert.Equal(t, "Front-End", cohorts[1][2])
}

func TestReportExporter_Summary(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(testService(), dir, nil)

	require.NoError(t, exp.ExportSummary(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, FileSummary))
	require.NoError(t, err)

	var summary SummaryReport
	require.NoError(t, json.Unmarshal(data, &summary))

	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, []int{2017, 2024}, summary.Years)
	require.Len(t, summary.SatisfactionChanges, 3)
	require.NotNil(t, summary.CompensationBounds)

	// Each year has only one company size, so the gap is the nil sentinel.
	assert.Nil(t, summary.FlexibilityGaps["2017"])
}
