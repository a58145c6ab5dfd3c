package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sopulse/internal/dataset"
)

func TestSharesByYear_EndToEnd(t *testing.T) {
	records := []dataset.SurveyRecord{
		rec(2017, "remote"),
		rec(2017, "on_site"),
		rec(2017, "remote"),
	}

	got := SharesByYear(records, WorkModeField, false)

	require.Len(t, got, 2)
	assert.Equal(t, ShareRow{Year: 2017, Category: "remote", Count: 2, Share: 100 * 2.0 / 3.0}, got[0])
	assert.Equal(t, ShareRow{Year: 2017, Category: "on_site", Count: 1, Share: 100 * 1.0 / 3.0}, got[1])
	assert.InDelta(t, 66.67, got[0].Share, 0.01)
	assert.InDelta(t, 33.33, got[1].Share, 0.01)
}

func TestSharesByYear_SingleValuedSharesSumTo100(t *testing.T) {
	records := []dataset.SurveyRecord{
		rec(2020, "remote"), rec(2020, "hybrid"), rec(2020, "on_site"),
		rec(2021, "remote"), rec(2021, "remote"), rec(2021, "hybrid"),
	}

	rows := SharesByYear(records, WorkModeField, false)

	sums := make(map[int]float64)
	for _, row := range rows {
		sums[row.Year] += row.Share
	}
	for year, sum := range sums {
		assert.InDelta(t, 100.0, sum, 1e-6, "year %d", year)
	}
}

func TestSharesByYear_MultiValuedSharesExceed100(t *testing.T) {
	// Two respondents, each naming two languages. Shares are per
	// respondent, so Go reaches 100% while Python and Rust sit at 50%
	// each; the per-year sum is far above 100 and that is expected.
	records := []dataset.SurveyRecord{
		{Year: 2020, LanguagesWorkedWith: dataset.String("Go;Python")},
		{Year: 2020, LanguagesWorkedWith: dataset.String("Go;Rust")},
	}

	rows := SharesByYear(records, LanguagesField, true)

	require.Len(t, rows, 3)
	assert.Equal(t, ShareRow{Year: 2020, Category: "Go", Count: 2, Share: 100}, rows[0])
	assert.Equal(t, ShareRow{Year: 2020, Category: "Python", Count: 1, Share: 50}, rows[1])
	assert.Equal(t, ShareRow{Year: 2020, Category: "Rust", Count: 1, Share: 50}, rows[2])

	var sum float64
	for _, row := range rows {
		sum += row.Share
	}
	assert.Greater(t, sum, 100.0+1e-6)
}

func TestSharesByYear_EmptyBucketNeverEmitted(t *testing.T) {
	records := []dataset.SurveyRecord{
		rec(2020, ""), // only missing answers for 2020
		rec(2021, "remote"),
	}

	rows := SharesByYear(records, WorkModeField, false)

	require.Len(t, rows, 1)
	assert.Equal(t, 2021, rows[0].Year)
}

func TestSharesByYear_OrderedByYearThenFirstSeen(t *testing.T) {
	records := []dataset.SurveyRecord{
		rec(2021, "hybrid"),
		rec(2020, "remote"),
		rec(2021, "remote"),
		rec(2020, "on_site"),
	}

	rows := SharesByYear(records, WorkModeField, false)

	require.Len(t, rows, 4)
	assert.Equal(t, 2020, rows[0].Year)
	assert.Equal(t, "remote", rows[0].Category)
	assert.Equal(t, "on_site", rows[1].Category)
	assert.Equal(t, 2021, rows[2].Year)
	assert.Equal(t, "hybrid", rows[2].Category)
}

func TestTopCategories(t *testing.T) {
	rows := []ShareRow{
		{Year: 2020, Category: "Go", Count: 5},
		{Year: 2020, Category: "Python", Count: 8},
		{Year: 2021, Category: "Go", Count: 4},
		{Year: 2021, Category: "Rust", Count: 9},
	}

	t.Run("ranked by total count descending", func(t *testing.T) {
		got := TopCategories(rows, 2, nil)
		assert.Equal(t, []string{"Rust", "Go"}, got)
	})

	t.Run("ties keep first-encountered order", func(t *testing.T) {
		tied := []ShareRow{
			{Year: 2020, Category: "B", Count: 3},
			{Year: 2020, Category: "A", Count: 3},
		}
		assert.Equal(t, []string{"B", "A"}, TopCategories(tied, 2, nil))
	})

	t.Run("scope restricts ranking", func(t *testing.T) {
		got := TopCategories(rows, 5, []string{"Go", "Python"})
		assert.Equal(t, []string{"Go", "Python"}, got)
	})

	t.Run("n larger than categories", func(t *testing.T) {
		got := TopCategories(rows, 10, nil)
		assert.Len(t, got, 3)
	})
}

func TestFilterByCategories(t *testing.T) {
	rows := []ShareRow{
		{Year: 2020, Category: "Go"},
		{Year: 2020, Category: "Python"},
		{Year: 2021, Category: "Go"},
	}

	got := FilterByCategories(rows, []string{"Go"})
	require.Len(t, got, 2)
	assert.Equal(t, "Go", got[0].Category)
	assert.Equal(t, "Go", got[1].Category)
}
