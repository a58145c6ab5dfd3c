package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sopulse/internal/analytics"
	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/infrastructure"
	"sopulse/internal/services"
)

func testDataset() *dataset.Dataset {
	records := []dataset.SurveyRecord{
		{
			Year:                 2017,
			WorkMode:             dataset.String("remote"),
			CompanySize:          dataset.String("1-9"),
			JobSatisfaction:      dataset.Float(6),
			CompensationAnnual:   dataset.Float(50000),
			ExperienceYearsCode:  dataset.Float(12),
			LanguagesWorkedWith:  dataset.String("Go;Python"),
			FrameworksWorkedWith: dataset.String("React"),
		},
		{
			Year:                 2017,
			WorkMode:             dataset.String("on_site"),
			CompanySize:          dataset.String("1000+"),
			JobSatisfaction:      dataset.Float(7),
			CompensationAnnual:   dataset.Float(90000),
			ExperienceYearsCode:  dataset.Float(3),
			LanguagesWorkedWith:  dataset.String("Python"),
			FrameworksWorkedWith: dataset.String("Django"),
		},
		{
			Year:                 2024,
			WorkMode:             dataset.String("remote"),
			CompanySize:          dataset.String("1-9"),
			JobSatisfaction:      dataset.Float(8),
			CompensationAnnual:   dataset.Float(120000),
			LanguagesWorkedWith:  dataset.String("Go"),
			FrameworksWorkedWith: dataset.String("React"),
		},
	}
	return &dataset.Dataset{Records: records, Years: []int{2017, 2024}}
}

func testRouter() chi.Router {
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

	ds := testDataset()
	logger := infrastructure.GetLogger()
	svc := services.NewAnalyticsService(ds, cfg, nil, logger)

	return NewRouter(RouterConfig{
		Service: svc,
		Dataset: ds,
		ServerConfig: config.ServerConfig{
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Logger: logger,
	})
}

func get(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestGetWorkModeShares(t *testing.T) {
	rr := get(t, testRouter(), "/api/v1/workmodes/shares")
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []analytics.ShareRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 2017, rows[0].Year)
	assert.Equal(t, "remote", rows[0].Category)
	assert.InDelta(t, 50.0, rows[0].Share, 1e-9)
}

func TestGetWorkModeGap(t *testing.T) {
	router := testRouter()

	t.Run("two modes observed", func(t *testing.T) {
		rr := get(t, router, "/api/v1/workmodes/gap?year=2017")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Year int      `json:"year"`
			Gap  *float64 `json:"gap"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Gap)
		assert.InDelta(t, 0.0, *resp.Gap, 1e-9) // both modes at 50%
	})

	t.Run("single mode yields null gap", func(t *testing.T) {
		rr := get(t, router, "/api/v1/workmodes/gap?year=2024")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"gap":null`)
	})

	t.Run("missing year parameter", func(t *testing.T) {
		rr := get(t, router, "/api/v1/workmodes/gap")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/problem+json")
	})
}

func TestGetSatisfactionChange(t *testing.T) {
	rr := get(t, testRouter(), "/api/v1/satisfaction/change?work_mode=remote")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		WorkMode  string  `json:"work_mode"`
		Change    float64 `json:"change"`
		PreCount  int     `json:"pre_count"`
		PostCount int     `json:"post_count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "remote", resp.WorkMode)
	assert.InDelta(t, 2.0, resp.Change, 1e-9)
	assert.Equal(t, 1, resp.PreCount)
	assert.Equal(t, 1, resp.PostCount)
}

func TestGetSatisfactionStats_InvalidPeriod(t *testing.T) {
	rr := get(t, testRouter(), "/api/v1/satisfaction/stats?period=mid")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetFrameworkCohorts(t *testing.T) {
	rr := get(t, testRouter(), "/api/v1/frameworks/cohorts")
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []struct {
		Category string `json:"category"`
		Cohort   string `json:"cohort"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.NotEmpty(t, rows)

	byCategory := make(map[string]string)
	for _, row := range rows {
		byCategory[row.Category] = row.Cohort
	}
	assert.Equal(t, "Front-End", byCategory["React"])
	assert.Equal(t, "Back-End", byCategory["Django"])
}

func TestGetLanguageAdoption(t *testing.T) {
	router := testRouter()

	rr := get(t, router, "/api/v1/languages/adoption?min_experience=10")
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []analytics.ShareComparison
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.NotEmpty(t, rows)

	t.Run("invalid parameter", func(t *testing.T) {
		rr := get(t, router, "/api/v1/languages/adoption?min_experience=-2")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetCompensationScatter(t *testing.T) {
	rr := get(t, testRouter(), "/api/v1/compensation/scatter")
	require.Equal(t, http.StatusOK, rr.Code)

	var points []struct {
		Year         int      `json:"year"`
		Experience   *float64 `json:"experience"`
		Compensation float64  `json:"compensation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &points))
	require.Len(t, points, 3)
	assert.Nil(t, points[2].Experience, "2024 respondent has no experience answer")
}

func TestGetHealth(t *testing.T) {
	rr := get(t, testRouter(), "/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
		Years   []int  `json:"years"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.Records)
	assert.Equal(t, []int{2017, 2024}, resp.Years)
}

func TestRequestIDHeaderOnResponses(t *testing.T) {
	rr := get(t, testRouter(), "/health")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
