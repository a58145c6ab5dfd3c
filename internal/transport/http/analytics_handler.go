package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sopulse/internal/analytics"
	apierrors "sopulse/internal/errors"
	"sopulse/internal/services"
)

// AnalyticsHandler serves the survey aggregate tables
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/workmodes", func(r chi.Router) {
		r.Get("/shares", h.GetWorkModeShares)
		r.Get("/yoy", h.GetWorkModeYoY)
		r.Get("/gap", h.GetWorkModeGap)
	})
	r.Route("/flexibility", func(r chi.Router) {
		r.Get("/", h.GetFlexibility)
		r.Get("/gap", h.GetFlexibilityGap)
	})
	r.Route("/satisfaction", func(r chi.Router) {
		r.Get("/stats", h.GetSatisfactionStats)
		r.Get("/change", h.GetSatisfactionChange)
	})
	r.Route("/languages", func(r chi.Router) {
		r.Get("/shares", h.GetLanguageShares)
		r.Get("/adoption", h.GetLanguageAdoption)
	})
	r.Route("/frameworks", func(r chi.Router) {
		r.Get("/shares", h.GetFrameworkShares)
		r.Get("/cohorts", h.GetFrameworkCohorts)
		r.Get("/lifecycles", h.GetFrameworkLifecycles)
	})
	r.Route("/compensation", func(r chi.Router) {
		r.Get("/scatter", h.GetCompensationScatter)
	})
}

// GetWorkModeShares returns the work-mode share table
func (h *AnalyticsHandler) GetWorkModeShares(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.WorkModeShares(r.Context()))
}

// GetWorkModeYoY returns year-over-year work-mode deltas
func (h *AnalyticsHandler) GetWorkModeYoY(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.WorkModeYearOverYear(r.Context()))
}

// gapResponse reports a share spread for one year; Gap is null when
// fewer than two categories were observed.
type gapResponse struct {
	Year int      `json:"year"`
	Gap  *float64 `json:"gap"`
}

// GetWorkModeGap returns the work-mode share spread for one year
func (h *AnalyticsHandler) GetWorkModeGap(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, gapResponse{Year: year, Gap: h.service.WorkModeGap(r.Context(), year)})
}

// GetFlexibility returns flexible-work percentages per year and size
func (h *AnalyticsHandler) GetFlexibility(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FlexibilityTable(r.Context()))
}

// GetFlexibilityGap returns the flexibility spread for one year
func (h *AnalyticsHandler) GetFlexibilityGap(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, gapResponse{Year: year, Gap: h.service.FlexibilityGap(r.Context(), year)})
}

// satisfactionStatsResponse carries period statistics for a work mode
type satisfactionStatsResponse struct {
	WorkMode string           `json:"work_mode"`
	Period   analytics.Period `json:"period"`
	Stats    analytics.Stats  `json:"stats"`
}

// GetSatisfactionStats returns satisfaction statistics for a work mode
// over the pre or post comparison period (period=pre|post, default pre).
func (h *AnalyticsHandler) GetSatisfactionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workMode := r.URL.Query().Get("work_mode")

	var period analytics.Period
	switch r.URL.Query().Get("period") {
	case "", "pre":
		period = h.service.PrePeriod()
	case "post":
		period = h.service.PostPeriod()
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("period", "must be pre or post"))
		return
	}

	render.JSON(w, r, satisfactionStatsResponse{
		WorkMode: workMode,
		Period:   period,
		Stats:    h.service.SatisfactionStats(ctx, workMode, period),
	})
}

// satisfactionChangeResponse carries the pre-to-post mean delta.
// A zero change with an empty period is indistinguishable from a true
// zero in Change alone, so both period counts are included.
type satisfactionChangeResponse struct {
	WorkMode  string  `json:"work_mode"`
	Change    float64 `json:"change"`
	PreCount  int     `json:"pre_count"`
	PostCount int     `json:"post_count"`
}

// GetSatisfactionChange returns the satisfaction mean change for a
// work mode between the configured pre and post periods.
func (h *AnalyticsHandler) GetSatisfactionChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workMode := r.URL.Query().Get("work_mode")

	render.JSON(w, r, satisfactionChangeResponse{
		WorkMode:  workMode,
		Change:    h.service.SatisfactionChange(ctx, workMode),
		PreCount:  h.service.SatisfactionStats(ctx, workMode, h.service.PrePeriod()).Count,
		PostCount: h.service.SatisfactionStats(ctx, workMode, h.service.PostPeriod()).Count,
	})
}

// GetLanguageShares returns the top-language share table
func (h *AnalyticsHandler) GetLanguageShares(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LanguageShares(r.Context()))
}

// GetLanguageAdoption compares language shares of experienced
// respondents against the whole population (min_experience query
// parameter, default 10 years).
func (h *AnalyticsHandler) GetLanguageAdoption(w http.ResponseWriter, r *http.Request) {
	minYears := 10.0
	if raw := r.URL.Query().Get("min_experience"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("min_experience", "must be a non-negative number"))
			return
		}
		minYears = parsed
	}

	render.JSON(w, r, h.service.LanguageAdoptionByExperience(r.Context(), minYears))
}

// GetFrameworkShares returns the top-framework share table
func (h *AnalyticsHandler) GetFrameworkShares(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FrameworkShares(r.Context()))
}

// GetFrameworkCohorts returns framework shares with cohort labels
func (h *AnalyticsHandler) GetFrameworkCohorts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FrameworkCohorts(r.Context()))
}

// GetFrameworkLifecycles returns first/peak summaries per framework
func (h *AnalyticsHandler) GetFrameworkLifecycles(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FrameworkLifecycles(r.Context()))
}

// scatterPoint is one respondent in the compensation scatter
type scatterPoint struct {
	Year         int      `json:"year"`
	Experience   *float64 `json:"experience,omitempty"`
	Compensation float64  `json:"compensation"`
}

// GetCompensationScatter returns the clipped compensation scatter
// input. Respondents without a compensation answer are omitted.
func (h *AnalyticsHandler) GetCompensationScatter(w http.ResponseWriter, r *http.Request) {
	scatter := h.service.CompensationScatter(r.Context())

	points := make([]scatterPoint, 0, len(scatter))
	for _, cv := range scatter {
		if !cv.Clipped.Valid {
			continue
		}
		p := scatterPoint{Year: cv.Record.Year, Compensation: cv.Clipped.Value}
		if cv.Record.ExperienceYearsCode.Valid {
			exp := cv.Record.ExperienceYearsCode.Value
			p.Experience = &exp
		}
		points = append(points, p)
	}

	render.JSON(w, r, points)
}

// yearParam parses the mandatory year query parameter
func (h *AnalyticsHandler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid year parameter",
			slog.String("year", raw))
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "must be an integer"))
		return 0, false
	}
	return year, true
}
