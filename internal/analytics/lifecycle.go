package analytics

import "sopulse/internal/errors"

// Lifecycle summarizes one category's share time series: the first
// year it appears, and the year and value of its peak share. When
// several years tie for the peak, the earliest year wins regardless of
// input order. An empty series is a caller error; filter out
// categories with zero observations before calling.
func Lifecycle(category string, rows []ShareRow) (LifecycleSummary, error) {
	if len(rows) == 0 {
		return LifecycleSummary{}, errors.NewAppValidationError(
			"lifecycle requires at least one share row for category " + category)
	}

	summary := LifecycleSummary{
		Category:  category,
		FirstYear: rows[0].Year,
		PeakYear:  rows[0].Year,
		PeakShare: rows[0].Share,
	}

	for _, row := range rows[1:] {
		if row.Year < summary.FirstYear {
			summary.FirstYear = row.Year
		}
		if row.Share > summary.PeakShare ||
			(row.Share == summary.PeakShare && row.Year < summary.PeakYear) {
			summary.PeakYear = row.Year
			summary.PeakShare = row.Share
		}
	}

	return summary, nil
}

// Lifecycles computes a LifecycleSummary per distinct category in the
// share table, in first-encountered category order. Categories absent
// from the table produce no summary, so the per-category call can
// never see an empty series.
func Lifecycles(rows []ShareRow) []LifecycleSummary {
	byCategory := make(map[string][]ShareRow)
	var order []string

	for _, row := range rows {
		if _, seen := byCategory[row.Category]; !seen {
			order = append(order, row.Category)
		}
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	out := make([]LifecycleSummary, 0, len(order))
	for _, category := range order {
		summary, err := Lifecycle(category, byCategory[category])
		if err != nil {
			continue
		}
		out = append(out, summary)
	}
	return out
}
