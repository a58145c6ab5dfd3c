package analytics

import (
	"fmt"
	"math"
	"sort"

	"sopulse/internal/dataset"
)

// PeriodStats computes descriptive statistics over a numeric field for
// the records inside the period that pass the filter. A nil filter
// accepts every record. When no record qualifies, the zero-sentinel
// Stats (Count 0, all statistics 0) is returned instead of an error;
// callers must check Count before trusting the mean.
func PeriodStats(records []dataset.SurveyRecord, metric NumericField, filter RecordFilter, period Period) Stats {
	var values []float64

	for _, rec := range records {
		if !period.Contains(rec.Year) {
			continue
		}
		if filter != nil && !filter(rec) {
			continue
		}
		v := metric(rec)
		if !v.Valid {
			continue
		}
		values = append(values, v.Value)
	}

	return describe(values)
}

// describe reduces a value set to its descriptive statistics
func describe(values []float64) Stats {
	n := len(values)
	if n == 0 {
		return Stats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	// Sample standard deviation; a single observation has no spread.
	var std float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return Stats{
		Mean:   mean,
		Median: median,
		Std:    std,
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Change returns the post-period mean minus the pre-period mean of the
// metric over the filtered records. When either period has zero
// qualifying records the result is 0, which deliberately conflates "no
// data" with "no change"; check the period counts separately when the
// distinction matters.
func Change(records []dataset.SurveyRecord, metric NumericField, filter RecordFilter, pre, post Period) float64 {
	preStats := PeriodStats(records, metric, filter, pre)
	postStats := PeriodStats(records, metric, filter, post)

	if preStats.Count == 0 || postStats.Count == 0 {
		return 0
	}
	return postStats.Mean - preStats.Mean
}

// Gap returns max share minus min share across the categories observed
// in the given year, or nil when fewer than two categories are
// observed there.
func Gap(rows []ShareRow, year int) *float64 {
	var shares []float64
	for _, row := range rows {
		if row.Year == year {
			shares = append(shares, row.Share)
		}
	}

	if len(shares) < 2 {
		return nil
	}

	lo, hi := shares[0], shares[0]
	for _, s := range shares[1:] {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}

	gap := hi - lo
	return &gap
}

// flexibleWorkModes are the work modes counted as flexible arrangements
var flexibleWorkModes = map[string]struct{}{
	"remote": {},
	"hybrid": {},
}

// FlexibilityBySizeYear computes, per (year, company size) cell, the
// count of respondents with a flexible arrangement (remote or hybrid),
// the count of respondents with any known work mode, and the flexible
// percentage. Records missing either work mode or company size are
// excluded. A cell with zero known work modes reports Pct 0. Rows come
// back ordered by year ascending, then company-size rank.
func FlexibilityBySizeYear(records []dataset.SurveyRecord) []FlexibilityRow {
	type cell struct {
		year int
		size string
	}

	flexible := make(map[cell]int)
	totals := make(map[cell]int)
	var order []cell

	for _, rec := range records {
		if !rec.WorkMode.Valid || !rec.CompanySize.Valid {
			continue
		}

		c := cell{year: rec.Year, size: rec.CompanySize.Value}
		if _, seen := totals[c]; !seen {
			order = append(order, c)
		}
		totals[c]++
		if _, ok := flexibleWorkModes[rec.WorkMode.Value]; ok {
			flexible[c]++
		}
	}

	rows := make([]FlexibilityRow, 0, len(order))
	for _, c := range order {
		total := totals[c]
		var pct float64
		if total > 0 {
			pct = 100 * float64(flexible[c]) / float64(total)
		}
		rows = append(rows, FlexibilityRow{
			Year:        c.year,
			CompanySize: c.size,
			Flexible:    flexible[c],
			Total:       total,
			Pct:         pct,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return dataset.SizeRank(rows[i].CompanySize) < dataset.SizeRank(rows[j].CompanySize)
	})

	return rows
}

// FlexibilityGap returns the spread (max minus min flexibility
// percentage) across company sizes for one year, or nil when fewer
// than two sizes are observed that year.
func FlexibilityGap(rows []FlexibilityRow, year int) *float64 {
	var pcts []float64
	for _, row := range rows {
		if row.Year == year {
			pcts = append(pcts, row.Pct)
		}
	}

	if len(pcts) < 2 {
		return nil
	}

	lo, hi := pcts[0], pcts[0]
	for _, p := range pcts[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}

	gap := hi - lo
	return &gap
}

// YearOverYear derives share deltas between each pair of consecutive
// observed years, per category. A gap in a category's year sequence
// simply produces no transition through it. Transitions are labeled
// "prevYear-currYear".
func YearOverYear(rows []ShareRow) []Transition {
	byCategory := make(map[string][]ShareRow)
	var order []string

	for _, row := range rows {
		if _, seen := byCategory[row.Category]; !seen {
			order = append(order, row.Category)
		}
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	var out []Transition
	for _, category := range order {
		series := byCategory[category]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Year < series[j].Year
		})

		for i := 1; i < len(series); i++ {
			prev, curr := series[i-1], series[i]
			out = append(out, Transition{
				Label:    fmt.Sprintf("%d-%d", prev.Year, curr.Year),
				Category: category,
				Delta:    curr.Share - prev.Share,
			})
		}
	}

	return out
}

// FilteredVsOverall compares the category-share distribution of a
// filtered subset against the overall population over the same field,
// aligned by (year, category). Both shares are rounded to one decimal
// before the delta is taken, matching how the paired bars are
// displayed. A side where the category is unobserved contributes a 0
// share. Set multiValue for delimiter-joined fields such as languages.
func FilteredVsOverall(records []dataset.SurveyRecord, filter RecordFilter, field StringField, multiValue bool) []ShareComparison {
	overall := SharesByYear(records, field, multiValue)

	var subset []dataset.SurveyRecord
	for _, rec := range records {
		if filter == nil || filter(rec) {
			subset = append(subset, rec)
		}
	}
	filtered := SharesByYear(subset, field, multiValue)

	type cell struct {
		year     int
		category string
	}

	overallShare := make(map[cell]float64, len(overall))
	var order []cell
	for _, row := range overall {
		overallShare[cell{row.Year, row.Category}] = row.Share
		order = append(order, cell{row.Year, row.Category})
	}

	filteredShare := make(map[cell]float64, len(filtered))
	for _, row := range filtered {
		c := cell{row.Year, row.Category}
		filteredShare[c] = row.Share
		if _, ok := overallShare[c]; !ok {
			order = append(order, c)
		}
	}

	out := make([]ShareComparison, 0, len(order))
	for _, c := range order {
		o := round1(overallShare[c])
		f := round1(filteredShare[c])
		out = append(out, ShareComparison{
			Year:          c.year,
			Category:      c.category,
			OverallShare:  o,
			FilteredShare: f,
			Delta:         f - o,
		})
	}

	return out
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
