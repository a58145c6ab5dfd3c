package analytics

import (
	"sort"

	"sopulse/internal/dataset"
)

// SharesByYear computes the (year, category, count, share) table for a
// categorical field. The denominator for each year is the number of
// respondents with a non-missing answer, so for a single-valued field
// the shares in a year sum to 100. Set multiValue for delimiter-joined
// fields such as languages: each token counts toward its category but
// the denominator stays in respondent units, so those shares need not
// sum to 100 (one respondent can name several categories). A year with
// zero non-missing respondents never appears. Rows come back ordered
// by ascending year; within a year, categories keep first-encountered
// order, which downstream tie-breaking relies on.
func SharesByYear(records []dataset.SurveyRecord, field StringField, multiValue bool) []ShareRow {
	var obs []Observation
	if multiValue {
		obs = ExpandField(records, field)
	} else {
		obs = SingleField(records, field)
	}

	respondents := make(map[int]int)
	for _, r := range records {
		if field(r).Valid {
			respondents[r.Year]++
		}
	}

	return shareTable(obs, respondents)
}

// shareTable counts observations per (year, category) cell and divides
// by the supplied per-year denominators.
func shareTable(obs []Observation, yearTotals map[int]int) []ShareRow {
	type cell struct {
		year     int
		category string
	}

	counts := make(map[cell]int)
	var order []cell

	for _, o := range obs {
		c := cell{year: o.Record.Year, category: o.Value}
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		counts[c]++
	}

	rows := make([]ShareRow, 0, len(order))
	for _, c := range order {
		total := yearTotals[c.year]
		if total == 0 {
			continue
		}
		count := counts[c]
		rows = append(rows, ShareRow{
			Year:     c.year,
			Category: c.category,
			Count:    count,
			Share:    100 * float64(count) / float64(total),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Year < rows[j].Year
	})

	return rows
}

// TopCategories ranks categories by their total count across all
// years, descending. Ties keep the first-encountered order of the
// input rows. A nil scope ranks every category; a non-nil scope
// restricts the ranking to its members.
func TopCategories(rows []ShareRow, n int, scope []string) []string {
	var allowed map[string]struct{}
	if scope != nil {
		allowed = make(map[string]struct{}, len(scope))
		for _, s := range scope {
			allowed[s] = struct{}{}
		}
	}

	totals := make(map[string]int)
	var order []string

	for _, row := range rows {
		if allowed != nil {
			if _, ok := allowed[row.Category]; !ok {
				continue
			}
		}
		if _, seen := totals[row.Category]; !seen {
			order = append(order, row.Category)
		}
		totals[row.Category] += row.Count
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	if n < len(order) {
		order = order[:n]
	}
	return order
}

// FilterByCategories keeps only the share rows whose category is in
// the given list, preserving row order.
func FilterByCategories(rows []ShareRow, categories []string) []ShareRow {
	keep := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		keep[c] = struct{}{}
	}

	var out []ShareRow
	for _, row := range rows {
		if _, ok := keep[row.Category]; ok {
			out = append(out, row)
		}
	}
	return out
}
