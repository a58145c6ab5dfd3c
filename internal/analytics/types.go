package analytics

import "sopulse/internal/dataset"

// StringField selects a categorical survey answer from a record
type StringField func(dataset.SurveyRecord) dataset.NullString

// NumericField selects a numeric survey answer from a record
type NumericField func(dataset.SurveyRecord) dataset.NullFloat

// RecordFilter reports whether a record belongs to a subset
type RecordFilter func(dataset.SurveyRecord) bool

// Canned field accessors for the harmonized schema
var (
	WorkModeField    StringField = func(r dataset.SurveyRecord) dataset.NullString { return r.WorkMode }
	CompanySizeField StringField = func(r dataset.SurveyRecord) dataset.NullString { return r.CompanySize }
	LanguagesField   StringField = func(r dataset.SurveyRecord) dataset.NullString { return r.LanguagesWorkedWith }
	FrameworksField  StringField = func(r dataset.SurveyRecord) dataset.NullString { return r.FrameworksWorkedWith }

	JobSatisfactionField NumericField = func(r dataset.SurveyRecord) dataset.NullFloat { return r.JobSatisfaction }
	CompensationField    NumericField = func(r dataset.SurveyRecord) dataset.NullFloat { return r.CompensationAnnual }
	ExperienceField      NumericField = func(r dataset.SurveyRecord) dataset.NullFloat { return r.ExperienceYearsCode }
)

// Observation is one (record, category value) fact row. Multi-select
// answers explode into several observations per record; single-valued
// answers produce at most one.
type Observation struct {
	Record dataset.SurveyRecord
	Value  string
}

// ShareRow is one (year, category) cell of a share table. Share is the
// percentage of that year's non-missing observations falling into the
// category, at full float precision.
type ShareRow struct {
	Year     int     `json:"year"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// LifecycleSummary describes one category's trajectory over time
type LifecycleSummary struct {
	Category  string  `json:"category"`
	FirstYear int     `json:"first_year"`
	PeakYear  int     `json:"peak_year"`
	PeakShare float64 `json:"peak_share"`
}

// Stats holds descriptive statistics over a numeric field. A Count of
// zero means the filtered set was empty and every statistic is the
// zero sentinel, not a measurement.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Period is an inclusive range of survey years
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the year falls inside the period
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// FlexibilityRow is one (year, company size) cell of the flexibility
// table. Flexible counts remote plus hybrid respondents; Total counts
// all respondents with a known work mode in that cell.
type FlexibilityRow struct {
	Year        int     `json:"year"`
	CompanySize string  `json:"company_size"`
	Flexible    int     `json:"flexible"`
	Total       int     `json:"total"`
	Pct         float64 `json:"pct"`
}

// Transition is one year-over-year share delta for a category.
// Label is "prevYear-currYear" for the consecutive observed pair.
type Transition struct {
	Label    string  `json:"transition"`
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
}

// ShareComparison pairs a category's share in a filtered subset with
// its share in the overall population for the same year. Both shares
// are rounded to one decimal and Delta is their difference in
// percentage points.
type ShareComparison struct {
	Year          int     `json:"year"`
	Category      string  `json:"category"`
	OverallShare  float64 `json:"overall_share"`
	FilteredShare float64 `json:"filtered_share"`
	Delta         float64 `json:"delta"`
}

// ClippedValue pairs a record with its percentile-bounded numeric
// value. Missing input stays missing.
type ClippedValue struct {
	Record  dataset.SurveyRecord
	Clipped dataset.NullFloat
}

// ClipBounds holds the dataset-wide quantile bounds used for clipping
type ClipBounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}
