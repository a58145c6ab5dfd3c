package dataset

// NullString is a string survey answer that may be missing.
// A missing answer is distinct from an empty one.
type NullString struct {
	Value string
	Valid bool
}

// String creates a present NullString
func String(v string) NullString {
	return NullString{Value: v, Valid: true}
}

// NullFloat is a numeric survey answer that may be missing
type NullFloat struct {
	Value float64
	Valid bool
}

// Float creates a present NullFloat
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// SurveyRecord is one harmonized survey response. Year is the only
// required field; every other answer is optional and modeled as an
// explicit nullable so that "missing" never collides with a real value.
type SurveyRecord struct {
	Year                 int
	WorkMode             NullString
	CompanySize          NullString
	JobSatisfaction      NullFloat
	CompensationAnnual   NullFloat
	ExperienceYearsCode  NullFloat
	LanguagesWorkedWith  NullString
	FrameworksWorkedWith NullString
}

// Dataset holds the immutable in-memory survey table. It is built once
// at startup and never mutated afterwards; aggregations read it freely
// from multiple goroutines.
type Dataset struct {
	Records []SurveyRecord
	Years   []int // distinct observed years, ascending
}

// Len returns the number of loaded records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
