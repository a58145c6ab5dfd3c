package analytics

import (
	"regexp"
	"strings"

	"sopulse/internal/dataset"
)

// multiValueDelimiters splits delimiter-joined multi-select answers.
// Any of semicolon, comma, pipe or forward slash separates tokens.
var multiValueDelimiters = regexp.MustCompile(`[;,|/]`)

// ExpandField explodes a multi-select answer into one observation per
// token. Tokens are trimmed and empty tokens dropped; a missing answer
// contributes zero observations. Every observation carries the full
// source record, so downstream filters still see the other fields.
// Relative order of distinct input records is preserved.
func ExpandField(records []dataset.SurveyRecord, field StringField) []Observation {
	var out []Observation

	for _, rec := range records {
		v := field(rec)
		if !v.Valid {
			continue
		}

		for _, token := range multiValueDelimiters.Split(v.Value, -1) {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			out = append(out, Observation{Record: rec, Value: token})
		}
	}

	return out
}

// SingleField produces one observation per record with a non-missing
// value for the field. This is the single-valued counterpart of
// ExpandField for answers such as work mode or company size.
func SingleField(records []dataset.SurveyRecord, field StringField) []Observation {
	var out []Observation

	for _, rec := range records {
		v := field(rec)
		if !v.Valid {
			continue
		}
		out = append(out, Observation{Record: rec, Value: v.Value})
	}

	return out
}
