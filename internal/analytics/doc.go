// Package analytics implements the aggregation core over the survey
// dataset: grouped share tables, multi-select answer expansion, cohort
// classification, lifecycle summaries, period and year-over-year
// comparisons, and percentile clipping.
//
// Every aggregation is a pure function over the immutable record set.
// Empty filter results come back as explicit sentinels (zero-count
// Stats, nil gaps, empty tables), never as errors, so callers can tell
// "no data" apart from a failure. Ties in top-N rankings keep
// first-encountered order and peak-share ties resolve to the earliest
// year; both rules are deterministic regardless of map iteration.
//
// ResultCache provides optional memoization keyed by the aggregation
// parameters; it lives and dies with the dataset it was computed from.
package analytics
