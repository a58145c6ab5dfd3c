// Package services implements the business logic layer between the HTTP
// handlers and the analytics primitives. The analytics service owns the
// loaded dataset, applies the configured cohorts and periods, and
// memoizes aggregation results so repeated requests do not recompute
// over the full dataset.
package services
