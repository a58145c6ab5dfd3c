// Package dataset defines the harmonized survey schema and loads the
// survey CSV into an immutable in-memory table.
//
// The package owns the canonicalization rules applied at ingestion:
// work-mode answers collapse onto a small canonical vocabulary
// (remote, hybrid, on_site), company-size labels have their corrupted
// dash characters repaired, and numeric cells that fail to parse
// become missing values rather than errors.
//
// A Dataset is built once at startup and never mutated afterwards;
// all aggregation code reads it concurrently without locking.
package dataset
