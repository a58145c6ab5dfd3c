// Package app assembles and runs the web service: it loads
// configuration, initializes logging and telemetry, ingests the survey
// dataset, and serves the analytics API over HTTP with graceful
// shutdown on SIGINT/SIGTERM.
package app
