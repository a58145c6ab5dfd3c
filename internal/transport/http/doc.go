// Package http provides the HTTP transport layer for the survey
// analytics API.
//
// Handlers are thin adapters between chi routes and the
// AnalyticsService: they parse query parameters, call one service
// method, and render the result as JSON with go-chi/render. Error
// responses follow RFC 7807 via the shared ErrorHandler.
//
// Routes are versioned under /api/v1; /health and /metrics sit at the
// root outside the version prefix.
package http
