// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Predictions (POST /predict, and the legacy POST /predict/)
//   - Liveness and readiness probes
//   - Prometheus metrics
//   - A WebSocket stream of prediction events, when configured
//
// Every response carries an X-Process-Time-ms header. Errors that escape a
// handler, including panics, are turned into a generic 500 carrying the
// request's trace id.
package http
