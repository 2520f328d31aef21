// Package tracing sets up the OpenTelemetry tracer provider.
//
// Spans are batched and exported to the configured backend:
//   - none: spans are recorded for trace ids but not exported
//   - stdout: pretty-printed JSON on stdout, for local debugging
//   - otlp: OTLP over gRPC to a collector
package tracing
