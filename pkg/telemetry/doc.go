// Package telemetry groups the observability packages:
//
//   - logging: slog construction with request ID propagation
//   - metrics: Prometheus collectors for fetches, schemas and validations
//   - health: liveness and readiness probes
package telemetry
