// Package server exposes nickname classification and document validation
// over HTTP.
//
// Routes:
//
//	POST /v1/nicknames/classify   classify one or more names
//	GET  /v1/nicknames/lists      the lists extracted from the current script
//	POST /v1/documents/validate   validate a sprite JSON document (the body)
//	GET  /healthz                 liveness
//	GET  /readyz                  readiness checks, 503 when any fails
//	GET  /metrics                 Prometheus metrics, when a handler is given
//
// Every request passes through recovery, request logging and request ID
// middleware. The request ID is taken from X-Request-ID or generated, echoed
// in the response and attached to log records.
//
// Validation failures caused by the document are not HTTP errors in the
// transport sense: they are reported with status 422 and a schema.Report
// body. Failures to obtain a schema are reported with status 502.
package server
